// Package observability wires OpenTelemetry tracing and metrics.
//
// When telemetry is disabled nothing is installed and the global no-op
// providers absorb every span and measurement, so callers never branch
// on whether it is enabled.
//
//	ctx, span := observability.StartSpan(ctx, observability.SpanTranscribeChunk)
//	defer span.End()
//	observability.SetSpanAttribute(ctx, observability.AttrChunkIndex, 2)
package observability
