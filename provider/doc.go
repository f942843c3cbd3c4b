// Package provider is the generic backend framework behind transcription
// engines, language models and external tools.
//
// A backend implements Provider (Name, IsAvailable) plus a domain method.
// Factories registered in a Registry build a fresh backend from a config
// map on every Create; callers own the instances.
//
// RequestResponse[I, O] is the call shape the cross-cutting wrappers
// understand:
//
//	wrapped := provider.Chain(
//	    provider.WithLogging[In, Out](log),
//	    provider.WithMetrics[In, Out](metrics),
//	    provider.WithTracing[In, Out]("transcription"),
//	)(provider.WithResilience(raw, resilienceCfg))
package provider
