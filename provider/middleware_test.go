package provider_test

import (
	"context"
	"errors"
	"testing"

	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/kbukum/subtitler/logger"
	"github.com/kbukum/subtitler/observability"
	"github.com/kbukum/subtitler/provider"
)

type echoProvider struct {
	name string
	err  error
}

func (p *echoProvider) Name() string                       { return p.name }
func (p *echoProvider) IsAvailable(_ context.Context) bool { return true }
func (p *echoProvider) Execute(_ context.Context, in string) (string, error) {
	if p.err != nil {
		return "", p.err
	}
	return "echo:" + in, nil
}

type orderTracker struct {
	inner provider.RequestResponse[string, string]
	tag   string
	order *[]string
}

func (o *orderTracker) Name() string                         { return o.inner.Name() }
func (o *orderTracker) IsAvailable(ctx context.Context) bool { return o.inner.IsAvailable(ctx) }
func (o *orderTracker) Execute(ctx context.Context, input string) (string, error) {
	*o.order = append(*o.order, o.tag+":before")
	result, err := o.inner.Execute(ctx, input)
	*o.order = append(*o.order, o.tag+":after")
	return result, err
}

func TestChain_Order(t *testing.T) {
	var order []string
	mw := func(tag string) provider.Middleware[string, string] {
		return func(inner provider.RequestResponse[string, string]) provider.RequestResponse[string, string] {
			return &orderTracker{inner: inner, tag: tag, order: &order}
		}
	}
	wrapped := provider.Chain(mw("A"), mw("B"), mw("C"))(&echoProvider{name: "test"})
	if _, err := wrapped.Execute(context.Background(), "x"); err != nil {
		t.Fatal(err)
	}
	want := []string{"A:before", "B:before", "C:before", "C:after", "B:after", "A:after"}
	if len(order) != len(want) {
		t.Fatalf("order = %v", order)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Errorf("order[%d] = %q, want %q", i, order[i], want[i])
		}
	}
}

func TestChain_Empty(t *testing.T) {
	wrapped := provider.Chain[string, string]()(&echoProvider{name: "test"})
	result, err := wrapped.Execute(context.Background(), "hello")
	if err != nil || result != "echo:hello" {
		t.Fatalf("expected echo:hello, got %q, err %v", result, err)
	}
}

func TestFullChainPassesThroughErrors(t *testing.T) {
	metrics, err := observability.NewMetrics(observability.Meter("test"))
	if err != nil {
		t.Fatal(err)
	}
	boom := errors.New("backend rejected audio")
	tests := []struct {
		name    string
		inner   *echoProvider
		wantOut string
		wantErr error
	}{
		{"success", &echoProvider{name: "openai"}, "echo:chunk", nil},
		{"failure", &echoProvider{name: "openai", err: boom}, "", boom},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			wrapped := provider.Chain(
				provider.WithLogging[string, string](logger.NewDefault("test")),
				provider.WithMetrics[string, string](metrics),
				provider.WithTracing[string, string]("transcription"),
			)(tc.inner)
			if wrapped.Name() != "openai" || !wrapped.IsAvailable(context.Background()) {
				t.Fatal("middleware must delegate Name and IsAvailable")
			}
			out, err := wrapped.Execute(context.Background(), "chunk")
			if out != tc.wantOut || !errors.Is(err, tc.wantErr) {
				t.Errorf("got %q, %v; want %q, %v", out, err, tc.wantOut, tc.wantErr)
			}
		})
	}
}

func TestWithTracing_SpanName(t *testing.T) {
	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	defer otel.SetTracerProvider(prev)

	wrapped := provider.WithTracing[string, string]("transcription")(&echoProvider{name: "whisper"})
	_, _ = wrapped.Execute(context.Background(), "x")

	spans := exporter.GetSpans()
	if len(spans) != 1 || spans[0].Name != "transcription.whisper" {
		t.Fatalf("unexpected spans %+v", spans)
	}
}
