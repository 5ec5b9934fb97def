package telemetry

import (
	"context"

	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.trai.ch/texbox/internal/core/ports"
)

// InstrumentationName names the tracer used for build spans.
const InstrumentationName = "go.trai.ch/texbox"

// Provider owns a tracer provider whose spans are bridged to a renderer.
type Provider struct {
	tp     *sdktrace.TracerProvider
	tracer *OTelTracer
}

// NewProvider creates a provider streaming spans and output to renderer.
// A nil renderer still records spans but presents nothing.
func NewProvider(renderer ports.Renderer) *Provider {
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithSpanProcessor(NewBridge(renderer)),
	)

	tracer := NewOTelTracer(tp.Tracer(InstrumentationName))
	if renderer != nil {
		tracer = tracer.WithRenderer(renderer)
	}

	return &Provider{tp: tp, tracer: tracer}
}

// Tracer returns the tracer bound to this provider.
func (p *Provider) Tracer() *OTelTracer {
	return p.tracer
}

// Shutdown ends span processing and flushes the renderer.
func (p *Provider) Shutdown(ctx context.Context) error {
	return p.tp.Shutdown(ctx)
}
