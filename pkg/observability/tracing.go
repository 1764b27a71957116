package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
	"go.opentelemetry.io/otel/trace"
)

// TracerName is the instrumentation scope of stepflow spans.
const TracerName = "github.com/matzehuels/stepflow"

// TracingConfig configures OpenTelemetry tracing.
type TracingConfig struct {
	ServiceName    string
	ServiceVersion string
	// OTLPEndpoint is the OTLP gRPC endpoint, e.g. "localhost:4317". Empty
	// disables export.
	OTLPEndpoint string
	// SampleRate is the fraction of traces kept, 0 to 1.
	SampleRate float64
}

// TracerProvider wraps the SDK provider so it can be shut down.
type TracerProvider struct {
	provider *sdktrace.TracerProvider
	tracer   trace.Tracer
}

// InitTracing sets up a global tracer provider exporting over OTLP gRPC.
// Without an endpoint it returns the global (no-op) tracer.
func InitTracing(ctx context.Context, cfg TracingConfig) (*TracerProvider, error) {
	if cfg.ServiceName == "" {
		cfg.ServiceName = "stepflow"
	}
	if cfg.OTLPEndpoint == "" {
		return &TracerProvider{tracer: otel.Tracer(TracerName)}, nil
	}

	exporter, err := otlptracegrpc.New(ctx,
		otlptracegrpc.WithEndpoint(cfg.OTLPEndpoint),
		otlptracegrpc.WithInsecure(),
	)
	if err != nil {
		return nil, fmt.Errorf("create OTLP exporter: %w", err)
	}

	res, err := resource.Merge(
		resource.Default(),
		resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceName(cfg.ServiceName),
			semconv.ServiceVersion(cfg.ServiceVersion),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("create resource: %w", err)
	}

	provider := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sampler(cfg.SampleRate)),
	)
	otel.SetTracerProvider(provider)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	return &TracerProvider{provider: provider, tracer: provider.Tracer(TracerName)}, nil
}

func sampler(rate float64) sdktrace.Sampler {
	switch {
	case rate <= 0 || rate >= 1:
		return sdktrace.AlwaysSample()
	default:
		return sdktrace.TraceIDRatioBased(rate)
	}
}

// Shutdown flushes and stops the provider.
func (tp *TracerProvider) Shutdown(ctx context.Context) error {
	if tp.provider != nil {
		return tp.provider.Shutdown(ctx)
	}
	return nil
}

// Tracer returns the underlying tracer.
func (tp *TracerProvider) Tracer() trace.Tracer {
	return tp.tracer
}

// =============================================================================
// Tracing Hooks
// =============================================================================

// TracingHooks turns hook events into spans. Hooks report completion with a
// duration, so each span is started retroactively at now minus duration and
// ended immediately. Start events are not recorded.
type TracingHooks struct {
	NoopPipelineHooks
	NoopCacheHooks
	NoopServerHooks
	tracer trace.Tracer
}

// NewTracingHooks creates hooks that record spans on tracer.
func NewTracingHooks(tracer trace.Tracer) *TracingHooks {
	return &TracingHooks{tracer: tracer}
}

func (h *TracingHooks) span(ctx context.Context, name string, d time.Duration, err error, attrs ...attribute.KeyValue) {
	end := time.Now()
	_, span := h.tracer.Start(ctx, name,
		trace.WithTimestamp(end.Add(-d)),
		trace.WithAttributes(attrs...),
	)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End(trace.WithTimestamp(end))
}

// OnLayoutComplete records a "layout" span.
func (h *TracingHooks) OnLayoutComplete(ctx context.Context, strategy string, nodeCount int, d time.Duration, err error) {
	h.span(ctx, "layout", d, err,
		attribute.String("stepflow.strategy", strategy),
		attribute.Int("stepflow.node_count", nodeCount),
	)
}

// OnRenderComplete records a "render" span.
func (h *TracingHooks) OnRenderComplete(ctx context.Context, format string, size int, d time.Duration, err error) {
	h.span(ctx, "render", d, err,
		attribute.String("stepflow.format", format),
		attribute.Int("stepflow.size_bytes", size),
	)
}

// OnCacheHit adds a cache event to the span in ctx, if any.
func (h *TracingHooks) OnCacheHit(ctx context.Context, keyType string) {
	trace.SpanFromContext(ctx).AddEvent("cache.hit", trace.WithAttributes(attribute.String("stepflow.cache.key_type", keyType)))
}

// OnCacheMiss adds a cache event to the span in ctx, if any.
func (h *TracingHooks) OnCacheMiss(ctx context.Context, keyType string) {
	trace.SpanFromContext(ctx).AddEvent("cache.miss", trace.WithAttributes(attribute.String("stepflow.cache.key_type", keyType)))
}

// OnResponse records an "http <method> <route>" span.
func (h *TracingHooks) OnResponse(ctx context.Context, method, route string, status int, d time.Duration) {
	var err error
	if status >= 500 {
		err = fmt.Errorf("status %d", status)
	}
	h.span(ctx, "http "+method+" "+route, d, err,
		attribute.String("http.request.method", method),
		attribute.String("http.route", route),
		attribute.Int("http.response.status_code", status),
	)
}

var (
	_ PipelineHooks = (*TracingHooks)(nil)
	_ CacheHooks    = (*TracingHooks)(nil)
	_ ServerHooks   = (*TracingHooks)(nil)
)
