package observability

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "github.com/matzehuels/codecity"

// TracingConfig configures [InitTracing].
type TracingConfig struct {
	ServiceName    string
	ServiceVersion string

	// Endpoint is an OTLP/HTTP URL. Empty falls back to
	// OTEL_EXPORTER_OTLP_ENDPOINT, and if that is unset too spans are
	// exported to Writer.
	Endpoint string

	// Writer receives spans as JSON when no endpoint is configured.
	// Nil discards them.
	Writer io.Writer
}

// InitTracing installs a global tracer provider and returns its shutdown
// function, which flushes pending spans.
func InitTracing(ctx context.Context, cfg TracingConfig) (func(context.Context) error, error) {
	// No schema URL here; the merged resource takes the default's.
	res, err := resource.Merge(
		resource.Default(),
		resource.NewSchemaless(
			semconv.ServiceName(cfg.ServiceName),
			semconv.ServiceVersion(cfg.ServiceVersion),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("create resource: %w", err)
	}

	endpoint := cfg.Endpoint
	if endpoint == "" {
		endpoint = os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT")
	}

	var exporter sdktrace.SpanExporter
	if endpoint != "" {
		exporter, err = otlptracehttp.New(ctx, otlptracehttp.WithEndpointURL(endpoint))
		if err != nil {
			return nil, fmt.Errorf("create OTLP exporter: %w", err)
		}
	} else {
		w := cfg.Writer
		if w == nil {
			w = io.Discard
		}
		exporter, err = stdouttrace.New(stdouttrace.WithWriter(w))
		if err != nil {
			return nil, fmt.Errorf("create stdout exporter: %w", err)
		}
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
	)
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(propagation.TraceContext{}, propagation.Baggage{}))

	return tp.Shutdown, nil
}

// OTelHooks implements every hook interface on top of the global
// OpenTelemetry tracer and meter providers. Completed operations become
// spans back-dated by their duration; cache events become counters.
type OTelHooks struct {
	tracer trace.Tracer

	cacheHits   metric.Int64Counter
	cacheMisses metric.Int64Counter
	cacheBytes  metric.Int64Counter
	requests    metric.Int64Counter
}

// NewOTelHooks creates hooks bound to the current global providers.
func NewOTelHooks() *OTelHooks {
	meter := otel.Meter(instrumentationName)
	h := &OTelHooks{tracer: otel.Tracer(instrumentationName)}
	// Instrument creation only fails for invalid names; the returned no-op
	// instruments are still usable.
	h.cacheHits, _ = meter.Int64Counter("codecity.cache.hits")
	h.cacheMisses, _ = meter.Int64Counter("codecity.cache.misses")
	h.cacheBytes, _ = meter.Int64Counter("codecity.cache.bytes_written", metric.WithUnit("By"))
	h.requests, _ = meter.Int64Counter("codecity.http.requests")
	return h
}

func (h *OTelHooks) span(ctx context.Context, name string, duration time.Duration, err error, attrs ...attribute.KeyValue) {
	end := time.Now()
	_, span := h.tracer.Start(ctx, name,
		trace.WithTimestamp(end.Add(-duration)),
		trace.WithAttributes(attrs...),
	)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End(trace.WithTimestamp(end))
}

// OnPackStart does nothing; the span is recorded on completion.
func (h *OTelHooks) OnPackStart(context.Context, int) {}

// OnPackComplete records a codecity.pack span.
func (h *OTelHooks) OnPackComplete(ctx context.Context, s PackStats, d time.Duration, err error) {
	h.span(ctx, "codecity.pack", d, err,
		attribute.Int("city.groups", s.Groups),
		attribute.Int("city.leaves", s.Leaves),
		attribute.Int("city.width", s.Width),
		attribute.Int("city.depth", s.Depth),
		attribute.Int("city.height", s.Height),
	)
}

// OnRenderStart does nothing; the span is recorded on completion.
func (h *OTelHooks) OnRenderStart(context.Context, string) {}

// OnRenderComplete records a codecity.render span.
func (h *OTelHooks) OnRenderComplete(ctx context.Context, format string, size int, d time.Duration, err error) {
	h.span(ctx, "codecity.render", d, err,
		attribute.String("render.format", format),
		attribute.Int("render.bytes", size),
	)
}

// OnCacheHit counts a hit.
func (h *OTelHooks) OnCacheHit(ctx context.Context, keyType string) {
	h.cacheHits.Add(ctx, 1, metric.WithAttributes(attribute.String("cache.key_type", keyType)))
}

// OnCacheMiss counts a miss.
func (h *OTelHooks) OnCacheMiss(ctx context.Context, keyType string) {
	h.cacheMisses.Add(ctx, 1, metric.WithAttributes(attribute.String("cache.key_type", keyType)))
}

// OnCacheSet counts bytes written.
func (h *OTelHooks) OnCacheSet(ctx context.Context, keyType string, size int) {
	h.cacheBytes.Add(ctx, int64(size), metric.WithAttributes(attribute.String("cache.key_type", keyType)))
}

// OnRequest counts an incoming request.
func (h *OTelHooks) OnRequest(ctx context.Context, method, route string) {
	h.requests.Add(ctx, 1, metric.WithAttributes(
		attribute.String("http.request.method", method),
		attribute.String("http.route", route),
	))
}

// OnResponse records an http.server span.
func (h *OTelHooks) OnResponse(ctx context.Context, method, route string, status int, d time.Duration) {
	var err error
	if status >= 500 {
		err = fmt.Errorf("status %d", status)
	}
	h.span(ctx, method+" "+route, d, err,
		attribute.String("http.request.method", method),
		attribute.String("http.route", route),
		attribute.Int("http.response.status_code", status),
	)
}

var (
	_ PipelineHooks = (*OTelHooks)(nil)
	_ CacheHooks    = (*OTelHooks)(nil)
	_ ServerHooks   = (*OTelHooks)(nil)
)
