package observability

import (
	"context"
	"log"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/prometheus"
	otelmetric "go.opentelemetry.io/otel/metric"
	metricnoop "go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/sdk/metric"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"
)

type Observability struct {
	meterProvider  *metric.MeterProvider
	tracerProvider *sdktrace.TracerProvider
	tracer         trace.Tracer
	runCounter     otelmetric.Int64Counter
	runDuration    otelmetric.Float64Histogram
}

// New exports metrics through the Prometheus registry served on /metrics.
func New(serviceName string, tracerOpts ...sdktrace.TracerProviderOption) *Observability {
	exporter, err := prometheus.New()
	if err != nil {
		log.Printf("Failed to create Prometheus exporter: %v", err)
		return NewNoop()
	}
	o := NewWithReader(serviceName, exporter, tracerOpts...)
	otel.SetMeterProvider(o.meterProvider)
	otel.SetTracerProvider(o.tracerProvider)
	return o
}

// NewWithReader wires an explicit metric reader, used by tests with a manual reader.
func NewWithReader(serviceName string, reader metric.Reader, tracerOpts ...sdktrace.TracerProviderOption) *Observability {
	provider := metric.NewMeterProvider(metric.WithReader(reader))
	meter := provider.Meter(serviceName)

	runCounter, _ := meter.Int64Counter(
		"fulfillment.runs",
		otelmetric.WithDescription("Number of consumer runs"),
	)

	runDuration, _ := meter.Float64Histogram(
		"fulfillment.duration",
		otelmetric.WithDescription("Consumer run duration"),
		otelmetric.WithUnit("ms"),
	)

	tp := sdktrace.NewTracerProvider(tracerOpts...)

	return &Observability{
		meterProvider:  provider,
		tracerProvider: tp,
		tracer:         tp.Tracer(serviceName),
		runCounter:     runCounter,
		runDuration:    runDuration,
	}
}

// NewNoop records nothing.
func NewNoop() *Observability {
	meter := metricnoop.NewMeterProvider().Meter("noop")
	runCounter, _ := meter.Int64Counter("fulfillment.runs")
	runDuration, _ := meter.Float64Histogram("fulfillment.duration")
	return &Observability{
		tracer:      tracenoop.NewTracerProvider().Tracer("noop"),
		runCounter:  runCounter,
		runDuration: runDuration,
	}
}

// StartSpan opens a child span of whatever span ctx carries.
func (o *Observability) StartSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return o.tracer.Start(ctx, name, trace.WithAttributes(attrs...))
}

// EndSpan marks the span failed when err is non-nil and ends it.
func EndSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

func (o *Observability) RecordRun(ctx context.Context, outcome string, duration time.Duration) {
	attrs := otelmetric.WithAttributes(attribute.String("outcome", outcome))
	if o.runCounter != nil {
		o.runCounter.Add(ctx, 1, attrs)
	}
	if o.runDuration != nil {
		o.runDuration.Record(ctx, float64(duration.Milliseconds()), attrs)
	}
}

func (o *Observability) Shutdown() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if o.tracerProvider != nil {
		_ = o.tracerProvider.Shutdown(ctx)
	}
	if o.meterProvider != nil {
		_ = o.meterProvider.Shutdown(ctx)
	}
}
