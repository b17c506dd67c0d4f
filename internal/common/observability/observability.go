package observability

import (
	"context"
	"fmt"
	"time"

	promclient "github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/jaeger"
	"go.opentelemetry.io/otel/exporters/prometheus"
	otelmetric "go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
)

// TracerName is the instrumentation scope used by the service clients.
const TracerName = "resume-checker"

type Observability struct {
	meterProvider  *metric.MeterProvider
	tracerProvider *sdktrace.TracerProvider
	meter          otelmetric.Meter
	tracer         trace.Tracer
	jobCounter     otelmetric.Int64Counter
	jobDuration    otelmetric.Float64Histogram
	runCounter     otelmetric.Int64Counter
}

type Options struct {
	ServiceName    string
	JaegerEndpoint string
	// Registerer defaults to the global Prometheus registry.
	Registerer promclient.Registerer
}

// New installs global meter and tracer providers. Metrics are exported
// through the Prometheus registry; spans go to Jaeger when an endpoint is
// set and are otherwise only sampled locally.
func New(opts Options) (*Observability, error) {
	if opts.ServiceName == "" {
		opts.ServiceName = TracerName
	}

	var exporterOpts []prometheus.Option
	if opts.Registerer != nil {
		exporterOpts = append(exporterOpts, prometheus.WithRegisterer(opts.Registerer))
	}
	exporter, err := prometheus.New(exporterOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create prometheus exporter: %w", err)
	}

	res := resource.NewSchemaless(attribute.String("service.name", opts.ServiceName))

	meterProvider := metric.NewMeterProvider(
		metric.WithReader(exporter),
		metric.WithResource(res),
	)
	otel.SetMeterProvider(meterProvider)

	tpOpts := []sdktrace.TracerProviderOption{sdktrace.WithResource(res)}
	if opts.JaegerEndpoint != "" {
		jexp, err := jaeger.New(jaeger.WithCollectorEndpoint(jaeger.WithEndpoint(opts.JaegerEndpoint)))
		if err != nil {
			_ = meterProvider.Shutdown(context.Background())
			return nil, fmt.Errorf("failed to create jaeger exporter: %w", err)
		}
		tpOpts = append(tpOpts, sdktrace.WithBatcher(jexp))
	}
	tracerProvider := sdktrace.NewTracerProvider(tpOpts...)
	otel.SetTracerProvider(tracerProvider)

	meter := meterProvider.Meter(opts.ServiceName)

	jobCounter, _ := meter.Int64Counter(
		"jobs.processed",
		otelmetric.WithDescription("Number of jobs processed"),
	)

	jobDuration, _ := meter.Float64Histogram(
		"jobs.duration",
		otelmetric.WithDescription("Job processing duration"),
		otelmetric.WithUnit("ms"),
	)

	runCounter, _ := meter.Int64Counter(
		"workflow.runs",
		otelmetric.WithDescription("Number of workflow runs by final state"),
	)

	return &Observability{
		meterProvider:  meterProvider,
		tracerProvider: tracerProvider,
		meter:          meter,
		tracer:         tracerProvider.Tracer(TracerName),
		jobCounter:     jobCounter,
		jobDuration:    jobDuration,
		runCounter:     runCounter,
	}, nil
}

// StartSpan opens a span on the global tracer when o is nil.
func (o *Observability) StartSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	tracer := otel.Tracer(TracerName)
	if o != nil && o.tracer != nil {
		tracer = o.tracer
	}
	return tracer.Start(ctx, name, trace.WithAttributes(attrs...))
}

func (o *Observability) RecordJobProcessed(ctx context.Context, status string) {
	if o != nil && o.jobCounter != nil {
		o.jobCounter.Add(ctx, 1, otelmetric.WithAttributes(
			attribute.String("status", status),
		))
	}
}

func (o *Observability) RecordJobDuration(ctx context.Context, duration time.Duration, status string) {
	if o != nil && o.jobDuration != nil {
		o.jobDuration.Record(ctx, float64(duration.Milliseconds()), otelmetric.WithAttributes(
			attribute.String("status", status),
		))
	}
}

// RecordRun counts a finished workflow run by path and final state.
func (o *Observability) RecordRun(ctx context.Context, path, state string) {
	if o != nil && o.runCounter != nil {
		o.runCounter.Add(ctx, 1, otelmetric.WithAttributes(
			attribute.String("path", path),
			attribute.String("state", state),
		))
	}
}

func (o *Observability) Shutdown() {
	if o == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if o.tracerProvider != nil {
		_ = o.tracerProvider.Shutdown(ctx)
	}
	if o.meterProvider != nil {
		_ = o.meterProvider.Shutdown(ctx)
	}
}
