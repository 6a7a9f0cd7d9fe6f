package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"gaitbase/cmd/config"
	"gaitbase/internal/infra/node"

	"go.opentelemetry.io/contrib/instrumentation/runtime"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	"go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.4.0"
)

type ShutdownFunc func(context.Context) error

const (
	collectInterval       = 30 * time.Second
	collectTimeout        = 35 * time.Second
	memStatsInterval      = time.Minute
	responseSizeHistogram = "gaitbase.http.response.size"
)

// Reports and exports range from a few hundred bytes to a few hundred KB.
var responseSizeBuckets = []float64{256, 1024, 4096, 16384, 65536, 262144, 1048576}

func noShutdown(context.Context) error { return nil }

// startOTel installs OTLP trace and metric providers. When OTel is disabled
// the global no-op providers stay in place.
func startOTel(ctx context.Context, cfg config.OTelConfig) (ShutdownFunc, error) {
	otel.SetTextMapPropagator(propagation.TraceContext{})
	if !cfg.Enabled {
		return noShutdown, nil
	}

	slog.Info("starting OTel providers", slog.String("endpoint", cfg.Endpoint))
	res := newResource()

	tracerProvider, err := newTracerProvider(ctx, cfg.Endpoint, res)
	if err != nil {
		return nil, fmt.Errorf("trace exporter: %w", err)
	}
	meterProvider, err := newMeterProvider(ctx, cfg.Endpoint, res)
	if err != nil {
		return nil, errors.Join(fmt.Errorf("metric exporter: %w", err), tracerProvider.Shutdown(ctx))
	}

	otel.SetTracerProvider(tracerProvider)
	otel.SetMeterProvider(meterProvider)
	if err := runtime.Start(runtime.WithMinimumReadMemStatsInterval(memStatsInterval)); err != nil {
		slog.Warn("runtime metrics unavailable", slog.Any("error", err))
	}

	return func(ctx context.Context) error {
		return errors.Join(meterProvider.Shutdown(ctx), tracerProvider.Shutdown(ctx))
	}, nil
}

func newResource() *resource.Resource {
	info := node.GetNodeInfo()
	return resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceNameKey.String("gaitbase"),
		semconv.ServiceVersionKey.String(info.Version),
		semconv.ServiceInstanceIDKey.String(info.ID),
		semconv.HostNameKey.String(info.Hostname),
	)
}

func newTracerProvider(ctx context.Context, endpoint string, res *resource.Resource) (*trace.TracerProvider, error) {
	exporter, err := otlptracegrpc.New(ctx,
		otlptracegrpc.WithEndpoint(endpoint),
		otlptracegrpc.WithInsecure(),
	)
	if err != nil {
		return nil, err
	}

	return trace.NewTracerProvider(
		trace.WithBatcher(exporter),
		trace.WithResource(res),
	), nil
}

func newMeterProvider(ctx context.Context, endpoint string, res *resource.Resource) (*metric.MeterProvider, error) {
	exporter, err := otlpmetricgrpc.New(ctx,
		otlpmetricgrpc.WithEndpoint(endpoint),
		otlpmetricgrpc.WithInsecure(),
	)
	if err != nil {
		return nil, err
	}

	return metric.NewMeterProvider(
		metric.WithResource(res),
		metric.WithReader(metric.NewPeriodicReader(exporter,
			metric.WithTimeout(collectTimeout),
			metric.WithInterval(collectInterval),
		)),
		metric.WithView(metric.NewView(
			metric.Instrument{Name: responseSizeHistogram, Kind: metric.InstrumentKindHistogram},
			metric.Stream{Aggregation: metric.AggregationExplicitBucketHistogram{Boundaries: responseSizeBuckets}},
		)),
	), nil
}
