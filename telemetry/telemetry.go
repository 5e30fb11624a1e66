// Package telemetry installs the OpenTelemetry tracer and meter providers
// the server reports brain-surgeon invocations through.
package telemetry

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	"go.opentelemetry.io/otel/sdk/trace"
)

const (
	// ExporterLog writes spans and metrics as JSON to the configured writer,
	// normally the server log file.
	ExporterLog = "log"
	// ExporterNone leaves the global no-op providers in place.
	ExporterNone = "none"
)

var (
	ErrNilContext      = errors.New("telemetry: nil context")
	ErrNilWriter       = errors.New("telemetry: nil writer")
	ErrUnknownExporter = errors.New("telemetry: unknown exporter")
)

// DefaultMetricInterval is how often metrics are flushed to the writer.
const DefaultMetricInterval = time.Minute

type Config struct {
	ServiceName    string
	ServiceVersion string
	Exporter       string
	Writer         io.Writer
	MetricInterval time.Duration
}

// Providers are the providers Init installed as the otel globals.
type Providers struct {
	Tracer *trace.TracerProvider
	Meter  *metric.MeterProvider
}

// Shutdown flushes and stops both providers. It is safe to call on the
// zero value.
func (p *Providers) Shutdown(ctx context.Context) error {
	var errs []error
	if p.Tracer != nil {
		if err := p.Tracer.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("tracer: %w", err))
		}
	}
	if p.Meter != nil {
		if err := p.Meter.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("meter: %w", err))
		}
	}
	return errors.Join(errs...)
}

// Init builds the providers for cfg and sets them as the otel globals. With
// ExporterNone it returns empty Providers and leaves the globals alone.
func Init(ctx context.Context, cfg Config) (*Providers, error) {
	if ctx == nil {
		return nil, ErrNilContext
	}
	switch cfg.Exporter {
	case ExporterNone:
		return &Providers{}, nil
	case ExporterLog:
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownExporter, cfg.Exporter)
	}
	if cfg.Writer == nil {
		return nil, ErrNilWriter
	}

	res := resource.NewWithAttributes(
		"",
		attribute.String("service.name", cfg.ServiceName),
		attribute.String("service.version", cfg.ServiceVersion),
	)

	spans, err := stdouttrace.New(stdouttrace.WithWriter(cfg.Writer))
	if err != nil {
		return nil, fmt.Errorf("create span exporter: %w", err)
	}
	metrics, err := stdoutmetric.New(stdoutmetric.WithWriter(cfg.Writer))
	if err != nil {
		return nil, fmt.Errorf("create metric exporter: %w", err)
	}

	interval := cfg.MetricInterval
	if interval <= 0 {
		interval = DefaultMetricInterval
	}
	p := &Providers{
		Tracer: trace.NewTracerProvider(
			trace.WithBatcher(spans),
			trace.WithResource(res),
			trace.WithSampler(trace.AlwaysSample()),
		),
		Meter: metric.NewMeterProvider(
			metric.WithResource(res),
			metric.WithReader(metric.NewPeriodicReader(metrics, metric.WithInterval(interval))),
		),
	}
	otel.SetTracerProvider(p.Tracer)
	otel.SetMeterProvider(p.Meter)
	return p, nil
}
