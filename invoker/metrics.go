package invoker

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "bslsp.invoker"

type instruments struct {
	tracer     trace.Tracer
	runLatency metric.Float64Histogram
	runTotal   metric.Int64Counter
}

func newInstruments(tp trace.TracerProvider, mp metric.MeterProvider) (*instruments, error) {
	meter := mp.Meter(instrumentationName)
	in := &instruments{tracer: tp.Tracer(instrumentationName)}

	var err error
	in.runLatency, err = meter.Float64Histogram(
		"bslsp_invocation_duration_seconds",
		metric.WithDescription("Duration of brain-surgeon invocations"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	in.runTotal, err = meter.Int64Counter(
		"bslsp_invocations_total",
		metric.WithDescription("Total number of brain-surgeon invocations"),
	)
	if err != nil {
		return nil, err
	}
	return in, nil
}

func (in *instruments) startRunSpan(ctx context.Context, id, executable string, args []string) (context.Context, trace.Span) {
	return in.tracer.Start(ctx, "invoker.Run",
		trace.WithAttributes(
			attribute.String("invoker.id", id),
			attribute.String("invoker.executable", executable),
			attribute.StringSlice("invoker.args", args),
		),
	)
}

func setRunSpanResult(span trace.Span, exitCode, stdoutBytes int) {
	span.SetAttributes(
		attribute.Int("invoker.exit_code", exitCode),
		attribute.Int("invoker.stdout_bytes", stdoutBytes),
	)
}

func (in *instruments) recordRun(ctx context.Context, verb Verb, duration time.Duration, success bool) {
	attrs := metric.WithAttributes(
		attribute.String("verb", string(verb)),
		attribute.Bool("success", success),
	)
	in.runLatency.Record(ctx, duration.Seconds(), attrs)
	in.runTotal.Add(ctx, 1, attrs)
}
