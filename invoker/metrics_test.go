package invoker

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func spanAttr(span sdktrace.ReadOnlySpan, key attribute.Key) (attribute.Value, bool) {
	for _, kv := range span.Attributes() {
		if kv.Key == key {
			return kv.Value, true
		}
	}
	return attribute.Value{}, false
}

func newTestProviders(t *testing.T) (*tracetest.SpanRecorder, *sdkmetric.ManualReader, []Option) {
	t.Helper()
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() {
		_ = tp.Shutdown(context.Background())
		_ = mp.Shutdown(context.Background())
	})
	return recorder, reader, []Option{WithTracerProvider(tp), WithMeterProvider(mp)}
}

func collectMetrics(t *testing.T, reader *sdkmetric.ManualReader) map[string]metricdata.Metrics {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))
	got := map[string]metricdata.Metrics{}
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			got[m.Name] = m
		}
	}
	return got
}

func TestRunnerRecordsSpan(t *testing.T) {
	recorder, _, opts := newTestProviders(t)
	fn, _ := helperExec("[]", "", 0)
	r := New(append(opts, WithExecFunc(fn))...)

	res := waitResult(t, r.Lint(context.Background(), "/work/hello.bf"))
	require.NoError(t, res.Err)

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	span := spans[0]
	assert.Equal(t, "invoker.Run", span.Name())
	assert.Equal(t, codes.Unset, span.Status().Code)

	code, ok := spanAttr(span, "invoker.exit_code")
	require.True(t, ok)
	assert.Equal(t, int64(0), code.AsInt64())
	id, ok := spanAttr(span, "invoker.id")
	require.True(t, ok)
	assert.Equal(t, res.ID, id.AsString())
	args, ok := spanAttr(span, "invoker.args")
	require.True(t, ok)
	assert.Equal(t, []string{"lint", "/work/hello.bf"}, args.AsStringSlice())
}

func TestRunnerRecordsFailedSpan(t *testing.T) {
	recorder, _, opts := newTestProviders(t)
	fn, _ := helperExec("", "boom", 3)
	r := New(append(opts, WithExecFunc(fn))...)

	res := waitResult(t, r.Lint(context.Background(), "/work/hello.bf"))
	require.Error(t, res.Err)

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, codes.Error, spans[0].Status().Code)
	code, ok := spanAttr(spans[0], "invoker.exit_code")
	require.True(t, ok)
	assert.Equal(t, int64(3), code.AsInt64())
}

func TestRunnerRecordsMetrics(t *testing.T) {
	_, reader, opts := newTestProviders(t)
	fn, _ := helperExec("[]", "", 0)
	r := New(append(opts, WithExecFunc(fn))...)

	waitResult(t, r.Lint(context.Background(), "/work/a.bf"))
	waitResult(t, r.Format(context.Background(), "/work/a.bf"))

	got := collectMetrics(t, reader)
	require.Contains(t, got, "bslsp_invocations_total")
	require.Contains(t, got, "bslsp_invocation_duration_seconds")

	sum, ok := got["bslsp_invocations_total"].Data.(metricdata.Sum[int64])
	require.True(t, ok)
	var total int64
	verbs := map[string]bool{}
	for _, dp := range sum.DataPoints {
		total += dp.Value
		verb, _ := dp.Attributes.Value("verb")
		verbs[verb.AsString()] = true
	}
	assert.Equal(t, int64(2), total)
	assert.Equal(t, map[string]bool{"lint": true, "fmt": true}, verbs)
}
