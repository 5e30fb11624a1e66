// Package invoker runs the brain-surgeon executable against a file and
// hands back its captured output as a Task.
//
// Invocations are never cancelled and never time out: once started, the
// process runs to completion under a context detached from the caller's,
// and a hung process only ever blocks its own Task.
package invoker

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os/exec"
	"time"

	"github.com/0x15BA88FF/brain-surgeon/debug"
	"github.com/0x15BA88FF/brain-surgeon/xcontext"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/trace"
)

// DefaultExecutable is the executable run when none is configured.
const DefaultExecutable = "brain-surgeon"

// Verb is the brain-surgeon subcommand to run.
type Verb string

const (
	Lint   Verb = "lint"
	Format Verb = "fmt"
)

// ExecFunc builds the command for one invocation. It has the signature of
// exec.CommandContext.
type ExecFunc func(ctx context.Context, name string, args ...string) *exec.Cmd

type Runner struct {
	executable     string
	execFunc       ExecFunc
	logger         *log.Logger
	tracerProvider trace.TracerProvider
	meterProvider  metric.MeterProvider
	instruments    *instruments
}

type Option func(*Runner)

// WithExecutable sets the executable to run. Empty keeps the default.
func WithExecutable(path string) Option {
	return func(r *Runner) {
		if path != "" {
			r.executable = path
		}
	}
}

// WithExecFunc replaces process creation.
func WithExecFunc(fn ExecFunc) Option {
	return func(r *Runner) {
		r.execFunc = fn
	}
}

func WithLogger(logger *log.Logger) Option {
	return func(r *Runner) {
		r.logger = logger
	}
}

// WithTracerProvider sets where invocation spans go. The default is the
// otel global provider at the time New is called.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(r *Runner) {
		r.tracerProvider = tp
	}
}

// WithMeterProvider sets where invocation metrics go. The default is the
// otel global provider at the time New is called.
func WithMeterProvider(mp metric.MeterProvider) Option {
	return func(r *Runner) {
		r.meterProvider = mp
	}
}

func New(opts ...Option) *Runner {
	r := &Runner{
		executable:     DefaultExecutable,
		execFunc:       exec.CommandContext,
		logger:         log.New(io.Discard, "", 0),
		tracerProvider: otel.GetTracerProvider(),
		meterProvider:  otel.GetMeterProvider(),
	}
	for _, opt := range opts {
		opt(r)
	}
	in, err := newInstruments(r.tracerProvider, r.meterProvider)
	if err != nil {
		r.logger.Printf("failed to create invocation metrics: %v", err)
		in, _ = newInstruments(r.tracerProvider, noop.NewMeterProvider())
	}
	r.instruments = in
	return r
}

func (r *Runner) Executable() string { return r.executable }

// Lint starts `<exe> lint <path>`.
func (r *Runner) Lint(ctx context.Context, path string) *Task {
	return r.Start(ctx, Lint, path)
}

// Format starts `<exe> fmt <path>`.
func (r *Runner) Format(ctx context.Context, path string) *Task {
	return r.Start(ctx, Format, path)
}

// Start runs `<exe> <verb> <path>` in its own goroutine and returns
// immediately. The path is passed through as is.
func (r *Runner) Start(ctx context.Context, verb Verb, path string) *Task {
	t := newTask(uuid.NewString(), []string{string(verb), path})
	ctx = xcontext.Detach(ctx)
	go func() {
		t.complete(r.run(ctx, t.id, t.args))
	}()
	return t
}

func (r *Runner) run(ctx context.Context, id string, args []string) Result {
	ctx, done := debug.Start(ctx, "invoker.run", "id", id, "args", args)
	defer done()
	ctx, span := r.instruments.startRunSpan(ctx, id, r.executable, args)
	defer span.End()

	res := Result{ID: id, Args: args}
	start := time.Now()
	r.logger.Printf("running %s %v (%s)", r.executable, args, id)

	var stdout, stderr bytes.Buffer
	cmd := r.execFunc(ctx, r.executable, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err := cmd.Run()

	res.Stdout = stdout.Bytes()
	res.Stderr = stderr.Bytes()
	res.ExitCode = exitCode(cmd, err)
	if err != nil {
		res.Err = fmt.Errorf("running %s %s: %w", r.executable, args[0], err)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		debug.LogError(ctx, "invocation failed", err)
		r.logger.Printf("%s failed with exit code %d: %v", id, res.ExitCode, err)
	}
	setRunSpanResult(span, res.ExitCode, len(res.Stdout))
	r.instruments.recordRun(ctx, Verb(args[0]), time.Since(start), res.Err == nil)
	return res
}

func exitCode(cmd *exec.Cmd, err error) int {
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode()
	}
	if err != nil || cmd.ProcessState == nil {
		return -1
	}
	return cmd.ProcessState.ExitCode()
}
