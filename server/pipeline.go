package server

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/0x15BA88FF/brain-surgeon/debug"
	"github.com/0x15BA88FF/brain-surgeon/diagnostics"
	"github.com/0x15BA88FF/brain-surgeon/file"
	"github.com/0x15BA88FF/brain-surgeon/invoker"
	"github.com/0x15BA88FF/brain-surgeon/lsp"
)

// LintFailedMessage is shown when brain-surgeon's lint output is unusable.
const LintFailedMessage = "Brain Surgeon linting failed: Invalid JSON output."

// PipelineKind names the pipeline a result came from.
type PipelineKind int

const (
	LintPipeline PipelineKind = iota
	FormatPipeline
)

func (k PipelineKind) String() string {
	switch k {
	case LintPipeline:
		return "lint"
	case FormatPipeline:
		return "format"
	}
	return fmt.Sprintf("pipeline(%d)", int(k))
}

// PipelineResult reports how one pipeline run ended.
type PipelineResult struct {
	Kind PipelineKind
	URI  lsp.DocumentURI
	// Diagnostics is the set installed for URI by a successful lint.
	Diagnostics []lsp.Diagnostic
	// Message is what was shown to the user, if anything.
	Message string
	Err     error
}

// lintDocument runs brain-surgeon lint on fh and replaces its diagnostic
// set. The channel yields exactly one result and is then closed.
func (s *server) lintDocument(ctx context.Context, fh file.Handle) <-chan PipelineResult {
	return s.runPipeline(ctx, func(ctx context.Context) PipelineResult {
		return s.lint(ctx, fh)
	})
}

// formatDocument runs brain-surgeon fmt on fh and shows the output. The
// channel yields exactly one result and is then closed.
func (s *server) formatDocument(ctx context.Context, fh file.Handle) <-chan PipelineResult {
	return s.runPipeline(ctx, func(ctx context.Context) PipelineResult {
		return s.format(ctx, fh)
	})
}

func (s *server) runPipeline(ctx context.Context, fn func(context.Context) PipelineResult) <-chan PipelineResult {
	ch := make(chan PipelineResult, 1)
	go func() {
		defer close(ch)
		ch <- fn(ctx)
	}()
	return ch
}

func (s *server) lint(ctx context.Context, fh file.Handle) PipelineResult {
	uri := fh.URI()
	ctx, _ = debug.With(ctx, "uri", uri)
	ctx, done := debug.Start(ctx, "lint")
	defer done()
	result := PipelineResult{Kind: LintPipeline, URI: uri}

	work := s.progress.Start(ctx, "Brain Surgeon", "Linting "+filepath.Base(uri.Path()))
	defer work.End(ctx, "Done.")

	res := s.wait(ctx, s.invoker.Lint(ctx, uri.Path()))
	if res.Err != nil {
		// stdout is still parsed; an unusable one is reported below
		debug.Warning.Log(ctx, "lint exited with an error", "error", res.Err, "stderr", string(res.Stderr))
	}

	translation, err := diagnostics.Translate(res.Stdout)
	if err != nil {
		debug.LogError(ctx, "unusable lint output", err)
		result.Err = err
		result.Message = LintFailedMessage
		s.showMessage(ctx, lsp.MessageTypeError, LintFailedMessage)
		return result
	}
	for _, skipped := range translation.Skipped {
		debug.Warning.Log(ctx, "skipping finding", "index", skipped.Index, "message", skipped.Finding.Message, "error", skipped.Err)
	}

	if err := s.diagnostics.Set(ctx, uri, translation.Diagnostics); err != nil {
		if errors.Is(err, diagnostics.ErrDisposed) {
			s.logger.Printf("lint %s finished after shutdown, dropping %d diagnostics", uri, len(translation.Diagnostics))
		} else {
			debug.LogError(ctx, "publishing diagnostics", err)
		}
		result.Err = err
	}
	debug.Info.Log(ctx, "linted", "diagnostics", len(translation.Diagnostics), "skipped", len(translation.Skipped))
	result.Diagnostics = translation.Diagnostics
	return result
}

func (s *server) format(ctx context.Context, fh file.Handle) PipelineResult {
	uri := fh.URI()
	ctx, _ = debug.With(ctx, "uri", uri)
	ctx, done := debug.Start(ctx, "format")
	defer done()

	res := s.wait(ctx, s.invoker.Format(ctx, uri.Path()))
	if res.Err != nil {
		debug.Error.Log(ctx, "format failed", "error", res.Err, "stderr", string(res.Stderr))
	}
	msg := string(res.Stdout)
	s.showMessage(ctx, lsp.MessageTypeInfo, msg)
	return PipelineResult{Kind: FormatPipeline, URI: uri, Message: msg, Err: res.Err}
}

// wait blocks until task finishes. Invocations are never cancelled, so
// neither is the wait.
func (s *server) wait(ctx context.Context, task *invoker.Task) invoker.Result {
	<-task.Done()
	res := task.Result()
	debug.Debug.Log(ctx, "invocation finished", "id", res.ID, "exitCode", res.ExitCode)
	return res
}

func (s *server) showMessage(ctx context.Context, typ lsp.MessageType, msg string) {
	if err := s.client.ShowMessage(ctx, &lsp.ShowMessageParams{Type: typ, Message: msg}); err != nil {
		s.logger.Printf("error showing message: %v", err)
	}
}
