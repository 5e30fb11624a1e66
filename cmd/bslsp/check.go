package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"

	"github.com/0x15BA88FF/brain-surgeon/diagnostics"
	"github.com/0x15BA88FF/brain-surgeon/invoker"
	"github.com/0x15BA88FF/brain-surgeon/lsp"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var checkCmd = &cobra.Command{
	Use:   "check <file> [file...]",
	Short: "Lint Brainfuck files the way the server does on save",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runCheckCmd,
}

func init() {
	checkCmd.Flags().Int("jobs", 4, "number of files linted at once")
}

var errCheckFailed = errors.New("check failed")

var severityColors = map[lsp.DiagnosticSeverity]*color.Color{
	lsp.SeverityError:       color.New(color.FgRed, color.Bold),
	lsp.SeverityWarning:     color.New(color.FgYellow, color.Bold),
	lsp.SeverityInformation: color.New(color.FgBlue),
	lsp.SeverityHint:        color.New(color.FgCyan),
}

func runCheckCmd(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	jobs, err := cmd.Flags().GetInt("jobs")
	if err != nil {
		return err
	}
	runner := invoker.New(invoker.WithExecutable(cfg.Executable))
	return runCheck(cmd.Context(), cmd.OutOrStdout(), runner, args, jobs)
}

type linter interface {
	Lint(ctx context.Context, path string) *invoker.Task
}

type checkResult struct {
	path        string
	translation *diagnostics.Translation
	err         error
}

// runCheck lints every path and prints the findings in argument order. It
// fails if any file has an error diagnostic or unusable lint output.
func runCheck(ctx context.Context, out io.Writer, l linter, paths []string, jobs int) error {
	results := make([]checkResult, len(paths))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(1, min(jobs, len(paths))))
	for i, path := range paths {
		g.Go(func() error {
			abs, err := filepath.Abs(path)
			if err != nil {
				results[i] = checkResult{path: path, err: err}
				return nil
			}
			res, err := l.Lint(gctx, abs).Wait(gctx)
			if err != nil {
				return err
			}
			t, err := diagnostics.Translate(res.Stdout)
			if err != nil && res.Err != nil {
				err = fmt.Errorf("%w (%v)", err, res.Err)
			}
			results[i] = checkResult{path: path, translation: t, err: err}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	failed := false
	for _, r := range results {
		if r.err != nil {
			failed = true
			fmt.Fprintf(out, "%s: %s\n", r.path, severityColors[lsp.SeverityError].Sprint(r.err))
			continue
		}
		for _, d := range r.translation.Diagnostics {
			if d.Severity == lsp.SeverityError {
				failed = true
			}
			printDiagnostic(out, r.path, d)
		}
		for _, s := range r.translation.Skipped {
			fmt.Fprintf(out, "%s: skipped finding %d: %v\n", r.path, s.Index, s.Err)
		}
	}
	if failed {
		return errCheckFailed
	}
	return nil
}

// printDiagnostic writes d in the file:line:col form editors understand,
// with 1-based positions.
func printDiagnostic(out io.Writer, path string, d lsp.Diagnostic) {
	sev := d.Severity.String()
	if c, ok := severityColors[d.Severity]; ok {
		sev = c.Sprint(sev)
	}
	fmt.Fprintf(out, "%s:%d:%d: %s: %s\n", path, d.Range.Start.Line+1, d.Range.Start.Character+1, sev, d.Message)
}
