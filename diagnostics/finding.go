// Package diagnostics turns brain-surgeon lint output into LSP diagnostics
// and keeps the per-document diagnostic sets that are published to the
// client.
package diagnostics

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/0x15BA88FF/brain-surgeon/lsp"
)

var (
	// ErrMalformedOutput is returned when lint output is not a JSON array of
	// findings.
	ErrMalformedOutput = errors.New("malformed lint output")
	// ErrUnknownLevel marks a finding whose level is not one of
	// info, warning, error or hint.
	ErrUnknownLevel = errors.New("unknown lint level")
	// ErrInvalidPosition marks a finding whose span does not convert to a
	// valid LSP position.
	ErrInvalidPosition = errors.New("lint position out of range")
)

// Finding is one issue reported by `brain-surgeon lint`.
// Lines and columns are 1-based; the end column is exclusive.
type Finding struct {
	StartLine   int64  `json:"startLine"`
	StartColumn int64  `json:"startColumn"`
	EndLine     int64  `json:"endLine"`
	EndColumn   int64  `json:"endColumn"`
	Message     string `json:"message"`
	Level       string `json:"level"`
}

// ParseFindings decodes lint stdout. Anything other than a JSON array of
// objects, including empty output and null, is ErrMalformedOutput.
func ParseFindings(stdout []byte) ([]Finding, error) {
	trimmed := bytes.TrimSpace(stdout)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("%w: empty output", ErrMalformedOutput)
	}
	if trimmed[0] != '[' {
		return nil, fmt.Errorf("%w: expected a JSON array", ErrMalformedOutput)
	}
	var findings []Finding
	if err := json.Unmarshal(trimmed, &findings); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedOutput, err)
	}
	return findings, nil
}

// Range converts the finding's span to the LSP's 0-based range. The start
// column moves to 0-based; the end column is kept as is, which lines up with
// brain-surgeon's exclusive end. The result is only meaningful when
// CheckRange passes.
func (f Finding) Range() lsp.Range {
	return lsp.Range{
		Start: lsp.Position{Line: int32(f.StartLine - 1), Character: int32(f.StartColumn - 1)},
		End:   lsp.Position{Line: int32(f.EndLine - 1), Character: int32(f.EndColumn)},
	}
}

// CheckRange reports ErrInvalidPosition when a converted line or character
// would be negative or overflow an LSP position.
func (f Finding) CheckRange() error {
	for _, p := range []struct {
		name string
		v    int64
	}{
		{"startLine", f.StartLine - 1},
		{"startColumn", f.StartColumn - 1},
		{"endLine", f.EndLine - 1},
		{"endColumn", f.EndColumn},
	} {
		if p.v < 0 || p.v > math.MaxInt32 {
			return fmt.Errorf("%w: %s", ErrInvalidPosition, p.name)
		}
	}
	return nil
}

// ParseSeverity maps a lint level to a severity, ignoring case.
// The boolean is false for levels brain-surgeon does not define.
func ParseSeverity(level string) (lsp.DiagnosticSeverity, bool) {
	switch strings.ToLower(level) {
	case "info":
		return lsp.SeverityInformation, true
	case "warning":
		return lsp.SeverityWarning, true
	case "error":
		return lsp.SeverityError, true
	case "hint":
		return lsp.SeverityHint, true
	default:
		return 0, false
	}
}

// Diagnostic converts the finding. It fails with ErrUnknownLevel when the
// level is not recognized and with ErrInvalidPosition when the span does not
// fit an LSP range.
func (f Finding) Diagnostic(source string) (lsp.Diagnostic, error) {
	severity, ok := ParseSeverity(f.Level)
	if !ok {
		return lsp.Diagnostic{}, fmt.Errorf("%w: %q", ErrUnknownLevel, f.Level)
	}
	if err := f.CheckRange(); err != nil {
		return lsp.Diagnostic{}, err
	}
	return lsp.Diagnostic{
		Range:    f.Range(),
		Severity: severity,
		Source:   source,
		Message:  f.Message,
	}, nil
}
