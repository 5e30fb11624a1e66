package diagnostics

import (
	"testing"

	"github.com/0x15BA88FF/brain-surgeon/lsp"
	"github.com/hexops/autogold/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTranslate(t *testing.T) {
	stdout := `[
  {"startLine":1,"startColumn":1,"endLine":1,"endColumn":2,"message":"unmatched bracket","level":"warning"},
  {"startLine":4,"startColumn":3,"endLine":5,"endColumn":1,"message":"dead code","level":"HINT"},
  {"startLine":2,"startColumn":8,"endLine":2,"endColumn":9,"message":"pointer underflow","level":"error"},
  {"startLine":7,"startColumn":1,"endLine":7,"endColumn":4,"message":"loop never runs","level":"info"}
]`
	got, err := Translate([]byte(stdout))
	require.NoError(t, err)
	assert.Empty(t, got.Skipped)
	autogold.Expect([]lsp.Diagnostic{
		{
			Range: lsp.Range{
				Start: lsp.Position{},
				End:   lsp.Position{Character: 2},
			},
			Severity: lsp.DiagnosticSeverity(2),
			Source:   "brain-surgeon",
			Message:  "unmatched bracket",
		},
		{
			Range: lsp.Range{
				Start: lsp.Position{Line: 3, Character: 2},
				End:   lsp.Position{Line: 4, Character: 1},
			},
			Severity: lsp.DiagnosticSeverity(4),
			Source:   "brain-surgeon",
			Message:  "dead code",
		},
		{
			Range: lsp.Range{
				Start: lsp.Position{Line: 1, Character: 7},
				End:   lsp.Position{Line: 1, Character: 9},
			},
			Severity: lsp.DiagnosticSeverity(1),
			Source:   "brain-surgeon",
			Message:  "pointer underflow",
		},
		{
			Range: lsp.Range{
				Start: lsp.Position{Line: 6},
				End:   lsp.Position{Line: 6, Character: 4},
			},
			Severity: lsp.DiagnosticSeverity(3),
			Source:   "brain-surgeon",
			Message:  "loop never runs",
		},
	}).Equal(t, got.Diagnostics)
}

func TestTranslateSkipsUnknownLevel(t *testing.T) {
	stdout := `[
  {"startLine":1,"startColumn":1,"endLine":1,"endColumn":2,"message":"first","level":"warning"},
  {"startLine":2,"startColumn":1,"endLine":2,"endColumn":2,"message":"odd","level":"fatal"},
  {"startLine":3,"startColumn":1,"endLine":3,"endColumn":2,"message":"third","level":"error"}
]`
	got, err := Translate([]byte(stdout))
	require.NoError(t, err)
	require.Len(t, got.Diagnostics, 2)
	assert.Equal(t, "first", got.Diagnostics[0].Message)
	assert.Equal(t, "third", got.Diagnostics[1].Message)

	require.Len(t, got.Skipped, 1)
	assert.Equal(t, 1, got.Skipped[0].Index)
	assert.Equal(t, "fatal", got.Skipped[0].Finding.Level)
	assert.ErrorIs(t, got.Skipped[0].Err, ErrUnknownLevel)
}

func TestTranslateSkipsUnusableSpans(t *testing.T) {
	stdout := `[
  {"startLine":1,"startColumn":1,"endLine":1,"endColumn":2,"message":"first","level":"warning"},
  {"startLine":1,"startColumn":1,"endLine":1,"endColumn":3000000000,"message":"huge","level":"error"},
  {"startLine":0,"startColumn":0,"endLine":0,"endColumn":1,"message":"zero","level":"info"}
]`
	got, err := Translate([]byte(stdout))
	require.NoError(t, err)
	require.Len(t, got.Diagnostics, 1)
	assert.Equal(t, "first", got.Diagnostics[0].Message)

	require.Len(t, got.Skipped, 2)
	assert.Equal(t, 1, got.Skipped[0].Index)
	assert.Equal(t, int64(3000000000), got.Skipped[0].Finding.EndColumn)
	assert.ErrorIs(t, got.Skipped[0].Err, ErrInvalidPosition)
	assert.Equal(t, 2, got.Skipped[1].Index)
	assert.ErrorIs(t, got.Skipped[1].Err, ErrInvalidPosition)
}

func TestTranslateEmpty(t *testing.T) {
	got, err := Translate([]byte("[]"))
	require.NoError(t, err)
	assert.NotNil(t, got.Diagnostics)
	assert.Empty(t, got.Diagnostics)
}

func TestTranslateMalformed(t *testing.T) {
	got, err := Translate([]byte("{unterminated"))
	assert.ErrorIs(t, err, ErrMalformedOutput)
	assert.Nil(t, got)
}
