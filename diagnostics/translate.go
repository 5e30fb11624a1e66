package diagnostics

import (
	"github.com/0x15BA88FF/brain-surgeon/lsp"
)

// Source is the source attached to every diagnostic.
const Source = "brain-surgeon"

// SkippedFinding is a finding that could not be converted.
type SkippedFinding struct {
	Index   int
	Finding Finding
	Err     error
}

// Translation is the outcome of translating one lint run.
type Translation struct {
	// Diagnostics keeps the order of the findings it was built from.
	Diagnostics []lsp.Diagnostic
	// Skipped lists findings dropped from Diagnostics, in input order.
	Skipped []SkippedFinding
}

// Translate parses lint stdout and converts every finding. A parse failure
// returns an error wrapping ErrMalformedOutput and no translation; a finding
// with an unknown level or an unusable span is skipped and the rest of the
// batch is kept.
func Translate(stdout []byte) (*Translation, error) {
	findings, err := ParseFindings(stdout)
	if err != nil {
		return nil, err
	}
	t := &Translation{Diagnostics: make([]lsp.Diagnostic, 0, len(findings))}
	for i, f := range findings {
		d, err := f.Diagnostic(Source)
		if err != nil {
			t.Skipped = append(t.Skipped, SkippedFinding{Index: i, Finding: f, Err: err})
			continue
		}
		t.Diagnostics = append(t.Diagnostics, d)
	}
	return t, nil
}
