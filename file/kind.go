package file

import (
	"fmt"

	"github.com/0x15BA88FF/brain-surgeon/lsp"
)

// Kind describes the kind of the file in question.
type Kind int

const (
	// UnknownKind is a file type we don't know about.
	UnknownKind = Kind(iota)

	// Brainfuck is a Brainfuck source file, the only kind brain-surgeon
	// lints and formats.
	Brainfuck
)

func (k Kind) String() string {
	switch k {
	case Brainfuck:
		return "brainfuck"
	case UnknownKind:
		return "unknown"
	default:
		return fmt.Sprintf("internal error: unknown file kind %d", k)
	}
}

// KindForLang returns the [Kind] associated with the given LSP LanguageKind
// string from the LanguageID field of [lsp.TextDocumentItem], or UnknownKind
// if the language is not one recognized by brain-surgeon. The comparison is
// exact, as language identifiers are case sensitive.
func KindForLang(langID lsp.LanguageKind) Kind {
	switch langID {
	case "brainfuck":
		return Brainfuck
	default:
		return UnknownKind
	}
}
