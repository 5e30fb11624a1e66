package file

import (
	"github.com/0x15BA88FF/brain-surgeon/lsp"
)

// Handle is a document the server knows about.
type Handle interface {
	URI() lsp.DocumentURI
	Version() int32
	Kind() Kind
}

// Modification represents a modification to a file.
type Modification struct {
	URI    lsp.DocumentURI
	Action Action

	// Version will be -1 when it is not supplied, specifically on
	// textDocument/didSave and textDocument/didClose.
	Version int32

	// LanguageID is only sent from the language client on textDocument/didOpen.
	LanguageID lsp.LanguageKind
}

// An Action is a type of file state change.
type Action int

const (
	UnknownAction = Action(iota)
	Open
	Close
	Save
)

func (a Action) String() string {
	switch a {
	case Open:
		return "Open"
	case Close:
		return "Close"
	case Save:
		return "Save"
	default:
		return "Unknown"
	}
}
