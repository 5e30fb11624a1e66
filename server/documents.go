package server

import (
	"sync"

	"github.com/0x15BA88FF/brain-surgeon/file"
	"github.com/0x15BA88FF/brain-surgeon/lsp"
)

// document is an open document as last described by the client.
type document struct {
	uri        lsp.DocumentURI
	languageID lsp.LanguageKind
	version    int32
}

var _ file.Handle = (*document)(nil)

func (d *document) URI() lsp.DocumentURI { return d.uri }
func (d *document) Version() int32       { return d.version }
func (d *document) Kind() file.Kind      { return file.KindForLang(d.languageID) }

// snapshot copies d so that it can be read without holding the lock.
func (d *document) snapshot() *document {
	c := *d
	return &c
}

// documents maps open documents by URI. Only didOpen carries the language
// id, so a document that was never opened has no kind.
type documents struct {
	mu    sync.Mutex
	files map[lsp.DocumentURI]*document
}

func newDocuments() *documents {
	return &documents{files: make(map[lsp.DocumentURI]*document)}
}

// apply records mod and returns the resulting handle, or nil if the
// document is not (or no longer) open.
func (d *documents) apply(mod file.Modification) file.Handle {
	d.mu.Lock()
	defer d.mu.Unlock()
	switch mod.Action {
	case file.Open:
		doc := &document{uri: mod.URI, languageID: mod.LanguageID, version: mod.Version}
		d.files[mod.URI] = doc
		return doc.snapshot()
	case file.Close:
		delete(d.files, mod.URI)
		return nil
	case file.Save:
		doc, ok := d.files[mod.URI]
		if !ok {
			return nil
		}
		if mod.Version >= 0 {
			doc.version = mod.Version
		}
		return doc.snapshot()
	default:
		return nil
	}
}

func (d *documents) get(uri lsp.DocumentURI) (file.Handle, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	doc, ok := d.files[uri]
	if !ok {
		return nil, false
	}
	return doc.snapshot(), true
}

// admit reports whether fh is a document brain-surgeon should run on.
func admit(fh file.Handle) bool {
	return fh != nil && fh.Kind() == file.Brainfuck
}
