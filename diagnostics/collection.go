package diagnostics

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/0x15BA88FF/brain-surgeon/lsp"
	"github.com/pulumi/pulumi/sdk/v3/go/common/util/contract"
)

// ErrDisposed is returned by writes to a disposed Collection.
var ErrDisposed = errors.New("diagnostic collection disposed")

// Publisher delivers a document's full diagnostic set to the client.
// lsp.Client satisfies it.
type Publisher interface {
	PublishDiagnostics(context.Context, *lsp.PublishDiagnosticsParams) error
}

// Collection holds the live diagnostic set of every document. Writes replace
// a document's whole set and publish it; the last write wins.
type Collection struct {
	name      string
	publisher Publisher

	mu       sync.Mutex // guards sets and disposed; held while publishing
	sets     map[lsp.DocumentURI][]lsp.Diagnostic
	disposed bool
}

// NewCollection returns an empty collection publishing through publisher.
func NewCollection(name string, publisher Publisher) *Collection {
	contract.Assertf(publisher != nil, "diagnostic collection %q needs a publisher", name)
	return &Collection{
		name:      name,
		publisher: publisher,
		sets:      make(map[lsp.DocumentURI][]lsp.Diagnostic),
	}
}

func (c *Collection) Name() string { return c.name }

// Set replaces the diagnostic set of uri and publishes it. The set is stored
// even if publishing fails.
func (c *Collection) Set(ctx context.Context, uri lsp.DocumentURI, diags []lsp.Diagnostic) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.disposed {
		return ErrDisposed
	}
	set := slices.Clone(diags)
	if set == nil {
		set = []lsp.Diagnostic{}
	}
	c.sets[uri] = set
	return c.publishLocked(ctx, uri, set)
}

// Get returns a copy of the live set of uri.
func (c *Collection) Get(uri lsp.DocumentURI) ([]lsp.Diagnostic, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	set, ok := c.sets[uri]
	return slices.Clone(set), ok
}

// URIs returns the documents that currently own a set, sorted.
func (c *Collection) URIs() []lsp.DocumentURI {
	c.mu.Lock()
	defer c.mu.Unlock()
	uris := make([]lsp.DocumentURI, 0, len(c.sets))
	for uri := range c.sets {
		uris = append(uris, uri)
	}
	slices.Sort(uris)
	return uris
}

// Delete drops the set of uri and publishes an empty one.
func (c *Collection) Delete(ctx context.Context, uri lsp.DocumentURI) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.disposed {
		return ErrDisposed
	}
	if _, ok := c.sets[uri]; !ok {
		return nil
	}
	delete(c.sets, uri)
	return c.publishLocked(ctx, uri, []lsp.Diagnostic{})
}

// Clear drops every set, publishing an empty set for each document.
func (c *Collection) Clear(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.disposed {
		return ErrDisposed
	}
	return c.clearLocked(ctx)
}

// Dispose clears the collection and rejects any later write. It is safe to
// call more than once.
func (c *Collection) Dispose(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.disposed {
		return nil
	}
	c.disposed = true
	return c.clearLocked(ctx)
}

func (c *Collection) clearLocked(ctx context.Context) error {
	var errs []error
	for uri := range c.sets {
		delete(c.sets, uri)
		if err := c.publishLocked(ctx, uri, []lsp.Diagnostic{}); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (c *Collection) publishLocked(ctx context.Context, uri lsp.DocumentURI, set []lsp.Diagnostic) error {
	if err := c.publisher.PublishDiagnostics(ctx, &lsp.PublishDiagnosticsParams{
		URI:         uri,
		Diagnostics: set,
	}); err != nil {
		return fmt.Errorf("publishing %s diagnostics for %s: %w", c.name, uri, err)
	}
	return nil
}
