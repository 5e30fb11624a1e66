// Package lsptest provides an in-memory lsp.Client for tests.
package lsptest

import (
	"context"
	"slices"
	"sync"

	"github.com/0x15BA88FF/brain-surgeon/lsp"
)

// Client records every message sent to it.
type Client struct {
	mu          sync.Mutex
	diagnostics []*lsp.PublishDiagnosticsParams
	shown       []*lsp.ShowMessageParams
	logged      []*lsp.LogMessageParams
	progress    []any

	// Err, when set, is returned from every method.
	Err error
}

var _ lsp.Client = (*Client)(nil)

func (c *Client) PublishDiagnostics(_ context.Context, params *lsp.PublishDiagnosticsParams) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.diagnostics = append(c.diagnostics, params)
	return c.Err
}

func (c *Client) WorkDoneProgressCreate(_ context.Context, params *lsp.WorkDoneProgressCreateParams) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.progress = append(c.progress, params)
	return c.Err
}

func (c *Client) ProgressBegin(_ context.Context, params *lsp.WorkDoneProgressBeginParams) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.progress = append(c.progress, params)
	return c.Err
}

func (c *Client) ProgressEnd(_ context.Context, params *lsp.WorkDoneProgressEndParams) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.progress = append(c.progress, params)
	return c.Err
}

func (c *Client) ShowMessage(_ context.Context, params *lsp.ShowMessageParams) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.shown = append(c.shown, params)
	return c.Err
}

func (c *Client) LogMessage(_ context.Context, params *lsp.LogMessageParams) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.logged = append(c.logged, params)
	return c.Err
}

func (c *Client) Diagnostics() []*lsp.PublishDiagnosticsParams {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.diagnostics)
}

func (c *Client) Shown() []*lsp.ShowMessageParams {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.shown)
}

func (c *Client) Logged() []*lsp.LogMessageParams {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.logged)
}

// Progress returns the progress params sent, in order.
func (c *Client) Progress() []any {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.progress)
}
