package lsp

import (
	"context"
)

type contextKey int

const (
	clientKey = contextKey(iota)
)

// WithClient returns a context carrying client, for code that has no other
// handle on the connection (such as log forwarding).
func WithClient(ctx context.Context, client Client) context.Context {
	return context.WithValue(ctx, clientKey, client)
}

// GetClient returns the client stored by WithClient, or nil.
func GetClient(ctx context.Context) Client {
	client, ok := ctx.Value(clientKey).(Client)
	if !ok {
		return nil
	}
	return client
}
