package rpc

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// MethodNotFoundErr mirrors what MethodNotFound replies with.
func MethodNotFoundErr(method string) error {
	return fmt.Errorf("%w: %q", ErrMethodNotFound, method)
}

// pipeConns returns two connections wired to each other.
func pipeConns() (Conn, Conn) {
	ar, bw := io.Pipe()
	br, aw := io.Pipe()
	a := NewConn(NewHeaderStream(ar, aw), nil)
	b := NewConn(NewHeaderStream(br, bw), nil)
	return a, b
}

func TestConnCallAndNotify(t *testing.T) {
	ctx := context.Background()
	client, server := pipeConns()

	notified := make(chan string, 1)
	go func() {
		_ = server.Run(ctx, func(ctx context.Context, reply Replier, req Request) error {
			switch req.Method() {
			case "echo":
				var v string
				if err := json.Unmarshal(req.Params(), &v); err != nil {
					return reply(ctx, nil, err)
				}
				return reply(ctx, "echo: "+v, nil)
			case "ping":
				notified <- req.Method()
				return reply(ctx, nil, nil)
			default:
				return MethodNotFound(ctx, reply, req)
			}
		})
	}()
	go func() { _ = client.Run(ctx, MethodNotFound) }()

	var result string
	_, err := client.Call(ctx, "echo", "hi", &result)
	require.NoError(t, err)
	assert.Equal(t, "echo: hi", result)

	require.NoError(t, client.Notify(ctx, "ping", nil))
	assert.Equal(t, "ping", <-notified)

	_, err = client.Call(ctx, "missing", nil, nil)
	var wireErr *WireError
	require.ErrorAs(t, err, &wireErr)
	assert.Equal(t, ErrMethodNotFound.Code, wireErr.Code)
}
