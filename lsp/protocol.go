package lsp

import (
	"bytes"
	"context"
	"encoding/json"

	"github.com/0x15BA88FF/brain-surgeon/rpc"
	"github.com/0x15BA88FF/brain-surgeon/xcontext"
)

// UnmarshalJSON unmarshals msg into the variable pointed to by
// params. In JSONRPC, optional messages may be
// "null", in which case it is a no-op.
func UnmarshalJSON(msg json.RawMessage, v any) error {
	if len(msg) == 0 || bytes.Equal(msg, []byte("null")) {
		return nil
	}
	return json.Unmarshal(msg, v)
}

var (
	// RequestCancelledError should be used when a request is cancelled early.
	RequestCancelledError = rpc.NewError(-32800, "JSON RPC cancelled")
)

type connSender interface {
	Notify(ctx context.Context, method string, params any) error
	Call(ctx context.Context, method string, params, result any) error
}

type clientDispatcher struct {
	sender connSender
}

// ClientDispatcher returns a Client that sends its messages over conn.
func ClientDispatcher(conn rpc.Conn) Client {
	return &clientDispatcher{
		sender: clientConn{conn},
	}
}

type clientConn struct {
	conn rpc.Conn
}

func (c clientConn) Notify(ctx context.Context, method string, params any) error {
	return c.conn.Notify(ctx, method, params)
}

func (c clientConn) Call(ctx context.Context, method string, params any, result any) error {
	c.conn.Logger().Printf("Calling method: %s", method)
	id, err := c.conn.Call(ctx, method, params, result)
	if ctx.Err() != nil {
		c.conn.Logger().Printf("Request cancelled: %s", method)
		cancelCall(ctx, c, id)
	}
	return err
}

// See https://microsoft.github.io/language-server-protocol/specifications/lsp/3.17/specification#cancelParams
type CancelParams struct {
	// The request id to cancel.
	ID any `json:"id"`
}

func cancelCall(ctx context.Context, sender connSender, id rpc.ID) {
	ctx = xcontext.Detach(ctx)
	_ = sender.Notify(ctx, "$/cancelRequest", &CancelParams{ID: id})
}

// ServerHandler returns an rpc.Handler that dispatches LSP methods to server
// and falls back to handler for anything the server does not implement.
func ServerHandler(server Server, handler rpc.Handler) rpc.Handler {
	return func(ctx context.Context, reply rpc.Replier, req rpc.Request) error {
		if ctx.Err() != nil {
			ctx := xcontext.Detach(ctx)
			return reply(ctx, nil, RequestCancelledError)
		}
		handled, err := serverDispatch(ctx, server, reply, req)
		if handled || err != nil {
			return err
		}
		if _, isCall := req.(*rpc.Call); !isCall {
			// unknown notifications (e.g. $/setTrace, didChange) are dropped
			return nil
		}
		return handler(ctx, reply, req)
	}
}
