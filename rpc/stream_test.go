package rpc

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHeaderStreamRoundTrip(t *testing.T) {
	ctx := context.Background()
	var buf bytes.Buffer
	out := NewHeaderStream(strings.NewReader(""), &buf)

	notify, err := NewNotification("textDocument/didSave", map[string]any{
		"textDocument": map[string]string{"uri": "file:///tmp/a.bf"},
	})
	require.NoError(t, err)
	_, err = out.Write(ctx, notify)
	require.NoError(t, err)

	call, err := NewCall(NewIntID(7), "initialize", map[string]any{})
	require.NoError(t, err)
	_, err = out.Write(ctx, call)
	require.NoError(t, err)

	require.True(t, strings.HasPrefix(buf.String(), "Content-Length: "))

	in := NewHeaderStream(&buf, io.Discard)
	msg, _, err := in.Read(ctx)
	require.NoError(t, err)
	gotNotify, ok := msg.(*Notification)
	require.True(t, ok, "expected a notification, got %T", msg)
	assert.Equal(t, "textDocument/didSave", gotNotify.Method())
	assert.JSONEq(t, `{"textDocument":{"uri":"file:///tmp/a.bf"}}`, string(gotNotify.Params()))

	msg, _, err = in.Read(ctx)
	require.NoError(t, err)
	gotCall, ok := msg.(*Call)
	require.True(t, ok, "expected a call, got %T", msg)
	assert.Equal(t, "initialize", gotCall.Method())
	assert.Equal(t, NewIntID(7), gotCall.ID())

	_, _, err = in.Read(ctx)
	assert.ErrorIs(t, err, io.EOF)
}

func TestHeaderStreamErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "missing length", input: "Content-Type: x\r\n\r\n{}", want: "missing Content-Length"},
		{name: "bad length", input: "Content-Length: abc\r\n\r\n", want: "failed parsing Content-Length"},
		{name: "bad header", input: "nonsense\r\n\r\n", want: "invalid header line"},
		{name: "bad json", input: "Content-Length: 3\r\n\r\n{x}", want: "unmarshaling jsonrpc message"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewHeaderStream(strings.NewReader(tt.input), io.Discard)
			_, _, err := s.Read(context.Background())
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestResponseCarriesWireError(t *testing.T) {
	resp, err := NewResponse(NewStringID("a"), nil, MethodNotFoundErr("textDocument/hover"))
	require.NoError(t, err)
	data, err := json.Marshal(resp)
	require.NoError(t, err)

	msg, err := DecodeMessage(data)
	require.NoError(t, err)
	decoded, ok := msg.(*Response)
	require.True(t, ok)
	assert.Equal(t, NewStringID("a"), decoded.ID())

	var wireErr *WireError
	require.ErrorAs(t, decoded.Err(), &wireErr)
	assert.Equal(t, ErrMethodNotFound.Code, wireErr.Code)
	assert.Contains(t, wireErr.Message, "textDocument/hover")
}
