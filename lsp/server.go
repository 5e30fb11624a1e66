package lsp

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"path/filepath"
	"strings"

	"github.com/0x15BA88FF/brain-surgeon/rpc"
)

type DocumentURI string

type LanguageKind string

// Path returns the file system path of a file:// URI. Percent-encoded
// characters are decoded. Any other scheme yields the empty string.
func (uri DocumentURI) Path() string {
	u, err := url.Parse(string(uri))
	if err != nil || u.Scheme != "file" {
		return ""
	}
	p := u.Path
	// file:///C:/x parses with a leading slash before the drive letter
	if len(p) >= 3 && p[0] == '/' && p[2] == ':' {
		p = p[1:]
	}
	return filepath.FromSlash(p)
}

// URIFromPath returns the file:// URI of an absolute path.
func URIFromPath(path string) DocumentURI {
	if path == "" {
		return ""
	}
	p := filepath.ToSlash(path)
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	u := url.URL{Scheme: "file", Path: p}
	return DocumentURI(u.String())
}

type Server interface {
	// See https://microsoft.github.io/language-server-protocol/specifications/lsp/3.17/specification#exit
	Exit(context.Context) error
	// See https://microsoft.github.io/language-server-protocol/specifications/lsp/3.17/specification#initialize
	Initialize(context.Context, *InitializeRequestParams) (*InitializeResult, error)
	// See https://microsoft.github.io/language-server-protocol/specifications/lsp/3.17/specification#initialized
	Initialized(context.Context, *InitializedParams) error
	// See https://microsoft.github.io/language-server-protocol/specifications/lsp/3.17/specification#shutdown
	Shutdown(context.Context) error
	// See https://microsoft.github.io/language-server-protocol/specifications/lsp/3.17/specification#textDocument_didClose
	DidClose(context.Context, *DidCloseTextDocumentParams) error
	// See https://microsoft.github.io/language-server-protocol/specifications/lsp/3.17/specification#textDocument_didOpen
	DidOpen(context.Context, *DidOpenTextDocumentParams) error
	// See https://microsoft.github.io/language-server-protocol/specifications/lsp/3.17/specification#textDocument_didSave
	DidSave(context.Context, *DidSaveTextDocumentParams) error
	Logger() *log.Logger
}

func serverDispatch(ctx context.Context, server Server, reply rpc.Replier, r rpc.Request) (bool, error) {
	switch r.Method() {
	case "exit":
		err := server.Exit(ctx)
		return true, reply(ctx, nil, err)
	case "shutdown":
		err := server.Shutdown(ctx)
		return true, reply(ctx, nil, err)
	case "initialize":
		server.Logger().Printf("Received initialize request: %s", string(r.Params()))
		var params InitializeRequestParams
		if err := UnmarshalJSON(r.Params(), &params); err != nil {
			return true, sendParseError(ctx, reply, err)
		}
		resp, err := server.Initialize(ctx, &params)
		if err != nil {
			server.Logger().Printf("Error initialize: %s", err)
		}
		return true, reply(ctx, resp, err)
	case "initialized":
		var params InitializedParams
		if err := UnmarshalJSON(r.Params(), &params); err != nil {
			return true, sendParseError(ctx, reply, err)
		}
		err := server.Initialized(ctx, &params)
		if err != nil {
			server.Logger().Printf("Error initialized: %s", err)
		}
		return true, reply(ctx, nil, err)
	case "textDocument/didOpen":
		var params DidOpenTextDocumentParams
		if err := UnmarshalJSON(r.Params(), &params); err != nil {
			return true, sendParseError(ctx, reply, err)
		}
		err := server.DidOpen(ctx, &params)
		if err != nil {
			server.Logger().Printf("Error didOpen: %s", err)
		}
		return true, reply(ctx, nil, err)
	case "textDocument/didClose":
		var params DidCloseTextDocumentParams
		if err := UnmarshalJSON(r.Params(), &params); err != nil {
			return true, sendParseError(ctx, reply, err)
		}
		err := server.DidClose(ctx, &params)
		if err != nil {
			server.Logger().Printf("Error didClose: %s", err)
		}
		return true, reply(ctx, nil, err)
	case "textDocument/didSave":
		server.Logger().Printf("Received didSave notification: %s", string(r.Params()))
		var params DidSaveTextDocumentParams
		if err := UnmarshalJSON(r.Params(), &params); err != nil {
			return true, sendParseError(ctx, reply, err)
		}
		err := server.DidSave(ctx, &params)
		if err != nil {
			server.Logger().Printf("Error didSave: %s", err)
		}
		return true, reply(ctx, nil, err)
	default:
		return false, nil
	}
}

func sendParseError(ctx context.Context, reply rpc.Replier, err error) error {
	return reply(ctx, nil, fmt.Errorf("%w: %s", rpc.ErrParse, err))
}
