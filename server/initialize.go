package server

import (
	"context"
	"fmt"

	"github.com/0x15BA88FF/brain-surgeon/lsp"
	"github.com/0x15BA88FF/brain-surgeon/rpc"
)

func (s *server) Initialize(ctx context.Context, params *lsp.InitializeRequestParams) (*lsp.InitializeResult, error) {
	s.stateMu.Lock()
	if s.state >= serverInitializing {
		defer s.stateMu.Unlock()
		return nil, fmt.Errorf("%w: initialize called while server in %v state", rpc.ErrInvalidRequest, s.state)
	}
	s.progress.SetSupportsWorkDoneProgress(params.Capabilities.Window.WorkDoneProgress)
	s.state = serverInitializing
	s.stateMu.Unlock()

	if params.ClientInfo != nil {
		s.logger.Printf("initializing for %s %s", params.ClientInfo.Name, params.ClientInfo.Version)
	}
	return &lsp.InitializeResult{
		Capabilities: lsp.ServerCapabilities{
			TextDocumentSync: lsp.TextDocumentSyncOptions{
				OpenClose: true,
				Change:    lsp.SyncNone,
				Save:      &lsp.SaveOptions{IncludeText: false},
			},
		},
		ServerInfo: lsp.ServerInfo{
			Name:    "bslsp",
			Version: s.version,
		},
	}, nil
}

// ActiveMessage is shown once the client has finished initializing.
const ActiveMessage = "Brain Surgeon is active!"

func (s *server) Initialized(ctx context.Context, params *lsp.InitializedParams) error {
	s.stateMu.Lock()
	if s.state >= serverInitialized {
		defer s.stateMu.Unlock()
		return fmt.Errorf("%w: initialized called while server in %v state", rpc.ErrInvalidRequest, s.state)
	}
	s.state = serverInitialized
	s.stateMu.Unlock()

	s.showMessage(ctx, lsp.MessageTypeInfo, ActiveMessage)
	return nil
}
