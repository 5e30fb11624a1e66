package server

import (
	"context"
	"log/slog"

	"github.com/0x15BA88FF/brain-surgeon/debug"
	"github.com/0x15BA88FF/brain-surgeon/file"
	"github.com/0x15BA88FF/brain-surgeon/lsp"
	"github.com/0x15BA88FF/brain-surgeon/xcontext"
)

// ModificationSource identifies the origin of a change.
type ModificationSource int

const (
	// FromDidOpen is from a didOpen notification.
	FromDidOpen = ModificationSource(iota)

	// FromDidSave is from a didSave notification.
	FromDidSave

	// FromDidClose is from a didClose notification.
	FromDidClose
)

func (m ModificationSource) String() string {
	switch m {
	case FromDidOpen:
		return "didOpen"
	case FromDidSave:
		return "didSave"
	case FromDidClose:
		return "didClose"
	}
	return "unknown"
}

func (s *server) DidOpen(ctx context.Context, params *lsp.DidOpenTextDocumentParams) error {
	return s.didModifyFiles(ctx, []file.Modification{{
		URI:        params.TextDocument.URI,
		Action:     file.Open,
		Version:    params.TextDocument.Version,
		LanguageID: params.TextDocument.LanguageID,
	}}, FromDidOpen)
}

// DidClose forgets the document. Its published diagnostics stay.
func (s *server) DidClose(ctx context.Context, params *lsp.DidCloseTextDocumentParams) error {
	return s.didModifyFiles(ctx, []file.Modification{{
		URI:     params.TextDocument.URI,
		Action:  file.Close,
		Version: -1,
	}}, FromDidClose)
}

func (s *server) DidSave(ctx context.Context, params *lsp.DidSaveTextDocumentParams) error {
	ctx, done := debug.Start(ctx, "DidSave", slog.String("uri", string(params.TextDocument.URI)))
	defer done()
	return s.didModifyFiles(ctx, []file.Modification{{
		URI:     params.TextDocument.URI,
		Action:  file.Save,
		Version: -1,
	}}, FromDidSave)
}

// didModifyFiles records modifications and, for saves of Brainfuck
// documents, starts the lint and format pipelines. It never waits for them.
func (s *server) didModifyFiles(ctx context.Context, modifications []file.Modification, cause ModificationSource) error {
	ctx, done := debug.Start(ctx, "textdocument.didModifyFiles", "cause", cause.String())
	defer done()

	for _, mod := range modifications {
		fh := s.documents.apply(mod)
		if cause != FromDidSave {
			continue
		}
		if !admit(fh) {
			debug.Debug.Log(ctx, "not running brain-surgeon", "uri", mod.URI)
			continue
		}
		if state := s.currentState(); state == serverShutDown {
			s.logger.Printf("ignoring save of %s while server in %v state", mod.URI, state)
			continue
		}
		// pipelines outlive the notification that started them
		pctx := xcontext.Detach(ctx)
		s.forward(s.lintDocument(pctx, fh), s.formatDocument(pctx, fh))
	}
	return nil
}

// forward passes pipeline results on to the results sink, if any.
func (s *server) forward(chans ...<-chan PipelineResult) {
	if s.results == nil {
		return
	}
	for _, ch := range chans {
		go func() {
			for res := range ch {
				s.results <- res
			}
		}()
	}
}
