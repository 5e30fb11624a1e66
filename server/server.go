// Package server implements the brain-surgeon language server: it tracks
// open documents and, on every save of a Brainfuck document, runs
// brain-surgeon to lint and format it.
package server

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"sync"

	"github.com/0x15BA88FF/brain-surgeon/diagnostics"
	"github.com/0x15BA88FF/brain-surgeon/invoker"
	"github.com/0x15BA88FF/brain-surgeon/lsp"
	"github.com/pulumi/pulumi/sdk/v3/go/common/util/contract"
)

// Invoker starts brain-surgeon invocations. *invoker.Runner implements it.
type Invoker interface {
	Lint(ctx context.Context, path string) *invoker.Task
	Format(ctx context.Context, path string) *invoker.Task
}

type Option func(*server)

// WithInvoker sets what runs brain-surgeon. The default is an
// invoker.Runner for the default executable.
func WithInvoker(inv Invoker) Option {
	return func(s *server) {
		s.invoker = inv
	}
}

// WithResults makes every pipeline result also be sent to results. The
// receiver must keep draining it.
func WithResults(results chan<- PipelineResult) Option {
	return func(s *server) {
		s.results = results
	}
}

func WithVersion(version string) Option {
	return func(s *server) {
		s.version = version
	}
}

// WithExit replaces os.Exit for the exit notification.
func WithExit(exit func(code int)) Option {
	return func(s *server) {
		s.exit = exit
	}
}

// New creates an LSP server that reports to client. The diagnostic
// collection lives from here until shutdown.
func New(logger *log.Logger, client lsp.Client, opts ...Option) lsp.Server {
	return newServer(logger, client, opts...)
}

func newServer(logger *log.Logger, client lsp.Client, opts ...Option) *server {
	contract.Assertf(client != nil, "server needs a client")
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	s := &server{
		logger:    logger,
		client:    client,
		documents: newDocuments(),
		progress:  NewTracker(client, logger),
		version:   "dev",
		exit:      os.Exit,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.invoker == nil {
		s.invoker = invoker.New(invoker.WithLogger(logger))
	}
	s.diagnostics = diagnostics.NewCollection(diagnostics.Source, client)
	return s
}

type serverState int

const (
	serverCreated      = serverState(iota)
	serverInitializing // set once the server has received "initialize" request
	serverInitialized  // set once the server has received "initialized" request
	serverShutDown
)

func (s serverState) String() string {
	switch s {
	case serverCreated:
		return "created"
	case serverInitializing:
		return "initializing"
	case serverInitialized:
		return "initialized"
	case serverShutDown:
		return "shutDown"
	}
	return fmt.Sprintf("(unknown state: %d)", int(s))
}

type server struct {
	logger  *log.Logger
	client  lsp.Client
	invoker Invoker
	version string
	exit    func(code int)

	stateMu sync.Mutex
	state   serverState

	documents *documents

	// diagnostics is the set of diagnostics published for each document.
	// It is disposed on shutdown.
	diagnostics *diagnostics.Collection

	// progress is the progress tracker used to report progress
	// to the client.
	progress *Tracker

	// results, if set, also receives every pipeline result.
	results chan<- PipelineResult
}

func (s *server) Logger() *log.Logger {
	return s.logger
}

func (s *server) currentState() serverState {
	s.stateMu.Lock()
	defer s.stateMu.Unlock()
	return s.state
}

// Shutdown implements the 'shutdown' LSP handler. It disposes the
// diagnostic collection, clearing everything published. Invocations still
// running are not waited for; their results are dropped.
func (s *server) Shutdown(ctx context.Context) error {
	s.stateMu.Lock()
	defer s.stateMu.Unlock()
	if s.state != serverShutDown {
		s.state = serverShutDown
		s.logger.Printf("disposing %s diagnostics for %d documents", s.diagnostics.Name(), len(s.diagnostics.URIs()))
		if err := s.diagnostics.Dispose(ctx); err != nil {
			s.logger.Printf("error disposing %s diagnostics: %v", s.diagnostics.Name(), err)
		}
	}
	return nil
}

func (s *server) Exit(ctx context.Context) error {
	s.stateMu.Lock()
	defer s.stateMu.Unlock()
	if s.state != serverShutDown {
		s.exit(1)
		return nil
	}
	s.exit(0)
	return nil
}
