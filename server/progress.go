package server

import (
	"context"
	"log"
	"strconv"
	"sync"

	"github.com/0x15BA88FF/brain-surgeon/lsp"
	"github.com/0x15BA88FF/brain-surgeon/xcontext"
	"golang.org/x/exp/rand"
)

// A Tracker reports the progress of a long-running operation to an LSP client.
type Tracker struct {
	client lsp.Client
	logger *log.Logger

	mu                       sync.Mutex
	supportsWorkDoneProgress bool
	inProgress               map[lsp.ProgressToken]*WorkDone
}

// NewTracker returns a new Tracker that reports progress to the
// specified client.
func NewTracker(client lsp.Client, logger *log.Logger) *Tracker {
	return &Tracker{
		client:     client,
		logger:     logger,
		inProgress: make(map[lsp.ProgressToken]*WorkDone),
	}
}

// SetSupportsWorkDoneProgress sets whether the client supports "work done"
// progress reporting. Without it, progress is only logged.
func (t *Tracker) SetSupportsWorkDoneProgress(b bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.supportsWorkDoneProgress = b
}

func (t *Tracker) supported() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.supportsWorkDoneProgress
}

// InProgress returns the number of operations still reporting progress.
func (t *Tracker) InProgress() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.inProgress)
}

// WorkDone represents a unit of work that is reported to the client via the
// progress API.
type WorkDone struct {
	client lsp.Client
	logger *log.Logger
	// If token is nil, progress is only logged.
	token lsp.ProgressToken

	cleanup func()
}

// Start begins reporting an operation. It must not be called from a
// message handler: creating the token is a call to the client, whose reply
// is read by the same loop.
func (t *Tracker) Start(ctx context.Context, title, message string) *WorkDone {
	ctx = xcontext.Detach(ctx)
	wd := &WorkDone{
		client: t.client,
		logger: t.logger,
	}
	if !t.supported() {
		t.logger.Printf("%s: %s", title, message)
		return wd
	}

	token := strconv.FormatInt(rand.Int63(), 10)
	if err := wd.client.WorkDoneProgressCreate(ctx, &lsp.WorkDoneProgressCreateParams{
		Token: token,
	}); err != nil {
		t.logger.Printf("error creating progress token: %v", err)
		return wd
	}
	wd.token = token

	t.mu.Lock()
	t.inProgress[token] = wd
	t.mu.Unlock()
	wd.cleanup = func() {
		t.mu.Lock()
		delete(t.inProgress, token)
		t.mu.Unlock()
	}

	if err := wd.client.ProgressBegin(ctx, &lsp.WorkDoneProgressBeginParams{
		Token: token,
		Value: &lsp.WorkDoneProgressBeginValue{
			Kind:    lsp.Begin,
			Title:   title,
			Message: message,
		},
	}); err != nil {
		t.logger.Printf("error starting progress: %v", err)
	}
	return wd
}

// End reports a workdone completion back to the client.
func (wd *WorkDone) End(ctx context.Context, message string) {
	if wd == nil {
		return
	}
	ctx = xcontext.Detach(ctx) // progress messages should not be cancelled
	if wd.token == nil {
		wd.logger.Printf("progress done: %s", message)
		return
	}
	if err := wd.client.ProgressEnd(ctx, &lsp.WorkDoneProgressEndParams{
		Token: wd.token,
		Value: &lsp.WorkDoneProgressEndValue{
			Kind:    lsp.End,
			Message: message,
		},
	}); err != nil {
		wd.logger.Printf("error ending progress: %v", err)
	}
	if wd.cleanup != nil {
		wd.cleanup()
	}
}
