// Package logger forwards slog records to the client stored in the record's
// context (see lsp.WithClient) as window/logMessage notifications.
package logger

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/0x15BA88FF/brain-surgeon/lsp"
	"github.com/0x15BA88FF/brain-surgeon/xcontext"
)

// ProgramLevel is the level shared by the server's handlers.
var ProgramLevel = new(slog.LevelVar)

const queueSize = 100 // big enough for a large transient burst

// sender delivers messages in order from a single goroutine. Messages that
// arrive while the queue is full are dropped rather than blocking the
// logging caller.
type sender struct {
	once  sync.Once
	queue chan func()
}

func (s *sender) send(ctx context.Context, client lsp.Client, msg *lsp.LogMessageParams) {
	s.once.Do(func() {
		go func() {
			for fn := range s.queue {
				fn()
			}
		}()
	})
	ctx = xcontext.Detach(ctx)
	select {
	case s.queue <- func() { _ = client.LogMessage(ctx, msg) }:
	default:
	}
}

// Handler sends records at or above its level to the client and passes
// every record on to the next handler.
type Handler struct {
	sender *sender
	level  slog.Leveler
	next   slog.Handler
	attrs  []slog.Attr
	groups []string
}

var _ slog.Handler = (*Handler)(nil)

// NewHandler returns a handler forwarding to the client of each record's
// context. A nil level means ProgramLevel; a nil next drops records after
// forwarding.
func NewHandler(level slog.Leveler, next slog.Handler) *Handler {
	if level == nil {
		level = ProgramLevel
	}
	if next == nil {
		next = discardHandler{}
	}
	return &Handler{
		sender: &sender{queue: make(chan func(), queueSize)},
		level:  level,
		next:   next,
	}
}

func (h *Handler) Enabled(ctx context.Context, level slog.Level) bool {
	return level >= h.level.Level() || h.next.Enabled(ctx, level)
}

func (h *Handler) Handle(ctx context.Context, r slog.Record) error {
	if r.Level >= h.level.Level() {
		if client := lsp.GetClient(ctx); client != nil {
			h.sender.send(ctx, client, &lsp.LogMessageParams{
				Type:    MessageType(r.Level),
				Message: h.format(r),
			})
		}
	}
	if h.next.Enabled(ctx, r.Level) {
		return h.next.Handle(ctx, r)
	}
	return nil
}

func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	h2 := *h
	prefix := strings.Join(h.groups, ".")
	for _, a := range attrs {
		if prefix != "" {
			a.Key = prefix + "." + a.Key
		}
		h2.attrs = append(h2.attrs[:len(h2.attrs):len(h2.attrs)], a)
	}
	h2.next = h.next.WithAttrs(attrs)
	return &h2
}

func (h *Handler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	h2 := *h
	h2.groups = append(h2.groups[:len(h2.groups):len(h2.groups)], name)
	h2.next = h.next.WithGroup(name)
	return &h2
}

func (h *Handler) format(r slog.Record) string {
	var b strings.Builder
	b.WriteString(r.Message)
	write := func(a slog.Attr) {
		fmt.Fprintf(&b, " %s=%v", a.Key, a.Value.Resolve())
	}
	for _, a := range h.attrs {
		write(a)
	}
	prefix := strings.Join(h.groups, ".")
	r.Attrs(func(a slog.Attr) bool {
		if prefix != "" {
			a.Key = prefix + "." + a.Key
		}
		write(a)
		return true
	})
	return b.String()
}

// MessageType maps a slog level to the closest LSP message type.
func MessageType(level slog.Level) lsp.MessageType {
	switch {
	case level >= slog.LevelError:
		return lsp.MessageTypeError
	case level >= slog.LevelWarn:
		return lsp.MessageTypeWarning
	case level >= slog.LevelInfo:
		return lsp.MessageTypeInfo
	default:
		return lsp.MessageTypeLog
	}
}

type discardHandler struct{}

func (discardHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (discardHandler) Handle(context.Context, slog.Record) error { return nil }
func (d discardHandler) WithAttrs([]slog.Attr) slog.Handler      { return d }
func (d discardHandler) WithGroup(string) slog.Handler           { return d }
