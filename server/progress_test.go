package server

import (
	"context"
	"io"
	"log"
	"testing"

	"github.com/0x15BA88FF/brain-surgeon/lsp"
	"github.com/0x15BA88FF/brain-surgeon/lsp/lsptest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTrackerWithoutClientSupport(t *testing.T) {
	client := &lsptest.Client{}
	tracker := NewTracker(client, log.New(io.Discard, "", 0))

	wd := tracker.Start(context.Background(), "Brain Surgeon", "Linting hello.bf")
	wd.End(context.Background(), "Done.")

	assert.Empty(t, client.Progress())
	assert.Empty(t, client.Shown())
}

func TestTrackerReportsProgress(t *testing.T) {
	client := &lsptest.Client{}
	tracker := NewTracker(client, log.New(io.Discard, "", 0))
	tracker.SetSupportsWorkDoneProgress(true)

	wd := tracker.Start(context.Background(), "Brain Surgeon", "Linting hello.bf")
	assert.Equal(t, 1, tracker.InProgress())
	wd.End(context.Background(), "Done.")
	assert.Equal(t, 0, tracker.InProgress())

	progress := client.Progress()
	require.Len(t, progress, 3)
	create := progress[0].(*lsp.WorkDoneProgressCreateParams)
	begin := progress[1].(*lsp.WorkDoneProgressBeginParams)
	end := progress[2].(*lsp.WorkDoneProgressEndParams)
	assert.Equal(t, create.Token, begin.Token)
	assert.Equal(t, create.Token, end.Token)
	assert.Equal(t, &lsp.WorkDoneProgressBeginValue{
		Kind:    lsp.Begin,
		Title:   "Brain Surgeon",
		Message: "Linting hello.bf",
	}, begin.Value)
	assert.Equal(t, lsp.End, end.Value.Kind)
}

func TestTrackerCreateFails(t *testing.T) {
	client := &lsptest.Client{Err: assert.AnError}
	tracker := NewTracker(client, log.New(io.Discard, "", 0))
	tracker.SetSupportsWorkDoneProgress(true)

	wd := tracker.Start(context.Background(), "Brain Surgeon", "Linting")
	wd.End(context.Background(), "Done.")

	assert.Len(t, client.Progress(), 1)
	assert.Equal(t, 0, tracker.InProgress())
}
