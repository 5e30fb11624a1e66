package invoker

import (
	"context"
	"sync"
)

// Result is the captured outcome of one invocation. A spawn failure and a
// non-zero exit both land in Err; callers that only need output can ignore
// the difference.
type Result struct {
	ID       string
	Args     []string
	Stdout   []byte
	Stderr   []byte
	ExitCode int
	Err      error
}

func (r Result) Failed() bool {
	return r.Err != nil || r.ExitCode != 0
}

// Task is a running invocation. Its Result is computed exactly once.
type Task struct {
	id   string
	args []string

	once   sync.Once
	done   chan struct{}
	result Result
}

func newTask(id string, args []string) *Task {
	return &Task{id: id, args: args, done: make(chan struct{})}
}

func (t *Task) ID() string { return t.id }

func (t *Task) complete(res Result) {
	t.once.Do(func() {
		t.result = res
		close(t.done)
	})
}

// Done is closed once the invocation has finished.
func (t *Task) Done() <-chan struct{} {
	return t.done
}

// Result returns the outcome. It must only be called after Done is closed.
func (t *Task) Result() Result {
	<-t.done
	return t.result
}

// Wait blocks until the invocation finishes or ctx is done. Giving up on
// the wait leaves the process running.
func (t *Task) Wait(ctx context.Context) (Result, error) {
	select {
	case <-ctx.Done():
		return Result{}, ctx.Err()
	case <-t.done:
		return t.result, nil
	}
}
