package assistant

import (
	"context"
	"strings"
	"sync"
	"sync/atomic"

	"gosheet/domain/core"
)

// Task is one streaming reply. Deltas stop being delivered as soon as the
// task is cancelled, and a cancelled task never installs a table.
type Task struct {
	ID         core.TaskID
	DocumentID core.DocumentID

	ctx       context.Context
	cancel    context.CancelFunc
	cancelled atomic.Bool
	onDelta   func(string)

	mu    sync.Mutex
	text  strings.Builder
	reply *Reply
	err   error
	done  chan struct{}
}

func newTask(parent context.Context, id core.DocumentID, onDelta func(string)) *Task {
	ctx, cancel := context.WithCancel(parent)
	return &Task{
		ID:         core.NewTaskID(),
		DocumentID: id,
		ctx:        ctx,
		cancel:     cancel,
		onDelta:    onDelta,
		done:       make(chan struct{}),
	}
}

// emit appends a delta to the visible reply and forwards it
func (t *Task) emit(delta string) {
	if t.stopped() {
		return
	}
	t.mu.Lock()
	t.text.WriteString(delta)
	t.mu.Unlock()
	if t.onDelta != nil {
		t.onDelta(delta)
	}
}

func (t *Task) finish(reply *Reply, err error) {
	t.mu.Lock()
	t.reply = reply
	t.err = err
	t.mu.Unlock()
}

// Cancel stops the task
func (t *Task) Cancel() {
	t.cancelled.Store(true)
	t.cancel()
}

// Cancelled reports whether the task was cancelled
func (t *Task) Cancelled() bool {
	return t.cancelled.Load()
}

// stopped also notices cancellation of the parent context. It is only
// consulted while the task runs, before its own context is released.
func (t *Task) stopped() bool {
	if t.ctx.Err() != nil {
		t.cancelled.Store(true)
	}
	return t.cancelled.Load()
}

// Text returns the reply text delivered so far
func (t *Task) Text() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.text.String()
}

// Done is closed when the task has finished
func (t *Task) Done() <-chan struct{} {
	return t.done
}

// Wait blocks until the task finishes or ctx ends
func (t *Task) Wait(ctx context.Context) (*Reply, error) {
	select {
	case <-t.done:
		t.mu.Lock()
		defer t.mu.Unlock()
		return t.reply, t.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
