// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package jobs provides units of background work ([Task]) and the FIFO
// worker [Queue] that runs them. Requesters never block on a task: they
// poll [Task.Finished] or register [Task.OnFinished] callbacks, and
// cancellation is best-effort.
package jobs

import (
	"context"
	"errors"
	"sync"
)

// ErrCanceled is the error of a task that was canceled.
var ErrCanceled = errors.New("jobs: task canceled")

// Func is the work done by a [Task]. The context is canceled when
// the task is canceled while running; honoring it is optional.
type Func func(ctx context.Context) (any, error)

// TaskState is the lifecycle state of a [Task].
type TaskState int32

const (
	// TaskNew is a task that has not been added to a queue.
	TaskNew TaskState = iota

	// TaskPending is a task waiting in a queue.
	TaskPending

	// TaskRunning is a task whose function is running on a worker.
	TaskRunning

	// TaskFinished is a task whose function has returned.
	TaskFinished

	// TaskCanceled is a task that was canceled before or while running.
	TaskCanceled
)

// Task is a single unit of background work with a result slot.
type Task struct {
	// Name is used for logging.
	Name string

	fn Func

	mu         sync.Mutex
	state      TaskState
	result     any
	err        error
	done       chan struct{}
	doneOnce   sync.Once
	ctx        context.Context
	cancel     context.CancelFunc
	queue      *Queue
	onFinished []func(t *Task)
}

// NewTask returns a new task that runs fn when started by a [Queue].
func NewTask(name string, fn Func) *Task {
	return &Task{Name: name, fn: fn, done: make(chan struct{})}
}

// State returns the current state of the task.
func (t *Task) State() TaskState {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

// Finished returns whether the task has finished or been canceled.
func (t *Task) Finished() bool {
	select {
	case <-t.done:
		return true
	default:
		return false
	}
}

// Canceled returns whether the task was canceled. The result of a
// canceled task must be ignored.
func (t *Task) Canceled() bool {
	return t.State() == TaskCanceled
}

// Done returns a channel that is closed when the task finishes or is canceled.
func (t *Task) Done() <-chan struct{} {
	return t.done
}

// Result returns the result of the task. It returns [ErrCanceled] for
// a canceled task, and a nil result before the task has finished.
func (t *Task) Result() (any, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	switch t.state {
	case TaskCanceled:
		return nil, ErrCanceled
	case TaskFinished:
		return t.result, t.err
	}
	return nil, nil
}

// OnFinished adds a function that is called on the worker goroutine
// after the task function returns and its result is stored. It is not
// called for canceled tasks. If the task has already finished, fn is
// called immediately.
func (t *Task) OnFinished(fn func(t *Task)) {
	t.mu.Lock()
	if t.state == TaskFinished {
		t.mu.Unlock()
		fn(t)
		return
	}
	t.onFinished = append(t.onFinished, fn)
	t.mu.Unlock()
}

// Cancel cancels the task. A pending task is removed from its queue;
// a running task has its context canceled and its result discarded.
// Canceling a finished task does nothing.
func (t *Task) Cancel() {
	t.mu.Lock()
	q := t.queue
	t.mu.Unlock()
	if q != nil {
		q.Cancel(t)
		return
	}
	t.markCanceled()
}

// markCanceled moves a task that has not finished to TaskCanceled.
// It returns false if the task had already finished.
func (t *Task) markCanceled() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	switch t.state {
	case TaskFinished, TaskCanceled:
		return false
	}
	running := t.state == TaskRunning
	t.state = TaskCanceled
	if t.cancel != nil {
		t.cancel()
	}
	if !running {
		t.closeDone()
	}
	return true
}

// run runs the task function and stores its result.
func (t *Task) run() {
	t.mu.Lock()
	if t.state != TaskPending {
		t.mu.Unlock()
		return
	}
	t.state = TaskRunning
	ctx := t.ctx
	t.mu.Unlock()

	res, err := t.fn(ctx)

	t.mu.Lock()
	if t.state == TaskCanceled {
		t.mu.Unlock()
		t.closeDone()
		return
	}
	t.state = TaskFinished
	t.result, t.err = res, err
	fns := t.onFinished
	t.onFinished = nil
	if t.cancel != nil {
		t.cancel()
	}
	t.mu.Unlock()
	for _, fn := range fns {
		fn(t)
	}
	t.closeDone()
}

// closeDone closes the done channel once.
func (t *Task) closeDone() {
	t.doneOnce.Do(func() { close(t.done) })
}
