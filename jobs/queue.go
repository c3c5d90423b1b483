// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package jobs

import (
	"container/list"
	"context"
	"errors"
	"log/slog"
	"runtime"
	"sync"

	"golang.org/x/sync/semaphore"
)

// ErrQueueClosed is returned when adding a task to a closed [Queue].
var ErrQueueClosed = errors.New("jobs: queue closed")

// Scheduler is the interface through which other packages submit
// background work. [Queue] implements it.
type Scheduler interface {
	// Add starts the task by appending it to the pending list.
	Add(t *Task) error

	// Cancel cancels the given task.
	Cancel(t *Task)
}

// Queue runs tasks in FIFO order on a fixed number of workers.
// A dispatcher goroutine takes the front of the pending list whenever
// the weighted semaphore, which counts idle workers, can be acquired.
type Queue struct {
	workers int
	sem     *semaphore.Weighted

	mu      sync.Mutex
	cond    *sync.Cond
	pending *list.List
	elems   map[*Task]*list.Element
	running int
	closed  bool

	ctx  context.Context
	stop context.CancelFunc
}

var _ Scheduler = (*Queue)(nil)

// NewQueue returns a new running queue with the given number of workers.
// A value <= 0 uses the number of CPUs.
func NewQueue(workers int) *Queue {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	q := &Queue{
		workers: workers,
		sem:     semaphore.NewWeighted(int64(workers)),
		pending: list.New(),
		elems:   map[*Task]*list.Element{},
	}
	q.cond = sync.NewCond(&q.mu)
	q.ctx, q.stop = context.WithCancel(context.Background())
	go q.dispatch()
	return q
}

// Workers returns the number of workers.
func (q *Queue) Workers() int {
	return q.workers
}

// Add appends the task to the pending list. A task can only be added once.
func (q *Queue) Add(t *Task) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return ErrQueueClosed
	}
	t.mu.Lock()
	if t.state != TaskNew {
		t.mu.Unlock()
		return errors.New("jobs.Queue.Add: task " + t.Name + " was already started")
	}
	t.state = TaskPending
	t.queue = q
	t.ctx, t.cancel = context.WithCancel(q.ctx)
	t.mu.Unlock()
	q.elems[t] = q.pending.PushBack(t)
	q.cond.Broadcast()
	return nil
}

// Cancel removes a pending task from the queue, or cancels the context
// of a running task, whose result is then discarded.
func (q *Queue) Cancel(t *Task) {
	q.mu.Lock()
	if el, ok := q.elems[t]; ok {
		q.pending.Remove(el)
		delete(q.elems, t)
		q.cond.Broadcast()
	}
	q.mu.Unlock()
	if t.markCanceled() {
		slog.Debug("jobs.Queue: canceled task", "task", t.Name)
	}
}

// Len returns the number of pending and running tasks.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.pending.Len() + q.running
}

// Wait blocks until there are no pending or running tasks.
// It is intended for tests and shutdown, not for the rendering thread.
func (q *Queue) Wait() {
	q.mu.Lock()
	for q.pending.Len() > 0 || q.running > 0 {
		q.cond.Wait()
	}
	q.mu.Unlock()
}

// Close cancels all pending tasks, cancels the context of running tasks,
// and stops the dispatcher. Tasks can not be added afterwards.
func (q *Queue) Close() {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return
	}
	q.closed = true
	var canceled []*Task
	for el := q.pending.Front(); el != nil; el = el.Next() {
		canceled = append(canceled, el.Value.(*Task))
	}
	q.pending.Init()
	clear(q.elems)
	q.cond.Broadcast()
	q.mu.Unlock()
	for _, t := range canceled {
		t.markCanceled()
	}
	q.stop()
}

// dispatch hands pending tasks to idle workers in FIFO order.
func (q *Queue) dispatch() {
	for {
		q.mu.Lock()
		for q.pending.Len() == 0 && !q.closed {
			q.cond.Wait()
		}
		closed := q.closed
		q.mu.Unlock()
		if closed {
			return
		}
		if err := q.sem.Acquire(q.ctx, 1); err != nil {
			return
		}
		q.mu.Lock()
		el := q.pending.Front()
		if el == nil { // canceled while waiting for a worker
			q.mu.Unlock()
			q.sem.Release(1)
			continue
		}
		t := q.pending.Remove(el).(*Task)
		delete(q.elems, t)
		q.running++
		q.mu.Unlock()
		go q.work(t)
	}
}

// work runs one task and frees its worker.
func (q *Queue) work(t *Task) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("jobs.Queue: task panicked", "task", t.Name, "panic", r)
			t.mu.Lock()
			if t.state == TaskRunning {
				t.state = TaskFinished
				t.err = errors.New("jobs: task panicked")
			}
			t.mu.Unlock()
			t.closeDone()
		}
		q.sem.Release(1)
		q.mu.Lock()
		q.running--
		q.cond.Broadcast()
		q.mu.Unlock()
	}()
	t.run()
}
