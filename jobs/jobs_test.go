// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package jobs

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueueRunsTasks(t *testing.T) {
	q := NewQueue(4)
	defer q.Close()

	var n atomic.Int32
	var tasks []*Task
	for i := range 20 {
		tk := NewTask("count", func(ctx context.Context) (any, error) {
			n.Add(1)
			return i, nil
		})
		tasks = append(tasks, tk)
		require.NoError(t, q.Add(tk))
	}
	q.Wait()
	assert.Equal(t, int32(20), n.Load())
	for i, tk := range tasks {
		assert.True(t, tk.Finished())
		res, err := tk.Result()
		assert.NoError(t, err)
		assert.Equal(t, i, res)
	}
	assert.Equal(t, 0, q.Len())
}

func TestQueueFIFO(t *testing.T) {
	q := NewQueue(1)
	defer q.Close()

	var mu sync.Mutex
	var order []int
	for i := range 10 {
		require.NoError(t, q.Add(NewTask("order", func(ctx context.Context) (any, error) {
			mu.Lock()
			order = append(order, i)
			mu.Unlock()
			return nil, nil
		})))
	}
	q.Wait()
	assert.Equal(t, []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}, order)
}

func TestCancelPending(t *testing.T) {
	q := NewQueue(1)
	defer q.Close()

	release := make(chan struct{})
	started := make(chan struct{})
	blocker := NewTask("blocker", func(ctx context.Context) (any, error) {
		close(started)
		<-release
		return "done", nil
	})
	require.NoError(t, q.Add(blocker))
	<-started

	ran := false
	pending := NewTask("pending", func(ctx context.Context) (any, error) {
		ran = true
		return nil, nil
	})
	notified := false
	pending.OnFinished(func(*Task) { notified = true })
	require.NoError(t, q.Add(pending))
	pending.Cancel()
	assert.True(t, pending.Finished())
	assert.True(t, pending.Canceled())

	close(release)
	q.Wait()
	assert.False(t, ran)
	assert.False(t, notified)
	_, err := pending.Result()
	assert.ErrorIs(t, err, ErrCanceled)
	res, err := blocker.Result()
	assert.NoError(t, err)
	assert.Equal(t, "done", res)
}

func TestCancelRunning(t *testing.T) {
	q := NewQueue(1)
	defer q.Close()

	started := make(chan struct{})
	tk := NewTask("running", func(ctx context.Context) (any, error) {
		close(started)
		<-ctx.Done()
		return "stale", nil
	})
	notified := false
	tk.OnFinished(func(*Task) { notified = true })
	require.NoError(t, q.Add(tk))
	<-started
	tk.Cancel()
	q.Wait()
	<-tk.Done()
	assert.True(t, tk.Canceled())
	assert.False(t, notified)
	res, err := tk.Result()
	assert.Nil(t, res)
	assert.ErrorIs(t, err, ErrCanceled)
}

func TestOnFinished(t *testing.T) {
	q := NewQueue(2)
	defer q.Close()

	var got atomic.Value
	tk := NewTask("notify", func(ctx context.Context) (any, error) { return 42, nil })
	tk.OnFinished(func(t *Task) {
		res, _ := t.Result()
		got.Store(res)
	})
	require.NoError(t, q.Add(tk))
	q.Wait()
	<-tk.Done()
	assert.Equal(t, 42, got.Load())

	late := false
	tk.OnFinished(func(*Task) { late = true })
	assert.True(t, late)
}

func TestAddTwiceAndClosed(t *testing.T) {
	q := NewQueue(1)
	tk := NewTask("once", func(ctx context.Context) (any, error) { return nil, nil })
	require.NoError(t, q.Add(tk))
	assert.Error(t, q.Add(tk))
	q.Wait()
	q.Close()
	assert.ErrorIs(t, q.Add(NewTask("late", nil)), ErrQueueClosed)
}

func TestPanickingTask(t *testing.T) {
	q := NewQueue(1)
	defer q.Close()
	tk := NewTask("panic", func(ctx context.Context) (any, error) { panic("boom") })
	require.NoError(t, q.Add(tk))
	q.Wait()
	<-tk.Done()
	_, err := tk.Result()
	assert.Error(t, err)

	ok := NewTask("after", func(ctx context.Context) (any, error) { return 1, nil })
	require.NoError(t, q.Add(ok))
	q.Wait()
	res, _ := ok.Result()
	assert.Equal(t, 1, res)
}
