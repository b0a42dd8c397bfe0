package recompute

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func collect[T any]() (chan Result[T], func(Result[T])) {
	results := make(chan Result[T], 16)
	return results, func(r Result[T]) { results <- r }
}

func TestSchedulerCoalescesBurst(t *testing.T) {
	results, deliver := collect[int]()
	s := New(30*time.Millisecond, Goroutine, deliver, zaptest.NewLogger(t))
	defer s.Close()

	var runs atomic.Int32
	var last string
	for i := 1; i <= 5; i++ {
		value := i
		last = s.Submit("burst", func(ctx context.Context) (int, error) {
			runs.Add(1)
			return value, nil
		})
	}

	select {
	case r := <-results:
		assert.Equal(t, last, r.ID)
		assert.Equal(t, 5, r.Value)
		assert.Equal(t, "burst", r.Reason)
		require.NoError(t, r.Err)
	case <-time.After(2 * time.Second):
		t.Fatal("no result delivered")
	}

	select {
	case r := <-results:
		t.Fatalf("unexpected extra result %+v", r)
	case <-time.After(100 * time.Millisecond):
	}
	assert.Equal(t, int32(1), runs.Load())
}

func TestSchedulerCancelsRunningTask(t *testing.T) {
	results, deliver := collect[string]()
	s := New(time.Millisecond, Goroutine, deliver, nil)
	defer s.Close()

	started := make(chan struct{})
	cancelled := make(chan struct{})
	s.Submit("slow", func(ctx context.Context) (string, error) {
		close(started)
		<-ctx.Done()
		close(cancelled)
		return "slow", ctx.Err()
	})

	select {
	case <-started:
	case <-time.After(2 * time.Second):
		t.Fatal("first task never started")
	}

	latest := s.Submit("fast", func(ctx context.Context) (string, error) {
		return "fast", nil
	})

	select {
	case <-cancelled:
	case <-time.After(2 * time.Second):
		t.Fatal("first task was not cancelled")
	}

	select {
	case r := <-results:
		assert.Equal(t, latest, r.ID)
		assert.Equal(t, "fast", r.Value)
	case <-time.After(2 * time.Second):
		t.Fatal("no result delivered")
	}
	assert.Empty(t, results)
}

func TestSchedulerClosed(t *testing.T) {
	results, deliver := collect[int]()
	s := New(time.Millisecond, Goroutine, deliver, nil)
	s.Close()

	id := s.Submit("late", func(ctx context.Context) (int, error) { return 1, nil })
	assert.NotEmpty(t, id)

	select {
	case r := <-results:
		t.Fatalf("unexpected result after close %+v", r)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestSchedulerUsesExecutor(t *testing.T) {
	results, deliver := collect[int]()
	var executed atomic.Int32
	executor := ExecutorFunc(func(fn func()) {
		executed.Add(1)
		fn()
	})
	s := New(time.Millisecond, executor, deliver, nil)
	defer s.Close()

	s.Submit("inline", func(ctx context.Context) (int, error) { return 42, nil })

	select {
	case r := <-results:
		assert.Equal(t, 42, r.Value)
	case <-time.After(2 * time.Second):
		t.Fatal("no result delivered")
	}
	assert.Equal(t, int32(1), executed.Load())
}
