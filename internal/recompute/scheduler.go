// Package recompute coalesces bursts of recompute requests so that only the
// most recent one runs to completion and reports a result.
package recompute

import (
	"context"
	"sync"
	"time"

	"github.com/bep/debounce"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Executor decides where accepted tasks run
type Executor interface {
	Execute(fn func())
}

// ExecutorFunc adapts a function to Executor
type ExecutorFunc func(fn func())

func (f ExecutorFunc) Execute(fn func()) { f(fn) }

// Goroutine runs every task on its own goroutine
var Goroutine Executor = ExecutorFunc(func(fn func()) { go fn() })

// Task computes one result. It should return promptly once ctx is cancelled.
type Task[T any] func(ctx context.Context) (T, error)

// Result is delivered for the latest request only
type Result[T any] struct {
	ID      string
	Reason  string
	Value   T
	Err     error
	Elapsed time.Duration
}

// Scheduler debounces submissions and supersedes running work. A task whose
// request was replaced is cancelled through its context and its outcome is
// dropped.
type Scheduler[T any] struct {
	logger   *zap.Logger
	executor Executor
	deliver  func(Result[T])
	debounce func(func())

	mu         sync.Mutex
	generation uint64
	cancel     context.CancelFunc
	closed     bool
}

// New creates a scheduler that waits for window without new submissions
// before starting the latest task
func New[T any](window time.Duration, executor Executor, deliver func(Result[T]), logger *zap.Logger) *Scheduler[T] {
	if executor == nil {
		executor = Goroutine
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scheduler[T]{
		logger:   logger,
		executor: executor,
		deliver:  deliver,
		debounce: debounce.New(window),
	}
}

// Submit schedules task and returns the request ID. Any pending or running
// request is superseded.
func (s *Scheduler[T]) Submit(reason string, task Task[T]) string {
	id := uuid.NewString()

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return id
	}

	s.generation++
	generation := s.generation
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	s.logger.Debug("recompute requested", zap.String("request", id), zap.String("reason", reason))

	s.debounce(func() {
		s.start(generation, id, reason, task)
	})
	return id
}

func (s *Scheduler[T]) start(generation uint64, id, reason string, task Task[T]) {
	s.mu.Lock()
	if s.closed || generation != s.generation {
		s.mu.Unlock()
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.mu.Unlock()

	s.executor.Execute(func() {
		defer cancel()
		started := time.Now()
		value, err := task(ctx)

		if !s.current(generation) || ctx.Err() != nil {
			s.logger.Debug("recompute superseded", zap.String("request", id))
			return
		}

		elapsed := time.Since(started)
		s.logger.Debug("recompute finished", zap.String("request", id), zap.Duration("elapsed", elapsed), zap.Error(err))
		if s.deliver != nil {
			s.deliver(Result[T]{ID: id, Reason: reason, Value: value, Err: err, Elapsed: elapsed})
		}
	})
}

func (s *Scheduler[T]) current(generation uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return !s.closed && generation == s.generation
}

// Close cancels running work and ignores further submissions
func (s *Scheduler[T]) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
}
