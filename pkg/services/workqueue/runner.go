// Package workqueue runs background tasks keyed by an external id, with at
// most one live task per key.
package workqueue

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"sync"

	"go.uber.org/zap"
)

// ErrRunnerStopped is returned by Start after Shutdown.
var ErrRunnerStopped = errors.New("runner stopped")

// Runner owns one cancellable handle per key. Starting a task for a key that
// already has one cancels the old task first.
type Runner struct {
	mu       sync.Mutex
	tasks    map[string]*TaskState
	stopped  bool
	strategy ConcurrencyStrategy

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	onFinish func(TaskSnapshot)
	logger   *zap.Logger
}

// RunnerOption configures a Runner.
type RunnerOption func(*Runner)

// WithStrategy sets the concurrency strategy.
func WithStrategy(strategy ConcurrencyStrategy) RunnerOption {
	return func(r *Runner) {
		if strategy != nil {
			r.strategy = strategy
		}
	}
}

// WithOnFinish registers a callback invoked after each task ends. It runs on
// the task goroutine without the runner lock held.
func WithOnFinish(fn func(TaskSnapshot)) RunnerOption {
	return func(r *Runner) {
		r.onFinish = fn
	}
}

// NewRunner creates a runner. Without options it runs at most 4 tasks at once.
func NewRunner(logger *zap.Logger, opts ...RunnerOption) *Runner {
	ctx, cancel := context.WithCancel(context.Background())
	r := &Runner{
		tasks:    make(map[string]*TaskState),
		strategy: NewThrottledStrategy(4),
		ctx:      ctx,
		cancel:   cancel,
		logger:   logger.Named("workqueue"),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Start launches fn for key, cancelling any task already registered for it.
// The task waits for a concurrency slot before running.
func (r *Runner) Start(key, name string, fn TaskFunc) (*TaskState, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.stopped {
		return nil, ErrRunnerStopped
	}

	if prev, ok := r.tasks[key]; ok {
		prev.cancel()
		r.logger.Info("Cancelled previous task",
			zap.String("key", key),
			zap.String("task_id", prev.ID))
	}

	ctx, cancel := context.WithCancel(r.ctx)
	ts := newTaskState(key, name, cancel)
	r.tasks[key] = ts

	r.logger.Info("Task enqueued",
		zap.String("key", key),
		zap.String("task_id", ts.ID),
		zap.String("task_name", name))

	r.wg.Add(1)
	go r.run(ctx, ts, fn)
	return ts, nil
}

func (r *Runner) run(ctx context.Context, ts *TaskState, fn TaskFunc) {
	defer r.wg.Done()
	defer close(ts.done)
	defer ts.cancel()

	if err := r.strategy.Acquire(ctx); err != nil {
		r.finish(ts, err)
		return
	}
	defer r.strategy.Release()

	ts.SetStatus(TaskStatusRunning)
	r.logger.Debug("Starting task",
		zap.String("key", ts.Key),
		zap.String("task_id", ts.ID))

	r.finish(ts, r.execute(ctx, ts, fn))
}

// execute runs fn, turning a panic into an error.
func (r *Runner) execute(ctx context.Context, ts *TaskState, fn TaskFunc) (err error) {
	defer func() {
		if p := recover(); p != nil {
			r.logger.Error("Task panicked",
				zap.String("key", ts.Key),
				zap.String("task_id", ts.ID),
				zap.Any("panic", p),
				zap.ByteString("stack", debug.Stack()))
			err = fmt.Errorf("task panicked: %v", p)
		}
	}()
	return fn(ctx)
}

func (r *Runner) finish(ts *TaskState, err error) {
	switch {
	case err == nil:
		ts.SetStatus(TaskStatusCompleted)
		r.logger.Info("Task completed",
			zap.String("key", ts.Key),
			zap.String("task_id", ts.ID))
	case errors.Is(err, context.Canceled):
		ts.SetStatus(TaskStatusCancelled)
		r.logger.Info("Task cancelled",
			zap.String("key", ts.Key),
			zap.String("task_id", ts.ID))
	default:
		ts.SetError(err)
		ts.SetStatus(TaskStatusFailed)
		r.logger.Error("Task failed",
			zap.String("key", ts.Key),
			zap.String("task_id", ts.ID),
			zap.Error(err))
	}

	r.mu.Lock()
	if cur, ok := r.tasks[ts.Key]; ok && cur == ts {
		delete(r.tasks, ts.Key)
	}
	r.mu.Unlock()

	if r.onFinish != nil {
		r.onFinish(ts.Snapshot())
	}
}

// Cancel cancels the live task for key. It reports whether one existed.
func (r *Runner) Cancel(key string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	ts, ok := r.tasks[key]
	if !ok {
		return false
	}
	ts.cancel()
	delete(r.tasks, key)
	return true
}

// IsActive reports whether key has a pending or running task.
func (r *Runner) IsActive(key string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.tasks[key]
	return ok
}

// ActiveCount returns the number of pending or running tasks.
func (r *Runner) ActiveCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.tasks)
}

// Snapshot returns the live tasks.
func (r *Runner) Snapshot() []TaskSnapshot {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]TaskSnapshot, 0, len(r.tasks))
	for _, ts := range r.tasks {
		out = append(out, ts.Snapshot())
	}
	return out
}

// Shutdown cancels every task and waits for them to return or ctx to end.
func (r *Runner) Shutdown(ctx context.Context) error {
	r.mu.Lock()
	r.stopped = true
	r.mu.Unlock()

	r.cancel()

	done := make(chan struct{})
	go func() {
		r.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
