package workqueue

import (
	"context"
	"sync"
)

// ConcurrencyStrategy controls how many tasks may run at once. Acquire blocks
// until a slot is free or ctx is done.
type ConcurrencyStrategy interface {
	Acquire(ctx context.Context) error
	Release()
	// Running returns the number of held slots.
	Running() int
}

// ============================================================================
// ThrottledStrategy - Up to N parallel tasks
// ============================================================================

// ThrottledStrategy allows up to maxConcurrent tasks to run in parallel.
type ThrottledStrategy struct {
	slots chan struct{}
}

// NewThrottledStrategy creates a strategy with maxConcurrent slots.
func NewThrottledStrategy(maxConcurrent int) *ThrottledStrategy {
	if maxConcurrent < 1 {
		maxConcurrent = 1
	}
	return &ThrottledStrategy{slots: make(chan struct{}, maxConcurrent)}
}

func (s *ThrottledStrategy) Acquire(ctx context.Context) error {
	select {
	case s.slots <- struct{}{}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *ThrottledStrategy) Release() {
	select {
	case <-s.slots:
	default:
	}
}

func (s *ThrottledStrategy) Running() int {
	return len(s.slots)
}

// ============================================================================
// UnboundedStrategy - No limit
// ============================================================================

// UnboundedStrategy never blocks. Used by tests and the CLI.
type UnboundedStrategy struct {
	mu      sync.Mutex
	running int
}

func NewUnboundedStrategy() *UnboundedStrategy {
	return &UnboundedStrategy{}
}

func (s *UnboundedStrategy) Acquire(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.running++
	return nil
}

func (s *UnboundedStrategy) Release() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running > 0 {
		s.running--
	}
}

func (s *UnboundedStrategy) Running() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}
