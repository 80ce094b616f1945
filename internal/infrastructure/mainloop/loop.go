// Package mainloop provides the single UI timeline every core entry point runs on.
//
// Core types (host, pip, status bar router) hold no locks. Anything arriving
// from another goroutine (HTTP handlers, WebSocket readers, timers, launcher
// readiness) re-enters the core through Do or Post.
package mainloop

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"
)

// ErrStopped is returned when the loop no longer accepts work
var ErrStopped = errors.New("main loop stopped")

// DefaultQueueSize bounds queued tasks before Post blocks
const DefaultQueueSize = 256

// Loop drains a task queue on one goroutine
type Loop struct {
	tasks  chan func()
	done   chan struct{}
	logger *zap.Logger

	mu      sync.RWMutex
	running bool
	stopped bool
}

// New creates a loop; call Run to start draining it
func New(logger *zap.Logger, queueSize int) *Loop {
	if logger == nil {
		logger = zap.NewNop()
	}
	if queueSize <= 0 {
		queueSize = DefaultQueueSize
	}
	return &Loop{
		tasks:  make(chan func(), queueSize),
		done:   make(chan struct{}),
		logger: logger,
	}
}

// Run drains tasks until ctx is canceled. It returns after the queue is closed
// to new work; tasks still queued at that point are dropped.
func (l *Loop) Run(ctx context.Context) error {
	l.mu.Lock()
	if l.running || l.stopped {
		l.mu.Unlock()
		return fmt.Errorf("main loop: already started")
	}
	l.running = true
	l.mu.Unlock()

	defer func() {
		l.mu.Lock()
		l.stopped = true
		l.mu.Unlock()
		close(l.done)
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case task := <-l.tasks:
			l.run(task)
		}
	}
}

// Done is closed when Run returns
func (l *Loop) Done() <-chan struct{} {
	return l.done
}

// Post queues fn without waiting for it. Returns ErrStopped once the loop has exited.
func (l *Loop) Post(fn func()) error {
	return l.post(context.Background(), fn)
}

// Do runs fn on the loop and waits for it to finish
func (l *Loop) Do(ctx context.Context, fn func()) error {
	finished := make(chan struct{})
	err := l.post(ctx, func() {
		defer close(finished)
		fn()
	})
	if err != nil {
		return err
	}

	select {
	case <-finished:
		return nil
	case <-l.done:
		// The task may have completed just before the loop exited.
		select {
		case <-finished:
			return nil
		default:
			return ErrStopped
		}
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Call runs fn on the loop and returns its results
func Call[T any](ctx context.Context, l *Loop, fn func() (T, error)) (T, error) {
	var (
		out   T
		fnErr error
	)
	if err := l.Do(ctx, func() { out, fnErr = fn() }); err != nil {
		var zero T
		return zero, err
	}
	return out, fnErr
}

func (l *Loop) post(ctx context.Context, fn func()) error {
	l.mu.RLock()
	stopped := l.stopped
	l.mu.RUnlock()
	if stopped {
		return ErrStopped
	}

	select {
	case l.tasks <- fn:
		return nil
	case <-l.done:
		return ErrStopped
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (l *Loop) run(task func()) {
	defer func() {
		if r := recover(); r != nil {
			l.logger.Error("main loop task panicked", zap.Any("panic", r), zap.Stack("stack"))
		}
	}()
	task()
}
