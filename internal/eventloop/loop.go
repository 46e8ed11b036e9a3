// Package eventloop runs host events one at a time on a single goroutine.
//
// Every host callback (item opened, path changed, settings reloaded) is posted
// to the loop and handled to completion before the next one starts, so the
// engine's state needs no locking. Deferred work queued while a task runs is
// executed after that task, which is how the engine coalesces bursts of
// events into one reconciliation.
package eventloop

import (
	"context"
	"errors"
	"sync"

	"github.com/rs/zerolog"
)

// ErrClosed is returned by Run after Close.
var ErrClosed = errors.New("event loop closed")

// Scheduler defers work until the current task has completed.
type Scheduler interface {
	Defer(fn func())
}

// Loop is an unbounded FIFO task queue drained by Run.
type Loop struct {
	logger zerolog.Logger

	mu       sync.Mutex
	queue    []func()
	closed   bool
	draining bool
	wake     chan struct{}
}

// New creates a Loop.
func New(logger zerolog.Logger) *Loop {
	return &Loop{
		logger: logger.With().Str("component", "eventloop").Logger(),
		wake:   make(chan struct{}, 1),
	}
}

// Post enqueues fn. It never blocks; it returns false once the loop is closed.
func (l *Loop) Post(fn func()) bool {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return false
	}
	l.queue = append(l.queue, fn)
	l.mu.Unlock()

	select {
	case l.wake <- struct{}{}:
	default:
	}
	return true
}

// Defer implements Scheduler.
func (l *Loop) Defer(fn func()) {
	if !l.Post(fn) {
		l.logger.Debug().Msg("dropping deferred task: loop closed")
	}
}

// Close stops accepting tasks. Run returns after finishing queued tasks.
func (l *Loop) Close() {
	l.mu.Lock()
	l.closed = true
	l.mu.Unlock()

	select {
	case l.wake <- struct{}{}:
	default:
	}
}

// Shutdown makes Run return once the queue is empty. Unlike Close, tasks
// posted or deferred in the meantime still run, so follow-up work of the last
// event is not lost.
func (l *Loop) Shutdown() {
	l.mu.Lock()
	l.draining = true
	l.mu.Unlock()

	select {
	case l.wake <- struct{}{}:
	default:
	}
}

// Run processes tasks until ctx is done or the loop is closed and drained.
func (l *Loop) Run(ctx context.Context) error {
	for {
		fn, closed := l.next()
		if fn != nil {
			l.run(fn)
			continue
		}
		if closed {
			return ErrClosed
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-l.wake:
		}
	}
}

// Pending returns the number of queued tasks.
func (l *Loop) Pending() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.queue)
}

func (l *Loop) next() (func(), bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.queue) == 0 {
		if l.draining {
			l.closed = true
		}
		return nil, l.closed
	}
	fn := l.queue[0]
	l.queue[0] = nil
	l.queue = l.queue[1:]
	return fn, l.closed
}

func (l *Loop) run(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			l.logger.Error().Interface("panic", r).Msg("task panicked")
		}
	}()
	fn()
}

// ManualScheduler collects deferred tasks until Flush is called.
// It is meant for tests that need to observe the state between an event and
// its deferred follow-up.
type ManualScheduler struct {
	queue []func()
}

// NewManualScheduler creates an empty ManualScheduler.
func NewManualScheduler() *ManualScheduler {
	return &ManualScheduler{}
}

// Defer queues fn.
func (s *ManualScheduler) Defer(fn func()) {
	s.queue = append(s.queue, fn)
}

// Pending returns the number of queued tasks.
func (s *ManualScheduler) Pending() int {
	return len(s.queue)
}

// Flush runs queued tasks, including tasks queued while flushing, until none remain.
func (s *ManualScheduler) Flush() {
	for len(s.queue) > 0 {
		fn := s.queue[0]
		s.queue = s.queue[1:]
		fn()
	}
}
