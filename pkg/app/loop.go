package app

import (
	"context"
	"errors"
	"sync"
)

// ErrClosed is returned by calls made after the service shut down.
var ErrClosed = errors.New("app: closed")

// Loop runs closures one at a time on a single goroutine. State owned by the
// loop is only touched from closures it runs, so it needs no locking.
type Loop struct {
	mu      sync.Mutex
	queue   []func()
	stopped bool
	wake    chan struct{}
	done    chan struct{}
}

func NewLoop() *Loop {
	return &Loop{
		wake: make(chan struct{}, 1),
		done: make(chan struct{}),
	}
}

// Run processes posted closures until Stop. Closures already queued when
// Stop is called still run.
func (l *Loop) Run() {
	defer close(l.done)
	for {
		l.mu.Lock()
		batch := l.queue
		l.queue = nil
		stopped := l.stopped
		l.mu.Unlock()

		for _, fn := range batch {
			fn()
		}
		if len(batch) > 0 {
			continue
		}
		if stopped {
			return
		}
		<-l.wake
	}
}

// Post queues fn without waiting. It is safe to call from any goroutine,
// including the loop itself, and reports false once the loop is stopped.
func (l *Loop) Post(fn func()) bool {
	l.mu.Lock()
	if l.stopped {
		l.mu.Unlock()
		return false
	}
	l.queue = append(l.queue, fn)
	l.mu.Unlock()
	l.signal()
	return true
}

// Call runs fn on the loop and waits for it. It must not be called from the
// loop goroutine.
func (l *Loop) Call(ctx context.Context, fn func()) error {
	finished := make(chan struct{})
	if !l.Post(func() {
		defer close(finished)
		fn()
	}) {
		return ErrClosed
	}
	select {
	case <-finished:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Stop lets the queue drain and ends Run. It blocks until Run returns.
func (l *Loop) Stop() {
	l.mu.Lock()
	l.stopped = true
	l.mu.Unlock()
	l.signal()
	<-l.done
}

func (l *Loop) signal() {
	select {
	case l.wake <- struct{}{}:
	default:
	}
}
