package store

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// EventType describes the nature of a persistence change notification.
type EventType int

const (
	// EventChanged means the document on disk differs from what this process
	// last read or wrote, so another writer touched it.
	EventChanged EventType = iota

	// EventRemoved means the document file disappeared.
	EventRemoved
)

// Event is emitted by Persistence.Watch when the document changes on disk.
type Event struct {
	Type EventType
	Path string
}

// Watch streams change events until ctx is cancelled. Writes made through
// this Persistence are filtered out. The channel is closed once ctx is done or
// the watcher fails.
func (p *persistence) Watch(ctx context.Context) (<-chan Event, error) {
	dir := filepath.Dir(p.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("store: ensure base path: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("store: create watcher: %w", err)
	}
	var closeOnce sync.Once
	closeWatcher := func() {
		closeOnce.Do(func() {
			if err := watcher.Close(); err != nil {
				p.log.Warn("store: watcher close", "err", err)
			}
		})
	}

	// The directory is watched rather than the file, since atomic saves
	// replace the file and would drop a file watch.
	if err := watcher.Add(dir); err != nil {
		closeWatcher()
		return nil, fmt.Errorf("store: watch %s: %w", dir, err)
	}

	events := make(chan Event, 16)
	target := filepath.Clean(p.path)

	go func() {
		defer close(events)
		defer closeWatcher()

		send := func(ev Event) {
			select {
			case events <- ev:
			default:
				// The consumer reloads the whole document anyway, so a
				// dropped event is covered by the next one.
			}
		}

		throttle := newEventThrottle(100 * time.Millisecond)
		defer throttle.Stop()

		check := func() {
			data, err := os.ReadFile(target)
			switch {
			case errors.Is(err, os.ErrNotExist):
				send(Event{Type: EventRemoved, Path: target})
			case err != nil:
				p.log.Warn("store: read watched file", "path", target, "err", err)
			case !p.known(data):
				send(Event{Type: EventChanged, Path: target})
			}
		}

		for {
			select {
			case <-ctx.Done():
				return
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				p.log.Warn("store: watcher", "path", dir, "err", err)
				throttle.Enqueue(check)
			case evt, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(evt.Name) != target {
					continue
				}
				throttle.Enqueue(check)
			}
		}
	}()

	return events, nil
}

// eventThrottle coalesces rapid change notifications so a burst of writes is
// inspected once.
type eventThrottle struct {
	mu      sync.Mutex
	timer   *time.Timer
	pending func()
	delay   time.Duration
	stopped bool
}

func newEventThrottle(delay time.Duration) *eventThrottle {
	return &eventThrottle{delay: delay}
}

func (t *eventThrottle) Enqueue(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.stopped {
		return
	}
	t.pending = fn
	if t.timer == nil {
		t.timer = time.AfterFunc(t.delay, t.flush)
	}
}

// flush runs the pending callback while holding the lock, so Stop returns
// only after an in-flight callback has finished.
func (t *eventThrottle) flush() {
	t.mu.Lock()
	defer t.mu.Unlock()
	fn := t.pending
	t.pending = nil
	t.timer = nil
	if fn != nil && !t.stopped {
		fn()
	}
}

func (t *eventThrottle) Stop() {
	t.mu.Lock()
	t.stopped = true
	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
	t.mu.Unlock()
}
