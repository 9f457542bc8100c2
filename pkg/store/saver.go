package store

import (
	"sync"
	"time"
)

// Clock schedules callbacks. Tests substitute a hand-driven implementation.
type Clock interface {
	AfterFunc(d time.Duration, f func()) Timer
}

// Timer is the handle returned by Clock.AfterFunc.
type Timer interface {
	Stop() bool
}

type systemClock struct{}

func (systemClock) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// SystemClock is the wall clock.
func SystemClock() Clock {
	return systemClock{}
}

// Debouncer runs fn once Trigger has not been called for delay. Every
// Trigger pushes the deadline back, so a burst of calls yields one run.
type Debouncer struct {
	clock Clock
	delay time.Duration
	fn    func()

	mu      sync.Mutex
	timer   Timer
	seq     uint64
	stopped bool
}

func NewDebouncer(clock Clock, delay time.Duration, fn func()) *Debouncer {
	if clock == nil {
		clock = SystemClock()
	}
	if delay <= 0 {
		delay = DefaultSaveDelay
	}
	return &Debouncer{clock: clock, delay: delay, fn: fn}
}

// Trigger (re)starts the quiet period.
func (d *Debouncer) Trigger() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stopped {
		return
	}
	if d.timer != nil {
		d.timer.Stop()
	}
	d.seq++
	seq := d.seq
	d.timer = d.clock.AfterFunc(d.delay, func() { d.fire(seq) })
}

// fire ignores callbacks of timers that were superseded after they had
// already been released by the clock.
func (d *Debouncer) fire(seq uint64) {
	d.mu.Lock()
	if d.stopped || seq != d.seq || d.timer == nil {
		d.mu.Unlock()
		return
	}
	d.timer = nil
	d.mu.Unlock()
	d.fn()
}

// Pending reports whether a run is scheduled.
func (d *Debouncer) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.timer != nil
}

// Cancel drops a scheduled run and reports whether there was one.
func (d *Debouncer) Cancel() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer == nil {
		return false
	}
	d.timer.Stop()
	d.timer = nil
	d.seq++
	return true
}

// Stop cancels any scheduled run and ignores later triggers.
func (d *Debouncer) Stop() {
	d.Cancel()
	d.mu.Lock()
	d.stopped = true
	d.mu.Unlock()
}
