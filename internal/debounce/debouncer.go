package debounce

import (
	"sync"
	"time"
)

// Debouncer runs fn once after Trigger calls have paused for the configured window.
// fn runs on its own goroutine and never overlaps with itself.
type Debouncer struct {
	window time.Duration
	fn     func()

	mu      sync.Mutex
	timer   *time.Timer
	pending bool
	running bool
	stopped bool
}

func NewDebouncer(window time.Duration, fn func()) *Debouncer {
	if window <= 0 {
		window = 500 * time.Millisecond
	}
	return &Debouncer{window: window, fn: fn}
}

func (d *Debouncer) Trigger() {
	if d == nil {
		return
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stopped {
		return
	}
	d.pending = true
	if d.timer == nil {
		d.timer = time.AfterFunc(d.window, d.onTimer)
		return
	}
	d.timer.Reset(d.window)
}

func (d *Debouncer) onTimer() {
	d.mu.Lock()
	if d.stopped || !d.pending {
		d.mu.Unlock()
		return
	}
	if d.running {
		// Pick up the pending trigger once the current run finishes.
		d.timer.Reset(d.window)
		d.mu.Unlock()
		return
	}
	d.pending = false
	d.running = true
	d.mu.Unlock()

	if d.fn != nil {
		d.fn()
	}

	d.mu.Lock()
	d.running = false
	if d.pending && !d.stopped && d.timer != nil {
		d.timer.Reset(d.window)
	}
	d.mu.Unlock()
}

// Flush runs fn immediately if a trigger is pending.
func (d *Debouncer) Flush() {
	if d == nil {
		return
	}
	d.mu.Lock()
	if d.timer != nil {
		d.timer.Stop()
	}
	d.mu.Unlock()
	d.onTimer()
}

// Stop cancels any pending run. Later triggers are ignored.
func (d *Debouncer) Stop() {
	if d == nil {
		return
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stopped = true
	d.pending = false
	if d.timer != nil {
		d.timer.Stop()
	}
}
