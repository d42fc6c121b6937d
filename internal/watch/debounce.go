// Package watch reloads the board when its state files change on disk
// outside the running process (hand edits, a second shell).
package watch

import (
	"sync"
	"time"
)

// Debouncer coalesces a burst of triggers into one callback after the
// window goes quiet.
type Debouncer struct {
	window   time.Duration
	callback func()

	mu    sync.Mutex
	timer *time.Timer
}

// NewDebouncer creates a debouncer with the given quiet window.
func NewDebouncer(window time.Duration, callback func()) *Debouncer {
	return &Debouncer{window: window, callback: callback}
}

// Trigger restarts the window; the callback fires once it elapses with
// no further triggers.
func (d *Debouncer) Trigger() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.window, d.callback)
}

// Stop cancels any pending callback.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
	}
}
