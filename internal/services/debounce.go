package services

import (
	"sync"
	"time"
)

const DefaultDebounceWindow = 100 * time.Millisecond

// Debouncer coalesces bursts of Schedule calls into one invocation that
// fires after a quiet period with no further calls.
type Debouncer struct {
	delay time.Duration

	mu      sync.Mutex
	timer   *time.Timer
	gen     uint64
	stopped bool
}

func NewDebouncer(delay time.Duration) *Debouncer {
	if delay <= 0 {
		delay = DefaultDebounceWindow
	}
	return &Debouncer{delay: delay}
}

// Schedule replaces any pending call with fn and restarts the quiet period.
// It is a no-op after Stop.
func (d *Debouncer) Schedule(fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return
	}
	if d.timer != nil {
		d.timer.Stop()
	}

	// The generation check covers a timer that already fired and is
	// waiting on the lock while a newer call is being scheduled.
	d.gen++
	gen := d.gen
	d.timer = time.AfterFunc(d.delay, func() {
		d.mu.Lock()
		current := !d.stopped && gen == d.gen
		d.mu.Unlock()

		if !current {
			return
		}
		fn()

		d.mu.Lock()
		if gen == d.gen {
			d.timer = nil
		}
		d.mu.Unlock()
	})
}

// Pending reports whether the latest scheduled call is waiting for the
// quiet period to end or still running.
func (d *Debouncer) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.timer != nil
}

// Stop cancels the pending call for good.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.stopped = true
	d.gen++
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
