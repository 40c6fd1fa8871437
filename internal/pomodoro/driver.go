package pomodoro

import (
	"sync"
	"time"
)

// Driver calls tick roughly once per interval until stopped. Ticks only
// trigger a re-read of the clock, so late or dropped ticks are harmless.
type Driver interface {
	Start(tick func())
	Stop()
}

// TickerDriver is a Driver backed by a time.Ticker goroutine.
type TickerDriver struct {
	interval time.Duration

	mu   sync.Mutex
	done chan struct{}
}

func NewTickerDriver(interval time.Duration) *TickerDriver {
	if interval <= 0 {
		interval = time.Second
	}
	return &TickerDriver{interval: interval}
}

// Start replaces any running ticker.
func (d *TickerDriver) Start(tick func()) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stopLocked()

	done := make(chan struct{})
	d.done = done
	go func() {
		t := time.NewTicker(d.interval)
		defer t.Stop()
		for {
			select {
			case <-done:
				return
			case <-t.C:
				select {
				case <-done:
					return
				default:
				}
				tick()
			}
		}
	}()
}

// Stop returns immediately; the goroutine exits on its next wakeup.
func (d *TickerDriver) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stopLocked()
}

// Running reports whether a ticker is active.
func (d *TickerDriver) Running() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.done != nil
}

func (d *TickerDriver) stopLocked() {
	if d.done != nil {
		close(d.done)
		d.done = nil
	}
}
