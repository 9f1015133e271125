package engine

import (
	"sync"
	"time"
)

// frameClock is the single scheduling primitive behind the frame loop: a
// ticker-driven goroutine with an explicit cancel handle. Pausing cancels
// the pending run; resuming starts a fresh one. No callback self-reschedules.
type frameClock struct {
	interval time.Duration
	tick     func()

	mu     sync.Mutex
	cancel chan struct{}
	done   chan struct{}
}

func newFrameClock(interval time.Duration, tick func()) *frameClock {
	return &frameClock{interval: interval, tick: tick}
}

// start begins scheduling. A clock that is already running keeps its
// current run.
func (c *frameClock) start() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cancel != nil {
		return
	}
	cancel := make(chan struct{})
	done := make(chan struct{})
	c.cancel = cancel
	c.done = done
	go func() {
		defer close(done)
		t := time.NewTicker(c.interval)
		defer t.Stop()
		for {
			select {
			case <-cancel:
				return
			case <-t.C:
				c.tick()
			}
		}
	}()
}

// stop cancels the pending run and waits for any in-flight tick to finish,
// so no frame is mid-draw when stop returns.
func (c *frameClock) stop() {
	c.mu.Lock()
	cancel, done := c.cancel, c.done
	c.cancel, c.done = nil, nil
	c.mu.Unlock()
	if cancel == nil {
		return
	}
	close(cancel)
	<-done
}

// scheduled reports whether a frame run is pending.
func (c *frameClock) scheduled() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cancel != nil
}
