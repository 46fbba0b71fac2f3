package app

import (
	"sync"
	"sync/atomic"
	"time"
)

// RoundTimer counts a round down once per interval. It calls onTick with the
// remaining seconds after every interval and onExpire once it reaches zero.
// Stop is cooperative: the goroutine notices it between ticks and exits.
type RoundTimer struct {
	seconds  int
	interval time.Duration
	onTick   func(remaining int)
	onExpire func()

	stop      chan struct{}
	stopOnce  sync.Once
	cancelled atomic.Bool
	remaining atomic.Int32
}

// NewRoundTimer creates a stopped timer for the given number of seconds
func NewRoundTimer(seconds int, interval time.Duration, onTick func(int), onExpire func()) *RoundTimer {
	if interval <= 0 {
		interval = time.Second
	}
	t := &RoundTimer{
		seconds:  seconds,
		interval: interval,
		onTick:   onTick,
		onExpire: onExpire,
		stop:     make(chan struct{}),
	}
	t.remaining.Store(int32(seconds))
	return t
}

// Start runs the countdown in its own goroutine
func (t *RoundTimer) Start() {
	go t.run()
}

// Stop cancels the countdown. Safe to call more than once.
func (t *RoundTimer) Stop() {
	t.stopOnce.Do(func() {
		t.cancelled.Store(true)
		close(t.stop)
	})
}

// Cancelled reports whether Stop has been called
func (t *RoundTimer) Cancelled() bool {
	return t.cancelled.Load()
}

// Remaining returns the seconds left on the clock
func (t *RoundTimer) Remaining() int {
	return int(t.remaining.Load())
}

func (t *RoundTimer) run() {
	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()

	for remaining := t.seconds; remaining > 0; {
		select {
		case <-t.stop:
			return
		case <-ticker.C:
		}

		remaining--
		t.remaining.Store(int32(remaining))
		if t.Cancelled() {
			return
		}
		if t.onTick != nil {
			t.onTick(remaining)
		}
	}

	if t.Cancelled() {
		return
	}
	if t.onExpire != nil {
		t.onExpire()
	}
}
