package testutil

import (
	"sync"
	"time"

	"github.com/vytor/loginlab/internal/notify"
)

// ManualTimers is a notify.AfterFunc replacement whose callbacks only run
// when the test calls FireAll.
type ManualTimers struct {
	mu     sync.Mutex
	timers []*ManualTimer
}

// ManualTimer is one scheduled callback.
type ManualTimer struct {
	owner   *ManualTimers
	Delay   time.Duration
	fn      func()
	stopped bool
	fired   bool
}

// Stop cancels the callback. It reports whether the timer was still armed.
func (t *ManualTimer) Stop() bool {
	t.owner.mu.Lock()
	defer t.owner.mu.Unlock()
	if t.stopped || t.fired {
		return false
	}
	t.stopped = true
	return true
}

// Stopped reports whether Stop cancelled the timer before it fired.
func (t *ManualTimer) Stopped() bool {
	t.owner.mu.Lock()
	defer t.owner.mu.Unlock()
	return t.stopped
}

// AfterFunc records the callback without scheduling it.
func (m *ManualTimers) AfterFunc(d time.Duration, f func()) notify.Stopper {
	m.mu.Lock()
	defer m.mu.Unlock()
	t := &ManualTimer{owner: m, Delay: d, fn: f}
	m.timers = append(m.timers, t)
	return t
}

// Timers returns every timer scheduled so far.
func (m *ManualTimers) Timers() []*ManualTimer {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*ManualTimer, len(m.timers))
	copy(out, m.timers)
	return out
}

// Armed counts timers that are neither stopped nor fired.
func (m *ManualTimers) Armed() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, t := range m.timers {
		if !t.stopped && !t.fired {
			n++
		}
	}
	return n
}

// Fire runs a single timer, even one that was stopped, to simulate a
// callback that was already in flight when Stop was called.
func (m *ManualTimers) Fire(t *ManualTimer) {
	m.mu.Lock()
	t.fired = true
	fn := t.fn
	m.mu.Unlock()
	fn()
}

// FireAll runs every armed timer in scheduling order.
func (m *ManualTimers) FireAll() {
	m.mu.Lock()
	var due []func()
	for _, t := range m.timers {
		if !t.stopped && !t.fired {
			t.fired = true
			due = append(due, t.fn)
		}
	}
	m.mu.Unlock()
	for _, fn := range due {
		fn()
	}
}
