// Package notify holds a single transient notification that clears itself
// after a fixed display duration.
package notify

import (
	"sync"
	"time"
)

// DefaultDisplay is how long a notification stays visible.
const DefaultDisplay = 3 * time.Second

// Stopper cancels a scheduled callback. *time.Timer satisfies it.
type Stopper interface {
	Stop() bool
}

// AfterFunc schedules f to run once after d.
type AfterFunc func(d time.Duration, f func()) Stopper

// RealAfterFunc schedules on the runtime timer.
func RealAfterFunc(d time.Duration, f func()) Stopper {
	return time.AfterFunc(d, f)
}

// Slot holds at most one notification. Showing a new one replaces the old
// one and restarts the dismissal timer.
type Slot struct {
	mu      sync.Mutex
	title   string
	visible bool
	gen     uint64
	timer   Stopper
	closed  bool
	display time.Duration
	afterFn AfterFunc
}

// NewSlot creates a slot. A nil afterFn uses the runtime timer; a
// non-positive display uses DefaultDisplay.
func NewSlot(display time.Duration, afterFn AfterFunc) *Slot {
	if display <= 0 {
		display = DefaultDisplay
	}
	if afterFn == nil {
		afterFn = RealAfterFunc
	}
	return &Slot{display: display, afterFn: afterFn}
}

// Show replaces the current notification with title.
func (s *Slot) Show(title string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.cancelLocked()
	s.gen++
	gen := s.gen
	s.title = title
	s.visible = true
	s.timer = s.afterFn(s.display, func() { s.expire(gen) })
}

// expire clears the slot only if nothing newer was shown in the meantime.
func (s *Slot) expire(gen uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.gen || s.closed {
		return
	}
	s.visible = false
	s.title = ""
	s.timer = nil
}

// Dismiss clears the notification immediately.
func (s *Slot) Dismiss() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cancelLocked()
	s.gen++
	s.visible = false
	s.title = ""
}

// Close cancels any pending dismissal. Later calls to Show are ignored.
func (s *Slot) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cancelLocked()
	s.gen++
	s.closed = true
	s.visible = false
	s.title = ""
}

// Current returns the visible notification, if any.
func (s *Slot) Current() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.title, s.visible
}

func (s *Slot) cancelLocked() {
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}
