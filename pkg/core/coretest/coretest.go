// Package coretest provides deterministic stand-ins for the timer, clock and
// sink collaborators so programs can be driven tick by tick in tests.
package coretest

import (
	"sync"
	"time"

	"gol-node/pkg/core"
)

// ManualTimers is a core.TimerFactory whose timers only fire when Fire is
// called.
type ManualTimers struct {
	mu     sync.Mutex
	timers []*ManualTimer
}

// ManualTimer is a timer armed by ManualTimers.
type ManualTimer struct {
	Period time.Duration

	owner     *ManualTimers
	callback  func()
	cancelled bool
}

// CreateTimer implements core.TimerFactory.
func (m *ManualTimers) CreateTimer(period time.Duration, callback func()) core.Timer {
	m.mu.Lock()
	defer m.mu.Unlock()
	t := &ManualTimer{Period: period, owner: m, callback: callback}
	m.timers = append(m.timers, t)
	return t
}

// Armed returns how many timers were ever created.
func (m *ManualTimers) Armed() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.timers)
}

// Active returns the timers that have not been cancelled.
func (m *ManualTimers) Active() []*ManualTimer {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*ManualTimer
	for _, t := range m.timers {
		if !t.cancelled {
			out = append(out, t)
		}
	}
	return out
}

// Fire invokes every active timer once and returns how many callbacks ran.
// A timer cancelled by an earlier callback in the same round is skipped.
func (m *ManualTimers) Fire() int {
	fired := 0
	for _, t := range m.Active() {
		if t.Cancelled() {
			continue
		}
		t.callback()
		fired++
	}
	return fired
}

// Cancel implements core.Timer.
func (t *ManualTimer) Cancel() {
	t.owner.mu.Lock()
	t.cancelled = true
	t.owner.mu.Unlock()
}

// Cancelled reports whether Cancel was called.
func (t *ManualTimer) Cancelled() bool {
	t.owner.mu.Lock()
	defer t.owner.mu.Unlock()
	return t.cancelled
}

// FixedClock is a core.Clock that only moves when told to.
type FixedClock struct {
	mu sync.Mutex
	t  time.Time
}

// NewFixedClock returns a clock reading t.
func NewFixedClock(t time.Time) *FixedClock { return &FixedClock{t: t} }

// Now implements core.Clock.
func (c *FixedClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

// Advance moves the clock forward by d.
func (c *FixedClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

// RecordingSink is a core.Sink that keeps every published message.
type RecordingSink struct {
	mu   sync.Mutex
	msgs []any
}

// Publish implements core.Sink.
func (s *RecordingSink) Publish(msg any) {
	s.mu.Lock()
	s.msgs = append(s.msgs, msg)
	s.mu.Unlock()
}

// Messages returns a copy of everything published so far.
func (s *RecordingSink) Messages() []any {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]any(nil), s.msgs...)
}

// Len returns the number of published messages.
func (s *RecordingSink) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.msgs)
}
