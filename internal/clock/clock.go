// Package clock provides the monotonic time source the scanline loop spins on.
package clock

import (
	"sync"
	"time"
)

// Clock reports elapsed time since an arbitrary fixed origin.
type Clock interface {
	Now() time.Duration
}

// Monotonic is a Clock backed by the runtime's monotonic reading.
type Monotonic struct {
	start time.Time
}

// NewMonotonic returns a Clock whose origin is the moment of the call.
func NewMonotonic() *Monotonic {
	return &Monotonic{start: time.Now()}
}

func (m *Monotonic) Now() time.Duration { return time.Since(m.start) }

// Mock is a controllable Clock for tests and simulation. When Step is
// non-zero every Now call advances the clock by Step after reading it,
// so spin loops make progress without a second goroutine.
type Mock struct {
	mu   sync.RWMutex
	now  time.Duration
	step time.Duration
}

// NewMock creates a mock clock reading start.
func NewMock(start time.Duration) *Mock {
	return &Mock{now: start}
}

// Now returns the current mocked time.
func (m *Mock) Now() time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	t := m.now
	m.now += m.step
	return t
}

// Peek reads the clock without applying Step.
func (m *Mock) Peek() time.Duration {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.now
}

// Set jumps to t.
func (m *Mock) Set(t time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.now = t
}

// Advance moves the clock forward by d.
func (m *Mock) Advance(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.now += d
}

// SetStep sets the auto-advance applied after each Now.
func (m *Mock) SetStep(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.step = d
}

// WaitUntil spins until c reaches deadline, calling poll with the current
// time on every iteration that is still short of it. It returns the reading
// that ended the wait.
func WaitUntil(c Clock, deadline time.Duration, poll func(now time.Duration)) time.Duration {
	now := c.Now()
	for now < deadline {
		if poll != nil {
			poll(now)
		}
		now = c.Now()
	}
	return now
}
