package clock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMockAdvance(t *testing.T) {
	m := NewMock(time.Second)
	assert.Equal(t, time.Second, m.Now())
	m.Advance(250 * time.Millisecond)
	assert.Equal(t, 1250*time.Millisecond, m.Now())
	m.Set(0)
	assert.Equal(t, time.Duration(0), m.Now())
}

func TestMockStep(t *testing.T) {
	m := NewMock(0)
	m.SetStep(10 * time.Microsecond)
	assert.Equal(t, time.Duration(0), m.Now())
	assert.Equal(t, 10*time.Microsecond, m.Now())
	assert.Equal(t, 20*time.Microsecond, m.Now())
	assert.Equal(t, 30*time.Microsecond, m.Peek())
	assert.Equal(t, 30*time.Microsecond, m.Peek())
}

func TestWaitUntilPollsEveryIteration(t *testing.T) {
	m := NewMock(0)
	m.SetStep(100 * time.Microsecond)

	var seen []time.Duration
	end := WaitUntil(m, 450*time.Microsecond, func(now time.Duration) {
		seen = append(seen, now)
	})

	assert.Equal(t, []time.Duration{0, 100 * time.Microsecond, 200 * time.Microsecond,
		300 * time.Microsecond, 400 * time.Microsecond}, seen)
	assert.Equal(t, 500*time.Microsecond, end)
}

func TestWaitUntilPastDeadline(t *testing.T) {
	m := NewMock(time.Second)
	calls := 0
	end := WaitUntil(m, time.Millisecond, func(time.Duration) { calls++ })
	assert.Zero(t, calls)
	assert.Equal(t, time.Second, end)
}

func TestWaitUntilPollCanMoveClock(t *testing.T) {
	m := NewMock(0)
	end := WaitUntil(m, time.Millisecond, func(now time.Duration) {
		m.Advance(300 * time.Microsecond)
	})
	assert.Equal(t, 1200*time.Microsecond, end)
}

func TestMonotonicAdvances(t *testing.T) {
	c := NewMonotonic()
	a := c.Now()
	b := c.Now()
	assert.GreaterOrEqual(t, b, a)
}
