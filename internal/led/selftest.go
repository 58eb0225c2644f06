package led

import (
	"context"
	"fmt"
	"time"
)

// TestKind names a bring-up pattern.
type TestKind string

const (
	IndexSweep  TestKind = "index_sweep"
	RGBChannels TestKind = "rgb_channels"
)

// ParseTestKind accepts the names above.
func ParseTestKind(s string) (TestKind, error) {
	switch k := TestKind(s); k {
	case IndexSweep, RGBChannels:
		return k, nil
	}
	return "", fmt.Errorf("unknown self test %q", s)
}

// Runner steps through one bring-up pattern.
type Runner struct {
	kind TestKind
	step int
}

func NewRunner(kind TestKind) *Runner { return &Runner{kind: kind} }
func (r *Runner) Kind() TestKind      { return r.kind }

// Step paints the next frame of the pattern into s; returns false when
// complete.
func (r *Runner) Step(s Strip) bool {
	n := s.Len()
	for i := 0; i < n; i++ {
		s.SetPixelColor(i, 0, 0, 0)
	}

	switch r.kind {
	case IndexSweep:
		if r.step >= n {
			return false
		}
		s.SetPixelColor(r.step, 255, 255, 255)
	case RGBChannels:
		if r.step >= 3 {
			return false
		}
		for i := 0; i < n; i++ {
			switch r.step {
			case 0:
				s.SetPixelColor(i, 255, 0, 0)
			case 1:
				s.SetPixelColor(i, 0, 255, 0)
			case 2:
				s.SetPixelColor(i, 0, 0, 255)
			}
		}
	default:
		return false
	}
	r.step++
	return true
}

// SelfTest runs each pattern to completion on s, showing one frame per
// interval, and leaves the strip dark.
func SelfTest(ctx context.Context, s Strip, interval time.Duration, kinds ...TestKind) error {
	tick := time.NewTicker(interval)
	defer tick.Stop()

	for _, k := range kinds {
		r := NewRunner(k)
		for r.Step(s) {
			if err := s.Show(); err != nil {
				return fmt.Errorf("self test %s: %w", k, err)
			}
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-tick.C:
			}
		}
	}
	return s.Show()
}
