// Package gesture turns raw samples of a single momentary button into
// tap, hold and long-hold actions.
package gesture

import "time"

// Action is what a completed or ongoing press asks the display to do.
type Action int

const (
	None Action = iota
	AdvanceImage
	WakeDisplay
	TogglePower
	ToggleAutoCycle
)

func (a Action) String() string {
	switch a {
	case None:
		return "none"
	case AdvanceImage:
		return "advance_image"
	case WakeDisplay:
		return "wake_display"
	case TogglePower:
		return "toggle_power"
	case ToggleAutoCycle:
		return "toggle_auto_cycle"
	default:
		return "unknown"
	}
}

// Thresholds are the press-duration boundaries between gesture classes.
type Thresholds struct {
	Tap      time.Duration
	Hold     time.Duration
	LongHold time.Duration
	Debounce time.Duration
}

// DefaultThresholds returns 800ms / 2s / 5s with a 50ms debounce.
func DefaultThresholds() Thresholds {
	return Thresholds{
		Tap:      800 * time.Millisecond,
		Hold:     2000 * time.Millisecond,
		LongHold: 5000 * time.Millisecond,
		Debounce: 50 * time.Millisecond,
	}
}

// State is the decoder's memory between polls.
type State struct {
	Pressed      bool
	PrevRaw      bool
	PressStart   time.Duration
	Release      time.Duration
	LastDebounce time.Duration
	Fired        bool // a hold action already fired for this press
}

// Decoder is a debounced button state machine. It is not safe for
// concurrent use; the scanline loop owns it.
type Decoder struct {
	th        Thresholds
	displayOn func() bool
	st        State
}

// NewDecoder returns a Decoder. displayOn tells a tap whether to advance the
// image or wake the display; nil means the display is always on.
func NewDecoder(th Thresholds, displayOn func() bool) *Decoder {
	if displayOn == nil {
		displayOn = func() bool { return true }
	}
	return &Decoder{th: th, displayOn: displayOn}
}

// State returns a copy of the decoder state.
func (d *Decoder) State() State { return d.st }

// Poll feeds one raw sample taken at now and returns the action it
// triggers, if any.
func (d *Decoder) Poll(raw bool, now time.Duration) Action {
	st := &d.st
	act := None

	if raw != st.PrevRaw {
		st.LastDebounce = now
	}

	if now-st.LastDebounce > d.th.Debounce {
		if raw != st.Pressed {
			st.Pressed = raw
			if st.Pressed {
				st.PressStart = now
				st.Fired = false
			} else {
				st.Release = now
				if !st.Fired && st.Release-st.PressStart < d.th.Tap {
					if d.displayOn() {
						act = AdvanceImage
					} else {
						act = WakeDisplay
					}
				}
			}
		}

		if st.Pressed && !st.Fired {
			held := now - st.PressStart
			switch {
			case held >= d.th.LongHold:
				act = TogglePower
				st.Fired = true
			case held >= d.th.Hold:
				act = ToggleAutoCycle
				st.Fired = true
			}
		}
	}

	st.PrevRaw = raw
	return act
}
