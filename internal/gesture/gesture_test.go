package gesture

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const ms = time.Millisecond

type fired struct {
	at  time.Duration
	act Action
}

// hold drives d with raw for [from, to) sampling every step and returns
// every non-None action.
func hold(d *Decoder, raw bool, from, to, step time.Duration) []fired {
	var out []fired
	for t := from; t < to; t += step {
		if a := d.Poll(raw, t); a != None {
			out = append(out, fired{t, a})
		}
	}
	return out
}

// press holds the button for dur starting at 0, then releases and keeps
// polling for a second.
func press(d *Decoder, dur time.Duration) []fired {
	out := hold(d, true, 0, dur, ms)
	return append(out, hold(d, false, dur, dur+time.Second, ms)...)
}

func TestActionString(t *testing.T) {
	assert.Equal(t, "advance_image", AdvanceImage.String())
	assert.Equal(t, "toggle_power", TogglePower.String())
	assert.Equal(t, "unknown", Action(42).String())
}

func TestDebounceAbsorbsShortPress(t *testing.T) {
	d := NewDecoder(DefaultThresholds(), nil)
	assert.Empty(t, press(d, 40*ms))
	assert.False(t, d.State().Pressed)
}

func TestBounceNeverRegisters(t *testing.T) {
	d := NewDecoder(DefaultThresholds(), nil)
	var out []fired
	for t := time.Duration(0); t < 500*ms; t += 10 * ms {
		if a := d.Poll((t/(10*ms))%2 == 0, t); a != None {
			out = append(out, fired{t, a})
		}
	}
	assert.Empty(t, out)
	assert.False(t, d.State().Pressed)
}

func TestTapAdvancesImage(t *testing.T) {
	d := NewDecoder(DefaultThresholds(), nil)
	out := press(d, 300*ms)
	require.Len(t, out, 1)
	assert.Equal(t, AdvanceImage, out[0].act)
	// confirmed one debounce window after the release
	assert.Equal(t, 351*ms, out[0].at)
}

func TestTapWakesDarkDisplay(t *testing.T) {
	d := NewDecoder(DefaultThresholds(), func() bool { return false })
	out := press(d, 300*ms)
	require.Len(t, out, 1)
	assert.Equal(t, WakeDisplay, out[0].act)
}

func TestDeadZoneBetweenTapAndHold(t *testing.T) {
	d := NewDecoder(DefaultThresholds(), nil)
	assert.Empty(t, press(d, 1500*ms))
}

func TestHoldFiresOncePerPress(t *testing.T) {
	d := NewDecoder(DefaultThresholds(), nil)
	out := press(d, 3000*ms)
	require.Len(t, out, 1)
	assert.Equal(t, ToggleAutoCycle, out[0].act)
	assert.Equal(t, 2051*ms, out[0].at)
	assert.True(t, d.State().Fired)
}

func TestContinuousHoldLatchesAtFirstThreshold(t *testing.T) {
	d := NewDecoder(DefaultThresholds(), nil)
	out := press(d, 7000*ms)
	require.Len(t, out, 1)
	assert.Equal(t, ToggleAutoCycle, out[0].act)
}

func TestLongHoldTakesPriority(t *testing.T) {
	d := NewDecoder(DefaultThresholds(), nil)
	// confirm the press, then sample again only after both thresholds
	out := hold(d, true, 0, 100*ms, 10*ms)
	assert.Empty(t, out)
	require.True(t, d.State().Pressed)

	assert.Equal(t, TogglePower, d.Poll(true, 6*time.Second))
	assert.Equal(t, None, d.Poll(true, 7*time.Second))

	out = hold(d, false, 7*time.Second, 8*time.Second, ms)
	assert.Empty(t, out)
}

func TestNewPressClearsLatch(t *testing.T) {
	d := NewDecoder(DefaultThresholds(), nil)
	require.Len(t, press(d, 2500*ms), 1)

	var out []fired
	base := 4 * time.Second
	out = append(out, hold(d, true, base, base+200*ms, ms)...)
	out = append(out, hold(d, false, base+200*ms, base+time.Second, ms)...)
	require.Len(t, out, 1)
	assert.Equal(t, AdvanceImage, out[0].act)
}

func TestPrevRawTracksEverySample(t *testing.T) {
	d := NewDecoder(DefaultThresholds(), nil)
	d.Poll(true, 0)
	assert.True(t, d.State().PrevRaw)
	assert.False(t, d.State().Pressed)
	d.Poll(false, ms)
	assert.False(t, d.State().PrevRaw)
	assert.Equal(t, ms, d.State().LastDebounce)
}

func TestCustomThresholds(t *testing.T) {
	th := Thresholds{Tap: 100 * ms, Hold: 200 * ms, LongHold: 400 * ms, Debounce: 5 * ms}
	d := NewDecoder(th, nil)
	out := press(d, 150*ms)
	assert.Empty(t, out)

	d = NewDecoder(th, nil)
	out = press(d, 250*ms)
	require.Len(t, out, 1)
	assert.Equal(t, ToggleAutoCycle, out[0].act)
}

// Durations are measured between confirmed edges: a raw press at 0 is
// confirmed at 51ms, a raw release at r is confirmed at r+51ms.
func TestThresholdBoundaries(t *testing.T) {
	const edge = 51 * ms
	tests := []struct {
		name    string
		release bool
		dur     time.Duration
		want    Action
	}{
		{"tap just under", true, 799 * ms, AdvanceImage},
		{"tap at threshold", true, 800 * ms, None},
		{"hold just under", false, 1999 * ms, None},
		{"hold at threshold", false, 2000 * ms, ToggleAutoCycle},
		{"long hold just under", false, 4999 * ms, ToggleAutoCycle},
		{"long hold at threshold", false, 5000 * ms, TogglePower},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := NewDecoder(DefaultThresholds(), nil)
			require.Equal(t, None, d.Poll(true, 0))
			require.Equal(t, None, d.Poll(true, edge))
			require.True(t, d.State().Pressed)
			require.Equal(t, edge, d.State().PressStart)

			var got Action
			if tt.release {
				require.Equal(t, None, d.Poll(false, tt.dur))
				got = d.Poll(false, tt.dur+edge)
				require.False(t, d.State().Pressed)
				require.Equal(t, tt.dur, d.State().Release-d.State().PressStart)
			} else {
				got = d.Poll(true, edge+tt.dur)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}
