package led

import (
	"fmt"
	"time"
)

// BrightnessLevels are the selectable global brightness steps.
var BrightnessLevels = []uint8{15, 31, 63, 127, 255}

// DefaultLevelIndex selects full brightness.
const DefaultLevelIndex = 4

// ScanlinePeriods are the speed presets: the time each scanline is shown.
var ScanlinePeriods = []time.Duration{
	1000000 / 375 * time.Microsecond,
	1000000 / 472 * time.Microsecond,
	1000000 / 595 * time.Microsecond,
	1000000 / 750 * time.Microsecond,
	1000000 / 945 * time.Microsecond,
	1000000 / 1191 * time.Microsecond,
	1000000 / 1500 * time.Microsecond,
}

// DefaultTimingIndex is 750 scanlines per second.
const DefaultTimingIndex = 3

// ScanlinePeriod looks up a speed preset.
func ScanlinePeriod(index int) (time.Duration, error) {
	if index < 0 || index >= len(ScanlinePeriods) {
		return 0, fmt.Errorf("timing index %d out of range [0,%d)", index, len(ScanlinePeriods))
	}
	return ScanlinePeriods[index], nil
}

// Dimmer is the display power state. Off is brightness 0; on is one of the
// configured levels. The level index survives an off/on cycle.
type Dimmer struct {
	strip  Strip
	levels []uint8
	idx    int
}

// NewDimmer turns s on at levels[index].
func NewDimmer(s Strip, levels []uint8, index int) (*Dimmer, error) {
	if len(levels) == 0 {
		levels = BrightnessLevels
	}
	d := &Dimmer{strip: s, levels: levels}
	if err := d.SetIndex(index); err != nil {
		return nil, err
	}
	return d, nil
}

// SetIndex changes the remembered level and applies it.
func (d *Dimmer) SetIndex(index int) error {
	if index < 0 || index >= len(d.levels) {
		return fmt.Errorf("brightness index %d out of range [0,%d)", index, len(d.levels))
	}
	d.idx = index
	d.Wake()
	return nil
}

func (d *Dimmer) Index() int { return d.idx }
func (d *Dimmer) On() bool   { return d.strip.Brightness() > 0 }

// Wake restores the remembered level.
func (d *Dimmer) Wake() { d.strip.SetBrightness(d.levels[d.idx]) }

// Off blanks the strip.
func (d *Dimmer) Off() { d.strip.SetBrightness(0) }

// TogglePower switches between off and the remembered level.
func (d *Dimmer) TogglePower() {
	if d.On() {
		d.Off()
	} else {
		d.Wake()
	}
}
