// Package button samples the single momentary input that drives every
// gesture.
package button

import (
	"fmt"
	"sync/atomic"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
)

// Pin reports the raw, undebounced state of the button.
type Pin interface {
	Pressed() bool
}

// GPIO is a button wired between a pin and ground, read with the internal
// pull-up enabled: low means pressed.
type GPIO struct {
	pin gpio.PinIn
}

// NewGPIO looks up the named pin in the periph registry (e.g. "GPIO17").
// host.Init must have run.
func NewGPIO(name string) (*GPIO, error) {
	p := gpioreg.ByName(name)
	if p == nil {
		return nil, fmt.Errorf("button: no pin %q", name)
	}
	return FromPin(p)
}

// FromPin configures p as a pulled-up input.
func FromPin(p gpio.PinIn) (*GPIO, error) {
	if err := p.In(gpio.PullUp, gpio.NoEdge); err != nil {
		return nil, fmt.Errorf("button: configure %s: %w", p, err)
	}
	return &GPIO{pin: p}, nil
}

func (g *GPIO) Pressed() bool { return g.pin.Read() == gpio.Low }

func (g *GPIO) String() string { return g.pin.String() }

// Virtual is a button driven by software (simulator keys, preview
// clients). Safe for concurrent use.
type Virtual struct {
	down atomic.Bool
}

func (v *Virtual) Pressed() bool { return v.down.Load() }

// Set presses or releases the button.
func (v *Virtual) Set(pressed bool) { v.down.Store(pressed) }

// Toggle flips the button and returns the new state.
func (v *Virtual) Toggle() bool {
	for {
		old := v.down.Load()
		if v.down.CompareAndSwap(old, !old) {
			return !old
		}
	}
}

type anyOf []Pin

// Any reports pressed when at least one of pins is.
func Any(pins ...Pin) Pin { return anyOf(pins) }

func (a anyOf) Pressed() bool {
	for _, p := range a {
		if p.Pressed() {
			return true
		}
	}
	return false
}
