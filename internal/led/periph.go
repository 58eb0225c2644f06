package led

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/devices/v3/apa102"
	"periph.io/x/devices/v3/nrzled"
	"periph.io/x/extra/devices/screen"
)

// Kinds accepted by Open.
const (
	KindDotStar = "dotstar"
	KindNRZ     = "nrzled"
	KindConsole = "console"
)

// DefaultNRZFreq is the WS281x bit rate used when none is configured.
const DefaultNRZFreq = 2500 * physic.KiloHertz

// NewDotStar drives an APA102 strip on p. The chip's own global brightness
// stays at full scale; dimming happens in Buffer.
func NewDotStar(p spi.Port, numLEDs int) (*Device, error) {
	d, err := apa102.New(p, &apa102.Opts{
		NumPixels:   numLEDs,
		Intensity:   255,
		Temperature: apa102.NeutralTemp,
	})
	if err != nil {
		return nil, fmt.Errorf("apa102: %w", err)
	}
	return &Device{name: KindDotStar, count: numLEDs, dev: d}, nil
}

// NewNRZ drives a WS281x strip encoded over SPI.
func NewNRZ(p spi.Port, numLEDs int, freq physic.Frequency) (*Device, error) {
	if freq == 0 {
		freq = DefaultNRZFreq
	}
	d, err := nrzled.NewSPI(p, &nrzled.Opts{
		NumPixels: numLEDs,
		Channels:  3,
		Freq:      freq,
	})
	if err != nil {
		return nil, fmt.Errorf("nrzled: %w", err)
	}
	return &Device{name: KindNRZ, count: numLEDs, dev: d}, nil
}

// NewConsole prints the strip to the terminal.
func NewConsole(numLEDs int) *Device {
	return &Device{name: KindConsole, count: numLEDs, dev: screen.New(numLEDs)}
}

// Options select and configure the output device.
type Options struct {
	Kind    string
	SPIDev  string // "" picks the first registered port
	SpeedHz int64
	NumLEDs int
}

// Open opens the configured strip. When no SPI port can be found it falls
// back to the console so the display still runs on a workstation.
func Open(o Options) (*Device, error) {
	if o.NumLEDs <= 0 {
		return nil, fmt.Errorf("invalid LED count: %d", o.NumLEDs)
	}
	switch o.Kind {
	case KindConsole:
		return NewConsole(o.NumLEDs), nil
	case KindDotStar, KindNRZ:
	default:
		return nil, fmt.Errorf("unknown driver %q", o.Kind)
	}

	port, err := spireg.Open(o.SPIDev)
	if err != nil {
		log.Warn().Err(err).Str("spi", o.SPIDev).Msg("no SPI port, printing at the console")
		return NewConsole(o.NumLEDs), nil
	}
	if o.SpeedHz > 0 && o.Kind == KindDotStar {
		if err := port.LimitSpeed(physic.Frequency(o.SpeedHz) * physic.Hertz); err != nil {
			port.Close()
			return nil, fmt.Errorf("spi speed: %w", err)
		}
	}

	var d *Device
	if o.Kind == KindDotStar {
		d, err = NewDotStar(port, o.NumLEDs)
	} else {
		freq := physic.Frequency(o.SpeedHz) * physic.Hertz
		d, err = NewNRZ(port, o.NumLEDs, freq)
	}
	if err != nil {
		port.Close()
		return nil, err
	}
	d.port = port
	return d, nil
}
