package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/coreman2200/kinetic-pov/internal/gesture"
	"github.com/coreman2200/kinetic-pov/internal/led"
)

// ErrInvalid wraps every validation failure.
var ErrInvalid = errors.New("invalid config")

type SPI struct {
	Dev     string `yaml:"dev"`      // e.g. SPI0.0; empty picks the first port
	SpeedHz int64  `yaml:"speed_hz"` // e.g. 4000000
}

type Brightness struct {
	Levels []uint8 `yaml:"levels"`
	Index  int     `yaml:"index"`
}

type Gesture struct {
	TapMs      int `yaml:"tap_ms"`
	HoldMs     int `yaml:"hold_ms"`
	LongHoldMs int `yaml:"long_hold_ms"`
	DebounceMs int `yaml:"debounce_ms"`
}

type PowerCfg struct {
	LimitAmps float64 `yaml:"limit_amps"`
	LEDChanMA float64 `yaml:"led_chan_ma"`
	WhiteCap  float64 `yaml:"white_cap"`
}

type Preview struct {
	Addr       string `yaml:"addr"` // e.g. :8080; empty disables
	ThrottleMs int    `yaml:"throttle_ms"`
}

type Config struct {
	Driver  string `yaml:"driver"` // "dotstar" | "nrzled" | "console"
	NumLEDs int    `yaml:"num_leds"`
	Reverse bool   `yaml:"reverse"`
	Button  string `yaml:"button"` // periph pin name, e.g. GPIO17
	SPI     SPI    `yaml:"spi"`

	Brightness             Brightness `yaml:"brightness"`
	TimingIndex            int        `yaml:"timing_index"`
	AutoCycle              bool       `yaml:"auto_cycle"`
	SecondsBetweenPatterns int        `yaml:"seconds_between_patterns"`

	Gesture Gesture  `yaml:"gesture"`
	Power   PowerCfg `yaml:"power"`
	Assets  string   `yaml:"assets"` // .pov pack; empty uses the built-in images
	Preview Preview  `yaml:"preview"`
}

// Default mirrors the stock poi: 16 DotStars on the first SPI port, full
// brightness, 750 scanlines/s, cycling every 12 seconds.
func Default() *Config {
	th := gesture.DefaultThresholds()
	return &Config{
		Driver:  led.KindDotStar,
		NumLEDs: 16,
		Button:  "GPIO17",
		SPI:     SPI{SpeedHz: 8000000},
		Brightness: Brightness{
			Levels: append([]uint8(nil), led.BrightnessLevels...),
			Index:  led.DefaultLevelIndex,
		},
		TimingIndex:            led.DefaultTimingIndex,
		AutoCycle:              true,
		SecondsBetweenPatterns: 12,
		Gesture: Gesture{
			TapMs:      int(th.Tap / time.Millisecond),
			HoldMs:     int(th.Hold / time.Millisecond),
			LongHoldMs: int(th.LongHold / time.Millisecond),
			DebounceMs: int(th.Debounce / time.Millisecond),
		},
		Power:   PowerCfg{LimitAmps: 2, LEDChanMA: 20},
		Preview: Preview{ThrottleMs: 50},
	}
}

// Load reads path over the defaults and validates the result.
func Load(path string) (*Config, error) {
	c := Default()
	if err := c.Overlay(path); err != nil {
		return nil, err
	}
	return c, nil
}

// Overlay replaces the fields of c that path sets, then validates. On error
// c may be partially updated.
func (c *Config) Overlay(path string) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := yaml.Unmarshal(b, c); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return c.Validate()
}

func Save(path string, c *Config) error {
	b, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0644)
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalid, fmt.Sprintf(format, args...))
}

// Validate checks ranges and cross-field constraints.
func (c *Config) Validate() error {
	switch c.Driver {
	case led.KindDotStar, led.KindNRZ, led.KindConsole:
	default:
		return invalid("driver %q", c.Driver)
	}
	// Palette1 packs eight LEDs per byte
	if c.NumLEDs <= 0 || c.NumLEDs%8 != 0 {
		return invalid("num_leds %d must be a positive multiple of 8", c.NumLEDs)
	}
	if len(c.Brightness.Levels) == 0 {
		return invalid("brightness.levels is empty")
	}
	for _, l := range c.Brightness.Levels {
		if l == 0 {
			return invalid("brightness level 0 is reserved for off")
		}
	}
	if c.Brightness.Index < 0 || c.Brightness.Index >= len(c.Brightness.Levels) {
		return invalid("brightness.index %d out of range", c.Brightness.Index)
	}
	if _, err := led.ScanlinePeriod(c.TimingIndex); err != nil {
		return invalid("%v", err)
	}
	if c.SecondsBetweenPatterns <= 0 {
		return invalid("seconds_between_patterns must be positive")
	}
	g := c.Gesture
	if g.DebounceMs <= 0 || g.TapMs <= 0 || g.TapMs > g.HoldMs || g.HoldMs >= g.LongHoldMs {
		return invalid("gesture thresholds must satisfy 0 < tap <= hold < long_hold and debounce > 0")
	}
	if c.Power.WhiteCap < 0 || c.Power.WhiteCap > 1 {
		return invalid("power.white_cap %.2f outside [0,1]", c.Power.WhiteCap)
	}
	return nil
}

// Thresholds converts the gesture section.
func (c *Config) Thresholds() gesture.Thresholds {
	ms := func(v int) time.Duration { return time.Duration(v) * time.Millisecond }
	return gesture.Thresholds{
		Tap:      ms(c.Gesture.TapMs),
		Hold:     ms(c.Gesture.HoldMs),
		LongHold: ms(c.Gesture.LongHoldMs),
		Debounce: ms(c.Gesture.DebounceMs),
	}
}

func (c *Config) CycleInterval() time.Duration {
	return time.Duration(c.SecondsBetweenPatterns) * time.Second
}

// Period is the selected scanline period.
func (c *Config) Period() time.Duration {
	p, err := led.ScanlinePeriod(c.TimingIndex)
	if err != nil {
		return led.ScanlinePeriods[led.DefaultTimingIndex]
	}
	return p
}

func (c *Config) LEDOptions() led.Options {
	return led.Options{
		Kind:    c.Driver,
		SPIDev:  c.SPI.Dev,
		SpeedHz: c.SPI.SpeedHz,
		NumLEDs: c.NumLEDs,
	}
}
