// Package app runs the scanline loop: it ties the image sequencer, the
// gesture decoder and the strip together on one clock.
package app

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/coreman2200/kinetic-pov/internal/asset"
	"github.com/coreman2200/kinetic-pov/internal/button"
	"github.com/coreman2200/kinetic-pov/internal/clock"
	"github.com/coreman2200/kinetic-pov/internal/gesture"
	"github.com/coreman2200/kinetic-pov/internal/led"
	"github.com/coreman2200/kinetic-pov/internal/render"
	"github.com/coreman2200/kinetic-pov/internal/sequence"
)

type Options struct {
	Period        time.Duration // time each scanline is shown
	AutoCycle     bool
	CycleInterval time.Duration
	Levels        []uint8
	LevelIndex    int
	Thresholds    gesture.Thresholds

	WhiteCap  float64 // 0 disables
	LimitAmps float64 // 0 disables the over-budget warning
	LEDChanMA float64
}

// DefaultOptions matches the stock poi.
func DefaultOptions() Options {
	return Options{
		Period:        led.ScanlinePeriods[led.DefaultTimingIndex],
		AutoCycle:     true,
		CycleInterval: 12 * time.Second,
		Levels:        led.BrightnessLevels,
		LevelIndex:    led.DefaultLevelIndex,
		Thresholds:    gesture.DefaultThresholds(),
		LEDChanMA:     20,
	}
}

// Hooks let outer layers observe the loop. They run on the loop goroutine
// and must not block.
type Hooks struct {
	OnAction     func(a gesture.Action, now time.Duration)
	OnImage      func(index int, img asset.Image)
	OnOverBudget func(index int, amps float64)
}

// Status is a snapshot of the loop state.
type Status struct {
	Image      int
	Name       string
	Scanline   int
	Brightness uint8
	AutoCycle  bool
	Ticks      uint64
}

// Conductor owns all mutable display state. Only the goroutine calling Tick
// or Run may touch it.
type Conductor struct {
	seq   *sequence.Sequencer
	dec   *gesture.Decoder
	dim   *led.Dimmer
	strip led.Strip
	pin   button.Pin
	clk   clock.Clock

	opts      Options
	hooks     Hooks
	autoCycle bool
	lastFlush time.Duration
	frame     []render.Color
	ticks     uint64
	warned    bool // over-budget already reported for the current image
}

// NewConductor shows the first image of tbl on strip at full configured
// brightness.
func NewConductor(tbl asset.Table, strip led.Strip, pin button.Pin, clk clock.Clock, opts Options, h Hooks) (*Conductor, error) {
	if err := tbl.Check(); err != nil {
		return nil, err
	}
	if tbl.NumLEDs != strip.Len() {
		return nil, fmt.Errorf("image table is for %d LEDs, strip has %d", tbl.NumLEDs, strip.Len())
	}
	if opts.Period <= 0 {
		return nil, fmt.Errorf("scanline period must be positive, got %s", opts.Period)
	}
	dim, err := led.NewDimmer(strip, opts.Levels, opts.LevelIndex)
	if err != nil {
		return nil, err
	}

	c := &Conductor{
		dim:       dim,
		strip:     strip,
		pin:       pin,
		clk:       clk,
		opts:      opts,
		hooks:     h,
		autoCycle: opts.AutoCycle,
		frame:     make([]render.Color, strip.Len()),
	}
	c.dec = gesture.NewDecoder(opts.Thresholds, dim.On)

	now := clk.Now()
	c.seq, err = sequence.New(tbl.Images, now, sequence.Hooks{OnChange: c.imageChanged})
	if err != nil {
		return nil, err
	}
	c.lastFlush = now
	return c, nil
}

func (c *Conductor) imageChanged(index int, img asset.Image) {
	c.warned = false
	log.Debug().Int("index", index).Str("name", img.Name).Str("format", img.Format.String()).
		Int("lines", img.Lines).Msg("image")
	if c.hooks.OnImage != nil {
		c.hooks.OnImage(index, img)
	}
}

// Tick shows one scanline: auto-advance, render, step the cursor, wait out
// the rest of the period while polling the button, then flush.
func (c *Conductor) Tick() error {
	now := c.clk.Now()
	if c.autoCycle && now-c.seq.LastChange() >= c.opts.CycleInterval {
		c.seq.Advance(now)
	}

	c.seq.Render(c.frame)
	render.ApplyWhiteCap(c.frame, c.opts.WhiteCap)
	c.checkBudget()
	for i, px := range c.frame {
		c.strip.SetPixelColor(i, px.R, px.G, px.B)
	}

	c.seq.Step()

	end := clock.WaitUntil(c.clk, c.lastFlush+c.opts.Period, c.poll)
	if err := c.strip.Show(); err != nil {
		return err
	}
	c.lastFlush = end
	c.ticks++
	return nil
}

func (c *Conductor) poll(now time.Duration) {
	if a := c.dec.Poll(c.pin.Pressed(), now); a != gesture.None {
		c.Apply(a, now)
	}
}

// Apply performs a gesture action as if the button had produced it at now.
func (c *Conductor) Apply(a gesture.Action, now time.Duration) {
	switch a {
	case gesture.AdvanceImage:
		c.seq.Advance(now)
	case gesture.WakeDisplay:
		c.dim.Wake()
	case gesture.TogglePower:
		c.dim.TogglePower()
	case gesture.ToggleAutoCycle:
		c.autoCycle = !c.autoCycle
	default:
		return
	}
	log.Info().Str("action", a.String()).Dur("at", now).Bool("on", c.dim.On()).
		Bool("auto_cycle", c.autoCycle).Int("image", c.seq.Index()).Msg("gesture")
	if c.hooks.OnAction != nil {
		c.hooks.OnAction(a, now)
	}
}

func (c *Conductor) checkBudget() {
	if c.opts.LimitAmps <= 0 || c.warned {
		return
	}
	amps := render.EstimateCurrent(c.frame, c.opts.LEDChanMA) * float64(c.strip.Brightness()) / 255
	if amps <= c.opts.LimitAmps {
		return
	}
	c.warned = true
	log.Warn().Float64("amps", amps).Float64("limit", c.opts.LimitAmps).
		Str("image", c.seq.Image().Name).Msg("scanline exceeds current budget")
	if c.hooks.OnOverBudget != nil {
		c.hooks.OnOverBudget(c.seq.Index(), amps)
	}
}

// Run ticks until ctx is cancelled or the strip fails.
func (c *Conductor) Run(ctx context.Context) error {
	log.Info().Dur("period", c.opts.Period).Int("images", c.seq.Len()).
		Bool("auto_cycle", c.autoCycle).Msg("scanline loop started")
	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}
		if err := c.Tick(); err != nil {
			return err
		}
	}
}

func (c *Conductor) AutoCycle() bool { return c.autoCycle }

// Status must be called from the loop goroutine (or when it is stopped).
func (c *Conductor) Status() Status {
	img := c.seq.Image()
	return Status{
		Image:      c.seq.Index(),
		Name:       img.Name,
		Scanline:   c.seq.Scanline(),
		Brightness: c.strip.Brightness(),
		AutoCycle:  c.autoCycle,
		Ticks:      c.ticks,
	}
}
