package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/coreman2200/kinetic-pov/internal/app"
	"github.com/coreman2200/kinetic-pov/internal/asset"
	"github.com/coreman2200/kinetic-pov/internal/button"
	"github.com/coreman2200/kinetic-pov/internal/clock"
	"github.com/coreman2200/kinetic-pov/internal/config"
	"github.com/coreman2200/kinetic-pov/internal/gesture"
	"github.com/coreman2200/kinetic-pov/internal/led"
)

const help = "space: hold/release  t: tap  q: quit"

func main() {
	var (
		configPath = flag.String("config", "", "optional poi.yaml")
		numLEDs    = flag.Int("num-leds", 32, "LEDs on the simulated strip")
		assets     = flag.String("assets", "", "image pack (.pov); empty uses built-in images")
		timing     = flag.Int("timing", 0, "speed preset index (0 is slowest)")
		logPath    = flag.String("log", "povsim.log", "log file (the terminal is the display)")
	)
	flag.Parse()

	zerolog.TimeFieldFormat = time.RFC3339
	if f, err := os.OpenFile(*logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644); err == nil {
		defer f.Close()
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: f, TimeFormat: time.Kitchen, NoColor: true})
	} else {
		log.Logger = zerolog.Nop()
	}

	cfg := config.Default()
	cfg.NumLEDs = *numLEDs
	cfg.Assets = *assets
	cfg.TimingIndex = *timing
	if *configPath != "" {
		if err := cfg.Overlay(*configPath); err != nil {
			fmt.Fprintln(os.Stderr, "config:", err)
			os.Exit(1)
		}
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	if err := run(cfg); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(cfg *config.Config) error {
	var (
		tbl asset.Table
		err error
	)
	if cfg.Assets != "" {
		tbl, err = asset.Load(cfg.Assets)
	} else {
		tbl, err = asset.Builtin(cfg.NumLEDs)
	}
	if err != nil {
		return err
	}

	scr, err := tcell.NewScreen()
	if err != nil {
		return err
	}
	if err := scr.Init(); err != nil {
		return err
	}
	drv := newSweep(scr, tbl.NumLEDs, 33*time.Millisecond)
	defer drv.Close()

	btn := &button.Virtual{}
	strip := led.NewBuffer(tbl.NumLEDs, drv, cfg.Reverse)

	var (
		image = "?"
		last  = "-"
	)
	c, err := app.NewConductor(tbl, strip, btn, clock.NewMonotonic(), app.Options{
		Period:        cfg.Period(),
		AutoCycle:     cfg.AutoCycle,
		CycleInterval: cfg.CycleInterval(),
		Levels:        cfg.Brightness.Levels,
		LevelIndex:    cfg.Brightness.Index,
		Thresholds:    cfg.Thresholds(),
		WhiteCap:      cfg.Power.WhiteCap,
	}, app.Hooks{
		OnImage: func(i int, img asset.Image) {
			image = fmt.Sprintf("%d:%s (%s)", i, img.Name, img.Format)
		},
		OnAction: func(a gesture.Action, _ time.Duration) { last = a.String() },
	})
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		for {
			ev := scr.PollEvent()
			if ev == nil {
				return
			}
			switch ev := ev.(type) {
			case *tcell.EventKey:
				switch {
				case ev.Key() == tcell.KeyEscape, ev.Key() == tcell.KeyCtrlC, ev.Rune() == 'q':
					cancel()
					return
				case ev.Rune() == ' ':
					btn.Toggle()
				case ev.Rune() == 't':
					btn.Set(true)
					time.AfterFunc(200*time.Millisecond, func() { btn.Set(false) })
				}
			case *tcell.EventResize:
				scr.Sync()
			}
		}
	}()

	redraw := time.NewTicker(250 * time.Millisecond)
	defer redraw.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-redraw.C:
			st := c.Status()
			pressed := " "
			if btn.Pressed() {
				pressed = "●"
			}
			status(scr, fmt.Sprintf(" %s %s  auto=%v  bright=%d  last=%s  | %s",
				pressed, image, st.AutoCycle, st.Brightness, last, help))
		default:
		}
		if err := c.Tick(); err != nil {
			return err
		}
	}
}
