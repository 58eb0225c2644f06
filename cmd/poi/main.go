package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"periph.io/x/host/v3"

	"github.com/coreman2200/kinetic-pov/internal/app"
	"github.com/coreman2200/kinetic-pov/internal/asset"
	"github.com/coreman2200/kinetic-pov/internal/button"
	"github.com/coreman2200/kinetic-pov/internal/clock"
	"github.com/coreman2200/kinetic-pov/internal/config"
	"github.com/coreman2200/kinetic-pov/internal/led"
	"github.com/coreman2200/kinetic-pov/internal/ws"
)

func main() {
	// ---- Flags (config.yaml overrides what it sets) ----
	var (
		configPath = flag.String("config", "poi.yaml", "path to poi.yaml")
		driver     = flag.String("driver", led.KindDotStar, "driver: dotstar | nrzled | console")
		numLEDs    = flag.Int("num-leds", 16, "LEDs on the strip (multiple of 8)")
		pin        = flag.String("button", "GPIO17", "button pin name")
		assets     = flag.String("assets", "", "image pack (.pov); empty uses built-in images")
		addr       = flag.String("addr", "", "preview HTTP listen address, e.g. :8080")
		reverse    = flag.Bool("reverse", false, "LED 0 is the far end of the strip")
		simOnly    = flag.Bool("sim-only", false, "force console output (no hardware)")
		selfTest   = flag.String("selftest", "", "run bring-up patterns and exit: index_sweep,rgb_channels")
		logLevel   = flag.String("log-level", "info", "zerolog level")
	)
	flag.Parse()

	// ---- Logging ----
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	if lvl, err := zerolog.ParseLevel(*logLevel); err == nil {
		zerolog.SetGlobalLevel(lvl)
	} else {
		log.Warn().Str("level", *logLevel).Msg("unknown log level; using info")
	}

	// ---- Config: flags first, then the file on top ----
	cfg := config.Default()
	cfg.Driver = *driver
	cfg.NumLEDs = *numLEDs
	cfg.Button = *pin
	cfg.Assets = *assets
	cfg.Preview.Addr = *addr
	cfg.Reverse = *reverse
	if err := cfg.Overlay(*configPath); err != nil {
		log.Warn().Err(err).Str("path", *configPath).Msg("config load failed; proceeding with flags")
	}
	if *simOnly {
		cfg.Driver = led.KindConsole
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("config")
	}

	if _, err := host.Init(); err != nil {
		log.Warn().Err(err).Msg("periph host init failed")
	}

	// ---- Images ----
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
		log.Fatal().Err(err).Str("assets", cfg.Assets).Msg("load images")
	}
	if tbl.NumLEDs != cfg.NumLEDs {
		log.Fatal().Int("pack", tbl.NumLEDs).Int("strip", cfg.NumLEDs).Msg("image pack does not match strip length")
	}

	// ---- Output ----
	dev, err := led.Open(cfg.LEDOptions())
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.Driver).Msg("open strip")
	}
	var (
		drv   led.Driver = dev
		pins  []button.Pin
		hooks app.Hooks
		srv   *http.Server
	)
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.Preview.Addr != "" {
		state := ws.NewState(cfg.NumLEDs, time.Duration(cfg.Preview.ThrottleMs)*time.Millisecond, dev.Name())
		state.SetAutoCycle(cfg.AutoCycle)
		drv = led.Tee(dev, state)
		pins = append(pins, state.Button)
		hooks = state.Hooks(cfg.Power.LimitAmps)

		srv = &http.Server{
			Addr:         cfg.Preview.Addr,
			Handler:      state.Handler(),
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  60 * time.Second,
		}
		go state.Run(ctx)
		go func() {
			log.Info().Str("addr", cfg.Preview.Addr).Msg("preview server starting")
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Fatal().Err(err).Msg("http server crashed")
			}
		}()
	}
	defer func() {
		if srv != nil {
			_ = srv.Close()
		}
		if err := drv.Close(); err != nil {
			log.Warn().Err(err).Msg("close strip")
		}
	}()

	// ---- Input ----
	if b, err := button.NewGPIO(cfg.Button); err != nil {
		log.Warn().Err(err).Str("pin", cfg.Button).Msg("no button; gestures only from preview")
	} else {
		pins = append(pins, b)
	}

	strip := led.NewBuffer(cfg.NumLEDs, drv, cfg.Reverse)

	if *selfTest != "" {
		var kinds []led.TestKind
		for _, name := range strings.Split(*selfTest, ",") {
			k, err := led.ParseTestKind(strings.TrimSpace(name))
			if err != nil {
				log.Fatal().Err(err).Msg("selftest")
			}
			kinds = append(kinds, k)
		}
		log.Info().Str("driver", dev.Name()).Int("leds", cfg.NumLEDs).Msg("self test")
		if err := led.SelfTest(ctx, strip, 50*time.Millisecond, kinds...); err != nil {
			log.Error().Err(err).Msg("self test failed")
		}
		return
	}

	opts := app.Options{
		Period:        cfg.Period(),
		AutoCycle:     cfg.AutoCycle,
		CycleInterval: cfg.CycleInterval(),
		Levels:        cfg.Brightness.Levels,
		LevelIndex:    cfg.Brightness.Index,
		Thresholds:    cfg.Thresholds(),
		WhiteCap:      cfg.Power.WhiteCap,
		LimitAmps:     cfg.Power.LimitAmps,
		LEDChanMA:     cfg.Power.LEDChanMA,
	}
	c, err := app.NewConductor(tbl, strip, button.Any(pins...), clock.NewMonotonic(), opts, hooks)
	if err != nil {
		log.Fatal().Err(err).Msg("conductor")
	}

	log.Info().Str("driver", dev.Name()).Int("leds", cfg.NumLEDs).Int("images", len(tbl.Images)).
		Dur("period", opts.Period).Msg("poi running")
	if err := c.Run(ctx); err != nil {
		log.Error().Err(err).Msg("scanline loop stopped")
		return
	}
	log.Info().Msg("shutting down")
}
