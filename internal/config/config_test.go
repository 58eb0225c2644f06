package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coreman2200/kinetic-pov/internal/gesture"
)

func TestDefaultIsValid(t *testing.T) {
	c := Default()
	require.NoError(t, c.Validate())
	assert.Equal(t, gesture.DefaultThresholds(), c.Thresholds())
	assert.Equal(t, 12*time.Second, c.CycleInterval())
	assert.Equal(t, 1333*time.Microsecond, c.Period())
	assert.True(t, c.AutoCycle)
	assert.Equal(t, []uint8{15, 31, 63, 127, 255}, c.Brightness.Levels)
	assert.Equal(t, 4, c.Brightness.Index)
}

func TestLoadOverlaysDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "poi.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
driver: nrzled
num_leds: 32
auto_cycle: false
timing_index: 6
gesture:
  hold_ms: 1500
`), 0644))

	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "nrzled", c.Driver)
	assert.Equal(t, 32, c.NumLEDs)
	assert.False(t, c.AutoCycle)
	assert.Equal(t, 666*time.Microsecond, c.Period())
	assert.Equal(t, 1500*time.Millisecond, c.Thresholds().Hold)
	assert.Equal(t, 800*time.Millisecond, c.Thresholds().Tap)
	assert.Equal(t, 12, c.SecondsBetweenPatterns)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "poi.yaml")
	c := Default()
	c.Reverse = true
	c.Preview.Addr = ":8080"
	require.NoError(t, Save(path, c))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, c, got)
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name string
		mut  func(c *Config)
	}{
		{"driver", func(c *Config) { c.Driver = "pwm" }},
		{"num_leds zero", func(c *Config) { c.NumLEDs = 0 }},
		{"num_leds unpacked", func(c *Config) { c.NumLEDs = 12 }},
		{"no levels", func(c *Config) { c.Brightness.Levels = nil }},
		{"zero level", func(c *Config) { c.Brightness.Levels = []uint8{0, 255} }},
		{"level index", func(c *Config) { c.Brightness.Index = 5 }},
		{"timing index", func(c *Config) { c.TimingIndex = 7 }},
		{"interval", func(c *Config) { c.SecondsBetweenPatterns = 0 }},
		{"hold order", func(c *Config) { c.Gesture.HoldMs = 6000 }},
		{"debounce", func(c *Config) { c.Gesture.DebounceMs = 0 }},
		{"white cap", func(c *Config) { c.Power.WhiteCap = 1.5 }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := Default()
			tc.mut(c)
			assert.ErrorIs(t, c.Validate(), ErrInvalid)
		})
	}
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("num_leds: 10\n"), 0644))
	_, err = Load(path)
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestOverlayKeepsUnsetFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "poi.yaml")
	require.NoError(t, os.WriteFile(path, []byte("reverse: true\n"), 0644))

	c := Default()
	c.NumLEDs = 48
	c.Assets = "show.pov"
	require.NoError(t, c.Overlay(path))
	assert.True(t, c.Reverse)
	assert.Equal(t, 48, c.NumLEDs)
	assert.Equal(t, "show.pov", c.Assets)
}
