// Package sequence owns which image is on the strip and which of its
// scanlines is next.
package sequence

import (
	"errors"
	"time"

	"github.com/coreman2200/kinetic-pov/internal/asset"
	"github.com/coreman2200/kinetic-pov/internal/render"
)

// ErrNoImages is returned when a Sequencer is built from an empty list.
var ErrNoImages = errors.New("sequence: no images")

// Hooks are optional callbacks fired on image changes.
type Hooks struct {
	OnChange func(index int, img asset.Image)
}

// Sequencer is the render cursor: active image, its cached palette and the
// next scanline. It is owned by the scanline loop and is not synchronised.
type Sequencer struct {
	images     []asset.Image
	idx        int
	line       int
	palette    render.PaletteCache
	lastChange time.Duration
	hooks      Hooks
}

// New returns a Sequencer showing the first image, as if selected at now.
func New(images []asset.Image, now time.Duration, h Hooks) (*Sequencer, error) {
	if len(images) == 0 {
		return nil, ErrNoImages
	}
	s := &Sequencer{images: images, hooks: h}
	s.Select(0, now)
	return s, nil
}

// Select makes image index (modulo the image count) active, reloads the
// palette cache and restarts at scanline 0.
func (s *Sequencer) Select(index int, now time.Duration) {
	n := len(s.images)
	index %= n
	if index < 0 {
		index += n
	}
	s.idx = index
	s.line = 0
	s.palette.Load(s.images[index])
	s.lastChange = now
	if s.hooks.OnChange != nil {
		s.hooks.OnChange(index, s.images[index])
	}
}

// Advance selects the next image, wrapping to the first.
func (s *Sequencer) Advance(now time.Duration) { s.Select(s.idx+1, now) }

// Step moves the cursor to the next scanline, wrapping at the image height.
func (s *Sequencer) Step() {
	s.line++
	if s.line >= s.images[s.idx].Lines {
		s.line = 0
	}
}

func (s *Sequencer) Image() asset.Image            { return s.images[s.idx] }
func (s *Sequencer) Index() int                    { return s.idx }
func (s *Sequencer) Len() int                      { return len(s.images) }
func (s *Sequencer) Scanline() int                 { return s.line }
func (s *Sequencer) Palette() *render.PaletteCache { return &s.palette }
func (s *Sequencer) LastChange() time.Duration     { return s.lastChange }

// Render decodes the current scanline into dst.
func (s *Sequencer) Render(dst []render.Color) {
	render.Scanline(dst, s.images[s.idx], &s.palette, s.line)
}
