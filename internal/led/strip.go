package led

import "fmt"

// Strip is the pixel-addressable surface the scanline loop paints into.
// Brightness is applied when the frame is flushed, not when pixels are set.
type Strip interface {
	SetPixelColor(i int, r, g, b uint8)
	SetBrightness(level uint8)
	Brightness() uint8
	Show() error
	Len() int
}

// Buffer is a Strip that keeps a frame in memory and hands it to a Driver
// on Show.
type Buffer struct {
	drv     Driver
	px      []byte
	out     []byte
	level   uint8
	reverse bool
}

// NewBuffer returns a full-brightness Buffer of n pixels writing to drv.
// With reverse set, pixel 0 is sent last.
func NewBuffer(n int, drv Driver, reverse bool) *Buffer {
	return &Buffer{
		drv:     drv,
		px:      make([]byte, n*3),
		out:     make([]byte, n*3),
		level:   255,
		reverse: reverse,
	}
}

func (b *Buffer) Len() int { return len(b.px) / 3 }

func (b *Buffer) SetPixelColor(i int, r, g, bl uint8) {
	if i < 0 || i >= b.Len() {
		return
	}
	b.px[i*3], b.px[i*3+1], b.px[i*3+2] = r, g, bl
}

// Pixel returns the unscaled colour of pixel i.
func (b *Buffer) Pixel(i int) (r, g, bl uint8) {
	return b.px[i*3], b.px[i*3+1], b.px[i*3+2]
}

func (b *Buffer) SetBrightness(level uint8) { b.level = level }
func (b *Buffer) Brightness() uint8         { return b.level }

// Frame returns the bytes handed to the driver by the last Show.
func (b *Buffer) Frame() []byte { return b.out }

// Show scales the frame by the brightness level and writes it.
func (b *Buffer) Show() error {
	n := b.Len()
	scale := uint16(b.level) + 1
	for i := 0; i < n; i++ {
		src := i
		if b.reverse {
			src = n - 1 - i
		}
		for c := 0; c < 3; c++ {
			v := b.px[src*3+c]
			if b.level != 255 {
				v = uint8(uint16(v) * scale >> 8)
			}
			b.out[i*3+c] = v
		}
	}
	if err := b.drv.Write(b.out); err != nil {
		return fmt.Errorf("show: %w", err)
	}
	return nil
}
