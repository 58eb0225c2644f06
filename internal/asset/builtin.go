package asset

import (
	"fmt"
	"image/color"
	"math"

	"github.com/lucasb-eyer/go-colorful"
)

// Builtin returns a small demo table with one image per format, used when no
// asset pack is configured. numLEDs must be a positive multiple of 8.
func Builtin(numLEDs int) (Table, error) {
	if numLEDs <= 0 || numLEDs%8 != 0 {
		return Table{}, fmt.Errorf("builtin images need a multiple of 8 LEDs, got %d", numLEDs)
	}
	t := Table{
		NumLEDs: numLEDs,
		Images: []Image{
			checker(numLEDs),
			stripes(numLEDs),
			spectrum(numLEDs),
			rainbow(numLEDs),
		},
	}
	return t, t.Check()
}

func checker(n int) Image {
	const lines = 16
	stride := Palette1.Stride(n)
	px := make([]byte, lines*stride)
	for l := 0; l < lines; l++ {
		for i := 0; i < n; i++ {
			if ((i/4)+(l/4))%2 == 0 {
				// LSB is the lowest LED of each byte.
				px[l*stride+i/8] |= 1 << uint(i%8)
			}
		}
	}
	return Image{
		Name:    "checker",
		Format:  Palette1,
		Lines:   lines,
		Palette: []byte{0, 0, 0, 255, 160, 0},
		Pixels:  px,
	}
}

func stripes(n int) Image {
	const lines = 32
	pal := make([]byte, 0, 16*3)
	for i := 0; i < 16; i++ {
		c := colorWheel(float64(i) / 16)
		pal = append(pal, c.R, c.G, c.B)
	}
	stride := Palette4.Stride(n)
	px := make([]byte, lines*stride)
	for l := 0; l < lines; l++ {
		for i := 0; i < n; i += 2 {
			hi := byte((i + l) % 16)
			lo := byte((i + 1 + l) % 16)
			px[l*stride+i/2] = hi<<4 | lo
		}
	}
	return Image{Name: "stripes", Format: Palette4, Lines: lines, Palette: pal, Pixels: px}
}

func spectrum(n int) Image {
	const lines = 64
	pal := make([]byte, 0, 256*3)
	for i := 0; i < 256; i++ {
		r, g, b := colorful.Hsv(float64(i)*360/256, 1, 1).RGB255()
		pal = append(pal, r, g, b)
	}
	stride := Palette8.Stride(n)
	px := make([]byte, lines*stride)
	for l := 0; l < lines; l++ {
		for i := 0; i < n; i++ {
			px[l*stride+i] = byte((i*256/n + l*4) % 256)
		}
	}
	return Image{Name: "spectrum", Format: Palette8, Lines: lines, Palette: pal, Pixels: px}
}

func rainbow(n int) Image {
	const lines = 64
	stride := TrueColor.Stride(n)
	px := make([]byte, lines*stride)
	for l := 0; l < lines; l++ {
		for i := 0; i < n; i++ {
			h := math.Mod(float64(l)/lines+float64(i)/float64(2*n), 1)
			c := colorWheel(h)
			o := l*stride + i*3
			px[o], px[o+1], px[o+2] = c.R, c.G, c.B
		}
	}
	return Image{Name: "rainbow", Format: TrueColor, Lines: lines, Pixels: px}
}

func colorWheel(h float64) color.NRGBA {
	h *= 6
	switch {
	case h < 1.:
		return color.NRGBA{R: 255, G: byte(255 * h), A: 255}
	case h < 2.:
		return color.NRGBA{R: byte(255 * (2 - h)), G: 255, A: 255}
	case h < 3.:
		return color.NRGBA{G: 255, B: byte(255 * (h - 2)), A: 255}
	case h < 4.:
		return color.NRGBA{G: byte(255 * (4 - h)), B: 255, A: 255}
	case h < 5.:
		return color.NRGBA{R: byte(255 * (h - 4)), B: 255, A: 255}
	default:
		return color.NRGBA{R: 255, B: byte(255 * (6 - h)), A: 255}
	}
}
