package asset

import "fmt"

// Format is the pixel encoding of an image.
type Format uint8

const (
	Palette1 Format = iota
	Palette4
	Palette8
	TrueColor
)

// Layout describes how a Format packs pixels into a scanline.
type Layout struct {
	Name string
	// BitsPerPixel is the number of bits one LED occupies in Pixels.
	BitsPerPixel int
	// PaletteEntries is the exact palette size for cached palettes and the
	// maximum for Palette8. Zero means no palette.
	PaletteEntries int
	// Cached is set for formats whose palette is copied into the render cache.
	Cached bool
}

var layouts = [...]Layout{
	Palette1:  {Name: "palette1", BitsPerPixel: 1, PaletteEntries: 2, Cached: true},
	Palette4:  {Name: "palette4", BitsPerPixel: 4, PaletteEntries: 16, Cached: true},
	Palette8:  {Name: "palette8", BitsPerPixel: 8, PaletteEntries: 256},
	TrueColor: {Name: "truecolor", BitsPerPixel: 24},
}

func (f Format) Valid() bool { return int(f) < len(layouts) }

// Layout returns the packing description for f. It panics on unknown formats.
func (f Format) Layout() Layout { return layouts[f] }

// Stride is the number of pixel bytes in one scanline of numLEDs LEDs.
func (f Format) Stride(numLEDs int) int {
	return numLEDs * layouts[f].BitsPerPixel / 8
}

// PixelsPerByte reports how many LEDs one byte holds, 0 for TrueColor.
func (f Format) PixelsPerByte() int {
	bpp := layouts[f].BitsPerPixel
	if bpp > 8 {
		return 0
	}
	return 8 / bpp
}

func (f Format) String() string {
	if !f.Valid() {
		return fmt.Sprintf("format(%d)", uint8(f))
	}
	return layouts[f].Name
}

// ParseFormat maps a format name back to its Format.
func ParseFormat(s string) (Format, error) {
	for i, l := range layouts {
		if l.Name == s {
			return Format(i), nil
		}
	}
	return 0, fmt.Errorf("unknown format %q", s)
}
