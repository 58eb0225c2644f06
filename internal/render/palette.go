package render

import "github.com/coreman2200/kinetic-pov/internal/asset"

// Color is one LED's output value.
type Color struct{ R, G, B uint8 }

// PaletteCacheSize is the largest palette copied into the cache (Palette4).
const PaletteCacheSize = 16

// PaletteCache holds the colour table of the active Palette1/Palette4 image.
// Palette8 images index their own palette and leave the cache untouched.
type PaletteCache struct {
	entries [PaletteCacheSize]Color
	n       int
}

// Load replaces the cache contents with img's palette when img uses a cached
// format.
func (p *PaletteCache) Load(img asset.Image) {
	l := img.Format.Layout()
	if !l.Cached {
		return
	}
	p.n = l.PaletteEntries
	for i := 0; i < p.n; i++ {
		rgb := img.Palette[i*3 : i*3+3]
		p.entries[i] = Color{R: rgb[0], G: rgb[1], B: rgb[2]}
	}
}

// Len is the number of entries copied by the last Load.
func (p *PaletteCache) Len() int { return p.n }

// At returns cache entry i.
func (p *PaletteCache) At(i int) Color { return p.entries[i] }
