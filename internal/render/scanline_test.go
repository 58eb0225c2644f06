package render

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/coreman2200/kinetic-pov/internal/asset"
)

var (
	black = Color{0, 0, 0}
	white = Color{255, 255, 255}
)

func loaded(img asset.Image) *PaletteCache {
	c := &PaletteCache{}
	c.Load(img)
	return c
}

func TestPalette1LSBFirst(t *testing.T) {
	img := asset.Image{
		Format:  asset.Palette1,
		Lines:   1,
		Palette: []byte{0, 0, 0, 255, 255, 255},
		Pixels:  []byte{0b10110010},
	}
	dst := make([]Color, 8)
	Scanline(dst, img, loaded(img), 0)

	// bit0 drives LED 0
	assert.Equal(t, []Color{black, white, black, black, white, white, black, white}, dst)
}

func TestPalette4HighNibbleFirst(t *testing.T) {
	pal := make([]byte, 16*3)
	for i := 0; i < 16; i++ {
		pal[i*3] = byte(i * 10)
		pal[i*3+1] = byte(i)
	}
	img := asset.Image{Format: asset.Palette4, Lines: 1, Palette: pal, Pixels: []byte{0xA5, 0x0F}}
	dst := make([]Color, 4)
	Scanline(dst, img, loaded(img), 0)

	assert.Equal(t, Color{R: 100, G: 0xA}, dst[0])
	assert.Equal(t, Color{R: 50, G: 0x5}, dst[1])
	assert.Equal(t, Color{R: 0, G: 0}, dst[2])
	assert.Equal(t, Color{R: 150, G: 0xF}, dst[3])
}

func TestPalette8ReadsImagePalette(t *testing.T) {
	img := asset.Image{
		Format:  asset.Palette8,
		Lines:   2,
		Palette: []byte{1, 2, 3, 4, 5, 6, 7, 8, 9},
		Pixels:  []byte{0, 1, 2, 0, 2, 2, 1, 0},
	}
	cache := &PaletteCache{}
	cache.Load(img)
	assert.Equal(t, 0, cache.Len(), "palette8 is not cached")

	dst := make([]Color, 4)
	Scanline(dst, img, cache, 1)
	assert.Equal(t, []Color{{7, 8, 9}, {7, 8, 9}, {4, 5, 6}, {1, 2, 3}}, dst)
}

func TestTrueColorOrder(t *testing.T) {
	img := asset.Image{
		Format: asset.TrueColor,
		Lines:  1,
		Pixels: []byte{10, 20, 30, 40, 50, 60, 70, 80, 90},
	}
	dst := make([]Color, 3)
	Scanline(dst, img, &PaletteCache{}, 0)
	assert.Equal(t, []Color{{10, 20, 30}, {40, 50, 60}, {70, 80, 90}}, dst)
}

func TestScanlineStride(t *testing.T) {
	// 16 LEDs, 3 lines; each line's bytes select a single palette entry.
	img := asset.Image{
		Format:  asset.Palette1,
		Lines:   3,
		Palette: []byte{0, 0, 0, 255, 255, 255},
		Pixels:  []byte{0x00, 0x00, 0xFF, 0xFF, 0x00, 0x00},
	}
	cache := loaded(img)
	dst := make([]Color, 16)
	for line, want := range []Color{black, white, black} {
		Scanline(dst, img, cache, line)
		for i, c := range dst {
			assert.Equal(t, want, c, "line %d led %d", line, i)
		}
	}
}

func TestBuiltinScanlinesFillStrip(t *testing.T) {
	tbl, err := asset.Builtin(24)
	if err != nil {
		t.Fatal(err)
	}
	for _, img := range tbl.Images {
		cache := loaded(img)
		dst := make([]Color, tbl.NumLEDs)
		for line := 0; line < img.Lines; line++ {
			Scanline(dst, img, cache, line)
		}
	}
}
