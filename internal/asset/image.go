package asset

import (
	"errors"
	"fmt"
)

// Image is one stored picture, played back a scanline at a time.
type Image struct {
	Name   string
	Format Format
	// Lines is the number of scanlines in Pixels.
	Lines int
	// Palette holds RGB triples. Nil for TrueColor.
	Palette []byte
	Pixels  []byte
}

// Table is the ordered set of images available to the display, all encoded
// for the same strip length.
type Table struct {
	NumLEDs int
	Images  []Image
}

var ErrEmptyTable = errors.New("asset table has no images")

// Check verifies that img is consistent with its format for a strip of
// numLEDs LEDs. The renderer never calls it; loaders do.
func (img Image) Check(numLEDs int) error {
	if !img.Format.Valid() {
		return fmt.Errorf("%s: unknown format %d", img.Name, img.Format)
	}
	if img.Lines <= 0 {
		return fmt.Errorf("%s: no scanlines", img.Name)
	}
	if ppb := img.Format.PixelsPerByte(); ppb > 0 && numLEDs%ppb != 0 {
		return fmt.Errorf("%s: %d LEDs do not pack into %s", img.Name, numLEDs, img.Format)
	}
	if want := img.Lines * img.Format.Stride(numLEDs); len(img.Pixels) != want {
		return fmt.Errorf("%s: %d pixel bytes, want %d", img.Name, len(img.Pixels), want)
	}

	l := img.Format.Layout()
	switch {
	case l.Cached && len(img.Palette) != l.PaletteEntries*3:
		return fmt.Errorf("%s: palette is %d bytes, want %d", img.Name, len(img.Palette), l.PaletteEntries*3)
	case img.Format == Palette8:
		if len(img.Palette) == 0 || len(img.Palette)%3 != 0 || len(img.Palette) > l.PaletteEntries*3 {
			return fmt.Errorf("%s: bad palette8 size %d", img.Name, len(img.Palette))
		}
		n := byte(len(img.Palette)/3 - 1)
		for _, p := range img.Pixels {
			if p > n {
				return fmt.Errorf("%s: palette index %d out of range", img.Name, p)
			}
		}
	case img.Format == TrueColor && len(img.Palette) != 0:
		return fmt.Errorf("%s: truecolor image carries a palette", img.Name)
	}
	return nil
}

// Check validates every image in the table.
func (t Table) Check() error {
	if len(t.Images) == 0 {
		return ErrEmptyTable
	}
	if t.NumLEDs <= 0 {
		return fmt.Errorf("invalid LED count: %d", t.NumLEDs)
	}
	for i := range t.Images {
		if err := t.Images[i].Check(t.NumLEDs); err != nil {
			return fmt.Errorf("image %d: %w", i, err)
		}
	}
	return nil
}
