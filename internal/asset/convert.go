package asset

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"

	"github.com/ericpauley/go-quantize/quantize"
	"github.com/lucasb-eyer/go-colorful"
	xdraw "golang.org/x/image/draw"
)

// ConvertOptions controls how a source picture becomes an Image.
type ConvertOptions struct {
	Name    string
	NumLEDs int
	// Format forces the output encoding. Empty picks the smallest format
	// that holds the picture's colours.
	Format string
	// MaxColors caps the palette before the format is chosen; 0 means no cap.
	MaxColors int
	// Gamma converts sRGB input to linear light, which LEDs expect.
	Gamma bool
}

// Convert turns src into an Image. Each source row becomes one scanline and
// the picture is scaled so that its width matches NumLEDs.
func Convert(src image.Image, o ConvertOptions) (Image, error) {
	if o.NumLEDs <= 0 {
		return Image{}, fmt.Errorf("invalid LED count: %d", o.NumLEDs)
	}
	sb := src.Bounds()
	if sb.Empty() {
		return Image{}, fmt.Errorf("%s: empty picture", o.Name)
	}

	lines := sb.Dy() * o.NumLEDs / sb.Dx()
	if lines < 1 {
		lines = 1
	}
	if lines > 0xFFFF {
		return Image{}, fmt.Errorf("%s: %d scanlines exceed pack limit", o.Name, lines)
	}
	m := image.NewNRGBA(image.Rect(0, 0, o.NumLEDs, lines))
	if sb.Dx() == o.NumLEDs {
		draw.Draw(m, m.Bounds(), src, sb.Min, draw.Src)
	} else {
		xdraw.ApproxBiLinear.Scale(m, m.Bounds(), src, sb, xdraw.Src, nil)
	}
	flatten(m, o.Gamma)

	unique := uniqueColors(m)
	limit := len(unique)
	if o.MaxColors > 0 && limit > o.MaxColors {
		limit = o.MaxColors
	}

	var f Format
	if o.Format != "" {
		var err error
		if f, err = ParseFormat(o.Format); err != nil {
			return Image{}, err
		}
	} else {
		f = smallestFormat(limit)
	}
	if ppb := f.PixelsPerByte(); ppb > 0 && o.NumLEDs%ppb != 0 {
		return Image{}, fmt.Errorf("%d LEDs do not pack into %s", o.NumLEDs, f)
	}

	img := Image{Name: o.Name, Format: f, Lines: lines}
	if f == TrueColor {
		img.Pixels = packTrueColor(m)
		return img, nil
	}

	entries := f.Layout().PaletteEntries
	if limit > entries {
		limit = entries
	}
	var pm *image.Paletted
	if len(unique) <= limit {
		pm = image.NewPaletted(m.Bounds(), unique)
	} else {
		q := quantize.MedianCutQuantizer{}
		pm = image.NewPaletted(m.Bounds(), q.Quantize(make(color.Palette, 0, limit), m))
	}
	draw.Draw(pm, pm.Bounds(), m, image.Point{}, draw.Src)

	img.Palette = packPalette(pm.Palette, f)
	img.Pixels = packIndices(pm, f)
	return img, nil
}

func smallestFormat(colors int) Format {
	switch {
	case colors <= 2:
		return Palette1
	case colors <= 16:
		return Palette4
	case colors <= 256:
		return Palette8
	default:
		return TrueColor
	}
}

// flatten composites m over black and optionally linearises it.
func flatten(m *image.NRGBA, gamma bool) {
	for i := 0; i+3 < len(m.Pix); i += 4 {
		a := uint16(m.Pix[i+3])
		r := byte(uint16(m.Pix[i]) * a / 255)
		g := byte(uint16(m.Pix[i+1]) * a / 255)
		b := byte(uint16(m.Pix[i+2]) * a / 255)
		if gamma {
			c := colorful.Color{R: float64(r) / 255, G: float64(g) / 255, B: float64(b) / 255}
			lr, lg, lb := c.LinearRgb()
			r, g, b = to8(lr), to8(lg), to8(lb)
		}
		m.Pix[i], m.Pix[i+1], m.Pix[i+2], m.Pix[i+3] = r, g, b, 255
	}
}

func to8(v float64) byte {
	if v <= 0 {
		return 0
	}
	if v >= 1 {
		return 255
	}
	return byte(v*255 + 0.5)
}

// uniqueColors lists the colours of m in order of first appearance. It stops
// counting past 257 since no palette format holds more.
func uniqueColors(m *image.NRGBA) color.Palette {
	seen := map[color.NRGBA]struct{}{}
	var p color.Palette
	for i := 0; i+3 < len(m.Pix); i += 4 {
		c := color.NRGBA{R: m.Pix[i], G: m.Pix[i+1], B: m.Pix[i+2], A: 255}
		if _, ok := seen[c]; ok {
			continue
		}
		seen[c] = struct{}{}
		p = append(p, c)
		if len(p) > 256 {
			break
		}
	}
	return p
}

func packPalette(p color.Palette, f Format) []byte {
	n := len(p)
	if f.Layout().Cached {
		n = f.Layout().PaletteEntries
	}
	out := make([]byte, n*3)
	for i, c := range p {
		if i >= n {
			break
		}
		nc := color.NRGBAModel.Convert(c).(color.NRGBA)
		out[i*3], out[i*3+1], out[i*3+2] = nc.R, nc.G, nc.B
	}
	return out
}

func packIndices(pm *image.Paletted, f Format) []byte {
	b := pm.Bounds()
	stride := f.Stride(b.Dx())
	out := make([]byte, b.Dy()*stride)
	for y := 0; y < b.Dy(); y++ {
		row := pm.Pix[y*pm.Stride : y*pm.Stride+b.Dx()]
		dst := out[y*stride : (y+1)*stride]
		switch f {
		case Palette1:
			for i, idx := range row {
				dst[i/8] |= (idx & 1) << uint(i%8)
			}
		case Palette4:
			for i, idx := range row {
				if i%2 == 0 {
					dst[i/2] |= (idx & 0x0F) << 4
				} else {
					dst[i/2] |= idx & 0x0F
				}
			}
		case Palette8:
			copy(dst, row)
		}
	}
	return out
}

func packTrueColor(m *image.NRGBA) []byte {
	b := m.Bounds()
	out := make([]byte, 0, b.Dx()*b.Dy()*3)
	for i := 0; i+3 < len(m.Pix); i += 4 {
		out = append(out, m.Pix[i], m.Pix[i+1], m.Pix[i+2])
	}
	return out
}
