package render

import "github.com/coreman2200/kinetic-pov/internal/asset"

// Scanline decodes scanline line of img into dst, one Color per LED in
// ascending strip order. len(dst) is the strip length. cache must hold img's
// palette for Palette1 and Palette4 images.
func Scanline(dst []Color, img asset.Image, cache *PaletteCache, line int) {
	n := len(dst)
	stride := img.Format.Stride(n)
	row := img.Pixels[line*stride : (line+1)*stride]

	switch img.Format {
	case asset.Palette1:
		led := 0
		for _, packed := range row {
			for bit := 0; bit < 8; bit++ {
				dst[led] = cache.At(int(packed & 1))
				packed >>= 1
				led++
			}
		}

	case asset.Palette4:
		for i, packed := range row {
			dst[2*i] = cache.At(int(packed >> 4))
			dst[2*i+1] = cache.At(int(packed & 0x0F))
		}

	case asset.Palette8:
		pal := img.Palette
		for i, idx := range row {
			o := int(idx) * 3
			dst[i] = Color{R: pal[o], G: pal[o+1], B: pal[o+2]}
		}

	case asset.TrueColor:
		for i := range dst {
			o := i * 3
			dst[i] = Color{R: row[o], G: row[o+1], B: row[o+2]}
		}
	}
}
