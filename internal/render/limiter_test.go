package render

import "testing"

func TestWhiteCap(t *testing.T) {
	buf := []Color{{255, 255, 255}, {10, 0, 0}}
	ApplyWhiteCap(buf, 0.5)
	sum := int(buf[0].R) + int(buf[0].G) + int(buf[0].B)
	if sum > 383 {
		t.Fatalf("expected sum <= 383, got %d", sum)
	}
	if buf[1] != (Color{10, 0, 0}) {
		t.Fatalf("dim LED should pass through, got %+v", buf[1])
	}
}

func TestWhiteCapDisabled(t *testing.T) {
	buf := []Color{{255, 255, 255}}
	ApplyWhiteCap(buf, 1)
	if buf[0] != (Color{255, 255, 255}) {
		t.Fatalf("cap of 1 should be a no-op, got %+v", buf[0])
	}
}

func TestEstimateCurrent(t *testing.T) {
	// 10 LEDs all white at 20mA/channel = 600mA
	buf := make([]Color, 10)
	for i := range buf {
		buf[i] = Color{255, 255, 255}
	}
	if a := EstimateCurrent(buf, 20); a < 0.599 || a > 0.601 {
		t.Fatalf("expected 0.6A, got %.3f", a)
	}
}

func TestWhiteCapNeverExceedsLimit(t *testing.T) {
	for _, whiteCap := range []float64{0.1, 0.33, 0.5, 0.67, 0.9, 0.99} {
		limit := whiteCap * 3 * 255
		for r := 0; r < 256; r += 15 {
			for g := 0; g < 256; g += 17 {
				for b := 0; b < 256; b += 51 {
					buf := []Color{{uint8(r), uint8(g), uint8(b)}}
					ApplyWhiteCap(buf, whiteCap)
					sum := float64(buf[0].R) + float64(buf[0].G) + float64(buf[0].B)
					if sum > limit {
						t.Fatalf("cap %.2f: (%d,%d,%d) -> %+v sums to %.0f > %.1f", whiteCap, r, g, b, buf[0], sum, limit)
					}
				}
			}
		}
	}
}
