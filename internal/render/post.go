package render

import "math"

// ApplyWhiteCap scales each LED so that r+g+b <= whiteCap*3*255, limiting
// peak current on battery-powered strips. Values outside (0,1) disable it.
func ApplyWhiteCap(buf []Color, whiteCap float64) {
	if whiteCap <= 0 || whiteCap >= 1 {
		return
	}
	limit := whiteCap * 3.0 * 255.0
	for i := range buf {
		s := float64(buf[i].R) + float64(buf[i].G) + float64(buf[i].B)
		if s > limit && s > 0 {
			// floor keeps the scaled sum at or below limit
			scale := limit / s
			buf[i].R = byte(math.Floor(float64(buf[i].R) * scale))
			buf[i].G = byte(math.Floor(float64(buf[i].G) * scale))
			buf[i].B = byte(math.Floor(float64(buf[i].B) * scale))
		}
	}
}

// EstimateCurrent returns the estimated draw in amps of buf at full
// brightness, assuming chanmA milliamps per colour channel at full scale.
func EstimateCurrent(buf []Color, chanmA float64) float64 {
	var sum float64
	for i := range buf {
		sum += float64(buf[i].R) + float64(buf[i].G) + float64(buf[i].B)
	}
	return sum / 255.0 * chanmA / 1000.0
}
