package main

import (
	"time"

	"github.com/gdamore/tcell/v2"
)

// sweep is a led.Driver that paints each flushed scanline as the next
// terminal column, wrapping at the right edge, so the image builds up the
// way it would in the air. LED 0 is at the bottom; the last row is kept for
// the status line.
type sweep struct {
	scr      tcell.Screen
	n        int
	col      int
	every    time.Duration
	lastShow time.Time
}

func newSweep(scr tcell.Screen, numLEDs int, every time.Duration) *sweep {
	return &sweep{scr: scr, n: numLEDs, every: every}
}

func (s *sweep) Write(rgb []byte) error {
	w, h := s.scr.Size()
	rows := h - 1
	if w <= 0 || rows <= 0 {
		return nil
	}
	if rows > s.n {
		rows = s.n
	}
	x := s.col % w
	// when LEDs share a row the lowest index is drawn last and wins
	for i := s.n - 1; i >= 0; i-- {
		y := h - 2 - i*rows/s.n
		c := tcell.NewRGBColor(int32(rgb[i*3]), int32(rgb[i*3+1]), int32(rgb[i*3+2]))
		s.scr.SetContent(x, y, ' ', nil, tcell.StyleDefault.Background(c))
	}
	// leading edge marker
	next := (x + 1) % w
	for y := h - 1 - rows; y < h-1; y++ {
		s.scr.SetContent(next, y, '│', nil, tcell.StyleDefault.Foreground(tcell.ColorGray))
	}
	s.col++

	if now := time.Now(); now.Sub(s.lastShow) >= s.every {
		s.scr.Show()
		s.lastShow = now
	}
	return nil
}

func (s *sweep) Close() error {
	s.scr.Fini()
	return nil
}

// status writes text on the bottom row.
func status(scr tcell.Screen, text string) {
	w, h := scr.Size()
	st := tcell.StyleDefault.Reverse(true)
	x := 0
	for _, r := range text {
		if x >= w {
			break
		}
		scr.SetContent(x, h-1, r, nil, st)
		x++
	}
	for ; x < w; x++ {
		scr.SetContent(x, h-1, ' ', nil, st)
	}
}
