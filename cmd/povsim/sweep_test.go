package main

import (
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func simScreen(t *testing.T, w, h int) tcell.SimulationScreen {
	t.Helper()
	s := tcell.NewSimulationScreen("")
	require.NoError(t, s.Init())
	s.SetSize(w, h)
	return s
}

func bg(r, g, b int32) tcell.Style {
	return tcell.StyleDefault.Background(tcell.NewRGBColor(r, g, b))
}

func TestSweepPaintsColumns(t *testing.T) {
	scr := simScreen(t, 3, 5)
	sw := newSweep(scr, 4, time.Hour)

	frame := []byte{255, 0, 0, 0, 255, 0, 0, 0, 255, 9, 9, 9}
	require.NoError(t, sw.Write(frame))

	_, _, st, _ := scr.GetContent(0, 3)
	assert.Equal(t, bg(255, 0, 0), st, "LED 0 at the bottom")
	_, _, st, _ = scr.GetContent(0, 0)
	assert.Equal(t, bg(9, 9, 9), st)
	r, _, _, _ := scr.GetContent(1, 2)
	assert.Equal(t, '│', r)

	require.NoError(t, sw.Write(make([]byte, 12)))
	_, _, st, _ = scr.GetContent(1, 3)
	assert.Equal(t, bg(0, 0, 0), st)

	// third column then wrap back to the first
	require.NoError(t, sw.Write(make([]byte, 12)))
	require.NoError(t, sw.Write(frame))
	_, _, st, _ = scr.GetContent(0, 3)
	assert.Equal(t, bg(255, 0, 0), st)
	require.NoError(t, sw.Close())
}

func TestSweepFoldsTallStrips(t *testing.T) {
	scr := simScreen(t, 2, 3)
	sw := newSweep(scr, 8, time.Hour)
	frame := make([]byte, 24)
	frame[0] = 200 // LED 0
	require.NoError(t, sw.Write(frame))
	_, _, st, _ := scr.GetContent(0, 1)
	assert.Equal(t, bg(200, 0, 0), st)
	sw.Close()
}

func TestStatusLine(t *testing.T) {
	scr := simScreen(t, 6, 3)
	status(scr, "hello world")
	r, _, _, _ := scr.GetContent(0, 2)
	assert.Equal(t, 'h', r)
	r, _, _, _ = scr.GetContent(5, 2)
	assert.Equal(t, ' ', r)
	scr.Fini()
}
