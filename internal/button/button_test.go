package button

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpiotest"
)

func TestGPIOActiveLow(t *testing.T) {
	p := &gpiotest.Pin{N: "GPIO17", Num: 17}
	b, err := FromPin(p)
	require.NoError(t, err)
	assert.Equal(t, gpio.PullUp, p.P)
	assert.False(t, b.Pressed(), "pull-up idles high")

	p.Lock()
	p.L = gpio.Low
	p.Unlock()
	assert.True(t, b.Pressed())
	assert.Equal(t, "GPIO17(17)", b.String())
}

func TestNewGPIOUnknownPin(t *testing.T) {
	_, err := NewGPIO("NOT_A_PIN")
	assert.Error(t, err)
}

func TestVirtual(t *testing.T) {
	v := &Virtual{}
	assert.False(t, v.Pressed())
	v.Set(true)
	assert.True(t, v.Pressed())
	assert.False(t, v.Toggle())
	assert.False(t, v.Pressed())
	assert.True(t, v.Toggle())
}

func TestAny(t *testing.T) {
	a, b := &Virtual{}, &Virtual{}
	p := Any(a, b)
	assert.False(t, p.Pressed())
	b.Set(true)
	assert.True(t, p.Pressed())
}
