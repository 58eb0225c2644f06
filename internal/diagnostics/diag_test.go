package diagnostics

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coreman2200/kinetic-pov/internal/gesture"
)

func TestGestureCode(t *testing.T) {
	d := Gesture(gesture.ToggleAutoCycle)
	assert.Equal(t, "GESTURE.TOGGLE_AUTO_CYCLE", d.Code)
	assert.Equal(t, Info, d.Severity)
}

func TestOverBudgetJSON(t *testing.T) {
	b, err := json.Marshal(OverBudget(2, 3.5, 2))
	require.NoError(t, err)

	var m map[string]any
	require.NoError(t, json.Unmarshal(b, &m))
	assert.Equal(t, "warning", m["severity"])
	assert.Equal(t, "POWER.OVER_BUDGET", m["code"])
	assert.Equal(t, 3.5, m["evidence"].(map[string]any)["amps"])
	assert.NotContains(t, m, "detail")
}
