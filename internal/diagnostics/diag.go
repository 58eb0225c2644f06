package diagnostics

import (
	"fmt"
	"strings"

	"github.com/coreman2200/kinetic-pov/internal/gesture"
)

type Severity string

const (
	Info Severity = "info"
	Warn Severity = "warning"
	Err  Severity = "error"
)

type Diagnostic struct {
	Severity       Severity       `json:"severity"`
	Code           string         `json:"code"`
	Summary        string         `json:"summary"`
	Detail         string         `json:"detail,omitempty"`
	LikelyCauses   []string       `json:"likely_causes,omitempty"`
	SuggestedFixes []string       `json:"suggested_fixes,omitempty"`
	Evidence       map[string]any `json:"evidence,omitempty"`
}

// Gesture reports a recognised button gesture.
func Gesture(a gesture.Action) Diagnostic {
	return Diagnostic{
		Severity: Info,
		Code:     "GESTURE." + strings.ToUpper(a.String()),
		Summary:  "Button gesture",
		Detail:   a.String(),
	}
}

// ImageChanged reports the sequencer switching images.
func ImageChanged(index int, name string) Diagnostic {
	return Diagnostic{
		Severity: Info,
		Code:     "IMAGE.CHANGED",
		Summary:  fmt.Sprintf("Showing image %d", index),
		Detail:   name,
		Evidence: map[string]any{"index": index, "name": name},
	}
}

// OverBudget warns that a scanline would draw more current than allowed.
func OverBudget(index int, amps, limit float64) Diagnostic {
	return Diagnostic{
		Severity:     Warn,
		Code:         "POWER.OVER_BUDGET",
		Summary:      "Scanline exceeds current budget",
		LikelyCauses: []string{"bright, mostly white image", "brightness level too high for the battery"},
		SuggestedFixes: []string{
			"set power.white_cap below 1",
			"lower brightness.index",
		},
		Evidence: map[string]any{"image": index, "amps": amps, "limit_amps": limit},
	}
}

// UnknownControl reports a control message the preview did not understand.
func UnknownControl(msg string) Diagnostic {
	return Diagnostic{
		Severity: Warn, Code: "CONTROL.UNKNOWN", Summary: "Unknown control message",
		Evidence: map[string]any{"button": msg},
	}
}
