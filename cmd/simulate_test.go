package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestScriptedPauseDue verifies the one-shot pause trigger: it needs both
// marks set, fires only once the mark is reached, and never re-fires.
func TestScriptedPauseDue(t *testing.T) {
	tests := []struct {
		name      string
		pauseDone bool
		tMin      float64
		atMin     float64
		forSec    float64
		want      bool
	}{
		{"fires at the mark", false, 5.0, 5.0, 30, true},
		{"fires past the mark", false, 7.2, 5.0, 30, true},
		{"not yet reached", false, 4.9, 5.0, 30, false},
		{"pause-for alone never fires at t=0", false, 0.0, 0, 30, false},
		{"pause-at without pause-for is disabled", false, 10.0, 5.0, 0, false},
		{"already consumed", true, 10.0, 5.0, 30, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, scriptedPauseDue(tt.pauseDone, tt.tMin, tt.atMin, tt.forSec))
		})
	}
}
