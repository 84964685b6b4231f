package tray

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ayusman/asana/internal/engine"
	"github.com/ayusman/asana/internal/gesture"
	"github.com/ayusman/asana/internal/mode"
)

func TestStatusLine(t *testing.T) {
	reps := 4

	tests := []struct {
		name string
		res  engine.Result
		want string
	}{
		{"hold mode", engine.Result{Score: 12, CompletionPercent: 63}, "Score: 12 · 63%"},
		{"rep mode", engine.Result{Score: 40, RepCount: &reps}, "Reps: 4 · Score: 40"},
		{"gesture mode", engine.Result{
			Gesture:           &engine.GestureResult{Label: gesture.Paper, ConfidencePercent: 85},
			CompletionPercent: 50,
		}, "paper · 50%"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StatusLine(tt.res))
		})
	}
}

func TestTray_UpdateBeforeReady(t *testing.T) {
	tr := New(mode.Defaults().All(), mode.Squat, true)
	assert.True(t, tr.IsEnabled())
	assert.Equal(t, "Score: 0 · 0%", tr.Status())

	tr.Update(engine.Result{Mode: mode.Lunge, Score: 5, CompletionPercent: 20})
	assert.Equal(t, mode.Lunge, tr.Active())
	assert.Equal(t, "Score: 5 · 20%", tr.Status())
}

func TestToggleTitle(t *testing.T) {
	assert.Equal(t, "● Enabled", toggleTitle(true))
	assert.Equal(t, "○ Disabled", toggleTitle(false))
}
