// Package engine evaluates landmark detections against the active mode and
// threads the per-session progress state between ticks.
package engine

import (
	"github.com/google/uuid"

	"github.com/ayusman/asana/internal/gesture"
	"github.com/ayusman/asana/internal/mode"
	"github.com/ayusman/asana/internal/progress"
)

// State is everything a mode session carries from one tick to the next.
// It is a value: Evaluate returns a new State and never mutates its input.
type State struct {
	SessionID uuid.UUID
	Config    mode.Config
	Stability progress.Stability
	Reps      progress.Reps
	Score     progress.Score

	lastGesture gesture.Label
}

// NewState starts a fresh session for cfg.
func NewState(cfg mode.Config) State {
	return State{SessionID: uuid.New(), Config: cfg}
}

// SwitchMode replaces s with a fresh session for id. Unknown ids and the
// currently active id leave s untouched and return false.
func SwitchMode(s State, reg *mode.Registry, id mode.ID) (State, bool) {
	if id == s.Config.ID {
		return s, false
	}
	cfg, err := reg.Lookup(id)
	if err != nil {
		return s, false
	}
	return NewState(cfg), true
}

// reset clears the transient progress after a tick without usable landmarks.
// The score and completed reps survive.
func (s State) reset() State {
	s.Stability = progress.Stability{}
	s.Reps = s.Reps.Rearm()
	s.lastGesture = ""
	return s
}
