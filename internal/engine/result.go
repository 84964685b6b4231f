package engine

import (
	"time"

	"github.com/ayusman/asana/internal/detector"
	"github.com/ayusman/asana/internal/gesture"
	"github.com/ayusman/asana/internal/mode"
)

// GestureResult is the hand shape reported for gesture modes.
type GestureResult struct {
	Label             gesture.Label `json:"label"`
	ConfidencePercent int           `json:"confidence_percent"`
}

// Result is the immutable per-tick output handed to renderers.
type Result struct {
	SessionID         string          `json:"session_id"`
	Mode              mode.ID         `json:"mode"`
	Title             string          `json:"title"`
	Detected          bool            `json:"detected"`
	Angle             *int            `json:"angle"`
	Quality           string          `json:"quality"`
	Good              bool            `json:"good"`
	Prompt            string          `json:"prompt"`
	StableSeconds     float64         `json:"stable_seconds"`
	CompletionPercent int             `json:"completion_percent"`
	Score             int             `json:"score"`
	RepCount          *int            `json:"rep_count,omitempty"`
	Gesture           *GestureResult  `json:"gesture,omitempty"`
	Threshold         float64         `json:"threshold"`
	Landmarks         *detector.Frame `json:"landmarks,omitempty"`
	At                time.Time       `json:"at"`
}

// Idle is the result shown before the first detection of a session.
func Idle(s State, now time.Time) Result {
	r := s.base(now)
	r.Quality = mode.Prompt(s.Config.UndetectedKey)
	return r
}

func (s State) base(now time.Time) Result {
	r := Result{
		SessionID:         s.SessionID.String(),
		Mode:              s.Config.ID,
		Title:             s.Config.Title,
		Prompt:            mode.Prompt(s.Config.HelpKey),
		StableSeconds:     s.Stability.Seconds(),
		CompletionPercent: s.Config.Completion(s.Stability, s.Reps),
		Score:             s.Score.Display(),
		Threshold:         s.Config.ConfidenceThreshold,
		At:                now,
	}
	if s.Config.Counts() {
		n := s.Reps.Count
		r.RepCount = &n
	}
	return r
}
