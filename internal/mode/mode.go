// Package mode holds the closed set of exercise modes and their single
// authoritative threshold table.
package mode

import (
	"errors"
	"fmt"
	"time"

	"github.com/ayusman/asana/internal/detector"
	"github.com/ayusman/asana/internal/pose"
	"github.com/ayusman/asana/internal/progress"
)

// ErrUnknownMode is returned when a mode id is not in the registry.
var ErrUnknownMode = errors.New("unknown mode")

// ID identifies a mode.
type ID string

const (
	Squat     ID = "squat"
	SquatReps ID = "squat_reps"
	Balance   ID = "balance"
	Lunge     ID = "lunge"
	RPS       ID = "rps"
)

// Kind selects which classifier a mode runs.
type Kind string

const (
	KindPose    Kind = "pose"
	KindGesture Kind = "gesture"
)

// Target returns the detector target this kind needs.
func (k Kind) Target() detector.Target {
	if k == KindGesture {
		return detector.TargetHand
	}
	return detector.TargetPose
}

// Config is one row of the threshold table.
type Config struct {
	ID                  ID                   `json:"id" validate:"required"`
	Kind                Kind                 `json:"kind" validate:"oneof=pose gesture"`
	Title               string               `json:"title" validate:"required"`
	HelpKey             string               `json:"help_key" validate:"required"`
	UndetectedKey       string               `json:"undetected_key" validate:"required"`
	ConfidenceThreshold float64              `json:"confidence_threshold" validate:"gt=0,lte=1"`
	Joint               *pose.Joint          `json:"joint,omitempty" validate:"required_if=Kind pose"`
	Rules               []pose.Rule          `json:"rules,omitempty" validate:"required_if=Kind pose,dive"`
	Raised              *pose.RaisedCheck    `json:"raised,omitempty"`
	StabilityTarget     time.Duration        `json:"stability_target" validate:"gte=0"`
	Reps                *progress.Thresholds `json:"reps,omitempty"`
	Scoring             progress.Policy      `json:"scoring,omitempty" validate:"omitempty,oneof=time rep tick"`
	Rates               progress.Rates       `json:"rates"`
}

// Classifier builds the pose classifier for a pose mode.
func (c Config) Classifier() pose.Classifier {
	cl := pose.Classifier{Rules: c.Rules, Raised: c.Raised, Threshold: c.ConfidenceThreshold}
	if c.Joint != nil {
		cl.Joint = *c.Joint
	}
	return cl
}

// Counts reports whether the mode counts repetitions.
func (c Config) Counts() bool {
	return c.Reps != nil
}

// Completion returns the completion percentage for the given progress.
// Rep modes measure against the rep target, all others against the
// stability target.
func (c Config) Completion(s progress.Stability, r progress.Reps) int {
	if c.Reps != nil {
		return r.Completion(c.Reps.Target)
	}
	return s.Completion(c.StabilityTarget)
}

func (c Config) String() string {
	return fmt.Sprintf("%s (%s)", c.ID, c.Kind)
}
