package mode

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/ayusman/asana/internal/detector"
	"github.com/ayusman/asana/internal/pose"
	"github.com/ayusman/asana/internal/progress"
)

// Confidence cutoffs. Squat holds use the stricter value.
const (
	StrictConfidence  = 0.4
	LenientConfidence = 0.3
)

// Squat bands and rep hysteresis.
const (
	SquatUpright = 160.0
	SquatDeep    = 130.0
	SquatRepGoal = 10
)

// Balance and lunge bands. Lunge is 130–155 inclusive on integer angles.
const (
	BalanceBend = 150.0
	LungeLow    = 129.0
	LungeHigh   = 155.0
)

// Hold targets.
const (
	SquatHold   = 8 * time.Second
	BalanceHold = 10 * time.Second
	LungeHold   = 8 * time.Second
	GestureHold = 2 * time.Second
)

// Score rates.
const (
	PointsPerSecond = 5.0
	PointsPerRep    = 10.0
	PointsPerTick   = 0.2
)

var leftLeg = &pose.Joint{A: detector.LeftHip, Vertex: detector.LeftKnee, C: detector.LeftAnkle}

var squatRules = []pose.Rule{
	{Label: "squat.upright", Above: SquatUpright, AtMost: pose.Ceiling},
	{Label: "squat.half", Above: SquatDeep, AtMost: SquatUpright, Good: true},
	{Label: "squat.deep", Above: pose.Floor, AtMost: SquatDeep, Good: true},
}

// Defaults returns the built-in mode table.
func Defaults() *Registry {
	r, err := NewRegistry(
		Config{
			ID:                  Squat,
			Kind:                KindPose,
			Title:               "Squat hold",
			HelpKey:             "squat.help",
			UndetectedKey:       "pose.undetected",
			ConfidenceThreshold: StrictConfidence,
			Joint:               leftLeg,
			Rules:               squatRules,
			StabilityTarget:     SquatHold,
			Scoring:             progress.ScoreTimeBased,
			Rates:               progress.Rates{PerSecond: PointsPerSecond},
		},
		Config{
			ID:                  SquatReps,
			Kind:                KindPose,
			Title:               "Squat reps",
			HelpKey:             "squat_reps.help",
			UndetectedKey:       "pose.undetected",
			ConfidenceThreshold: LenientConfidence,
			Joint:               leftLeg,
			Rules:               squatRules,
			Reps:                &progress.Thresholds{Down: SquatDeep, Up: SquatUpright, Target: SquatRepGoal},
			Scoring:             progress.ScorePerRep,
			Rates:               progress.Rates{PerRep: PointsPerRep},
		},
		Config{
			ID:                  Balance,
			Kind:                KindPose,
			Title:               "Single-leg balance",
			HelpKey:             "balance.help",
			UndetectedKey:       "pose.undetected",
			ConfidenceThreshold: LenientConfidence,
			Joint:               leftLeg,
			Rules: []pose.Rule{
				{Label: "balance.straight", Above: BalanceBend - 1, AtMost: pose.Ceiling},
				{Label: "balance.hold", Above: pose.Floor, AtMost: BalanceBend - 1, Good: true},
			},
			Raised: &pose.RaisedCheck{
				Point:     detector.LeftAnkle,
				Reference: detector.RightKnee,
				Label:     "balance.lift",
			},
			StabilityTarget: BalanceHold,
			Scoring:         progress.ScoreTimeBased,
			Rates:           progress.Rates{PerSecond: PointsPerSecond},
		},
		Config{
			ID:                  Lunge,
			Kind:                KindPose,
			Title:               "Lunge hold",
			HelpKey:             "lunge.help",
			UndetectedKey:       "pose.undetected",
			ConfidenceThreshold: LenientConfidence,
			Joint:               leftLeg,
			Rules: []pose.Rule{
				{Label: "lunge.higher", Above: LungeHigh, AtMost: pose.Ceiling},
				{Label: "lunge.hold", Above: LungeLow, AtMost: LungeHigh, Good: true},
				{Label: "lunge.deep", Above: pose.Floor, AtMost: LungeLow},
			},
			StabilityTarget: LungeHold,
			Scoring:         progress.ScoreTimeBased,
			Rates:           progress.Rates{PerSecond: PointsPerSecond},
		},
		Config{
			ID:                  RPS,
			Kind:                KindGesture,
			Title:               "Rock paper scissors",
			HelpKey:             "rps.help",
			UndetectedKey:       "hand.undetected",
			ConfidenceThreshold: LenientConfidence,
			StabilityTarget:     GestureHold,
		},
	)
	if err != nil {
		panic(fmt.Sprintf("mode: built-in table is invalid: %v", err))
	}
	return r
}

// Registry is an ordered, validated set of mode configs.
type Registry struct {
	order []ID
	modes map[ID]Config
}

// NewRegistry validates every config and indexes them in the given order.
func NewRegistry(configs ...Config) (*Registry, error) {
	r := &Registry{modes: make(map[ID]Config, len(configs))}
	for _, c := range configs {
		if err := Validate(c); err != nil {
			return nil, fmt.Errorf("mode %q: %w", c.ID, err)
		}
		if _, dup := r.modes[c.ID]; dup {
			return nil, fmt.Errorf("mode %q: duplicate id", c.ID)
		}
		r.order = append(r.order, c.ID)
		r.modes[c.ID] = c
	}
	return r, nil
}

// Lookup returns the config for id.
func (r *Registry) Lookup(id ID) (Config, error) {
	c, ok := r.modes[id]
	if !ok {
		return Config{}, fmt.Errorf("%w: %q", ErrUnknownMode, id)
	}
	return c, nil
}

// IDs lists the registered ids in table order.
func (r *Registry) IDs() []ID {
	return append([]ID(nil), r.order...)
}

// All returns every config in table order.
func (r *Registry) All() []Config {
	out := make([]Config, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.modes[id])
	}
	return out
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks a config's field constraints, rule coverage and the
// consistency between its scoring policy and progress source.
func Validate(c Config) error {
	if err := validate.Struct(c); err != nil {
		return err
	}

	if c.Kind == KindPose {
		if err := pose.CheckCoverage(c.Rules); err != nil {
			return err
		}
	}
	if c.StabilityTarget == 0 && c.Reps == nil {
		return fmt.Errorf("needs a stability target or rep thresholds")
	}

	switch c.Scoring {
	case progress.ScoreTimeBased:
		if c.Rates.PerSecond <= 0 {
			return fmt.Errorf("time-based scoring needs a positive per-second rate")
		}
	case progress.ScorePerRep:
		if c.Reps == nil || c.Rates.PerRep <= 0 {
			return fmt.Errorf("per-rep scoring needs rep thresholds and a positive per-rep rate")
		}
	case progress.ScorePerTick:
		if c.Rates.PerTick <= 0 {
			return fmt.Errorf("per-tick scoring needs a positive per-tick rate")
		}
	}
	return nil
}
