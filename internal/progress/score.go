package progress

import "math"

// Policy selects how a mode turns progress into points.
type Policy string

const (
	// ScoreTimeBased accrues points in proportion to continuous hold time.
	ScoreTimeBased Policy = "time"
	// ScorePerRep awards a fixed amount per completed repetition.
	ScorePerRep Policy = "rep"
	// ScorePerTick adds a fixed amount for every good tick. Results depend
	// on detection frame rate; only modes that ask for it use it.
	ScorePerTick Policy = "tick"
)

// Rates carries the per-policy increments.
type Rates struct {
	PerSecond float64 `json:"per_second" validate:"gte=0"`
	PerRep    float64 `json:"per_rep" validate:"gte=0"`
	PerTick   float64 `json:"per_tick" validate:"gte=0"`
}

// Score is a monotonic non-decreasing points total for one mode session.
type Score struct {
	Value float64 `json:"value"`
}

// Tick is everything the accumulator needs to know about one evaluation.
type Tick struct {
	Good         bool
	Before       Stability
	After        Stability
	RepCompleted bool
}

// Add applies one tick under policy and returns the new score.
func (s Score) Add(policy Policy, rates Rates, t Tick) Score {
	var gain float64

	switch policy {
	case ScoreTimeBased:
		// Only time held across consecutive good ticks counts.
		if t.Good && !t.Before.Anchor.IsZero() {
			gain = (t.After.Elapsed - t.Before.Elapsed).Seconds() * rates.PerSecond
		}
	case ScorePerRep:
		if t.RepCompleted {
			gain = rates.PerRep
		}
	case ScorePerTick:
		if t.Good {
			gain = rates.PerTick
		}
	}

	if gain > 0 {
		s.Value += gain
	}
	return s
}

// Display returns the floored integer shown to the user.
func (s Score) Display() int {
	return int(math.Floor(s.Value))
}
