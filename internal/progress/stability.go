// Package progress tracks how a subject advances through a mode session:
// continuous hold time, repetitions and score.
package progress

import (
	"math"
	"time"
)

// Stability measures how long a "good pose" signal has held without
// interruption. The zero value is the initial state.
type Stability struct {
	Anchor  time.Time     `json:"anchor"`
	Elapsed time.Duration `json:"elapsed"`
}

// Update advances the tracker by one tick. It is driven by wall-clock time,
// never by tick counts, so the result does not depend on detection rate.
func (s Stability) Update(good bool, now time.Time) Stability {
	if !good {
		return Stability{}
	}
	if s.Anchor.IsZero() {
		return Stability{Anchor: now}
	}

	elapsed := now.Sub(s.Anchor)
	if elapsed < s.Elapsed {
		// Clock went backwards; hold the previous value.
		elapsed = s.Elapsed
	}
	return Stability{Anchor: s.Anchor, Elapsed: elapsed}
}

// Seconds returns the held duration in seconds.
func (s Stability) Seconds() float64 {
	return s.Elapsed.Seconds()
}

// Completion maps the held duration onto [0, 100] against target.
func (s Stability) Completion(target time.Duration) int {
	if target <= 0 {
		return 0
	}
	return Percent(s.Elapsed.Seconds() / target.Seconds())
}

// Percent converts a ratio to a rounded percentage clamped to [0, 100].
func Percent(ratio float64) int {
	if math.IsNaN(ratio) {
		return 0
	}
	p := math.Round(ratio * 100)
	return int(math.Max(0, math.Min(100, p)))
}
