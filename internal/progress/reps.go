package progress

// Phase is the rep counter's expectation of the subject's next movement.
type Phase int

const (
	// WaitingForDown expects the subject to descend below the down threshold.
	WaitingForDown Phase = iota
	// WaitingForUp expects the subject to rise above the up threshold.
	WaitingForUp
)

func (p Phase) String() string {
	if p == WaitingForUp {
		return "waiting_for_up"
	}
	return "waiting_for_down"
}

// Thresholds are the hysteresis bounds of a rep. Down must be strictly
// below Up.
type Thresholds struct {
	Down   float64 `json:"down" validate:"gt=0,lt=180"`
	Up     float64 `json:"up" validate:"gtfield=Down,lte=180"`
	Target int     `json:"target" validate:"gt=0"`
}

// Reps counts completed down→up cycles. The zero value is the initial state.
type Reps struct {
	Phase Phase `json:"phase"`
	Count int   `json:"count"`
}

// Update feeds one joint angle into the counter. The second return value is
// true on the tick a repetition completes.
func (r Reps) Update(angle float64, th Thresholds) (Reps, bool) {
	switch r.Phase {
	case WaitingForDown:
		if angle < th.Down {
			r.Phase = WaitingForUp
		}
	case WaitingForUp:
		if angle > th.Up {
			r.Phase = WaitingForDown
			r.Count++
			return r, true
		}
	}
	return r, false
}

// Rearm drops a half-finished repetition without touching the count.
func (r Reps) Rearm() Reps {
	return Reps{Phase: WaitingForDown, Count: r.Count}
}

// Completion maps the count onto [0, 100] against the target.
func (r Reps) Completion(target int) int {
	if target <= 0 {
		return 0
	}
	return Percent(float64(r.Count) / float64(target))
}
