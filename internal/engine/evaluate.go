package engine

import (
	"time"

	"github.com/ayusman/asana/internal/detector"
	"github.com/ayusman/asana/internal/gesture"
	"github.com/ayusman/asana/internal/mode"
	"github.com/ayusman/asana/internal/progress"
)

// Evaluate runs one tick. A detection without the landmarks the mode needs
// yields an undetected result and resets stability and the rep phase; it is
// never an error.
func Evaluate(s State, det detector.Detection, now time.Time) (State, Result) {
	if s.Config.Kind == mode.KindGesture {
		return evaluateGesture(s, det, now)
	}
	return evaluatePose(s, det, now)
}

func evaluatePose(s State, det detector.Detection, now time.Time) (State, Result) {
	if det.Pose == nil {
		return undetected(s, nil, now)
	}

	j, ok := s.Config.Classifier().Classify(*det.Pose)
	if !ok {
		return undetected(s, det.Pose, now)
	}

	before := s.Stability
	s.Stability = before.Update(j.Good, now)

	var repDone bool
	if s.Config.Reps != nil {
		s.Reps, repDone = s.Reps.Update(float64(j.Angle), *s.Config.Reps)
	}

	s.Score = s.Score.Add(s.Config.Scoring, s.Config.Rates, progress.Tick{
		Good:         j.Good,
		Before:       before,
		After:        s.Stability,
		RepCompleted: repDone,
	})

	r := s.base(now)
	r.Detected = true
	r.Angle = &j.Angle
	r.Quality = mode.Prompt(j.Label)
	r.Good = j.Good
	r.Landmarks = det.Pose
	return s, r
}

func evaluateGesture(s State, det detector.Detection, now time.Time) (State, Result) {
	hand, ok := det.FirstHand()
	if !ok {
		return undetected(s, nil, now)
	}

	g, ok := gesture.Classify(hand, s.Config.ConfidenceThreshold)
	if !ok {
		return undetected(s, &hand, now)
	}

	// A changed shape starts a new hold.
	if g.Label != s.lastGesture {
		s.Stability = progress.Stability{}
	}
	good := g.Label != gesture.Unknown

	before := s.Stability
	s.Stability = before.Update(good, now)
	s.lastGesture = g.Label

	s.Score = s.Score.Add(s.Config.Scoring, s.Config.Rates, progress.Tick{
		Good:   good,
		Before: before,
		After:  s.Stability,
	})

	r := s.base(now)
	r.Detected = true
	r.Quality = mode.Prompt("rps." + string(g.Label))
	r.Good = good
	r.Gesture = &GestureResult{Label: g.Label, ConfidencePercent: g.Percent()}
	r.Landmarks = &hand
	return s, r
}

func undetected(s State, landmarks *detector.Frame, now time.Time) (State, Result) {
	s = s.reset()
	r := s.base(now)
	r.Quality = mode.Prompt(s.Config.UndetectedKey)
	r.Landmarks = landmarks
	return s, r
}
