// Package gesture classifies static hand shapes from the 21-point hand
// landmark set.
package gesture

import (
	"math"

	"github.com/ayusman/asana/internal/detector"
	"github.com/ayusman/asana/internal/geometry"
	"github.com/ayusman/asana/internal/pose"
)

// Label names a recognised hand shape.
type Label string

const (
	Rock     Label = "rock"
	Paper    Label = "paper"
	Scissors Label = "scissors"
	Unknown  Label = "unknown"
)

// ExtensionRatio is how much farther from the wrist a fingertip must be than
// its PIP joint for the finger to count as extended.
const ExtensionRatio = 1.25

// Finger identifies one of the four non-thumb fingers.
type Finger int

const (
	Index Finger = iota
	Middle
	Ring
	Pinky
)

func (f Finger) String() string {
	return [...]string{"index", "middle", "ring", "pinky"}[f]
}

// fingerJoints maps each finger to its tip and PIP landmark indices.
var fingerJoints = [4]struct{ Tip, PIP int }{
	Index:  {Tip: detector.IndexTip, PIP: detector.IndexPIP},
	Middle: {Tip: detector.MiddleTip, PIP: detector.MiddlePIP},
	Ring:   {Tip: detector.RingTip, PIP: detector.RingPIP},
	Pinky:  {Tip: detector.PinkyTip, PIP: detector.PinkyPIP},
}

// Extension records which fingers are extended, indexed by Finger.
type Extension [4]bool

// Count returns how many fingers are extended.
func (e Extension) Count() int {
	n := 0
	for _, ext := range e {
		if ext {
			n++
		}
	}
	return n
}

// FingerState is the measurement behind one finger's extension verdict.
type FingerState struct {
	Extended    bool
	TipDistance float64
	PIPDistance float64
}

// Result is a classified gesture with a fixed per-branch confidence.
type Result struct {
	Label      Label   `json:"label"`
	Confidence float64 `json:"confidence"`
}

// Percent returns the confidence as a rounded percentage.
func (r Result) Percent() int {
	return int(math.Round(r.Confidence * 100))
}

// Required lists the landmarks the classifier reads.
func Required() []detector.Ref {
	refs := []detector.Ref{detector.Indexed(detector.Wrist)}
	for _, j := range fingerJoints {
		refs = append(refs, detector.Indexed(j.PIP), detector.Indexed(j.Tip))
	}
	return refs
}

// FingerStates measures every finger. It returns false if the wrist or any
// tip or PIP landmark is missing or below threshold.
func FingerStates(f detector.Frame, threshold float64) ([4]FingerState, bool) {
	var states [4]FingerState

	if _, _, ok := pose.VisibleAll(f, threshold, Required()...); !ok {
		return states, false
	}

	wrist, _ := f.Find(detector.Indexed(detector.Wrist))
	for i, j := range fingerJoints {
		tip, _ := f.Find(detector.Indexed(j.Tip))
		pip, _ := f.Find(detector.Indexed(j.PIP))

		dTip := geometry.Distance(tip.Vec(), wrist.Vec())
		dPIP := geometry.Distance(pip.Vec(), wrist.Vec())
		states[i] = FingerState{
			Extended:    dTip > dPIP*ExtensionRatio,
			TipDistance: dTip,
			PIPDistance: dPIP,
		}
	}
	return states, true
}

// Decide applies the rock/paper/scissors decision table, first match wins.
func Decide(e Extension) Result {
	switch {
	case e.Count() == 0:
		return Result{Label: Rock, Confidence: 0.9}
	case e[Index] && e[Middle] && !e[Ring] && !e[Pinky]:
		return Result{Label: Scissors, Confidence: 0.9}
	case e.Count() >= 3:
		return Result{Label: Paper, Confidence: 0.85}
	default:
		return Result{Label: Unknown, Confidence: 0.3}
	}
}

// Classify measures a hand frame and decides its gesture.
func Classify(f detector.Frame, threshold float64) (Result, bool) {
	states, ok := FingerStates(f, threshold)
	if !ok {
		return Result{}, false
	}

	var e Extension
	for i, s := range states {
		e[i] = s.Extended
	}
	return Decide(e), true
}
