package pose

import (
	"fmt"
	"math"

	"github.com/ayusman/asana/internal/detector"
	"github.com/ayusman/asana/internal/geometry"
)

// Angle bounds usable in rules. Joint angles live in [0, 180].
const (
	Floor   = -1.0
	Ceiling = 180.0
)

// Rule maps the half-open angle range (Above, AtMost] to a quality label.
type Rule struct {
	Label  string  `json:"label" validate:"required"`
	Above  float64 `json:"above" validate:"gte=-1,lt=180"`
	AtMost float64 `json:"at_most" validate:"gtfield=Above,lte=180"`
	Good   bool    `json:"good"`
}

// Matches reports whether angle falls inside the rule's range.
func (r Rule) Matches(angle float64) bool {
	return angle > r.Above && angle <= r.AtMost
}

// Joint names the three keypoints whose middle one is the measured vertex.
type Joint struct {
	A      string `json:"a" validate:"required"`
	Vertex string `json:"vertex" validate:"required"`
	C      string `json:"c" validate:"required"`
}

func (j Joint) refs() []detector.Ref {
	return []detector.Ref{detector.Named(j.A), detector.Named(j.Vertex), detector.Named(j.C)}
}

// RaisedCheck requires Point to sit higher in the image than Reference.
// Image Y grows downward, so "higher" means a smaller Y.
type RaisedCheck struct {
	Point     string `json:"point" validate:"required"`
	Reference string `json:"reference" validate:"required,nefield=Point"`
	Label     string `json:"label" validate:"required"`
}

// Judgement is the classifier verdict for one frame.
type Judgement struct {
	Angle int
	Label string
	Good  bool
}

// Classifier evaluates ordered rules over one joint angle, optionally gated
// by a RaisedCheck. The first matching rule wins.
type Classifier struct {
	Joint     Joint
	Rules     []Rule
	Raised    *RaisedCheck
	Threshold float64
}

// Required lists every keypoint the classifier reads.
func (c Classifier) Required() []detector.Ref {
	refs := c.Joint.refs()
	if c.Raised != nil {
		refs = append(refs, detector.Named(c.Raised.Point), detector.Named(c.Raised.Reference))
	}
	return refs
}

// Classify judges a body frame. It returns false when any required keypoint
// is missing or below the confidence threshold; no partial result is produced.
func (c Classifier) Classify(f detector.Frame) (Judgement, bool) {
	kps, _, ok := VisibleAll(f, c.Threshold, c.Required()...)
	if !ok {
		return Judgement{}, false
	}

	angle := int(math.Round(geometry.AngleBetween(kps[0].Vec(), kps[1].Vec(), kps[2].Vec())))

	j := Judgement{Angle: angle}
	if r, ok := c.match(float64(angle)); ok {
		j.Label, j.Good = r.Label, r.Good
	}

	if c.Raised != nil && j.Good {
		point, ref := kps[3], kps[4]
		if point.Y >= ref.Y {
			j.Label, j.Good = c.Raised.Label, false
		}
	}

	return j, true
}

func (c Classifier) match(angle float64) (Rule, bool) {
	for _, r := range c.Rules {
		if r.Matches(angle) {
			return r, true
		}
	}
	return Rule{}, false
}

// CheckCoverage verifies the rules leave no integer angle in [0, 180]
// unlabelled.
func CheckCoverage(rules []Rule) error {
	c := Classifier{Rules: rules}
	for a := 0; a <= 180; a++ {
		if _, ok := c.match(float64(a)); !ok {
			return fmt.Errorf("no rule covers %d°", a)
		}
	}
	return nil
}
