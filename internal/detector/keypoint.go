package detector

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Body joint names as reported by MoveNet-style single-pose estimators.
const (
	Nose          = "nose"
	LeftEye       = "left_eye"
	RightEye      = "right_eye"
	LeftEar       = "left_ear"
	RightEar      = "right_ear"
	LeftShoulder  = "left_shoulder"
	RightShoulder = "right_shoulder"
	LeftElbow     = "left_elbow"
	RightElbow    = "right_elbow"
	LeftWrist     = "left_wrist"
	RightWrist    = "right_wrist"
	LeftHip       = "left_hip"
	RightHip      = "right_hip"
	LeftKnee      = "left_knee"
	RightKnee     = "right_knee"
	LeftAnkle     = "left_ankle"
	RightAnkle    = "right_ankle"
)

// Keypoint is the canonical landmark shape every downstream component uses.
// Body keypoints are identified by Name, hand keypoints by Index.
type Keypoint struct {
	Name       string  `json:"name,omitempty"`
	Index      int     `json:"index"`
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
	Confidence float64 `json:"confidence"`
}

// Vec returns the keypoint position as a planar vector.
func (k Keypoint) Vec() r2.Vec {
	return r2.Vec{X: k.X, Y: k.Y}
}

// Frame is the ordered set of keypoints captured at one detection instant,
// in source-image pixel coordinates.
type Frame struct {
	Keypoints []Keypoint `json:"keypoints"`
	Width     int        `json:"width"`
	Height    int        `json:"height"`
}

// Ref identifies a keypoint within a Frame.
type Ref struct {
	Name  string
	Index int
}

// Named refers to a body joint by name.
func Named(name string) Ref {
	return Ref{Name: name, Index: -1}
}

// Indexed refers to a hand landmark by its fixed index.
func Indexed(i int) Ref {
	return Ref{Index: i}
}

func (r Ref) String() string {
	if r.Name != "" {
		return r.Name
	}
	if r.Index >= 0 && r.Index < NumLandmarks {
		return handLandmarkNames[r.Index]
	}
	return "landmark"
}

// Find returns the first keypoint matching ref, regardless of confidence.
func (f Frame) Find(ref Ref) (Keypoint, bool) {
	for _, kp := range f.Keypoints {
		if ref.Name != "" {
			if kp.Name == ref.Name {
				return kp, true
			}
			continue
		}
		if kp.Name == "" && kp.Index == ref.Index {
			return kp, true
		}
	}
	return Keypoint{}, false
}

// Without returns a copy of the frame with the referenced keypoint removed.
func (f Frame) Without(ref Ref) Frame {
	out := Frame{Width: f.Width, Height: f.Height}
	for _, kp := range f.Keypoints {
		if ref.Name != "" && kp.Name == ref.Name {
			continue
		}
		if ref.Name == "" && kp.Name == "" && kp.Index == ref.Index {
			continue
		}
		out.Keypoints = append(out.Keypoints, kp)
	}
	return out
}

// RawKeypoint is a landmark record as estimators emit it. Different
// estimators disagree on field names: the joint may be called "name" or
// "part", and its confidence "score", "confidence" or "visibility".
type RawKeypoint struct {
	Name       string   `json:"name"`
	Part       string   `json:"part"`
	X          float64  `json:"x"`
	Y          float64  `json:"y"`
	Score      *float64 `json:"score"`
	Confidence *float64 `json:"confidence"`
	Visibility *float64 `json:"visibility"`
}

// Canonical collapses the alternate field names into a Keypoint. When the
// record carries no confidence at all, fallback is used.
func (r RawKeypoint) Canonical(index int, fallback float64) Keypoint {
	name := r.Name
	if name == "" {
		name = r.Part
	}

	conf := fallback
	switch {
	case r.Score != nil:
		conf = *r.Score
	case r.Confidence != nil:
		conf = *r.Confidence
	case r.Visibility != nil:
		conf = *r.Visibility
	}

	return Keypoint{
		Name:       name,
		Index:      index,
		X:          r.X,
		Y:          r.Y,
		Confidence: clamp01(conf),
	}
}

// Canonicalize converts a raw estimator record list into a Frame.
func Canonicalize(raw []RawKeypoint, width, height int, fallback float64) Frame {
	f := Frame{
		Keypoints: make([]Keypoint, 0, len(raw)),
		Width:     width,
		Height:    height,
	}
	for i, r := range raw {
		f.Keypoints = append(f.Keypoints, r.Canonical(i, fallback))
	}
	return f
}

func clamp01(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return math.Max(0, math.Min(1, v))
}
