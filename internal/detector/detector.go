// Package detector defines the landmark detector collaborator and the
// canonical keypoint shapes it produces.
package detector

import (
	"context"
	"errors"
	"time"

	"gocv.io/x/gocv"
)

// ErrServiceNotFound is returned when the landmark service script cannot be located.
var ErrServiceNotFound = errors.New("landmark service not found")

// Target selects which landmark set a detection request asks for.
type Target int

const (
	TargetPose Target = iota
	TargetHand
)

func (t Target) String() string {
	if t == TargetHand {
		return "hand"
	}
	return "pose"
}

// Detection is one detector answer for one captured frame. Pose is nil when
// no body was found; Hands is empty when no hand was found.
type Detection struct {
	Pose       *Frame    `json:"pose,omitempty"`
	Hands      []Frame   `json:"hands,omitempty"`
	CapturedAt time.Time `json:"captured_at"`
}

// FirstHand returns the first detected hand. Only a single hand is tracked.
func (d Detection) FirstHand() (Frame, bool) {
	if len(d.Hands) == 0 {
		return Frame{}, false
	}
	return d.Hands[0], true
}

// Detector defines the interface for landmark detection implementations.
type Detector interface {
	// Detect analyzes a video frame and returns the landmarks for target.
	// A frame with nothing in it is not an error: it yields an empty Detection.
	Detect(ctx context.Context, frame *gocv.Mat, target Target) (Detection, error)

	// Close releases any resources held by the detector.
	Close() error
}

// Config holds configuration options for landmark detection.
type Config struct {
	// MaxHands is the maximum number of hands to detect.
	MaxHands int

	// MinConfidence is the minimum detection confidence threshold (0.0-1.0).
	MinConfidence float64

	// IdleTimeout shuts the service down after this long without requests.
	IdleTimeout time.Duration
}

// DefaultConfig returns a Config with sensible default values.
func DefaultConfig() Config {
	return Config{
		MaxHands:      1,
		MinConfidence: 0.5,
		IdleTimeout:   30 * time.Second,
	}
}
