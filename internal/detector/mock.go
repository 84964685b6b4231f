package detector

import (
	"context"
	"math"
	"sync"
	"time"

	"gocv.io/x/gocv"
)

// MockDetector is a test implementation of the Detector interface.
// It allows tests to control the detection results.
type MockDetector struct {
	mu        sync.Mutex
	detection Detection
	err       error
	delay     time.Duration
	calls     int
}

// NewMockDetector creates a new MockDetector instance.
func NewMockDetector() *MockDetector {
	return &MockDetector{}
}

// SetPose makes Detect return the given body frame.
func (m *MockDetector) SetPose(f Frame) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.detection = Detection{Pose: &f}
}

// SetHands makes Detect return the given hands.
func (m *MockDetector) SetHands(hands []HandLandmarks) {
	m.mu.Lock()
	defer m.mu.Unlock()
	frames := make([]Frame, len(hands))
	for i, h := range hands {
		frames[i] = h.Frame(640, 480)
	}
	m.detection = Detection{Hands: frames}
}

// SetDetection replaces the whole detection returned by Detect.
func (m *MockDetector) SetDetection(d Detection) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.detection = d
}

// SetError sets the error that will be returned by Detect.
func (m *MockDetector) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// SetDelay makes every Detect call take at least d.
func (m *MockDetector) SetDelay(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.delay = d
}

// Calls reports how many times Detect has been called.
func (m *MockDetector) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// Detect returns the pre-configured detection or error.
func (m *MockDetector) Detect(ctx context.Context, frame *gocv.Mat, target Target) (Detection, error) {
	m.mu.Lock()
	m.calls++
	delay, det, err := m.delay, m.detection, m.err
	m.mu.Unlock()

	if delay > 0 {
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return Detection{}, ctx.Err()
		}
	}

	if err != nil {
		return Detection{}, err
	}
	det.CapturedAt = time.Now()
	return det, nil
}

// Close is a no-op for the mock detector.
func (m *MockDetector) Close() error {
	return nil
}

// PoseWithKneeAngle returns a standing body frame whose left hip-knee-ankle
// angle is kneeAngle degrees. Every keypoint has confidence 0.9.
func PoseWithKneeAngle(kneeAngle float64) Frame {
	knee := Point3D{X: 320, Y: 300}
	hip := Point3D{X: 320, Y: 180}
	rad := kneeAngle * math.Pi / 180
	ankle := Point3D{X: knee.X + 120*math.Sin(rad), Y: knee.Y - 120*math.Cos(rad)}

	return bodyFrame(map[string]Point3D{
		Nose:          {X: 320, Y: 40},
		LeftShoulder:  {X: 350, Y: 80},
		RightShoulder: {X: 290, Y: 80},
		LeftElbow:     {X: 360, Y: 130},
		RightElbow:    {X: 280, Y: 130},
		LeftWrist:     {X: 365, Y: 175},
		RightWrist:    {X: 275, Y: 175},
		LeftHip:       hip,
		RightHip:      {X: 290, Y: 180},
		LeftKnee:      knee,
		RightKnee:     {X: 290, Y: 300},
		LeftAnkle:     ankle,
		RightAnkle:    {X: 290, Y: 420},
	})
}

// BalancePose returns a single-leg stance. The left leg is bent to kneeAngle;
// raised controls whether the left ankle sits above the right knee.
func BalancePose(kneeAngle float64, raised bool) Frame {
	f := PoseWithKneeAngle(kneeAngle)
	ankle, _ := f.Find(Named(LeftAnkle))

	kneeY := ankle.Y - 30
	if raised {
		kneeY = ankle.Y + 30
	}
	for i := range f.Keypoints {
		if f.Keypoints[i].Name == RightKnee {
			f.Keypoints[i].Y = kneeY
		}
	}
	return f
}

var bodyOrder = []string{
	Nose, LeftEye, RightEye, LeftEar, RightEar,
	LeftShoulder, RightShoulder, LeftElbow, RightElbow, LeftWrist, RightWrist,
	LeftHip, RightHip, LeftKnee, RightKnee, LeftAnkle, RightAnkle,
}

func bodyFrame(points map[string]Point3D) Frame {
	f := Frame{Width: 640, Height: 480}
	for i, name := range bodyOrder {
		p, ok := points[name]
		if !ok {
			continue
		}
		f.Keypoints = append(f.Keypoints, Keypoint{
			Name:       name,
			Index:      i,
			X:          p.X,
			Y:          p.Y,
			Confidence: 0.9,
		})
	}
	return f
}

// ThumbsUpLandmarks returns a preset HandLandmarks representing a thumbs up gesture.
// The thumb is extended upward while other fingers are curled, so it reads as a fist.
func ThumbsUpLandmarks() HandLandmarks {
	landmarks := HandLandmarks{
		Handedness: "Right",
		Score:      0.95,
	}

	landmarks.Points[Wrist] = Point3D{X: 0.5, Y: 0.8, Z: 0.0}

	// Thumb extended upward (pointing up, Y decreases going up)
	landmarks.Points[ThumbCMC] = Point3D{X: 0.55, Y: 0.75, Z: 0.0}
	landmarks.Points[ThumbMCP] = Point3D{X: 0.58, Y: 0.65, Z: 0.0}
	landmarks.Points[ThumbIP] = Point3D{X: 0.58, Y: 0.50, Z: 0.0}
	landmarks.Points[ThumbTip] = Point3D{X: 0.58, Y: 0.35, Z: 0.0}

	landmarks.Points[IndexMCP] = Point3D{X: 0.55, Y: 0.70, Z: -0.02}
	landmarks.Points[IndexPIP] = Point3D{X: 0.55, Y: 0.68, Z: -0.05}
	landmarks.Points[IndexDIP] = Point3D{X: 0.52, Y: 0.70, Z: -0.04}
	landmarks.Points[IndexTip] = Point3D{X: 0.50, Y: 0.72, Z: -0.02}

	landmarks.Points[MiddleMCP] = Point3D{X: 0.50, Y: 0.68, Z: -0.02}
	landmarks.Points[MiddlePIP] = Point3D{X: 0.50, Y: 0.66, Z: -0.05}
	landmarks.Points[MiddleDIP] = Point3D{X: 0.47, Y: 0.68, Z: -0.04}
	landmarks.Points[MiddleTip] = Point3D{X: 0.45, Y: 0.70, Z: -0.02}

	landmarks.Points[RingMCP] = Point3D{X: 0.45, Y: 0.70, Z: -0.02}
	landmarks.Points[RingPIP] = Point3D{X: 0.45, Y: 0.68, Z: -0.05}
	landmarks.Points[RingDIP] = Point3D{X: 0.42, Y: 0.70, Z: -0.04}
	landmarks.Points[RingTip] = Point3D{X: 0.40, Y: 0.72, Z: -0.02}

	landmarks.Points[PinkyMCP] = Point3D{X: 0.40, Y: 0.72, Z: -0.02}
	landmarks.Points[PinkyPIP] = Point3D{X: 0.40, Y: 0.70, Z: -0.05}
	landmarks.Points[PinkyDIP] = Point3D{X: 0.37, Y: 0.72, Z: -0.04}
	landmarks.Points[PinkyTip] = Point3D{X: 0.37, Y: 0.74, Z: -0.02}

	return landmarks
}

// OpenPalmLandmarks returns a preset HandLandmarks representing an open palm gesture.
// All fingers are extended outward.
func OpenPalmLandmarks() HandLandmarks {
	landmarks := HandLandmarks{
		Handedness: "Right",
		Score:      0.95,
	}

	landmarks.Points[Wrist] = Point3D{X: 0.5, Y: 0.8, Z: 0.0}

	landmarks.Points[ThumbCMC] = Point3D{X: 0.55, Y: 0.75, Z: 0.02}
	landmarks.Points[ThumbMCP] = Point3D{X: 0.62, Y: 0.70, Z: 0.03}
	landmarks.Points[ThumbIP] = Point3D{X: 0.68, Y: 0.65, Z: 0.03}
	landmarks.Points[ThumbTip] = Point3D{X: 0.73, Y: 0.60, Z: 0.03}

	landmarks.Points[IndexMCP] = Point3D{X: 0.55, Y: 0.68, Z: 0.0}
	landmarks.Points[IndexPIP] = Point3D{X: 0.57, Y: 0.55, Z: 0.0}
	landmarks.Points[IndexDIP] = Point3D{X: 0.58, Y: 0.45, Z: 0.0}
	landmarks.Points[IndexTip] = Point3D{X: 0.58, Y: 0.35, Z: 0.0}

	landmarks.Points[MiddleMCP] = Point3D{X: 0.50, Y: 0.66, Z: 0.0}
	landmarks.Points[MiddlePIP] = Point3D{X: 0.50, Y: 0.52, Z: 0.0}
	landmarks.Points[MiddleDIP] = Point3D{X: 0.50, Y: 0.40, Z: 0.0}
	landmarks.Points[MiddleTip] = Point3D{X: 0.50, Y: 0.28, Z: 0.0}

	landmarks.Points[RingMCP] = Point3D{X: 0.45, Y: 0.68, Z: 0.0}
	landmarks.Points[RingPIP] = Point3D{X: 0.43, Y: 0.55, Z: 0.0}
	landmarks.Points[RingDIP] = Point3D{X: 0.42, Y: 0.45, Z: 0.0}
	landmarks.Points[RingTip] = Point3D{X: 0.42, Y: 0.35, Z: 0.0}

	landmarks.Points[PinkyMCP] = Point3D{X: 0.40, Y: 0.70, Z: 0.0}
	landmarks.Points[PinkyPIP] = Point3D{X: 0.37, Y: 0.60, Z: 0.0}
	landmarks.Points[PinkyDIP] = Point3D{X: 0.35, Y: 0.50, Z: 0.0}
	landmarks.Points[PinkyTip] = Point3D{X: 0.34, Y: 0.42, Z: 0.0}

	return landmarks
}

// VictoryLandmarks returns an open palm with ring and pinky folded back,
// leaving index and middle extended.
func VictoryLandmarks() HandLandmarks {
	landmarks := OpenPalmLandmarks()

	landmarks.Points[RingDIP] = Point3D{X: 0.44, Y: 0.60, Z: -0.03}
	landmarks.Points[RingTip] = Point3D{X: 0.45, Y: 0.62, Z: -0.02}

	landmarks.Points[PinkyDIP] = Point3D{X: 0.38, Y: 0.65, Z: -0.03}
	landmarks.Points[PinkyTip] = Point3D{X: 0.40, Y: 0.68, Z: -0.02}

	return landmarks
}
