package detector

// Hand landmark indices following MediaPipe convention.
// See: https://developers.google.com/mediapipe/solutions/vision/hand_landmarker
const (
	Wrist        = 0
	ThumbCMC     = 1
	ThumbMCP     = 2
	ThumbIP      = 3
	ThumbTip     = 4
	IndexMCP     = 5
	IndexPIP     = 6
	IndexDIP     = 7
	IndexTip     = 8
	MiddleMCP    = 9
	MiddlePIP    = 10
	MiddleDIP    = 11
	MiddleTip    = 12
	RingMCP      = 13
	RingPIP      = 14
	RingDIP      = 15
	RingTip      = 16
	PinkyMCP     = 17
	PinkyPIP     = 18
	PinkyDIP     = 19
	PinkyTip     = 20
	NumLandmarks = 21
)

var handLandmarkNames = [NumLandmarks]string{
	"wrist",
	"thumb_cmc", "thumb_mcp", "thumb_ip", "thumb_tip",
	"index_mcp", "index_pip", "index_dip", "index_tip",
	"middle_mcp", "middle_pip", "middle_dip", "middle_tip",
	"ring_mcp", "ring_pip", "ring_dip", "ring_tip",
	"pinky_mcp", "pinky_pip", "pinky_dip", "pinky_tip",
}

// HandChains lists each finger as a chain of landmark indices starting at
// the wrist, thumb first.
var HandChains = [5][5]int{
	{Wrist, ThumbCMC, ThumbMCP, ThumbIP, ThumbTip},
	{Wrist, IndexMCP, IndexPIP, IndexDIP, IndexTip},
	{Wrist, MiddleMCP, MiddlePIP, MiddleDIP, MiddleTip},
	{Wrist, RingMCP, RingPIP, RingDIP, RingTip},
	{Wrist, PinkyMCP, PinkyPIP, PinkyDIP, PinkyTip},
}

// BodyBones pairs adjacent body joints for skeleton drawing.
var BodyBones = [][2]string{
	{LeftShoulder, RightShoulder},
	{LeftShoulder, LeftElbow},
	{LeftElbow, LeftWrist},
	{RightShoulder, RightElbow},
	{RightElbow, RightWrist},
	{LeftShoulder, LeftHip},
	{RightShoulder, RightHip},
	{LeftHip, RightHip},
	{LeftHip, LeftKnee},
	{LeftKnee, LeftAnkle},
	{RightHip, RightKnee},
	{RightKnee, RightAnkle},
	{LeftShoulder, Nose},
	{RightShoulder, Nose},
}

// Point3D represents a 3D point in space with x, y, z coordinates.
type Point3D struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// HandLandmarks represents the 21 hand landmarks detected by MediaPipe,
// in coordinates normalized to the image size.
type HandLandmarks struct {
	Points     [NumLandmarks]Point3D `json:"points"`
	Handedness string                `json:"handedness"` // "Left" or "Right"
	Score      float64               `json:"score"`
}

// Frame converts normalized hand landmarks to a pixel-space Frame. MediaPipe
// reports a single score per hand, so every landmark inherits it. A zero
// width or height leaves coordinates unscaled.
func (h HandLandmarks) Frame(width, height int) Frame {
	sx, sy := float64(width), float64(height)
	if width <= 0 || height <= 0 {
		sx, sy = 1, 1
	}

	f := Frame{
		Keypoints: make([]Keypoint, NumLandmarks),
		Width:     width,
		Height:    height,
	}
	for i, p := range h.Points {
		f.Keypoints[i] = Keypoint{
			Index:      i,
			X:          p.X * sx,
			Y:          p.Y * sy,
			Confidence: clamp01(h.Score),
		}
	}
	return f
}
