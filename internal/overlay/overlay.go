// Package overlay draws the skeleton and a feedback line onto captured
// frames for the MJPEG stream.
package overlay

import (
	"fmt"
	"image"
	"image/color"

	"gocv.io/x/gocv"

	"github.com/ayusman/asana/internal/detector"
	"github.com/ayusman/asana/internal/engine"
)

var (
	boneColor      = color.RGBA{R: 34, G: 197, B: 94, A: 255}
	jointColor     = color.RGBA{R: 249, G: 115, B: 22, A: 255}
	importantColor = color.RGBA{R: 56, G: 189, B: 248, A: 255}
	goodColor      = color.RGBA{R: 34, G: 197, B: 94, A: 255}
	badColor       = color.RGBA{R: 239, G: 68, B: 68, A: 255}
)

const (
	jointRadius     = 3
	importantRadius = 4
	boneThickness   = 2
)

var importantBody = map[string]bool{
	detector.Nose:          true,
	detector.LeftShoulder:  true,
	detector.RightShoulder: true,
	detector.LeftHip:       true,
	detector.RightHip:      true,
	detector.LeftKnee:      true,
	detector.RightKnee:     true,
	detector.LeftAnkle:     true,
	detector.RightAnkle:    true,
}

var fingertips = map[int]bool{
	detector.ThumbTip:  true,
	detector.IndexTip:  true,
	detector.MiddleTip: true,
	detector.RingTip:   true,
	detector.PinkyTip:  true,
}

// Segment is one bone between two visible keypoints.
type Segment struct {
	From, To image.Point
}

// Joint is one visible keypoint marker.
type Joint struct {
	At        image.Point
	Important bool
}

// Skeleton returns the bones and joints of f whose keypoints clear
// threshold. Frames with named keypoints are drawn as a body, others as a
// hand.
func Skeleton(f detector.Frame, threshold float64) ([]Segment, []Joint) {
	visible := func(ref detector.Ref) (image.Point, bool) {
		kp, ok := f.Find(ref)
		if !ok || kp.Confidence < threshold {
			return image.Point{}, false
		}
		return image.Pt(int(kp.X), int(kp.Y)), true
	}

	var segs []Segment
	var joints []Joint

	if isBody(f) {
		for _, b := range detector.BodyBones {
			from, ok1 := visible(detector.Named(b[0]))
			to, ok2 := visible(detector.Named(b[1]))
			if ok1 && ok2 {
				segs = append(segs, Segment{From: from, To: to})
			}
		}
		for _, kp := range f.Keypoints {
			if p, ok := visible(detector.Named(kp.Name)); ok {
				joints = append(joints, Joint{At: p, Important: importantBody[kp.Name]})
			}
		}
		return segs, joints
	}

	for _, chain := range detector.HandChains {
		for i := 0; i+1 < len(chain); i++ {
			from, ok1 := visible(detector.Indexed(chain[i]))
			to, ok2 := visible(detector.Indexed(chain[i+1]))
			if ok1 && ok2 {
				segs = append(segs, Segment{From: from, To: to})
			}
		}
	}
	for i := 0; i < detector.NumLandmarks; i++ {
		if p, ok := visible(detector.Indexed(i)); ok {
			joints = append(joints, Joint{At: p, Important: fingertips[i]})
		}
	}
	return segs, joints
}

func isBody(f detector.Frame) bool {
	for _, kp := range f.Keypoints {
		if kp.Name != "" {
			return true
		}
	}
	return false
}

// Caption is the feedback line drawn in the top-left corner. Hershey fonts
// are ASCII only.
func Caption(res engine.Result) string {
	switch {
	case res.Gesture != nil:
		return fmt.Sprintf("%s %d%%  hold %.1fs", res.Gesture.Label, res.Gesture.ConfidencePercent, res.StableSeconds)
	case res.Angle != nil && res.RepCount != nil:
		return fmt.Sprintf("%d deg  reps %d  score %d", *res.Angle, *res.RepCount, res.Score)
	case res.Angle != nil:
		return fmt.Sprintf("%d deg  %.1fs  %d%%  score %d", *res.Angle, res.StableSeconds, res.CompletionPercent, res.Score)
	default:
		return res.Quality
	}
}

// Draw annotates img in place with the result's landmarks and caption.
func Draw(img *gocv.Mat, res engine.Result) {
	if img == nil || img.Empty() {
		return
	}

	if res.Landmarks != nil {
		segs, joints := Skeleton(*res.Landmarks, res.Threshold)
		for _, s := range segs {
			gocv.Line(img, s.From, s.To, boneColor, boneThickness)
		}
		for _, j := range joints {
			r, c := jointRadius, jointColor
			if j.Important {
				r, c = importantRadius, importantColor
			}
			gocv.Circle(img, j.At, r, c, -1)
		}
	}

	c := badColor
	if res.Good {
		c = goodColor
	}
	gocv.PutText(img, Caption(res), image.Pt(10, 24), gocv.FontHersheySimplex, 0.6, c, 2)
}
