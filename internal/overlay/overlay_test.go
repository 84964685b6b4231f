package overlay

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ayusman/asana/internal/detector"
	"github.com/ayusman/asana/internal/engine"
	"github.com/ayusman/asana/internal/gesture"
)

func TestSkeleton_Body(t *testing.T) {
	f := detector.PoseWithKneeAngle(150)

	segs, joints := Skeleton(f, 0.3)
	assert.Len(t, segs, len(detector.BodyBones))
	assert.Len(t, joints, len(f.Keypoints))

	important := 0
	for _, j := range joints {
		if j.Important {
			important++
		}
	}
	assert.Equal(t, 9, important)
}

func TestSkeleton_BodySkipsLowConfidence(t *testing.T) {
	f := detector.PoseWithKneeAngle(150)
	for i := range f.Keypoints {
		if f.Keypoints[i].Name == detector.LeftKnee {
			f.Keypoints[i].Confidence = 0.1
		}
	}

	segs, joints := Skeleton(f, 0.3)
	assert.Len(t, segs, len(detector.BodyBones)-2)
	assert.Len(t, joints, len(f.Keypoints)-1)
}

func TestSkeleton_Hand(t *testing.T) {
	f := detector.OpenPalmLandmarks().Frame(640, 480)

	segs, joints := Skeleton(f, 0.3)
	assert.Len(t, segs, 20)
	assert.Len(t, joints, detector.NumLandmarks)

	tips := 0
	for _, j := range joints {
		if j.Important {
			tips++
		}
	}
	assert.Equal(t, 5, tips)
}

func TestSkeleton_HandBelowThreshold(t *testing.T) {
	h := detector.OpenPalmLandmarks()
	h.Score = 0.1

	segs, joints := Skeleton(h.Frame(640, 480), 0.3)
	assert.Empty(t, segs)
	assert.Empty(t, joints)
}

func TestCaption(t *testing.T) {
	angle, reps := 142, 3

	assert.Equal(t, "Step back", Caption(engine.Result{Quality: "Step back"}))
	assert.Equal(t, "142 deg  reps 3  score 30",
		Caption(engine.Result{Angle: &angle, RepCount: &reps, Score: 30}))
	assert.Equal(t, "142 deg  2.5s  31%  score 12",
		Caption(engine.Result{Angle: &angle, StableSeconds: 2.5, CompletionPercent: 31, Score: 12}))
	assert.Equal(t, "rock 90%  hold 1.0s",
		Caption(engine.Result{Gesture: &engine.GestureResult{Label: gesture.Rock, ConfidencePercent: 90}, StableSeconds: 1}))
}
