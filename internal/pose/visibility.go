// Package pose judges body keypoint frames against per-mode angle rules.
package pose

import "github.com/ayusman/asana/internal/detector"

// Visible returns the keypoint for ref only when it is present in the frame
// and its confidence is at or above threshold.
func Visible(f detector.Frame, ref detector.Ref, threshold float64) (detector.Keypoint, bool) {
	kp, ok := f.Find(ref)
	if !ok || kp.Confidence < threshold {
		return detector.Keypoint{}, false
	}
	return kp, true
}

// VisibleAll resolves every ref in order. When any is absent it returns the
// first missing ref and false.
func VisibleAll(f detector.Frame, threshold float64, refs ...detector.Ref) ([]detector.Keypoint, detector.Ref, bool) {
	out := make([]detector.Keypoint, len(refs))
	for i, ref := range refs {
		kp, ok := Visible(f, ref, threshold)
		if !ok {
			return nil, ref, false
		}
		out[i] = kp
	}
	return out, detector.Ref{}, true
}
