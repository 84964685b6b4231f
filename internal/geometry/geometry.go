// Package geometry provides the planar measurements used to judge poses.
package geometry

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// AngleBetween returns the angle at vertex b between the rays b→a and b→c,
// in degrees within [0, 180]. A zero-length ray yields 0.
func AngleBetween(a, b, c r2.Vec) float64 {
	ab := r2.Sub(a, b)
	cb := r2.Sub(c, b)

	magAB := r2.Norm(ab)
	magCB := r2.Norm(cb)
	if magAB == 0 || magCB == 0 {
		return 0
	}

	// Rounding can push the cosine slightly past ±1.
	cos := r2.Dot(ab, cb) / (magAB * magCB)
	cos = math.Max(-1, math.Min(1, cos))

	return math.Acos(cos) * 180 / math.Pi
}

// Distance returns the Euclidean distance between two points.
func Distance(a, b r2.Vec) float64 {
	return r2.Norm(r2.Sub(a, b))
}
