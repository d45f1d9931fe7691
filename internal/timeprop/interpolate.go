package timeprop

import "github.com/go-gl/mathgl/mgl64"

func LerpFloat(a, b, frac float64) float64 {
	return a + (b-a)*frac
}

func LerpVec3(a, b mgl64.Vec3, frac float64) mgl64.Vec3 {
	return a.Add(b.Sub(a).Mul(frac))
}

// LerpVec3Slice blends two vertex lists point by point. Lists of different
// length cannot be blended, so the earlier one is held.
func LerpVec3Slice(a, b []mgl64.Vec3, frac float64) []mgl64.Vec3 {
	if len(a) != len(b) {
		return a
	}
	out := make([]mgl64.Vec3, len(a))
	for i := range a {
		out[i] = LerpVec3(a[i], b[i], frac)
	}
	return out
}
