package scene

import (
	"math"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/dynscene/internal/timeprop"
)

const DefaultGranularity = math.Pi / 36

// Ellipse describes a shape centered on an object's position, laid out on the
// plane tangent to the position vector.
type Ellipse struct {
	SemiMajorAxis *timeprop.Property[float64]
	SemiMinorAxis *timeprop.Property[float64]
	Rotation      *timeprop.Property[float64]
	// Granularity is the angular step between outline points, in radians.
	Granularity float64
}

func (e *Ellipse) IsConstant() bool {
	if e.SemiMajorAxis == nil || e.SemiMinorAxis == nil {
		return false
	}
	return e.SemiMajorAxis.IsConstant() && e.SemiMinorAxis.IsConstant() && !timeprop.IsDynamic(e.Rotation)
}

// Outline returns the ellipse boundary at t around center, counter-clockwise
// when seen from outside.
func (e *Ellipse) Outline(t time.Time, center mgl64.Vec3) ([]mgl64.Vec3, bool) {
	if e.SemiMajorAxis == nil || e.SemiMinorAxis == nil {
		return nil, false
	}
	a, ok := e.SemiMajorAxis.Value(t)
	if !ok {
		return nil, false
	}
	b, ok := e.SemiMinorAxis.Value(t)
	if !ok || a <= 0 || b <= 0 {
		return nil, false
	}
	rot := timeprop.ValueOr(e.Rotation, t, 0)

	step := e.Granularity
	if step <= 0 {
		step = DefaultGranularity
	}
	n := int(math.Ceil(2 * math.Pi / step))
	if n < 3 {
		n = 3
	}

	east, north := tangentFrame(center)
	sinR, cosR := math.Sincos(rot)
	out := make([]mgl64.Vec3, n)
	for i := 0; i < n; i++ {
		theta := 2 * math.Pi * float64(i) / float64(n)
		x, y := a*math.Cos(theta), b*math.Sin(theta)
		rx := x*cosR - y*sinR
		ry := x*sinR + y*cosR
		out[i] = center.Add(east.Mul(rx)).Add(north.Mul(ry))
	}
	return out, true
}

func tangentFrame(center mgl64.Vec3) (east, north mgl64.Vec3) {
	up := mgl64.Vec3{0, 0, 1}
	if center.Len() > 1e-9 {
		up = center.Normalize()
	}
	east = mgl64.Vec3{0, 0, 1}.Cross(up)
	if east.Len() < 1e-9 {
		east = mgl64.Vec3{1, 0, 0}
	} else {
		east = east.Normalize()
	}
	north = up.Cross(east)
	return east, north
}
