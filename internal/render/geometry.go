package render

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
)

// PolygonGeometry is a triangulated snapshot of a polygon outline.
type PolygonGeometry struct {
	Positions []mgl64.Vec3
	Indices   []uint32
	Normal    mgl64.Vec3
	Center    mgl64.Vec3
}

// PolygonFromPositions triangulates a closed outline as a fan around its
// first vertex. The outline is copied.
func PolygonFromPositions(positions []mgl64.Vec3) (*PolygonGeometry, error) {
	n := len(positions)
	if n > 3 && positions[0].ApproxEqual(positions[n-1]) {
		n--
	}
	if n < 3 {
		return nil, fmt.Errorf("%w: %d positions", ErrTooFewPositions, n)
	}

	g := &PolygonGeometry{
		Positions: make([]mgl64.Vec3, n),
		Indices:   make([]uint32, 0, (n-2)*3),
	}
	copy(g.Positions, positions[:n])

	var sum, area mgl64.Vec3
	for i, p := range g.Positions {
		sum = sum.Add(p)
		area = area.Add(p.Cross(g.Positions[(i+1)%n]))
	}
	g.Center = sum.Mul(1 / float64(n))
	if area.Len() > 0 {
		g.Normal = area.Normalize()
	}

	for i := 1; i < n-1; i++ {
		g.Indices = append(g.Indices, 0, uint32(i), uint32(i+1))
	}
	return g, nil
}

func (g *PolygonGeometry) TriangleCount() int {
	return len(g.Indices) / 3
}

// Bounds returns the axis-aligned box of the outline.
func (g *PolygonGeometry) Bounds() (min, max mgl64.Vec3) {
	if len(g.Positions) == 0 {
		return
	}
	min, max = g.Positions[0], g.Positions[0]
	for _, p := range g.Positions[1:] {
		for k := 0; k < 3; k++ {
			if p[k] < min[k] {
				min[k] = p[k]
			}
			if p[k] > max[k] {
				max[k] = p[k]
			}
		}
	}
	return min, max
}
