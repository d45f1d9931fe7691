package viz

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	colorful "github.com/lucasb-eyer/go-colorful"
	"github.com/san-kum/dynscene/internal/render"
)

type Point struct{ X, Y int }

// Bounds is a growing axis-aligned box over the xy plane of the scene.
type Bounds struct {
	Min, Max mgl64.Vec2
	valid    bool
}

func (b *Bounds) Include(v mgl64.Vec3) {
	p := v.Vec2()
	if !b.valid {
		b.Min, b.Max, b.valid = p, p, true
		return
	}
	b.Min = mgl64.Vec2{math.Min(b.Min.X(), p.X()), math.Min(b.Min.Y(), p.Y())}
	b.Max = mgl64.Vec2{math.Max(b.Max.X(), p.X()), math.Max(b.Max.Y(), p.Y())}
}

func (b *Bounds) IsEmpty() bool { return !b.valid }

// IncludeScene grows b to cover every visible primitive in s.
func (b *Bounds) IncludeScene(s render.Scene) {
	eachPolygon(s, func(g *render.PolygonGeometry, _ [4]uint8) {
		lo, hi := g.Bounds()
		b.Include(lo)
		b.Include(hi)
	})
}

// Projector maps scene xy coordinates onto canvas dots with an orthographic
// projection that keeps the aspect ratio.
type Projector struct {
	mvp  mgl64.Mat4
	w, h int
}

func NewProjector(b Bounds, w, h int) Projector {
	if b.IsEmpty() {
		b.Min, b.Max = mgl64.Vec2{-1, -1}, mgl64.Vec2{1, 1}
	}
	center := b.Min.Add(b.Max).Mul(0.5)
	span := b.Max.Sub(b.Min).Mul(0.55)
	halfW, halfH := math.Max(span.X(), 1e-9), math.Max(span.Y(), 1e-9)
	aspect := float64(w) / float64(h)
	if halfW/halfH < aspect {
		halfW = halfH * aspect
	} else {
		halfH = halfW / aspect
	}
	return Projector{
		mvp: mgl64.Ortho2D(center.X()-halfW, center.X()+halfW, center.Y()-halfH, center.Y()+halfH),
		w:   w,
		h:   h,
	}
}

func (p Projector) Point(v mgl64.Vec3) Point {
	ndc := p.mvp.Mul4x1(mgl64.Vec4{v.X(), v.Y(), 0, 1})
	x := (ndc.X() + 1) / 2 * float64(p.w-1)
	y := (1 - ndc.Y()) / 2 * float64(p.h-1)
	return Point{int(math.Round(x)), int(math.Round(y))}
}

// DrawScene fills every shown polygon of s onto c. Colors are blended over
// background by their alpha; fully transparent polygons are skipped.
func DrawScene(c *Canvas, s render.Scene, p Projector, background string) int {
	bg, err := colorful.Hex(background)
	if err != nil {
		bg = colorful.Color{}
	}
	drawn := 0
	eachPolygon(s, func(g *render.PolygonGeometry, rgba [4]uint8) {
		if rgba[3] == 0 {
			return
		}
		fg := colorful.Color{R: float64(rgba[0]) / 255, G: float64(rgba[1]) / 255, B: float64(rgba[2]) / 255}
		color := bg.BlendRgb(fg, float64(rgba[3])/255).Clamped().Hex()

		pts := make([]Point, len(g.Positions))
		for i, v := range g.Positions {
			pts[i] = p.Point(v)
		}
		c.FillPolygon(pts, color)
		drawn++
	})
	return drawn
}

// eachPolygon visits the shown polygons of s in primitive order.
func eachPolygon(s render.Scene, fn func(g *render.PolygonGeometry, rgba [4]uint8)) {
	for _, prim := range s.Primitives().Primitives() {
		switch p := prim.(type) {
		case *render.BatchPrimitive:
			p.Each(func(_ string, g *render.PolygonGeometry, attrs render.InstanceAttributes) {
				if attrs.Show {
					fn(g, attrs.Color)
				}
			})
		case *render.PolygonPrimitive:
			if p.Show && p.Geometry() != nil {
				fn(p.Geometry(), materialColor(p.Material))
			}
		}
	}
}

// materialColor picks a flat color for a standalone material. Images have no
// color of their own and are drawn in the theme's image fill.
func materialColor(m render.Material) [4]uint8 {
	if m.Type == render.MaterialImage {
		return CurrentTheme.ImageFill
	}
	return m.Color
}
