package scene

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/dynscene/internal/timeprop"
)

var objectSeq atomic.Uint64

// Polygon is the attribute bundle for a filled surface shape.
type Polygon struct {
	Show     *timeprop.Property[bool]
	Material Material
}

// Object is a named entity whose attributes are functions of time.
// Its bundles are reassigned in place by whoever loads the scene.
type Object struct {
	id string

	Availability    *timeprop.Interval
	Position        *timeprop.Property[mgl64.Vec3]
	VertexPositions *timeprop.Property[[]mgl64.Vec3]
	Polygon         *Polygon
	Ellipse         *Ellipse
}

// NewObject creates an object. An empty id is replaced by a generated one.
func NewObject(id string) *Object {
	if id == "" {
		id = fmt.Sprintf("object-%d", objectSeq.Add(1))
	}
	return &Object{id: id}
}

func (o *Object) ID() string { return o.id }

// IsAvailable reports whether the object exists at t.
func (o *Object) IsAvailable(t time.Time) bool {
	return o.Availability == nil || o.Availability.Contains(t)
}

// HasGeometry reports whether a geometry source is present: explicit vertex
// positions, or an ellipse with a center position.
func (o *Object) HasGeometry() bool {
	return o.VertexPositions != nil || (o.Ellipse != nil && o.Position != nil)
}

// ConstantGeometry reports whether the geometry source is present and the
// same at every instant.
func (o *Object) ConstantGeometry() bool {
	if o.VertexPositions != nil {
		return o.VertexPositions.IsConstant()
	}
	if o.Ellipse == nil || o.Position == nil {
		return false
	}
	return o.Position.IsConstant() && o.Ellipse.IsConstant()
}

// Vertices evaluates the geometry source at t.
func (o *Object) Vertices(t time.Time) ([]mgl64.Vec3, bool) {
	if o.VertexPositions != nil {
		return o.VertexPositions.Value(t)
	}
	if o.Ellipse == nil || o.Position == nil {
		return nil, false
	}
	center, ok := o.Position.Value(t)
	if !ok {
		return nil, false
	}
	return o.Ellipse.Outline(t, center)
}

// Visible combines availability with the polygon's optional show property.
// A show property that is undefined at t counts as shown.
func (o *Object) Visible(t time.Time) bool {
	if !o.IsAvailable(t) {
		return false
	}
	if o.Polygon == nil {
		return true
	}
	return timeprop.ValueOr(o.Polygon.Show, t, true)
}
