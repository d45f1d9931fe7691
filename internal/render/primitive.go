package render

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
)

// Primitive is anything the renderer can draw. Primitives are owned by
// whoever created them; the renderer only displays what it was given.
type Primitive interface {
	Destroy()
	IsDestroyed() bool
}

// InstanceAttributes are the per-instance values of a batch that can be
// written without rebuilding it.
type InstanceAttributes struct {
	Color [4]uint8
	Show  bool
}

// GeometryInstance is one member of a batch.
type GeometryInstance struct {
	ID         string
	Geometry   *PolygonGeometry
	Attributes InstanceAttributes
}

type Appearance interface {
	appearanceName() string
}

// PerInstanceColorAppearance shades every instance with its color attribute.
type PerInstanceColorAppearance struct {
	Translucent bool
	Flat        bool
}

func (PerInstanceColorAppearance) appearanceName() string { return "per-instance-color" }

type MaterialType uint8

const (
	MaterialColor MaterialType = iota
	MaterialImage
	MaterialGrid
)

// Material is the shading description of a standalone primitive.
type Material struct {
	Type      MaterialType
	Color     [4]uint8
	Image     string
	Repeat    [2]float64
	CellAlpha float64
	Lines     [2]float64
}

type MaterialAppearance struct {
	Material Material
}

func (MaterialAppearance) appearanceName() string { return "material" }

// BatchOptions configures a BatchPrimitive.
type BatchOptions struct {
	GeometryInstances []*GeometryInstance
	Appearance        Appearance
	Asynchronous      bool
}

// BatchPrimitive draws many geometry instances with a single appearance.
// Its membership is fixed at construction.
type BatchPrimitive struct {
	Show         bool
	appearance   Appearance
	asynchronous bool
	instances    []*GeometryInstance
	attributes   map[string]*InstanceAttributes
	destroyed    bool
}

func NewBatchPrimitive(opts BatchOptions) (*BatchPrimitive, error) {
	if len(opts.GeometryInstances) == 0 {
		return nil, ErrNoInstances
	}
	appearance := opts.Appearance
	if appearance == nil {
		appearance = PerInstanceColorAppearance{}
	}
	p := &BatchPrimitive{
		Show:         true,
		appearance:   appearance,
		asynchronous: opts.Asynchronous,
		instances:    make([]*GeometryInstance, 0, len(opts.GeometryInstances)),
		attributes:   make(map[string]*InstanceAttributes, len(opts.GeometryInstances)),
	}
	for _, inst := range opts.GeometryInstances {
		if inst == nil || inst.Geometry == nil {
			return nil, fmt.Errorf("render: batch instance without geometry")
		}
		if _, dup := p.attributes[inst.ID]; dup {
			return nil, fmt.Errorf("render: duplicate instance id %q", inst.ID)
		}
		attrs := inst.Attributes
		p.attributes[inst.ID] = &attrs
		p.instances = append(p.instances, inst)
	}
	return p, nil
}

// GeometryInstanceAttributes returns the live attribute slot of instance id.
// Writes through the returned pointer take effect on the next draw.
func (p *BatchPrimitive) GeometryInstanceAttributes(id string) (*InstanceAttributes, error) {
	if p.destroyed {
		return nil, ErrDestroyed
	}
	attrs, ok := p.attributes[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownInstance, id)
	}
	return attrs, nil
}

func (p *BatchPrimitive) Len() int { return len(p.instances) }

func (p *BatchPrimitive) Appearance() Appearance { return p.appearance }

func (p *BatchPrimitive) Asynchronous() bool { return p.asynchronous }

// IDs returns the instance ids in batch order.
func (p *BatchPrimitive) IDs() []string {
	ids := make([]string, len(p.instances))
	for i, inst := range p.instances {
		ids[i] = inst.ID
	}
	return ids
}

// Each calls fn for every instance with its current attributes.
func (p *BatchPrimitive) Each(fn func(id string, g *PolygonGeometry, attrs InstanceAttributes)) {
	for _, inst := range p.instances {
		fn(inst.ID, inst.Geometry, *p.attributes[inst.ID])
	}
}

func (p *BatchPrimitive) Destroy() {
	p.destroyed = true
	p.instances = nil
	p.attributes = nil
}

func (p *BatchPrimitive) IsDestroyed() bool { return p.destroyed }

// PolygonPrimitive is a standalone, mutable polygon.
type PolygonPrimitive struct {
	Show         bool
	ObjectID     string
	Material     Material
	Asynchronous bool

	geometry        *PolygonGeometry
	source          []mgl64.Vec3
	geometryUpdates int
	destroyed       bool
}

func NewPolygonPrimitive() *PolygonPrimitive {
	return &PolygonPrimitive{Show: true}
}

// SetPositions replaces the outline. Positions equal to the current ones
// leave the geometry untouched.
func (p *PolygonPrimitive) SetPositions(positions []mgl64.Vec3) error {
	if p.destroyed {
		return ErrDestroyed
	}
	if p.geometry != nil && samePositions(p.source, positions) {
		return nil
	}
	g, err := PolygonFromPositions(positions)
	if err != nil {
		return err
	}
	p.geometry = g
	p.source = append(p.source[:0], positions...)
	p.geometryUpdates++
	return nil
}

func (p *PolygonPrimitive) Geometry() *PolygonGeometry { return p.geometry }

// GeometryUpdates counts how often the outline was re-triangulated.
func (p *PolygonPrimitive) GeometryUpdates() int { return p.geometryUpdates }

func (p *PolygonPrimitive) Destroy() {
	p.destroyed = true
	p.geometry = nil
	p.source = nil
}

func (p *PolygonPrimitive) IsDestroyed() bool { return p.destroyed }

func samePositions(a, b []mgl64.Vec3) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
