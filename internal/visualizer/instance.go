package visualizer

import (
	"time"

	"github.com/san-kum/dynscene/internal/render"
	"github.com/san-kum/dynscene/internal/scene"
	"github.com/san-kum/dynscene/internal/timeprop"
)

// geometryInstance is the batch record of one object. The properties are
// captured when the object is admitted; a resident object keeps its class.
type geometryInstance struct {
	object   *scene.Object
	geometry *render.PolygonGeometry

	color        *timeprop.Property[scene.Color]
	show         *timeprop.Property[bool]
	dynamicColor bool
	dynamicShow  bool

	// current mirrors what the batch holds for this instance.
	current render.InstanceAttributes
	// attributes is the live slot in the active batch, resolved on first write.
	attributes *render.InstanceAttributes
}

// batchable reports whether obj can join the per-instance-color batch: its
// geometry never changes and its material is a uniform color.
func batchable(obj *scene.Object) bool {
	if !obj.ConstantGeometry() {
		return false
	}
	m := obj.Polygon.Material
	return m == nil || scene.IsUniformColor(m)
}

func colorProperty(m scene.Material) *timeprop.Property[scene.Color] {
	if cm, ok := m.(*scene.ColorMaterial); ok && cm != nil {
		return cm.Color
	}
	return nil
}

// newGeometryInstance snapshots obj at t. ok is false when the geometry
// cannot be evaluated.
func newGeometryInstance(obj *scene.Object, t time.Time) (*geometryInstance, bool) {
	positions, ok := obj.Vertices(t)
	if !ok {
		return nil, false
	}
	g, err := render.PolygonFromPositions(positions)
	if err != nil {
		return nil, false
	}

	colorProp := colorProperty(obj.Polygon.Material)
	showProp := obj.Polygon.Show
	inst := &geometryInstance{
		object:       obj,
		geometry:     g,
		color:        colorProp,
		show:         showProp,
		dynamicColor: timeprop.IsDynamic(colorProp),
		dynamicShow:  timeprop.IsDynamic(showProp) || obj.Availability != nil,
	}
	inst.current = render.InstanceAttributes{
		Color: timeprop.ValueOr(colorProp, t, scene.White).Bytes(),
		Show:  inst.visible(t),
	}
	return inst, true
}

func (inst *geometryInstance) visible(t time.Time) bool {
	return inst.object.IsAvailable(t) && timeprop.ValueOr(inst.show, t, true)
}

func (inst *geometryInstance) isDynamic() bool {
	return inst.dynamicColor || inst.dynamicShow
}

// evaluate brings current up to date for t. A color that is undefined at t
// keeps its previous value.
func (inst *geometryInstance) evaluate(t time.Time) (colorWritten, showWritten bool) {
	if inst.dynamicColor {
		if c, ok := inst.color.Value(t); ok {
			inst.current.Color = c.Bytes()
			colorWritten = true
		}
	}
	if inst.dynamicShow {
		inst.current.Show = inst.visible(t)
		showWritten = true
	}
	return colorWritten, showWritten
}

func (inst *geometryInstance) resolve(batch *render.BatchPrimitive) (*render.InstanceAttributes, error) {
	if inst.attributes == nil {
		attrs, err := batch.GeometryInstanceAttributes(inst.object.ID())
		if err != nil {
			return nil, err
		}
		inst.attributes = attrs
	}
	return inst.attributes, nil
}

func (inst *geometryInstance) renderInstance() *render.GeometryInstance {
	return &render.GeometryInstance{
		ID:         inst.object.ID(),
		Geometry:   inst.geometry,
		Attributes: inst.current,
	}
}
