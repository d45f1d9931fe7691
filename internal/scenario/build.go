package scenario

import (
	"fmt"
	"math"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/dynscene/internal/scene"
	"github.com/san-kum/dynscene/internal/sim"
	"github.com/san-kum/dynscene/internal/timeprop"
)

// DefaultStart is used when a scenario has no start time.
var DefaultStart = time.Date(2000, 1, 1, 12, 0, 0, 0, time.UTC)

// Built is a scenario turned into live scene objects.
type Built struct {
	Name       string
	Start      time.Time
	Duration   time.Duration
	Collection *scene.Collection
	// Objects holds every object, including deferred ones not yet added.
	Objects map[string]*scene.Object
	Events  []sim.Event
}

// Build creates the objects, adds the non-deferred ones to a new collection
// and turns the events into edits of that collection.
func (s *Scenario) Build() (*Built, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	start := s.Start
	if start.IsZero() {
		start = DefaultStart
	}

	b := &Built{
		Name:       s.Name,
		Start:      start,
		Duration:   s.RunDuration(0),
		Collection: scene.NewCollection(),
		Objects:    make(map[string]*scene.Object, len(s.Objects)),
	}

	origin := mgl64.Vec3(s.Origin)
	coll := b.Collection
	coll.SuspendEvents()
	for _, spec := range s.Objects {
		obj, err := spec.build(start, origin)
		if err != nil {
			coll.ResumeEvents()
			return nil, fmt.Errorf("scenario %s: object %q: %w", s.Name, spec.ID, err)
		}
		b.Objects[spec.ID] = obj
		if !spec.Deferred {
			if err := coll.Add(obj); err != nil {
				coll.ResumeEvents()
				return nil, err
			}
		}
	}
	coll.ResumeEvents()

	for _, ev := range s.Events {
		b.Events = append(b.Events, b.event(start, ev))
	}
	return b, nil
}

func (b *Built) event(start time.Time, ev EventSpec) sim.Event {
	label := fmt.Sprintf("+%v -%v", ev.Add, ev.Remove)
	add, remove := ev.Add, ev.Remove
	return sim.Event{
		At:    start.Add(seconds(ev.At)),
		Label: label,
		Apply: func() error {
			coll := b.Collection
			coll.SuspendEvents()
			defer coll.ResumeEvents()
			for _, id := range remove {
				coll.Remove(b.Objects[id])
			}
			for _, id := range add {
				obj := b.Objects[id]
				if cur, ok := coll.ByID(id); ok && cur == obj {
					continue
				}
				if err := coll.Add(obj); err != nil {
					return err
				}
			}
			return nil
		},
	}
}

func (o ObjectSpec) build(start time.Time, origin mgl64.Vec3) (*scene.Object, error) {
	at := func(sec float64) time.Time { return start.Add(seconds(sec)) }
	obj := scene.NewObject(o.ID)

	if len(o.Available) == 2 {
		if o.Available[1] <= o.Available[0] {
			return nil, fmt.Errorf("empty availability %v", o.Available)
		}
		iv := timeprop.NewInterval(at(o.Available[0]), at(o.Available[1]))
		obj.Availability = &iv
	}

	switch {
	case len(o.VertexSamples) > 0:
		samples := make([]timeprop.Sample[[]mgl64.Vec3], len(o.VertexSamples))
		for i, vs := range o.VertexSamples {
			samples[i] = timeprop.Sample[[]mgl64.Vec3]{Time: at(vs.At), Value: offset(vs.Vertices, origin)}
		}
		obj.VertexPositions = timeprop.NewSampled(timeprop.LerpVec3Slice, samples...)
	case len(o.Vertices) > 0:
		obj.VertexPositions = timeprop.NewConstant(offset(o.Vertices, origin))
	}

	switch {
	case len(o.PositionSamples) > 0:
		samples := make([]timeprop.Sample[mgl64.Vec3], len(o.PositionSamples))
		for i, ps := range o.PositionSamples {
			samples[i] = timeprop.Sample[mgl64.Vec3]{Time: at(ps.At), Value: origin.Add(mgl64.Vec3(ps.Value))}
		}
		obj.Position = timeprop.NewSampled(timeprop.LerpVec3, samples...)
	case o.Position != nil:
		obj.Position = timeprop.NewConstant(origin.Add(mgl64.Vec3(*o.Position)))
	}

	if e := o.Ellipse; e != nil {
		obj.Ellipse = &scene.Ellipse{
			SemiMajorAxis: timeprop.NewConstant(e.SemiMajor),
			SemiMinorAxis: timeprop.NewConstant(e.SemiMinor),
			Granularity:   mgl64.DegToRad(e.Granularity),
		}
		if e.Rotation != 0 {
			obj.Ellipse.Rotation = timeprop.NewConstant(mgl64.DegToRad(e.Rotation))
		}
	}

	if o.NoPolygon {
		return obj, nil
	}
	poly := &scene.Polygon{}
	switch {
	case len(o.ShowSamples) > 0:
		samples := make([]timeprop.Sample[bool], len(o.ShowSamples))
		for i, bs := range o.ShowSamples {
			samples[i] = timeprop.Sample[bool]{Time: at(bs.At), Value: bs.Value}
		}
		poly.Show = timeprop.NewSampled[bool](nil, samples...)
	case o.Show != nil:
		poly.Show = timeprop.NewConstant(*o.Show)
	}

	if o.Material != nil {
		m, err := o.Material.build(at)
		if err != nil {
			return nil, err
		}
		poly.Material = m
	}
	obj.Polygon = poly
	return obj, nil
}

func (m MaterialSpec) build(at func(float64) time.Time) (scene.Material, error) {
	color, err := m.colorProperty(at)
	if err != nil {
		return nil, err
	}
	switch m.Type {
	case "", "color":
		return &scene.ColorMaterial{Color: color}, nil
	case "image":
		im := &scene.ImageMaterial{Image: m.Image}
		if len(m.Repeat) == 2 {
			im.Repeat = timeprop.NewConstant([2]float64{m.Repeat[0], m.Repeat[1]})
		}
		return im, nil
	case "grid":
		gm := &scene.GridMaterial{Color: color}
		if m.CellAlpha != nil {
			gm.CellAlpha = timeprop.NewConstant(*m.CellAlpha)
		}
		if len(m.Lines) == 2 {
			gm.Lines = timeprop.NewConstant([2]float64{m.Lines[0], m.Lines[1]})
		}
		return gm, nil
	}
	return nil, fmt.Errorf("unknown material %q", m.Type)
}

func (m MaterialSpec) colorProperty(at func(float64) time.Time) (*timeprop.Property[scene.Color], error) {
	if len(m.Colors) > 0 {
		samples := make([]timeprop.Sample[scene.Color], len(m.Colors))
		for i, cs := range m.Colors {
			c, err := scene.ParseHex(cs.Color)
			if err != nil {
				return nil, err
			}
			samples[i] = timeprop.Sample[scene.Color]{Time: at(cs.At), Value: c}
		}
		return timeprop.NewSampled(scene.LerpColor, samples...), nil
	}
	if m.Color == "" {
		return nil, nil
	}
	c, err := scene.ParseHex(m.Color)
	if err != nil {
		return nil, err
	}
	return timeprop.NewConstant(c), nil
}

func offset(vs []Vec3, origin mgl64.Vec3) []mgl64.Vec3 {
	out := make([]mgl64.Vec3, len(vs))
	for i, v := range vs {
		out[i] = origin.Add(mgl64.Vec3(v))
	}
	return out
}

// Regular returns the corners of a regular n-gon of the given radius around
// center, on the xy plane.
func Regular(center Vec3, radius float64, n int) []Vec3 {
	out := make([]Vec3, n)
	for i := range out {
		a := 2 * math.Pi * float64(i) / float64(n)
		out[i] = Vec3{center[0] + radius*math.Cos(a), center[1] + radius*math.Sin(a), center[2]}
	}
	return out
}
