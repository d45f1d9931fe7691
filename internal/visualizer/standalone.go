package visualizer

import (
	"time"

	"github.com/san-kum/dynscene/internal/render"
	"github.com/san-kum/dynscene/internal/scene"
	"github.com/san-kum/dynscene/internal/timeprop"
)

// freeList keeps hidden standalone primitives for reuse. They stay registered
// with the renderer until the visualizer removes all of its primitives.
type freeList struct {
	items []*render.PolygonPrimitive
}

func (f *freeList) push(p *render.PolygonPrimitive) {
	f.items = append(f.items, p)
}

func (f *freeList) pop() (*render.PolygonPrimitive, bool) {
	n := len(f.items)
	if n == 0 {
		return nil, false
	}
	p := f.items[n-1]
	f.items[n-1] = nil
	f.items = f.items[:n-1]
	return p, true
}

func (f *freeList) len() int { return len(f.items) }

func (f *freeList) drain() []*render.PolygonPrimitive {
	items := f.items
	f.items = nil
	return items
}

var (
	defaultRepeat    = [2]float64{1, 1}
	defaultLines     = [2]float64{8, 8}
	defaultCellAlpha = 0.1
)

// materialAt converts a scene material into the render description at t.
func materialAt(m scene.Material, t time.Time) render.Material {
	switch m := m.(type) {
	case *scene.ImageMaterial:
		return render.Material{
			Type:   render.MaterialImage,
			Image:  m.Image,
			Repeat: timeprop.ValueOr(m.Repeat, t, defaultRepeat),
		}
	case *scene.GridMaterial:
		return render.Material{
			Type:      render.MaterialGrid,
			Color:     timeprop.ValueOr(m.Color, t, scene.White).Bytes(),
			CellAlpha: timeprop.ValueOr(m.CellAlpha, t, defaultCellAlpha),
			Lines:     timeprop.ValueOr(m.Lines, t, defaultLines),
		}
	default:
		return render.Material{
			Type:  render.MaterialColor,
			Color: timeprop.ValueOr(colorProperty(m), t, scene.White).Bytes(),
		}
	}
}
