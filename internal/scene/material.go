package scene

import "github.com/san-kum/dynscene/internal/timeprop"

type MaterialKind uint8

const (
	MaterialColor MaterialKind = iota
	MaterialImage
	MaterialGrid
)

func (k MaterialKind) String() string {
	switch k {
	case MaterialColor:
		return "color"
	case MaterialImage:
		return "image"
	case MaterialGrid:
		return "grid"
	default:
		return "unknown"
	}
}

// Material describes how a shape's surface is filled.
type Material interface {
	Kind() MaterialKind
}

// ColorMaterial fills a surface with one uniform color. It is the only
// material that per-instance color batching supports.
type ColorMaterial struct {
	Color *timeprop.Property[Color]
}

func (*ColorMaterial) Kind() MaterialKind { return MaterialColor }

type ImageMaterial struct {
	Image  string
	Repeat *timeprop.Property[[2]float64]
}

func (*ImageMaterial) Kind() MaterialKind { return MaterialImage }

type GridMaterial struct {
	Color     *timeprop.Property[Color]
	CellAlpha *timeprop.Property[float64]
	Lines     *timeprop.Property[[2]float64]
}

func (*GridMaterial) Kind() MaterialKind { return MaterialGrid }

// IsUniformColor reports whether m is a non-nil ColorMaterial.
func IsUniformColor(m Material) bool {
	return m != nil && m.Kind() == MaterialColor
}
