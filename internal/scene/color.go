package scene

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// Color is a straight-alpha RGBA color with components in [0, 1].
type Color struct {
	colorful.Color
	A float64
}

var (
	White       = Color{Color: colorful.Color{R: 1, G: 1, B: 1}, A: 1}
	Transparent = Color{}
)

func NewColor(r, g, b, a float64) Color {
	return Color{Color: colorful.Color{R: r, G: g, B: b}, A: a}
}

// ParseHex parses "#rgb", "#rrggbb" or "#rrggbbaa".
func ParseHex(s string) (Color, error) {
	alpha := 1.0
	if len(s) == 9 && strings.HasPrefix(s, "#") {
		a, err := strconv.ParseUint(s[7:], 16, 8)
		if err != nil {
			return Color{}, fmt.Errorf("scene: bad alpha in color %q: %w", s, err)
		}
		alpha = float64(a) / 255
		s = s[:7]
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return Color{}, fmt.Errorf("scene: bad color %q: %w", s, err)
	}
	return Color{Color: c, A: alpha}, nil
}

// LerpColor blends in RGB space, alpha linearly.
func LerpColor(a, b Color, frac float64) Color {
	return Color{
		Color: a.Color.BlendRgb(b.Color, frac),
		A:     a.A + (b.A-a.A)*frac,
	}
}

// Bytes packs the color the way per-instance color attributes store it.
func (c Color) Bytes() [4]uint8 {
	return [4]uint8{toByte(c.R), toByte(c.G), toByte(c.B), toByte(c.A)}
}

func (c Color) String() string {
	return fmt.Sprintf("%s@%.2f", c.Color.Clamped().Hex(), c.A)
}

func toByte(v float64) uint8 {
	return uint8(math.Round(math.Max(0, math.Min(1, v)) * 255))
}
