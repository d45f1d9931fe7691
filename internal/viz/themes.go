package viz

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
)

var ErrUnknownTheme = errors.New("viz: unknown theme")

// Palette colors the panel text around the canvas.
type Palette struct {
	Primary   lipgloss.Color
	Secondary lipgloss.Color
	Accent    lipgloss.Color
	Text      lipgloss.Color
	Muted     lipgloss.Color
	Success   lipgloss.Color
	Warning   lipgloss.Color
	Error     lipgloss.Color
}

// Theme is a panel palette plus the colors used to draw the scene itself.
type Theme struct {
	Name string
	Palette

	// Background is what translucent polygons are blended over.
	Background lipgloss.Color
	// ImageFill stands in for image materials, which have no flat color.
	ImageFill [4]uint8
	// BatchSeries and StandaloneSeries color the primitive count chart.
	BatchSeries      asciigraph.AnsiColor
	StandaloneSeries asciigraph.AnsiColor
}

var themes = []Theme{
	{
		Name: "default",
		Palette: Palette{
			Primary: "#00ffff", Secondary: "#ff00ff", Accent: "#ffff00",
			Text: "#ffffff", Muted: "#666688",
			Success: "#00ff88", Warning: "#ffaa00", Error: "#ff4444",
		},
		Background:       "#0a0a0a",
		ImageFill:        [4]uint8{160, 160, 160, 255},
		BatchSeries:      asciigraph.Cyan,
		StandaloneSeries: asciigraph.Magenta,
	},
	{
		// mono draws every scene color in the terminal's own shades.
		Name: "mono",
		Palette: Palette{
			Primary: "#ffffff", Secondary: "#cccccc", Accent: "#0088ff",
			Text: "#ffffff", Muted: "#888888",
			Success: "#00ff00", Warning: "#ffaa00", Error: "#ff0000",
		},
		Background:       "#000000",
		ImageFill:        [4]uint8{200, 200, 200, 255},
		BatchSeries:      asciigraph.White,
		StandaloneSeries: asciigraph.Gray,
	},
	{
		Name: "ocean",
		Palette: Palette{
			Primary: "#00a8cc", Secondary: "#0077be", Accent: "#ffd700",
			Text: "#e0f0ff", Muted: "#4488aa",
			Success: "#00ff88", Warning: "#ffcc00", Error: "#ff4444",
		},
		Background:       "#001a33",
		ImageFill:        [4]uint8{120, 150, 170, 255},
		BatchSeries:      asciigraph.DeepSkyBlue,
		StandaloneSeries: asciigraph.Gold,
	},
}

// CurrentTheme is read by every style helper and by the scene drawing.
var CurrentTheme = themes[0]

// LookupTheme returns the theme called name.
func LookupTheme(name string) (Theme, bool) {
	for _, t := range themes {
		if t.Name == name {
			return t, true
		}
	}
	return Theme{}, false
}

// SetTheme makes name the current theme. An unknown name leaves the current
// theme in place.
func SetTheme(name string) error {
	t, ok := LookupTheme(name)
	if !ok {
		return fmt.Errorf("%w: %q (available: %v)", ErrUnknownTheme, name, ThemeNames())
	}
	CurrentTheme = t
	return nil
}

// NextTheme cycles to the following theme, wrapping around.
func NextTheme() {
	for i, t := range themes {
		if t.Name == CurrentTheme.Name {
			CurrentTheme = themes[(i+1)%len(themes)]
			return
		}
	}
	CurrentTheme = themes[0]
}

func ThemeNames() []string {
	names := make([]string, len(themes))
	for i, t := range themes {
		names[i] = t.Name
	}
	return names
}
