package viz

import (
	"fmt"
	"math"

	"github.com/charmbracelet/lipgloss"
	"github.com/crazy3lf/colorconv"
)

// Theme is a heat palette plus the text colors of the live view. Field
// values are mapped linearly from HueCold (lowest) to HueHot (highest).
type Theme struct {
	Name       string
	HueCold    float64
	HueHot     float64
	Saturation float64
	Background lipgloss.Color
	Text       lipgloss.Color
	Muted      lipgloss.Color
	Accent     lipgloss.Color
}

var (
	ThemeThermal = Theme{
		Name:       "thermal",
		HueCold:    240, // blue
		HueHot:     0,   // red
		Saturation: 1,
		Background: lipgloss.Color("#0a0a0a"),
		Text:       lipgloss.Color("#ffffff"),
		Muted:      lipgloss.Color("#666666"),
		Accent:     lipgloss.Color("#ffcc00"),
	}

	ThemeInferno = Theme{
		Name:       "inferno",
		HueCold:    300,
		HueHot:     60,
		Saturation: 0.9,
		Background: lipgloss.Color("#100010"),
		Text:       lipgloss.Color("#fff5f5"),
		Muted:      lipgloss.Color("#8b6b8c"),
		Accent:     lipgloss.Color("#ff9ff3"),
	}

	ThemeOcean = Theme{
		Name:       "ocean",
		HueCold:    220,
		HueHot:     160,
		Saturation: 0.8,
		Background: lipgloss.Color("#001a33"),
		Text:       lipgloss.Color("#e0f0ff"),
		Muted:      lipgloss.Color("#4488aa"),
		Accent:     lipgloss.Color("#ffd700"),
	}

	ThemeMono = Theme{
		Name:       "mono",
		HueCold:    0,
		HueHot:     0,
		Saturation: 0,
		Background: lipgloss.Color("#000000"),
		Text:       lipgloss.Color("#ffffff"),
		Muted:      lipgloss.Color("#888888"),
		Accent:     lipgloss.Color("#0088ff"),
	}

	CurrentTheme = ThemeThermal

	Themes = []Theme{
		ThemeThermal,
		ThemeInferno,
		ThemeOcean,
		ThemeMono,
	}
)

// GetTheme returns a theme by name, falling back to thermal.
func GetTheme(name string) Theme {
	for _, t := range Themes {
		if t.Name == name {
			return t
		}
	}
	return ThemeThermal
}

func SetTheme(name string) {
	CurrentTheme = GetTheme(name)
}

func ThemeNames() []string {
	names := make([]string, len(Themes))
	for i, t := range Themes {
		names[i] = t.Name
	}
	return names
}

// NextTheme returns the name of the theme after name, wrapping around.
func NextTheme(name string) string {
	names := ThemeNames()
	for i, n := range names {
		if n == name {
			return names[(i+1)%len(names)]
		}
	}
	return names[0]
}

// Color maps t in [0, 1] to a "#rrggbb" color. Values outside the range
// are clamped; NaN maps to the cold end.
func (th Theme) Color(t float64) string {
	if math.IsNaN(t) || t < 0 {
		t = 0
	}
	if t > 1 {
		t = 1
	}
	hue := th.HueCold + (th.HueHot-th.HueCold)*t
	// mono ramps brightness instead of hue
	value := 0.25 + 0.75*t
	if th.Saturation == 0 {
		value = t
	}
	r, g, b, err := colorconv.HSVToRGB(math.Mod(hue+360, 360), th.Saturation, value)
	if err != nil {
		return string(th.Background)
	}
	return fmt.Sprintf("#%02x%02x%02x", r, g, b)
}

// Normalize returns a function mapping [lo, hi] onto [0, 1]. A flat range
// maps everything to 0.
func Normalize(lo, hi float64) func(float64) float64 {
	span := hi - lo
	if span <= 0 || math.IsNaN(span) || math.IsInf(span, 0) {
		return func(float64) float64 { return 0 }
	}
	return func(v float64) float64 { return (v - lo) / span }
}
