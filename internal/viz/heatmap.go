package viz

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/heatsim/internal/diffusion"
)

const halfBlock = "▀"

// Heatmap renders f in the current theme, block-averaged to at most width
// columns and 2*height field rows. Each terminal line carries two field
// rows: the upper one in the foreground of a half block and the lower one
// in its background.
func Heatmap(f *diffusion.Field, width, height int) string {
	return HeatmapTheme(f, width, height, CurrentTheme)
}

func HeatmapTheme(f *diffusion.Field, width, height int, th Theme) string {
	if f == nil || width <= 0 || height <= 0 {
		return ""
	}
	small := f.Downsample(2*height, width)
	norm := Normalize(small.Min(), small.Max())

	rows, cols := small.Dims()
	lines := make([]string, 0, (rows+1)/2)
	for i := 0; i < rows; i += 2 {
		var sb strings.Builder
		for j := 0; j < cols; j++ {
			style := lipgloss.NewStyle().Foreground(lipgloss.Color(th.Color(norm(small.At(i, j)))))
			if i+1 < rows {
				style = style.Background(lipgloss.Color(th.Color(norm(small.At(i+1, j)))))
			} else {
				style = style.Background(th.Background)
			}
			sb.WriteString(style.Render(halfBlock))
		}
		lines = append(lines, sb.String())
	}
	return strings.Join(lines, "\n")
}

// Legend renders a horizontal color ramp labelled with the value range.
func Legend(lo, hi float64, width int, th Theme) string {
	if width <= 1 {
		return ""
	}
	var sb strings.Builder
	for i := 0; i < width; i++ {
		t := float64(i) / float64(width-1)
		sb.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(th.Color(t))).Render("█"))
	}
	return sb.String() + "\n" + ValueStyle.Render(formatRange(lo, hi, width))
}

func formatRange(lo, hi float64, width int) string {
	left := formatValue(lo)
	right := formatValue(hi)
	pad := max(width-len(left)-len(right), 1)
	return left + strings.Repeat(" ", pad) + right
}
