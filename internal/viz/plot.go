package viz

import (
	"strconv"

	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/heatsim/internal/diffusion"
)

// PlotProfile plots row i of f as a line graph. Out-of-range rows are
// clamped.
func PlotProfile(f *diffusion.Field, row, width, height int) string {
	row = max(0, min(row, f.Rows()-1))
	values := append([]float64(nil), f.Row(row)...)
	return asciigraph.Plot(values,
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Caption("row "+strconv.Itoa(row)+" profile"),
	)
}

// PlotSeries plots a per-step series such as the mass history.
func PlotSeries(values []float64, caption string, width, height int) string {
	if len(values) == 0 {
		return ""
	}
	return asciigraph.Plot(values,
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Caption(caption),
	)
}

func formatValue(v float64) string {
	return strconv.FormatFloat(v, 'g', 4, 64)
}
