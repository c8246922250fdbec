package export

import (
	"fmt"
	"strings"

	"github.com/san-kum/heatsim/internal/diffusion"
	"github.com/san-kum/heatsim/internal/viz"
)

// FieldToSVG renders f as a grid of colored squares. Fields larger than
// maxCells on a side are block-averaged first.
func FieldToSVG(f *diffusion.Field, maxCells int, cellSize float64, theme viz.Theme) string {
	if f == nil || maxCells <= 0 || cellSize <= 0 {
		return ""
	}
	small := f.Downsample(maxCells, maxCells)
	rows, cols := small.Dims()
	norm := viz.Normalize(small.Min(), small.Max())

	width := float64(cols) * cellSize
	height := float64(rows) * cellSize

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="%s"/>
<g shape-rendering="crispEdges">
`, width, height, width, height, theme.Background))

	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			sb.WriteString(fmt.Sprintf(`<rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" fill="%s"/>
`, float64(j)*cellSize, float64(i)*cellSize, cellSize, cellSize, theme.Color(norm(small.At(i, j)))))
		}
	}

	sb.WriteString("</g>\n</svg>")
	return sb.String()
}

// SeriesToSVG draws a per-step series (mass, peak) as a polyline.
func SeriesToSVG(values []float64, width, height int, strokeColor string) string {
	if len(values) < 2 {
		return ""
	}

	lo, hi := values[0], values[0]
	for _, v := range values {
		lo = min(lo, v)
		hi = max(hi, v)
	}
	pad := (hi - lo) * 0.1
	if pad == 0 {
		pad = 1
	}
	norm := viz.Normalize(lo-pad, hi+pad)
	dx := float64(width) / float64(len(values)-1)

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
<path fill="none" stroke="%s" stroke-width="1.5" d="M`,
		width, height, width, height, strokeColor))

	for i, v := range values {
		x := float64(i) * dx
		y := float64(height) - norm(v)*float64(height)
		if i == 0 {
			sb.WriteString(fmt.Sprintf("%.1f,%.1f", x, y))
		} else {
			sb.WriteString(fmt.Sprintf(" L%.1f,%.1f", x, y))
		}
	}

	sb.WriteString(`"/>
</svg>`)
	return sb.String()
}
