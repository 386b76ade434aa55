package viz

import (
	"fmt"
	"strings"

	"github.com/cookiew/ilqgames/internal/solver"
)

var svgColors = []string{"#00ffcc", "#ff66cc", "#ffd700", "#66ff66", "#ff8866", "#66aaff"}

// TrajectoryToSVG renders all players' planar paths as an SVG polyline plot.
func TrajectoryToSVG(op solver.OperatingPoint, positionDims [][2]int, width, height int) string {
	if len(positionDims) == 0 || op.Steps() < 2 {
		return ""
	}
	minX, maxX, minY, maxY := bounds(op, positionDims)
	const pad = 10.0
	scaleX := (float64(width) - 2*pad) / (maxX - minX)
	scaleY := (float64(height) - 2*pad) / (maxY - minY)

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`, width, height, width, height))

	for p, dims := range positionDims {
		color := svgColors[p%len(svgColors)]
		sb.WriteString(fmt.Sprintf(`<polyline fill="none" stroke="%s" stroke-width="1.5" points="`, color))
		for k := 0; k < op.Steps(); k++ {
			x := pad + (op.Xs[k].AtVec(dims[0])-minX)*scaleX
			y := float64(height) - pad - (op.Xs[k].AtVec(dims[1])-minY)*scaleY
			sb.WriteString(fmt.Sprintf("%.1f,%.1f ", x, y))
		}
		sb.WriteString("\"/>\n")
	}

	sb.WriteString("</svg>")
	return sb.String()
}
