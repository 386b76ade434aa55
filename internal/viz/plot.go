package viz

import (
	"fmt"
	"strings"

	"github.com/guptarohit/asciigraph"

	"github.com/cookiew/ilqgames/internal/solver"
)

// PlotDimension renders one state dimension of the final trajectory over
// time.
func PlotDimension(op solver.OperatingPoint, dim int) string {
	data := make([]float64, op.Steps())
	for k := range data {
		data[k] = op.Xs[k].AtVec(dim)
	}
	return asciigraph.Plot(data,
		asciigraph.Height(10),
		asciigraph.Width(80),
		asciigraph.Caption(fmt.Sprintf("x%d over time", dim)))
}

// PlotCosts renders each player's total cost across solver iterates.
func PlotCosts(log *solver.Log) string {
	var sb strings.Builder
	for i := range log.Iterates[0].Costs {
		data := make([]float64, len(log.Iterates))
		for idx, it := range log.Iterates {
			data[idx] = it.Costs[i]
		}
		sb.WriteString(asciigraph.Plot(data,
			asciigraph.Height(8),
			asciigraph.Width(80),
			asciigraph.Caption(fmt.Sprintf("player %d cost per iterate", i+1))))
		sb.WriteString("\n\n")
	}
	return sb.String()
}

// TopView draws all players' planar paths on a character canvas.
func TopView(op solver.OperatingPoint, positionDims [][2]int, width, height int) string {
	if len(positionDims) == 0 {
		return ""
	}

	minX, maxX, minY, maxY := bounds(op, positionDims)
	canvas := make([][]rune, height)
	for r := range canvas {
		canvas[r] = make([]rune, width)
		for c := range canvas[r] {
			canvas[r][c] = ' '
		}
	}

	glyphs := []rune{'1', '2', '3', '4', '5', '6'}
	for p, dims := range positionDims {
		for k := 0; k < op.Steps(); k++ {
			x := op.Xs[k].AtVec(dims[0])
			y := op.Xs[k].AtVec(dims[1])
			col := int((x - minX) / (maxX - minX) * float64(width-1))
			row := height - 1 - int((y-minY)/(maxY-minY)*float64(height-1))
			if col >= 0 && col < width && row >= 0 && row < height {
				canvas[row][col] = glyphs[p%len(glyphs)]
			}
		}
	}

	var sb strings.Builder
	for _, row := range canvas {
		sb.WriteString(string(row))
		sb.WriteByte('\n')
	}
	return sb.String()
}

func bounds(op solver.OperatingPoint, positionDims [][2]int) (minX, maxX, minY, maxY float64) {
	first := true
	for _, dims := range positionDims {
		for k := 0; k < op.Steps(); k++ {
			x := op.Xs[k].AtVec(dims[0])
			y := op.Xs[k].AtVec(dims[1])
			if first {
				minX, maxX, minY, maxY = x, x, y, y
				first = false
				continue
			}
			if x < minX {
				minX = x
			}
			if x > maxX {
				maxX = x
			}
			if y < minY {
				minY = y
			}
			if y > maxY {
				maxY = y
			}
		}
	}
	// Avoid a degenerate scale for stationary trajectories.
	if maxX-minX < 1e-9 {
		maxX = minX + 1
	}
	if maxY-minY < 1e-9 {
		maxY = minY + 1
	}
	return minX, maxX, minY, maxY
}
