package viz

import (
	"strings"
	"testing"

	"github.com/cookiew/ilqgames/internal/solver"
)

func sampleLog() *solver.Log {
	const steps = 8
	op := solver.NewOperatingPoint(steps, 4, []int{1, 1}, 0, 0.1)
	for k := 0; k < steps; k++ {
		op.Xs[k].SetVec(0, float64(k))
		op.Xs[k].SetVec(2, float64(steps-k))
		op.Xs[k].SetVec(3, 1)
	}
	strategies := []solver.Strategy{
		solver.NewStrategy(steps-1, 4, 1),
		solver.NewStrategy(steps-1, 4, 1),
	}
	log := solver.NewLog(0, 0.1, steps)
	log.Add(op, strategies, []float64{5, 7}, 0)
	log.Add(op, strategies, []float64{2, 3}, 1)
	return log
}

func TestPlotDimension(t *testing.T) {
	out := PlotDimension(sampleLog().FinalOperatingPoint(), 0)
	if !strings.Contains(out, "x0 over time") {
		t.Error("plot should carry its caption")
	}
}

func TestPlotCosts(t *testing.T) {
	out := PlotCosts(sampleLog())
	if !strings.Contains(out, "player 1 cost per iterate") || !strings.Contains(out, "player 2 cost per iterate") {
		t.Error("cost plots should cover both players")
	}
}

func TestTopView(t *testing.T) {
	out := TopView(sampleLog().FinalOperatingPoint(), [][2]int{{0, 1}, {2, 3}}, 40, 10)
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 10 {
		t.Fatalf("canvas height = %d, want 10", len(lines))
	}
	if !strings.Contains(out, "1") || !strings.Contains(out, "2") {
		t.Error("both players should appear on the canvas")
	}
}

func TestTrajectoryToSVG(t *testing.T) {
	svg := TrajectoryToSVG(sampleLog().FinalOperatingPoint(), [][2]int{{0, 1}, {2, 3}}, 400, 300)
	if !strings.HasPrefix(svg, "<?xml") || !strings.HasSuffix(svg, "</svg>") {
		t.Error("malformed SVG document")
	}
	if strings.Count(svg, "<polyline") != 2 {
		t.Errorf("expected one polyline per player, got %d", strings.Count(svg, "<polyline"))
	}
}
