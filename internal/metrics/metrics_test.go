package metrics

import (
	"math"
	"testing"

	"github.com/cookiew/ilqgames/internal/geometry"
	"github.com/cookiew/ilqgames/internal/solver"
)

func TestMinProximityAlong(t *testing.T) {
	op := solver.NewOperatingPoint(3, 4, []int{1, 1}, 0, 0.1)
	// Player 1 at (0,0), (1,0), (2,0); player 2 at (10,0), (4,0), (7,0).
	op.Xs[0].SetVec(2, 10)
	op.Xs[1].SetVec(0, 1)
	op.Xs[1].SetVec(2, 4)
	op.Xs[2].SetVec(0, 2)
	op.Xs[2].SetVec(2, 7)

	got := MinProximityAlong(op, [][2]int{{0, 1}, {2, 3}})
	if got != 3 {
		t.Errorf("MinProximityAlong = %f, want 3", got)
	}
}

func TestControlEffort(t *testing.T) {
	op := solver.NewOperatingPoint(2, 2, []int{1, 1}, 0, 0.1)
	op.Us[0][0].SetVec(0, 2)
	op.Us[0][1].SetVec(0, -4)
	op.Us[1][0].SetVec(0, 0)
	op.Us[1][1].SetVec(0, 2)

	if got := ControlEffort(op); got != 2 {
		t.Errorf("ControlEffort = %f, want 2", got)
	}
}

func TestRouteProgress(t *testing.T) {
	route := geometry.NewPolyline2([]geometry.Point2{{X: 0, Y: 0}, {X: 100, Y: 0}})
	op := solver.NewOperatingPoint(2, 2, []int{1}, 0, 0.1)
	op.Xs[0].SetVec(0, 10)
	op.Xs[1].SetVec(0, 35)

	if got := RouteProgress(op, route, 0, 1); math.Abs(got-25) > 1e-9 {
		t.Errorf("RouteProgress = %f, want 25", got)
	}
}
