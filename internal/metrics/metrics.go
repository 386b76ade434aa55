// Package metrics computes summary statistics of solved trajectories:
// pairwise clearance, control effort, and route progress.
package metrics

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/cookiew/ilqgames/internal/geometry"
	"github.com/cookiew/ilqgames/internal/solver"
)

// MinProximity observes the true state as a receding-horizon run advances
// and tracks the smallest pairwise distance between the given position
// index pairs.
type MinProximity struct {
	pairs [][2]int
	min   float64
}

func NewMinProximity(positionDims [][2]int) *MinProximity {
	return &MinProximity{pairs: positionDims, min: math.Inf(1)}
}

func (m *MinProximity) OnAdvance(t float64, x *mat.VecDense) {
	for i := 0; i < len(m.pairs); i++ {
		for j := i + 1; j < len(m.pairs); j++ {
			d := math.Hypot(
				x.AtVec(m.pairs[i][0])-x.AtVec(m.pairs[j][0]),
				x.AtVec(m.pairs[i][1])-x.AtVec(m.pairs[j][1]))
			m.min = math.Min(m.min, d)
		}
	}
}

func (m *MinProximity) Value() float64 { return m.min }

var _ solver.StepObserver = (*MinProximity)(nil)

// MinProximityAlong scans an operating point for the smallest pairwise
// distance between players' positions.
func MinProximityAlong(op solver.OperatingPoint, positionDims [][2]int) float64 {
	m := NewMinProximity(positionDims)
	for k := 0; k < op.Steps(); k++ {
		m.OnAdvance(op.TimeAt(k), op.Xs[k])
	}
	return m.Value()
}

// ControlEffort returns the mean absolute control value across all players
// and steps of an operating point.
func ControlEffort(op solver.OperatingPoint) float64 {
	sum := 0.0
	samples := 0
	for k := 0; k < op.Steps(); k++ {
		for _, u := range op.Us[k] {
			for r := 0; r < u.Len(); r++ {
				sum += math.Abs(u.AtVec(r))
				samples++
			}
		}
	}
	if samples == 0 {
		return 0
	}
	return sum / float64(samples)
}

// RouteProgress returns the arc length traveled along a route between the
// first and last states of an operating point.
func RouteProgress(op solver.OperatingPoint, route *geometry.Polyline2, xIdx, yIdx int) float64 {
	first := geometry.Point2{X: op.Xs[0].AtVec(xIdx), Y: op.Xs[0].AtVec(yIdx)}
	last := geometry.Point2{
		X: op.Xs[op.Steps()-1].AtVec(xIdx),
		Y: op.Xs[op.Steps()-1].AtVec(yIdx),
	}
	_, arcFirst, _ := route.ClosestPoint(first)
	_, arcLast, _ := route.ClosestPoint(last)
	return arcLast - arcFirst
}
