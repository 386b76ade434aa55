package solver

import (
	"gonum.org/v1/gonum/mat"

	"github.com/cookiew/ilqgames/internal/la"
)

// OperatingPoint is a nominal trajectory: K states, K sets of per-player
// controls, a start time, and the fixed timestep.
type OperatingPoint struct {
	Xs []*mat.VecDense
	Us [][]*mat.VecDense
	T0 float64
	Dt float64
}

// NewOperatingPoint allocates a zero operating point with K steps.
func NewOperatingPoint(steps int, xDim int, uDims []int, t0, dt float64) OperatingPoint {
	op := OperatingPoint{
		Xs: make([]*mat.VecDense, steps),
		Us: make([][]*mat.VecDense, steps),
		T0: t0,
		Dt: dt,
	}
	for k := 0; k < steps; k++ {
		op.Xs[k] = la.ZeroVec(xDim)
		op.Us[k] = make([]*mat.VecDense, len(uDims))
		for i, m := range uDims {
			op.Us[k][i] = la.ZeroVec(m)
		}
	}
	return op
}

// Steps returns the horizon length K.
func (op OperatingPoint) Steps() int { return len(op.Xs) }

// TimeAt returns the absolute time of step k.
func (op OperatingPoint) TimeAt(k int) float64 { return op.T0 + float64(k)*op.Dt }

// StepFor returns the index of the step whose interval contains t, clamped to
// the horizon.
func (op OperatingPoint) StepFor(t float64) int {
	k := int((t - op.T0) / op.Dt)
	if k < 0 {
		return 0
	}
	if k >= len(op.Xs) {
		return len(op.Xs) - 1
	}
	return k
}

// Clone returns a deep copy.
func (op OperatingPoint) Clone() OperatingPoint {
	c := OperatingPoint{
		Xs: make([]*mat.VecDense, len(op.Xs)),
		Us: make([][]*mat.VecDense, len(op.Us)),
		T0: op.T0,
		Dt: op.Dt,
	}
	for k := range op.Xs {
		c.Xs[k] = la.CloneVec(op.Xs[k])
		c.Us[k] = make([]*mat.VecDense, len(op.Us[k]))
		for i := range op.Us[k] {
			c.Us[k][i] = la.CloneVec(op.Us[k][i])
		}
	}
	return c
}
