// Package solver implements the iterative linear-quadratic game solver: the
// backward-pass LQ feedback Nash solve, the ILQ outer loop with line search
// and trust region, solution splicing for receding-horizon replanning, and
// the wall-clock receding-horizon driver.
package solver

import (
	"gonum.org/v1/gonum/mat"

	"github.com/cookiew/ilqgames/internal/la"
)

// Strategy is one player's affine state-feedback law over the horizon:
//
//	u_k = ubar_k - P_k (x_k - xbar_k) - alpha_k
//
// where (xbar, ubar) is the operating point the strategy references.
type Strategy struct {
	Ps     []*mat.Dense
	Alphas []*mat.VecDense
}

// NewStrategy allocates a zero strategy with the given number of steps.
func NewStrategy(steps, xDim, uDim int) Strategy {
	s := Strategy{
		Ps:     make([]*mat.Dense, steps),
		Alphas: make([]*mat.VecDense, steps),
	}
	for k := 0; k < steps; k++ {
		s.Ps[k] = la.Zeros(uDim, xDim)
		s.Alphas[k] = la.ZeroVec(uDim)
	}
	return s
}

// Control computes u = uRef - P_k (x - xRef) - stepSize * alpha_k. Steps at
// or beyond the strategy length fall back to pure reference tracking.
func (s Strategy) Control(k int, x, xRef, uRef *mat.VecDense, stepSize float64) *mat.VecDense {
	u := la.CloneVec(uRef)
	if k >= len(s.Ps) {
		return u
	}

	dx := mat.NewVecDense(x.Len(), nil)
	dx.SubVec(x, xRef)

	feedback := mat.NewVecDense(u.Len(), nil)
	feedback.MulVec(s.Ps[k], dx)

	u.SubVec(u, feedback)
	u.AddScaledVec(u, -stepSize, s.Alphas[k])
	return u
}

// ScaleAlphas multiplies every feedforward term by the accepted line-search
// step.
func (s Strategy) ScaleAlphas(stepSize float64) {
	for _, a := range s.Alphas {
		a.ScaleVec(stepSize, a)
	}
}

// Clone returns a deep copy.
func (s Strategy) Clone() Strategy {
	c := Strategy{
		Ps:     make([]*mat.Dense, len(s.Ps)),
		Alphas: make([]*mat.VecDense, len(s.Alphas)),
	}
	for k := range s.Ps {
		c.Ps[k] = la.CloneDense(s.Ps[k])
		c.Alphas[k] = la.CloneVec(s.Alphas[k])
	}
	return c
}

// CloneStrategies deep-copies a full strategy set.
func CloneStrategies(strategies []Strategy) []Strategy {
	out := make([]Strategy, len(strategies))
	for i, s := range strategies {
		out[i] = s.Clone()
	}
	return out
}
