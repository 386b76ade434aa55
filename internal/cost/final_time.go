package cost

import (
	"gonum.org/v1/gonum/mat"
)

// FinalTimeCost activates an inner term only from a given time onward, e.g.
// goal costs that should bind near the end of the horizon.
type FinalTimeCost struct {
	Inner       Term
	ActiveAfter float64
}

func NewFinalTimeCost(inner Term, activeAfter float64) *FinalTimeCost {
	return &FinalTimeCost{Inner: inner, ActiveAfter: activeAfter}
}

func (c *FinalTimeCost) Name() string { return c.Inner.Name() }

func (c *FinalTimeCost) Evaluate(t float64, input *mat.VecDense) float64 {
	if t < c.ActiveAfter {
		return 0
	}
	return c.Inner.Evaluate(t, input)
}

func (c *FinalTimeCost) Quadraticize(t float64, input *mat.VecDense, hess *mat.Dense, grad *mat.VecDense) {
	if t < c.ActiveAfter {
		return
	}
	c.Inner.Quadraticize(t, input, hess, grad)
}
