package cost

import (
	"gonum.org/v1/gonum/mat"
)

// SemiquadraticCost penalizes w/2 * (v_d - threshold)^2 only on one side of
// the threshold: above it when OrientedRight, below it otherwise.
type SemiquadraticCost struct {
	Weight        float64
	Dim           int
	Threshold     float64
	OrientedRight bool
	name          string
}

func NewSemiquadraticCost(weight float64, dim int, threshold float64, orientedRight bool, name string) *SemiquadraticCost {
	return &SemiquadraticCost{
		Weight:        weight,
		Dim:           dim,
		Threshold:     threshold,
		OrientedRight: orientedRight,
		name:          name,
	}
}

func (c *SemiquadraticCost) Name() string { return c.name }

func (c *SemiquadraticCost) active(v float64) bool {
	if c.OrientedRight {
		return v > c.Threshold
	}
	return v < c.Threshold
}

func (c *SemiquadraticCost) Evaluate(t float64, input *mat.VecDense) float64 {
	v := input.AtVec(c.Dim)
	if !c.active(v) {
		return 0
	}
	d := v - c.Threshold
	return 0.5 * c.Weight * d * d
}

func (c *SemiquadraticCost) Quadraticize(t float64, input *mat.VecDense, hess *mat.Dense, grad *mat.VecDense) {
	v := input.AtVec(c.Dim)
	if !c.active(v) {
		return
	}
	hess.Set(c.Dim, c.Dim, hess.At(c.Dim, c.Dim)+c.Weight)
	grad.SetVec(c.Dim, grad.AtVec(c.Dim)+c.Weight*(v-c.Threshold))
}
