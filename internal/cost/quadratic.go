package cost

import (
	"gonum.org/v1/gonum/mat"
)

// ApplyInAllDimensions selects every input dimension for a QuadraticCost.
const ApplyInAllDimensions = -1

// QuadraticCost penalizes w/2 * (v_d - nominal)^2 in a single dimension, or
// summed over all dimensions when Dim is ApplyInAllDimensions.
type QuadraticCost struct {
	Weight  float64
	Dim     int
	Nominal float64
	name    string
}

func NewQuadraticCost(weight float64, dim int, nominal float64, name string) *QuadraticCost {
	return &QuadraticCost{Weight: weight, Dim: dim, Nominal: nominal, name: name}
}

func (c *QuadraticCost) Name() string { return c.name }

func (c *QuadraticCost) Evaluate(t float64, input *mat.VecDense) float64 {
	total := 0.0
	if c.Dim == ApplyInAllDimensions {
		for i := 0; i < input.Len(); i++ {
			d := input.AtVec(i) - c.Nominal
			total += d * d
		}
	} else {
		d := input.AtVec(c.Dim) - c.Nominal
		total = d * d
	}
	return 0.5 * c.Weight * total
}

func (c *QuadraticCost) Quadraticize(t float64, input *mat.VecDense, hess *mat.Dense, grad *mat.VecDense) {
	if c.Dim == ApplyInAllDimensions {
		for i := 0; i < input.Len(); i++ {
			hess.Set(i, i, hess.At(i, i)+c.Weight)
			grad.SetVec(i, grad.AtVec(i)+c.Weight*(input.AtVec(i)-c.Nominal))
		}
		return
	}
	hess.Set(c.Dim, c.Dim, hess.At(c.Dim, c.Dim)+c.Weight)
	grad.SetVec(c.Dim, grad.AtVec(c.Dim)+c.Weight*(input.AtVec(c.Dim)-c.Nominal))
}
