package cost

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// ProximityCost penalizes w/2 * (d - minDistance)^2 whenever the distance d
// between two players' positions drops below minDistance. Position dims are
// (XIdx1, YIdx1) and (XIdx2, YIdx2) in the joint state.
type ProximityCost struct {
	Weight       float64
	XIdx1, YIdx1 int
	XIdx2, YIdx2 int
	MinDistance  float64
	name         string
}

func NewProximityCost(weight float64, xIdx1, yIdx1, xIdx2, yIdx2 int, minDistance float64, name string) *ProximityCost {
	return &ProximityCost{
		Weight:      weight,
		XIdx1:       xIdx1,
		YIdx1:       yIdx1,
		XIdx2:       xIdx2,
		YIdx2:       yIdx2,
		MinDistance: minDistance,
		name:        name,
	}
}

func (c *ProximityCost) Name() string { return c.name }

func (c *ProximityCost) delta(input *mat.VecDense) (dx, dy, d float64) {
	dx = input.AtVec(c.XIdx1) - input.AtVec(c.XIdx2)
	dy = input.AtVec(c.YIdx1) - input.AtVec(c.YIdx2)
	return dx, dy, math.Hypot(dx, dy)
}

func (c *ProximityCost) Evaluate(t float64, input *mat.VecDense) float64 {
	_, _, d := c.delta(input)
	if d >= c.MinDistance {
		return 0
	}
	err := d - c.MinDistance
	return 0.5 * c.Weight * err * err
}

func (c *ProximityCost) Quadraticize(t float64, input *mat.VecDense, hess *mat.Dense, grad *mat.VecDense) {
	dx, dy, d := c.delta(input)
	if d >= c.MinDistance || d == 0 {
		return
	}
	err := d - c.MinDistance

	// Unit vector from player 2 toward player 1.
	ux, uy := dx/d, dy/d

	g := c.Weight * err
	grad.SetVec(c.XIdx1, grad.AtVec(c.XIdx1)+g*ux)
	grad.SetVec(c.YIdx1, grad.AtVec(c.YIdx1)+g*uy)
	grad.SetVec(c.XIdx2, grad.AtVec(c.XIdx2)-g*ux)
	grad.SetVec(c.YIdx2, grad.AtVec(c.YIdx2)-g*uy)

	// Gauss-Newton blocks: +/- w u u^T.
	idx := []int{c.XIdx1, c.YIdx1, c.XIdx2, c.YIdx2}
	u := []float64{ux, uy, -ux, -uy}
	for i, ri := range idx {
		for j, rj := range idx {
			hess.Set(ri, rj, hess.At(ri, rj)+c.Weight*u[i]*u[j])
		}
	}
}
