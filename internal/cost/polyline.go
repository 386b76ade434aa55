package cost

import (
	"gonum.org/v1/gonum/mat"

	"github.com/cookiew/ilqgames/internal/geometry"
)

// QuadraticPolylineCost penalizes w/2 * d^2 where d is the distance from the
// position (state dims XIdx, YIdx) to a polyline. The Hessian uses the
// Gauss-Newton approximation, holding the closest point fixed.
type QuadraticPolylineCost struct {
	Weight     float64
	Polyline   *geometry.Polyline2
	XIdx, YIdx int
	name       string
}

func NewQuadraticPolylineCost(weight float64, polyline *geometry.Polyline2, xIdx, yIdx int, name string) *QuadraticPolylineCost {
	return &QuadraticPolylineCost{Weight: weight, Polyline: polyline, XIdx: xIdx, YIdx: yIdx, name: name}
}

func (c *QuadraticPolylineCost) Name() string { return c.name }

func (c *QuadraticPolylineCost) position(input *mat.VecDense) geometry.Point2 {
	return geometry.Point2{X: input.AtVec(c.XIdx), Y: input.AtVec(c.YIdx)}
}

func (c *QuadraticPolylineCost) Evaluate(t float64, input *mat.VecDense) float64 {
	p := c.position(input)
	closest, _, _ := c.Polyline.ClosestPoint(p)
	d := p.DistanceTo(closest)
	return 0.5 * c.Weight * d * d
}

func (c *QuadraticPolylineCost) Quadraticize(t float64, input *mat.VecDense, hess *mat.Dense, grad *mat.VecDense) {
	p := c.position(input)
	closest, _, _ := c.Polyline.ClosestPoint(p)
	dv := p.Sub(closest)

	grad.SetVec(c.XIdx, grad.AtVec(c.XIdx)+c.Weight*dv.X)
	grad.SetVec(c.YIdx, grad.AtVec(c.YIdx)+c.Weight*dv.Y)
	hess.Set(c.XIdx, c.XIdx, hess.At(c.XIdx, c.XIdx)+c.Weight)
	hess.Set(c.YIdx, c.YIdx, hess.At(c.YIdx, c.YIdx)+c.Weight)
}

// SemiquadraticPolylineCost penalizes lateral deviation beyond a signed
// threshold from a polyline, on one side only. Signed distance is positive to
// the right of the travel direction.
type SemiquadraticPolylineCost struct {
	Weight        float64
	Polyline      *geometry.Polyline2
	XIdx, YIdx    int
	Threshold     float64
	OrientedRight bool
	name          string
}

func NewSemiquadraticPolylineCost(weight float64, polyline *geometry.Polyline2, xIdx, yIdx int, threshold float64, orientedRight bool, name string) *SemiquadraticPolylineCost {
	return &SemiquadraticPolylineCost{
		Weight:        weight,
		Polyline:      polyline,
		XIdx:          xIdx,
		YIdx:          yIdx,
		Threshold:     threshold,
		OrientedRight: orientedRight,
		name:          name,
	}
}

func (c *SemiquadraticPolylineCost) Name() string { return c.name }

func (c *SemiquadraticPolylineCost) active(signed float64) bool {
	if c.OrientedRight {
		return signed > c.Threshold
	}
	return signed < c.Threshold
}

func (c *SemiquadraticPolylineCost) Evaluate(t float64, input *mat.VecDense) float64 {
	p := geometry.Point2{X: input.AtVec(c.XIdx), Y: input.AtVec(c.YIdx)}
	_, _, signed := c.Polyline.ClosestPoint(p)
	if !c.active(signed) {
		return 0
	}
	d := signed - c.Threshold
	return 0.5 * c.Weight * d * d
}

func (c *SemiquadraticPolylineCost) Quadraticize(t float64, input *mat.VecDense, hess *mat.Dense, grad *mat.VecDense) {
	p := geometry.Point2{X: input.AtVec(c.XIdx), Y: input.AtVec(c.YIdx)}
	closest, _, signed := c.Polyline.ClosestPoint(p)
	if !c.active(signed) || signed == 0 {
		return
	}

	// d(signed)/dp = (p - closest)/signed.
	dv := p.Sub(closest).Scale(1 / signed)
	err := signed - c.Threshold

	grad.SetVec(c.XIdx, grad.AtVec(c.XIdx)+c.Weight*err*dv.X)
	grad.SetVec(c.YIdx, grad.AtVec(c.YIdx)+c.Weight*err*dv.Y)

	hess.Set(c.XIdx, c.XIdx, hess.At(c.XIdx, c.XIdx)+c.Weight*dv.X*dv.X)
	hess.Set(c.XIdx, c.YIdx, hess.At(c.XIdx, c.YIdx)+c.Weight*dv.X*dv.Y)
	hess.Set(c.YIdx, c.XIdx, hess.At(c.YIdx, c.XIdx)+c.Weight*dv.Y*dv.X)
	hess.Set(c.YIdx, c.YIdx, hess.At(c.YIdx, c.YIdx)+c.Weight*dv.Y*dv.Y)
}
