package cost

import (
	"gonum.org/v1/gonum/mat"

	"github.com/cookiew/ilqgames/internal/geometry"
)

// RouteProgressCost penalizes distance from the point a nominal-speed
// traveler would have reached along a route: w/2 * |p - route(s0 + v(t-t0))|^2.
type RouteProgressCost struct {
	Weight       float64
	NominalSpeed float64
	Polyline     *geometry.Polyline2
	XIdx, YIdx   int
	InitialArc   float64
	InitialTime  float64
	name         string
}

func NewRouteProgressCost(weight, nominalSpeed float64, polyline *geometry.Polyline2, xIdx, yIdx int, initialArc, initialTime float64, name string) *RouteProgressCost {
	return &RouteProgressCost{
		Weight:       weight,
		NominalSpeed: nominalSpeed,
		Polyline:     polyline,
		XIdx:         xIdx,
		YIdx:         yIdx,
		InitialArc:   initialArc,
		InitialTime:  initialTime,
		name:         name,
	}
}

func (c *RouteProgressCost) Name() string { return c.name }

func (c *RouteProgressCost) nominal(t float64) geometry.Point2 {
	arc := c.InitialArc + c.NominalSpeed*(t-c.InitialTime)
	p, _ := c.Polyline.PointAt(arc)
	return p
}

func (c *RouteProgressCost) Evaluate(t float64, input *mat.VecDense) float64 {
	target := c.nominal(t)
	dx := input.AtVec(c.XIdx) - target.X
	dy := input.AtVec(c.YIdx) - target.Y
	return 0.5 * c.Weight * (dx*dx + dy*dy)
}

func (c *RouteProgressCost) Quadraticize(t float64, input *mat.VecDense, hess *mat.Dense, grad *mat.VecDense) {
	target := c.nominal(t)
	grad.SetVec(c.XIdx, grad.AtVec(c.XIdx)+c.Weight*(input.AtVec(c.XIdx)-target.X))
	grad.SetVec(c.YIdx, grad.AtVec(c.YIdx)+c.Weight*(input.AtVec(c.YIdx)-target.Y))
	hess.Set(c.XIdx, c.XIdx, hess.At(c.XIdx, c.XIdx)+c.Weight)
	hess.Set(c.YIdx, c.YIdx, hess.At(c.YIdx, c.YIdx)+c.Weight)
}
