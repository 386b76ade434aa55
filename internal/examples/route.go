package examples

import (
	"github.com/cookiew/ilqgames/internal/geometry"
	"github.com/cookiew/ilqgames/internal/solver"
)

// InitializeAlongRoute seeds one player's position dimensions of an operating
// point by traveling the route at constant speed from the given arc length.
// Other dimensions are left untouched.
func InitializeAlongRoute(route *geometry.Polyline2, initialArc, speed float64, xIdx, yIdx int, op *solver.OperatingPoint) {
	for k := 0; k < op.Steps(); k++ {
		arc := initialArc + speed*float64(k)*op.Dt
		p, _ := route.PointAt(arc)
		op.Xs[k].SetVec(xIdx, p.X)
		op.Xs[k].SetVec(yIdx, p.Y)
	}
}
