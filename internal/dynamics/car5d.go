package dynamics

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// State layout for Car5D blocks.
const (
	CarPxIdx    = 0
	CarPyIdx    = 1
	CarThetaIdx = 2
	CarPhiIdx   = 3
	CarVIdx     = 4

	CarOmegaIdx = 0
	CarAIdx     = 1
)

// Car5D is a kinematic bicycle with state (px, py, theta, phi, v) and
// controls (omega, a), where phi is the front wheel angle and omega its rate:
//
//	dpx/dt = v cos(theta)
//	dpy/dt = v sin(theta)
//	dtheta/dt = v tan(phi) / L
//	dphi/dt = omega
//	dv/dt = a
type Car5D struct {
	InterAxleDistance float64
}

func NewCar5D(interAxleDistance float64) *Car5D {
	return &Car5D{InterAxleDistance: interAxleDistance}
}

func (c *Car5D) XDim() int { return 5 }
func (c *Car5D) UDim() int { return 2 }

func (c *Car5D) Evaluate(t float64, x, ctrl []float64) []float64 {
	theta, phi, v := x[CarThetaIdx], x[CarPhiIdx], x[CarVIdx]
	return []float64{
		v * math.Cos(theta),
		v * math.Sin(theta),
		v * math.Tan(phi) / c.InterAxleDistance,
		ctrl[CarOmegaIdx],
		ctrl[CarAIdx],
	}
}

func (c *Car5D) LinearizeContinuous(t float64, x, ctrl []float64) (*mat.Dense, *mat.Dense) {
	theta, phi, v := x[CarThetaIdx], x[CarPhiIdx], x[CarVIdx]
	st, ct := math.Sin(theta), math.Cos(theta)
	cp := math.Cos(phi)

	a := mat.NewDense(5, 5, nil)
	a.Set(CarPxIdx, CarThetaIdx, -v*st)
	a.Set(CarPxIdx, CarVIdx, ct)
	a.Set(CarPyIdx, CarThetaIdx, v*ct)
	a.Set(CarPyIdx, CarVIdx, st)
	a.Set(CarThetaIdx, CarPhiIdx, v/(c.InterAxleDistance*cp*cp))
	a.Set(CarThetaIdx, CarVIdx, math.Tan(phi)/c.InterAxleDistance)

	b := mat.NewDense(5, 2, nil)
	b.Set(CarPhiIdx, CarOmegaIdx, 1)
	b.Set(CarVIdx, CarAIdx, 1)
	return a, b
}
