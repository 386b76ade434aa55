package dynamics

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// State layout for Unicycle4D blocks.
const (
	UnicyclePxIdx    = 0
	UnicyclePyIdx    = 1
	UnicycleThetaIdx = 2
	UnicycleVIdx     = 3

	UnicycleOmegaIdx = 0
	UnicycleAIdx     = 1
)

// Unicycle4D models a planar vehicle with state (px, py, theta, v) and
// controls (omega, a):
//
//	dpx/dt = v cos(theta)
//	dpy/dt = v sin(theta)
//	dtheta/dt = omega
//	dv/dt = a
type Unicycle4D struct{}

func NewUnicycle4D() *Unicycle4D { return &Unicycle4D{} }

func (u *Unicycle4D) XDim() int { return 4 }
func (u *Unicycle4D) UDim() int { return 2 }

func (u *Unicycle4D) Evaluate(t float64, x, ctrl []float64) []float64 {
	theta, v := x[UnicycleThetaIdx], x[UnicycleVIdx]
	return []float64{
		v * math.Cos(theta),
		v * math.Sin(theta),
		ctrl[UnicycleOmegaIdx],
		ctrl[UnicycleAIdx],
	}
}

func (u *Unicycle4D) LinearizeContinuous(t float64, x, ctrl []float64) (*mat.Dense, *mat.Dense) {
	theta, v := x[UnicycleThetaIdx], x[UnicycleVIdx]
	st, ct := math.Sin(theta), math.Cos(theta)

	a := mat.NewDense(4, 4, nil)
	a.Set(UnicyclePxIdx, UnicycleThetaIdx, -v*st)
	a.Set(UnicyclePxIdx, UnicycleVIdx, ct)
	a.Set(UnicyclePyIdx, UnicycleThetaIdx, v*ct)
	a.Set(UnicyclePyIdx, UnicycleVIdx, st)

	b := mat.NewDense(4, 2, nil)
	b.Set(UnicycleThetaIdx, UnicycleOmegaIdx, 1)
	b.Set(UnicycleVIdx, UnicycleAIdx, 1)
	return a, b
}
