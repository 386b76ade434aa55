package dynamics

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// Flat state layout for FlatUnicycle4D blocks.
const (
	FlatUnicycleVxIdx = 2
	FlatUnicycleVyIdx = 3
)

// FlatUnicycle4D is the feedback-linearized unicycle. The nonlinear state is
// (px, py, theta, v); flat coordinates are (px, py, vx, vy) in which the
// dynamics are a double integrator per axis.
type FlatUnicycle4D struct{}

func NewFlatUnicycle4D() *FlatUnicycle4D { return &FlatUnicycle4D{} }

func (f *FlatUnicycle4D) XDim() int { return 4 }
func (f *FlatUnicycle4D) UDim() int { return 2 }

func (f *FlatUnicycle4D) ContinuousLinear() (*mat.Dense, *mat.Dense) {
	a := mat.NewDense(4, 4, nil)
	a.Set(UnicyclePxIdx, FlatUnicycleVxIdx, 1)
	a.Set(UnicyclePyIdx, FlatUnicycleVyIdx, 1)

	b := mat.NewDense(4, 2, nil)
	b.Set(FlatUnicycleVxIdx, 0, 1)
	b.Set(FlatUnicycleVyIdx, 1, 1)
	return a, b
}

func (f *FlatUnicycle4D) ToLinearBlock(x []float64) []float64 {
	theta, v := x[UnicycleThetaIdx], x[UnicycleVIdx]
	return []float64{
		x[UnicyclePxIdx],
		x[UnicyclePyIdx],
		v * math.Cos(theta),
		v * math.Sin(theta),
	}
}

func (f *FlatUnicycle4D) FromLinearBlock(xi []float64) []float64 {
	vx, vy := xi[FlatUnicycleVxIdx], xi[FlatUnicycleVyIdx]
	return []float64{
		xi[UnicyclePxIdx],
		xi[UnicyclePyIdx],
		math.Atan2(vy, vx),
		math.Hypot(vx, vy),
	}
}
