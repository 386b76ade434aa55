package dynamics

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// Nonlinear state layout for FlatCar6D blocks.
const (
	FlatCarPxIdx    = 0
	FlatCarPyIdx    = 1
	FlatCarThetaIdx = 2
	FlatCarPhiIdx   = 3
	FlatCarVIdx     = 4
	FlatCarAIdx     = 5

	// Flat coordinates: (px, py, vx, vy, ax, ay).
	FlatCarVxIdx = 2
	FlatCarVyIdx = 3
	FlatCarAxIdx = 4
	FlatCarAyIdx = 5
)

// speed floor guarding the inverse diffeomorphism near v = 0
const flatCarMinSpeed = 1e-3

// FlatCar6D is the feedback-linearized kinematic bicycle with state
// (px, py, theta, phi, v, a). Flat coordinates (px, py, vx, vy, ax, ay) obey
// a triple integrator per axis.
type FlatCar6D struct {
	InterAxleDistance float64
}

func NewFlatCar6D(interAxleDistance float64) *FlatCar6D {
	return &FlatCar6D{InterAxleDistance: interAxleDistance}
}

func (f *FlatCar6D) XDim() int { return 6 }
func (f *FlatCar6D) UDim() int { return 2 }

func (f *FlatCar6D) ContinuousLinear() (*mat.Dense, *mat.Dense) {
	a := mat.NewDense(6, 6, nil)
	a.Set(FlatCarPxIdx, FlatCarVxIdx, 1)
	a.Set(FlatCarPyIdx, FlatCarVyIdx, 1)
	a.Set(FlatCarVxIdx, FlatCarAxIdx, 1)
	a.Set(FlatCarVyIdx, FlatCarAyIdx, 1)

	b := mat.NewDense(6, 2, nil)
	b.Set(FlatCarAxIdx, 0, 1)
	b.Set(FlatCarAyIdx, 1, 1)
	return a, b
}

func (f *FlatCar6D) ToLinearBlock(x []float64) []float64 {
	theta := x[FlatCarThetaIdx]
	phi := x[FlatCarPhiIdx]
	v := x[FlatCarVIdx]
	a := x[FlatCarAIdx]
	st, ct := math.Sin(theta), math.Cos(theta)
	kappa := math.Tan(phi) / f.InterAxleDistance

	return []float64{
		x[FlatCarPxIdx],
		x[FlatCarPyIdx],
		v * ct,
		v * st,
		a*ct - v*v*kappa*st,
		a*st + v*v*kappa*ct,
	}
}

func (f *FlatCar6D) FromLinearBlock(xi []float64) []float64 {
	vx, vy := xi[FlatCarVxIdx], xi[FlatCarVyIdx]
	ax, ay := xi[FlatCarAxIdx], xi[FlatCarAyIdx]

	v := math.Hypot(vx, vy)
	theta := math.Atan2(vy, vx)
	vSafe := math.Max(v, flatCarMinSpeed)
	a := (vx*ax + vy*ay) / vSafe
	phi := math.Atan2(f.InterAxleDistance*(vx*ay-vy*ax), vSafe*vSafe*vSafe)

	return []float64{
		xi[FlatCarPxIdx],
		xi[FlatCarPyIdx],
		theta,
		phi,
		v,
		a,
	}
}
