package dynamics

import (
	"gonum.org/v1/gonum/mat"
)

// RK4Step advances the system by one explicit Runge-Kutta 4 step of length dt
// with the controls held constant.
func RK4Step(sys System, t float64, x *mat.VecDense, us []*mat.VecDense, dt float64) *mat.VecDense {
	n := x.Len()

	k1 := sys.Evaluate(t, x, us)

	scratch := mat.NewVecDense(n, nil)
	scratch.AddScaledVec(x, 0.5*dt, k1)
	k2 := sys.Evaluate(t+0.5*dt, scratch, us)

	scratch.AddScaledVec(x, 0.5*dt, k2)
	k3 := sys.Evaluate(t+0.5*dt, scratch, us)

	scratch.AddScaledVec(x, dt, k3)
	k4 := sys.Evaluate(t+dt, scratch, us)

	next := mat.NewVecDense(n, nil)
	next.CopyVec(x)
	next.AddScaledVec(next, dt/6, k1)
	next.AddScaledVec(next, dt/3, k2)
	next.AddScaledVec(next, dt/3, k3)
	next.AddScaledVec(next, dt/6, k4)
	return next
}
