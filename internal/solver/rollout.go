package solver

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/cookiew/ilqgames/internal/dynamics"
	"github.com/cookiew/ilqgames/internal/la"
)

const timeEpsilon = 1e-9

// Simulate rolls the nonlinear dynamics forward from x0 under the strategies
// applied as affine feedback around ref, with no trust region.
func Simulate(sys dynamics.System, ref OperatingPoint, strategies []Strategy, x0 *mat.VecDense, stepSize float64) OperatingPoint {
	return rollout(sys, ref, strategies, x0, stepSize, nil, 0)
}

// rollout simulates the nonlinear dynamics forward from x0, applying the
// given strategies as affine feedback around the reference operating point
// with the feedforward scaled by stepSize. When clampDims is non-empty, each
// new state's deviation from the reference is clamped to clampDelta in those
// dimensions before the next step (the trust region; feedforward terms are
// never clamped).
func rollout(sys dynamics.System, ref OperatingPoint, strategies []Strategy, x0 *mat.VecDense, stepSize float64, clampDims []int, clampDelta float64) OperatingPoint {
	steps := ref.Steps()
	uDims := make([]int, sys.NumPlayers())
	for i := range uDims {
		uDims[i] = sys.UDim(i)
	}
	op := NewOperatingPoint(steps, sys.XDim(), uDims, ref.T0, ref.Dt)

	x := la.CloneVec(x0)
	for k := 0; k < steps; k++ {
		op.Xs[k].CopyVec(x)

		us := make([]*mat.VecDense, sys.NumPlayers())
		for i := range us {
			us[i] = strategies[i].Control(k, x, ref.Xs[k], ref.Us[k][i], stepSize)
			op.Us[k][i].CopyVec(us[i])
		}

		if k+1 < steps {
			x = dynamics.RK4Step(sys, ref.TimeAt(k), x, us, ref.Dt)
			clampState(x, ref.Xs[k+1], clampDims, clampDelta)
		}
	}
	return op
}

func clampState(x, ref *mat.VecDense, dims []int, delta float64) {
	for _, d := range dims {
		lo, hi := ref.AtVec(d)-delta, ref.AtVec(d)+delta
		v := x.AtVec(d)
		if v < lo {
			x.SetVec(d, lo)
		} else if v > hi {
			x.SetVec(d, hi)
		}
	}
}

// IntegratePlan advances the state from t0 to t1 under the current plan:
// within each timestep the controls are held constant at the plan's feedback
// law, and partial timesteps at either end use the truncated sub-interval.
func IntegratePlan(sys dynamics.System, t0, t1 float64, x0 *mat.VecDense, op OperatingPoint, strategies []Strategy) *mat.VecDense {
	x := la.CloneVec(x0)
	t := t0
	for t < t1-timeEpsilon {
		k := op.StepFor(t)
		stepEnd := op.TimeAt(k + 1)
		dt := math.Min(t1, stepEnd) - t
		if dt < timeEpsilon {
			dt = t1 - t
		}

		us := make([]*mat.VecDense, sys.NumPlayers())
		for i := range us {
			us[i] = strategies[i].Control(k, x, op.Xs[k], op.Us[k][i], 1.0)
		}
		x = dynamics.RK4Step(sys, t, x, us, dt)
		t += dt
	}
	return x
}
