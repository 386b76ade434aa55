// Package examples constructs ready-to-solve game problems: a linear
// two-player point mass, a nonlinear two-player overtaking scenario, and a
// four-player flat roundabout merge.
package examples

import (
	"gonum.org/v1/gonum/mat"

	"github.com/cookiew/ilqgames/internal/cost"
	"github.com/cookiew/ilqgames/internal/dynamics"
	"github.com/cookiew/ilqgames/internal/la"
	"github.com/cookiew/ilqgames/internal/solver"
)

// TwoPlayerPointMass1D is a time-invariant linear system: a 1D point mass
// (position, velocity) pushed by two players:
//
//	dx/dt = A x + B1 u1 + B2 u2
type TwoPlayerPointMass1D struct {
	a      *mat.Dense
	b1, b2 *mat.VecDense
	dt     float64
}

func NewTwoPlayerPointMass1D(dt float64) *TwoPlayerPointMass1D {
	a := la.Zeros(2, 2)
	a.Set(0, 1, 1)
	return &TwoPlayerPointMass1D{
		a:  a,
		b1: mat.NewVecDense(2, []float64{0.05, 1.0}),
		b2: mat.NewVecDense(2, []float64{0.032, 0.11}),
		dt: dt,
	}
}

func (s *TwoPlayerPointMass1D) XDim() int           { return 2 }
func (s *TwoPlayerPointMass1D) UDim(player int) int { return 1 }
func (s *TwoPlayerPointMass1D) NumPlayers() int     { return 2 }
func (s *TwoPlayerPointMass1D) TimeStep() float64   { return s.dt }

func (s *TwoPlayerPointMass1D) Evaluate(t float64, x *mat.VecDense, us []*mat.VecDense) *mat.VecDense {
	dx := mat.NewVecDense(2, nil)
	dx.MulVec(s.a, x)
	dx.AddScaledVec(dx, us[0].AtVec(0), s.b1)
	dx.AddScaledVec(dx, us[1].AtVec(0), s.b2)
	return dx
}

func (s *TwoPlayerPointMass1D) Linearize(t float64, x *mat.VecDense, us []*mat.VecDense) dynamics.LinearApprox {
	lin := dynamics.NewLinearApprox(s)
	for r := 0; r < 2; r++ {
		for c := 0; c < 2; c++ {
			lin.A.Set(r, c, lin.A.At(r, c)+s.dt*s.a.At(r, c))
		}
		lin.Bs[0].Set(r, 0, s.dt*s.b1.AtVec(r))
		lin.Bs[1].Set(r, 0, s.dt*s.b2.AtVec(r))
	}
	return lin
}

var _ dynamics.System = (*TwoPlayerPointMass1D)(nil)

// PointMassCosts builds the quadratic costs of the classic two-player
// fixture: Q1 = I, Q2 = 2I, R11 = R22 = 1, R12 = 0.5, R21 = 0.25.
func PointMassCosts() []*cost.PlayerCost {
	p1 := cost.NewPlayerCost("player1")
	p1.AddStateCost(cost.NewQuadraticCost(1.0, cost.ApplyInAllDimensions, 0, "State"))
	p1.AddControlCost(0, cost.NewQuadraticCost(1.0, cost.ApplyInAllDimensions, 0, "OwnControl"))
	p1.AddControlCost(1, cost.NewQuadraticCost(0.5, cost.ApplyInAllDimensions, 0, "OtherControl"))

	p2 := cost.NewPlayerCost("player2")
	p2.AddStateCost(cost.NewQuadraticCost(2.0, cost.ApplyInAllDimensions, 0, "State"))
	p2.AddControlCost(0, cost.NewQuadraticCost(0.25, cost.ApplyInAllDimensions, 0, "OtherControl"))
	p2.AddControlCost(1, cost.NewQuadraticCost(1.0, cost.ApplyInAllDimensions, 0, "OwnControl"))

	return []*cost.PlayerCost{p1, p2}
}

// NewPointMassProblem assembles the full problem with a zero operating point
// and zero initial strategies.
func NewPointMassProblem(steps int, dt float64, params solver.Params) (*solver.Problem, error) {
	sys := NewTwoPlayerPointMass1D(dt)
	costs := PointMassCosts()

	op := solver.NewOperatingPoint(steps, sys.XDim(), []int{1, 1}, 0, dt)
	strategies := []solver.Strategy{
		solver.NewStrategy(steps-1, sys.XDim(), 1),
		solver.NewStrategy(steps-1, sys.XDim(), 1),
	}
	x0 := mat.NewVecDense(2, []float64{1, 1})

	return solver.NewProblem(sys, costs, steps, params, x0, op, strategies)
}
