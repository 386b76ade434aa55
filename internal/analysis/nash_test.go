package analysis

import (
	"testing"
	"time"

	"gonum.org/v1/gonum/mat"

	"github.com/cookiew/ilqgames/internal/cost"
	"github.com/cookiew/ilqgames/internal/dynamics"
	"github.com/cookiew/ilqgames/internal/solver"
)

// pointMass2P is the two-player 1D point mass fixture.
type pointMass2P struct{ dt float64 }

func (s pointMass2P) XDim() int           { return 2 }
func (s pointMass2P) UDim(player int) int { return 1 }
func (s pointMass2P) NumPlayers() int     { return 2 }
func (s pointMass2P) TimeStep() float64   { return s.dt }

func (s pointMass2P) Evaluate(t float64, x *mat.VecDense, us []*mat.VecDense) *mat.VecDense {
	dx := mat.NewVecDense(2, nil)
	dx.SetVec(0, x.AtVec(1)+0.05*us[0].AtVec(0)+0.032*us[1].AtVec(0))
	dx.SetVec(1, us[0].AtVec(0)+0.11*us[1].AtVec(0))
	return dx
}

func (s pointMass2P) Linearize(t float64, x *mat.VecDense, us []*mat.VecDense) dynamics.LinearApprox {
	lin := dynamics.NewLinearApprox(s)
	lin.A.Set(0, 1, s.dt)
	lin.Bs[0].Set(0, 0, 0.05*s.dt)
	lin.Bs[0].Set(1, 0, 1.0*s.dt)
	lin.Bs[1].Set(0, 0, 0.032*s.dt)
	lin.Bs[1].Set(1, 0, 0.11*s.dt)
	return lin
}

func buildCosts() []*cost.PlayerCost {
	p1 := cost.NewPlayerCost("p1")
	p1.AddStateCost(cost.NewQuadraticCost(1.0, cost.ApplyInAllDimensions, 0, "state"))
	p1.AddControlCost(0, cost.NewQuadraticCost(1.0, cost.ApplyInAllDimensions, 0, "own"))
	p1.AddControlCost(1, cost.NewQuadraticCost(0.5, cost.ApplyInAllDimensions, 0, "other"))

	p2 := cost.NewPlayerCost("p2")
	p2.AddStateCost(cost.NewQuadraticCost(2.0, cost.ApplyInAllDimensions, 0, "state"))
	p2.AddControlCost(0, cost.NewQuadraticCost(0.25, cost.ApplyInAllDimensions, 0, "other"))
	p2.AddControlCost(1, cost.NewQuadraticCost(1.0, cost.ApplyInAllDimensions, 0, "own"))

	return []*cost.PlayerCost{p1, p2}
}

func solveFixture(t *testing.T) (*solver.ILQSolver, *solver.Log) {
	t.Helper()

	const steps = 50
	s, err := solver.NewILQSolver(pointMass2P{dt: 0.1}, buildCosts(), steps, solver.DefaultParams())
	if err != nil {
		t.Fatalf("NewILQSolver: %v", err)
	}

	op := solver.NewOperatingPoint(steps, 2, []int{1, 1}, 0, 0.1)
	strategies := []solver.Strategy{
		solver.NewStrategy(steps-1, 2, 1),
		solver.NewStrategy(steps-1, 2, 1),
	}
	x0 := mat.NewVecDense(2, []float64{1, 1})

	log, err := s.Solve(x0, op, strategies, time.Time{})
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}
	if log.Termination != solver.Converged {
		t.Fatalf("expected convergence, got %s", log.Termination)
	}
	return s, log
}

func TestConvergedSolutionIsLocalNash(t *testing.T) {
	s, log := solveFixture(t)

	final := log.Final()
	ok := RandomCheckLocalNash(s, final.Op, final.Strategies, final.Op.Xs[0], 0.1, 100, 42)
	if !ok {
		t.Error("random unilateral perturbations should not reduce the deviating player's cost")
	}
}

func TestSufficientConditionsHold(t *testing.T) {
	s, log := solveFixture(t)

	if !CheckSufficientLocalNash(s, log.Final().Op) {
		t.Error("convex quadratic costs should satisfy second-order sufficiency")
	}
}

func TestSufficientConditionsFailWithIndefiniteCost(t *testing.T) {
	const steps = 10

	p1 := cost.NewPlayerCost("p1")
	// Negative state weight makes the Hessian indefinite.
	p1.AddStateCost(cost.NewQuadraticCost(-1.0, 0, 0, "bad"))
	p1.AddControlCost(0, cost.NewQuadraticCost(1.0, cost.ApplyInAllDimensions, 0, "own"))
	p2 := cost.NewPlayerCost("p2")
	p2.AddStateCost(cost.NewQuadraticCost(1.0, cost.ApplyInAllDimensions, 0, "state"))
	p2.AddControlCost(1, cost.NewQuadraticCost(1.0, cost.ApplyInAllDimensions, 0, "own"))

	s, err := solver.NewILQSolver(pointMass2P{dt: 0.1}, []*cost.PlayerCost{p1, p2}, steps, solver.DefaultParams())
	if err != nil {
		t.Fatalf("NewILQSolver: %v", err)
	}

	op := solver.NewOperatingPoint(steps, 2, []int{1, 1}, 0, 0.1)
	if CheckSufficientLocalNash(s, op) {
		t.Error("indefinite state cost must fail the sufficient check")
	}
}
