package solver

import (
	"fmt"
	"math"
	"time"

	"gonum.org/v1/gonum/mat"

	"github.com/cookiew/ilqgames/internal/cost"
	"github.com/cookiew/ilqgames/internal/dynamics"
	"github.com/cookiew/ilqgames/internal/la"
)

// Problem bundles dynamics, player costs, an initial state, and the current
// warm start (operating point plus strategies). It is the unit the
// receding-horizon driver re-solves and re-anchors as time advances.
type Problem struct {
	solver     *ILQSolver
	x0         *mat.VecDense
	op         OperatingPoint
	strategies []Strategy
}

func NewProblem(sys dynamics.System, costs []*cost.PlayerCost, steps int, params Params, x0 *mat.VecDense, op OperatingPoint, strategies []Strategy) (*Problem, error) {
	s, err := NewILQSolver(sys, costs, steps, params)
	if err != nil {
		return nil, err
	}
	if x0.Len() != sys.XDim() {
		return nil, fmt.Errorf("initial state has dimension %d, want %d", x0.Len(), sys.XDim())
	}
	if op.Steps() != steps {
		return nil, fmt.Errorf("operating point has %d steps, want %d", op.Steps(), steps)
	}
	for i, st := range strategies {
		if len(st.Ps) != steps-1 || len(st.Alphas) != steps-1 {
			return nil, fmt.Errorf("player %d strategy has %d steps, want %d", i, len(st.Ps), steps-1)
		}
	}
	return &Problem{
		solver:     s,
		x0:         la.CloneVec(x0),
		op:         op.Clone(),
		strategies: CloneStrategies(strategies),
	}, nil
}

func (p *Problem) Solver() *ILQSolver           { return p.solver }
func (p *Problem) Dynamics() dynamics.System    { return p.solver.Dynamics() }
func (p *Problem) InitialState() *mat.VecDense    { return la.CloneVec(p.x0) }
func (p *Problem) OperatingPoint() OperatingPoint { return p.op.Clone() }
func (p *Problem) Strategies() []Strategy         { return CloneStrategies(p.strategies) }

// Solve runs the ILQ loop from the current warm start. A non-positive
// timeout means no deadline. On success the problem's warm start is updated
// to the final iterate.
func (p *Problem) Solve(timeout time.Duration) (*Log, error) {
	var deadline time.Time
	if timeout > 0 {
		deadline = time.Now().Add(timeout)
	}
	log, err := p.solver.Solve(p.x0, p.op, p.strategies, deadline)
	if err != nil {
		return nil, err
	}
	p.op = log.FinalOperatingPoint()
	p.strategies = log.FinalStrategies()
	return log, nil
}

// OverwriteSolution replaces the warm start, e.g. with a spliced plan.
func (p *Problem) OverwriteSolution(op OperatingPoint, strategies []Strategy) {
	p.op = op.Clone()
	p.strategies = CloneStrategies(strategies)
}

// SetUpNextRecedingHorizon re-anchors the problem at the first step boundary
// at least plannerRuntime ahead of tNow: the initial state becomes the
// prediction of xNow under the current plan at that boundary, and the
// operating point is shifted so its head aligns there, extrapolating the
// tail by integrating with the last controls held constant.
func (p *Problem) SetUpNextRecedingHorizon(xNow *mat.VecDense, tNow float64, plannerRuntime time.Duration) error {
	dt := p.op.Dt
	tPlan := tNow + plannerRuntime.Seconds()
	kStart := int(math.Ceil((tPlan - p.op.T0 - timeEpsilon) / dt))
	if kStart < 0 {
		kStart = 0
	}
	if kStart >= p.op.Steps() {
		return fmt.Errorf("planning start %g beyond current plan end %g", tPlan, p.op.TimeAt(p.op.Steps()-1))
	}
	tStart := p.op.TimeAt(kStart)

	// Predict the state at the planning start under the current plan.
	x := IntegratePlan(p.Dynamics(), tNow, tStart, xNow, p.op, p.strategies)

	// Re-anchor onto the solver's fixed horizon; the current plan may be
	// longer after splicing.
	steps := p.solver.Steps()
	sys := p.Dynamics()
	uDims := make([]int, sys.NumPlayers())
	for i := range uDims {
		uDims[i] = sys.UDim(i)
	}

	planSteps := p.op.Steps()
	shifted := NewOperatingPoint(steps, sys.XDim(), uDims, tStart, dt)
	for k := 0; k < steps; k++ {
		src := kStart + k
		if src < planSteps {
			shifted.Xs[k].CopyVec(p.op.Xs[src])
			for i := range shifted.Us[k] {
				shifted.Us[k][i].CopyVec(p.op.Us[src][i])
			}
		} else {
			// Extrapolate past the old horizon with the last controls.
			for i := range shifted.Us[k] {
				shifted.Us[k][i].CopyVec(p.op.Us[planSteps-1][i])
			}
			shifted.Xs[k].CopyVec(dynamics.RK4Step(sys, shifted.TimeAt(k-1), shifted.Xs[k-1], shifted.Us[k-1], dt))
		}
	}
	shifted.Xs[0].CopyVec(x)

	shiftedStrategies := make([]Strategy, len(p.strategies))
	for i, st := range p.strategies {
		ns := NewStrategy(steps-1, sys.XDim(), sys.UDim(i))
		for k := 0; k < steps-1; k++ {
			src := kStart + k
			if src < len(st.Ps) {
				ns.Ps[k].Copy(st.Ps[src])
				ns.Alphas[k].CopyVec(st.Alphas[src])
			} else if len(st.Ps) > 0 {
				ns.Ps[k].Copy(st.Ps[len(st.Ps)-1])
			}
		}
		shiftedStrategies[i] = ns
	}

	p.x0 = la.CloneVec(x)
	p.op = shifted
	p.strategies = shiftedStrategies
	return nil
}
