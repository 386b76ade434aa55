package solver

import (
	"fmt"
	"math"
	"runtime"
	"sync"
	"time"

	"gonum.org/v1/gonum/mat"

	"github.com/cookiew/ilqgames/internal/cost"
	"github.com/cookiew/ilqgames/internal/dynamics"
	"github.com/cookiew/ilqgames/internal/la"
)

// ILQSolver is the outer loop: it repeatedly linearizes and quadraticizes
// about the current operating point, solves the resulting LQ game, and
// line-searches the candidate strategies until convergence, divergence, the
// iteration cap, or an expired deadline.
//
// For feedback-linearizable systems the loop operates entirely in flat
// coordinates: operating points hold flat states, costs declared on the
// nonlinear state are composed with the inverse diffeomorphism, and the LQ
// solver only ever sees the linear system.
type ILQSolver struct {
	sys    dynamics.System
	flat   dynamics.FlatSystem
	costs  []*cost.PlayerCost
	steps  int
	params Params
	lq     *LQFeedbackSolver
}

func NewILQSolver(sys dynamics.System, costs []*cost.PlayerCost, steps int, params Params) (*ILQSolver, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	if steps < 1 {
		return nil, fmt.Errorf("horizon must have at least one step, got %d", steps)
	}
	if len(costs) != sys.NumPlayers() {
		return nil, fmt.Errorf("have %d player costs for %d players", len(costs), sys.NumPlayers())
	}
	for i, pc := range costs {
		if !pc.HasControlCost(i) {
			return nil, fmt.Errorf("player %d has no cost on its own control", i)
		}
	}
	for _, d := range params.TrustRegionDimensions {
		if d < 0 || d >= sys.XDim() {
			return nil, fmt.Errorf("trust region dimension %d out of range [0, %d)", d, sys.XDim())
		}
	}

	s := &ILQSolver{
		sys:    sys,
		costs:  costs,
		steps:  steps,
		params: params,
		lq:     NewLQFeedbackSolver(sys, steps),
	}
	if flat, ok := sys.(dynamics.FlatSystem); ok {
		s.flat = flat
	}
	return s, nil
}

func (s *ILQSolver) Dynamics() dynamics.System { return s.sys }
func (s *ILQSolver) Params() Params            { return s.params }
func (s *ILQSolver) TimeStep() float64         { return s.sys.TimeStep() }
func (s *ILQSolver) Steps() int                { return s.steps }

// Values exposes the quadratic value functions from the most recent LQ solve.
func (s *ILQSolver) Values() [][]ValueFunction { return s.lq.Values() }

// Solve runs ILQ iterations from the given warm start until a termination
// condition. A zero deadline means no time limit. The deadline is only
// checked at iteration boundaries, so a backward pass is never interrupted;
// on timeout the last accepted iterate is returned (the warm start itself if
// nothing was accepted).
func (s *ILQSolver) Solve(x0 *mat.VecDense, op OperatingPoint, strategies []Strategy, deadline time.Time) (*Log, error) {
	if op.Steps() != s.steps {
		return nil, fmt.Errorf("operating point has %d steps, want %d", op.Steps(), s.steps)
	}
	if len(strategies) != s.sys.NumPlayers() {
		return nil, fmt.Errorf("have %d strategies for %d players", len(strategies), s.sys.NumPlayers())
	}

	log := NewLog(op.T0, op.Dt, s.steps)

	// Establish the operating point implied by the warm start: simulate the
	// incoming strategies forward from the true initial state. For a
	// consistent warm start this reproduces the input operating point.
	current := rollout(s.sys, op, strategies, x0, 1.0, nil, 0)
	currentStrategies := CloneStrategies(strategies)
	currentCosts := s.TotalCosts(current)
	currentMerit := s.merit(currentCosts)

	// First iterate is always the input.
	log.Add(current, currentStrategies, currentCosts, 0)

	consecutiveRejects := 0
	acceptedAny := false

	for iter := 1; iter <= s.params.MaxIterations; iter++ {
		if !deadline.IsZero() && time.Now().After(deadline) {
			log.Termination = DeadlineExceeded
			break
		}

		lin, quad := s.LQApproximation(current)
		candidate, warnings, err := s.lq.Solve(lin, quad)
		log.Warnings += warnings
		if err != nil {
			return nil, err
		}

		trial, trialCosts, stepSize, accepted := s.lineSearch(x0, current, candidate, currentMerit)
		if !accepted {
			consecutiveRejects++
			if consecutiveRejects >= s.params.DivergenceIterations {
				log.Termination = Diverged
				break
			}
			continue
		}
		consecutiveRejects = 0

		maxDx, maxDu := deviations(trial, current)
		trialMerit := s.merit(trialCosts)
		improvement := currentMerit - trialMerit

		// The trial already contains the scaled feedforward, so relative to
		// the trial the strategies carry none: with zero alphas, rolling them
		// out from x0 around the trial reproduces the trial.
		for i := range candidate {
			for _, a := range candidate[i].Alphas {
				a.Zero()
			}
		}
		current = trial
		currentStrategies = candidate
		currentCosts = trialCosts
		currentMerit = trialMerit

		acceptedAny = true
		if s.params.LogEveryIterate {
			log.Add(current, currentStrategies, currentCosts, stepSize)
		}

		if maxDx < s.params.ConvergenceTolState ||
			maxDu < s.params.ConvergenceTolControl ||
			improvement < s.params.ConvergenceTolCost {
			log.Termination = Converged
			break
		}
	}

	if log.Termination == "" {
		log.Termination = IterationCap
	}
	if acceptedAny && !s.params.LogEveryIterate {
		log.Add(current, currentStrategies, currentCosts, 1)
	}
	return log, nil
}

// lineSearch shrinks the feedforward scale until the merit function stops
// increasing, or gives up at the floor.
func (s *ILQSolver) lineSearch(x0 *mat.VecDense, current OperatingPoint, candidate []Strategy, currentMerit float64) (OperatingPoint, []float64, float64, bool) {
	eta := s.params.LineSearchStepInit
	for {
		trial := rollout(s.sys, current, candidate, x0, eta,
			s.params.TrustRegionDimensions, s.params.TrustRegionDelta)
		trialCosts := s.TotalCosts(trial)
		trialMerit := s.merit(trialCosts)

		if !math.IsNaN(trialMerit) && trialMerit <= currentMerit+s.params.MeritTolerance {
			return trial, trialCosts, eta, true
		}
		if eta <= s.params.LineSearchStepMin {
			return OperatingPoint{}, nil, 0, false
		}
		eta = math.Max(eta*s.params.LineSearchShrink, s.params.LineSearchStepMin)
	}
}

// LQApproximation computes the LQ approximation along the operating
// point. Per-step work is independent, so it fans out across the horizon and
// joins before the backward pass.
func (s *ILQSolver) LQApproximation(op OperatingPoint) ([]dynamics.LinearApprox, [][]cost.QuadraticApprox) {
	lin := make([]dynamics.LinearApprox, s.steps)
	quad := make([][]cost.QuadraticApprox, s.steps)

	workers := runtime.NumCPU()
	if workers > s.steps {
		workers = s.steps
	}
	var wg sync.WaitGroup
	chunk := (s.steps + workers - 1) / workers
	for w := 0; w < workers; w++ {
		lo := w * chunk
		hi := lo + chunk
		if hi > s.steps {
			hi = s.steps
		}
		if lo >= hi {
			break
		}
		wg.Add(1)
		go func(lo, hi int) {
			defer wg.Done()
			for k := lo; k < hi; k++ {
				t := op.TimeAt(k)
				lin[k] = s.sys.Linearize(t, op.Xs[k], op.Us[k])
				quad[k] = s.quadraticizeStep(t, op.Xs[k], op.Us[k])
			}
		}(lo, hi)
	}
	wg.Wait()
	return lin, quad
}

func (s *ILQSolver) quadraticizeStep(t float64, x *mat.VecDense, us []*mat.VecDense) []cost.QuadraticApprox {
	xCost := x
	if s.flat != nil {
		xCost = s.flat.FromLinearState(x)
	}
	out := make([]cost.QuadraticApprox, len(s.costs))
	for i, pc := range s.costs {
		approx := pc.Quadraticize(t, xCost, us)
		if s.flat != nil {
			transformQuadraticization(s.flat, x, &approx)
		}
		la.Symmetrize(approx.Q)
		out[i] = approx
	}
	return out
}

// TotalCosts evaluates each player's cost summed along the operating point.
func (s *ILQSolver) TotalCosts(op OperatingPoint) []float64 {
	totals := make([]float64, len(s.costs))
	for k := 0; k < op.Steps(); k++ {
		t := op.TimeAt(k)
		x := op.Xs[k]
		if s.flat != nil {
			x = s.flat.FromLinearState(x)
		}
		for i, pc := range s.costs {
			totals[i] += pc.Evaluate(t, x, op.Us[k])
		}
	}
	return totals
}

func (s *ILQSolver) merit(costs []float64) float64 {
	switch s.params.Merit {
	case MeritMax:
		m := math.Inf(-1)
		for _, c := range costs {
			m = math.Max(m, c)
		}
		return m
	default:
		sum := 0.0
		for _, c := range costs {
			sum += c
		}
		return sum
	}
}

func deviations(a, b OperatingPoint) (maxDx, maxDu float64) {
	for k := 0; k < a.Steps(); k++ {
		maxDx = math.Max(maxDx, la.MaxAbsDiff(a.Xs[k], b.Xs[k]))
		for i := range a.Us[k] {
			maxDu = math.Max(maxDu, la.MaxAbsDiff(a.Us[k][i], b.Us[k][i]))
		}
	}
	return maxDx, maxDu
}
