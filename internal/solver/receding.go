package solver

import (
	"fmt"
	"time"

	"gonum.org/v1/gonum/mat"
)

// extra simulation time appended after each splice to provide slack before
// the next replan
const recedingExtraTime = 0.1

// StepObserver is notified as the receding-horizon simulation advances the
// true state, e.g. for live visualization or metrics.
type StepObserver interface {
	OnAdvance(t float64, x *mat.VecDense)
}

// RecedingHorizonSimulator alternates deadline-bounded solves with advancing
// the true state by the elapsed planner time under the current plan, splicing
// each new solution into a continuous plan. It mimics a real-time replanning
// loop: no sleeping, only measuring elapsed wall time.
func RecedingHorizonSimulator(finalTime float64, plannerRuntime time.Duration, problem *Problem, observers ...StepObserver) ([]*Log, error) {
	logs := make([]*Log, 0)

	// Initial solve is unconstrained.
	log, err := problem.Solve(0)
	if err != nil {
		return nil, err
	}
	logs = append(logs, log)

	sys := problem.Dynamics()
	splicer := NewSolutionSplicer(log)

	x := problem.InitialState()
	t := splicer.CurrentOperatingPoint().T0
	notify(observers, t, x)

	for t < finalTime {
		if err := problem.SetUpNextRecedingHorizon(x, t, plannerRuntime); err != nil {
			return logs, err
		}

		start := time.Now()
		log, err = problem.Solve(plannerRuntime)
		if err != nil {
			return logs, err
		}
		e := time.Since(start).Seconds()
		if e > plannerRuntime.Seconds() {
			// A solve that cannot return an iterate inside its budget means
			// plannerRuntime is misconfigured.
			return logs, fmt.Errorf("solver took %.3fs, exceeding planner runtime %.3fs", e, plannerRuntime.Seconds())
		}
		logs = append(logs, log)

		// Advance the true state by the time the planner consumed.
		x = IntegratePlan(sys, t, t+e, x, splicer.CurrentOperatingPoint(), splicer.CurrentStrategies())
		t += e
		notify(observers, t, x)

		if err := splicer.Splice(log, t); err != nil {
			return logs, err
		}
		problem.OverwriteSolution(splicer.CurrentOperatingPoint(), splicer.CurrentStrategies())

		// Integrate a little further to leave slack before the next replan.
		x = IntegratePlan(sys, t, t+recedingExtraTime, x, splicer.CurrentOperatingPoint(), splicer.CurrentStrategies())
		t += recedingExtraTime
		notify(observers, t, x)
	}

	return logs, nil
}

func notify(observers []StepObserver, t float64, x *mat.VecDense) {
	for _, o := range observers {
		o.OnAdvance(t, x)
	}
}
