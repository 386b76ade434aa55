package solver

import (
	"fmt"
	"math"
)

// SolutionSplicer maintains a continuous plan across receding-horizon
// solves: each new warm-started solution is stitched onto the current plan at
// a time offset, keeping the original start time and a uniform timestep.
//
// The splicer is driven from a single goroutine and is never reentrant.
type SolutionSplicer struct {
	op         OperatingPoint
	strategies []Strategy
}

// NewSolutionSplicer seeds the splicer from a solve's final iterate.
func NewSolutionSplicer(log *Log) *SolutionSplicer {
	return &SolutionSplicer{
		op:         log.FinalOperatingPoint(),
		strategies: log.FinalStrategies(),
	}
}

func (s *SolutionSplicer) CurrentOperatingPoint() OperatingPoint { return s.op }
func (s *SolutionSplicer) CurrentStrategies() []Strategy         { return s.strategies }

// Splice keeps the current plan up to the step boundary nearest tSplice and
// appends the new log's plan from there on. The spliced plan's start time is
// unchanged and the boundary state comes from the new log.
func (s *SolutionSplicer) Splice(log *Log, tSplice float64) error {
	newOp := log.FinalOperatingPoint()
	newStrategies := log.FinalStrategies()

	dt := s.op.Dt
	if math.Abs(newOp.Dt-dt) > timeEpsilon {
		return fmt.Errorf("timestep mismatch: have %g, new plan has %g", dt, newOp.Dt)
	}

	// Snap the splice point to the nearest step boundary.
	kSplice := int(math.Round((tSplice - s.op.T0) / dt))
	if kSplice < 0 {
		kSplice = 0
	}
	if kSplice > s.op.Steps() {
		return fmt.Errorf("splice time %g beyond current plan end %g", tSplice, s.op.TimeAt(s.op.Steps()-1))
	}

	boundary := s.op.T0 + float64(kSplice)*dt
	jOffset := int(math.Round((boundary - newOp.T0) / dt))
	if jOffset < 0 {
		// The new plan begins after the requested splice time: keep the old
		// plan up to the new plan's start instead.
		kSplice -= jOffset
		jOffset = 0
		if kSplice > s.op.Steps() {
			return fmt.Errorf("new plan starts at %g, beyond current plan end %g", newOp.T0, s.op.TimeAt(s.op.Steps()-1))
		}
	}
	if jOffset >= newOp.Steps() {
		return fmt.Errorf("new plan ends before splice boundary %g", boundary)
	}

	spliced := OperatingPoint{T0: s.op.T0, Dt: dt}
	spliced.Xs = append(spliced.Xs, s.op.Xs[:kSplice]...)
	spliced.Us = append(spliced.Us, s.op.Us[:kSplice]...)
	spliced.Xs = append(spliced.Xs, newOp.Xs[jOffset:]...)
	spliced.Us = append(spliced.Us, newOp.Us[jOffset:]...)

	splicedStrategies := make([]Strategy, len(newStrategies))
	for i := range newStrategies {
		st := Strategy{}
		head := min(kSplice, len(s.strategies[i].Ps))
		st.Ps = append(st.Ps, s.strategies[i].Ps[:head]...)
		st.Alphas = append(st.Alphas, s.strategies[i].Alphas[:head]...)
		tail := min(jOffset, len(newStrategies[i].Ps))
		st.Ps = append(st.Ps, newStrategies[i].Ps[tail:]...)
		st.Alphas = append(st.Alphas, newStrategies[i].Alphas[tail:]...)
		splicedStrategies[i] = st
	}

	wantSteps := kSplice + newOp.Steps() - jOffset
	if spliced.Steps() != wantSteps {
		return fmt.Errorf("spliced plan has %d steps, want %d", spliced.Steps(), wantSteps)
	}

	s.op = spliced
	s.strategies = splicedStrategies
	return nil
}
