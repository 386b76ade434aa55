package solver

import (
	"gonum.org/v1/gonum/mat"

	"github.com/cookiew/ilqgames/internal/la"
)

// Termination describes why a solve returned.
type Termination string

const (
	Converged        Termination = "converged"
	Diverged         Termination = "diverged"
	IterationCap     Termination = "iteration_cap"
	DeadlineExceeded Termination = "deadline_exceeded"
)

// ValueFunction is one player's quadratic value at one step of the backward
// pass: x^T Z x / 2 + zeta^T x (up to constants).
type ValueFunction struct {
	Z    *mat.Dense
	Zeta *mat.VecDense
}

// Iterate is an immutable record of one accepted ILQ iterate.
type Iterate struct {
	Op         OperatingPoint
	Strategies []Strategy
	Costs      []float64
	StepSize   float64
}

// Log is the append-only record of a solve: every accepted iterate, the
// termination reason, and accumulated numerical warnings.
type Log struct {
	T0, Dt      float64
	Steps       int
	Iterates    []Iterate
	Termination Termination
	Warnings    int
}

func NewLog(t0, dt float64, steps int) *Log {
	return &Log{T0: t0, Dt: dt, Steps: steps}
}

// Add appends an iterate, deep-copying its contents so later solver mutation
// cannot alter the record.
func (l *Log) Add(op OperatingPoint, strategies []Strategy, costs []float64, stepSize float64) {
	cs := make([]float64, len(costs))
	copy(cs, costs)
	l.Iterates = append(l.Iterates, Iterate{
		Op:         op.Clone(),
		Strategies: CloneStrategies(strategies),
		Costs:      cs,
		StepSize:   stepSize,
	})
}

// Final returns the last recorded iterate, or nil if the log is empty.
func (l *Log) Final() *Iterate {
	if len(l.Iterates) == 0 {
		return nil
	}
	return &l.Iterates[len(l.Iterates)-1]
}

// FinalOperatingPoint returns a copy of the last iterate's operating point.
func (l *Log) FinalOperatingPoint() OperatingPoint {
	return l.Final().Op.Clone()
}

// FinalStrategies returns a copy of the last iterate's strategies.
func (l *Log) FinalStrategies() []Strategy {
	return CloneStrategies(l.Final().Strategies)
}

// HasNaN reports whether any state in the final iterate is NaN or Inf.
func (l *Log) HasNaN() bool {
	final := l.Final()
	if final == nil {
		return false
	}
	for _, x := range final.Op.Xs {
		if la.VecNaNOrInf(x) {
			return true
		}
	}
	return false
}
