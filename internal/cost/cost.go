// Package cost defines per-player cost functionals as sums of small terms,
// each able to evaluate itself and accumulate its local quadratic
// approximation.
package cost

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/cookiew/ilqgames/internal/la"
)

// Term is a single scalar cost term over some input vector (the full state
// for state terms, one player's control for control terms).
//
// Quadraticize accumulates the term's Hessian and gradient at the given input
// into hess and grad.
type Term interface {
	Name() string
	Evaluate(t float64, input *mat.VecDense) float64
	Quadraticize(t float64, input *mat.VecDense, hess *mat.Dense, grad *mat.VecDense)
}

// ControlApprox is the quadratic approximation of one player's control cost:
// hessian R and gradient r.
type ControlApprox struct {
	Hess *mat.Dense
	Grad *mat.VecDense
}

// QuadraticApprox is a player's local quadratic cost approximation: state
// part (Q, l) plus a control part per player whose control this player's cost
// depends on.
type QuadraticApprox struct {
	Q       *mat.Dense
	L       *mat.VecDense
	Control map[int]ControlApprox
}

// PlayerCost is one player's total cost: a sum of state terms plus control
// terms keyed by the player whose control they penalize. Terms are immutable
// after construction and shared read-only across a solve.
type PlayerCost struct {
	name         string
	stateCosts   []Term
	controlCosts map[int][]Term
}

func NewPlayerCost(name string) *PlayerCost {
	return &PlayerCost{
		name:         name,
		controlCosts: make(map[int][]Term),
	}
}

func (pc *PlayerCost) Name() string { return pc.name }

func (pc *PlayerCost) AddStateCost(term Term) {
	pc.stateCosts = append(pc.stateCosts, term)
}

func (pc *PlayerCost) AddControlCost(player int, term Term) {
	pc.controlCosts[player] = append(pc.controlCosts[player], term)
}

// HasControlCost reports whether any term penalizes the given player's
// control. The solver requires each player to penalize its own control.
func (pc *PlayerCost) HasControlCost(player int) bool {
	return len(pc.controlCosts[player]) > 0
}

// Evaluate sums all terms at (t, x, us).
func (pc *PlayerCost) Evaluate(t float64, x *mat.VecDense, us []*mat.VecDense) float64 {
	total := 0.0
	for _, term := range pc.stateCosts {
		total += term.Evaluate(t, x)
	}
	for player, terms := range pc.controlCosts {
		for _, term := range terms {
			total += term.Evaluate(t, us[player])
		}
	}
	return total
}

// Quadraticize computes the local quadratic approximation at (t, x, us).
func (pc *PlayerCost) Quadraticize(t float64, x *mat.VecDense, us []*mat.VecDense) QuadraticApprox {
	approx := QuadraticApprox{
		Q:       la.Zeros(x.Len(), x.Len()),
		L:       la.ZeroVec(x.Len()),
		Control: make(map[int]ControlApprox),
	}
	for _, term := range pc.stateCosts {
		term.Quadraticize(t, x, approx.Q, approx.L)
	}
	for player, terms := range pc.controlCosts {
		m := us[player].Len()
		ca := ControlApprox{Hess: la.Zeros(m, m), Grad: la.ZeroVec(m)}
		for _, term := range terms {
			term.Quadraticize(t, us[player], ca.Hess, ca.Grad)
		}
		approx.Control[player] = ca
	}
	return approx
}

// CheckDims validates a quadraticization against the expected state and
// per-player control dimensions.
func (a QuadraticApprox) CheckDims(xDim int, uDims []int) error {
	if r, c := a.Q.Dims(); r != xDim || c != xDim {
		return fmt.Errorf("state hessian is %dx%d, want %dx%d", r, c, xDim, xDim)
	}
	if a.L.Len() != xDim {
		return fmt.Errorf("state gradient has length %d, want %d", a.L.Len(), xDim)
	}
	for player, ca := range a.Control {
		if player < 0 || player >= len(uDims) {
			return fmt.Errorf("control cost for unknown player %d", player)
		}
		m := uDims[player]
		if r, c := ca.Hess.Dims(); r != m || c != m {
			return fmt.Errorf("control hessian for player %d is %dx%d, want %dx%d", player, r, c, m, m)
		}
	}
	return nil
}
