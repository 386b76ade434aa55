// Package dynamics defines multi-player continuous-time systems and their
// discrete-time linearizations about an operating point.
//
// A [System] concatenates per-player state blocks into one state vector and
// exposes the coupled vector field plus a first-order discretized
// linearization (A, {B_i}). Flat systems additionally expose a diffeomorphism
// between the nonlinear state and the state of an equivalent linear system.
package dynamics

import (
	"gonum.org/v1/gonum/mat"

	"github.com/cookiew/ilqgames/internal/la"
)

// System is a multi-player continuous-time dynamical system
//
//	dx/dt = f(t, x, u_1, ..., u_N)
//
// discretized at a fixed timestep for linearization purposes.
type System interface {
	XDim() int
	UDim(player int) int
	NumPlayers() int
	TimeStep() float64

	// Evaluate returns the continuous-time state derivative.
	Evaluate(t float64, x *mat.VecDense, us []*mat.VecDense) *mat.VecDense

	// Linearize returns the discrete-time linearization about (t, x, us).
	Linearize(t float64, x *mat.VecDense, us []*mat.VecDense) LinearApprox
}

// FlatSystem is a feedback-linearizable system: a diffeomorphism maps the
// nonlinear state to the state of a time-invariant linear system in which the
// solver operates.
type FlatSystem interface {
	System

	ToLinearState(x *mat.VecDense) *mat.VecDense
	FromLinearState(xi *mat.VecDense) *mat.VecDense

	// LinearizedSystem returns the constant discrete-time (A, {B_i}) of the
	// equivalent linear system.
	LinearizedSystem() LinearApprox
}

// LinearApprox is a discrete-time linear approximation of the dynamics at one
// timestep:
//
//	dx_{k+1} = A dx_k + sum_i B_i du_{i,k}
type LinearApprox struct {
	A  *mat.Dense
	Bs []*mat.Dense
}

// NewLinearApprox allocates an identity-A, zero-B approximation sized for the
// given system. Linearize implementations add their discretized Jacobians on
// top.
func NewLinearApprox(sys System) LinearApprox {
	n := sys.XDim()
	bs := make([]*mat.Dense, sys.NumPlayers())
	for i := range bs {
		bs[i] = la.Zeros(n, sys.UDim(i))
	}
	return LinearApprox{A: la.Eye(n), Bs: bs}
}

// Clone returns a deep copy of the approximation.
func (l LinearApprox) Clone() LinearApprox {
	bs := make([]*mat.Dense, len(l.Bs))
	for i, b := range l.Bs {
		bs[i] = la.CloneDense(b)
	}
	return LinearApprox{A: la.CloneDense(l.A), Bs: bs}
}
