package solver

import (
	"gonum.org/v1/gonum/mat"

	"github.com/cookiew/ilqgames/internal/cost"
	"github.com/cookiew/ilqgames/internal/dynamics"
)

// transformQuadraticization rewrites a state quadraticization computed in
// nonlinear coordinates into flat coordinates, composing with the inverse
// diffeomorphism x = From(xi):
//
//	Q_xi = J^T Q J,  l_xi = J^T l,  J = dFrom/dxi
//
// using the Gauss-Newton approximation (second derivatives of the coordinate
// change are dropped). Control parts are unaffected by the change of state
// coordinates.
func transformQuadraticization(flat dynamics.FlatSystem, xi *mat.VecDense, approx *cost.QuadraticApprox) {
	jac := dynamics.NumericalJacobian(func(v *mat.VecDense) *mat.VecDense {
		return flat.FromLinearState(v)
	}, xi)

	var qj mat.Dense
	qj.Mul(approx.Q, jac)
	var q mat.Dense
	q.Mul(jac.T(), &qj)

	l := mat.NewVecDense(approx.L.Len(), nil)
	l.MulVec(jac.T(), approx.L)

	approx.Q = &q
	approx.L = l
}
