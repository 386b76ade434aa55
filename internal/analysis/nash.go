// Package analysis verifies properties of converged solutions, in particular
// whether a strategy set is a local Nash equilibrium.
package analysis

import (
	"math/rand"

	"gonum.org/v1/gonum/mat"

	"github.com/cookiew/ilqgames/internal/la"
	"github.com/cookiew/ilqgames/internal/solver"
)

// costTolerance absorbs integration round-off when comparing perturbed costs.
const costTolerance = 1e-4

// RandomCheckLocalNash perturbs each player's feedforward terms with
// numPerturbations random unilateral deviations of magnitude at most
// maxPerturbation and verifies that the perturbing player's simulated cost
// never decreases (beyond tolerance).
func RandomCheckLocalNash(s *solver.ILQSolver, op solver.OperatingPoint, strategies []solver.Strategy, x0 *mat.VecDense, maxPerturbation float64, numPerturbations int, seed int64) bool {
	rng := rand.New(rand.NewSource(seed))
	sys := s.Dynamics()

	nominal := solver.Simulate(sys, op, strategies, x0, 1.0)
	nominalCosts := s.TotalCosts(nominal)

	for player := range strategies {
		for trial := 0; trial < numPerturbations; trial++ {
			perturbed := solver.CloneStrategies(strategies)
			for _, alpha := range perturbed[player].Alphas {
				for r := 0; r < alpha.Len(); r++ {
					alpha.SetVec(r, alpha.AtVec(r)+maxPerturbation*(2*rng.Float64()-1))
				}
			}

			sim := solver.Simulate(sys, op, perturbed, x0, 1.0)
			costs := s.TotalCosts(sim)
			if costs[player] < nominalCosts[player]-costTolerance {
				return false
			}
		}
	}
	return true
}

// CheckSufficientLocalNash checks second-order sufficiency along the
// operating point: every player's state Hessian must be positive
// semidefinite and its own-control Hessian positive definite at every step.
func CheckSufficientLocalNash(s *solver.ILQSolver, op solver.OperatingPoint) bool {
	_, quad := s.LQApproximation(op)
	for _, stepQuad := range quad {
		for i, q := range stepQuad {
			if !isPSD(q.Q) {
				return false
			}
			rii, ok := q.Control[i]
			if !ok || !la.IsPosDef(rii.Hess) {
				return false
			}
		}
	}
	return true
}

// isPSD probes positive semidefiniteness by shifting the diagonal slightly
// and testing for a Cholesky factorization.
func isPSD(a *mat.Dense) bool {
	n, _ := a.Dims()
	shifted := la.CloneDense(a)
	for i := 0; i < n; i++ {
		shifted.Set(i, i, shifted.At(i, i)+1e-9)
	}
	return la.IsPosDef(shifted)
}
