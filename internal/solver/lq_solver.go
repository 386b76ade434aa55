package solver

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/cookiew/ilqgames/internal/cost"
	"github.com/cookiew/ilqgames/internal/dynamics"
	"github.com/cookiew/ilqgames/internal/la"
)

// LQFeedbackSolver solves a time-varying linear-quadratic game for
// closed-loop feedback Nash strategies by backward dynamic programming, after
// Basar and Olsder, Corollary 6.1.
//
// At each step it solves the coupled block system S X = Y for the stacked
// gains and feedforwards of all players, then backpropagates each player's
// quadratic value (Z, zeta). Workspaces are allocated once at construction
// and reused across all steps.
type LQFeedbackSolver struct {
	sys   dynamics.System
	steps int

	uOffsets  []int
	totalUDim int

	s, y, x *mat.Dense
	biZi    []*mat.Dense
	f       *mat.Dense
	beta    *mat.VecDense

	zs    []*mat.Dense
	zetas []*mat.VecDense

	zScratch1, zScratch2 *mat.Dense
	rp                   []*mat.Dense
	prp                  *mat.Dense
	vn1, vn2             *mat.VecDense
	vm                   []*mat.VecDense

	values [][]ValueFunction
}

func NewLQFeedbackSolver(sys dynamics.System, steps int) *LQFeedbackSolver {
	n := sys.XDim()
	numPlayers := sys.NumPlayers()

	s := &LQFeedbackSolver{sys: sys, steps: steps}
	for i := 0; i < numPlayers; i++ {
		s.uOffsets = append(s.uOffsets, s.totalUDim)
		s.totalUDim += sys.UDim(i)
	}

	s.s = la.Zeros(s.totalUDim, s.totalUDim)
	s.y = la.Zeros(s.totalUDim, n+1)
	s.x = la.Zeros(s.totalUDim, n+1)
	s.f = la.Zeros(n, n)
	s.beta = la.ZeroVec(n)
	s.zScratch1 = la.Zeros(n, n)
	s.zScratch2 = la.Zeros(n, n)
	s.prp = la.Zeros(n, n)
	s.vn1 = la.ZeroVec(n)
	s.vn2 = la.ZeroVec(n)

	for i := 0; i < numPlayers; i++ {
		m := sys.UDim(i)
		s.biZi = append(s.biZi, la.Zeros(m, n))
		s.rp = append(s.rp, la.Zeros(m, n))
		s.vm = append(s.vm, la.ZeroVec(m))
		s.zs = append(s.zs, la.Zeros(n, n))
		s.zetas = append(s.zetas, la.ZeroVec(n))
	}
	return s
}

// Values returns the per-step, per-player quadratic value functions recorded
// during the most recent Solve, indexed [step][player].
func (s *LQFeedbackSolver) Values() [][]ValueFunction { return s.values }

// Solve computes feedback Nash strategies of length steps-1 for the given
// time-varying LQ approximation. The returned warning count tallies
// ill-conditioned or otherwise suspect linear solves; the solve itself always
// completes (the outer line search rejects bad iterates).
func (s *LQFeedbackSolver) Solve(lin []dynamics.LinearApprox, quad [][]cost.QuadraticApprox) ([]Strategy, int, error) {
	if len(lin) != s.steps {
		return nil, 0, fmt.Errorf("linearization has %d steps, want %d", len(lin), s.steps)
	}
	if len(quad) != s.steps {
		return nil, 0, fmt.Errorf("quadraticization has %d steps, want %d", len(quad), s.steps)
	}

	n := s.sys.XDim()
	numPlayers := s.sys.NumPlayers()
	warnings := 0

	strategies := make([]Strategy, numPlayers)
	for i := 0; i < numPlayers; i++ {
		strategies[i] = NewStrategy(s.steps-1, n, s.sys.UDim(i))
	}

	s.values = make([][]ValueFunction, s.steps)

	// Terminal cost seeds each player's value.
	for i := 0; i < numPlayers; i++ {
		s.zs[i].Copy(quad[s.steps-1][i].Q)
		s.zetas[i].CopyVec(quad[s.steps-1][i].L)
	}
	s.recordValues(s.steps - 1)

	for kk := s.steps - 2; kk >= 0; kk-- {
		l := lin[kk]
		q := quad[kk]

		// Assemble the coupled system S X = Y over all players' controls.
		for i := 0; i < numPlayers; i++ {
			mi := s.sys.UDim(i)
			rowOff := s.uOffsets[i]

			s.biZi[i].Mul(l.Bs[i].T(), s.zs[i])

			for j := 0; j < numPlayers; j++ {
				mj := s.sys.UDim(j)
				block := s.s.Slice(rowOff, rowOff+mi, s.uOffsets[j], s.uOffsets[j]+mj).(*mat.Dense)
				block.Mul(s.biZi[i], l.Bs[j])
				if i == j {
					rii, ok := q[i].Control[i]
					if !ok {
						return nil, warnings, fmt.Errorf("player %d has no cost on its own control", i)
					}
					block.Add(block, rii.Hess)
				}
			}

			yState := s.y.Slice(rowOff, rowOff+mi, 0, n).(*mat.Dense)
			yState.Mul(s.biZi[i], l.A)

			s.vm[i].MulVec(l.Bs[i].T(), s.zetas[i])
			rii := q[i].Control[i]
			for r := 0; r < mi; r++ {
				s.y.Set(rowOff+r, n, s.vm[i].AtVec(r)+rii.Grad.AtVec(r))
			}
		}

		// Solve the coupled system. An ill-conditioned or singular S still
		// yields a least-squares answer; count a warning and let the outer
		// line search reject bad iterates.
		var qr mat.QR
		qr.Factorize(s.s)
		if err := qr.SolveTo(s.x, false, s.y); err != nil || la.NaNOrInf(s.x) {
			warnings++
			s.solveLeastSquares()
		}

		// Extract strategies at this step.
		for i := 0; i < numPlayers; i++ {
			mi := s.sys.UDim(i)
			rowOff := s.uOffsets[i]
			strategies[i].Ps[kk].Copy(s.x.Slice(rowOff, rowOff+mi, 0, n))
			for r := 0; r < mi; r++ {
				strategies[i].Alphas[kk].SetVec(r, s.x.At(rowOff+r, n))
			}
		}

		// Closed-loop transition F = A - sum_j B_j P_j, beta = -sum_j B_j alpha_j.
		s.f.Copy(l.A)
		s.beta.Zero()
		for j := 0; j < numPlayers; j++ {
			s.zScratch1.Mul(l.Bs[j], strategies[j].Ps[kk])
			s.f.Sub(s.f, s.zScratch1)
			s.vn1.MulVec(l.Bs[j], strategies[j].Alphas[kk])
			s.beta.SubVec(s.beta, s.vn1)
		}

		// Backpropagate each player's value.
		for i := 0; i < numPlayers; i++ {
			// zeta_i <- F^T (zeta_i + Z_i beta) + l_i + sum_j P_j^T (R_ij alpha_j - r_ij)
			s.vn1.MulVec(s.zs[i], s.beta)
			s.vn1.AddVec(s.vn1, s.zetas[i])
			s.vn2.MulVec(s.f.T(), s.vn1)
			s.vn2.AddVec(s.vn2, q[i].L)

			// Z_i <- F^T Z_i F + Q_i + sum_j P_j^T R_ij P_j
			s.zScratch1.Mul(s.zs[i], s.f)
			s.zScratch2.Mul(s.f.T(), s.zScratch1)
			s.zScratch2.Add(s.zScratch2, q[i].Q)

			// Ordered iteration keeps floating-point rounding bit-stable
			// across solves.
			for j := 0; j < numPlayers; j++ {
				rij, ok := q[i].Control[j]
				if !ok {
					continue
				}
				s.vm[j].MulVec(rij.Hess, strategies[j].Alphas[kk])
				s.vm[j].SubVec(s.vm[j], rij.Grad)
				s.vn1.MulVec(strategies[j].Ps[kk].T(), s.vm[j])
				s.vn2.AddVec(s.vn2, s.vn1)

				s.rp[j].Mul(rij.Hess, strategies[j].Ps[kk])
				s.prp.Mul(strategies[j].Ps[kk].T(), s.rp[j])
				s.zScratch2.Add(s.zScratch2, s.prp)
			}

			s.zetas[i].CopyVec(s.vn2)
			s.zs[i].Copy(s.zScratch2)

			// Symmetrizing damps round-off drift over long horizons.
			la.Symmetrize(s.zs[i])
		}
		s.recordValues(kk)
	}

	return strategies, warnings, nil
}

// solveLeastSquares recovers from a failed direct solve with a minimum-norm
// SVD solution; a rank-zero system yields zero gains.
func (s *LQFeedbackSolver) solveLeastSquares() {
	var svd mat.SVD
	if !svd.Factorize(s.s, mat.SVDThin) {
		s.x.Zero()
		return
	}
	rank := svd.Rank(1e-12)
	if rank == 0 {
		s.x.Zero()
		return
	}
	svd.SolveTo(s.x, s.y, rank)
}

func (s *LQFeedbackSolver) recordValues(k int) {
	vs := make([]ValueFunction, len(s.zs))
	for i := range s.zs {
		vs[i] = ValueFunction{Z: la.CloneDense(s.zs[i]), Zeta: la.CloneVec(s.zetas[i])}
	}
	s.values[k] = vs
}
