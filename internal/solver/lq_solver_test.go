package solver

import (
	"testing"

	. "github.com/onsi/gomega"
	"gonum.org/v1/gonum/mat"

	"github.com/cookiew/ilqgames/internal/cost"
	"github.com/cookiew/ilqgames/internal/dynamics"
	"github.com/cookiew/ilqgames/internal/la"
)

// twoPlayerLinear is the classic time-invariant fixture: a 1D point mass
// driven by two players.
type twoPlayerLinear struct {
	dt float64
}

func (s twoPlayerLinear) XDim() int           { return 2 }
func (s twoPlayerLinear) UDim(player int) int { return 1 }
func (s twoPlayerLinear) NumPlayers() int     { return 2 }
func (s twoPlayerLinear) TimeStep() float64   { return s.dt }

func (s twoPlayerLinear) Evaluate(t float64, x *mat.VecDense, us []*mat.VecDense) *mat.VecDense {
	dx := mat.NewVecDense(2, nil)
	dx.SetVec(0, x.AtVec(1)+0.05*us[0].AtVec(0)+0.032*us[1].AtVec(0))
	dx.SetVec(1, us[0].AtVec(0)+0.11*us[1].AtVec(0))
	return dx
}

func (s twoPlayerLinear) Linearize(t float64, x *mat.VecDense, us []*mat.VecDense) dynamics.LinearApprox {
	lin := dynamics.NewLinearApprox(s)
	lin.A.Set(0, 1, s.dt)
	lin.Bs[0].Set(0, 0, 0.05*s.dt)
	lin.Bs[0].Set(1, 0, 1.0*s.dt)
	lin.Bs[1].Set(0, 0, 0.032*s.dt)
	lin.Bs[1].Set(1, 0, 0.11*s.dt)
	return lin
}

// fixtureQuad builds the standard quadraticization: Q1 = I, Q2 = 2I,
// R11 = R22 = 1, R12 = 0.5, R21 = 0.25.
func fixtureQuad() []cost.QuadraticApprox {
	q1 := cost.QuadraticApprox{
		Q:       la.Eye(2),
		L:       la.ZeroVec(2),
		Control: map[int]cost.ControlApprox{},
	}
	q1.Control[0] = cost.ControlApprox{Hess: mat.NewDense(1, 1, []float64{1}), Grad: la.ZeroVec(1)}
	q1.Control[1] = cost.ControlApprox{Hess: mat.NewDense(1, 1, []float64{0.5}), Grad: la.ZeroVec(1)}

	q2Mat := la.Eye(2)
	q2Mat.Scale(2, q2Mat)
	q2 := cost.QuadraticApprox{
		Q:       q2Mat,
		L:       la.ZeroVec(2),
		Control: map[int]cost.ControlApprox{},
	}
	q2.Control[0] = cost.ControlApprox{Hess: mat.NewDense(1, 1, []float64{0.25}), Grad: la.ZeroVec(1)}
	q2.Control[1] = cost.ControlApprox{Hess: mat.NewDense(1, 1, []float64{1}), Grad: la.ZeroVec(1)}

	return []cost.QuadraticApprox{q1, q2}
}

// solveLyapunovIterations computes the two-player coupled-Riccati fixed point
// by Lyapunov iterations for a time-invariant discrete LQ game.
func solveLyapunovIterations(a, b1, b2, q1, q2, r11, r12, r21, r22 *mat.Dense) (*mat.Dense, *mat.Dense) {
	const iterations = 100

	z1 := la.CloneDense(q1)
	z2 := la.CloneDense(q2)

	gain := func(z *mat.Dense, b, r, target *mat.Dense) *mat.Dense {
		// (R + B' Z B)^{-1} (B' Z target)
		var bz, bzb, lhs, rhs, p mat.Dense
		bz.Mul(b.T(), z)
		bzb.Mul(&bz, b)
		lhs.Add(r, &bzb)
		rhs.Mul(&bz, target)
		if err := p.Solve(&lhs, &rhs); err != nil {
			panic(err)
		}
		return &p
	}

	p1 := gain(z1, b1, r11, a)
	p2 := gain(z2, b2, r22, a)

	for i := 0; i < iterations; i++ {
		var closed1, closed2 mat.Dense
		var bp mat.Dense
		bp.Mul(b2, p2)
		closed1.Sub(a, &bp)
		bp.Mul(b1, p1)
		closed2.Sub(a, &bp)

		p1 = gain(z1, b1, r11, &closed1)
		p2 = gain(z2, b2, r22, &closed2)

		// F = A - B1 P1 - B2 P2
		var f, t1 mat.Dense
		t1.Mul(b1, p1)
		f.Sub(a, &t1)
		t1.Mul(b2, p2)
		f.Sub(&f, &t1)

		update := func(z, q, p1m, r1, p2m, r2 *mat.Dense) *mat.Dense {
			var zf, fzf, rp, prp mat.Dense
			zf.Mul(z, &f)
			fzf.Mul(f.T(), &zf)
			fzf.Add(&fzf, q)
			rp.Mul(r1, p1m)
			prp.Mul(p1m.T(), &rp)
			fzf.Add(&fzf, &prp)
			rp.Mul(r2, p2m)
			prp.Mul(p2m.T(), &rp)
			fzf.Add(&fzf, &prp)
			return &fzf
		}

		z1 = update(z1, q1, p1, r11, p2, r12)
		z2 = update(z2, q2, p1, r21, p2, r22)
	}
	return p1, p2
}

func TestLQSolverMatchesLyapunovIterations(t *testing.T) {
	g := NewWithT(t)

	const dt = 0.1
	const steps = 100
	sys := twoPlayerLinear{dt: dt}

	lin := sys.Linearize(0, la.ZeroVec(2), []*mat.VecDense{la.ZeroVec(1), la.ZeroVec(1)})
	quad := fixtureQuad()

	lins := make([]dynamics.LinearApprox, steps)
	quads := make([][]cost.QuadraticApprox, steps)
	for k := range lins {
		lins[k] = lin
		quads[k] = fixtureQuad()
	}

	lq := NewLQFeedbackSolver(sys, steps)
	strategies, warnings, err := lq.Solve(lins, quads)
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(warnings).To(BeZero())
	g.Expect(strategies).To(HaveLen(2))
	g.Expect(strategies[0].Ps).To(HaveLen(steps - 1))
	g.Expect(strategies[0].Alphas).To(HaveLen(steps - 1))

	p1Ref, p2Ref := solveLyapunovIterations(
		lin.A, lin.Bs[0], lin.Bs[1],
		quad[0].Q, quad[1].Q,
		quad[0].Control[0].Hess, quad[0].Control[1].Hess,
		quad[1].Control[0].Hess, quad[1].Control[1].Hess)

	// Far from the terminal time, the finite-horizon gains settle at the
	// infinite-horizon fixed point.
	g.Expect(mat.EqualApprox(strategies[0].Ps[0], p1Ref, 1e-4)).To(BeTrue(),
		"P1 = %v, Lyapunov reference %v", mat.Formatted(strategies[0].Ps[0]), mat.Formatted(p1Ref))
	g.Expect(mat.EqualApprox(strategies[1].Ps[0], p2Ref, 1e-4)).To(BeTrue(),
		"P2 = %v, Lyapunov reference %v", mat.Formatted(strategies[1].Ps[0]), mat.Formatted(p2Ref))

	// Zero cost gradients mean zero feedforward.
	for _, s := range strategies {
		for _, alpha := range s.Alphas {
			g.Expect(mat.Norm(alpha, 2)).To(BeNumerically("<", 1e-10))
		}
	}

	// Value functions are recorded per step per player, and each Z is
	// symmetric.
	values := lq.Values()
	g.Expect(values).To(HaveLen(steps))
	for _, stepValues := range values {
		g.Expect(stepValues).To(HaveLen(2))
		for _, v := range stepValues {
			g.Expect(mat.EqualApprox(v.Z, v.Z.T(), 1e-9)).To(BeTrue(), "Z symmetric")
		}
	}
}

func TestLQSolverDeterministic(t *testing.T) {
	g := NewWithT(t)

	const steps = 50
	sys := twoPlayerLinear{dt: 0.1}
	lin := sys.Linearize(0, la.ZeroVec(2), []*mat.VecDense{la.ZeroVec(1), la.ZeroVec(1)})

	lins := make([]dynamics.LinearApprox, steps)
	quads := make([][]cost.QuadraticApprox, steps)
	for k := range lins {
		lins[k] = lin
		quads[k] = fixtureQuad()
	}

	lq := NewLQFeedbackSolver(sys, steps)
	first, _, err := lq.Solve(lins, quads)
	g.Expect(err).NotTo(HaveOccurred())

	// Re-solving the same approximation reproduces the strategies.
	second, _, err := lq.Solve(lins, quads)
	g.Expect(err).NotTo(HaveOccurred())

	for i := range first {
		for k := range first[i].Ps {
			g.Expect(mat.EqualApprox(first[i].Ps[k], second[i].Ps[k], 1e-8)).To(BeTrue())
			g.Expect(la.MaxAbsDiff(first[i].Alphas[k], second[i].Alphas[k])).To(BeNumerically("<", 1e-8))
		}
	}
}

func TestLQSolverZeroCost(t *testing.T) {
	g := NewWithT(t)

	const steps = 20
	sys := twoPlayerLinear{dt: 0.1}
	lin := sys.Linearize(0, la.ZeroVec(2), []*mat.VecDense{la.ZeroVec(1), la.ZeroVec(1)})

	zeroQuad := func() []cost.QuadraticApprox {
		mk := func() cost.QuadraticApprox {
			return cost.QuadraticApprox{
				Q: la.Zeros(2, 2),
				L: la.ZeroVec(2),
				Control: map[int]cost.ControlApprox{
					0: {Hess: la.Zeros(1, 1), Grad: la.ZeroVec(1)},
					1: {Hess: la.Zeros(1, 1), Grad: la.ZeroVec(1)},
				},
			}
		}
		return []cost.QuadraticApprox{mk(), mk()}
	}

	lins := make([]dynamics.LinearApprox, steps)
	quads := make([][]cost.QuadraticApprox, steps)
	for k := range lins {
		lins[k] = lin
		quads[k] = zeroQuad()
	}

	lq := NewLQFeedbackSolver(sys, steps)
	strategies, _, err := lq.Solve(lins, quads)
	g.Expect(err).NotTo(HaveOccurred())

	for _, s := range strategies {
		for k := range s.Ps {
			g.Expect(mat.Norm(s.Ps[k], 2)).To(BeZero(), "zero cost should give zero gains")
			g.Expect(mat.Norm(s.Alphas[k], 2)).To(BeZero(), "zero cost should give zero feedforward")
		}
	}
}

func TestLQSolverTerminalOnly(t *testing.T) {
	g := NewWithT(t)

	sys := twoPlayerLinear{dt: 0.1}
	lin := sys.Linearize(0, la.ZeroVec(2), []*mat.VecDense{la.ZeroVec(1), la.ZeroVec(1)})

	lq := NewLQFeedbackSolver(sys, 1)
	strategies, warnings, err := lq.Solve(
		[]dynamics.LinearApprox{lin},
		[][]cost.QuadraticApprox{fixtureQuad()})
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(warnings).To(BeZero())
	for _, s := range strategies {
		g.Expect(s.Ps).To(BeEmpty())
		g.Expect(s.Alphas).To(BeEmpty())
	}
}

func TestLQSolverDimensionMismatch(t *testing.T) {
	sys := twoPlayerLinear{dt: 0.1}
	lq := NewLQFeedbackSolver(sys, 10)
	if _, _, err := lq.Solve(nil, nil); err == nil {
		t.Fatal("expected error for mismatched horizon")
	}
}
