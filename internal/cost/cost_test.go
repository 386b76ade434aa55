package cost

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"

	"github.com/cookiew/ilqgames/internal/geometry"
	"github.com/cookiew/ilqgames/internal/la"
)

// fdGradient estimates the gradient of a term by central differences.
func fdGradient(term Term, t float64, input *mat.VecDense) *mat.VecDense {
	const h = 1e-6
	grad := la.ZeroVec(input.Len())
	x := la.CloneVec(input)
	for d := 0; d < input.Len(); d++ {
		x.SetVec(d, input.AtVec(d)+h)
		fp := term.Evaluate(t, x)
		x.SetVec(d, input.AtVec(d)-h)
		fm := term.Evaluate(t, x)
		x.SetVec(d, input.AtVec(d))
		grad.SetVec(d, (fp-fm)/(2*h))
	}
	return grad
}

func checkGradient(t *testing.T, term Term, input *mat.VecDense, tol float64) {
	t.Helper()
	hess := la.Zeros(input.Len(), input.Len())
	grad := la.ZeroVec(input.Len())
	term.Quadraticize(0, input, hess, grad)

	fd := fdGradient(term, 0, input)
	for d := 0; d < input.Len(); d++ {
		if math.Abs(grad.AtVec(d)-fd.AtVec(d)) > tol {
			t.Errorf("%s: gradient dim %d = %g, finite differences give %g",
				term.Name(), d, grad.AtVec(d), fd.AtVec(d))
		}
	}
}

func TestQuadraticCost(t *testing.T) {
	c := NewQuadraticCost(2.0, 1, 3.0, "quad")
	input := mat.NewVecDense(3, []float64{0, 5, 0})

	if got := c.Evaluate(0, input); got != 4.0 {
		t.Errorf("Evaluate = %f, want 4 (0.5*2*(5-3)^2)", got)
	}
	checkGradient(t, c, input, 1e-5)

	all := NewQuadraticCost(1.0, ApplyInAllDimensions, 0, "all")
	input = mat.NewVecDense(2, []float64{1, 2})
	if got := all.Evaluate(0, input); got != 2.5 {
		t.Errorf("all-dims Evaluate = %f, want 2.5", got)
	}
	checkGradient(t, all, input, 1e-5)
}

func TestSemiquadraticCost(t *testing.T) {
	c := NewSemiquadraticCost(2.0, 0, 1.0, true, "semi")

	below := mat.NewVecDense(1, []float64{0.5})
	if c.Evaluate(0, below) != 0 {
		t.Error("inactive below threshold")
	}

	above := mat.NewVecDense(1, []float64{2.0})
	if got := c.Evaluate(0, above); got != 1.0 {
		t.Errorf("Evaluate above = %f, want 1", got)
	}
	checkGradient(t, c, above, 1e-5)
}

func TestProximityCost(t *testing.T) {
	c := NewProximityCost(10.0, 0, 1, 2, 3, 5.0, "prox")

	far := mat.NewVecDense(4, []float64{0, 0, 10, 0})
	if c.Evaluate(0, far) != 0 {
		t.Error("no penalty beyond min distance")
	}

	near := mat.NewVecDense(4, []float64{0, 0, 3, 1})
	if c.Evaluate(0, near) <= 0 {
		t.Error("penalty expected inside min distance")
	}
	checkGradient(t, c, near, 1e-4)
}

func TestPolylineCosts(t *testing.T) {
	lane := geometry.NewPolyline2([]geometry.Point2{{X: 0, Y: 0}, {X: 100, Y: 0}})

	quad := NewQuadraticPolylineCost(4.0, lane, 0, 1, "lane")
	input := mat.NewVecDense(2, []float64{50, 2})
	if got := quad.Evaluate(0, input); got != 8.0 {
		t.Errorf("Evaluate = %f, want 8 (0.5*4*2^2)", got)
	}
	checkGradient(t, quad, input, 1e-4)

	semi := NewSemiquadraticPolylineCost(4.0, lane, 0, 1, 1.0, true, "boundary")
	// y = -2 is right of travel (+x): signed distance +2 > 1 threshold.
	right := mat.NewVecDense(2, []float64{50, -2})
	if got := semi.Evaluate(0, right); got != 2.0 {
		t.Errorf("Evaluate right = %f, want 2 (0.5*4*(2-1)^2)", got)
	}
	checkGradient(t, semi, right, 1e-4)

	// Left of the lane, the right-oriented boundary is inactive.
	left := mat.NewVecDense(2, []float64{50, 2})
	if semi.Evaluate(0, left) != 0 {
		t.Error("right-oriented boundary should ignore the left side")
	}
}

func TestRouteProgressCost(t *testing.T) {
	lane := geometry.NewPolyline2([]geometry.Point2{{X: 0, Y: 0}, {X: 100, Y: 0}})
	c := NewRouteProgressCost(2.0, 10.0, lane, 0, 1, 0, 0, "progress")

	// At t=1 the nominal point is (10, 0).
	onTime := mat.NewVecDense(2, []float64{10, 0})
	if c.Evaluate(1, onTime) != 0 {
		t.Error("no penalty on schedule")
	}

	behind := mat.NewVecDense(2, []float64{5, 0})
	if got := c.Evaluate(1, behind); got != 25.0 {
		t.Errorf("Evaluate behind = %f, want 25", got)
	}
}

func TestFinalTimeCost(t *testing.T) {
	inner := NewQuadraticCost(2.0, 0, 0, "goal")
	c := NewFinalTimeCost(inner, 5.0)

	input := mat.NewVecDense(1, []float64{3})
	if c.Evaluate(1.0, input) != 0 {
		t.Error("inactive before threshold time")
	}
	if got := c.Evaluate(6.0, input); got != 9.0 {
		t.Errorf("Evaluate after threshold = %f, want 9", got)
	}
}

func TestPlayerCostQuadraticize(t *testing.T) {
	pc := NewPlayerCost("p1")
	pc.AddStateCost(NewQuadraticCost(1.0, ApplyInAllDimensions, 0, "state"))
	pc.AddControlCost(0, NewQuadraticCost(2.0, ApplyInAllDimensions, 0, "own"))
	pc.AddControlCost(1, NewQuadraticCost(0.5, ApplyInAllDimensions, 0, "other"))

	if !pc.HasControlCost(0) || !pc.HasControlCost(1) {
		t.Fatal("registered control costs not found")
	}

	x := mat.NewVecDense(2, []float64{1, 2})
	us := []*mat.VecDense{
		mat.NewVecDense(1, []float64{3}),
		mat.NewVecDense(1, []float64{4}),
	}

	total := pc.Evaluate(0, x, us)
	want := 0.5*(1+4) + 0.5*2*9 + 0.5*0.5*16
	if math.Abs(total-want) > 1e-12 {
		t.Errorf("Evaluate = %f, want %f", total, want)
	}

	approx := pc.Quadraticize(0, x, us)
	if err := approx.CheckDims(2, []int{1, 1}); err != nil {
		t.Fatalf("CheckDims: %v", err)
	}
	if approx.Q.At(0, 0) != 1 || approx.Q.At(1, 1) != 1 {
		t.Error("state hessian should be identity")
	}
	if approx.Control[0].Hess.At(0, 0) != 2 {
		t.Errorf("R11 = %f, want 2", approx.Control[0].Hess.At(0, 0))
	}
	if approx.Control[1].Hess.At(0, 0) != 0.5 {
		t.Errorf("R12 = %f, want 0.5", approx.Control[1].Hess.At(0, 0))
	}
	if approx.Control[0].Grad.AtVec(0) != 6 {
		t.Errorf("r11 = %f, want 6", approx.Control[0].Grad.AtVec(0))
	}
}
