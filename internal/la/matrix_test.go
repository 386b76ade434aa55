package la

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"
)

func TestEye(t *testing.T) {
	m := Eye(3)
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			want := 0.0
			if i == j {
				want = 1.0
			}
			if m.At(i, j) != want {
				t.Errorf("Eye(3)[%d,%d] = %f, want %f", i, j, m.At(i, j), want)
			}
		}
	}
}

func TestSymmetrize(t *testing.T) {
	a := mat.NewDense(2, 2, []float64{1, 2, 4, 3})
	Symmetrize(a)
	if a.At(0, 1) != 3 || a.At(1, 0) != 3 {
		t.Errorf("off-diagonal should average to 3, got %f and %f", a.At(0, 1), a.At(1, 0))
	}
	if a.At(0, 0) != 1 || a.At(1, 1) != 3 {
		t.Error("diagonal should be unchanged")
	}
}

func TestIsPosDef(t *testing.T) {
	if !IsPosDef(Eye(4)) {
		t.Error("identity should be positive definite")
	}

	neg := Eye(2)
	neg.Set(1, 1, -1)
	if IsPosDef(neg) {
		t.Error("matrix with negative eigenvalue should not be positive definite")
	}

	if IsPosDef(Zeros(3, 3)) {
		t.Error("zero matrix should not be positive definite")
	}
}

func TestNaNOrInf(t *testing.T) {
	a := Zeros(2, 2)
	if NaNOrInf(a) {
		t.Error("zero matrix has no NaN")
	}
	a.Set(1, 0, math.NaN())
	if !NaNOrInf(a) {
		t.Error("NaN entry should be detected")
	}

	v := ZeroVec(3)
	if VecNaNOrInf(v) {
		t.Error("zero vector has no NaN")
	}
	v.SetVec(2, math.Inf(1))
	if !VecNaNOrInf(v) {
		t.Error("Inf entry should be detected")
	}
}

func TestMaxAbsDiff(t *testing.T) {
	a := mat.NewVecDense(3, []float64{1, 2, 3})
	b := mat.NewVecDense(3, []float64{1, 4, 2.5})
	if d := MaxAbsDiff(a, b); d != 2 {
		t.Errorf("MaxAbsDiff = %f, want 2", d)
	}
}

func TestClone(t *testing.T) {
	a := mat.NewDense(2, 2, []float64{1, 2, 3, 4})
	c := CloneDense(a)
	c.Set(0, 0, 99)
	if a.At(0, 0) != 1 {
		t.Error("CloneDense should not share storage")
	}

	v := mat.NewVecDense(2, []float64{5, 6})
	cv := CloneVec(v)
	cv.SetVec(0, 99)
	if v.AtVec(0) != 5 {
		t.Error("CloneVec should not share storage")
	}
}
