// Package la provides small dense-matrix helpers on top of gonum used
// throughout the solver stack.
package la

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// Eye returns an n by n identity matrix.
func Eye(n int) *mat.Dense {
	m := mat.NewDense(n, n, nil)
	for i := 0; i < n; i++ {
		m.Set(i, i, 1)
	}
	return m
}

// Zeros returns an m by n zero matrix.
func Zeros(m, n int) *mat.Dense {
	return mat.NewDense(m, n, nil)
}

// ZeroVec returns a zero vector of length n.
func ZeroVec(n int) *mat.VecDense {
	return mat.NewVecDense(n, nil)
}

// Symmetrize overwrites a with (a + a^T)/2. The matrix must be square.
func Symmetrize(a *mat.Dense) {
	n, _ := a.Dims()
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			v := 0.5 * (a.At(i, j) + a.At(j, i))
			a.Set(i, j, v)
			a.Set(j, i, v)
		}
	}
}

// IsPosDef reports whether the symmetric part of a admits a Cholesky
// factorization.
func IsPosDef(a *mat.Dense) bool {
	n, c := a.Dims()
	if n != c || n == 0 {
		return false
	}
	sym := mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			sym.SetSym(i, j, 0.5*(a.At(i, j)+a.At(j, i)))
		}
	}
	var ch mat.Cholesky
	return ch.Factorize(sym)
}

// NaNOrInf checks if there are any NaN or Inf entries in the matrix.
func NaNOrInf(a mat.Matrix) bool {
	m, n := a.Dims()
	for i := 0; i < m; i++ {
		for j := 0; j < n; j++ {
			if math.IsNaN(a.At(i, j)) || math.IsInf(a.At(i, j), 0) {
				return true
			}
		}
	}
	return false
}

// VecNaNOrInf checks if there are any NaN or Inf entries in the vector.
func VecNaNOrInf(v mat.Vector) bool {
	for i := 0; i < v.Len(); i++ {
		if math.IsNaN(v.AtVec(i)) || math.IsInf(v.AtVec(i), 0) {
			return true
		}
	}
	return false
}

// CloneDense returns a deep copy of a.
func CloneDense(a *mat.Dense) *mat.Dense {
	var c mat.Dense
	c.CloneFrom(a)
	return &c
}

// CloneVec returns a deep copy of v.
func CloneVec(v *mat.VecDense) *mat.VecDense {
	c := mat.NewVecDense(v.Len(), nil)
	c.CopyVec(v)
	return c
}

// MaxAbsDiff returns the largest absolute elementwise difference between two
// vectors of equal length.
func MaxAbsDiff(a, b mat.Vector) float64 {
	max := 0.0
	for i := 0; i < a.Len(); i++ {
		d := math.Abs(a.AtVec(i) - b.AtVec(i))
		if d > max {
			max = d
		}
	}
	return max
}
