package dynamics

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

var fdStep = math.Cbrt(math.Nextafter(1, 2) - 1)

// NumericalJacobian estimates the Jacobian of f at x0 by central differences.
// The returned matrix is m by n where m = len(f(x0)) and n = x0.Len().
func NumericalJacobian(f func(*mat.VecDense) *mat.VecDense, x0 *mat.VecDense) *mat.Dense {
	n := x0.Len()
	x := mat.NewVecDense(n, nil)
	x.CopyVec(x0)

	var jac *mat.Dense
	for j := 0; j < n; j++ {
		h := fdStep * math.Max(1, math.Abs(x0.AtVec(j)))

		x.SetVec(j, x0.AtVec(j)+h)
		fp := f(x)
		x.SetVec(j, x0.AtVec(j)-h)
		fm := f(x)
		x.SetVec(j, x0.AtVec(j))

		if jac == nil {
			jac = mat.NewDense(fp.Len(), n, nil)
		}
		for i := 0; i < fp.Len(); i++ {
			jac.Set(i, j, (fp.AtVec(i)-fm.AtVec(i))/(2*h))
		}
	}
	return jac
}
