package dynamics

import (
	"gonum.org/v1/gonum/mat"
)

// ConcatenatedFlatSystem stacks per-player flat blocks into a joint
// feedback-linearizable system. In flat coordinates the joint dynamics are
// exactly linear and time invariant, so Evaluate and Linearize operate on the
// flat state directly.
type ConcatenatedFlatSystem struct {
	subsystems []FlatSubsystem
	xOffsets   []int
	xDim       int
	dt         float64
	linearized LinearApprox
}

func NewConcatenatedFlatSystem(subsystems []FlatSubsystem, dt float64) *ConcatenatedFlatSystem {
	c := &ConcatenatedFlatSystem{subsystems: subsystems, dt: dt}
	for _, s := range subsystems {
		c.xOffsets = append(c.xOffsets, c.xDim)
		c.xDim += s.XDim()
	}

	lin := NewLinearApprox(c)
	for i, sub := range c.subsystems {
		off := c.xOffsets[i]
		ac, bc := sub.ContinuousLinear()
		for r := 0; r < sub.XDim(); r++ {
			for col := 0; col < sub.XDim(); col++ {
				lin.A.Set(off+r, off+col, lin.A.At(off+r, off+col)+dt*ac.At(r, col))
			}
			for col := 0; col < sub.UDim(); col++ {
				lin.Bs[i].Set(off+r, col, dt*bc.At(r, col))
			}
		}
	}
	c.linearized = lin
	return c
}

func (c *ConcatenatedFlatSystem) XDim() int           { return c.xDim }
func (c *ConcatenatedFlatSystem) UDim(player int) int { return c.subsystems[player].UDim() }
func (c *ConcatenatedFlatSystem) NumPlayers() int     { return len(c.subsystems) }
func (c *ConcatenatedFlatSystem) TimeStep() float64   { return c.dt }

// XOffset returns the index of player i's first state dimension.
func (c *ConcatenatedFlatSystem) XOffset(player int) int { return c.xOffsets[player] }

// Evaluate computes the flat-coordinate vector field A_c xi + sum_i B_c,i w_i.
// Both xi and the controls live in the linear system.
func (c *ConcatenatedFlatSystem) Evaluate(t float64, xi *mat.VecDense, ws []*mat.VecDense) *mat.VecDense {
	dx := mat.NewVecDense(c.xDim, nil)
	for i, sub := range c.subsystems {
		off := c.xOffsets[i]
		ac, bc := sub.ContinuousLinear()
		for r := 0; r < sub.XDim(); r++ {
			v := 0.0
			for col := 0; col < sub.XDim(); col++ {
				v += ac.At(r, col) * xi.AtVec(off+col)
			}
			for col := 0; col < sub.UDim(); col++ {
				v += bc.At(r, col) * ws[i].AtVec(col)
			}
			dx.SetVec(off+r, v)
		}
	}
	return dx
}

func (c *ConcatenatedFlatSystem) Linearize(t float64, xi *mat.VecDense, ws []*mat.VecDense) LinearApprox {
	return c.linearized
}

func (c *ConcatenatedFlatSystem) LinearizedSystem() LinearApprox {
	return c.linearized
}

func (c *ConcatenatedFlatSystem) ToLinearState(x *mat.VecDense) *mat.VecDense {
	xi := mat.NewVecDense(c.xDim, nil)
	for i, sub := range c.subsystems {
		off := c.xOffsets[i]
		block := make([]float64, sub.XDim())
		for j := range block {
			block[j] = x.AtVec(off + j)
		}
		for j, v := range sub.ToLinearBlock(block) {
			xi.SetVec(off+j, v)
		}
	}
	return xi
}

func (c *ConcatenatedFlatSystem) FromLinearState(xi *mat.VecDense) *mat.VecDense {
	x := mat.NewVecDense(c.xDim, nil)
	for i, sub := range c.subsystems {
		off := c.xOffsets[i]
		block := make([]float64, sub.XDim())
		for j := range block {
			block[j] = xi.AtVec(off + j)
		}
		for j, v := range sub.FromLinearBlock(block) {
			x.SetVec(off+j, v)
		}
	}
	return x
}

var _ FlatSystem = (*ConcatenatedFlatSystem)(nil)
