package dynamics

import (
	"gonum.org/v1/gonum/mat"
)

// ConcatenatedSystem stacks one Subsystem per player into a joint system.
// The joint state is the concatenation of the per-player blocks and player i
// controls only its own block.
type ConcatenatedSystem struct {
	subsystems []Subsystem
	xOffsets   []int
	xDim       int
	dt         float64
}

func NewConcatenatedSystem(subsystems []Subsystem, dt float64) *ConcatenatedSystem {
	c := &ConcatenatedSystem{subsystems: subsystems, dt: dt}
	for _, s := range subsystems {
		c.xOffsets = append(c.xOffsets, c.xDim)
		c.xDim += s.XDim()
	}
	return c
}

func (c *ConcatenatedSystem) XDim() int          { return c.xDim }
func (c *ConcatenatedSystem) UDim(player int) int { return c.subsystems[player].UDim() }
func (c *ConcatenatedSystem) NumPlayers() int    { return len(c.subsystems) }
func (c *ConcatenatedSystem) TimeStep() float64  { return c.dt }

// XOffset returns the index of player i's first state dimension.
func (c *ConcatenatedSystem) XOffset(player int) int { return c.xOffsets[player] }

func (c *ConcatenatedSystem) Evaluate(t float64, x *mat.VecDense, us []*mat.VecDense) *mat.VecDense {
	dx := mat.NewVecDense(c.xDim, nil)
	for i, sub := range c.subsystems {
		off := c.xOffsets[i]
		xi := make([]float64, sub.XDim())
		for j := range xi {
			xi[j] = x.AtVec(off + j)
		}
		ui := make([]float64, sub.UDim())
		for j := range ui {
			ui[j] = us[i].AtVec(j)
		}
		for j, v := range sub.Evaluate(t, xi, ui) {
			dx.SetVec(off+j, v)
		}
	}
	return dx
}

func (c *ConcatenatedSystem) Linearize(t float64, x *mat.VecDense, us []*mat.VecDense) LinearApprox {
	lin := NewLinearApprox(c)
	for i, sub := range c.subsystems {
		off := c.xOffsets[i]
		xi := make([]float64, sub.XDim())
		for j := range xi {
			xi[j] = x.AtVec(off + j)
		}
		ui := make([]float64, sub.UDim())
		for j := range ui {
			ui[j] = us[i].AtVec(j)
		}

		ac, bc := sub.LinearizeContinuous(t, xi, ui)

		// First-order discretization: A = I + dt*Ac, B = dt*Bc.
		for r := 0; r < sub.XDim(); r++ {
			for col := 0; col < sub.XDim(); col++ {
				lin.A.Set(off+r, off+col, lin.A.At(off+r, off+col)+c.dt*ac.At(r, col))
			}
			for col := 0; col < sub.UDim(); col++ {
				lin.Bs[i].Set(off+r, col, c.dt*bc.At(r, col))
			}
		}
	}
	return lin
}

var _ System = (*ConcatenatedSystem)(nil)
