package dynamics

import "gonum.org/v1/gonum/mat"

// Subsystem is a single player's dynamics block inside a concatenated
// multi-player system. State and control slices refer only to the player's
// own block.
type Subsystem interface {
	XDim() int
	UDim() int

	// Evaluate returns the continuous-time derivative of the player's block.
	Evaluate(t float64, x, u []float64) []float64

	// LinearizeContinuous returns the continuous-time Jacobians of the block
	// with respect to its own state and control.
	LinearizeContinuous(t float64, x, u []float64) (A, B *mat.Dense)
}

// FlatSubsystem is a single player's feedback-linearizable dynamics block.
// The equivalent linear system is time invariant, so only the constant
// continuous-time matrices and the per-block diffeomorphism are needed.
type FlatSubsystem interface {
	XDim() int
	UDim() int

	// ContinuousLinear returns the constant (A, B) of the block's equivalent
	// linear system in flat coordinates.
	ContinuousLinear() (A, B *mat.Dense)

	// ToLinearBlock maps the block's nonlinear state to flat coordinates.
	ToLinearBlock(x []float64) []float64

	// FromLinearBlock inverts the diffeomorphism.
	FromLinearBlock(xi []float64) []float64
}
