package solver

import "fmt"

// MeritFunction selects how per-player costs collapse to the scalar compared
// during line search.
type MeritFunction string

const (
	MeritSum MeritFunction = "sum"
	MeritMax MeritFunction = "max"
)

// Params configures the ILQ outer loop. The zero value is not usable; start
// from DefaultParams.
type Params struct {
	MaxIterations int           `yaml:"max_iterations"`
	Merit         MeritFunction `yaml:"merit_function"`

	ConvergenceTolCost    float64 `yaml:"convergence_tol_cost"`
	ConvergenceTolState   float64 `yaml:"convergence_tol_state"`
	ConvergenceTolControl float64 `yaml:"convergence_tol_control"`

	LineSearchStepInit float64 `yaml:"line_search_step_init"`
	LineSearchShrink   float64 `yaml:"line_search_shrink"`
	LineSearchStepMin  float64 `yaml:"line_search_step_min"`

	// MeritTolerance allows a non-strict decrease: a step is accepted when
	// the merit does not increase by more than this amount.
	MeritTolerance float64 `yaml:"merit_tolerance"`

	// Trust region: state dimensions whose deviation from the previous
	// operating point is clamped to TrustRegionDelta during rollout.
	// Feedforward terms are never clamped, only state deviations.
	TrustRegionDimensions []int   `yaml:"trust_region_dimensions"`
	TrustRegionDelta      float64 `yaml:"trust_region_delta"`

	// DivergenceIterations is the number of consecutive rejected line
	// searches after which the solve terminates as diverged.
	DivergenceIterations int `yaml:"divergence_iterations"`

	// OpenLoop is reserved; setting it is a configuration error.
	OpenLoop bool `yaml:"open_loop"`

	LogEveryIterate bool `yaml:"log_every_iterate"`
}

func DefaultParams() Params {
	return Params{
		MaxIterations:         100,
		Merit:                 MeritSum,
		ConvergenceTolCost:    1e-3,
		ConvergenceTolState:   1e-3,
		ConvergenceTolControl: 1e-3,
		LineSearchStepInit:    1.0,
		LineSearchShrink:      0.5,
		LineSearchStepMin:     1e-3,
		MeritTolerance:        1e-6,
		TrustRegionDelta:      1.0,
		DivergenceIterations:  3,
		LogEveryIterate:       true,
	}
}

// Validate reports configuration errors. These are fatal at construction.
func (p Params) Validate() error {
	if p.MaxIterations <= 0 {
		return fmt.Errorf("max_iterations must be positive, got %d", p.MaxIterations)
	}
	switch p.Merit {
	case MeritSum, MeritMax:
	default:
		return fmt.Errorf("unknown merit function %q", p.Merit)
	}
	if p.LineSearchStepInit <= 0 || p.LineSearchStepInit > 1 {
		return fmt.Errorf("line_search_step_init must be in (0, 1], got %g", p.LineSearchStepInit)
	}
	if p.LineSearchShrink <= 0 || p.LineSearchShrink >= 1 {
		return fmt.Errorf("line_search_shrink must be in (0, 1), got %g", p.LineSearchShrink)
	}
	if p.LineSearchStepMin <= 0 || p.LineSearchStepMin > p.LineSearchStepInit {
		return fmt.Errorf("line_search_step_min must be in (0, step_init], got %g", p.LineSearchStepMin)
	}
	if len(p.TrustRegionDimensions) > 0 && p.TrustRegionDelta <= 0 {
		return fmt.Errorf("trust_region_delta must be positive when trust region dimensions are set")
	}
	if p.DivergenceIterations <= 0 {
		return fmt.Errorf("divergence_iterations must be positive, got %d", p.DivergenceIterations)
	}
	if p.OpenLoop {
		return fmt.Errorf("open_loop solving is reserved and not implemented")
	}
	return nil
}
