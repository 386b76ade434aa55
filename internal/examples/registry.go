package examples

import (
	"fmt"
	"sort"

	"github.com/cookiew/ilqgames/internal/solver"
)

// Scenario describes a named example problem and how to display it.
type Scenario struct {
	Name        string
	Description string
	// DefaultSteps and DefaultDt are used when the caller does not override.
	DefaultSteps int
	DefaultDt    float64
	// PositionDims holds each player's (x, y) state indices for plotting;
	// nil for scalar examples.
	PositionDims [][2]int
	// Flat indicates states are stored in flat coordinates.
	Flat bool

	build func(steps int, dt float64, params solver.Params) (*solver.Problem, error)
}

func (s Scenario) Build(steps int, dt float64, params solver.Params) (*solver.Problem, error) {
	if steps <= 0 {
		steps = s.DefaultSteps
	}
	if dt <= 0 {
		dt = s.DefaultDt
	}
	return s.build(steps, dt, params)
}

// Registry maps scenario names to builders.
type Registry struct {
	scenarios map[string]Scenario
}

func NewRegistry() *Registry {
	r := &Registry{scenarios: make(map[string]Scenario)}

	r.scenarios["pointmass"] = Scenario{
		Name:         "pointmass",
		Description:  "two-player 1D point mass (linear-quadratic)",
		DefaultSteps: 100,
		DefaultDt:    0.1,
		build:        NewPointMassProblem,
	}
	r.scenarios["overtaking"] = Scenario{
		Name:         "overtaking",
		Description:  "two unicycles, follower overtakes leader",
		DefaultSteps: 100,
		DefaultDt:    0.1,
		PositionDims: [][2]int{{0, 1}, {4, 5}},
		build:        NewOvertakingProblem,
	}
	r.scenarios["roundabout"] = Scenario{
		Name:         "roundabout",
		Description:  "four flat cars merging into a roundabout",
		DefaultSteps: 100,
		DefaultDt:    0.1,
		PositionDims: [][2]int{{0, 1}, {6, 7}, {12, 13}, {18, 19}},
		Flat:         true,
		build:        NewRoundaboutProblem,
	}
	return r
}

func (r *Registry) Get(name string) (Scenario, error) {
	s, ok := r.scenarios[name]
	if !ok {
		return Scenario{}, fmt.Errorf("unknown scenario: %s", name)
	}
	return s, nil
}

func (r *Registry) List() []string {
	names := make([]string, 0, len(r.scenarios))
	for name := range r.scenarios {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
