// Package optim tunes solver parameters by exhaustive grid search over a
// small set of named ranges.
package optim

import (
	"context"
	"math"

	"github.com/cookiew/ilqgames/internal/solver"
)

// GridSearch evaluates every combination of candidate parameter values and
// keeps the one with the lowest final merit (sum of the final iterate's player
// costs, whatever the termination).
type GridSearch struct {
	paramNames []string
	ranges     [][]float64
}

func NewGridSearch(params []string, ranges [][]float64) *GridSearch {
	return &GridSearch{paramNames: params, ranges: ranges}
}

// Search builds and solves a problem per combination. buildProblem maps a
// parameter assignment onto a ready problem; combinations whose construction
// or solve fails are skipped.
func (g *GridSearch) Search(
	ctx context.Context,
	buildProblem func(params map[string]float64) (*solver.Problem, error),
) (map[string]float64, float64, error) {

	best := math.Inf(1)
	var bestParams map[string]float64

	g.searchRecursive(ctx, 0, make(map[string]float64), buildProblem, &best, &bestParams)

	return bestParams, best, ctx.Err()
}

func (g *GridSearch) searchRecursive(
	ctx context.Context,
	depth int,
	current map[string]float64,
	buildProblem func(map[string]float64) (*solver.Problem, error),
	best *float64,
	bestParams *map[string]float64,
) {
	if ctx.Err() != nil {
		return
	}

	if depth == len(g.paramNames) {
		problem, err := buildProblem(current)
		if err != nil {
			return
		}
		log, err := problem.Solve(0)
		if err != nil || log.HasNaN() {
			return
		}

		merit := 0.0
		for _, c := range log.Final().Costs {
			merit += c
		}
		if merit < *best {
			*best = merit
			*bestParams = make(map[string]float64)
			for k, v := range current {
				(*bestParams)[k] = v
			}
		}
		return
	}

	name := g.paramNames[depth]
	for _, v := range g.ranges[depth] {
		current[name] = v
		g.searchRecursive(ctx, depth+1, current, buildProblem, best, bestParams)
	}
	delete(current, name)
}
