package examples

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/cookiew/ilqgames/internal/cost"
	"github.com/cookiew/ilqgames/internal/dynamics"
	"github.com/cookiew/ilqgames/internal/geometry"
	"github.com/cookiew/ilqgames/internal/solver"
)

// Roundabout merging scenario constants.
const (
	RoundaboutMinProximity = 6.0  // m
	RoundaboutRadius       = 10.0 // m
	RoundaboutNominalV     = 10.0 // m/s

	roundaboutLaneCostWeight     = 25.0
	roundaboutBoundaryCostWeight = 100.0
	roundaboutNominalVCostWeight = 10.0
	roundaboutProximityWeight    = 100.0
	roundaboutAuxCostWeight      = 4.0

	roundaboutLaneHalfWidth     = 2.5 // m
	roundaboutInterAxleDistance = 4.0 // m
)

var (
	roundaboutInitialDistances = []float64{25, 10, 25, 10} // m
	roundaboutInitialSpeeds    = []float64{3, 2, 3, 2}     // m/s
)

// RoundaboutLaneCenter builds one vehicle's lane: a straight approach from
// the given radial distance outside the circle, then an arc around it
// spanning the wedge.
func RoundaboutLaneCenter(entryAngle, exitAngle, distanceToRoundabout float64) []geometry.Point2 {
	points := []geometry.Point2{
		{
			X: (RoundaboutRadius + distanceToRoundabout) * math.Cos(entryAngle),
			Y: (RoundaboutRadius + distanceToRoundabout) * math.Sin(entryAngle),
		},
	}
	const angleStep = 0.25 // rad
	for a := entryAngle; a < exitAngle; a += angleStep {
		points = append(points, geometry.Point2{
			X: RoundaboutRadius * math.Cos(a),
			Y: RoundaboutRadius * math.Sin(a),
		})
	}
	points = append(points, geometry.Point2{
		X: RoundaboutRadius * math.Cos(exitAngle),
		Y: RoundaboutRadius * math.Sin(exitAngle),
	})
	return points
}

// NewRoundaboutProblem builds the four-car flat roundabout merge: feedback
// linearized 6D cars entering at angular placements pi/4, 3pi/4, 5pi/4,
// 7pi/4 from staggered distances and speeds.
func NewRoundaboutProblem(steps int, dt float64, params solver.Params) (*solver.Problem, error) {
	const numPlayers = 4

	subsystems := make([]dynamics.FlatSubsystem, numPlayers)
	for i := range subsystems {
		subsystems[i] = dynamics.NewFlatCar6D(roundaboutInterAxleDistance)
	}
	sys := dynamics.NewConcatenatedFlatSystem(subsystems, dt)

	const angleOffset = math.Pi / 4
	const wedgeSize = math.Pi

	lanes := make([]*geometry.Polyline2, numPlayers)
	xIdx := make([]int, numPlayers)
	yIdx := make([]int, numPlayers)
	trustDims := make([]int, 0, 2*numPlayers)
	for i := 0; i < numPlayers; i++ {
		angle := angleOffset + float64(i)*math.Pi/2
		lanes[i] = geometry.NewPolyline2(
			RoundaboutLaneCenter(angle, angle+wedgeSize, roundaboutInitialDistances[i]))

		off := sys.XOffset(i)
		xIdx[i] = off + dynamics.FlatCarPxIdx
		yIdx[i] = off + dynamics.FlatCarPyIdx
		trustDims = append(trustDims, xIdx[i], yIdx[i])
	}

	costs := make([]*cost.PlayerCost, numPlayers)
	for i := 0; i < numPlayers; i++ {
		pc := cost.NewPlayerCost("car" + string(rune('1'+i)))
		pc.AddStateCost(cost.NewQuadraticPolylineCost(roundaboutLaneCostWeight, lanes[i], xIdx[i], yIdx[i], "LaneCenter"))
		pc.AddStateCost(cost.NewSemiquadraticPolylineCost(roundaboutBoundaryCostWeight, lanes[i], xIdx[i], yIdx[i], roundaboutLaneHalfWidth, true, "LaneRightBoundary"))
		pc.AddStateCost(cost.NewSemiquadraticPolylineCost(roundaboutBoundaryCostWeight, lanes[i], xIdx[i], yIdx[i], -roundaboutLaneHalfWidth, false, "LaneLeftBoundary"))
		pc.AddStateCost(cost.NewRouteProgressCost(roundaboutNominalVCostWeight, RoundaboutNominalV, lanes[i], xIdx[i], yIdx[i], 0, 0, "RouteProgress"))
		pc.AddControlCost(i, cost.NewQuadraticCost(roundaboutAuxCostWeight, cost.ApplyInAllDimensions, 0, "AuxiliaryInput"))

		// Each car watches its neighbors entering before and after it.
		prev := (i + numPlayers - 1) % numPlayers
		next := (i + 1) % numPlayers
		pc.AddStateCost(cost.NewProximityCost(roundaboutProximityWeight, xIdx[i], yIdx[i], xIdx[prev], yIdx[prev], RoundaboutMinProximity, "ProximityPrev"))
		pc.AddStateCost(cost.NewProximityCost(roundaboutProximityWeight, xIdx[i], yIdx[i], xIdx[next], yIdx[next], RoundaboutMinProximity, "ProximityNext"))
		costs[i] = pc
	}

	params.TrustRegionDimensions = trustDims

	// Nonlinear initial state, then map into flat coordinates.
	x0 := mat.NewVecDense(sys.XDim(), nil)
	for i := 0; i < numPlayers; i++ {
		off := sys.XOffset(i)
		start := lanes[i].Points()[0]
		heading := lanes[i].Segments()[0].Heading()
		x0.SetVec(off+dynamics.FlatCarPxIdx, start.X)
		x0.SetVec(off+dynamics.FlatCarPyIdx, start.Y)
		x0.SetVec(off+dynamics.FlatCarThetaIdx, heading)
		x0.SetVec(off+dynamics.FlatCarVIdx, roundaboutInitialSpeeds[i])
	}
	xi0 := sys.ToLinearState(x0)

	uDims := make([]int, numPlayers)
	for i := range uDims {
		uDims[i] = 2
	}
	op := solver.NewOperatingPoint(steps, sys.XDim(), uDims, 0, dt)
	for i := 0; i < numPlayers; i++ {
		InitializeAlongRoute(lanes[i], 0, roundaboutInitialSpeeds[i], xIdx[i], yIdx[i], &op)
	}

	strategies := make([]solver.Strategy, numPlayers)
	for i := range strategies {
		strategies[i] = solver.NewStrategy(steps-1, sys.XDim(), 2)
	}

	return solver.NewProblem(sys, costs, steps, params, xi0, op, strategies)
}
