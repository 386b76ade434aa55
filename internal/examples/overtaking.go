package examples

import (
	"gonum.org/v1/gonum/mat"

	"github.com/cookiew/ilqgames/internal/cost"
	"github.com/cookiew/ilqgames/internal/dynamics"
	"github.com/cookiew/ilqgames/internal/geometry"
	"github.com/cookiew/ilqgames/internal/solver"
)

// Overtaking scenario constants.
const (
	OvertakingMinProximity = 6.0 // m

	overtakingLaneCostWeight     = 25.0
	overtakingBoundaryCostWeight = 100.0
	overtakingNominalVCostWeight = 10.0
	overtakingProximityWeight    = 100.0
	overtakingControlWeight      = 4.0

	overtakingLaneHalfWidth = 2.5  // m
	overtakingLeadGap       = 20.0 // m
	overtakingLeaderV       = 10.0 // m/s
	overtakingFollowerV     = 12.0 // m/s
)

// NewOvertakingProblem builds a two-player highway scenario: both unicycles
// head +x at 10 m/s with the follower 20 m behind; the follower's higher
// nominal speed and the mutual proximity penalty force it around the leader.
func NewOvertakingProblem(steps int, dt float64, params solver.Params) (*solver.Problem, error) {
	follower := dynamics.NewUnicycle4D()
	leader := dynamics.NewUnicycle4D()
	sys := dynamics.NewConcatenatedSystem([]dynamics.Subsystem{follower, leader}, dt)

	fOff := sys.XOffset(0)
	lOff := sys.XOffset(1)
	fX, fY := fOff+dynamics.UnicyclePxIdx, fOff+dynamics.UnicyclePyIdx
	fV := fOff + dynamics.UnicycleVIdx
	lX, lY := lOff+dynamics.UnicyclePxIdx, lOff+dynamics.UnicyclePyIdx
	lV := lOff + dynamics.UnicycleVIdx

	// One straight lane along +x; the follower may use the passing side.
	laneLength := overtakingLeadGap + overtakingFollowerV*float64(steps)*dt*2
	lane := geometry.NewPolyline2([]geometry.Point2{{X: -10, Y: 0}, {X: laneLength, Y: 0}})

	fCost := cost.NewPlayerCost("follower")
	fCost.AddStateCost(cost.NewQuadraticPolylineCost(overtakingLaneCostWeight/5, lane, fX, fY, "LaneCenter"))
	fCost.AddStateCost(cost.NewSemiquadraticPolylineCost(overtakingBoundaryCostWeight, lane, fX, fY, overtakingLaneHalfWidth, true, "LaneRightBoundary"))
	fCost.AddStateCost(cost.NewSemiquadraticPolylineCost(overtakingBoundaryCostWeight, lane, fX, fY, -2*overtakingLaneHalfWidth, false, "LaneLeftBoundary"))
	fCost.AddStateCost(cost.NewQuadraticCost(overtakingNominalVCostWeight, fV, overtakingFollowerV, "NominalV"))
	fCost.AddStateCost(cost.NewProximityCost(overtakingProximityWeight, fX, fY, lX, lY, OvertakingMinProximity, "ProximityLeader"))
	fCost.AddControlCost(0, cost.NewQuadraticCost(overtakingControlWeight, cost.ApplyInAllDimensions, 0, "ControlEffort"))

	lCost := cost.NewPlayerCost("leader")
	lCost.AddStateCost(cost.NewQuadraticPolylineCost(overtakingLaneCostWeight, lane, lX, lY, "LaneCenter"))
	lCost.AddStateCost(cost.NewSemiquadraticPolylineCost(overtakingBoundaryCostWeight, lane, lX, lY, overtakingLaneHalfWidth, true, "LaneRightBoundary"))
	lCost.AddStateCost(cost.NewSemiquadraticPolylineCost(overtakingBoundaryCostWeight, lane, lX, lY, -overtakingLaneHalfWidth, false, "LaneLeftBoundary"))
	lCost.AddStateCost(cost.NewQuadraticCost(overtakingNominalVCostWeight, lV, overtakingLeaderV, "NominalV"))
	lCost.AddStateCost(cost.NewProximityCost(overtakingProximityWeight, lX, lY, fX, fY, OvertakingMinProximity, "ProximityFollower"))
	lCost.AddControlCost(1, cost.NewQuadraticCost(overtakingControlWeight, cost.ApplyInAllDimensions, 0, "ControlEffort"))

	params.TrustRegionDimensions = []int{fX, fY, lX, lY}

	x0 := mat.NewVecDense(sys.XDim(), nil)
	x0.SetVec(fX, 0)
	x0.SetVec(fV, overtakingLeaderV)
	x0.SetVec(lX, overtakingLeadGap)
	x0.SetVec(lV, overtakingLeaderV)

	uDims := []int{2, 2}
	op := solver.NewOperatingPoint(steps, sys.XDim(), uDims, 0, dt)
	for k := 0; k < steps; k++ {
		t := float64(k) * dt
		op.Xs[k].SetVec(fX, overtakingLeaderV*t)
		op.Xs[k].SetVec(fV, overtakingLeaderV)
		op.Xs[k].SetVec(lX, overtakingLeadGap+overtakingLeaderV*t)
		op.Xs[k].SetVec(lV, overtakingLeaderV)
	}

	strategies := []solver.Strategy{
		solver.NewStrategy(steps-1, sys.XDim(), 2),
		solver.NewStrategy(steps-1, sys.XDim(), 2),
	}

	return solver.NewProblem(sys, []*cost.PlayerCost{fCost, lCost}, steps, params, x0, op, strategies)
}
