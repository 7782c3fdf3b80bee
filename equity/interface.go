package equity

import (
	"github.com/twai/twai/board"
)

// CostCalculator scores a resting grid: the grid as it looks right after a
// piece has been placed, before line clears. landingHeight is the height of
// the placed piece's top cell. Lower is better.
type CostCalculator interface {
	Cost(grid *board.Grid, landingHeight int) float64
}

// PlacementCalculator can score many placements on one grid without
// rehashing it for each: BaseKey is computed once on the grid before any
// piece is placed, and PlacementCost is then called with pose placed.
type PlacementCalculator interface {
	CostCalculator
	BaseKey(grid *board.Grid) uint64
	PlacementCost(placed *board.Grid, baseKey uint64, pose board.Pose, landingHeight int) float64
}

// HeuristicCalculator is the weighted feature cost.
type HeuristicCalculator struct {
	weights Weights
}

func NewHeuristicCalculator(w Weights) *HeuristicCalculator {
	return &HeuristicCalculator{weights: w}
}

func (h *HeuristicCalculator) Weights() Weights {
	return h.weights
}

// Cost does not modify grid.
func (h *HeuristicCalculator) Cost(grid *board.Grid, landingHeight int) float64 {
	return ComputeFeatures(grid, landingHeight).Cost(h.weights)
}
