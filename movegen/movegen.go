// Package movegen finds where the active piece can come to rest and how to
// get it there.
package movegen

import (
	"github.com/rs/zerolog/log"

	"github.com/twai/twai/board"
	"github.com/twai/twai/move"
)

// MoveGenerator generates resting placements for a piece.
type MoveGenerator interface {
	GenAll(grid *board.Grid, shape board.Shape)
	Plays() []*move.Move
	SetPlayRecorder(pr PlayRecorderFunc)
}

// PlayRecorderFunc is called for every resting placement found.
type PlayRecorderFunc func(gen *PlacementGenerator, shape board.Shape, pose board.Pose)

// AllPlaysRecorder keeps every placement, including the same pose reached
// from different anchors or rotations.
func AllPlaysRecorder(gen *PlacementGenerator, shape board.Shape, pose board.Pose) {
	gen.plays = append(gen.plays, move.NewPlacement(shape, pose, gen.height))
}

// UniquePlaysRecorder drops placements whose pose was already recorded.
func UniquePlaysRecorder(gen *PlacementGenerator, shape board.Shape, pose board.Pose) {
	if _, ok := gen.seen[pose]; ok {
		return
	}
	gen.seen[pose] = struct{}{}
	AllPlaysRecorder(gen, shape, pose)
}

// PlacementGenerator enumerates every pose of a shape that fits on the
// grid and rests on something.
type PlacementGenerator struct {
	plays        []*move.Move
	seen         map[board.Pose]struct{}
	height       int
	playRecorder PlayRecorderFunc
}

func NewPlacementGenerator() *PlacementGenerator {
	return &PlacementGenerator{
		seen:         make(map[board.Pose]struct{}),
		playRecorder: AllPlaysRecorder,
	}
}

func (gen *PlacementGenerator) SetPlayRecorder(pr PlayRecorderFunc) {
	gen.playRecorder = pr
}

// GenAll tries every anchor on the grid with each of the four rotation
// states. Results are in row, column, rotation order.
func (gen *PlacementGenerator) GenAll(grid *board.Grid, shape board.Shape) {
	gen.plays = gen.plays[:0]
	clear(gen.seen)
	gen.height = grid.Height()

	var bases [4]board.Pose
	for rot := range bases {
		bases[rot] = board.BasePose(shape, rot)
	}
	for row := 0; row < grid.Height(); row++ {
		for col := 0; col < grid.Width(); col++ {
			for rot := 0; rot < 4; rot++ {
				p := bases[rot].Translate(float64(row), float64(col))
				if !grid.Fits(p) || !grid.Landed(p) {
					continue
				}
				gen.playRecorder(gen, shape, p)
			}
		}
	}
	log.Debug().Str("shape", shape.String()).Int("placements", len(gen.plays)).Msg("placements-generated")
}

// Plays returns the placements from the last GenAll. The slice is reused
// by the next call.
func (gen *PlacementGenerator) Plays() []*move.Move {
	return gen.plays
}
