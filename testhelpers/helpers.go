// Package testhelpers builds fixtures shared by tests of several packages.
package testhelpers

import (
	"github.com/twai/twai/board"
	"github.com/twai/twai/game"
)

// GameOnBoard starts a game on a copy of a sample board. The first shape
// is held and the next is active; the source then cycles through shapes.
func GameOnBoard(sb board.SampleBoard, shapes ...board.Shape) *game.Game {
	fixture := sb.Grid()
	g := game.NewGame(fixture.Height(), fixture.Width(), game.NewSequenceSource(shapes...))
	g.Grid().CopyFrom(fixture)
	return g
}
