// Package game holds the live state of a single falling-block game: the
// grid of locked cells, the active piece, the hold slot and the score. It
// knows the rules of motion but nothing about how moves are chosen.
package game

import (
	"errors"

	"github.com/rs/zerolog/log"

	"github.com/twai/twai/board"
)

const (
	DefaultHeight = 24
	DefaultWidth  = 10
)

var ErrGameOver = errors.New("game over")

// Game is the mutable game state. The active piece is always in bounds and
// never overlaps a locked cell.
type Game struct {
	grid *board.Grid

	active     board.Shape
	activePose board.Pose
	hasActive  bool
	held       board.Shape

	// score is the number of lines cleared.
	score  int
	pieces int
	// clears[n] counts locks that cleared exactly n lines.
	clears [5]int
	over   bool

	src PieceSource
}

// NewGame creates a game with an empty grid. The held piece is drawn first,
// then the first active piece is spawned.
func NewGame(height, width int, src PieceSource) *Game {
	if src == nil {
		src = NewRandomSource(nil)
	}
	g := &Game{
		grid: board.NewGrid(height, width),
		src:  src,
	}
	g.held = src.Next()
	if !g.spawn() {
		g.over = true
	}
	return g
}

// SpawnAnchor is where new pieces appear.
func (g *Game) SpawnAnchor() board.Point {
	return board.Point{Row: 0, Col: float64(g.grid.Width()/2 - 1)}
}

func (g *Game) spawn() bool {
	s := g.src.Next()
	p := board.NewPose(s, g.SpawnAnchor())
	if !g.grid.Fits(p) {
		log.Debug().Str("shape", s.String()).Int("pieces", g.pieces).Msg("spawn-collision")
		return false
	}
	g.active = s
	g.activePose = p
	g.hasActive = true
	return true
}

func (g *Game) Grid() *board.Grid       { return g.grid }
func (g *Game) Active() board.Shape     { return g.active }
func (g *Game) ActivePose() board.Pose  { return g.activePose }
func (g *Game) HasActive() bool         { return g.hasActive }
func (g *Game) Held() board.Shape       { return g.held }
func (g *Game) Score() int              { return g.score }
func (g *Game) PiecesPlaced() int       { return g.pieces }
func (g *Game) Over() bool              { return g.over }
func (g *Game) Height() int             { return g.grid.Height() }
func (g *Game) Width() int              { return g.grid.Width() }
func (g *Game) Source() PieceSource     { return g.src }
func (g *Game) ClearsOf(lines int) int  { return g.clears[lines] }

// Rotate turns the active piece a quarter turn. The O piece always
// succeeds without moving. Other pieces rotate only if every new cell is
// free; there are no wall kicks.
func (g *Game) Rotate(clockwise bool) bool {
	if !g.hasActive {
		return false
	}
	np := g.activePose.Rotate(g.active, clockwise)
	if !g.grid.Fits(np) {
		return false
	}
	g.activePose = np
	return true
}

// Shift moves the active piece one column if every new cell is free.
func (g *Game) Shift(left bool) bool {
	if !g.hasActive {
		return false
	}
	d := 1.0
	if left {
		d = -1
	}
	np := g.activePose.Translate(0, d)
	if !g.grid.Fits(np) {
		return false
	}
	g.activePose = np
	return true
}

// Down moves the active piece one row and reports whether it has landed.
// Callers are expected to check Landed first; a piece that has already
// landed stays where it is.
func (g *Game) Down() bool {
	if !g.hasActive {
		return false
	}
	if g.grid.Landed(g.activePose) {
		return true
	}
	g.activePose = g.activePose.Translate(1, 0)
	return g.grid.Landed(g.activePose)
}

// Landed reports whether the active piece is resting on something.
func (g *Game) Landed() bool {
	return g.hasActive && g.grid.Landed(g.activePose)
}

// Lock writes the active piece into the grid, clears full lines, and
// spawns the next piece. It returns false when the new piece does not fit,
// which ends the game.
func (g *Game) Lock() bool {
	if g.over {
		return false
	}
	if g.hasActive {
		g.grid.Place(g.activePose)
		g.hasActive = false
		g.pieces++
		n := g.grid.ClearLines()
		g.score += n
		g.clears[n]++
	}
	if !g.spawn() {
		g.over = true
		log.Debug().Int("score", g.score).Int("pieces", g.pieces).Msg("game-over")
		return false
	}
	return true
}

// SwapHold puts the active shape in the hold slot and brings the held
// shape in at the spawn anchor. The incoming piece is not checked for
// collisions.
func (g *Game) SwapHold() {
	if !g.hasActive {
		return
	}
	incoming := g.held
	g.held = g.active
	g.active = incoming
	g.activePose = board.NewPose(incoming, g.SpawnAnchor())
}

// Copy returns an independent deep copy of the game, including the piece
// source.
func (g *Game) Copy() *Game {
	c := *g
	c.grid = g.grid.Copy()
	c.src = g.src.Copy()
	return &c
}
