package game

import (
	"github.com/rs/zerolog/log"

	"github.com/twai/twai/move"
)

// A Planner picks the actions that take the active piece to its best
// placement. ok is false when no placement is reachable.
type Planner interface {
	NextBestMoves(g *Game) (seq move.Sequence, cost float64, ok bool)
}

// Session is the handle a driver uses to run one live game. It owns the
// game and replaces it on Reset.
type Session struct {
	height, width int
	planner       Planner
	newSource     func() PieceSource
	game          *Game
}

// NewSession starts a game. newSource is called on every reset; a nil
// newSource draws unseeded random pieces.
func NewSession(height, width int, planner Planner, newSource func() PieceSource) *Session {
	if newSource == nil {
		newSource = func() PieceSource { return NewRandomSource(nil) }
	}
	s := &Session{
		height:    height,
		width:     width,
		planner:   planner,
		newSource: newSource,
	}
	s.Reset()
	return s
}

// NextBestMoves asks the planner for the current piece's actions. The game
// is not modified.
func (s *Session) NextBestMoves() (move.Sequence, bool) {
	seq, cost, ok := s.planner.NextBestMoves(s.game)
	if ok {
		log.Debug().Str("actions", seq.String()).Float64("cost", cost).Msg("next-best-moves")
	}
	return seq, ok
}

// Play applies a single action. It panics on an invalid action.
func (s *Session) Play(a move.Action) {
	s.game.Play(a)
}

// PlayInt applies an action given by its integer code. It panics on an
// invalid code.
func (s *Session) PlayInt(code int) {
	s.game.Play(move.Action(code))
}

func (s *Session) RenderFrame() Frame {
	return s.game.RenderFrame()
}

// Lock locks the active piece. It returns false on game over.
func (s *Session) Lock() bool {
	return s.game.Lock()
}

// Reset replaces the live game with a fresh one.
func (s *Session) Reset() {
	s.game = NewGame(s.height, s.width, s.newSource())
}

// Step plays one full turn: plan, apply, lock. It returns ErrGameOver once
// the game has ended.
func (s *Session) Step() (move.Sequence, error) {
	if s.game.Over() {
		return nil, ErrGameOver
	}
	seq, ok := s.NextBestMoves()
	if ok {
		s.game.PlaySequence(seq)
	}
	if !s.game.Lock() {
		return seq, ErrGameOver
	}
	return seq, nil
}

func (s *Session) Game() *Game {
	return s.game
}

// SetPlanner swaps the planner used for later decisions.
func (s *Session) SetPlanner(p Planner) {
	s.planner = p
}
