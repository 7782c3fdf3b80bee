package game

import (
	"fmt"

	"github.com/twai/twai/move"
)

// Play applies one action to the active piece. A rejected rotation or
// shift leaves the game unchanged. An action outside the known set is a
// caller bug and panics.
func (g *Game) Play(a move.Action) {
	switch a {
	case move.ActionHold:
		g.SwapHold()
	case move.ActionRotateCW:
		g.Rotate(true)
	case move.ActionRotateCCW:
		g.Rotate(false)
	case move.ActionShiftRight:
		g.Shift(false)
	case move.ActionShiftLeft:
		g.Shift(true)
	case move.ActionDown:
		g.Down()
	default:
		panic(fmt.Sprintf("invalid action token %d", int(a)))
	}
}

// PlaySequence applies actions in order.
func (g *Game) PlaySequence(seq move.Sequence) {
	for _, a := range seq {
		g.Play(a)
	}
}

// ExecuteOnCopies replays seq on copies of the game and returns every
// intermediate state, starting with a copy of the current one. The game
// itself is not modified.
func (g *Game) ExecuteOnCopies(seq move.Sequence) []*Game {
	states := make([]*Game, 0, len(seq)+1)
	cur := g.Copy()
	states = append(states, cur)
	for _, a := range seq {
		next := cur.Copy()
		next.Play(a)
		states = append(states, next)
		cur = next
	}
	return states
}
