package game

import (
	"testing"

	"github.com/matryer/is"
	"github.com/stretchr/testify/assert"

	"github.com/twai/twai/board"
	"github.com/twai/twai/move"
)

func newTestGame(shapes ...board.Shape) *Game {
	return NewGame(DefaultHeight, DefaultWidth, NewSequenceSource(shapes...))
}

func TestNewGame(t *testing.T) {
	is := is.New(t)
	g := newTestGame(board.ShapeT, board.ShapeI, board.ShapeO)
	is.Equal(g.Held(), board.ShapeT)
	is.Equal(g.Active(), board.ShapeI)
	is.True(g.HasActive())
	is.Equal(g.ActivePose().Pivot, board.Point{Row: 2, Col: 5})
	is.Equal(g.Score(), 0)
	is.True(!g.Over())
}

func TestShiftStopsAtWall(t *testing.T) {
	is := is.New(t)
	g := newTestGame(board.ShapeI)
	for i := 0; i < 4; i++ {
		is.True(g.Shift(true))
	}
	before := g.ActivePose()
	is.True(!g.Shift(true))
	is.Equal(g.ActivePose(), before)
	is.Equal(before.Cells[0].Col, 0.5)
}

func TestRotate(t *testing.T) {
	is := is.New(t)
	g := newTestGame(board.ShapeI)
	is.True(g.Rotate(true))
	is.Equal(g.ActivePose().Cells, [4]board.Point{
		{Row: 1.5, Col: 6.5}, {Row: 1.5, Col: 5.5}, {Row: 1.5, Col: 4.5}, {Row: 1.5, Col: 3.5}})
	is.True(g.Rotate(false))
	is.Equal(g.ActivePose(), board.NewPose(board.ShapeI, g.SpawnAnchor()))

	o := newTestGame(board.ShapeO)
	start := o.ActivePose()
	is.True(o.Rotate(true))
	is.True(o.Rotate(false))
	is.Equal(o.ActivePose(), start)
}

func TestRotateBlocked(t *testing.T) {
	is := is.New(t)
	g := newTestGame(board.ShapeI)
	g.Grid().Set(1, 6, true)
	before := g.ActivePose()
	is.True(!g.Rotate(true))
	is.Equal(g.ActivePose(), before)
}

func TestDownUntilLanded(t *testing.T) {
	is := is.New(t)
	g := newTestGame(board.ShapeI)
	downs := 0
	for !g.Down() {
		downs++
	}
	downs++
	is.Equal(downs, 20)
	is.True(g.Landed())
	is.Equal(g.ActivePose().Cells[3].Row, 23.5)
	// a landed piece does not sink into the floor
	is.True(g.Down())
	is.Equal(g.ActivePose().Cells[3].Row, 23.5)
}

func TestLockClearsLine(t *testing.T) {
	is := is.New(t)
	g := newTestGame(board.ShapeI)
	for c := 0; c < DefaultWidth; c++ {
		if c != 4 {
			g.Grid().Set(23, c, true)
		}
	}
	for !g.Down() {
	}
	is.True(g.Lock())
	is.Equal(g.Score(), 1)
	is.Equal(g.ClearsOf(1), 1)
	is.Equal(g.PiecesPlaced(), 1)
	// three cells of the I remain in column 4
	is.Equal(g.Grid().Filled(), 3)
	is.True(g.Grid().Occupied(23, 4))
	is.True(g.Grid().Occupied(21, 4))
	is.True(!g.Grid().Occupied(20, 4))
}

func TestLockGameOver(t *testing.T) {
	is := is.New(t)
	g := newTestGame(board.ShapeO)
	// locking at the spawn point leaves no room for the next piece
	is.True(!g.Lock())
	is.True(g.Over())
	is.True(!g.Lock())
}

func TestSwapHold(t *testing.T) {
	is := is.New(t)
	g := newTestGame(board.ShapeT, board.ShapeI)
	g.Shift(false)
	g.Down()
	g.SwapHold()
	is.Equal(g.Active(), board.ShapeT)
	is.Equal(g.Held(), board.ShapeI)
	is.Equal(g.ActivePose(), board.NewPose(board.ShapeT, g.SpawnAnchor()))
}

func TestPlayInvalidPanics(t *testing.T) {
	g := newTestGame(board.ShapeT)
	assert.Panics(t, func() { g.Play(move.Action(3)) })
	assert.NotPanics(t, func() { g.Play(move.ActionShiftLeft) })
}

func TestRenderFrame(t *testing.T) {
	is := is.New(t)
	g := newTestGame(board.ShapeO)
	ints := g.RenderFrame().Ints()
	is.Equal(len(ints), 3+DefaultHeight*DefaultWidth)
	is.Equal(ints[0], 2+DefaultHeight*DefaultWidth)
	is.Equal(ints[1], DefaultHeight)
	is.Equal(ints[2], DefaultWidth)
	cells := ints[3:]
	sum := 0
	for _, c := range cells {
		sum += c
	}
	is.Equal(sum, 4)
	is.Equal(cells[4], 1)
	is.Equal(cells[5], 1)
	is.Equal(cells[DefaultWidth+4], 1)
	is.Equal(cells[DefaultWidth+5], 1)
	// the projection does not touch the grid
	is.Equal(g.Grid().Filled(), 0)
}

func TestExecuteOnCopies(t *testing.T) {
	is := is.New(t)
	g := newTestGame(board.ShapeO)
	start := g.ActivePose()
	states := g.ExecuteOnCopies(move.Sequence{
		move.ActionShiftRight, move.ActionShiftRight, move.ActionDown})
	is.Equal(len(states), 4)
	is.Equal(states[0].ActivePose(), start)
	is.Equal(states[1].ActivePose(), start.Translate(0, 1))
	is.Equal(states[3].ActivePose(), start.Translate(1, 2))
	is.Equal(g.ActivePose(), start)
}

func TestCopyIsIndependent(t *testing.T) {
	is := is.New(t)
	seed := [32]byte{1, 2, 3}
	g := NewGame(DefaultHeight, DefaultWidth, NewRandomSource(&seed))
	c := g.Copy()
	c.Grid().Set(10, 3, true)
	is.True(!g.Grid().Occupied(10, 3))

	for i := 0; i < 10; i++ {
		is.True(g.Lock() == c.Lock())
		is.Equal(g.Active(), c.Active())
	}
}

func TestRandomSourceDeterministic(t *testing.T) {
	is := is.New(t)
	seed := [32]byte{42}
	a := NewRandomSource(&seed)
	b := NewRandomSource(&seed)
	for i := 0; i < 10; i++ {
		is.Equal(a.Next(), b.Next())
	}
	c := a.Copy()
	seen := map[board.Shape]bool{}
	for i := 0; i < 200; i++ {
		s := a.Next()
		is.Equal(s, c.Next())
		is.True(s < board.NumShapes)
		seen[s] = true
	}
	is.Equal(len(seen), board.NumShapes)
}

func TestRandomSourceCopyAfterManyDraws(t *testing.T) {
	is := is.New(t)
	seed := [32]byte{7, 7}
	a := NewRandomSource(&seed)
	for i := 0; i < 200000; i++ {
		a.Next()
	}
	history := len(a.stream.shapes)

	// copying does not replay the history
	c := a.Copy().(*RandomSource)
	is.Equal(len(a.stream.shapes), history)
	is.Equal(c.Drawn(), 200000)

	// the copy draws first; the original still sees the same shapes, and
	// both agree with a fresh source at the same position
	fresh := NewRandomSource(&seed)
	for i := 0; i < 200000; i++ {
		fresh.Next()
	}
	ahead := make([]board.Shape, 50)
	for i := range ahead {
		ahead[i] = c.Next()
	}
	for i := range ahead {
		s := a.Next()
		is.Equal(s, ahead[i])
		is.Equal(s, fresh.Next())
	}
}

func TestUnseededCopyAgrees(t *testing.T) {
	is := is.New(t)
	a := NewRandomSource(nil)
	a.Next()
	c := a.Copy()
	for i := 0; i < 20; i++ {
		is.Equal(a.Next(), c.Next())
	}
}

type fixedPlanner struct {
	seq move.Sequence
}

func (p fixedPlanner) NextBestMoves(g *Game) (move.Sequence, float64, bool) {
	return p.seq, 0, p.seq != nil
}

func TestSession(t *testing.T) {
	is := is.New(t)
	drop := make(move.Sequence, 0, 22)
	for i := 0; i < 22; i++ {
		drop = append(drop, move.ActionDown)
	}
	s := NewSession(DefaultHeight, DefaultWidth, fixedPlanner{seq: drop},
		func() PieceSource { return NewSequenceSource(board.ShapeO) })

	seq, ok := s.NextBestMoves()
	is.True(ok)
	is.Equal(seq.Ints()[0], 22)
	_, err := s.Step()
	is.NoErr(err)
	is.Equal(s.Game().PiecesPlaced(), 1)
	is.True(s.Game().Grid().Occupied(23, 4))

	s.PlayInt(int(move.ActionShiftLeft))
	is.Equal(s.Game().ActivePose().Cells[0].Col, 3.5)

	s.Reset()
	is.Equal(s.Game().PiecesPlaced(), 0)
	is.Equal(s.Game().Grid().Filled(), 0)

	s.SetPlanner(fixedPlanner{})
	_, ok = s.NextBestMoves()
	is.True(!ok)
	// locking in place at spawn tops out
	_, err = s.Step()
	is.Equal(err, ErrGameOver)
}
