package bot

import (
	"testing"

	"github.com/matryer/is"

	"github.com/twai/twai/board"
	"github.com/twai/twai/config"
	"github.com/twai/twai/equity"
	"github.com/twai/twai/game"
	"github.com/twai/twai/move"
	"github.com/twai/twai/testhelpers"
)

func defaultSelector() *Selector {
	return NewSelector(equity.NewHeuristicCalculator(equity.DefaultWeights()))
}

func TestOPieceFillsWell(t *testing.T) {
	is := is.New(t)
	g := testhelpers.GameOnBoard(board.WellBoard, board.ShapeO)
	gap := board.NewPose(board.ShapeO, board.Point{Row: 22, Col: 3})

	s := defaultSelector()
	ranked := s.RankedMoves(g)
	is.True(len(ranked) > 0)
	is.Equal(ranked[0].Pose(), gap)
	for _, m := range ranked {
		if m.Pose() != gap {
			is.True(m.Cost() > ranked[0].Cost())
		}
	}

	best := s.BestMove(g)
	is.True(best != nil)
	is.Equal(best.Pose(), gap)
	is.True(!best.ViaHold())
	seq := best.Actions()
	is.Equal(len(seq), 23)
	is.Equal(seq.Count(move.ActionShiftLeft), 1)
	is.Equal(seq.Count(move.ActionDown), 22)

	c := g.Copy()
	c.PlaySequence(seq)
	is.Equal(c.ActivePose(), gap)
	is.True(c.Lock())
	is.Equal(c.Score(), 2)
}

func TestHoldWhenCheaper(t *testing.T) {
	is := is.New(t)
	// held O, active S
	g := testhelpers.GameOnBoard(board.WellBoard, board.ShapeO, board.ShapeS)
	is.Equal(g.Active(), board.ShapeS)

	s := defaultSelector()
	best := s.BestMove(g)
	is.True(best != nil)
	is.True(best.ViaHold())
	is.Equal(best.Actions()[0], move.ActionHold)
	is.Equal(best.Shape(), board.ShapeO)

	seq, cost, ok := s.NextBestMoves(g)
	is.True(ok)
	is.Equal(cost, best.Cost())
	c := g.Copy()
	c.PlaySequence(seq)
	is.Equal(c.Active(), board.ShapeO)
	is.Equal(c.Held(), board.ShapeS)
	is.Equal(c.ActivePose(), board.NewPose(board.ShapeO, board.Point{Row: 22, Col: 3}))

	// the live game is untouched by the search
	is.Equal(g.Active(), board.ShapeS)
	is.True(g.Grid().Equals(board.WellBoard.Grid()))

	s.SetLookahead(false)
	best = s.BestMove(g)
	is.True(best != nil)
	is.True(!best.ViaHold())
	is.Equal(best.Shape(), board.ShapeS)
}

func blockedOGame() *game.Game {
	// held I, active O
	g := game.NewGame(8, 6, game.NewSequenceSource(board.ShapeI, board.ShapeO))
	g.Grid().Set(0, 3, true)
	g.Grid().Set(0, 1, true)
	g.Grid().Set(2, 3, true)
	return g
}

func TestNoDirectMoveFallsBackToHold(t *testing.T) {
	is := is.New(t)
	g := blockedOGame()
	s := defaultSelector()

	best := s.BestMove(g)
	is.True(best != nil)
	is.True(best.ViaHold())
	is.Equal(best.Shape(), board.ShapeI)

	s.SetLookahead(false)
	_, _, ok := s.NextBestMoves(g)
	is.True(!ok)
}

func TestNoMoveAtAll(t *testing.T) {
	is := is.New(t)
	g := game.NewGame(8, 6, game.NewSequenceSource(board.ShapeO))
	g.Grid().Set(0, 3, true)
	g.Grid().Set(0, 1, true)
	g.Grid().Set(2, 3, true)
	s := defaultSelector()
	seq, _, ok := s.NextBestMoves(g)
	is.True(!ok)
	is.Equal(seq, nil)
}

func TestThreadedScoringMatches(t *testing.T) {
	is := is.New(t)
	g := testhelpers.GameOnBoard(board.WellBoard, board.ShapeT)
	single := defaultSelector().RankedMoves(g)

	s := defaultSelector()
	s.SetThreads(4)
	threaded := s.RankedMoves(g)
	is.Equal(len(single), len(threaded))
	for i := range single {
		is.Equal(single[i].Pose(), threaded[i].Pose())
		is.Equal(single[i].Cost(), threaded[i].Cost())
	}
	is.True(g.Grid().Equals(board.WellBoard.Grid()))
}

func TestBotTurnPlayer(t *testing.T) {
	is := is.New(t)
	cfg := config.DefaultConfig()
	cfg.Set(config.ConfigEvalCacheFraction, 1e-9)
	cfg.Set(config.ConfigScoringThreads, 2)
	p, err := NewBotTurnPlayer(&cfg, func() game.PieceSource {
		return game.NewSequenceSource(board.ShapeI, board.ShapeO, board.ShapeT,
			board.ShapeS, board.ShapeZ, board.ShapeJ, board.ShapeL)
	})
	is.NoErr(err)
	is.True(p.CostTable() != nil)
	is.Equal(p.Weights(), equity.DefaultWeights())

	for i := 0; i < 12; i++ {
		_, err := p.Step()
		is.NoErr(err)
	}
	is.Equal(p.Game().PiecesPlaced(), 12)
	lookups, _, _ := p.CostTable().Stats()
	is.True(lookups > 0)

	frame := p.RenderFrame().Ints()
	is.Equal(frame[1], 24)
	is.Equal(frame[2], 10)

	w := equity.DefaultWeights()
	w.HoleCount = 1000
	p.SetWeights(w)
	is.Equal(p.Weights().HoleCount, 1000.0)
	_, ok := p.NextBestMoves()
	is.True(ok)

	p.Reset()
	is.Equal(p.Game().PiecesPlaced(), 0)
}
