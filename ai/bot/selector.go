// Package bot chooses where to put the active piece and how to get it
// there.
package bot

import (
	"sort"

	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"

	"github.com/twai/twai/board"
	"github.com/twai/twai/equity"
	"github.com/twai/twai/game"
	"github.com/twai/twai/move"
	"github.com/twai/twai/movegen"
)

// Selector ranks placements by cost and picks the cheapest one the piece
// can actually reach. Its buffers are reused between calls, so a Selector
// must not be used from more than one goroutine at a time.
type Selector struct {
	calculators []equity.CostCalculator
	lookahead   bool
	threads     int

	gen *movegen.PlacementGenerator
	pf  *movegen.Pathfinder
}

// NewSelector sums the costs of all calculators. Lookahead is on and
// scoring is single-threaded by default.
func NewSelector(calculators ...equity.CostCalculator) *Selector {
	return &Selector{
		calculators: calculators,
		lookahead:   true,
		threads:     1,
		gen:         movegen.NewPlacementGenerator(),
		pf:          movegen.NewPathfinder(),
	}
}

// SetLookahead turns consideration of the hold swap on or off.
func (s *Selector) SetLookahead(l bool) { s.lookahead = l }
func (s *Selector) Lookahead() bool     { return s.lookahead }

// SetThreads sets how many goroutines score candidates.
func (s *Selector) SetThreads(t int) {
	s.threads = max(1, t)
}

// placementScorer scores one calculator's view of a placement on a grid
// that already has the placement's piece in it.
type placementScorer func(placed *board.Grid, m *move.Move) float64

// scorers prepares each calculator for a round of placements on grid.
// Calculators that key by placement hash grid once here.
func (s *Selector) scorers(grid *board.Grid) []placementScorer {
	return lo.Map(s.calculators, func(c equity.CostCalculator, _ int) placementScorer {
		if pc, ok := c.(equity.PlacementCalculator); ok {
			base := pc.BaseKey(grid)
			return func(placed *board.Grid, m *move.Move) float64 {
				return pc.PlacementCost(placed, base, m.Pose(), m.LandingHeight())
			}
		}
		return func(placed *board.Grid, m *move.Move) float64 {
			return c.Cost(placed, m.LandingHeight())
		}
	})
}

// AssignCosts scores every play as if its piece were locked on grid. grid
// is not modified.
func (s *Selector) AssignCosts(grid *board.Grid, plays []*move.Move) {
	threads := min(s.threads, len(plays))
	if threads <= 1 {
		s.assignCostsSlice(grid.Copy(), plays)
		return
	}
	g := errgroup.Group{}
	chunk := (len(plays) + threads - 1) / threads
	for start := 0; start < len(plays); start += chunk {
		part := plays[start:min(start+chunk, len(plays))]
		scratch := grid.Copy()
		g.Go(func() error {
			s.assignCostsSlice(scratch, part)
			return nil
		})
	}
	g.Wait()
}

func (s *Selector) assignCostsSlice(scratch *board.Grid, plays []*move.Move) {
	scorers := s.scorers(scratch)
	for _, m := range plays {
		scratch.Place(m.Pose())
		m.SetCost(lo.SumBy(scorers, func(f placementScorer) float64 {
			return f(scratch, m)
		}))
		scratch.Unplace(m.Pose())
	}
}

// RankedMoves returns every resting placement of the active piece with its
// cost, cheapest first. Equal costs keep their generation order.
func (s *Selector) RankedMoves(g *game.Game) []*move.Move {
	if !g.HasActive() {
		return nil
	}
	s.gen.GenAll(g.Grid(), g.Active())
	plays := make([]*move.Move, len(s.gen.Plays()))
	copy(plays, s.gen.Plays())
	s.AssignCosts(g.Grid(), plays)
	sort.SliceStable(plays, func(i, j int) bool {
		return plays[i].Cost() < plays[j].Cost()
	})
	return plays
}

// bestReachable walks ranked plays in order and returns the first one the
// active piece has a path to, with its actions set.
func (s *Selector) bestReachable(g *game.Game, ranked []*move.Move) *move.Move {
	for _, m := range ranked {
		seq, ok := s.pf.FindPath(g.Grid(), g.Active(), g.ActivePose(), m.Pose())
		if !ok {
			continue
		}
		m.SetActions(seq)
		return m
	}
	return nil
}

// BestMove picks the move for the active piece. With lookahead on, it also
// tries swapping the piece into hold first, on a copy of the game, and
// takes that plan if it is strictly cheaper or if nothing is reachable
// without it. The result is nil only if neither works.
func (s *Selector) BestMove(g *game.Game) *move.Move {
	return s.bestMove(g, s.lookahead)
}

func (s *Selector) bestMove(g *game.Game, lookahead bool) *move.Move {
	ranked := s.RankedMoves(g)
	direct := s.bestReachable(g, ranked)

	if !lookahead {
		return direct
	}
	c := g.Copy()
	c.SwapHold()
	held := s.bestMove(c, false)

	switch {
	case held == nil:
		return direct
	case direct == nil:
		log.Debug().Msg("no-direct-placement-using-hold")
	case held.Cost() < direct.Cost():
		log.Debug().Float64("direct", direct.Cost()).Float64("hold", held.Cost()).Msg("hold-is-cheaper")
	default:
		return direct
	}
	held.SetViaHold(true)
	return held
}

// NextBestMoves returns the actions of the best move and its cost.
func (s *Selector) NextBestMoves(g *game.Game) (move.Sequence, float64, bool) {
	m := s.BestMove(g)
	if m == nil {
		return nil, 0, false
	}
	return m.Actions(), m.Cost(), true
}
