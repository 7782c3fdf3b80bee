package equity

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matryer/is"
	"github.com/stretchr/testify/assert"

	"github.com/twai/twai/board"
	"github.com/twai/twai/config"
)

func TestClosedHole(t *testing.T) {
	is := is.New(t)
	f := ComputeFeatures(board.ClosedHoleBoard.Grid(), 0)
	is.Equal(f.HoleCount, 1)
	is.Equal(f.OpenHoleCount, 0)
	is.Equal(f.BlocksAboveHoles, 1)
	is.Equal(f.LinesCleared, 0)
}

func TestOpenHole(t *testing.T) {
	is := is.New(t)
	f := ComputeFeatures(board.OpenHoleBoard.Grid(), 0)
	is.Equal(f.HoleCount, 0)
	is.Equal(f.OpenHoleCount, 1)
	is.Equal(f.BlocksAboveHoles, 1)
}

func TestFeaturesTable(t *testing.T) {
	type testcase struct {
		name     string
		board    string
		lh       int
		expected Features
	}
	for _, tc := range []testcase{
		{
			name:  "empty",
			board: strings.Repeat("|.....|\n", 6),
			expected: Features{
				// every column but the last is at floor level
			},
		},
		{
			name: "pillar",
			board: `
|.....|
|.....|
|.#...|
|.#...|
|.#...|
|.#...|
`,
			lh: 4,
			expected: Features{
				// the run of 4 has an empty cell on both sides
				PillarCount:          8,
				MaximumLineHeight:    4,
				Bumpiness:            6,
				LastBlockAddedHeight: 4,
			},
		},
		{
			name: "tetris",
			board: `
|.....|
|.....|
|#####|
|#####|
|#####|
|#####|
`,
			lh: 4,
			expected: Features{
				LinesCleared:         4,
				Tetris:               true,
				LastBlockAddedHeight: 4,
			},
		},
		{
			name: "single clear with rightmost lane",
			board: `
|.....|
|.....|
|.....|
|.....|
|....#|
|#####|
`,
			lh: 2,
			expected: Features{
				LinesCleared:          1,
				NonTetrisClear:        true,
				MaximumLineHeight:     1,
				BlocksInRightmostLane: 1,
				LastBlockAddedHeight:  2,
			},
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			g, err := board.FromPlaintext(tc.board)
			assert.Nil(t, err)
			assert.Equal(t, tc.expected, ComputeFeatures(g, tc.lh))
		})
	}
}

func TestComputeFeaturesLeavesGridAlone(t *testing.T) {
	is := is.New(t)
	g := board.WellBoard.Grid()
	g.Place(board.NewPose(board.ShapeO, board.Point{Row: 22, Col: 3}))
	before := g.Copy()
	f := ComputeFeatures(g, 2)
	is.Equal(f.LinesCleared, 2)
	is.True(g.Equals(before))
}

func TestCostIdempotent(t *testing.T) {
	is := is.New(t)
	calc := NewHeuristicCalculator(DefaultWeights())
	for _, sb := range []board.SampleBoard{board.WellBoard, board.ClosedHoleBoard,
		board.OpenHoleBoard, board.OverhangBoard} {
		g := sb.Grid()
		c1 := calc.Cost(g, 3)
		c2 := calc.Cost(g, 3)
		is.Equal(c1, c2)
	}
}

func TestWellFillCost(t *testing.T) {
	is := is.New(t)
	g := board.WellBoard.Grid()
	g.Place(board.NewPose(board.ShapeO, board.Point{Row: 22, Col: 3}))
	f := ComputeFeatures(g, 2)
	is.Equal(f, Features{
		MaximumLineHeight:     2,
		BlocksInRightmostLane: 2,
		Bumpiness:             2,
		LastBlockAddedHeight:  2,
		LinesCleared:          2,
		NonTetrisClear:        true,
	})
	w := DefaultWeights()
	expected := 2*w.MaximumLineHeight + 2*w.BlocksInRightmostLane + 2*w.Bumpiness +
		2*w.LastBlockAddedHeight + w.NonTetrisClear
	assert.InDelta(t, expected, f.Cost(w), 1e-9)
}

func TestWeightsYAML(t *testing.T) {
	is := is.New(t)
	w, err := ReadWeights(strings.NewReader("hole_count: 1.5\nbumpiness: -2\n"))
	is.NoErr(err)
	is.Equal(w.HoleCount, 1.5)
	is.Equal(w.Bumpiness, -2.0)
	is.Equal(w.PillarCount, DefaultWeights().PillarCount)

	_, err = ReadWeights(strings.NewReader("no_such_weight: 3\n"))
	is.True(err != nil)

	var buf bytes.Buffer
	is.NoErr(w.WriteYAML(&buf))
	back, err := ReadWeights(&buf)
	is.NoErr(err)
	is.Equal(back, w)
}

func TestWeightsSliceAndSet(t *testing.T) {
	is := is.New(t)
	w := DefaultWeights()
	v := w.Slice()
	is.Equal(len(v), len(WeightNames))
	back, err := WeightsFromSlice(v)
	is.NoErr(err)
	is.Equal(back, w)

	is.NoErr(w.Set("pillar-count", 3))
	got, err := w.Get("pillar_count")
	is.NoErr(err)
	is.Equal(got, 3.0)
	is.True(w.Set("nope", 1) != nil)
	_, err = WeightsFromSlice([]float64{1})
	is.True(err != nil)
}

func TestWeightsFromConfig(t *testing.T) {
	is := is.New(t)
	cfg := config.DefaultConfig()
	w, err := WeightsFromConfig(&cfg)
	is.NoErr(err)
	is.Equal(w, DefaultWeights())

	path := filepath.Join(t.TempDir(), "w.yaml")
	is.NoErr(os.WriteFile(path, []byte("tetris_reward: 99\n"), 0644))
	cfg.Set(config.ConfigWeightsPath, path)
	w, err = WeightsFromConfig(&cfg)
	is.NoErr(err)
	is.Equal(w.TetrisReward, 99.0)

	cfg.Set(config.ConfigWeightsPath, filepath.Join(t.TempDir(), "missing.yaml"))
	_, err = WeightsFromConfig(&cfg)
	is.True(err != nil)
}

type countingCalculator struct {
	calls int
	inner CostCalculator
}

func (c *countingCalculator) Cost(g *board.Grid, lh int) float64 {
	c.calls++
	return c.inner.Cost(g, lh)
}

func TestCachedCalculator(t *testing.T) {
	is := is.New(t)
	inner := &countingCalculator{inner: NewHeuristicCalculator(DefaultWeights())}
	table := newCostTableOfSize(12)
	calc := NewCachedCalculator(inner, table, 24, 10)

	g := board.WellBoard.Grid()
	c1 := calc.Cost(g, 4)
	c2 := calc.Cost(g, 4)
	is.Equal(c1, c2)
	is.Equal(inner.calls, 1)
	c3 := calc.Cost(g, 5)
	is.Equal(inner.calls, 2)
	is.True(c3 != c1)

	lookups, hits, created := table.Stats()
	is.Equal(lookups, uint64(3))
	is.Equal(hits, uint64(1))
	is.Equal(created, uint64(2))

	// other sizes skip the table
	small := board.ClosedHoleBoard.Grid()
	calc.Cost(small, 1)
	calc.Cost(small, 1)
	is.Equal(inner.calls, 4)

	table.Reset()
	lookups, _, _ = table.Stats()
	is.Equal(lookups, uint64(0))
}

func TestPlacementCostSharesKeys(t *testing.T) {
	is := is.New(t)
	inner := &countingCalculator{inner: NewHeuristicCalculator(DefaultWeights())}
	table := newCostTableOfSize(12)
	calc := NewCachedCalculator(inner, table, 24, 10)

	g := board.WellBoard.Grid()
	base := calc.BaseKey(g)
	pose := board.NewPose(board.ShapeO, board.Point{Row: 22, Col: 3})
	g.Place(pose)

	c1 := calc.PlacementCost(g, base, pose, 2)
	is.Equal(c1, NewHeuristicCalculator(DefaultWeights()).Cost(g, 2))
	// a full rehash of the same grid lands on the same entry
	is.Equal(calc.Cost(g, 2), c1)
	is.Equal(inner.calls, 1)
	_, hits, _ := table.Stats()
	is.Equal(hits, uint64(1))

	// other sizes skip the table
	small := board.ClosedHoleBoard.Grid()
	is.Equal(calc.BaseKey(small), uint64(0))
	calc.PlacementCost(small, 0, pose, 1)
	is.Equal(inner.calls, 2)
}
