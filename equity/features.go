package equity

import (
	"fmt"

	"github.com/twai/twai/board"
)

// Features are the board measurements the cost function weighs. They are
// computed from scratch for every evaluation.
type Features struct {
	HoleCount             int
	OpenHoleCount         int
	BlocksAboveHoles      int
	PillarCount           int
	MaximumLineHeight     int
	BlocksInRightmostLane int
	Bumpiness             int
	LastBlockAddedHeight  int
	LinesCleared          int
	Tetris                bool
	NonTetrisClear        bool
}

func b2f(b bool) float64 {
	if b {
		return 1
	}
	return 0
}

// Cost is the dot product of the features with the weights.
func (f Features) Cost(w Weights) float64 {
	return float64(f.HoleCount)*w.HoleCount +
		float64(f.OpenHoleCount)*w.OpenHoleCount +
		float64(f.BlocksAboveHoles)*w.BlocksAboveHoles +
		b2f(f.NonTetrisClear)*w.NonTetrisClear +
		b2f(f.Tetris)*w.TetrisReward +
		float64(f.MaximumLineHeight)*w.MaximumLineHeight +
		float64(f.PillarCount)*w.PillarCount +
		float64(f.BlocksInRightmostLane)*w.BlocksInRightmostLane +
		float64(f.Bumpiness)*w.Bumpiness +
		float64(f.LastBlockAddedHeight)*w.LastBlockAddedHeight
}

func (f Features) String() string {
	return fmt.Sprintf("holes=%d open=%d above=%d pillars=%d maxh=%d lane=%d bump=%d lh=%d lines=%d",
		f.HoleCount, f.OpenHoleCount, f.BlocksAboveHoles, f.PillarCount,
		f.MaximumLineHeight, f.BlocksInRightmostLane, f.Bumpiness,
		f.LastBlockAddedHeight, f.LinesCleared)
}

// ComputeFeatures measures a resting grid. Full lines are cleared on a
// copy first; g itself is not modified.
func ComputeFeatures(g *board.Grid, landingHeight int) Features {
	c := g.Copy()
	return computeFeaturesInPlace(c, landingHeight)
}

// computeFeaturesInPlace clears lines on g and measures it.
func computeFeaturesInPlace(g *board.Grid, landingHeight int) Features {
	var f Features
	f.LinesCleared = g.ClearLines()
	f.Tetris = f.LinesCleared == 4
	f.NonTetrisClear = f.LinesCleared > 0 && f.LinesCleared < 4
	f.LastBlockAddedHeight = landingHeight

	countHoles(g, &f)
	f.PillarCount = countPillars(g)
	f.MaximumLineHeight = maximumLineHeight(g)
	f.BlocksInRightmostLane = blocksInRightmostLane(g)
	f.Bumpiness = bumpiness(g)
	return f
}

// countHoles scans every column top to bottom. Each empty cell under a
// filled one is a hole. A hole is open when the two cells beside it on
// one side are empty and the nearer one has support, so a piece could be
// slid in. The right side is only checked for i < width-2 and the left
// only for i >= 2.
func countHoles(g *board.Grid, f *Features) {
	h, w := g.Height(), g.Width()
	for i := 0; i < w; i++ {
		blockFound := false
		blocks := 0
		for j := 0; j < h; j++ {
			if g.Occupied(j, i) {
				blockFound = true
				blocks++
				continue
			}
			if !blockFound {
				continue
			}
			f.BlocksAboveHoles += blocks

			if i < w-2 && !g.Occupied(j, i+1) && !g.Occupied(j, i+2) {
				if j == h-1 || g.Occupied(j+1, i+1) {
					f.OpenHoleCount++
					continue
				}
			}
			if i >= 2 && !g.Occupied(j, i-1) && !g.Occupied(j, i-2) {
				if j == h-1 || g.Occupied(j+1, i-1) {
					f.OpenHoleCount++
					continue
				}
			}
			f.HoleCount++
		}
	}
}

// countPillars scans each column bottom to top for runs of filled cells
// with an empty neighbor. Runs of 3 or more count their full length. The
// left side is checked for i > 0 and the right side for i < width-2.
func countPillars(g *board.Grid) int {
	h, w := g.Height(), g.Width()
	count := 0
	for i := 0; i < w; i++ {
		left, right := 0, 0
		for j := h - 1; j >= 0; j-- {
			filled := g.Occupied(j, i)
			if i > 0 && filled && !g.Occupied(j, i-1) {
				left++
			} else {
				if left >= 3 {
					count += left
				}
				left = 0
			}
			if i < w-2 && filled && !g.Occupied(j, i+1) {
				right++
			} else {
				if right >= 3 {
					count += right
				}
				right = 0
			}
		}
		if left >= 3 {
			count += left
		}
		if right >= 3 {
			count += right
		}
	}
	return count
}

func maximumLineHeight(g *board.Grid) int {
	mh := 0
	for i := 0; i < g.Width(); i++ {
		if top := g.ColumnTop(i); top >= 0 {
			mh = max(mh, g.Height()-top)
		}
	}
	return mh
}

func blocksInRightmostLane(g *board.Grid) int {
	n := 0
	last := g.Width() - 1
	for j := 0; j < g.Height(); j++ {
		if g.Occupied(j, last) {
			n++
		}
	}
	return n
}

// bumpiness sums the height differences of neighboring columns, leaving
// out the last column. An empty column counts as height 1.
func bumpiness(g *board.Grid) int {
	h := g.Height()
	bump := 0
	prev := 0
	for i := 0; i < g.Width()-1; i++ {
		top := g.ColumnTop(i)
		if top < 0 {
			top = h - 1
		}
		cur := h - top
		if i != 0 {
			bump += abs(prev - cur)
		}
		prev = cur
	}
	return bump
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
