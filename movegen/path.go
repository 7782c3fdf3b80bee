package movegen

import (
	"slices"

	"github.com/twai/twai/board"
	"github.com/twai/twai/move"
)

type parentEdge struct {
	prev   board.Pose
	action move.Action
}

type edge struct {
	action move.Action
	apply  func(p board.Pose, s board.Shape) board.Pose
}

// Edges are tried in this order, which decides between equally short
// paths.
var edges = [...]edge{
	{move.ActionRotateCW, func(p board.Pose, s board.Shape) board.Pose { return p.Rotate(s, true) }},
	{move.ActionRotateCCW, func(p board.Pose, s board.Shape) board.Pose { return p.Rotate(s, false) }},
	{move.ActionShiftRight, func(p board.Pose, _ board.Shape) board.Pose { return p.Translate(0, 1) }},
	{move.ActionShiftLeft, func(p board.Pose, _ board.Shape) board.Pose { return p.Translate(0, -1) }},
	{move.ActionDown, func(p board.Pose, _ board.Shape) board.Pose { return p.Translate(1, 0) }},
}

// Pathfinder runs breadth-first searches over piece poses. The grid never
// changes during a search; only the piece moves. A Pathfinder reuses its
// buffers between searches and is not safe for concurrent use.
type Pathfinder struct {
	parents map[board.Pose]parentEdge
	queue   []board.Pose

	// expanded counts poses taken off the queue, over all searches.
	expanded int
}

func NewPathfinder() *Pathfinder {
	return &Pathfinder{
		parents: make(map[board.Pose]parentEdge, 24*10*4),
	}
}

// FindPath returns a shortest list of actions that moves shape from start
// to goal on grid. Every step must land on free cells. ok is false if goal
// cannot be reached. If start is the goal the path is empty and ok is true.
func (pf *Pathfinder) FindPath(grid *board.Grid, shape board.Shape, start, goal board.Pose) (move.Sequence, bool) {
	clear(pf.parents)
	pf.queue = append(pf.queue[:0], start)
	pf.parents[start] = parentEdge{prev: start, action: move.ActionHold}

	for head := 0; head < len(pf.queue); head++ {
		v := pf.queue[head]
		pf.expanded++
		if v == goal {
			return pf.reconstruct(start, v), true
		}
		for _, e := range edges {
			next := e.apply(v, shape)
			if !grid.Fits(next) {
				continue
			}
			if _, seen := pf.parents[next]; seen {
				continue
			}
			pf.parents[next] = parentEdge{prev: v, action: e.action}
			pf.queue = append(pf.queue, next)
		}
	}
	return nil, false
}

func (pf *Pathfinder) reconstruct(start, end board.Pose) move.Sequence {
	seq := move.Sequence{}
	for cur := end; cur != start; {
		pe := pf.parents[cur]
		seq = append(seq, pe.action)
		cur = pe.prev
	}
	slices.Reverse(seq)
	return seq
}

// Expanded returns how many poses have been expanded so far.
func (pf *Pathfinder) Expanded() int {
	return pf.expanded
}

// FindPath is a one-off search with a fresh Pathfinder.
func FindPath(grid *board.Grid, shape board.Shape, start, goal board.Pose) (move.Sequence, bool) {
	return NewPathfinder().FindPath(grid, shape, start, goal)
}
