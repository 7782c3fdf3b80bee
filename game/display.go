package game

import (
	"fmt"
	"strings"
)

// Frame is a read-only snapshot for display: the locked cells with the
// active piece drawn on top, flattened row by row.
type Frame struct {
	Height int
	Width  int
	Cells  []int
}

// RenderFrame draws the current state. It does not modify the game.
func (g *Game) RenderFrame() Frame {
	h, w := g.grid.Height(), g.grid.Width()
	f := Frame{Height: h, Width: w, Cells: make([]int, h*w)}
	for r := 0; r < h; r++ {
		for c := 0; c < w; c++ {
			if g.grid.Occupied(r, c) {
				f.Cells[r*w+c] = 1
			}
		}
	}
	if g.hasActive {
		for _, pt := range g.activePose.Cells {
			r, c := pt.Cell()
			if r >= 0 && r < h && c >= 0 && c < w {
				f.Cells[r*w+c] = 1
			}
		}
	}
	return f
}

// Ints encodes the frame as [n, height, width, cells...] where n counts
// the ints that follow it.
func (f Frame) Ints() []int {
	out := make([]int, 0, 3+len(f.Cells))
	out = append(out, 2+len(f.Cells), f.Height, f.Width)
	return append(out, f.Cells...)
}

func addText(lines []string, row int, hpad int, text string) {
	if row >= len(lines) {
		return
	}
	lines[row] += strings.Repeat(" ", hpad) + text
}

// ToDisplayText draws the board with the active piece, and the hold slot
// and score to its right.
func (g *Game) ToDisplayText() string {
	var bt string
	if g.hasActive {
		bt = g.grid.ToDisplayText(g.activePose)
	} else {
		bt = g.grid.ToDisplayText()
	}
	lines := strings.Split(bt, "\n")
	hpadding := 3
	vpadding := 1

	active := "-"
	if g.hasActive {
		active = g.active.String()
	}
	addText(lines, vpadding, hpadding, fmt.Sprintf("Active: %v", active))
	addText(lines, vpadding+1, hpadding, fmt.Sprintf("Held: %v", g.held))
	addText(lines, vpadding+3, hpadding, fmt.Sprintf("Lines: %d", g.score))
	addText(lines, vpadding+4, hpadding, fmt.Sprintf("Pieces: %d", g.pieces))
	addText(lines, vpadding+5, hpadding, fmt.Sprintf("Tetrises: %d", g.clears[4]))
	if g.over {
		addText(lines, vpadding+7, hpadding, "GAME OVER")
	}
	return strings.Join(lines, "\n")
}
