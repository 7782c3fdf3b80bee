package board

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

var ErrBadPlaintext = errors.New("bad plaintext board")

var boardPlaintextRegex = regexp.MustCompile(`\|(.+)\|`)

const (
	emptyCellChar  = '.'
	filledCellChar = '#'
	pieceCellChar  = '@'
)

// ToDisplayText draws the grid, with the cells of any given poses drawn on
// top of it.
func (g *Grid) ToDisplayText(overlay ...Pose) string {
	var sb strings.Builder
	marked := make(map[[2]int]bool)
	for _, p := range overlay {
		for _, c := range p.Cells {
			r, col := c.Cell()
			marked[[2]int{r, col}] = true
		}
	}
	sb.WriteString("   +" + strings.Repeat("-", g.width) + "+\n")
	for r := 0; r < g.height; r++ {
		sb.WriteString(fmt.Sprintf("%2d |", r))
		for c := 0; c < g.width; c++ {
			switch {
			case marked[[2]int{r, c}]:
				sb.WriteByte(pieceCellChar)
			case g.Occupied(r, c):
				sb.WriteByte(filledCellChar)
			default:
				sb.WriteByte(emptyCellChar)
			}
		}
		sb.WriteString("|\n")
	}
	sb.WriteString("   +" + strings.Repeat("-", g.width) + "+\n")
	return sb.String()
}

// FromPlaintext builds a grid from lines that look like |..##..|. Any text
// outside the bars is ignored. '.' and ' ' are empty cells; anything else is
// a filled cell.
func FromPlaintext(text string) (*Grid, error) {
	result := boardPlaintextRegex.FindAllStringSubmatch(text, -1)
	if len(result) == 0 {
		return nil, fmt.Errorf("%w: no rows found", ErrBadPlaintext)
	}
	width := len(result[0][1])
	g := NewGrid(len(result), width)
	for r, m := range result {
		row := m[1]
		if len(row) != width {
			return nil, fmt.Errorf("%w: row %d has %d columns, expected %d",
				ErrBadPlaintext, r, len(row), width)
		}
		for c := 0; c < width; c++ {
			if row[c] != emptyCellChar && row[c] != ' ' {
				g.Set(r, c, true)
			}
		}
	}
	return g, nil
}
