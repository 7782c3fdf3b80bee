package board

// This file contains some sample boards, used solely for testing.

// SampleBoard is a plaintext board.
type SampleBoard string

const (
	// WellBoard is a 24x10 board with a four-deep, two-wide well in columns
	// 3 and 4. An O piece dropped into the well clears two lines.
	WellBoard SampleBoard = `
 0 |..........|
 1 |..........|
 2 |..........|
 3 |..........|
 4 |..........|
 5 |..........|
 6 |..........|
 7 |..........|
 8 |..........|
 9 |..........|
10 |..........|
11 |..........|
12 |..........|
13 |..........|
14 |..........|
15 |..........|
16 |..........|
17 |..........|
18 |..........|
19 |..........|
20 |###..#####|
21 |###..#####|
22 |###..#####|
23 |###..#####|
`

	// ClosedHoleBoard has a single hole at row 5, column 4, covered from
	// above and walled in on both sides.
	ClosedHoleBoard SampleBoard = `
|..........|
|..........|
|..........|
|..........|
|....#.....|
|..##.##...|
|.#########|
|.#########|
`

	// OpenHoleBoard has a single covered cell at row 5, column 4, that can
	// still be reached by sliding in from the right.
	OpenHoleBoard SampleBoard = `
|..........|
|..........|
|..........|
|..........|
|....#.....|
|..##......|
|.#########|
|.#########|
`

	// OverhangBoard has a roof over the bottom three rows with a one-column
	// gap on the right. Pieces wider than one column rest under the roof
	// in placements that cannot be reached from the top.
	OverhangBoard SampleBoard = `
|..........|
|..........|
|..........|
|..........|
|..........|
|..........|
|..........|
|..........|
|..........|
|..........|
|..........|
|..........|
|..........|
|..........|
|..........|
|..........|
|..........|
|..........|
|..........|
|..........|
|#########.|
|..........|
|..........|
|..........|
`
)

// Grid parses the sample board. It panics on a malformed sample.
func (s SampleBoard) Grid() *Grid {
	g, err := FromPlaintext(string(s))
	if err != nil {
		panic(err)
	}
	return g
}
