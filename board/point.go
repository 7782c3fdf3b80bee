package board

import "fmt"

// A Point is a (row, column) position on the board. Piece cells sit on cell
// centers (x.5 coordinates); pivots may sit on centers or on cell corners.
// Halves are exact in float64, so points can be compared with ==.
type Point struct {
	Row float64
	Col float64
}

func (p Point) String() string {
	return fmt.Sprintf("(%g, %g)", p.Row, p.Col)
}

// Add translates p by o.
func (p Point) Add(o Point) Point {
	return Point{Row: p.Row + o.Row, Col: p.Col + o.Col}
}

// Cell returns the integer cell that p falls in.
func (p Point) Cell() (int, int) {
	return int(p.Row), int(p.Col)
}

// RotateCW rotates p a quarter turn clockwise about pivot.
func RotateCW(p, pivot Point) Point {
	dr := p.Row - pivot.Row
	dc := p.Col - pivot.Col
	return Point{Row: dc + pivot.Row, Col: -dr + pivot.Col}
}

// RotateCCW rotates p a quarter turn counterclockwise about pivot. It is
// three clockwise turns, which keeps it an exact inverse of RotateCW.
func RotateCCW(p, pivot Point) Point {
	for i := 0; i < 3; i++ {
		p = RotateCW(p, pivot)
		pivot = RotateCW(pivot, pivot)
	}
	return p
}
