package board

import (
	"fmt"
	"math"
)

// A Pose is where a piece is: its rotation pivot and its four cells. Poses
// are values; every transform returns a new one. Two poses are the same
// placement only if the pivots and the cells (in order) all match.
type Pose struct {
	Pivot Point
	Cells [4]Point
}

// NewPose places shape s at anchor.
func NewPose(s Shape, anchor Point) Pose {
	offs := shapeOffsets[s]
	p := Pose{Pivot: offs[0].Add(anchor)}
	for i := range p.Cells {
		p.Cells[i] = offs[i+1].Add(anchor)
	}
	return p
}

// BasePose is the shape at the origin after rot clockwise quarter turns.
func BasePose(s Shape, rot int) Pose {
	p := NewPose(s, Point{})
	for i := 0; i < rot; i++ {
		p = p.Rotate(s, true)
	}
	return p
}

// Rotate turns the pose a quarter turn about its pivot. The O piece
// comes back unchanged.
func (p Pose) Rotate(s Shape, clockwise bool) Pose {
	if !s.Rotates() {
		return p
	}
	rotator := RotateCCW
	if clockwise {
		rotator = RotateCW
	}
	r := Pose{Pivot: rotator(p.Pivot, p.Pivot)}
	for i, c := range p.Cells {
		r.Cells[i] = rotator(c, p.Pivot)
	}
	return r
}

// Translate moves every point of the pose.
func (p Pose) Translate(dRow, dCol float64) Pose {
	d := Point{Row: dRow, Col: dCol}
	r := Pose{Pivot: p.Pivot.Add(d)}
	for i, c := range p.Cells {
		r.Cells[i] = c.Add(d)
	}
	return r
}

// TopRow is the smallest row coordinate among the cells.
func (p Pose) TopRow() float64 {
	top := math.Inf(1)
	for _, c := range p.Cells {
		top = math.Min(top, c.Row)
	}
	return top
}

func (p Pose) String() string {
	return fmt.Sprintf("<pivot %v cells %v %v %v %v>", p.Pivot,
		p.Cells[0], p.Cells[1], p.Cells[2], p.Cells[3])
}
