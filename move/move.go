package move

import (
	"fmt"

	"github.com/twai/twai/board"
)

// Move is a candidate placement of the active piece: where it ends up, what
// that costs, and the actions that take the piece there. Lower cost is
// better.
type Move struct {
	shape         board.Shape
	pose          board.Pose
	landingHeight int
	cost          float64
	actions       Sequence
	viaHold       bool
}

// NewPlacement creates a placement move for shape at its final pose.
func NewPlacement(shape board.Shape, pose board.Pose, boardHeight int) *Move {
	return &Move{
		shape:         shape,
		pose:          pose,
		landingHeight: boardHeight - int(pose.TopRow()),
	}
}

func (m *Move) String() string {
	return fmt.Sprintf("<%p shape: %v pose: %v lh: %d cost: %.3f hold: %v actions: [%v]>",
		m, m.shape, m.pose, m.landingHeight, m.cost, m.viaHold, m.actions)
}

// ShortDescription is a one-line summary for display.
func (m *Move) ShortDescription() string {
	col := m.pose.Cells[0].Col
	for _, c := range m.pose.Cells {
		col = min(col, c.Col)
	}
	desc := fmt.Sprintf("%v col %d lh %d", m.shape, int(col), m.landingHeight)
	if m.viaHold {
		desc = "hold " + desc
	}
	return desc
}

func (m *Move) Shape() board.Shape   { return m.shape }
func (m *Move) Pose() board.Pose     { return m.pose }
func (m *Move) LandingHeight() int   { return m.landingHeight }
func (m *Move) Cost() float64        { return m.cost }
func (m *Move) Actions() Sequence    { return m.actions }
func (m *Move) ViaHold() bool        { return m.viaHold }
func (m *Move) SetCost(c float64)    { m.cost = c }
func (m *Move) SetActions(s Sequence) { m.actions = s }

// SetViaHold marks the move as starting with a hold swap. The hold action
// is put at the front of the action list if it is not already there.
func (m *Move) SetViaHold(v bool) {
	m.viaHold = v
	if v && (len(m.actions) == 0 || m.actions[0] != ActionHold) {
		m.actions = append(Sequence{ActionHold}, m.actions...)
	}
}

// Equals compares placements, not cost or actions.
func (m *Move) Equals(o *Move) bool {
	return m.shape == o.shape && m.pose == o.pose
}

// Copy returns a deep copy of the move.
func (m *Move) Copy() *Move {
	c := *m
	c.actions = append(Sequence(nil), m.actions...)
	return &c
}
