package move

import (
	"fmt"
	"strings"

	"github.com/samber/lo"
)

// Action is a single control input. The integer values are the codes used
// when an action list is handed over as a flat int sequence.
type Action int

const (
	ActionHold       Action = -1
	ActionRotateCW   Action = 0
	ActionRotateCCW  Action = 2
	ActionShiftRight Action = 4
	ActionShiftLeft  Action = 5
	ActionDown       Action = 6
)

var actionNames = map[Action]string{
	ActionHold:       "hold",
	ActionRotateCW:   "cw",
	ActionRotateCCW:  "ccw",
	ActionShiftRight: "r",
	ActionShiftLeft:  "l",
	ActionDown:       "d",
}

// Valid reports whether a is one of the six known codes.
func (a Action) Valid() bool {
	_, ok := actionNames[a]
	return ok
}

func (a Action) String() string {
	if n, ok := actionNames[a]; ok {
		return n
	}
	return fmt.Sprintf("Action(%d)", int(a))
}

// FromInt converts a wire code into an action.
func FromInt(code int) (Action, error) {
	a := Action(code)
	if !a.Valid() {
		return 0, fmt.Errorf("invalid action code %d", code)
	}
	return a, nil
}

// ParseAction parses a short action name such as "cw" or "l".
func ParseAction(s string) (Action, error) {
	s = strings.ToLower(s)
	for a, n := range actionNames {
		if n == s {
			return a, nil
		}
	}
	switch s {
	case "right":
		return ActionShiftRight, nil
	case "left":
		return ActionShiftLeft, nil
	case "down":
		return ActionDown, nil
	}
	return 0, fmt.Errorf("unknown action %q", s)
}

// Sequence is an ordered list of actions, executed first to last.
type Sequence []Action

func (s Sequence) String() string {
	return strings.Join(lo.Map(s, func(a Action, _ int) string {
		return a.String()
	}), " ")
}

// Ints returns the length-prefixed int encoding [n, a1, ..., an].
func (s Sequence) Ints() []int {
	return append([]int{len(s)}, lo.Map(s, func(a Action, _ int) int {
		return int(a)
	})...)
}

// SequenceFromInts decodes the length-prefixed encoding produced by Ints.
func SequenceFromInts(codes []int) (Sequence, error) {
	if len(codes) == 0 {
		return nil, fmt.Errorf("empty action encoding")
	}
	n := codes[0]
	if n < 0 || n != len(codes)-1 {
		return nil, fmt.Errorf("action encoding says %d actions but has %d",
			n, len(codes)-1)
	}
	seq := make(Sequence, 0, n)
	for _, c := range codes[1:] {
		a, err := FromInt(c)
		if err != nil {
			return nil, err
		}
		seq = append(seq, a)
	}
	return seq, nil
}

// ParseSequence parses whitespace-separated action names.
func ParseSequence(fields []string) (Sequence, error) {
	seq := make(Sequence, 0, len(fields))
	for _, f := range fields {
		a, err := ParseAction(f)
		if err != nil {
			return nil, err
		}
		seq = append(seq, a)
	}
	return seq, nil
}

// Count returns how many times a appears in s.
func (s Sequence) Count(a Action) int {
	return lo.Count(s, a)
}
