package board

import (
	"fmt"
	"strings"
)

// Shape is one of the seven piece shapes.
type Shape uint8

const (
	ShapeI Shape = iota
	ShapeJ
	ShapeL
	ShapeS
	ShapeZ
	ShapeT
	ShapeO

	NumShapes = 7
)

var shapeNames = [NumShapes]string{"I", "J", "L", "S", "Z", "T", "O"}

func (s Shape) String() string {
	if int(s) < NumShapes {
		return shapeNames[s]
	}
	return fmt.Sprintf("Shape(%d)", uint8(s))
}

// ParseShape parses a shape letter such as "T".
func ParseShape(str string) (Shape, error) {
	for i, n := range shapeNames {
		if strings.EqualFold(n, str) {
			return Shape(i), nil
		}
	}
	return 0, fmt.Errorf("unknown shape %q", str)
}

// shapeOffsets holds the pivot followed by the four cells of every shape,
// relative to the spawn anchor. The O piece never rotates; its pivot is an
// off-board sentinel.
var shapeOffsets = [NumShapes][5]Point{
	ShapeI: {{2, 1}, {0.5, 0.5}, {1.5, 0.5}, {2.5, 0.5}, {3.5, 0.5}},
	ShapeJ: {{1.5, 0.5}, {0.5, 0.5}, {1.5, 0.5}, {2.5, 0.5}, {2.5, -0.5}},
	ShapeL: {{1.5, 0.5}, {0.5, 0.5}, {1.5, 0.5}, {2.5, 0.5}, {2.5, 1.5}},
	ShapeS: {{1.5, 1.5}, {0.5, 2.5}, {0.5, 1.5}, {1.5, 1.5}, {1.5, 0.5}},
	ShapeZ: {{1.5, 1.5}, {0.5, 0.5}, {0.5, 1.5}, {1.5, 1.5}, {1.5, 2.5}},
	ShapeT: {{1.5, 1.5}, {0.5, 1.5}, {1.5, 0.5}, {1.5, 1.5}, {1.5, 2.5}},
	ShapeO: {{-1, -1}, {0.5, 0.5}, {0.5, 1.5}, {1.5, 1.5}, {1.5, 0.5}},
}

// Rotates reports whether the shape changes under rotation.
func (s Shape) Rotates() bool {
	return s != ShapeO
}
