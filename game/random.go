package game

import (
	"sync"

	"lukechampine.com/frand"

	"github.com/twai/twai/board"
)

// A PieceSource hands out the shapes of new pieces.
type PieceSource interface {
	Next() board.Shape
	// Copy returns a source that will produce the same upcoming shapes
	// without advancing this one.
	Copy() PieceSource
}

// shapeStream is the draw history of one generator. Sources copied from
// each other share it and read it at their own position, so a copy costs
// the same no matter how many pieces have been drawn.
type shapeStream struct {
	mu     sync.Mutex
	rng    *frand.RNG
	shapes []board.Shape
}

func (st *shapeStream) at(i int) board.Shape {
	st.mu.Lock()
	defer st.mu.Unlock()
	for len(st.shapes) <= i {
		var s board.Shape
		if st.rng == nil {
			s = board.Shape(frand.Intn(board.NumShapes))
		} else {
			s = board.Shape(st.rng.Intn(board.NumShapes))
		}
		st.shapes = append(st.shapes, s)
	}
	return st.shapes[i]
}

// RandomSource draws uniformly from all seven shapes.
type RandomSource struct {
	stream *shapeStream
	pos    int
}

// NewRandomSource returns a seeded source if seed is non-nil; otherwise it
// draws from the process-wide generator.
func NewRandomSource(seed *[32]byte) *RandomSource {
	st := &shapeStream{}
	if seed != nil {
		st.rng = frand.NewCustom(seed[:], 1024, 12)
	}
	return &RandomSource{stream: st}
}

func (s *RandomSource) Next() board.Shape {
	sh := s.stream.at(s.pos)
	s.pos++
	return sh
}

// Drawn returns how many shapes this source has handed out.
func (s *RandomSource) Drawn() int {
	return s.pos
}

// Copy shares the draw history, so the copy yields the same upcoming
// shapes as s whichever of the two draws first. This holds for unseeded
// sources too.
func (s *RandomSource) Copy() PieceSource {
	return &RandomSource{stream: s.stream, pos: s.pos}
}

// SequenceSource cycles through a fixed list of shapes.
type SequenceSource struct {
	shapes []board.Shape
	idx    int
}

func NewSequenceSource(shapes ...board.Shape) *SequenceSource {
	if len(shapes) == 0 {
		panic("sequence source needs at least one shape")
	}
	return &SequenceSource{shapes: shapes}
}

func (s *SequenceSource) Next() board.Shape {
	sh := s.shapes[s.idx%len(s.shapes)]
	s.idx++
	return sh
}

func (s *SequenceSource) Copy() PieceSource {
	return &SequenceSource{shapes: s.shapes, idx: s.idx}
}
