package zobrist

import (
	"lukechampine.com/frand"

	"github.com/twai/twai/board"
)

const bignum = 1<<63 - 2

// Zobrist hashes a resting grid together with the landing height of the
// piece that produced it. Two evaluations with the same key have the same
// cost.
// https://en.wikipedia.org/wiki/Zobrist_hashing
type Zobrist struct {
	cellTable []uint64
	// one key per landing height 0..height
	landingTable []uint64

	height, width int
}

func (z *Zobrist) Initialize(height, width int) {
	z.height = height
	z.width = width
	z.cellTable = make([]uint64, height*width)
	for i := range z.cellTable {
		z.cellTable[i] = frand.Uint64n(bignum) + 1
	}
	z.landingTable = make([]uint64, height+1)
	for i := range z.landingTable {
		z.landingTable[i] = frand.Uint64n(bignum) + 1
	}
}

// Dims returns the grid size the tables were built for.
func (z *Zobrist) Dims() (int, int) {
	return z.height, z.width
}

// A piece resting on a height x width grid lands between 1 and height;
// anything outside that is clamped.
func (z *Zobrist) landingKey(landingHeight int) uint64 {
	return z.landingTable[max(0, min(landingHeight, z.height))]
}

// GridHash computes the key of the occupied cells alone.
func (z *Zobrist) GridHash(g *board.Grid) uint64 {
	key := uint64(0)
	for r := 0; r < z.height; r++ {
		for c := 0; c < z.width; c++ {
			if g.Occupied(r, c) {
				key ^= z.cellTable[r*z.width+c]
			}
		}
	}
	return key
}

// Hash computes the key of a grid and landing height from scratch.
func (z *Zobrist) Hash(g *board.Grid, landingHeight int) uint64 {
	return z.GridHash(g) ^ z.landingKey(landingHeight)
}

// AddPose updates the grid part of a key for a pose being placed or
// removed. Placing and removing are the same operation.
func (z *Zobrist) AddPose(key uint64, p board.Pose) uint64 {
	for _, c := range p.Cells {
		r, col := c.Cell()
		key ^= z.cellTable[r*z.width+col]
	}
	return key
}

// WithLanding combines a grid-only key with a landing height.
func (z *Zobrist) WithLanding(gridKey uint64, landingHeight int) uint64 {
	return gridKey ^ z.landingKey(landingHeight)
}
