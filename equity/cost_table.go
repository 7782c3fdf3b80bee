package equity

import (
	"math"
	"sync"
	"sync/atomic"

	"github.com/pbnjay/memory"
	"github.com/rs/zerolog/log"

	"github.com/twai/twai/board"
	"github.com/twai/twai/zobrist"
)

const costEntrySize = 24

const (
	minTableSizePowerOf2 = 10
	maxTableSizePowerOf2 = 28
)

type costEntry struct {
	hash  uint64
	cost  float64
	valid bool
}

// CostTable is a direct-mapped table of evaluated grids, keyed by zobrist
// hash. A new entry overwrites whatever was in its slot.
type CostTable struct {
	sync.RWMutex
	table        []costEntry
	sizePowerOf2 int
	sizeMask     uint64

	lookups atomic.Uint64
	hits    atomic.Uint64
	created atomic.Uint64
}

// NewCostTable sizes the table to use about fractionOfMemory of the
// machine's memory.
func NewCostTable(fractionOfMemory float64) *CostTable {
	totalMem := memory.TotalMemory()
	desiredNElems := fractionOfMemory * (float64(totalMem) / float64(costEntrySize))
	pow := minTableSizePowerOf2
	if desiredNElems > 1 {
		pow = int(math.Log2(desiredNElems))
	}
	pow = max(minTableSizePowerOf2, min(pow, maxTableSizePowerOf2))
	t := newCostTableOfSize(pow)
	log.Info().Int("size-power-of-2", pow).
		Uint64("total-system-mem", totalMem).
		Int("estimated-bytes", (1<<pow)*costEntrySize).
		Msg("cost-table-created")
	return t
}

func newCostTableOfSize(pow int) *CostTable {
	n := 1 << pow
	return &CostTable{
		table:        make([]costEntry, n),
		sizePowerOf2: pow,
		sizeMask:     uint64(n - 1),
	}
}

func (t *CostTable) lookup(hash uint64) (float64, bool) {
	t.lookups.Add(1)
	idx := hash & t.sizeMask
	t.RLock()
	e := t.table[idx]
	t.RUnlock()
	if !e.valid || e.hash != hash {
		return 0, false
	}
	t.hits.Add(1)
	return e.cost, true
}

func (t *CostTable) store(hash uint64, cost float64) {
	idx := hash & t.sizeMask
	t.Lock()
	t.table[idx] = costEntry{hash: hash, cost: cost, valid: true}
	t.Unlock()
	t.created.Add(1)
}

// Reset empties the table.
func (t *CostTable) Reset() {
	t.Lock()
	defer t.Unlock()
	clear(t.table)
	t.lookups.Store(0)
	t.hits.Store(0)
	t.created.Store(0)
}

// Stats returns lookups, hits and stores since the last reset.
func (t *CostTable) Stats() (lookups, hits, created uint64) {
	return t.lookups.Load(), t.hits.Load(), t.created.Load()
}

// CachedCalculator remembers the costs another calculator produced.
type CachedCalculator struct {
	inner CostCalculator
	table *CostTable
	z     *zobrist.Zobrist
}

// NewCachedCalculator wraps inner with a table. Grids of other sizes than
// height x width are passed straight through.
func NewCachedCalculator(inner CostCalculator, table *CostTable, height, width int) *CachedCalculator {
	z := &zobrist.Zobrist{}
	z.Initialize(height, width)
	return &CachedCalculator{inner: inner, table: table, z: z}
}

func (c *CachedCalculator) Cost(grid *board.Grid, landingHeight int) float64 {
	if !c.sameDims(grid) {
		return c.inner.Cost(grid, landingHeight)
	}
	return c.costForKey(grid, c.z.Hash(grid, landingHeight), landingHeight)
}

func (c *CachedCalculator) costForKey(grid *board.Grid, key uint64, landingHeight int) float64 {
	if cost, ok := c.table.lookup(key); ok {
		return cost
	}
	cost := c.inner.Cost(grid, landingHeight)
	c.table.store(key, cost)
	return cost
}

func (c *CachedCalculator) sameDims(grid *board.Grid) bool {
	h, w := c.z.Dims()
	return grid.Height() == h && grid.Width() == w
}

// BaseKey hashes grid once so that placements on it can be keyed by their
// cells alone.
func (c *CachedCalculator) BaseKey(grid *board.Grid) uint64 {
	if !c.sameDims(grid) {
		return 0
	}
	return c.z.GridHash(grid)
}

// PlacementCost is Cost for placed, which must be the grid BaseKey saw with
// pose added.
func (c *CachedCalculator) PlacementCost(placed *board.Grid, baseKey uint64, pose board.Pose, landingHeight int) float64 {
	if !c.sameDims(placed) {
		return c.inner.Cost(placed, landingHeight)
	}
	key := c.z.WithLanding(c.z.AddPose(baseKey, pose), landingHeight)
	return c.costForKey(placed, key, landingHeight)
}

func (c *CachedCalculator) Table() *CostTable {
	return c.table
}
