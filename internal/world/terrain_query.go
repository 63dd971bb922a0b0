package world

import (
	"sync"
)

// DefaultQueryCapacity is the number of grids a TerrainQuery keeps.
const DefaultQueryCapacity = 16

// TerrainQuery answers block lookups in world coordinates by regenerating
// chunk grids on demand. Resident chunks keep only their mesh, and
// generation is deterministic, so the answer matches what was meshed.
type TerrainQuery struct {
	gen      TerrainGenerator
	capacity int

	mu    sync.Mutex
	grids map[ChunkCoord]*Grid
	order []ChunkCoord // oldest first
}

func NewTerrainQuery(gen TerrainGenerator, capacity int) *TerrainQuery {
	if capacity <= 0 {
		capacity = DefaultQueryCapacity
	}
	return &TerrainQuery{
		gen:      gen,
		capacity: capacity,
		grids:    make(map[ChunkCoord]*Grid, capacity),
	}
}

// Block returns the block at world position (x,y,z). Cells outside the
// vertical range are air.
func (q *TerrainQuery) Block(x, y, z int) BlockType {
	if y < 0 || y >= ChunkHeight {
		return BlockTypeAir
	}
	coord := ChunkCoord{X: floorDiv(x, ChunkWidth), Z: floorDiv(z, ChunkWidth)}
	g := q.grid(coord)
	bt, _ := g.Get(x-coord.X*ChunkWidth, y, z-coord.Z*ChunkWidth)
	return bt
}

// IsSolid reports whether the block at (x,y,z) is not air.
func (q *TerrainQuery) IsSolid(x, y, z int) bool {
	return q.Block(x, y, z) != BlockTypeAir
}

func (q *TerrainQuery) grid(coord ChunkCoord) *Grid {
	q.mu.Lock()
	defer q.mu.Unlock()

	if g, ok := q.grids[coord]; ok {
		return g
	}
	g := q.gen.Generate(coord)
	if len(q.order) >= q.capacity {
		delete(q.grids, q.order[0])
		q.order = q.order[1:]
	}
	q.grids[coord] = g
	q.order = append(q.order, coord)
	return g
}
