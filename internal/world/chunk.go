package world

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

const (
	// Chunk dimensions
	ChunkWidth  = 16
	ChunkHeight = 128

	ChunkVolume = ChunkWidth * ChunkHeight * ChunkWidth
)

// ChunkCoord identifies a vertical chunk column on the X/Z plane.
type ChunkCoord struct {
	X, Z int
}

// ChunkCoordFromPosition returns the column containing the given world position.
func ChunkCoordFromPosition(pos mgl32.Vec3) ChunkCoord {
	wx := int(math.Floor(float64(pos.X())))
	wz := int(math.Floor(float64(pos.Z())))
	return ChunkCoord{X: floorDiv(wx, ChunkWidth), Z: floorDiv(wz, ChunkWidth)}
}

// Origin returns the world-space block position of the chunk's (0,0,0) cell.
func (c ChunkCoord) Origin() BlockPos {
	return BlockPos{X: c.X * ChunkWidth, Y: 0, Z: c.Z * ChunkWidth}
}

// DistanceTo returns the Euclidean distance between two chunk coordinates.
func (c ChunkCoord) DistanceTo(o ChunkCoord) float64 {
	dx := float64(c.X - o.X)
	dz := float64(c.Z - o.Z)
	return math.Sqrt(dx*dx + dz*dz)
}

// WithinRadius reports whether o lies within radius chunks of c.
// Integer math keeps the circle test exact.
func (c ChunkCoord) WithinRadius(o ChunkCoord, radius int) bool {
	dx := c.X - o.X
	dz := c.Z - o.Z
	return dx*dx+dz*dz <= radius*radius
}

// BlockPos is an integer block position, either chunk-local or world-space.
type BlockPos struct {
	X, Y, Z int
}

// Add returns the component-wise sum.
func (p BlockPos) Add(o BlockPos) BlockPos {
	return BlockPos{X: p.X + o.X, Y: p.Y + o.Y, Z: p.Z + o.Z}
}

// Vec3 converts the position to a float vector.
func (p BlockPos) Vec3() mgl32.Vec3 {
	return mgl32.Vec3{float32(p.X), float32(p.Y), float32(p.Z)}
}

// Grid is the dense voxel grid of one chunk column.
// It is owned by whoever generated it and is dropped once meshed.
type Grid struct {
	blocks [ChunkVolume]BlockType
}

// NewGrid returns an all-air grid.
func NewGrid() *Grid {
	return &Grid{}
}

func index(x, y, z int) int {
	return (x*ChunkHeight+y)*ChunkWidth + z
}

// InBounds reports whether local coordinates address a cell of the grid.
func InBounds(x, y, z int) bool {
	return x >= 0 && x < ChunkWidth && y >= 0 && y < ChunkHeight && z >= 0 && z < ChunkWidth
}

// Get returns the block at local coordinates. ok is false outside the grid.
func (g *Grid) Get(x, y, z int) (bt BlockType, ok bool) {
	if !InBounds(x, y, z) {
		return BlockTypeAir, false
	}
	return g.blocks[index(x, y, z)], true
}

// Set writes a block at local coordinates; out-of-range writes are ignored.
func (g *Grid) Set(x, y, z int, bt BlockType) {
	if !InBounds(x, y, z) {
		return
	}
	g.blocks[index(x, y, z)] = bt
}

// IsAir reports whether the in-bounds cell is air.
func (g *Grid) IsAir(x, y, z int) bool {
	bt, ok := g.Get(x, y, z)
	return ok && bt == BlockTypeAir
}

// CountSolid returns the number of non-air cells.
func (g *Grid) CountSolid() int {
	n := 0
	for _, bt := range g.blocks {
		if bt != BlockTypeAir {
			n++
		}
	}
	return n
}

// Bytes returns a copy of the grid contents in index order, one byte per cell.
func (g *Grid) Bytes() []byte {
	out := make([]byte, ChunkVolume)
	for i, bt := range g.blocks {
		out[i] = byte(bt)
	}
	return out
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
