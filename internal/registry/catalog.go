package registry

import (
	"errors"
	"fmt"
	"mini-voxel/internal/world"
	"sort"

	"github.com/go-gl/mathgl/mgl32"
)

// AtlasTiles is the number of tiles along each side of the texture atlas.
const AtlasTiles = 16

var (
	ErrUnknownBlock   = errors.New("unknown block type")
	ErrDuplicateBlock = errors.New("block type already registered")
)

// TileRect is a rectangle of the atlas in UV space, V pointing up.
type TileRect struct {
	U0, V0, U1, V1 float32
}

// Tile returns the rectangle of the atlas tile at column col, counting rows from the top.
func Tile(col, row int) TileRect {
	const step = float32(1) / AtlasTiles
	v1 := 1 - float32(row)*step
	return TileRect{
		U0: float32(col) * step,
		V0: v1 - step,
		U1: float32(col+1) * step,
		V1: v1,
	}
}

// At maps a tile corner in [0,1]² into the rectangle.
func (r TileRect) At(corner mgl32.Vec2) mgl32.Vec2 {
	return mgl32.Vec2{
		r.U0 + (r.U1-r.U0)*corner.X(),
		r.V0 + (r.V1-r.V0)*corner.Y(),
	}
}

// BlockDefinition defines the properties of a block type
type BlockDefinition struct {
	ID     world.BlockType
	Name   string
	Top    TileRect
	Side   TileRect
	Bottom TileRect
}

// FaceTile returns the atlas tile drawn on the given face.
func (d *BlockDefinition) FaceTile(face world.BlockFace) TileRect {
	switch face {
	case world.FaceTop:
		return d.Top
	case world.FaceBottom:
		return d.Bottom
	default:
		return d.Side
	}
}

// Catalog maps block types to their atlas tiles. It is built once and
// then only read, so it is safe to share between mesher workers.
type Catalog struct {
	blocks map[world.BlockType]*BlockDefinition
	names  map[string]world.BlockType
}

// NewCatalog returns an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{
		blocks: make(map[world.BlockType]*BlockDefinition),
		names:  make(map[string]world.BlockType),
	}
}

// Register adds a block definition.
func (c *Catalog) Register(def *BlockDefinition) error {
	if _, ok := c.blocks[def.ID]; ok {
		return fmt.Errorf("%w: %v", ErrDuplicateBlock, def.ID)
	}
	c.blocks[def.ID] = def
	c.names[def.Name] = def.ID
	return nil
}

// Get returns the definition of bt.
func (c *Catalog) Get(bt world.BlockType) (*BlockDefinition, error) {
	def, ok := c.blocks[bt]
	if !ok {
		return nil, fmt.Errorf("%w: %v", ErrUnknownBlock, bt)
	}
	return def, nil
}

// Lookup returns the block type registered under name.
func (c *Catalog) Lookup(name string) (world.BlockType, bool) {
	bt, ok := c.names[name]
	return bt, ok
}

// Types returns the registered block types in ascending order.
func (c *Catalog) Types() []world.BlockType {
	out := make([]world.BlockType, 0, len(c.blocks))
	for bt := range c.blocks {
		out = append(out, bt)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// FaceUVs returns the six texture coordinates of one face of bt, in the
// vertex order of world.CubeFaceVertices.
func (c *Catalog) FaceUVs(bt world.BlockType, face world.BlockFace) ([world.VerticesPerFace]mgl32.Vec2, error) {
	var uvs [world.VerticesPerFace]mgl32.Vec2
	def, err := c.Get(bt)
	if err != nil {
		return uvs, err
	}
	r := def.FaceTile(face)
	for i, corner := range world.FaceTileCorners {
		uvs[i] = r.At(corner)
	}
	return uvs, nil
}

// Default returns the catalog for the stock atlas: grass and stone.
func Default() *Catalog {
	c := NewCatalog()
	for _, def := range []*BlockDefinition{
		{
			ID:     world.BlockTypeGrass,
			Name:   "grass",
			Top:    Tile(0, 0),
			Side:   Tile(1, 0),
			Bottom: Tile(2, 0),
		},
		{
			ID:     world.BlockTypeStone,
			Name:   "stone",
			Top:    Tile(3, 0),
			Side:   Tile(3, 0),
			Bottom: Tile(3, 0),
		},
	} {
		// Stock definitions have distinct IDs
		_ = c.Register(def)
	}
	return c
}
