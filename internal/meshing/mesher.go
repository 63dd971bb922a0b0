package meshing

import (
	"fmt"
	"mini-voxel/internal/profiling"
	"mini-voxel/internal/registry"
	"mini-voxel/internal/world"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
)

// EdgePolicy decides what lies beyond the chunk grid when culling faces.
type EdgePolicy int

const (
	// EdgeSolid treats cells outside the grid as solid, hiding border faces.
	EdgeSolid EdgePolicy = iota
	// EdgeOpen treats cells outside the grid as air.
	EdgeOpen
)

func (p EdgePolicy) String() string {
	if p == EdgeOpen {
		return "open"
	}
	return "solid"
}

// ParseEdgePolicy parses "solid" or "open".
func ParseEdgePolicy(s string) (EdgePolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "solid":
		return EdgeSolid, nil
	case "open":
		return EdgeOpen, nil
	}
	return EdgeSolid, fmt.Errorf("unknown edge policy %q", s)
}

// Mesher converts chunk grids into face-culled triangle meshes.
// It never reads neighboring chunks.
type Mesher struct {
	catalog *registry.Catalog
	edge    EdgePolicy
}

// NewMesher creates a mesher; a nil catalog uses registry.Default().
func NewMesher(catalog *registry.Catalog, edge EdgePolicy) *Mesher {
	if catalog == nil {
		catalog = registry.Default()
	}
	return &Mesher{catalog: catalog, edge: edge}
}

// Build emits two triangles for every face of a solid cell that borders air.
// Vertices are in world space: the cell position plus origin.
func (m *Mesher) Build(grid *world.Grid, origin world.BlockPos) *world.Mesh {
	defer profiling.Track("meshing.Build")()

	tris := make([]world.Triangle, 0, 1024)
	base := origin.Vec3()

	for x := range world.ChunkWidth {
		for y := range world.ChunkHeight {
			for z := range world.ChunkWidth {
				bt, _ := grid.Get(x, y, z)
				if bt == world.BlockTypeAir {
					continue
				}
				cell := base.Add(mgl32.Vec3{float32(x), float32(y), float32(z)})
				for _, f := range world.AllFaces {
					if !m.faceVisible(grid, x, y, z, f) {
						continue
					}
					tris = m.appendFace(tris, bt, f, cell)
				}
			}
		}
	}
	return world.NewMesh(tris)
}

func (m *Mesher) faceVisible(grid *world.Grid, x, y, z int, f world.BlockFace) bool {
	// Nothing is ever drawn below the world floor
	if f == world.FaceBottom && y == 0 {
		return false
	}
	off := f.Offset()
	nb, ok := grid.Get(x+off.X, y+off.Y, z+off.Z)
	if !ok {
		return m.edge == EdgeOpen
	}
	return nb == world.BlockTypeAir
}

func (m *Mesher) appendFace(tris []world.Triangle, bt world.BlockType, f world.BlockFace, cell mgl32.Vec3) []world.Triangle {
	// Unregistered block types keep zero texture coordinates
	uvs, _ := m.catalog.FaceUVs(bt, f)
	verts := world.CubeFaceVertices[f]
	n := f.Normal()
	for i := 0; i < world.VerticesPerFace; i += 3 {
		tris = append(tris, world.Triangle{
			Vertices:  [3]mgl32.Vec3{cell.Add(verts[i]), cell.Add(verts[i+1]), cell.Add(verts[i+2])},
			TexCoords: [3]mgl32.Vec2{uvs[i], uvs[i+1], uvs[i+2]},
			Normal:    n,
		})
	}
	return tris
}
