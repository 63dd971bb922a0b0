package world

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

// VertexStride is number of float32 per interleaved vertex (pos.xyz + uv + normal.xyz)
const VertexStride = 8

// ErrTriangleArity is returned when a triangle is built from other than three vertices or texcoords.
var ErrTriangleArity = errors.New("triangle needs exactly 3 vertices and 3 texcoords")

// Triangle is one textured polygon of a chunk mesh.
type Triangle struct {
	Vertices  [3]mgl32.Vec3
	TexCoords [3]mgl32.Vec2
	Normal    mgl32.Vec3
}

// NewTriangle validates arity and builds a triangle.
func NewTriangle(vertices []mgl32.Vec3, texCoords []mgl32.Vec2, normal mgl32.Vec3) (Triangle, error) {
	if len(vertices) != 3 || len(texCoords) != 3 {
		return Triangle{}, fmt.Errorf("%w: got %d vertices, %d texcoords", ErrTriangleArity, len(vertices), len(texCoords))
	}
	t := Triangle{Normal: normal}
	copy(t.Vertices[:], vertices)
	copy(t.TexCoords[:], texCoords)
	return t, nil
}

// NormalFromTriangle computes the unit normal of a counter-clockwise triangle.
func NormalFromTriangle(a, b, c mgl32.Vec3) mgl32.Vec3 {
	n := b.Sub(a).Cross(c.Sub(a))
	if n.Len() == 0 {
		return mgl32.Vec3{}
	}
	return n.Normalize()
}

// Mesh is an immutable triangle list in world space.
type Mesh struct {
	triangles []Triangle
}

// NewMesh takes ownership of the triangle slice.
func NewMesh(triangles []Triangle) *Mesh {
	return &Mesh{triangles: triangles}
}

// Triangles returns the mesh triangles. Callers must not modify them.
func (m *Mesh) Triangles() []Triangle {
	if m == nil {
		return nil
	}
	return m.triangles
}

// TriangleCount returns the number of triangles.
func (m *Mesh) TriangleCount() int {
	if m == nil {
		return 0
	}
	return len(m.triangles)
}

// VertexCount returns the number of vertices to draw.
func (m *Mesh) VertexCount() int {
	return m.TriangleCount() * 3
}

// IsEmpty reports whether the mesh has nothing to draw.
func (m *Mesh) IsEmpty() bool {
	return m.TriangleCount() == 0
}

// Interleaved flattens the mesh into pos+uv+normal float32 vertices for upload.
// Positions are relative to origin so the mesh can be drawn with a model transform.
func (m *Mesh) Interleaved(origin mgl32.Vec3) []float32 {
	out := make([]float32, 0, m.VertexCount()*VertexStride)
	for _, t := range m.Triangles() {
		for i := range 3 {
			p := t.Vertices[i].Sub(origin)
			uv := t.TexCoords[i]
			out = append(out,
				p.X(), p.Y(), p.Z(),
				uv.X(), uv.Y(),
				t.Normal.X(), t.Normal.Y(), t.Normal.Z(),
			)
		}
	}
	return out
}

// Bounds returns the axis-aligned box around all vertices. ok is false for an empty mesh.
func (m *Mesh) Bounds() (min, max mgl32.Vec3, ok bool) {
	tris := m.Triangles()
	if len(tris) == 0 {
		return min, max, false
	}
	min, max = tris[0].Vertices[0], tris[0].Vertices[0]
	for _, t := range tris {
		for _, v := range t.Vertices {
			for a := range 3 {
				if v[a] < min[a] {
					min[a] = v[a]
				}
				if v[a] > max[a] {
					max[a] = v[a]
				}
			}
		}
	}
	return min, max, true
}
