package world

import (
	"errors"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestNewTriangleArity(t *testing.T) {
	v := []mgl32.Vec3{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}}
	uv := []mgl32.Vec2{{0, 0}, {1, 0}, {0, 1}}

	if _, err := NewTriangle(v, uv, mgl32.Vec3{0, 0, 1}); err != nil {
		t.Fatalf("valid triangle rejected: %v", err)
	}
	if _, err := NewTriangle(v[:2], uv, mgl32.Vec3{}); !errors.Is(err, ErrTriangleArity) {
		t.Errorf("2 vertices: err = %v, want ErrTriangleArity", err)
	}
	if _, err := NewTriangle(v, append(uv, mgl32.Vec2{}), mgl32.Vec3{}); !errors.Is(err, ErrTriangleArity) {
		t.Errorf("4 texcoords: err = %v, want ErrTriangleArity", err)
	}
}

func TestNormalFromTriangle(t *testing.T) {
	n := NormalFromTriangle(mgl32.Vec3{0, 0, 0}, mgl32.Vec3{2, 0, 0}, mgl32.Vec3{0, 2, 0})
	if !n.ApproxEqual(mgl32.Vec3{0, 0, 1}) {
		t.Errorf("normal = %v, want +Z", n)
	}
	if d := NormalFromTriangle(mgl32.Vec3{}, mgl32.Vec3{1, 1, 1}, mgl32.Vec3{2, 2, 2}); d != (mgl32.Vec3{}) {
		t.Errorf("degenerate triangle normal = %v, want zero", d)
	}
}

func TestNilMeshIsEmpty(t *testing.T) {
	var m *Mesh
	if !m.IsEmpty() || m.TriangleCount() != 0 || m.VertexCount() != 0 || m.Triangles() != nil {
		t.Errorf("nil mesh should be empty")
	}
	if len(m.Interleaved(mgl32.Vec3{})) != 0 {
		t.Errorf("nil mesh should interleave to nothing")
	}
}

func TestMeshInterleaved(t *testing.T) {
	tri, _ := NewTriangle(
		[]mgl32.Vec3{{16, 4, 32}, {17, 4, 32}, {17, 5, 32}},
		[]mgl32.Vec2{{0.1, 0.2}, {0.3, 0.4}, {0.5, 0.6}},
		mgl32.Vec3{0, 0, -1},
	)
	m := NewMesh([]Triangle{tri})
	if m.VertexCount() != 3 {
		t.Fatalf("VertexCount() = %d", m.VertexCount())
	}

	buf := m.Interleaved(mgl32.Vec3{16, 0, 32})
	if len(buf) != 3*VertexStride {
		t.Fatalf("len = %d, want %d", len(buf), 3*VertexStride)
	}
	want := []float32{1, 4, 0, 0.3, 0.4, 0, 0, -1}
	got := buf[VertexStride : 2*VertexStride]
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("second vertex = %v, want %v", got, want)
		}
	}
}

func TestMeshBounds(t *testing.T) {
	if _, _, ok := NewMesh(nil).Bounds(); ok {
		t.Errorf("empty mesh reported bounds")
	}
	a, _ := NewTriangle([]mgl32.Vec3{{0, 5, 0}, {1, 5, 0}, {1, 6, 0}}, make([]mgl32.Vec2, 3), mgl32.Vec3{0, 0, 1})
	b, _ := NewTriangle([]mgl32.Vec3{{-3, 2, 7}, {-3, 2, 8}, {-3, 3, 8}}, make([]mgl32.Vec2, 3), mgl32.Vec3{-1, 0, 0})
	min, max, ok := NewMesh([]Triangle{a, b}).Bounds()
	if !ok || min != (mgl32.Vec3{-3, 2, 0}) || max != (mgl32.Vec3{1, 6, 8}) {
		t.Errorf("Bounds() = %v %v %v", min, max, ok)
	}
}
