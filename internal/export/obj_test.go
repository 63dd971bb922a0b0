package export

import (
	"bytes"
	"errors"
	"mini-voxel/internal/world"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func quad(origin mgl32.Vec3) *world.Mesh {
	a, _ := world.NewTriangle(
		[]mgl32.Vec3{origin, origin.Add(mgl32.Vec3{1, 0, 0}), origin.Add(mgl32.Vec3{1, 1, 0})},
		[]mgl32.Vec2{{0, 0}, {1, 0}, {1, 1}},
		mgl32.Vec3{0, 0, 1},
	)
	b, _ := world.NewTriangle(
		[]mgl32.Vec3{origin, origin.Add(mgl32.Vec3{1, 1, 0}), origin.Add(mgl32.Vec3{0, 1, 0})},
		[]mgl32.Vec2{{0, 0}, {1, 1}, {0, 1}},
		mgl32.Vec3{0, 0, 1},
	)
	return world.NewMesh([]world.Triangle{a, b})
}

func countPrefix(text, prefix string) int {
	n := 0
	for _, line := range strings.Split(text, "\n") {
		if strings.HasPrefix(line, prefix) {
			n++
		}
	}
	return n
}

func TestOBJSubmitterWrite(t *testing.T) {
	s := NewOBJSubmitter()
	if _, err := s.Register(quad(mgl32.Vec3{}), world.ChunkTransform(world.ChunkCoord{})); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Register(quad(mgl32.Vec3{16, 0, 0}), world.ChunkTransform(world.ChunkCoord{X: 1})); err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := s.Write(&buf); err != nil {
		t.Fatal(err)
	}
	text := buf.String()
	if got := countPrefix(text, "v "); got != 12 {
		t.Errorf("vertices = %d, want 12", got)
	}
	if got := countPrefix(text, "vn "); got != 4 {
		t.Errorf("normals = %d, want 4", got)
	}
	if got := countPrefix(text, "f "); got != 4 {
		t.Errorf("faces = %d, want 4", got)
	}
	if !strings.Contains(text, "o chunk_16_0") {
		t.Errorf("missing object for chunk (1,0):\n%s", text)
	}
	// Second object continues the global index
	if !strings.Contains(text, "f 10/10/4 11/11/4 12/12/4") {
		t.Errorf("last face has wrong indices:\n%s", text)
	}
}

func TestOBJSubmitterUnregister(t *testing.T) {
	s := NewOBJSubmitter()
	h, _ := s.Register(quad(mgl32.Vec3{}), mgl32.Ident4())
	if err := s.Unregister(h); err != nil {
		t.Fatal(err)
	}
	if err := s.Unregister(h); !errors.Is(err, world.ErrUnknownHandle) {
		t.Errorf("err = %v, want ErrUnknownHandle", err)
	}
	if s.Len() != 0 {
		t.Errorf("Len() = %d", s.Len())
	}
}

func TestWriteFileRoundTrip(t *testing.T) {
	s := NewOBJSubmitter()
	s.Register(quad(mgl32.Vec3{}), mgl32.Ident4())
	var want bytes.Buffer
	s.Write(&want)

	dir := t.TempDir()
	for _, name := range []string{"scene.obj", "nested/scene.obj.zst"} {
		path := filepath.Join(dir, name)
		if err := s.WriteFile(path); err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		got, err := ReadFile(path)
		if err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		if !bytes.Equal(got, want.Bytes()) {
			t.Errorf("%s: contents differ after round trip", name)
		}
	}
}
