package export

import (
	"bufio"
	"fmt"
	"io"
	"mini-voxel/internal/world"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/klauspost/compress/zstd"
)

type entry struct {
	mesh      *world.Mesh
	transform mgl32.Mat4
}

// OBJSubmitter is a headless world.RenderSubmitter that keeps registered
// meshes and writes them out as a Wavefront OBJ scene.
type OBJSubmitter struct {
	mu     sync.Mutex
	next   world.RenderHandle
	meshes map[world.RenderHandle]entry
}

// NewOBJSubmitter creates an empty scene.
func NewOBJSubmitter() *OBJSubmitter {
	return &OBJSubmitter{meshes: make(map[world.RenderHandle]entry)}
}

// Register adds a mesh to the scene.
func (s *OBJSubmitter) Register(mesh *world.Mesh, transform mgl32.Mat4) (world.RenderHandle, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.next++
	s.meshes[s.next] = entry{mesh: mesh, transform: transform}
	return s.next, nil
}

// Unregister removes a mesh from the scene.
func (s *OBJSubmitter) Unregister(h world.RenderHandle) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.meshes[h]; !ok {
		return fmt.Errorf("%w: %d", world.ErrUnknownHandle, h)
	}
	delete(s.meshes, h)
	return nil
}

// Len returns the number of registered meshes.
func (s *OBJSubmitter) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.meshes)
}

// Write emits the scene as OBJ text, one object per mesh in registration order.
// Mesh vertices are already in world space; the transform only names the object.
func (s *OBJSubmitter) Write(w io.Writer) error {
	s.mu.Lock()
	handles := make([]world.RenderHandle, 0, len(s.meshes))
	for h := range s.meshes {
		handles = append(handles, h)
	}
	entries := make(map[world.RenderHandle]entry, len(s.meshes))
	for h, e := range s.meshes {
		entries[h] = e
	}
	s.mu.Unlock()
	sort.Slice(handles, func(i, j int) bool { return handles[i] < handles[j] })

	bw := bufio.NewWriterSize(w, 256*1024)
	fmt.Fprintf(bw, "# mini-voxel scene: %d chunks\n", len(handles))

	index := 1
	for _, h := range handles {
		e := entries[h]
		origin := e.transform.Col(3)
		fmt.Fprintf(bw, "o chunk_%d_%d\n", int(origin.X()), int(origin.Z()))
		for _, tri := range e.mesh.Triangles() {
			for i := range 3 {
				v, uv := tri.Vertices[i], tri.TexCoords[i]
				fmt.Fprintf(bw, "v %g %g %g\n", v.X(), v.Y(), v.Z())
				fmt.Fprintf(bw, "vt %g %g\n", uv.X(), uv.Y())
			}
			fmt.Fprintf(bw, "vn %g %g %g\n", tri.Normal.X(), tri.Normal.Y(), tri.Normal.Z())
		}
		normal := index/3 + 1
		for range e.mesh.Triangles() {
			fmt.Fprintf(bw, "f %d/%d/%d %d/%d/%d %d/%d/%d\n",
				index, index, normal,
				index+1, index+1, normal,
				index+2, index+2, normal)
			index += 3
			normal++
		}
	}
	return bw.Flush()
}

// IsCompressed reports whether path names a zstd-compressed file.
func IsCompressed(path string) bool {
	return strings.HasSuffix(path, ".zst")
}

// WriteFile writes the scene to path, zstd-compressed when the name ends in ".zst".
func (s *OBJSubmitter) WriteFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()

	if !IsCompressed(path) {
		if err := s.Write(f); err != nil {
			return err
		}
		return f.Close()
	}

	enc, err := zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return err
	}
	if err := s.Write(enc); err != nil {
		enc.Close()
		return fmt.Errorf("write obj: %w", err)
	}
	if err := enc.Close(); err != nil {
		return err
	}
	return f.Close()
}

// ReadFile returns the OBJ text at path, decompressing ".zst" files.
func ReadFile(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	if !IsCompressed(path) {
		return io.ReadAll(f)
	}
	dec, err := zstd.NewReader(f)
	if err != nil {
		return nil, err
	}
	defer dec.Close()
	return io.ReadAll(dec)
}
