package world

import (
	"errors"
	"sync"

	"github.com/go-gl/mathgl/mgl32"
)

// RenderHandle identifies a mesh registered with a RenderSubmitter.
type RenderHandle uint64

// ErrUnknownHandle is returned when unregistering a handle that is not registered.
var ErrUnknownHandle = errors.New("render handle not registered")

// RenderSubmitter is the boundary to whatever draws meshes. The core only
// hands finished meshes across it and never touches a graphics API itself.
type RenderSubmitter interface {
	Register(mesh *Mesh, transform mgl32.Mat4) (RenderHandle, error)
	Unregister(h RenderHandle) error
}

// Registration owns one registered mesh and unregisters it exactly once.
type Registration struct {
	submitter RenderSubmitter
	handle    RenderHandle

	once sync.Once
	err  error
}

// Submit registers mesh and returns the owning Registration.
func Submit(s RenderSubmitter, mesh *Mesh, transform mgl32.Mat4) (*Registration, error) {
	h, err := s.Register(mesh, transform)
	if err != nil {
		return nil, err
	}
	return &Registration{submitter: s, handle: h}, nil
}

// Handle returns the underlying render handle.
func (r *Registration) Handle() RenderHandle {
	return r.handle
}

// Release unregisters the mesh. Later calls return the first result.
func (r *Registration) Release() error {
	r.once.Do(func() {
		r.err = r.submitter.Unregister(r.handle)
	})
	return r.err
}

// ChunkTransform is the model transform placing a chunk at its world origin.
func ChunkTransform(coord ChunkCoord) mgl32.Mat4 {
	o := coord.Origin()
	return mgl32.Translate3D(float32(o.X), float32(o.Y), float32(o.Z))
}
