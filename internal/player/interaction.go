package player

import (
	"errors"
	"mini-voxel/internal/physics"

	"github.com/go-gl/mathgl/mgl32"
)

const DefaultReach = physics.MaxReachDistance

var ErrNotImplemented = errors.New("block interaction is not implemented")

// Interactor aims block edits along the camera ray.
type Interactor struct {
	camera *Camera
	blocks physics.BlockQuery
	reach  float32
}

func NewInteractor(camera *Camera, blocks physics.BlockQuery, reach float32) *Interactor {
	if reach <= 0 {
		reach = DefaultReach
	}
	return &Interactor{camera: camera, blocks: blocks, reach: reach}
}

// Ray returns the origin and the far end of the interaction ray.
func (i *Interactor) Ray() (from, to mgl32.Vec3) {
	from = i.camera.Position()
	return from, from.Add(i.camera.Front().Mul(i.reach))
}

// Target returns the block under the crosshair.
func (i *Interactor) Target() physics.RaycastResult {
	if i.blocks == nil {
		return physics.RaycastResult{}
	}
	return physics.Raycast(i.camera.Position(), i.camera.Front(), physics.MinReachDistance, i.reach, i.blocks)
}

// Break would remove the targeted block. Chunks are immutable once meshed,
// so it always fails.
func (i *Interactor) Break() (physics.RaycastResult, error) {
	return i.Target(), ErrNotImplemented
}
