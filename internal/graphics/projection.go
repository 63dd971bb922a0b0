package graphics

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Projection handles the perspective projection matrix
type Projection struct {
	AspectRatio float32
	FOV         float32
	NearPlane   float32
	FarPlane    float32
}

// NewProjection returns a projection for a width×height viewport with the
// vertical field of view fov in degrees.
func NewProjection(width, height int, fov float32) *Projection {
	p := &Projection{
		FOV:       fov,
		NearPlane: 0.1,
		FarPlane:  1000.0,
	}
	p.SetViewport(width, height)
	return p
}

// SetViewport updates the aspect ratio. A zero height (minimized window) keeps the previous ratio.
func (p *Projection) SetViewport(width, height int) {
	if width <= 0 || height <= 0 {
		if p.AspectRatio == 0 {
			p.AspectRatio = 1
		}
		return
	}
	p.AspectRatio = float32(width) / float32(height)
}

func (p *Projection) Matrix() mgl32.Mat4 {
	return mgl32.Perspective(mgl32.DegToRad(p.FOV), p.AspectRatio, p.NearPlane, p.FarPlane)
}
