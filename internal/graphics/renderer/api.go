package renderer

import (
	"github.com/go-gl/mathgl/mgl32"
)

// DirectionalLight is a single fixed light shining along Direction.
type DirectionalLight struct {
	Direction mgl32.Vec3
	Color     mgl32.Vec3
	Ambient   float32
}

// FrameStats reports what the last Render call drew.
type FrameStats struct {
	Registered int
	Drawn      int
	Culled     int
	Triangles  int
}
