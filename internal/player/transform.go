package player

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

var ErrNegativeScale = errors.New("scale components cannot be negative")

// Transform is a position, rotation and scale in world space.
type Transform struct {
	Position mgl32.Vec3
	Rotation mgl32.Quat
	scale    mgl32.Vec3
}

// NewTransform returns an identity transform at position.
func NewTransform(position mgl32.Vec3) Transform {
	return Transform{
		Position: position,
		Rotation: mgl32.QuatIdent(),
		scale:    mgl32.Vec3{1, 1, 1},
	}
}

func (t *Transform) Scale() mgl32.Vec3 {
	return t.scale
}

// SetScale rejects negative components and leaves the scale unchanged.
func (t *Transform) SetScale(s mgl32.Vec3) error {
	if s.X() < 0 || s.Y() < 0 || s.Z() < 0 {
		return fmt.Errorf("%w: %v", ErrNegativeScale, s)
	}
	t.scale = s
	return nil
}

// Translate moves the transform by delta.
func (t *Transform) Translate(delta mgl32.Vec3) {
	t.Position = t.Position.Add(delta)
}

// Matrix returns translate * rotate * scale.
func (t *Transform) Matrix() mgl32.Mat4 {
	m := mgl32.Translate3D(t.Position.X(), t.Position.Y(), t.Position.Z())
	m = m.Mul4(t.Rotation.Mat4())
	return m.Mul4(mgl32.Scale3D(t.scale.X(), t.scale.Y(), t.scale.Z()))
}
