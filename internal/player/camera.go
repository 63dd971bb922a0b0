package player

import (
	"errors"
	"fmt"
	"math"
	"mini-voxel/internal/input"
	"mini-voxel/internal/world"
	"sync"

	"github.com/go-gl/mathgl/mgl32"
)

const (
	DefaultMoveSpeed   = 10.0
	DefaultSensitivity = 0.1
	FastMultiplier     = 4.0
	MaxPitch           = 89.0
)

var (
	ErrNegativeSpeed       = errors.New("camera speed cannot be negative")
	ErrNegativeSensitivity = errors.New("mouse sensitivity cannot be negative")
)

// Camera is a free-flying first-person camera. It is the streaming viewer.
type Camera struct {
	mu        sync.RWMutex
	transform Transform

	yaw, pitch  float64
	speed       float32
	sensitivity float64

	firstMouse   bool
	lastX, lastY float64
}

var _ world.Viewer = (*Camera)(nil)

// NewCamera places a camera at position looking down -Z.
func NewCamera(position mgl32.Vec3, speed, sensitivity float32) (*Camera, error) {
	c := &Camera{
		transform:  NewTransform(position),
		yaw:        -90,
		firstMouse: true,
	}
	if err := c.SetSpeed(speed); err != nil {
		return nil, err
	}
	if err := c.SetSensitivity(sensitivity); err != nil {
		return nil, err
	}
	return c, nil
}

// Position implements world.Viewer.
func (c *Camera) Position() mgl32.Vec3 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.transform.Position
}

func (c *Camera) SetSpeed(speed float32) error {
	if speed < 0 {
		return fmt.Errorf("%w: %v", ErrNegativeSpeed, speed)
	}
	c.mu.Lock()
	c.speed = speed
	c.mu.Unlock()
	return nil
}

func (c *Camera) SetSensitivity(s float32) error {
	if s < 0 {
		return fmt.Errorf("%w: %v", ErrNegativeSensitivity, s)
	}
	c.mu.Lock()
	c.sensitivity = float64(s)
	c.mu.Unlock()
	return nil
}

// Angles returns yaw and pitch in degrees.
func (c *Camera) Angles() (yaw, pitch float64) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.yaw, c.pitch
}

// ResetMouse drops the stored cursor position, e.g. after the cursor was released.
func (c *Camera) ResetMouse() {
	c.mu.Lock()
	c.firstMouse = true
	c.mu.Unlock()
}

// HandleMouseMovement turns the camera by the cursor delta since the last call.
func (c *Camera) HandleMouseMovement(xpos, ypos float64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.firstMouse {
		c.lastX = xpos
		c.lastY = ypos
		c.firstMouse = false
		return
	}

	xoffset := (xpos - c.lastX) * c.sensitivity
	yoffset := (c.lastY - ypos) * c.sensitivity
	c.lastX = xpos
	c.lastY = ypos

	c.yaw = math.Mod(c.yaw+xoffset, 360)
	c.pitch = max(-MaxPitch, min(MaxPitch, c.pitch+yoffset))
}

// Update moves the camera for dt seconds of held movement actions.
func (c *Camera) Update(dt float64, im *input.InputManager) {
	front := c.Front()
	flat := mgl32.Vec3{front.X(), 0, front.Z()}
	if flat.Len() > 0 {
		flat = flat.Normalize()
	}
	right := flat.Cross(mgl32.Vec3{0, 1, 0})

	var dir mgl32.Vec3
	if im.IsActive(input.ActionMoveForward) {
		dir = dir.Add(flat)
	}
	if im.IsActive(input.ActionMoveBackward) {
		dir = dir.Sub(flat)
	}
	if im.IsActive(input.ActionMoveRight) {
		dir = dir.Add(right)
	}
	if im.IsActive(input.ActionMoveLeft) {
		dir = dir.Sub(right)
	}
	if im.IsActive(input.ActionMoveUp) {
		dir = dir.Add(mgl32.Vec3{0, 1, 0})
	}
	if im.IsActive(input.ActionMoveDown) {
		dir = dir.Sub(mgl32.Vec3{0, 1, 0})
	}
	if dir.Len() == 0 {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	step := c.speed * float32(dt)
	if im.IsActive(input.ActionFast) {
		step *= FastMultiplier
	}
	c.transform.Translate(dir.Normalize().Mul(step))
}

// Front returns the unit view direction.
func (c *Camera) Front() mgl32.Vec3 {
	c.mu.RLock()
	y := mgl32.DegToRad(float32(c.yaw))
	pt := mgl32.DegToRad(float32(c.pitch))
	c.mu.RUnlock()

	fx := float32(math.Cos(float64(y)) * math.Cos(float64(pt)))
	fy := float32(math.Sin(float64(pt)))
	fz := float32(math.Sin(float64(y)) * math.Cos(float64(pt)))
	return mgl32.Vec3{fx, fy, fz}.Normalize()
}

func (c *Camera) ViewMatrix() mgl32.Mat4 {
	eye := c.Position()
	return mgl32.LookAtV(eye, eye.Add(c.Front()), mgl32.Vec3{0, 1, 0})
}
