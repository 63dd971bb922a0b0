package player

import (
	"errors"
	"math"
	"mini-voxel/internal/input"
	"testing"

	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/go-gl/mathgl/mgl32"
)

func TestNewCameraRejectsNegatives(t *testing.T) {
	if _, err := NewCamera(mgl32.Vec3{}, -1, 0.1); !errors.Is(err, ErrNegativeSpeed) {
		t.Errorf("err = %v, want ErrNegativeSpeed", err)
	}
	if _, err := NewCamera(mgl32.Vec3{}, 10, -0.1); !errors.Is(err, ErrNegativeSensitivity) {
		t.Errorf("err = %v, want ErrNegativeSensitivity", err)
	}
}

func TestCameraLooksDownNegativeZ(t *testing.T) {
	c, _ := NewCamera(mgl32.Vec3{8, 48, 8}, DefaultMoveSpeed, DefaultSensitivity)
	if f := c.Front(); !f.ApproxEqualThreshold(mgl32.Vec3{0, 0, -1}, 1e-5) {
		t.Errorf("Front() = %v, want -Z", f)
	}
	if p := c.Position(); p != (mgl32.Vec3{8, 48, 8}) {
		t.Errorf("Position() = %v", p)
	}
}

func TestCameraPitchClamp(t *testing.T) {
	c, _ := NewCamera(mgl32.Vec3{}, 1, 1)
	c.HandleMouseMovement(0, 0)
	c.HandleMouseMovement(0, -1000)
	if _, pitch := c.Angles(); pitch != MaxPitch {
		t.Errorf("pitch = %v, want %v", pitch, MaxPitch)
	}
	c.HandleMouseMovement(0, 5000)
	if _, pitch := c.Angles(); pitch != -MaxPitch {
		t.Errorf("pitch = %v, want %v", pitch, -MaxPitch)
	}
}

func TestCameraFirstMouseDoesNotTurn(t *testing.T) {
	c, _ := NewCamera(mgl32.Vec3{}, 1, 1)
	c.HandleMouseMovement(500, 300)
	if yaw, pitch := c.Angles(); yaw != -90 || pitch != 0 {
		t.Errorf("first cursor sample turned the camera to %v,%v", yaw, pitch)
	}
	c.HandleMouseMovement(510, 300)
	if yaw, _ := c.Angles(); yaw != -80 {
		t.Errorf("yaw = %v, want -80", yaw)
	}
}

func TestCameraUpdateMoves(t *testing.T) {
	c, _ := NewCamera(mgl32.Vec3{}, 10, 0.1)
	im := input.NewInputManager()

	im.HandleKeyEvent(glfw.KeyW, glfw.Press)
	c.Update(0.5, im)
	if p := c.Position(); !p.ApproxEqualThreshold(mgl32.Vec3{0, 0, -5}, 1e-4) {
		t.Errorf("forward move = %v, want (0,0,-5)", p)
	}

	im.HandleKeyEvent(glfw.KeyW, glfw.Release)
	im.HandleKeyEvent(glfw.KeyD, glfw.Press)
	im.HandleKeyEvent(glfw.KeyLeftControl, glfw.Press)
	c.Update(0.5, im)
	if p := c.Position(); !p.ApproxEqualThreshold(mgl32.Vec3{20, 0, -5}, 1e-4) {
		t.Errorf("fast strafe = %v, want (20,0,-5)", p)
	}
}

func TestCameraZeroSpeedStaysPut(t *testing.T) {
	c, _ := NewCamera(mgl32.Vec3{1, 2, 3}, 0, 0.1)
	im := input.NewInputManager()
	im.HandleKeyEvent(glfw.KeySpace, glfw.Press)
	c.Update(1, im)
	if p := c.Position(); p != (mgl32.Vec3{1, 2, 3}) {
		t.Errorf("zero-speed camera moved to %v", p)
	}
}

type floorAt int

func (f floorAt) IsSolid(_, y, _ int) bool { return y < int(f) }

func TestInteractorBreakNotImplemented(t *testing.T) {
	c, _ := NewCamera(mgl32.Vec3{0.5, 10.5, 0.5}, 1, 1)
	i := NewInteractor(c, floorAt(10), 0)
	if _, err := i.Break(); !errors.Is(err, ErrNotImplemented) {
		t.Errorf("err = %v, want ErrNotImplemented", err)
	}

	// Look straight down at the floor
	c.HandleMouseMovement(0, 0)
	c.HandleMouseMovement(0, 1000)
	target, _ := i.Break()
	if !target.Hit || target.HitPosition != [3]int{0, 9, 0} {
		t.Errorf("target = %+v, want the floor block under the camera", target)
	}

	from, to := i.Ray()
	if math.Abs(float64(to.Sub(from).Len())-DefaultReach) > 1e-3 {
		t.Errorf("ray length = %v, want %v", to.Sub(from).Len(), DefaultReach)
	}
}
