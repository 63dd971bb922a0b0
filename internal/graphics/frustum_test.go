package graphics

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestFrustumIntersectsAABB(t *testing.T) {
	proj := NewProjection(800, 600, 60).Matrix()
	view := mgl32.LookAtV(mgl32.Vec3{0, 0, 0}, mgl32.Vec3{0, 0, -1}, mgl32.Vec3{0, 1, 0})
	f := NewFrustum(proj.Mul4(view))

	cases := []struct {
		name     string
		min, max mgl32.Vec3
		want     bool
	}{
		{"ahead", mgl32.Vec3{-1, -1, -11}, mgl32.Vec3{1, 1, -9}, true},
		{"behind", mgl32.Vec3{-1, -1, 9}, mgl32.Vec3{1, 1, 11}, false},
		{"far left", mgl32.Vec3{-101, -1, -11}, mgl32.Vec3{-99, 1, -9}, false},
		{"beyond far plane", mgl32.Vec3{-1, -1, -2000}, mgl32.Vec3{1, 1, -1990}, false},
		{"around eye", mgl32.Vec3{-1, -1, -1}, mgl32.Vec3{1, 1, 1}, true},
		{"chunk straddling edge", mgl32.Vec3{-20, 0, -16}, mgl32.Vec3{-4, 128, 0}, true},
	}
	for _, tc := range cases {
		if got := f.IntersectsAABB(tc.min, tc.max); got != tc.want {
			t.Errorf("%s: IntersectsAABB = %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestProjectionViewport(t *testing.T) {
	p := NewProjection(1280, 720, 60)
	if p.AspectRatio != float32(1280)/720 {
		t.Fatalf("AspectRatio = %v", p.AspectRatio)
	}
	p.SetViewport(0, 0)
	if p.AspectRatio != float32(1280)/720 {
		t.Errorf("zero viewport changed the aspect ratio to %v", p.AspectRatio)
	}
	if NewProjection(0, 0, 60).AspectRatio != 1 {
		t.Errorf("zero initial viewport should fall back to 1")
	}
}
