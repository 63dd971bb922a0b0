package registry

import (
	"errors"
	"math"
	"mini-voxel/internal/world"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func approx(a, b float32) bool {
	return math.Abs(float64(a-b)) < 1e-6
}

func TestTile(t *testing.T) {
	r := Tile(3, 0)
	if !approx(r.U0, 0.1875) || !approx(r.U1, 0.25) || !approx(r.V0, 0.9375) || !approx(r.V1, 1) {
		t.Errorf("Tile(3,0) = %+v", r)
	}
	r = Tile(0, 15)
	if !approx(r.V0, 0) || !approx(r.V1, 0.0625) {
		t.Errorf("Tile(0,15) = %+v", r)
	}
}

func TestDefaultCatalog(t *testing.T) {
	c := Default()
	if got := c.Types(); len(got) != 2 || got[0] != world.BlockTypeGrass || got[1] != world.BlockTypeStone {
		t.Fatalf("Types() = %v", got)
	}
	if bt, ok := c.Lookup("stone"); !ok || bt != world.BlockTypeStone {
		t.Errorf("Lookup(stone) = %v, %v", bt, ok)
	}
	if _, err := c.Get(world.BlockTypeAir); !errors.Is(err, ErrUnknownBlock) {
		t.Errorf("Get(air) err = %v, want ErrUnknownBlock", err)
	}
}

func TestGrassFacesUseDistinctTiles(t *testing.T) {
	c := Default()
	top, _ := c.FaceUVs(world.BlockTypeGrass, world.FaceTop)
	side, _ := c.FaceUVs(world.BlockTypeGrass, world.FaceEast)
	bottom, _ := c.FaceUVs(world.BlockTypeGrass, world.FaceBottom)

	// Corner (1,1) of each face tile
	if !top[2].ApproxEqual(mgl32.Vec2{0.0625, 1}) {
		t.Errorf("top tile corner = %v", top[2])
	}
	if !side[2].ApproxEqual(mgl32.Vec2{0.125, 1}) {
		t.Errorf("side tile corner = %v", side[2])
	}
	if !bottom[0].ApproxEqual(mgl32.Vec2{0.125, 0.9375}) {
		t.Errorf("bottom tile corner = %v", bottom[0])
	}
}

func TestFaceUVsStayInsideTile(t *testing.T) {
	c := Default()
	for _, bt := range c.Types() {
		def, _ := c.Get(bt)
		for _, f := range world.AllFaces {
			r := def.FaceTile(f)
			uvs, err := c.FaceUVs(bt, f)
			if err != nil {
				t.Fatal(err)
			}
			for _, uv := range uvs {
				if uv.X() < r.U0-1e-6 || uv.X() > r.U1+1e-6 || uv.Y() < r.V0-1e-6 || uv.Y() > r.V1+1e-6 {
					t.Errorf("%v %v uv %v outside %+v", bt, f, uv, r)
				}
			}
		}
	}
}

func TestRegisterDuplicate(t *testing.T) {
	c := Default()
	err := c.Register(&BlockDefinition{ID: world.BlockTypeStone, Name: "stone2"})
	if !errors.Is(err, ErrDuplicateBlock) {
		t.Errorf("err = %v, want ErrDuplicateBlock", err)
	}
}

func TestFaceUVsUnknownBlock(t *testing.T) {
	if _, err := NewCatalog().FaceUVs(world.BlockTypeGrass, world.FaceTop); !errors.Is(err, ErrUnknownBlock) {
		t.Errorf("err = %v, want ErrUnknownBlock", err)
	}
}
