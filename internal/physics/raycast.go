package physics

import (
	"math"
	"mini-voxel/internal/profiling"

	"github.com/go-gl/mathgl/mgl32"
)

const (
	MinReachDistance = 0.1
	MaxReachDistance = 5.0

	stepSize = float32(0.02)
)

// BlockQuery reports whether the unit cell with minimum corner (x,y,z) is solid.
type BlockQuery interface {
	IsSolid(x, y, z int) bool
}

// RaycastResult stores the result of a raycast operation
type RaycastResult struct {
	HitPosition      [3]int
	AdjacentPosition [3]int
	// HasAdjacent is false when the ray started inside the hit block.
	HasAdjacent bool
	Distance    float32
	Hit         bool
}

// Raycast marches from start along direction in fixed steps and returns the
// first solid cell between minDist and maxDist.
func Raycast(start mgl32.Vec3, direction mgl32.Vec3, minDist, maxDist float32, q BlockQuery) RaycastResult {
	defer profiling.Track("physics.Raycast")()
	if direction.Len() == 0 {
		return RaycastResult{}
	}
	direction = direction.Normalize()
	steps := int(maxDist / stepSize)

	var result RaycastResult
	var lastEmpty [3]int
	hasEmpty := false

	for i := 0; i <= steps; i++ {
		dist := float32(i) * stepSize
		if dist < minDist {
			continue
		}

		pos := start.Add(direction.Mul(dist))
		cell := [3]int{
			int(math.Floor(float64(pos.X()))),
			int(math.Floor(float64(pos.Y()))),
			int(math.Floor(float64(pos.Z()))),
		}
		if hasEmpty && cell == lastEmpty {
			continue
		}

		if q.IsSolid(cell[0], cell[1], cell[2]) {
			result.HitPosition = cell
			result.AdjacentPosition = lastEmpty
			result.HasAdjacent = hasEmpty
			result.Distance = dist
			result.Hit = true
			return result
		}

		lastEmpty = cell
		hasEmpty = true
	}

	return result
}
