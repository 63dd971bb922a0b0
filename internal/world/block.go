package world

import (
	"github.com/go-gl/mathgl/mgl32"
)

type BlockType uint8

const (
	BlockTypeAir BlockType = iota
	BlockTypeGrass
	BlockTypeStone
)

func (b BlockType) String() string {
	switch b {
	case BlockTypeAir:
		return "air"
	case BlockTypeGrass:
		return "grass"
	case BlockTypeStone:
		return "stone"
	default:
		return "unknown"
	}
}

// BlockFace identifies a face of a block
type BlockFace int

const (
	FaceNorth  BlockFace = iota // +Z
	FaceSouth                   // -Z
	FaceEast                    // +X
	FaceWest                    // -X
	FaceTop                     // +Y
	FaceBottom                  // -Y
)

// NumFaces is the number of faces of a cube.
const NumFaces = 6

// VerticesPerFace is the vertex count of one face (two triangles).
const VerticesPerFace = 6

// AllFaces lists faces in emission order.
var AllFaces = [NumFaces]BlockFace{FaceNorth, FaceSouth, FaceEast, FaceWest, FaceTop, FaceBottom}

func (f BlockFace) String() string {
	switch f {
	case FaceNorth:
		return "north"
	case FaceSouth:
		return "south"
	case FaceEast:
		return "east"
	case FaceWest:
		return "west"
	case FaceTop:
		return "top"
	case FaceBottom:
		return "bottom"
	default:
		return "invalid"
	}
}

// Offset returns the direction to the neighbor sharing this face.
func (f BlockFace) Offset() BlockPos {
	switch f {
	case FaceNorth:
		return BlockPos{Z: 1}
	case FaceSouth:
		return BlockPos{Z: -1}
	case FaceEast:
		return BlockPos{X: 1}
	case FaceWest:
		return BlockPos{X: -1}
	case FaceTop:
		return BlockPos{Y: 1}
	case FaceBottom:
		return BlockPos{Y: -1}
	}
	return BlockPos{}
}

// Normal returns the outward unit normal of the face.
func (f BlockFace) Normal() mgl32.Vec3 {
	return f.Offset().Vec3()
}

var (
	// CubeFaceVertices holds the unit cube (corner at origin) as two
	// counter-clockwise triangles per face, viewed from outside.
	CubeFaceVertices = [NumFaces][VerticesPerFace]mgl32.Vec3{
		FaceNorth: {
			{0, 0, 1}, {1, 0, 1}, {1, 1, 1},
			{0, 0, 1}, {1, 1, 1}, {0, 1, 1},
		},
		FaceSouth: {
			{1, 0, 0}, {0, 0, 0}, {0, 1, 0},
			{1, 0, 0}, {0, 1, 0}, {1, 1, 0},
		},
		FaceEast: {
			{1, 0, 1}, {1, 0, 0}, {1, 1, 0},
			{1, 0, 1}, {1, 1, 0}, {1, 1, 1},
		},
		FaceWest: {
			{0, 0, 0}, {0, 0, 1}, {0, 1, 1},
			{0, 0, 0}, {0, 1, 1}, {0, 1, 0},
		},
		FaceTop: {
			{0, 1, 1}, {1, 1, 1}, {1, 1, 0},
			{0, 1, 1}, {1, 1, 0}, {0, 1, 0},
		},
		FaceBottom: {
			{0, 0, 0}, {1, 0, 0}, {1, 0, 1},
			{0, 0, 0}, {1, 0, 1}, {0, 0, 1},
		},
	}

	// FaceTileCorners maps each face vertex to its corner of an atlas tile:
	// (0,0) bottom-left, (1,1) top-right.
	FaceTileCorners = [VerticesPerFace]mgl32.Vec2{
		{0, 0}, {1, 0}, {1, 1},
		{0, 0}, {1, 1}, {0, 1},
	}
)
