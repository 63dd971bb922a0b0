package world

import (
	"fmt"
	"math"
	"mini-voxel/internal/profiling"
)

// HeightSampler supplies the 2D field that shapes the terrain surface.
type HeightSampler interface {
	Sample2D(x, z float64) float64
}

// CaveSampler supplies the 3D field that carves caves.
type CaveSampler interface {
	Sample3D(x, y, z float64) float64
}

// TerrainGenerator fills a chunk's voxel grid.
type TerrainGenerator interface {
	Generate(coord ChunkCoord) *Grid
}

// GeneratorConfig holds the fixed shaping constants of Generator.
type GeneratorConfig struct {
	// Input coordinate scale and output scale of the height field.
	HeightAmplitude float64
	HeightDepth     float64
	// Input coordinate scale and output scale of the cave field.
	CaveAmplitude float64
	CaveDepth     float64

	Baseline      float64
	CaveThreshold float64
}

// DefaultBaseline is the surface height where the height field is zero.
const DefaultBaseline = 32

// DefaultCaveThreshold is the scaled cave weight at which a cell is carved.
const DefaultCaveThreshold = 1.5

// Generator builds terrain with a height-map pass followed by a cave-carving pass.
type Generator struct {
	height HeightSampler
	cave   CaveSampler
	cfg    GeneratorConfig
}

// NewGenerator builds a generator from two noise settings tuples.
func NewGenerator(terrain, caves NoiseSettings) (*Generator, error) {
	hf, err := NewNoiseField(terrain)
	if err != nil {
		return nil, fmt.Errorf("terrain noise: %w", err)
	}
	cf, err := NewNoiseField(caves)
	if err != nil {
		return nil, fmt.Errorf("cave noise: %w", err)
	}
	return NewGeneratorWithSamplers(hf, cf, GeneratorConfig{
		HeightAmplitude: terrain.Amplitude,
		HeightDepth:     terrain.Depth,
		CaveAmplitude:   caves.Amplitude,
		CaveDepth:       caves.Depth,
		Baseline:        DefaultBaseline,
		CaveThreshold:   DefaultCaveThreshold,
	}), nil
}

// NewGeneratorWithSamplers wires arbitrary samplers; a nil cave sampler disables carving.
func NewGeneratorWithSamplers(height HeightSampler, cave CaveSampler, cfg GeneratorConfig) *Generator {
	return &Generator{height: height, cave: cave, cfg: cfg}
}

// Config returns the shaping constants.
func (g *Generator) Config() GeneratorConfig {
	return g.cfg
}

// SurfaceHeight returns the raw terrain height at world column (wx, wz).
func (g *Generator) SurfaceHeight(wx, wz int) float64 {
	a := g.cfg.HeightAmplitude
	return g.height.Sample2D(float64(wx)*a, float64(wz)*a)*g.cfg.HeightDepth + g.cfg.Baseline
}

// Generate fills the grid for the chunk at coord.
func (g *Generator) Generate(coord ChunkCoord) *Grid {
	defer profiling.Track("world.Generate")()
	grid := NewGrid()
	origin := coord.Origin()

	for x := range ChunkWidth {
		for z := range ChunkWidth {
			wx := origin.X + x
			wz := origin.Z + z

			// Cells strictly below the surface are filled; the topmost one is grass.
			h := g.SurfaceHeight(wx, wz)
			top := int(math.Ceil(h)) - 1
			if top >= ChunkHeight {
				top = ChunkHeight - 1
			}
			for y := 0; y <= top; y++ {
				if y == top {
					grid.Set(x, y, z, BlockTypeGrass)
				} else {
					grid.Set(x, y, z, BlockTypeStone)
				}
			}

			if g.cave == nil {
				continue
			}
			ca := g.cfg.CaveAmplitude
			for y := range ChunkHeight {
				w := g.cave.Sample3D(float64(wx)*ca, float64(y)*ca, float64(wz)*ca) * g.cfg.CaveDepth
				if w >= g.cfg.CaveThreshold {
					grid.Set(x, y, z, BlockTypeAir)
				}
			}
		}
	}
	return grid
}
