package world

import (
	"errors"
	"fmt"
	"math"

	"github.com/ojrac/opensimplex-go"
)

// NoiseKind selects the coherent noise basis.
type NoiseKind int

const (
	NoiseOpenSimplex2 NoiseKind = iota
	NoisePerlin
	NoiseValue
)

// FractalKind selects how octaves of the basis are combined.
type FractalKind int

const (
	FractalNone FractalKind = iota
	FractalFBm
	FractalRidged
	FractalDomainWarpProgressive
)

// RotationKind reorients 3D sampling to hide lattice artifacts on a plane.
type RotationKind int

const (
	RotationNone RotationKind = iota
	RotationImproveXYPlanes
	RotationImproveXZPlanes
)

// ErrInvalidNoiseSettings is returned by NewNoiseField for unusable settings.
var ErrInvalidNoiseSettings = errors.New("invalid noise settings")

// NoiseSettings configures one noise field. Amplitude and Depth are consumed
// by the terrain generator (input scale and output scale); the rest shape the field.
type NoiseSettings struct {
	Amplitude float64
	Frequency float64
	Depth     float64
	Noise     NoiseKind
	Fractal   FractalKind
	Rotation  RotationKind

	Seed          int64
	Octaves       int
	Lacunarity    float64
	Gain          float64
	WarpAmplitude float64
}

// Validate checks the settings without applying defaults.
func (s NoiseSettings) Validate() error {
	switch {
	case s.Frequency <= 0:
		return fmt.Errorf("%w: frequency must be positive, got %v", ErrInvalidNoiseSettings, s.Frequency)
	case s.Amplitude < 0:
		return fmt.Errorf("%w: amplitude must not be negative, got %v", ErrInvalidNoiseSettings, s.Amplitude)
	case s.Depth < 0:
		return fmt.Errorf("%w: depth must not be negative, got %v", ErrInvalidNoiseSettings, s.Depth)
	case s.Octaves < 0:
		return fmt.Errorf("%w: octaves must not be negative, got %d", ErrInvalidNoiseSettings, s.Octaves)
	case s.Noise < NoiseOpenSimplex2 || s.Noise > NoiseValue:
		return fmt.Errorf("%w: unknown noise kind %d", ErrInvalidNoiseSettings, s.Noise)
	case s.Fractal < FractalNone || s.Fractal > FractalDomainWarpProgressive:
		return fmt.Errorf("%w: unknown fractal kind %d", ErrInvalidNoiseSettings, s.Fractal)
	case s.Rotation < RotationNone || s.Rotation > RotationImproveXZPlanes:
		return fmt.Errorf("%w: unknown rotation kind %d", ErrInvalidNoiseSettings, s.Rotation)
	}
	return nil
}

func (s NoiseSettings) withDefaults() NoiseSettings {
	if s.Octaves == 0 {
		s.Octaves = 3
	}
	if s.Lacunarity == 0 {
		s.Lacunarity = 2
	}
	if s.Gain == 0 {
		s.Gain = 0.5
	}
	if s.WarpAmplitude == 0 {
		s.WarpAmplitude = 1
	}
	return s
}

type basis interface {
	eval2(x, z float64) float64
	eval3(x, y, z float64) float64
}

// NoiseField is a deterministic 2D/3D sampler. It holds no mutable state
// after construction and is safe for concurrent use.
type NoiseField struct {
	settings NoiseSettings
	base     basis
	bounding float64
}

// NewNoiseField binds settings to a sampler.
func NewNoiseField(s NoiseSettings) (*NoiseField, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	s = s.withDefaults()

	var b basis
	switch s.Noise {
	case NoiseOpenSimplex2:
		b = simplexBasis{n: opensimplex.New(s.Seed)}
	case NoisePerlin:
		b = newPerlinBasis(s.Seed)
	case NoiseValue:
		b = valueBasis{seed: s.Seed}
	}

	// Normalizes octave sums back into [-1,1]
	amp := 1.0
	sum := 0.0
	for range s.Octaves {
		sum += amp
		amp *= s.Gain
	}

	return &NoiseField{settings: s, base: b, bounding: 1 / sum}, nil
}

// Settings returns the settings the field was built with (defaults applied).
func (n *NoiseField) Settings() NoiseSettings {
	return n.settings
}

// Sample2D returns noise in [-1,1] at (x, z).
func (n *NoiseField) Sample2D(x, z float64) float64 {
	s := n.settings
	x *= s.Frequency
	z *= s.Frequency

	var v float64
	switch s.Fractal {
	case FractalFBm:
		freq, amp := 1.0, 1.0
		for i := range s.Octaves {
			o := octaveOffset(i)
			v += n.base.eval2(x*freq+o, z*freq+o) * amp
			freq *= s.Lacunarity
			amp *= s.Gain
		}
		v *= n.bounding
	case FractalRidged:
		freq, amp := 1.0, 1.0
		for i := range s.Octaves {
			o := octaveOffset(i)
			r := math.Abs(n.base.eval2(x*freq+o, z*freq+o))
			v += (1 - 2*r) * amp
			freq *= s.Lacunarity
			amp *= s.Gain
		}
		v *= n.bounding
	case FractalDomainWarpProgressive:
		freq, amp := 1.0, s.WarpAmplitude
		for i := range s.Octaves {
			o := octaveOffset(i)
			wx := n.base.eval2(x*freq+o, z*freq+o+warpShift)
			wz := n.base.eval2(x*freq+o+warpShift, z*freq+o)
			x += wx * amp
			z += wz * amp
			freq *= s.Lacunarity
			amp *= s.Gain
		}
		v = n.base.eval2(x, z)
	default:
		v = n.base.eval2(x, z)
	}
	return clamp1(v)
}

// Sample3D returns noise in [-1,1] at (x, y, z).
func (n *NoiseField) Sample3D(x, y, z float64) float64 {
	s := n.settings
	x *= s.Frequency
	y *= s.Frequency
	z *= s.Frequency
	x, y, z = rotate3(s.Rotation, x, y, z)

	var v float64
	switch s.Fractal {
	case FractalFBm:
		freq, amp := 1.0, 1.0
		for i := range s.Octaves {
			o := octaveOffset(i)
			v += n.base.eval3(x*freq+o, y*freq+o, z*freq+o) * amp
			freq *= s.Lacunarity
			amp *= s.Gain
		}
		v *= n.bounding
	case FractalRidged:
		freq, amp := 1.0, 1.0
		for i := range s.Octaves {
			o := octaveOffset(i)
			r := math.Abs(n.base.eval3(x*freq+o, y*freq+o, z*freq+o))
			v += (1 - 2*r) * amp
			freq *= s.Lacunarity
			amp *= s.Gain
		}
		v *= n.bounding
	case FractalDomainWarpProgressive:
		freq, amp := 1.0, s.WarpAmplitude
		for i := range s.Octaves {
			o := octaveOffset(i)
			wx := n.base.eval3(x*freq+o, y*freq+o, z*freq+o+warpShift)
			wy := n.base.eval3(x*freq+o+warpShift, y*freq+o, z*freq+o)
			wz := n.base.eval3(x*freq+o, y*freq+o+warpShift, z*freq+o)
			x += wx * amp
			y += wy * amp
			z += wz * amp
			freq *= s.Lacunarity
			amp *= s.Gain
		}
		v = n.base.eval3(x, y, z)
	default:
		v = n.base.eval3(x, y, z)
	}
	return clamp1(v)
}

// warpShift decorrelates the per-axis warp samples.
const warpShift = 97.31

func octaveOffset(i int) float64 {
	return float64(i) * 19.19
}

func rotate3(r RotationKind, x, y, z float64) (float64, float64, float64) {
	const (
		r3 = 0.577350269189626  // 1/sqrt(3)
		k  = -0.211324865405187 // (1/sqrt(3) - 1) / 2
	)
	switch r {
	case RotationImproveXYPlanes:
		xy := x + y
		s2 := xy * k
		z *= r3
		x += s2 - z
		y = y + s2 - z
		z += xy * r3
	case RotationImproveXZPlanes:
		xz := x + z
		s2 := xz * k
		y *= r3
		x += s2 - y
		z = z + s2 - y
		y += xz * r3
	}
	return x, y, z
}

func clamp1(v float64) float64 {
	if v < -1 {
		return -1
	}
	if v > 1 {
		return 1
	}
	return v
}

// simplexBasis adapts opensimplex-go, which is already in [-1,1].
type simplexBasis struct {
	n opensimplex.Noise
}

func (b simplexBasis) eval2(x, z float64) float64    { return b.n.Eval2(x, z) }
func (b simplexBasis) eval3(x, y, z float64) float64 { return b.n.Eval3(x, y, z) }

// perlinBasis is improved Perlin noise over a seeded permutation table.
type perlinBasis struct {
	perm [512]uint8
}

func newPerlinBasis(seed int64) *perlinBasis {
	var p [256]uint8
	for i := range p {
		p[i] = uint8(i)
	}

	// Fisher-Yates shuffle driven by an LCG
	s := uint64(seed)
	for i := 255; i > 0; i-- {
		s = s*6364136223846793005 + 1442695040888963407
		j := int((s >> 33) % uint64(i+1))
		p[i], p[j] = p[j], p[i]
	}

	b := &perlinBasis{}
	for i := range b.perm {
		b.perm[i] = p[i&255]
	}
	return b
}

func (b *perlinBasis) eval2(x, z float64) float64 {
	return b.eval3(x, z, 0)
}

func (b *perlinBasis) eval3(x, y, z float64) float64 {
	xf, yf, zf := math.Floor(x), math.Floor(y), math.Floor(z)
	xi := int(int64(xf) & 255)
	yi := int(int64(yf) & 255)
	zi := int(int64(zf) & 255)
	x -= xf
	y -= yf
	z -= zf

	u, v, w := fade(x), fade(y), fade(z)
	p := &b.perm

	a := int(p[xi]) + yi
	aa := int(p[a]) + zi
	ab := int(p[a+1]) + zi
	bb0 := int(p[xi+1]) + yi
	ba := int(p[bb0]) + zi
	bb := int(p[bb0+1]) + zi

	return lerp(
		lerp(
			lerp(grad(p[aa], x, y, z), grad(p[ba], x-1, y, z), u),
			lerp(grad(p[ab], x, y-1, z), grad(p[bb], x-1, y-1, z), u),
			v),
		lerp(
			lerp(grad(p[aa+1], x, y, z-1), grad(p[ba+1], x-1, y, z-1), u),
			lerp(grad(p[ab+1], x, y-1, z-1), grad(p[bb+1], x-1, y-1, z-1), u),
			v),
		w)
}

func grad(hash uint8, x, y, z float64) float64 {
	h := hash & 15
	u := y
	if h < 8 {
		u = x
	}
	v := z
	if h < 4 {
		v = y
	} else if h == 12 || h == 14 {
		v = x
	}
	if h&1 != 0 {
		u = -u
	}
	if h&2 != 0 {
		v = -v
	}
	return u + v
}

// valueBasis is hashed lattice value noise remapped to [-1,1].
type valueBasis struct {
	seed int64
}

func (b valueBasis) eval2(x, z float64) float64 {
	return valueNoise2D(x, z, b.seed)*2 - 1
}

func (b valueBasis) eval3(x, y, z float64) float64 {
	return valueNoise3D(x, y, z, b.seed)*2 - 1
}

// fade is the quintic smoothstep 6t^5 - 15t^4 + 10t^3
func fade(t float64) float64 {
	return t * t * t * (t*(t*6-15) + 10)
}

func lerp(a, b, t float64) float64 {
	return a + t*(b-a)
}

func hash2(x int64, z int64, seed int64) uint64 {
	// SplitMix64 style integer hash, stable across runs for same inputs
	v := uint64(x)*0x9E3779B97F4A7C15 + uint64(z)*0xC2B2AE3D27D4EB4F + uint64(seed)
	v += 0x9E3779B97F4A7C15
	v = (v ^ (v >> 30)) * 0xBF58476D1CE4E5B9
	v = (v ^ (v >> 27)) * 0x94D049BB133111EB
	v = v ^ (v >> 31)
	return v
}

func hash3(x, y, z int64, seed int64) uint64 {
	v := uint64(x)*0x9E3779B97F4A7C15 + uint64(y)*0x517CC1B727220A95 + uint64(z)*0x6C62272E07BB0142 + uint64(seed)
	v += 0x9E3779B97F4A7C15
	v = (v ^ (v >> 30)) * 0xBF58476D1CE4E5B9
	v = (v ^ (v >> 27)) * 0x94D049BB133111EB
	v = v ^ (v >> 31)
	return v
}

func latticeValue(x int64, z int64, seed int64) float64 {
	return float64(hash2(x, z, seed)&0xFFFFFFFF) / float64(0xFFFFFFFF)
}

func latticeValue3D(x, y, z int64, seed int64) float64 {
	return float64(hash3(x, y, z, seed)&0xFFFFFFFF) / float64(0xFFFFFFFF)
}

// valueNoise2D is in [0,1].
func valueNoise2D(x float64, z float64, seed int64) float64 {
	x0 := math.Floor(x)
	z0 := math.Floor(z)
	fx := fade(x - x0)
	fz := fade(z - z0)
	ix, iz := int64(x0), int64(z0)

	v00 := latticeValue(ix, iz, seed)
	v10 := latticeValue(ix+1, iz, seed)
	v01 := latticeValue(ix, iz+1, seed)
	v11 := latticeValue(ix+1, iz+1, seed)

	return lerp(lerp(v00, v10, fx), lerp(v01, v11, fx), fz)
}

// valueNoise3D is in [0,1].
func valueNoise3D(x, y, z float64, seed int64) float64 {
	x0 := math.Floor(x)
	y0 := math.Floor(y)
	z0 := math.Floor(z)
	fx := fade(x - x0)
	fy := fade(y - y0)
	fz := fade(z - z0)
	ix, iy, iz := int64(x0), int64(y0), int64(z0)

	// Trilinear over the 8 cube corners: X first, then Y, then Z
	i00 := lerp(latticeValue3D(ix, iy, iz, seed), latticeValue3D(ix+1, iy, iz, seed), fx)
	i10 := lerp(latticeValue3D(ix, iy+1, iz, seed), latticeValue3D(ix+1, iy+1, iz, seed), fx)
	i01 := lerp(latticeValue3D(ix, iy, iz+1, seed), latticeValue3D(ix+1, iy, iz+1, seed), fx)
	i11 := lerp(latticeValue3D(ix, iy+1, iz+1, seed), latticeValue3D(ix+1, iy+1, iz+1, seed), fx)

	return lerp(lerp(i00, i10, fy), lerp(i01, i11, fy), fz)
}
