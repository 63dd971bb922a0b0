package world

import (
	"errors"
	"math"
	"math/rand"
	"testing"
)

// TestHash3Deterministic verifies hash3 produces identical results for same inputs
func TestHash3Deterministic(t *testing.T) {
	first := hash3(10, 20, 30, 42)
	for i := 1; i < 100; i++ {
		if h := hash3(10, 20, 30, 42); h != first {
			t.Errorf("hash3 not deterministic: first=%d, call %d=%d", first, i, h)
		}
	}
}

// TestHash3DifferentInputs verifies hash3 produces different values for different inputs
func TestHash3DifferentInputs(t *testing.T) {
	seed := int64(42)
	cases := []struct {
		name string
		a, b [3]int64
	}{
		{"x", [3]int64{1, 0, 0}, [3]int64{2, 0, 0}},
		{"y", [3]int64{0, 1, 0}, [3]int64{0, 2, 0}},
		{"z", [3]int64{0, 0, 1}, [3]int64{0, 0, 2}},
		{"axis swap", [3]int64{1, 2, 3}, [3]int64{3, 2, 1}},
	}
	for _, tc := range cases {
		h1 := hash3(tc.a[0], tc.a[1], tc.a[2], seed)
		h2 := hash3(tc.b[0], tc.b[1], tc.b[2], seed)
		if h1 == h2 {
			t.Errorf("hash3 should differ for %s: %v and %v both hash to %d", tc.name, tc.a, tc.b, h1)
		}
	}
	if hash3(1, 1, 1, 100) == hash3(1, 1, 1, 200) {
		t.Errorf("hash3 should differ for different seeds")
	}
}

// TestHash2DifferentInputs verifies hash2 separates neighbouring lattice points
func TestHash2DifferentInputs(t *testing.T) {
	seed := int64(42)
	cases := []struct {
		name string
		a, b [2]int64
	}{
		{"x", [2]int64{1, 0}, [2]int64{2, 0}},
		{"z", [2]int64{0, 1}, [2]int64{0, 2}},
		{"axis swap", [2]int64{1, 2}, [2]int64{2, 1}},
		{"x plus two z", [2]int64{0, 1}, [2]int64{2, 0}},
		{"diagonal step", [2]int64{5, 7}, [2]int64{7, 6}},
		{"negative", [2]int64{-2, 1}, [2]int64{0, 0}},
	}
	for _, tc := range cases {
		h1 := hash2(tc.a[0], tc.a[1], seed)
		h2 := hash2(tc.b[0], tc.b[1], seed)
		if h1 == h2 {
			t.Errorf("hash2 should differ for %s: %v and %v both hash to %d", tc.name, tc.a, tc.b, h1)
		}
	}

	// A small grid must not fold onto itself.
	seen := make(map[uint64][2]int64)
	for x := int64(-8); x < 8; x++ {
		for z := int64(-8); z < 8; z++ {
			h := hash2(x, z, seed)
			if prev, ok := seen[h]; ok {
				t.Fatalf("hash2(%d,%d) collides with %v", x, z, prev)
			}
			seen[h] = [2]int64{x, z}
		}
	}
}

// TestValueNoise3DRange verifies valueNoise3D outputs are in [0,1]
func TestValueNoise3DRange(t *testing.T) {
	rng := rand.New(rand.NewSource(12345))
	for i := 0; i < 1000; i++ {
		x := rng.Float64()*200 - 100
		y := rng.Float64()*200 - 100
		z := rng.Float64()*200 - 100
		if v := valueNoise3D(x, y, z, 42); v < 0.0 || v > 1.0 {
			t.Errorf("valueNoise3D(%f, %f, %f) = %f, expected in [0,1]", x, y, z, v)
		}
	}
}

// TestValueNoise3DContinuity verifies smooth interpolation (no random jumps)
func TestValueNoise3DContinuity(t *testing.T) {
	v1 := valueNoise3D(1.0, 1.0, 1.0, 42)
	v2 := valueNoise3D(1.01, 1.0, 1.0, 42)
	if diff := math.Abs(v1 - v2); diff >= 0.1 {
		t.Errorf("valueNoise3D not continuous: %f vs %f, diff=%f", v1, v2, diff)
	}
}

func allKinds() []NoiseSettings {
	var out []NoiseSettings
	for _, nk := range []NoiseKind{NoiseOpenSimplex2, NoisePerlin, NoiseValue} {
		for _, fk := range []FractalKind{FractalNone, FractalFBm, FractalRidged, FractalDomainWarpProgressive} {
			for _, rk := range []RotationKind{RotationNone, RotationImproveXYPlanes, RotationImproveXZPlanes} {
				out = append(out, NoiseSettings{
					Amplitude: 0.14, Frequency: 0.5, Depth: 10,
					Noise: nk, Fractal: fk, Rotation: rk, Seed: 1337,
				})
			}
		}
	}
	return out
}

// TestNoiseFieldRange verifies every kind combination stays in [-1,1]
func TestNoiseFieldRange(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for _, s := range allKinds() {
		f, err := NewNoiseField(s)
		if err != nil {
			t.Fatalf("NewNoiseField(%+v): %v", s, err)
		}
		for i := 0; i < 200; i++ {
			x := rng.Float64()*400 - 200
			y := rng.Float64() * 128
			z := rng.Float64()*400 - 200
			if v := f.Sample2D(x, z); v < -1 || v > 1 {
				t.Fatalf("%+v Sample2D(%f,%f) = %f out of range", s, x, z, v)
			}
			if v := f.Sample3D(x, y, z); v < -1 || v > 1 {
				t.Fatalf("%+v Sample3D(%f,%f,%f) = %f out of range", s, x, y, z, v)
			}
		}
	}
}

// TestNoiseFieldDeterministic verifies two fields with equal settings agree exactly
func TestNoiseFieldDeterministic(t *testing.T) {
	for _, s := range allKinds() {
		a, _ := NewNoiseField(s)
		b, _ := NewNoiseField(s)
		for i := 0; i < 50; i++ {
			x, y, z := float64(i)*1.37, float64(i)*0.91, float64(-i)*2.11
			if a.Sample2D(x, z) != b.Sample2D(x, z) || a.Sample3D(x, y, z) != b.Sample3D(x, y, z) {
				t.Fatalf("%+v not deterministic at sample %d", s, i)
			}
		}
	}
}

func TestNoiseFieldSeedMatters(t *testing.T) {
	s := NoiseSettings{Frequency: 1, Noise: NoisePerlin}
	a, _ := NewNoiseField(s)
	s.Seed = 99
	b, _ := NewNoiseField(s)

	differs := false
	for i := 0; i < 50 && !differs; i++ {
		x, z := float64(i)*0.73+0.1, float64(i)*1.19+0.2
		differs = a.Sample2D(x, z) != b.Sample2D(x, z)
	}
	if !differs {
		t.Errorf("different seeds produced identical Perlin fields")
	}
}

func TestNoiseSettingsValidate(t *testing.T) {
	bad := []NoiseSettings{
		{Frequency: 0},
		{Frequency: -1},
		{Frequency: 1, Amplitude: -0.1},
		{Frequency: 1, Depth: -2},
		{Frequency: 1, Octaves: -1},
		{Frequency: 1, Noise: NoiseKind(9)},
		{Frequency: 1, Fractal: FractalKind(-1)},
		{Frequency: 1, Rotation: RotationKind(3)},
	}
	for _, s := range bad {
		if _, err := NewNoiseField(s); !errors.Is(err, ErrInvalidNoiseSettings) {
			t.Errorf("NewNoiseField(%+v) err = %v, want ErrInvalidNoiseSettings", s, err)
		}
	}
	if err := (NoiseSettings{Amplitude: 0.14, Frequency: 0.5, Depth: 10}).Validate(); err != nil {
		t.Errorf("valid settings rejected: %v", err)
	}
}

func TestNoiseSettingsDefaults(t *testing.T) {
	f, err := NewNoiseField(NoiseSettings{Frequency: 1})
	if err != nil {
		t.Fatal(err)
	}
	s := f.Settings()
	if s.Octaves != 3 || s.Lacunarity != 2 || s.Gain != 0.5 || s.WarpAmplitude != 1 {
		t.Errorf("defaults not applied: %+v", s)
	}
}

func BenchmarkNoiseSample3D(b *testing.B) {
	f, _ := NewNoiseField(NoiseSettings{Frequency: 1, Fractal: FractalFBm})
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = f.Sample3D(float64(i%64)*0.14, float64(i%128)*0.14, float64(i%97)*0.14)
	}
}
