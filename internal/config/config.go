package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mini-voxel/internal/meshing"
	"mini-voxel/internal/world"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config is the startup configuration. It is read once and not changed afterwards.
type Config struct {
	LogLevel   string           `yaml:"log_level"`
	Terrain    NoiseConfig      `yaml:"terrain"`
	Caves      NoiseConfig      `yaml:"caves"`
	Generation GenerationConfig `yaml:"generation"`
	Streaming  StreamingConfig  `yaml:"streaming"`
	Meshing    MeshingConfig    `yaml:"meshing"`
	Camera     CameraConfig     `yaml:"camera"`
	Render     RenderConfig     `yaml:"render"`
	Window     WindowConfig     `yaml:"window"`
}

// NoiseConfig is one noise settings tuple.
type NoiseConfig struct {
	Amplitude     float64 `yaml:"amplitude"`
	Frequency     float64 `yaml:"frequency"`
	Depth         float64 `yaml:"depth"`
	Noise         string  `yaml:"noise"`
	Fractal       string  `yaml:"fractal"`
	Rotation      string  `yaml:"rotation"`
	Seed          int64   `yaml:"seed"`
	Octaves       int     `yaml:"octaves,omitempty"`
	Lacunarity    float64 `yaml:"lacunarity,omitempty"`
	Gain          float64 `yaml:"gain,omitempty"`
	WarpAmplitude float64 `yaml:"warp_amplitude,omitempty"`
}

type GenerationConfig struct {
	Baseline      float64 `yaml:"baseline"`
	CaveThreshold float64 `yaml:"cave_threshold"`
	Caves         bool    `yaml:"caves"`
}

type StreamingConfig struct {
	ViewRadius     int     `yaml:"view_radius"`
	EvictionFactor float64 `yaml:"eviction_factor"`
	Async          bool    `yaml:"async"`
	Workers        int     `yaml:"workers"`
	QueueSize      int     `yaml:"queue_size"`
	SpawnRate      float64 `yaml:"spawn_rate"`
	SpawnBurst     int     `yaml:"spawn_burst"`
}

type MeshingConfig struct {
	EdgePolicy string `yaml:"edge_policy"`
}

type CameraConfig struct {
	MoveSpeed   float32    `yaml:"move_speed"`
	Sensitivity float32    `yaml:"sensitivity"`
	FOV         float32    `yaml:"fov"`
	Start       [3]float32 `yaml:"start"`
}

type RenderConfig struct {
	Atlas          string     `yaml:"atlas"`
	LightDirection [3]float32 `yaml:"light_direction"`
	LightColor     [3]float32 `yaml:"light_color"`
	Ambient        float32    `yaml:"ambient"`
	SkyColor       [3]float32 `yaml:"sky_color"`
}

type WindowConfig struct {
	Width    int    `yaml:"width"`
	Height   int    `yaml:"height"`
	Title    string `yaml:"title"`
	VSync    bool   `yaml:"vsync"`
	FPSLimit int    `yaml:"fps_limit"`
}

// maxViewRadius caps streaming.view_radius; larger radii are rejected.
const maxViewRadius = 64

// Default returns a configuration that starts the demo without a config file.
func Default() Config {
	return Config{
		LogLevel: "info",
		Terrain: NoiseConfig{
			Amplitude: 0.14, Frequency: 0.5, Depth: 10,
			Noise: "perlin", Fractal: "none", Rotation: "none",
			Seed: 1337,
		},
		Caves: NoiseConfig{
			Amplitude: 0.14, Frequency: 1, Depth: 3,
			Noise: "perlin", Fractal: "domain_warp_progressive", Rotation: "improve_xz_planes",
			Seed: 1338,
		},
		Generation: GenerationConfig{
			Baseline:      world.DefaultBaseline,
			CaveThreshold: world.DefaultCaveThreshold,
			Caves:         true,
		},
		Streaming: StreamingConfig{
			ViewRadius: world.DefaultViewRadius,
			QueueSize:  4096,
			SpawnBurst: 16,
		},
		Meshing: MeshingConfig{EdgePolicy: "solid"},
		Camera: CameraConfig{
			MoveSpeed:   10,
			Sensitivity: 0.1,
			FOV:         60,
			Start:       [3]float32{8, 48, 8},
		},
		Render: RenderConfig{
			Atlas:          "assets/atlas.png",
			LightDirection: [3]float32{-0.4, -1, -0.3},
			LightColor:     [3]float32{1, 1, 1},
			Ambient:        0.35,
			SkyColor:       [3]float32{0.53, 0.81, 0.92},
		},
		Window: WindowConfig{Width: 1280, Height: 720, Title: "mini-voxel", VSync: true},
	}
}

// Load reads a YAML file over the defaults and validates the result.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return Parse(data)
}

// Parse decodes YAML over the defaults. Unknown keys are rejected.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate fills unset values and rejects unusable ones.
func (c *Config) Validate() error {
	if _, err := c.Level(); err != nil {
		return err
	}
	if _, err := c.Terrain.Settings(); err != nil {
		return fmt.Errorf("terrain: %w", err)
	}
	if _, err := c.Caves.Settings(); err != nil {
		return fmt.Errorf("caves: %w", err)
	}

	s := &c.Streaming
	if s.ViewRadius <= 0 {
		return fmt.Errorf("streaming.view_radius must be positive, got %d", s.ViewRadius)
	}
	if s.ViewRadius > maxViewRadius {
		return fmt.Errorf("streaming.view_radius must be at most %d, got %d", maxViewRadius, s.ViewRadius)
	}
	if s.EvictionFactor != 0 && s.EvictionFactor < 1 {
		return fmt.Errorf("streaming.eviction_factor must be 0 or at least 1, got %v", s.EvictionFactor)
	}
	if s.Workers < 0 || s.QueueSize < 0 || s.SpawnRate < 0 || s.SpawnBurst < 0 {
		return fmt.Errorf("streaming workers, queue_size, spawn_rate and spawn_burst cannot be negative")
	}

	if _, err := meshing.ParseEdgePolicy(c.Meshing.EdgePolicy); err != nil {
		return fmt.Errorf("meshing.edge_policy: %w", err)
	}

	if c.Camera.MoveSpeed < 0 {
		return fmt.Errorf("camera.move_speed cannot be negative")
	}
	if c.Camera.Sensitivity < 0 {
		return fmt.Errorf("camera.sensitivity cannot be negative")
	}
	if c.Camera.FOV <= 0 || c.Camera.FOV >= 180 {
		return fmt.Errorf("camera.fov must be in (0, 180), got %v", c.Camera.FOV)
	}

	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return fmt.Errorf("window dimensions must be positive")
	}
	if c.Window.FPSLimit < 0 {
		return fmt.Errorf("window.fps_limit cannot be negative")
	}
	if c.Window.Title == "" {
		c.Window.Title = "mini-voxel"
	}
	return nil
}

// Level returns the slog level named by log_level.
func (c *Config) Level() (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return l, fmt.Errorf("log_level: %w", err)
	}
	return l, nil
}

var (
	noiseKinds = map[string]world.NoiseKind{
		"opensimplex2": world.NoiseOpenSimplex2,
		"perlin":       world.NoisePerlin,
		"value":        world.NoiseValue,
	}
	fractalKinds = map[string]world.FractalKind{
		"none":                    world.FractalNone,
		"fbm":                     world.FractalFBm,
		"ridged":                  world.FractalRidged,
		"domain_warp_progressive": world.FractalDomainWarpProgressive,
	}
	rotationKinds = map[string]world.RotationKind{
		"none":              world.RotationNone,
		"improve_xy_planes": world.RotationImproveXYPlanes,
		"improve_xz_planes": world.RotationImproveXZPlanes,
	}
)

func lookup[K comparable](m map[string]K, field, name string) (K, error) {
	k, ok := m[strings.ToLower(name)]
	if !ok {
		return k, fmt.Errorf("%w: unknown %s %q", world.ErrInvalidNoiseSettings, field, name)
	}
	return k, nil
}

// Settings converts the tuple into validated world noise settings.
func (n NoiseConfig) Settings() (world.NoiseSettings, error) {
	nk, err := lookup(noiseKinds, "noise", n.Noise)
	if err != nil {
		return world.NoiseSettings{}, err
	}
	fk, err := lookup(fractalKinds, "fractal", n.Fractal)
	if err != nil {
		return world.NoiseSettings{}, err
	}
	rk, err := lookup(rotationKinds, "rotation", n.Rotation)
	if err != nil {
		return world.NoiseSettings{}, err
	}
	s := world.NoiseSettings{
		Amplitude:     n.Amplitude,
		Frequency:     n.Frequency,
		Depth:         n.Depth,
		Noise:         nk,
		Fractal:       fk,
		Rotation:      rk,
		Seed:          n.Seed,
		Octaves:       n.Octaves,
		Lacunarity:    n.Lacunarity,
		Gain:          n.Gain,
		WarpAmplitude: n.WarpAmplitude,
	}
	return s, s.Validate()
}

// Generator builds the terrain generator described by the config.
func (c *Config) Generator() (*world.Generator, error) {
	ts, err := c.Terrain.Settings()
	if err != nil {
		return nil, fmt.Errorf("terrain: %w", err)
	}
	height, err := world.NewNoiseField(ts)
	if err != nil {
		return nil, fmt.Errorf("terrain: %w", err)
	}

	var cave world.CaveSampler
	if c.Generation.Caves {
		cs, err := c.Caves.Settings()
		if err != nil {
			return nil, fmt.Errorf("caves: %w", err)
		}
		field, err := world.NewNoiseField(cs)
		if err != nil {
			return nil, fmt.Errorf("caves: %w", err)
		}
		cave = field
	}

	return world.NewGeneratorWithSamplers(height, cave, world.GeneratorConfig{
		HeightAmplitude: c.Terrain.Amplitude,
		HeightDepth:     c.Terrain.Depth,
		CaveAmplitude:   c.Caves.Amplitude,
		CaveDepth:       c.Caves.Depth,
		Baseline:        c.Generation.Baseline,
		CaveThreshold:   c.Generation.CaveThreshold,
	}), nil
}

// Mesher builds the chunk mesher described by the config.
func (c *Config) Mesher() (*meshing.Mesher, error) {
	edge, err := meshing.ParseEdgePolicy(c.Meshing.EdgePolicy)
	if err != nil {
		return nil, err
	}
	return meshing.NewMesher(nil, edge), nil
}

// StreamerOptions maps the streaming section onto world.StreamerOptions.
func (c *Config) StreamerOptions(logger *slog.Logger) world.StreamerOptions {
	s := c.Streaming
	return world.StreamerOptions{
		ViewRadius:     s.ViewRadius,
		EvictionFactor: s.EvictionFactor,
		Async:          s.Async,
		Workers:        s.Workers,
		QueueSize:      s.QueueSize,
		SpawnRate:      s.SpawnRate,
		SpawnBurst:     s.SpawnBurst,
		Logger:         logger,
	}
}
