// Command worldbake streams the chunks around a point without a window and
// writes their meshes as a Wavefront OBJ file.
package main

import (
	"flag"
	"log/slog"
	"mini-voxel/internal/config"
	"os"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/xlab/closer"
)

func main() {
	var (
		configPath = flag.String("config", "", "path to a YAML config file")
		out        = flag.String("out", "world.obj", "output file; a .zst suffix compresses it")
		x          = flag.Float64("x", 0, "world X of the bake centre")
		z          = flag.Float64("z", 0, "world Z of the bake centre")
		radius     = flag.Int("radius", 4, "view radius in chunks")
	)
	flag.Parse()

	var cfg *config.Config
	var err error
	if *configPath == "" {
		d := config.Default()
		cfg, err = &d, d.Validate()
	} else {
		cfg, err = config.Load(*configPath)
	}
	if err != nil {
		closer.Fatalln(err)
	}
	cfg.Streaming.ViewRadius = *radius
	if err := cfg.Validate(); err != nil {
		closer.Fatalln(err)
	}

	level, _ := cfg.Level()
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	b, err := newBaker(cfg, logger)
	if err != nil {
		closer.Fatalln(err)
	}
	closer.Bind(func() {
		if err := b.Close(); err != nil {
			logger.Warn("close", "err", err)
		}
	})

	center := mgl32.Vec3{float32(*x), 0, float32(*z)}
	if err := b.Bake(center, *out); err != nil {
		closer.Fatalln(err)
	}
	closer.Close()
}
