package main

import (
	"context"
	"fmt"
	"log/slog"
	"mini-voxel/internal/config"
	"mini-voxel/internal/export"
	"mini-voxel/internal/world"
	"sync"
	"time"

	"github.com/go-gl/mathgl/mgl32"
)

// bakeTimeout bounds waiting for async workers.
const bakeTimeout = 5 * time.Minute

type fixedViewer struct {
	mu  sync.Mutex
	pos mgl32.Vec3
}

func (v *fixedViewer) Position() mgl32.Vec3 {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.pos
}

func (v *fixedViewer) set(p mgl32.Vec3) {
	v.mu.Lock()
	v.pos = p
	v.mu.Unlock()
}

type baker struct {
	logger *slog.Logger
	viewer *fixedViewer
	sink   *export.OBJSubmitter
	world  *world.World
	async  bool
}

func newBaker(cfg *config.Config, logger *slog.Logger) (*baker, error) {
	gen, err := cfg.Generator()
	if err != nil {
		return nil, err
	}
	mesher, err := cfg.Mesher()
	if err != nil {
		return nil, err
	}

	opts := cfg.StreamerOptions(logger)
	// Nothing is drawn, so there is no frame budget to spread spawns over
	opts.SpawnRate = 0
	opts.EvictionFactor = 0

	b := &baker{
		logger: logger,
		viewer: &fixedViewer{},
		sink:   export.NewOBJSubmitter(),
		async:  opts.Async,
	}
	b.world, err = world.New(b.viewer, gen, mesher, b.sink, opts)
	if err != nil {
		return nil, err
	}
	return b, nil
}

// Bake streams every chunk around center and writes the meshes to path.
func (b *baker) Bake(center mgl32.Vec3, path string) error {
	ctx, cancel := context.WithTimeout(context.Background(), bakeTimeout)
	defer cancel()

	start := time.Now()
	b.viewer.set(center)
	b.world.Update()
	for b.async && b.world.Streamer().Pending() > 0 {
		select {
		case <-ctx.Done():
			return fmt.Errorf("waiting for %d chunks: %w", b.world.Streamer().Pending(), ctx.Err())
		case <-time.After(time.Millisecond):
		}
		b.world.Update()
	}

	if err := b.sink.WriteFile(path); err != nil {
		return err
	}
	b.logger.Info("baked",
		"path", path,
		"chunks", b.sink.Len(),
		"compressed", export.IsCompressed(path),
		"took", time.Since(start),
	)
	return nil
}

func (b *baker) Close() error {
	return b.world.Close()
}
