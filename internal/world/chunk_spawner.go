package world

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
)

// ErrNilSubmitter is returned when a spawner is constructed without a render submitter.
var ErrNilSubmitter = errors.New("chunk spawner requires a render submitter")

// SpawnedChunk is a resident chunk whose mesh is registered for drawing.
type SpawnedChunk struct {
	Coord         ChunkCoord
	WorldPosition BlockPos
	Mesh          *Mesh

	reg *Registration
}

// Handle returns the render handle of the chunk's mesh.
func (s *SpawnedChunk) Handle() RenderHandle {
	return s.reg.Handle()
}

// ChunkSpawner registers loaded chunk meshes with a RenderSubmitter and
// unregisters them when chunks are unloaded.
type ChunkSpawner struct {
	submitter RenderSubmitter
	logger    *slog.Logger

	mu     sync.Mutex
	chunks map[ChunkCoord]*SpawnedChunk
}

// NewChunkSpawner creates a spawner; a nil logger uses slog.Default().
func NewChunkSpawner(submitter RenderSubmitter, logger *slog.Logger) (*ChunkSpawner, error) {
	if submitter == nil {
		return nil, ErrNilSubmitter
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &ChunkSpawner{
		submitter: submitter,
		logger:    logger,
		chunks:    make(map[ChunkCoord]*SpawnedChunk),
	}, nil
}

// ChunksLoaded registers every chunk of the batch not already spawned.
func (s *ChunkSpawner) ChunksLoaded(batch []*LoadedChunk) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, lc := range batch {
		if _, ok := s.chunks[lc.Coord]; ok {
			continue
		}
		reg, err := Submit(s.submitter, lc.Mesh, ChunkTransform(lc.Coord))
		if err != nil {
			s.logger.Error("register chunk mesh", "x", lc.Coord.X, "z", lc.Coord.Z, "err", err)
			continue
		}
		s.chunks[lc.Coord] = &SpawnedChunk{
			Coord:         lc.Coord,
			WorldPosition: lc.WorldPosition,
			Mesh:          lc.Mesh,
			reg:           reg,
		}
	}
}

// ChunksUnloaded releases the registrations of the batch.
func (s *ChunkSpawner) ChunksUnloaded(batch []*LoadedChunk) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, lc := range batch {
		sc, ok := s.chunks[lc.Coord]
		if !ok {
			continue
		}
		delete(s.chunks, lc.Coord)
		if err := sc.reg.Release(); err != nil {
			s.logger.Error("unregister chunk mesh", "x", lc.Coord.X, "z", lc.Coord.Z, "err", err)
		}
	}
}

// GetChunk returns the spawned chunk at coord or ErrChunkNotFound.
func (s *ChunkSpawner) GetChunk(coord ChunkCoord) (*SpawnedChunk, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sc, ok := s.chunks[coord]
	if !ok {
		return nil, fmt.Errorf("%w: (%d,%d)", ErrChunkNotFound, coord.X, coord.Z)
	}
	return sc, nil
}

// Len returns the number of spawned chunks.
func (s *ChunkSpawner) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.chunks)
}

// Close releases every registration.
func (s *ChunkSpawner) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	var errs []error
	for coord, sc := range s.chunks {
		if err := sc.reg.Release(); err != nil {
			errs = append(errs, err)
		}
		delete(s.chunks, coord)
	}
	return errors.Join(errs...)
}
