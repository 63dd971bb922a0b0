package world

import (
	"errors"
	"fmt"
	"mini-voxel/internal/profiling"
	"sort"
	"sync"
)

// ErrChunkNotFound is returned when looking up a chunk that is not resident.
var ErrChunkNotFound = errors.New("chunk not found")

// LoadedChunk is a resident chunk: its position and finished mesh.
// The voxel grid it was built from is not kept.
type LoadedChunk struct {
	Coord         ChunkCoord
	WorldPosition BlockPos
	Mesh          *Mesh
}

// ChunkStore is the registry of resident chunks.
type ChunkStore struct {
	chunks   map[ChunkCoord]*LoadedChunk
	mu       sync.RWMutex
	modCount uint64 // Increases on any chunk add/remove
}

// NewChunkStore creates a new chunk store.
func NewChunkStore() *ChunkStore {
	return &ChunkStore{
		chunks: make(map[ChunkCoord]*LoadedChunk),
	}
}

// Add records a chunk as resident. It returns false, leaving the existing
// entry untouched, if the coordinate is already resident or the chunk has no mesh.
func (cs *ChunkStore) Add(lc *LoadedChunk) bool {
	if lc == nil || lc.Mesh == nil {
		return false
	}
	cs.mu.Lock()
	defer cs.mu.Unlock()

	if _, ok := cs.chunks[lc.Coord]; ok {
		return false
	}
	cs.chunks[lc.Coord] = lc
	cs.modCount++
	return true
}

// Has checks if a chunk is resident.
func (cs *ChunkStore) Has(coord ChunkCoord) bool {
	cs.mu.RLock()
	_, exists := cs.chunks[coord]
	cs.mu.RUnlock()
	return exists
}

// Get returns the resident chunk at coord or ErrChunkNotFound.
func (cs *ChunkStore) Get(coord ChunkCoord) (*LoadedChunk, error) {
	cs.mu.RLock()
	lc, ok := cs.chunks[coord]
	cs.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: (%d,%d)", ErrChunkNotFound, coord.X, coord.Z)
	}
	return lc, nil
}

// Remove drops a chunk and returns it, or nil if it was not resident.
func (cs *ChunkStore) Remove(coord ChunkCoord) *LoadedChunk {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	lc, ok := cs.chunks[coord]
	if !ok {
		return nil
	}
	delete(cs.chunks, coord)
	cs.modCount++
	return lc
}

// Len returns the number of resident chunks.
func (cs *ChunkStore) Len() int {
	cs.mu.RLock()
	defer cs.mu.RUnlock()
	return len(cs.chunks)
}

// Coords returns all resident coordinates sorted by X then Z.
func (cs *ChunkStore) Coords() []ChunkCoord {
	cs.mu.RLock()
	out := make([]ChunkCoord, 0, len(cs.chunks))
	for c := range cs.chunks {
		out = append(out, c)
	}
	cs.mu.RUnlock()
	sortCoords(out)
	return out
}

// AppendChunksInRadius appends resident chunks within radius of center to dst.
func (cs *ChunkStore) AppendChunksInRadius(center ChunkCoord, radius int, dst []*LoadedChunk) []*LoadedChunk {
	defer profiling.Track("world.AppendChunksInRadius")()
	cs.mu.RLock()
	defer cs.mu.RUnlock()

	for dx := -radius; dx <= radius; dx++ {
		for dz := -radius; dz <= radius; dz++ {
			if dx*dx+dz*dz > radius*radius {
				continue
			}
			if lc, ok := cs.chunks[ChunkCoord{X: center.X + dx, Z: center.Z + dz}]; ok {
				dst = append(dst, lc)
			}
		}
	}
	return dst
}

// GetModCount returns the current modification count of the chunk map.
func (cs *ChunkStore) GetModCount() uint64 {
	cs.mu.RLock()
	defer cs.mu.RUnlock()
	return cs.modCount
}

// EvictFarChunks removes chunks outside the given radius of center and
// returns them sorted by coordinate.
func (cs *ChunkStore) EvictFarChunks(center ChunkCoord, radius int) []*LoadedChunk {
	defer profiling.Track("world.EvictFarChunks")()
	var removed []*LoadedChunk
	cs.mu.Lock()
	for coord, lc := range cs.chunks {
		if !center.WithinRadius(coord, radius) {
			delete(cs.chunks, coord)
			cs.modCount++
			removed = append(removed, lc)
		}
	}
	cs.mu.Unlock()

	sort.Slice(removed, func(i, j int) bool {
		return lessCoord(removed[i].Coord, removed[j].Coord)
	})
	return removed
}

func lessCoord(a, b ChunkCoord) bool {
	if a.X != b.X {
		return a.X < b.X
	}
	return a.Z < b.Z
}

func sortCoords(cs []ChunkCoord) {
	sort.Slice(cs, func(i, j int) bool { return lessCoord(cs[i], cs[j]) })
}
