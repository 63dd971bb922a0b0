package world

import (
	"errors"
	"log/slog"
	"math"
	"mini-voxel/internal/profiling"
	"runtime"
	"sync"
	"time"

	"github.com/alitto/pond/v2"
	"github.com/go-gl/mathgl/mgl32"
	"golang.org/x/time/rate"
)

// DefaultViewRadius is the load radius in chunk coordinates.
const DefaultViewRadius = 16

// ErrNilViewer is returned when a streamer is constructed without a viewer.
var ErrNilViewer = errors.New("chunk streamer requires a viewer")

// Viewer is the read-only position signal the streamer follows.
type Viewer interface {
	Position() mgl32.Vec3
}

// Mesher turns a voxel grid into a mesh placed at the given world origin.
type Mesher interface {
	Build(grid *Grid, origin BlockPos) *Mesh
}

// ChunkListener observes residency changes. Listeners are invoked in
// subscription order on the goroutine that drives the streamer.
type ChunkListener interface {
	ChunksLoaded(chunks []*LoadedChunk)
	ChunksUnloaded(chunks []*LoadedChunk)
}

// StreamerOptions tunes a ChunkStreamer.
type StreamerOptions struct {
	ViewRadius int
	// Chunks farther than ViewRadius*EvictionFactor are unloaded after each
	// scan. Zero keeps every chunk resident.
	EvictionFactor float64

	// Async moves generation and meshing onto a worker pool; results become
	// resident on Drain.
	Async     bool
	Workers   int
	QueueSize int
	// SpawnRate caps chunks made resident per second by Drain. Zero is unlimited.
	SpawnRate  float64
	SpawnBurst int

	Logger *slog.Logger
}

// ChunkStreamer decides which chunks are resident based on the viewer's position.
type ChunkStreamer struct {
	viewer Viewer
	gen    TerrainGenerator
	mesher Mesher
	store  *ChunkStore
	opts   StreamerOptions
	logger *slog.Logger

	mu        sync.Mutex
	listeners []ChunkListener
	last      ChunkCoord
	hasLast   bool

	// Async state
	pool      pond.Pool
	results   chan *LoadedChunk
	done      chan struct{}
	pending   map[ChunkCoord]struct{}
	pendingMu sync.Mutex
	limiter   *rate.Limiter
	carry     *LoadedChunk
	closeOnce sync.Once
}

// NewChunkStreamer creates a streamer following viewer.
func NewChunkStreamer(viewer Viewer, gen TerrainGenerator, mesher Mesher, opts StreamerOptions) (*ChunkStreamer, error) {
	if viewer == nil {
		return nil, ErrNilViewer
	}
	if gen == nil || mesher == nil {
		return nil, errors.New("chunk streamer requires a generator and a mesher")
	}
	if opts.ViewRadius <= 0 {
		opts.ViewRadius = DefaultViewRadius
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	cs := &ChunkStreamer{
		viewer: viewer,
		gen:    gen,
		mesher: mesher,
		store:  NewChunkStore(),
		opts:   opts,
		logger: logger,
	}

	if opts.Async {
		workers := opts.Workers
		if workers <= 0 {
			workers = max(runtime.NumCPU(), 1)
		}
		queue := opts.QueueSize
		if queue <= 0 {
			queue = 4096
		}
		limit := rate.Inf
		if opts.SpawnRate > 0 {
			limit = rate.Limit(opts.SpawnRate)
		}
		burst := max(opts.SpawnBurst, 1)

		cs.pool = pond.NewPool(workers)
		cs.results = make(chan *LoadedChunk, queue)
		cs.done = make(chan struct{})
		cs.pending = make(map[ChunkCoord]struct{})
		cs.limiter = rate.NewLimiter(limit, burst)
	}
	return cs, nil
}

// Store exposes the resident registry.
func (cs *ChunkStreamer) Store() *ChunkStore {
	return cs.store
}

// ViewRadius returns the effective load radius.
func (cs *ChunkStreamer) ViewRadius() int {
	return cs.opts.ViewRadius
}

// Subscribe adds a listener; listeners are notified in subscription order.
func (cs *ChunkStreamer) Subscribe(l ChunkListener) {
	cs.mu.Lock()
	cs.listeners = append(cs.listeners, l)
	cs.mu.Unlock()
}

// Update runs one streaming tick from the viewer's current position.
func (cs *ChunkStreamer) Update() {
	cs.OnViewerMoved(cs.viewer.Position())
	if cs.opts.Async {
		cs.Drain()
	}
}

// OnViewerMoved loads the chunks around pos if the viewer entered a new chunk.
// It returns the number of chunks loaded, or queued in async mode.
func (cs *ChunkStreamer) OnViewerMoved(pos mgl32.Vec3) int {
	center := ChunkCoordFromPosition(pos)

	cs.mu.Lock()
	if cs.hasLast && cs.last == center {
		cs.mu.Unlock()
		return 0
	}
	cs.last = center
	cs.hasLast = true
	cs.mu.Unlock()

	defer profiling.Track("world.OnViewerMoved")()

	var n int
	if cs.opts.Async {
		n = cs.enqueueAround(center)
	} else {
		n = cs.loadAround(center)
	}
	cs.evict(center)
	return n
}

// candidates returns the coordinates in the inclusive square around center
// that lie within the view radius and are not resident.
func (cs *ChunkStreamer) candidates(center ChunkCoord) []ChunkCoord {
	r := cs.opts.ViewRadius
	var out []ChunkCoord
	for x := center.X - r; x <= center.X+r; x++ {
		for z := center.Z - r; z <= center.Z+r; z++ {
			c := ChunkCoord{X: x, Z: z}
			if cs.store.Has(c) || !center.WithinRadius(c, r) {
				continue
			}
			out = append(out, c)
		}
	}
	return out
}

func (cs *ChunkStreamer) build(coord ChunkCoord) *LoadedChunk {
	grid := cs.gen.Generate(coord)
	origin := coord.Origin()
	return &LoadedChunk{
		Coord:         coord,
		WorldPosition: origin,
		Mesh:          cs.mesher.Build(grid, origin),
	}
}

func (cs *ChunkStreamer) loadAround(center ChunkCoord) int {
	defer profiling.Track("world.loadAround")()
	var batch []*LoadedChunk
	for _, c := range cs.candidates(center) {
		lc := cs.build(c)
		if cs.store.Add(lc) {
			batch = append(batch, lc)
		}
	}
	cs.notifyLoaded(batch)
	return len(batch)
}

func (cs *ChunkStreamer) enqueueAround(center ChunkCoord) int {
	queued := 0
	for _, c := range cs.candidates(center) {
		cs.pendingMu.Lock()
		if _, ok := cs.pending[c]; ok {
			cs.pendingMu.Unlock()
			continue
		}
		cs.pending[c] = struct{}{}
		cs.pendingMu.Unlock()

		coord := c
		cs.pool.Submit(func() {
			select {
			case <-cs.done:
				return
			default:
			}
			lc := cs.build(coord)
			select {
			case cs.results <- lc:
			case <-cs.done:
			}
		})
		queued++
	}
	return queued
}

// Drain makes finished async chunks resident, subject to the spawn rate,
// and notifies listeners with the batch. It returns the number made resident.
// With eviction enabled, chunks the viewer has since left behind are dropped.
func (cs *ChunkStreamer) Drain() int {
	if !cs.opts.Async {
		return 0
	}
	defer profiling.Track("world.Drain")()

	center, keepRadius, filter := cs.keepWindow()

	var batch []*LoadedChunk
	now := time.Now()
	for {
		lc := cs.carry
		cs.carry = nil
		if lc == nil {
			select {
			case lc = <-cs.results:
			default:
			}
		}
		if lc == nil {
			break
		}
		if filter && !center.WithinRadius(lc.Coord, keepRadius) {
			cs.pendingMu.Lock()
			delete(cs.pending, lc.Coord)
			cs.pendingMu.Unlock()
			continue
		}
		if !cs.limiter.AllowN(now, 1) {
			cs.carry = lc
			break
		}
		cs.pendingMu.Lock()
		delete(cs.pending, lc.Coord)
		cs.pendingMu.Unlock()
		if cs.store.Add(lc) {
			batch = append(batch, lc)
		}
	}
	cs.notifyLoaded(batch)
	return len(batch)
}

// Pending returns the number of queued chunks not yet made resident.
func (cs *ChunkStreamer) Pending() int {
	if !cs.opts.Async {
		return 0
	}
	cs.pendingMu.Lock()
	defer cs.pendingMu.Unlock()
	return len(cs.pending)
}

// EvictFarChunks unloads chunks outside radius of center and notifies listeners.
func (cs *ChunkStreamer) EvictFarChunks(center ChunkCoord, radius int) []*LoadedChunk {
	removed := cs.store.EvictFarChunks(center, radius)
	if len(removed) > 0 {
		cs.logger.Debug("chunks evicted", "count", len(removed), "center_x", center.X, "center_z", center.Z)
		for _, l := range cs.snapshotListeners() {
			l.ChunksUnloaded(removed)
		}
	}
	return removed
}

func (cs *ChunkStreamer) evictionRadius() int {
	return int(math.Ceil(float64(cs.opts.ViewRadius) * cs.opts.EvictionFactor))
}

func (cs *ChunkStreamer) evict(center ChunkCoord) {
	if cs.opts.EvictionFactor <= 0 {
		return
	}
	cs.EvictFarChunks(center, cs.evictionRadius())
}

// keepWindow reports the center and radius drained chunks must fall within.
// ok is false when eviction is disabled or the viewer has not been seen yet.
func (cs *ChunkStreamer) keepWindow() (center ChunkCoord, radius int, ok bool) {
	if cs.opts.EvictionFactor <= 0 {
		return ChunkCoord{}, 0, false
	}
	cs.mu.Lock()
	center, ok = cs.last, cs.hasLast
	cs.mu.Unlock()
	return center, cs.evictionRadius(), ok
}

func (cs *ChunkStreamer) notifyLoaded(batch []*LoadedChunk) {
	if len(batch) == 0 {
		return
	}
	cs.logger.Debug("chunks loaded", "count", len(batch), "resident", cs.store.Len())
	for _, l := range cs.snapshotListeners() {
		l.ChunksLoaded(batch)
	}
}

func (cs *ChunkStreamer) snapshotListeners() []ChunkListener {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	return append([]ChunkListener(nil), cs.listeners...)
}

// Close stops the background workers. Finished but undrained chunks are dropped.
func (cs *ChunkStreamer) Close() {
	if !cs.opts.Async {
		return
	}
	cs.closeOnce.Do(func() {
		close(cs.done)
		cs.pool.StopAndWait()
	})
}
