package world

// World wires a streamer to a spawner so that loaded chunks are drawn.
type World struct {
	streamer *ChunkStreamer
	spawner  *ChunkSpawner
}

// New builds a world following viewer and submitting meshes to submitter.
func New(viewer Viewer, gen TerrainGenerator, mesher Mesher, submitter RenderSubmitter, opts StreamerOptions) (*World, error) {
	streamer, err := NewChunkStreamer(viewer, gen, mesher, opts)
	if err != nil {
		return nil, err
	}
	spawner, err := NewChunkSpawner(submitter, opts.Logger)
	if err != nil {
		streamer.Close()
		return nil, err
	}
	streamer.Subscribe(spawner)
	return &World{streamer: streamer, spawner: spawner}, nil
}

// Streamer returns the chunk streamer.
func (w *World) Streamer() *ChunkStreamer { return w.streamer }

// Spawner returns the chunk spawner.
func (w *World) Spawner() *ChunkSpawner { return w.spawner }

// Update runs one streaming tick.
func (w *World) Update() {
	w.streamer.Update()
}

// GetChunk returns the spawned chunk at coord or ErrChunkNotFound.
func (w *World) GetChunk(coord ChunkCoord) (*SpawnedChunk, error) {
	return w.spawner.GetChunk(coord)
}

// Close stops streaming and releases every registration.
func (w *World) Close() error {
	w.streamer.Close()
	return w.spawner.Close()
}
