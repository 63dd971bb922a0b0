package renderer

import (
	_ "embed"
	"fmt"
	"image"
	"log/slog"
	"mini-voxel/internal/graphics"
	"mini-voxel/internal/profiling"
	"mini-voxel/internal/world"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
)

var (
	//go:embed shaders/chunk.vert
	chunkVertShader string
	//go:embed shaders/chunk.frag
	chunkFragShader string
)

type drawable struct {
	vao, vbo uint32
	count    int32
	model    mgl32.Mat4
	min, max mgl32.Vec3
}

// Renderer draws registered chunk meshes with one atlas texture and a
// directional light. It implements world.RenderSubmitter; every method must
// run on the thread that owns the GL context.
type Renderer struct {
	shader  *graphics.Shader
	texture uint32
	light   DirectionalLight
	sky     mgl32.Vec3
	logger  *slog.Logger

	next   world.RenderHandle
	meshes map[world.RenderHandle]*drawable
	stats  FrameStats
}

var _ world.RenderSubmitter = (*Renderer)(nil)

// NewRenderer configures GL state, compiles the chunk program and uploads the atlas.
func NewRenderer(atlas *image.RGBA, light DirectionalLight, sky mgl32.Vec3, logger *slog.Logger) (*Renderer, error) {
	if logger == nil {
		logger = slog.Default()
	}
	gl.Enable(gl.DEPTH_TEST)
	gl.Enable(gl.CULL_FACE)
	gl.CullFace(gl.BACK)
	gl.FrontFace(gl.CCW)

	shader, err := graphics.NewShaderFromSource(chunkVertShader, chunkFragShader)
	if err != nil {
		return nil, fmt.Errorf("chunk shader: %w", err)
	}
	if atlas == nil {
		atlas = graphics.FallbackAtlas(graphics.AtlasSize)
	}

	r := &Renderer{
		shader:  shader,
		texture: graphics.LoadTexture(atlas),
		light:   light,
		sky:     sky,
		logger:  logger,
		meshes:  make(map[world.RenderHandle]*drawable),
	}
	r.shader.Use()
	r.shader.SetInt("atlas", 0)
	return r, nil
}

// Register uploads mesh relative to the translation of transform.
func (r *Renderer) Register(mesh *world.Mesh, transform mgl32.Mat4) (world.RenderHandle, error) {
	defer profiling.Track("renderer.Register")()

	r.next++
	h := r.next
	d := &drawable{model: transform}
	r.meshes[h] = d

	min, max, ok := mesh.Bounds()
	if !ok {
		// Nothing to draw but the handle stays valid until Unregister
		return h, nil
	}
	d.min, d.max = min, max

	data := mesh.Interleaved(transform.Col(3).Vec3())
	d.count = int32(mesh.VertexCount())

	gl.GenVertexArrays(1, &d.vao)
	gl.BindVertexArray(d.vao)
	gl.GenBuffers(1, &d.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, d.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(data)*4, gl.Ptr(data), gl.STATIC_DRAW)

	stride := int32(world.VertexStride * 4)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointer(0, 3, gl.FLOAT, false, stride, gl.PtrOffset(0))
	gl.EnableVertexAttribArray(1)
	gl.VertexAttribPointer(1, 2, gl.FLOAT, false, stride, gl.PtrOffset(3*4))
	gl.EnableVertexAttribArray(2)
	gl.VertexAttribPointer(2, 3, gl.FLOAT, false, stride, gl.PtrOffset(5*4))

	gl.BindVertexArray(0)
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	return h, nil
}

// Unregister frees the GPU buffers behind h.
func (r *Renderer) Unregister(h world.RenderHandle) error {
	d, ok := r.meshes[h]
	if !ok {
		return fmt.Errorf("%w: %d", world.ErrUnknownHandle, h)
	}
	delete(r.meshes, h)
	r.release(d)
	return nil
}

func (r *Renderer) release(d *drawable) {
	if d.vbo != 0 {
		gl.DeleteBuffers(1, &d.vbo)
	}
	if d.vao != 0 {
		gl.DeleteVertexArrays(1, &d.vao)
	}
}

// Render clears the frame and draws every registered mesh inside the view frustum.
func (r *Renderer) Render(view, proj mgl32.Mat4) FrameStats {
	defer profiling.Track("renderer.Render")()

	gl.ClearColor(r.sky.X(), r.sky.Y(), r.sky.Z(), 1.0)
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)

	r.shader.Use()
	r.shader.SetMatrix4("proj", proj)
	r.shader.SetMatrix4("view", view)
	r.shader.SetVector3("lightDir", r.light.Direction)
	r.shader.SetVector3("lightColor", r.light.Color)
	r.shader.SetFloat("ambient", r.light.Ambient)

	gl.ActiveTexture(gl.TEXTURE0)
	gl.BindTexture(gl.TEXTURE_2D, r.texture)

	frustum := graphics.NewFrustum(proj.Mul4(view))
	stats := FrameStats{Registered: len(r.meshes)}
	for _, d := range r.meshes {
		if d.count == 0 {
			continue
		}
		if !frustum.IntersectsAABB(d.min, d.max) {
			stats.Culled++
			continue
		}
		r.shader.SetMatrix4("model", d.model)
		gl.BindVertexArray(d.vao)
		gl.DrawArrays(gl.TRIANGLES, 0, d.count)
		stats.Drawn++
		stats.Triangles += int(d.count / 3)
	}
	gl.BindVertexArray(0)

	r.stats = stats
	return stats
}

// Stats returns the counters of the last frame.
func (r *Renderer) Stats() FrameStats {
	return r.stats
}

// Dispose releases every GL object the renderer owns.
func (r *Renderer) Dispose() {
	for h, d := range r.meshes {
		r.release(d)
		delete(r.meshes, h)
	}
	if r.texture != 0 {
		gl.DeleteTextures(1, &r.texture)
		r.texture = 0
	}
	r.shader.Delete()
	r.logger.Debug("renderer disposed")
}
