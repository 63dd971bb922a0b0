package main

import (
	"fmt"
	"image"
	"log/slog"
	"mini-voxel/internal/config"
	"mini-voxel/internal/graphics"
	"mini-voxel/internal/graphics/renderer"
	"mini-voxel/internal/input"
	"mini-voxel/internal/player"
	"mini-voxel/internal/profiling"
	"mini-voxel/internal/world"
	"sync"
	"time"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/go-gl/mathgl/mgl32"
)

const slowFrame = 16 * time.Millisecond

type app struct {
	cfg    *config.Config
	logger *slog.Logger

	window     *glfw.Window
	renderer   *renderer.Renderer
	projection *graphics.Projection
	camera     *player.Camera
	interactor *player.Interactor
	input      *input.InputManager
	world      *world.World

	fps     *graphics.FPSCounter
	limiter *graphics.FPSLimiter

	captured bool

	mu      sync.Mutex
	stopped bool
	done    chan struct{}
}

func newApp(cfg *config.Config, logger *slog.Logger) (*app, error) {
	window, err := setupWindow(cfg.Window)
	if err != nil {
		return nil, fmt.Errorf("window: %w", err)
	}

	a := &app{
		cfg:      cfg,
		logger:   logger,
		window:   window,
		input:    input.NewInputManager(),
		fps:      graphics.NewFPSCounter(time.Second),
		limiter:  graphics.NewFPSLimiter(cfg.Window.FPSLimit),
		captured: true,
		done:     make(chan struct{}),
	}
	if err := a.init(); err != nil {
		if a.renderer != nil {
			a.renderer.Dispose()
		}
		window.Destroy()
		return nil, err
	}
	return a, nil
}

func (a *app) init() error {
	r := a.cfg.Render
	var atlas *image.RGBA
	if r.Atlas != "" {
		img, err := graphics.LoadAtlas(r.Atlas, graphics.AtlasSize)
		if err != nil {
			a.logger.Warn("using fallback atlas", "path", r.Atlas, "err", err)
		} else {
			atlas = img
		}
	}

	light := renderer.DirectionalLight{
		Direction: mgl32.Vec3(r.LightDirection).Normalize(),
		Color:     mgl32.Vec3(r.LightColor),
		Ambient:   r.Ambient,
	}
	rend, err := renderer.NewRenderer(atlas, light, mgl32.Vec3(r.SkyColor), a.logger)
	if err != nil {
		return err
	}
	a.renderer = rend

	gen, err := a.cfg.Generator()
	if err != nil {
		return err
	}
	mesher, err := a.cfg.Mesher()
	if err != nil {
		return err
	}

	// Never spawn inside the terrain
	start := mgl32.Vec3(a.cfg.Camera.Start)
	if ground := float32(gen.SurfaceHeight(int(start.X()), int(start.Z()))) + 2; start.Y() < ground {
		start[1] = ground
	}
	cam, err := player.NewCamera(start, a.cfg.Camera.MoveSpeed, a.cfg.Camera.Sensitivity)
	if err != nil {
		return err
	}
	a.camera = cam
	a.interactor = player.NewInteractor(cam, world.NewTerrainQuery(gen, 0), player.DefaultReach)

	w, err := world.New(cam, gen, mesher, rend, a.cfg.StreamerOptions(a.logger))
	if err != nil {
		return err
	}
	a.world = w

	width, height := a.window.GetFramebufferSize()
	a.projection = graphics.NewProjection(width, height, a.cfg.Camera.FOV)
	gl.Viewport(0, 0, int32(width), int32(height))

	a.input.Attach(a.window)
	a.window.SetCursorPosCallback(func(_ *glfw.Window, x, y float64) {
		if a.captured {
			a.camera.HandleMouseMovement(x, y)
		}
	})
	a.window.SetFramebufferSizeCallback(func(_ *glfw.Window, w, h int) {
		gl.Viewport(0, 0, int32(w), int32(h))
		a.projection.SetViewport(w, h)
	})

	a.logger.Info("world ready",
		"start", start,
		"view_radius", w.Streamer().ViewRadius(),
		"async", a.cfg.Streaming.Async,
	)
	return nil
}

func (a *app) run() {
	last := time.Now()
	for !a.window.ShouldClose() {
		now := time.Now()
		a.tick(now.Sub(last).Seconds())
		last = now
	}
}

func (a *app) tick(dt float64) {
	profiling.ResetFrame()
	start := time.Now()

	glfw.PollEvents()
	a.handleInput(dt)

	a.world.Update()
	stats := a.renderer.Render(a.camera.ViewMatrix(), a.projection.Matrix())
	a.window.SwapBuffers()

	if d := time.Since(start); d > slowFrame {
		a.logger.Debug("slow frame", "dur", d, "top", profiling.TopN(5))
	}
	a.input.PostUpdate()

	if a.fps.Frame(time.Now()) {
		a.window.SetTitle(fmt.Sprintf("%s | %.0f FPS | %d/%d chunks",
			a.cfg.Window.Title, a.fps.FPS(), stats.Drawn, stats.Registered))
	}
	a.limiter.Wait()
}

func (a *app) handleInput(dt float64) {
	if a.input.JustPressed(input.ActionToggleCursor) {
		a.captured = !a.captured
		if a.captured {
			a.window.SetInputMode(glfw.CursorMode, glfw.CursorDisabled)
			a.camera.ResetMouse()
		} else {
			a.window.SetInputMode(glfw.CursorMode, glfw.CursorNormal)
		}
	}
	if !a.captured {
		return
	}
	if a.input.JustPressed(input.ActionInteract) {
		target, err := a.interactor.Break()
		if err != nil {
			a.logger.Debug("interaction ignored", "hit", target.Hit, "block", target.HitPosition, "err", err)
		}
	}
	a.camera.Update(dt, a.input)
}

// requestStop runs on the closer goroutine.
func (a *app) requestStop() {
	a.mu.Lock()
	if !a.stopped {
		a.window.SetShouldClose(true)
	}
	a.mu.Unlock()
	<-a.done
}

func (a *app) shutdown() {
	a.mu.Lock()
	a.stopped = true
	a.mu.Unlock()
	defer close(a.done)

	if err := a.world.Close(); err != nil {
		a.logger.Warn("world close", "err", err)
	}
	a.renderer.Dispose()
	a.window.Destroy()
	glfw.Terminate()
	a.logger.Info("shutdown complete")
}
