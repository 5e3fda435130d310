// Package engine wires the orrery together: it collects input, advances the animation,
// updates the scene graph and camera, and presents one frame per tick.
package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/Carmen-Shannon/orrery/engine/animator"
	"github.com/Carmen-Shannon/orrery/engine/body"
	"github.com/Carmen-Shannon/orrery/engine/camera"
	"github.com/Carmen-Shannon/orrery/engine/config"
	"github.com/Carmen-Shannon/orrery/engine/input"
	"github.com/Carmen-Shannon/orrery/engine/profiler"
	"github.com/Carmen-Shannon/orrery/engine/renderer"
	"github.com/Carmen-Shannon/orrery/engine/scene"
	"github.com/Carmen-Shannon/orrery/engine/window"
)

// ErrAlreadyRunning is returned by Run when the engine loop is already active.
var ErrAlreadyRunning = errors.New("engine is already running")

// Engine is the main entry point for the orrery.
// It owns the frame loop and exposes the operations the UI chrome triggers.
type Engine interface {
	// Window returns the attached window, or nil for headless engines.
	Window() window.Window

	// Scene returns the solar-system scene.
	Scene() scene.Scene

	// Camera returns the scene camera.
	Camera() camera.Camera

	// Controller returns the camera controller.
	Controller() camera.CameraController

	// Animator returns the orbital animator.
	Animator() animator.Animator

	// Router returns the input router fed by the window.
	Router() input.Router

	// EnableProfiler enables performance profiling output to the log.
	EnableProfiler()

	// DisableProfiler disables performance profiling output.
	DisableProfiler()

	// SetTickRate sets the frame rate in frames per second.
	// If the engine is running, the change takes effect immediately.
	//
	// Parameters:
	//   - fps: target frames per second (defaults to 60 if <= 0)
	SetTickRate(fps float64)

	// SetTickCallback registers a function called after every frame of the running loop.
	//
	// Parameters:
	//   - callback: function receiving the delta time in seconds
	SetTickCallback(callback func(deltaTime float32))

	// Frame runs one frame: apply queued config and selections, collect input, dispatch commands,
	// ingest, animate, update the scene graph, update the camera controller and camera, then present.
	Frame()

	// Frames returns the number of frames run.
	Frames() uint64

	// Run ticks Frame at the tick rate until ctx is done, Quit is called or the window closes.
	// With a window attached, Run must be called from the goroutine that created the window
	// since it pumps the window's events.
	//
	// Parameters:
	//   - ctx: stops the loop when done
	//
	// Returns:
	//   - error: ErrAlreadyRunning if the loop is active
	Run(ctx context.Context) error

	// Quit signals the loop to stop.
	// Safe to call multiple times; subsequent calls are no-ops.
	Quit()

	// SelectBody anchors the camera to a body at the start of the next frame.
	//
	// Parameters:
	//   - id: the body to ride along with
	SelectBody(id body.ID)

	// GoFree returns the camera to free mode at the start of the next frame.
	GoFree()

	// ToggleFixedTarget locks the anchored camera onto a body, or unlocks it, at the start of
	// the next frame.
	//
	// Parameters:
	//   - id: the body to face
	ToggleFixedTarget(id body.ID)

	// Snapshot returns the camera controller's current state.
	Snapshot() camera.State

	// SetSpeedMultiplier rescales orbital revolution and rotation.
	//
	// Parameters:
	//   - v: the speed multiplier, 1 for the default speed
	SetSpeedMultiplier(v float32)

	// ApplyConfig queues a configuration to be applied at the start of the next frame.
	// Window size and renderer backend changes need a restart and are ignored.
	//
	// Parameters:
	//   - cfg: the new configuration
	ApplyConfig(cfg *config.Config)
}

// engine implements the Engine interface.
type engine struct {
	mu *sync.Mutex

	cfg       *config.Config
	logger    *slog.Logger
	bodies    []body.Spec
	renderers []renderer.Renderer

	window     window.Window
	scene      scene.Scene
	camera     camera.Camera
	controller camera.CameraController
	animator   animator.Animator
	router     input.Router

	profiler         *profiler.Profiler
	profilingEnabled bool

	tickRate        time.Duration
	tickRateChannel chan time.Duration
	tickCallback    func(deltaTime float32)
	pollInterval    time.Duration

	pending *config.Config
	queued  []func()
	frames  uint64

	running     bool
	wg          sync.WaitGroup
	quitChannel chan struct{}
	quitOnce    sync.Once
}

var _ Engine = &engine{}

// NewEngine builds the scene, camera, animator and input router from the configuration
// (config.Default unless WithConfig is given). Without WithRenderers a single renderer is
// created from the configured backend. When a window is attached its input is bound to the
// router and its resizes reach the camera and renderers.
//
// Parameters:
//   - options: functional options for engine configuration
//
// Returns:
//   - Engine: the newly created engine
//   - error: an error if the configuration or body table is invalid
func NewEngine(options ...EngineBuilderOption) (Engine, error) {
	e := &engine{
		mu:              &sync.Mutex{},
		cfg:             config.Default(),
		logger:          slog.Default(),
		bodies:          body.DefaultSpecs(),
		tickRateChannel: make(chan time.Duration, 1),
		pollInterval:    4 * time.Millisecond,
		quitChannel:     make(chan struct{}),
	}

	for _, opt := range options {
		opt(e)
	}

	cfg := e.cfg
	if err := cfg.Validate(); err != nil {
		e.logger.Warn("config has errors; applying valid settings", slog.Any("error", err))
	}
	if e.tickRate == 0 {
		e.tickRate = time.Second / time.Duration(cfg.Engine.TickRate)
	}
	if e.profiler == nil {
		e.profiler = profiler.NewProfiler(
			profiler.WithLogger(e.logger),
			profiler.WithInterval(time.Duration(cfg.Engine.ProfileInterval*float64(time.Second))),
		)
		e.profilingEnabled = e.profilingEnabled || cfg.Engine.Profile
	}

	width, height := cfg.Engine.Width, cfg.Engine.Height
	if e.window != nil {
		width, height = e.window.Width(), e.window.Height()
	}

	if len(e.renderers) == 0 {
		r, err := e.newRenderer(cfg, width, height)
		if err != nil {
			return nil, fmt.Errorf("engine: %w", err)
		}
		e.renderers = append(e.renderers, r)
	}

	e.controller = camera.NewCameraController(append(cfg.CameraOptions(), camera.WithLogger(e.logger))...)
	e.camera = camera.NewCamera(camera.WithController(e.controller), camera.WithViewport(width, height))

	s, err := scene.NewScene("solar_system", e.camera,
		scene.WithBodies(e.bodies),
		scene.WithRenderers(e.renderers...),
		scene.WithCullingDisabled(cfg.Engine.CullingDisabled),
		scene.WithPresentWorkers(cfg.Engine.PresentWorkers),
		scene.WithLogger(e.logger),
	)
	if err != nil {
		return nil, fmt.Errorf("engine: %w", err)
	}
	e.scene = s
	e.controller.SetTracker(s)

	e.animator = animator.NewAnimator(s.AnimationTargets(),
		append(cfg.AnimatorOptions(), animator.WithLogger(e.logger))...)

	bindings, _ := cfg.Input.Bindings()
	e.router = input.NewRouter(
		input.WithBindings(bindings),
		input.WithViewport(width, height),
		input.WithLogger(e.logger),
	)

	if e.window != nil {
		window.Bind(e.window, e.router, e.resize)
	}

	// Place the camera before the first present.
	e.controller.Update()
	e.camera.Update()

	return e, nil
}

// newRenderer creates the configured renderer backend. The wgpu backend draws into the window
// and falls back to the log backend on headless engines.
func (e *engine) newRenderer(cfg *config.Config, width, height int) (renderer.Renderer, error) {
	if _, err := renderer.ParseBackendType(cfg.Engine.Renderer); err != nil {
		return nil, err
	}
	bt, opts := cfg.RendererOptions()
	if bt == renderer.BackendTypeWGPU {
		if e.window == nil {
			e.logger.Warn("wgpu renderer needs a window; using the log renderer")
			bt = renderer.BackendTypeLog
		} else {
			opts = append(opts, renderer.WithSurface(e.window.SurfaceDescriptor()))
		}
	}
	opts = append(opts, renderer.WithLogger(e.logger), renderer.WithSize(width, height))
	return renderer.NewRenderer(bt, opts...)
}

// resize forwards a framebuffer size change to the camera and every renderer.
func (e *engine) resize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	e.camera.SetAspect(float32(width) / float32(height))
	for _, r := range e.scene.Renderers() {
		r.Resize(width, height)
	}
	e.logger.Debug("resized", slog.Int("width", width), slog.Int("height", height))
}

func (e *engine) Window() window.Window               { return e.window }
func (e *engine) Scene() scene.Scene                  { return e.scene }
func (e *engine) Camera() camera.Camera               { return e.camera }
func (e *engine) Controller() camera.CameraController { return e.controller }
func (e *engine) Animator() animator.Animator         { return e.animator }
func (e *engine) Router() input.Router                { return e.router }
func (e *engine) Snapshot() camera.State              { return e.controller.Snapshot() }
func (e *engine) SetSpeedMultiplier(v float32)        { e.animator.SetSpeedMultiplier(v) }

func (e *engine) SelectBody(id body.ID) {
	e.enqueue(func() { e.controller.SelectBody(id) })
}

func (e *engine) GoFree() {
	e.enqueue(e.controller.GoFree)
}

func (e *engine) ToggleFixedTarget(id body.ID) {
	e.enqueue(func() { e.controller.ToggleFixedTarget(id) })
}

// enqueue defers a camera mode change to the start of the next frame so the controller and
// camera never disagree within a frame.
func (e *engine) enqueue(op func()) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.queued = append(e.queued, op)
}

func (e *engine) EnableProfiler() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.profilingEnabled = true
}

func (e *engine) DisableProfiler() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.profilingEnabled = false
}

func (e *engine) SetTickRate(fps float64) {
	if fps <= 0 {
		fps = 60
	}
	newRate := time.Duration(float64(time.Second) / fps)

	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.running {
		e.tickRate = newRate
		return
	}

	// Non-blocking send; a pending update is replaced by the newer one.
	select {
	case e.tickRateChannel <- newRate:
	default:
		select {
		case <-e.tickRateChannel:
		default:
		}
		e.tickRateChannel <- newRate
	}
}

func (e *engine) SetTickCallback(callback func(deltaTime float32)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.tickCallback = callback
}

func (e *engine) ApplyConfig(cfg *config.Config) {
	if cfg == nil {
		return
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.pending = cfg
}

func (e *engine) Frames() uint64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.frames
}

func (e *engine) Frame() {
	e.applyPending()

	e.mu.Lock()
	queued := e.queued
	e.queued = nil
	e.mu.Unlock()
	for _, op := range queued {
		op()
	}

	in := e.router.Collect()
	for _, cmd := range in.Commands {
		e.dispatch(cmd)
	}
	e.controller.Ingest(in)

	e.animator.Tick()
	e.scene.Update()
	e.controller.Update()
	e.camera.Update()

	if err := e.scene.Present(e.animator.Shine()); err != nil {
		e.logger.Error("present failed", slog.Any("error", err))
	}

	e.mu.Lock()
	e.frames++
	profiling := e.profilingEnabled
	e.mu.Unlock()

	if profiling {
		e.profiler.Tick()
	}
}

// dispatch handles the commands that reach beyond the camera and hands the rest to the controller.
func (e *engine) dispatch(cmd input.Action) {
	switch cmd {
	case input.ActionToggleAnimation:
		enabled := e.animator.Toggle()
		e.logger.Debug("animation toggled", slog.Bool("enabled", enabled))
	case input.ActionToggleMoving:
		e.controller.SetMoving(!e.controller.Moving())
	case input.ActionFreeCamera:
		e.controller.GoFree()
	case input.ActionSelectNext:
		e.cycleBody(1)
	case input.ActionSelectPrev:
		e.cycleBody(-1)
	case input.ActionQuit:
		e.Quit()
	default:
		if !e.controller.HandleCommand(cmd) {
			e.logger.Debug("unhandled command", slog.String("action", cmd.String()))
		}
	}
}

// cycleBody anchors the camera to the body step places from the anchored one, in body table
// order and wrapping around. From free mode it starts at the first or last body.
func (e *engine) cycleBody(step int) {
	specs := e.scene.Specs()
	if len(specs) == 0 {
		return
	}
	next := 0
	if step < 0 {
		next = len(specs) - 1
	}
	if st := e.controller.Snapshot(); st.Mode != camera.ModeFree {
		for i, spec := range specs {
			if spec.ID == st.Anchored {
				next = ((i+step)%len(specs) + len(specs)) % len(specs)
				break
			}
		}
	}
	e.controller.SelectBody(specs[next].ID)
}

// applyPending applies a queued configuration on the frame goroutine.
func (e *engine) applyPending() {
	e.mu.Lock()
	cfg := e.pending
	e.pending = nil
	e.mu.Unlock()
	if cfg == nil {
		return
	}

	if err := cfg.Validate(); err != nil {
		e.logger.Warn("config has errors; applying valid settings", slog.Any("error", err))
	}
	e.controller.SetTuning(cfg.Tuning())
	e.animator.SetSpeedMultiplier(cfg.Animation.SpeedMultiplier)
	e.animator.SetBaseRates(cfg.Animation.BaseRevolution, cfg.Animation.BaseRotation)
	bindings, _ := cfg.Input.Bindings()
	e.router.SetBindings(bindings)
	e.scene.SetCullingDisabled(cfg.Engine.CullingDisabled)
	e.SetTickRate(float64(cfg.Engine.TickRate))

	e.mu.Lock()
	e.cfg = cfg
	if cfg.Engine.Profile {
		e.profilingEnabled = true
	}
	e.mu.Unlock()

	e.logger.Info("config applied")
}

func (e *engine) Run(ctx context.Context) error {
	e.mu.Lock()
	if e.running {
		e.mu.Unlock()
		return ErrAlreadyRunning
	}
	e.running = true
	e.mu.Unlock()

	e.wg.Add(1)
	go e.handleFrames()

	if e.window != nil {
		e.pumpWindow(ctx)
	} else {
		select {
		case <-ctx.Done():
		case <-e.quitChannel:
		}
	}

	e.signalQuit()
	e.wg.Wait()
	e.scene.Close()

	if e.window != nil {
		if err := e.window.Close(); err != nil {
			e.logger.Warn("window close failed", slog.Any("error", err))
		}
	}
	e.logger.Info("engine stopped", slog.Uint64("frames", e.Frames()))
	return nil
}

// pumpWindow polls window events until the window closes, ctx is done or Quit is called.
func (e *engine) pumpWindow(ctx context.Context) {
	ticker := time.NewTicker(e.pollInterval)
	defer ticker.Stop()

	for e.window.Poll() {
		select {
		case <-ctx.Done():
			return
		case <-e.quitChannel:
			return
		case <-ticker.C:
		}
	}
}

// handleFrames runs Frame at the tick rate in its own goroutine.
// Listens for rate changes via tickRateChannel and exits when the quit channel is closed.
// Recovers from panics to avoid crashing the process and signals quit on recovery.
func (e *engine) handleFrames() {
	defer e.wg.Done()
	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("frame goroutine recovered from panic", slog.Any("panic", r))
			e.signalQuit()
		}
	}()

	e.mu.Lock()
	rate := e.tickRate
	e.mu.Unlock()

	ticker := time.NewTicker(rate)
	defer ticker.Stop()
	lastTick := time.Now()

	for {
		select {
		case <-e.quitChannel:
			return
		case newRate := <-e.tickRateChannel:
			ticker.Reset(newRate)
			e.mu.Lock()
			e.tickRate = newRate
			e.mu.Unlock()
		case <-ticker.C:
			now := time.Now()
			dt := float32(now.Sub(lastTick).Seconds())
			lastTick = now

			e.Frame()

			e.mu.Lock()
			cb := e.tickCallback
			e.mu.Unlock()
			if cb != nil {
				cb(dt)
			}
		}
	}
}

func (e *engine) Quit() {
	e.signalQuit()
}

// signalQuit closes the quit channel to signal all goroutines to exit.
// Uses sync.Once to ensure the channel is only closed once.
func (e *engine) signalQuit() {
	e.quitOnce.Do(func() {
		e.mu.Lock()
		e.running = false
		e.mu.Unlock()
		close(e.quitChannel)
	})
}
