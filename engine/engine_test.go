package engine

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Carmen-Shannon/orrery/common"
	"github.com/Carmen-Shannon/orrery/engine/body"
	"github.com/Carmen-Shannon/orrery/engine/camera"
	"github.com/Carmen-Shannon/orrery/engine/config"
	"github.com/Carmen-Shannon/orrery/engine/input"
	"github.com/Carmen-Shannon/orrery/engine/renderer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var quiet = slog.New(slog.DiscardHandler)

func newNullRenderer(t *testing.T) renderer.Renderer {
	t.Helper()
	r, err := renderer.NewRenderer(renderer.BackendTypeNull)
	require.NoError(t, err)
	return r
}

func newTestEngine(t *testing.T, options ...EngineBuilderOption) (Engine, renderer.Renderer) {
	t.Helper()
	cfg := config.Default()
	cfg.Camera.DrainRate = 1
	r := newNullRenderer(t)
	e, err := NewEngine(append([]EngineBuilderOption{WithConfig(cfg), WithLogger(quiet), WithRenderers(r)}, options...)...)
	require.NoError(t, err)
	return e, r
}

func TestFramePresentsToRenderer(t *testing.T) {
	e, r := newTestEngine(t)
	defer e.Scene().Close()

	e.Frame()
	e.Frame()
	assert.Equal(t, uint64(2), e.Frames())
	assert.Equal(t, uint64(2), r.FrameCount())

	frame, ok := r.LastFrame()
	require.True(t, ok)
	assert.Len(t, frame.Drawables, len(body.All))
	assert.Equal(t, e.Animator().Shine(), frame.Shine)
	assert.Equal(t, e.Camera().Position(), frame.CameraPosition)
}

func TestFrameAppliesWheelToCamera(t *testing.T) {
	e, _ := newTestEngine(t)
	defer e.Scene().Close()

	before := e.Snapshot().Distance
	e.Router().Wheel(2)
	e.Frame()
	assert.Less(t, e.Snapshot().Distance, before)
}

func TestFrameDispatchesEngineCommands(t *testing.T) {
	e, _ := newTestEngine(t)
	defer e.Scene().Close()

	e.Router().KeyDown(common.KeyQ)
	e.Frame()
	assert.False(t, e.Animator().Enabled())

	e.Router().KeyDown(common.KeyK)
	e.Frame()
	assert.False(t, e.Controller().Moving())

	e.SelectBody(body.Mars)
	e.Router().KeyDown(common.KeyF)
	e.Frame()
	assert.Equal(t, camera.ModeFree, e.Snapshot().Mode)
}

func TestFrameForwardsCameraCommands(t *testing.T) {
	e, _ := newTestEngine(t)
	defer e.Scene().Close()

	step := e.Snapshot().Step
	e.Router().KeyDown(common.KeyP)
	e.Frame()
	assert.Equal(t, step+camera.StepIncrement, e.Snapshot().Step)

	e.Router().KeyDown(common.KeyKPAdd)
	e.Frame()
	assert.Less(t, e.Snapshot().Fov, camera.DefaultFov)
}

func TestAnchoredCameraFollowsAnimatedBody(t *testing.T) {
	e, _ := newTestEngine(t)
	defer e.Scene().Close()

	e.SelectBody(body.Earth)
	for range 10 {
		e.Frame()
	}
	earth, ok := e.Scene().BodyPosition(body.Earth)
	require.True(t, ok)
	assert.Equal(t, camera.ModeAnchoredOrbit, e.Snapshot().Mode)
	assertVec3(t, earth, e.Camera().Position())

	e.ToggleFixedTarget(body.Sun)
	e.Frame()
	assert.Equal(t, camera.ModeAnchoredFixedTarget, e.Snapshot().Mode)
	assertVec3(t, [3]float32{0, 0, 0}, e.Camera().Target())
}

func TestSelectionWaitsForNextFrame(t *testing.T) {
	e, _ := newTestEngine(t)
	defer e.Scene().Close()

	e.SelectBody(body.Earth)
	assert.Equal(t, camera.ModeFree, e.Snapshot().Mode, "queued until the next frame")
	e.Frame()
	assert.Equal(t, camera.ModeAnchoredOrbit, e.Snapshot().Mode)
	assert.Equal(t, body.Earth, e.Snapshot().Anchored)

	e.GoFree()
	assert.Equal(t, camera.ModeAnchoredOrbit, e.Snapshot().Mode)
	e.Frame()
	assert.Equal(t, camera.ModeFree, e.Snapshot().Mode)
}

func TestSelectKeysCycleBodies(t *testing.T) {
	e, _ := newTestEngine(t)
	defer e.Scene().Close()
	specs := e.Scene().Specs()

	press := func(key int) body.ID {
		e.Router().KeyDown(key)
		e.Router().KeyUp(key)
		e.Frame()
		return e.Snapshot().Anchored
	}

	assert.Equal(t, specs[0].ID, press(common.KeyRightBracket), "free camera starts at the first body")
	assert.Equal(t, specs[1].ID, press(common.KeyRightBracket))
	assert.Equal(t, specs[0].ID, press(common.KeyLeftBracket))
	assert.Equal(t, specs[len(specs)-1].ID, press(common.KeyLeftBracket), "wraps to the last body")
	assert.Equal(t, specs[0].ID, press(common.KeyRightBracket), "wraps to the first body")

	e.Router().KeyDown(common.KeyF)
	e.Frame()
	assert.Equal(t, specs[len(specs)-1].ID, press(common.KeyLeftBracket), "free camera starts at the last body going back")
}

func TestSpeedMultiplierReachesAnimator(t *testing.T) {
	e, _ := newTestEngine(t)
	defer e.Scene().Close()
	e.SetSpeedMultiplier(3)
	assert.Equal(t, float32(3), e.Animator().SpeedMultiplier())
}

func TestApplyConfigOnNextFrame(t *testing.T) {
	e, _ := newTestEngine(t)
	defer e.Scene().Close()

	cfg := config.Default()
	cfg.Camera.DrainRate = 0.5
	cfg.Animation.SpeedMultiplier = 4
	cfg.Engine.CullingDisabled = true
	cfg.Input.Keys = map[string]string{"space": "toggle_animation"}

	e.ApplyConfig(cfg)
	assert.Equal(t, float32(1), e.Controller().Tuning().DrainRate, "queued until the next frame")

	e.Frame()
	assert.Equal(t, float32(0.5), e.Controller().Tuning().DrainRate)
	assert.Equal(t, float32(4), e.Animator().SpeedMultiplier())
	assert.True(t, e.Scene().CullingDisabled())

	e.Router().KeyDown(common.KeySpace)
	e.Frame()
	assert.False(t, e.Animator().Enabled())
}

type failingRenderer struct {
	renderer.Renderer
	calls atomic.Int32
}

func (f *failingRenderer) Render(renderer.FrameData) error {
	f.calls.Add(1)
	return errors.New("device lost")
}

func TestRendererErrorsDoNotStopFrames(t *testing.T) {
	f := &failingRenderer{}
	e, err := NewEngine(WithLogger(quiet), WithRenderers(f))
	require.NoError(t, err)
	defer e.Scene().Close()

	e.Frame()
	e.Frame()
	assert.Equal(t, int32(2), f.calls.Load())
	assert.Equal(t, uint64(2), e.Frames())
}

func TestNewEngineRejectsBadConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Engine.Renderer = "vulkan"
	_, err := NewEngine(WithConfig(cfg), WithLogger(quiet))
	assert.Error(t, err)

	bad := body.DefaultSpecs()
	bad[4].OrbitParent = body.ID(77)
	_, err = NewEngine(WithBodies(bad), WithLogger(quiet))
	assert.Error(t, err)
}

func TestNewEngineKeepsValidSettingsBesideUnknownNames(t *testing.T) {
	cfg := config.Default()
	cfg.Camera.Fov = 45
	cfg.Input.Keys = map[string]string{"hyper": "fov_in", "space": "toggle_animation"}

	e, err := NewEngine(WithConfig(cfg), WithLogger(quiet), WithRenderers(newNullRenderer(t)))
	require.NoError(t, err)
	defer e.Scene().Close()

	assert.InDelta(t, 45, e.Snapshot().Fov, 1e-6)
	e.Router().KeyDown(common.KeySpace)
	e.Frame()
	assert.False(t, e.Animator().Enabled())
}

func TestHeadlessWGPUFallsBackToLog(t *testing.T) {
	cfg := config.Default()
	cfg.Engine.Renderer = "wgpu"
	e, err := NewEngine(WithConfig(cfg), WithLogger(quiet))
	require.NoError(t, err)
	defer e.Scene().Close()

	require.Len(t, e.Scene().Renderers(), 1)
	e.Frame()
	assert.Equal(t, uint64(1), e.Scene().Renderers()[0].FrameCount())
}

func TestRunStopsOnContext(t *testing.T) {
	e, r := newTestEngine(t, WithTickRate(200))

	var ticks atomic.Int32
	e.SetTickCallback(func(dt float32) { ticks.Add(1) })

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- e.Run(ctx) }()

	require.Eventually(t, func() bool { return r.FrameCount() >= 3 }, 5*time.Second, 5*time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
	assert.GreaterOrEqual(t, ticks.Load(), int32(3))
}

func TestRunStopsOnQuit(t *testing.T) {
	e, r := newTestEngine(t, WithTickRate(200))

	done := make(chan error, 1)
	go func() { done <- e.Run(context.Background()) }()
	require.Eventually(t, func() bool { return r.FrameCount() >= 1 }, 5*time.Second, 5*time.Millisecond)

	assert.ErrorIs(t, e.Run(context.Background()), ErrAlreadyRunning)
	e.SetTickRate(500)

	e.Quit()
	e.Quit()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after Quit")
	}
}

func TestEscapeQuits(t *testing.T) {
	e, _ := newTestEngine(t, WithTickRate(200))

	done := make(chan error, 1)
	go func() { done <- e.Run(context.Background()) }()

	e.Router().KeyDown(common.KeyEsc)
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after Esc")
	}
}

func assertVec3(t *testing.T, want, got [3]float32) {
	t.Helper()
	for i := range want {
		assert.InDelta(t, want[i], got[i], 1e-3, "component %d", i)
	}
}

func TestRouterUsesConfiguredBindings(t *testing.T) {
	cfg := config.Default()
	cfg.Input.Keys = map[string]string{"q": "none"}
	e, err := NewEngine(WithConfig(cfg), WithLogger(quiet), WithRenderers(newNullRenderer(t)))
	require.NoError(t, err)
	defer e.Scene().Close()

	e.Router().KeyDown(common.KeyQ)
	assert.False(t, e.Router().Held(input.ActionToggleAnimation))
	e.Frame()
	assert.True(t, e.Animator().Enabled())
}
