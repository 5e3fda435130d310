package camera

import (
	"math/rand/v2"
	"strings"
	"testing"

	"github.com/Carmen-Shannon/orrery/common"
	"github.com/Carmen-Shannon/orrery/engine/body"
	"github.com/Carmen-Shannon/orrery/engine/input"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTracker struct {
	specs  []body.Spec
	orbits map[body.ID][2][16]float32
	bodies map[body.ID][3]float32
}

func newFakeTracker() *fakeTracker {
	return &fakeTracker{
		specs:  body.DefaultSpecs(),
		orbits: make(map[body.ID][2][16]float32),
		bodies: make(map[body.ID][3]float32),
	}
}

func (f *fakeTracker) Spec(id body.ID) (body.Spec, bool) {
	if !id.Valid() {
		return body.Spec{}, false
	}
	return f.specs[id], true
}

func (f *fakeTracker) OrbitTransforms(id body.ID) ([16]float32, [16]float32, bool) {
	m, ok := f.orbits[id]
	return m[0], m[1], ok
}

func (f *fakeTracker) BodyPosition(id body.ID) ([3]float32, bool) {
	p, ok := f.bodies[id]
	return p, ok
}

// place puts a body on its orbit at angle deg around parentWorld, at its default anchor offset.
func (f *fakeTracker) place(id body.ID, deg float32, parentWorld [16]float32) [3]float32 {
	var r, tr, local, world [16]float32
	common.RotationY4(r[:], common.DegToRad(deg))
	common.Translation4(tr[:], f.specs[id].OrbitRadius, 0, 0)
	common.Mul4(local[:], r[:], tr[:])
	common.Mul4(world[:], parentWorld[:], local[:])
	f.orbits[id] = [2][16]float32{world, parentWorld}
	pos := common.TranslationOf(world[:])
	f.bodies[id] = pos
	return pos
}

func newTestController(tr Tracker, options ...CameraControllerOption) CameraController {
	opts := append([]CameraControllerOption{WithDrainRate(1), WithTracker(tr)}, options...)
	return NewCameraController(opts...)
}

func assertVec3(t *testing.T, want, got [3]float32, delta float64) {
	t.Helper()
	for i := range want {
		assert.InDelta(t, want[i], got[i], delta, "component %d", i)
	}
}

func zoom(cc CameraController, wheel float32) {
	cc.Ingest(input.Frame{Wheel: wheel / DefaultWheelFactor})
	cc.Update()
}

func TestDefaultState(t *testing.T) {
	cc := NewCameraController()
	s := cc.Snapshot()
	assert.Equal(t, ModeFree, s.Mode)
	assertVec3(t, [3]float32{0, 50, 0}, s.Position, 1e-5)
	assertVec3(t, [3]float32{0, 0, 1}, s.Up, 1e-6)
	assert.Equal(t, DefaultFov, s.Fov)
	assert.Equal(t, body.None, s.Anchored)
	assert.Equal(t, float32(0), s.PitchMin)
	assert.Equal(t, float32(85), s.PitchMax)
	assert.True(t, s.Moving)
}

func TestSelectBodyEarth(t *testing.T) {
	tr := newFakeTracker()
	tr.place(body.Earth, 0, common.IdentityMatrix())
	cc := newTestController(tr)
	cc.Ingest(input.Frame{KeyRotate: [2]float32{3, 3}})
	cc.Update()
	require.NotZero(t, cc.Snapshot().Yaw)

	cc.Ingest(input.Frame{Wheel: 1})
	cc.SelectBody(body.Earth)

	s := cc.Snapshot()
	assert.Equal(t, ModeAnchoredOrbit, s.Mode)
	assert.Equal(t, body.Earth, s.Anchored)
	assert.Equal(t, tr.specs[body.Earth].Scale, s.Near)
	assert.Zero(t, s.Yaw)
	assert.Zero(t, s.Pitch)
	assert.Equal(t, float32(-45), s.PitchMin)
	assert.Equal(t, float32(45), s.PitchMax)
	assert.True(t, cc.Buffers().Empty())
}

func TestSelectBodySetsNearToScale(t *testing.T) {
	tr := newFakeTracker()
	cc := newTestController(tr)
	cc.SelectBody(body.Jupiter)
	assert.InDelta(t, 11.2, cc.Snapshot().Near, 1e-5)
}

func TestSelectInvalidBodyIgnored(t *testing.T) {
	cc := newTestController(newFakeTracker())
	before := cc.Snapshot()
	cc.SelectBody(body.ID(42))
	cc.SelectBody(body.None)
	assert.Equal(t, before, cc.Snapshot())
}

func TestToggleFixedTargetSun(t *testing.T) {
	tr := newFakeTracker()
	tr.bodies[body.Sun] = [3]float32{}
	earth := tr.place(body.Earth, 0, common.IdentityMatrix())

	cc := newTestController(tr)
	cc.SelectBody(body.Earth)
	cc.ToggleFixedTarget(body.Sun)
	cc.Update()

	s := cc.Snapshot()
	assert.Equal(t, ModeAnchoredFixedTarget, s.Mode)
	assert.Equal(t, body.Sun, s.FixedTarget)
	assert.Equal(t, [3]float32{0, 0, 0}, s.Target)
	assert.Equal(t, [3]float32{0, 1, 0}, s.Up)
	assert.Zero(t, s.Pitch)
	assertVec3(t, earth, s.Position, 1e-4)

	// Earth sits on +X, so facing the sun means looking down -X: yaw 270.
	assert.InDelta(t, 270, s.Yaw, 1e-3)
	look := common.RotateVector3([3]float32{0, 0, 1}, s.Yaw, 0, 1)
	assertVec3(t, [3]float32{-1, 0, 0}, look, 1e-5)
}

func TestFixedTargetIgnoresRotationInput(t *testing.T) {
	tr := newFakeTracker()
	tr.bodies[body.Sun] = [3]float32{}
	tr.place(body.Mars, 90, common.IdentityMatrix())

	cc := newTestController(tr)
	cc.SelectBody(body.Mars)
	cc.ToggleFixedTarget(body.Sun)
	cc.Update()
	yaw := cc.Snapshot().Yaw

	cc.Ingest(input.Frame{KeyRotate: [2]float32{4, 4}, Drag: [2]float32{0.5, 0.5}})
	cc.Update()
	s := cc.Snapshot()
	assert.InDelta(t, yaw, s.Yaw, 1e-4)
	assert.Zero(t, s.Pitch)
}

func TestToggleFixedTargetTransitions(t *testing.T) {
	tr := newFakeTracker()
	cc := newTestController(tr)

	cc.ToggleFixedTarget(body.Sun)
	assert.Equal(t, ModeFree, cc.Snapshot().Mode, "no-op in free mode")

	cc.SelectBody(body.Earth)
	cc.ToggleFixedTarget(body.Earth)
	assert.Equal(t, ModeAnchoredOrbit, cc.Snapshot().Mode, "no-op on the anchored body")

	cc.ToggleFixedTarget(body.Sun)
	assert.Equal(t, ModeAnchoredFixedTarget, cc.Snapshot().Mode)

	cc.ToggleFixedTarget(body.Moon)
	s := cc.Snapshot()
	assert.Equal(t, ModeAnchoredFixedTarget, s.Mode, "switching subject keeps the lock")
	assert.Equal(t, body.Moon, s.FixedTarget)

	cc.ToggleFixedTarget(body.Moon)
	s = cc.Snapshot()
	assert.Equal(t, ModeAnchoredOrbit, s.Mode)
	assert.Equal(t, body.None, s.FixedTarget)
}

func TestSelectBodyKeepsLockOnOtherTarget(t *testing.T) {
	cc := newTestController(newFakeTracker())
	cc.SelectBody(body.Earth)
	cc.ToggleFixedTarget(body.Sun)

	cc.SelectBody(body.Mars)
	s := cc.Snapshot()
	assert.Equal(t, ModeAnchoredFixedTarget, s.Mode)
	assert.Equal(t, body.Sun, s.FixedTarget)
	assert.Equal(t, body.Mars, s.Anchored)

	cc.SelectBody(body.Sun)
	s = cc.Snapshot()
	assert.Equal(t, ModeAnchoredOrbit, s.Mode, "cannot face the body the camera sits in")
	assert.Equal(t, body.None, s.FixedTarget)
}

func TestFixedTargetZeroDirectionKeepsYaw(t *testing.T) {
	tr := newFakeTracker()
	tr.place(body.Earth, 0, common.IdentityMatrix())
	tr.bodies[body.Moon] = tr.bodies[body.Earth]

	cc := newTestController(tr)
	cc.SelectBody(body.Earth)
	cc.Ingest(input.Frame{KeyRotate: [2]float32{2, 0}})
	cc.Update()
	yaw := cc.Snapshot().Yaw
	require.InDelta(t, 10, yaw, 1e-4)

	cc.ToggleFixedTarget(body.Moon)
	assert.NotPanics(t, cc.Update)
	assert.InDelta(t, yaw, cc.Snapshot().Yaw, 1e-4)
}

func TestAnchoredFollowsBody(t *testing.T) {
	tr := newFakeTracker()
	cc := newTestController(tr)
	cc.SelectBody(body.Venus)

	for _, deg := range []float32{0, 33, 140, 271} {
		pos := tr.place(body.Venus, deg, common.IdentityMatrix())
		cc.Update()
		s := cc.Snapshot()
		assertVec3(t, pos, s.Position, 1e-3)
		assertVec3(t, common.AddVectors3(pos, [3]float32{0, 0, 1}), s.Target, 1e-3)
		assertVec3(t, [3]float32{0, 1, 0}, s.Up, 1e-5)
	}
}

func TestAnchoredFollowsMoon(t *testing.T) {
	tr := newFakeTracker()
	tr.place(body.Earth, 50, common.IdentityMatrix())
	earthWorld := tr.orbits[body.Earth][0]
	var spin, earthBody [16]float32
	common.RotationY4(spin[:], common.DegToRad(75))
	common.Mul4(earthBody[:], earthWorld[:], spin[:])
	moon := tr.place(body.Moon, 20, earthBody)

	cc := newTestController(tr)
	cc.SelectBody(body.Moon)
	cc.Update()
	assertVec3(t, moon, cc.Snapshot().Position, 1e-3)
}

func TestAnchoredRotationFromInput(t *testing.T) {
	tr := newFakeTracker()
	tr.place(body.Earth, 0, common.IdentityMatrix())
	cc := newTestController(tr)
	cc.SelectBody(body.Earth)

	cc.Ingest(input.Frame{Drag: [2]float32{0.5, 0}})
	cc.Update()
	assert.InDelta(t, 15, cc.Snapshot().Yaw, 1e-4)

	cc.Ingest(input.Frame{Drag: [2]float32{0, 10}})
	cc.Update()
	assert.Equal(t, float32(45), cc.Snapshot().Pitch, "pitch clamped to anchored bounds")
}

func TestFreePanRotatedByYaw(t *testing.T) {
	cc := newTestController(nil)
	cc.Ingest(input.Frame{KeyPan: [2]float32{1, 0}})
	cc.Update()
	assertVec3(t, [3]float32{-0.5, 0, 0}, cc.Snapshot().Target, 1e-6)

	cc.GoFree()
	cc.Ingest(input.Frame{KeyRotate: [2]float32{18, 0}})
	cc.Update()
	require.InDelta(t, 90, cc.Snapshot().Yaw, 1e-4)

	cc.Ingest(input.Frame{KeyPan: [2]float32{1, 0}})
	cc.Update()
	assertVec3(t, [3]float32{0, 0, 0.5}, cc.Snapshot().Target, 1e-5)
}

func TestFreeDragPanScalesWithHeightAndFov(t *testing.T) {
	cc := newTestController(nil)
	cc.Ingest(input.Frame{Drag: [2]float32{0.1, 0.2}})
	b := cc.Buffers()
	// 30 · dx · cy/20 · fov/60 with cy = 50 and fov = 60.
	assert.InDelta(t, -7.5, b.Track, 1e-4)
	assert.InDelta(t, 15, b.Crane, 1e-4)
}

func TestTargetClamped(t *testing.T) {
	cc := newTestController(nil)
	cc.Ingest(input.Frame{KeyPan: [2]float32{5000, -5000}})
	cc.Update()
	s := cc.Snapshot()
	assert.Equal(t, float32(-600), s.Target[0])
	assert.Equal(t, float32(-600), s.Target[2])
}

func TestFreePitchBounds(t *testing.T) {
	cc := newTestController(nil)
	cc.Ingest(input.Frame{KeyRotate: [2]float32{0, -3}})
	cc.Update()
	assert.Equal(t, float32(0), cc.Snapshot().Pitch)

	cc.Ingest(input.Frame{KeyRotate: [2]float32{0, 100}})
	cc.Update()
	assert.Equal(t, float32(85), cc.Snapshot().Pitch)
}

func TestYawWraps(t *testing.T) {
	cc := newTestController(nil)
	cc.Ingest(input.Frame{KeyRotate: [2]float32{-1, 0}})
	cc.Update()
	assert.InDelta(t, 355, cc.Snapshot().Yaw, 1e-4)
}

func TestZoomBandsRoundTrip(t *testing.T) {
	cc := newTestController(nil)

	zoom(cc, 50)
	s := cc.Snapshot()
	assert.Equal(t, -1, s.ZoomBand)
	assert.Equal(t, float32(5), s.Distance)
	assert.Equal(t, float32(10), s.Fov)

	zoom(cc, -10)
	s = cc.Snapshot()
	assert.Equal(t, -1, s.ZoomBand)
	assert.InDelta(t, 20, s.Fov, 1e-4)

	zoom(cc, -45)
	s = cc.Snapshot()
	assert.Equal(t, 0, s.ZoomBand)
	assert.Equal(t, DefaultFov, s.Fov)
	assert.InDelta(t, 50, s.Distance, 1e-4)
}

func TestZoomAccelerationAbovePrecision(t *testing.T) {
	cc := newTestController(nil)
	zoom(cc, -150)
	require.InDelta(t, 200, cc.Snapshot().Distance, 1e-4)

	zoom(cc, 10)
	assert.InDelta(t, 180, cc.Snapshot().Distance, 1e-3, "step scaled by distance/precision")
}

func TestZoomBoundaryIdempotent(t *testing.T) {
	cc := newTestController(nil)
	zoom(cc, -50)
	zoom(cc, -500)
	s := cc.Snapshot()
	require.Equal(t, float32(600), s.Distance)
	require.Equal(t, 0, s.ZoomBand)

	zoom(cc, 1)
	s = cc.Snapshot()
	assert.Equal(t, 0, s.ZoomBand)
	assert.Equal(t, DefaultFov, s.Fov)
	assert.InDelta(t, 594, s.Distance, 1e-3)
}

func TestZoomOutPastMaxAndBack(t *testing.T) {
	cc := newTestController(nil)
	zoom(cc, -50)
	zoom(cc, -500)
	zoom(cc, -1)
	s := cc.Snapshot()
	require.Equal(t, 1, s.ZoomBand)
	require.Equal(t, float32(600), s.Distance)
	require.InDelta(t, 61, s.Fov, 1e-4)

	zoom(cc, 1)
	zoom(cc, 1)
	s = cc.Snapshot()
	assert.Equal(t, 0, s.ZoomBand)
	assert.Equal(t, DefaultFov, s.Fov)
	assert.InDelta(t, 599, s.Distance, 1e-3)
}

func TestFovAlwaysInBounds(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	tr := newFakeTracker()
	tr.place(body.Earth, 0, common.IdentityMatrix())
	cc := newTestController(tr)

	for i := range 2000 {
		switch i {
		case 700:
			cc.SelectBody(body.Earth)
		case 1400:
			cc.GoFree()
		}
		zoom(cc, (rng.Float32()-0.5)*400)
		if i%7 == 0 {
			cmd := input.ActionFovIn
			if rng.IntN(2) == 0 {
				cmd = input.ActionFovOut
			}
			cc.HandleCommand(cmd)
		}
		s := cc.Snapshot()
		require.GreaterOrEqual(t, s.Fov, float32(10))
		require.LessOrEqual(t, s.Fov, float32(160))
		require.GreaterOrEqual(t, s.Distance, float32(5))
		require.LessOrEqual(t, s.Distance, float32(600))
	}
}

func TestKeyboardFovUpdatesDefaultOnlyInBandZero(t *testing.T) {
	cc := newTestController(nil)
	require.True(t, cc.HandleCommand(input.ActionFovIn))
	s := cc.Snapshot()
	assert.Equal(t, float32(59.5), s.Fov)
	assert.Equal(t, float32(59.5), s.DefaultFov)

	zoom(cc, 50)
	require.Equal(t, -1, cc.Snapshot().ZoomBand)
	cc.HandleCommand(input.ActionFovOut)
	s = cc.Snapshot()
	assert.Equal(t, float32(59.5), s.DefaultFov)
}

func TestZoomNeverChangesDefaultFov(t *testing.T) {
	tr := newFakeTracker()
	cc := newTestController(tr)
	cc.SelectBody(body.Earth)
	zoom(cc, 20)
	s := cc.Snapshot()
	assert.Equal(t, float32(40), s.Fov)
	assert.Equal(t, DefaultFov, s.DefaultFov)
}

func TestStepCommands(t *testing.T) {
	cc := newTestController(nil)
	cc.HandleCommand(input.ActionStepDown)
	assert.Equal(t, MinStep, cc.Snapshot().Step)
	cc.HandleCommand(input.ActionStepUp)
	cc.HandleCommand(input.ActionStepUp)
	assert.Equal(t, float32(1.5), cc.Snapshot().Step)
	assert.False(t, cc.HandleCommand(input.ActionToggleAnimation))
}

func TestLockCommands(t *testing.T) {
	cc := newTestController(newFakeTracker())
	cc.SelectBody(body.Mars)
	require.True(t, cc.HandleCommand(input.ActionLockEarth))
	assert.Equal(t, body.Earth, cc.Snapshot().FixedTarget)
	require.True(t, cc.HandleCommand(input.ActionLockSun))
	assert.Equal(t, body.Sun, cc.Snapshot().FixedTarget)
}

func TestDrainIsGradual(t *testing.T) {
	cc := NewCameraController(WithDrainRate(0.25))
	cc.Ingest(input.Frame{Wheel: 1})
	require.Equal(t, float32(5), cc.Buffers().Zoom)

	cc.Update()
	assert.InDelta(t, 48.75, cc.Snapshot().Distance, 1e-4)
	assert.InDelta(t, 3.75, cc.Buffers().Zoom, 1e-5)

	for range 100 {
		cc.Update()
	}
	assert.Zero(t, cc.Buffers().Zoom)
	assert.InDelta(t, 45, cc.Snapshot().Distance, 1e-3)
}

func TestMovingFlagAndSingleStep(t *testing.T) {
	cc := newTestController(nil, WithMoving(false))
	cc.Ingest(input.Frame{Wheel: 1})
	cc.Update()
	assert.Equal(t, DefaultDistance, cc.Snapshot().Distance)

	cc.HandleCommand(input.ActionSingleStep)
	cc.Update()
	assert.Equal(t, float32(45), cc.Snapshot().Distance)

	cc.Ingest(input.Frame{Wheel: 1})
	cc.Update()
	assert.Equal(t, float32(45), cc.Snapshot().Distance, "step request is consumed")

	cc.SetMoving(true)
	cc.Update()
	assert.Equal(t, float32(40), cc.Snapshot().Distance)
}

func TestGoFreeResets(t *testing.T) {
	cc := newTestController(newFakeTracker())
	zoom(cc, 30)
	cc.SelectBody(body.Saturn)
	cc.ToggleFixedTarget(body.Sun)
	cc.Ingest(input.Frame{Wheel: 3})

	cc.GoFree()
	s := cc.Snapshot()
	assert.Equal(t, ModeFree, s.Mode)
	assert.Equal(t, body.None, s.Anchored)
	assert.Equal(t, body.None, s.FixedTarget)
	assert.Equal(t, DefaultNear, s.Near)
	assert.Equal(t, DefaultDistance, s.Distance)
	assert.Equal(t, 0, s.ZoomBand)
	assert.Equal(t, [3]float32{}, s.Target)
	assertVec3(t, [3]float32{0, 50, 0}, s.Position, 1e-4)
	assert.True(t, cc.Buffers().Empty())
}

func TestSetTuningRepairsValues(t *testing.T) {
	cc := NewCameraController()
	bad := DefaultTuning()
	bad.DrainRate = -3
	bad.Limits.FovMin, bad.Limits.FovMax = 90, 20
	cc.SetTuning(bad)

	got := cc.Tuning()
	assert.Equal(t, DefaultDrainRate, got.DrainRate)
	assert.Equal(t, float32(10), got.Limits.FovMin)
	assert.Equal(t, float32(160), got.Limits.FovMax)
}

func TestSetTuningReclampsState(t *testing.T) {
	cc := NewCameraController()
	tn := DefaultTuning()
	tn.Limits.FovMax = 40
	cc.SetTuning(tn)
	assert.Equal(t, float32(40), cc.Snapshot().Fov)
}

func TestStateString(t *testing.T) {
	out := NewCameraController().Snapshot().String()
	for _, want := range []string{"cx: 0.00", "cy: 50.00", "uz: 1.00", "fov: 60.00", "step: 0.5",
		"zoom band: 0", "yaw angle: 0.00", "moving: true", "mode: free", "anchored: none", "look at: none"} {
		assert.Contains(t, out, want)
	}
	assert.Len(t, strings.Split(out, "\n"), 19)
}
