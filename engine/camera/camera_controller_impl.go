package camera

import (
	"log/slog"
	"sync"

	"github.com/Carmen-Shannon/orrery/common"
	"github.com/Carmen-Shannon/orrery/engine/body"
	"github.com/Carmen-Shannon/orrery/engine/input"
	"github.com/chewxy/math32"
)

var (
	// Free mode: the target-to-camera vector and up vector before yaw/pitch.
	freeOffsetDefault = [3]float32{0, 1, 0}
	freeUpDefault     = [3]float32{0, 0, 1}

	// Anchored modes: the look direction and up vector before yaw/pitch.
	anchoredLookDefault = [3]float32{0, 0, 1}
	anchoredUpDefault   = [3]float32{0, 1, 0}

	worldUp = [3]float32{0, 1, 0}
)

// cameraControllerImpl is the single implementation of CameraController.
type cameraControllerImpl struct {
	mu *sync.Mutex

	tracker Tracker
	logger  *slog.Logger
	tuning  Tuning

	position [3]float32
	target   [3]float32
	up       [3]float32

	fov        float32
	defaultFov float32
	zoomBand   int
	distance   float32

	yaw      float32
	pitch    float32
	pitchMin float32
	pitchMax float32

	mode        Mode
	anchored    body.ID
	fixedTarget body.ID

	near, far float32
	step      float32

	moving        bool
	stepRequested bool

	defaultDistance float32
	defaultTarget   [3]float32
	defaultNear     float32

	buffers InputBuffers
}

var _ CameraController = &cameraControllerImpl{}

// NewCameraController creates a controller in free mode looking down at the origin from the
// default distance.
//
// Parameters:
//   - options: functional options to configure the controller
//
// Returns:
//   - CameraController: the newly created controller
func NewCameraController(options ...CameraControllerOption) CameraController {
	cc := &cameraControllerImpl{
		mu:              &sync.Mutex{},
		logger:          slog.Default(),
		tuning:          DefaultTuning(),
		fov:             DefaultFov,
		defaultFov:      DefaultFov,
		distance:        DefaultDistance,
		defaultDistance: DefaultDistance,
		mode:            ModeFree,
		anchored:        body.None,
		fixedTarget:     body.None,
		near:            DefaultNear,
		defaultNear:     DefaultNear,
		far:             DefaultFar,
		step:            DefaultStep,
		moving:          true,
	}

	for _, option := range options {
		option(cc)
	}

	cc.tuning = cc.tuning.Normalized()
	cc.pitchMin, cc.pitchMax = cc.tuning.Limits.FreePitchMin, cc.tuning.Limits.FreePitchMax
	cc.limit()
	cc.updateFree()
	return cc
}

func (cc *cameraControllerImpl) SelectBody(id body.ID) {
	cc.mu.Lock()
	defer cc.mu.Unlock()

	if !id.Valid() {
		cc.logger.Warn("ignoring selection of unknown body", slog.Int("id", int(id)))
		return
	}

	keepLock := cc.mode == ModeAnchoredFixedTarget && cc.fixedTarget != body.None && cc.fixedTarget != id
	cc.anchored = id
	if keepLock {
		cc.mode = ModeAnchoredFixedTarget
	} else {
		cc.mode = ModeAnchoredOrbit
		cc.fixedTarget = body.None
	}

	cc.yaw, cc.pitch = 0, 0
	cc.pitchMin, cc.pitchMax = cc.tuning.Limits.AnchoredPitchMin, cc.tuning.Limits.AnchoredPitchMax
	cc.near = cc.defaultNear
	if cc.tracker != nil {
		if spec, ok := cc.tracker.Spec(id); ok && spec.Scale > 0 {
			cc.near = spec.Scale
		}
	}
	cc.buffers.Reset()
	cc.limit()

	cc.logger.Debug("camera anchored",
		slog.String("body", id.String()),
		slog.String("mode", cc.mode.String()),
		slog.Float64("near", float64(cc.near)),
	)
}

func (cc *cameraControllerImpl) GoFree() {
	cc.mu.Lock()
	defer cc.mu.Unlock()

	cc.mode = ModeFree
	cc.anchored = body.None
	cc.fixedTarget = body.None
	cc.pitchMin, cc.pitchMax = cc.tuning.Limits.FreePitchMin, cc.tuning.Limits.FreePitchMax
	cc.near = cc.defaultNear
	cc.target = cc.defaultTarget
	cc.distance = cc.defaultDistance
	cc.zoomBand = 0
	cc.fov = cc.defaultFov
	cc.buffers.Reset()
	cc.limit()
	cc.updateFree()

	cc.logger.Debug("camera free")
}

func (cc *cameraControllerImpl) ToggleFixedTarget(id body.ID) {
	cc.mu.Lock()
	defer cc.mu.Unlock()

	if cc.mode == ModeFree || !id.Valid() || id == cc.anchored {
		return
	}

	if cc.mode == ModeAnchoredFixedTarget && cc.fixedTarget == id {
		cc.mode = ModeAnchoredOrbit
		cc.fixedTarget = body.None
	} else {
		cc.mode = ModeAnchoredFixedTarget
		cc.fixedTarget = id
	}
	cc.logger.Debug("camera lock toggled",
		slog.String("mode", cc.mode.String()),
		slog.String("target", cc.fixedTarget.String()),
	)
}

func (cc *cameraControllerImpl) Ingest(frame input.Frame) {
	cc.mu.Lock()
	defer cc.mu.Unlock()

	t := cc.tuning
	dx, dy := frame.Drag[0], frame.Drag[1]

	if cc.mode == ModeFree {
		cc.buffers.Track += frame.KeyPan[0] * cc.step
		cc.buffers.Crane += frame.KeyPan[1] * cc.step

		// Drag pans faster when the camera is high and the view is wide.
		k := t.DragScale * cc.position[1] / 20 * cc.fov / 60
		cc.buffers.Track -= dx * k
		cc.buffers.Crane += dy * k
	} else {
		cc.buffers.Yaw += t.DragScale * dx
		cc.buffers.Pitch += t.DragScale * dy
	}

	cc.buffers.Yaw += frame.KeyRotate[0] * t.AngleStep
	cc.buffers.Pitch += frame.KeyRotate[1] * t.AngleStep
	cc.buffers.Zoom += frame.Wheel * t.WheelFactor
}

func (cc *cameraControllerImpl) HandleCommand(a input.Action) bool {
	switch a {
	case input.ActionLockSun:
		cc.ToggleFixedTarget(body.Sun)
		return true
	case input.ActionLockEarth:
		cc.ToggleFixedTarget(body.Earth)
		return true
	}

	cc.mu.Lock()
	defer cc.mu.Unlock()

	l := cc.tuning.Limits
	switch a {
	case input.ActionFovIn:
		cc.fov = max(cc.fov-cc.step, l.FovMin)
		if cc.zoomBand == 0 {
			cc.defaultFov = cc.fov
		}
	case input.ActionFovOut:
		cc.fov = min(cc.fov+cc.step, l.FovMax)
		if cc.zoomBand == 0 {
			cc.defaultFov = cc.fov
		}
	case input.ActionStepUp:
		cc.step += StepIncrement
	case input.ActionStepDown:
		cc.step = max(cc.step-StepIncrement, MinStep)
	case input.ActionSingleStep:
		cc.stepRequested = true
	default:
		return false
	}
	return true
}

func (cc *cameraControllerImpl) Update() {
	cc.mu.Lock()
	defer cc.mu.Unlock()

	if !cc.moving && !cc.stepRequested {
		return
	}
	cc.stepRequested = false

	yawDelta := cc.drain(&cc.buffers.Yaw)
	pitchDelta := cc.drain(&cc.buffers.Pitch)
	zoom := cc.drain(&cc.buffers.Zoom)

	if cc.mode == ModeFree {
		track := cc.drain(&cc.buffers.Track)
		crane := cc.drain(&cc.buffers.Crane)
		if track != 0 || crane != 0 {
			move := common.RotateVector2([2]float32{-track, crane}, -cc.yaw, 1)
			xz := common.AddVectors2([2]float32{cc.target[0], cc.target[2]}, move)
			cc.target[0], cc.target[2] = xz[0], xz[1]
		}
		if zoom != 0 {
			cc.zoomFree(zoom)
		}
	} else {
		// Pan has no meaning while anchored; drop anything left from before the switch.
		cc.buffers.Track, cc.buffers.Crane = 0, 0
		if zoom != 0 {
			cc.setFov(cc.fov - zoom)
		}
	}

	if cc.mode != ModeAnchoredFixedTarget {
		cc.yaw += yawDelta
		cc.pitch += pitchDelta
	}
	cc.limit()

	switch cc.mode {
	case ModeFree:
		cc.updateFree()
	case ModeAnchoredOrbit:
		cc.updateAnchorPosition()
		look := common.RotateVector3(anchoredLookDefault, cc.yaw, cc.pitch, 1)
		cc.target = common.AddVectors3(cc.position, look)
		cc.up = common.RotateVector3(anchoredUpDefault, cc.yaw, cc.pitch, 1)
	case ModeAnchoredFixedTarget:
		cc.updateAnchorPosition()
		cc.updateFixedTarget()
	}
	cc.limit()
}

// zoomFree applies a zoom delta using the three-band model. Band 0 moves the camera; leaving
// [DistanceMin, DistanceMax] clamps the distance and switches to band -1 or +1, which change the
// fov instead until it crosses back over defaultFov.
// Caller must hold the mutex.
func (cc *cameraControllerImpl) zoomFree(z float32) {
	l := cc.tuning.Limits
	switch cc.zoomBand {
	case 0:
		if cc.distance > l.ZoomPrecision {
			cc.distance -= z * cc.distance / l.ZoomPrecision
		} else {
			cc.distance -= z
		}
		if cc.distance < l.DistanceMin {
			cc.distance = l.DistanceMin
			cc.setFov(cc.fov - z)
			cc.zoomBand = -1
		} else if cc.distance > l.DistanceMax {
			cc.distance = l.DistanceMax
			cc.setFov(cc.fov - z)
			cc.zoomBand = 1
		}
	case -1:
		cc.setFov(cc.fov - z)
		if cc.fov > cc.defaultFov {
			cc.fov = cc.defaultFov
			cc.distance -= z
			cc.zoomBand = 0
		}
	case 1:
		cc.setFov(cc.fov - z)
		if cc.fov < cc.defaultFov {
			cc.fov = cc.defaultFov
			cc.distance -= z
			cc.zoomBand = 0
		}
	}
	cc.distance = common.Clamp(cc.distance, l.DistanceMin, l.DistanceMax)
}

// updateFree places the camera on the yaw/pitch sphere around the target.
// Caller must hold the mutex.
func (cc *cameraControllerImpl) updateFree() {
	offset := common.RotateVector3(freeOffsetDefault, cc.yaw, cc.pitch, cc.distance)
	cc.position = common.AddVectors3(cc.target, offset)
	cc.up = common.RotateVector3(freeUpDefault, cc.yaw, cc.pitch, 1)
}

// updateAnchorPosition moves the camera to the anchored body: the anchor offset along the
// orbit's local X axis, carried through the inverse-transpose of the orbit node's world
// transform, from the origin of the orbit's parent. Keeps the previous position if the
// tracker cannot answer.
// Caller must hold the mutex.
func (cc *cameraControllerImpl) updateAnchorPosition() {
	if cc.tracker == nil {
		return
	}
	spec, ok := cc.tracker.Spec(cc.anchored)
	if !ok {
		return
	}
	orbitWorld, parentWorld, ok := cc.tracker.OrbitTransforms(cc.anchored)
	if !ok {
		return
	}
	normal, ok := common.NormalMatrix3(orbitWorld[:])
	if !ok {
		return
	}
	offset := common.MulVec3Mat3(normal, [3]float32{spec.AnchorOffset, 0, 0})
	cc.position = common.AddVectors3(common.TranslationOf(parentWorld[:]), offset)
}

// updateFixedTarget faces the locked body: world up, zero pitch and yaw derived from the
// horizontal direction to the target. A zero-length direction keeps the previous yaw.
// Caller must hold the mutex.
func (cc *cameraControllerImpl) updateFixedTarget() {
	target := [3]float32{}
	if cc.tracker != nil {
		if p, ok := cc.tracker.BodyPosition(cc.fixedTarget); ok {
			target = p
		}
	}
	cc.target = target
	cc.up = worldUp
	cc.pitch = 0

	dir := [2]float32{target[2] - cc.position[2], target[0] - cc.position[0]}
	angle, err := common.AngleFromHorizontalAxis(dir)
	if err != nil {
		return
	}
	cc.yaw = common.RadToDeg(angle)
}

// drain takes this update's share of a buffer and leaves the rest.
// Caller must hold the mutex.
func (cc *cameraControllerImpl) drain(buf *float32) float32 {
	v := *buf
	if v == 0 {
		return 0
	}
	if math32.Abs(v) < cc.tuning.Epsilon || cc.tuning.DrainRate >= 1 {
		*buf = 0
		return v
	}
	applied := v * cc.tuning.DrainRate
	*buf = v - applied
	return applied
}

// setFov assigns the fov clamped to the configured bounds.
// Caller must hold the mutex.
func (cc *cameraControllerImpl) setFov(fov float32) {
	cc.fov = common.Clamp(fov, cc.tuning.Limits.FovMin, cc.tuning.Limits.FovMax)
}

// limit re-applies every bound to the current state.
// Caller must hold the mutex.
func (cc *cameraControllerImpl) limit() {
	l := cc.tuning.Limits
	cc.setFov(cc.fov)
	cc.defaultFov = common.Clamp(cc.defaultFov, l.FovMin, l.FovMax)
	cc.target[0] = common.Clamp(cc.target[0], l.TargetMin, l.TargetMax)
	cc.target[2] = common.Clamp(cc.target[2], l.TargetMin, l.TargetMax)
	cc.pitch = common.Clamp(cc.pitch, cc.pitchMin, cc.pitchMax)
	cc.yaw = common.WrapDegrees(cc.yaw)
}

func (cc *cameraControllerImpl) Snapshot() State {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return State{
		Position:    cc.position,
		Target:      cc.target,
		Up:          cc.up,
		Fov:         cc.fov,
		DefaultFov:  cc.defaultFov,
		ZoomBand:    cc.zoomBand,
		Distance:    cc.distance,
		Yaw:         cc.yaw,
		Pitch:       cc.pitch,
		PitchMin:    cc.pitchMin,
		PitchMax:    cc.pitchMax,
		Mode:        cc.mode,
		Anchored:    cc.anchored,
		FixedTarget: cc.fixedTarget,
		Near:        cc.near,
		Far:         cc.far,
		Step:        cc.step,
		Moving:      cc.moving,
	}
}

func (cc *cameraControllerImpl) Buffers() InputBuffers {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.buffers
}

func (cc *cameraControllerImpl) Moving() bool {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.moving
}

func (cc *cameraControllerImpl) SetMoving(moving bool) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.moving = moving
}

func (cc *cameraControllerImpl) RequestStep() {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.stepRequested = true
}

func (cc *cameraControllerImpl) Tuning() Tuning {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.tuning
}

func (cc *cameraControllerImpl) SetTuning(t Tuning) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.tuning = t.Normalized()
	if cc.mode == ModeFree {
		cc.pitchMin, cc.pitchMax = cc.tuning.Limits.FreePitchMin, cc.tuning.Limits.FreePitchMax
	} else {
		cc.pitchMin, cc.pitchMax = cc.tuning.Limits.AnchoredPitchMin, cc.tuning.Limits.AnchoredPitchMax
	}
	cc.distance = common.Clamp(cc.distance, cc.tuning.Limits.DistanceMin, cc.tuning.Limits.DistanceMax)
	cc.limit()
}

func (cc *cameraControllerImpl) SetTracker(t Tracker) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.tracker = t
}
