package camera

import (
	"github.com/Carmen-Shannon/orrery/engine/body"
	"github.com/Carmen-Shannon/orrery/engine/input"
)

// Tracker answers the controller's questions about where bodies are this frame.
// The scene implements it from world transforms computed earlier in the same frame.
type Tracker interface {
	// Spec returns the fixed constants of a body.
	Spec(id body.ID) (body.Spec, bool)

	// OrbitTransforms returns the world transform of the body's orbit node and of the
	// orbit node's parent.
	OrbitTransforms(id body.ID) (orbitWorld, parentWorld [16]float32, ok bool)

	// BodyPosition returns the world position of the body's center.
	BodyPosition(id body.ID) ([3]float32, bool)
}

// CameraController owns the camera state and turns buffered input into camera motion.
// Input is buffered by Ingest and applied only by Update, once per frame, so every visible
// state change happens at a single point in the frame. Controllers own positional state
// (position, target, up, fov); Camera reads from the controller and computes matrices.
// Out-of-range values are clamped, never rejected.
// Thread-safe for concurrent access.
type CameraController interface {
	// SelectBody anchors the camera to a body. The controller enters ModeAnchoredOrbit, or stays in
	// ModeAnchoredFixedTarget if a lock is set on a body other than the new one. Yaw and pitch are
	// reset to 0, pitch bounds narrow to the anchored range, the near plane moves to the body's
	// scale and the input buffers are cleared. Invalid ids are ignored.
	//
	// Parameters:
	//   - id: the body to anchor to
	SelectBody(id body.ID)

	// GoFree returns to ModeFree. Pitch bounds widen to the free range, the near plane, target,
	// distance, zoom band and fov return to their defaults, the lock is cleared and the input
	// buffers are reset.
	GoFree()

	// ToggleFixedTarget locks the view onto a body while anchored. Toggling the current lock
	// target releases the lock; toggling a different body switches the lock to it. No-op in
	// ModeFree and when id is the anchored body.
	//
	// Parameters:
	//   - id: the body to face
	ToggleFixedTarget(id body.ID)

	// Ingest converts one frame of raw input into buffered deltas. Commands in the frame are not
	// handled here; see HandleCommand.
	//
	// Parameters:
	//   - frame: the input collected this frame
	Ingest(frame input.Frame)

	// HandleCommand applies a discrete camera command immediately: fov in/out, step up/down,
	// sun/earth lock toggles and single-step requests.
	//
	// Parameters:
	//   - a: the command
	//
	// Returns:
	//   - bool: false if the command is not a camera command
	HandleCommand(a input.Action) bool

	// Update drains the input buffers and recomputes position, target and up for the current mode.
	// Does nothing unless the moving flag is set or a single step was requested.
	Update()

	// Snapshot returns a copy of the camera state.
	Snapshot() State

	// Buffers returns a copy of the pending input buffers.
	Buffers() InputBuffers

	// Moving reports whether Update applies changes every frame.
	Moving() bool

	// SetMoving enables or freezes per-frame updates.
	//
	// Parameters:
	//   - moving: true to update every frame
	SetMoving(moving bool)

	// RequestStep makes the next Update run once even when not moving.
	RequestStep()

	// Tuning returns the active tuning.
	Tuning() Tuning

	// SetTuning replaces the tuning. Invalid values are repaired and the state is re-clamped.
	//
	// Parameters:
	//   - t: the new tuning
	SetTuning(t Tuning)

	// SetTracker sets the source of body positions used by the anchored modes.
	//
	// Parameters:
	//   - t: the tracker
	SetTracker(t Tracker)
}
