package camera

import "log/slog"

// CameraControllerOption is a functional option for configuring a CameraController.
type CameraControllerOption func(*cameraControllerImpl)

// WithTuning replaces the default tuning.
//
// Parameters:
//   - t: the tuning to use
//
// Returns:
//   - CameraControllerOption: functional option to set the tuning
func WithTuning(t Tuning) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.tuning = t
	}
}

// WithDrainRate sets the fraction of each buffer applied per update.
// A rate of 1 applies input immediately.
//
// Parameters:
//   - rate: fraction in (0, 1]
//
// Returns:
//   - CameraControllerOption: functional option to set the drain rate
func WithDrainRate(rate float32) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.tuning.DrainRate = rate
	}
}

// WithLimits replaces the default camera bounds.
//
// Parameters:
//   - l: the bounds
//
// Returns:
//   - CameraControllerOption: functional option to set the limits
func WithLimits(l Limits) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.tuning.Limits = l
	}
}

// WithDefaultFov sets the starting and remembered field of view in degrees.
//
// Parameters:
//   - fov: field of view in degrees
//
// Returns:
//   - CameraControllerOption: functional option to set the fov
func WithDefaultFov(fov float32) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.defaultFov = fov
		cc.fov = fov
	}
}

// WithDefaultDistance sets the free-mode distance used at start and by GoFree.
//
// Parameters:
//   - d: distance from the target
//
// Returns:
//   - CameraControllerOption: functional option to set the distance
func WithDefaultDistance(d float32) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.defaultDistance = d
		cc.distance = d
	}
}

// WithDefaultTarget sets the free-mode target used at start and by GoFree.
//
// Parameters:
//   - x, y, z: world-space coordinates
//
// Returns:
//   - CameraControllerOption: functional option to set the target
func WithDefaultTarget(x, y, z float32) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.defaultTarget = [3]float32{x, y, z}
		cc.target = cc.defaultTarget
	}
}

// WithClipPlanes sets the default near and far clip planes.
//
// Parameters:
//   - near: near plane distance in free mode
//   - far: far plane distance
//
// Returns:
//   - CameraControllerOption: functional option to set the clip planes
func WithClipPlanes(near, far float32) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.defaultNear = near
		cc.near = near
		cc.far = far
	}
}

// WithStep sets the keyboard movement step.
//
// Parameters:
//   - step: pan units per key press
//
// Returns:
//   - CameraControllerOption: functional option to set the step
func WithStep(step float32) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.step = max(step, MinStep)
	}
}

// WithMoving sets whether Update applies changes every frame. Defaults to true.
//
// Parameters:
//   - moving: initial moving flag
//
// Returns:
//   - CameraControllerOption: functional option to set the moving flag
func WithMoving(moving bool) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.moving = moving
	}
}

// WithTracker sets the body position source for the anchored modes.
//
// Parameters:
//   - t: the tracker
//
// Returns:
//   - CameraControllerOption: functional option to set the tracker
func WithTracker(t Tracker) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.tracker = t
	}
}

// WithLogger sets the controller's logger.
//
// Parameters:
//   - logger: the structured logger
//
// Returns:
//   - CameraControllerOption: functional option to set the logger
func WithLogger(logger *slog.Logger) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		if logger != nil {
			cc.logger = logger
		}
	}
}
