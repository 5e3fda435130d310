package engine

import (
	"log/slog"
	"time"

	"github.com/Carmen-Shannon/orrery/engine/body"
	"github.com/Carmen-Shannon/orrery/engine/config"
	"github.com/Carmen-Shannon/orrery/engine/renderer"
	"github.com/Carmen-Shannon/orrery/engine/window"
)

// EngineBuilderOption is a functional option for configuring an Engine.
// Use the With* functions to create options that are applied directly to the engine instance.
type EngineBuilderOption func(*engine)

// WithConfig sets the configuration the engine is built from.
//
// Parameters:
//   - cfg: the configuration (config.Default when nil)
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithConfig(cfg *config.Config) EngineBuilderOption {
	return func(e *engine) {
		if cfg != nil {
			e.cfg = cfg
		}
	}
}

// WithProfiling enables or disables performance profiling output.
//
// Parameters:
//   - enabled: if true, enables performance profiling
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithProfiling(enabled bool) EngineBuilderOption {
	return func(e *engine) {
		e.profilingEnabled = enabled
	}
}

// WithTickRate sets the frame rate in frames per second, overriding the configuration.
// Values <= 0 will be treated as the default (60Hz).
//
// Parameters:
//   - fps: target ticks per second (default 60)
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithTickRate(fps float64) EngineBuilderOption {
	return func(e *engine) {
		if fps <= 0 {
			fps = 60.0
		}
		e.tickRate = time.Duration(float64(time.Second) / fps)
	}
}

// WithWindow attaches a window whose input drives the camera and whose size drives the
// projection and renderers. Without a window the engine runs headless.
//
// Parameters:
//   - w: a spawned Window instance
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithWindow(w window.Window) EngineBuilderOption {
	return func(e *engine) {
		e.window = w
	}
}

// WithRenderers sets the renderers frames are presented to, replacing the one the engine
// would otherwise create from the configured backend.
//
// Parameters:
//   - renderers: the renderers
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithRenderers(renderers ...renderer.Renderer) EngineBuilderOption {
	return func(e *engine) {
		e.renderers = append(e.renderers, renderers...)
	}
}

// WithBodies replaces the default body table.
//
// Parameters:
//   - specs: the bodies to build
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithBodies(specs []body.Spec) EngineBuilderOption {
	return func(e *engine) {
		e.bodies = specs
	}
}

// WithLogger sets the logger shared by every engine component.
//
// Parameters:
//   - logger: the structured logger
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithLogger(logger *slog.Logger) EngineBuilderOption {
	return func(e *engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}
