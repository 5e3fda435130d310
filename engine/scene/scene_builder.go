package scene

import (
	"log/slog"

	"github.com/Carmen-Shannon/orrery/engine/body"
	"github.com/Carmen-Shannon/orrery/engine/renderer"
)

// SceneBuilderOption is a functional option for configuring a Scene.
// Use the With* functions to create options.
type SceneBuilderOption func(s *scene)

// WithBodies replaces the default body table.
//
// Parameters:
//   - specs: the bodies to build, each orbit parent present in the table
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithBodies(specs []body.Spec) SceneBuilderOption {
	return func(s *scene) {
		s.specs = specs
	}
}

// WithRenderers registers renderers that receive every presented frame.
//
// Parameters:
//   - renderers: the renderers
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithRenderers(renderers ...renderer.Renderer) SceneBuilderOption {
	return func(s *scene) {
		for _, r := range renderers {
			if r != nil {
				s.renderers = append(s.renderers, r)
			}
		}
	}
}

// WithPresentWorkers sets the number of worker goroutines used to hand frames to renderers
// when more than one is registered. Defaults to runtime.NumCPU()-1.
//
// Parameters:
//   - n: the number of workers (minimum 1)
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithPresentWorkers(n int) SceneBuilderOption {
	return func(s *scene) {
		if n < 1 {
			n = 1
		}
		s.presentWorkers = n
	}
}

// WithCullingDisabled disables frustum visibility tests. When set to true every drawable is
// reported visible. By default culling is enabled (disabled = false).
//
// Parameters:
//   - disabled: true to disable frustum culling, false to enable it (default)
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithCullingDisabled(disabled bool) SceneBuilderOption {
	return func(s *scene) {
		s.cullingDisabled = disabled
	}
}

// WithLogger sets the scene's logger.
//
// Parameters:
//   - logger: the structured logger
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithLogger(logger *slog.Logger) SceneBuilderOption {
	return func(s *scene) {
		if logger != nil {
			s.logger = logger
		}
	}
}
