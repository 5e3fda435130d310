package renderer

import (
	"log/slog"

	"github.com/cogentcore/webgpu/wgpu"
)

// RendererBuilderOption is a functional option applied to a renderer during construction via NewRenderer.
type RendererBuilderOption func(*renderer)

// WithLogger sets the logger used by the log backend.
//
// Parameters:
//   - logger: the structured logger
//
// Returns:
//   - RendererBuilderOption: a function that applies the logger option to a renderer
func WithLogger(logger *slog.Logger) RendererBuilderOption {
	return func(r *renderer) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithLogEvery sets how often the log backend writes a frame summary.
// A value of 1 logs every frame. Defaults to 60.
//
// Parameters:
//   - n: frame interval between summaries
//
// Returns:
//   - RendererBuilderOption: a function that applies the interval option to a renderer
func WithLogEvery(n uint64) RendererBuilderOption {
	return func(r *renderer) {
		r.logEvery = n
	}
}

// WithSize sets the initial surface size reported by Size.
//
// Parameters:
//   - width: surface width in pixels
//   - height: surface height in pixels
//
// Returns:
//   - RendererBuilderOption: a function that applies the size option to a renderer
func WithSize(width, height int) RendererBuilderOption {
	return func(r *renderer) {
		r.width, r.height = width, height
	}
}

// WithSurface sets the window surface the wgpu backend presents to.
// Ignored by the other backends.
//
// Parameters:
//   - surface: the platform surface descriptor from the window
//
// Returns:
//   - RendererBuilderOption: a function that applies the surface option to a renderer
func WithSurface(surface *wgpu.SurfaceDescriptor) RendererBuilderOption {
	return func(r *renderer) {
		r.surface = surface
	}
}
