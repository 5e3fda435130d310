package input

import "log/slog"

// RouterBuilderOption is a functional option for configuring a Router.
type RouterBuilderOption func(r *router)

// WithBindings replaces the default key bindings.
//
// Parameters:
//   - b: the key map
//
// Returns:
//   - RouterBuilderOption: option function to apply
func WithBindings(b Bindings) RouterBuilderOption {
	return func(r *router) {
		if b != nil {
			r.bindings = b
		}
	}
}

// WithViewport sets the initial canvas size used to normalize drags.
//
// Parameters:
//   - width, height: canvas size in pixels
//
// Returns:
//   - RouterBuilderOption: option function to apply
func WithViewport(width, height int) RouterBuilderOption {
	return func(r *router) {
		if width > 0 && height > 0 {
			r.width, r.height = float64(width), float64(height)
		}
	}
}

// WithLogger sets the router's logger.
//
// Parameters:
//   - logger: the structured logger
//
// Returns:
//   - RouterBuilderOption: option function to apply
func WithLogger(logger *slog.Logger) RouterBuilderOption {
	return func(r *router) {
		if logger != nil {
			r.logger = logger
		}
	}
}
