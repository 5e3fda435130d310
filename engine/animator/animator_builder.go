package animator

import "log/slog"

// AnimatorBuilderOption is a functional option for configuring an Animator.
type AnimatorBuilderOption func(a *animator)

// WithEnabled sets whether revolution and rotation run from the first tick.
//
// Parameters:
//   - enabled: initial enabled state
//
// Returns:
//   - AnimatorBuilderOption: option function to apply
func WithEnabled(enabled bool) AnimatorBuilderOption {
	return func(a *animator) {
		a.enabled = enabled
	}
}

// WithSpeedMultiplier sets the initial speed multiplier. Negative values become 0.
//
// Parameters:
//   - v: initial multiplier
//
// Returns:
//   - AnimatorBuilderOption: option function to apply
func WithSpeedMultiplier(v float32) AnimatorBuilderOption {
	return func(a *animator) {
		a.multiplier = max(v, 0)
	}
}

// WithBaseRates sets the Earth-year and Earth-day rates in degrees per tick.
//
// Parameters:
//   - revolution: degrees per tick for RevolutionFactor 1
//   - rotation: degrees per tick for RotationFactor 1
//
// Returns:
//   - AnimatorBuilderOption: option function to apply
func WithBaseRates(revolution, rotation float32) AnimatorBuilderOption {
	return func(a *animator) {
		a.baseRevolution = revolution
		a.baseRotation = rotation
	}
}

// WithShine replaces the default shine oscillator.
//
// Parameters:
//   - s: the oscillator to drive
//
// Returns:
//   - AnimatorBuilderOption: option function to apply
func WithShine(s *Shine) AnimatorBuilderOption {
	return func(a *animator) {
		if s != nil {
			a.shine = s
		}
	}
}

// WithLogger sets the animator's logger.
//
// Parameters:
//   - logger: the structured logger
//
// Returns:
//   - AnimatorBuilderOption: option function to apply
func WithLogger(logger *slog.Logger) AnimatorBuilderOption {
	return func(a *animator) {
		if logger != nil {
			a.logger = logger
		}
	}
}
