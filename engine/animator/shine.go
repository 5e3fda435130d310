package animator

import "github.com/Carmen-Shannon/orrery/common"

const (
	DefaultShineValue float32 = 0.1
	DefaultShineMin   float32 = 0
	DefaultShineMax   float32 = 0.2
	DefaultShineStep  float32 = 0.001
)

// Shine is a scalar that ping-pongs between two bounds. Each step moves it by
// step·(1 + value/max·2), so it speeds up toward the top of the range.
// Not safe for concurrent use; the Animator guards its own instance.
type Shine struct {
	value      float32
	min, max   float32
	step       float32
	increasing bool
}

// NewShine creates a Shine starting at value and initially increasing.
// value is clamped into [lo, hi].
//
// Parameters:
//   - lo: lower bound
//   - hi: upper bound, must be greater than zero
//   - step: base increment per Advance
//   - value: starting value
//
// Returns:
//   - *Shine: the new oscillator
func NewShine(lo, hi, step, value float32) *Shine {
	if hi < lo {
		lo, hi = hi, lo
	}
	return &Shine{
		value:      common.Clamp(value, lo, hi),
		min:        lo,
		max:        hi,
		step:       step,
		increasing: true,
	}
}

// Advance moves the value one step and reverses direction at either bound.
//
// Returns:
//   - float32: the new value
func (s *Shine) Advance() float32 {
	delta := s.step
	if s.max != 0 {
		delta *= 1 + s.value/s.max*2
	}

	if s.increasing {
		s.value += delta
		if s.value >= s.max {
			s.value = s.max
			s.increasing = false
		}
	} else {
		s.value -= delta
		if s.value <= s.min {
			s.value = s.min
			s.increasing = true
		}
	}
	return s.value
}

// Value returns the current value.
func (s *Shine) Value() float32 {
	return s.value
}

// Increasing reports the current direction.
func (s *Shine) Increasing() bool {
	return s.increasing
}
