// Package animator advances the orrery's orbits and spins once per animation tick and
// drives the cosmetic shine scalar fed to the sun's material.
package animator

import (
	"log/slog"
	"sync"

	"github.com/Carmen-Shannon/orrery/common"
)

const (
	// DefaultBaseRevolution is the Earth-year revolution rate in degrees per tick.
	DefaultBaseRevolution float32 = 1

	// DefaultBaseRotation is the Earth-day rotation rate in degrees per tick.
	DefaultBaseRotation float32 = 365
)

// Transformable is anything holding a local transform the animator can spin.
// Scene graph nodes satisfy it.
type Transformable interface {
	LocalTransform() [16]float32
	SetLocalTransform(m [16]float32)
}

// Target pairs a body's orbit node and body node with their rate factors.
// Either node may be nil; the sun has no orbit to revolve.
type Target struct {
	Name string

	Orbit            Transformable
	RevolutionFactor float32

	Body           Transformable
	RotationFactor float32
}

// Animator advances orbit revolutions and body rotations.
// Revolution and rotation only run while the animator is enabled; the shine always runs.
// Thread-safe for concurrent access.
type Animator interface {
	// Tick advances one animation step. Every enabled orbit local transform is left-multiplied
	// by a Y rotation of RevolutionFactor × base revolution × multiplier degrees, and every body
	// local transform by RotationFactor × base rotation × multiplier degrees.
	Tick()

	// Enabled reports whether revolution and rotation are running.
	Enabled() bool

	// SetEnabled starts or stops revolution and rotation.
	//
	// Parameters:
	//   - enabled: true to animate orbits and spins
	SetEnabled(enabled bool)

	// Toggle flips the enabled flag.
	//
	// Returns:
	//   - bool: the new enabled state
	Toggle() bool

	// SpeedMultiplier returns the factor applied to both base rates.
	SpeedMultiplier() float32

	// SetSpeedMultiplier rescales both the revolution and rotation base rates.
	// Negative values are clamped to 0.
	//
	// Parameters:
	//   - v: the new multiplier, 1 for the default speed
	SetSpeedMultiplier(v float32)

	// SetBaseRates replaces the per-tick Earth-year and Earth-day rates.
	//
	// Parameters:
	//   - revolution: degrees per tick for RevolutionFactor 1
	//   - rotation: degrees per tick for RotationFactor 1
	SetBaseRates(revolution, rotation float32)

	// Shine returns the current shine scalar.
	Shine() float32

	// Ticks returns the number of Tick calls so far.
	Ticks() uint64
}

// animator is the implementation of the Animator interface.
type animator struct {
	mu *sync.Mutex

	targets []Target
	logger  *slog.Logger

	enabled        bool
	multiplier     float32
	baseRevolution float32
	baseRotation   float32

	shine *Shine
	ticks uint64
}

var _ Animator = &animator{}

// NewAnimator creates an enabled Animator spinning the given targets at the default rates.
//
// Parameters:
//   - targets: the orbit/body pairs to animate
//   - options: functional options to configure the animator
//
// Returns:
//   - Animator: the newly created animator
func NewAnimator(targets []Target, options ...AnimatorBuilderOption) Animator {
	a := &animator{
		mu:             &sync.Mutex{},
		targets:        targets,
		logger:         slog.Default(),
		enabled:        true,
		multiplier:     1,
		baseRevolution: DefaultBaseRevolution,
		baseRotation:   DefaultBaseRotation,
		shine:          NewShine(DefaultShineMin, DefaultShineMax, DefaultShineStep, DefaultShineValue),
	}

	for _, option := range options {
		option(a)
	}
	return a
}

func (a *animator) Tick() {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.ticks++
	a.shine.Advance()
	if !a.enabled {
		return
	}

	rev := a.baseRevolution * a.multiplier
	rot := a.baseRotation * a.multiplier
	for _, t := range a.targets {
		if t.Orbit != nil && t.RevolutionFactor != 0 {
			spin(t.Orbit, t.RevolutionFactor*rev)
		}
		if t.Body != nil && t.RotationFactor != 0 {
			spin(t.Body, t.RotationFactor*rot)
		}
	}
}

// spin left-multiplies the target's local transform by a Y rotation of deg degrees.
func spin(t Transformable, deg float32) {
	var r, out [16]float32
	common.RotationY4(r[:], common.DegToRad(deg))
	local := t.LocalTransform()
	common.Mul4(out[:], r[:], local[:])
	t.SetLocalTransform(out)
}

func (a *animator) Enabled() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.enabled
}

func (a *animator) SetEnabled(enabled bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.enabled = enabled
}

func (a *animator) Toggle() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.enabled = !a.enabled
	a.logger.Debug("animation toggled", slog.Bool("enabled", a.enabled))
	return a.enabled
}

func (a *animator) SpeedMultiplier() float32 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.multiplier
}

func (a *animator) SetSpeedMultiplier(v float32) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.multiplier = max(v, 0)
}

func (a *animator) SetBaseRates(revolution, rotation float32) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.baseRevolution = revolution
	a.baseRotation = rotation
}

func (a *animator) Shine() float32 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.shine.Value()
}

func (a *animator) Ticks() uint64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.ticks
}
