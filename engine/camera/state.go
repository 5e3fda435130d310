package camera

import (
	"fmt"
	"strings"

	"github.com/Carmen-Shannon/orrery/engine/body"
)

// Mode is the controller's camera mode. Exactly one is active at a time.
type Mode int

const (
	// ModeFree orbits a target on the X-Z plane; pan and distance zoom are available.
	ModeFree Mode = iota

	// ModeAnchoredOrbit rides along with a body; drag and keys rotate the look direction.
	ModeAnchoredOrbit

	// ModeAnchoredFixedTarget rides along with a body while facing another body.
	ModeAnchoredFixedTarget
)

func (m Mode) String() string {
	switch m {
	case ModeFree:
		return "free"
	case ModeAnchoredOrbit:
		return "anchored"
	case ModeAnchoredFixedTarget:
		return "anchored_fixed_target"
	default:
		return "unknown"
	}
}

// State is a read-only snapshot of the camera controller.
type State struct {
	Position [3]float32
	Target   [3]float32
	Up       [3]float32

	Fov        float32
	DefaultFov float32
	ZoomBand   int
	Distance   float32

	Yaw      float32
	Pitch    float32
	PitchMin float32
	PitchMax float32

	Mode        Mode
	Anchored    body.ID
	FixedTarget body.ID

	Near float32
	Far  float32

	Step   float32
	Moving bool
}

// String renders the snapshot as labeled fields, one per line, for the debug panel.
func (s State) String() string {
	var b strings.Builder
	line := func(label string, v float32) {
		fmt.Fprintf(&b, "%s: %.2f\n", label, v)
	}
	for i, axis := range []string{"x", "y", "z"} {
		line("c"+axis, s.Position[i])
	}
	for i, axis := range []string{"x", "y", "z"} {
		line("t"+axis, s.Target[i])
	}
	for i, axis := range []string{"x", "y", "z"} {
		line("u"+axis, s.Up[i])
	}
	line("fov", s.Fov)
	fmt.Fprintf(&b, "step: %.1f\n", s.Step)
	fmt.Fprintf(&b, "zoom band: %d\n", s.ZoomBand)
	line("distance", s.Distance)
	line("yaw angle", s.Yaw)
	line("pitch angle", s.Pitch)
	fmt.Fprintf(&b, "moving: %t\n", s.Moving)
	fmt.Fprintf(&b, "mode: %s\n", s.Mode)
	fmt.Fprintf(&b, "anchored: %s\n", s.Anchored)
	fmt.Fprintf(&b, "look at: %s", s.FixedTarget)
	return b.String()
}

// InputBuffers hold input not yet applied to the camera. They drain a fraction per update.
type InputBuffers struct {
	Track float32
	Crane float32
	Zoom  float32
	Yaw   float32
	Pitch float32
}

// Reset zeroes every buffer.
func (b *InputBuffers) Reset() {
	*b = InputBuffers{}
}

// Empty reports whether every buffer is zero.
func (b InputBuffers) Empty() bool {
	return b == InputBuffers{}
}
