package camera

const (
	DefaultFov      float32 = 60
	DefaultDistance float32 = 50
	DefaultNear     float32 = 1
	DefaultFar      float32 = 2000

	DefaultStep   float32 = 0.5
	StepIncrement float32 = 0.5
	MinStep       float32 = 0.5

	DefaultAngleStep   float32 = 5
	DefaultDragScale   float32 = 30
	DefaultWheelFactor float32 = 5
	DefaultDrainRate   float32 = 0.25
	DefaultEpsilon     float32 = 1e-3
)

// Limits are the bounds the controller clamps its state to after every mutation.
type Limits struct {
	FovMin, FovMax float32

	DistanceMin, DistanceMax float32

	// ZoomPrecision is the free-mode distance above which zoom speeds up proportionally.
	ZoomPrecision float32

	// TargetMin and TargetMax bound the target's x and z independently.
	TargetMin, TargetMax float32

	FreePitchMin, FreePitchMax         float32
	AnchoredPitchMin, AnchoredPitchMax float32
}

// DefaultLimits returns the stock camera bounds.
func DefaultLimits() Limits {
	return Limits{
		FovMin:           10,
		FovMax:           160,
		DistanceMin:      5,
		DistanceMax:      600,
		ZoomPrecision:    100,
		TargetMin:        -600,
		TargetMax:        600,
		FreePitchMin:     0,
		FreePitchMax:     85,
		AnchoredPitchMin: -45,
		AnchoredPitchMax: 45,
	}
}

// Tuning holds the controller's feel constants. It can be replaced at runtime.
type Tuning struct {
	// DrainRate is the fraction of each input buffer applied per update, in (0, 1].
	DrainRate float32

	// Epsilon is the magnitude below which a buffer is applied in full and cleared.
	Epsilon float32

	// WheelFactor converts one wheel unit into zoom units.
	WheelFactor float32

	// DragScale converts a full-viewport drag into degrees (anchored) or pan units (free).
	DragScale float32

	// AngleStep is the yaw/pitch change per rotate key press in degrees.
	AngleStep float32

	Limits Limits
}

// DefaultTuning returns the stock tuning.
func DefaultTuning() Tuning {
	return Tuning{
		DrainRate:   DefaultDrainRate,
		Epsilon:     DefaultEpsilon,
		WheelFactor: DefaultWheelFactor,
		DragScale:   DefaultDragScale,
		AngleStep:   DefaultAngleStep,
		Limits:      DefaultLimits(),
	}
}

// Normalized repairs out-of-range tuning values instead of rejecting them.
func (t Tuning) Normalized() Tuning {
	d := DefaultTuning()
	if t.DrainRate <= 0 || t.DrainRate > 1 {
		t.DrainRate = d.DrainRate
	}
	if t.Epsilon < 0 {
		t.Epsilon = d.Epsilon
	}
	l := &t.Limits
	if l.FovMin <= 0 || l.FovMax <= l.FovMin || l.FovMax >= 180 {
		l.FovMin, l.FovMax = d.Limits.FovMin, d.Limits.FovMax
	}
	if l.DistanceMin <= 0 || l.DistanceMax <= l.DistanceMin {
		l.DistanceMin, l.DistanceMax = d.Limits.DistanceMin, d.Limits.DistanceMax
	}
	if l.ZoomPrecision <= 0 {
		l.ZoomPrecision = d.Limits.ZoomPrecision
	}
	if l.TargetMax < l.TargetMin {
		l.TargetMin, l.TargetMax = l.TargetMax, l.TargetMin
	}
	if l.FreePitchMax < l.FreePitchMin {
		l.FreePitchMin, l.FreePitchMax = d.Limits.FreePitchMin, d.Limits.FreePitchMax
	}
	if l.AnchoredPitchMax < l.AnchoredPitchMin {
		l.AnchoredPitchMin, l.AnchoredPitchMax = d.Limits.AnchoredPitchMin, d.Limits.AnchoredPitchMax
	}
	return t
}
