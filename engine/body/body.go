// Package body describes the celestial bodies of the orrery: their identity,
// their place in the orbit hierarchy and the stylized constants that drive them.
package body

import "fmt"

// ID identifies a celestial body. Values double as stable indices into the
// default body table and into UI selection lists.
type ID int

const (
	Sun ID = iota
	Mercury
	Venus
	Earth
	Moon
	Mars
	Jupiter
	Saturn
	Uranus
	Neptune

	count
)

// None marks the absence of a body, e.g. an unset anchor or lock target.
const None ID = -1

// DistanceUnit is the orbit radius of Mercury; every other orbit is a multiple of it.
const DistanceUnit float32 = 6

var names = [count]string{
	"sun", "mercury", "venus", "earth", "moon",
	"mars", "jupiter", "saturn", "uranus", "neptune",
}

// All lists every body in index order.
var All = []ID{Sun, Mercury, Venus, Earth, Moon, Mars, Jupiter, Saturn, Uranus, Neptune}

// Valid reports whether id names a known body.
func (id ID) Valid() bool {
	return id >= 0 && id < count
}

func (id ID) String() string {
	if !id.Valid() {
		if id == None {
			return "none"
		}
		return fmt.Sprintf("body(%d)", int(id))
	}
	return names[id]
}

// Parse resolves a body name (as produced by String) to its ID.
//
// Parameters:
//   - name: lower-case body name
//
// Returns:
//   - ID: the matching body
//   - error: non-nil if no body has that name
func Parse(name string) (ID, error) {
	for i, n := range names {
		if n == name {
			return ID(i), nil
		}
	}
	return None, fmt.Errorf("unknown body %q", name)
}

// Spec holds the fixed per-body constants. Rates are multiples of the Earth
// baseline: RevolutionFactor of the Earth-year rate, RotationFactor of the
// Earth-day rate.
type Spec struct {
	ID   ID
	Name string

	// OrbitParent is the body whose node the orbit hangs from. None means the
	// shared sun orbit root.
	OrbitParent ID

	OrbitRadius      float32
	Scale            float32
	RevolutionFactor float32
	RotationFactor   float32

	// AnchorOffset is the distance from the orbit origin used when anchoring
	// the camera, independent of the transform graph.
	AnchorOffset float32

	MaterialColor [3]float32
	Emissive      bool
}

// DefaultSpecs returns the solar-system table in index order. The returned
// slice is freshly allocated and may be modified by the caller.
func DefaultSpecs() []Spec {
	const d = DistanceUnit
	grey := [3]float32{0.5, 0.5, 0.5}

	planet := func(id ID, radius, scale, rev, rot float32) Spec {
		return Spec{
			ID:               id,
			Name:             id.String(),
			OrbitParent:      None,
			OrbitRadius:      radius,
			Scale:            scale,
			RevolutionFactor: rev,
			RotationFactor:   rot,
			AnchorOffset:     radius,
			MaterialColor:    grey,
		}
	}

	sun := planet(Sun, 0, 1, 0, 0.05/365)
	sun.MaterialColor = [3]float32{0.6, 0.6, 0.0}
	sun.Emissive = true

	earth := planet(Earth, 2.82*d, 1, 1, 1)
	earth.MaterialColor = [3]float32{0.5, 0.5, 0.8}

	moon := planet(Moon, 0.4*d, 0.27, 0.6, -0.1/365)
	moon.OrbitParent = Earth

	return []Spec{
		sun,
		planet(Mercury, d, 0.38, 1/0.24, 1/58.6),
		planet(Venus, 2.07*d, 0.948, 1/0.615, 1/243.0),
		earth,
		moon,
		planet(Mars, 4.17*d, 0.53, 1/1.88, 1/1.03),
		planet(Jupiter, 14.76*d, 11.2, 1/11.86, 1/0.41),
		planet(Saturn, 27.34*d, 9.4, 1/29.46, 1/0.45),
		planet(Uranus, 52.72*d, 4.07, 1/84.01, 1/0.72),
		planet(Neptune, 86.76*d, 3.79, 1/164.79, 1/0.67),
	}
}
