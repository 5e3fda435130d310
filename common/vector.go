package common

import (
	"errors"

	"github.com/chewxy/math32"
)

// ErrInvalidInput is returned by angle computations handed a zero-length vector,
// for which no angle is defined.
var ErrInvalidInput = errors.New("invalid input: zero-length vector")

// DegToRad converts degrees to radians.
func DegToRad(deg float32) float32 {
	return deg * math32.Pi / 180
}

// RadToDeg converts radians to degrees.
func RadToDeg(rad float32) float32 {
	return rad * 180 / math32.Pi
}

// RotateVector3 rotates v about the X axis by pitch degrees, then rotates the
// result about the Y axis by yaw degrees, then scales it. The order is fixed:
// pitch first, yaw second.
//
// Parameters:
//   - v: the vector to rotate
//   - yaw: horizontal rotation about Y in degrees
//   - pitch: vertical rotation about X in degrees
//   - scale: factor applied to the rotated vector
//
// Returns:
//   - [3]float32: the rotated and scaled vector
func RotateVector3(v [3]float32, yaw, pitch, scale float32) [3]float32 {
	pitchSin, pitchCos := math32.Sincos(DegToRad(pitch))
	yawSin, yawCos := math32.Sincos(DegToRad(yaw))

	z1 := pitchCos*v[2] - pitchSin*v[1]
	y := pitchSin*v[2] + pitchCos*v[1]

	z := yawCos*z1 - yawSin*v[0]
	x := yawSin*z1 + yawCos*v[0]

	return [3]float32{x * scale, y * scale, z * scale}
}

// RotateVector2 rotates v counter-clockwise by angle degrees and scales it.
// Used for movement in the X-Z plane, with v[0] = x and v[1] = z.
//
// Parameters:
//   - v: the vector to rotate
//   - angle: rotation angle in degrees
//   - scale: factor applied to the rotated vector
//
// Returns:
//   - [2]float32: the rotated and scaled vector
func RotateVector2(v [2]float32, angle, scale float32) [2]float32 {
	sin, cos := math32.Sincos(DegToRad(angle))
	return [2]float32{
		(cos*v[0] - sin*v[1]) * scale,
		(sin*v[0] + cos*v[1]) * scale,
	}
}

// AddVectors2 returns the component-wise sum of two 2D vectors.
func AddVectors2(a, b [2]float32) [2]float32 {
	return [2]float32{a[0] + b[0], a[1] + b[1]}
}

// AddVectors3 returns the component-wise sum of two 3D vectors.
func AddVectors3(a, b [3]float32) [3]float32 {
	return [3]float32{a[0] + b[0], a[1] + b[1], a[2] + b[2]}
}

// AngleBetween returns the unsigned angle between two 2D vectors in radians, in [0, π].
//
// Parameters:
//   - v1, v2: the vectors to compare
//
// Returns:
//   - float32: the angle in radians
//   - error: ErrInvalidInput if either vector has zero length
func AngleBetween(v1, v2 [2]float32) (float32, error) {
	m1 := math32.Sqrt(v1[0]*v1[0] + v1[1]*v1[1])
	m2 := math32.Sqrt(v2[0]*v2[0] + v2[1]*v2[1])
	if m1 == 0 || m2 == 0 {
		return 0, ErrInvalidInput
	}
	cos := (v1[0]*v2[0] + v1[1]*v2[1]) / (m1 * m2)
	return math32.Acos(Clamp(cos, -1, 1)), nil
}

// AngleFromHorizontalAxis returns the angle of v measured from the [1, 0] axis,
// in [0, 2π). Vectors with a negative second component map to the upper half of the range.
//
// Parameters:
//   - v: the vector to measure
//
// Returns:
//   - float32: the angle in radians
//   - error: ErrInvalidInput if v has zero length
func AngleFromHorizontalAxis(v [2]float32) (float32, error) {
	angle, err := AngleBetween(v, [2]float32{1, 0})
	if err != nil {
		return 0, err
	}
	if v[1] < 0 && angle != 0 {
		angle = 2*math32.Pi - angle
	}
	return angle, nil
}
