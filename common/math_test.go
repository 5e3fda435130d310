package common

import (
	"testing"

	"github.com/chewxy/math32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func assertMat4(t *testing.T, want, got [16]float32, delta float64) {
	t.Helper()
	for i := range want {
		assert.InDelta(t, want[i], got[i], delta, "element %d", i)
	}
}

func TestMul4Identity(t *testing.T) {
	var m [16]float32
	Translation4(m[:], 1, 2, 3)
	id := IdentityMatrix()

	var out [16]float32
	Mul4(out[:], id[:], m[:])
	assert.Equal(t, m, out)
	Mul4(out[:], m[:], id[:])
	assert.Equal(t, m, out)
}

func TestRotationY4MatchesRotateVector3(t *testing.T) {
	var r [16]float32
	RotationY4(r[:], DegToRad(30))
	got := MulVec4(r[:], [4]float32{0, 0, 1, 1})
	want := RotateVector3([3]float32{0, 0, 1}, 30, 0, 1)
	assertVec3(t, want, [3]float32{got[0], got[1], got[2]}, 1e-6)
}

func TestTranslationOfComposed(t *testing.T) {
	var r, tr, world [16]float32
	RotationY4(r[:], math32.Pi/2)
	Translation4(tr[:], 10, 0, 0)
	Mul4(world[:], r[:], tr[:])

	assertVec3(t, [3]float32{0, 0, -10}, TranslationOf(world[:]), 1e-5)
}

func TestNormalMatrix3(t *testing.T) {
	var r [16]float32
	RotationY4(r[:], DegToRad(40))
	n, ok := NormalMatrix3(r[:])
	require.True(t, ok)
	assert.InDelta(t, r[0], n[0], 1e-6)
	assert.InDelta(t, r[2], n[2], 1e-6)
	assert.InDelta(t, r[8], n[6], 1e-6)

	var s [16]float32
	Scale4(s[:], 2)
	n, ok = NormalMatrix3(s[:])
	require.True(t, ok)
	assertVec3(t, [3]float32{0.5, 0, 0}, MulVec3Mat3(n, [3]float32{1, 0, 0}), 1e-6)

	var zero [16]float32
	_, ok = NormalMatrix3(zero[:])
	assert.False(t, ok)
}

func TestInvert4(t *testing.T) {
	var r, tr, m, inv, out [16]float32
	RotationY4(r[:], 0.7)
	Translation4(tr[:], 3, -2, 5)
	Mul4(m[:], tr[:], r[:])

	require.True(t, Invert4(inv[:], m[:]))
	Mul4(out[:], m[:], inv[:])
	assertMat4(t, IdentityMatrix(), out, 1e-5)
}

func TestLookAtMovesEyeToOrigin(t *testing.T) {
	var view [16]float32
	eye := [3]float32{0, 50, 0}
	LookAt(view[:], eye, [3]float32{}, [3]float32{0, 0, 1})
	got := MulVec4(view[:], [4]float32{eye[0], eye[1], eye[2], 1})
	assertVec3(t, [3]float32{}, [3]float32{got[0], got[1], got[2]}, 1e-5)

	// The target sits straight ahead on -Z in view space.
	got = MulVec4(view[:], [4]float32{0, 0, 0, 1})
	assertVec3(t, [3]float32{0, 0, -50}, [3]float32{got[0], got[1], got[2]}, 1e-4)
}

func TestFrustumContainsSphere(t *testing.T) {
	var proj, view, vp [16]float32
	Perspective(proj[:], DegToRad(60), 1, 1, 2000)
	LookAt(view[:], [3]float32{0, 0, 10}, [3]float32{}, [3]float32{0, 1, 0})
	Mul4(vp[:], proj[:], view[:])

	f := ExtractFrustumFromMatrix(vp[:])
	assert.True(t, f.ContainsSphere([3]float32{0, 0, 0}, 1))
	assert.False(t, f.ContainsSphere([3]float32{0, 0, 50}, 1), "behind the camera")
	assert.False(t, f.ContainsSphere([3]float32{500, 0, 0}, 1), "far to the side")
	assert.True(t, f.ContainsSphere([3]float32{0, 0, 50}, 45), "large sphere reaching into view")
}

func TestMaxScale(t *testing.T) {
	var s, r, m [16]float32
	Scale4(s[:], 3)
	RotationY4(r[:], 1.1)
	Mul4(m[:], r[:], s[:])
	assert.InDelta(t, 3, MaxScale(m[:]), 1e-5)
	id := IdentityMatrix()
	assert.InDelta(t, 1, MaxScale(id[:]), 1e-6)
}
