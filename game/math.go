package game

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

var (
	Up      = mgl32.Vec3{0, 1, 0}
	Forward = mgl32.Vec3{0, 0, -1}
)

// Float32ApproxEq determines whether two floating point numbers are close enough to each other
// by a threshold of 1e-5.
func Float32ApproxEq(a, b float32) bool {
	return math32.Abs(a-b) <= 1e-5
}

// Vec3ApproxEq ...
func Vec3ApproxEq(a, b mgl32.Vec3) bool {
	return Float32ApproxEq(a[0], b[0]) && Float32ApproxEq(a[1], b[1]) && Float32ApproxEq(a[2], b[2])
}

// ClampFloat clamps num between min and max.
func ClampFloat(num, min, max float32) float32 {
	if num < min {
		return min
	} else if num > max {
		return max
	}
	return num
}

// WrapYawDelta wraps a yaw difference into the [-180, 180] range.
func WrapYawDelta(delta float32) float32 {
	if delta > 180 {
		delta -= 360
	} else if delta < -180 {
		delta += 360
	}
	return delta
}

// Vec3HzDistSqr returns the squared horizontal distance in a vector.
func Vec3HzDistSqr(vec3 mgl32.Vec3) float32 {
	return vec3.X()*vec3.X() + vec3.Z()*vec3.Z()
}

// RotationYXZ returns the rotation of yaw about Y, then pitch about X, then roll about Z.
// All angles are in radians.
func RotationYXZ(yaw, pitch, roll float32) mgl32.Quat {
	return mgl32.QuatRotate(yaw, mgl32.Vec3{0, 1, 0}).
		Mul(mgl32.QuatRotate(pitch, mgl32.Vec3{1, 0, 0})).
		Mul(mgl32.QuatRotate(roll, mgl32.Vec3{0, 0, 1}))
}

// YawRotation returns the rotation about Y for a yaw in degrees.
func YawRotation(yaw float32) mgl32.Quat {
	return mgl32.QuatRotate(mgl32.DegToRad(yaw), Up)
}

// Angle returns the angle between two vectors in radians. It returns 0 if either vector
// has no length.
func Angle(a, b mgl32.Vec3) float32 {
	l := a.Len() * b.Len()
	if l < Epsilon {
		return 0
	}
	return math32.Acos(ClampFloat(a.Dot(b)/l, -1, 1))
}

// Reflect reflects the direction passed about the normal.
func Reflect(dir, normal mgl32.Vec3) mgl32.Vec3 {
	return dir.Sub(normal.Mul(2 * dir.Dot(normal)))
}

// Perpendicular returns the component of v perpendicular to the normal.
func Perpendicular(v, normal mgl32.Vec3) mgl32.Vec3 {
	return v.Sub(normal.Mul(v.Dot(normal)))
}

// SafeNormalize normalizes v, returning the zero vector and false if v is too short.
func SafeNormalize(v mgl32.Vec3) (mgl32.Vec3, bool) {
	l := v.Len()
	if l < Epsilon || math32.IsNaN(l) || math32.IsInf(l, 0) {
		return mgl32.Vec3{}, false
	}
	return v.Mul(1 / l), true
}
