package xrmath

import "math"

// Quat is a rotation quaternion.
type Quat struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
	W float64 `json:"w"`
}

// QuatIdentity returns the identity rotation.
func QuatIdentity() Quat { return Quat{W: 1} }

// QuatFromSlice reads x, y, z, w starting at offset. Anything shorter than
// four components yields the identity rotation.
func QuatFromSlice(s []float64, offset int) Quat {
	if len(s) < offset+4 {
		return QuatIdentity()
	}
	return Quat{X: s[offset], Y: s[offset+1], Z: s[offset+2], W: s[offset+3]}
}

// QuatFromAxisAngle builds a rotation of angle radians around a normalized axis.
func QuatFromAxisAngle(axis Vec3, angle float64) Quat {
	s, c := math.Sincos(angle / 2)
	return Quat{X: axis.X * s, Y: axis.Y * s, Z: axis.Z * s, W: c}
}

// QuatFromEuler converts an XYZ Euler rotation.
func QuatFromEuler(e Euler) Quat {
	s1, c1 := math.Sincos(e.X / 2)
	s2, c2 := math.Sincos(e.Y / 2)
	s3, c3 := math.Sincos(e.Z / 2)
	return Quat{
		X: s1*c2*c3 + c1*s2*s3,
		Y: c1*s2*c3 - s1*c2*s3,
		Z: c1*c2*s3 + s1*s2*c3,
		W: c1*c2*c3 - s1*s2*s3,
	}
}

// Mul returns q*o, the rotation o followed by q.
func (q Quat) Mul(o Quat) Quat {
	return Quat{
		X: q.X*o.W + q.W*o.X + q.Y*o.Z - q.Z*o.Y,
		Y: q.Y*o.W + q.W*o.Y + q.Z*o.X - q.X*o.Z,
		Z: q.Z*o.W + q.W*o.Z + q.X*o.Y - q.Y*o.X,
		W: q.W*o.W - q.X*o.X - q.Y*o.Y - q.Z*o.Z,
	}
}

// Normalize returns q scaled to unit length. The zero quaternion becomes the
// identity.
func (q Quat) Normalize() Quat {
	l := math.Sqrt(q.X*q.X + q.Y*q.Y + q.Z*q.Z + q.W*q.W)
	if l == 0 {
		return QuatIdentity()
	}
	return Quat{q.X / l, q.Y / l, q.Z / l, q.W / l}
}

// Yaw returns the heading of q about +Y, taken from where it points the -Z
// forward axis. Pitch and roll do not change it.
func (q Quat) Yaw() float64 {
	f := Vec3{Z: -1}.ApplyQuat(q)
	return math.Atan2(-f.X, -f.Z)
}

// quatFromRotation extracts a rotation from the upper 3x3 of a pure rotation
// matrix.
func quatFromRotation(m Mat4) Quat {
	m11, m12, m13 := m[0], m[4], m[8]
	m21, m22, m23 := m[1], m[5], m[9]
	m31, m32, m33 := m[2], m[6], m[10]

	trace := m11 + m22 + m33
	switch {
	case trace > 0:
		s := 0.5 / math.Sqrt(trace+1)
		return Quat{W: 0.25 / s, X: (m32 - m23) * s, Y: (m13 - m31) * s, Z: (m21 - m12) * s}
	case m11 > m22 && m11 > m33:
		s := 2 * math.Sqrt(1+m11-m22-m33)
		return Quat{W: (m32 - m23) / s, X: 0.25 * s, Y: (m12 + m21) / s, Z: (m13 + m31) / s}
	case m22 > m33:
		s := 2 * math.Sqrt(1+m22-m11-m33)
		return Quat{W: (m13 - m31) / s, X: (m12 + m21) / s, Y: 0.25 * s, Z: (m23 + m32) / s}
	default:
		s := 2 * math.Sqrt(1+m33-m11-m22)
		return Quat{W: (m21 - m12) / s, X: (m13 + m31) / s, Y: (m23 + m32) / s, Z: 0.25 * s}
	}
}
