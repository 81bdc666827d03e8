package xrmath

import "math"

// Euler is an XYZ-order rotation in radians.
type Euler struct {
	X, Y, Z float64
}

// DegToRad converts degrees to radians.
func DegToRad(deg float64) float64 { return deg * math.Pi / 180 }

// RadToDeg converts radians to degrees.
func RadToDeg(rad float64) float64 { return rad * 180 / math.Pi }

// EulerDeg builds a rotation from degrees, the unit used at the entity
// attribute boundary.
func EulerDeg(x, y, z float64) Euler {
	return Euler{X: DegToRad(x), Y: DegToRad(y), Z: DegToRad(z)}
}

// Degrees returns the rotation in degrees.
func (e Euler) Degrees() Vec3 {
	return Vec3{X: RadToDeg(e.X), Y: RadToDeg(e.Y), Z: RadToDeg(e.Z)}
}

func (e Euler) Add(o Euler) Euler { return Euler{e.X + o.X, e.Y + o.Y, e.Z + o.Z} }

// EulerFromQuat decomposes a unit quaternion into XYZ angles.
func EulerFromQuat(q Quat) Euler {
	m := ComposeMat4(Vec3{}, q, Vec3{1, 1, 1})
	return eulerFromRotation(m)
}

func eulerFromRotation(m Mat4) Euler {
	m11, m12, m13 := m[0], m[4], m[8]
	m22, m23 := m[5], m[9]
	m32, m33 := m[6], m[10]

	var e Euler
	e.Y = math.Asin(clamp(m13, -1, 1))
	if math.Abs(m13) < 0.9999999 {
		e.X = math.Atan2(-m23, m33)
		e.Z = math.Atan2(-m12, m11)
	} else {
		e.X = math.Atan2(m32, m22)
	}
	return e
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
