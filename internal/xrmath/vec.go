package xrmath

import "math"

// Vec3 is a 3D vector.
type Vec3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Up is the world up axis.
var Up = Vec3{0, 1, 0}

func V3(x, y, z float64) Vec3 { return Vec3{X: x, Y: y, Z: z} }

// V3FromSlice reads three components starting at offset. Short slices yield
// zero components.
func V3FromSlice(s []float64, offset int) Vec3 {
	var v Vec3
	if len(s) > offset {
		v.X = s[offset]
	}
	if len(s) > offset+1 {
		v.Y = s[offset+1]
	}
	if len(s) > offset+2 {
		v.Z = s[offset+2]
	}
	return v
}

func (v Vec3) Add(o Vec3) Vec3         { return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z} }
func (v Vec3) Sub(o Vec3) Vec3         { return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z} }
func (v Vec3) Scale(s float64) Vec3    { return Vec3{v.X * s, v.Y * s, v.Z * s} }
func (v Vec3) Dot(o Vec3) float64      { return v.X*o.X + v.Y*o.Y + v.Z*o.Z }
func (v Vec3) Len() float64            { return math.Sqrt(v.Dot(v)) }
func (v Vec3) Distance(o Vec3) float64 { return v.Sub(o).Len() }

// Lerp moves t of the way from v towards o.
func (v Vec3) Lerp(o Vec3, t float64) Vec3 {
	return Vec3{
		X: v.X + (o.X-v.X)*t,
		Y: v.Y + (o.Y-v.Y)*t,
		Z: v.Z + (o.Z-v.Z)*t,
	}
}

// ApplyQuat rotates v by the unit quaternion q.
func (v Vec3) ApplyQuat(q Quat) Vec3 {
	tx := 2 * (q.Y*v.Z - q.Z*v.Y)
	ty := 2 * (q.Z*v.X - q.X*v.Z)
	tz := 2 * (q.X*v.Y - q.Y*v.X)
	return Vec3{
		X: v.X + q.W*tx + q.Y*tz - q.Z*ty,
		Y: v.Y + q.W*ty + q.Z*tx - q.X*tz,
		Z: v.Z + q.W*tz + q.X*ty - q.Y*tx,
	}
}

// ApplyAxisAngle rotates v around a normalized axis by angle radians.
func (v Vec3) ApplyAxisAngle(axis Vec3, angle float64) Vec3 {
	return v.ApplyQuat(QuatFromAxisAngle(axis, angle))
}

// ApplyEuler rotates v by the XYZ Euler rotation e.
func (v Vec3) ApplyEuler(e Euler) Vec3 {
	return v.ApplyQuat(QuatFromEuler(e))
}

// NearlyEqual reports whether every component differs by less than eps.
func (v Vec3) NearlyEqual(o Vec3, eps float64) bool {
	return math.Abs(v.X-o.X) < eps && math.Abs(v.Y-o.Y) < eps && math.Abs(v.Z-o.Z) < eps
}
