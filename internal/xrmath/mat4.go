package xrmath

import "math"

// Mat4 is a column-major 4x4 matrix, the layout WebXR poses arrive in.
type Mat4 [16]float64

// Mat4Identity returns the identity transform.
func Mat4Identity() Mat4 {
	return Mat4{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// Mat4FromSlice reads 16 floats starting at offset. The second return is
// false when the slice is too short.
func Mat4FromSlice(s []float64, offset int) (Mat4, bool) {
	var m Mat4
	if len(s) < offset+16 {
		return m, false
	}
	copy(m[:], s[offset:offset+16])
	return m, true
}

// ComposeMat4 builds translation * rotation * scale.
func ComposeMat4(p Vec3, q Quat, s Vec3) Mat4 {
	x2, y2, z2 := q.X+q.X, q.Y+q.Y, q.Z+q.Z
	xx, xy, xz := q.X*x2, q.X*y2, q.X*z2
	yy, yz, zz := q.Y*y2, q.Y*z2, q.Z*z2
	wx, wy, wz := q.W*x2, q.W*y2, q.W*z2

	return Mat4{
		(1 - (yy + zz)) * s.X, (xy + wz) * s.X, (xz - wy) * s.X, 0,
		(xy - wz) * s.Y, (1 - (xx + zz)) * s.Y, (yz + wx) * s.Y, 0,
		(xz + wy) * s.Z, (yz - wx) * s.Z, (1 - (xx + yy)) * s.Z, 0,
		p.X, p.Y, p.Z, 1,
	}
}

// Mul returns m*o.
func (m Mat4) Mul(o Mat4) Mat4 {
	var out Mat4
	for col := 0; col < 4; col++ {
		for row := 0; row < 4; row++ {
			out[col*4+row] =
				m[0*4+row]*o[col*4+0] +
					m[1*4+row]*o[col*4+1] +
					m[2*4+row]*o[col*4+2] +
					m[3*4+row]*o[col*4+3]
		}
	}
	return out
}

// Position returns the translation column.
func (m Mat4) Position() Vec3 { return Vec3{m[12], m[13], m[14]} }

// Decompose splits an affine transform into position, rotation and scale.
func (m Mat4) Decompose() (Vec3, Quat, Vec3) {
	sx := Vec3{m[0], m[1], m[2]}.Len()
	sy := Vec3{m[4], m[5], m[6]}.Len()
	sz := Vec3{m[8], m[9], m[10]}.Len()
	if m.det3() < 0 {
		sx = -sx
	}

	r := m
	if sx != 0 {
		r[0], r[1], r[2] = r[0]/sx, r[1]/sx, r[2]/sx
	}
	if sy != 0 {
		r[4], r[5], r[6] = r[4]/sy, r[5]/sy, r[6]/sy
	}
	if sz != 0 {
		r[8], r[9], r[10] = r[8]/sz, r[9]/sz, r[10]/sz
	}
	return m.Position(), quatFromRotation(r).Normalize(), Vec3{sx, sy, sz}
}

// det3 is the determinant of the upper-left 3x3 block.
func (m Mat4) det3() float64 {
	return m[0]*(m[5]*m[10]-m[9]*m[6]) -
		m[4]*(m[1]*m[10]-m[9]*m[2]) +
		m[8]*(m[1]*m[6]-m[5]*m[2])
}

// NearlyEqual compares element-wise within eps.
func (m Mat4) NearlyEqual(o Mat4, eps float64) bool {
	for i := range m {
		if math.Abs(m[i]-o[i]) >= eps {
			return false
		}
	}
	return true
}
