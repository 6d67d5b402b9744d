package mathutil

import "math"

// Quat represents a unit quaternion (x, y, z, w).
type Quat [4]float64

// QuatIdentity returns the identity rotation.
func QuatIdentity() Quat {
	return Quat{0, 0, 0, 1}
}

// Dot returns the 4-component dot product of two quaternions.
// A negative dot product means a and b lie on opposite hemispheres
// even when they encode nearby rotations.
func (a Quat) Dot(b Quat) float64 {
	return a[0]*b[0] + a[1]*b[1] + a[2]*b[2] + a[3]*b[3]
}

// Neg returns the antipodal quaternion. q and -q encode the same rotation.
func (q Quat) Neg() Quat {
	return Quat{-q[0], -q[1], -q[2], -q[3]}
}

// Normalize scales q to unit length. Returns identity for degenerate input.
func (q Quat) Normalize() Quat {
	n := math.Sqrt(q.Dot(q))
	if n < 1e-12 {
		return QuatIdentity()
	}
	return Quat{q[0] / n, q[1] / n, q[2] / n, q[3] / n}
}

// QuatMul returns a ⊗ b, the rotation b followed by a.
func QuatMul(a, b Quat) Quat {
	ax, ay, az, aw := a[0], a[1], a[2], a[3]
	bx, by, bz, bw := b[0], b[1], b[2], b[3]
	return Quat{
		aw*bx + ax*bw + ay*bz - az*by,
		aw*by - ax*bz + ay*bw + az*bx,
		aw*bz + ax*by - ay*bx + az*bw,
		aw*bw - ax*bx - ay*by - az*bz,
	}
}

// Rotate applies the rotation q to a vector.
func (q Quat) Rotate(v Vec3) Vec3 {
	return QuatToMat3(q).MulVec3(v)
}

// EulerToQuat converts Euler XYZ (radians, x applied first) to a quaternion.
// The resulting rotation matrix is Rz(z)·Ry(y)·Rx(x).
func EulerToQuat(rx, ry, rz float64) Quat {
	cx, sx := math.Cos(rx*0.5), math.Sin(rx*0.5)
	cy, sy := math.Cos(ry*0.5), math.Sin(ry*0.5)
	cz, sz := math.Cos(rz*0.5), math.Sin(rz*0.5)

	return Quat{
		sx*cy*cz - cx*sy*sz, // x
		cx*sy*cz + sx*cy*sz, // y
		cx*cy*sz - sx*sy*cz, // z
		cx*cy*cz + sx*sy*sz, // w
	}
}

// QuatToMat3 converts a quaternion to a 3×3 rotation matrix.
func QuatToMat3(q Quat) Mat3 {
	x, y, z, w := q[0], q[1], q[2], q[3]
	xx, yy, zz := x*x, y*y, z*z
	xy, xz, yz := x*y, x*z, y*z
	wx, wy, wz := w*x, w*y, w*z

	return Mat3{
		1 - 2*(yy+zz), 2 * (xy - wz), 2 * (xz + wy),
		2 * (xy + wz), 1 - 2*(xx+zz), 2 * (yz - wx),
		2 * (xz - wy), 2 * (yz + wx), 1 - 2*(xx+yy),
	}
}

// gimbalEps bounds |sin(pitch)| below 1; past it the X and Z axes align
// and the decomposition collapses to a single degree of freedom.
const gimbalEps = 1e-9

// QuatToEuler decomposes a quaternion into Euler XYZ angles in radians,
// the inverse of EulerToQuat. The decomposition is multi-valued: any axis
// may gain a full turn and near gimbal lock (|y| = π/2) the X and Z angles
// are only jointly determined. In the gimbal branch Z is forced to 0 and X
// absorbs the remaining rotation. Callers that need frame-to-frame
// continuity must post-process the result; this function alone makes no
// continuity guarantee.
func QuatToEuler(q Quat) Vec3 {
	m := QuatToMat3(q)

	sy := -m[6]
	if sy > 1 {
		sy = 1
	} else if sy < -1 {
		sy = -1
	}

	if math.Abs(sy) > 1-gimbalEps {
		// Gimbal lock: m[1] = ±sin(x∓z), m[4] = cos(x∓z).
		s := math.Copysign(1, sy)
		return Vec3{
			math.Atan2(s*m[1], m[4]),
			s * math.Pi / 2,
			0,
		}
	}

	return Vec3{
		math.Atan2(m[7], m[8]),
		math.Asin(sy),
		math.Atan2(m[3], m[0]),
	}
}
