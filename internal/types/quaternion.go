package types

import "math"

// Quaternion is a unit-norm rotation, W + Xi + Yj + Zk.
//
// Convention (see design notes): q_a_to_b rotates a vector expressed in
// frame A into frame B via the passive-rotation form v_b = q⁻¹ · v_a · q.
// Composition q1.Mul(q2) means "apply q1 first, then q2" when both are
// read as passive frame-to-frame rotations chained tip-to-tail, i.e.
// q_a_to_c = q_a_to_b.Mul(q_b_to_c).
type Quaternion struct {
	W, X, Y, Z float32
}

// Identity is the no-op rotation.
var Identity = Quaternion{W: 1}

// Mul returns q⊗r.
func (q Quaternion) Mul(r Quaternion) Quaternion {
	return Quaternion{
		W: q.W*r.W - q.X*r.X - q.Y*r.Y - q.Z*r.Z,
		X: q.W*r.X + q.X*r.W + q.Y*r.Z - q.Z*r.Y,
		Y: q.W*r.Y - q.X*r.Z + q.Y*r.W + q.Z*r.X,
		Z: q.W*r.Z + q.X*r.Y - q.Y*r.X + q.Z*r.W,
	}
}

// Conjugate returns q* = (w, -x, -y, -z). For a unit quaternion this equals
// the inverse.
func (q Quaternion) Conjugate() Quaternion {
	return Quaternion{W: q.W, X: -q.X, Y: -q.Y, Z: -q.Z}
}

// Norm returns |q|.
func (q Quaternion) Norm() float32 {
	return float32(math.Sqrt(float64(q.W*q.W + q.X*q.X + q.Y*q.Y + q.Z*q.Z)))
}

// Normalized rescales q to unit norm. Identity is returned if q is
// degenerate (norm ~ 0), which should never happen on a well-formed
// rotation but keeps downstream math free of NaN.
func (q Quaternion) Normalized() Quaternion {
	n := q.Norm()
	if n < 1e-12 {
		return Identity
	}
	inv := 1 / n
	return Quaternion{q.W * inv, q.X * inv, q.Y * inv, q.Z * inv}
}

// Rotate applies the passive rotation q⁻¹ · v · q, i.e. expresses v
// (given in the source frame) in the destination frame of q_src_to_dst.
func (q Quaternion) Rotate(v Vec3) Vec3 {
	qi := q.Conjugate()
	vq := Quaternion{0, v.X, v.Y, v.Z}
	r := qi.Mul(vq).Mul(q)
	return Vec3{r.X, r.Y, r.Z}
}

// FromAxisAngle builds the rotation of angle (radians) about axis (need not
// be unit length; the zero vector yields Identity).
func FromAxisAngle(axis Vec3, angle float32) Quaternion {
	axis = axis.Normalized()
	if axis.Norm() < 1e-9 {
		return Identity
	}
	half := angle / 2
	s := float32(math.Sin(float64(half)))
	return Quaternion{
		W: float32(math.Cos(float64(half))),
		X: axis.X * s,
		Y: axis.Y * s,
		Z: axis.Z * s,
	}.Normalized()
}

// SmallAngleStep returns the scaled-axis small-angle quaternion
// exp(½ ω Δt) used to integrate a gyro rate ω over one tick Δt:
// q ← q ⊗ exp(½ ω Δt).
func SmallAngleStep(omega Vec3, dt float32) Quaternion {
	theta := omega.Scale(dt)
	angle := theta.Norm()
	if angle < 1e-9 {
		// First-order approximation avoids a divide-by-zero axis normalize
		// for the common near-zero angular rate case.
		return Quaternion{1, theta.X / 2, theta.Y / 2, theta.Z / 2}.Normalized()
	}
	return FromAxisAngle(theta, angle)
}

// RotationBetween returns the unit quaternion q rotating vector `from` onto
// vector `to` (both need not be unit length), i.e. q.Rotate(from) is
// parallel to `to`. When `from` and `to` are nearly parallel (cross
// product ~ 0), Identity is returned — the edge case for a device already
// aligned with gravity.
func RotationBetween(from, to Vec3) Quaternion {
	axis := from.Cross(to)
	if axis.Norm() < 1e-9 {
		return Identity
	}
	angle := from.AngleTo(to)
	// Rotate applies q⁻¹·v·q, so the angle is negated to turn `from`
	// towards `to` rather than away from it.
	return FromAxisAngle(axis, -angle)
}
