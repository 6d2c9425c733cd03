package calibration

import (
	"gonum.org/v1/gonum/num/quat"
)

// Vector3 is a 3D translation in meters.
type Vector3 struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
	Z float64 `json:"z" yaml:"z"`
}

// Add returns v + o.
func (v Vector3) Add(o Vector3) Vector3 {
	return Vector3{X: v.X + o.X, Y: v.Y + o.Y, Z: v.Z + o.Z}
}

// Neg returns -v.
func (v Vector3) Neg() Vector3 {
	return Vector3{X: -v.X, Y: -v.Y, Z: -v.Z}
}

// Quaternion is a rotation in (x, y, z, w) component order, expected to be
// normalized to unit length.
type Quaternion struct {
	X float64 `json:"qx" yaml:"qx"`
	Y float64 `json:"qy" yaml:"qy"`
	Z float64 `json:"qz" yaml:"qz"`
	W float64 `json:"qw" yaml:"qw"`
}

func (q Quaternion) number() quat.Number {
	return quat.Number{Real: q.W, Imag: q.X, Jmag: q.Y, Kmag: q.Z}
}

func fromNumber(n quat.Number) Quaternion {
	return Quaternion{X: n.Imag, Y: n.Jmag, Z: n.Kmag, W: n.Real}
}

// Mul returns the composition q * o (apply o first, then q).
func (q Quaternion) Mul(o Quaternion) Quaternion {
	return fromNumber(quat.Mul(q.number(), o.number()))
}

// Conjugate returns the inverse rotation for a unit quaternion.
func (q Quaternion) Conjugate() Quaternion {
	return fromNumber(quat.Conj(q.number()))
}

// Normalize returns q scaled to unit length. The zero quaternion normalizes
// to the identity.
func (q Quaternion) Normalize() Quaternion {
	abs := quat.Abs(q.number())
	if abs == 0 {
		return Quaternion{W: 1}
	}
	return fromNumber(quat.Scale(1/abs, q.number()))
}

// Rotate applies the rotation to v.
func (q Quaternion) Rotate(v Vector3) Vector3 {
	p := quat.Number{Imag: v.X, Jmag: v.Y, Kmag: v.Z}
	r := quat.Mul(quat.Mul(q.number(), p), quat.Conj(q.number()))
	return Vector3{X: r.Imag, Y: r.Jmag, Z: r.Kmag}
}

// Transform is a 6-DOF rigid transform mapping points in the child frame to
// the parent frame.
type Transform struct {
	Translation Vector3    `json:"translation"`
	Rotation    Quaternion `json:"rotation"`
}

// Identity returns the identity transform (zero translation, qw = 1).
func Identity() Transform {
	return Transform{Rotation: Quaternion{W: 1}}
}

// Mul returns the composition t * o (apply o first, then t).
func (t Transform) Mul(o Transform) Transform {
	return Transform{
		Translation: t.Translation.Add(t.Rotation.Rotate(o.Translation)),
		Rotation:    t.Rotation.Mul(o.Rotation),
	}
}

// Inverse returns the transform mapping the parent frame back to the child.
func (t Transform) Inverse() Transform {
	inv := t.Rotation.Conjugate()
	return Transform{
		Translation: inv.Rotate(t.Translation).Neg(),
		Rotation:    inv,
	}
}
