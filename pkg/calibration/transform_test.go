package calibration

import (
	"math"
	"testing"
)

// zRotation returns a rotation of angle radians about the z axis.
func zRotation(angle float64) Quaternion {
	return Quaternion{Z: math.Sin(angle / 2), W: math.Cos(angle / 2)}
}

func TestQuaternionRotate(t *testing.T) {
	// 90 degrees about z maps x onto y.
	q := zRotation(math.Pi / 2)
	v := q.Rotate(Vector3{X: 1})

	if !approxEqual(v.X, 0, 1e-12) || !approxEqual(v.Y, 1, 1e-12) || !approxEqual(v.Z, 0, 1e-12) {
		t.Errorf("rotated vector = %+v, want (0, 1, 0)", v)
	}
}

func TestQuaternionNormalize(t *testing.T) {
	q := Quaternion{X: 2, Y: 0, Z: 0, W: 2}.Normalize()
	norm := math.Sqrt(q.X*q.X + q.Y*q.Y + q.Z*q.Z + q.W*q.W)
	if !approxEqual(norm, 1, 1e-12) {
		t.Errorf("normalized quaternion has norm %v", norm)
	}

	zero := Quaternion{}.Normalize()
	if zero != (Quaternion{W: 1}) {
		t.Errorf("zero quaternion normalized to %+v, want identity", zero)
	}
}

func TestTransformMulInverse(t *testing.T) {
	a := Transform{
		Translation: Vector3{X: 1, Y: -2, Z: 0.5},
		Rotation:    zRotation(math.Pi / 3),
	}

	id := a.Mul(a.Inverse())
	if !transformsApproxEqual(id, Identity(), 1e-12) {
		t.Errorf("a * a^-1 = %+v, want identity", id)
	}

	id = a.Inverse().Mul(a)
	if !transformsApproxEqual(id, Identity(), 1e-12) {
		t.Errorf("a^-1 * a = %+v, want identity", id)
	}
}

func TestTransformMulComposition(t *testing.T) {
	// Rotate 90 degrees about z, then translate by (1, 0, 0): the child
	// origin at (1, 0, 0) in b maps through a's rotation onto (0, 1, 0)
	// before a's translation applies.
	a := Transform{Rotation: zRotation(math.Pi / 2)}
	b := Transform{Translation: Vector3{X: 1}, Rotation: Quaternion{W: 1}}

	ab := a.Mul(b)
	if !approxEqual(ab.Translation.X, 0, 1e-12) || !approxEqual(ab.Translation.Y, 1, 1e-12) {
		t.Errorf("composed translation = %+v, want (0, 1, 0)", ab.Translation)
	}
}
