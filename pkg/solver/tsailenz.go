package solver

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/robokit/handeye/pkg/calibration"
	"github.com/robokit/handeye/pkg/sampler"
)

// minSamples is the smallest sample set the closed-form solver accepts. Two
// samples give a single motion pair, whose rotation equation is rank
// deficient, so three is the practical floor.
const minSamples = 3

// Builtin is the closed-form Tsai-Lenz solver. It solves AX = XB over all
// pairwise relative motions, rotation first, then translation, both as
// stacked linear least-squares problems.
type Builtin struct{}

func (Builtin) Name() string { return "Builtin" }

func (Builtin) Algorithms() []string { return []string{"Tsai-Lenz"} }

func (b Builtin) Compute(params calibration.Parameters, samples []sampler.Sample, algorithm string) (*calibration.Calibration, error) {
	if algorithm != "Tsai-Lenz" {
		return nil, fmt.Errorf("%w: backend %q has no algorithm %q", ErrUnknownAlgorithm, b.Name(), algorithm)
	}
	if len(samples) < minSamples {
		return nil, fmt.Errorf("%w: have %d, need at least %d", ErrNotEnoughSamples, len(samples), minSamples)
	}

	ms := motions(samples)

	rotation, err := solveRotation(ms)
	if err != nil {
		return nil, err
	}
	translation, err := solveTranslation(ms, rotation)
	if err != nil {
		return nil, err
	}

	transform := calibration.Transform{Translation: translation, Rotation: rotation}
	return calibration.New(params.WithDefaults(), &transform), nil
}

// motion is one relative displacement of the robot (a) and the tracking
// system (b) between two samples. The unknown transform x satisfies
// a.Mul(x) == x.Mul(b) for every pair.
type motion struct {
	a, b calibration.Transform
}

func motions(samples []sampler.Sample) []motion {
	var out []motion
	for i := 0; i < len(samples); i++ {
		for j := i + 1; j < len(samples); j++ {
			out = append(out, motion{
				a: samples[j].Robot.Inverse().Mul(samples[i].Robot),
				b: samples[j].Optical.Mul(samples[i].Optical.Inverse()),
			})
		}
	}
	return out
}

// rodrigues returns the modified Rodrigues vector 2*sin(theta/2)*axis of a
// rotation. The quaternion sign is fixed first so that antipodal inputs map
// to the same vector.
func rodrigues(q calibration.Quaternion) [3]float64 {
	q = q.Normalize()
	if q.W < 0 {
		q = calibration.Quaternion{X: -q.X, Y: -q.Y, Z: -q.Z, W: -q.W}
	}
	return [3]float64{2 * q.X, 2 * q.Y, 2 * q.Z}
}

// solveRotation stacks skew(pg+pc) p' = pc - pg over all motion pairs and
// recovers the rotation quaternion from the least-squares p'.
func solveRotation(ms []motion) (calibration.Quaternion, error) {
	m := mat.NewDense(3*len(ms), 3, nil)
	d := mat.NewVecDense(3*len(ms), nil)

	for i, mo := range ms {
		pg := rodrigues(mo.a.Rotation)
		pc := rodrigues(mo.b.Rotation)

		sx := pg[0] + pc[0]
		sy := pg[1] + pc[1]
		sz := pg[2] + pc[2]
		m.SetRow(3*i+0, []float64{0, -sz, sy})
		m.SetRow(3*i+1, []float64{sz, 0, -sx})
		m.SetRow(3*i+2, []float64{-sy, sx, 0})

		d.SetVec(3*i+0, pc[0]-pg[0])
		d.SetVec(3*i+1, pc[1]-pg[1])
		d.SetVec(3*i+2, pc[2]-pg[2])
	}

	var p mat.VecDense
	if err := p.SolveVec(m, d); err != nil {
		return calibration.Quaternion{}, fmt.Errorf("degenerate sample set, vary the rotation axes: %v", err)
	}

	// p is tan(theta/2)*axis. Rescale to 2*sin(theta/2)*axis and read the
	// quaternion off it.
	norm2 := p.AtVec(0)*p.AtVec(0) + p.AtVec(1)*p.AtVec(1) + p.AtVec(2)*p.AtVec(2)
	scale := 2 / math.Sqrt(1+norm2)
	pcg := [3]float64{scale * p.AtVec(0), scale * p.AtVec(1), scale * p.AtVec(2)}

	w2 := 1 - (pcg[0]*pcg[0]+pcg[1]*pcg[1]+pcg[2]*pcg[2])/4
	if w2 < 0 {
		w2 = 0
	}
	q := calibration.Quaternion{
		X: pcg[0] / 2,
		Y: pcg[1] / 2,
		Z: pcg[2] / 2,
		W: math.Sqrt(w2),
	}
	return q.Normalize(), nil
}

// solveTranslation stacks (Ra - I) t = Rx*tb - ta over all motion pairs.
func solveTranslation(ms []motion, rotation calibration.Quaternion) (calibration.Vector3, error) {
	m := mat.NewDense(3*len(ms), 3, nil)
	d := mat.NewVecDense(3*len(ms), nil)

	for i, mo := range ms {
		ra := rotationMatrix(mo.a.Rotation)
		for r := 0; r < 3; r++ {
			for c := 0; c < 3; c++ {
				v := ra.At(r, c)
				if r == c {
					v--
				}
				m.Set(3*i+r, c, v)
			}
		}

		rhs := rotation.Rotate(mo.b.Translation).Add(mo.a.Translation.Neg())
		d.SetVec(3*i+0, rhs.X)
		d.SetVec(3*i+1, rhs.Y)
		d.SetVec(3*i+2, rhs.Z)
	}

	var t mat.VecDense
	if err := t.SolveVec(m, d); err != nil {
		return calibration.Vector3{}, fmt.Errorf("degenerate sample set, vary the rotations: %v", err)
	}
	return calibration.Vector3{X: t.AtVec(0), Y: t.AtVec(1), Z: t.AtVec(2)}, nil
}

func rotationMatrix(q calibration.Quaternion) *mat.Dense {
	q = q.Normalize()
	x, y, z, w := q.X, q.Y, q.Z, q.W
	return mat.NewDense(3, 3, []float64{
		1 - 2*(y*y+z*z), 2 * (x*y - z*w), 2 * (x*z + y*w),
		2 * (x*y + z*w), 1 - 2*(x*x+z*z), 2 * (y*z - x*w),
		2 * (x*z - y*w), 2 * (y*z + x*w), 1 - 2*(x*x+y*y),
	})
}
