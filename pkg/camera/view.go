package camera

import (
	"fmt"

	"github.com/taigrr/glcam/pkg/math3d"
)

// parallelEpsilon is the smallest |front × up| accepted as non-parallel.
const parallelEpsilon = 1e-9

// Basis is the orthonormal camera frame used by a view matrix.
type Basis struct {
	Front math3d.Vec3
	Right math3d.Vec3
	Up    math3d.Vec3
}

// LookBasis computes the camera frame for eye looking at target.
func LookBasis(eye, target, up math3d.Vec3) (Basis, error) {
	if !eye.IsFinite() || !target.IsFinite() || !up.IsFinite() {
		return Basis{}, fmt.Errorf("%w: eye %v, target %v, up %v", ErrNonFinite, eye, target, up)
	}
	dir := target.Sub(eye)
	if dir.LenSq() == 0 || !dir.IsFinite() {
		return Basis{}, fmt.Errorf("%w: eye %v, target %v", ErrDegenerateView, eye, target)
	}
	front := dir.Normalize()

	side := front.Cross(up)
	if side.Len() < parallelEpsilon {
		return Basis{}, fmt.Errorf("%w: front %v, up %v", ErrParallelUp, front, up)
	}
	right := side.Normalize()

	return Basis{
		Front: front,
		Right: right,
		Up:    right.Cross(front),
	}, nil
}

// BuildLookAt returns the view matrix for a camera at eye facing the point
// target. The rotation's rows are right, up and -front; it is applied
// after translating eye to the origin.
func BuildLookAt(eye, target, up math3d.Vec3) (math3d.Mat4, error) {
	b, err := LookBasis(eye, target, up)
	if err != nil {
		return math3d.Mat4{}, err
	}

	rotation := math3d.FromRows(
		math3d.Direction(b.Right),
		math3d.Direction(b.Up),
		math3d.Direction(b.Front.Negate()),
		math3d.V4(0, 0, 0, 1),
	)
	translation := math3d.Translate(eye.Negate())

	return rotation.Mul(translation), nil
}

// MustLookAt is BuildLookAt for inputs known to be valid. It panics
// otherwise.
func MustLookAt(eye, target, up math3d.Vec3) math3d.Mat4 {
	m, err := BuildLookAt(eye, target, up)
	if err != nil {
		panic(err)
	}
	return m
}
