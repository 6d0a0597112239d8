package camera

import (
	"fmt"
	"math"

	"github.com/taigrr/glcam/pkg/math3d"
)

// ProjectionParams describes a symmetric perspective frustum.
type ProjectionParams struct {
	FOVDegrees float64 // Vertical field of view in degrees
	Aspect     float64 // Width / height
	Near       float64 // Distance to the near plane (> 0)
	Far        float64 // Distance to the far plane (> Near)
}

// DefaultProjection returns a 45° frustum for a 16:9 viewport.
func DefaultProjection() ProjectionParams {
	return ProjectionParams{
		FOVDegrees: 45,
		Aspect:     1.78,
		Near:       0.1,
		Far:        100,
	}
}

// Validate checks the frustum preconditions.
func (p ProjectionParams) Validate() error {
	switch {
	case !(p.FOVDegrees > 0 && p.FOVDegrees < 180):
		return fmt.Errorf("%w: fov %v not in (0, 180)", ErrInvalidProjection, p.FOVDegrees)
	case !(p.Aspect > 0) || math.IsInf(p.Aspect, 0):
		return fmt.Errorf("%w: aspect %v must be positive", ErrInvalidProjection, p.Aspect)
	case !(p.Near > 0):
		return fmt.Errorf("%w: near %v must be positive", ErrInvalidProjection, p.Near)
	case !(p.Far > p.Near) || math.IsInf(p.Far, 0):
		return fmt.Errorf("%w: far %v must exceed near %v", ErrInvalidProjection, p.Far, p.Near)
	}
	return nil
}

// Bounds returns the near-plane rectangle of the frustum.
func (p ProjectionParams) Bounds() (left, right, bottom, top float64) {
	half := radians(p.FOVDegrees) / 2
	top = p.Near * math.Tan(half)
	bottom = -top
	right = top * p.Aspect
	left = -right
	return left, right, bottom, top
}

// BuildPerspective derives the projection matrix from three factors.
//
// Camera space is right-handed and looks down -Z. The squish matrix keeps
// the near and far planes in place while pulling the frustum into a box,
// the translate matrix centers that box on the origin, and the scale
// matrix maps it onto the [-1, 1] cube. (0, 0, -near) lands on NDC depth
// -1 and (0, 0, -far) on +1.
//
// The result is column-major; upload it with transpose=false.
func BuildPerspective(p ProjectionParams) (math3d.Mat4, error) {
	if err := p.Validate(); err != nil {
		return math3d.Mat4{}, err
	}

	n, f := p.Near, p.Far
	l, r, b, t := p.Bounds()

	squish := math3d.FromRows(
		math3d.V4(n, 0, 0, 0),
		math3d.V4(0, n, 0, 0),
		math3d.V4(0, 0, n+f, n*f),
		math3d.V4(0, 0, -1, 0),
	)
	translate := math3d.Translate(math3d.V3(
		-(r+l)/2,
		-(t+b)/2,
		(n+f)/2,
	))
	scale := math3d.Scale(math3d.V3(
		2/(r-l),
		2/(t-b),
		2/(n-f),
	))

	return scale.Mul(translate).Mul(squish), nil
}

// MustPerspective is BuildPerspective for parameters known to be valid.
// It panics otherwise.
func MustPerspective(p ProjectionParams) math3d.Mat4 {
	m, err := BuildPerspective(p)
	if err != nil {
		panic(err)
	}
	return m
}

func radians(deg float64) float64 {
	return deg * math.Pi / 180
}

func degrees(rad float64) float64 {
	return rad * 180 / math.Pi
}
