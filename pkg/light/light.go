// Package light holds the ambient, parallel and point lights of a scene and
// evaluates the Phong lighting term for a surface point.
package light

import (
	"errors"
	"fmt"
	"math"

	"github.com/taigrr/glcam/pkg/math3d"
)

// MaxPointLights is the number of point lights a Scene may carry.
const MaxPointLights = 2

// ErrTooManyLights is returned by Validate when Points exceeds MaxPointLights.
var ErrTooManyLights = errors.New("too many point lights")

// Ambient is a constant light reaching every surface.
type Ambient struct {
	Color     math3d.Vec3
	Intensity float64
}

// Parallel is a directional light with rays along Direction.
type Parallel struct {
	Color     math3d.Vec3
	Direction math3d.Vec3
	Intensity float64
}

// Point is a positional light. Its contribution is divided by
// Constant + Linear*d + Quadratic*d².
type Point struct {
	Color     math3d.Vec3
	Position  math3d.Vec3
	Intensity float64
	Constant  float64
	Linear    float64
	Quadratic float64
}

// Attenuation returns the distance falloff factor at d.
func (p Point) Attenuation(d float64) float64 {
	den := p.Constant + p.Linear*d + p.Quadratic*d*d
	if den <= 0 {
		return 1
	}
	return 1 / den
}

// Scene is the full light setup for a frame.
type Scene struct {
	Ambient   Ambient
	Parallel  Parallel
	Points    []Point
	Specular  float64 // Strength of the specular highlight
	Shininess float64 // Phong exponent
}

// DefaultScene returns a white parallel light shining down and to the
// right with a dim ambient term.
func DefaultScene() Scene {
	return Scene{
		Ambient: Ambient{Color: math3d.V3(1, 1, 1), Intensity: 0.2},
		Parallel: Parallel{
			Color:     math3d.V3(1, 1, 1),
			Direction: math3d.V3(1, -1, 0),
			Intensity: 1.5,
		},
		Specular:  1,
		Shininess: 32,
	}
}

// DefaultPoint returns a white point light at pos with a gentle falloff.
func DefaultPoint(pos math3d.Vec3) Point {
	return Point{
		Color:     math3d.V3(1, 1, 1),
		Position:  pos,
		Intensity: 1,
		Constant:  1,
		Linear:    0.09,
		Quadratic: 0.032,
	}
}

// Validate checks the scene for values the shader cannot use.
func (s Scene) Validate() error {
	if len(s.Points) > MaxPointLights {
		return fmt.Errorf("%w: %d (max %d)", ErrTooManyLights, len(s.Points), MaxPointLights)
	}
	if s.Shininess < 0 || math.IsNaN(s.Shininess) {
		return fmt.Errorf("invalid shininess %v", s.Shininess)
	}
	if s.Parallel.Intensity != 0 && s.Parallel.Direction.LenSq() == 0 {
		return errors.New("parallel light has no direction")
	}
	for i, p := range s.Points {
		if p.Constant < 0 || p.Linear < 0 || p.Quadratic < 0 {
			return fmt.Errorf("point light %d: negative attenuation", i)
		}
	}
	return nil
}

// Shade returns the linear RGB light factor arriving at pos with surface
// normal n, seen from eye. The result is not clamped.
func (s Scene) Shade(pos, n, eye math3d.Vec3) math3d.Vec3 {
	n = n.Normalize()
	view := eye.Sub(pos).Normalize()

	out := s.Ambient.Color.Scale(s.Ambient.Intensity)

	if s.Parallel.Intensity != 0 {
		toLight := s.Parallel.Direction.Negate().Normalize()
		out = out.Add(s.phong(toLight, n, view, s.Parallel.Color, s.Parallel.Intensity))
	}

	for _, p := range s.Points {
		d := p.Position.Sub(pos)
		dist := d.Len()
		if dist == 0 {
			continue
		}
		c := s.phong(d.Div(dist), n, view, p.Color, p.Intensity*p.Attenuation(dist))
		out = out.Add(c)
	}
	return out
}

// phong returns diffuse plus specular for a unit direction toward the light.
func (s Scene) phong(toLight, n, view, color math3d.Vec3, intensity float64) math3d.Vec3 {
	diff := n.Dot(toLight)
	if diff <= 0 {
		return math3d.Zero3()
	}
	out := color.Scale(diff * intensity)

	if s.Specular > 0 {
		r := toLight.Negate().Reflect(n)
		if rv := r.Dot(view); rv > 0 {
			out = out.Add(color.Scale(s.Specular * intensity * math.Pow(rv, s.Shininess)))
		}
	}
	return out
}
