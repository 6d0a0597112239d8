package config

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/taigrr/glcam/pkg/camera"
	"github.com/taigrr/glcam/pkg/light"
	"github.com/taigrr/glcam/pkg/math3d"
)

// ParseVec3 parses "x,y,z".
func ParseVec3(s string) (math3d.Vec3, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return math3d.Vec3{}, fmt.Errorf("vector %q: want x,y,z", s)
	}
	var f [3]float64
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return math3d.Vec3{}, fmt.Errorf("vector %q: %w", s, err)
		}
		f[i] = v
	}
	return math3d.V3(f[0], f[1], f[2]), nil
}

func formatVec3(v math3d.Vec3) string {
	return fmt.Sprintf("%g,%g,%g", v.X, v.Y, v.Z)
}

type schemeValue struct{ dst *camera.Scheme }

func (v *schemeValue) String() string {
	if v.dst == nil {
		return ""
	}
	return v.dst.String()
}

func (v *schemeValue) Set(s string) error {
	scheme, err := camera.ParseScheme(s)
	if err != nil {
		return err
	}
	*v.dst = scheme
	return nil
}

func (v *schemeValue) Type() string { return "scheme" }

type vec3Value struct{ dst *math3d.Vec3 }

func (v *vec3Value) String() string {
	if v.dst == nil {
		return ""
	}
	return formatVec3(*v.dst)
}

func (v *vec3Value) Set(s string) error {
	vec, err := ParseVec3(s)
	if err != nil {
		return err
	}
	*v.dst = vec
	return nil
}

func (v *vec3Value) Type() string { return "x,y,z" }

// optionalVec3Value leaves the destination nil until the flag is set.
type optionalVec3Value struct{ dst **math3d.Vec3 }

func (v *optionalVec3Value) String() string {
	if v.dst == nil || *v.dst == nil {
		return ""
	}
	return formatVec3(**v.dst)
}

func (v *optionalVec3Value) Set(s string) error {
	vec, err := ParseVec3(s)
	if err != nil {
		return err
	}
	*v.dst = &vec
	return nil
}

func (v *optionalVec3Value) Type() string { return "x,y,z" }

type pointLightsValue struct{ dst *[]light.Point }

func (v *pointLightsValue) String() string {
	if v.dst == nil {
		return ""
	}
	out := make([]string, len(*v.dst))
	for i, p := range *v.dst {
		out[i] = formatVec3(p.Position)
	}
	return strings.Join(out, " ")
}

func (v *pointLightsValue) Set(s string) error {
	pos, err := ParseVec3(s)
	if err != nil {
		return err
	}
	if len(*v.dst) >= light.MaxPointLights {
		return fmt.Errorf("%w: at most %d", light.ErrTooManyLights, light.MaxPointLights)
	}
	*v.dst = append(*v.dst, light.DefaultPoint(pos))
	return nil
}

func (v *pointLightsValue) Type() string { return "x,y,z" }
