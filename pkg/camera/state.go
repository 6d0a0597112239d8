// Package camera builds view and projection matrices and drives the camera
// pose from per-frame input.
//
// Conventions: right-handed world, camera looks down -Z, matrices are
// column-major and multiply column vectors, NDC depth is [-1, 1].
package camera

import (
	"fmt"
	"math"
	"strings"

	"github.com/taigrr/glcam/pkg/math3d"
)

// Scheme selects how input moves the camera.
type Scheme int

const (
	// SchemeTargetPoint strafes and dollies along world axes, moving the
	// eye and the looked-at point together.
	SchemeTargetPoint Scheme = iota
	// SchemeMouseLook steers a facing direction with yaw/pitch from the
	// pointer and moves along it.
	SchemeMouseLook
)

var schemeNames = map[Scheme]string{
	SchemeTargetPoint: "target",
	SchemeMouseLook:   "mouselook",
}

func (s Scheme) String() string {
	if name, ok := schemeNames[s]; ok {
		return name
	}
	return fmt.Sprintf("Scheme(%d)", int(s))
}

// ParseScheme parses "target" or "mouselook" (case-insensitive).
func ParseScheme(name string) (Scheme, error) {
	for s, n := range schemeNames {
		if strings.EqualFold(n, name) {
			return s, nil
		}
	}
	return 0, fmt.Errorf("unknown camera scheme %q (want target or mouselook)", name)
}

// State is the camera pose.
//
// Target is a point for SchemeTargetPoint and a unit direction for
// SchemeMouseLook; Controller.LookTarget turns it into the point handed to
// BuildLookAt.
type State struct {
	Position math3d.Vec3
	Target   math3d.Vec3
	Up       math3d.Vec3
}

// DefaultState returns the starting pose: four units back on +Z, facing -Z.
func DefaultState(scheme Scheme) State {
	s := State{
		Position: math3d.V3(0, 0, 4),
		Target:   math3d.Forward(),
		Up:       math3d.Up(),
	}
	if scheme == SchemeTargetPoint {
		s.Target = s.Position.Add(math3d.Forward())
	}
	return s
}

// Input is one frame of polled input.
type Input struct {
	Forward, Back bool
	Left, Right   bool

	// Pointer movement since the last frame, in device units. +DX is
	// right, +DY is down.
	DX, DY float64
}

// finite reports whether the pointer deltas are usable.
func (in Input) finite() bool {
	return !math.IsNaN(in.DX) && !math.IsInf(in.DX, 0) &&
		!math.IsNaN(in.DY) && !math.IsInf(in.DY, 0)
}

// axes turns key states into -1/0/+1 commands along the facing and
// strafing axes.
func (in Input) axes() (forward, side float64) {
	if in.Forward {
		forward++
	}
	if in.Back {
		forward--
	}
	if in.Right {
		side++
	}
	if in.Left {
		side--
	}
	return forward, side
}
