package camera

import (
	"fmt"
	"math"

	"github.com/charmbracelet/harmonica"
	"github.com/taigrr/glcam/pkg/math3d"
)

const (
	// MaxPitch bounds the mouse-look pitch in degrees so the facing
	// direction never reaches the up vector.
	MaxPitch = 89.0

	// Spring tuning for smoothed movement: critically damped, settles in
	// a few frames.
	smoothFrequency = 6.0
	smoothDamping   = 1.0
)

// Controller applies one frame of input to a camera State.
type Controller interface {
	Scheme() Scheme
	Update(s *State, in Input)
	LookTarget(s State) math3d.Vec3
}

// ControllerConfig tunes a Controller. Speeds are per frame.
type ControllerConfig struct {
	MoveSpeed   float64 // World units per frame at full speed
	Sensitivity float64 // Degrees per pointer unit
	Smoothing   bool    // Ease speed changes with a spring
	FPS         int     // Frame rate the springs are tuned for
}

// DefaultControllerConfig returns the tutorial's speeds.
func DefaultControllerConfig() ControllerConfig {
	return ControllerConfig{
		MoveSpeed:   0.05,
		Sensitivity: 0.5,
		FPS:         60,
	}
}

// NewController returns the controller for scheme, initialized from s.
func NewController(scheme Scheme, cfg ControllerConfig, s State) (Controller, error) {
	switch scheme {
	case SchemeTargetPoint:
		return NewTargetPointController(cfg), nil
	case SchemeMouseLook:
		return NewMouseLookController(cfg, s), nil
	default:
		return nil, fmt.Errorf("unsupported camera scheme %v", scheme)
	}
}

// axisSpring animates one velocity component toward a commanded value.
type axisSpring struct {
	spring harmonica.Spring
	vel    float64
	accel  float64
}

func (a *axisSpring) update(target float64) float64 {
	a.vel, a.accel = a.spring.Update(a.vel, a.accel, target)
	return a.vel
}

// mover converts key axes into per-frame displacement along the forward
// and side axes.
type mover struct {
	speed  float64
	smooth bool
	fwd    axisSpring
	side   axisSpring
}

func newMover(cfg ControllerConfig) mover {
	fps := cfg.FPS
	if fps <= 0 {
		fps = 60
	}
	spring := harmonica.NewSpring(harmonica.FPS(fps), smoothFrequency, smoothDamping)
	return mover{
		speed:  cfg.MoveSpeed,
		smooth: cfg.Smoothing,
		fwd:    axisSpring{spring: spring},
		side:   axisSpring{spring: spring},
	}
}

func (m *mover) step(in Input) (forward, side float64) {
	f, s := in.axes()
	f *= m.speed
	s *= m.speed
	if !m.smooth {
		return f, s
	}
	return m.fwd.update(f), m.side.update(s)
}

// TargetPointController moves eye and target together along world axes:
// forward is -Z, right is +X. It never rotates the camera.
type TargetPointController struct {
	mover mover
}

// NewTargetPointController creates a TargetPointController.
func NewTargetPointController(cfg ControllerConfig) *TargetPointController {
	return &TargetPointController{mover: newMover(cfg)}
}

// Scheme returns SchemeTargetPoint.
func (c *TargetPointController) Scheme() Scheme { return SchemeTargetPoint }

// Update translates Position and Target by the same offset.
func (c *TargetPointController) Update(s *State, in Input) {
	f, side := c.mover.step(in)
	offset := math3d.Forward().Scale(f).Add(math3d.Right().Scale(side))
	s.Position = s.Position.Add(offset)
	s.Target = s.Target.Add(offset)
}

// LookTarget returns the stored target point.
func (c *TargetPointController) LookTarget(s State) math3d.Vec3 {
	return s.Target
}

// MouseLookController steers the facing direction with yaw and pitch
// (degrees) and moves along it.
type MouseLookController struct {
	Yaw   float64 // (-180, 180]; 0 faces -Z, +90 faces +X
	Pitch float64 // [-MaxPitch, MaxPitch]; positive looks up

	sensitivity float64
	mover       mover
}

// NewMouseLookController creates a MouseLookController whose angles match
// the direction stored in s.Target.
func NewMouseLookController(cfg ControllerConfig, s State) *MouseLookController {
	c := &MouseLookController{
		sensitivity: cfg.Sensitivity,
		mover:       newMover(cfg),
	}
	c.Yaw, c.Pitch = anglesFromDirection(s.Target)
	return c
}

// Scheme returns SchemeMouseLook.
func (c *MouseLookController) Scheme() Scheme { return SchemeMouseLook }

// Look accumulates pointer deltas into yaw and pitch. Non-finite deltas
// are ignored so the angles stay usable.
func (c *MouseLookController) Look(dx, dy float64) {
	if math.IsNaN(dx) || math.IsInf(dx, 0) || math.IsNaN(dy) || math.IsInf(dy, 0) {
		return
	}
	c.Yaw = WrapYaw(c.Yaw + dx*c.sensitivity)
	c.Pitch = ClampPitch(c.Pitch - dy*c.sensitivity)
}

// Direction returns the unit facing direction for the current angles.
func (c *MouseLookController) Direction() math3d.Vec3 {
	return DirectionFromAngles(c.Yaw, c.Pitch)
}

// Update turns the camera first, then moves it along the new facing and
// strafe axes. Target is left holding the facing direction.
func (c *MouseLookController) Update(s *State, in Input) {
	c.Look(in.DX, in.DY)
	dir := c.Direction()
	right := dir.Cross(s.Up).Normalize()

	f, side := c.mover.step(in)
	s.Position = s.Position.Add(dir.Scale(f)).Add(right.Scale(side))
	s.Target = dir
}

// LookTarget returns Position + direction.
func (c *MouseLookController) LookTarget(s State) math3d.Vec3 {
	return s.Position.Add(s.Target)
}

// DirectionFromAngles converts yaw and pitch (degrees) to a unit vector:
// (cos p·sin y, sin p, -cos p·cos y).
func DirectionFromAngles(yaw, pitch float64) math3d.Vec3 {
	y, p := radians(yaw), radians(pitch)
	return math3d.V3(
		math.Cos(p)*math.Sin(y),
		math.Sin(p),
		-math.Cos(p)*math.Cos(y),
	)
}

// WrapYaw maps an angle in degrees into (-180, 180].
func WrapYaw(deg float64) float64 {
	y := math.Mod(deg+180, 360)
	if y <= 0 {
		y += 360
	}
	return y - 180
}

// ClampPitch limits an angle in degrees to [-MaxPitch, MaxPitch].
func ClampPitch(deg float64) float64 {
	return math.Max(-MaxPitch, math.Min(MaxPitch, deg))
}

func anglesFromDirection(dir math3d.Vec3) (yaw, pitch float64) {
	if dir.LenSq() == 0 {
		return 0, 0
	}
	d := dir.Normalize()
	pitch = ClampPitch(degrees(math.Asin(math.Max(-1, math.Min(1, d.Y)))))
	yaw = WrapYaw(degrees(math.Atan2(d.X, -d.Z)))
	return yaw, pitch
}
