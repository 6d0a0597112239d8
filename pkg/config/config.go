// Package config holds the run configuration shared by the glcam hosts.
package config

import (
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/pflag"
	"github.com/taigrr/glcam/pkg/camera"
	"github.com/taigrr/glcam/pkg/light"
	"github.com/taigrr/glcam/pkg/math3d"
)

// Config is everything a host needs to set up a camera rig and a scene.
type Config struct {
	Projection camera.ProjectionParams
	Scheme     camera.Scheme
	Controller camera.ControllerConfig
	Lights     light.Scene

	// Position overrides the scheme's default eye position when set.
	Position *math3d.Vec3

	Spin      float64 // Model rotation about Y per frame, radians
	Wireframe bool
	Cull      bool // Drop back-facing triangles
	Model     string
	LogLevel  string
}

// Default returns the tutorial setup: 45° field of view, 16:9-ish aspect,
// target-point camera and a slowly spinning model.
func Default() Config {
	return Config{
		Projection: camera.DefaultProjection(),
		Scheme:     camera.SchemeTargetPoint,
		Controller: camera.DefaultControllerConfig(),
		Lights:     light.DefaultScene(),
		Spin:       0.01,
		LogLevel:   "info",
	}
}

// Validate checks the whole configuration and joins every problem found.
func (c Config) Validate() error {
	var errs []error
	p := c.Projection
	if p.Aspect == 0 {
		// Filled in by the host from its output size
		p.Aspect = 1
	}
	if err := p.Validate(); err != nil {
		errs = append(errs, err)
	}
	if _, err := camera.ParseScheme(c.Scheme.String()); err != nil {
		errs = append(errs, err)
	}
	if c.Controller.MoveSpeed < 0 {
		errs = append(errs, fmt.Errorf("move speed %v must not be negative", c.Controller.MoveSpeed))
	}
	if c.Controller.Sensitivity < 0 {
		errs = append(errs, fmt.Errorf("sensitivity %v must not be negative", c.Controller.Sensitivity))
	}
	if c.Controller.FPS <= 0 {
		errs = append(errs, fmt.Errorf("fps %d must be positive", c.Controller.FPS))
	}
	if err := c.Lights.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("lights: %w", err))
	}
	if c.Position != nil && !c.Position.IsFinite() {
		errs = append(errs, fmt.Errorf("position %v is not finite", *c.Position))
	}
	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, fmt.Errorf("log level: %w", err))
	}
	return errors.Join(errs...)
}

// InitialState returns the starting camera pose for the configured scheme.
func (c Config) InitialState() camera.State {
	s := camera.DefaultState(c.Scheme)
	if c.Position != nil {
		if c.Scheme == camera.SchemeTargetPoint {
			s.Target = s.Target.Sub(s.Position).Add(*c.Position)
		}
		s.Position = *c.Position
	}
	return s
}

// NewLogger returns a logger writing to w at the configured level.
func (c Config) NewLogger(w io.Writer, opts log.Options) *log.Logger {
	lvl, err := log.ParseLevel(c.LogLevel)
	if err != nil {
		lvl = log.InfoLevel
	}
	opts.Level = lvl
	return log.NewWithOptions(w, opts)
}

// BindFlags registers flags that write into c. Call before parsing; values
// left untouched keep their current setting.
func (c *Config) BindFlags(fs *pflag.FlagSet) {
	fs.Float64Var(&c.Projection.FOVDegrees, "fov", c.Projection.FOVDegrees, "vertical field of view in degrees")
	fs.Float64Var(&c.Projection.Aspect, "aspect", c.Projection.Aspect, "viewport aspect ratio (width/height); 0 derives it from the output size")
	fs.Float64Var(&c.Projection.Near, "near", c.Projection.Near, "near clip plane distance")
	fs.Float64Var(&c.Projection.Far, "far", c.Projection.Far, "far clip plane distance")

	fs.Var(&schemeValue{&c.Scheme}, "camera", "camera scheme: target or mouselook")
	fs.Float64Var(&c.Controller.MoveSpeed, "speed", c.Controller.MoveSpeed, "movement per frame in world units")
	fs.Float64Var(&c.Controller.Sensitivity, "sensitivity", c.Controller.Sensitivity, "degrees of rotation per pointer unit")
	fs.BoolVar(&c.Controller.Smoothing, "smooth", c.Controller.Smoothing, "ease movement speed with a spring")
	fs.IntVar(&c.Controller.FPS, "fps", c.Controller.FPS, "target frames per second")
	fs.Var(&optionalVec3Value{&c.Position}, "position", "initial camera position as x,y,z")

	fs.Float64Var(&c.Lights.Specular, "specular", c.Lights.Specular, "specular highlight strength")
	fs.Float64Var(&c.Lights.Parallel.Intensity, "light-intensity", c.Lights.Parallel.Intensity, "parallel light intensity")
	fs.Var(&vec3Value{&c.Lights.Parallel.Direction}, "light-dir", "parallel light direction as x,y,z")
	fs.Var(&pointLightsValue{&c.Lights.Points}, "point-light", "add a point light at x,y,z (repeatable, max 2)")

	fs.Float64Var(&c.Spin, "spin", c.Spin, "model rotation about Y per frame in radians")
	fs.BoolVar(&c.Wireframe, "wireframe", c.Wireframe, "draw edges only")
	fs.BoolVar(&c.Cull, "cull", c.Cull, "skip back-facing triangles")
	fs.StringVar(&c.LogLevel, "log-level", c.LogLevel, "log level: debug, info, warn or error")
}
