package config

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/spf13/pflag"
	"github.com/taigrr/glcam/pkg/camera"
	"github.com/taigrr/glcam/pkg/light"
	"github.com/taigrr/glcam/pkg/math3d"
)

func TestDefaultIsValid(t *testing.T) {
	c := Default()
	if err := c.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if c.Projection != camera.DefaultProjection() {
		t.Errorf("Projection = %+v", c.Projection)
	}
	if c.Spin != 0.01 {
		t.Errorf("Spin = %v, want 0.01", c.Spin)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr error
	}{
		{"far before near", func(c *Config) { c.Projection.Near, c.Projection.Far = 10, 1 }, camera.ErrInvalidProjection},
		{"wide fov", func(c *Config) { c.Projection.FOVDegrees = 200 }, camera.ErrInvalidProjection},
		{"negative aspect", func(c *Config) { c.Projection.Aspect = -1 }, camera.ErrInvalidProjection},
		{"too many lights", func(c *Config) {
			for range 3 {
				c.Lights.Points = append(c.Lights.Points, light.DefaultPoint(math3d.Up()))
			}
		}, light.ErrTooManyLights},
		{"unknown scheme", func(c *Config) { c.Scheme = camera.Scheme(7) }, nil},
		{"negative speed", func(c *Config) { c.Controller.MoveSpeed = -1 }, nil},
		{"zero fps", func(c *Config) { c.Controller.FPS = 0 }, nil},
		{"bad log level", func(c *Config) { c.LogLevel = "chatty" }, nil},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c := Default()
			tc.mutate(&c)
			err := c.Validate()
			if err == nil {
				t.Fatal("expected error")
			}
			if tc.wantErr != nil && !errors.Is(err, tc.wantErr) {
				t.Errorf("err = %v, want %v", err, tc.wantErr)
			}
		})
	}
}

func TestValidateJoinsErrors(t *testing.T) {
	c := Default()
	c.Projection.Near = 0
	c.Controller.FPS = -1

	err := c.Validate()
	if !errors.Is(err, camera.ErrInvalidProjection) || !strings.Contains(err.Error(), "fps") {
		t.Errorf("err = %v, want both problems", err)
	}
}

func TestValidateAllowsDerivedAspect(t *testing.T) {
	c := Default()
	c.Projection.Aspect = 0
	if err := c.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

func TestBindFlags(t *testing.T) {
	c := Default()
	fs := pflag.NewFlagSet("glcam", pflag.ContinueOnError)
	c.BindFlags(fs)

	err := fs.Parse([]string{
		"--fov", "60",
		"--camera", "MouseLook",
		"--speed", "0.2",
		"--smooth",
		"--position", "1, 2, 3",
		"--light-dir", "0,-1,0",
		"--point-light", "2,2,2",
		"--point-light", "-2,1,0",
		"--wireframe",
		"--log-level", "debug",
	})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	if c.Projection.FOVDegrees != 60 {
		t.Errorf("fov = %v", c.Projection.FOVDegrees)
	}
	if c.Scheme != camera.SchemeMouseLook {
		t.Errorf("scheme = %v", c.Scheme)
	}
	if c.Controller.MoveSpeed != 0.2 || !c.Controller.Smoothing {
		t.Errorf("controller = %+v", c.Controller)
	}
	if c.Position == nil || *c.Position != math3d.V3(1, 2, 3) {
		t.Errorf("position = %v", c.Position)
	}
	if c.Lights.Parallel.Direction != math3d.V3(0, -1, 0) {
		t.Errorf("light dir = %v", c.Lights.Parallel.Direction)
	}
	if len(c.Lights.Points) != 2 || c.Lights.Points[1].Position != math3d.V3(-2, 1, 0) {
		t.Errorf("points = %+v", c.Lights.Points)
	}
	if !c.Wireframe || c.LogLevel != "debug" {
		t.Errorf("wireframe = %v, log level = %q", c.Wireframe, c.LogLevel)
	}
	if err := c.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

func TestBindFlagsRejectsBadValues(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"scheme", []string{"--camera", "orbit"}},
		{"vector arity", []string{"--position", "1,2"}},
		{"vector number", []string{"--light-dir", "a,b,c"}},
		{"third point light", []string{"--point-light", "0,0,0", "--point-light", "0,0,0", "--point-light", "0,0,0"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c := Default()
			fs := pflag.NewFlagSet("glcam", pflag.ContinueOnError)
			fs.SetOutput(&bytes.Buffer{})
			c.BindFlags(fs)
			if err := fs.Parse(tc.args); err == nil {
				t.Error("expected parse error")
			}
		})
	}
}

func TestInitialState(t *testing.T) {
	c := Default()
	if got := c.InitialState(); got != camera.DefaultState(camera.SchemeTargetPoint) {
		t.Errorf("default pose = %+v", got)
	}

	pos := math3d.V3(1, 2, 10)
	c.Position = &pos
	s := c.InitialState()
	if s.Position != pos {
		t.Errorf("position = %v, want %v", s.Position, pos)
	}
	if dir := s.Target.Sub(s.Position); !dir.ApproxEqual(math3d.Forward(), 1e-12) {
		t.Errorf("target offset = %v, want forward", dir)
	}

	c.Scheme = camera.SchemeMouseLook
	if s := c.InitialState(); s.Target != math3d.Forward() {
		t.Errorf("mouse-look target = %v, want forward direction", s.Target)
	}
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	c := Default()
	c.LogLevel = "warn"

	logger := c.NewLogger(&buf, log.Options{Prefix: "glcam"})
	logger.Info("hidden")
	logger.Warn("shown")

	out := buf.String()
	if strings.Contains(out, "hidden") || !strings.Contains(out, "shown") {
		t.Errorf("output = %q", out)
	}
}
