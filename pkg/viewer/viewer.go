// Package viewer drives one glcam scene: it owns the camera rig, the mesh
// and the rasterizer, and turns polled input into a drawn frame. The
// terminal and window hosts only deliver events and display pixels.
package viewer

import (
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"github.com/taigrr/glcam/pkg/camera"
	"github.com/taigrr/glcam/pkg/config"
	"github.com/taigrr/glcam/pkg/math3d"
	"github.com/taigrr/glcam/pkg/models"
	"github.com/taigrr/glcam/pkg/render"
)

// ModelSize is the largest dimension loaded models are scaled to.
const ModelSize = 2.0

// Background is the clear color.
var Background = render.RGB(30, 30, 40)

// Viewer renders the configured scene into a framebuffer once per frame.
// It is not safe for concurrent use.
type Viewer struct {
	cfg    config.Config
	rig    *camera.Rig
	mesh   *models.Mesh
	rast   *render.Rasterizer
	logger *log.Logger

	angle float64 // Model rotation about Y
	frame camera.Frame
}

// New validates cfg, loads the model and sets up a rig sized for fb. A nil
// logger discards output.
func New(cfg config.Config, fb *render.Framebuffer, logger *log.Logger) (*Viewer, error) {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	mesh, err := LoadMesh(cfg.Model)
	if err != nil {
		return nil, err
	}

	params := cfg.Projection
	if params.Aspect == 0 {
		params.Aspect = fb.Aspect()
	}

	state := cfg.InitialState()
	ctrl, err := camera.NewController(cfg.Scheme, cfg.Controller, state)
	if err != nil {
		return nil, err
	}
	rig, err := camera.NewRig(state, ctrl, params, camera.WithLogger(logger))
	if err != nil {
		return nil, err
	}

	rast := render.NewRasterizer(fb)
	rast.CullBackfaces = cfg.Cull

	logger.Info("scene loaded",
		"model", mesh.Name,
		"vertices", mesh.VertexCount(),
		"triangles", mesh.TriangleCount(),
		"camera", cfg.Scheme,
	)
	return &Viewer{
		cfg:    cfg,
		rig:    rig,
		mesh:   mesh,
		rast:   rast,
		logger: logger,
	}, nil
}

// LoadMesh loads the model at path scaled to ModelSize, or the tutorial
// pyramid when path is empty.
func LoadMesh(path string) (*models.Mesh, error) {
	if path == "" {
		return models.Pyramid(), nil
	}
	mesh, err := models.Load(path)
	if err != nil {
		return nil, err
	}
	mesh.Normalize(ModelSize)
	return mesh, nil
}

// Resize switches to a new framebuffer. The projection follows the new
// aspect ratio unless the config pins one.
func (v *Viewer) Resize(fb *render.Framebuffer) error {
	v.rast.SetFramebuffer(fb)
	if v.cfg.Projection.Aspect != 0 {
		return nil
	}
	return v.rig.SetAspect(fb.Aspect())
}

// Render steps the camera with in, advances the model spin and draws the
// frame. A rejected camera update leaves the framebuffer untouched.
func (v *Viewer) Render(in camera.Input) (camera.Frame, error) {
	f, err := v.rig.Step(in, math3d.RotateY(v.angle))
	if err != nil {
		return camera.Frame{}, err
	}
	v.angle += v.cfg.Spin
	v.frame = f

	v.rast.Begin(Background)
	if v.cfg.Wireframe {
		v.rast.DrawWireframe(f, v.mesh, render.ColorWire)
	} else {
		v.rast.DrawMesh(f, v.mesh, v.cfg.Lights)
	}
	return f, nil
}

// ToggleWireframe flips between shaded and wireframe drawing.
func (v *Viewer) ToggleWireframe() {
	v.cfg.Wireframe = !v.cfg.Wireframe
}

// Framebuffer returns the current render target.
func (v *Viewer) Framebuffer() *render.Framebuffer {
	return v.rast.Framebuffer()
}

// Stats returns the rasterizer counters for the last frame.
func (v *Viewer) Stats() render.Stats {
	return v.rast.Stats
}

// LastFrame returns the most recently rendered frame.
func (v *Viewer) LastFrame() camera.Frame {
	return v.frame
}

// Rig returns the camera rig.
func (v *Viewer) Rig() *camera.Rig {
	return v.rig
}

// Mesh returns the scene mesh.
func (v *Viewer) Mesh() *models.Mesh {
	return v.mesh
}
