package camera

import (
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/taigrr/glcam/pkg/math3d"
)

// Frame holds the matrices for one rendered frame.
type Frame struct {
	Index      uint64
	Eye        math3d.Vec3 // Camera position, for specular lighting
	Model      math3d.Mat4
	View       math3d.Mat4
	Projection math3d.Mat4
}

// ViewProjection returns Projection * View.
func (f Frame) ViewProjection() math3d.Mat4 {
	return f.Projection.Mul(f.View)
}

// MVP returns Projection * View * Model.
func (f Frame) MVP() math3d.Mat4 {
	return f.ViewProjection().Mul(f.Model)
}

// Uniforms returns the model, view and projection matrices as column-major
// float32 buffers, ready for a uniform upload with transpose=false.
func (f Frame) Uniforms() (model, view, projection mgl32.Mat4) {
	return ToMgl32(f.Model), ToMgl32(f.View), ToMgl32(f.Projection)
}

// ToMgl32 narrows m to float32 keeping the column-major layout.
func ToMgl32(m math3d.Mat4) mgl32.Mat4 {
	var out mgl32.Mat4
	for i, v := range m {
		out[i] = float32(v)
	}
	return out
}

// Rig owns the camera for a run and composes one Frame per Step.
// It is not safe for concurrent use; drive it from the frame loop.
type Rig struct {
	state      State
	ctrl       Controller
	params     ProjectionParams
	projection math3d.Mat4
	frames     uint64
	logger     *log.Logger
}

// Option configures a Rig.
type Option func(*Rig)

// WithLogger sets the logger used for frame diagnostics.
func WithLogger(l *log.Logger) Option {
	return func(r *Rig) {
		if l != nil {
			r.logger = l
		}
	}
}

// NewRig validates the initial pose and projection and builds the
// projection matrix once.
func NewRig(s State, ctrl Controller, p ProjectionParams, opts ...Option) (*Rig, error) {
	if ctrl == nil {
		return nil, fmt.Errorf("new rig: nil controller")
	}
	r := &Rig{
		state:  s,
		ctrl:   ctrl,
		params: p,
		logger: log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(r)
	}

	proj, err := BuildPerspective(p)
	if err != nil {
		return nil, fmt.Errorf("new rig: %w", err)
	}
	r.projection = proj

	if _, err := BuildLookAt(s.Position, ctrl.LookTarget(s), s.Up); err != nil {
		return nil, fmt.Errorf("new rig: initial pose: %w", err)
	}

	r.logger.Debug("camera rig ready",
		"scheme", ctrl.Scheme(),
		"fov", p.FOVDegrees,
		"aspect", p.Aspect,
		"near", p.Near,
		"far", p.Far,
	)
	return r, nil
}

// Step applies input, rebuilds the view matrix and composes the frame.
// The camera is updated before the view is built, so the returned Frame
// always reflects this frame's input. Non-finite pointer deltas are
// rejected before the controller sees them. If the updated pose is
// degenerate the previous pose is kept and the error is returned; the
// rejection is logged here at debug level only.
func (r *Rig) Step(in Input, model math3d.Mat4) (Frame, error) {
	if !in.finite() {
		err := fmt.Errorf("frame %d: %w: pointer delta (%v, %v)", r.frames, ErrNonFinite, in.DX, in.DY)
		r.logger.Debug("rejected camera input", "frame", r.frames, "err", err)
		return Frame{}, err
	}

	next := r.state
	r.ctrl.Update(&next, in)

	view, err := BuildLookAt(next.Position, r.ctrl.LookTarget(next), next.Up)
	if err != nil {
		r.logger.Debug("rejected camera update", "frame", r.frames, "err", err)
		return Frame{}, fmt.Errorf("frame %d: %w", r.frames, err)
	}
	r.state = next

	f := Frame{
		Index:      r.frames,
		Eye:        next.Position,
		Model:      model,
		View:       view,
		Projection: r.projection,
	}
	r.frames++
	return f, nil
}

// State returns the current camera pose.
func (r *Rig) State() State {
	return r.state
}

// Controller returns the active controller.
func (r *Rig) Controller() Controller {
	return r.ctrl
}

// Params returns the projection parameters.
func (r *Rig) Params() ProjectionParams {
	return r.params
}

// Projection returns the cached projection matrix.
func (r *Rig) Projection() math3d.Mat4 {
	return r.projection
}

// SetAspect rebuilds the projection for a resized viewport.
func (r *Rig) SetAspect(aspect float64) error {
	p := r.params
	p.Aspect = aspect
	proj, err := BuildPerspective(p)
	if err != nil {
		return fmt.Errorf("set aspect: %w", err)
	}
	r.params, r.projection = p, proj
	r.logger.Debug("viewport resized", "aspect", aspect)
	return nil
}
