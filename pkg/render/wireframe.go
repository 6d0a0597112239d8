package render

import (
	"github.com/taigrr/glcam/pkg/camera"
	"github.com/taigrr/glcam/pkg/math3d"
	"github.com/taigrr/glcam/pkg/models"
)

// clipPlanes are the six view-volume planes in clip space; a point v is
// inside when Dot(plane, v) >= 0 for all of them.
var clipPlanes = [6]math3d.Vec4{
	{X: 1, W: 1},  // Left
	{X: -1, W: 1}, // Right
	{Y: 1, W: 1},  // Bottom
	{Y: -1, W: 1}, // Top
	{Z: 1, W: 1},  // Near
	{Z: -1, W: 1}, // Far
}

// clipLine clips segment ab to the view volume (Liang-Barsky in clip space).
func clipLine(a, b math3d.Vec4) (math3d.Vec4, math3d.Vec4, bool) {
	t0, t1 := 0.0, 1.0
	for _, p := range clipPlanes {
		da, db := p.Dot(a), p.Dot(b)
		switch {
		case da < 0 && db < 0:
			return a, b, false
		case da < 0:
			t0 = max(t0, da/(da-db))
		case db < 0:
			t1 = min(t1, da/(da-db))
		}
	}
	if t0 > t1 {
		return a, b, false
	}
	d := b.Sub(a)
	return a.Add(d.Scale(t0)), a.Add(d.Scale(t1)), true
}

// toScreen maps a clip-space point with w > 0 to pixel coordinates.
func (r *Rasterizer) toScreen(v math3d.Vec4) (int, int) {
	ndc := v.PerspectiveDivide()
	x := (ndc.X + 1) * 0.5 * float64(r.fb.Width)
	y := (1 - ndc.Y) * 0.5 * float64(r.fb.Height)
	return int(x), int(y)
}

// drawClipLine draws a clip-space segment without depth testing.
func (r *Rasterizer) drawClipLine(a, b math3d.Vec4, color Color) {
	a, b, ok := clipLine(a, b)
	if !ok {
		return
	}
	x0, y0 := r.toScreen(a)
	x1, y1 := r.toScreen(b)
	r.fb.DrawLine(x0, y0, x1, y1, color)
}

// DrawLine3D draws a world-space line.
func (r *Rasterizer) DrawLine3D(f camera.Frame, p1, p2 math3d.Vec3, color Color) {
	vp := f.ViewProjection()
	r.drawClipLine(vp.MulVec4(math3d.Point(p1)), vp.MulVec4(math3d.Point(p2)), color)
}

// DrawWireframe draws every triangle edge of the mesh, x-ray style (no
// depth test). It returns false when the mesh was culled.
func (r *Rasterizer) DrawWireframe(f camera.Frame, m *models.Mesh, color Color) bool {
	r.Stats.Meshes++
	if !r.Visible(f, m) {
		r.Stats.Culled++
		return false
	}

	mvp := f.MVP()
	r.verts = r.verts[:0]
	for _, v := range m.Vertices {
		r.verts = append(r.verts, clipVertex{pos: mvp.MulVec4(math3d.Point(v.Position))})
	}

	for t := range m.TriangleCount() {
		tri := m.Triangle(t)
		for i := range 3 {
			a, b := r.verts[tri[i]].pos, r.verts[tri[(i+1)%3]].pos
			r.drawClipLine(a, b, color)
		}
		r.Stats.Triangles++
	}
	return true
}

// DrawAxes draws the world coordinate axes at the origin.
func (r *Rasterizer) DrawAxes(f camera.Frame, length float64) {
	origin := math3d.Zero3()
	r.DrawLine3D(f, origin, math3d.V3(length, 0, 0), ColorRed)   // X axis
	r.DrawLine3D(f, origin, math3d.V3(0, length, 0), ColorGreen) // Y axis
	r.DrawLine3D(f, origin, math3d.V3(0, 0, length), ColorBlue)  // Z axis
}

// DrawGrid draws a grid on the XZ plane at y=0.
func (r *Rasterizer) DrawGrid(f camera.Frame, size, step float64, color Color) {
	half := size / 2
	for x := -half; x <= half; x += step {
		r.DrawLine3D(f, math3d.V3(x, 0, -half), math3d.V3(x, 0, half), color)
	}
	for z := -half; z <= half; z += step {
		r.DrawLine3D(f, math3d.V3(-half, 0, z), math3d.V3(half, 0, z), color)
	}
}
