package render

import (
	"math"

	"github.com/taigrr/glcam/pkg/camera"
	"github.com/taigrr/glcam/pkg/light"
	"github.com/taigrr/glcam/pkg/math3d"
	"github.com/taigrr/glcam/pkg/models"
)

// Stats counts the work done since the last Begin.
type Stats struct {
	Meshes    int // Meshes submitted
	Culled    int // Meshes rejected by the frustum test
	Triangles int // Triangles rasterized after clipping
	BackFaces int // Triangles dropped by backface culling
	Pixels    int // Fragments that passed the depth test
}

// Rasterizer draws meshes for a camera.Frame into a Framebuffer.
type Rasterizer struct {
	fb    *Framebuffer
	Stats Stats

	// CullBackfaces drops triangles wound clockwise on screen. The tutorial
	// pyramid is drawn without culling.
	CullBackfaces bool

	verts []clipVertex // Per-mesh vertex stage output, reused
	poly  []clipVertex // Near-plane clipping scratch
}

// clipVertex is a vertex after the vertex stage.
type clipVertex struct {
	pos   math3d.Vec4 // Clip space
	color math3d.Vec3 // Lit linear RGB
}

// screenVertex is a vertex in pixel coordinates.
type screenVertex struct {
	X, Y, Z float64     // Pixel position and NDC depth
	InvW    float64     // 1/w for perspective-correct interpolation
	Color   math3d.Vec3 // Color divided by w
}

// NewRasterizer creates a new rasterizer.
func NewRasterizer(fb *Framebuffer) *Rasterizer {
	return &Rasterizer{fb: fb}
}

// Framebuffer returns the render target.
func (r *Rasterizer) Framebuffer() *Framebuffer {
	return r.fb
}

// SetFramebuffer swaps the render target, e.g. after a resize.
func (r *Rasterizer) SetFramebuffer(fb *Framebuffer) {
	r.fb = fb
}

// Begin clears color and depth and resets Stats. Call once per frame.
func (r *Rasterizer) Begin(bg Color) {
	r.fb.Clear(bg)
	r.fb.ClearDepth()
	r.Stats = Stats{}
}

// Visible reports whether the mesh bounds intersect the frame's frustum.
func (r *Rasterizer) Visible(f camera.Frame, m *models.Mesh) bool {
	// Planes of the full MVP live in model space, so the local bounds can
	// be tested without transforming them.
	return NewFrustumFromMatrix(f.MVP()).IntersectAABB(NewAABB(m.Bounds()))
}

// DrawMesh shades each vertex with lights (Gouraud), clips against the near
// plane and fills the triangles with a depth test. It returns false when
// the mesh was culled.
func (r *Rasterizer) DrawMesh(f camera.Frame, m *models.Mesh, lights light.Scene) bool {
	r.Stats.Meshes++
	if !r.Visible(f, m) {
		r.Stats.Culled++
		return false
	}

	normalMat := f.Model
	if inv, ok := f.Model.Inverse(); ok {
		normalMat = inv.Transpose()
	}
	vp := f.ViewProjection()

	r.verts = r.verts[:0]
	for _, v := range m.Vertices {
		world := f.Model.MulVec3(v.Position)
		n := normalMat.MulVec3Dir(v.Normal).Normalize()
		r.verts = append(r.verts, clipVertex{
			pos:   vp.MulVec4(math3d.Point(world)),
			color: lights.Shade(world, n, f.Eye).Mul(m.Color),
		})
	}

	for t := range m.TriangleCount() {
		tri := m.Triangle(t)
		r.drawTriangle(r.verts[tri[0]], r.verts[tri[1]], r.verts[tri[2]])
	}
	return true
}

// drawTriangle clips one clip-space triangle and rasterizes the fan that
// remains.
func (r *Rasterizer) drawTriangle(a, b, c clipVertex) {
	r.poly = clipNear(append(r.poly[:0], a, b, c))
	for i := 1; i+1 < len(r.poly); i++ {
		r.fill(r.poly[0], r.poly[i], r.poly[i+1])
	}
}

// clipNear clips a convex polygon against z >= -w in place. Every vertex
// that survives has w >= near > 0.
func clipNear(poly []clipVertex) []clipVertex {
	n := len(poly)
	out := poly[n:]
	for i := range n {
		cur, next := poly[i], poly[(i+1)%n]
		dc, dn := cur.pos.Z+cur.pos.W, next.pos.Z+next.pos.W
		if dc >= 0 {
			out = append(out, cur)
		}
		if (dc >= 0) != (dn >= 0) {
			t := dc / (dc - dn)
			out = append(out, clipVertex{
				pos:   cur.pos.Add(next.pos.Sub(cur.pos).Scale(t)),
				color: cur.color.Lerp(next.color, t),
			})
		}
	}
	return append(poly[:0], out...)
}

// fill rasterizes a triangle whose vertices all lie in front of the near
// plane.
func (r *Rasterizer) fill(a, b, c clipVertex) {
	w, h := float64(r.fb.Width), float64(r.fb.Height)

	var sv [3]screenVertex
	for i, v := range [3]clipVertex{a, b, c} {
		inv := 1 / v.pos.W
		sv[i] = screenVertex{
			X:     (v.pos.X*inv + 1) * 0.5 * w,
			Y:     (1 - v.pos.Y*inv) * 0.5 * h, // Y flipped
			Z:     v.pos.Z * inv,
			InvW:  inv,
			Color: v.color.Scale(inv),
		}
	}

	// Counter-clockwise in NDC turns clockwise once Y is flipped, which
	// makes the signed area negative for front faces.
	area := (sv[1].X-sv[0].X)*(sv[2].Y-sv[0].Y) - (sv[1].Y-sv[0].Y)*(sv[2].X-sv[0].X)
	if area == 0 || math.IsNaN(area) {
		return
	}
	if r.CullBackfaces && area > 0 {
		r.Stats.BackFaces++
		return
	}
	r.Stats.Triangles++

	// Find bounding box
	minX := int(math.Max(0, math.Floor(min3(sv[0].X, sv[1].X, sv[2].X))))
	maxX := int(math.Min(w-1, math.Ceil(max3(sv[0].X, sv[1].X, sv[2].X))))
	minY := int(math.Max(0, math.Floor(min3(sv[0].Y, sv[1].Y, sv[2].Y))))
	maxY := int(math.Min(h-1, math.Ceil(max3(sv[0].Y, sv[1].Y, sv[2].Y))))

	for y := minY; y <= maxY; y++ {
		for x := minX; x <= maxX; x++ {
			px, py := float64(x)+0.5, float64(y)+0.5

			bc := barycentric(
				sv[0].X, sv[0].Y,
				sv[1].X, sv[1].Y,
				sv[2].X, sv[2].Y,
				px, py,
			)
			if bc.X < 0 || bc.Y < 0 || bc.Z < 0 {
				continue
			}

			// NDC depth is affine in screen space
			z := bc.X*sv[0].Z + bc.Y*sv[1].Z + bc.Z*sv[2].Z
			if z > 1 || !r.fb.DepthTest(x, y, z) {
				continue
			}

			invW := bc.X*sv[0].InvW + bc.Y*sv[1].InvW + bc.Z*sv[2].InvW
			col := sv[0].Color.Scale(bc.X).
				Add(sv[1].Color.Scale(bc.Y)).
				Add(sv[2].Color.Scale(bc.Z)).
				Div(invW)

			r.fb.SetPixel(x, y, FromLinear(col))
			r.Stats.Pixels++
		}
	}
}

// barycentric calculates barycentric coordinates for point (px, py) in triangle.
func barycentric(x0, y0, x1, y1, x2, y2, px, py float64) math3d.Vec3 {
	v0x, v0y := x2-x0, y2-y0
	v1x, v1y := x1-x0, y1-y0
	v2x, v2y := px-x0, py-y0

	dot00 := v0x*v0x + v0y*v0y
	dot01 := v0x*v1x + v0y*v1y
	dot02 := v0x*v2x + v0y*v2y
	dot11 := v1x*v1x + v1y*v1y
	dot12 := v1x*v2x + v1y*v2y

	invDenom := 1.0 / (dot00*dot11 - dot01*dot01)
	u := (dot11*dot02 - dot01*dot12) * invDenom
	v := (dot00*dot12 - dot01*dot02) * invDenom

	return math3d.V3(1-u-v, v, u)
}

func min3(a, b, c float64) float64 {
	return math.Min(a, math.Min(b, c))
}

func max3(a, b, c float64) float64 {
	return math.Max(a, math.Max(b, c))
}
