package render

import (
	"github.com/taigrr/glcam/pkg/camera"
	"github.com/taigrr/glcam/pkg/math3d"
)

// Plane is the set of points p with Normal·p + D = 0.
type Plane struct {
	Normal math3d.Vec3
	D      float64
}

// Normalize scales the equation so Normal has unit length, making
// DistanceToPoint a true distance. A zero normal is left as is.
func (p *Plane) Normalize() {
	n := p.Normal.Len()
	if n == 0 {
		return
	}
	p.Normal = p.Normal.Div(n)
	p.D /= n
}

// DistanceToPoint returns the signed distance to point, positive on the
// side the normal points to.
func (p Plane) DistanceToPoint(point math3d.Vec3) float64 {
	return p.Normal.Dot(point) + p.D
}

// Frustum is a view volume bounded by six inward-facing planes.
type Frustum struct {
	Planes [6]Plane
}

// Plane indices, in the order of clipPlanes.
const (
	FrustumLeft = iota
	FrustumRight
	FrustumBottom
	FrustumTop
	FrustumNear
	FrustumFar
)

// NewFrustumFromMatrix extracts the planes of a clip matrix (Gribb/Hartmann).
// A clip plane p tested against M*v equals the plane Mᵀp tested against v,
// so the planes live in the space m maps from: world space for a
// view-projection, model space for a full MVP. Normals point inward.
func NewFrustumFromMatrix(m math3d.Mat4) Frustum {
	mt := m.Transpose()
	var f Frustum
	for i, p := range clipPlanes {
		c := mt.MulVec4(p)
		f.Planes[i] = Plane{Normal: c.Vec3(), D: c.W}
		f.Planes[i].Normalize()
	}
	return f
}

// FrameFrustum returns the world-space frustum seen by frame f.
func FrameFrustum(f camera.Frame) Frustum {
	return NewFrustumFromMatrix(f.ViewProjection())
}

// AABB is an axis-aligned bounding box.
type AABB struct {
	Min math3d.Vec3
	Max math3d.Vec3
}

// NewAABB returns the box spanning lo to hi, as returned by Mesh.Bounds.
func NewAABB(lo, hi math3d.Vec3) AABB {
	return AABB{Min: lo, Max: hi}
}

func (b AABB) Center() math3d.Vec3 { return b.Min.Add(b.Max).Scale(0.5) }
func (b AABB) Size() math3d.Vec3 { return b.Max.Sub(b.Min) }
func (b AABB) HalfSize() math3d.Vec3 { return b.Size().Scale(0.5) }

// Corner returns corner i in 0..7; bit 0 picks Max.X, bit 1 Max.Y and
// bit 2 Max.Z.
func (b AABB) Corner(i int) math3d.Vec3 {
	c := b.Min
	if i&1 != 0 {
		c.X = b.Max.X
	}
	if i&2 != 0 {
		c.Y = b.Max.Y
	}
	if i&4 != 0 {
		c.Z = b.Max.Z
	}
	return c
}

// Transform returns the box bounding all eight corners of b after m.
func (b AABB) Transform(m math3d.Mat4) AABB {
	p := m.MulVec3(b.Corner(0))
	out := AABB{Min: p, Max: p}
	for i := 1; i < 8; i++ {
		p = m.MulVec3(b.Corner(i))
		out.Min = out.Min.Min(p)
		out.Max = out.Max.Max(p)
	}
	return out
}

// ContainsPoint reports whether p lies inside b, boundary included.
func (b AABB) ContainsPoint(p math3d.Vec3) bool {
	return p.X >= b.Min.X && p.X <= b.Max.X &&
		p.Y >= b.Min.Y && p.Y <= b.Max.Y &&
		p.Z >= b.Min.Z && p.Z <= b.Max.Z
}

// support returns the corner of b furthest along n, or the nearest one
// when far is false.
func (b AABB) support(n math3d.Vec3, far bool) math3d.Vec3 {
	pick := func(pos bool, lo, hi float64) float64 {
		if pos == far {
			return hi
		}
		return lo
	}
	return math3d.V3(
		pick(n.X >= 0, b.Min.X, b.Max.X),
		pick(n.Y >= 0, b.Min.Y, b.Max.Y),
		pick(n.Z >= 0, b.Min.Z, b.Max.Z),
	)
}

// IntersectAABB reports whether any part of box may be inside the frustum.
// It is conservative: boxes near a frustum corner can pass without being
// visible.
func (f Frustum) IntersectAABB(box AABB) bool {
	for _, p := range f.Planes {
		if p.DistanceToPoint(box.support(p.Normal, true)) < 0 {
			return false
		}
	}
	return true
}

// ContainsAABB reports whether box is entirely inside the frustum.
func (f Frustum) ContainsAABB(box AABB) bool {
	for _, p := range f.Planes {
		if p.DistanceToPoint(box.support(p.Normal, false)) < 0 {
			return false
		}
	}
	return true
}

// ContainsPoint reports whether p is inside the frustum.
func (f Frustum) ContainsPoint(p math3d.Vec3) bool {
	for _, pl := range f.Planes {
		if pl.DistanceToPoint(p) < 0 {
			return false
		}
	}
	return true
}

// IntersectsSphere reports whether a sphere may overlap the frustum.
func (f Frustum) IntersectsSphere(center math3d.Vec3, radius float64) bool {
	for _, pl := range f.Planes {
		if pl.DistanceToPoint(center) < -radius {
			return false
		}
	}
	return true
}
