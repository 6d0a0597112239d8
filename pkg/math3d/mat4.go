package math3d

import "math"

// Mat4 is a 4x4 matrix stored in column-major order and applied to column
// vectors (M * v). The layout matches what an OpenGL uniform upload with
// transpose=false expects.
//
// Memory layout (indices):
// | 0  4  8  12 |
// | 1  5  9  13 |
// | 2  6  10 14 |
// | 3  7  11 15 |
type Mat4 [16]float64

// Identity returns the identity matrix.
func Identity() Mat4 {
	return Mat4{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// Zero returns the zero matrix.
func Zero() Mat4 {
	return Mat4{}
}

// FromRows builds a matrix from its four rows, so matrices can be written
// in the same order they appear on paper.
func FromRows(r0, r1, r2, r3 Vec4) Mat4 {
	return Mat4{
		r0.X, r1.X, r2.X, r3.X,
		r0.Y, r1.Y, r2.Y, r3.Y,
		r0.Z, r1.Z, r2.Z, r3.Z,
		r0.W, r1.W, r2.W, r3.W,
	}
}

// Row returns row i.
func (m Mat4) Row(i int) Vec4 {
	return Vec4{m[i], m[i+4], m[i+8], m[i+12]}
}

// Col returns column j.
func (m Mat4) Col(j int) Vec4 {
	return Vec4{m[j*4], m[j*4+1], m[j*4+2], m[j*4+3]}
}

// Get returns the element at (row, col).
func (m Mat4) Get(row, col int) float64 {
	return m[row+col*4]
}

// Set sets the element at (row, col).
func (m *Mat4) Set(row, col int, val float64) {
	m[row+col*4] = val
}

// Translate creates a translation matrix.
func Translate(v Vec3) Mat4 {
	return FromRows(
		V4(1, 0, 0, v.X),
		V4(0, 1, 0, v.Y),
		V4(0, 0, 1, v.Z),
		V4(0, 0, 0, 1),
	)
}

// Scale creates a scaling matrix.
func Scale(v Vec3) Mat4 {
	return FromRows(
		V4(v.X, 0, 0, 0),
		V4(0, v.Y, 0, 0),
		V4(0, 0, v.Z, 0),
		V4(0, 0, 0, 1),
	)
}

// ScaleUniform creates a uniform scaling matrix.
func ScaleUniform(s float64) Mat4 {
	return Scale(V3(s, s, s))
}

// RotateX creates a counter-clockwise rotation around +X (radians).
func RotateX(angle float64) Mat4 {
	c, s := math.Cos(angle), math.Sin(angle)
	return FromRows(
		V4(1, 0, 0, 0),
		V4(0, c, -s, 0),
		V4(0, s, c, 0),
		V4(0, 0, 0, 1),
	)
}

// RotateY creates a counter-clockwise rotation around +Y (radians).
func RotateY(angle float64) Mat4 {
	c, s := math.Cos(angle), math.Sin(angle)
	return FromRows(
		V4(c, 0, s, 0),
		V4(0, 1, 0, 0),
		V4(-s, 0, c, 0),
		V4(0, 0, 0, 1),
	)
}

// RotateZ creates a counter-clockwise rotation around +Z (radians).
func RotateZ(angle float64) Mat4 {
	c, s := math.Cos(angle), math.Sin(angle)
	return FromRows(
		V4(c, -s, 0, 0),
		V4(s, c, 0, 0),
		V4(0, 0, 1, 0),
		V4(0, 0, 0, 1),
	)
}

// LookAt is the closed-form right-handed view matrix. It does not check
// its inputs; camera.BuildLookAt is the checked, derived version.
func LookAt(eye, center, up Vec3) Mat4 {
	f := center.Sub(eye).Normalize()
	s := f.Cross(up).Normalize()
	u := s.Cross(f)

	return Mat4{
		s.X, u.X, -f.X, 0,
		s.Y, u.Y, -f.Y, 0,
		s.Z, u.Z, -f.Z, 0,
		-s.Dot(eye), -u.Dot(eye), f.Dot(eye), 1,
	}
}

// Perspective is the closed-form symmetric-frustum projection with NDC
// depth in [-1, 1]. fovy is in radians.
func Perspective(fovy, aspect, near, far float64) Mat4 {
	f := 1.0 / math.Tan(fovy/2)
	nf := 1.0 / (near - far)

	return Mat4{
		f / aspect, 0, 0, 0,
		0, f, 0, 0,
		0, 0, (far + near) * nf, -1,
		0, 0, 2 * far * near * nf, 0,
	}
}

// Mul multiplies two matrices: a * b. Applied to a vector, b acts first.
//
//nolint:st1016 // a*b naming convention is clearer for matrix multiplication
func (a Mat4) Mul(b Mat4) Mat4 {
	var m Mat4
	for col := range 4 {
		for row := range 4 {
			var sum float64
			for k := range 4 {
				sum += a[row+k*4] * b[k+col*4]
			}
			m[row+col*4] = sum
		}
	}
	return m
}

// MulVec4 returns m * v.
func (m Mat4) MulVec4(v Vec4) Vec4 {
	return Vec4{
		m[0]*v.X + m[4]*v.Y + m[8]*v.Z + m[12]*v.W,
		m[1]*v.X + m[5]*v.Y + m[9]*v.Z + m[13]*v.W,
		m[2]*v.X + m[6]*v.Y + m[10]*v.Z + m[14]*v.W,
		m[3]*v.X + m[7]*v.Y + m[11]*v.Z + m[15]*v.W,
	}
}

// MulVec3 transforms v as a point (w=1) and divides by the resulting w
// when it is non-zero.
func (m Mat4) MulVec3(v Vec3) Vec3 {
	r := m.MulVec4(Point(v))
	if r.W == 0 || r.W == 1 {
		return r.Vec3()
	}
	return r.PerspectiveDivide()
}

// MulVec3Dir transforms v as a direction (w=0, no translation).
func (m Mat4) MulVec3Dir(v Vec3) Vec3 {
	return m.MulVec4(Direction(v)).Vec3()
}

// Transpose returns the transposed matrix.
func (m Mat4) Transpose() Mat4 {
	return FromRows(m.Col(0), m.Col(1), m.Col(2), m.Col(3))
}

// Inverse returns the inverse of m and whether m was invertible.
// A singular matrix yields the identity and false.
func (m Mat4) Inverse() (Mat4, bool) {
	a := func(r, c int) float64 { return m[r+c*4] }

	// 2x2 minors of the top two rows (s) and bottom two rows (c).
	s0 := a(0, 0)*a(1, 1) - a(1, 0)*a(0, 1)
	s1 := a(0, 0)*a(1, 2) - a(1, 0)*a(0, 2)
	s2 := a(0, 0)*a(1, 3) - a(1, 0)*a(0, 3)
	s3 := a(0, 1)*a(1, 2) - a(1, 1)*a(0, 2)
	s4 := a(0, 1)*a(1, 3) - a(1, 1)*a(0, 3)
	s5 := a(0, 2)*a(1, 3) - a(1, 2)*a(0, 3)

	c5 := a(2, 2)*a(3, 3) - a(3, 2)*a(2, 3)
	c4 := a(2, 1)*a(3, 3) - a(3, 1)*a(2, 3)
	c3 := a(2, 1)*a(3, 2) - a(3, 1)*a(2, 2)
	c2 := a(2, 0)*a(3, 3) - a(3, 0)*a(2, 3)
	c1 := a(2, 0)*a(3, 2) - a(3, 0)*a(2, 2)
	c0 := a(2, 0)*a(3, 1) - a(3, 0)*a(2, 1)

	det := s0*c5 - s1*c4 + s2*c3 + s3*c2 - s4*c1 + s5*c0
	if det == 0 {
		return Identity(), false
	}
	inv := 1 / det

	return FromRows(
		V4(
			(a(1, 1)*c5-a(1, 2)*c4+a(1, 3)*c3)*inv,
			(-a(0, 1)*c5+a(0, 2)*c4-a(0, 3)*c3)*inv,
			(a(3, 1)*s5-a(3, 2)*s4+a(3, 3)*s3)*inv,
			(-a(2, 1)*s5+a(2, 2)*s4-a(2, 3)*s3)*inv,
		),
		V4(
			(-a(1, 0)*c5+a(1, 2)*c2-a(1, 3)*c1)*inv,
			(a(0, 0)*c5-a(0, 2)*c2+a(0, 3)*c1)*inv,
			(-a(3, 0)*s5+a(3, 2)*s2-a(3, 3)*s1)*inv,
			(a(2, 0)*s5-a(2, 2)*s2+a(2, 3)*s1)*inv,
		),
		V4(
			(a(1, 0)*c4-a(1, 1)*c2+a(1, 3)*c0)*inv,
			(-a(0, 0)*c4+a(0, 1)*c2-a(0, 3)*c0)*inv,
			(a(3, 0)*s4-a(3, 1)*s2+a(3, 3)*s0)*inv,
			(-a(2, 0)*s4+a(2, 1)*s2-a(2, 3)*s0)*inv,
		),
		V4(
			(-a(1, 0)*c3+a(1, 1)*c1-a(1, 2)*c0)*inv,
			(a(0, 0)*c3-a(0, 1)*c1+a(0, 2)*c0)*inv,
			(-a(3, 0)*s3+a(3, 1)*s1-a(3, 2)*s0)*inv,
			(a(2, 0)*s3-a(2, 1)*s1+a(2, 2)*s0)*inv,
		),
	), true
}

// Translation extracts the translation component.
func (m Mat4) Translation() Vec3 {
	return Vec3{m[12], m[13], m[14]}
}

// ApproxEqual reports whether every element of a and b differs by at most
// eps.
//
//nolint:st1016 // a,b naming convention is clearer for comparisons
func (a Mat4) ApproxEqual(b Mat4, eps float64) bool {
	for i := range a {
		if math.Abs(a[i]-b[i]) > eps {
			return false
		}
	}
	return true
}

// IsFinite reports whether no element is NaN or infinite.
func (m Mat4) IsFinite() bool {
	for _, v := range m {
		if !isFinite(v) {
			return false
		}
	}
	return true
}
