package models

import "github.com/taigrr/glcam/pkg/math3d"

// Pyramid returns the four-vertex tutorial pyramid with its twelve indices
// and per-vertex normals.
func Pyramid() *Mesh {
	m := NewMesh("pyramid")
	m.Vertices = []Vertex{
		{Position: math3d.V3(-1, -1, -0.5), UV: math3d.V2(0, 0), Normal: math3d.V3(0.801784, -0.267261, -0.534522)},
		{Position: math3d.V3(0, -1, 1), UV: math3d.V2(0.5, 0), Normal: math3d.V3(-0.801784, -0.267261, -0.534522)},
		{Position: math3d.V3(1, -1, -0.5), UV: math3d.V2(1, 0), Normal: math3d.V3(0, -0.242536, 0.970143)},
		{Position: math3d.V3(0, 1, 0), UV: math3d.V2(0.5, 1), Normal: math3d.V3(0, 1, 0)},
	}
	m.Indices = []uint32{
		0, 3, 1,
		1, 3, 2,
		2, 3, 0,
		0, 1, 2,
	}
	m.CalculateBounds()
	return m
}

// cubeFaces lists each face's outward normal and the two in-plane axes,
// ordered so that u × v = normal.
var cubeFaces = [6][3]math3d.Vec3{
	{{X: 1}, {Z: -1}, {Y: 1}},
	{{X: -1}, {Z: 1}, {Y: 1}},
	{{Y: 1}, {X: 1}, {Z: -1}},
	{{Y: -1}, {X: 1}, {Z: 1}},
	{{Z: 1}, {X: 1}, {Y: 1}},
	{{Z: -1}, {X: -1}, {Y: 1}},
}

// Cube returns an axis-aligned cube with the given edge length centered on
// the origin. Each face has its own four vertices so normals stay flat.
func Cube(size float64) *Mesh {
	m := NewMesh("cube")
	h := size / 2

	for _, f := range cubeFaces {
		n, u, v := f[0], f[1], f[2]
		base := uint32(len(m.Vertices))
		center := n.Scale(h)
		corners := [4]struct{ su, sv float64 }{{-1, -1}, {1, -1}, {1, 1}, {-1, 1}}
		for _, c := range corners {
			m.Vertices = append(m.Vertices, Vertex{
				Position: center.Add(u.Scale(c.su * h)).Add(v.Scale(c.sv * h)),
				Normal:   n,
				UV:       math3d.V2((c.su+1)/2, (c.sv+1)/2),
			})
		}
		m.Indices = append(m.Indices, base, base+1, base+2, base, base+2, base+3)
	}

	m.CalculateBounds()
	return m
}
