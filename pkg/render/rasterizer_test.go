package render

import (
	"math"
	"testing"

	"github.com/taigrr/glcam/pkg/camera"
	"github.com/taigrr/glcam/pkg/light"
	"github.com/taigrr/glcam/pkg/math3d"
	"github.com/taigrr/glcam/pkg/models"
)

// testFrame looks from eye at target with a 60° frustum matching the
// framebuffer.
func testFrame(fb *Framebuffer, eye, target math3d.Vec3) camera.Frame {
	return camera.Frame{
		Eye:   eye,
		Model: math3d.Identity(),
		View:  camera.MustLookAt(eye, target, math3d.Up()),
		Projection: camera.MustPerspective(camera.ProjectionParams{
			FOVDegrees: 60,
			Aspect:     fb.Aspect(),
			Near:       0.1,
			Far:        100,
		}),
	}
}

// flatLight lights every surface with its own color.
func flatLight() light.Scene {
	return light.Scene{Ambient: light.Ambient{Color: math3d.V3(1, 1, 1), Intensity: 1}}
}

func countPixels(fb *Framebuffer, c Color) int {
	n := 0
	for _, p := range fb.Pixels {
		if p == c {
			n++
		}
	}
	return n
}

func TestBarycentric(t *testing.T) {
	tests := []struct {
		name     string
		px, py   float64
		expected math3d.Vec3
	}{
		{"vertex 0", 0, 0, math3d.V3(1, 0, 0)},
		{"vertex 1", 1, 0, math3d.V3(0, 1, 0)},
		{"vertex 2", 0, 1, math3d.V3(0, 0, 1)},
		{"centroid", 1.0 / 3, 1.0 / 3, math3d.V3(1.0/3, 1.0/3, 1.0/3)},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			// Triangle: (0,0), (1,0), (0,1)
			bc := barycentric(0, 0, 1, 0, 0, 1, tc.px, tc.py)
			if !bc.ApproxEqual(tc.expected, 0.001) {
				t.Errorf("barycentric(%v, %v) = %v, want %v", tc.px, tc.py, bc, tc.expected)
			}
		})
	}

	t.Run("outside triangle", func(t *testing.T) {
		bc := barycentric(0, 0, 1, 0, 0, 1, -1, -1)
		if bc.X >= 0 && bc.Y >= 0 && bc.Z >= 0 {
			t.Error("point outside triangle should have negative barycentric coordinate")
		}
	})
}

func TestMin3Max3(t *testing.T) {
	if got := min3(3, -1, 2); got != -1 {
		t.Errorf("min3 = %v, want -1", got)
	}
	if got := max3(3, -1, 2); got != 3 {
		t.Errorf("max3 = %v, want 3", got)
	}
}

func TestClipNear(t *testing.T) {
	front := func(x float64) clipVertex {
		return clipVertex{pos: math3d.Vec4{X: x, Z: 0, W: 1}, color: math3d.V3(1, 0, 0)}
	}
	behind := func(x float64) clipVertex {
		return clipVertex{pos: math3d.Vec4{X: x, Z: -3, W: 1}, color: math3d.V3(0, 0, 1)}
	}

	tests := []struct {
		name string
		poly []clipVertex
		want int
	}{
		{"all in front", []clipVertex{front(0), front(1), front(2)}, 3},
		{"all behind", []clipVertex{behind(0), behind(1), behind(2)}, 0},
		{"one behind", []clipVertex{front(0), front(1), behind(2)}, 4},
		{"two behind", []clipVertex{front(0), behind(1), behind(2)}, 3},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			out := clipNear(tc.poly)
			if len(out) != tc.want {
				t.Fatalf("len = %d, want %d", len(out), tc.want)
			}
			for i, v := range out {
				if v.pos.Z+v.pos.W < -1e-12 {
					t.Errorf("vertex %d behind near plane: %v", i, v.pos)
				}
			}
		})
	}

	t.Run("interpolates color", func(t *testing.T) {
		// z+w goes 1 -> -2, so the crossing is a third of the way along.
		out := clipNear([]clipVertex{front(0), behind(3), behind(3)})
		want := math3d.V3(2.0/3, 0, 1.0/3)
		if !out[1].color.ApproxEqual(want, 1e-9) {
			t.Errorf("color = %v, want %v", out[1].color, want)
		}
		if math.Abs(out[1].pos.X-1) > 1e-9 {
			t.Errorf("x = %v, want 1", out[1].pos.X)
		}
	})
}

func TestDrawMeshCube(t *testing.T) {
	fb := NewFramebuffer(64, 64)
	r := NewRasterizer(fb)
	f := testFrame(fb, math3d.V3(0, 0, 5), math3d.Zero3())

	r.Begin(ColorBlack)
	if !r.DrawMesh(f, models.Cube(2), light.DefaultScene()) {
		t.Fatal("cube in front of the camera was culled")
	}
	if r.Stats.Pixels == 0 {
		t.Fatal("no pixels drawn")
	}
	if fb.GetPixel(32, 32) == ColorBlack {
		t.Error("center pixel not covered")
	}
	if fb.GetPixel(0, 0) != ColorBlack {
		t.Error("corner pixel should show the background")
	}
	if r.Stats.Triangles != 12 {
		t.Errorf("Triangles = %d, want 12 without culling", r.Stats.Triangles)
	}
}

func TestDrawMeshBackfaceCulling(t *testing.T) {
	fb := NewFramebuffer(64, 64)
	r := NewRasterizer(fb)
	r.CullBackfaces = true
	f := testFrame(fb, math3d.V3(0, 0, 5), math3d.Zero3())

	r.Begin(ColorBlack)
	r.DrawMesh(f, models.Cube(2), flatLight())

	// Only the +Z face looks at the camera.
	if r.Stats.Triangles != 2 || r.Stats.BackFaces != 10 {
		t.Errorf("Triangles = %d, BackFaces = %d, want 2 and 10", r.Stats.Triangles, r.Stats.BackFaces)
	}
	if fb.GetPixel(32, 32) != ColorWhite {
		t.Errorf("center = %v, want white", fb.GetPixel(32, 32))
	}
}

func TestDrawMeshDepthOrder(t *testing.T) {
	near := models.Cube(1)
	near.Color = math3d.V3(0, 1, 0)
	near.Transform(math3d.Translate(math3d.V3(0, 0, 1)))

	far := models.Cube(1)
	far.Color = math3d.V3(1, 0, 0)
	far.Transform(math3d.Translate(math3d.V3(0, 0, -1)))

	orders := map[string][]*models.Mesh{
		"far first":  {far, near},
		"near first": {near, far},
	}

	for name, meshes := range orders {
		t.Run(name, func(t *testing.T) {
			fb := NewFramebuffer(32, 32)
			r := NewRasterizer(fb)
			f := testFrame(fb, math3d.V3(0, 0, 5), math3d.Zero3())

			r.Begin(ColorBlack)
			for _, m := range meshes {
				r.DrawMesh(f, m, flatLight())
			}
			if got := fb.GetPixel(16, 16); got != ColorGreen {
				t.Errorf("center = %v, want the nearer green cube", got)
			}
		})
	}
}

func TestDrawMeshCameraInside(t *testing.T) {
	fb := NewFramebuffer(40, 30)
	r := NewRasterizer(fb)
	f := testFrame(fb, math3d.Zero3(), math3d.Forward())

	r.Begin(ColorBlack)
	if !r.DrawMesh(f, models.Cube(2), flatLight()) {
		t.Fatal("cube around the camera was culled")
	}

	// The far wall fills the view; the side walls straddle the near plane.
	covered := countPixels(fb, ColorWhite)
	if covered < len(fb.Pixels)*9/10 {
		t.Errorf("covered %d of %d pixels", covered, len(fb.Pixels))
	}
	for i, d := range fb.Depth {
		if math.IsNaN(d) || d < -1-1e-9 {
			t.Fatalf("depth[%d] = %v", i, d)
		}
	}
}

func TestDrawMeshCulledOffscreen(t *testing.T) {
	fb := NewFramebuffer(32, 32)
	r := NewRasterizer(fb)
	f := testFrame(fb, math3d.V3(0, 0, 5), math3d.Zero3())
	f.Model = math3d.Translate(math3d.V3(100, 0, 0))

	r.Begin(ColorBlack)
	if r.DrawMesh(f, models.Pyramid(), light.DefaultScene()) {
		t.Error("mesh far to the right should be culled")
	}
	if r.Stats.Culled != 1 || r.Stats.Pixels != 0 {
		t.Errorf("stats = %+v", r.Stats)
	}
}

func TestBeginResetsFrame(t *testing.T) {
	fb := NewFramebuffer(16, 16)
	r := NewRasterizer(fb)
	f := testFrame(fb, math3d.V3(0, 0, 5), math3d.Zero3())

	r.Begin(ColorBlack)
	r.DrawMesh(f, models.Cube(2), flatLight())
	r.Begin(ColorBlue)

	if r.Stats != (Stats{}) {
		t.Errorf("stats = %+v, want zero", r.Stats)
	}
	if countPixels(fb, ColorBlue) != len(fb.Pixels) {
		t.Error("color buffer not cleared")
	}
	for _, d := range fb.Depth {
		if !math.IsInf(d, 1) {
			t.Fatal("depth buffer not cleared")
		}
	}
}

func TestClipLine(t *testing.T) {
	tests := []struct {
		name   string
		a, b   math3d.Vec4
		wantB  math3d.Vec4
		wantOK bool
	}{
		{"inside", math3d.Vec4{W: 1}, math3d.Vec4{X: 0.5, W: 1}, math3d.Vec4{X: 0.5, W: 1}, true},
		{"crosses right", math3d.Vec4{W: 1}, math3d.Vec4{X: 2, W: 1}, math3d.Vec4{X: 1, W: 1}, true},
		{"outside right", math3d.Vec4{X: 2, W: 1}, math3d.Vec4{X: 3, W: 1}, math3d.Vec4{}, false},
		{"behind near", math3d.Vec4{Z: -5, W: 1}, math3d.Vec4{Z: -6, W: 1}, math3d.Vec4{}, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, b, ok := clipLine(tc.a, tc.b)
			if ok != tc.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tc.wantOK)
			}
			if ok && b.Sub(tc.wantB).Len() > 1e-9 {
				t.Errorf("b = %v, want %v", b, tc.wantB)
			}
		})
	}
}

func TestDrawWireframe(t *testing.T) {
	fb := NewFramebuffer(48, 48)
	r := NewRasterizer(fb)
	f := testFrame(fb, math3d.V3(3, 2, 4), math3d.Zero3())

	r.Begin(ColorBlack)
	if !r.DrawWireframe(f, models.Pyramid(), ColorWire) {
		t.Fatal("pyramid was culled")
	}
	if countPixels(fb, ColorWire) == 0 {
		t.Error("no edges drawn")
	}
	if r.Stats.Triangles != 4 {
		t.Errorf("Triangles = %d, want 4", r.Stats.Triangles)
	}

	f.Model = math3d.Translate(math3d.V3(0, 0, 50))
	if r.DrawWireframe(f, models.Pyramid(), ColorWire) {
		t.Error("pyramid behind the camera should be culled")
	}
}

func TestDrawAxes(t *testing.T) {
	fb := NewFramebuffer(48, 48)
	r := NewRasterizer(fb)
	f := testFrame(fb, math3d.V3(3, 2, 4), math3d.Zero3())

	r.Begin(ColorBlack)
	r.DrawAxes(f, 1)
	for _, c := range []Color{ColorRed, ColorGreen, ColorBlue} {
		if countPixels(fb, c) == 0 {
			t.Errorf("no %v axis pixels", c)
		}
	}
}

func TestDrawGrid(t *testing.T) {
	fb := NewFramebuffer(48, 48)
	r := NewRasterizer(fb)
	f := testFrame(fb, math3d.V3(0, 3, 6), math3d.Zero3())
	grid := RGB(90, 90, 90)

	r.Begin(ColorBlack)
	r.DrawGrid(f, 4, 1, grid)
	if countPixels(fb, grid) == 0 {
		t.Error("no grid lines drawn")
	}
	if fb.GetPixel(24, 2) != ColorBlack {
		t.Error("sky above the grid should stay clear")
	}
}

func TestFromLinear(t *testing.T) {
	tests := []struct {
		name string
		in   float64
		want uint8
	}{
		{"negative", -1, 0},
		{"zero", 0, 0},
		{"half", 0.5, 128},
		{"one", 1, 255},
		{"overbright", 2.5, 255},
		{"nan", math.NaN(), 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := FromLinear(math3d.V3(tc.in, tc.in, tc.in))
			if got != RGB(tc.want, tc.want, tc.want) {
				t.Errorf("FromLinear(%v) = %v, want %v", tc.in, got, tc.want)
			}
		})
	}
}

func TestFramebufferDepthTest(t *testing.T) {
	fb := NewFramebuffer(4, 4)

	if !fb.DepthTest(1, 1, 0.5) {
		t.Error("first sample should pass")
	}
	if fb.DepthTest(1, 1, 0.7) {
		t.Error("farther sample should fail")
	}
	if !fb.DepthTest(1, 1, 0.2) {
		t.Error("nearer sample should pass")
	}
	if fb.DepthTest(-1, 0, 0) || fb.DepthTest(4, 0, 0) {
		t.Error("out of bounds samples should fail")
	}

	fb.ClearDepth()
	if !math.IsInf(fb.Depth[1*4+1], 1) {
		t.Errorf("depth after clear = %v", fb.Depth[5])
	}
}

func TestFramebufferToImage(t *testing.T) {
	fb := NewFramebuffer(3, 2)
	fb.Clear(ColorBlack)
	fb.SetPixel(2, 1, ColorRed)
	fb.SetPixel(5, 5, ColorRed) // ignored

	img := fb.ToImage()
	if got := img.RGBAAt(2, 1); got != ColorRed {
		t.Errorf("pixel = %v, want red", got)
	}
	if got := img.RGBAAt(0, 0); got != ColorBlack {
		t.Errorf("pixel = %v, want black", got)
	}
	if fb.Aspect() != 1.5 {
		t.Errorf("Aspect = %v, want 1.5", fb.Aspect())
	}
}

func TestCellSize(t *testing.T) {
	w, h := CellSize(80, 24)
	if w != 80 || h != 48 {
		t.Errorf("CellSize = %dx%d, want 80x48", w, h)
	}
}

func BenchmarkDrawMesh(b *testing.B) {
	fb := NewFramebuffer(160, 90)
	r := NewRasterizer(fb)
	f := testFrame(fb, math3d.V3(0, 2, 5), math3d.Zero3())
	cube := models.Cube(2)
	lights := light.DefaultScene()

	for b.Loop() {
		r.Begin(ColorBlack)
		r.DrawMesh(f, cube, lights)
	}
}

func BenchmarkDrawWireframe(b *testing.B) {
	fb := NewFramebuffer(160, 90)
	r := NewRasterizer(fb)
	f := testFrame(fb, math3d.V3(0, 2, 5), math3d.Zero3())
	cube := models.Cube(2)

	for b.Loop() {
		r.Begin(ColorBlack)
		r.DrawWireframe(f, cube, ColorWire)
	}
}
