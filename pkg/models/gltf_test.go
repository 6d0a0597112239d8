package models

import (
	"path/filepath"
	"testing"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
	"github.com/taigrr/glcam/pkg/math3d"
)

// writeTriangleGLB saves a single-triangle GLB and returns its path.
func writeTriangleGLB(t *testing.T, withNormals bool, color *[4]float64) string {
	t.Helper()

	doc := gltf.NewDocument()
	attrs := map[string]int{
		gltf.POSITION: modeler.WritePosition(doc, [][3]float32{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}}),
		gltf.TEXCOORD_0: modeler.WriteTextureCoord(doc, [][2]float32{{0, 0}, {1, 0}, {0, 1}}),
	}
	if withNormals {
		attrs[gltf.NORMAL] = modeler.WriteNormal(doc, [][3]float32{{0, 0, 1}, {0, 0, 1}, {0, 0, 1}})
	}
	prim := &gltf.Primitive{
		Indices:    gltf.Index(modeler.WriteIndices(doc, []uint16{0, 1, 2})),
		Attributes: attrs,
	}
	if color != nil {
		doc.Materials = []*gltf.Material{{
			Name:                 "paint",
			PBRMetallicRoughness: &gltf.PBRMetallicRoughness{BaseColorFactor: color},
		}}
		prim.Material = gltf.Index(0)
	}
	doc.Meshes = []*gltf.Mesh{{Name: "tri", Primitives: []*gltf.Primitive{prim}}}

	path := filepath.Join(t.TempDir(), "tri.glb")
	if err := gltf.SaveBinary(doc, path); err != nil {
		t.Fatalf("SaveBinary: %v", err)
	}
	return path
}

func TestLoadGLTFRoundTrip(t *testing.T) {
	path := writeTriangleGLB(t, true, nil)

	m, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if m.VertexCount() != 3 || m.TriangleCount() != 1 {
		t.Fatalf("got %d vertices and %d triangles", m.VertexCount(), m.TriangleCount())
	}
	if m.Triangle(0) != [3]uint32{0, 1, 2} {
		t.Errorf("winding changed: %v", m.Triangle(0))
	}
	if m.Vertices[1].Position != math3d.V3(1, 0, 0) {
		t.Errorf("position = %v", m.Vertices[1].Position)
	}
	// V is flipped to a bottom-left origin.
	if m.Vertices[2].UV != math3d.V2(0, 0) || m.Vertices[0].UV != math3d.V2(0, 1) {
		t.Errorf("uvs = %v, %v", m.Vertices[0].UV, m.Vertices[2].UV)
	}
	if m.Color != math3d.V3(1, 1, 1) {
		t.Errorf("Color = %v, want white default", m.Color)
	}
	if _, hi := m.Bounds(); hi != math3d.V3(1, 1, 0) {
		t.Errorf("bounds max = %v", hi)
	}
}

func TestLoadGLTFGeneratesNormals(t *testing.T) {
	path := writeTriangleGLB(t, false, nil)

	m, err := LoadGLTF(path)
	if err != nil {
		t.Fatalf("LoadGLTF: %v", err)
	}
	for i, v := range m.Vertices {
		if !v.Normal.ApproxEqual(math3d.V3(0, 0, 1), 1e-12) {
			t.Errorf("vertex %d normal = %v, want +Z", i, v.Normal)
		}
	}

	l := NewGLTFLoader()
	l.CalculateNormals = false
	raw, err := l.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if raw.HasNormals() {
		t.Error("normals generated with CalculateNormals off")
	}
}

func TestLoadGLTFBaseColor(t *testing.T) {
	path := writeTriangleGLB(t, true, &[4]float64{0.8, 0.2, 0.1, 1})

	m, err := LoadGLTF(path)
	if err != nil {
		t.Fatalf("LoadGLTF: %v", err)
	}
	if !m.Color.ApproxEqual(math3d.V3(0.8, 0.2, 0.1), 1e-12) {
		t.Errorf("Color = %v, want (0.8, 0.2, 0.1)", m.Color)
	}
}

func TestLoadGLTFNoTriangles(t *testing.T) {
	doc := gltf.NewDocument()
	path := filepath.Join(t.TempDir(), "empty.glb")
	if err := gltf.SaveBinary(doc, path); err != nil {
		t.Fatalf("SaveBinary: %v", err)
	}
	if _, err := LoadGLTF(path); err == nil {
		t.Error("expected error for document without meshes")
	}
}

func TestLoadGLBInvalidPath(t *testing.T) {
	if _, err := LoadGLTF("/nonexistent/path.glb"); err == nil {
		t.Error("Expected error for nonexistent file")
	}
}

func TestGLTFLoaderCreation(t *testing.T) {
	loader := NewGLTFLoader()
	if !loader.CalculateNormals {
		t.Error("CalculateNormals should default to true")
	}
}
