package models

import (
	"fmt"
	"path/filepath"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
	"github.com/taigrr/glcam/pkg/math3d"
)

// GLTFLoader loads GLTF/GLB files into Mesh format.
type GLTFLoader struct {
	// CalculateNormals generates smooth normals for primitives without a
	// NORMAL attribute.
	CalculateNormals bool
}

// NewGLTFLoader creates a new GLTF loader with default options.
func NewGLTFLoader() *GLTFLoader {
	return &GLTFLoader{CalculateNormals: true}
}

// LoadGLTF loads a .gltf or .glb file with the default loader.
func LoadGLTF(path string) (*Mesh, error) {
	return NewGLTFLoader().Load(path)
}

// Load loads a GLTF or GLB file and merges every triangle primitive into
// one Mesh.
func (l *GLTFLoader) Load(path string) (*Mesh, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open gltf: %w", err)
	}

	mesh, err := l.Decode(doc, filepath.Base(path))
	if err != nil {
		return nil, fmt.Errorf("load gltf %s: %w", path, err)
	}
	return mesh, nil
}

// Decode converts the meshes of an already opened document.
func (l *GLTFLoader) Decode(doc *gltf.Document, name string) (*Mesh, error) {
	mesh := NewMesh(name)
	missingNormals := false

	for _, m := range doc.Meshes {
		for i, prim := range m.Primitives {
			hasNormals, err := l.processPrimitive(doc, prim, mesh)
			if err != nil {
				return nil, fmt.Errorf("mesh %q primitive %d: %w", m.Name, i, err)
			}
			missingNormals = missingNormals || !hasNormals
		}
	}
	if len(mesh.Indices) == 0 {
		return nil, fmt.Errorf("no triangle primitives")
	}

	if c, ok := baseColor(doc); ok {
		mesh.Color = c
	}
	if l.CalculateNormals && missingNormals {
		mesh.CalculateNormals()
	}
	mesh.CalculateBounds()
	return mesh, nil
}

// processPrimitive appends one primitive's geometry to mesh.
func (l *GLTFLoader) processPrimitive(doc *gltf.Document, prim *gltf.Primitive, mesh *Mesh) (bool, error) {
	if prim.Mode != gltf.PrimitiveTriangles && prim.Mode != 0 {
		// Lines and points have no surface to shade
		return true, nil
	}

	posIdx, ok := prim.Attributes[gltf.POSITION]
	if !ok {
		return true, nil
	}
	positions, err := modeler.ReadPosition(doc, doc.Accessors[posIdx], nil)
	if err != nil {
		return false, fmt.Errorf("read positions: %w", err)
	}

	var normals [][3]float32
	if idx, ok := prim.Attributes[gltf.NORMAL]; ok {
		normals, err = modeler.ReadNormal(doc, doc.Accessors[idx], nil)
		if err != nil {
			return false, fmt.Errorf("read normals: %w", err)
		}
	}

	var uvs [][2]float32
	if idx, ok := prim.Attributes[gltf.TEXCOORD_0]; ok {
		uvs, err = modeler.ReadTextureCoord(doc, doc.Accessors[idx], nil)
		if err != nil {
			return false, fmt.Errorf("read uvs: %w", err)
		}
	}

	base := uint32(len(mesh.Vertices))
	for i, p := range positions {
		v := Vertex{Position: vec3(p)}
		if i < len(normals) {
			v.Normal = vec3(normals[i])
		}
		if i < len(uvs) {
			// GLTF puts V=0 at the top; flip to a bottom-left origin
			v.UV = math3d.V2(float64(uvs[i][0]), 1-float64(uvs[i][1]))
		}
		mesh.Vertices = append(mesh.Vertices, v)
	}

	if prim.Indices != nil {
		indices, err := modeler.ReadIndices(doc, doc.Accessors[*prim.Indices], nil)
		if err != nil {
			return false, fmt.Errorf("read indices: %w", err)
		}
		for _, idx := range indices[:len(indices)/3*3] {
			if int(idx) >= len(positions) {
				return false, fmt.Errorf("index %d out of range (%d vertices)", idx, len(positions))
			}
			mesh.Indices = append(mesh.Indices, base+idx)
		}
	} else {
		// No indices, assume sequential triangles
		for i := 0; i+2 < len(positions); i += 3 {
			mesh.Indices = append(mesh.Indices, base+uint32(i), base+uint32(i+1), base+uint32(i+2))
		}
	}

	return len(normals) > 0, nil
}

// baseColor returns the base color factor of the first material that sets
// one.
func baseColor(doc *gltf.Document) (math3d.Vec3, bool) {
	for _, mat := range doc.Materials {
		if mat == nil || mat.PBRMetallicRoughness == nil || mat.PBRMetallicRoughness.BaseColorFactor == nil {
			continue
		}
		c := mat.PBRMetallicRoughness.BaseColorFactor
		return math3d.V3(c[0], c[1], c[2]), true
	}
	return math3d.Vec3{}, false
}

func vec3(v [3]float32) math3d.Vec3 {
	return math3d.V3(float64(v[0]), float64(v[1]), float64(v[2]))
}
