package models

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/taigrr/glcam/pkg/math3d"
)

// LoadOBJ loads a Wavefront OBJ file.
func LoadOBJ(path string) (*Mesh, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("load obj: %w", err)
	}
	defer f.Close()

	m, err := ParseOBJ(f, filepath.Base(path))
	if err != nil {
		return nil, fmt.Errorf("load obj %s: %w", path, err)
	}
	return m, nil
}

// objKey identifies one v/vt/vn combination so shared corners are emitted
// once.
type objKey struct{ v, vt, vn int }

// ParseOBJ reads OBJ geometry from r. Polygons are triangulated as fans,
// negative indices count back from the latest element and vertex normals
// are generated when the file has none. Material, group and free-form
// statements are ignored.
func ParseOBJ(r io.Reader, name string) (*Mesh, error) {
	var (
		positions []math3d.Vec3
		uvs       []math3d.Vec2
		normals   []math3d.Vec3
	)
	m := NewMesh(name)
	seen := make(map[objKey]uint32)

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		if i := strings.IndexByte(line, '#'); i >= 0 {
			line = line[:i]
		}
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}

		switch fields[0] {
		case "v": // x y z [w]
			p, err := parseFloats(fields[1:], 3)
			if err != nil {
				return nil, fmt.Errorf("line %d: vertex: %w", lineNo, err)
			}
			positions = append(positions, math3d.V3(p[0], p[1], p[2]))

		case "vt": // u [v [w]]
			p, err := parseFloats(fields[1:], 1)
			if err != nil {
				return nil, fmt.Errorf("line %d: texture coordinate: %w", lineNo, err)
			}
			var v float64
			if len(p) > 1 {
				v = p[1]
			}
			uvs = append(uvs, math3d.V2(p[0], v))

		case "vn": // i j k
			p, err := parseFloats(fields[1:], 3)
			if err != nil {
				return nil, fmt.Errorf("line %d: normal: %w", lineNo, err)
			}
			normals = append(normals, math3d.V3(p[0], p[1], p[2]))

		case "f": // v/vt/vn ...
			if len(fields) < 4 {
				return nil, fmt.Errorf("line %d: face needs at least 3 vertices, got %d", lineNo, len(fields)-1)
			}
			corners := make([]uint32, 0, len(fields)-1)
			for _, ref := range fields[1:] {
				key, err := parseFaceRef(ref, len(positions), len(uvs), len(normals))
				if err != nil {
					return nil, fmt.Errorf("line %d: face %q: %w", lineNo, ref, err)
				}
				idx, ok := seen[key]
				if !ok {
					v := Vertex{Position: positions[key.v]}
					if key.vt >= 0 {
						v.UV = uvs[key.vt]
					}
					if key.vn >= 0 {
						v.Normal = normals[key.vn]
					}
					idx = uint32(len(m.Vertices))
					m.Vertices = append(m.Vertices, v)
					seen[key] = idx
				}
				corners = append(corners, idx)
			}
			for i := 1; i+1 < len(corners); i++ {
				m.Indices = append(m.Indices, corners[0], corners[i], corners[i+1])
			}

		default:
			// o, g, s, usemtl, mtllib, l, p and free-form statements
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read obj: %w", err)
	}
	if len(m.Indices) == 0 {
		return nil, fmt.Errorf("obj %q has no faces", name)
	}

	if !m.HasNormals() {
		m.CalculateNormals()
	}
	m.CalculateBounds()
	return m, nil
}

func parseFloats(fields []string, want int) ([]float64, error) {
	if len(fields) < want {
		return nil, fmt.Errorf("want %d values, got %d", want, len(fields))
	}
	out := make([]float64, len(fields))
	for i, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

// parseFaceRef parses "v", "v/vt", "v//vn" or "v/vt/vn" into zero-based
// indices; missing parts are -1.
func parseFaceRef(ref string, nv, nvt, nvn int) (objKey, error) {
	parts := strings.Split(ref, "/")
	if len(parts) > 3 {
		return objKey{}, fmt.Errorf("too many components")
	}

	key := objKey{v: -1, vt: -1, vn: -1}
	var err error
	if key.v, err = resolveIndex(parts[0], nv); err != nil {
		return objKey{}, fmt.Errorf("position: %w", err)
	}
	if len(parts) > 1 && parts[1] != "" {
		if key.vt, err = resolveIndex(parts[1], nvt); err != nil {
			return objKey{}, fmt.Errorf("texture coordinate: %w", err)
		}
	}
	if len(parts) > 2 && parts[2] != "" {
		if key.vn, err = resolveIndex(parts[2], nvn); err != nil {
			return objKey{}, fmt.Errorf("normal: %w", err)
		}
	}
	return key, nil
}

// resolveIndex turns a one-based or negative relative OBJ index into a
// zero-based index into a list of n elements.
func resolveIndex(s string, n int) (int, error) {
	i, err := strconv.Atoi(s)
	if err != nil {
		return 0, err
	}
	switch {
	case i > 0:
		i--
	case i < 0:
		i += n
	default:
		return 0, fmt.Errorf("index 0 is invalid")
	}
	if i < 0 || i >= n {
		return 0, fmt.Errorf("index %s out of range (%d defined)", s, n)
	}
	return i, nil
}
