// Package export writes relief meshes in formats consumed by 3D viewers.
package export

import (
	"encoding/binary"
	"fmt"
	"math"
	"os"
	"path/filepath"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	"github.com/taigrr/relief/pkg/math3d"
	"github.com/taigrr/relief/pkg/relief"
)

// mmToMeters converts the relief's Z-up millimetre frame into glTF's
// Y-up metre frame.
func mmToMeters() math3d.Mat4 {
	return math3d.ZUpToYUp().Mul(math3d.ScaleUniform(0.001))
}

// GLBOptions tunes the glTF export.
type GLBOptions struct {
	// Center moves the footprint so its centre sits on the origin.
	// LoadGLB cannot undo this offset.
	Center bool
}

// BuildDocument converts m into a single-mesh glTF document. Every facet
// keeps its own three vertices and its flat normal, so the document
// shades exactly like the STL output.
func BuildDocument(m *relief.Mesh, opts GLBOptions) *gltf.Document {
	transform := mmToMeters()
	if opts.Center {
		c := m.Center()
		transform = transform.Mul(math3d.Translate(math3d.V3(-c.X, -c.Y, 0)))
	}
	rotate := math3d.ZUpToYUp()

	n := m.VertexCount()
	positions := make([][3]float32, 0, n)
	normals := make([][3]float32, 0, n)
	indices := make([]uint32, 0, n)
	for _, t := range m.Triangles {
		normal := rotate.MulVec3Dir(t.Normal).Float32()
		for _, v := range t.V {
			indices = append(indices, uint32(len(positions)))
			positions = append(positions, transform.MulVec3(v).Float32())
			normals = append(normals, normal)
		}
	}

	doc := gltf.NewDocument()
	posIdx := modeler.WritePosition(doc, positions)
	normIdx := modeler.WriteNormal(doc, normals)
	indIdx := modeler.WriteIndices(doc, indices)

	doc.Meshes = []*gltf.Mesh{{
		Name: m.Name,
		Primitives: []*gltf.Primitive{{
			Mode:    gltf.PrimitiveTriangles,
			Indices: gltf.Index(indIdx),
			Attributes: map[string]int{
				gltf.POSITION: posIdx,
				gltf.NORMAL:   normIdx,
			},
		}},
	}}
	doc.Nodes = []*gltf.Node{{Name: m.Name, Mesh: gltf.Index(0)}}
	doc.Scenes = []*gltf.Scene{{Name: m.Name, Nodes: []int{0}}}
	doc.Scene = gltf.Index(0)
	return doc
}

// WriteGLB writes m as a binary glTF file. Like the STL writer it saves
// to a temporary file first and renames it into place on success.
func WriteGLB(path string, m *relief.Mesh, opts GLBOptions) (err error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create directory %s: %w", dir, err)
	}

	f, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file for %s: %w", path, err)
	}
	tmp := f.Name()
	if err := f.Close(); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("close %s: %w", tmp, err)
	}
	defer func() {
		if err != nil {
			_ = os.Remove(tmp)
		}
	}()

	if err := gltf.SaveBinary(BuildDocument(m, opts), tmp); err != nil {
		return fmt.Errorf("save glb %s: %w", path, err)
	}
	if err := os.Chmod(tmp, 0o644); err != nil {
		return fmt.Errorf("chmod %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("rename %s to %s: %w", tmp, path, err)
	}
	return nil
}

// LoadGLB reads a GLB written by WriteGLB back into a relief mesh in
// millimetres, Z up. Only triangle primitives are read.
func LoadGLB(path string) (*relief.Mesh, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open gltf: %w", err)
	}

	toMM, ok := mmToMeters().Inverse3()
	if !ok {
		return nil, fmt.Errorf("export transform is not invertible")
	}

	name := relief.DefaultName
	if len(doc.Meshes) > 0 && doc.Meshes[0].Name != "" {
		name = doc.Meshes[0].Name
	}
	mesh := relief.NewMesh(name, 0)

	for _, m := range doc.Meshes {
		if err := processMesh(doc, m, toMM, mesh); err != nil {
			return nil, fmt.Errorf("process mesh %q: %w", m.Name, err)
		}
	}

	mesh.CalculateBounds()
	return mesh, nil
}

// processMesh appends the facets of one glTF mesh to out.
func processMesh(doc *gltf.Document, m *gltf.Mesh, toMM math3d.Mat4, out *relief.Mesh) error {
	for _, prim := range m.Primitives {
		if prim.Mode != gltf.PrimitiveTriangles && prim.Mode != 0 {
			// Skip non-triangle primitives (lines, points, etc)
			continue
		}

		posIdx, ok := prim.Attributes[gltf.POSITION]
		if !ok {
			continue
		}
		positions, err := readVec3Accessor(doc, posIdx)
		if err != nil {
			return fmt.Errorf("read positions: %w", err)
		}

		var normals []math3d.Vec3
		if normIdx, ok := prim.Attributes[gltf.NORMAL]; ok {
			normals, err = readVec3Accessor(doc, normIdx)
			if err != nil {
				return fmt.Errorf("read normals: %w", err)
			}
		}

		var indices []int
		if prim.Indices != nil {
			indices, err = readIndices(doc, *prim.Indices)
			if err != nil {
				return fmt.Errorf("read indices: %w", err)
			}
		} else {
			indices = make([]int, len(positions))
			for i := range indices {
				indices[i] = i
			}
		}

		for i := 0; i+2 < len(indices); i += 3 {
			var t relief.Triangle
			for k := range 3 {
				idx := indices[i+k]
				if idx < 0 || idx >= len(positions) {
					return fmt.Errorf("index %d out of range (%d positions)", idx, len(positions))
				}
				t.V[k] = toMM.MulVec3(positions[idx])
			}
			if idx := indices[i]; idx < len(normals) {
				t.Normal = toMM.MulVec3Dir(normals[idx]).Normalize()
			} else {
				t.Normal = t.GeometricNormal()
			}
			out.Triangles = append(out.Triangles, t)
		}
	}
	return nil
}

// readVec3Accessor reads Vec3 data from a glTF accessor.
func readVec3Accessor(doc *gltf.Document, accessorIdx int) ([]math3d.Vec3, error) {
	if accessorIdx < 0 || accessorIdx >= len(doc.Accessors) {
		return nil, fmt.Errorf("accessor %d out of range", accessorIdx)
	}
	accessor := doc.Accessors[accessorIdx]
	if accessor.Type != gltf.AccessorVec3 {
		return nil, fmt.Errorf("expected VEC3, got %v", accessor.Type)
	}
	if accessor.ComponentType != gltf.ComponentFloat {
		return nil, fmt.Errorf("expected float components, got %v", accessor.ComponentType)
	}

	data, stride, err := accessorBytes(doc, accessor, 12)
	if err != nil {
		return nil, err
	}

	result := make([]math3d.Vec3, accessor.Count)
	for i := range accessor.Count {
		b := data[i*stride:]
		result[i] = math3d.V3(
			float64(readFloat32(b)),
			float64(readFloat32(b[4:])),
			float64(readFloat32(b[8:])),
		)
	}
	return result, nil
}

// readIndices reads index data from a glTF accessor.
func readIndices(doc *gltf.Document, accessorIdx int) ([]int, error) {
	if accessorIdx < 0 || accessorIdx >= len(doc.Accessors) {
		return nil, fmt.Errorf("accessor %d out of range", accessorIdx)
	}
	accessor := doc.Accessors[accessorIdx]

	var size int
	switch accessor.ComponentType {
	case gltf.ComponentUbyte:
		size = 1
	case gltf.ComponentUshort:
		size = 2
	case gltf.ComponentUint:
		size = 4
	default:
		return nil, fmt.Errorf("unexpected index component type: %v", accessor.ComponentType)
	}

	data, stride, err := accessorBytes(doc, accessor, size)
	if err != nil {
		return nil, err
	}

	result := make([]int, accessor.Count)
	for i := range accessor.Count {
		b := data[i*stride:]
		switch size {
		case 1:
			result[i] = int(b[0])
		case 2:
			result[i] = int(binary.LittleEndian.Uint16(b))
		default:
			result[i] = int(binary.LittleEndian.Uint32(b))
		}
	}
	return result, nil
}

// accessorBytes returns the embedded bytes an accessor starts at and the
// stride between its elements. Only buffers embedded in a GLB are
// supported.
func accessorBytes(doc *gltf.Document, accessor *gltf.Accessor, elemSize int) ([]byte, int, error) {
	if accessor.BufferView == nil {
		return nil, 0, fmt.Errorf("accessor has no buffer view")
	}

	bufferView := doc.BufferViews[*accessor.BufferView]
	buffer := doc.Buffers[bufferView.Buffer]
	if buffer.URI != "" {
		return nil, 0, fmt.Errorf("external buffers not supported")
	}
	if buffer.Data == nil {
		return nil, 0, fmt.Errorf("buffer has no data")
	}

	stride := bufferView.ByteStride
	if stride == 0 {
		stride = elemSize
	}
	start := bufferView.ByteOffset + accessor.ByteOffset
	if accessor.Count > 0 {
		end := start + (accessor.Count-1)*stride + elemSize
		if end > len(buffer.Data) {
			return nil, 0, fmt.Errorf("accessor needs %d bytes, buffer has %d", end, len(buffer.Data))
		}
	}
	return buffer.Data[start:], stride, nil
}

// readFloat32 reads a little-endian float32.
func readFloat32(b []byte) float32 {
	return math.Float32frombits(binary.LittleEndian.Uint32(b))
}
