package relief

import (
	"github.com/taigrr/relief/pkg/math3d"
)

// DefaultName is the solid name written when Options.Name is empty.
const DefaultName = "tactile_model"

// Triangle is one facet: three vertices in winding order and its unit
// normal. The winding follows the right-hand rule around Normal.
type Triangle struct {
	V      [3]math3d.Vec3
	Normal math3d.Vec3
}

// GeometricNormal returns the normal implied by the winding order,
// or the zero vector for a degenerate triangle.
func (t Triangle) GeometricNormal() math3d.Vec3 {
	return math3d.TriangleNormal(t.V[0], t.V[1], t.V[2], math3d.Zero3())
}

// Area returns the triangle's area.
func (t Triangle) Area() float64 {
	return t.V[1].Sub(t.V[0]).Cross(t.V[2].Sub(t.V[0])).Len() / 2
}

// Mesh is an ordered list of facets. Vertices are stored per facet and
// never shared. A Mesh returned by Generate must not be modified.
type Mesh struct {
	Name      string
	Triangles []Triangle

	// Bounding box (calculated by Generate)
	BoundsMin math3d.Vec3
	BoundsMax math3d.Vec3
}

// NewMesh creates an empty mesh with room for n triangles.
func NewMesh(name string, n int) *Mesh {
	if name == "" {
		name = DefaultName
	}
	return &Mesh{
		Name:      name,
		Triangles: make([]Triangle, 0, n),
	}
}

// CalculateBounds computes the axis-aligned bounding box.
func (m *Mesh) CalculateBounds() {
	if len(m.Triangles) == 0 {
		return
	}

	m.BoundsMin = m.Triangles[0].V[0]
	m.BoundsMax = m.Triangles[0].V[0]

	for _, t := range m.Triangles {
		for _, v := range t.V {
			m.BoundsMin = m.BoundsMin.Min(v)
			m.BoundsMax = m.BoundsMax.Max(v)
		}
	}
}

// Center returns the center of the bounding box.
func (m *Mesh) Center() math3d.Vec3 {
	return m.BoundsMin.Add(m.BoundsMax).Scale(0.5)
}

// Size returns the dimensions of the bounding box.
func (m *Mesh) Size() math3d.Vec3 {
	return m.BoundsMax.Sub(m.BoundsMin)
}

// TriangleCount returns the number of triangles.
func (m *Mesh) TriangleCount() int {
	return len(m.Triangles)
}

// VertexCount returns the number of stored vertices, three per facet.
func (m *Mesh) VertexCount() int {
	return 3 * len(m.Triangles)
}

// SurfaceArea returns the total area of all facets.
func (m *Mesh) SurfaceArea() float64 {
	var area float64
	for _, t := range m.Triangles {
		area += t.Area()
	}
	return area
}

// Volume returns the signed volume enclosed by the mesh using the
// divergence theorem. It is only meaningful for a closed mesh, and is
// positive when every facet winds outward.
func (m *Mesh) Volume() float64 {
	var volume float64
	for _, t := range m.Triangles {
		volume += t.V[0].Dot(t.V[1].Cross(t.V[2]))
	}
	return volume / 6
}
