package relief

import (
	"fmt"

	"github.com/taigrr/relief/pkg/math3d"
)

// NormalStrategy computes the facet normals of the two top-surface
// triangles of one grid cell. Heights are already in millimetres; scale
// is the pixel scale. first belongs to (i,j)-(i+1,j)-(i+1,j+1) and
// second to (i,j)-(i+1,j+1)-(i,j+1).
type NormalStrategy interface {
	CellNormals(z00, z10, z01, z11, scale float64) (first, second math3d.Vec3)
}

// SharedNormal gives both triangles of a cell the normal of the plane
// spanned by the cell's +X and +Y edges. This is a flat-shading
// approximation; it ignores z11.
type SharedNormal struct{}

// CellNormals implements NormalStrategy.
func (SharedNormal) CellNormals(z00, z10, z01, _, scale float64) (first, second math3d.Vec3) {
	n := CellNormal(z00, z10, z01, scale)
	return n, n
}

// ExactNormal gives each triangle its own right-hand-rule normal.
type ExactNormal struct{}

// CellNormals implements NormalStrategy.
func (ExactNormal) CellNormals(z00, z10, z01, z11, scale float64) (first, second math3d.Vec3) {
	p00 := math3d.V3(0, 0, z00)
	p10 := math3d.V3(scale, 0, z10)
	p01 := math3d.V3(0, scale, z01)
	p11 := math3d.V3(scale, scale, z11)
	first = math3d.TriangleNormal(p00, p10, p11, math3d.UnitZ())
	second = math3d.TriangleNormal(p00, p11, p01, math3d.UnitZ())
	return first, second
}

// CellNormal returns normalize(e1 × e2) with e1 = (scale, 0, z10-z00) and
// e2 = (0, scale, z01-z00). A zero-length cross product, which only a
// zero scale can produce, yields (0, 0, 1).
func CellNormal(z00, z10, z01, scale float64) math3d.Vec3 {
	e1 := math3d.V3(scale, 0, z10-z00)
	e2 := math3d.V3(0, scale, z01-z00)
	return e1.Cross(e2).NormalizeOr(math3d.UnitZ())
}

// NormalStrategyByName resolves a configuration value to a strategy.
// The empty string selects SharedNormal.
func NormalStrategyByName(name string) (NormalStrategy, error) {
	switch name {
	case "", "shared":
		return SharedNormal{}, nil
	case "exact":
		return ExactNormal{}, nil
	default:
		return nil, fmt.Errorf("%w: unknown normal strategy %q (want shared or exact)", ErrInvalidInput, name)
	}
}
