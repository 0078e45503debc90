package relief

import (
	"github.com/taigrr/relief/pkg/math3d"
)

// Side identifies one boundary edge of the top surface.
type Side int

// Sides in emission order.
const (
	SideMinX Side = iota // row i = 0, wall faces -X
	SideMaxX             // row i = R-1, wall faces +X
	SideMinY             // column j = 0, wall faces -Y
	SideMaxY             // column j = C-1, wall faces +Y
)

var wallSides = [...]Side{SideMinX, SideMaxX, SideMinY, SideMaxY}

func (s Side) String() string {
	switch s {
	case SideMinX:
		return "i=0"
	case SideMaxX:
		return "i=R-1"
	case SideMinY:
		return "j=0"
	case SideMaxY:
		return "j=C-1"
	}
	return "unknown"
}

// Outward returns the unit normal of the wall on this side.
func (s Side) Outward() math3d.Vec3 {
	switch s {
	case SideMinX:
		return math3d.V3(-1, 0, 0)
	case SideMaxX:
		return math3d.V3(1, 0, 0)
	case SideMinY:
		return math3d.V3(0, -1, 0)
	default:
		return math3d.V3(0, 1, 0)
	}
}

// segments returns how many boundary segments the side has.
func (s Side) segments(rows, cols int) int {
	if s == SideMinX || s == SideMaxX {
		return cols - 1
	}
	return rows - 1
}

// segment returns the grid positions of the k-th segment's endpoints,
// ordered so that (top_a, bottom_a, top_b) winds outward.
func (s Side) segment(rows, cols, k int) (ia, ja, ib, jb int) {
	switch s {
	case SideMinX:
		return 0, k + 1, 0, k
	case SideMaxX:
		return rows - 1, k, rows - 1, k + 1
	case SideMinY:
		return k, 0, k + 1, 0
	default:
		return k + 1, cols - 1, k, cols - 1
	}
}

// wallTriangleCount is the number of side-wall facets of an R x C grid.
func wallTriangleCount(rows, cols int) int {
	return 4 * ((rows - 1) + (cols - 1))
}

// buildWall writes the facets joining one side of the top surface to the
// z=0 plane into dst, which must hold 2*segments facets. Each segment
// becomes (top_a, bottom_a, top_b) and (top_b, bottom_a, bottom_b).
func buildWall(g *HeightGrid, cfg Config, side Side, dst []Triangle) {
	normal := side.Outward()
	for k := range side.segments(g.rows, g.cols) {
		ia, ja, ib, jb := side.segment(g.rows, g.cols, k)
		topA := cfg.Vertex(ia, ja, cfg.HeightToMM(g.At(ia, ja)))
		topB := cfg.Vertex(ib, jb, cfg.HeightToMM(g.At(ib, jb)))
		bottomA := cfg.Vertex(ia, ja, 0)
		bottomB := cfg.Vertex(ib, jb, 0)

		dst[2*k] = Triangle{V: [3]math3d.Vec3{topA, bottomA, topB}, Normal: normal}
		dst[2*k+1] = Triangle{V: [3]math3d.Vec3{topB, bottomA, bottomB}, Normal: normal}
	}
}
