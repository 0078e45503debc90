package relief

import (
	"github.com/taigrr/relief/pkg/math3d"
)

// topTriangleCount is the number of top-surface facets of an R x C grid.
func topTriangleCount(rows, cols int) int {
	return 2 * (rows - 1) * (cols - 1)
}

// tessellateRow writes the 2*(C-1) top-surface facets of cell row i into
// dst, which must have exactly that length. Within a cell the split runs
// along the (i,j)-(i+1,j+1) diagonal.
func tessellateRow(g *HeightGrid, cfg Config, normals NormalStrategy, i int, dst []Triangle) {
	for j := 0; j < g.cols-1; j++ {
		z00 := cfg.HeightToMM(g.At(i, j))
		z10 := cfg.HeightToMM(g.At(i+1, j))
		z01 := cfg.HeightToMM(g.At(i, j+1))
		z11 := cfg.HeightToMM(g.At(i+1, j+1))

		p00 := cfg.Vertex(i, j, z00)
		p10 := cfg.Vertex(i+1, j, z10)
		p11 := cfg.Vertex(i+1, j+1, z11)
		p01 := cfg.Vertex(i, j+1, z01)

		n1, n2 := normals.CellNormals(z00, z10, z01, z11, cfg.PixelScaleMM)
		dst[2*j] = Triangle{V: [3]math3d.Vec3{p00, p10, p11}, Normal: n1}
		dst[2*j+1] = Triangle{V: [3]math3d.Vec3{p00, p11, p01}, Normal: n2}
	}
}
