package relief

import (
	"github.com/taigrr/relief/pkg/math3d"
)

// buildBase returns the two facets covering the grid footprint at height
// z, facing -Z. Both wind clockwise when seen from above.
func buildBase(rows, cols int, cfg Config, z float64) [2]Triangle {
	p00 := cfg.Vertex(0, 0, z)
	pR0 := cfg.Vertex(rows-1, 0, z)
	pRC := cfg.Vertex(rows-1, cols-1, z)
	p0C := cfg.Vertex(0, cols-1, z)

	down := math3d.V3(0, 0, -1)
	return [2]Triangle{
		{V: [3]math3d.Vec3{p00, pRC, pR0}, Normal: down},
		{V: [3]math3d.Vec3{p00, p0C, pRC}, Normal: down},
	}
}
