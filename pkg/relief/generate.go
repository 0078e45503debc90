// Package relief turns a grid of normalized heights into a closed,
// printable triangle mesh.
//
// Generate emits facets in a fixed order: the top surface row-major by
// cell, then the two base facets, then the side walls for i=0, i=R-1,
// j=0 and j=C-1. Identical inputs always produce identical meshes, even
// when the top surface is built by several workers.
package relief

import (
	"fmt"

	"golang.org/x/sync/errgroup"
)

// Mode selects how the relief is closed.
type Mode int

const (
	// ModeWatertight closes the solid with perimeter walls down to a
	// base plate at z=0.
	ModeWatertight Mode = iota
	// ModeOpenShell emits only the top surface and a base plate at
	// z=BaseThicknessMM, with no walls. The result is not a closed
	// manifold and is kept for consumers of the older output.
	ModeOpenShell
)

func (m Mode) String() string {
	switch m {
	case ModeWatertight:
		return "watertight"
	case ModeOpenShell:
		return "open-shell"
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

// ParseMode resolves a configuration value to a Mode. The empty string
// selects ModeWatertight.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "", "watertight":
		return ModeWatertight, nil
	case "open-shell", "open_shell":
		return ModeOpenShell, nil
	}
	return 0, fmt.Errorf("%w: unknown mesh mode %q (want watertight or open-shell)", ErrInvalidInput, s)
}

// Options tunes Generate. The zero value is valid.
type Options struct {
	Name    string         // solid name, DefaultName when empty
	Mode    Mode           // ModeWatertight when zero
	Normals NormalStrategy // SharedNormal when nil
	Workers int            // top-surface rows built concurrently; <= 1 builds serially
}

// TriangleCount returns the number of facets Generate emits for an
// R x C grid.
func TriangleCount(rows, cols int, mode Mode) int {
	n := topTriangleCount(rows, cols) + 2
	if mode == ModeWatertight {
		n += wallTriangleCount(rows, cols)
	}
	return n
}

// Generate builds the relief mesh for g at the scale given by cfg. All
// input checks run before any facet is computed; on error no mesh is
// returned.
func Generate(g *HeightGrid, cfg Config, opts Options) (*Mesh, error) {
	if g == nil {
		return nil, invalidf("height grid is nil")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if opts.Mode != ModeWatertight && opts.Mode != ModeOpenShell {
		return nil, invalidf("unknown mesh mode %d", int(opts.Mode))
	}
	normals := opts.Normals
	if normals == nil {
		normals = SharedNormal{}
	}

	rows, cols := g.rows, g.cols
	m := NewMesh(opts.Name, 0)
	m.Triangles = make([]Triangle, TriangleCount(rows, cols, opts.Mode))

	// Each row owns a fixed slot, so scheduling cannot reorder facets.
	rowLen := 2 * (cols - 1)
	top := m.Triangles[:topTriangleCount(rows, cols)]
	if opts.Workers > 1 {
		var eg errgroup.Group
		eg.SetLimit(opts.Workers)
		for i := range rows - 1 {
			eg.Go(func() error {
				tessellateRow(g, cfg, normals, i, top[i*rowLen:(i+1)*rowLen])
				return nil
			})
		}
		if err := eg.Wait(); err != nil {
			return nil, err
		}
	} else {
		for i := range rows - 1 {
			tessellateRow(g, cfg, normals, i, top[i*rowLen:(i+1)*rowLen])
		}
	}

	next := len(top)
	baseZ := 0.0
	if opts.Mode == ModeOpenShell {
		baseZ = cfg.BaseThicknessMM
	}
	base := buildBase(rows, cols, cfg, baseZ)
	next += copy(m.Triangles[next:], base[:])

	if opts.Mode == ModeWatertight {
		for _, side := range wallSides {
			n := 2 * side.segments(rows, cols)
			buildWall(g, cfg, side, m.Triangles[next:next+n])
			next += n
		}
	}

	m.CalculateBounds()
	return m, nil
}
