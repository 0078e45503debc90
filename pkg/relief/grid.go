package relief

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// HeightGrid is an immutable row-major grid of normalized heights in
// [0, 1]. Rows map to X and columns map to Y.
type HeightGrid struct {
	rows, cols int
	values     []float64
}

// GridStats summarises the values of a HeightGrid.
type GridStats struct {
	Min  float64
	Max  float64
	Mean float64
}

// NewHeightGrid copies rows into a HeightGrid after checking that the
// grid is rectangular, at least 2x2, and that every value is finite and
// within [0, 1].
func NewHeightGrid(rows [][]float64) (*HeightGrid, error) {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil, invalidf("height grid is empty")
	}
	cols := len(rows[0])
	values := make([]float64, 0, len(rows)*cols)
	for i, row := range rows {
		if len(row) != cols {
			return nil, invalidf("height grid row %d has %d columns, want %d", i, len(row), cols)
		}
		values = append(values, row...)
	}
	return NewHeightGridFromValues(len(rows), cols, values)
}

// NewHeightGridFromValues builds a grid from a flat row-major slice.
// The slice is copied.
func NewHeightGridFromValues(rows, cols int, values []float64) (*HeightGrid, error) {
	if rows <= 0 || cols <= 0 {
		return nil, invalidf("height grid is empty")
	}
	if len(values) != rows*cols {
		return nil, invalidf("height grid has %d values, want %dx%d=%d", len(values), rows, cols, rows*cols)
	}
	if rows < 2 || cols < 2 {
		return nil, invalidf("height grid is %dx%d, need at least 2x2 for one full cell", rows, cols)
	}
	for k, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, invalidf("height %v at (%d,%d) is not finite", v, k/cols, k%cols)
		}
		if v < 0 || v > 1 {
			return nil, invalidf("height %v at (%d,%d) is outside [0,1]", v, k/cols, k%cols)
		}
	}
	return &HeightGrid{
		rows:   rows,
		cols:   cols,
		values: append([]float64(nil), values...),
	}, nil
}

// Rows returns the number of rows (R).
func (g *HeightGrid) Rows() int {
	return g.rows
}

// Cols returns the number of columns (C).
func (g *HeightGrid) Cols() int {
	return g.cols
}

// At returns the height at row i, column j.
func (g *HeightGrid) At(i, j int) float64 {
	return g.values[i*g.cols+j]
}

// Stats returns the minimum, maximum and mean height.
func (g *HeightGrid) Stats() GridStats {
	return GridStats{
		Min:  floats.Min(g.values),
		Max:  floats.Max(g.values),
		Mean: floats.Sum(g.values) / float64(len(g.values)),
	}
}

// Inverted returns a new grid with every height h replaced by 1-h, so
// dark regions are raised instead of bright ones.
func (g *HeightGrid) Inverted() *HeightGrid {
	out := make([]float64, len(g.values))
	floats.AddConst(1, floats.ScaleTo(out, -1, g.values))
	return &HeightGrid{rows: g.rows, cols: g.cols, values: out}
}
