package relief

import (
	"math"

	"github.com/taigrr/relief/pkg/math3d"
)

// Config holds the physical scale of a relief. All values are in
// millimetres.
type Config struct {
	MinHeightMM     float64 // relief height for h=0, above the base
	MaxHeightMM     float64 // relief height for h=1, above the base
	BaseThicknessMM float64 // offset lifting the whole top surface above z=0
	PixelScaleMM    float64 // distance between neighbouring grid samples
}

// DefaultConfig returns the scale used when a caller supplies none.
func DefaultConfig() Config {
	return Config{
		MinHeightMM:     0.2,
		MaxHeightMM:     2.0,
		BaseThicknessMM: 1.0,
		PixelScaleMM:    0.2,
	}
}

// NewConfig builds a Config and validates it.
func NewConfig(minHeightMM, maxHeightMM, baseThicknessMM, pixelScaleMM float64) (Config, error) {
	c := Config{
		MinHeightMM:     minHeightMM,
		MaxHeightMM:     maxHeightMM,
		BaseThicknessMM: baseThicknessMM,
		PixelScaleMM:    pixelScaleMM,
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Validate checks that every field is finite and positive and that the
// height bounds are not inverted.
func (c Config) Validate() error {
	fields := []struct {
		name  string
		value float64
	}{
		{"min_height_mm", c.MinHeightMM},
		{"max_height_mm", c.MaxHeightMM},
		{"base_thickness_mm", c.BaseThicknessMM},
		{"pixel_scale_mm", c.PixelScaleMM},
	}
	for _, f := range fields {
		if math.IsNaN(f.value) || math.IsInf(f.value, 0) {
			return invalidf("%s %v is not finite", f.name, f.value)
		}
		if f.value <= 0 {
			return invalidf("%s %v must be positive", f.name, f.value)
		}
	}
	if c.MaxHeightMM <= c.MinHeightMM {
		return invalidf("max_height_mm %v must be greater than min_height_mm %v", c.MaxHeightMM, c.MinHeightMM)
	}
	return nil
}

// HeightToMM maps a normalized height to an absolute z coordinate.
// HeightToMM(0) is exactly MinHeightMM+BaseThicknessMM and HeightToMM(1)
// is exactly MaxHeightMM+BaseThicknessMM.
func (c Config) HeightToMM(h float64) float64 {
	return (1-h)*c.MinHeightMM + h*c.MaxHeightMM + c.BaseThicknessMM
}

// Vertex converts a grid position to a point: x follows the row index,
// y follows the column index. Every builder goes through here.
func (c Config) Vertex(i, j int, z float64) math3d.Vec3 {
	return math3d.V3(float64(i)*c.PixelScaleMM, float64(j)*c.PixelScaleMM, z)
}

// Extent returns the footprint of an R x C grid in millimetres.
func (c Config) Extent(rows, cols int) (x, y float64) {
	return float64(rows-1) * c.PixelScaleMM, float64(cols-1) * c.PixelScaleMM
}
