// Package config handles loading and saving relief tool settings.
package config

import (
	"fmt"
	"runtime"

	"github.com/taigrr/relief/pkg/relief"
)

// Output formats.
const (
	FormatSTL = "stl"
	FormatGLB = "glb"
)

// Config holds all tool settings.
type Config struct {
	Physical PhysicalConfig `yaml:"physical"`
	Mesh     MeshConfig     `yaml:"mesh"`
	Output   OutputConfig   `yaml:"output"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// PhysicalConfig holds the printed dimensions in millimetres.
type PhysicalConfig struct {
	MinHeightMM     float64 `yaml:"min_height_mm"`
	MaxHeightMM     float64 `yaml:"max_height_mm"`
	BaseThicknessMM float64 `yaml:"base_thickness_mm"`
	PixelScaleMM    float64 `yaml:"pixel_scale_mm"`
}

// MeshConfig holds mesh generation settings.
type MeshConfig struct {
	Name          string `yaml:"name"`
	Mode          string `yaml:"mode"`    // watertight or open-shell
	Normals       string `yaml:"normals"` // shared or exact
	Workers       int    `yaml:"workers"`
	InvertHeights bool   `yaml:"invert_heights"`
}

// OutputConfig holds output settings.
type OutputConfig struct {
	Path     string `yaml:"path"`   // empty derives <stem>_tactile.<format> next to the input
	Format   string `yaml:"format"` // stl or glb
	Validate bool   `yaml:"validate"`
	Center   bool   `yaml:"center"` // glb only
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	phys := relief.DefaultConfig()
	return &Config{
		Physical: PhysicalConfig{
			MinHeightMM:     phys.MinHeightMM,
			MaxHeightMM:     phys.MaxHeightMM,
			BaseThicknessMM: phys.BaseThicknessMM,
			PixelScaleMM:    phys.PixelScaleMM,
		},
		Mesh: MeshConfig{
			Name:    relief.DefaultName,
			Mode:    relief.ModeWatertight.String(),
			Normals: "shared",
			Workers: runtime.NumCPU(),
		},
		Output: OutputConfig{
			Format:   FormatSTL,
			Validate: true,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Relief converts the physical section into a validated relief.Config.
func (p PhysicalConfig) Relief() (relief.Config, error) {
	return relief.NewConfig(p.MinHeightMM, p.MaxHeightMM, p.BaseThicknessMM, p.PixelScaleMM)
}

// Options converts the mesh section into generation options.
func (m MeshConfig) Options() (relief.Options, error) {
	mode, err := relief.ParseMode(m.Mode)
	if err != nil {
		return relief.Options{}, err
	}
	normals, err := relief.NormalStrategyByName(m.Normals)
	if err != nil {
		return relief.Options{}, err
	}
	return relief.Options{
		Name:    m.Name,
		Mode:    mode,
		Normals: normals,
		Workers: m.Workers,
	}, nil
}

// Validate checks every section that can be checked without an input.
func (c *Config) Validate() error {
	if _, err := c.Physical.Relief(); err != nil {
		return fmt.Errorf("physical: %w", err)
	}
	if _, err := c.Mesh.Options(); err != nil {
		return fmt.Errorf("mesh: %w", err)
	}
	switch c.Output.Format {
	case FormatSTL, FormatGLB:
	default:
		return fmt.Errorf("output: unknown format %q (want %s or %s)", c.Output.Format, FormatSTL, FormatGLB)
	}
	return nil
}
