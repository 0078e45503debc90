package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/taigrr/relief/internal/config"
	"github.com/taigrr/relief/internal/logger"
	"github.com/taigrr/relief/pkg/export"
	"github.com/taigrr/relief/pkg/relief"
	"github.com/taigrr/relief/pkg/stl"
)

type generateFlags struct {
	out      string
	outDir   string
	format   string
	name     string
	mode     string
	normals  string
	workers  int
	invert   bool
	validate bool
	center   bool

	minHeight float64
	maxHeight float64
	base      float64
	scale     float64
}

func newGenerateCmd(a *app) *cobra.Command {
	f := &generateFlags{}

	cmd := &cobra.Command{
		Use:   "generate <grid.json>",
		Short: "Build a relief model from a JSON height grid",
		Long: "generate reads a JSON array of rows of heights in [0,1] and writes\n" +
			"the closed relief solid. Without --out the model is written next to\n" +
			"the grid as <stem>_tactile.<format>.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f.apply(cmd, a.cfg)
			if err := a.cfg.Validate(); err != nil {
				return err
			}
			return runGenerate(cmd, a.cfg, args[0], f.outDir)
		},
	}

	fl := cmd.Flags()
	fl.StringVarP(&f.out, "out", "o", "", "output file")
	fl.StringVar(&f.outDir, "out-dir", "", "directory for the derived output name")
	fl.StringVarP(&f.format, "format", "f", "", "output format: stl or glb")
	fl.StringVar(&f.name, "name", "", "solid name")
	fl.StringVar(&f.mode, "mode", "", "mesh mode: watertight or open-shell")
	fl.StringVar(&f.normals, "normals", "", "top surface normals: shared or exact")
	fl.IntVar(&f.workers, "workers", 0, "rows tessellated concurrently")
	fl.BoolVar(&f.invert, "invert", false, "invert heights so dark becomes raised")
	fl.BoolVar(&f.validate, "validate", false, "validate the written model")
	fl.BoolVar(&f.center, "center", false, "center the footprint on the origin (glb)")
	fl.Float64Var(&f.minHeight, "min-height", 0, "relief height in mm for h=0")
	fl.Float64Var(&f.maxHeight, "max-height", 0, "relief height in mm for h=1")
	fl.Float64Var(&f.base, "base", 0, "base thickness in mm")
	fl.Float64Var(&f.scale, "scale", 0, "mm between grid samples")

	return cmd
}

// apply copies every flag the user set onto cfg.
func (f *generateFlags) apply(cmd *cobra.Command, cfg *config.Config) {
	changed := cmd.Flags().Changed
	if changed("out") {
		cfg.Output.Path = f.out
	}
	if changed("format") {
		cfg.Output.Format = f.format
	}
	if changed("validate") {
		cfg.Output.Validate = f.validate
	}
	if changed("center") {
		cfg.Output.Center = f.center
	}
	if changed("name") {
		cfg.Mesh.Name = f.name
	}
	if changed("mode") {
		cfg.Mesh.Mode = f.mode
	}
	if changed("normals") {
		cfg.Mesh.Normals = f.normals
	}
	if changed("workers") {
		cfg.Mesh.Workers = f.workers
	}
	if changed("invert") {
		cfg.Mesh.InvertHeights = f.invert
	}
	if changed("min-height") {
		cfg.Physical.MinHeightMM = f.minHeight
	}
	if changed("max-height") {
		cfg.Physical.MaxHeightMM = f.maxHeight
	}
	if changed("base") {
		cfg.Physical.BaseThicknessMM = f.base
	}
	if changed("scale") {
		cfg.Physical.PixelScaleMM = f.scale
	}
}

func runGenerate(cmd *cobra.Command, cfg *config.Config, input, outDir string) error {
	physical, err := cfg.Physical.Relief()
	if err != nil {
		return err
	}
	opts, err := cfg.Mesh.Options()
	if err != nil {
		return err
	}

	g, err := readHeightGridFile(input)
	if err != nil {
		return err
	}
	if cfg.Mesh.InvertHeights {
		g = g.Inverted()
	}
	stats := g.Stats()
	logger.Debug("height grid loaded",
		zap.String("path", input),
		zap.Int("rows", g.Rows()),
		zap.Int("cols", g.Cols()),
		zap.Float64("min", stats.Min),
		zap.Float64("max", stats.Max),
		zap.Float64("mean", stats.Mean),
	)

	start := time.Now()
	m, err := relief.Generate(g, physical, opts)
	if err != nil {
		return err
	}
	size := m.Size()
	logger.Info("mesh generated",
		zap.String("name", m.Name),
		zap.Stringer("mode", opts.Mode),
		zap.Int("triangles", m.TriangleCount()),
		zap.Float64("width_mm", size.X),
		zap.Float64("depth_mm", size.Y),
		zap.Float64("height_mm", size.Z),
		zap.Duration("elapsed", time.Since(start)),
	)
	if opts.Mode == relief.ModeOpenShell {
		logger.Warn("open-shell mode produces a mesh without side walls; most slicers will need to repair it")
	}

	if err := cmd.Context().Err(); err != nil {
		return err
	}

	out := cfg.Output.Path
	if out == "" {
		out = OutputName(input, outDir, cfg.Output.Format)
	}

	start = time.Now()
	switch cfg.Output.Format {
	case config.FormatGLB:
		err = export.WriteGLB(out, m, export.GLBOptions{Center: cfg.Output.Center})
	default:
		err = stl.WriteFile(out, m)
	}
	if err != nil {
		return err
	}
	logger.Info("model written",
		zap.String("path", out),
		zap.String("format", cfg.Output.Format),
		zap.Duration("elapsed", time.Since(start)),
	)

	if cfg.Output.Validate {
		if err := validateOutput(out, cfg.Output.Format, m); err != nil {
			return err
		}
	}

	fmt.Fprintln(cmd.OutOrStdout(), out)
	return nil
}

// validateOutput reads the written model back and checks it.
func validateOutput(path, format string, m *relief.Mesh) error {
	if format == config.FormatGLB {
		loaded, err := export.LoadGLB(path)
		if err != nil {
			return err
		}
		if loaded.TriangleCount() != m.TriangleCount() {
			logger.Error("glb triangle count mismatch",
				zap.Int("written", m.TriangleCount()),
				zap.Int("read", loaded.TriangleCount()),
			)
			return errInvalidModel
		}
		logger.Info("model validated", zap.Int("triangles", loaded.TriangleCount()))
		return nil
	}

	report, err := stl.ValidateFile(path)
	if err != nil {
		return err
	}
	logReport(path, report)
	if !report.Valid {
		return errInvalidModel
	}
	return nil
}

// logReport logs the findings of an STL report.
func logReport(path string, r *stl.Report) {
	for _, w := range r.Warnings {
		logger.Warn(w, zap.String("path", path))
	}
	for _, e := range r.Errors {
		logger.Error(e, zap.String("path", path))
	}
	logger.Info("model validated",
		zap.String("path", path),
		zap.Bool("valid", r.Valid),
		zap.Int("triangles", r.TriangleCount),
		zap.Int("vertices", r.VertexCount),
		zap.Int64("bytes", r.FileSize),
	)
}
