package config

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taigrr/relief/pkg/relief"
)

// isolate points the standard config locations at an empty directory.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv("HOME", dir)
	t.Setenv("APPDATA", dir)
	return dir
}

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, 0.2, cfg.Physical.MinHeightMM)
	assert.Equal(t, 2.0, cfg.Physical.MaxHeightMM)
	assert.Equal(t, 1.0, cfg.Physical.BaseThicknessMM)
	assert.Equal(t, 0.2, cfg.Physical.PixelScaleMM)

	assert.Equal(t, relief.DefaultName, cfg.Mesh.Name)
	assert.Equal(t, "watertight", cfg.Mesh.Mode)
	assert.Equal(t, "shared", cfg.Mesh.Normals)
	assert.Equal(t, runtime.NumCPU(), cfg.Mesh.Workers)
	assert.False(t, cfg.Mesh.InvertHeights)

	assert.Equal(t, FormatSTL, cfg.Output.Format)
	assert.True(t, cfg.Output.Validate)
	assert.Empty(t, cfg.Output.Path)

	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Empty(t, cfg.Logging.LogFile)

	require.NoError(t, cfg.Validate())
}

func TestLoadFromFile(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "relief.yaml")

	yamlContent := `
physical:
  min_height_mm: 0.1
  max_height_mm: 3.0
  pixel_scale_mm: 0.5
mesh:
  name: map of campus
  mode: open-shell
  normals: exact
  workers: 2
  invert_heights: true
output:
  format: glb
  center: true
logging:
  level: debug
`
	require.NoError(t, os.WriteFile(path, []byte(yamlContent), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	want := Default()
	want.Physical.MinHeightMM = 0.1
	want.Physical.MaxHeightMM = 3.0
	want.Physical.PixelScaleMM = 0.5
	want.Mesh = MeshConfig{
		Name:          "map of campus",
		Mode:          "open-shell",
		Normals:       "exact",
		Workers:       2,
		InvertHeights: true,
	}
	want.Output.Format = FormatGLB
	want.Output.Center = true
	want.Logging.Level = "debug"

	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Errorf("Load() mismatch (-want +got):\n%s", diff)
	}

	opts, err := cfg.Mesh.Options()
	require.NoError(t, err)
	assert.Equal(t, relief.ModeOpenShell, opts.Mode)
	assert.Equal(t, relief.ExactNormal{}, opts.Normals)
	assert.Equal(t, 2, opts.Workers)
}

func TestLoadEmptyFileKeepsDefaults(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "relief.yaml")
	require.NoError(t, os.WriteFile(path, nil, 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadWithoutFile(t *testing.T) {
	isolate(t)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadErrors(t *testing.T) {
	isolate(t)
	dir := t.TempDir()

	_, err := Load(filepath.Join(dir, "missing.yaml"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))

	unknown := filepath.Join(dir, "unknown.yaml")
	require.NoError(t, os.WriteFile(unknown, []byte("mesh:\n  colour: red\n"), 0o644))
	_, err = Load(unknown)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "colour")

	broken := filepath.Join(dir, "broken.yaml")
	require.NoError(t, os.WriteFile(broken, []byte("physical: [\n"), 0o644))
	_, err = Load(broken)
	require.Error(t, err)
}

func TestSaveToRoundTrip(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "nested", "relief.yaml")

	cfg := Default()
	cfg.Physical.BaseThicknessMM = 2.5
	cfg.Mesh.Normals = "exact"
	cfg.Output.Path = "out/model.stl"

	require.NoError(t, cfg.SaveTo(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	if diff := cmp.Diff(cfg, loaded); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestSaveUsesConfigDir(t *testing.T) {
	isolate(t)

	require.NoError(t, Default().Save())
	_, err := os.Stat(filepath.Join(ConfigDir(), FileName))
	require.NoError(t, err)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestPhysicalRelief(t *testing.T) {
	p := Default().Physical
	rc, err := p.Relief()
	require.NoError(t, err)
	assert.Equal(t, relief.DefaultConfig(), rc)

	p.MaxHeightMM = p.MinHeightMM
	_, err = p.Relief()
	assert.ErrorIs(t, err, relief.ErrInvalidInput)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"bad scale", func(c *Config) { c.Physical.PixelScaleMM = 0 }, "physical"},
		{"bad mode", func(c *Config) { c.Mesh.Mode = "hollow" }, "mesh"},
		{"bad normals", func(c *Config) { c.Mesh.Normals = "smooth" }, "mesh"},
		{"bad format", func(c *Config) { c.Output.Format = "obj" }, "output"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}
