package stl

import (
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taigrr/relief/pkg/relief"
)

func TestRoundTripIsValid(t *testing.T) {
	for _, size := range [][2]int{{2, 2}, {3, 3}, {5, 8}, {17, 4}} {
		for _, normals := range []relief.NormalStrategy{relief.SharedNormal{}, relief.ExactNormal{}} {
			m := gridMesh(t, size[0], size[1], relief.Options{Normals: normals})
			out := render(t, m)

			r := ValidateBytes([]byte(out))
			assert.True(t, r.Valid, "%v: %v", size, r.Errors)
			assert.Empty(t, r.Errors)
			assert.Empty(t, r.Warnings)
			assert.Equal(t, m.TriangleCount(), r.TriangleCount)
			assert.Equal(t, 3*r.TriangleCount, r.VertexCount)
			assert.Equal(t, int64(len(out)), r.FileSize)
		}
	}
}

func TestValidateThreeByThreeFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "grid.stl")
	require.NoError(t, WriteFile(path, gridMesh(t, 3, 3, relief.Options{})))

	info, err := os.Stat(path)
	require.NoError(t, err)

	got, err := ValidateFile(path)
	require.NoError(t, err)

	want := &Report{
		Valid:         true,
		Errors:        []string{},
		Warnings:      []string{},
		TriangleCount: 26,
		VertexCount:   78,
		FileSize:      info.Size(),
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("report mismatch (-want +got):\n%s", diff)
	}
}

func TestValidateFindings(t *testing.T) {
	facet := "  facet normal 0.000000 0.000000 1.000000\n" +
		"    outer loop\n" +
		"      vertex 0.000 0.000 1.000\n" +
		"      vertex 1.000 0.000 1.000\n" +
		"      vertex 0.000 1.000 1.000\n" +
		"    endloop\n" +
		"  endfacet\n"

	tests := []struct {
		name     string
		text     string
		valid    bool
		errors   []string
		warnings []string
	}{
		{
			name:  "complete",
			text:  "solid part\n" + facet + "endsolid part\n",
			valid: true,
		},
		{
			name:  "trailing whitespace after trailer",
			text:  "solid part\n" + facet + "endsolid part\n\n  \n",
			valid: true,
		},
		{
			name:  "unnamed solid",
			text:  "solid\n" + facet + "endsolid\n",
			valid: true,
		},
		{
			name:     "truncated",
			text:     "solid part\n" + facet,
			valid:    true,
			warnings: []string{`STL file may be incomplete: missing trailer "endsolid part"`},
		},
		{
			name:     "trailer names another solid",
			text:     "solid part\n" + facet + "endsolid other\n",
			valid:    true,
			warnings: []string{`STL file may be incomplete: missing trailer "endsolid part"`},
		},
		{
			name:   "missing header",
			text:   facet + "endsolid\n",
			valid:  false,
			errors: []string{"invalid STL format: must start with 'solid'"},
		},
		{
			name:   "no facets",
			text:   "solid part\nendsolid part\n",
			valid:  false,
			errors: []string{"no triangles found in STL file"},
		},
		{
			name:     "missing vertex",
			text:     "solid part\n" + strings.Replace(facet, "      vertex 1.000 0.000 1.000\n", "", 1) + "endsolid part\n",
			valid:    true,
			warnings: []string{"vertex count mismatch: found 2, expected 3"},
		},
		{
			name:  "empty",
			text:  "",
			valid: false,
			errors: []string{
				"invalid STL format: must start with 'solid'",
				"no triangles found in STL file",
			},
			warnings: []string{`STL file may be incomplete: missing trailer "endsolid"`},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			r := ValidateBytes([]byte(tc.text))
			assert.Equal(t, tc.valid, r.Valid)
			if diff := cmp.Diff(tc.errors, r.Errors, cmpEmpty); diff != "" {
				t.Errorf("errors (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff(tc.warnings, r.Warnings, cmpEmpty); diff != "" {
				t.Errorf("warnings (-want +got):\n%s", diff)
			}
			assert.Equal(t, int64(len(tc.text)), r.FileSize)
		})
	}
}

// cmpEmpty treats nil and empty slices as equal.
var cmpEmpty = cmp.Comparer(func(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
})

func TestValidateLongLines(t *testing.T) {
	// A header longer than the read buffer is still recognised.
	name := strings.Repeat("n", 200*1024)
	text := "solid " + name + "\n" +
		"  facet normal 0 0 1\n    outer loop\n" +
		"      vertex 0 0 0\n      vertex 1 0 0\n      vertex 0 1 0\n" +
		"    endloop\n  endfacet\n" +
		"endsolid " + name + "\n"

	r := ValidateBytes([]byte(text))
	assert.True(t, r.Valid, "%v", r.Errors)
	assert.Empty(t, r.Warnings)
	assert.Equal(t, 1, r.TriangleCount)
	assert.Equal(t, int64(len(text)), r.FileSize)
}

func TestValidateFileNotFound(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.stl")

	r, err := ValidateFile(path)
	require.Error(t, err)
	assert.Nil(t, r)
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.True(t, errors.Is(err, fs.ErrNotExist))
	assert.Contains(t, err.Error(), path)
}

type brokenReader struct{ sent bool }

func (b *brokenReader) Read(p []byte) (int, error) {
	if !b.sent {
		b.sent = true
		return copy(p, "solid part\n  facet normal"), nil
	}
	return 0, errors.New("device unplugged")
}

func TestValidateReadFailure(t *testing.T) {
	r, err := Validate(&brokenReader{})
	require.ErrorIs(t, err, ErrIO)
	assert.Nil(t, r)
	assert.Contains(t, err.Error(), "device unplugged")
}

func TestValidateReaderEOFWithoutNewline(t *testing.T) {
	r, err := Validate(io.MultiReader(
		strings.NewReader("solid x\n  facet normal 0 0 1\n"),
		strings.NewReader("   vertex 0 0 0\n vertex 1 0 0\n vertex 0 1 0\nendsolid x"),
	))
	require.NoError(t, err)
	assert.True(t, r.Valid)
	assert.Empty(t, r.Warnings)
}
