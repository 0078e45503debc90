// Package stl renders relief meshes as ASCII STL and checks STL text for
// structural problems.
package stl

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/taigrr/relief/pkg/math3d"
	"github.com/taigrr/relief/pkg/relief"
)

// Decimal places written for normals and vertex coordinates.
const (
	NormalPrecision = 6
	VertexPrecision = 3
)

// Write renders m to w as ASCII STL. Output is streamed through a
// buffer one facet at a time; nothing proportional to the mesh size is
// held in memory.
func Write(w io.Writer, m *relief.Mesh) error {
	bw := bufio.NewWriterSize(w, 64*1024)
	name := solidName(m.Name)

	// Scratch line buffer reused for every line.
	line := make([]byte, 0, 96)
	emit := func(b []byte) error {
		_, err := bw.Write(b)
		return err
	}

	line = append(append(line[:0], "solid "...), name...)
	if err := emit(append(line, '\n')); err != nil {
		return fmt.Errorf("%w: write header: %w", ErrIO, err)
	}

	for k := range m.Triangles {
		t := &m.Triangles[k]

		line = appendVec(append(line[:0], "  facet normal "...), t.Normal, NormalPrecision)
		line = append(line, "\n    outer loop\n"...)
		for _, v := range t.V {
			line = appendVec(append(line, "      vertex "...), v, VertexPrecision)
			line = append(line, '\n')
		}
		line = append(line, "    endloop\n  endfacet\n"...)
		if err := emit(line); err != nil {
			return fmt.Errorf("%w: write facet %d: %w", ErrIO, k, err)
		}
	}

	line = append(append(line[:0], "endsolid "...), name...)
	if err := emit(append(line, '\n')); err != nil {
		return fmt.Errorf("%w: write trailer: %w", ErrIO, err)
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("%w: flush: %w", ErrIO, err)
	}
	return nil
}

// WriteFile renders m to path. The text is written to a temporary file
// in the same directory and renamed into place only after it has been
// completely written and synced, so a failed write never leaves a
// truncated file at path. Missing parent directories are created.
func WriteFile(path string, m *relief.Mesh) (err error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("%w: create directory %s: %w", ErrIO, dir, err)
	}

	f, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("%w: create temp file for %s: %w", ErrIO, path, err)
	}
	tmp := f.Name()
	defer func() {
		if err != nil {
			_ = f.Close()
			_ = os.Remove(tmp)
		}
	}()

	if err := Write(f, m); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := f.Sync(); err != nil {
		return fmt.Errorf("%w: sync %s: %w", ErrIO, tmp, err)
	}
	if err := f.Chmod(0o644); err != nil {
		return fmt.Errorf("%w: chmod %s: %w", ErrIO, tmp, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("%w: close %s: %w", ErrIO, tmp, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("%w: rename %s to %s: %w", ErrIO, tmp, path, err)
	}
	return nil
}

// solidName makes name safe for the single-token header and trailer.
func solidName(name string) string {
	name = strings.Join(strings.Fields(name), "_")
	if name == "" {
		return relief.DefaultName
	}
	return name
}

func appendVec(b []byte, v math3d.Vec3, prec int) []byte {
	b = appendFixed(b, v.X, prec)
	b = append(b, ' ')
	b = appendFixed(b, v.Y, prec)
	b = append(b, ' ')
	return appendFixed(b, v.Z, prec)
}

// appendFixed formats f with prec decimals and '.' as separator. A value
// that rounds to zero is written without a sign.
func appendFixed(b []byte, f float64, prec int) []byte {
	start := len(b)
	b = strconv.AppendFloat(b, f, 'f', prec, 64)
	if b[start] == '-' && allZero(b[start+1:]) {
		b = append(b[:start], b[start+1:]...)
	}
	return b
}

func allZero(digits []byte) bool {
	for _, c := range digits {
		if c != '0' && c != '.' {
			return false
		}
	}
	return true
}
