package stl

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
)

// Report is the outcome of a structural check of ASCII STL text. It is
// derived only from the text and never recomputes geometry.
type Report struct {
	Valid         bool     `yaml:"valid" json:"valid"`
	Errors        []string `yaml:"errors" json:"errors"`
	Warnings      []string `yaml:"warnings" json:"warnings"`
	TriangleCount int      `yaml:"triangle_count" json:"triangle_count"`
	VertexCount   int      `yaml:"vertex_count" json:"vertex_count"`
	FileSize      int64    `yaml:"file_size" json:"file_size"`
}

var (
	tokenSolid       = []byte("solid")
	tokenEndSolid    = []byte("endsolid")
	tokenFacetNormal = []byte("facet normal")
	tokenVertex      = []byte("vertex")
)

// scanner accumulates counts over STL text one line at a time.
type scanner struct {
	lines     int
	size      int64
	startsOK  bool
	name      []byte
	last      []byte // last non-blank line, trimmed
	triangles int
	vertices  int
}

func (s *scanner) consume(line []byte) {
	if s.lines == 0 {
		s.startsOK = bytes.HasPrefix(line, tokenSolid)
		if s.startsOK {
			s.name = append(s.name, bytes.TrimSpace(line[len(tokenSolid):])...)
		}
	}
	s.lines++
	s.size += int64(len(line))
	s.triangles += bytes.Count(line, tokenFacetNormal)
	s.vertices += bytes.Count(line, tokenVertex)
	if trimmed := bytes.TrimSpace(line); len(trimmed) > 0 {
		s.last = append(s.last[:0], trimmed...)
	}
}

func (s *scanner) report() *Report {
	r := &Report{
		Errors:        []string{},
		Warnings:      []string{},
		TriangleCount: s.triangles,
		VertexCount:   s.vertices,
		FileSize:      s.size,
	}

	if !s.startsOK {
		r.Errors = append(r.Errors, "invalid STL format: must start with 'solid'")
	}

	trailer := tokenEndSolid
	if len(s.name) > 0 {
		trailer = append(append(append([]byte(nil), tokenEndSolid...), ' '), s.name...)
	}
	if !bytes.HasSuffix(s.last, trailer) {
		r.Warnings = append(r.Warnings, fmt.Sprintf("STL file may be incomplete: missing trailer %q", trailer))
	}

	if s.triangles == 0 {
		r.Errors = append(r.Errors, "no triangles found in STL file")
	}
	if want := 3 * s.triangles; s.vertices != want {
		r.Warnings = append(r.Warnings, fmt.Sprintf("vertex count mismatch: found %d, expected %d", s.vertices, want))
	}

	r.Valid = len(r.Errors) == 0
	return r
}

// Validate reads ASCII STL text from r and reports structural problems.
// Problems inside readable text become report entries; the returned
// error is only set when r itself fails.
func Validate(r io.Reader) (*Report, error) {
	br := bufio.NewReaderSize(r, 64*1024)
	var s scanner
	var pending []byte
	for {
		chunk, err := br.ReadSlice('\n')
		if errors.Is(err, bufio.ErrBufferFull) {
			pending = append(pending, chunk...)
			continue
		}
		line := chunk
		if len(pending) > 0 {
			pending = append(pending, chunk...)
			line = pending
		}
		if len(line) > 0 || s.lines == 0 {
			s.consume(line)
		}
		pending = pending[:0]

		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: read: %w", ErrIO, err)
		}
	}
	return s.report(), nil
}

// ValidateBytes is Validate over an in-memory buffer.
func ValidateBytes(data []byte) *Report {
	// A bytes.Reader never fails.
	r, _ := Validate(bytes.NewReader(data))
	return r
}

// ValidateFile validates the STL file at path. A missing file yields an
// error matching both ErrNotFound and fs.ErrNotExist.
func ValidateFile(path string) (*Report, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s: %w", ErrNotFound, path, err)
		}
		return nil, fmt.Errorf("%w: open %s: %w", ErrIO, path, err)
	}
	defer f.Close()

	r, err := Validate(f)
	if err != nil {
		return nil, fmt.Errorf("validate %s: %w", path, err)
	}
	return r, nil
}
