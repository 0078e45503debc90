package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/taigrr/relief/pkg/relief"
)

// ReadHeightGrid decodes a JSON array of rows of heights.
func ReadHeightGrid(r io.Reader) (*relief.HeightGrid, error) {
	var rows [][]float64
	dec := json.NewDecoder(r)
	if err := dec.Decode(&rows); err != nil {
		return nil, fmt.Errorf("read height grid: %w", err)
	}
	if dec.More() {
		return nil, fmt.Errorf("read height grid: trailing data after grid")
	}
	return relief.NewHeightGrid(rows)
}

// readHeightGridFile reads the grid stored at path.
func readHeightGridFile(path string) (*relief.HeightGrid, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open height grid: %w", err)
	}
	defer f.Close()

	g, err := ReadHeightGrid(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return g, nil
}

// OutputName returns <stem>_tactile.<format> for input, placed in dir
// or next to input when dir is empty.
func OutputName(input, dir, format string) string {
	base := filepath.Base(input)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	if dir == "" {
		dir = filepath.Dir(input)
	}
	return filepath.Join(dir, stem+"_tactile."+format)
}
