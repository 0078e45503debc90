package stl

import "errors"

var (
	// ErrIO reports that a sink or source could not be opened, written
	// or read.
	ErrIO = errors.New("stl i/o failure")

	// ErrNotFound reports that a file handed to ValidateFile does not
	// exist. Errors carrying it also match fs.ErrNotExist.
	ErrNotFound = errors.New("stl file not found")
)
