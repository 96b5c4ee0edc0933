package project

import "errors"

var (
	// ErrProjectNotFound indicates the project doesn't exist.
	ErrProjectNotFound = errors.New("project not found")
	// ErrInvalidInput indicates invalid project input.
	ErrInvalidInput = errors.New("invalid project input")
	// ErrConflict indicates the project was saved elsewhere since it was loaded.
	ErrConflict = errors.New("project was modified since it was loaded")
	// ErrInvalidDocument indicates a project file that cannot be decoded.
	ErrInvalidDocument = errors.New("invalid project document")
)
