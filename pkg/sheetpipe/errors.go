package sheetpipe

import (
	"errors"
	"fmt"
)

// ErrUnreadableFile indicates the input could not be opened or decoded.
// It is the only condition fatal to a file; every softer condition
// (missing header, ambiguous column, unparseable date, failed formula)
// degrades locally and surfaces through diagnostics counters instead.
var ErrUnreadableFile = errors.New("unreadable file")

// ErrFileTimeout indicates one file exceeded its processing deadline.
var ErrFileTimeout = errors.New("file processing timed out")

// FileError wraps a file-level failure with its path and pipeline stage.
type FileError struct {
	Path  string
	Stage string // "load", "extract"
	Err   error
}

func (e *FileError) Error() string {
	return fmt.Sprintf("file %q (%s): %v", e.Path, e.Stage, e.Err)
}

func (e *FileError) Unwrap() error {
	return e.Err
}

// NewFileError creates a new FileError.
func NewFileError(path, stage string, err error) *FileError {
	return &FileError{Path: path, Stage: stage, Err: err}
}
