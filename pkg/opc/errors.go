// Package opc reads and writes zipped document containers as addressable
// sets of named parts.
package opc

import (
	"errors"
	"fmt"
)

// CorruptArchiveError reports input that could not be read as a zip archive.
type CorruptArchiveError struct {
	Cause error
}

func (e *CorruptArchiveError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("corrupt archive: %v", e.Cause)
	}
	return "corrupt archive"
}

func (e *CorruptArchiveError) Unwrap() error {
	return e.Cause
}

// NewCorruptArchiveError creates a new corrupt archive error
func NewCorruptArchiveError(cause error) error {
	return &CorruptArchiveError{Cause: cause}
}

// MissingPartError reports an archive that opened cleanly but lacks a part
// the caller requires.
type MissingPartError struct {
	Part string
}

func (e *MissingPartError) Error() string {
	return fmt.Sprintf("package is missing required part %s", e.Part)
}

// NewMissingPartError creates a new missing part error
func NewMissingPartError(part string) error {
	return &MissingPartError{Part: part}
}

// EncodingError reports a part whose bytes were requested as text but do not
// decode as UTF-8.
type EncodingError struct {
	Part string
}

func (e *EncodingError) Error() string {
	return fmt.Sprintf("part %s is not valid UTF-8 text", e.Part)
}

// NewEncodingError creates a new encoding error
func NewEncodingError(part string) error {
	return &EncodingError{Part: part}
}

// IOError reports a filesystem failure during read, write, or rename.
type IOError struct {
	Op    string
	Path  string
	Cause error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("io error during %s of %s: %v", e.Op, e.Path, e.Cause)
}

func (e *IOError) Unwrap() error {
	return e.Cause
}

// NewIOError creates a new io error
func NewIOError(op, path string, cause error) error {
	return &IOError{Op: op, Path: path, Cause: cause}
}

// IsCorruptArchiveError checks if an error is a corrupt archive error
func IsCorruptArchiveError(err error) bool {
	var e *CorruptArchiveError
	return errors.As(err, &e)
}

// IsMissingPartError checks if an error is a missing part error
func IsMissingPartError(err error) bool {
	var e *MissingPartError
	return errors.As(err, &e)
}

// IsEncodingError checks if an error is an encoding error
func IsEncodingError(err error) bool {
	var e *EncodingError
	return errors.As(err, &e)
}

// IsIOError checks if an error is an io error
func IsIOError(err error) bool {
	var e *IOError
	return errors.As(err, &e)
}
