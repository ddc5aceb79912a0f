package bundlebase

import (
	"fmt"

	"github.com/pkg/errors"
)

// Lookup failures.  Callers compare with errors.Is.
var (
	ErrNotFound          = errors.New("file not found")
	ErrDirectoryNotFound = errors.New("directory not found")
	ErrNotAFolder        = errors.New("not a folder")
	ErrTypeMismatch      = errors.New("type mismatch")
)

// EncodeError is returned when a value cannot be turned into the
// bytes of the blob called Name.
type EncodeError struct {
	Name  string
	Cause error
}

func (e *EncodeError) Error() string {
	return fmt.Sprintf("unable to encode %s: %v", e.Name, e.Cause)
}

func (e *EncodeError) Unwrap() error { return e.Cause }

// DecodeError is returned when the bytes stored under Name cannot be
// turned into the requested value, or when a bundle cannot be opened.
type DecodeError struct {
	Name  string
	Cause error
}

func (e *DecodeError) Error() string {
	if e.Cause == nil {
		return fmt.Sprintf("unable to decode %s", e.Name)
	}
	return fmt.Sprintf("unable to decode %s: %v", e.Name, e.Cause)
}

func (e *DecodeError) Unwrap() error { return e.Cause }

// WriteError is returned when a bundle or file cannot be written to
// Path.
type WriteError struct {
	Path  string
	Cause error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("unable to write %s: %v", e.Path, e.Cause)
}

func (e *WriteError) Unwrap() error { return e.Cause }

// PersistError is returned when a key-value store refuses a write.
type PersistError struct {
	Key   string
	Cause error
}

func (e *PersistError) Error() string {
	return fmt.Sprintf("unable to persist %s: %v", e.Key, e.Cause)
}

func (e *PersistError) Unwrap() error { return e.Cause }
