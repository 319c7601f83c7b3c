// Package fserr defines the typed error vocabulary shared by the nar and
// swhid packages.
package fserr

import (
	"errors"
	"fmt"
)

// Kind classifies an Error.
type Kind int

const (
	// PathNotFound means the root path is absent and not a dangling symlink.
	PathNotFound Kind = iota
	// IoError means a read/write/stat/open/close/mkdir/symlink/chmod call failed,
	// or a file body changed size mid-read.
	IoError
	// FormatError means a NAR byte stream failed to parse.
	FormatError
	// InvalidArgument means an unsupported hash algorithm or filesystem object
	// was requested.
	InvalidArgument
)

func (k Kind) String() string {
	switch k {
	case PathNotFound:
		return "path not found"
	case IoError:
		return "io error"
	case FormatError:
		return "format error"
	case InvalidArgument:
		return "invalid argument"
	default:
		return "unknown error"
	}
}

// Error is the concrete error type returned by nar and swhid operations.
// It wraps an underlying cause (if any) and carries a Kind for errors.Is
// and errors.As based dispatch.
type Error struct {
	Kind Kind
	Op   string
	Path string
	Err  error
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Op, e.Kind)
	if e.Path != "" {
		msg = fmt.Sprintf("%s %s: %s", e.Op, e.Path, e.Kind)
	}
	if e.Err != nil {
		return msg + ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is supports errors.Is(err, fserr.PathNotFound) style comparisons against
// the exported sentinels below by comparing Kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

// Sentinels usable with errors.Is to test the Kind of a returned *Error
// without inspecting the struct directly.
var (
	ErrPathNotFound    = &Error{Kind: PathNotFound}
	ErrIoError         = &Error{Kind: IoError}
	ErrFormatError     = &Error{Kind: FormatError}
	ErrInvalidArgument = &Error{Kind: InvalidArgument}
)

// New builds an Error of the given kind for op/path, wrapping cause.
func New(kind Kind, op, path string, cause error) *Error {
	return &Error{Kind: kind, Op: op, Path: path, Err: cause}
}

// Wrap inspects cause and promotes it to an *Error of the given kind if it
// is not already one, preserving an existing *Error's Kind otherwise.
func Wrap(kind Kind, op, path string, cause error) error {
	if cause == nil {
		return nil
	}
	var existing *Error
	if errors.As(cause, &existing) {
		return existing
	}
	return New(kind, op, path, cause)
}
