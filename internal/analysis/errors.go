package analysis

import (
	"errors"
	"fmt"
)

// ErrorKind categorizes scanner failures.
type ErrorKind int

const (
	// KindIO covers unreadable files and missing directories.
	KindIO ErrorKind = iota
	// KindEncoding covers content that is not valid UTF-8.
	KindEncoding
	// KindSerialization covers structured-output encoding failures.
	KindSerialization
)

var (
	// ErrIO matches any KindIO ScanError via errors.Is.
	ErrIO = errors.New("io error")

	// ErrEncoding matches any KindEncoding ScanError via errors.Is.
	ErrEncoding = errors.New("encoding error")

	// ErrSerialization matches any KindSerialization ScanError via errors.Is.
	ErrSerialization = errors.New("serialization error")
)

func (k ErrorKind) String() string {
	switch k {
	case KindIO:
		return "io"
	case KindEncoding:
		return "encoding"
	case KindSerialization:
		return "serialization"
	default:
		return "unknown"
	}
}

func (k ErrorKind) sentinel() error {
	switch k {
	case KindIO:
		return ErrIO
	case KindEncoding:
		return ErrEncoding
	case KindSerialization:
		return ErrSerialization
	default:
		return nil
	}
}

// ScanError is the single failure a scanner call reports.
type ScanError struct {
	Kind ErrorKind
	Path string
	Err  error
}

func (e *ScanError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s error for %s: %v", e.Kind, e.Path, e.Err)
	}
	return fmt.Sprintf("%s error for %s", e.Kind, e.Path)
}

// Unwrap returns the underlying cause.
func (e *ScanError) Unwrap() error {
	return e.Err
}

// Is matches the kind sentinel (ErrIO, ErrEncoding, ErrSerialization).
func (e *ScanError) Is(target error) bool {
	return target != nil && target == e.Kind.sentinel()
}

func ioError(path string, err error) error {
	return &ScanError{Kind: KindIO, Path: path, Err: err}
}

func encodingError(path string) error {
	return &ScanError{Kind: KindEncoding, Path: path, Err: errors.New("content is not valid UTF-8")}
}

// SerializationError wraps an output encoding failure.
func SerializationError(what string, err error) error {
	return &ScanError{Kind: KindSerialization, Path: what, Err: err}
}

// KindOf returns the kind of a ScanError anywhere in err's chain.
func KindOf(err error) (ErrorKind, bool) {
	var se *ScanError
	if errors.As(err, &se) {
		return se.Kind, true
	}
	return 0, false
}
