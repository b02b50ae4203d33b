package nexus

import (
	"errors"

	perr "github.com/mguthriem/sxl4snap/internal/platform/errors"
)

// Mode selects how a container is opened
type Mode int

const (
	// ReadOnly opens an existing file without write access
	ReadOnly Mode = iota
	// ReadWrite opens an existing file for in-place edits
	ReadWrite
)

func (m Mode) String() string {
	if m == ReadWrite {
		return "rw"
	}
	return "ro"
}

// ErrNotFound is returned (wrapped) when a dataset path does not exist
var ErrNotFound = errors.New("nexus: path not found")

// Opener opens a container file
type Opener interface {
	Open(path string, mode Mode) (Container, error)
}

// OpenerFunc adapts a function to Opener
type OpenerFunc func(path string, mode Mode) (Container, error)

// Open implements Opener
func (f OpenerFunc) Open(path string, mode Mode) (Container, error) { return f(path, mode) }

// Container is an open hierarchical key/array store
type Container interface {
	// ReadFloat64s reads a numeric dataset converted to float64
	ReadFloat64s(path string) ([]float64, error)
	// ReadUint32s reads an integer dataset converted to uint32
	ReadUint32s(path string) ([]uint32, error)
	// WriteUint32s overwrites a dataset of exactly len(v) elements
	WriteUint32s(path string, v []uint32) error
	// ReadString reads the first element of a string dataset
	ReadString(path string) (string, error)
	// WriteString overwrites the first element of a string dataset
	WriteString(path string, s string) error
	Close() error
}

// NotFound wraps ErrNotFound with the missing path
func NotFound(path string) error {
	return perr.Wrapf(ErrNotFound, perr.ErrorCodeNotFound, "nexus path %q", path)
}

// IsNotFound reports whether err marks an absent dataset
func IsNotFound(err error) bool { return errors.Is(err, ErrNotFound) }

// LengthMismatch is returned when a write would resize a dataset
func LengthMismatch(path string, have, want int) error {
	return perr.Newf(perr.ErrorCodeInvalidArgument, "nexus path %q holds %d elements, got %d", path, have, want)
}
