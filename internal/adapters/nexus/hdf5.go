package nexus

import (
	"errors"
	"strings"
	"sync"

	perr "github.com/mguthriem/sxl4snap/internal/platform/errors"

	"gonum.org/v1/hdf5"
)

// h5mu guards the HDF5 library, which is not built thread safe on the
// analysis hosts
var h5mu sync.Mutex

// HDF5Opener opens NeXus files through libhdf5
type HDF5Opener struct{}

// Open implements Opener
func (HDF5Opener) Open(path string, mode Mode) (Container, error) {
	h5mu.Lock()
	defer h5mu.Unlock()

	flags := hdf5.F_ACC_RDONLY
	if mode == ReadWrite {
		flags = hdf5.F_ACC_RDWR
	}
	f, err := hdf5.OpenFile(path, flags)
	if err != nil {
		return nil, perr.IOf(err, "open %s (%s)", path, mode)
	}
	return &h5Container{f: f, path: path}, nil
}

type h5Container struct {
	f    *hdf5.File
	path string
}

// exists checks every prefix since H5Lexists fails on a missing parent
func (c *h5Container) exists(p string) bool {
	parts := strings.Split(strings.Trim(p, "/"), "/")
	for i := range parts {
		if !c.f.LinkExists(strings.Join(parts[:i+1], "/")) {
			return false
		}
	}
	return true
}

func (c *h5Container) dataset(p string, fn func(ds *hdf5.Dataset, n int) error) error {
	h5mu.Lock()
	defer h5mu.Unlock()

	if c.f == nil {
		return perr.Newf(perr.ErrorCodeIO, "nexus: %s is closed", c.path)
	}
	if !c.exists(p) {
		return NotFound(p)
	}
	ds, err := c.f.OpenDataset(p)
	if err != nil {
		return perr.IOf(err, "open dataset %s", p)
	}
	defer func() { _ = ds.Close() }()

	sp := ds.Space()
	n := sp.SimpleExtentNPoints()
	_ = sp.Close()
	return fn(ds, n)
}

// numErr keeps a type mismatch apart from I/O failures
func numErr(err error, op, p string) error {
	if errors.Is(err, errNotNumeric) {
		return perr.Wrapf(err, perr.ErrorCodeInvalidArgument, "%s %s", op, p)
	}
	return perr.IOf(err, "%s %s", op, p)
}

func (c *h5Container) ReadFloat64s(p string) ([]float64, error) {
	var out []float64
	err := c.dataset(p, func(ds *hdf5.Dataset, n int) error {
		out = make([]float64, n)
		if err := readFloat64s(ds.ID(), out); err != nil {
			return numErr(err, "read", p)
		}
		return nil
	})
	return out, err
}

func (c *h5Container) ReadUint32s(p string) ([]uint32, error) {
	var out []uint32
	err := c.dataset(p, func(ds *hdf5.Dataset, n int) error {
		out = make([]uint32, n)
		if err := readUint32s(ds.ID(), out); err != nil {
			return numErr(err, "read", p)
		}
		return nil
	})
	return out, err
}

func (c *h5Container) WriteUint32s(p string, v []uint32) error {
	return c.dataset(p, func(ds *hdf5.Dataset, n int) error {
		if n != len(v) {
			return LengthMismatch(p, n, len(v))
		}
		if err := writeUint32s(ds.ID(), v); err != nil {
			return numErr(err, "write", p)
		}
		return nil
	})
}

func (c *h5Container) ReadString(p string) (string, error) {
	var out string
	err := c.dataset(p, func(ds *hdf5.Dataset, n int) error {
		s, err := readFirstString(ds.ID(), n)
		if err != nil {
			return perr.IOf(err, "read %s", p)
		}
		out = s
		return nil
	})
	return out, err
}

func (c *h5Container) WriteString(p string, s string) error {
	return c.dataset(p, func(ds *hdf5.Dataset, n int) error {
		if err := writeFirstString(ds.ID(), n, s); err != nil {
			return perr.IOf(err, "write %s", p)
		}
		return nil
	})
}

func (c *h5Container) Close() error {
	h5mu.Lock()
	defer h5mu.Unlock()

	if c.f == nil {
		return nil
	}
	err := c.f.Close()
	c.f = nil
	if err != nil {
		return perr.IOf(err, "close %s", c.path)
	}
	return nil
}
