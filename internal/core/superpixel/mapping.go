package superpixel

import (
	perr "github.com/mguthriem/sxl4snap/internal/platform/errors"
)

// Native panel dimensions
const (
	NativeX = 256
	NativeY = 256
	NNat    = NativeX * NativeY
)

// Factor is the aggregation factor along x and y
type Factor struct {
	X int `json:"xdim" yaml:"xdim" validate:"required,even,divides=256"`
	Y int `json:"ydim" yaml:"ydim" validate:"required,even,divides=256"`
}

// DefaultFactor is the 8x8 aggregation current lite files use
var DefaultFactor = Factor{X: 8, Y: 8}

// Mapping converts native ids to super ids for one factor
type Mapping struct {
	ny         int
	xdim, ydim int
	superNy    int
	superN     int
}

// NewMapping validates f against the native dimensions and returns a mapping
func NewMapping(f Factor) (Mapping, error) {
	if err := f.Validate(); err != nil {
		return Mapping{}, err
	}
	return Mapping{
		ny:      NativeY,
		xdim:    f.X,
		ydim:    f.Y,
		superNy: NativeY / f.Y,
		superN:  (NativeX / f.X) * (NativeY / f.Y),
	}, nil
}

// Validate checks that both factors are positive even divisors of the native dimensions
func (f Factor) Validate() error {
	check := func(name string, v, n int) error {
		if v <= 0 || v%2 != 0 || n%v != 0 {
			return perr.WithField(perr.InvalidArgf("%s=%d must be a positive even divisor of %d", name, v, n), name)
		}
		return nil
	}
	if err := check("xdim", f.X, NativeX); err != nil {
		return err
	}
	return check("ydim", f.Y, NativeY)
}

// SuperPixels returns the number of super pixels per panel
func (m Mapping) SuperPixels() int { return m.superN }

// ID maps one native id
func (m Mapping) ID(native uint32) uint32 {
	id := int64(native)
	block := id / NNat
	red := id % NNat
	i, j := red/int64(m.ny), red%int64(m.ny)
	si, sj := i/int64(m.xdim), j/int64(m.ydim)
	return uint32(si*int64(m.superNy) + sj + block*int64(m.superN))
}

// Remap rewrites ids in place
func (m Mapping) Remap(ids []uint32) {
	for k, id := range ids {
		ids[k] = m.ID(id)
	}
}
