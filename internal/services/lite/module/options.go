package module

import (
	"github.com/mguthriem/sxl4snap/internal/core/superpixel"
	"github.com/mguthriem/sxl4snap/internal/instrument"
	"github.com/mguthriem/sxl4snap/internal/platform/config"
	"github.com/mguthriem/sxl4snap/internal/platform/validate"
)

// Options holds configuration settings for the lite module
type Options struct {
	Instrument instrument.Config `json:"-" validate:"-"`
	Factor     superpixel.Factor `json:"factor"`
	Workers    int               `json:"workers" validate:"min=1,max=18"`
}

// FromConfig extracts Options from the given config.Conf
func FromConfig(cfg config.Conf) Options {
	lc := cfg.Prefix("CORE_LITE_")
	return Options{
		Factor: superpixel.Factor{
			X: lc.MayInt("XDIM", superpixel.DefaultFactor.X),
			Y: lc.MayInt("YDIM", superpixel.DefaultFactor.Y),
		},
		Workers: lc.MayInt("WORKERS", 1),
	}
}

// Validate checks the factor tags and the worker bound
func (o Options) Validate() error { return validate.Struct(o) }
