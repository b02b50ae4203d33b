package instrument

import (
	"github.com/mguthriem/sxl4snap/internal/platform/config"
)

// Env holds the SXL_* process settings shared by the binaries
type Env struct {
	ConfigPath  string
	ArchiveRoot string
}

// EnvFrom reads SXL_INSTRUMENT_CONFIG and SXL_ARCHIVE_ROOT
func EnvFrom(root config.Conf) Env {
	c := root.Prefix("SXL_")
	return Env{
		ConfigPath:  c.MayString("INSTRUMENT_CONFIG", "SNAP.yaml"),
		ArchiveRoot: c.MayString("ARCHIVE_ROOT", "/SNS"),
	}
}

// Load reads and validates the instrument config named by the environment
func (e Env) Load() (Config, error) { return Load(e.ConfigPath) }
