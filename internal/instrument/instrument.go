// Package instrument loads the instrument parameter file and derives the run file names it implies
package instrument

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	perr "github.com/mguthriem/sxl4snap/internal/platform/errors"
	"github.com/mguthriem/sxl4snap/internal/platform/validate"

	"gopkg.in/yaml.v3"
)

// Defaults applied when the parameter file leaves the legacy naming fields empty
const (
	DefaultLegacyNexusDirectory = "data"
	DefaultLegacyNexusSuffix    = "_event.nxs"
	DefaultLiteDirectory        = "shared/lite"
)

// Version is the parameter file revision; files carry it as a number or a string
type Version string

// UnmarshalJSON accepts 1.4 and "1.4" alike
func (v *Version) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*v = Version(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*v = Version(n.String())
	return nil
}

// UnmarshalYAML keeps the scalar text as written
func (v *Version) UnmarshalYAML(n *yaml.Node) error {
	if n.Kind != yaml.ScalarNode {
		return perr.InvalidArgf("version must be a scalar, got yaml kind %d", n.Kind)
	}
	*v = Version(n.Value)
	return nil
}

// Config is the instrument parameter record
type Config struct {
	Version                  Version `json:"version" yaml:"version" validate:"required"`
	Facility                 string  `json:"facility" yaml:"facility" validate:"required"`
	Name                     string  `json:"name" yaml:"name" validate:"required,alphanum"`
	NexusFileExtension       string  `json:"nexusFileExtension" yaml:"nexusFileExtension" validate:"required,startswith=."`
	CalibrationDirectory     string  `json:"calibrationDirectory" yaml:"calibrationDirectory" validate:"dirpath"`
	CalibrationFilePrefix    string  `json:"calibrationFilePrefix" yaml:"calibrationFilePrefix"`
	PixelGroupingDirectory   string  `json:"pixelGroupingDirectory" yaml:"pixelGroupingDirectory" validate:"dirpath"`
	SimpleContainerDirectory string  `json:"simpleContainerDirectory" yaml:"simpleContainerDirectory"`
	SharedDirectory          string  `json:"sharedDirectory" yaml:"sharedDirectory"`
	NexusDirectory           string  `json:"nexusDirectory" yaml:"nexusDirectory" validate:"required"`
	NeutronBandwidth         float64 `json:"neutronBandwidth" yaml:"neutronBandwidth" validate:"gt=0"`
	ExtendedNeutronBandwidth float64 `json:"extendedNeutronBandwidth" yaml:"extendedNeutronBandwidth" validate:"gtefield=NeutronBandwidth"`
	L1                       float64 `json:"L1" yaml:"L1" validate:"gt=0"`
	L2                       float64 `json:"L2" yaml:"L2" validate:"gt=0"`

	// runs at or below LegacyRunCutoff use the old data/<INST>_<run>_event.nxs naming; 0 disables it
	LegacyRunCutoff      int    `json:"legacyRunCutoff,omitempty" yaml:"legacyRunCutoff,omitempty" validate:"gte=0"`
	LegacyNexusDirectory string `json:"legacyNexusDirectory,omitempty" yaml:"legacyNexusDirectory,omitempty"`
	LegacyNexusSuffix    string `json:"legacyNexusSuffix,omitempty" yaml:"legacyNexusSuffix,omitempty"`
	LiteDirectory        string `json:"liteDirectory,omitempty" yaml:"liteDirectory,omitempty"`
}

// Load reads a .json, .yaml or .yml parameter file, fills defaults and validates it
func Load(path string) (Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Config{}, perr.Wrapf(err, perr.ErrorCodeNotFound, "instrument config %s", path)
		}
		return Config{}, perr.IOf(err, "read instrument config %s", path)
	}
	return Parse(b, filepath.Ext(path))
}

// Parse decodes raw bytes in the format named by ext
func Parse(b []byte, ext string) (Config, error) {
	var c Config
	switch strings.ToLower(ext) {
	case ".json":
		if err := json.Unmarshal(b, &c); err != nil {
			return Config{}, perr.Wrapf(err, perr.ErrorCodeValidation, "decode instrument config")
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, &c); err != nil {
			return Config{}, perr.Wrapf(err, perr.ErrorCodeValidation, "decode instrument config")
		}
	default:
		return Config{}, perr.InvalidArgf("instrument config must be .json, .yaml or .yml, got %q", ext)
	}
	c.applyDefaults()
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

func (c *Config) applyDefaults() {
	if c.LegacyNexusDirectory == "" {
		c.LegacyNexusDirectory = DefaultLegacyNexusDirectory
	}
	if c.LegacyNexusSuffix == "" {
		c.LegacyNexusSuffix = DefaultLegacyNexusSuffix
	}
	if c.LiteDirectory == "" {
		c.LiteDirectory = DefaultLiteDirectory
	}
}

// Validate checks required fields and ranges
func (c Config) Validate() error {
	return perr.WithOp(validate.Struct(c), "instrument.Validate")
}

// NexusPath returns the raw event file of run inside the IPTS directory ipts
func (c Config) NexusPath(ipts string, run int) string {
	if c.LegacyRunCutoff > 0 && run <= c.LegacyRunCutoff {
		return join(ipts, c.LegacyNexusDirectory, c.Name+"_"+strconv.Itoa(run)+c.LegacyNexusSuffix)
	}
	return join(ipts, c.NexusDirectory, c.Name+"_"+strconv.Itoa(run)+c.NexusFileExtension)
}

// Candidates lists the raw file of run relative to an IPTS directory, using the
// same naming as NexusPath; it plugs into runlocator.WithCandidates
func (c Config) Candidates(_ string, run int) []string {
	return []string{c.NexusPath("", run)}
}

// LitePath returns where the lite copy of run lives inside ipts
func (c Config) LitePath(ipts string, run int) string {
	return join(ipts, c.LiteDirectory, c.Name+"_"+strconv.Itoa(run)+".lite"+c.NexusFileExtension)
}

// WavelengthBand is the incident band centred on wav, neutronBandwidth wide
func (c Config) WavelengthBand(wav float64) (lo, hi float64) {
	return wav - c.NeutronBandwidth/2, wav + c.NeutronBandwidth/2
}

// join concatenates ipts, a relative directory and a file name
func join(ipts, dir, name string) string {
	if ipts != "" && !strings.HasSuffix(ipts, "/") {
		ipts += "/"
	}
	if dir = strings.Trim(dir, "/"); dir == "" {
		return ipts + name
	}
	return ipts + dir + "/" + name
}
