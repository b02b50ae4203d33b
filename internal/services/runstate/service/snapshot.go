// Package service resolves run state fingerprints and keeps the run state registry
package service

import (
	"github.com/mguthriem/sxl4snap/internal/adapters/nexus"
	"github.com/mguthriem/sxl4snap/internal/core/state"
	"github.com/mguthriem/sxl4snap/internal/services/runstate/domain"
)

// LogField names one log reading and where it lives in the container
type LogField struct {
	Name string
	Path string
}

// LogFields is the fixed read order; failures are reported in this order
var LogFields = []LogField{
	{"det_arc1", "entry/DASlogs/det_arc1/value"},
	{"det_arc2", "entry/DASlogs/det_arc2/value"},
	{"wav", "entry/DASlogs/BL3:Chop:Skf1:WavelengthUserReq/value"},
	{"freq", "entry/DASlogs/BL3:Det:TH:BL:Frequency/value"},
	{"GuideStat", "entry/DASlogs/BL3:Mot:OpticsPos:Pos/value"},
}

// ReadSnapshot takes the first sample of every log field.
// All fields are attempted before failing with *domain.MissingLogData
func ReadSnapshot(c nexus.Container) (state.Snapshot, error) {
	var vals [5]float64
	var missing []string
	for i, f := range LogFields {
		v, err := c.ReadFloat64s(f.Path)
		if err != nil || len(v) == 0 {
			missing = append(missing, f.Name)
			continue
		}
		vals[i] = v[0]
	}
	if len(missing) > 0 {
		return state.Snapshot{}, &domain.MissingLogData{Fields: missing}
	}
	return state.Snapshot{
		Arc1:        vals[0],
		Arc2:        vals[1],
		Wavelength:  vals[2],
		Frequency:   vals[3],
		GuideStatus: vals[4],
	}, nil
}
