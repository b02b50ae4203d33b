// Package state derives the instrument state fingerprint from run log readings.
//
// The fingerprint is SHAKE256 over a frozen textual form of the quantized
// readings, truncated to 8 bytes. The textual form must never change: every
// fingerprint already recorded for past runs depends on it.
package state

import (
	"encoding/hex"
	"math"

	perr "github.com/mguthriem/sxl4snap/internal/platform/errors"

	"golang.org/x/crypto/sha3"
)

// Snapshot holds the five raw readings taken from one run
type Snapshot struct {
	Arc1        float64 `json:"det_arc1"`
	Arc2        float64 `json:"det_arc2"`
	Wavelength  float64 `json:"wav"`
	Frequency   float64 `json:"freq"`
	GuideStatus float64 `json:"GuideStat"`
}

// Record is the quantized, canonical form of a Snapshot
type Record struct {
	Arc1        float64 `json:"arc1"`
	Arc2        float64 `json:"arc2"`
	Wavelength  float64 `json:"wavelength"`
	Frequency   int64   `json:"frequency"`
	GuideStatus int64   `json:"guideStatus"`
}

// Fingerprint is the 16 character lowercase hex state digest
type Fingerprint string

// Sentinel marks "no valid state" on failure paths
const Sentinel Fingerprint = "0000000000000000"

// DigestSize is the number of SHAKE256 output bytes kept
const DigestSize = 8

// State pairs a canonical record with its fingerprint
type State struct {
	Record      Record      `json:"record"`
	Fingerprint Fingerprint `json:"fingerprint"`
}

// Quantize applies the fixed rounding rules.
// Ties go to even on the binary value, the same as numpy's rint
func Quantize(s Snapshot) Record {
	return Record{
		Arc1:        halfStep(s.Arc1),
		Arc2:        halfStep(s.Arc2),
		Wavelength:  math.RoundToEven(s.Wavelength*10) / 10,
		Frequency:   toInt(math.RoundToEven(s.Frequency)),
		GuideStatus: toInt(math.Trunc(s.GuideStatus)),
	}
}

// halfStep rounds to the nearest multiple of 0.5; integer rounding yields an unsigned zero
func halfStep(v float64) float64 {
	n := math.RoundToEven(v * 2)
	if n == 0 {
		n = 0
	}
	return n / 2
}

// toInt converts an already integral float; NaN and infinities become 0
func toInt(v float64) int64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return int64(v)
}

// Canonical returns the frozen byte form hashed into the fingerprint
func (r Record) Canonical() []byte {
	b := make([]byte, 0, 112)
	b = append(b, `{"vdet_arc1": `...)
	b = appendPyFloat(b, r.Arc1)
	b = append(b, `, "vdet_arc2": `...)
	b = appendPyFloat(b, r.Arc2)
	b = append(b, `, "WavelengthUserReq": `...)
	b = appendPyFloat(b, r.Wavelength)
	b = append(b, `, "Frequency": `...)
	b = appendInt(b, r.Frequency)
	b = append(b, `, "Pos": `...)
	b = appendInt(b, r.GuideStatus)
	return append(b, '}')
}

// Fingerprint hashes the canonical form
func (r Record) Fingerprint() Fingerprint {
	var sum [DigestSize]byte
	sha3.ShakeSum256(sum[:], r.Canonical())
	return Fingerprint(hex.EncodeToString(sum[:]))
}

// Generate quantizes s and fingerprints the result
func Generate(s Snapshot) State {
	r := Quantize(s)
	return State{Record: r, Fingerprint: r.Fingerprint()}
}

// String implements fmt.Stringer
func (f Fingerprint) String() string { return string(f) }

// IsSentinel reports whether f is the failure placeholder
func (f Fingerprint) IsSentinel() bool { return f == Sentinel }

// ParseFingerprint validates the textual form
func ParseFingerprint(s string) (Fingerprint, error) {
	if len(s) != 2*DigestSize {
		return "", perr.InvalidArgf("fingerprint must be %d hex characters, got %d", 2*DigestSize, len(s))
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			return "", perr.InvalidArgf("fingerprint %q is not lowercase hex", s)
		}
	}
	return Fingerprint(s), nil
}
