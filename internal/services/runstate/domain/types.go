// Package domain defines the types, failure variants and ports of the runstate service
package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/mguthriem/sxl4snap/internal/core/state"
	perr "github.com/mguthriem/sxl4snap/internal/platform/errors"
)

// RunLocatorFailed means the run could not be mapped to an IPTS directory
type RunLocatorFailed struct {
	Run        int
	Instrument string
	Err        error
}

func (e *RunLocatorFailed) Error() string {
	return fmt.Sprintf("locate run %d on %s: %v", e.Run, e.Instrument, e.Err)
}

// Unwrap exposes the locator error
func (e *RunLocatorFailed) Unwrap() error { return e.Err }

// ErrorCode implements perr.Coder
func (e *RunLocatorFailed) ErrorCode() perr.ErrorCode { return perr.ErrorCodeRunLocatorFailed }

// DataFileNotFound means the expected raw data file is absent
type DataFileNotFound struct {
	Path string
}

func (e *DataFileNotFound) Error() string { return "data file not found: " + e.Path }

// ErrorCode implements perr.Coder
func (e *DataFileNotFound) ErrorCode() perr.ErrorCode { return perr.ErrorCodeDataFileNotFound }

// MissingLogData lists every log field that was absent, empty or unreadable
type MissingLogData struct {
	Fields []string
}

func (e *MissingLogData) Error() string {
	return "insufficient log data, missing: " + strings.Join(e.Fields, ", ")
}

// ErrorCode implements perr.Coder
func (e *MissingLogData) ErrorCode() perr.ErrorCode { return perr.ErrorCodeMissingLogData }

// Resolution is the outcome of resolving one run
type Resolution struct {
	Run         int               `json:"run"`
	Instrument  string            `json:"instrument"`
	Path        string            `json:"path,omitempty"`
	Fingerprint state.Fingerprint `json:"fingerprint"`
	Snapshot    state.Snapshot    `json:"snapshot"`
	Record      state.Record      `json:"record"`
}

// RunState is one registry row
type RunState struct {
	Instrument  string            `json:"instrument"`
	Run         int               `json:"run"`
	Fingerprint state.Fingerprint `json:"fingerprint"`
	Snapshot    state.Snapshot    `json:"snapshot"`
	RecordedAt  time.Time         `json:"recorded_at"`
}
