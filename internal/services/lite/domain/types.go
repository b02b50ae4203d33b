// Package domain defines the types and ports of the lite file service
package domain

import (
	"context"
	"time"

	"github.com/mguthriem/sxl4snap/internal/adapters/nexus"
)

// Status is the outcome of a build request
type Status string

// Build outcomes; an existing destination is skipped, not an error
const (
	StatusBuilt   Status = "built"
	StatusSkipped Status = "skipped"
	// StatusFailed only labels metrics, a failed build returns its error
	StatusFailed Status = "failed"
)

// Result describes one build request
type Result struct {
	Status   Status        `json:"status"`
	Path     string        `json:"path"`
	BuildID  string        `json:"build_id,omitempty"`
	Bytes    int64         `json:"bytes,omitempty"`
	Panels   int           `json:"panels,omitempty"`
	Events   int64         `json:"events,omitempty"`
	Duration time.Duration `json:"duration,omitempty"`
}

// BuilderPort produces a lite copy of src at dst
type BuilderPort interface {
	Build(ctx context.Context, src, dst string) (Result, error)
}

// RunBuilderPort builds the lite copy of a run using the archive naming conventions
type RunBuilderPort interface {
	BuildRun(ctx context.Context, run int) (Result, error)
}

// Locator maps a run to its IPTS directory
type Locator interface {
	Locate(ctx context.Context, run int, instrument string) (string, error)
}

// Ports are the collaborators injected into the lite module; Locator is only needed for BuildRun
type Ports struct {
	Locator Locator
	Opener  nexus.Opener
}
