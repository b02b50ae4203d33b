package domain

import (
	"context"

	"github.com/mguthriem/sxl4snap/internal/adapters/nexus"
	"github.com/mguthriem/sxl4snap/internal/core/state"
)

// Locator maps a run to its IPTS directory
type Locator interface {
	Locate(ctx context.Context, run int, instrument string) (string, error)
}

// ResolverPort derives the state fingerprint of a run
type ResolverPort interface {
	Resolve(ctx context.Context, run int) (state.Fingerprint, state.Snapshot, error)
	ResolveRun(ctx context.Context, run int) (Resolution, error)
}

// RegistryPort stores and queries resolved run states
type RegistryPort interface {
	Record(ctx context.Context, rs RunState) error
	Lookup(ctx context.Context, instrument string, run int) (RunState, error)
	RunsForState(ctx context.Context, instrument string, fp state.Fingerprint, limit int) ([]RunState, error)
}

// Ports are the collaborators injected into the runstate module
type Ports struct {
	Locator Locator
	Opener  nexus.Opener
}
