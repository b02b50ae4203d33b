package service

import (
	"context"

	"github.com/mguthriem/sxl4snap/internal/core/state"
	"github.com/mguthriem/sxl4snap/internal/modkit/repokit"
	perr "github.com/mguthriem/sxl4snap/internal/platform/errors"
	"github.com/mguthriem/sxl4snap/internal/services/runstate/domain"
)

// DefaultListLimit caps RunsForState when the caller passes no limit
const DefaultListLimit = 500

// Registry validates registry calls and runs each one in its own transaction;
// a nil DB means the registry is disabled
type Registry struct {
	DB         repokit.TxRunner
	Binder     repokit.Binder[domain.RegistryPort]
	instrument string
	limit      int
}

// NewRegistry builds a registry service for one instrument
func NewRegistry(db repokit.TxRunner, b repokit.Binder[domain.RegistryPort], instrument string, limit int) *Registry {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	if db != nil && b == nil {
		panic("runstate registry: nil Binder")
	}
	return &Registry{DB: db, Binder: b, instrument: instrument, limit: limit}
}

// Enabled reports whether a store is configured
func (s *Registry) Enabled() bool { return s != nil && s.DB != nil }

func (s *Registry) guard() error {
	if !s.Enabled() {
		return perr.Unavailablef("state registry is not configured")
	}
	return nil
}

// Record stores a successful resolution; sentinel fingerprints are refused
func (s *Registry) Record(ctx context.Context, res domain.Resolution) error {
	if err := s.guard(); err != nil {
		return err
	}
	if res.Fingerprint.IsSentinel() || res.Fingerprint == "" {
		return perr.WithField(perr.InvalidArgf("run %d has no valid state to record", res.Run), "fingerprint")
	}
	rs := domain.RunState{
		Instrument:  s.instrument,
		Run:         res.Run,
		Fingerprint: res.Fingerprint,
		Snapshot:    res.Snapshot,
	}
	return repokit.WithTx(ctx, s.DB, s.Binder, func(r domain.RegistryPort) error {
		return r.Record(ctx, rs)
	})
}

// Lookup returns the recorded state of run
func (s *Registry) Lookup(ctx context.Context, run int) (domain.RunState, error) {
	if err := s.guard(); err != nil {
		return domain.RunState{}, err
	}
	var out domain.RunState
	err := repokit.WithTx(ctx, s.DB, s.Binder, func(r domain.RegistryPort) error {
		var err error
		out, err = r.Lookup(ctx, s.instrument, run)
		return err
	})
	return out, err
}

// RunsForState lists recorded runs sharing the fingerprint fp, lowest run first
func (s *Registry) RunsForState(ctx context.Context, fp string, limit int) ([]domain.RunState, error) {
	if err := s.guard(); err != nil {
		return nil, err
	}
	f, err := state.ParseFingerprint(fp)
	if err != nil {
		return nil, err
	}
	if limit <= 0 || limit > s.limit {
		limit = s.limit
	}
	var out []domain.RunState
	err = repokit.WithTx(ctx, s.DB, s.Binder, func(r domain.RegistryPort) error {
		var err error
		out, err = r.RunsForState(ctx, s.instrument, f, limit)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
