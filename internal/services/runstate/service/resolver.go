package service

import (
	"context"
	"errors"
	"os"

	"github.com/mguthriem/sxl4snap/internal/adapters/nexus"
	"github.com/mguthriem/sxl4snap/internal/core/state"
	"github.com/mguthriem/sxl4snap/internal/instrument"
	perr "github.com/mguthriem/sxl4snap/internal/platform/errors"
	"github.com/mguthriem/sxl4snap/internal/platform/logger"
	"github.com/mguthriem/sxl4snap/internal/platform/metrics"
	"github.com/mguthriem/sxl4snap/internal/services/runstate/domain"
)

// Resolver implements domain.ResolverPort
type Resolver struct {
	inst    instrument.Config
	locator domain.Locator
	opener  nexus.Opener
	log     *logger.Logger
}

// NewResolver builds a resolver for one instrument
func NewResolver(inst instrument.Config, loc domain.Locator, op nexus.Opener) *Resolver {
	if loc == nil || op == nil {
		panic("runstate resolver: Locator and Opener are required")
	}
	return &Resolver{inst: inst, locator: loc, opener: op, log: logger.Named("runstate")}
}

// Resolve returns the fingerprint and raw readings of run.
// Every failure returns state.Sentinel and a zero snapshot
func (r *Resolver) Resolve(ctx context.Context, run int) (state.Fingerprint, state.Snapshot, error) {
	res, err := r.ResolveRun(ctx, run)
	return res.Fingerprint, res.Snapshot, err
}

// ResolveRun is Resolve with the located path and quantized record attached
func (r *Resolver) ResolveRun(ctx context.Context, run int) (res domain.Resolution, err error) {
	ctx = logger.WithRun(ctx, run)
	res = domain.Resolution{Run: run, Instrument: r.inst.Name}

	defer func() {
		outcome := "ok"
		if err != nil {
			outcome = perr.CodeOf(err).String()
			res.Snapshot, res.Record = state.Snapshot{}, state.Record{}
			res.Fingerprint = state.Sentinel
			logger.C(ctx, r.log).Debug().Err(err).Str("outcome", outcome).Msg("state unresolved")
		}
		metrics.StateResolutions.WithLabelValues(outcome).Inc()
	}()

	if err := ctx.Err(); err != nil {
		return res, err
	}

	ipts, err := r.locator.Locate(ctx, run, r.inst.Name)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return res, err
		}
		return res, &domain.RunLocatorFailed{Run: run, Instrument: r.inst.Name, Err: err}
	}

	path := r.inst.NexusPath(ipts, run)
	res.Path = path
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return res, &domain.DataFileNotFound{Path: path}
		}
		return res, perr.IOf(err, "stat %s", path)
	}

	c, err := r.opener.Open(path, nexus.ReadOnly)
	if err != nil {
		return res, err
	}
	defer func() {
		if cerr := c.Close(); cerr != nil {
			logger.C(ctx, r.log).Debug().Err(cerr).Str("path", path).Msg("close data file")
		}
	}()

	snap, err := ReadSnapshot(c)
	if err != nil {
		return res, err
	}
	st := state.Generate(snap)
	res.Snapshot, res.Record, res.Fingerprint = snap, st.Record, st.Fingerprint

	logger.C(ctx, r.log).Debug().
		Str("path", path).
		Str("fingerprint", st.Fingerprint.String()).
		Msg("state resolved")
	return res, nil
}
