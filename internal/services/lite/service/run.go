package service

import (
	"context"

	"github.com/mguthriem/sxl4snap/internal/instrument"
	perr "github.com/mguthriem/sxl4snap/internal/platform/errors"
	"github.com/mguthriem/sxl4snap/internal/platform/logger"
	"github.com/mguthriem/sxl4snap/internal/services/lite/domain"
)

// RunBuilder implements domain.RunBuilderPort on top of a BuilderPort
type RunBuilder struct {
	inst    instrument.Config
	locator domain.Locator
	builder domain.BuilderPort
}

// NewRunBuilder resolves run numbers to source and lite paths for inst
func NewRunBuilder(inst instrument.Config, loc domain.Locator, b domain.BuilderPort) *RunBuilder {
	return &RunBuilder{inst: inst, locator: loc, builder: b}
}

// Paths returns the raw and lite file names of run
func (r *RunBuilder) Paths(ctx context.Context, run int) (src, dst string, err error) {
	if r.locator == nil {
		return "", "", perr.Unavailablef("lite: no run locator configured")
	}
	ipts, err := r.locator.Locate(ctx, run, r.inst.Name)
	if err != nil {
		if ctx.Err() != nil {
			return "", "", ctx.Err()
		}
		return "", "", perr.Wrapf(err, perr.ErrorCodeRunLocatorFailed, "locate run %d on %s", run, r.inst.Name)
	}
	return r.inst.NexusPath(ipts, run), r.inst.LitePath(ipts, run), nil
}

// BuildRun builds <ipts>/<lite dir>/<INST>_<run>.lite<ext> from the run's raw file
func (r *RunBuilder) BuildRun(ctx context.Context, run int) (domain.Result, error) {
	ctx = logger.WithRun(ctx, run)
	src, dst, err := r.Paths(ctx, run)
	if err != nil {
		return domain.Result{}, err
	}
	return r.builder.Build(ctx, src, dst)
}
