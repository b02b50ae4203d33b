// Package repo provides the run state registry on Postgres
package repo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/mguthriem/sxl4snap/internal/core/state"
	"github.com/mguthriem/sxl4snap/internal/modkit/repokit"
	perr "github.com/mguthriem/sxl4snap/internal/platform/errors"
	"github.com/mguthriem/sxl4snap/internal/platform/store"
	"github.com/mguthriem/sxl4snap/internal/services/runstate/domain"
)

// Schema is applied by EnsureSchema; every statement is idempotent
const Schema = `
CREATE TABLE IF NOT EXISTS run_states (
	instrument   text             NOT NULL,
	run          integer          NOT NULL CHECK (run > 0),
	fingerprint  char(16)         NOT NULL,
	det_arc1     double precision NOT NULL,
	det_arc2     double precision NOT NULL,
	wavelength   double precision NOT NULL,
	frequency    double precision NOT NULL,
	guide_status double precision NOT NULL,
	recorded_at  timestamptz      NOT NULL DEFAULT now(),
	PRIMARY KEY (instrument, run)
);
CREATE INDEX IF NOT EXISTS run_states_fingerprint_idx ON run_states (instrument, fingerprint, run);
`

const cols = `instrument, run, fingerprint, det_arc1, det_arc2, wavelength, frequency, guide_status, recorded_at`

type (
	pg     struct{ q repokit.Queryer }
	binder struct{}
)

// NewPG constructs the registry binder for Postgres
func NewPG() repokit.Binder[domain.RegistryPort] { return binder{} }

// Bind implements repokit.Binder
func (binder) Bind(q repokit.Queryer) domain.RegistryPort { return &pg{q: q} }

// EnsureSchema creates the table and index when missing
func EnsureSchema(ctx context.Context, q repokit.Queryer) error {
	_, err := q.Exec(ctx, Schema)
	return perr.FromPostgres(err, "ensure run_states schema")
}

// StatementTimeout bounds every statement of a registry transaction; d <= 0 disables it
func StatementTimeout(d time.Duration) repokit.BeginHook {
	return func(ctx context.Context, q repokit.Queryer) error {
		if d <= 0 {
			return nil
		}
		_, err := q.Exec(ctx, fmt.Sprintf("SET LOCAL statement_timeout = %d", d.Milliseconds()))
		return perr.FromPostgres(err, "set statement_timeout")
	}
}

// Record upserts one run; a rerun replaces the earlier row
func (r *pg) Record(ctx context.Context, rs domain.RunState) error {
	err := store.ExecOne(ctx, r.q, `
		INSERT INTO run_states
			(instrument, run, fingerprint, det_arc1, det_arc2, wavelength, frequency, guide_status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (instrument, run) DO UPDATE SET
			fingerprint  = EXCLUDED.fingerprint,
			det_arc1     = EXCLUDED.det_arc1,
			det_arc2     = EXCLUDED.det_arc2,
			wavelength   = EXCLUDED.wavelength,
			frequency    = EXCLUDED.frequency,
			guide_status = EXCLUDED.guide_status,
			recorded_at  = now()`,
		rs.Instrument, rs.Run, string(rs.Fingerprint),
		rs.Snapshot.Arc1, rs.Snapshot.Arc2, rs.Snapshot.Wavelength,
		rs.Snapshot.Frequency, rs.Snapshot.GuideStatus,
	)
	if err != nil && perr.CodeOf(err) == perr.ErrorCodeUnknown {
		return perr.FromPostgresf(err, "record run %d", rs.Run)
	}
	return err
}

// Lookup returns the row of (instrument, run)
func (r *pg) Lookup(ctx context.Context, instrument string, run int) (domain.RunState, error) {
	rs, err := store.One(ctx, r.q, scanRunState,
		`SELECT `+cols+` FROM run_states WHERE instrument = $1 AND run = $2`,
		instrument, run)
	if errors.Is(err, perr.ErrNotFound) {
		return domain.RunState{}, perr.NotFoundf("run %d has no recorded state", run)
	}
	if err != nil {
		return domain.RunState{}, perr.FromPostgresf(err, "lookup run %d", run)
	}
	return rs, nil
}

// RunsForState lists runs recorded with fp, lowest run first
func (r *pg) RunsForState(ctx context.Context, instrument string, fp state.Fingerprint, limit int) ([]domain.RunState, error) {
	out, err := store.Many(ctx, r.q, scanRunState,
		`SELECT `+cols+` FROM run_states
		  WHERE instrument = $1 AND fingerprint = $2
		  ORDER BY run
		  LIMIT $3`,
		instrument, string(fp), limit)
	if err != nil {
		return nil, perr.FromPostgresf(err, "runs for state %s", fp)
	}
	return out, nil
}

func scanRunState(row store.Row) (domain.RunState, error) {
	var (
		rs domain.RunState
		fp string
		at time.Time
	)
	if err := row.Scan(
		&rs.Instrument, &rs.Run, &fp,
		&rs.Snapshot.Arc1, &rs.Snapshot.Arc2, &rs.Snapshot.Wavelength,
		&rs.Snapshot.Frequency, &rs.Snapshot.GuideStatus, &at,
	); err != nil {
		return domain.RunState{}, err
	}
	rs.Fingerprint = state.Fingerprint(fp)
	rs.RecordedAt = at.UTC()
	return rs, nil
}
