//go:build integration_pg

package repo

import (
	"context"
	"testing"
	"time"

	"github.com/mguthriem/sxl4snap/internal/core/state"
	"github.com/mguthriem/sxl4snap/internal/modkit/repokit"
	perr "github.com/mguthriem/sxl4snap/internal/platform/errors"
	"github.com/mguthriem/sxl4snap/internal/platform/store"
	"github.com/mguthriem/sxl4snap/internal/platform/store/pg/pgtest"
	"github.com/mguthriem/sxl4snap/internal/services/runstate/domain"
)

func TestPG_Integration(t *testing.T) {
	dsn := pgtest.Start(t)
	ctx := context.Background()

	s, err := store.Open(ctx, store.Config{
		AppName: "runstate-it",
		PG:      store.PGConfig{Enabled: true, URL: dsn, MaxConns: 2},
	})
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = s.Close(ctx) })

	if err := EnsureSchema(ctx, s.PG); err != nil {
		t.Fatalf("EnsureSchema: %v", err)
	}
	if err := EnsureSchema(ctx, s.PG); err != nil {
		t.Fatalf("EnsureSchema twice: %v", err)
	}

	tx := repokit.WithBeginHooks(s.PG, StatementTimeout(5*time.Second))
	if err := repokit.WithTx(ctx, tx, NewPG(), func(r domain.RegistryPort) error {
		return r.Record(ctx, domain.RunState{Instrument: "SNAP", Run: 47000, Fingerprint: "d4d19ba724a1eba1"})
	}); err != nil {
		t.Fatalf("Record in hooked tx: %v", err)
	}

	r := NewPG().Bind(s.PG)

	a := state.Generate(state.Snapshot{Arc1: -65.5, Arc2: 105, Wavelength: 2.1, Frequency: 60, GuideStatus: 2})
	b := state.Generate(state.Snapshot{Arc1: 10.24, Arc2: -45, Wavelength: 2.1, Frequency: 60, GuideStatus: 1})
	for _, rs := range []domain.RunState{
		{Instrument: "SNAP", Run: 48030, Fingerprint: a.Fingerprint},
		{Instrument: "SNAP", Run: 48028, Fingerprint: a.Fingerprint},
		{Instrument: "SNAP", Run: 48029, Fingerprint: b.Fingerprint},
	} {
		if err := r.Record(ctx, rs); err != nil {
			t.Fatalf("Record %d: %v", rs.Run, err)
		}
	}
	// rerecording replaces
	if err := r.Record(ctx, domain.RunState{Instrument: "SNAP", Run: 48029, Fingerprint: a.Fingerprint}); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	runs, err := r.RunsForState(ctx, "SNAP", a.Fingerprint, 10)
	if err != nil {
		t.Fatalf("RunsForState: %v", err)
	}
	if len(runs) != 3 || runs[0].Run != 48028 || runs[2].Run != 48030 {
		t.Fatalf("runs = %+v", runs)
	}

	got, err := r.Lookup(ctx, "SNAP", 48029)
	if err != nil || got.Fingerprint != a.Fingerprint {
		t.Fatalf("Lookup: %+v %v", got, err)
	}
	if _, err := r.Lookup(ctx, "SNAP", 1); perr.CodeOf(err) != perr.ErrorCodeNotFound {
		t.Fatalf("missing: %v", err)
	}
}
