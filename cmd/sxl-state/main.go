package main

import (
	"context"
	"encoding/json"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/mguthriem/sxl4snap/internal/adapters/nexus"
	"github.com/mguthriem/sxl4snap/internal/adapters/runlocator"
	"github.com/mguthriem/sxl4snap/internal/core/runlist"
	"github.com/mguthriem/sxl4snap/internal/instrument"
	"github.com/mguthriem/sxl4snap/internal/modkit"
	"github.com/mguthriem/sxl4snap/internal/modkit/module"
	"github.com/mguthriem/sxl4snap/internal/modkit/repokit"
	"github.com/mguthriem/sxl4snap/internal/platform/config"
	perr "github.com/mguthriem/sxl4snap/internal/platform/errors"
	"github.com/mguthriem/sxl4snap/internal/platform/logger"
	"github.com/mguthriem/sxl4snap/internal/platform/store"

	statedom "github.com/mguthriem/sxl4snap/internal/services/runstate/domain"
	statemod "github.com/mguthriem/sxl4snap/internal/services/runstate/module"
)

// line is one JSON record on stdout
type line struct {
	statedom.Resolution
	Recorded bool   `json:"recorded,omitempty"`
	Kind     string `json:"kind,omitempty"`
	Error    string `json:"error,omitempty"`
}

func main() {
	if failed := run(); failed > 0 {
		os.Exit(1)
	}
}

// run resolves every requested run and returns how many failed
func run() int {
	var (
		fRuns   = flag.String("runs", "", "runs to resolve, e.g. 48028,48030-48035")
		fRecord = flag.Bool("record", false, "upsert resolved states into the registry (needs SERVICE_PGSQL_URL)")
	)
	flag.Parse()

	logger.Init(logger.FromEnv())
	l := logger.Named("sxl-state")

	runs, err := runlist.Parse(*fRuns)
	if err != nil {
		l.Fatal().Err(err).Msg("bad -runs")
	}

	root := config.New()
	env := instrument.EnvFrom(root)
	inst, err := env.Load()
	if err != nil {
		l.Fatal().Err(err).Str("path", env.ConfigPath).Msg("instrument config")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pgc := store.ConfigFromEnv("sxl-state")
	if *fRecord && !pgc.PG.Enabled {
		l.Fatal().Msg("-record needs SERVICE_PGSQL_URL")
	}
	pgc.PG.Enabled = *fRecord && pgc.PG.Enabled
	st, err := store.Open(ctx, pgc, store.WithLogger(*l))
	if err != nil {
		l.Fatal().Err(err).Msg("store.Open failed")
	}
	repokit.MustGuard(ctx, st)
	defer func() {
		if err := st.Close(context.Background()); err != nil {
			l.Error().Err(err).Msg("failed to close store")
		}
	}()

	sm := statemod.New(
		modkit.Deps{Log: *l, Cfg: root, PG: st.PG},
		statemod.Options{Instrument: inst},
		modkit.WithPorts(statedom.Ports{
			Locator: runlocator.NewArchive(env.ArchiveRoot, runlocator.WithCandidates(inst.Candidates)),
			Opener:  nexus.HDF5Opener{},
		}),
	)
	if err := sm.EnsureSchema(ctx); err != nil {
		l.Fatal().Err(err).Msg("ensure schema")
	}
	ports := module.MustPortsOf[statemod.Ports](sm)

	enc := json.NewEncoder(os.Stdout)
	failed := 0
	for _, r := range runs {
		if ctx.Err() != nil {
			break
		}
		res, err := ports.Resolver.ResolveRun(ctx, r)
		out := line{Resolution: res}
		if err == nil && *fRecord {
			err = ports.Registry.Record(ctx, res)
			out.Recorded = err == nil
		}
		if err != nil {
			failed++
			out.Kind, out.Error = perr.CodeOf(err).String(), err.Error()
		}
		if err := enc.Encode(out); err != nil {
			l.Fatal().Err(err).Msg("write stdout")
		}
	}

	l.Info().Int("runs", len(runs)).Int("failed", failed).Msg("state batch done")
	return failed
}
