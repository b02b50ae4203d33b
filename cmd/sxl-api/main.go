package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/mguthriem/sxl4snap/internal/adapters/nexus"
	"github.com/mguthriem/sxl4snap/internal/adapters/runlocator"
	"github.com/mguthriem/sxl4snap/internal/instrument"
	"github.com/mguthriem/sxl4snap/internal/modkit/repokit"
	"github.com/mguthriem/sxl4snap/internal/platform/config"
	"github.com/mguthriem/sxl4snap/internal/platform/logger"
	phttp "github.com/mguthriem/sxl4snap/internal/platform/net/http"
	"github.com/mguthriem/sxl4snap/internal/platform/store"

	"github.com/mguthriem/sxl4snap/internal/services/api"
)

func main() {
	// bring up logging early
	logger.Init(logger.FromEnv())
	l := logger.Get()

	root := config.New()
	env := instrument.EnvFrom(root)
	inst, err := env.Load()
	if err != nil {
		l.Panic().Err(err).Str("path", env.ConfigPath).Msg("instrument config")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// the state registry is backed by postgres when SERVICE_PGSQL_URL is set, unless CORE_API_REGISTRY=off
	sc, err := api.StoreConfig(root, store.ConfigFromEnv(api.ServiceName))
	if err != nil {
		l.Panic().Err(err).Msg("registry config")
	}
	st, err := store.Open(ctx, sc, store.WithLogger(*l))
	if err != nil {
		l.Panic().Err(err).Msg("store.Open failed")
	}
	repokit.MustGuard(ctx, st)
	defer func() {
		if err := st.Close(context.Background()); err != nil {
			l.Error().Err(err).Msg("failed to close store")
		}
	}()

	// http server (reads CORE_API_ADDR / CORE_API_SHUTDOWN_TIMEOUT)
	srv := phttp.NewServer(root.Prefix("CORE_API_"))

	state := api.Mount(srv.Router(), api.Options{
		Config:     root,
		Store:      st,
		Instrument: inst,
		Locator:    runlocator.NewArchive(env.ArchiveRoot, runlocator.WithCandidates(inst.Candidates)),
		Opener:     nexus.HDF5Opener{},
	})
	if err := state.EnsureSchema(ctx); err != nil {
		l.Panic().Err(err).Msg("ensure registry schema")
	}

	l.Info().Str("addr", srv.Addr()).Str("instrument", inst.Name).Msg("sxl-api listening")
	if err := srv.Run(ctx); err != nil {
		l.Panic().Err(err).Msg("http server stopped")
	}
}
