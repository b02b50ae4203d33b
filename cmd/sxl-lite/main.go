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
	"github.com/mguthriem/sxl4snap/internal/instrument"
	"github.com/mguthriem/sxl4snap/internal/modkit"
	"github.com/mguthriem/sxl4snap/internal/modkit/module"
	"github.com/mguthriem/sxl4snap/internal/platform/config"
	"github.com/mguthriem/sxl4snap/internal/platform/logger"

	litedom "github.com/mguthriem/sxl4snap/internal/services/lite/domain"
	litemod "github.com/mguthriem/sxl4snap/internal/services/lite/module"
)

func main() {
	var (
		fRun     = flag.Int("run", 0, "run number; source and destination follow the archive naming")
		fIn      = flag.String("in", "", "native nexus file (with -out, instead of -run)")
		fOut     = flag.String("out", "", "lite destination file (with -in)")
		fWorkers = flag.Int("workers", 0, "panels remapped concurrently (default CORE_LITE_WORKERS)")
	)
	flag.Parse()

	logger.Init(logger.FromEnv())
	l := logger.Named("sxl-lite")

	explicit := *fIn != "" || *fOut != ""
	switch {
	case explicit && *fRun != 0:
		l.Fatal().Msg("-run and -in/-out are mutually exclusive")
	case explicit && (*fIn == "" || *fOut == ""):
		l.Fatal().Msg("-in and -out go together")
	case !explicit && *fRun <= 0:
		l.Fatal().Msg("must provide -run or -in/-out")
	}

	root := config.New()
	ports := litedom.Ports{Opener: nexus.HDF5Opener{}}
	var inst instrument.Config
	if !explicit {
		env := instrument.EnvFrom(root)
		var err error
		if inst, err = env.Load(); err != nil {
			l.Fatal().Err(err).Str("path", env.ConfigPath).Msg("instrument config")
		}
		ports.Locator = runlocator.NewArchive(env.ArchiveRoot, runlocator.WithCandidates(inst.Candidates))
	}

	lm, err := litemod.New(
		modkit.Deps{Log: *l, Cfg: root},
		litemod.Options{Instrument: inst, Workers: *fWorkers},
		modkit.WithPorts(ports),
	)
	if err != nil {
		l.Fatal().Err(err).Msg("lite options")
	}
	lp := module.MustPortsOf[litemod.Ports](lm)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var res litedom.Result
	if explicit {
		res, err = lp.Builder.Build(ctx, *fIn, *fOut)
	} else {
		res, err = lp.RunBuilder.BuildRun(ctx, *fRun)
	}
	if err != nil {
		stop()
		l.Fatal().Err(err).Msg("lite build failed")
	}
	if err := json.NewEncoder(os.Stdout).Encode(res); err != nil {
		l.Fatal().Err(err).Msg("write stdout")
	}
}
