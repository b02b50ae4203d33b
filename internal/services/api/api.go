// Package api composes the read-only HTTP API
package api

import (
	"time"

	"github.com/mguthriem/sxl4snap/internal/adapters/nexus"
	"github.com/mguthriem/sxl4snap/internal/instrument"
	"github.com/mguthriem/sxl4snap/internal/modkit"
	"github.com/mguthriem/sxl4snap/internal/platform/config"
	"github.com/mguthriem/sxl4snap/internal/platform/logger"
	phttp "github.com/mguthriem/sxl4snap/internal/platform/net/http"
	"github.com/mguthriem/sxl4snap/internal/platform/net/middleware"
	"github.com/mguthriem/sxl4snap/internal/platform/store"

	metamod "github.com/mguthriem/sxl4snap/internal/services/api/meta/module"
	statedom "github.com/mguthriem/sxl4snap/internal/services/runstate/domain"
	statemod "github.com/mguthriem/sxl4snap/internal/services/runstate/module"
)

// ServiceName is reported by /health and /version
const ServiceName = "sxl-api"

// Options are the API options
type Options struct {
	Config     config.Conf
	Store      *store.Store
	Instrument instrument.Config
	Locator    statedom.Locator
	Opener     nexus.Opener
}

// Mount mounts the API service onto the given router and returns the
// runstate module so the caller can ensure the registry schema
func Mount(r phttp.Router, opt Options) *statemod.Module {
	deps := modkit.Deps{
		Log: *logger.Named("api"),
		Cfg: opt.Config,
	}
	if opt.Store != nil {
		deps.PG = opt.Store.PG
	}

	ac := opt.Config.Prefix("CORE_API_")
	r.Use(middleware.Defaults(ac.MayDuration("REQUEST_TIMEOUT", 30*time.Second))...)
	r.Use(middleware.CORS(middleware.CORSOptions{
		AllowedOrigins: ac.MayCSV("CORS_ORIGINS", nil),
		MaxAge:         ac.MayInt("CORS_MAX_AGE", 300),
	}))
	r.Use(middleware.AccessLogZerolog(middleware.AccessLogOptions{
		Slow: ac.MayDuration("SLOW_REQUEST", 2*time.Second),
	}))

	state := statemod.New(deps,
		statemod.Options{Instrument: opt.Instrument},
		modkit.WithPorts(statedom.Ports{Locator: opt.Locator, Opener: opt.Opener}),
	)

	phttp.MountProfiler(r, "/debug", ac.MayBool("PROFILER", false))
	modkit.MountAll(r,
		metamod.New(deps, ServiceName, opt.Instrument.Name),
		state,
	)
	return state
}
