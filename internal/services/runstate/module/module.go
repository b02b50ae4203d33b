// Package module wires the runstate resolver, registry and endpoints
package module

import (
	"context"

	"github.com/mguthriem/sxl4snap/internal/modkit"
	"github.com/mguthriem/sxl4snap/internal/modkit/repokit"
	phttp "github.com/mguthriem/sxl4snap/internal/platform/net/http"
	"github.com/mguthriem/sxl4snap/internal/services/runstate/domain"
	statehttp "github.com/mguthriem/sxl4snap/internal/services/runstate/http"
	"github.com/mguthriem/sxl4snap/internal/services/runstate/repo"
	"github.com/mguthriem/sxl4snap/internal/services/runstate/service"
)

// Ports exposed by the runstate module
type Ports struct {
	Resolver domain.ResolverPort
	Registry *service.Registry
}

// Module implements modkit.Module
type Module struct {
	b     modkit.Built
	db    repokit.TxRunner
	ports Ports
}

// New constructs the runstate module. Locator and Opener arrive through
// modkit.WithPorts(domain.Ports{...}); the registry is disabled when deps.PG is nil
func New(deps modkit.Deps, overrides Options, opts ...modkit.Option) *Module {
	b := modkit.Build(append([]modkit.Option{
		modkit.WithName("runstate"),
		modkit.WithPrefix("/v1"),
	}, opts...)...)

	ports, ok := modkit.InjectedPorts[domain.Ports](b)
	if !ok {
		panic("runstate module: expected WithPorts(runstate/domain.Ports)")
	}
	if ports.Locator == nil || ports.Opener == nil {
		panic("runstate module: Ports missing Locator or Opener")
	}

	cfg := FromConfig(deps.Cfg)
	if overrides.ListLimit != 0 {
		cfg.ListLimit = overrides.ListLimit
	}
	if overrides.StatementTimeout != 0 {
		cfg.StatementTimeout = overrides.StatementTimeout
	}
	cfg.Instrument = overrides.Instrument
	if cfg.Instrument.Name == "" {
		panic("runstate module: Options.Instrument is required")
	}

	m := &Module{b: b}
	if deps.PG != nil {
		m.db = repokit.WithBeginHooks(deps.PG, repo.StatementTimeout(cfg.StatementTimeout))
	}
	m.ports = Ports{
		Resolver: service.NewResolver(cfg.Instrument, ports.Locator, ports.Opener),
		Registry: service.NewRegistry(m.db, repo.NewPG(), cfg.Instrument.Name, cfg.ListLimit),
	}
	return m
}

// EnsureSchema creates the registry table; a no-op when the registry is disabled
func (m *Module) EnsureSchema(ctx context.Context) error {
	if m.db == nil {
		return nil
	}
	return repo.EnsureSchema(ctx, m.db)
}

// Name satisfies modkit.Module
func (m *Module) Name() string { return m.b.Name }

// Ports satisfies modkit.Module
func (m *Module) Ports() any { return m.ports }

// MountRoutes satisfies modkit.Module
func (m *Module) MountRoutes(r phttp.Router) {
	modkit.MountUnder(r, m.b, func(sub phttp.Router) {
		statehttp.Register(sub, m.ports.Resolver, m.ports.Registry)
	})
}
