// Package module wires the lite file builder
package module

import (
	"github.com/mguthriem/sxl4snap/internal/modkit"
	phttp "github.com/mguthriem/sxl4snap/internal/platform/net/http"
	"github.com/mguthriem/sxl4snap/internal/services/lite/domain"
	"github.com/mguthriem/sxl4snap/internal/services/lite/service"
)

// Ports exposed by the lite module
type Ports struct {
	Builder    domain.BuilderPort
	RunBuilder domain.RunBuilderPort
}

// Module implements modkit.Module; it mounts no routes
type Module struct {
	name  string
	ports Ports
}

// New constructs the lite module. The opener (and optionally a locator)
// arrive through modkit.WithPorts(domain.Ports{...}). Non-zero override
// fields win over CORE_LITE_* settings
func New(deps modkit.Deps, overrides Options, opts ...modkit.Option) (*Module, error) {
	b := modkit.Build(append([]modkit.Option{modkit.WithName("lite")}, opts...)...)

	ports, ok := modkit.InjectedPorts[domain.Ports](b)
	if !ok || ports.Opener == nil {
		panic("lite module: expected WithPorts(lite/domain.Ports) with an Opener")
	}

	cfg := FromConfig(deps.Cfg)
	if overrides.Factor.X != 0 {
		cfg.Factor.X = overrides.Factor.X
	}
	if overrides.Factor.Y != 0 {
		cfg.Factor.Y = overrides.Factor.Y
	}
	if overrides.Workers != 0 {
		cfg.Workers = overrides.Workers
	}
	cfg.Instrument = overrides.Instrument
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	builder, err := service.NewBuilder(ports.Opener, service.Config{Factor: cfg.Factor, Workers: cfg.Workers})
	if err != nil {
		return nil, err
	}
	return &Module{
		name: b.Name,
		ports: Ports{
			Builder:    builder,
			RunBuilder: service.NewRunBuilder(cfg.Instrument, ports.Locator, builder),
		},
	}, nil
}

// Name satisfies modkit.Module
func (m *Module) Name() string { return m.name }

// Ports satisfies modkit.Module
func (m *Module) Ports() any { return m.ports }

// MountRoutes satisfies modkit.Module
func (m *Module) MountRoutes(_ phttp.Router) {}
