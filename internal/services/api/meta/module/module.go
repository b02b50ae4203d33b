// Package module wires meta endpoints into the API using a tiny module
package module

import (
	"time"

	"github.com/mguthriem/sxl4snap/internal/modkit"
	phttp "github.com/mguthriem/sxl4snap/internal/platform/net/http"
	metahttp "github.com/mguthriem/sxl4snap/internal/services/api/meta/http"
)

// Module implements the modkit.Module interface
type Module struct {
	b         modkit.Built
	deps      metahttp.Deps
	startedAt time.Time
}

// New constructs a meta module mounted at the API root unless WithPrefix says otherwise
func New(deps modkit.Deps, service, instrument string, opts ...modkit.Option) *Module {
	b := modkit.Build(append([]modkit.Option{modkit.WithName("meta")}, opts...)...)
	started := time.Now()
	d := metahttp.Deps{
		ServiceName: service,
		Instrument:  instrument,
		StartedAt:   started,
	}
	if deps.PG != nil {
		d.PG = deps.PG
	}
	return &Module{b: b, deps: d, startedAt: started}
}

// MountRoutes implements the modkit.Module interface
func (m *Module) MountRoutes(r phttp.Router) {
	modkit.MountUnder(r, m.b, func(sub phttp.Router) {
		metahttp.Register(sub, m.deps)
	})
}

// Name implements the modkit.Module interface
func (m *Module) Name() string { return m.b.Name }

// Ports implements the modkit.Module interface
func (m *Module) Ports() any { return nil }
