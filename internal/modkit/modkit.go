package modkit

import (
	"strings"

	"github.com/mguthriem/sxl4snap/internal/modkit/module"
	phttp "github.com/mguthriem/sxl4snap/internal/platform/net/http"
)

// Module is the common surface for modules that mount routes and expose ports
type Module = module.Module

// Builder constructs a Module from shared deps and options
type Builder func(Deps, ...Option) Module

// MountAll registers each module's ports under its name and mounts its routes on r
func MountAll(r phttp.Router, mods ...Module) {
	for _, m := range mods {
		module.Register(m.Name(), m.Ports())
		m.MountRoutes(r)
	}
}

// MountUnder mounts a subrouter at prefix with per module middleware
// an empty prefix mounts on r directly
func MountUnder(r phttp.Router, b Built, mount func(phttp.Router)) {
	attach := func(sub phttp.Router) {
		if len(b.Mw) > 0 {
			sub.Use(b.Mw...)
		}
		mount(sub)
	}
	if b.Prefix == "" {
		r.Group(attach)
		return
	}
	r.Route(b.Prefix, attach)
}

// MustPrefix normalizes a mount prefix to a single leading slash and no trailing slash
// it panics on an empty or root prefix
func MustPrefix(s string) string {
	s = "/" + strings.Trim(strings.TrimSpace(s), " /")
	if s == "/" {
		panic("modkit: root prefix is not a module prefix")
	}
	return s
}
