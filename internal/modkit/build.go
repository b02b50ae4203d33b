package modkit

import (
	"net/http"
)

// Built is the resolved option set a module keeps
type Built struct {
	Name   string
	Prefix string
	Mw     []func(http.Handler) http.Handler
	Ports  any
}

// Build applies opts in order and returns a copy safe to retain
func Build(opts ...Option) Built {
	var c buildCfg
	for _, o := range opts {
		o(&c)
	}
	return Built{
		Name:   c.name,
		Prefix: c.prefix,
		Mw:     append([]func(http.Handler) http.Handler(nil), c.mw...),
		Ports:  c.ports,
	}
}

// InjectedPorts returns the ports passed through WithPorts as T
func InjectedPorts[T any](b Built) (T, bool) {
	v, ok := b.Ports.(T)
	return v, ok
}
