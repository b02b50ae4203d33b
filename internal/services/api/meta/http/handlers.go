// Package http provides meta endpoints
package http

import (
	stdctx "context"
	stdhttp "net/http"
	"time"

	"github.com/mguthriem/sxl4snap/internal/core/version"
	"github.com/mguthriem/sxl4snap/internal/platform/metrics"
	phttp "github.com/mguthriem/sxl4snap/internal/platform/net/http"
)

// Pinger is satisfied by adapters that expose Ping
type Pinger interface {
	Ping(stdctx.Context) error
}

// Deps are the handler dependencies
type Deps struct {
	ServiceName string
	Instrument  string
	StartedAt   time.Time
	// PG is nil when the state registry is disabled
	PG any
}

type handlers struct {
	deps Deps
}

// Register mounts the meta routes
func Register(r phttp.Router, d Deps) {
	h := &handlers{deps: d}

	phttp.GetJSON(r, "/health", h.health)
	phttp.GetJSON(r, "/ready", h.ready)
	phttp.GetJSON(r, "/version", h.version)
	r.Handle("/metrics", metrics.Handler())
}

// HealthResponse is the health payload
type HealthResponse struct {
	OK         bool   `json:"ok"`
	Service    string `json:"service"`
	Instrument string `json:"instrument"`
	Started    string `json:"started"`
	Uptime     int64  `json:"uptime"`
}

// ReadyCheck describes a single dependency check
type ReadyCheck struct {
	Name   string `json:"name"`
	Status string `json:"status"` // ok fail skipped unknown
	Error  string `json:"error,omitempty"`
}

// ReadyResponse summarizes readiness
type ReadyResponse struct {
	Status string       `json:"status"` // ok degraded fail
	Checks []ReadyCheck `json:"checks"`
	Now    string       `json:"now"`
}

func (h *handlers) health(_ *stdhttp.Request) (any, error) {
	return HealthResponse{
		OK:         true,
		Service:    h.deps.ServiceName,
		Instrument: h.deps.Instrument,
		Started:    h.deps.StartedAt.UTC().Format(time.RFC3339),
		Uptime:     int64(time.Since(h.deps.StartedAt) / time.Second),
	}, nil
}

func (h *handlers) ready(r *stdhttp.Request) (any, error) {
	ctx, cancel := stdctx.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	pg := ReadyCheck{Name: "pg", Status: "skipped"}
	if h.deps.PG != nil {
		pg.Status = "unknown"
		if p, ok := h.deps.PG.(Pinger); ok {
			pg.Status = "ok"
			if err := p.Ping(ctx); err != nil {
				pg.Status, pg.Error = "fail", err.Error()
			}
		}
	}

	overall := "ok"
	switch pg.Status {
	case "fail":
		overall = "fail"
	case "unknown":
		overall = "degraded"
	}
	return ReadyResponse{
		Status: overall,
		Checks: []ReadyCheck{pg},
		Now:    time.Now().UTC().Format(time.RFC3339),
	}, nil
}

func (h *handlers) version(_ *stdhttp.Request) (any, error) {
	return version.Info(h.deps.ServiceName), nil
}
