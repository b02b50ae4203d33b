// Package http provides the read-only run state endpoints
package http

import (
	stdhttp "net/http"
	"strconv"

	perr "github.com/mguthriem/sxl4snap/internal/platform/errors"
	phttp "github.com/mguthriem/sxl4snap/internal/platform/net/http"
	"github.com/mguthriem/sxl4snap/internal/services/runstate/domain"
	"github.com/mguthriem/sxl4snap/internal/services/runstate/service"
)

// Register mounts the run state endpoints on r
func Register(r phttp.Router, res domain.ResolverPort, reg *service.Registry) {
	h := &handlers{res: res, reg: reg}

	// live resolution from the raw data file
	phttp.GetJSON(r, "/runs/{run}/state", h.runState)

	// registry reads
	phttp.GetJSON(r, "/runs/{run}/recorded", h.recorded)
	phttp.GetJSON(r, "/states/{fingerprint}/runs", h.runsForState)
}

type handlers struct {
	res domain.ResolverPort
	reg *service.Registry
}

// RunsResponse lists runs sharing one state
type RunsResponse struct {
	Fingerprint string            `json:"fingerprint"`
	Count       int               `json:"count"`
	Runs        []domain.RunState `json:"runs"`
}

func (h *handlers) runState(r *stdhttp.Request) (any, error) {
	run, err := runParam(r)
	if err != nil {
		return nil, err
	}
	return h.res.ResolveRun(r.Context(), run)
}

func (h *handlers) recorded(r *stdhttp.Request) (any, error) {
	run, err := runParam(r)
	if err != nil {
		return nil, err
	}
	return h.reg.Lookup(r.Context(), run)
}

func (h *handlers) runsForState(r *stdhttp.Request) (any, error) {
	fp := phttp.Param(r, "fingerprint")
	limit := 0
	if s := r.URL.Query().Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 1 {
			return nil, perr.WithField(perr.InvalidArgf("limit must be a positive integer"), "limit")
		}
		limit = n
	}
	runs, err := h.reg.RunsForState(r.Context(), fp, limit)
	if err != nil {
		return nil, err
	}
	if runs == nil {
		runs = []domain.RunState{}
	}
	return RunsResponse{Fingerprint: fp, Count: len(runs), Runs: runs}, nil
}

func runParam(r *stdhttp.Request) (int, error) {
	s := phttp.Param(r, "run")
	run, err := strconv.Atoi(s)
	if err != nil || run < 1 {
		return 0, perr.WithField(perr.InvalidArgf("run %q must be a positive integer", s), "run")
	}
	return run, nil
}
