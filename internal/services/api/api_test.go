package api

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mguthriem/sxl4snap/internal/adapters/nexus/nexustest"
	"github.com/mguthriem/sxl4snap/internal/adapters/runlocator"
	"github.com/mguthriem/sxl4snap/internal/instrument"
	"github.com/mguthriem/sxl4snap/internal/modkit/module"
	"github.com/mguthriem/sxl4snap/internal/platform/config"
	phttp "github.com/mguthriem/sxl4snap/internal/platform/net/http"
	"github.com/mguthriem/sxl4snap/internal/platform/store"

	"github.com/go-chi/chi/v5"
)

func mount(t *testing.T) phttp.Router {
	t.Helper()
	module.Reset()
	t.Cleanup(module.Reset)

	ipts := filepath.Join(t.TempDir(), "IPTS-1") + "/"
	r := phttp.AdaptChi(chi.NewMux())
	m := Mount(r, Options{
		Config:     config.New(),
		Store:      &store.Store{},
		Instrument: instrument.Config{Name: "SNAP", NexusDirectory: "nexus", NexusFileExtension: ".nxs.h5"},
		Locator: runlocator.LocatorFunc(func(context.Context, int, string) (string, error) {
			return ipts, nil
		}),
		Opener: &nexustest.Opener{},
	})
	if err := m.EnsureSchema(context.Background()); err != nil {
		t.Fatalf("EnsureSchema without PG: %v", err)
	}
	return r
}

func TestMount_Routes(t *testing.T) {
	r := mount(t)

	cases := []struct {
		path   string
		status int
		body   string
	}{
		{"/health", 200, `"instrument":"SNAP"`},
		{"/ready", 200, `"status":"skipped"`},
		{"/version", 200, `"service":"sxl-api"`},
		{"/metrics", 200, "sxl_http_requests_total"},
		{"/v1/runs/48028/state", 404, `"kind":"data_file_not_found"`},
		{"/v1/states/zz/runs", 503, `"kind":"unavailable"`},
	}
	for _, c := range cases {
		rr := httptest.NewRecorder()
		r.Mux().ServeHTTP(rr, httptest.NewRequest("GET", c.path, nil))
		if rr.Code != c.status {
			t.Fatalf("%s: status %d want %d\n%s", c.path, rr.Code, c.status, rr.Body.String())
		}
		if !strings.Contains(rr.Body.String(), c.body) {
			t.Fatalf("%s: body lacks %q\n%s", c.path, c.body, rr.Body.String())
		}
		if rr.Header().Get("X-Request-ID") == "" {
			t.Fatalf("%s: missing X-Request-ID", c.path)
		}
	}

	if _, ok := module.PortsAs[any]("runstate"); !ok {
		t.Fatalf("runstate ports not registered")
	}
}

func TestMount_HealthEnvelope(t *testing.T) {
	r := mount(t)
	rr := httptest.NewRecorder()
	r.Mux().ServeHTTP(rr, httptest.NewRequest("GET", "/health", nil))

	var env phttp.Envelope
	if err := json.Unmarshal(rr.Body.Bytes(), &env); err != nil {
		t.Fatal(err)
	}
	if env.RequestID == "" || env.StatusCode != 200 {
		t.Fatalf("envelope %+v", env)
	}
}
