package http

import (
	"context"
	"net"
	stdhttp "net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/mguthriem/sxl4snap/internal/platform/config"

	"github.com/go-chi/chi/v5"
)

func freeAddr(t *testing.T) string {
	t.Helper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	addr := l.Addr().String()
	_ = l.Close()
	return addr
}

func TestNewServer_OptsAndRouter(t *testing.T) {
	t.Setenv("CORE_API_ADDR", ":4999")
	called := false
	s := NewServer(config.New().Prefix("CORE_API_"), func(m *chi.Mux) { called = true })
	if !called || s.Addr() != ":4999" {
		t.Fatalf("called=%v addr=%q", called, s.Addr())
	}
	s.Router().Get("/ping", func(w stdhttp.ResponseWriter, _ *stdhttp.Request) { w.WriteHeader(204) })

	rr := httptest.NewRecorder()
	s.Handler().ServeHTTP(rr, httptest.NewRequest("GET", "/ping", nil))
	if rr.Code != 204 {
		t.Fatalf("status %d", rr.Code)
	}
}

func TestRun_StopsOnCancel(t *testing.T) {
	addr := freeAddr(t)
	t.Setenv("TEST_API_ADDR", addr)
	s := NewServer(config.New().Prefix("TEST_API_"))
	s.Router().Get("/ping", func(w stdhttp.ResponseWriter, _ *stdhttp.Request) { w.WriteHeader(204) })

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	deadline := time.Now().Add(2 * time.Second)
	for {
		resp, err := stdhttp.Get("http://" + addr + "/ping")
		if err == nil {
			_ = resp.Body.Close()
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("server never came up: %v", err)
		}
		time.Sleep(10 * time.Millisecond)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("Run did not return after cancel")
	}
}
