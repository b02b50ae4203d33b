package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/mguthriem/sxl4snap/internal/platform/store/pg"
	kit "github.com/mguthriem/sxl4snap/internal/platform/testkit"

	"github.com/jackc/pgx/v5/pgxpool"
)

func TestOpen_NothingEnabled(t *testing.T) {
	t.Parallel()
	s, err := Open(context.Background(), Config{})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if s.PG != nil {
		t.Fatalf("PG should be nil")
	}
	if err := s.Guard(context.Background()); err != nil {
		t.Fatalf("Guard: %v", err)
	}
	if err := s.Close(context.Background()); err != nil {
		t.Fatalf("Close: %v", err)
	}
}

func TestOpen_OptionError(t *testing.T) {
	t.Parallel()
	boom := errors.New("boom")
	_, err := Open(context.Background(), Config{}, func(*Store) error { return boom })
	if !errors.Is(err, boom) {
		t.Fatalf("want boom, got %v", err)
	}
}

func TestOpen_PGBadURL(t *testing.T) {
	t.Parallel()
	cfg := Config{PG: PGConfig{Enabled: true, URL: "://bad"}}
	if _, err := Open(context.Background(), cfg); err == nil {
		t.Fatalf("expected error")
	}
}

func TestOpen_PGCancelledWhileWaiting(t *testing.T) {
	kit.Serial(t)
	kit.Swap(t, &backoffBase, time.Millisecond)

	var opened *pg.PG
	kit.Swap(t, &openPool, func(ctx context.Context, cfg pg.Config, tr pg.QueryTracer, mut func(*pgxpool.Config)) (*pg.PG, error) {
		pc, err := pgxpool.ParseConfig(cfg.URL)
		if err != nil {
			return nil, err
		}
		mut(pc)
		if pc.ConnConfig.RuntimeParams["application_name"] != "sxl-test" {
			t.Errorf("application_name not set: %v", pc.ConnConfig.RuntimeParams)
		}
		opened = &pg.PG{} // no pool, Ping always fails
		return opened, nil
	})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	cfg := Config{AppName: "sxl-test", PG: PGConfig{
		Enabled:        true,
		URL:            "postgres://u:p@h:5432/db?sslmode=disable",
		ConnectRetries: 1000,
	}}
	_, err := Open(ctx, cfg)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("want deadline exceeded, got %v", err)
	}
	if opened == nil {
		t.Fatalf("pool was never opened")
	}
}

func TestOpen_PGRetriesExhausted(t *testing.T) {
	kit.Serial(t)
	kit.Swap(t, &backoffBase, time.Millisecond)
	kit.Swap(t, &openPool, func(context.Context, pg.Config, pg.QueryTracer, func(*pgxpool.Config)) (*pg.PG, error) {
		return &pg.PG{}, nil
	})

	cfg := Config{PG: PGConfig{Enabled: true, URL: "postgres://h/db", ConnectRetries: 3}}
	_, err := Open(context.Background(), cfg)
	if err == nil {
		t.Fatalf("expected error")
	}
	kit.MustContain(t, err.Error(), "after 3 attempts")
}

func TestGuard_NilStore(t *testing.T) {
	t.Parallel()
	var s *Store
	if err := s.Guard(context.Background()); err == nil {
		t.Fatalf("expected error for nil store")
	}
}

func TestConfigFromEnv(t *testing.T) {
	t.Setenv("SERVICE_PGSQL_URL", "postgres://u:p@db:5432/sxl")
	t.Setenv("SERVICE_PGSQL_MAX_CONNS", "9")
	t.Setenv("SERVICE_PGSQL_LOG_SQL", "true")

	c := ConfigFromEnv("sxl-api")
	if !c.PG.Enabled || c.PG.MaxConns != 9 || !c.PG.LogSQL || c.AppName != "sxl-api" {
		t.Fatalf("unexpected %+v", c)
	}

	t.Setenv("SERVICE_PGSQL_URL", "")
	if ConfigFromEnv("x").PG.Enabled {
		t.Fatalf("PG should be disabled without URL")
	}
}
