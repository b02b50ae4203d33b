package api

import (
	"testing"

	"github.com/mguthriem/sxl4snap/internal/platform/config"
	perr "github.com/mguthriem/sxl4snap/internal/platform/errors"
	"github.com/mguthriem/sxl4snap/internal/platform/store"
	kit "github.com/mguthriem/sxl4snap/internal/platform/testkit"
)

func TestStoreConfig(t *testing.T) {
	withPG := store.Config{PG: store.PGConfig{Enabled: true, URL: "postgres://x"}}
	cases := []struct {
		mode    string
		in      store.Config
		enabled bool
		code    perr.ErrorCode
	}{
		{"", withPG, true, 0},
		{"auto", store.Config{}, false, 0},
		{"OFF", withPG, false, 0},
		{"required", withPG, true, 0},
		{"required", store.Config{}, false, perr.ErrorCodeUnavailable},
	}
	for _, c := range cases {
		t.Setenv("CORE_API_REGISTRY", c.mode)
		got, err := StoreConfig(config.New(), c.in)
		if c.code != 0 {
			if perr.CodeOf(err) != c.code {
				t.Fatalf("mode %q: err = %v", c.mode, err)
			}
			continue
		}
		if err != nil || got.PG.Enabled != c.enabled {
			t.Fatalf("mode %q: enabled=%v err=%v", c.mode, got.PG.Enabled, err)
		}
	}

	t.Setenv("CORE_API_REGISTRY", "sometimes")
	kit.MustPanic(t, func() { _, _ = StoreConfig(config.New(), withPG) })
}
