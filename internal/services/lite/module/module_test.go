package module

import (
	"testing"

	"github.com/mguthriem/sxl4snap/internal/adapters/nexus/nexustest"
	"github.com/mguthriem/sxl4snap/internal/core/superpixel"
	"github.com/mguthriem/sxl4snap/internal/modkit"
	"github.com/mguthriem/sxl4snap/internal/modkit/module"
	"github.com/mguthriem/sxl4snap/internal/platform/config"
	perr "github.com/mguthriem/sxl4snap/internal/platform/errors"
	kit "github.com/mguthriem/sxl4snap/internal/platform/testkit"
	"github.com/mguthriem/sxl4snap/internal/services/lite/domain"
)

func TestFromConfig(t *testing.T) {
	t.Setenv("CORE_LITE_XDIM", "4")
	t.Setenv("CORE_LITE_WORKERS", "6")

	o := FromConfig(config.New())
	if o.Factor != (superpixel.Factor{X: 4, Y: 8}) || o.Workers != 6 {
		t.Fatalf("options = %+v", o)
	}
}

func TestOptionsValidate(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name  string
		o     Options
		field string
	}{
		{"default", Options{Factor: superpixel.DefaultFactor, Workers: 1}, ""},
		{"odd x", Options{Factor: superpixel.Factor{X: 3, Y: 8}, Workers: 1}, "xdim"},
		{"non divisor y", Options{Factor: superpixel.Factor{X: 8, Y: 6}, Workers: 1}, "ydim"},
		{"too many workers", Options{Factor: superpixel.DefaultFactor, Workers: 40}, "workers"},
	}
	for _, c := range cases {
		err := c.o.Validate()
		if c.field == "" {
			if err != nil {
				t.Fatalf("%s: %v", c.name, err)
			}
			continue
		}
		e, ok := perr.As(err)
		if !ok || e.Code() != perr.ErrorCodeValidation || e.Field() != c.field {
			t.Fatalf("%s: got %v, want validation error on %s", c.name, err, c.field)
		}
	}
}

func TestNew(t *testing.T) {
	t.Parallel()

	deps := modkit.Deps{Cfg: config.New()}
	kit.MustPanic(t, func() { _, _ = New(deps, Options{}) })

	if _, err := New(deps, Options{Factor: superpixel.Factor{X: 2, Y: 10}}, modkit.WithPorts(domain.Ports{Opener: &nexustest.Opener{}})); err == nil {
		t.Fatalf("invalid factor accepted")
	}

	m, err := New(deps, Options{Workers: 4}, modkit.WithPorts(domain.Ports{Opener: &nexustest.Opener{}}))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	p := module.MustPortsOf[Ports](m)
	if p.Builder == nil || p.RunBuilder == nil || m.Name() != "lite" {
		t.Fatalf("ports %+v", p)
	}
}
