package superpixel

import (
	"testing"

	perr "github.com/mguthriem/sxl4snap/internal/platform/errors"
)

func TestPanels(t *testing.T) {
	t.Parallel()
	p := Panels()
	if len(p) != 18 {
		t.Fatalf("len = %d", len(p))
	}
	if p[0] != "11" || p[1] != "12" || p[2] != "13" || p[3] != "21" || p[17] != "63" {
		t.Fatalf("order = %v", p)
	}
	if got := EventIDPath("42"); got != "entry/bank42_events/event_id" {
		t.Fatalf("path = %q", got)
	}
}

func mustMapping(t *testing.T, f Factor) Mapping {
	t.Helper()
	m, err := NewMapping(f)
	if err != nil {
		t.Fatalf("NewMapping(%+v): %v", f, err)
	}
	return m
}

func TestID_Examples(t *testing.T) {
	t.Parallel()
	m := mustMapping(t, DefaultFactor)

	cases := []struct{ in, want uint32 }{
		{0, 0},
		{7, 0},
		{8, 1},
		{256 * 8, 32},
		{256*8 + 8, 33},
		{NNat - 1, 1023},
		{NNat, 1024}, // second block
		{3*NNat + 2048, 3*1024 + 32},
	}
	for _, c := range cases {
		if got := m.ID(c.in); got != c.want {
			t.Errorf("ID(%d) = %d, want %d", c.in, got, c.want)
		}
	}
}

func TestRemap_FullPanelCounts(t *testing.T) {
	t.Parallel()
	m := mustMapping(t, DefaultFactor)

	ids := make([]uint32, NNat)
	for k := range ids {
		ids[k] = uint32(k)
	}
	m.Remap(ids)

	hits := map[uint32]int{}
	for _, id := range ids {
		hits[id]++
	}
	if len(hits) != 1024 || m.SuperPixels() != 1024 {
		t.Fatalf("distinct super ids = %d", len(hits))
	}
	for id, n := range hits {
		if n != 64 {
			t.Fatalf("super id %d hit %d times", id, n)
		}
	}
}

func TestRemap_AsymmetricFactor(t *testing.T) {
	t.Parallel()
	m := mustMapping(t, Factor{X: 4, Y: 16})
	if m.SuperPixels() != 64*16 {
		t.Fatalf("super pixels = %d", m.SuperPixels())
	}
	// i=4 (row 4) -> superi=1, j=16 -> superj=1 -> 1*16+1
	if got := m.ID(4*256 + 16); got != 17 {
		t.Fatalf("got %d", got)
	}
}

func TestNewMapping_RejectsBadFactors(t *testing.T) {
	t.Parallel()
	for _, f := range []Factor{{0, 8}, {8, 0}, {3, 8}, {8, 6}, {-8, 8}, {512, 8}} {
		_, err := NewMapping(f)
		if perr.CodeOf(err) != perr.ErrorCodeInvalidArgument {
			t.Errorf("NewMapping(%+v) err = %v", f, err)
		}
	}
}
