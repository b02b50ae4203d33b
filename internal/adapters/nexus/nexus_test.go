package nexus_test

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/mguthriem/sxl4snap/internal/adapters/nexus"
	"github.com/mguthriem/sxl4snap/internal/adapters/nexus/nexustest"
	perr "github.com/mguthriem/sxl4snap/internal/platform/errors"
)

func TestNotFound(t *testing.T) {
	t.Parallel()

	err := nexus.NotFound("entry/x")
	if !nexus.IsNotFound(err) || !errors.Is(err, nexus.ErrNotFound) {
		t.Fatalf("expected ErrNotFound in chain: %v", err)
	}
	if perr.CodeOf(err) != perr.ErrorCodeNotFound {
		t.Fatalf("code = %v", perr.CodeOf(err))
	}
	if nexus.IsNotFound(errors.New("other")) {
		t.Fatalf("unrelated error matched")
	}
}

func TestModeString(t *testing.T) {
	t.Parallel()
	if nexus.ReadOnly.String() != "ro" || nexus.ReadWrite.String() != "rw" {
		t.Fatalf("mode strings: %s %s", nexus.ReadOnly, nexus.ReadWrite)
	}
}

func TestFakeContainer_RoundTripAndFlush(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "run.json")
	nexustest.WriteDoc(t, path, nexustest.Doc{
		Floats:  map[string][]float64{"entry/DASlogs/det_arc1/value": {10.24, 10.3}},
		Uint32s: map[string][]uint32{"entry/bank11_events/event_id": {1, 2, 3}},
		Strings: map[string][]string{"entry/instrument/instrument_xml/data": {"<xml/>"}},
	})

	var o nexustest.Opener
	var op nexus.Opener = &o
	c, err := op.Open(path, nexus.ReadWrite)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if v, err := c.ReadFloat64s("entry/DASlogs/det_arc1/value"); err != nil || v[0] != 10.24 {
		t.Fatalf("read floats: %v %v", v, err)
	}
	if err := c.WriteUint32s("entry/bank11_events/event_id", []uint32{9, 9}); perr.CodeOf(err) != perr.ErrorCodeInvalidArgument {
		t.Fatalf("length mismatch not refused: %v", err)
	}
	if err := c.WriteUint32s("entry/bank11_events/event_id", []uint32{7, 8, 9}); err != nil {
		t.Fatalf("write ids: %v", err)
	}
	if err := c.WriteString("entry/instrument/instrument_xml/data", "<new/>"); err != nil {
		t.Fatalf("write string: %v", err)
	}
	if _, err := c.ReadUint32s("entry/bank12_events/event_id"); !nexus.IsNotFound(err) {
		t.Fatalf("missing path: %v", err)
	}
	if err := c.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	d := nexustest.ReadDoc(t, path)
	if got := d.Uint32s["entry/bank11_events/event_id"]; len(got) != 3 || got[0] != 7 || got[2] != 9 {
		t.Fatalf("ids not flushed: %v", got)
	}
	if got := d.Strings["entry/instrument/instrument_xml/data"][0]; got != "<new/>" {
		t.Fatalf("string not flushed: %q", got)
	}
	if o.Opens() != 1 || o.Overlapped() {
		t.Fatalf("opens=%d overlapped=%v", o.Opens(), o.Overlapped())
	}
}

func TestFakeContainer_ReadOnlyRefusesWrites(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "run.json")
	nexustest.WriteDoc(t, path, nexustest.Doc{Strings: map[string][]string{"a": {"x"}}})

	c, err := (&nexustest.Opener{}).Open(path, nexus.ReadOnly)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer func() { _ = c.Close() }()
	if err := c.WriteString("a", "y"); perr.CodeOf(err) != perr.ErrorCodeIO {
		t.Fatalf("expected io error, got %v", err)
	}
}

func TestFakeOpener_MissingFile(t *testing.T) {
	t.Parallel()
	_, err := (&nexustest.Opener{}).Open(filepath.Join(t.TempDir(), "nope.json"), nexus.ReadOnly)
	if perr.CodeOf(err) != perr.ErrorCodeIO {
		t.Fatalf("expected io error, got %v", err)
	}
}
