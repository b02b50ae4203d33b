package state

import (
	"math"
	"testing"

	perr "github.com/mguthriem/sxl4snap/internal/platform/errors"
)

func TestAppendPyFloat(t *testing.T) {
	t.Parallel()

	// summed at run time; a constant expression would fold to exactly 0.3
	a, b := 0.1, 0.2

	cases := []struct {
		in   float64
		want string
	}{
		{0, "0.0"},
		{math.Copysign(0, -1), "-0.0"},
		{2.5, "2.5"},
		{-65.5, "-65.5"},
		{a + b, "0.30000000000000004"},
		{0.3, "0.3"},
		{1e16, "1e+16"},
		{9999999999999998, "9999999999999998.0"},
		{1.5e-05, "1.5e-05"},
		{0.0001, "0.0001"},
		{0.00012, "0.00012"},
		{123456789012345.6, "123456789012345.6"},
		{1e22, "1e+22"},
		{5e-324, "5e-324"},
		{100, "100.0"},
		{1e15, "1000000000000000.0"},
		{1.0 / 3, "0.3333333333333333"},
		{math.NaN(), "NaN"},
		{math.Inf(1), "Infinity"},
		{math.Inf(-1), "-Infinity"},
	}
	for _, c := range cases {
		if got := string(appendPyFloat(nil, c.in)); got != c.want {
			t.Errorf("appendPyFloat(%v) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestQuantize_Boundaries(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		in   Snapshot
		want Record
	}{
		{"arc below half", Snapshot{Arc1: 10.24}, Record{Arc1: 10.0}},
		{"arc above quarter", Snapshot{Arc1: 10.26}, Record{Arc1: 10.5}},
		{"wavelength", Snapshot{Wavelength: 1.851}, Record{Wavelength: 1.9}},
		{"ties to even", Snapshot{Arc1: 10.25, Arc2: 10.75, Wavelength: 1.25, Frequency: 60.5}, Record{Arc1: 10.0, Arc2: 11.0, Wavelength: 1.2, Frequency: 60}},
		{"negative arc", Snapshot{Arc1: -65.3}, Record{Arc1: -65.5}},
		{"guide truncates", Snapshot{GuideStatus: 1.9}, Record{GuideStatus: 1}},
		{"guide truncates toward zero", Snapshot{GuideStatus: -1.9}, Record{GuideStatus: -1}},
		{"frequency", Snapshot{Frequency: 59.6}, Record{Frequency: 60}},
		{"nan frequency", Snapshot{Frequency: math.NaN()}, Record{}},
	}
	for _, c := range cases {
		c := c
		t.Run(c.name, func(t *testing.T) {
			t.Parallel()
			if got := Quantize(c.in); got != c.want {
				t.Fatalf("Quantize(%+v) = %+v, want %+v", c.in, got, c.want)
			}
		})
	}
}

func TestQuantize_NegativeZeroArc(t *testing.T) {
	t.Parallel()
	r := Quantize(Snapshot{Arc1: -0.1})
	if math.Signbit(r.Arc1) {
		t.Fatalf("arc quantized to negative zero")
	}
}

func TestCanonical(t *testing.T) {
	t.Parallel()
	r := Record{Arc1: 10.5, Arc2: -45, Wavelength: 2.1, Frequency: 60, GuideStatus: 1}
	want := `{"vdet_arc1": 10.5, "vdet_arc2": -45.0, "WavelengthUserReq": 2.1, "Frequency": 60, "Pos": 1}`
	if got := string(r.Canonical()); got != want {
		t.Fatalf("Canonical =\n%s\nwant\n%s", got, want)
	}
}

// golden values computed with hashlib.shake_256 over json.dumps of the same record
func TestGenerate_Golden(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   Snapshot
		want Fingerprint
	}{
		{Snapshot{10.24, -45.0, 2.1, 60.0, 1}, "b723fe8ce354b67d"},
		{Snapshot{10.26, -45.0, 2.1, 60.0, 1}, "d9020219b42f0f53"},
		{Snapshot{-65.3, 105.0, 2.1, 60.0, 1}, "04bd2c53f6bf6754"},
		{Snapshot{10.25, 10.75, 1.25, 60.5, 1}, "2f9ff8842a9a9059"},
		{Snapshot{}, "d4d19ba724a1eba1"},
		{Snapshot{-65.5, 105.0, 2.1, 60.0, 2}, "ffefaa93ccb23678"},
	}
	for _, c := range cases {
		got := Generate(c.in)
		if got.Fingerprint != c.want {
			t.Errorf("Generate(%+v) = %s, want %s (canonical %s)", c.in, got.Fingerprint, c.want, got.Record.Canonical())
		}
	}
}

func TestGenerate_DeterminismAndSensitivity(t *testing.T) {
	t.Parallel()

	a := Generate(Snapshot{-65.3, 105.0, 2.1, 60.0, 1})
	b := Generate(Snapshot{-65.4, 105.1, 2.104, 59.6, 1.9})
	if a.Record != b.Record || a.Fingerprint != b.Fingerprint {
		t.Fatalf("same bucket, different state: %+v vs %+v", a, b)
	}

	base := Snapshot{-65.5, 105.0, 2.1, 60.0, 1}
	neighbours := []Snapshot{
		{-65.0, 105.0, 2.1, 60.0, 1},
		{-65.5, 105.5, 2.1, 60.0, 1},
		{-65.5, 105.0, 2.2, 60.0, 1},
		{-65.5, 105.0, 2.1, 61.0, 1},
		{-65.5, 105.0, 2.1, 60.0, 2},
	}
	seen := map[Fingerprint]bool{Generate(base).Fingerprint: true}
	for _, n := range neighbours {
		fp := Generate(n).Fingerprint
		if seen[fp] {
			t.Fatalf("adjacent bucket collided: %+v -> %s", n, fp)
		}
		seen[fp] = true
	}
}

func TestFingerprintForm(t *testing.T) {
	t.Parallel()

	fp := Generate(Snapshot{Arc1: 1}).Fingerprint
	if _, err := ParseFingerprint(string(fp)); err != nil {
		t.Fatalf("generated fingerprint does not parse: %v", err)
	}
	if !Sentinel.IsSentinel() || fp.IsSentinel() {
		t.Fatalf("sentinel detection wrong")
	}
	for _, bad := range []string{"", "0123", "0123456789ABCDEF", "0123456789abcdeg", "0123456789abcdef0"} {
		_, err := ParseFingerprint(bad)
		if perr.CodeOf(err) != perr.ErrorCodeInvalidArgument {
			t.Errorf("ParseFingerprint(%q) err = %v", bad, err)
		}
	}
}
