package nexus

import "testing"

func TestFixedPadding(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name     string
		raw      string
		spacePad bool
		want     string
	}{
		{"nul padded", "abc\x00\x00\x00", false, "abc"},
		{"nul terminated with junk", "ab\x00zz", false, "ab"},
		{"space padded", "abc   ", true, "abc"},
		{"space padded keeps inner spaces", "a b  ", true, "a b"},
		{"spaces kept when nul padded", "ab  \x00", false, "ab  "},
		{"full width", "abcdef", true, "abcdef"},
	}
	for _, c := range cases {
		if got := trimFixed([]byte(c.raw), c.spacePad); got != c.want {
			t.Errorf("%s: trimFixed = %q want %q", c.name, got, c.want)
		}
	}

	buf := []byte("xxxxxx")
	padFixed(buf, "ab", true)
	if string(buf) != "ab    " {
		t.Fatalf("space pad = %q", buf)
	}
	padFixed(buf, "abc", false)
	if string(buf) != "abc\x00\x00\x00" {
		t.Fatalf("nul pad = %q", buf)
	}
}
