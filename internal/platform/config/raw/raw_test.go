package raw

import "testing"

func TestGet_PrefixAndDefaults(t *testing.T) {
	t.Setenv("LOG_LEVEL", "  info ")
	t.Setenv("LOG_CALLER", "yes")
	t.Setenv("LOG_SAMPLE_EVERY", "4")
	t.Setenv("LOG_BAD_INT", "-3")

	rc := New().Prefix("LOG_")
	if got := rc.Get("LEVEL", "debug"); got != "info" {
		t.Fatalf("Get = %q", got)
	}
	if got := rc.Get("MISSING", "debug"); got != "debug" {
		t.Fatalf("Get default = %q", got)
	}
	if !rc.GetBool("CALLER", false) {
		t.Fatalf("GetBool yes should be true")
	}
	if rc.GetBool("MISSING", false) {
		t.Fatalf("GetBool default should be false")
	}
	if got := rc.GetInt("SAMPLE_EVERY", 0); got != 4 {
		t.Fatalf("GetInt = %d", got)
	}
	if got := rc.GetInt("BAD_INT", 7); got != 7 {
		t.Fatalf("GetInt negative should fall back, got %d", got)
	}
}
