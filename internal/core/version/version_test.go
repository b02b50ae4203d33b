package version

import (
	"runtime"
	"testing"
)

func TestInfo(t *testing.T) {
	t.Parallel()
	bi := Info("sxl-api")
	if bi.Service != "sxl-api" || bi.Version != "dev" || bi.GoVersion != runtime.Version() {
		t.Fatalf("info = %+v", bi)
	}
}
