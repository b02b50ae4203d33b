// Package version reports build information stamped in with -ldflags
package version

import "runtime"

// BuildInfo describes the running binary
type BuildInfo struct {
	Service   string `json:"service"`
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	Date      string `json:"date"`
	GoVersion string `json:"go"`
}

// Info returns build information for service
// Set via -ldflags "-X 'github.com/mguthriem/sxl4snap/internal/core/version.version=v0.1.0'
// -X 'github.com/mguthriem/sxl4snap/internal/core/version.commit=abcd'"
func Info(service string) BuildInfo {
	return BuildInfo{
		Service:   service,
		Version:   version,
		Commit:    commit,
		Date:      date,
		GoVersion: runtime.Version(),
	}
}

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)
