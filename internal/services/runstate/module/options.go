package module

import (
	"time"

	"github.com/mguthriem/sxl4snap/internal/instrument"
	"github.com/mguthriem/sxl4snap/internal/platform/config"
)

// Options holds configuration settings for the runstate module
type Options struct {
	Instrument instrument.Config
	ListLimit  int
	// StatementTimeout bounds each registry statement; negative disables it
	StatementTimeout time.Duration
}

// FromConfig extracts Options from the given config.Conf
func FromConfig(cfg config.Conf) Options {
	sc := cfg.Prefix("CORE_STATE_")
	return Options{
		ListLimit:        sc.MayInt("LIST_LIMIT", 500),
		StatementTimeout: sc.MayDuration("STATEMENT_TIMEOUT", 5*time.Second),
	}
}
