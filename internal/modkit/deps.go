// Package modkit provides module wiring and core deps
package modkit

import (
	"github.com/mguthriem/sxl4snap/internal/platform/config"
	"github.com/mguthriem/sxl4snap/internal/platform/logger"
	"github.com/mguthriem/sxl4snap/internal/platform/store"
)

// Deps holds core dependencies passed to modules
type Deps struct {
	Log logger.Logger
	Cfg config.Conf
	// PG is nil when the state registry is disabled; modules must nil check
	PG store.TxRunner
}
