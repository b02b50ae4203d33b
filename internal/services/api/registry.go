package api

import (
	"github.com/mguthriem/sxl4snap/internal/platform/config"
	perr "github.com/mguthriem/sxl4snap/internal/platform/errors"
	"github.com/mguthriem/sxl4snap/internal/platform/store"
)

// Registry modes accepted by CORE_API_REGISTRY
const (
	RegistryAuto     = "auto"
	RegistryOff      = "off"
	RegistryRequired = "required"
)

// StoreConfig applies CORE_API_REGISTRY to the SERVICE_PGSQL_* settings.
// auto keeps postgres when a URL is set, off never opens it, required fails without it
func StoreConfig(c config.Conf, sc store.Config) (store.Config, error) {
	mode := c.Prefix("CORE_API_").MayEnum("REGISTRY", RegistryAuto, RegistryAuto, RegistryOff, RegistryRequired)
	switch mode {
	case RegistryOff:
		sc.PG.Enabled = false
	case RegistryRequired:
		if !sc.PG.Enabled {
			return sc, perr.Unavailablef("CORE_API_REGISTRY=required but SERVICE_PGSQL_URL is not set")
		}
	}
	return sc, nil
}
