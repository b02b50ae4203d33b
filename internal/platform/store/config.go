package store

import (
	"time"

	"github.com/mguthriem/sxl4snap/internal/platform/config"
)

// Config aggregates per backend configuration
type Config struct {
	AppName string
	PG      PGConfig
}

// PGConfig configures postgres connectivity and tracing
type PGConfig struct {
	Enabled     bool
	URL         string
	MaxConns    int32
	LogSQL      bool
	SlowQueryMs int

	ConnectRetries int           // default 20
	PingTimeout    time.Duration // default 3s
}

// ConfigFromEnv reads SERVICE_PGSQL_* settings; postgres is enabled when a URL is present
func ConfigFromEnv(appName string) Config {
	c := config.New().Prefix("SERVICE_PGSQL_")
	url := c.MayString("URL", "")
	return Config{
		AppName: appName,
		PG: PGConfig{
			Enabled:        c.MayBool("ENABLED", url != "") && url != "",
			URL:            url,
			MaxConns:       int32(c.MayInt("MAX_CONNS", 4)),
			LogSQL:         c.MayBool("LOG_SQL", false),
			SlowQueryMs:    c.MayInt("SLOW_MS", 250),
			ConnectRetries: c.MayInt("CONNECT_RETRIES", 20),
			PingTimeout:    c.MayDuration("PING_TIMEOUT", 3*time.Second),
		},
	}
}
