package config

import (
	"time"

	"github.com/caarlos0/env/v11"
)

// envConfig mirrors Config for environment parsing. All variables carry the
// ARCADMIN_ prefix, e.g. ARCADMIN_BASE_URL.
type envConfig struct {
	BaseURL        string        `env:"BASE_URL"`
	PageLimit      int           `env:"PAGE_LIMIT"`
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT"`
	DBPath         string        `env:"DB_PATH"`
}

// parseEnv overlays Config with values from the environment. Unset
// variables keep the current values. Panics on unparsable values.
func parseEnv(cfg *Config) {
	var ec envConfig
	if err := env.ParseWithOptions(&ec, env.Options{Prefix: "ARCADMIN_"}); err != nil {
		panic(err)
	}

	if ec.BaseURL != "" {
		cfg.BaseURL = ec.BaseURL
	}
	if ec.PageLimit > 0 {
		cfg.PageLimit = ec.PageLimit
	}
	if ec.RequestTimeout > 0 {
		cfg.RequestTimeout = ec.RequestTimeout
	}
	if ec.DBPath != "" {
		cfg.DBPath = ec.DBPath
	}
}
