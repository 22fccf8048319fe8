package config

import "time"

// Config holds runtime settings for the admin console.
//
// Fields:
//   - BaseURL: root URL of the backend REST API.
//   - PageLimit: directory rows requested per page.
//   - RequestTimeout: per-request HTTP timeout.
//   - DBPath: location of the local SQLite database.
type Config struct {
	BaseURL        string
	PageLimit      int
	RequestTimeout time.Duration
	DBPath         string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.BaseURL = "http://127.0.0.1:8080"
	c.PageLimit = 10
	c.RequestTimeout = 10 * time.Second
	c.DBPath = "arcadmin.db"
}

// LoadConfig constructs a Config, applies defaults, then overlays values
// from JSON (if present), environment variables, and command-line flags.
// Later sources take precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseEnv(cfg)
	parseFlags(cfg)
	return cfg
}
