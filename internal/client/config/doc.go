// Package config loads runtime configuration for the admin console.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file (see parseJson) selected via flags: -c or -config.
//  3. Environment variables with the ARCADMIN_ prefix (see parseEnv).
//  4. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-a string   base URL of the backend REST API
//	-l int      directory page size
//	-t int      request timeout (seconds)
//	-d string   path to the local database file
//
// # JSON schema
//
// The JSON loader uses timex.Duration for the timeout, so values can be
// either strings like "10s" or integer nanoseconds:
//
//	{
//	  "base_url": "https://admin.example.org",
//	  "page_limit": 15,
//	  "request_timeout": "10s",
//	  "db_path": "/var/lib/arcadmin/arcadmin.db"
//	}
//
// Environment variables
//
//	ARCADMIN_BASE_URL, ARCADMIN_PAGE_LIMIT, ARCADMIN_REQUEST_TIMEOUT,
//	ARCADMIN_DB_PATH
//
// Primary API
//
//   - type Config                     — holds BaseURL, PageLimit, RequestTimeout, DBPath
//   - func LoadConfig() *Config       — builds Config by layering all sources
//   - func (*Config) LoadDefaults()   — sets sensible defaults
package config
