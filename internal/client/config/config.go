package config

import "time"

// DefaultAPIURL is the API base URL baked into the binary. Override at
// build time with -ldflags "-X github.com/dmitrijs2005/macrobook/internal/client/config.DefaultAPIURL=https://...".
var DefaultAPIURL = "http://localhost:8080"

// Config holds runtime settings for the macrobook CLI.
//
// Fields:
//   - APIBaseURL: base URL of the REST API; every call is relative to it.
//   - StateDB: SQLite file holding the persisted token.
//   - StaleTime: how long fetched data is served from cache.
//   - SearchDebounce: quiet period before the ingredient search runs.
//   - RequestTimeout: per-request HTTP timeout; zero means none.
//   - LogLevel: debug, info, warn or error.
//   - S3*: optional settings for loading images from s3:// references.
type Config struct {
	APIBaseURL     string
	StateDB        string
	StaleTime      time.Duration
	SearchDebounce time.Duration
	RequestTimeout time.Duration
	LogLevel       string

	S3Region    string
	S3Endpoint  string
	S3AccessKey string
	S3SecretKey string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.APIBaseURL = DefaultAPIURL
	c.StateDB = "macrobook.db"
	c.StaleTime = 5 * time.Minute
	c.SearchDebounce = 300 * time.Millisecond
	c.RequestTimeout = 0
	c.LogLevel = "warn"
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// the environment (optionally read from a .env file), JSON (if present) and
// command-line flags (if present). Later sources take precedence over earlier
// ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg)
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
