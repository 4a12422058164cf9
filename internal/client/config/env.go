package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/dmitrijs2005/macrobook/internal/flagx"
	"github.com/joho/godotenv"
)

// Environment variables read by parseEnv.
const (
	EnvAPIURL         = "MACROBOOK_API_URL"
	EnvStateDB        = "MACROBOOK_STATE_DB"
	EnvStaleTime      = "MACROBOOK_STALE_TIME"
	EnvSearchDebounce = "MACROBOOK_SEARCH_DEBOUNCE"
	EnvRequestTimeout = "MACROBOOK_REQUEST_TIMEOUT"
	EnvLogLevel       = "MACROBOOK_LOG_LEVEL"
	EnvS3Region       = "MACROBOOK_S3_REGION"
	EnvS3Endpoint     = "MACROBOOK_S3_ENDPOINT"
	EnvS3AccessKey    = "MACROBOOK_S3_ACCESS_KEY"
	EnvS3SecretKey    = "MACROBOOK_S3_SECRET_KEY"
)

const defaultEnvFile = ".env"

// parseEnv overlays Config with MACROBOOK_* environment variables.
//
// A dotenv file is loaded first: the path given by -e/-env, or ./.env when
// it exists. Variables already set in the process environment win over the
// file. Durations use time.ParseDuration syntax ("300ms", "5m").
//
// Panics when an explicitly requested file cannot be loaded or a duration
// does not parse.
func parseEnv(cfg *Config) {
	if path := flagx.EnvFileFlags(); path != "" {
		if err := godotenv.Load(path); err != nil {
			panic(err)
		}
	} else if err := godotenv.Load(defaultEnvFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		panic(err)
	}

	setString(&cfg.APIBaseURL, EnvAPIURL)
	setString(&cfg.StateDB, EnvStateDB)
	setString(&cfg.LogLevel, EnvLogLevel)
	setString(&cfg.S3Region, EnvS3Region)
	setString(&cfg.S3Endpoint, EnvS3Endpoint)
	setString(&cfg.S3AccessKey, EnvS3AccessKey)
	setString(&cfg.S3SecretKey, EnvS3SecretKey)

	setDuration(&cfg.StaleTime, EnvStaleTime)
	setDuration(&cfg.SearchDebounce, EnvSearchDebounce)
	setDuration(&cfg.RequestTimeout, EnvRequestTimeout)
}

func setString(dst *string, name string) {
	if v, ok := os.LookupEnv(name); ok && v != "" {
		*dst = v
	}
}

func setDuration(dst *time.Duration, name string) {
	v, ok := os.LookupEnv(name)
	if !ok || v == "" {
		return
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		panic(fmt.Errorf("%s: %w", name, err))
	}
	*dst = d
}
