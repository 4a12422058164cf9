package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/dmitrijs2005/macrobook/internal/flagx"
	"github.com/dmitrijs2005/macrobook/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling.
// Durations are timex.Duration so they can be strings like "300ms" or
// integer nanoseconds. Absent fields leave the Config untouched.
type JsonConfig struct {
	APIBaseURL     *string         `json:"api_base_url"`
	StateDB        *string         `json:"state_db"`
	StaleTime      *timex.Duration `json:"stale_time"`
	SearchDebounce *timex.Duration `json:"search_debounce"`
	RequestTimeout *timex.Duration `json:"request_timeout"`
	LogLevel       *string         `json:"log_level"`
	S3Region       *string         `json:"s3_region"`
	S3Endpoint     *string         `json:"s3_endpoint"`
	S3AccessKey    *string         `json:"s3_access_key"`
	S3SecretKey    *string         `json:"s3_secret_key"`
}

// parseJson overlays Config with values loaded from the JSON file named by
// -c or -config. Without either flag it does nothing. Panics on read or
// unmarshal errors.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	copyString(&cfg.APIBaseURL, jc.APIBaseURL)
	copyString(&cfg.StateDB, jc.StateDB)
	copyString(&cfg.LogLevel, jc.LogLevel)
	copyString(&cfg.S3Region, jc.S3Region)
	copyString(&cfg.S3Endpoint, jc.S3Endpoint)
	copyString(&cfg.S3AccessKey, jc.S3AccessKey)
	copyString(&cfg.S3SecretKey, jc.S3SecretKey)
	copyDuration(&cfg.StaleTime, jc.StaleTime)
	copyDuration(&cfg.SearchDebounce, jc.SearchDebounce)
	copyDuration(&cfg.RequestTimeout, jc.RequestTimeout)
}

func copyString(dst, src *string) {
	if src != nil {
		*dst = *src
	}
}

func copyDuration(dst *time.Duration, src *timex.Duration) {
	if src != nil {
		*dst = src.Duration
	}
}
