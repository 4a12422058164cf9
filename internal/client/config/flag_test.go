package config

import (
	"os"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFlags(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	base := func() *Config {
		c := &Config{}
		c.LoadDefaults()
		return c
	}

	tests := []struct {
		expected    *Config
		name        string
		args        []string
		expectPanic bool
	}{
		{
			name: "all flags",
			args: []string{"cmd", "-a", "https://api.example.com", "-d", "/tmp/m.db", "-s", "60", "-b", "150", "-t", "10", "-l", "debug"},
			expected: &Config{
				APIBaseURL:     "https://api.example.com",
				StateDB:        "/tmp/m.db",
				StaleTime:      time.Minute,
				SearchDebounce: 150 * time.Millisecond,
				RequestTimeout: 10 * time.Second,
				LogLevel:       "debug",
			},
		},
		{
			name: "unset flags keep earlier values",
			args: []string{"cmd", "-c", "ignored.json", "-a", "http://x"},
			expected: func() *Config {
				c := base()
				c.APIBaseURL = "http://x"
				return c
			}(),
		},
		{name: "incorrect stale time", args: []string{"cmd", "-s", "abc"}, expectPanic: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			os.Args = tt.args
			config := base()

			if !tt.expectPanic {
				require.NotPanics(t, func() { parseFlags(config) })
				assert.Empty(t, cmp.Diff(config, tt.expected))
			} else {
				require.Panics(t, func() { parseFlags(config) })
			}
		})
	}
}
