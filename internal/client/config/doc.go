// Package config loads runtime configuration for the macrobook CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults). The API URL default
//     is DefaultAPIURL, settable at build time with -ldflags -X.
//  2. MACROBOOK_* environment variables, optionally read from a .env file
//     (./.env, or the file given by -e / -env).
//  3. Optional JSON file selected via -c or -config.
//  4. Command-line flags, which override earlier values.
//
// Supported flags
//
//	-a string   API base URL
//	-d string   SQLite state file
//	-s int      cache stale time (seconds)
//	-b int      search debounce (milliseconds)
//	-t int      request timeout (seconds, 0 = none)
//	-l string   log level
//
// # JSON schema
//
//	{
//	  "api_base_url": "https://api.example.com",
//	  "state_db": "/home/me/.macrobook/state.db",
//	  "stale_time": "5m",
//	  "search_debounce": "300ms",
//	  "request_timeout": "0s",
//	  "log_level": "info",
//	  "s3_region": "eu-central-1",
//	  "s3_endpoint": "http://127.0.0.1:9000",
//	  "s3_access_key": "...",
//	  "s3_secret_key": "..."
//	}
package config
