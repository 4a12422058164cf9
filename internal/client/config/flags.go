package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/macrobook/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
//	-a string   API base URL
//	-d string   path of the SQLite state file
//	-s int      stale time (seconds)
//	-b int      search debounce (milliseconds)
//	-t int      request timeout (seconds, 0 = none)
//	-l string   log level
//
// Only these flags are parsed (flagx.FilterArgs) so the JSON and env file
// flags do not interfere.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-d", "-s", "-b", "-t", "-l"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.APIBaseURL, "a", cfg.APIBaseURL, "API base URL")
	fs.StringVar(&cfg.StateDB, "d", cfg.StateDB, "path of the local state database")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level (debug, info, warn, error)")
	staleTime := fs.Int("s", int(cfg.StaleTime.Seconds()), "cache stale time (in seconds)")
	debounce := fs.Int("b", int(cfg.SearchDebounce.Milliseconds()), "search debounce (in milliseconds)")
	timeout := fs.Int("t", int(cfg.RequestTimeout.Seconds()), "request timeout (in seconds, 0 disables)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "s":
			cfg.StaleTime = time.Duration(*staleTime) * time.Second
		case "b":
			cfg.SearchDebounce = time.Duration(*debounce) * time.Millisecond
		case "t":
			cfg.RequestTimeout = time.Duration(*timeout) * time.Second
		}
	})
}
