package query

import "time"

const (
	DefaultStaleTime  = 5 * time.Minute
	DefaultRetryDelay = time.Second
)

// Options tune a single Get call.
type Options struct {
	// StaleTime is how long a successful result is served without a
	// refetch. Zero means the cache default.
	StaleTime time.Duration
	// Enabled gates the fetch. Nil means enabled.
	Enabled *bool
	// Retry is the number of additional attempts after a failed fetch.
	Retry int
	// RetryDelay is the constant pause between attempts. Zero means
	// DefaultRetryDelay.
	RetryDelay time.Duration
	// Background serves stale data immediately and refreshes it
	// asynchronously instead of blocking on the refetch.
	Background bool
}

// Bool is a helper for Options.Enabled.
func Bool(v bool) *bool { return &v }

func (o Options) enabled() bool { return o.Enabled == nil || *o.Enabled }
