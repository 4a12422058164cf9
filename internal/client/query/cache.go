package query

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dmitrijs2005/macrobook/internal/logging"
	"github.com/sethvargo/go-retry"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

// ErrCancelled is returned to callers of a fetch whose result was dropped
// because the entry was cancelled, overwritten or removed meanwhile.
var ErrCancelled = errors.New("query cancelled")

// FetchFunc loads the data of one entry.
type FetchFunc func(ctx context.Context) (any, error)

type entry struct {
	key        Key
	data       any
	hasData    bool
	err        error
	status     Status
	updatedAt  time.Time
	invalid    bool
	generation uint64
	fetch      FetchFunc
	opts       Options
	cancel     context.CancelFunc
}

// Cache holds query entries by key hash and de-duplicates their fetches.
type Cache struct {
	mu        sync.Mutex
	entries   map[string]*entry
	seq       uint64
	group     singleflight.Group
	staleTime time.Duration
	logger    logging.Logger
	now       func() time.Time
}

// Option configures a Cache.
type Option func(*Cache)

// WithStaleTime sets the default stale time for entries whose Options do
// not carry one.
func WithStaleTime(d time.Duration) Option {
	return func(c *Cache) { c.staleTime = d }
}

// WithLogger sets the logger for dropped and failed fetches.
func WithLogger(l logging.Logger) Option {
	return func(c *Cache) { c.logger = l }
}

// NewCache returns an empty cache with DefaultStaleTime.
func NewCache(opts ...Option) *Cache {
	c := &Cache{
		entries:   make(map[string]*entry),
		staleTime: DefaultStaleTime,
		logger:    logging.Nop(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Cache) entryLocked(key Key) *entry {
	h := key.Hash()
	e, ok := c.entries[h]
	if !ok {
		c.seq++
		e = &entry{key: key, generation: c.seq}
		c.entries[h] = e
	}
	return e
}

func (c *Cache) staleTimeFor(o Options) time.Duration {
	if o.StaleTime > 0 {
		return o.StaleTime
	}
	return c.staleTime
}

func (c *Cache) freshLocked(e *entry) bool {
	if !e.hasData || e.invalid || e.status == StatusError {
		return false
	}
	return c.now().Sub(e.updatedAt) < c.staleTimeFor(e.opts)
}

// resetLocked moves e to a new generation and cancels the in-flight fetch,
// if any. Generations come from one counter shared by all entries, so an
// entry recreated after removal never reuses the generation of a fetch
// started for its predecessor.
func (c *Cache) resetLocked(e *entry) {
	c.seq++
	e.generation = c.seq
	if e.cancel != nil {
		e.cancel()
		e.cancel = nil
	}
	if e.status == StatusLoading {
		if e.hasData {
			e.status = StatusSuccess
		} else {
			e.status = StatusIdle
		}
	}
}

// fetch runs fn for key, sharing the call with concurrent fetches of the
// same key and generation. The fetch itself is detached from ctx
// cancellation so one caller giving up does not fail the others; values
// carried by ctx are kept.
func (c *Cache) fetch(ctx context.Context, key Key, fn FetchFunc, opts Options) (any, error) {
	c.mu.Lock()
	e := c.entryLocked(key)
	e.fetch, e.opts = fn, opts
	if !e.hasData {
		e.status = StatusLoading
	}
	gen := e.generation
	c.mu.Unlock()

	sfKey := fmt.Sprintf("%s@%d", key.Hash(), gen)
	ch := c.group.DoChan(sfKey, func() (any, error) {
		return c.run(context.WithoutCancel(ctx), key, gen, fn, opts)
	})

	select {
	case r := <-ch:
		return r.Val, r.Err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (c *Cache) run(ctx context.Context, key Key, gen uint64, fn FetchFunc, opts Options) (any, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	h := key.Hash()
	c.mu.Lock()
	e, ok := c.entries[h]
	if !ok || e.generation != gen {
		c.mu.Unlock()
		return nil, ErrCancelled
	}
	e.cancel = cancel
	c.mu.Unlock()

	v, err := attempt(ctx, fn, opts)

	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok = c.entries[h]
	if !ok || e.generation != gen {
		c.logger.Debug(ctx, "query result dropped", "key", h)
		return nil, ErrCancelled
	}
	e.cancel = nil
	if err != nil {
		e.status, e.err = StatusError, err
		c.logger.Debug(ctx, "query failed", "key", h, "error", err)
		return nil, err
	}
	e.data, e.hasData, e.err = v, true, nil
	e.status, e.updatedAt, e.invalid = StatusSuccess, c.now(), false
	return v, nil
}

// attempt calls fn once plus opts.Retry retries with a constant delay.
func attempt(ctx context.Context, fn FetchFunc, opts Options) (any, error) {
	if opts.Retry <= 0 {
		return fn(ctx)
	}
	delay := opts.RetryDelay
	if delay <= 0 {
		delay = DefaultRetryDelay
	}

	var v any
	backoff := retry.WithMaxRetries(uint64(opts.Retry), retry.NewConstant(delay))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		var err error
		v, err = fn(ctx)
		if err != nil && ctx.Err() == nil {
			return retry.RetryableError(err)
		}
		return err
	})
	return v, err
}

// snapshot returns the entry state for key. ok is false when there is no
// entry.
func (c *Cache) snapshot(key Key) (entry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key.Hash()]
	if !ok {
		return entry{key: key}, false
	}
	return *e, true
}

// GetQueryData returns the cached data for key.
func (c *Cache) GetQueryData(key Key) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key.Hash()]
	if !ok || !e.hasData {
		return nil, false
	}
	return e.data, true
}

// SetQueryData writes data for key as a fresh successful result. Any fetch
// in flight for key is cancelled and its result dropped.
func (c *Cache) SetQueryData(key Key, data any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e := c.entryLocked(key)
	c.resetLocked(e)
	e.data, e.hasData, e.err = data, true, nil
	e.status, e.updatedAt, e.invalid = StatusSuccess, c.now(), false
}

func (c *Cache) update(key Key, fn func(any) (any, bool)) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key.Hash()]
	if !ok || !e.hasData {
		return false
	}
	v, ok := fn(e.data)
	if !ok {
		return false
	}
	c.resetLocked(e)
	e.data, e.err = v, nil
	e.status, e.updatedAt, e.invalid = StatusSuccess, c.now(), false
	return true
}

// CancelQueries cancels in-flight fetches of every entry under prefix.
// Their results, when they arrive, are dropped.
func (c *Cache) CancelQueries(prefix Key) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, e := range c.entries {
		if e.key.HasPrefix(prefix) {
			c.resetLocked(e)
		}
	}
}

// InvalidateQueries marks every entry under prefix stale so that the next
// Get refetches it.
func (c *Cache) InvalidateQueries(prefix Key) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, e := range c.entries {
		if e.key.HasPrefix(prefix) {
			e.invalid = true
		}
	}
}

// RefetchQueries re-runs the remembered fetch of every enabled entry under
// prefix and waits for them. The first error is returned.
func (c *Cache) RefetchQueries(ctx context.Context, prefix Key) error {
	type job struct {
		key  Key
		fn   FetchFunc
		opts Options
	}
	var jobs []job

	c.mu.Lock()
	for _, e := range c.entries {
		if e.key.HasPrefix(prefix) && e.fetch != nil && e.opts.enabled() {
			e.invalid = true
			c.resetLocked(e)
			jobs = append(jobs, job{key: e.key, fn: e.fetch, opts: e.opts})
		}
	}
	c.mu.Unlock()

	g, gctx := errgroup.WithContext(ctx)
	for _, j := range jobs {
		g.Go(func() error {
			_, err := c.fetch(gctx, j.key, j.fn, j.opts)
			if errors.Is(err, ErrCancelled) {
				return nil
			}
			return err
		})
	}
	return g.Wait()
}

// Remove drops the entry for exactly key.
func (c *Cache) Remove(key Key) {
	c.mu.Lock()
	defer c.mu.Unlock()
	h := key.Hash()
	if e, ok := c.entries[h]; ok {
		c.resetLocked(e)
		delete(c.entries, h)
	}
}

// RemoveQueries drops every entry under prefix.
func (c *Cache) RemoveQueries(prefix Key) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for h, e := range c.entries {
		if e.key.HasPrefix(prefix) {
			c.resetLocked(e)
			delete(c.entries, h)
		}
	}
}

// Clear drops every entry.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for h, e := range c.entries {
		c.resetLocked(e)
		delete(c.entries, h)
	}
}

// Keys lists the keys currently cached.
func (c *Cache) Keys() []Key {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Key, 0, len(c.entries))
	for _, e := range c.entries {
		out = append(out, e.key)
	}
	return out
}
