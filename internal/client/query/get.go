package query

import (
	"context"
	"errors"
)

// Get returns the entry for key, fetching it with fetch when it is missing,
// stale or failed. A disabled query never fetches and reports StatusIdle
// unless data is already cached.
func Get[T any](ctx context.Context, c *Cache, key Key, fetch func(ctx context.Context) (T, error), opts Options) Result[T] {
	fn := func(ctx context.Context) (any, error) { return fetch(ctx) }

	if !opts.enabled() {
		return resultOf[T](c.snapshot(key))
	}

	c.mu.Lock()
	e := c.entryLocked(key)
	e.fetch, e.opts = fn, opts
	fresh := c.freshLocked(e)
	background := opts.Background && e.hasData
	c.mu.Unlock()

	if fresh {
		return resultOf[T](c.snapshot(key))
	}
	if background {
		go func() { _, _ = c.fetch(context.WithoutCancel(ctx), key, fn, opts) }()
		r := resultOf[T](c.snapshot(key))
		r.Stale = true
		return r
	}

	_, err := c.fetch(ctx, key, fn, opts)
	r := resultOf[T](c.snapshot(key))
	if err != nil && !errors.Is(err, ErrCancelled) && r.Err == nil {
		r.Status, r.Err = StatusError, err
	}
	return r
}

// Fetch is Get that ignores freshness and always goes to the server.
func Fetch[T any](ctx context.Context, c *Cache, key Key, fetch func(ctx context.Context) (T, error), opts Options) Result[T] {
	c.InvalidateQueries(key)
	return Get(ctx, c, key, fetch, opts)
}

func resultOf[T any](e entry, ok bool) Result[T] {
	if !ok {
		return Result[T]{Status: StatusIdle}
	}
	r := Result[T]{Status: e.status, Err: e.err, UpdatedAt: e.updatedAt}
	if e.hasData {
		if v, ok := e.data.(T); ok {
			r.Data = v
		}
	}
	return r
}

// GetData is the typed form of Cache.GetQueryData.
func GetData[T any](c *Cache, key Key) (T, bool) {
	var zero T
	v, ok := c.GetQueryData(key)
	if !ok {
		return zero, false
	}
	t, ok := v.(T)
	if !ok {
		return zero, false
	}
	return t, true
}

// UpdateData replaces the cached value for key with fn(old) when the entry
// holds data of type T. It reports whether an update happened.
func UpdateData[T any](c *Cache, key Key, fn func(T) T) bool {
	return c.update(key, func(v any) (any, bool) {
		old, ok := v.(T)
		if !ok {
			return nil, false
		}
		return fn(old), true
	})
}
