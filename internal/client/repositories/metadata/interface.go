// Package metadata persists the client's session state slots (such as the
// identity token) in the local state database.
package metadata

import (
	"context"
	"errors"
	"time"
)

var ErrNotFound = errors.New("slot not found")

// Slot is one persisted value. Empty values are never stored; a cleared
// slot has no row at all.
type Slot struct {
	Key       string
	Value     string
	UpdatedAt time.Time
}

type Repository interface {
	// Load returns ErrNotFound when the slot is absent.
	Load(ctx context.Context, key string) (Slot, error)
	Store(ctx context.Context, slot Slot) error
	// Remove reports whether a row was deleted.
	Remove(ctx context.Context, key string) (bool, error)
}
