// Package tokenstore keeps the session's bearer token.
//
// The token lives in two places: an in-memory slot that views read and
// subscribe to, and a durable slot in the local state database so that it
// survives restarts. Absence of the durable row means "logged out"; an empty
// string is never stored. No expiry is tracked: a token is considered valid
// until a request made with it is rejected.
package tokenstore

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dmitrijs2005/macrobook/internal/client/repositories/metadata"
	"github.com/golang-jwt/jwt/v5"
)

// StorageKey is the durable slot holding the token.
const StorageKey = "authToken"

var (
	ErrEmptyToken = errors.New("empty token")
	ErrNoToken    = errors.New("no token")
)

// Listener is called after every change of the in-memory slot.
type Listener func(token string, ok bool)

type Store struct {
	repo metadata.Repository
	now  func() time.Time

	mu        sync.RWMutex
	token     string
	ok        bool
	since     time.Time
	listeners map[int]Listener
	nextID    int
}

// Open creates a Store and loads the persisted token, if any.
func Open(ctx context.Context, repo metadata.Repository) (*Store, error) {
	s := &Store{repo: repo, now: time.Now, listeners: make(map[int]Listener)}

	slot, err := repo.Load(ctx, StorageKey)
	switch {
	case errors.Is(err, metadata.ErrNotFound):
	case err != nil:
		return nil, fmt.Errorf("load token: %w", err)
	default:
		s.token, s.ok, s.since = slot.Value, true, slot.UpdatedAt
	}
	return s, nil
}

// Get returns the current token and whether one is present.
func (s *Store) Get() (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token, s.ok
}

func (s *Store) IsLoggedIn() bool {
	_, ok := s.Get()
	return ok
}

// Since reports when the current token was stored.
func (s *Store) Since() (time.Time, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.since, s.ok
}

// Set persists token and then publishes it to the in-memory slot.
// If persisting fails the in-memory slot is left unchanged.
func (s *Store) Set(ctx context.Context, token string) error {
	if token == "" {
		return ErrEmptyToken
	}
	at := s.now()
	if err := s.repo.Store(ctx, metadata.Slot{Key: StorageKey, Value: token, UpdatedAt: at}); err != nil {
		return fmt.Errorf("persist token: %w", err)
	}
	s.publish(token, true, at)
	return nil
}

// Clear removes the persisted entry entirely and empties the in-memory slot.
func (s *Store) Clear(ctx context.Context) error {
	if _, err := s.repo.Remove(ctx, StorageKey); err != nil {
		return fmt.Errorf("clear token: %w", err)
	}
	s.publish("", false, time.Time{})
	return nil
}

// Subscribe registers fn and returns a function that unregisters it.
func (s *Store) Subscribe(fn Listener) (unsubscribe func()) {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.listeners, id)
		s.mu.Unlock()
	}
}

func (s *Store) publish(token string, ok bool, since time.Time) {
	s.mu.Lock()
	s.token, s.ok, s.since = token, ok, since
	listeners := make([]Listener, 0, len(s.listeners))
	for _, l := range s.listeners {
		listeners = append(listeners, l)
	}
	s.mu.Unlock()

	for _, l := range listeners {
		l(token, ok)
	}
}

// Identity is what the client can tell about the signed-in user by looking
// at the token. It is informational only.
type Identity struct {
	Subject string
	Email   string
}

// Identity decodes the current token without verifying its signature.
// Opaque (non-JWT) tokens yield an error; callers should treat that as
// "identity unknown", not as logged out.
func (s *Store) Identity() (Identity, error) {
	token, ok := s.Get()
	if !ok {
		return Identity{}, ErrNoToken
	}

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return Identity{}, fmt.Errorf("decode token: %w", err)
	}

	var id Identity
	id.Subject, _ = claims.GetSubject()
	if email, ok := claims["email"].(string); ok {
		id.Email = email
	}
	return id, nil
}
