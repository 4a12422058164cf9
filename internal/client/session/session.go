// Package session holds the per-process client state shared by the views:
// the token store, the API client, the query cache and the navigator.
//
// A Session starts with no user unless a token was persisted. Logout
// clears the token and every cached entity.
package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/macrobook/internal/client/api"
	"github.com/dmitrijs2005/macrobook/internal/client/query"
	"github.com/dmitrijs2005/macrobook/internal/client/routes"
	"github.com/dmitrijs2005/macrobook/internal/client/tokenstore"
	"github.com/dmitrijs2005/macrobook/internal/logging"
)

type Session struct {
	Tokens *tokenstore.Store
	API    *api.Client
	Cache  *query.Cache
	Nav    routes.Navigator
	Logger logging.Logger
}

func New(tokens *tokenstore.Store, client *api.Client, cache *query.Cache, nav routes.Navigator, logger logging.Logger) *Session {
	if logger == nil {
		logger = logging.Nop()
	}
	if cache == nil {
		cache = query.NewCache(query.WithLogger(logger))
	}
	if nav == nil {
		nav = routes.NewHistory()
	}
	return &Session{Tokens: tokens, API: client, Cache: cache, Nav: nav, Logger: logger}
}

// Authorized attaches the current token, if any, to ctx for API calls.
func (s *Session) Authorized(ctx context.Context) context.Context {
	token, ok := s.Tokens.Get()
	if !ok {
		return ctx
	}
	return api.WithToken(ctx, token)
}

// SignIn stores token as the current user's and drops data cached for any
// previous user.
func (s *Session) SignIn(ctx context.Context, token string) error {
	if err := s.Tokens.Set(ctx, token); err != nil {
		return fmt.Errorf("store token: %w", err)
	}
	s.Cache.Clear()
	return nil
}

// Logout clears the token and all cached entities and returns to the
// welcome view.
func (s *Session) Logout(ctx context.Context) error {
	if err := s.Tokens.Clear(ctx); err != nil {
		return fmt.Errorf("clear token: %w", err)
	}
	s.Cache.Clear()
	s.Nav.Navigate(routes.Home)
	return nil
}

// RedirectOnAuthError sends the user to the login view when err means the
// server could not be reached or rejected the token. It reports whether it
// did.
func (s *Session) RedirectOnAuthError(ctx context.Context, err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, api.ErrUnavailable) || errors.Is(err, api.ErrUnauthorized) {
		s.Logger.Info(ctx, "redirecting to login", "error", err)
		s.Nav.Navigate(routes.Login)
		return true
	}
	return false
}
