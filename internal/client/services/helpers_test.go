package services

import (
	"context"
	"testing"

	"github.com/dmitrijs2005/macrobook/internal/client/api"
	"github.com/dmitrijs2005/macrobook/internal/client/api/apitest"
	"github.com/dmitrijs2005/macrobook/internal/client/query"
	"github.com/dmitrijs2005/macrobook/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/macrobook/internal/client/routes"
	"github.com/dmitrijs2005/macrobook/internal/client/session"
	"github.com/dmitrijs2005/macrobook/internal/client/storage"
	"github.com/dmitrijs2005/macrobook/internal/client/tokenstore"
	"github.com/dmitrijs2005/macrobook/internal/logging"
	"github.com/stretchr/testify/require"
)

const (
	email    = "a@b.com"
	password = "pw"
)

type fixture struct {
	srv  *apitest.Server
	sess *session.Session
	nav  *routes.History
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()

	srv := apitest.New(t)
	srv.SeedUser(email, password)

	db, err := storage.Open(ctx, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	tokens, err := tokenstore.Open(ctx, metadata.NewSQLiteRepository(db))
	require.NoError(t, err)

	client, err := api.New(srv.URL)
	require.NoError(t, err)

	nav := routes.NewHistory()
	sess := session.New(tokens, client, query.NewCache(), nav, logging.Nop())
	return &fixture{srv: srv, sess: sess, nav: nav}
}

// signIn stores a valid token for the seeded user without going through
// the login endpoint.
func (f *fixture) signIn(t *testing.T) {
	t.Helper()
	require.NoError(t, f.sess.SignIn(context.Background(), f.srv.TokenFor(email)))
}
