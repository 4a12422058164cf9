package services

import (
	"context"
	"net/http"
	"testing"

	"github.com/dmitrijs2005/macrobook/internal/client/api"
	"github.com/dmitrijs2005/macrobook/internal/client/models"
	"github.com/dmitrijs2005/macrobook/internal/client/routes"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogin_StoresTokenAndAuthorizesLaterCalls(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	auth := NewAuthService(f.sess)
	ingredients := NewIngredientService(f.sess)

	f.srv.RespondNext(http.MethodPost, "/api/auth/login", http.StatusOK, `{"identityToken":"T"}`)
	require.NoError(t, auth.Login(ctx, models.Credentials{Email: email, Password: password}))

	token, ok := f.sess.Tokens.Get()
	require.True(t, ok)
	assert.Equal(t, "T", token)
	assert.Equal(t, routes.MyRecipes, f.nav.Current())

	// "T" is not a token the server issued, so it answers a bare 401.
	r := ingredients.List(ctx)
	require.True(t, r.IsError())
	assert.ErrorIs(t, r.Err, api.ErrUnauthorized)

	reqs := f.srv.Requests()
	last := reqs[len(reqs)-1]
	assert.Equal(t, "/api/ingredients", last.Path)
	assert.Equal(t, "Bearer T", last.Authorization)
	assert.Equal(t, routes.Login, f.nav.Current())
}

func TestLogin_RealToken(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	auth := NewAuthService(f.sess)

	require.NoError(t, auth.Login(ctx, models.Credentials{Email: email, Password: password}))

	id, err := auth.Identity()
	require.NoError(t, err)
	assert.Equal(t, email, id.Email)

	r := NewRecipeService(f.sess).List(ctx)
	require.True(t, r.IsSuccess(), "%v", r.Err)
	assert.Equal(t, routes.MyRecipes, f.nav.Current())
}

func TestLogin_Rejected(t *testing.T) {
	f := newFixture(t)
	auth := NewAuthService(f.sess)

	err := auth.Login(context.Background(), models.Credentials{Email: email, Password: "nope"})
	require.ErrorIs(t, err, api.ErrUnauthorized)
	assert.Equal(t, "Incorrect username or password.", api.Message(err, ""))
	assert.False(t, f.sess.Tokens.IsLoggedIn())
	assert.Equal(t, routes.Home, f.nav.Current())
}

func TestLogin_ValidationNeverReachesServer(t *testing.T) {
	f := newFixture(t)
	auth := NewAuthService(f.sess)

	err := auth.Login(context.Background(), models.Credentials{Email: email})
	require.ErrorIs(t, err, models.ErrValidation)
	assert.Empty(t, f.srv.Requests())
}

func TestSignupAndConfirm(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	auth := NewAuthService(f.sess)
	creds := models.Credentials{Email: "new@b.com", Password: "secret"}

	require.NoError(t, auth.Signup(ctx, creds))
	assert.Equal(t, routes.ConfirmEmail, f.nav.Current())

	err := auth.Login(ctx, creds)
	assert.Equal(t, "User is not confirmed.", api.Message(err, ""))

	err = auth.ConfirmEmail(ctx, models.EmailConfirmation{Email: creds.Email, ConfirmationCode: "wrong"})
	assert.Equal(t, "Invalid verification code provided, please try again.", api.Message(err, ""))
	assert.Equal(t, routes.ConfirmEmail, f.nav.Current())

	code := f.srv.ConfirmationCode(creds.Email)
	require.NoError(t, auth.ConfirmEmail(ctx, models.EmailConfirmation{Email: creds.Email, ConfirmationCode: code}))
	assert.Equal(t, routes.Login, f.nav.Current())

	require.NoError(t, auth.Login(ctx, creds))
	assert.Equal(t, routes.MyRecipes, f.nav.Current())

	err = auth.Signup(ctx, creds)
	assert.Equal(t, http.StatusConflict, api.Status(err))
}

func TestLogout_ClearsTokenAndCache(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.signIn(t)
	f.srv.SeedIngredient(email, models.Ingredient{Name: "oats", DisplayName: "Oats"})

	r := NewIngredientService(f.sess).List(ctx)
	require.True(t, r.IsSuccess())
	require.NotEmpty(t, f.sess.Cache.Keys())

	require.NoError(t, NewAuthService(f.sess).Logout(ctx))
	assert.False(t, f.sess.Tokens.IsLoggedIn())
	assert.Empty(t, f.sess.Cache.Keys())
	assert.Equal(t, routes.Home, f.nav.Current())
}
