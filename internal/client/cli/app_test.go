package cli

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/macrobook/internal/client/api"
	"github.com/dmitrijs2005/macrobook/internal/client/api/apitest"
	"github.com/dmitrijs2005/macrobook/internal/client/config"
	"github.com/dmitrijs2005/macrobook/internal/client/models"
	"github.com/dmitrijs2005/macrobook/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/macrobook/internal/client/routes"
	"github.com/dmitrijs2005/macrobook/internal/client/storage"
	"github.com/dmitrijs2005/macrobook/internal/client/tokenstore"
	"github.com/dmitrijs2005/macrobook/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	email    = "a@b.com"
	password = "pw"
)

type safeBuffer struct {
	mu sync.Mutex
	b  bytes.Buffer
}

func (s *safeBuffer) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.b.Write(p)
}

func (s *safeBuffer) String() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.b.String()
}

func stubPassword(t *testing.T, pw string) {
	t.Helper()
	orig := getPassword
	getPassword = func(io.Writer) (string, error) { return pw, nil }
	t.Cleanup(func() { getPassword = orig })
}

func newTestApp(t *testing.T, input io.Reader) (*App, *apitest.Server, *safeBuffer) {
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

	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.SearchDebounce = 20 * time.Millisecond

	out := &safeBuffer{}
	return newApp(cfg, tokens, client, logging.Nop(), input, out), srv, out
}

func signIn(t *testing.T, a *App, srv *apitest.Server) {
	t.Helper()
	require.NoError(t, a.sess.SignIn(context.Background(), srv.TokenFor(email)))
}

func lines(l ...string) io.Reader {
	return strings.NewReader(strings.Join(l, "\n") + "\n")
}

func TestApp_LoginShowsIdentityInPrompt(t *testing.T) {
	stubPassword(t, password)
	a, _, out := newTestApp(t, lines(email))

	assert.Equal(t, routes.Home, a.getStatus())
	require.NoError(t, a.Login(context.Background()))

	assert.True(t, a.isLoggedIn())
	assert.Equal(t, "/my-recipes (a@b.com)", a.getStatus())
	assert.Contains(t, out.String(), "Logged in")
}

func TestApp_Whoami(t *testing.T) {
	a, srv, out := newTestApp(t, lines())

	a.Whoami()
	assert.Contains(t, out.String(), "Not logged in")

	signIn(t, a, srv)
	a.Whoami()
	assert.Contains(t, out.String(), "Logged in as a@b.com")
	assert.Contains(t, out.String(), "Signed in since")
}

func TestApp_LoginRejected(t *testing.T) {
	stubPassword(t, "wrong")
	a, _, _ := newTestApp(t, lines(email))

	err := a.Login(context.Background())
	require.Error(t, err)
	assert.Equal(t, "Incorrect username or password.", errorText(err))
	assert.False(t, a.isLoggedIn())
	assert.Equal(t, routes.Login, a.history.Current())
}

func TestApp_SignupThenConfirm(t *testing.T) {
	stubPassword(t, "secret")
	pr, pw := io.Pipe()
	a, srv, _ := newTestApp(t, pr)
	ctx := context.Background()

	go func() { _, _ = io.WriteString(pw, "new@b.com\n") }()
	require.NoError(t, a.Signup(ctx))
	assert.Equal(t, routes.ConfirmEmail, a.history.Current())

	code := srv.ConfirmationCode("new@b.com")
	require.NotEmpty(t, code)
	go func() { _, _ = io.WriteString(pw, "new@b.com\n"+code+"\n") }()
	require.NoError(t, a.ConfirmEmail(ctx))
	assert.Equal(t, routes.Login, a.history.Current())
}

func TestApp_IngredientsWithoutTokenRedirectsToLogin(t *testing.T) {
	a, _, _ := newTestApp(t, lines())

	err := a.Ingredients(context.Background())
	require.Error(t, err)
	assert.Equal(t, "Something went wrong", errorText(err))
	assert.Equal(t, routes.Login, a.history.Current())
}

func TestApp_AddIngredient(t *testing.T) {
	a, srv, out := newTestApp(t, lines("oats", "Oats", "389", "7", "17", "66"))
	signIn(t, a, srv)

	require.NoError(t, a.AddIngredient(context.Background()))

	got, ok := srv.Ingredient(email, "oats")
	require.True(t, ok)
	assert.Equal(t, models.Macro{Calories: 389, Fats: 7, Proteins: 17, Carbohydrates: 66}, got.Macro)
	assert.Equal(t, routes.MyIngredients, a.history.Current())
	assert.Contains(t, out.String(), "Ingredient oats created")
}

func TestApp_AddIngredient_InvalidNameNeverReachesServer(t *testing.T) {
	a, srv, _ := newTestApp(t, lines("rolled oats", "Oats", "1", "1", "1", "1"))
	signIn(t, a, srv)

	err := a.AddIngredient(context.Background())
	require.ErrorIs(t, err, models.ErrValidation)
	assert.Zero(t, srv.Hits(http.MethodPost, "/api/ingredients"))
	assert.Equal(t, routes.CreateIngredient, a.history.Current())
}

func TestApp_AddIngredient_NonFiniteMacroNeverReachesServer(t *testing.T) {
	a, srv, _ := newTestApp(t, lines("oats", "Oats", "NaN", "Inf", "1", "1"))
	signIn(t, a, srv)

	err := a.AddIngredient(context.Background())
	require.ErrorIs(t, err, models.ErrValidation)
	assert.Contains(t, errorText(err), "calories must be a finite number")
	assert.Zero(t, srv.Hits(http.MethodPost, "/api/ingredients"))
}

func TestApp_EditIngredientKeepsBlankAnswers(t *testing.T) {
	a, srv, _ := newTestApp(t, lines("", "400", "", "", ""))
	srv.SeedIngredient(email, models.Ingredient{Name: "oats", DisplayName: "Oats", Macro: models.Macro{Calories: 389, Fats: 7}})
	signIn(t, a, srv)

	require.NoError(t, a.EditIngredient(context.Background(), "oats"))

	got, ok := srv.Ingredient(email, "oats")
	require.True(t, ok)
	assert.Equal(t, "Oats", got.DisplayName)
	assert.Equal(t, models.Macro{Calories: 400, Fats: 7}, got.Macro)
	assert.Equal(t, routes.Ingredient("oats"), a.history.Current())
}

func TestApp_DeleteIngredient(t *testing.T) {
	a, srv, _ := newTestApp(t, lines("n", "y"))
	srv.SeedIngredient(email, models.Ingredient{Name: "oats", DisplayName: "Oats"})
	signIn(t, a, srv)
	ctx := context.Background()

	require.NoError(t, a.DeleteIngredient(ctx, "oats"))
	assert.Zero(t, srv.Hits(http.MethodDelete, "/api/ingredients/oats"))

	require.NoError(t, a.DeleteIngredient(ctx, "oats"))
	_, ok := srv.Ingredient(email, "oats")
	assert.False(t, ok)
	assert.Equal(t, routes.MyIngredients, a.history.Current())
}

func TestApp_AddRecipeAndShowMacro(t *testing.T) {
	a, srv, out := newTestApp(t, lines(
		"porridge", "Porridge",
		"Warm and filling", "",
		"50 oats", "0 milk", "200 milk", "",
	))
	srv.SeedIngredient(email, models.Ingredient{Name: "oats", DisplayName: "Oats", Macro: models.Macro{Calories: 400}})
	srv.SeedGlobalIngredient(models.Ingredient{Name: "milk", DisplayName: "Milk", Macro: models.Macro{Calories: 50}})
	signIn(t, a, srv)
	ctx := context.Background()

	require.NoError(t, a.AddRecipe(ctx))
	assert.Equal(t, routes.MyRecipes, a.history.Current())

	got, ok := srv.Recipe(email, "porridge")
	require.True(t, ok)
	require.Len(t, got.IngredientValues, 2)

	require.NoError(t, a.Recipe(ctx, "porridge"))
	assert.Contains(t, out.String(), "Warm and filling")
	assert.Contains(t, out.String(), "300 kcal")
	assert.Equal(t, routes.Recipe("porridge"), a.history.Current())
}

func TestApp_EditRecipeKeepsIngredientsOnEmptyList(t *testing.T) {
	a, srv, _ := newTestApp(t, lines("New description", "", ""))
	srv.SeedIngredient(email, models.Ingredient{Name: "oats", DisplayName: "Oats", Macro: models.Macro{Calories: 400}})
	srv.SeedRecipe(email, models.RecipeCreation{
		Name: "porridge", DisplayName: "Porridge", Description: "old",
		IngredientValues: []models.IngredientAmount{{Amount: 50, Ingredient: "oats"}},
	})
	signIn(t, a, srv)

	require.NoError(t, a.EditRecipe(context.Background(), "porridge"))

	got, ok := srv.Recipe(email, "porridge")
	require.True(t, ok)
	assert.Equal(t, "New description", got.Description)
	require.Len(t, got.IngredientValues, 1)
	assert.Equal(t, 50.0, got.IngredientValues[0].Amount)
	assert.Equal(t, routes.Recipe("porridge"), a.history.Current())
}

func TestApp_GlobalViews(t *testing.T) {
	a, srv, out := newTestApp(t, lines())
	srv.SeedGlobalIngredient(models.Ingredient{Name: "milk", DisplayName: "Milk"})
	srv.SeedGlobalIngredient(models.Ingredient{Name: "oats", DisplayName: "Oats"})
	srv.SeedGlobalRecipe(models.RecipeCreation{
		Name: "pancakes", DisplayName: "Pancakes",
		IngredientValues: []models.IngredientAmount{{Amount: 100, Ingredient: "milk"}},
	})
	ctx := context.Background()

	require.NoError(t, a.GlobalIngredients(ctx, "oat"))
	assert.Contains(t, out.String(), "Oats")
	assert.NotContains(t, out.String(), "Milk")

	require.NoError(t, a.GlobalRecipes(ctx))
	require.NoError(t, a.GlobalRecipe(ctx, "pancakes"))
	assert.Contains(t, out.String(), "Pancakes (pancakes)")
	assert.Equal(t, routes.GlobalRecipe("pancakes"), a.history.Current())
}

func TestApp_UploadImage(t *testing.T) {
	a, srv, _ := newTestApp(t, lines())
	srv.SeedIngredient(email, models.Ingredient{Name: "oats", DisplayName: "Oats"})
	signIn(t, a, srv)
	ctx := context.Background()

	path := filepath.Join(t.TempDir(), "oats.png")
	require.NoError(t, os.WriteFile(path, []byte("\x89PNG fake"), 0o600))

	require.NoError(t, a.UploadImage(ctx, "ingredient", "oats", path))
	got, ok := srv.Ingredient(email, "oats")
	require.True(t, ok)
	assert.NotEmpty(t, got.ImageURL)

	err := a.UploadImage(ctx, "pantry", "oats", path)
	require.ErrorIs(t, err, models.ErrValidation)
}

func TestApp_SearchPrintsSettledTerm(t *testing.T) {
	pr, pw := io.Pipe()
	a, srv, out := newTestApp(t, pr)
	srv.SeedIngredient(email, models.Ingredient{Name: "oats", DisplayName: "Oats"})
	srv.SeedIngredient(email, models.Ingredient{Name: "milk", DisplayName: "Milk"})
	signIn(t, a, srv)

	done := make(chan error, 1)
	go func() { done <- a.Search(context.Background()) }()

	_, err := io.WriteString(pw, "oat\n")
	require.NoError(t, err)
	require.Eventually(t, func() bool {
		return strings.Contains(out.String(), `Results for "oat"`)
	}, 2*time.Second, 10*time.Millisecond)

	_, err = io.WriteString(pw, "\n")
	require.NoError(t, err)
	require.NoError(t, <-done)

	assert.Contains(t, out.String(), "Oats")
	assert.NotContains(t, out.String(), "Milk")
}

func TestApp_RunKeepsPromptInputForCommands(t *testing.T) {
	capturePrintln(t)
	stubPassword(t, password)
	a, srv, out := newTestApp(t, lines("login", email, "recipes", "back", "exit"))

	a.Run(context.Background())

	assert.True(t, a.isLoggedIn())
	assert.Equal(t, 1, srv.Hits(http.MethodGet, "/api/recipes"))
	assert.Contains(t, out.String(), "Welcome to macrobook")
	assert.Contains(t, out.String(), "No recipes")
}
