package api

import (
	"context"
	"net/http"

	"github.com/dmitrijs2005/macrobook/internal/client/models"
)

func (c *Client) Login(ctx context.Context, creds models.Credentials) (models.LoginResponse, error) {
	var resp models.LoginResponse
	err := c.do(ctx, http.MethodPost, "/api/auth/login", nil, creds, &resp)
	return resp, err
}

func (c *Client) Signup(ctx context.Context, creds models.Credentials) error {
	return c.do(ctx, http.MethodPost, "/api/auth/signup", nil, creds, nil)
}

func (c *Client) ConfirmEmail(ctx context.Context, confirmation models.EmailConfirmation) error {
	return c.do(ctx, http.MethodPost, "/api/auth/confirm-email", nil, confirmation, nil)
}

// ListIngredients returns the caller's ingredients, filtered by search when
// it is not empty.
func (c *Client) ListIngredients(ctx context.Context, search string) ([]models.Ingredient, error) {
	var out []models.Ingredient
	err := c.do(ctx, http.MethodGet, "/api/ingredients", searchQuery(search), nil, &out)
	return out, err
}

func (c *Client) GetIngredient(ctx context.Context, name string) (models.Ingredient, error) {
	var out models.Ingredient
	err := c.do(ctx, http.MethodGet, entityPath("ingredients", name), nil, nil, &out)
	return out, err
}

func (c *Client) CreateIngredient(ctx context.Context, in models.Ingredient) error {
	return c.do(ctx, http.MethodPost, "/api/ingredients", nil, in, nil)
}

func (c *Client) UpdateIngredient(ctx context.Context, in models.Ingredient) error {
	return c.do(ctx, http.MethodPatch, entityPath("ingredients", in.Name), nil, in, nil)
}

func (c *Client) DeleteIngredient(ctx context.Context, name string) error {
	return c.do(ctx, http.MethodDelete, entityPath("ingredients", name), nil, nil, nil)
}

func (c *Client) ListGlobalIngredients(ctx context.Context, search string) ([]models.Ingredient, error) {
	var out []models.Ingredient
	err := c.do(ctx, http.MethodGet, "/api/global-ingredients", searchQuery(search), nil, &out)
	return out, err
}

func (c *Client) ListRecipes(ctx context.Context) ([]models.Recipe, error) {
	var out []models.Recipe
	err := c.do(ctx, http.MethodGet, "/api/recipes", nil, nil, &out)
	return out, err
}

func (c *Client) GetRecipe(ctx context.Context, name string) (models.Recipe, error) {
	var out models.Recipe
	err := c.do(ctx, http.MethodGet, entityPath("recipes", name), nil, nil, &out)
	return out, err
}

func (c *Client) CreateRecipe(ctx context.Context, in models.RecipeCreation) error {
	return c.do(ctx, http.MethodPost, "/api/recipes", nil, in, nil)
}

func (c *Client) UpdateRecipe(ctx context.Context, name string, in models.RecipeUpdate) error {
	return c.do(ctx, http.MethodPatch, entityPath("recipes", name), nil, in, nil)
}

func (c *Client) DeleteRecipe(ctx context.Context, name string) error {
	return c.do(ctx, http.MethodDelete, entityPath("recipes", name), nil, nil, nil)
}

func (c *Client) ListGlobalRecipes(ctx context.Context) ([]models.Recipe, error) {
	var out []models.Recipe
	err := c.do(ctx, http.MethodGet, "/api/global-recipes", nil, nil, &out)
	return out, err
}

func (c *Client) GetGlobalRecipe(ctx context.Context, name string) (models.Recipe, error) {
	var out models.Recipe
	err := c.do(ctx, http.MethodGet, entityPath("global-recipes", name), nil, nil, &out)
	return out, err
}

// UploadIngredientImage posts an already base64-encoded image.
func (c *Client) UploadIngredientImage(ctx context.Context, name, image string) error {
	return c.do(ctx, http.MethodPost, entityPath("ingredients", name, "image"), nil, models.ImagePayload{Image: image}, nil)
}

func (c *Client) UploadRecipeImage(ctx context.Context, name, image string) error {
	return c.do(ctx, http.MethodPost, entityPath("recipes", name, "image"), nil, models.ImagePayload{Image: image}, nil)
}
