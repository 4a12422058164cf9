package services

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/macrobook/internal/client/models"
	"github.com/dmitrijs2005/macrobook/internal/client/mutation"
	"github.com/dmitrijs2005/macrobook/internal/client/query"
	"github.com/dmitrijs2005/macrobook/internal/client/routes"
	"github.com/dmitrijs2005/macrobook/internal/client/session"
)

// recipeEdit names the recipe an update applies to.
type recipeEdit struct {
	Name string
	models.RecipeUpdate
}

// RecipeService reads and writes the user's recipes and reads the global
// ones. Macro values always come from the server.
type RecipeService interface {
	List(ctx context.Context) query.Result[[]models.Recipe]
	Get(ctx context.Context, name string) query.Result[models.Recipe]
	Global(ctx context.Context) query.Result[[]models.Recipe]
	GlobalGet(ctx context.Context, name string) query.Result[models.Recipe]
	// Create drops blank ingredient rows before validating and submitting.
	Create(ctx context.Context, in models.RecipeCreation) error
	Update(ctx context.Context, name string, in models.RecipeUpdate) error
	Delete(ctx context.Context, name string) error
}

type recipeService struct {
	sess *session.Session

	create *mutation.Mutation[models.RecipeCreation, struct{}, struct{}]
	update *mutation.Mutation[recipeEdit, struct{}, *mutation.Tx]
	remove *mutation.Mutation[string, struct{}, struct{}]
}

func NewRecipeService(sess *session.Session) RecipeService {
	s := &recipeService{sess: sess}

	s.create = mutation.New(s.createRecipe, mutation.Hooks[models.RecipeCreation, struct{}, struct{}]{
		OnMutate: func(_ context.Context, in models.RecipeCreation) (struct{}, error) {
			return struct{}{}, in.Validate()
		},
		OnSuccess: func(ctx context.Context, _ struct{}, _ models.RecipeCreation, _ struct{}) {
			s.refetch(ctx, MyRecipesKey())
			s.sess.Nav.Navigate(routes.MyRecipes)
		},
	})

	s.update = mutation.New(s.updateRecipe, mutation.Hooks[recipeEdit, struct{}, *mutation.Tx]{
		OnMutate: func(_ context.Context, in recipeEdit) (*mutation.Tx, error) {
			if err := models.ValidateName(in.Name); err != nil {
				return nil, err
			}
			if err := in.RecipeUpdate.Validate(); err != nil {
				return nil, err
			}
			return mutation.Begin(s.sess.Cache, RecipeKey(in.Name), func(old models.Recipe, ok bool) models.Recipe {
				if !ok {
					old = models.Recipe{Name: in.Name}
				}
				return old.ApplyUpdate(in.RecipeUpdate)
			}), nil
		},
		OnError: func(ctx context.Context, err error, in recipeEdit, tx *mutation.Tx) {
			s.sess.Logger.Warn(ctx, "recipe update rejected, rolling back", "name", in.Name, "error", err)
			tx.Rollback()
		},
		OnSuccess: func(ctx context.Context, _ struct{}, in recipeEdit, tx *mutation.Tx) {
			tx.Commit()
			s.refetch(ctx, MyRecipesKey())
			s.refetch(ctx, RecipeKey(in.Name))
			s.sess.Nav.Navigate(routes.Recipe(in.Name))
		},
	})

	s.remove = mutation.New(s.deleteRecipe, mutation.Hooks[string, struct{}, struct{}]{
		OnMutate: func(_ context.Context, name string) (struct{}, error) {
			return struct{}{}, models.ValidateName(name)
		},
		OnSuccess: func(ctx context.Context, _ struct{}, name string, _ struct{}) {
			s.sess.Cache.Remove(RecipeKey(name))
			s.refetch(ctx, MyRecipesKey())
			s.sess.Nav.Navigate(routes.MyRecipes)
		},
	})

	return s
}

func (s *recipeService) refetch(ctx context.Context, key query.Key) {
	if err := s.sess.Cache.RefetchQueries(s.sess.Authorized(ctx), key); err != nil {
		s.sess.Logger.Warn(ctx, "refetch failed", "key", key, "error", err)
	}
}

func (s *recipeService) List(ctx context.Context) query.Result[[]models.Recipe] {
	r := query.Get(ctx, s.sess.Cache, MyRecipesKey(), func(ctx context.Context) ([]models.Recipe, error) {
		return s.sess.API.ListRecipes(s.sess.Authorized(ctx))
	}, query.Options{})
	s.sess.RedirectOnAuthError(ctx, r.Err)
	return r
}

func (s *recipeService) Get(ctx context.Context, name string) query.Result[models.Recipe] {
	return query.Get(ctx, s.sess.Cache, RecipeKey(name), func(ctx context.Context) (models.Recipe, error) {
		return s.sess.API.GetRecipe(s.sess.Authorized(ctx), name)
	}, query.Options{})
}

func (s *recipeService) Global(ctx context.Context) query.Result[[]models.Recipe] {
	return query.Get(ctx, s.sess.Cache, GlobalRecipesKey(), func(ctx context.Context) ([]models.Recipe, error) {
		return s.sess.API.ListGlobalRecipes(s.sess.Authorized(ctx))
	}, query.Options{})
}

func (s *recipeService) GlobalGet(ctx context.Context, name string) query.Result[models.Recipe] {
	return query.Get(ctx, s.sess.Cache, GlobalRecipeKey(name), func(ctx context.Context) (models.Recipe, error) {
		return s.sess.API.GetGlobalRecipe(s.sess.Authorized(ctx), name)
	}, query.Options{})
}

func (s *recipeService) Create(ctx context.Context, in models.RecipeCreation) error {
	_, err := s.create.Mutate(ctx, in.Compact())
	return err
}

func (s *recipeService) Update(ctx context.Context, name string, in models.RecipeUpdate) error {
	_, err := s.update.Mutate(ctx, recipeEdit{Name: name, RecipeUpdate: in.Compact()})
	return err
}

func (s *recipeService) Delete(ctx context.Context, name string) error {
	_, err := s.remove.Mutate(ctx, name)
	return err
}

func (s *recipeService) createRecipe(ctx context.Context, in models.RecipeCreation) (struct{}, error) {
	if err := s.sess.API.CreateRecipe(s.sess.Authorized(ctx), in); err != nil {
		return struct{}{}, fmt.Errorf("create recipe %s: %w", in.Name, err)
	}
	return struct{}{}, nil
}

func (s *recipeService) updateRecipe(ctx context.Context, in recipeEdit) (struct{}, error) {
	if err := s.sess.API.UpdateRecipe(s.sess.Authorized(ctx), in.Name, in.RecipeUpdate); err != nil {
		return struct{}{}, fmt.Errorf("update recipe %s: %w", in.Name, err)
	}
	return struct{}{}, nil
}

func (s *recipeService) deleteRecipe(ctx context.Context, name string) (struct{}, error) {
	if err := s.sess.API.DeleteRecipe(s.sess.Authorized(ctx), name); err != nil {
		return struct{}{}, fmt.Errorf("delete recipe %s: %w", name, err)
	}
	return struct{}{}, nil
}
