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

// IngredientService reads and writes the user's ingredients and reads the
// global catalog.
type IngredientService interface {
	List(ctx context.Context) query.Result[[]models.Ingredient]
	Get(ctx context.Context, name string) query.Result[models.Ingredient]
	// Global lists catalog ingredients matching term; an empty term lists
	// all of them.
	Global(ctx context.Context, term string) query.Result[[]models.Ingredient]
	Create(ctx context.Context, in models.Ingredient) error
	// Update writes in optimistically to the ingredient's cache entry and
	// restores the previous entry if the server rejects it.
	Update(ctx context.Context, in models.Ingredient) error
	Delete(ctx context.Context, name string) error
}

type ingredientService struct {
	sess *session.Session

	create *mutation.Mutation[models.Ingredient, struct{}, struct{}]
	update *mutation.Mutation[models.Ingredient, struct{}, *mutation.Tx]
	remove *mutation.Mutation[string, struct{}, struct{}]
}

func NewIngredientService(sess *session.Session) IngredientService {
	s := &ingredientService{sess: sess}

	s.create = mutation.New(s.createIngredient, mutation.Hooks[models.Ingredient, struct{}, struct{}]{
		OnMutate: func(_ context.Context, in models.Ingredient) (struct{}, error) {
			return struct{}{}, in.Validate()
		},
		OnSuccess: func(ctx context.Context, _ struct{}, _ models.Ingredient, _ struct{}) {
			s.refetch(ctx, MyIngredientsKey())
			s.sess.Nav.Navigate(routes.MyIngredients)
		},
	})

	s.update = mutation.New(s.updateIngredient, mutation.Hooks[models.Ingredient, struct{}, *mutation.Tx]{
		OnMutate: func(_ context.Context, in models.Ingredient) (*mutation.Tx, error) {
			if err := in.Validate(); err != nil {
				return nil, err
			}
			return mutation.Begin(s.sess.Cache, IngredientKey(in.Name), func(old models.Ingredient, ok bool) models.Ingredient {
				if ok {
					in.ImageURL = old.ImageURL
				}
				return in
			}), nil
		},
		OnError: func(ctx context.Context, err error, in models.Ingredient, tx *mutation.Tx) {
			s.sess.Logger.Warn(ctx, "ingredient update rejected, rolling back", "name", in.Name, "error", err)
			tx.Rollback()
		},
		OnSuccess: func(ctx context.Context, _ struct{}, in models.Ingredient, tx *mutation.Tx) {
			tx.Commit()
			s.refetch(ctx, MyIngredientsKey())
			s.sess.Nav.Navigate(routes.Ingredient(in.Name))
		},
	})

	s.remove = mutation.New(s.deleteIngredient, mutation.Hooks[string, struct{}, struct{}]{
		OnMutate: func(_ context.Context, name string) (struct{}, error) {
			return struct{}{}, models.ValidateName(name)
		},
		OnSuccess: func(ctx context.Context, _ struct{}, name string, _ struct{}) {
			s.sess.Cache.Remove(IngredientKey(name))
			s.refetch(ctx, MyIngredientsKey())
			s.sess.Nav.Navigate(routes.MyIngredients)
		},
	})

	return s
}

func (s *ingredientService) refetch(ctx context.Context, key query.Key) {
	if err := s.sess.Cache.RefetchQueries(s.sess.Authorized(ctx), key); err != nil {
		s.sess.Logger.Warn(ctx, "refetch failed", "key", key, "error", err)
	}
}

func (s *ingredientService) List(ctx context.Context) query.Result[[]models.Ingredient] {
	r := query.Get(ctx, s.sess.Cache, MyIngredientsKey(), func(ctx context.Context) ([]models.Ingredient, error) {
		return s.sess.API.ListIngredients(s.sess.Authorized(ctx), "")
	}, query.Options{})
	s.sess.RedirectOnAuthError(ctx, r.Err)
	return r
}

func (s *ingredientService) Get(ctx context.Context, name string) query.Result[models.Ingredient] {
	return query.Get(ctx, s.sess.Cache, IngredientKey(name), func(ctx context.Context) (models.Ingredient, error) {
		return s.sess.API.GetIngredient(s.sess.Authorized(ctx), name)
	}, query.Options{})
}

func (s *ingredientService) Global(ctx context.Context, term string) query.Result[[]models.Ingredient] {
	return query.Get(ctx, s.sess.Cache, GlobalIngredientsKey(term), func(ctx context.Context) ([]models.Ingredient, error) {
		return s.sess.API.ListGlobalIngredients(s.sess.Authorized(ctx), term)
	}, query.Options{})
}

func (s *ingredientService) Create(ctx context.Context, in models.Ingredient) error {
	_, err := s.create.Mutate(ctx, in)
	return err
}

func (s *ingredientService) Update(ctx context.Context, in models.Ingredient) error {
	_, err := s.update.Mutate(ctx, in)
	return err
}

func (s *ingredientService) Delete(ctx context.Context, name string) error {
	_, err := s.remove.Mutate(ctx, name)
	return err
}

func (s *ingredientService) createIngredient(ctx context.Context, in models.Ingredient) (struct{}, error) {
	if err := s.sess.API.CreateIngredient(s.sess.Authorized(ctx), in); err != nil {
		return struct{}{}, fmt.Errorf("create ingredient %s: %w", in.Name, err)
	}
	return struct{}{}, nil
}

func (s *ingredientService) updateIngredient(ctx context.Context, in models.Ingredient) (struct{}, error) {
	if err := s.sess.API.UpdateIngredient(s.sess.Authorized(ctx), in); err != nil {
		return struct{}{}, fmt.Errorf("update ingredient %s: %w", in.Name, err)
	}
	return struct{}{}, nil
}

func (s *ingredientService) deleteIngredient(ctx context.Context, name string) (struct{}, error) {
	if err := s.sess.API.DeleteIngredient(s.sess.Authorized(ctx), name); err != nil {
		return struct{}{}, fmt.Errorf("delete ingredient %s: %w", name, err)
	}
	return struct{}{}, nil
}
