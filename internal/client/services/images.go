package services

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/macrobook/internal/client/images"
	"github.com/dmitrijs2005/macrobook/internal/client/query"
	"github.com/dmitrijs2005/macrobook/internal/client/session"
)

// ImageKind selects the entity an image is attached to.
type ImageKind int

const (
	IngredientImage ImageKind = iota
	RecipeImage
)

func (k ImageKind) String() string {
	if k == RecipeImage {
		return "recipe"
	}
	return "ingredient"
}

// ImageService attaches images to ingredients and recipes.
type ImageService interface {
	// Upload sends data as the image of the named entity. Images above
	// images.MaxSize fail with images.ErrTooLarge without a request.
	Upload(ctx context.Context, kind ImageKind, name string, data []byte) error
	// UploadFrom loads the image from a local path, URL or s3:// reference
	// and uploads it.
	UploadFrom(ctx context.Context, kind ImageKind, name, ref string) error
}

type imageService struct {
	sess   *session.Session
	loader *images.Loader
}

func NewImageService(sess *session.Session, loader *images.Loader) ImageService {
	if loader == nil {
		loader = &images.Loader{}
	}
	return &imageService{sess: sess, loader: loader}
}

func (s *imageService) Upload(ctx context.Context, kind ImageKind, name string, data []byte) error {
	encoded, err := images.Encode(data)
	if err != nil {
		return err
	}

	actx := s.sess.Authorized(ctx)
	var entity, list query.Key
	switch kind {
	case RecipeImage:
		err = s.sess.API.UploadRecipeImage(actx, name, encoded)
		entity, list = RecipeKey(name), MyRecipesKey()
	default:
		err = s.sess.API.UploadIngredientImage(actx, name, encoded)
		entity, list = IngredientKey(name), MyIngredientsKey()
	}
	if err != nil {
		return fmt.Errorf("upload %s image %s: %w", kind, name, err)
	}

	for _, key := range []query.Key{entity, list} {
		s.sess.Cache.InvalidateQueries(key)
		if err := s.sess.Cache.RefetchQueries(actx, key); err != nil {
			s.sess.Logger.Warn(ctx, "refetch after image upload failed", "key", key, "error", err)
		}
	}
	return nil
}

func (s *imageService) UploadFrom(ctx context.Context, kind ImageKind, name, ref string) error {
	data, err := s.loader.Load(ctx, ref)
	if err != nil {
		return err
	}
	return s.Upload(ctx, kind, name, data)
}
