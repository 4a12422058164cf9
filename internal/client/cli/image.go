package cli

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/macrobook/internal/client/models"
	"github.com/dmitrijs2005/macrobook/internal/client/services"
)

func parseImageKind(s string) (services.ImageKind, error) {
	switch s {
	case "ingredient":
		return services.IngredientImage, nil
	case "recipe":
		return services.RecipeImage, nil
	}
	return 0, fmt.Errorf("%w: unknown image target %q, want ingredient or recipe", models.ErrValidation, s)
}

// UploadImage attaches the image at ref (a local path, an http(s) URL or an
// s3://bucket/key reference) to the named ingredient or recipe.
func (a *App) UploadImage(ctx context.Context, kind, name, ref string) error {
	k, err := parseImageKind(kind)
	if err != nil {
		return err
	}
	if err := a.imageService.UploadFrom(ctx, k, name, ref); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Image uploaded for %s %s\n", k, name)
	return nil
}
