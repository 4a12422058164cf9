package cli

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/macrobook/internal/client/models"
	"github.com/dmitrijs2005/macrobook/internal/client/routes"
)

func (a *App) Recipes(ctx context.Context) error {
	a.sess.Nav.Navigate(routes.MyRecipes)
	r := a.recipeService.List(ctx)
	if r.IsError() {
		return r.Err
	}
	printRecipes(a.out, r.Data)
	return nil
}

func (a *App) Recipe(ctx context.Context, name string) error {
	a.sess.Nav.Navigate(routes.Recipe(name))
	r := a.recipeService.Get(ctx, name)
	if r.IsError() {
		return r.Err
	}
	printRecipe(a.out, r.Data)
	return nil
}

func (a *App) GlobalRecipes(ctx context.Context) error {
	a.sess.Nav.Navigate(routes.GlobalRecipes)
	r := a.recipeService.Global(ctx)
	if r.IsError() {
		return r.Err
	}
	printRecipes(a.out, r.Data)
	return nil
}

func (a *App) GlobalRecipe(ctx context.Context, name string) error {
	a.sess.Nav.Navigate(routes.GlobalRecipe(name))
	r := a.recipeService.GlobalGet(ctx, name)
	if r.IsError() {
		return r.Err
	}
	printRecipe(a.out, r.Data)
	return nil
}

func (a *App) AddRecipe(ctx context.Context) error {
	a.sess.Nav.Navigate(routes.CreateRecipe)

	name, err := getSimpleText(a.reader, "Enter name (no spaces)", a.out)
	if err != nil {
		return err
	}
	displayName, err := getSimpleText(a.reader, "Enter display name", a.out)
	if err != nil {
		return err
	}
	description, err := GetMultiline(a.reader, "Enter description", a.out)
	if err != nil {
		return err
	}
	values, err := GetIngredientAmounts(a.reader, a.out)
	if err != nil {
		return err
	}

	in := models.RecipeCreation{
		Name:             name,
		DisplayName:      displayName,
		Description:      description,
		IngredientValues: values,
	}
	if err := a.recipeService.Create(ctx, in); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Recipe %s created\n", name)
	return nil
}

// EditRecipe replaces the description and the ingredient list. An empty
// description or an empty ingredient list keeps the current one.
func (a *App) EditRecipe(ctx context.Context, name string) error {
	a.sess.Nav.Navigate(routes.EditRecipe(name))
	r := a.recipeService.Get(ctx, name)
	if r.IsError() {
		return r.Err
	}
	upd := models.UpdateFromRecipe(r.Data)

	printRecipe(a.out, r.Data)
	description, err := GetMultiline(a.reader, "Enter new description", a.out)
	if err != nil {
		return err
	}
	if description != "" {
		upd.Description = description
	}
	values, err := GetIngredientAmounts(a.reader, a.out)
	if err != nil {
		return err
	}
	if len(values) > 0 {
		upd.IngredientValues = values
	}

	if err := a.recipeService.Update(ctx, name, upd); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Recipe %s updated\n", name)
	return nil
}

func (a *App) DeleteRecipe(ctx context.Context, name string) error {
	ok, err := GetConfirmation(a.reader, fmt.Sprintf("Delete recipe %s?", name), a.out)
	if err != nil || !ok {
		return err
	}
	if err := a.recipeService.Delete(ctx, name); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Recipe %s deleted\n", name)
	return nil
}
