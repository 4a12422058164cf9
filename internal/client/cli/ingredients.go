package cli

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/macrobook/internal/client/models"
	"github.com/dmitrijs2005/macrobook/internal/client/routes"
)

func (a *App) Ingredients(ctx context.Context) error {
	a.sess.Nav.Navigate(routes.MyIngredients)
	r := a.ingredientService.List(ctx)
	if r.IsError() {
		return r.Err
	}
	printIngredients(a.out, r.Data)
	return nil
}

func (a *App) Ingredient(ctx context.Context, name string) error {
	a.sess.Nav.Navigate(routes.Ingredient(name))
	r := a.ingredientService.Get(ctx, name)
	if r.IsError() {
		return r.Err
	}
	printIngredient(a.out, r.Data)
	return nil
}

// GlobalIngredients lists the catalog; an empty term lists everything.
func (a *App) GlobalIngredients(ctx context.Context, term string) error {
	a.sess.Nav.Navigate(routes.GlobalIngredients)
	r := a.ingredientService.Global(ctx, term)
	if r.IsError() {
		return r.Err
	}
	printIngredients(a.out, r.Data)
	return nil
}

// readMacro prompts for the four macro values per 100 g, offering cur as
// the defaults.
func (a *App) readMacro(cur models.Macro) (models.Macro, error) {
	fields := []struct {
		prompt string
		dst    *float64
	}{
		{"Calories per 100 g", &cur.Calories},
		{"Fats per 100 g", &cur.Fats},
		{"Proteins per 100 g", &cur.Proteins},
		{"Carbohydrates per 100 g", &cur.Carbohydrates},
	}
	for _, f := range fields {
		v, err := GetFloat(a.reader, f.prompt, *f.dst, a.out)
		if err != nil {
			return models.Macro{}, err
		}
		*f.dst = v
	}
	return cur, nil
}

func (a *App) AddIngredient(ctx context.Context) error {
	a.sess.Nav.Navigate(routes.CreateIngredient)

	name, err := getSimpleText(a.reader, "Enter name (no spaces)", a.out)
	if err != nil {
		return err
	}
	displayName, err := getSimpleText(a.reader, "Enter display name", a.out)
	if err != nil {
		return err
	}
	macro, err := a.readMacro(models.Macro{})
	if err != nil {
		return err
	}

	in := models.Ingredient{Name: name, DisplayName: displayName, Macro: macro}
	if err := a.ingredientService.Create(ctx, in); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Ingredient %s created\n", name)
	return nil
}

// EditIngredient prompts with the current values; empty answers keep them.
func (a *App) EditIngredient(ctx context.Context, name string) error {
	a.sess.Nav.Navigate(routes.EditIngredient(name))
	r := a.ingredientService.Get(ctx, name)
	if r.IsError() {
		return r.Err
	}
	cur := r.Data

	displayName, err := getSimpleText(a.reader, fmt.Sprintf("Enter display name [%s]", cur.DisplayName), a.out)
	if err != nil {
		return err
	}
	if displayName == "" {
		displayName = cur.DisplayName
	}
	macro, err := a.readMacro(cur.Macro)
	if err != nil {
		return err
	}

	in := models.Ingredient{Name: name, DisplayName: displayName, Macro: macro}
	if err := a.ingredientService.Update(ctx, in); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Ingredient %s updated\n", name)
	return nil
}

func (a *App) DeleteIngredient(ctx context.Context, name string) error {
	ok, err := GetConfirmation(a.reader, fmt.Sprintf("Delete ingredient %s?", name), a.out)
	if err != nil || !ok {
		return err
	}
	if err := a.ingredientService.Delete(ctx, name); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Ingredient %s deleted\n", name)
	return nil
}
