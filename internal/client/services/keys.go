package services

import "github.com/dmitrijs2005/macrobook/internal/client/query"

// Cache keys shared by the views.
func MyIngredientsKey() query.Key                { return query.K("my-ingredients") }
func IngredientKey(name string) query.Key        { return query.K("ingredient", name) }
func GlobalIngredientsKey(term string) query.Key { return query.K("global-ingredients", term) }
func SearchIngredientsKey(term string) query.Key { return query.K("searchIngredients", term) }
func MyRecipesKey() query.Key                    { return query.K("my-recipes") }
func RecipeKey(name string) query.Key            { return query.K("recipe", name) }
func GlobalRecipesKey() query.Key                { return query.K("global-recipes") }
func GlobalRecipeKey(name string) query.Key      { return query.K("global-recipe", name) }
