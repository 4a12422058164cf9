package models

import (
	"fmt"
	"strings"
)

// IngredientRef is the ingredient as embedded in a recipe response.
type IngredientRef struct {
	Name        string `json:"name"`
	DisplayName string `json:"displayName"`
	Macro       Macro  `json:"macro"`
}

// IngredientValue is an amount in grams of one ingredient inside a recipe.
type IngredientValue struct {
	Amount     float64       `json:"amount"`
	Ingredient IngredientRef `json:"ingredient"`
}

type Recipe struct {
	Name             string            `json:"name"`
	DisplayName      string            `json:"displayName"`
	Description      string            `json:"description"`
	Macro            Macro             `json:"macro"`
	IngredientValues []IngredientValue `json:"ingredientValues"`
	ImageURL         string            `json:"imageUrl,omitempty"`
}

// IngredientAmount references an ingredient by name in create/edit requests.
type IngredientAmount struct {
	Amount     float64 `json:"amount"`
	Ingredient string  `json:"ingredient"`
}

type RecipeCreation struct {
	Name             string             `json:"name"`
	DisplayName      string             `json:"displayName"`
	Description      string             `json:"description"`
	IngredientValues []IngredientAmount `json:"ingredientValues"`
}

// RecipeUpdate replaces the description and the ingredient list of a recipe.
type RecipeUpdate struct {
	Description      string             `json:"description"`
	IngredientValues []IngredientAmount `json:"ingredientValues"`
}

// compactAmounts drops rows left blank in the form: zero amount or no
// ingredient selected.
func compactAmounts(values []IngredientAmount) []IngredientAmount {
	out := make([]IngredientAmount, 0, len(values))
	for _, v := range values {
		if v.Amount == 0 || strings.TrimSpace(v.Ingredient) == "" {
			continue
		}
		out = append(out, v)
	}
	return out
}

func validateAmounts(values []IngredientAmount) error {
	if len(values) == 0 {
		return fmt.Errorf("%w: at least one ingredient is required", ErrValidation)
	}
	for _, v := range values {
		if err := checkQuantity("amount of "+v.Ingredient, v.Amount); err != nil {
			return err
		}
	}
	return nil
}

func (r RecipeCreation) Compact() RecipeCreation {
	r.IngredientValues = compactAmounts(r.IngredientValues)
	return r
}

func (r RecipeCreation) Validate() error {
	if err := ValidateName(r.Name); err != nil {
		return err
	}
	if strings.TrimSpace(r.DisplayName) == "" {
		return fmt.Errorf("%w: display name is required", ErrValidation)
	}
	return validateAmounts(r.IngredientValues)
}

func (r RecipeUpdate) Compact() RecipeUpdate {
	r.IngredientValues = compactAmounts(r.IngredientValues)
	return r
}

func (r RecipeUpdate) Validate() error {
	return validateAmounts(r.IngredientValues)
}

// UpdateFromRecipe builds the edit form's initial state from a fetched recipe.
func UpdateFromRecipe(r Recipe) RecipeUpdate {
	values := make([]IngredientAmount, 0, len(r.IngredientValues))
	for _, v := range r.IngredientValues {
		values = append(values, IngredientAmount{Amount: v.Amount, Ingredient: v.Ingredient.Name})
	}
	return RecipeUpdate{Description: r.Description, IngredientValues: values}
}

// ApplyUpdate echoes the submitted fields onto r for an optimistic write.
// Ingredient references keep their cached display data when the same
// ingredient was already present; the recipe macro is left untouched.
func (r Recipe) ApplyUpdate(u RecipeUpdate) Recipe {
	known := make(map[string]IngredientRef, len(r.IngredientValues))
	for _, v := range r.IngredientValues {
		known[v.Ingredient.Name] = v.Ingredient
	}

	values := make([]IngredientValue, 0, len(u.IngredientValues))
	for _, v := range u.IngredientValues {
		ref, ok := known[v.Ingredient]
		if !ok {
			ref = IngredientRef{Name: v.Ingredient}
		}
		values = append(values, IngredientValue{Amount: v.Amount, Ingredient: ref})
	}

	r.Description = u.Description
	r.IngredientValues = values
	return r
}
