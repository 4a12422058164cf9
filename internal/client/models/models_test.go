package models

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIngredient_Validate(t *testing.T) {
	valid := Ingredient{Name: "oats", DisplayName: "Oats", Macro: Macro{Calories: 389}}

	tests := []struct {
		name    string
		mutate  func(i *Ingredient)
		wantErr string
	}{
		{name: "valid", mutate: func(*Ingredient) {}},
		{name: "empty name", mutate: func(i *Ingredient) { i.Name = "" }, wantErr: "name is required"},
		{name: "name with space", mutate: func(i *Ingredient) { i.Name = "rolled oats" }, wantErr: "whitespace"},
		{name: "name with tab", mutate: func(i *Ingredient) { i.Name = "oats\t" }, wantErr: "whitespace"},
		{name: "blank display name", mutate: func(i *Ingredient) { i.DisplayName = "  " }, wantErr: "display name"},
		{name: "negative fats", mutate: func(i *Ingredient) { i.Macro.Fats = -1 }, wantErr: "fats"},
		{name: "NaN calories", mutate: func(i *Ingredient) { i.Macro.Calories = math.NaN() }, wantErr: "calories must be a finite number"},
		{name: "infinite fats", mutate: func(i *Ingredient) { i.Macro.Fats = math.Inf(1) }, wantErr: "fats must be a finite number"},
		{name: "negative infinite proteins", mutate: func(i *Ingredient) { i.Macro.Proteins = math.Inf(-1) }, wantErr: "proteins must be a finite number"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := valid
			tt.mutate(&in)
			err := in.Validate()
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, ErrValidation)
			require.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestRecipeCreation_CompactDropsBlankRows(t *testing.T) {
	r := RecipeCreation{
		Name:        "porridge",
		DisplayName: "Porridge",
		IngredientValues: []IngredientAmount{
			{Amount: 50, Ingredient: "oats"},
			{Amount: 0, Ingredient: "milk"},
			{Amount: 10, Ingredient: ""},
			{Amount: 200, Ingredient: "milk"},
		},
	}

	got := r.Compact()

	assert.Equal(t, []IngredientAmount{{Amount: 50, Ingredient: "oats"}, {Amount: 200, Ingredient: "milk"}}, got.IngredientValues)
	assert.Len(t, r.IngredientValues, 4, "Compact must not modify the receiver")
	require.NoError(t, got.Validate())
}

func TestRecipeCreation_ValidateRequiresIngredients(t *testing.T) {
	r := RecipeCreation{Name: "empty", DisplayName: "Empty", IngredientValues: []IngredientAmount{{Amount: 0, Ingredient: "x"}}}

	err := r.Compact().Validate()
	require.ErrorIs(t, err, ErrValidation)
	require.ErrorContains(t, err, "at least one ingredient")
}

func TestRecipeUpdate_ValidateRejectsNonFiniteAmounts(t *testing.T) {
	for _, v := range []float64{math.NaN(), math.Inf(1)} {
		u := RecipeUpdate{IngredientValues: []IngredientAmount{{Amount: v, Ingredient: "oats"}}}
		err := u.Validate()
		require.ErrorIs(t, err, ErrValidation)
		require.ErrorContains(t, err, "amount of oats must be a finite number")
	}
}

func TestRecipe_ApplyUpdateKeepsMacroAndKnownRefs(t *testing.T) {
	oats := IngredientRef{Name: "oats", DisplayName: "Oats", Macro: Macro{Calories: 389}}
	r := Recipe{
		Name:             "porridge",
		Description:      "old",
		Macro:            Macro{Calories: 194.5},
		IngredientValues: []IngredientValue{{Amount: 50, Ingredient: oats}},
	}

	got := r.ApplyUpdate(RecipeUpdate{
		Description:      "new",
		IngredientValues: []IngredientAmount{{Amount: 80, Ingredient: "oats"}, {Amount: 100, Ingredient: "milk"}},
	})

	assert.Equal(t, "new", got.Description)
	assert.Equal(t, r.Macro, got.Macro)
	require.Len(t, got.IngredientValues, 2)
	assert.Equal(t, oats, got.IngredientValues[0].Ingredient)
	assert.Equal(t, 80.0, got.IngredientValues[0].Amount)
	assert.Equal(t, IngredientRef{Name: "milk"}, got.IngredientValues[1].Ingredient)
	assert.Equal(t, "old", r.Description)
}

func TestUpdateFromRecipe(t *testing.T) {
	r := Recipe{
		Description: "d",
		IngredientValues: []IngredientValue{
			{Amount: 50, Ingredient: IngredientRef{Name: "oats"}},
		},
	}
	assert.Equal(t, RecipeUpdate{Description: "d", IngredientValues: []IngredientAmount{{Amount: 50, Ingredient: "oats"}}}, UpdateFromRecipe(r))
}

func TestCredentials_Validate(t *testing.T) {
	require.NoError(t, Credentials{Email: "a@b.com", Password: "pw"}.Validate())
	require.ErrorIs(t, Credentials{Password: "pw"}.Validate(), ErrValidation)
	require.ErrorIs(t, Credentials{Email: "a@b.com"}.Validate(), ErrValidation)
	require.ErrorIs(t, EmailConfirmation{Email: "a@b.com"}.Validate(), ErrValidation)
}
