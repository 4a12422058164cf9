package apitest

import (
	"encoding/base64"
	"fmt"
	"net/http"

	"github.com/dmitrijs2005/macrobook/internal/client/models"
	"github.com/gorilla/mux"
)

// SeedIngredient stores an ingredient owned by owner.
func (s *Server) SeedIngredient(owner string, in models.Ingredient) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ownedIngredients(owner)[in.Name] = in
}

func (s *Server) SeedGlobalIngredient(in models.Ingredient) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.globalIngredients[in.Name] = in
}

// SeedRecipe stores a recipe owned by owner. Ingredients are resolved at
// read time against the owner's and the global ingredients.
func (s *Server) SeedRecipe(owner string, in models.RecipeCreation) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ownedRecipes(owner)[in.Name] = newRecipeRecord(in)
}

func (s *Server) SeedGlobalRecipe(in models.RecipeCreation) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.globalRecipes[in.Name] = newRecipeRecord(in)
}

// Ingredient returns the stored ingredient as the server sees it.
func (s *Server) Ingredient(owner, name string) (models.Ingredient, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	in, ok := s.ownedIngredients(owner)[name]
	return in, ok
}

func (s *Server) Recipe(owner, name string) (models.Recipe, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.ownedRecipes(owner)[name]
	if !ok {
		return models.Recipe{}, false
	}
	return s.render(owner, rec), true
}

func newRecipeRecord(in models.RecipeCreation) *recipeRecord {
	return &recipeRecord{
		name:        in.Name,
		displayName: in.DisplayName,
		description: in.Description,
		values:      append([]models.IngredientAmount(nil), in.IngredientValues...),
	}
}

func (s *Server) ownedIngredients(owner string) map[string]models.Ingredient {
	m, ok := s.ingredients[owner]
	if !ok {
		m = make(map[string]models.Ingredient)
		s.ingredients[owner] = m
	}
	return m
}

func (s *Server) ownedRecipes(owner string) map[string]*recipeRecord {
	m, ok := s.recipes[owner]
	if !ok {
		m = make(map[string]*recipeRecord)
		s.recipes[owner] = m
	}
	return m
}

func (s *Server) lookupIngredient(owner, name string) (models.Ingredient, bool) {
	if in, ok := s.ingredients[owner][name]; ok {
		return in, true
	}
	in, ok := s.globalIngredients[name]
	return in, ok
}

// render resolves ingredient references and computes the recipe macro from
// per-100 g ingredient values.
func (s *Server) render(owner string, rec *recipeRecord) models.Recipe {
	out := models.Recipe{
		Name:             rec.name,
		DisplayName:      rec.displayName,
		Description:      rec.description,
		ImageURL:         rec.imageURL,
		IngredientValues: make([]models.IngredientValue, 0, len(rec.values)),
	}
	for _, v := range rec.values {
		in, _ := s.lookupIngredient(owner, v.Ingredient)
		f := v.Amount / 100
		out.Macro.Calories += in.Macro.Calories * f
		out.Macro.Fats += in.Macro.Fats * f
		out.Macro.Proteins += in.Macro.Proteins * f
		out.Macro.Carbohydrates += in.Macro.Carbohydrates * f
		out.IngredientValues = append(out.IngredientValues, models.IngredientValue{
			Amount:     v.Amount,
			Ingredient: models.IngredientRef{Name: in.Name, DisplayName: in.DisplayName, Macro: in.Macro},
		})
	}
	return out
}

func (s *Server) listIngredients(w http.ResponseWriter, r *http.Request) {
	search := r.URL.Query().Get("search")

	s.mu.Lock()
	owned := s.ownedIngredients(ownerOf(r))
	out := make([]models.Ingredient, 0, len(owned))
	for _, k := range sortedKeys(owned) {
		if in := owned[k]; matches(search, in.Name, in.DisplayName) {
			out = append(out, in)
		}
	}
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, out)
}

func (s *Server) listGlobalIngredients(w http.ResponseWriter, r *http.Request) {
	search := r.URL.Query().Get("search")

	s.mu.Lock()
	out := make([]models.Ingredient, 0, len(s.globalIngredients))
	for _, k := range sortedKeys(s.globalIngredients) {
		if in := s.globalIngredients[k]; matches(search, in.Name, in.DisplayName) {
			out = append(out, in)
		}
	}
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, out)
}

func (s *Server) getIngredient(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]

	s.mu.Lock()
	in, ok := s.ownedIngredients(ownerOf(r))[name]
	s.mu.Unlock()

	if !ok {
		writeMessage(w, http.StatusNotFound, "Ingredient %s not found", name)
		return
	}
	writeJSON(w, http.StatusOK, in)
}

func (s *Server) createIngredient(w http.ResponseWriter, r *http.Request) {
	var in models.Ingredient
	if !decode(w, r, &in) {
		return
	}
	if err := in.Validate(); err != nil {
		writeMessage(w, http.StatusBadRequest, "%v", err)
		return
	}
	in.ImageURL = ""

	s.mu.Lock()
	defer s.mu.Unlock()
	owned := s.ownedIngredients(ownerOf(r))
	if _, exists := owned[in.Name]; exists {
		writeMessage(w, http.StatusConflict, "Ingredient %s already exists", in.Name)
		return
	}
	owned[in.Name] = in
	writeJSON(w, http.StatusCreated, in)
}

func (s *Server) updateIngredient(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]
	var in models.Ingredient
	if !decode(w, r, &in) {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	owned := s.ownedIngredients(ownerOf(r))
	current, ok := owned[name]
	if !ok {
		writeMessage(w, http.StatusNotFound, "Ingredient %s not found", name)
		return
	}
	if in.DisplayName != "" {
		current.DisplayName = in.DisplayName
	}
	current.Macro = in.Macro
	owned[name] = current
	writeJSON(w, http.StatusOK, current)
}

func (s *Server) deleteIngredient(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]

	s.mu.Lock()
	defer s.mu.Unlock()
	owned := s.ownedIngredients(ownerOf(r))
	if _, ok := owned[name]; !ok {
		writeMessage(w, http.StatusNotFound, "Ingredient %s not found", name)
		return
	}
	delete(owned, name)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) listRecipes(w http.ResponseWriter, r *http.Request) {
	owner := ownerOf(r)

	s.mu.Lock()
	owned := s.ownedRecipes(owner)
	out := make([]models.Recipe, 0, len(owned))
	for _, k := range sortedKeys(owned) {
		out = append(out, s.render(owner, owned[k]))
	}
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, out)
}

func (s *Server) listGlobalRecipes(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	out := make([]models.Recipe, 0, len(s.globalRecipes))
	for _, k := range sortedKeys(s.globalRecipes) {
		out = append(out, s.render("", s.globalRecipes[k]))
	}
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, out)
}

func (s *Server) getRecipe(w http.ResponseWriter, r *http.Request) {
	name, owner := mux.Vars(r)["name"], ownerOf(r)

	s.mu.Lock()
	rec, ok := s.ownedRecipes(owner)[name]
	var out models.Recipe
	if ok {
		out = s.render(owner, rec)
	}
	s.mu.Unlock()

	if !ok {
		writeMessage(w, http.StatusNotFound, "Recipe %s not found", name)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) getGlobalRecipe(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]

	s.mu.Lock()
	rec, ok := s.globalRecipes[name]
	var out models.Recipe
	if ok {
		out = s.render("", rec)
	}
	s.mu.Unlock()

	if !ok {
		writeMessage(w, http.StatusNotFound, "Recipe %s not found", name)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// missingIngredient returns the first referenced ingredient the owner
// cannot see.
func (s *Server) missingIngredient(owner string, values []models.IngredientAmount) (string, bool) {
	for _, v := range values {
		if _, ok := s.lookupIngredient(owner, v.Ingredient); !ok {
			return v.Ingredient, true
		}
	}
	return "", false
}

func (s *Server) createRecipe(w http.ResponseWriter, r *http.Request) {
	var in models.RecipeCreation
	if !decode(w, r, &in) {
		return
	}
	if err := in.Validate(); err != nil {
		writeMessage(w, http.StatusBadRequest, "%v", err)
		return
	}
	owner := ownerOf(r)

	s.mu.Lock()
	defer s.mu.Unlock()
	if missing, ok := s.missingIngredient(owner, in.IngredientValues); ok {
		writeMessage(w, http.StatusBadRequest, "Ingredient %s not found", missing)
		return
	}
	owned := s.ownedRecipes(owner)
	if _, exists := owned[in.Name]; exists {
		writeMessage(w, http.StatusConflict, "Recipe %s already exists", in.Name)
		return
	}
	rec := newRecipeRecord(in)
	owned[in.Name] = rec
	writeJSON(w, http.StatusCreated, s.render(owner, rec))
}

func (s *Server) updateRecipe(w http.ResponseWriter, r *http.Request) {
	name, owner := mux.Vars(r)["name"], ownerOf(r)
	var in models.RecipeUpdate
	if !decode(w, r, &in) {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.ownedRecipes(owner)[name]
	if !ok {
		writeMessage(w, http.StatusNotFound, "Recipe %s not found", name)
		return
	}
	if missing, ok := s.missingIngredient(owner, in.IngredientValues); ok {
		writeMessage(w, http.StatusBadRequest, "Ingredient %s not found", missing)
		return
	}
	rec.description = in.Description
	rec.values = append([]models.IngredientAmount(nil), in.IngredientValues...)
	writeJSON(w, http.StatusOK, s.render(owner, rec))
}

func (s *Server) deleteRecipe(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]

	s.mu.Lock()
	defer s.mu.Unlock()
	owned := s.ownedRecipes(ownerOf(r))
	if _, ok := owned[name]; !ok {
		writeMessage(w, http.StatusNotFound, "Recipe %s not found", name)
		return
	}
	delete(owned, name)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) decodeImage(w http.ResponseWriter, r *http.Request) bool {
	var p models.ImagePayload
	if !decode(w, r, &p) {
		return false
	}
	if _, err := base64.StdEncoding.DecodeString(p.Image); err != nil || p.Image == "" {
		writeMessage(w, http.StatusBadRequest, "Invalid image")
		return false
	}
	return true
}

func (s *Server) imageURL(kind, name string) string {
	s.imageVersion++
	return fmt.Sprintf("%s/images/%s/%s.png?v=%d", s.URL, kind, name, s.imageVersion)
}

func (s *Server) ingredientImage(w http.ResponseWriter, r *http.Request) {
	if !s.decodeImage(w, r) {
		return
	}
	name := mux.Vars(r)["name"]

	s.mu.Lock()
	defer s.mu.Unlock()
	owned := s.ownedIngredients(ownerOf(r))
	in, ok := owned[name]
	if !ok {
		writeMessage(w, http.StatusNotFound, "Ingredient %s not found", name)
		return
	}
	in.ImageURL = s.imageURL("ingredients", name)
	owned[name] = in
	w.WriteHeader(http.StatusOK)
}

func (s *Server) recipeImage(w http.ResponseWriter, r *http.Request) {
	if !s.decodeImage(w, r) {
		return
	}
	name := mux.Vars(r)["name"]

	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.ownedRecipes(ownerOf(r))[name]
	if !ok {
		writeMessage(w, http.StatusNotFound, "Recipe %s not found", name)
		return
	}
	rec.imageURL = s.imageURL("recipes", name)
	w.WriteHeader(http.StatusOK)
}
