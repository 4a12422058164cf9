// Package routes names the client's views and keeps the navigation history.
package routes

import (
	"net/url"
	"strings"
	"sync"
)

const (
	Home              = "/"
	Login             = "/login"
	Signup            = "/signup"
	ConfirmEmail      = "/confirm-email"
	MyRecipes         = "/my-recipes"
	CreateRecipe      = "/my-recipes/create"
	MyIngredients     = "/my-ingredients"
	CreateIngredient  = "/my-ingredients/create"
	GlobalRecipes     = "/global-recipes"
	GlobalIngredients = "/global-ingredients"
)

func Recipe(name string) string         { return MyRecipes + "/" + url.PathEscape(name) }
func EditRecipe(name string) string     { return Recipe(name) + "/edit" }
func Ingredient(name string) string     { return MyIngredients + "/" + url.PathEscape(name) }
func EditIngredient(name string) string { return Ingredient(name) + "/edit" }
func GlobalRecipe(name string) string   { return GlobalRecipes + "/" + url.PathEscape(name) }

// Authenticated reports whether path is a view that requires a token.
func Authenticated(path string) bool {
	return strings.HasPrefix(path, MyRecipes) || strings.HasPrefix(path, MyIngredients)
}

// Navigator moves the client between views.
type Navigator interface {
	Navigate(path string)
	Current() string
}

// History is a Navigator that remembers visited paths.
type History struct {
	mu    sync.Mutex
	stack []string
	// OnChange, when set, is called with the new path after every move.
	OnChange func(path string)
}

func NewHistory() *History {
	return &History{stack: []string{Home}}
}

func (h *History) Navigate(path string) {
	h.mu.Lock()
	if n := len(h.stack); n > 0 && h.stack[n-1] == path {
		h.mu.Unlock()
		return
	}
	h.stack = append(h.stack, path)
	cb := h.OnChange
	h.mu.Unlock()

	if cb != nil {
		cb(path)
	}
}

func (h *History) Current() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.stack) == 0 {
		return Home
	}
	return h.stack[len(h.stack)-1]
}

// Back returns to the previous path. It stays on the first entry.
func (h *History) Back() string {
	h.mu.Lock()
	if len(h.stack) > 1 {
		h.stack = h.stack[:len(h.stack)-1]
	}
	path := h.stack[len(h.stack)-1]
	cb := h.OnChange
	h.mu.Unlock()

	if cb != nil {
		cb(path)
	}
	return path
}

// Reset clears the history back to path.
func (h *History) Reset(path string) {
	h.mu.Lock()
	h.stack = []string{path}
	cb := h.OnChange
	h.mu.Unlock()

	if cb != nil {
		cb(path)
	}
}

// Len is the number of entries in the history.
func (h *History) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.stack)
}
