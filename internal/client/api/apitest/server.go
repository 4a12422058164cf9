// Package apitest provides an in-memory stand-in for the macrobook REST API
// so that client packages can be tested over real HTTP.
//
// The fake implements the endpoints the client relies on, issues HS256
// identity tokens, computes recipe macros from ingredient values per 100 g,
// records every request, and lets tests queue canned responses or hold requests
// in flight.
package apitest

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"sync"
	"testing"

	"github.com/dmitrijs2005/macrobook/internal/client/models"
	"github.com/gorilla/mux"
)

// Request is what the fake recorded about one incoming request.
type Request struct {
	Method        string
	Path          string
	RawQuery      string
	Authorization string
}

type user struct {
	passwordHash []byte
	confirmed    bool
	code         string
}

type recipeRecord struct {
	name        string
	displayName string
	description string
	values      []models.IngredientAmount
	imageURL    string
}

type cannedResponse struct {
	method string
	path   string
	status int
	body   string
}

type Server struct {
	URL    string
	srv    *httptest.Server
	secret []byte

	mu                sync.Mutex
	users             map[string]*user
	ingredients       map[string]map[string]models.Ingredient
	recipes           map[string]map[string]*recipeRecord
	globalIngredients map[string]models.Ingredient
	globalRecipes     map[string]*recipeRecord
	requests          []Request
	canned            []cannedResponse
	holds             map[string]chan struct{}
	imageVersion      int
}

// New starts a fake API server that is closed when t finishes.
func New(t testing.TB) *Server {
	t.Helper()
	s := &Server{
		secret:            []byte("apitest-secret"),
		users:             make(map[string]*user),
		ingredients:       make(map[string]map[string]models.Ingredient),
		recipes:           make(map[string]map[string]*recipeRecord),
		globalIngredients: make(map[string]models.Ingredient),
		globalRecipes:     make(map[string]*recipeRecord),
		holds:             make(map[string]chan struct{}),
	}
	s.srv = httptest.NewServer(s.router())
	s.URL = s.srv.URL
	t.Cleanup(s.Close)
	return s
}

func (s *Server) Close() {
	s.mu.Lock()
	for k, ch := range s.holds {
		close(ch)
		delete(s.holds, k)
	}
	s.mu.Unlock()
	s.srv.Close()
}

func (s *Server) router() http.Handler {
	r := mux.NewRouter()
	r.Use(s.record, s.inject)

	r.HandleFunc("/api/auth/login", s.login).Methods(http.MethodPost)
	r.HandleFunc("/api/auth/signup", s.signup).Methods(http.MethodPost)
	r.HandleFunc("/api/auth/confirm-email", s.confirmEmail).Methods(http.MethodPost)

	r.HandleFunc("/api/ingredients", s.authenticated(s.listIngredients)).Methods(http.MethodGet)
	r.HandleFunc("/api/ingredients", s.authenticated(s.createIngredient)).Methods(http.MethodPost)
	r.HandleFunc("/api/ingredients/{name}", s.authenticated(s.getIngredient)).Methods(http.MethodGet)
	r.HandleFunc("/api/ingredients/{name}", s.authenticated(s.updateIngredient)).Methods(http.MethodPatch)
	r.HandleFunc("/api/ingredients/{name}", s.authenticated(s.deleteIngredient)).Methods(http.MethodDelete)
	r.HandleFunc("/api/ingredients/{name}/image", s.authenticated(s.ingredientImage)).Methods(http.MethodPost)
	r.HandleFunc("/api/global-ingredients", s.listGlobalIngredients).Methods(http.MethodGet)

	r.HandleFunc("/api/recipes", s.authenticated(s.listRecipes)).Methods(http.MethodGet)
	r.HandleFunc("/api/recipes", s.authenticated(s.createRecipe)).Methods(http.MethodPost)
	r.HandleFunc("/api/recipes/{name}", s.authenticated(s.getRecipe)).Methods(http.MethodGet)
	r.HandleFunc("/api/recipes/{name}", s.authenticated(s.updateRecipe)).Methods(http.MethodPatch)
	r.HandleFunc("/api/recipes/{name}", s.authenticated(s.deleteRecipe)).Methods(http.MethodDelete)
	r.HandleFunc("/api/recipes/{name}/image", s.authenticated(s.recipeImage)).Methods(http.MethodPost)
	r.HandleFunc("/api/global-recipes", s.listGlobalRecipes).Methods(http.MethodGet)
	r.HandleFunc("/api/global-recipes/{name}", s.getGlobalRecipe).Methods(http.MethodGet)

	return r
}

func (s *Server) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.requests = append(s.requests, Request{
			Method:        r.Method,
			Path:          r.URL.Path,
			RawQuery:      r.URL.RawQuery,
			Authorization: r.Header.Get("Authorization"),
		})
		s.mu.Unlock()
		next.ServeHTTP(w, r)
	})
}

// inject serves queued canned responses and blocks held requests.
func (s *Server) inject(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		for i, f := range s.canned {
			if f.method == r.Method && f.path == r.URL.Path {
				s.canned = append(s.canned[:i], s.canned[i+1:]...)
				s.mu.Unlock()
				if f.body != "" {
					w.Header().Set("Content-Type", "application/json")
				}
				w.WriteHeader(f.status)
				_, _ = w.Write([]byte(f.body))
				return
			}
		}
		hold := s.holds[r.Method+" "+r.URL.Path]
		s.mu.Unlock()

		if hold != nil {
			select {
			case <-hold:
			case <-r.Context().Done():
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}

// RespondNext makes the next request to method+path answer status with body
// instead of reaching the handler. Calls queue up.
func (s *Server) RespondNext(method, path string, status int, body string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.canned = append(s.canned, cannedResponse{method: method, path: path, status: status, body: body})
}

// Hold blocks requests to method+path until release is called.
func (s *Server) Hold(method, path string) (release func()) {
	ch := make(chan struct{})
	key := method + " " + path

	s.mu.Lock()
	s.holds[key] = ch
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			if s.holds[key] == ch {
				delete(s.holds, key)
				close(ch)
			}
			s.mu.Unlock()
		})
	}
}

func (s *Server) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Request(nil), s.requests...)
}

// Hits counts recorded requests to method+path.
func (s *Server) Hits(method, path string) int {
	n := 0
	for _, r := range s.Requests() {
		if r.Method == method && r.Path == path {
			n++
		}
	}
	return n
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeMessage(w http.ResponseWriter, status int, format string, args ...any) {
	writeJSON(w, status, map[string]string{"message": fmt.Sprintf(format, args...)})
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request body")
		return false
	}
	return true
}

func matches(search string, fields ...string) bool {
	if search == "" {
		return true
	}
	search = strings.ToLower(search)
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), search) {
			return true
		}
	}
	return false
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
