package apitest

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/dmitrijs2005/macrobook/internal/client/models"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type ownerKey struct{}

// SeedUser registers a confirmed user.
func (s *Server) SeedUser(email, password string) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		panic(err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[email] = &user{passwordHash: hash, confirmed: true}
}

// ConfirmationCode returns the code "mailed" to email at signup.
func (s *Server) ConfirmationCode(email string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u, ok := s.users[email]; ok {
		return u.code
	}
	return ""
}

// TokenFor issues a valid identity token for email.
func (s *Server) TokenFor(email string) string {
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":   email,
		"email": email,
		"iat":   time.Now().Unix(),
	}).SignedString(s.secret)
	if err != nil {
		panic(err)
	}
	return token
}

// authenticated rejects requests without a valid bearer token with a bare
// 401 and otherwise passes the owner's e-mail on the request context.
func (s *Server) authenticated(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		raw, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
		if !ok || raw == "" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		claims := jwt.MapClaims{}
		_, err := jwt.ParseWithClaims(raw, claims, func(*jwt.Token) (any, error) {
			return s.secret, nil
		}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
		if err != nil {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		owner, _ := claims.GetSubject()
		next(w, r.WithContext(context.WithValue(r.Context(), ownerKey{}, owner)))
	}
}

func ownerOf(r *http.Request) string {
	owner, _ := r.Context().Value(ownerKey{}).(string)
	return owner
}

func (s *Server) signup(w http.ResponseWriter, r *http.Request) {
	var c models.Credentials
	if !decode(w, r, &c) {
		return
	}
	if c.Email == "" || c.Password == "" {
		writeMessage(w, http.StatusBadRequest, "Email and password are required")
		return
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(c.Password), bcrypt.MinCost)
	if err != nil {
		writeMessage(w, http.StatusInternalServerError, "hash: %v", err)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.users[c.Email]; exists {
		writeMessage(w, http.StatusConflict, "User already exists")
		return
	}
	s.users[c.Email] = &user{passwordHash: hash, code: uuid.NewString()[:6]}
	w.WriteHeader(http.StatusCreated)
}

func (s *Server) confirmEmail(w http.ResponseWriter, r *http.Request) {
	var c models.EmailConfirmation
	if !decode(w, r, &c) {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[c.Email]
	if !ok || u.code == "" || u.code != c.ConfirmationCode {
		writeMessage(w, http.StatusBadRequest, "Invalid verification code provided, please try again.")
		return
	}
	u.confirmed = true
	u.code = ""
	w.WriteHeader(http.StatusOK)
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	var c models.Credentials
	if !decode(w, r, &c) {
		return
	}

	s.mu.Lock()
	var (
		hash      []byte
		confirmed bool
	)
	u, ok := s.users[c.Email]
	if ok {
		hash, confirmed = u.passwordHash, u.confirmed
	}
	s.mu.Unlock()

	if !ok || bcrypt.CompareHashAndPassword(hash, []byte(c.Password)) != nil {
		writeMessage(w, http.StatusUnauthorized, "Incorrect username or password.")
		return
	}
	if !confirmed {
		writeMessage(w, http.StatusForbidden, "User is not confirmed.")
		return
	}
	writeJSON(w, http.StatusOK, models.LoginResponse{IdentityToken: s.TokenFor(c.Email)})
}
