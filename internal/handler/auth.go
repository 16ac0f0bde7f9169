package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/pkordes/trailbook/backend/internal/domain"
)

// Signup handles POST /auth/signup.
func (s *Server) Signup(w http.ResponseWriter, r *http.Request) {
	s.authenticate(w, r, http.StatusCreated, s.auth.Signup)
}

// Login handles POST /auth/login.
func (s *Server) Login(w http.ResponseWriter, r *http.Request) {
	s.authenticate(w, r, http.StatusOK, s.auth.Login)
}

type credentialsFunc func(ctx context.Context, email, password string) (string, domain.User, error)

func (s *Server) authenticate(w http.ResponseWriter, r *http.Request, status int, fn credentialsFunc) {
	var body CredentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		badRequest(w, "request body must be JSON credentials")
		return
	}
	token, user, err := fn(r.Context(), body.Email, body.Password)
	if err != nil {
		s.fail(w, r, "user", err)
		return
	}
	writeJSON(w, status, AuthResponse{Token: token, User: userToResponse(user)})
}
