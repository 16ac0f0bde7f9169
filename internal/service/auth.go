package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/pkordes/trailbook/backend/internal/domain"
	"github.com/pkordes/trailbook/backend/internal/repo"
)

// MinPasswordLen is the shortest password accepted at signup.
const MinPasswordLen = 6

// TokenIssuer signs a bearer token for a user. *auth.Tokens satisfies it.
type TokenIssuer interface {
	Issue(userID uuid.UUID) (string, error)
}

// AuthService registers and signs in users.
type AuthService struct {
	users  repo.UserRepo
	tokens TokenIssuer
	cost   int
	log    *slog.Logger
}

// NewAuthService constructs an AuthService hashing with bcrypt.DefaultCost.
func NewAuthService(users repo.UserRepo, tokens TokenIssuer, log *slog.Logger) *AuthService {
	if log == nil {
		log = slog.Default()
	}
	return &AuthService{users: users, tokens: tokens, cost: bcrypt.DefaultCost, log: log}
}

// WithHashCost sets the bcrypt cost, mainly so tests can use bcrypt.MinCost.
func (s *AuthService) WithHashCost(cost int) *AuthService {
	s.cost = cost
	return s
}

// Signup creates a user with no current trip and returns a token for them.
// Returns domain.ErrValidation for a malformed email or short password and
// domain.ErrConflict if the email is already registered.
func (s *AuthService) Signup(ctx context.Context, email, password string) (string, domain.User, error) {
	email = normalizeEmail(email)
	if !strings.Contains(email, "@") {
		return "", domain.User{}, fmt.Errorf("service.AuthService.Signup: %w: invalid email address", domain.ErrValidation)
	}
	if len(password) < MinPasswordLen {
		return "", domain.User{}, fmt.Errorf("service.AuthService.Signup: %w: password must be at least %d characters", domain.ErrValidation, MinPasswordLen)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return "", domain.User{}, fmt.Errorf("service.AuthService.Signup: %w", err)
	}
	user, err := s.users.Create(ctx, email, string(hash))
	if err != nil {
		return "", domain.User{}, fmt.Errorf("service.AuthService.Signup: %w", err)
	}
	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return "", domain.User{}, fmt.Errorf("service.AuthService.Signup: %w", err)
	}

	s.log.InfoContext(ctx, "user signed up", "user_id", user.ID)
	return token, user, nil
}

// Login checks the credentials and returns a fresh token.
// Unknown emails and wrong passwords both yield domain.ErrUnauthorized.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, domain.User, error) {
	user, err := s.users.GetByEmail(ctx, normalizeEmail(email))
	if errors.Is(err, domain.ErrNotFound) {
		return "", domain.User{}, errInvalidCredentials
	}
	if err != nil {
		return "", domain.User{}, fmt.Errorf("service.AuthService.Login: %w", err)
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		s.log.WarnContext(ctx, "login failed", "user_id", user.ID)
		return "", domain.User{}, errInvalidCredentials
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return "", domain.User{}, fmt.Errorf("service.AuthService.Login: %w", err)
	}
	return token, user, nil
}

var errInvalidCredentials = fmt.Errorf("%w: invalid email or password", domain.ErrUnauthorized)

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
