package auth

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"campus-services-backend/internal/model"
	"campus-services-backend/internal/store"
)

// Service handles registration and login.
type Service struct {
	store    store.Store
	secret   []byte
	tokenTTL time.Duration
	now      func() time.Time
}

// NewService wires the auth service.
func NewService(s store.Store, secret string, tokenTTL time.Duration) *Service {
	return &Service{
		store:    s,
		secret:   []byte(secret),
		tokenTTL: tokenTTL,
		now:      time.Now,
	}
}

// RegisterInput carries a new user registration.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Role     model.Role
}

// Register creates a new user with a hashed password.
func (s *Service) Register(ctx context.Context, input RegisterInput) (model.User, error) {
	name := strings.TrimSpace(input.Name)
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if name == "" || email == "" {
		return model.User{}, fmt.Errorf("%w: name and email are required", model.ErrValidation)
	}
	if !strings.Contains(email, "@") {
		return model.User{}, fmt.Errorf("%w: %q is not a valid email address", model.ErrValidation, email)
	}
	if !model.ValidRole(input.Role) {
		return model.User{}, fmt.Errorf("%w: unknown role %q", model.ErrValidation, input.Role)
	}

	hash, err := HashPassword(input.Password)
	if err != nil {
		return model.User{}, err
	}

	user := model.User{
		ID:           uuid.New().String(),
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Role:         input.Role,
	}
	if err := s.store.CreateUser(ctx, &user); err != nil {
		return model.User{}, err
	}
	return user, nil
}

// Login verifies credentials and issues a signed token. A missing user and
// a wrong password both come back as ErrInvalidCredentials so the response
// does not leak which emails are registered.
func (s *Service) Login(ctx context.Context, email, password string) (string, model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	user, err := s.store.GetUserByEmail(ctx, email)
	if err != nil {
		return "", model.User{}, model.ErrInvalidCredentials
	}
	if err := VerifyPassword(user.PasswordHash, password); err != nil {
		return "", model.User{}, model.ErrInvalidCredentials
	}

	token, err := IssueToken(s.secret, user, s.tokenTTL, s.now())
	if err != nil {
		return "", model.User{}, err
	}
	return token, user, nil
}

// Authenticate resolves a bearer token to its user record.
func (s *Service) Authenticate(ctx context.Context, rawToken string) (model.User, error) {
	claims, err := ParseToken(s.secret, rawToken)
	if err != nil {
		return model.User{}, err
	}
	return s.store.GetUser(ctx, claims.Subject)
}
