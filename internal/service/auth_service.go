package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"bookshelf/internal/apperr"
	"bookshelf/internal/auth"
	"bookshelf/internal/model"
	"bookshelf/internal/repository"
)

// AuthService handles registration and login.
type AuthService interface {
	Register(ctx context.Context, username, email, password string) (token string, user *model.User, err error)
	Login(ctx context.Context, email, password string) (token string, user *model.User, err error)
}

type authService struct {
	users  repository.UserRepository
	tokens *auth.JWTService
}

// NewAuthService creates a new authentication service.
func NewAuthService(users repository.UserRepository, tokens *auth.JWTService) AuthService {
	return &authService{users: users, tokens: tokens}
}

// Register creates a new user with a hashed password and issues a token
// over the new identity. Username/email uniqueness is enforced by the
// repository and surfaces as a conflict.
func (s *authService) Register(ctx context.Context, username, email, password string) (string, *model.User, error) {
	hash, err := auth.HashPassword(password)
	if err != nil {
		return "", nil, fmt.Errorf("hash password: %w", err)
	}

	user := &model.User{
		ID:           uuid.New().String(),
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		SavedBooks:   []model.SavedBook{},
	}

	if err := s.users.Create(ctx, user); err != nil {
		return "", nil, err
	}

	token, err := s.tokens.Issue(user.ID, user.Username, user.Email)
	if err != nil {
		return "", nil, fmt.Errorf("issue token: %w", err)
	}

	return token, user, nil
}

// Login authenticates a user and issues a token. An unknown email and a
// wrong password fail differently on purpose, so callers can display a
// differentiated cause.
func (s *authService) Login(ctx context.Context, email, password string) (string, *model.User, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if apperr.KindOf(err) == apperr.KindNotFound {
			return "", nil, apperr.New(apperr.KindNotFound, "can't find this user")
		}
		return "", nil, err
	}

	if !auth.CheckPassword(user.PasswordHash, password) {
		return "", nil, apperr.New(apperr.KindInvalidCredential, "invalid password")
	}

	token, err := s.tokens.Issue(user.ID, user.Username, user.Email)
	if err != nil {
		return "", nil, fmt.Errorf("issue token: %w", err)
	}

	return token, user, nil
}
