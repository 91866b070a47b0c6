package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"grana/internal/auth"
	"grana/internal/core"
	"grana/internal/storage"
)

// ErrInvalidCredentials is returned on login with an unknown email or a
// wrong password. The two cases are deliberately indistinguishable.
var ErrInvalidCredentials = errors.New("invalid credentials")

// AuthService handles registration, login and profile management.
type AuthService struct {
	storage *storage.Repository
	tokens  *auth.Tokens
}

func NewAuthService(storage *storage.Repository, tokens *auth.Tokens) *AuthService {
	return &AuthService{storage: storage, tokens: tokens}
}

// Register creates the user with their protected wallet and default
// categories, and returns a ready-to-use bearer token.
func (s *AuthService) Register(ctx context.Context, name, email, password string, monthlyIncomeCents int64) (*core.User, string, error) {
	u := &core.User{
		Name:               strings.TrimSpace(name),
		Email:              strings.ToLower(strings.TrimSpace(email)),
		MonthlyIncomeCents: monthlyIncomeCents,
	}
	if err := u.Validate(); err != nil {
		return nil, "", err
	}
	if len(password) < 6 {
		return nil, "", fmt.Errorf("%w: password too short (min 6 characters)", core.ErrInvalidInput)
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, "", err
	}
	u.PasswordHash = hash

	if err := s.storage.CreateUser(ctx, u); err != nil {
		return nil, "", err
	}

	token, err := s.tokens.NewToken(u.ID)
	if err != nil {
		return nil, "", err
	}
	return u, token, nil
}

// Login checks the credentials and issues a bearer token.
func (s *AuthService) Login(ctx context.Context, email, password string) (*core.User, string, error) {
	u, err := s.storage.FindUserByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", err
	}

	if !auth.CheckPassword(u.PasswordHash, password) {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.tokens.NewToken(u.ID)
	if err != nil {
		return nil, "", err
	}
	return u, token, nil
}

func (s *AuthService) Profile(ctx context.Context, userID int64) (*core.User, error) {
	return s.storage.GetUser(ctx, userID)
}

// UpdateProfile changes name, monthly income and optionally the password.
func (s *AuthService) UpdateProfile(ctx context.Context, userID int64, name string, monthlyIncomeCents int64, newPassword string) (*core.User, error) {
	u, err := s.storage.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	u.Name = strings.TrimSpace(name)
	u.MonthlyIncomeCents = monthlyIncomeCents
	if err := u.Validate(); err != nil {
		return nil, err
	}

	if newPassword != "" {
		if len(newPassword) < 6 {
			return nil, fmt.Errorf("%w: password too short (min 6 characters)", core.ErrInvalidInput)
		}
		hash, err := auth.HashPassword(newPassword)
		if err != nil {
			return nil, err
		}
		u.PasswordHash = hash
	}

	if err := s.storage.UpdateUser(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}
