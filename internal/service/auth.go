package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/eventplanner/eventplanner-api/internal/models"
	"github.com/eventplanner/eventplanner-api/internal/store"
)

const minPasswordLength = 6

// TokenIssuer issues bearer tokens for a user.
type TokenIssuer interface {
	Issue(userID uint, name, email string) (string, error)
}

// PasswordHasher hashes and verifies passwords.
type PasswordHasher interface {
	Hash(plaintext string) (string, error)
	Verify(plaintext, hash string) bool
}

// RegisterInput is the sign-up payload.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

// AuthService registers and logs in users.
type AuthService struct {
	base
	tokens    TokenIssuer
	passwords PasswordHasher
}

// NewAuthService returns an AuthService.
func NewAuthService(s *store.Store, tokens TokenIssuer, passwords PasswordHasher, logger *log.Logger) *AuthService {
	return &AuthService{base: newBase(s, logger), tokens: tokens, passwords: passwords}
}

// Register creates an account and returns a token for it.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, invalid("name is required")
	}
	email, err := normalizeEmail(in.Email)
	if err != nil {
		return nil, err
	}
	if len(in.Password) < minPasswordLength {
		return nil, invalid("password must be at least %d characters", minPasswordLength)
	}

	if _, err := s.store.FindUserByEmail(ctx, email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}

	hash, err := s.passwords.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	u := &models.User{Name: name, Email: email, PasswordHash: hash}
	if err := s.store.InsertUser(ctx, u); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}

	s.logger.Info("user registered", "user_id", u.ID)
	return s.result(u)
}

// Login checks the credentials and returns a fresh token.
func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	u, err := s.store.FindUserByEmail(ctx, strings.TrimSpace(email))
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if !s.passwords.Verify(password, u.PasswordHash) {
		return nil, ErrInvalidCredentials
	}
	return s.result(u)
}

// Me returns the acting user. A token whose account is gone is not
// authenticated.
func (s *AuthService) Me(ctx context.Context, actorID uint) (*UserView, error) {
	a, err := s.requireActor(ctx, actorID)
	if err != nil {
		return nil, err
	}
	u, err := s.store.FindUserByID(ctx, a.ID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrNotAuthenticated
	}
	if err != nil {
		return nil, err
	}
	return newUserView(u), nil
}

func (s *AuthService) result(u *models.User) (*AuthResult, error) {
	token, err := s.tokens.Issue(u.ID, u.Name, u.Email)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}
	return &AuthResult{Token: token, User: newUserView(u)}, nil
}
