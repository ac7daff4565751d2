package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/justsurfingit/jobtrack-ai/internal/apperror"
	"github.com/justsurfingit/jobtrack-ai/internal/auth"
	"github.com/justsurfingit/jobtrack-ai/internal/models"
	"github.com/sirupsen/logrus"
)

const msgBadCredentials = "Invalid email or password"

// AuthService ties accounts to credentials: signup, login and resolving a
// bearer token back to its user.
type AuthService struct {
	Users     *UserService
	Passwords *auth.PasswordService
	Tokens    *auth.TokenService
	Log       logrus.FieldLogger
}

func NewAuthService(users *UserService, passwords *auth.PasswordService, tokens *auth.TokenService, log logrus.FieldLogger) *AuthService {
	return &AuthService{
		Users:     users,
		Passwords: passwords,
		Tokens:    tokens,
		Log:       log,
	}
}

// Signup registers a new account. It does not log the user in. A taken
// email is rejected before the password is hashed.
func (s *AuthService) Signup(ctx context.Context, email, password string) (*models.User, error) {
	_, err := s.Users.FindByEmail(ctx, email)
	if err == nil {
		return nil, apperror.Conflict(msgEmailTaken)
	}
	if !errors.Is(err, apperror.ErrNotFound) {
		return nil, err
	}

	hash, err := s.Passwords.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("signup: %w", err)
	}
	user, err := s.Users.Create(ctx, email, hash)
	if err != nil {
		return nil, err
	}
	s.Log.WithField("user_id", user.ID).Info("User signed up")
	return user, nil
}

// Login returns a signed access token. Unknown emails and wrong passwords
// produce the same error.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, error) {
	user, err := s.Users.FindByEmail(ctx, email)
	if errors.Is(err, apperror.ErrNotFound) {
		return "", apperror.Unauthorized(msgBadCredentials)
	}
	if err != nil {
		return "", err
	}
	if !s.Passwords.Verify(user.PasswordHash, password) {
		s.Log.WithField("user_id", user.ID).Warn("Login rejected: wrong password")
		return "", apperror.Unauthorized(msgBadCredentials)
	}

	token, err := s.Tokens.Issue(user.Email)
	if err != nil {
		return "", fmt.Errorf("login: %w", err)
	}
	return token, nil
}

// Authenticate resolves a bearer token to the user it was issued for.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*models.User, error) {
	email, err := s.Tokens.Verify(token)
	if err != nil {
		return nil, err
	}
	user, err := s.Users.FindByEmail(ctx, email)
	if errors.Is(err, apperror.ErrNotFound) {
		return nil, apperror.Unauthorized("User not found")
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}
