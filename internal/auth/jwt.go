package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/justsurfingit/jobtrack-ai/internal/apperror"
)

// DefaultTokenTTL is how long a login stays valid.
const DefaultTokenTTL = 7 * 24 * time.Hour

// TokenService issues and verifies HS256 bearer tokens whose subject is the
// user's email address.
type TokenService struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokenService(secret string) (*TokenService, error) {
	if secret == "" {
		return nil, errors.New("auth: JWT secret must not be empty")
	}
	return &TokenService{secret: []byte(secret), ttl: DefaultTokenTTL, now: time.Now}, nil
}

// Issue signs a token for subject with the default lifetime.
func (s *TokenService) Issue(subject string) (string, error) {
	return s.IssueWithTTL(subject, s.ttl)
}

func (s *TokenService) IssueWithTTL(subject string, ttl time.Duration) (string, error) {
	now := s.now()
	claims := jwt.RegisteredClaims{
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("auth: signing token: %w", err)
	}
	return signed, nil
}

// Verify checks signature, algorithm and expiry and returns the subject.
// Every failure is reported as apperror.ErrInvalidToken.
func (s *TokenService) Verify(token string) (string, error) {
	parsed, err := jwt.ParseWithClaims(token, &jwt.RegisteredClaims{},
		func(t *jwt.Token) (any, error) {
			return s.secret, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", fmt.Errorf("auth: %w", apperror.InvalidToken("Token expired"))
		}
		return "", fmt.Errorf("auth: %v: %w", err, apperror.InvalidToken("Invalid token"))
	}

	claims, ok := parsed.Claims.(*jwt.RegisteredClaims)
	if !ok || !parsed.Valid || claims.Subject == "" {
		return "", fmt.Errorf("auth: %w", apperror.InvalidToken("Invalid token"))
	}
	return claims.Subject, nil
}
