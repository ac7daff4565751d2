package auth

import (
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

const (
	defaultCost = 12

	// bcrypt only looks at the first 72 bytes of its input.
	maxPasswordBytes = 72
)

// PasswordService hashes and verifies passwords with bcrypt. The cost is a
// field so tests can run at bcrypt.MinCost.
type PasswordService struct {
	cost int
}

func NewPasswordService() *PasswordService {
	return &PasswordService{cost: defaultCost}
}

// NewPasswordServiceWithCost is meant for tests in other packages.
func NewPasswordServiceWithCost(cost int) *PasswordService {
	return &PasswordService{cost: cost}
}

// Hash returns the bcrypt hash of the normalized password.
func (p *PasswordService) Hash(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(normalizePassword(password)), p.cost)
	if err != nil {
		return "", fmt.Errorf("auth: hashing password: %w", err)
	}
	return string(hashed), nil
}

// Verify reports whether password matches hash. Malformed hashes never match.
func (p *PasswordService) Verify(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(normalizePassword(password))) == nil
}

// normalizePassword cuts the password to 72 bytes. A multi-byte character
// split by the cut leaves invalid UTF-8 behind; those bytes are dropped.
func normalizePassword(password string) string {
	if len(password) <= maxPasswordBytes {
		return password
	}
	return strings.ToValidUTF8(password[:maxPasswordBytes], "")
}
