package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/justsurfingit/jobtrack-ai/internal/apperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTokenService(t *testing.T) *TokenService {
	t.Helper()
	ts, err := NewTokenService("test-secret-at-least-16-chars!!")
	require.NoError(t, err)
	return ts
}

func TestNewTokenService_EmptySecret(t *testing.T) {
	_, err := NewTokenService("")
	assert.Error(t, err)
}

func TestIssueVerify_RoundTrip(t *testing.T) {
	ts := newTestTokenService(t)

	token, err := ts.Issue("a@x.com")
	require.NoError(t, err)
	assert.Equal(t, 2, strings.Count(token, "."))

	subject, err := ts.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", subject)
}

func TestIssue_DefaultLifetimeIsSevenDays(t *testing.T) {
	ts := newTestTokenService(t)
	fixed := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	ts.now = func() time.Time { return fixed }

	token, err := ts.Issue("a@x.com")
	require.NoError(t, err)

	claims := &jwt.RegisteredClaims{}
	_, _, err = jwt.NewParser().ParseUnverified(token, claims)
	require.NoError(t, err)
	assert.Equal(t, fixed.Add(7*24*time.Hour).Unix(), claims.ExpiresAt.Unix())

	// Still valid one second before expiry, rejected one second after.
	ts.now = func() time.Time { return fixed.Add(DefaultTokenTTL - time.Second) }
	_, err = ts.Verify(token)
	assert.NoError(t, err)

	ts.now = func() time.Time { return fixed.Add(DefaultTokenTTL + time.Second) }
	_, err = ts.Verify(token)
	assert.ErrorIs(t, err, apperror.ErrInvalidToken)
}

func TestVerify_ExpiredToken(t *testing.T) {
	ts := newTestTokenService(t)

	token, err := ts.IssueWithTTL("a@x.com", -time.Second)
	require.NoError(t, err)

	_, err = ts.Verify(token)
	assert.ErrorIs(t, err, apperror.ErrInvalidToken)
}

func TestTokenVerify_Rejects(t *testing.T) {
	ts := newTestTokenService(t)
	other, err := NewTokenService("a-different-secret-entirely!!!")
	require.NoError(t, err)

	good, err := ts.Issue("a@x.com")
	require.NoError(t, err)
	foreign, err := other.Issue("a@x.com")
	require.NoError(t, err)

	noExp, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{Subject: "a@x.com"}).
		SignedString([]byte("test-secret-at-least-16-chars!!"))
	require.NoError(t, err)

	hs512, err := jwt.NewWithClaims(jwt.SigningMethodHS512, jwt.RegisteredClaims{
		Subject:   "a@x.com",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString([]byte("test-secret-at-least-16-chars!!"))
	require.NoError(t, err)

	cases := map[string]string{
		"empty":           "",
		"garbage":         "not.a.jwt.token",
		"tampered":        good[:len(good)-3] + "xxx",
		"wrong secret":    foreign,
		"no expiry":       noExp,
		"wrong algorithm": hs512,
	}

	for name, token := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ts.Verify(token)
			assert.ErrorIs(t, err, apperror.ErrInvalidToken)
		})
	}
}
