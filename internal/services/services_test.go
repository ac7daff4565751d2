package services

import (
	"context"
	"testing"

	"github.com/justsurfingit/jobtrack-ai/internal/auth"
	"github.com/justsurfingit/jobtrack-ai/internal/dtos"
	"github.com/justsurfingit/jobtrack-ai/internal/models"
	"github.com/justsurfingit/jobtrack-ai/internal/testutil"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type fixture struct {
	llm   *testutil.FakeLLM
	users *UserService
	auth  *AuthService
	apps  *ApplicationService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db := testutil.NewDB(t)
	log := testutil.Logger()
	tokens, err := auth.NewTokenService("test-secret")
	require.NoError(t, err)

	llm := &testutil.FakeLLM{Response: "  model answer \n"}
	users := NewUserService(db)
	return &fixture{
		llm:   llm,
		users: users,
		auth:  NewAuthService(users, auth.NewPasswordServiceWithCost(bcrypt.MinCost), tokens, log),
		apps:  NewApplicationService(db, NewLLMService(llm, log), log),
	}
}

func (f *fixture) signup(t *testing.T, email string) *models.User {
	t.Helper()
	user, err := f.auth.Signup(context.Background(), email, "pw123456")
	require.NoError(t, err)
	return user
}

func (f *fixture) createApp(t *testing.T, userID uint, company, role string) *models.Application {
	t.Helper()
	app, err := f.apps.Create(context.Background(), userID, &dtos.ApplicationCreateRequest{
		Company:     company,
		Role:        role,
		DateApplied: "2025-01-01",
	})
	require.NoError(t, err)
	return app
}

func strPtr(s string) *string { return &s }
