// Package testutil holds fixtures shared by the package tests: an in-memory
// database and a scripted language model.
package testutil

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/justsurfingit/jobtrack-ai/internal/database"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	"github.com/tmc/langchaingo/llms"
	"gorm.io/gorm"
)

// Logger discards everything.
func Logger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

// NewDB returns a migrated SQLite database that lives as long as the test.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), database.Config(Logger()))
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// Each new connection to :memory: is a fresh database.
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, database.Migrate(db))
	return db
}

// FakeLLM is an llms.Model that answers with Response (or fails with Err)
// and records every prompt it receives.
type FakeLLM struct {
	Response string
	Err      error

	mu      sync.Mutex
	prompts []string
}

var _ llms.Model = (*FakeLLM)(nil)

func (f *FakeLLM) GenerateContent(ctx context.Context, messages []llms.MessageContent, options ...llms.CallOption) (*llms.ContentResponse, error) {
	var prompt string
	for _, m := range messages {
		for _, part := range m.Parts {
			if text, ok := part.(llms.TextContent); ok {
				prompt += text.Text
			}
		}
	}

	f.mu.Lock()
	f.prompts = append(f.prompts, prompt)
	f.mu.Unlock()

	if f.Err != nil {
		return nil, f.Err
	}
	return &llms.ContentResponse{
		Choices: []*llms.ContentChoice{{Content: f.Response}},
	}, nil
}

func (f *FakeLLM) Call(ctx context.Context, prompt string, options ...llms.CallOption) (string, error) {
	return llms.GenerateFromSinglePrompt(ctx, f, prompt, options...)
}

// Calls is the number of prompts sent so far.
func (f *FakeLLM) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.prompts)
}

// LastPrompt returns the most recent prompt, or "" if none was sent.
func (f *FakeLLM) LastPrompt() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.prompts) == 0 {
		return ""
	}
	return f.prompts[len(f.prompts)-1]
}

// ErrQuota is a convenient upstream failure for tests.
var ErrQuota = errors.New("googleapi: Error 429: quota exceeded")
