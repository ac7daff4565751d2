package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/justsurfingit/jobtrack-ai/internal/apperror"
	"github.com/justsurfingit/jobtrack-ai/internal/models"
	"github.com/justsurfingit/jobtrack-ai/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type stubAuth struct {
	token string
	user  *models.User
}

func (s stubAuth) Authenticate(ctx context.Context, token string) (*models.User, error) {
	if token != s.token {
		return nil, apperror.InvalidToken("Invalid token")
	}
	return s.user, nil
}

func writeStatus(c *gin.Context, err error) {
	c.JSON(http.StatusUnauthorized, gin.H{"detail": err.Error()})
}

func TestRequireUser(t *testing.T) {
	user := &models.User{ID: 5, Email: "a@x.com"}
	r := gin.New()
	r.GET("/me", RequireUser(stubAuth{token: "good", user: user}, writeStatus), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"email": CurrentUser(c).Email})
	})

	cases := map[string]struct {
		header string
		status int
		body   string
	}{
		"valid":          {"Bearer good", http.StatusOK, "a@x.com"},
		"lowercase":      {"bearer good", http.StatusOK, "a@x.com"},
		"missing":        {"", http.StatusUnauthorized, "Not authenticated"},
		"wrong scheme":   {"Basic good", http.StatusUnauthorized, "Not authenticated"},
		"empty token":    {"Bearer   ", http.StatusUnauthorized, "Not authenticated"},
		"rejected token": {"Bearer bad", http.StatusUnauthorized, "Invalid token"},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.Equal(t, tc.status, w.Code)
			assert.Contains(t, w.Body.String(), tc.body)
			if tc.status == http.StatusUnauthorized {
				assert.Equal(t, "Bearer", w.Header().Get("WWW-Authenticate"))
			}
		})
	}
}

func TestCurrentUser_Missing(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	assert.Nil(t, CurrentUser(c))
}

func TestRequestLogger(t *testing.T) {
	r := gin.New()
	r.Use(RequestLogger(testutil.Logger()))
	r.GET("/ping", func(c *gin.Context) {
		require.NotNil(t, Logger(c))
		c.String(http.StatusOK, RequestID(c))
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
	generated := w.Header().Get(RequestIDHeader)
	assert.Len(t, generated, 36)
	assert.Equal(t, generated, w.Body.String())

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "abc-123", w.Header().Get(RequestIDHeader))
	assert.Equal(t, "abc-123", w.Body.String())
}
