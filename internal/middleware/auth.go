package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/justsurfingit/jobtrack-ai/internal/apperror"
	"github.com/justsurfingit/jobtrack-ai/internal/models"
)

const userKey = "user"

// Authenticator resolves a bearer token to a user.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*models.User, error)
}

// ErrorWriter renders an error response.
type ErrorWriter func(c *gin.Context, err error)

// RequireUser rejects requests without a valid bearer token and stores the
// caller for CurrentUser.
func RequireUser(a Authenticator, writeError ErrorWriter) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			c.Header("WWW-Authenticate", "Bearer")
			writeError(c, apperror.Unauthorized("Not authenticated"))
			c.Abort()
			return
		}

		user, err := a.Authenticate(c.Request.Context(), token)
		if err != nil {
			c.Header("WWW-Authenticate", "Bearer")
			writeError(c, err)
			c.Abort()
			return
		}

		c.Set(userKey, user)
		c.Next()
	}
}

// CurrentUser returns the user stored by RequireUser.
func CurrentUser(c *gin.Context) *models.User {
	if v, ok := c.Get(userKey); ok {
		if user, ok := v.(*models.User); ok {
			return user
		}
	}
	return nil
}

func bearerToken(header string) (string, bool) {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
