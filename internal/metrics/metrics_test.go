package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMiddlewareUsesRouteTemplate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Middleware())
	r.GET("/items/:id", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	before := testutil.ToFloat64(httpRequests.WithLabelValues("GET", "/items/:id", "204"))
	for _, path := range []string{"/items/1", "/items/2"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}
	after := testutil.ToFloat64(httpRequests.WithLabelValues("GET", "/items/:id", "204"))
	assert.Equal(t, 2.0, after-before)
}

func TestObserveAICallAndHandler(t *testing.T) {
	ObserveAICall("suggest_jobs", OutcomeError, 120*time.Millisecond)
	assert.GreaterOrEqual(t, testutil.ToFloat64(aiCalls.WithLabelValues("suggest_jobs", OutcomeError)), 1.0)

	w := httptest.NewRecorder()
	Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.True(t, strings.Contains(body, "jobtrack_ai_calls_total"))
	assert.True(t, strings.Contains(body, "jobtrack_ai_call_duration_seconds"))
}
