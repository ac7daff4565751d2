package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const (
	RequestIDHeader = "X-Request-ID"

	requestIDKey = "request_id"
	loggerKey    = "logger"
)

// RequestLogger tags every request with an id (taken from X-Request-ID or
// generated), exposes a request-scoped logger to handlers and writes one
// log line when the request completes.
func RequestLogger(log logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		id := c.GetHeader(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Header(RequestIDHeader, id)

		entry := log.WithField("request_id", id)
		c.Set(requestIDKey, id)
		c.Set(loggerKey, entry)

		c.Next()

		status := c.Writer.Status()
		fields := entry.WithFields(logrus.Fields{
			"method":    c.Request.Method,
			"path":      c.Request.URL.Path,
			"status":    status,
			"latency":   time.Since(start),
			"client_ip": c.ClientIP(),
		})
		if len(c.Errors) > 0 {
			fields = fields.WithField("errors", c.Errors.String())
		}

		switch {
		case status >= 500:
			fields.Error("Request failed")
		case status >= 400:
			fields.Warn("Request rejected")
		default:
			fields.Info("Request handled")
		}
	}
}

// Logger returns the request-scoped logger, or a standard logger when the
// request did not pass through RequestLogger.
func Logger(c *gin.Context) logrus.FieldLogger {
	if v, ok := c.Get(loggerKey); ok {
		if entry, ok := v.(logrus.FieldLogger); ok {
			return entry
		}
	}
	return logrus.StandardLogger()
}

func RequestID(c *gin.Context) string {
	return c.GetString(requestIDKey)
}
