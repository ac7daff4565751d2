package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/justsurfingit/jobtrack-ai/internal/apperror"
	"github.com/justsurfingit/jobtrack-ai/internal/middleware"
)

type errorKind struct {
	sentinel error
	status   int
	name     string
}

// Checked in order; ErrInvalidToken before ErrUnauthorized keeps the more
// specific name.
var errorKinds = []errorKind{
	{apperror.ErrValidation, http.StatusUnprocessableEntity, "validation_error"},
	{apperror.ErrConflict, http.StatusBadRequest, "conflict"},
	{apperror.ErrInvalidToken, http.StatusUnauthorized, "invalid_token"},
	{apperror.ErrUnauthorized, http.StatusUnauthorized, "unauthorized"},
	{apperror.ErrNotFound, http.StatusNotFound, "not_found"},
	{apperror.ErrBadRequest, http.StatusBadRequest, "bad_request"},
	{apperror.ErrUnavailable, http.StatusServiceUnavailable, "unavailable"},
	{apperror.ErrUpstream, http.StatusBadGateway, "upstream_error"},
}

// WriteError maps err onto a status code and the {"error", "detail"} body.
// Errors that are not *apperror.AppError are logged and reported as 500.
func WriteError(c *gin.Context, err error) {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		for _, k := range errorKinds {
			if errors.Is(appErr, k.sentinel) {
				body := gin.H{"error": k.name, "detail": appErr.Message}
				if appErr.Field != "" {
					body["field"] = appErr.Field
				}
				c.JSON(k.status, body)
				return
			}
		}
	}

	_ = c.Error(err)
	middleware.Logger(c).WithError(err).Error("Unhandled error")
	c.JSON(http.StatusInternalServerError, gin.H{
		"error":  "internal_error",
		"detail": "Internal server error",
	})
}

// bindError turns a gin binding failure into a validation error.
func bindError(err error) error {
	return apperror.ValidationFailed("", "Invalid request body: "+err.Error())
}
