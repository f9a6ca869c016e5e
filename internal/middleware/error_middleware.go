package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yigit/iams/internal/app/models/dto"
	"github.com/yigit/iams/internal/pkg/apperrors"
	"github.com/yigit/iams/internal/pkg/logger"
)

var statusBySentinel = []struct {
	sentinel error
	status   int
	fallback string
}{
	{apperrors.ErrValidation, http.StatusBadRequest, "Validation failed"},
	{apperrors.ErrUnauthorized, http.StatusUnauthorized, "Authentication required"},
	{apperrors.ErrForbidden, http.StatusForbidden, "Permission denied"},
	{apperrors.ErrNotFound, http.StatusNotFound, "Resource not found"},
	{apperrors.ErrConflict, http.StatusConflict, "Resource already exists"},
}

// HandleAPIError writes the response for err. Errors outside the taxonomy are
// logged and reported as a generic 500.
func HandleAPIError(c *gin.Context, err error) {
	for _, m := range statusBySentinel {
		if errors.Is(err, m.sentinel) {
			c.JSON(m.status, dto.ErrorResponse{
				Message: apperrors.Message(err, m.fallback),
				Errors:  apperrors.Fields(err),
			})
			return
		}
	}

	logger.Error().Err(err).
		Str("method", c.Request.Method).
		Str("path", c.Request.URL.Path).
		Str("requestID", c.GetString(requestIDKey)).
		Msg("Unhandled error")
	c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Internal server error"})
}

// Recovery turns a panic into a logged 500
func Recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		logger.Error().
			Interface("panic", recovered).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Str("requestID", c.GetString(requestIDKey)).
			Msg("Recovered from panic")
		c.AbortWithStatusJSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Internal server error"})
	})
}
