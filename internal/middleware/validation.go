package middleware

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/yigit/iams/internal/app/models/dto"
	"github.com/yigit/iams/internal/pkg/apperrors"
)

// BindJSON decodes and validates the body into obj. On failure it writes a 400
// and returns false.
func BindJSON(c *gin.Context, obj interface{}) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Message: "Invalid request body",
			Errors:  FieldErrors(err),
		})
		return false
	}
	return true
}

// FieldErrors converts binding errors into field entries
func FieldErrors(err error) []apperrors.FieldError {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		out := make([]apperrors.FieldError, 0, len(verrs))
		for _, e := range verrs {
			out = append(out, apperrors.FieldError{Field: fieldName(e), Message: formatValidationError(e)})
		}
		return out
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		return []apperrors.FieldError{{Field: typeErr.Field, Message: "must be a " + typeErr.Type.String()}}
	}

	return []apperrors.FieldError{{Field: "body", Message: err.Error()}}
}

// fieldName drops the struct prefix from the namespace and lowercases the
// first letter of every segment
func fieldName(e validator.FieldError) string {
	ns := e.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		ns = ns[i+1:]
	}
	parts := strings.Split(ns, ".")
	for i, p := range parts {
		if p != "" {
			parts[i] = strings.ToLower(p[:1]) + p[1:]
		}
	}
	return strings.Join(parts, ".")
}

// formatValidationError creates a human-readable validation error message
func formatValidationError(e validator.FieldError) string {
	field := fieldName(e)
	switch e.Tag() {
	case "required":
		return field + " is required"
	case "min":
		return field + " must be at least " + e.Param()
	case "max":
		return field + " must be at most " + e.Param()
	case "gt":
		return field + " must be greater than " + e.Param()
	case "email":
		return field + " must be a valid email address"
	case "oneof":
		return field + " must be one of: " + e.Param()
	case "rolename":
		return field + " must be a known role"
	case "hhmm":
		return field + " must be a 24h time such as 09:30"
	case "weekday":
		return field + " must be one of MON TUE WED THU FRI SAT SUN"
	default:
		return field + " validation failed: " + e.Tag()
	}
}
