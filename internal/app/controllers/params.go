package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yigit/iams/internal/app/models/dto"
	"github.com/yigit/iams/internal/pkg/apperrors"
	"github.com/yigit/iams/internal/pkg/helpers"
)

// requiredQuery reads a mandatory query parameter, writing a 400 when it is missing
func requiredQuery(ctx *gin.Context, key string) (string, bool) {
	v := ctx.Query(key)
	if v == "" {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Message: "Missing query parameter",
			Errors:  []apperrors.FieldError{{Field: key, Message: key + " is required"}},
		})
		return "", false
	}
	return v, true
}

// queryTime reads an optional date parameter, writing a 400 when it is malformed
func queryTime(ctx *gin.Context, key string) (*time.Time, bool) {
	t, ok := helpers.QueryTime(ctx, key)
	if !ok {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Message: "Invalid query parameter",
			Errors:  []apperrors.FieldError{{Field: key, Message: key + " must be a date (YYYY-MM-DD) or RFC 3339 timestamp"}},
		})
		return nil, false
	}
	return t, true
}

func item(ctx *gin.Context, status int, v interface{}) {
	ctx.JSON(status, dto.ItemResponse{Item: v})
}

func items[T any](ctx *gin.Context, v []T) {
	ctx.JSON(http.StatusOK, dto.ItemsResponse{Items: dto.Items(v)})
}
