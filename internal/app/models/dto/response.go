package dto

import "github.com/yigit/iams/internal/pkg/apperrors"

// ItemResponse wraps a single payload
type ItemResponse struct {
	Message string      `json:"message,omitempty"`
	Item    interface{} `json:"item"`
}

// ItemsResponse wraps a collection
type ItemsResponse struct {
	Items interface{} `json:"items"`
}

// MessageResponse carries a bare message
type MessageResponse struct {
	Message string `json:"message" example:"ok"`
}

// ErrorResponse is the body of every failed request
type ErrorResponse struct {
	Message string                 `json:"message" example:"Validation failed"`
	Errors  []apperrors.FieldError `json:"errors,omitempty"`
}

// Items normalises a nil slice so collections always encode as []
func Items[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
