package dto

import (
	"time"

	"github.com/yigit/iams/internal/app/models"
)

// SignupRequest is a self-service account request
type SignupRequest struct {
	Email    string `json:"email" binding:"required,email" example:"a@x.com"`
	Password string `json:"password" binding:"required" example:"secret"`
	FullName string `json:"fullName" binding:"required" example:"Ada Lovelace"`
	// RoleName defaults to STUDENT
	RoleName string `json:"roleName,omitempty" example:"STUDENT"`
}

// LoginRequest represents login credentials
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// AuthResponse represents successful authentication response
type AuthResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expiresAt"`
	User      *models.User `json:"user"`
}
