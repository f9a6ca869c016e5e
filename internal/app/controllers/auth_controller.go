package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yigit/iams/internal/app/models/dto"
	"github.com/yigit/iams/internal/app/services"
	"github.com/yigit/iams/internal/middleware"
)

// AuthController handles authentication requests
type AuthController struct {
	authService *services.AuthService
}

// NewAuthController creates a new AuthController
func NewAuthController(authService *services.AuthService) *AuthController {
	return &AuthController{authService: authService}
}

// Signup handles self-service account creation
// @Summary Sign up
// @Description Creates an account for one of the roles open to self-signup and returns a token
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.SignupRequest true "Account details"
// @Success 201 {object} dto.AuthResponse "Account created"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data or unknown role"
// @Failure 403 {object} dto.ErrorResponse "Role is not open for self-signup"
// @Failure 409 {object} dto.ErrorResponse "Email already registered"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /auth/signup [post]
func (c *AuthController) Signup(ctx *gin.Context) {
	var req dto.SignupRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	res, err := c.authService.Signup(ctx.Request.Context(), req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, res)
}

// Login handles user login
// @Summary Log in
// @Description Authenticates a user and returns a token
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.LoginRequest true "Login credentials"
// @Success 200 {object} dto.AuthResponse "Login successful"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 401 {object} dto.ErrorResponse "Invalid email or password"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /auth/login [post]
func (c *AuthController) Login(ctx *gin.Context) {
	var req dto.LoginRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	res, err := c.authService.Login(ctx.Request.Context(), req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, res)
}

// Logout revokes the presented token
// @Summary Log out
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.MessageResponse "Logged out"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Router /auth/logout [post]
func (c *AuthController) Logout(ctx *gin.Context) {
	if err := c.authService.Logout(ctx.Request.Context(), middleware.CurrentPrincipal(ctx)); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.MessageResponse{Message: "Logged out"})
}

// Me returns the caller
// @Summary Current user
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.ItemResponse{item=models.User}
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Router /me [get]
func (c *AuthController) Me(ctx *gin.Context) {
	item(ctx, http.StatusOK, c.authService.Me(ctx.Request.Context(), middleware.CurrentPrincipal(ctx)))
}
