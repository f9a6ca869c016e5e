package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/yigit/iams/internal/app/auth"
	"github.com/yigit/iams/internal/app/models"
	"github.com/yigit/iams/internal/app/models/dto"
	"github.com/yigit/iams/internal/app/repositories"
	"github.com/yigit/iams/internal/pkg/apperrors"
	jwtauth "github.com/yigit/iams/internal/pkg/auth"
	"github.com/yigit/iams/internal/pkg/logger"
	"github.com/yigit/iams/internal/pkg/revocation"
)

// errInvalidLogin is returned for unknown emails and wrong passwords alike
var errInvalidLogin = &apperrors.AppError{Err: apperrors.ErrInvalidCredentials, Message: "Invalid email or password"}

// AuthService handles signup, login and logout
type AuthService struct {
	store       repositories.Store
	tokens      *jwtauth.TokenService
	revocations revocation.Store
	signupRoles map[models.RoleName]bool
	now         func() time.Time
}

// NewAuthService creates a new AuthService
func NewAuthService(store repositories.Store, tokens *jwtauth.TokenService, revocations revocation.Store, signupRoles []models.RoleName, now func() time.Time) *AuthService {
	open := make(map[models.RoleName]bool, len(signupRoles))
	for _, r := range signupRoles {
		open[r] = true
	}
	return &AuthService{
		store:       store,
		tokens:      tokens,
		revocations: revocations,
		signupRoles: open,
		now:         now,
	}
}

// Signup creates an account for one of the self-service roles and signs it in
func (s *AuthService) Signup(ctx context.Context, req dto.SignupRequest) (*dto.AuthResponse, error) {
	roleName := models.RoleName(strings.TrimSpace(req.RoleName))
	if roleName == "" {
		roleName = models.RoleStudent
	}
	if !roleName.Valid() {
		return nil, apperrors.NewValidation("Invalid role").WithFields(apperrors.FieldError{Field: "roleName", Message: "unknown role"})
	}
	if !s.signupRoles[roleName] {
		return nil, apperrors.NewForbidden("Role %s is not open for signup", roleName)
	}

	repos := s.store.Repositories()
	emailAddr := normalizeEmail(req.Email)
	if _, err := repos.Users.GetByEmail(ctx, emailAddr); err == nil {
		return nil, apperrors.NewConflict("Email already registered")
	} else if !apperrors.IsNotFound(err) {
		return nil, err
	}

	role, err := repos.Roles.GetByName(ctx, roleName)
	if err != nil {
		return nil, fmt.Errorf("failed to load role %s: %w", roleName, err)
	}

	hash, err := jwtauth.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		ID:           uuid.NewString(),
		Email:        emailAddr,
		PasswordHash: hash,
		FullName:     strings.TrimSpace(req.FullName),
		RoleID:       role.ID,
		Status:       models.UserActive,
	}
	if err := repos.Users.Create(ctx, user); err != nil {
		if errors.Is(err, apperrors.ErrConflict) {
			return nil, apperrors.NewConflict("Email already registered")
		}
		return nil, err
	}
	user.Role = role

	logger.Info().Str("userID", user.ID).Str("role", string(roleName)).Msg("User signed up")
	return s.issue(user)
}

// Login verifies the credentials and records the login time
func (s *AuthService) Login(ctx context.Context, req dto.LoginRequest) (*dto.AuthResponse, error) {
	repos := s.store.Repositories()

	user, err := repos.Users.GetByEmail(ctx, normalizeEmail(req.Email))
	if err != nil {
		if apperrors.IsNotFound(err) {
			return nil, errInvalidLogin
		}
		return nil, err
	}
	if !jwtauth.CheckPassword(user.PasswordHash, req.Password) {
		return nil, errInvalidLogin
	}
	if user.Status == models.UserInactive {
		return nil, apperrors.NewUnauthorized("Account is inactive")
	}

	role, err := repos.Roles.GetByID(ctx, user.RoleID)
	if err != nil {
		return nil, fmt.Errorf("failed to load role of user %s: %w", user.ID, err)
	}
	user.Role = role

	now := s.now()
	if err := repos.Users.UpdateLastLogin(ctx, user.ID, now); err != nil {
		return nil, err
	}
	user.LastLoginAt = &now

	return s.issue(user)
}

// Logout revokes the presented token until it would have expired anyway
func (s *AuthService) Logout(ctx context.Context, p *auth.Principal) error {
	until := p.ExpiresAt
	if until.IsZero() {
		until = s.now().Add(s.tokens.Expiry())
	}
	if err := s.revocations.Revoke(ctx, p.TokenID, until); err != nil {
		return fmt.Errorf("failed to revoke token: %w", err)
	}
	return nil
}

// Me returns the calling user with its role
func (s *AuthService) Me(_ context.Context, p *auth.Principal) *models.User {
	return p.User
}

func (s *AuthService) issue(user *models.User) (*dto.AuthResponse, error) {
	token, err := s.tokens.Issue(user.ID, string(user.RoleName()))
	if err != nil {
		return nil, err
	}
	return &dto.AuthResponse{Token: token.Token, ExpiresAt: token.ExpiresAt, User: user}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
