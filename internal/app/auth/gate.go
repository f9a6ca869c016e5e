// Package auth resolves the caller of a request and checks it against a role
// allow-list.
package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/yigit/iams/internal/app/models"
	"github.com/yigit/iams/internal/app/repositories"
	"github.com/yigit/iams/internal/pkg/apperrors"
	jwtauth "github.com/yigit/iams/internal/pkg/auth"
	"github.com/yigit/iams/internal/pkg/logger"
	"github.com/yigit/iams/internal/pkg/revocation"
)

// Principal is the authenticated caller
type Principal struct {
	User      *models.User
	Role      models.RoleName
	TokenID   string
	ExpiresAt time.Time
}

// UserID returns the id of the calling user
func (p *Principal) UserID() string {
	return p.User.ID
}

// Is reports whether the principal holds one of roles
func (p *Principal) Is(roles ...models.RoleName) bool {
	for _, r := range roles {
		if p.Role == r {
			return true
		}
	}
	return false
}

// Gate authenticates bearer tokens and resolves the stored role of the user
type Gate struct {
	tokens  *jwtauth.TokenService
	revoked revocation.Store
	users   repositories.UserRepository
	roles   repositories.RoleRepository
}

// NewGate creates a Gate
func NewGate(tokens *jwtauth.TokenService, revoked revocation.Store, repos *repositories.Repositories) *Gate {
	return &Gate{
		tokens:  tokens,
		revoked: revoked,
		users:   repos.Users,
		roles:   repos.Roles,
	}
}

// Authorize checks header against allowed. An empty allow-list admits any
// authenticated user.
func (g *Gate) Authorize(ctx context.Context, header string, allowed ...models.RoleName) (*Principal, error) {
	raw, err := jwtauth.ExtractBearerToken(header)
	if err != nil {
		return nil, apperrors.NewUnauthorized("Authentication required")
	}

	claims, err := g.tokens.Decode(raw)
	if err != nil {
		return nil, apperrors.NewUnauthorized("Invalid or expired token")
	}

	revoked, err := g.revoked.IsRevoked(ctx, claims.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to check token revocation: %w", err)
	}
	if revoked {
		return nil, apperrors.NewUnauthorized("Token has been revoked")
	}

	user, err := g.users.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NewUnauthorized("User no longer exists")
		}
		return nil, err
	}
	if user.Status == models.UserInactive {
		return nil, apperrors.NewUnauthorized("Account is inactive")
	}

	role, err := g.roles.GetByID(ctx, user.RoleID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			logger.Warn().Str("userID", user.ID).Str("roleID", user.RoleID).Msg("User references a missing role")
			return nil, apperrors.NewUnauthorized("User role not found")
		}
		return nil, err
	}
	user.Role = role

	principal := &Principal{User: user, Role: role.Name, TokenID: claims.ID}
	if claims.ExpiresAt != nil {
		principal.ExpiresAt = claims.ExpiresAt.Time
	}

	if len(allowed) > 0 && !principal.Is(allowed...) {
		return principal, apperrors.NewForbidden("You don't have permission for this action")
	}
	return principal, nil
}
