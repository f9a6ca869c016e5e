package seed

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/yigit/iams/internal/app/models"
	"github.com/yigit/iams/internal/app/repositories"
	"github.com/yigit/iams/internal/pkg/apperrors"
	jwtauth "github.com/yigit/iams/internal/pkg/auth"
)

// generatedPasswordLength is used when an operator leaves the password empty
const generatedPasswordLength = 12

var roleDescriptions = map[models.RoleName]string{
	models.RoleSuperAdmin:       "Full access including the audit trail",
	models.RoleAdmin:            "Catalog, people and admissions management",
	models.RoleFaculty:          "Teaching staff",
	models.RoleStudent:          "Enrolled learner",
	models.RoleExamCell:         "Exam scheduling and results",
	models.RoleAdmissionOfficer: "Admission review",
}

// AdminConfig names the account created on first boot
type AdminConfig struct {
	Email    string
	Password string
	FullName string
}

// CreateDefaultData makes sure every role exists and, when admin is set,
// that a super admin account exists. Failures are collected, not fatal.
func CreateDefaultData(ctx context.Context, repos *repositories.Repositories, admin *AdminConfig, lgr zerolog.Logger) error {
	lgr.Info().Msg("Checking/Creating default data (roles, admin)...")
	var finalErr error

	if err := EnsureRoles(ctx, repos, lgr); err != nil {
		finalErr = errors.Join(finalErr, err)
	}

	if admin != nil && admin.Email != "" {
		if err := EnsureAdmin(ctx, repos, *admin, lgr); err != nil {
			lgr.Error().Err(err).Str("email", admin.Email).Msg("Error creating default admin")
			finalErr = errors.Join(finalErr, err)
		}
	}

	lgr.Info().Msg("Default data check/creation completed.")
	return finalErr
}

// EnsureRoles inserts any role from models.AllRoles that is missing
func EnsureRoles(ctx context.Context, repos *repositories.Repositories, lgr zerolog.Logger) error {
	var finalErr error
	for _, name := range models.AllRoles {
		_, err := repos.Roles.GetByName(ctx, name)
		if err == nil {
			continue
		}
		if !apperrors.IsNotFound(err) {
			finalErr = errors.Join(finalErr, fmt.Errorf("look up role %s: %w", name, err))
			continue
		}

		role := &models.Role{ID: uuid.NewString(), Name: name, Description: roleDescriptions[name]}
		if err := repos.Roles.Create(ctx, role); err != nil && !errors.Is(err, apperrors.ErrConflict) {
			lgr.Error().Err(err).Str("role", string(name)).Msg("Error creating role")
			finalErr = errors.Join(finalErr, err)
			continue
		}
		lgr.Debug().Str("role", string(name)).Msg("Role created")
	}
	return finalErr
}

// EnsureAdmin creates the super admin unless the email is already registered
func EnsureAdmin(ctx context.Context, repos *repositories.Repositories, admin AdminConfig, lgr zerolog.Logger) error {
	if _, err := repos.Users.GetByEmail(ctx, admin.Email); err == nil {
		lgr.Debug().Str("email", admin.Email).Msg("Default admin already exists")
		return nil
	} else if !apperrors.IsNotFound(err) {
		return err
	}

	if admin.Password == "" {
		return apperrors.NewValidation("admin password is required")
	}

	name := admin.FullName
	if name == "" {
		name = "Administrator"
	}
	if _, _, err := CreateUser(ctx, repos, admin.Email, name, models.RoleSuperAdmin, admin.Password); err != nil {
		return err
	}
	lgr.Info().Str("email", admin.Email).Msg("Default admin created")
	return nil
}

// CreateUser registers an account with the given role. An empty password is
// replaced by a generated one, which is returned.
func CreateUser(ctx context.Context, repos *repositories.Repositories, email, fullName string, role models.RoleName, password string) (*models.User, string, error) {
	if !role.Valid() {
		return nil, "", apperrors.NewValidation("unknown role %q", role)
	}
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil, "", apperrors.NewValidation("email is required")
	}

	r, err := repos.Roles.GetByName(ctx, role)
	if err != nil {
		return nil, "", fmt.Errorf("role %s is not seeded: %w", role, err)
	}

	password, err = passwordOrGenerated(password)
	if err != nil {
		return nil, "", err
	}
	hash, err := jwtauth.HashPassword(password)
	if err != nil {
		return nil, "", err
	}

	user := &models.User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: hash,
		FullName:     strings.TrimSpace(fullName),
		RoleID:       r.ID,
		Status:       models.UserActive,
	}
	if err := repos.Users.Create(ctx, user); err != nil {
		return nil, "", err
	}
	user.Role = r
	return user, password, nil
}

// ResetPassword sets a new password for the account, generating one if empty
func ResetPassword(ctx context.Context, repos *repositories.Repositories, email, password string) (string, error) {
	user, err := repos.Users.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return "", err
	}
	password, err = passwordOrGenerated(password)
	if err != nil {
		return "", err
	}
	hash, err := jwtauth.HashPassword(password)
	if err != nil {
		return "", err
	}
	if err := repos.Users.UpdatePassword(ctx, user.ID, hash); err != nil {
		return "", err
	}
	return password, nil
}

func passwordOrGenerated(password string) (string, error) {
	if password != "" {
		return password, nil
	}
	return jwtauth.GeneratePassword(generatedPasswordLength)
}
