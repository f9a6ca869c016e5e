package seed

import (
	"context"
	"io"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yigit/iams/internal/app/models"
	"github.com/yigit/iams/internal/app/repositories/memory"
	"github.com/yigit/iams/internal/pkg/apperrors"
	jwtauth "github.com/yigit/iams/internal/pkg/auth"
)

func init() {
	jwtauth.BcryptCost = 4
}

var quiet = zerolog.New(io.Discard)

func TestEnsureRolesIsIdempotent(t *testing.T) {
	ctx := context.Background()
	repos := memory.New().Repositories()

	require.NoError(t, EnsureRoles(ctx, repos, quiet))
	require.NoError(t, EnsureRoles(ctx, repos, quiet))

	roles, err := repos.Roles.List(ctx)
	require.NoError(t, err)
	assert.Len(t, roles, len(models.AllRoles))
}

func TestCreateDefaultDataAdmin(t *testing.T) {
	ctx := context.Background()
	repos := memory.New().Repositories()
	admin := &AdminConfig{Email: "Root@IAMS.local", Password: "rootpass"}

	require.NoError(t, CreateDefaultData(ctx, repos, admin, quiet))
	require.NoError(t, CreateDefaultData(ctx, repos, admin, quiet))

	user, err := repos.Users.GetByEmail(ctx, "root@iams.local")
	require.NoError(t, err)
	assert.Equal(t, "Administrator", user.FullName)
	role, err := repos.Roles.GetByID(ctx, user.RoleID)
	require.NoError(t, err)
	assert.Equal(t, models.RoleSuperAdmin, role.Name)
}

func TestCreateDefaultDataWithoutAdmin(t *testing.T) {
	ctx := context.Background()
	repos := memory.New().Repositories()

	require.NoError(t, CreateDefaultData(ctx, repos, nil, quiet))
	_, err := repos.Roles.GetByName(ctx, models.RoleExamCell)
	assert.NoError(t, err)
}

func TestEnsureAdminNeedsPassword(t *testing.T) {
	ctx := context.Background()
	repos := memory.New().Repositories()
	require.NoError(t, EnsureRoles(ctx, repos, quiet))

	err := EnsureAdmin(ctx, repos, AdminConfig{Email: "root@iams.local"}, quiet)
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestCreateUserGeneratesPassword(t *testing.T) {
	ctx := context.Background()
	repos := memory.New().Repositories()
	require.NoError(t, EnsureRoles(ctx, repos, quiet))

	user, password, err := CreateUser(ctx, repos, "t@x.com", "Teacher", models.RoleFaculty, "")
	require.NoError(t, err)
	assert.Len(t, password, generatedPasswordLength)
	assert.True(t, jwtauth.CheckPassword(user.PasswordHash, password))
	assert.Equal(t, models.RoleFaculty, user.RoleName())

	_, _, err = CreateUser(ctx, repos, "t@x.com", "Teacher", models.RoleFaculty, "x")
	assert.ErrorIs(t, err, apperrors.ErrConflict)

	_, _, err = CreateUser(ctx, repos, "u@x.com", "U", models.RoleName("JANITOR"), "x")
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestResetPassword(t *testing.T) {
	ctx := context.Background()
	repos := memory.New().Repositories()
	require.NoError(t, EnsureRoles(ctx, repos, quiet))
	_, _, err := CreateUser(ctx, repos, "s@x.com", "S", models.RoleStudent, "old")
	require.NoError(t, err)

	_, err = ResetPassword(ctx, repos, "S@x.com", "new")
	require.NoError(t, err)

	user, err := repos.Users.GetByEmail(ctx, "s@x.com")
	require.NoError(t, err)
	assert.True(t, jwtauth.CheckPassword(user.PasswordHash, "new"))

	_, err = ResetPassword(ctx, repos, "ghost@x.com", "")
	assert.True(t, apperrors.IsNotFound(err))
}
