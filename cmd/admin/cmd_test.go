package main

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yigit/iams/internal/app/models"
	"github.com/yigit/iams/internal/app/repositories"
	"github.com/yigit/iams/internal/app/repositories/memory"
	"github.com/yigit/iams/internal/config"
	jwtauth "github.com/yigit/iams/internal/pkg/auth"
)

func init() {
	jwtauth.BcryptCost = 4
}

func setup(t *testing.T, driver string) (*commandLine, *memory.Store, *bytes.Buffer) {
	t.Helper()
	store := memory.New()
	out := &bytes.Buffer{}
	cfg := &config.Config{}
	cfg.Database.Driver = driver
	cfg.Database.MigrationsDir = "migrations"
	cfg.Seed.AdminEmail = "root@iams.local"
	cfg.Seed.AdminPassword = "rootpass"

	cli := newCommandLine(out)
	cli.loadConfig = func() (*config.Config, error) { return cfg, nil }
	cli.openStore = func(context.Context, *config.Config) (repositories.Store, error) { return store, nil }
	return cli, store, out
}

func TestMigrate(t *testing.T) {
	cli, _, out := setup(t, config.DriverPostgres)
	var gotDir string
	cli.migrate = func(_ context.Context, _ *config.Config, dir string) error {
		gotDir = dir
		return nil
	}

	require.NoError(t, cli.app().Run([]string{"iams-admin", "migrate"}))
	assert.Equal(t, "migrations", gotDir)
	assert.Contains(t, out.String(), "migrations applied")

	require.NoError(t, cli.app().Run([]string{"iams-admin", "migrate", "--dir", "db/sql"}))
	assert.Equal(t, "db/sql", gotDir)
}

func TestMigrateRejectsMemoryDriver(t *testing.T) {
	cli, _, _ := setup(t, config.DriverMemory)
	cli.migrate = func(context.Context, *config.Config, string) error {
		t.Fatal("migrate must not run")
		return nil
	}
	assert.Error(t, cli.app().Run([]string{"iams-admin", "migrate"}))
}

func TestSeedCreatesRolesAndAdmin(t *testing.T) {
	cli, store, out := setup(t, config.DriverPostgres)
	ctx := context.Background()

	require.NoError(t, cli.app().Run([]string{"iams-admin", "seed"}))
	assert.Contains(t, out.String(), "default data ready")

	roles, err := store.Repositories().Roles.List(ctx)
	require.NoError(t, err)
	assert.Len(t, roles, len(models.AllRoles))

	admin, err := store.Repositories().Users.GetByEmail(ctx, "root@iams.local")
	require.NoError(t, err)
	assert.True(t, jwtauth.CheckPassword(admin.PasswordHash, "rootpass"))

	// second run is a no-op
	require.NoError(t, cli.app().Run([]string{"iams-admin", "seed"}))
}

func TestCreateUserAndResetPassword(t *testing.T) {
	cli, store, out := setup(t, config.DriverPostgres)
	ctx := context.Background()

	err := cli.app().Run([]string{"iams-admin", "create-user",
		"--email", "Cell@IAMS.local", "--name", "Exam Cell", "--role", "EXAM_CELL", "--password", "cellpass"})
	require.NoError(t, err)
	assert.Contains(t, out.String(), "created cell@iams.local (EXAM_CELL)")
	assert.NotContains(t, out.String(), "password:")

	user, err := store.Repositories().Users.GetByEmail(ctx, "cell@iams.local")
	require.NoError(t, err)
	assert.True(t, jwtauth.CheckPassword(user.PasswordHash, "cellpass"))

	out.Reset()
	require.NoError(t, cli.app().Run([]string{"iams-admin", "reset-password", "--email", "cell@iams.local"}))
	assert.Contains(t, out.String(), "password: ")

	user, err = store.Repositories().Users.GetByEmail(ctx, "cell@iams.local")
	require.NoError(t, err)
	assert.False(t, jwtauth.CheckPassword(user.PasswordHash, "cellpass"))
}

func TestCreateUserRejectsUnknownRole(t *testing.T) {
	cli, _, _ := setup(t, config.DriverPostgres)
	err := cli.app().Run([]string{"iams-admin", "create-user", "--email", "x@y.z", "--name", "X", "--role", "JANITOR"})
	assert.Error(t, err)
}

func TestResetPasswordUnknownUser(t *testing.T) {
	cli, _, _ := setup(t, config.DriverPostgres)
	assert.Error(t, cli.app().Run([]string{"iams-admin", "reset-password", "--email", "ghost@x.com"}))
}
