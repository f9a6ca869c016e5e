package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yigit/iams/internal/app/models"
	"github.com/yigit/iams/internal/app/models/dto"
	"github.com/yigit/iams/internal/pkg/apperrors"
)

func TestSignupThenLogin(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)

	signup, err := e.svc.Auth.Signup(ctx, dto.SignupRequest{Email: "A@X.com", Password: "pw", FullName: "Ada", RoleName: "STUDENT"})
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", signup.User.Email)
	assert.Equal(t, models.RoleStudent, signup.User.RoleName())
	assert.NotEmpty(t, signup.Token)

	login, err := e.svc.Auth.Login(ctx, dto.LoginRequest{Email: "a@x.com", Password: "pw"})
	require.NoError(t, err)
	require.NotNil(t, login.User.LastLoginAt)
	assert.Equal(t, testNow, *login.User.LastLoginAt)

	claims, err := e.tokens.Decode(login.Token)
	require.NoError(t, err)
	assert.Equal(t, string(models.RoleStudent), claims.Role)
	assert.Equal(t, signup.User.ID, claims.UserID)
}

func TestSignupDefaultsToStudent(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)

	signup, err := e.svc.Auth.Signup(ctx, dto.SignupRequest{Email: "plain@x.com", Password: "pw", FullName: "Plain"})
	require.NoError(t, err)
	assert.Equal(t, models.RoleStudent, signup.User.RoleName())

	claims, err := e.tokens.Decode(signup.Token)
	require.NoError(t, err)
	assert.Equal(t, string(models.RoleStudent), claims.Role)
}

func TestSignupRejections(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	_, err := e.svc.Auth.Signup(ctx, dto.SignupRequest{Email: "taken@x.com", Password: "pw", FullName: "T", RoleName: "FACULTY"})
	require.NoError(t, err)

	tests := []struct {
		name string
		req  dto.SignupRequest
		want error
	}{
		{"unknown role", dto.SignupRequest{Email: "b@x.com", Password: "pw", FullName: "B", RoleName: "WIZARD"}, apperrors.ErrValidation},
		{"privileged role", dto.SignupRequest{Email: "b@x.com", Password: "pw", FullName: "B", RoleName: "ADMIN"}, apperrors.ErrForbidden},
		{"email taken", dto.SignupRequest{Email: "TAKEN@x.com", Password: "pw", FullName: "B", RoleName: "STUDENT"}, apperrors.ErrConflict},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := e.svc.Auth.Signup(ctx, tt.req)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestLoginFailures(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	_, err := e.svc.Auth.Signup(ctx, dto.SignupRequest{Email: "a@x.com", Password: "right", FullName: "A", RoleName: "STUDENT"})
	require.NoError(t, err)

	_, err = e.svc.Auth.Login(ctx, dto.LoginRequest{Email: "a@x.com", Password: "wrong"})
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
	assert.Equal(t, "Invalid email or password", apperrors.Message(err, ""))

	_, err = e.svc.Auth.Login(ctx, dto.LoginRequest{Email: "nobody@x.com", Password: "right"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
}

func TestLogoutRevokesToken(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	p := e.principal(t, models.RoleStudent)

	require.NoError(t, e.svc.Auth.Logout(ctx, p))

	revoked, err := e.revoked.IsRevoked(ctx, p.TokenID)
	require.NoError(t, err)
	assert.True(t, revoked)
	assert.Equal(t, p.User, e.svc.Auth.Me(ctx, p))
}
