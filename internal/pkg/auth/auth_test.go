package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newTestService(t *testing.T) *TokenService {
	t.Helper()
	svc, err := NewTokenService(TokenConfig{SecretKey: "test-secret", Expiry: time.Hour, Issuer: "iams-test"})
	require.NoError(t, err)
	return svc
}

func TestNewTokenService_RequiresSecret(t *testing.T) {
	_, err := NewTokenService(TokenConfig{})
	assert.Error(t, err)
}

func TestNewTokenService_DefaultExpiry(t *testing.T) {
	svc, err := NewTokenService(TokenConfig{SecretKey: "x"})
	require.NoError(t, err)
	assert.Equal(t, 7*24*time.Hour, svc.Expiry())
}

func TestIssueAndDecode(t *testing.T) {
	svc := newTestService(t)

	issued, err := svc.Issue("user-1", "STUDENT")
	require.NoError(t, err)
	assert.NotEmpty(t, issued.ID)

	claims, err := svc.Decode(issued.Token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "STUDENT", claims.Role)
	assert.Equal(t, issued.ID, claims.ID)
}

func TestDecode_InvalidTokensCollapse(t *testing.T) {
	svc := newTestService(t)
	other, err := NewTokenService(TokenConfig{SecretKey: "other-secret", Expiry: time.Hour})
	require.NoError(t, err)

	foreign, err := other.Issue("user-1", "ADMIN")
	require.NoError(t, err)

	expiredSvc := newTestService(t)
	expiredSvc.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	expired, err := expiredSvc.Issue("user-1", "ADMIN")
	require.NoError(t, err)

	none := jwt.NewWithClaims(jwt.SigningMethodNone, &Claims{UserID: "user-1"})
	unsigned, err := none.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
	}{
		{"empty", ""},
		{"garbage", "not-a-token"},
		{"wrong secret", foreign.Token},
		{"expired", expired.Token},
		{"alg none", unsigned},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Decode(tt.token)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}

func TestExtractBearerToken(t *testing.T) {
	tests := []struct {
		header  string
		want    string
		wantErr bool
	}{
		{"Bearer abc", "abc", false},
		{"bearer abc", "abc", false},
		{"", "", true},
		{"abc", "", true},
		{"Basic abc", "", true},
		{"Bearer a b", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.header, func(t *testing.T) {
			got, err := ExtractBearerToken(tt.header)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidToken)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPasswordHashing(t *testing.T) {
	BcryptCost = bcrypt.MinCost

	hash, err := HashPassword("pw")
	require.NoError(t, err)
	assert.NotEqual(t, "pw", hash)
	assert.True(t, CheckPassword(hash, "pw"))
	assert.False(t, CheckPassword(hash, "PW"))

	again, err := HashPassword("pw")
	require.NoError(t, err)
	assert.NotEqual(t, hash, again, "hashes are salted")
}

func TestGeneratePassword(t *testing.T) {
	pw, err := GeneratePassword(10)
	require.NoError(t, err)
	assert.Len(t, pw, 10)
	for _, r := range pw {
		assert.True(t, strings.ContainsRune(passwordCharset, r), "unexpected rune %q", r)
	}
}
