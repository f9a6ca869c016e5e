package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// ErrInvalidToken covers malformed, badly signed and expired tokens alike
var ErrInvalidToken = errors.New("invalid token")

// TokenConfig defines token settings
type TokenConfig struct {
	SecretKey string
	Expiry    time.Duration
	Issuer    string
}

// TokenService issues and decodes signed session tokens
type TokenService struct {
	config TokenConfig
	now    func() time.Time
}

// NewTokenService creates a token service. An empty secret is rejected.
func NewTokenService(config TokenConfig) (*TokenService, error) {
	if config.SecretKey == "" {
		return nil, errors.New("token secret is required")
	}
	if config.Expiry <= 0 {
		config.Expiry = 7 * 24 * time.Hour
	}
	return &TokenService{config: config, now: time.Now}, nil
}

// Claims defines token content
type Claims struct {
	UserID string `json:"userId"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// IssuedToken is a signed token plus its metadata
type IssuedToken struct {
	Token     string
	ID        string
	ExpiresAt time.Time
}

// Issue signs a token for the user
func (s *TokenService) Issue(userID, role string) (*IssuedToken, error) {
	now := s.now()
	expiresAt := now.Add(s.config.Expiry)
	id := uuid.NewString()

	claims := &Claims{
		UserID: userID,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    s.config.Issuer,
			Subject:   userID,
			ID:        id,
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.config.SecretKey))
	if err != nil {
		return nil, fmt.Errorf("failed to sign token: %w", err)
	}

	return &IssuedToken{Token: signed, ID: id, ExpiresAt: expiresAt}, nil
}

// Decode verifies signature and expiry and returns the claims
func (s *TokenService) Decode(tokenString string) (*Claims, error) {
	if tokenString == "" {
		return nil, ErrInvalidToken
	}

	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.config.SecretKey), nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.UserID == "" {
		return nil, ErrInvalidToken
	}

	return claims, nil
}

// Expiry returns the configured token lifetime
func (s *TokenService) Expiry() time.Duration {
	return s.config.Expiry
}

// ExtractBearerToken extracts the token from an Authorization header value
func ExtractBearerToken(authHeader string) (string, error) {
	parts := strings.Fields(authHeader)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", ErrInvalidToken
	}
	return parts[1], nil
}
