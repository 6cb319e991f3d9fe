// Package auth provides password hashing and JWT token issuance/verification.
package auth

import (
	"fmt"
	"strconv"
	"time"

	"mesto/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// TokenTTL is how long an issued token stays valid.
const TokenTTL = 7 * 24 * time.Hour

// TokenService issues and verifies signed identity tokens. The signing
// secret is fixed at construction; callers never see which secret is active.
type TokenService struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenService creates a token service signing with the given secret.
func NewTokenService(secret string) (*TokenService, error) {
	if secret == "" {
		return nil, fmt.Errorf("JWT secret not configured")
	}
	return &TokenService{secret: []byte(secret), ttl: TokenTTL}, nil
}

// Issue creates a signed JWT embedding the user ID as the subject claim,
// expiring TokenTTL from now.
func (t *TokenService) Issue(userID uint) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub": strconv.FormatUint(uint64(userID), 10), // Subject (user ID as string)
		"exp": now.Add(t.ttl).Unix(),                  // Expiration
		"iat": now.Unix(),                             // Issued at
		"nbf": now.Unix(),                             // Not before
		"jti": uuid.New().String(),                    // JWT ID
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(t.secret)
}

// Verify parses and validates a token, returning the embedded user ID.
// Malformed, expired, or wrongly-signed tokens all fail with an
// AuthenticationError.
func (t *TokenService) Verify(tokenString string) (uint, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		// Validate signing method
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return t.secret, nil
	})
	if err != nil || !token.Valid {
		return 0, models.NewAuthenticationError("Invalid or expired token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0, models.NewAuthenticationError("Invalid token claims")
	}

	sub, ok := claims["sub"].(string)
	if !ok {
		return 0, models.NewAuthenticationError("Invalid subject claim")
	}

	userID, err := strconv.ParseUint(sub, 10, 32)
	if err != nil {
		return 0, models.NewAuthenticationError("Invalid user ID in token")
	}

	return uint(userID), nil
}
