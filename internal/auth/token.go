package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/twendycreate/twendy-api/internal/models"
)

// TokenManager issues and verifies signed session tokens. Verification is
// stateless: a token is valid iff its signature and time bounds check out
// against the process-wide secret.
type TokenManager struct {
	secret     []byte
	defaultTTL time.Duration
}

// NewTokenManager creates a new TokenManager. The secret is validated at
// startup by config.Load; an empty secret never reaches this point.
func NewTokenManager(secret string, defaultTTL time.Duration) *TokenManager {
	return &TokenManager{
		secret:     []byte(secret),
		defaultTTL: defaultTTL,
	}
}

// Issue signs a session token for user with the given TTL. A zero ttl uses
// the configured default.
func (tm *TokenManager) Issue(user *models.User, ttl time.Duration) (string, error) {
	if ttl == 0 {
		ttl = tm.defaultTTL
	}

	now := time.Now()
	claims := &models.SessionClaims{
		UserID: user.ID,
		Email:  user.Email,
		Nome:   user.Nome,
		BI:     user.BI,
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			Subject:   user.ID,
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}
	if user.GoogleID != nil {
		claims.GoogleID = *user.GoogleID
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	tokenString, err := token.SignedString(tm.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign session token: %w", err)
	}

	return tokenString, nil
}

// Verify parses and verifies a session token, returning its claims.
// Any failure (malformed, expired, bad signature) maps to ErrUnauthorized;
// callers surface a uniform 401 with no further detail.
func (tm *TokenManager) Verify(tokenString string) (*models.SessionClaims, error) {
	claims := &models.SessionClaims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return tm.secret, nil
	})

	if err != nil || !token.Valid {
		return nil, models.ErrUnauthorized
	}

	if claims.UserID == "" {
		return nil, models.ErrUnauthorized
	}

	return claims, nil
}
