package auth

import (
	"fmt"
	"time"

	"PostBoard/internal/app_errors"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const RefreshTokenType = "refresh"

const (
	defaultAccessTTL  = 30 * time.Minute
	defaultRefreshTTL = 7 * 24 * time.Hour
)

var signingMethod = jwt.SigningMethodHS256

type JWTManager struct {
	secretKey  string
	accessTTL  time.Duration
	refreshTTL time.Duration
}

func NewJWTManager(secretKey string, accessTTL, refreshTTL time.Duration) *JWTManager {
	if accessTTL <= 0 {
		accessTTL = defaultAccessTTL
	}
	if refreshTTL <= 0 {
		refreshTTL = defaultRefreshTTL
	}
	return &JWTManager{
		secretKey:  secretKey,
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
	}
}

// TokenClaims is the single claims shape for both token kinds.
// Access tokens carry username/email/user_id, refresh tokens only
// user_id plus the "refresh" type tag.
type TokenClaims struct {
	Username  string    `json:"username,omitempty"`
	Email     string    `json:"email,omitempty"`
	UserID    uuid.UUID `json:"user_id"`
	TokenType string    `json:"type,omitempty"`
	jwt.RegisteredClaims
}

// IssueAccess signs an access token for the user. A non-positive ttl
// falls back to the configured access lifetime.
func (j *JWTManager) IssueAccess(username, email string, userID uuid.UUID, ttl time.Duration) (string, error) {
	if ttl <= 0 {
		ttl = j.accessTTL
	}
	now := time.Now()
	token := jwt.NewWithClaims(signingMethod, TokenClaims{
		Username: username,
		Email:    email,
		UserID:   userID,
		RegisteredClaims: jwt.RegisteredClaims{
			// Unique jti: a re-login right after logout must not mint
			// the byte-identical, already blacklisted token.
			ID:        uuid.NewString(),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	})

	signed, err := token.SignedString([]byte(j.secretKey))
	if err != nil {
		return "", fmt.Errorf("access token signing failed: %w", err)
	}
	return signed, nil
}

func (j *JWTManager) IssueRefresh(userID uuid.UUID) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(signingMethod, TokenClaims{
		UserID:    userID,
		TokenType: RefreshTokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			// Unique jti: concurrent logins in the same second must
			// still mint distinct tokens per device.
			ID:        uuid.NewString(),
			ExpiresAt: jwt.NewNumericDate(now.Add(j.refreshTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	})

	signed, err := token.SignedString([]byte(j.secretKey))
	if err != nil {
		return "", fmt.Errorf("refresh token signing failed: %w", err)
	}
	return signed, nil
}

// Verify validates signature and expiry. Every failure mode collapses
// to ErrInvalidToken so callers cannot tell a forged token from an
// expired one.
func (j *JWTManager) Verify(tokenStr string) (*TokenClaims, error) {
	claims := &TokenClaims{}
	_, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		if token.Method != signingMethod {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(j.secretKey), nil
	})
	if err != nil {
		return nil, app_errors.ErrInvalidToken
	}
	return claims, nil
}

// RemainingTTL reports how long the token is still valid, clamped to
// at least one second. An undecodable token yields the configured
// access lifetime: the value only sizes a blacklist entry, so the
// fallback errs on keeping the entry around long enough.
func (j *JWTManager) RemainingTTL(tokenStr string) time.Duration {
	claims := &TokenClaims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(tokenStr, claims); err != nil {
		return j.accessTTL
	}
	if claims.ExpiresAt == nil {
		return j.accessTTL
	}

	remaining := time.Until(claims.ExpiresAt.Time)
	if remaining < time.Second {
		return time.Second
	}
	return remaining
}
