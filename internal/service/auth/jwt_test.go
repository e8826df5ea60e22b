package auth

import (
	"testing"
	"time"

	"PostBoard/internal/app_errors"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func newTestManager() *JWTManager {
	return NewJWTManager(testSecret, 30*time.Minute, 7*24*time.Hour)
}

// signedToken builds a token outside the manager so expiry and
// signature failure cases are deterministic.
func signedToken(t *testing.T, secret string, claims TokenClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func TestIssueAccessRoundTrip(t *testing.T) {
	m := newTestManager()
	userID := uuid.New()

	token, err := m.IssueAccess("alice", "a@x.com", userID, 0)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := m.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "alice", claims.Username)
	assert.Equal(t, "a@x.com", claims.Email)
	assert.Equal(t, userID, claims.UserID)
	assert.Empty(t, claims.TokenType)
}

func TestIssueAccessCustomTTL(t *testing.T) {
	m := newTestManager()

	token, err := m.IssueAccess("alice", "a@x.com", uuid.New(), time.Hour)
	require.NoError(t, err)

	claims, err := m.Verify(token)
	require.NoError(t, err)
	require.NotNil(t, claims.ExpiresAt)
	assert.InDelta(t, time.Now().Add(time.Hour).Unix(), claims.ExpiresAt.Unix(), 5)
}

func TestIssueRefreshClaims(t *testing.T) {
	m := newTestManager()
	userID := uuid.New()

	token, err := m.IssueRefresh(userID)
	require.NoError(t, err)

	claims, err := m.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, RefreshTokenType, claims.TokenType)
	assert.Empty(t, claims.Username)
	require.NotNil(t, claims.ExpiresAt)
	assert.InDelta(t, time.Now().Add(7*24*time.Hour).Unix(), claims.ExpiresAt.Unix(), 5)
}

func TestIssueRefreshDistinctPerCall(t *testing.T) {
	m := newTestManager()
	userID := uuid.New()

	first, err := m.IssueRefresh(userID)
	require.NoError(t, err)
	second, err := m.IssueRefresh(userID)
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestVerifyCollapsesFailures(t *testing.T) {
	m := newTestManager()
	userID := uuid.New()

	tests := []struct {
		name  string
		token string
	}{
		{
			name: "expired",
			token: signedToken(t, testSecret, TokenClaims{
				Username: "alice",
				UserID:   userID,
				RegisteredClaims: jwt.RegisteredClaims{
					ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
				},
			}),
		},
		{
			name: "wrong secret",
			token: signedToken(t, "other-secret", TokenClaims{
				Username: "alice",
				UserID:   userID,
				RegisteredClaims: jwt.RegisteredClaims{
					ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
				},
			}),
		},
		{
			name:  "malformed",
			token: "not-a-token",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			claims, err := m.Verify(tc.token)
			assert.Nil(t, claims)
			assert.ErrorIs(t, err, app_errors.ErrInvalidToken)
		})
	}
}

func TestRemainingTTL(t *testing.T) {
	m := newTestManager()

	token, err := m.IssueAccess("alice", "a@x.com", uuid.New(), 10*time.Minute)
	require.NoError(t, err)

	remaining := m.RemainingTTL(token)
	assert.Greater(t, remaining, 9*time.Minute)
	assert.LessOrEqual(t, remaining, 10*time.Minute)
}

func TestRemainingTTLClampsExpired(t *testing.T) {
	m := newTestManager()

	expired := signedToken(t, testSecret, TokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
		},
	})

	assert.Equal(t, time.Second, m.RemainingTTL(expired))
}

func TestRemainingTTLUndecodableFallback(t *testing.T) {
	m := newTestManager()

	assert.Equal(t, 30*time.Minute, m.RemainingTTL("garbage"))
}
