package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"PostBoard/internal/app_errors"
	"PostBoard/internal/models"
	"PostBoard/internal/service/auth"
	"PostBoard/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAuthService struct {
	blacklisted map[string]bool
	claims      map[string]*auth.TokenClaims
	users       map[string]*models.User
}

func (f *fakeAuthService) IsTokenBlacklisted(ctx context.Context, token string) (bool, error) {
	return f.blacklisted[token], nil
}

func (f *fakeAuthService) VerifyAccessToken(ctx context.Context, token string) (*auth.TokenClaims, error) {
	if claims, ok := f.claims[token]; ok {
		return claims, nil
	}
	return nil, app_errors.ErrInvalidToken
}

func (f *fakeAuthService) UserByName(ctx context.Context, username string) (*models.User, error) {
	if user, ok := f.users[username]; ok {
		return user, nil
	}
	return nil, app_errors.ErrUserNotFound
}

func newGateRouter(service AuthService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	gate := NewAuthGate(logger.Discard(), service)

	r := gin.New()
	r.GET("/protected", gate.RequireAuth, func(c *gin.Context) {
		user, ok := CurrentUser(c)
		if !ok {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "no identity injected"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"username": user.Username})
	})
	return r
}

func doRequest(r *gin.Engine, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthGate(t *testing.T) {
	alice := &models.User{ID: uuid.New(), Username: "alice", Email: "a@x.com"}
	service := &fakeAuthService{
		blacklisted: map[string]bool{"revoked": true},
		claims: map[string]*auth.TokenClaims{
			"good":        {Username: "alice", UserID: alice.ID},
			"revoked":     {Username: "alice", UserID: alice.ID},
			"no-username": {UserID: alice.ID},
			"ghost":       {Username: "ghost", UserID: uuid.New()},
		},
		users: map[string]*models.User{"alice": alice},
	}
	r := newGateRouter(service)

	tests := []struct {
		name       string
		authHeader string
		wantStatus int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"malformed header", "Token abc", http.StatusUnauthorized},
		{"blacklisted token", "Bearer revoked", http.StatusUnauthorized},
		{"invalid token", "Bearer junk", http.StatusUnauthorized},
		{"missing username claim", "Bearer no-username", http.StatusUnauthorized},
		{"unknown user", "Bearer ghost", http.StatusUnauthorized},
		{"valid token", "Bearer good", http.StatusOK},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			w := doRequest(r, tc.authHeader)
			assert.Equal(t, tc.wantStatus, w.Code)
		})
	}
}

func TestAuthGateInjectsUser(t *testing.T) {
	alice := &models.User{ID: uuid.New(), Username: "alice", Email: "a@x.com"}
	service := &fakeAuthService{
		blacklisted: map[string]bool{},
		claims:      map[string]*auth.TokenClaims{"good": {Username: "alice", UserID: alice.ID}},
		users:       map[string]*models.User{"alice": alice},
	}
	r := newGateRouter(service)

	w := doRequest(r, "Bearer good")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"username":"alice"}`, w.Body.String())
}

// A blacklisted token must be rejected even though verification alone
// would accept it.
func TestAuthGateBlacklistBeatsValidSignature(t *testing.T) {
	alice := &models.User{ID: uuid.New(), Username: "alice", Email: "a@x.com"}
	service := &fakeAuthService{
		blacklisted: map[string]bool{"revoked": true},
		claims:      map[string]*auth.TokenClaims{"revoked": {Username: "alice", UserID: alice.ID}},
		users:       map[string]*models.User{"alice": alice},
	}
	r := newGateRouter(service)

	w := doRequest(r, "Bearer revoked")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), app_errors.ErrTokenBlacklisted.Error())
}
