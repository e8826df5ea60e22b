package auth

import (
	"context"
	"testing"
	"time"

	"PostBoard/internal/app_errors"
	"PostBoard/internal/models"
	"PostBoard/internal/storage/redisstore"
	"PostBoard/pkg/logger"

	"github.com/alicebob/miniredis/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeUserRepo struct {
	users map[uuid.UUID]*models.User
}

func newFakeUserRepo(users ...*models.User) *fakeUserRepo {
	repo := &fakeUserRepo{users: make(map[uuid.UUID]*models.User)}
	for _, u := range users {
		repo.users[u.ID] = u
	}
	return repo
}

func (r *fakeUserRepo) CreateUser(ctx context.Context, user models.User) (*models.User, error) {
	for _, u := range r.users {
		if u.Email == user.Email || u.Username == user.Username {
			return nil, app_errors.ErrUserExists
		}
	}
	user.ID = uuid.New()
	user.CreatedAt = time.Now()
	r.users[user.ID] = &user
	return &user, nil
}

func (r *fakeUserRepo) UserByEmail(ctx context.Context, email string) (*models.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, app_errors.ErrUserNotFound
}

func (r *fakeUserRepo) UserByName(ctx context.Context, username string) (*models.User, error) {
	for _, u := range r.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, app_errors.ErrUserNotFound
}

func (r *fakeUserRepo) UserByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	if u, ok := r.users[id]; ok {
		return u, nil
	}
	return nil, app_errors.ErrUserNotFound
}

func newTestAuthService(t *testing.T, users ...*models.User) (*AuthService, *fakeUserRepo, *redisstore.SessionStore) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	sessions := redisstore.NewSessionStore(rdb, 7*24*time.Hour)
	repo := newFakeUserRepo(users...)
	manager := newTestManager()
	return NewAuthService(logger.Discard(), manager, repo, sessions), repo, sessions
}

func testUser(t *testing.T) *models.User {
	t.Helper()
	hash, err := hashPassword("correct-horse")
	require.NoError(t, err)
	return &models.User{
		ID:       uuid.New(),
		Email:    "a@x.com",
		Username: "alice",
		Password: hash,
	}
}

func TestLoginSuccess(t *testing.T) {
	user := testUser(t)
	svc, _, sessions := newTestAuthService(t, user)
	ctx := context.Background()

	pair, err := svc.Login(ctx, "a@x.com", "correct-horse")
	require.NoError(t, err)
	assert.NotEmpty(t, pair.AccessToken)
	assert.NotEmpty(t, pair.RefreshToken)
	assert.Equal(t, TokenTypeBearer, pair.TokenType)

	claims, err := svc.VerifyAccessToken(ctx, pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "alice", claims.Username)
	assert.Equal(t, "a@x.com", claims.Email)
	assert.Equal(t, user.ID, claims.UserID)

	stored, err := sessions.HasRefreshToken(ctx, user.ID, pair.RefreshToken)
	require.NoError(t, err)
	assert.True(t, stored)
}

func TestLoginFailureIsUniform(t *testing.T) {
	user := testUser(t)
	svc, _, _ := newTestAuthService(t, user)
	ctx := context.Background()

	_, unknownErr := svc.Login(ctx, "nobody@x.com", "correct-horse")
	_, badPassErr := svc.Login(ctx, "a@x.com", "wrong")

	// Unknown email and wrong password must be indistinguishable.
	assert.ErrorIs(t, unknownErr, app_errors.ErrAuthFailed)
	assert.ErrorIs(t, badPassErr, app_errors.ErrAuthFailed)
	assert.Equal(t, unknownErr, badPassErr)
}

func TestLogoutBlacklistsAccessToken(t *testing.T) {
	user := testUser(t)
	svc, _, _ := newTestAuthService(t, user)
	ctx := context.Background()

	pair, err := svc.Login(ctx, "a@x.com", "correct-horse")
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx, pair.AccessToken))

	blacklisted, err := svc.IsTokenBlacklisted(ctx, pair.AccessToken)
	require.NoError(t, err)
	assert.True(t, blacklisted)

	// The token still verifies cryptographically; only the blacklist
	// makes it unusable.
	_, err = svc.VerifyAccessToken(ctx, pair.AccessToken)
	assert.NoError(t, err)
}

func TestLogoutLeavesRefreshTokenValid(t *testing.T) {
	user := testUser(t)
	svc, _, _ := newTestAuthService(t, user)
	ctx := context.Background()

	pair, err := svc.Login(ctx, "a@x.com", "correct-horse")
	require.NoError(t, err)
	require.NoError(t, svc.Logout(ctx, pair.AccessToken))

	accessToken, err := svc.Refresh(ctx, pair.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, accessToken)
}

func TestRefreshReturnsOnlyAccessToken(t *testing.T) {
	user := testUser(t)
	svc, _, sessions := newTestAuthService(t, user)
	ctx := context.Background()

	pair, err := svc.Login(ctx, "a@x.com", "correct-horse")
	require.NoError(t, err)

	accessToken, err := svc.Refresh(ctx, pair.RefreshToken)
	require.NoError(t, err)

	claims, err := svc.VerifyAccessToken(ctx, accessToken)
	require.NoError(t, err)
	assert.Equal(t, "alice", claims.Username)

	// The refresh token is not rotated: the old one stays the only
	// member of the valid-set.
	stored, err := sessions.HasRefreshToken(ctx, user.ID, pair.RefreshToken)
	require.NoError(t, err)
	assert.True(t, stored)
}

func TestRefreshRejectsTokenOutsideValidSet(t *testing.T) {
	user := testUser(t)
	svc, _, _ := newTestAuthService(t, user)
	ctx := context.Background()

	manager := newTestManager()
	orphan, err := manager.IssueRefresh(user.ID)
	require.NoError(t, err)

	// Cryptographically valid, never persisted.
	_, err = svc.Refresh(ctx, orphan)
	assert.ErrorIs(t, err, app_errors.ErrAuthFailed)
}

func TestRefreshRejectsExpiredToken(t *testing.T) {
	user := testUser(t)
	svc, _, sessions := newTestAuthService(t, user)
	ctx := context.Background()

	expired := signedToken(t, testSecret, TokenClaims{
		UserID:    user.ID,
		TokenType: RefreshTokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		},
	})
	// Membership does not save an expired token.
	require.NoError(t, sessions.AddRefreshToken(ctx, user.ID, expired))

	_, err := svc.Refresh(ctx, expired)
	assert.ErrorIs(t, err, app_errors.ErrAuthFailed)
}

func TestRefreshRejectsMissingUserIDClaim(t *testing.T) {
	user := testUser(t)
	svc, _, _ := newTestAuthService(t, user)

	token := signedToken(t, testSecret, TokenClaims{
		TokenType: RefreshTokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})

	_, err := svc.Refresh(context.Background(), token)
	assert.ErrorIs(t, err, app_errors.ErrAuthFailed)
}

func TestRefreshRejectsDeletedUser(t *testing.T) {
	user := testUser(t)
	svc, repo, _ := newTestAuthService(t, user)
	ctx := context.Background()

	pair, err := svc.Login(ctx, "a@x.com", "correct-horse")
	require.NoError(t, err)

	delete(repo.users, user.ID)

	_, err = svc.Refresh(ctx, pair.RefreshToken)
	assert.ErrorIs(t, err, app_errors.ErrAuthFailed)
}

func TestMultiDeviceRevocation(t *testing.T) {
	user := testUser(t)
	svc, _, _ := newTestAuthService(t, user)
	ctx := context.Background()

	deviceA, err := svc.Login(ctx, "a@x.com", "correct-horse")
	require.NoError(t, err)
	deviceB, err := svc.Login(ctx, "a@x.com", "correct-horse")
	require.NoError(t, err)

	require.NotEqual(t, deviceA.RefreshToken, deviceB.RefreshToken)

	require.NoError(t, svc.RevokeRefresh(ctx, deviceA.RefreshToken, false))

	_, err = svc.Refresh(ctx, deviceA.RefreshToken)
	assert.ErrorIs(t, err, app_errors.ErrAuthFailed)

	_, err = svc.Refresh(ctx, deviceB.RefreshToken)
	assert.NoError(t, err)
}

func TestRevokeAllDevices(t *testing.T) {
	user := testUser(t)
	svc, _, _ := newTestAuthService(t, user)
	ctx := context.Background()

	deviceA, err := svc.Login(ctx, "a@x.com", "correct-horse")
	require.NoError(t, err)
	deviceB, err := svc.Login(ctx, "a@x.com", "correct-horse")
	require.NoError(t, err)

	require.NoError(t, svc.RevokeRefresh(ctx, deviceA.RefreshToken, true))

	_, err = svc.Refresh(ctx, deviceA.RefreshToken)
	assert.ErrorIs(t, err, app_errors.ErrAuthFailed)
	_, err = svc.Refresh(ctx, deviceB.RefreshToken)
	assert.ErrorIs(t, err, app_errors.ErrAuthFailed)
}

func TestCreateUserHashesPassword(t *testing.T) {
	svc, _, _ := newTestAuthService(t)

	created, err := svc.CreateUser(context.Background(), models.User{
		Email:    "b@x.com",
		Username: "bob",
		Password: "hunter22",
	})
	require.NoError(t, err)
	assert.NotEqual(t, "hunter22", created.Password)
	assert.True(t, checkPasswordHash("hunter22", created.Password))
}

func TestCreateUserRejectsShortPassword(t *testing.T) {
	svc, _, _ := newTestAuthService(t)

	_, err := svc.CreateUser(context.Background(), models.User{
		Email:    "b@x.com",
		Username: "bob",
		Password: "short",
	})
	assert.ErrorIs(t, err, app_errors.ErrIncorrectPassword)
}
