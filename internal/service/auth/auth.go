package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"PostBoard/internal/app_errors"
	"PostBoard/internal/models"
	"PostBoard/pkg/logger"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type UserRepo interface {
	CreateUser(ctx context.Context, user models.User) (*models.User, error)
	UserByEmail(ctx context.Context, email string) (*models.User, error)
	UserByName(ctx context.Context, username string) (*models.User, error)
	UserByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

type sessionStore interface {
	BlacklistToken(ctx context.Context, token string, ttl time.Duration) error
	IsTokenBlacklisted(ctx context.Context, token string) (bool, error)
	AddRefreshToken(ctx context.Context, userID uuid.UUID, token string) error
	HasRefreshToken(ctx context.Context, userID uuid.UUID, token string) (bool, error)
	RevokeRefreshToken(ctx context.Context, userID uuid.UUID, token string) error
	RevokeAllRefreshTokens(ctx context.Context, userID uuid.UUID) error
}

const TokenTypeBearer = "bearer"

type AuthService struct {
	log        logger.Log
	jwtManager *JWTManager
	userRepo   UserRepo
	sessions   sessionStore
}

func NewAuthService(l logger.Log, manager *JWTManager, userRepo UserRepo, sessions sessionStore) *AuthService {
	return &AuthService{
		log:        l,
		jwtManager: manager,
		userRepo:   userRepo,
		sessions:   sessions,
	}
}

// Login authenticates by email and issues an access/refresh pair. An
// unknown email and a wrong password both come back as ErrAuthFailed;
// the caller never learns which check tripped.
func (u *AuthService) Login(ctx context.Context, email, password string) (*models.TokenPair, error) {
	user, err := u.userRepo.UserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, app_errors.ErrUserNotFound) {
			u.log.Info("login rejected: unknown email")
			return nil, app_errors.ErrAuthFailed
		}
		return nil, err
	}

	if !checkPasswordHash(password, user.Password) {
		u.log.Info("login rejected: password mismatch", "user_id", user.ID)
		return nil, app_errors.ErrAuthFailed
	}

	accessToken, err := u.jwtManager.IssueAccess(user.Username, user.Email, user.ID, 0)
	if err != nil {
		return nil, err
	}
	refreshToken, err := u.jwtManager.IssueRefresh(user.ID)
	if err != nil {
		return nil, err
	}

	// Earlier refresh tokens stay in the set: each device keeps its own.
	if err := u.sessions.AddRefreshToken(ctx, user.ID, refreshToken); err != nil {
		return nil, err
	}

	return &models.TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    TokenTypeBearer,
	}, nil
}

// Logout blacklists the presented access token for exactly its
// remaining lifetime. Refresh tokens are left alone: minting new
// access tokens stays possible until they are revoked or expire.
func (u *AuthService) Logout(ctx context.Context, accessToken string) error {
	ttl := u.jwtManager.RemainingTTL(accessToken)
	return u.sessions.BlacklistToken(ctx, accessToken, ttl)
}

// Refresh trades a refresh token for a new access token. The refresh
// token itself is not rotated. Any failure along the chain surfaces
// as ErrAuthFailed.
func (u *AuthService) Refresh(ctx context.Context, refreshToken string) (string, error) {
	claims, err := u.jwtManager.Verify(refreshToken)
	if err != nil {
		return "", app_errors.ErrAuthFailed
	}
	if claims.UserID == uuid.Nil {
		u.log.Info("refresh rejected: no user_id claim")
		return "", app_errors.ErrAuthFailed
	}

	valid, err := u.sessions.HasRefreshToken(ctx, claims.UserID, refreshToken)
	if err != nil {
		return "", err
	}
	if !valid {
		u.log.Info("refresh rejected: token not in valid-set", "user_id", claims.UserID)
		return "", app_errors.ErrAuthFailed
	}

	user, err := u.userRepo.UserByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, app_errors.ErrUserNotFound) {
			return "", app_errors.ErrAuthFailed
		}
		return "", err
	}

	// Claims are rebuilt from current user attributes, not copied from
	// the old token.
	return u.jwtManager.IssueAccess(user.Username, user.Email, user.ID, 0)
}

// RevokeRefresh invalidates the presented refresh token, or with
// allDevices the user's entire valid-set.
func (u *AuthService) RevokeRefresh(ctx context.Context, refreshToken string, allDevices bool) error {
	claims, err := u.jwtManager.Verify(refreshToken)
	if err != nil {
		return app_errors.ErrAuthFailed
	}
	if claims.UserID == uuid.Nil {
		return app_errors.ErrAuthFailed
	}

	if allDevices {
		return u.sessions.RevokeAllRefreshTokens(ctx, claims.UserID)
	}
	return u.sessions.RevokeRefreshToken(ctx, claims.UserID, refreshToken)
}

func (u *AuthService) VerifyAccessToken(ctx context.Context, token string) (*TokenClaims, error) {
	return u.jwtManager.Verify(token)
}

func (u *AuthService) IsTokenBlacklisted(ctx context.Context, token string) (bool, error) {
	return u.sessions.IsTokenBlacklisted(ctx, token)
}

func (u *AuthService) UserByName(ctx context.Context, username string) (*models.User, error) {
	return u.userRepo.UserByName(ctx, username)
}

func (u *AuthService) CreateUser(ctx context.Context, user models.User) (*models.User, error) {
	var err error

	if len(user.Password) < 6 || len(user.Password) > 72 {
		return nil, app_errors.ErrIncorrectPassword
	}

	user.Password, err = hashPassword(user.Password)
	if err != nil {
		return nil, err
	}

	createdUser, err := u.userRepo.CreateUser(ctx, user)
	if err != nil {
		return nil, err
	}

	return createdUser, nil
}

func hashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(bytes), nil
}

func checkPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}
