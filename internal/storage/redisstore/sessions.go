package redisstore

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	blacklistPrefix = "blacklist:"
	refreshPrefix   = "refresh:"
)

// refreshSetSlack pads the refresh-set TTL past the token lifetime so
// the set always outlives every member added inside the window.
const refreshSetSlack = 24 * time.Hour

func NewRedisClient(addr, password string, db int) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return rdb, nil
}

// SessionStore keeps revoked access tokens and per-user refresh-token
// sets in an expiring key-value store. It holds no in-process state;
// atomicity is delegated to redis.
type SessionStore struct {
	rdb        *redis.Client
	refreshTTL time.Duration
}

func NewSessionStore(rdb *redis.Client, refreshTTL time.Duration) *SessionStore {
	return &SessionStore{rdb: rdb, refreshTTL: refreshTTL}
}

// BlacklistToken marks an access token revoked for ttl. Re-blacklisting
// the same token just overwrites the TTL.
func (s *SessionStore) BlacklistToken(ctx context.Context, token string, ttl time.Duration) error {
	if ttl < time.Second {
		ttl = time.Second
	}
	key := blacklistPrefix + token
	if err := s.rdb.Set(ctx, key, "1", ttl).Err(); err != nil {
		return fmt.Errorf("failed to blacklist token: %w", err)
	}
	return nil
}

func (s *SessionStore) IsTokenBlacklisted(ctx context.Context, token string) (bool, error) {
	n, err := s.rdb.Exists(ctx, blacklistPrefix+token).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check token blacklist: %w", err)
	}
	return n > 0, nil
}

// AddRefreshToken records a refresh token as valid for the user. The
// member add and the TTL reset go out as one pipelined transaction so
// the set never exists without an expiry.
func (s *SessionStore) AddRefreshToken(ctx context.Context, userID uuid.UUID, token string) error {
	key := refreshPrefix + userID.String()
	pipe := s.rdb.TxPipeline()
	pipe.SAdd(ctx, key, token)
	pipe.Expire(ctx, key, s.refreshTTL+refreshSetSlack)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to store refresh token: %w", err)
	}
	return nil
}

func (s *SessionStore) HasRefreshToken(ctx context.Context, userID uuid.UUID, token string) (bool, error) {
	ok, err := s.rdb.SIsMember(ctx, refreshPrefix+userID.String(), token).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check refresh token: %w", err)
	}
	return ok, nil
}

// RevokeRefreshToken removes a single device's refresh token; other
// members of the set stay valid.
func (s *SessionStore) RevokeRefreshToken(ctx context.Context, userID uuid.UUID, token string) error {
	if err := s.rdb.SRem(ctx, refreshPrefix+userID.String(), token).Err(); err != nil {
		return fmt.Errorf("failed to revoke refresh token: %w", err)
	}
	return nil
}

// RevokeAllRefreshTokens drops the whole set, logging out every device.
func (s *SessionStore) RevokeAllRefreshTokens(ctx context.Context, userID uuid.UUID) error {
	if err := s.rdb.Del(ctx, refreshPrefix+userID.String()).Err(); err != nil {
		return fmt.Errorf("failed to revoke refresh tokens: %w", err)
	}
	return nil
}
