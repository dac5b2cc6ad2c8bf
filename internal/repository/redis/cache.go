package redis

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"

	"github.com/lalith-99/practicedesk/internal/models"
	"github.com/lalith-99/practicedesk/internal/repository"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// DefaultTTL bounds how long a revoked token keeps working.
const DefaultTTL = 30 * time.Second

// Client is the part of *redis.Client the cache uses.
type Client interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
}

// CachedCredentials puts a Redis read-through cache in front of a
// CredentialRepository.
//
// Only hits are cached. A token issued a second ago must work on the very
// next request, so "not found" always goes to the store.
//
// Redis is an optimisation here, never a dependency: any cache error falls
// through to the wrapped repository.
type CachedCredentials struct {
	repo   repository.CredentialRepository
	client Client
	ttl    time.Duration
	logger *zap.Logger
}

var _ repository.CredentialRepository = (*CachedCredentials)(nil)

func NewCachedCredentials(repo repository.CredentialRepository, client Client, ttl time.Duration, logger *zap.Logger) *CachedCredentials {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &CachedCredentials{repo: repo, client: client, ttl: ttl, logger: logger}
}

// cacheKey hashes the token so raw secrets never appear in Redis keys
// (or in MONITOR output).
func cacheKey(token string) string {
	sum := sha256.Sum256([]byte(token))
	return "siri:credential:" + hex.EncodeToString(sum[:])
}

func (c *CachedCredentials) GetByToken(ctx context.Context, token string) (*models.Credential, error) {
	key := cacheKey(token)

	raw, err := c.client.Get(ctx, key).Result()
	switch {
	case err == nil:
		var cred models.Credential
		if jsonErr := json.Unmarshal([]byte(raw), &cred); jsonErr == nil {
			return &cred, nil
		}
		c.logger.Warn("discarding undecodable cached credential", zap.String("cache_key", key))
	case err != redis.Nil:
		c.logger.Warn("credential cache read failed", zap.Error(err))
	}

	cred, err := c.repo.GetByToken(ctx, token)
	if err != nil || cred == nil {
		return cred, err
	}

	data, err := json.Marshal(cred)
	if err != nil {
		c.logger.Warn("failed to encode credential for cache", zap.Error(err))
		return cred, nil
	}
	if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
		c.logger.Warn("credential cache write failed", zap.Error(err))
	}
	return cred, nil
}
