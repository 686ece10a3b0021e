package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

// TokenData is a cached marketplace access token. Access tokens are never
// persisted to Postgres; the cache entry expires slightly before the token
// itself so a cached token is always usable.
type TokenData struct {
	AccessToken string    `json:"accessToken"`
	Marketplace string    `json:"marketplace"`
	ExpiresAt   time.Time `json:"expiresAt"`
	CachedAt    time.Time `json:"cachedAt"`
}

// TokenCache provides marketplace access-token caching operations.
type TokenCache struct {
	redis *RedisClient
}

// NewTokenCache creates a new TokenCache.
func NewTokenCache(redis *RedisClient) *TokenCache {
	return &TokenCache{redis: redis}
}

// expiryMargin is shaved off a token's remaining lifetime so we never hand
// out a token that expires mid-request.
const expiryMargin = 2 * time.Minute

func (c *TokenCache) key(userID int, marketplace string) string {
	return fmt.Sprintf("token:%d:%s", userID, marketplace)
}

// Set stores an access token with a TTL derived from its expiry.
func (c *TokenCache) Set(ctx context.Context, userID int, data *TokenData) error {
	data.CachedAt = time.Now()

	ttl := time.Until(data.ExpiresAt) - expiryMargin
	if ttl <= 0 {
		// Token is already (nearly) expired; nothing worth caching.
		return nil
	}

	jsonData, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to marshal token data: %w", err)
	}

	return c.redis.Set(ctx, c.key(userID, data.Marketplace), string(jsonData), ttl)
}

// Get retrieves a cached access token, or (nil, nil) on cache miss.
func (c *TokenCache) Get(ctx context.Context, userID int, marketplace string) (*TokenData, error) {
	raw, err := c.redis.Get(ctx, c.key(userID, marketplace))
	if err != nil {
		if IsNil(err) {
			return nil, nil
		}
		return nil, err
	}

	var data TokenData
	if err := json.Unmarshal([]byte(raw), &data); err != nil {
		return nil, fmt.Errorf("failed to unmarshal token data: %w", err)
	}
	return &data, nil
}

// Invalidate drops a cached token, forcing a refresh on next use.
func (c *TokenCache) Invalidate(ctx context.Context, userID int, marketplace string) error {
	return c.redis.Delete(ctx, c.key(userID, marketplace))
}
