package repository

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/petsafe/pettag-service/internal/domain"
)

const publicCacheKeyPrefix = "public_pet:"

// PublicProfileCache keeps redacted pet projections in Redis so the
// anonymous scan path avoids a database round trip. The cache is strictly
// best-effort: a nil or unreachable client degrades to cache misses and
// never fails the request.
type PublicProfileCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewPublicProfileCache builds the cache. client may be nil in tests.
func NewPublicProfileCache(client *redis.Client, ttl time.Duration, logger *zap.Logger) *PublicProfileCache {
	return &PublicProfileCache{client: client, ttl: ttl, logger: logger}
}

// Get returns the cached projection, or (nil, false) on miss or error.
func (c *PublicProfileCache) Get(ctx context.Context, petID string) (*domain.PublicPetProfile, bool) {
	if c == nil || c.client == nil {
		return nil, false
	}

	raw, err := c.client.Get(ctx, publicCacheKeyPrefix+petID).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.logger.Debug("public cache get failed", zap.String("pet_id", petID), zap.Error(err))
		}
		return nil, false
	}

	var profile domain.PublicPetProfile
	if err := json.Unmarshal(raw, &profile); err != nil {
		c.logger.Debug("public cache entry corrupt", zap.String("pet_id", petID), zap.Error(err))
		return nil, false
	}
	return &profile, true
}

// Set stores the projection with the configured TTL.
func (c *PublicProfileCache) Set(ctx context.Context, profile *domain.PublicPetProfile) {
	if c == nil || c.client == nil || profile == nil {
		return
	}

	raw, err := json.Marshal(profile)
	if err != nil {
		c.logger.Debug("public cache marshal failed", zap.String("pet_id", profile.PetID), zap.Error(err))
		return
	}
	if err := c.client.Set(ctx, publicCacheKeyPrefix+profile.PetID, raw, c.ttl).Err(); err != nil {
		c.logger.Debug("public cache set failed", zap.String("pet_id", profile.PetID), zap.Error(err))
	}
}

// Invalidate drops the cached projection. Called on every owner mutation
// so finders never see a stale profile longer than one request.
func (c *PublicProfileCache) Invalidate(ctx context.Context, petID string) {
	if c == nil || c.client == nil {
		return
	}
	if err := c.client.Del(ctx, publicCacheKeyPrefix+petID).Err(); err != nil {
		c.logger.Debug("public cache invalidate failed", zap.String("pet_id", petID), zap.Error(err))
	}
}
