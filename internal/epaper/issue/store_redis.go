// Copyright (c) 2026 Patrika Media. All rights reserved.
// Author: platform@patrika.news

package issue

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/patrikahq/patrika/internal/platform/constants"
	"github.com/patrikahq/patrika/internal/platform/validate"
)

// # Redis Cache
//
// The hot path is readers opening today's paper by (tenant, target, date).
// The cache stores the hydrated issue (pages included) under that business
// address. Correctness comes from explicit invalidation on replace and
// delete; the TTL only bounds staleness if an invalidation is ever lost.

// cache implements the [Cache] interface on Redis.
type cache struct {
	client *redis.Client
	logger *slog.Logger
}

// NewCache constructs a Redis backed issue cache.
func NewCache(client *redis.Client, logger *slog.Logger) Cache {
	return &cache{client: client, logger: logger}
}

// addressKey builds the Redis key for an issue address.
func addressKey(tenantID string, target Target, date time.Time) string {
	return fmt.Sprintf("%s%s:%s:%s:%s",
		constants.RedisPrefixIssueKey, tenantID, target.Kind, target.ID,
		date.Format(validate.DateLayout))
}

// GetByAddress returns the cached issue for an address, or nil on a miss.
// Redis failures are logged and degrade to a miss: the database stays the
// source of truth.
func (cache *cache) GetByAddress(context context.Context, tenantID string, target Target, date time.Time) *Issue {

	payload, err := cache.client.Get(context, addressKey(tenantID, target, date)).Bytes()
	if err != nil {
		if err != redis.Nil {
			cache.logger.Warn("issue_cache_get_failed", slog.String("error", err.Error()))
		}
		return nil
	}

	var cached Issue
	if err := json.Unmarshal(payload, &cached); err != nil {
		cache.logger.Warn("issue_cache_decode_failed", slog.String("error", err.Error()))
		return nil
	}

	return &cached
}

// SetByAddress caches a hydrated issue under its address. Failures are
// logged and ignored.
func (cache *cache) SetByAddress(context context.Context, cached *Issue) {

	payload, err := json.Marshal(cached)
	if err != nil {
		cache.logger.Warn("issue_cache_encode_failed", slog.String("error", err.Error()))
		return
	}

	key := addressKey(cached.TenantID, cached.Target, cached.IssueDate)
	if err := cache.client.Set(context, key, payload, constants.RedisIssueTTL).Err(); err != nil {
		cache.logger.Warn("issue_cache_set_failed", slog.String("error", err.Error()))
	}
}

// Invalidate drops the cached entry for an address.
func (cache *cache) Invalidate(context context.Context, tenantID string, target Target, date time.Time) {

	if err := cache.client.Del(context, addressKey(tenantID, target, date)).Err(); err != nil {
		cache.logger.Warn("issue_cache_invalidate_failed", slog.String("error", err.Error()))
	}
}
