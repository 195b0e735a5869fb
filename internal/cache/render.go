// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// render.go caches public entry responses. The entry handler stores the
// rendered JSON so repeat requests skip the DB query, the renderer and the
// sanitizer.
package cache

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"contentstudio/internal/models"
)

const (
	// renderKeyPrefix is the Valkey key prefix for cached entries.
	renderKeyPrefix = "render:"

	// DefaultRenderTTL is how long a rendered entry stays cached.
	DefaultRenderTTL = 5 * time.Minute
)

// RenderCache manages rendered entry caching in Valkey. Failures are logged
// and treated as misses.
type RenderCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRenderCache creates a render cache backed by the given Valkey client.
func NewRenderCache(client *redis.Client, ttl time.Duration) *RenderCache {
	if ttl == 0 {
		ttl = DefaultRenderTTL
	}
	return &RenderCache{client: client, ttl: ttl}
}

// EntryKey returns the cache key for a public entry.
func EntryKey(kind models.EntryKind, language, slug string) string {
	return string(kind) + ":" + language + ":" + slug
}

// Get retrieves a cached response. The bool reports a hit.
func (rc *RenderCache) Get(ctx context.Context, key string) ([]byte, bool) {
	val, err := rc.client.Get(ctx, renderKeyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false
	}
	if err != nil {
		slog.Warn("render cache get error", "key", key, "error", err)
		return nil, false
	}
	slog.Debug("render cache hit", "key", key)
	return val, true
}

// Set stores a rendered response with the configured TTL.
func (rc *RenderCache) Set(ctx context.Context, key string, body []byte) {
	if err := rc.client.Set(ctx, renderKeyPrefix+key, body, rc.ttl).Err(); err != nil {
		slog.Warn("render cache set error", "key", key, "error", err)
	}
}

// InvalidateAll clears every cached entry. Listing pages are derived from
// many entries, so studio writes that change visibility call this.
func (rc *RenderCache) InvalidateAll(ctx context.Context) {
	deleted, err := deleteByPrefix(ctx, rc.client, renderKeyPrefix)
	if err != nil {
		slog.Warn("render cache clear error", "error", err)
		return
	}
	if deleted > 0 {
		slog.Info("render cache cleared", "deleted", deleted)
	}
}
