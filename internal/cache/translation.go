// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package cache

import (
	"context"
	"encoding/hex"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/zeebo/blake3"
)

const translationKeyPrefix = "tr:"

// TranslationCache stores translated strings keyed by language pair and a
// hash of the source text. Its lifetime is injected by the caller; there is
// no package-level instance.
type TranslationCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewTranslationCache creates a translation cache with the given expiry.
func NewTranslationCache(client *redis.Client, ttl time.Duration) *TranslationCache {
	return &TranslationCache{client: client, ttl: ttl}
}

// translationKey hashes the text so arbitrarily long paragraphs map to
// fixed-size keys.
func translationKey(source, target, text string) string {
	sum := blake3.Sum256([]byte(text))
	return translationKeyPrefix + source + ":" + target + ":" + hex.EncodeToString(sum[:])
}

// GetMany looks up every text and returns the hits by index. Errors are
// logged and reported as misses.
func (c *TranslationCache) GetMany(ctx context.Context, source, target string, texts []string) map[int]string {
	hits := make(map[int]string)
	if len(texts) == 0 {
		return hits
	}

	keys := make([]string, len(texts))
	for i, t := range texts {
		keys[i] = translationKey(source, target, t)
	}

	vals, err := c.client.MGet(ctx, keys...).Result()
	if err != nil {
		slog.Warn("translation cache get error", "source", source, "target", target, "error", err)
		return hits
	}
	for i, v := range vals {
		if s, ok := v.(string); ok {
			hits[i] = s
		}
	}
	return hits
}

// SetMany stores translations in one pipeline. pairs maps source text to
// its translation.
func (c *TranslationCache) SetMany(ctx context.Context, source, target string, pairs map[string]string) {
	if len(pairs) == 0 {
		return
	}
	_, err := c.client.Pipelined(ctx, func(p redis.Pipeliner) error {
		for text, translated := range pairs {
			p.Set(ctx, translationKey(source, target, text), translated, c.ttl)
		}
		return nil
	})
	if err != nil {
		slog.Warn("translation cache set error", "source", source, "target", target, "error", err)
	}
}

// Clear removes every cached translation.
func (c *TranslationCache) Clear(ctx context.Context) (int, error) {
	return deleteByPrefix(ctx, c.client, translationKeyPrefix)
}
