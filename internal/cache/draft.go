// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"contentstudio/internal/models"
)

const draftKeyPrefix = "draft:"

// NewEntryDraftID is the draft slot used before an entry has an ID.
const NewEntryDraftID = "new"

// DraftStore keeps studio temporary saves in Valkey. A draft belongs to one
// studio user and one entry, and expires after the configured TTL.
type DraftStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewDraftStore creates a draft store with the given expiry.
func NewDraftStore(client *redis.Client, ttl time.Duration) *DraftStore {
	return &DraftStore{client: client, ttl: ttl}
}

func draftKey(owner, entryID string) string {
	if entryID == "" {
		entryID = NewEntryDraftID
	}
	return draftKeyPrefix + owner + ":" + entryID
}

// Get returns the saved draft, or nil when there is none.
func (s *DraftStore) Get(ctx context.Context, owner, entryID string) (*models.Draft, error) {
	raw, err := s.client.Get(ctx, draftKey(owner, entryID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get draft: %w", err)
	}

	var d models.Draft
	if err := json.Unmarshal(raw, &d); err != nil {
		return nil, fmt.Errorf("decode draft: %w", err)
	}
	return &d, nil
}

// Save stores the draft, stamping SavedAt and resetting the expiry.
func (s *DraftStore) Save(ctx context.Context, owner string, d *models.Draft) error {
	if d.EntryID == "" {
		d.EntryID = NewEntryDraftID
	}
	d.SavedAt = time.Now().UTC()

	raw, err := json.Marshal(d)
	if err != nil {
		return fmt.Errorf("encode draft: %w", err)
	}
	if err := s.client.Set(ctx, draftKey(owner, d.EntryID), raw, s.ttl).Err(); err != nil {
		return fmt.Errorf("save draft: %w", err)
	}
	return nil
}

// Delete discards the draft. Deleting a missing draft is not an error.
func (s *DraftStore) Delete(ctx context.Context, owner, entryID string) error {
	if err := s.client.Del(ctx, draftKey(owner, entryID)).Err(); err != nil {
		return fmt.Errorf("delete draft: %w", err)
	}
	return nil
}
