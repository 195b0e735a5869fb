// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package handlers contains the JSON HTTP handlers for the contentstudio
// API. Handlers are grouped by audience (public site, studio) and receive
// their collaborators through the handler struct.
package handlers

import (
	"context"
	"time"

	"github.com/google/uuid"

	"contentstudio/internal/models"
	"contentstudio/internal/storage"
	"contentstudio/internal/store"
	"contentstudio/internal/translate"
)

// EntryStore is the persistence the handlers need. *store.EntryStore
// satisfies it.
type EntryStore interface {
	List(ctx context.Context, f store.EntryFilter) ([]models.Entry, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Entry, error)
	FindBySlug(ctx context.Context, kind models.EntryKind, language, slug string) (*models.Entry, error)
	SlugTaken(ctx context.Context, kind models.EntryKind, language, slug string, exclude uuid.UUID) (bool, error)
	Create(ctx context.Context, e *models.Entry) (*models.Entry, error)
	Update(ctx context.Context, e *models.Entry) (bool, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// ResponseCache caches encoded public responses. *cache.RenderCache
// satisfies it.
type ResponseCache interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, body []byte)
	InvalidateAll(ctx context.Context)
}

// DraftStore holds studio temporary saves. *cache.DraftStore satisfies it.
type DraftStore interface {
	Get(ctx context.Context, owner, entryID string) (*models.Draft, error)
	Save(ctx context.Context, owner string, d *models.Draft) error
	Delete(ctx context.Context, owner, entryID string) error
}

// EventQueue accepts page views. *analytics.Queue satisfies it.
type EventQueue interface {
	Enqueue(v models.PageView) bool
}

// ViewStats reports page view aggregates. *store.PageViewStore satisfies it.
type ViewStats interface {
	TopEntries(ctx context.Context, since time.Time, limit int) ([]store.EntryViews, error)
}

// Translator translates text batches. *translate.Translator satisfies it.
type Translator interface {
	TranslateBatch(ctx context.Context, texts []string, source, target string) (*translate.Result, error)
}

// Uploader stores files in object storage. *storage.Uploader satisfies it.
type Uploader interface {
	Upload(ctx context.Context, file storage.File, target storage.UploadTarget) (*storage.UploadResult, error)
	Remove(ctx context.Context, rawURL string) error
}

// TranslationCache is the cache behind the translator.
// *cache.TranslationCache satisfies it.
type TranslationCache interface {
	Clear(ctx context.Context) (int, error)
}

// Authenticator checks studio credentials. *auth.Manager satisfies it.
type Authenticator interface {
	Login(email, password string) (string, time.Time, error)
}

// ProviderSwitch exposes the active AI provider. *ai.Registry satisfies it.
type ProviderSwitch interface {
	ActiveName() string
	Available() []string
	SetActive(name string) error
}

// Languages describes which content languages the site publishes.
type Languages struct {
	Default   string
	Supported []string
}

// Supports reports whether code is a published language.
func (l Languages) Supports(code string) bool {
	for _, s := range l.Supported {
		if s == code {
			return true
		}
	}
	return false
}
