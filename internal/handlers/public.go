// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"contentstudio/internal/cache"
	"contentstudio/internal/content"
	"contentstudio/internal/metrics"
	"contentstudio/internal/models"
	"contentstudio/internal/store"
)

const (
	defaultListLimit = 50
	maxListLimit     = 200
)

// Public groups the handlers behind the public site. Entry responses are
// served from the render cache when possible and stored on miss.
type Public struct {
	entries  EntryStore
	renderer *content.Renderer
	cache    ResponseCache
	events   EventQueue
	langs    Languages
}

// NewPublic creates a new Public handler group.
func NewPublic(entries EntryStore, renderer *content.Renderer, respCache ResponseCache, events EventQueue, langs Languages) *Public {
	return &Public{
		entries:  entries,
		renderer: renderer,
		cache:    respCache,
		events:   events,
		langs:    langs,
	}
}

// publicSummary is an entry as listed on the site.
type publicSummary struct {
	ID            string           `json:"id"`
	Kind          models.EntryKind `json:"kind"`
	Language      string           `json:"language"`
	Title         string           `json:"title"`
	Slug          string           `json:"slug"`
	Summary       *string          `json:"summary,omitempty"`
	CoverImageURL *string          `json:"cover_image_url,omitempty"`
	Location      *string          `json:"location,omitempty"`
	Pronunciation *string          `json:"pronunciation,omitempty"`
	StartsAt      *time.Time       `json:"starts_at,omitempty"`
	EndsAt        *time.Time       `json:"ends_at,omitempty"`
	UpdatedAt     time.Time        `json:"updated_at"`
}

// publicEntry is a single entry with its body rendered to sanitized HTML.
type publicEntry struct {
	publicSummary
	HTML string `json:"html"`
}

func summarize(e *models.Entry) publicSummary {
	return publicSummary{
		ID:            e.ID.String(),
		Kind:          e.Kind,
		Language:      e.Language,
		Title:         e.Title,
		Slug:          e.Slug,
		Summary:       e.Summary,
		CoverImageURL: e.CoverImageURL,
		Location:      e.Location,
		Pronunciation: e.Pronunciation,
		StartsAt:      e.StartsAt,
		EndsAt:        e.EndsAt,
		UpdatedAt:     e.UpdatedAt,
	}
}

// language reads ?lang=, defaulting to the site default.
func (p *Public) language(r *http.Request) (string, bool) {
	lang := r.URL.Query().Get("lang")
	if lang == "" {
		return p.langs.Default, true
	}
	return lang, p.langs.Supports(lang)
}

// ListEntries returns visible entries, optionally filtered by ?kind=.
func (p *Public) ListEntries(w http.ResponseWriter, r *http.Request) {
	lang, ok := p.language(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "Language is not supported.")
		return
	}
	kind := models.EntryKind(r.URL.Query().Get("kind"))
	if kind != "" && !kind.Valid() {
		writeError(w, http.StatusBadRequest, "Unknown kind.")
		return
	}
	limit, ok := queryInt(r, "limit", defaultListLimit, maxListLimit)
	if !ok {
		writeError(w, http.StatusBadRequest, "Limit must be a positive number.")
		return
	}

	key := fmt.Sprintf("list:%s:%s:%d", kind, lang, limit)
	if p.serveCached(w, r, key) {
		return
	}

	items, err := p.entries.List(r.Context(), store.EntryFilter{Kind: kind, Language: lang, Limit: limit})
	if err != nil {
		slog.Error("list public entries failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to load entries.")
		return
	}

	out := make([]publicSummary, 0, len(items))
	for i := range items {
		out = append(out, summarize(&items[i]))
	}
	p.writeAndCache(w, r, key, map[string]any{"entries": out})
}

// GetEntry returns one visible entry with rendered HTML. When the entry
// does not exist in the requested language the default language is tried.
func (p *Public) GetEntry(w http.ResponseWriter, r *http.Request) {
	kind := models.EntryKind(chi.URLParam(r, "kind"))
	if !kind.Valid() {
		writeError(w, http.StatusNotFound, "Entry not found.")
		return
	}
	lang, ok := p.language(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "Language is not supported.")
		return
	}
	slug := chi.URLParam(r, "slug")

	key := cache.EntryKey(kind, lang, slug)
	if p.serveCached(w, r, key) {
		return
	}

	ctx := r.Context()
	entry, err := p.entries.FindBySlug(ctx, kind, lang, slug)
	if err == nil && entry == nil && lang != p.langs.Default {
		entry, err = p.entries.FindBySlug(ctx, kind, p.langs.Default, slug)
	}
	if err != nil {
		slog.Error("find public entry failed", "kind", kind, "slug", slug, "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to load entry.")
		return
	}
	if entry == nil {
		writeError(w, http.StatusNotFound, "Entry not found.")
		return
	}

	p.writeAndCache(w, r, key, publicEntry{
		publicSummary: summarize(entry),
		HTML:          p.renderer.RenderEntry(entry.Body),
	})
}

// pageViewInput is the body of POST /api/events.
type pageViewInput struct {
	EntryID  *string          `json:"entry_id"`
	Kind     models.EntryKind `json:"kind"`
	Language string           `json:"language"`
	Path     string           `json:"path"`
	Referrer string           `json:"referrer"`
}

// TrackView queues a page view. The response is 202 whether or not the
// queue had room; dropped views are only counted.
func (p *Public) TrackView(w http.ResponseWriter, r *http.Request) {
	var in pageViewInput
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	v := models.PageView{
		Kind:       in.Kind,
		Language:   in.Language,
		Path:       in.Path,
		Referrer:   in.Referrer,
		OccurredAt: time.Now().UTC(),
	}
	if v.Language == "" {
		v.Language = p.langs.Default
	}
	if v.Referrer == "" {
		v.Referrer = r.Referer()
	}
	if in.EntryID != nil && *in.EntryID != "" {
		id, err := parseUUID(*in.EntryID)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid entry ID.")
			return
		}
		v.EntryID = &id
	}
	if msg := validatePageView(&v, p.langs); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	accepted := p.events.Enqueue(v)
	writeJSON(w, http.StatusAccepted, map[string]bool{"accepted": accepted})
}

func (p *Public) serveCached(w http.ResponseWriter, r *http.Request, key string) bool {
	body, ok := p.cache.Get(r.Context(), key)
	if !ok {
		metrics.RenderCache.WithLabelValues("miss").Inc()
		return false
	}
	metrics.RenderCache.WithLabelValues("hit").Inc()
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("X-Cache", "HIT")
	w.Write(body)
	return true
}

func (p *Public) writeAndCache(w http.ResponseWriter, r *http.Request, key string, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		slog.Error("encode public response failed", "key", key, "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to encode response.")
		return
	}
	p.cache.Set(r.Context(), key, body)
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("X-Cache", "MISS")
	w.Write(body)
}
