// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"contentstudio/internal/cache"
	"contentstudio/internal/content"
	"contentstudio/internal/models"
	"contentstudio/internal/slug"
	"contentstudio/internal/store"
)

// entryInput is the studio form for creating or updating an entry. The body
// comes either from ContentInput (the flat draft string, converted) or from
// Body as already-split paragraphs.
type entryInput struct {
	Kind          models.EntryKind `json:"kind"`
	Language      string           `json:"language"`
	Hidden        bool             `json:"hidden"`
	Title         string           `json:"title"`
	Slug          string           `json:"slug"`
	Summary       string           `json:"summary"`
	ContentInput  *string          `json:"content_input"`
	Body          []string         `json:"body"`
	CoverImageURL string           `json:"cover_image_url"`
	Location      string           `json:"location"`
	Pronunciation string           `json:"pronunciation"`
	StartsAt      *time.Time       `json:"starts_at"`
	EndsAt        *time.Time       `json:"ends_at"`
}

func (in *entryInput) trim() {
	in.Language = strings.ToLower(strings.TrimSpace(in.Language))
	in.Title = strings.TrimSpace(in.Title)
	in.Slug = strings.TrimSpace(in.Slug)
	in.Summary = strings.TrimSpace(in.Summary)
	in.CoverImageURL = strings.TrimSpace(in.CoverImageURL)
	in.Location = strings.TrimSpace(in.Location)
	in.Pronunciation = strings.TrimSpace(in.Pronunciation)
}

// body returns the paragraphs to store, or current when the input carries
// no content at all.
func (in *entryInput) body(current []string) []string {
	switch {
	case in.ContentInput != nil:
		return content.FromDraftString(*in.ContentInput)
	case in.Body != nil:
		return in.Body
	case current != nil:
		return current
	default:
		return content.FromDraftString("")
	}
}

// apply copies the input onto e. Kind and ID are left alone.
func (in *entryInput) apply(e *models.Entry, body []string) {
	e.Language = in.Language
	e.Hidden = in.Hidden
	e.Title = in.Title
	e.Slug = in.Slug
	e.Summary = optional(in.Summary)
	e.Body = body
	e.CoverImageURL = optional(in.CoverImageURL)
	e.Location = optional(in.Location)
	e.Pronunciation = optional(in.Pronunciation)
	e.StartsAt = in.StartsAt
	e.EndsAt = in.EndsAt
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// studioEntry is an entry as the studio edits it: the stored record plus
// the flat draft string the content field is populated with.
type studioEntry struct {
	*models.Entry
	ContentInput string `json:"content_input"`
}

func toStudioEntry(e *models.Entry) studioEntry {
	return studioEntry{Entry: e, ContentInput: content.ToDraftString(e.Body)}
}

// uniqueSlug derives a free slug for the entry from the requested slug or,
// when empty, from the title.
func (s *Studio) uniqueSlug(ctx context.Context, kind models.EntryKind, language, requested, title string, exclude uuid.UUID) (string, error) {
	base := slug.Generate(requested)
	if base == "" {
		base = slug.Generate(title)
	}
	if base == "" {
		base = string(kind)
	}

	var lookupErr error
	result := slug.Unique(base, func(candidate string) bool {
		if lookupErr != nil {
			return false
		}
		taken, err := s.entries.SlugTaken(ctx, kind, language, candidate, exclude)
		if err != nil {
			lookupErr = err
			return false
		}
		return taken
	})
	if lookupErr != nil {
		return "", fmt.Errorf("resolve slug: %w", lookupErr)
	}
	return result, nil
}

// afterWrite drops cached public responses and the saved draft.
func (s *Studio) afterWrite(r *http.Request, draftID string) {
	ctx := r.Context()
	s.cache.InvalidateAll(ctx)
	if err := s.drafts.Delete(ctx, subject(r), draftID); err != nil {
		slog.Warn("delete draft after save failed", "entry", draftID, "error", err)
	}
}

// ListEntries returns every entry, hidden ones included, for the studio.
func (s *Studio) ListEntries(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	kind := models.EntryKind(q.Get("kind"))
	if kind != "" && !kind.Valid() {
		writeError(w, http.StatusBadRequest, "Unknown kind.")
		return
	}
	lang := q.Get("lang")
	if lang != "" && !s.langs.Supports(lang) {
		writeError(w, http.StatusBadRequest, "Language is not supported.")
		return
	}

	items, err := s.entries.List(r.Context(), store.EntryFilter{Kind: kind, Language: lang, IncludeHidden: true})
	if err != nil {
		slog.Error("list studio entries failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to load entries.")
		return
	}
	if items == nil {
		items = []models.Entry{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"entries": items})
}

// GetEntry returns one entry with its content_input for the edit form.
func (s *Studio) GetEntry(w http.ResponseWriter, r *http.Request) {
	entry, ok := s.loadEntry(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, toStudioEntry(entry))
}

// CreateEntry validates the form and inserts a new entry.
func (s *Studio) CreateEntry(w http.ResponseWriter, r *http.Request) {
	var in entryInput
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	in.trim()
	if in.Language == "" {
		in.Language = s.langs.Default
	}

	body := in.body(nil)
	if msg := validateEntry(&in, body, s.langs); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	ctx := r.Context()
	var err error
	in.Slug, err = s.uniqueSlug(ctx, in.Kind, in.Language, in.Slug, in.Title, uuid.Nil)
	if err != nil {
		slog.Error("create entry failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to create entry.")
		return
	}

	entry := &models.Entry{Kind: in.Kind}
	in.apply(entry, body)
	created, err := s.entries.Create(ctx, entry)
	if err != nil {
		slog.Error("create entry failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to create entry.")
		return
	}

	s.afterWrite(r, cache.NewEntryDraftID)
	slog.Info("entry created", "id", created.ID, "kind", created.Kind, "slug", created.Slug, "by", subject(r))
	writeJSON(w, http.StatusCreated, toStudioEntry(created))
}

// UpdateEntry overwrites an entry. The kind of an entry cannot change.
func (s *Studio) UpdateEntry(w http.ResponseWriter, r *http.Request) {
	existing, ok := s.loadEntry(w, r)
	if !ok {
		return
	}

	var in entryInput
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	in.trim()
	if in.Kind == "" {
		in.Kind = existing.Kind
	}
	if in.Kind != existing.Kind {
		writeError(w, http.StatusBadRequest, "The kind of an entry cannot be changed.")
		return
	}
	if in.Language == "" {
		in.Language = existing.Language
	}
	if in.Slug == "" {
		in.Slug = existing.Slug
	}

	body := in.body(existing.Body)
	if msg := validateEntry(&in, body, s.langs); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	ctx := r.Context()
	var err error
	in.Slug, err = s.uniqueSlug(ctx, existing.Kind, in.Language, in.Slug, in.Title, existing.ID)
	if err != nil {
		slog.Error("update entry failed", "id", existing.ID, "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to update entry.")
		return
	}

	in.apply(existing, body)
	found, err := s.entries.Update(ctx, existing)
	if err != nil {
		slog.Error("update entry failed", "id", existing.ID, "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to update entry.")
		return
	}
	if !found {
		writeError(w, http.StatusNotFound, "Entry not found.")
		return
	}

	s.afterWrite(r, existing.ID.String())
	slog.Info("entry updated", "id", existing.ID, "by", subject(r))

	updated, err := s.entries.FindByID(ctx, existing.ID)
	if err != nil || updated == nil {
		updated = existing
	}
	writeJSON(w, http.StatusOK, toStudioEntry(updated))
}

// DeleteEntry removes an entry.
func (s *Studio) DeleteEntry(w http.ResponseWriter, r *http.Request) {
	entry, ok := s.loadEntry(w, r)
	if !ok {
		return
	}
	if err := s.entries.Delete(r.Context(), entry.ID); err != nil {
		slog.Error("delete entry failed", "id", entry.ID, "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to delete entry.")
		return
	}
	s.afterWrite(r, entry.ID.String())
	slog.Info("entry deleted", "id", entry.ID, "by", subject(r))
	w.WriteHeader(http.StatusNoContent)
}

// ExportMarkdown returns the entry body as Markdown.
func (s *Studio) ExportMarkdown(w http.ResponseWriter, r *http.Request) {
	entry, ok := s.loadEntry(w, r)
	if !ok {
		return
	}
	md, err := content.ToMarkdown(entry.Body)
	if err != nil {
		slog.Error("export markdown failed", "id", entry.ID, "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to export entry.")
		return
	}
	w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s.md"`, entry.Slug))
	w.Write([]byte("# " + entry.Title + "\n\n" + md + "\n"))
}

type translationInput struct {
	Language string `json:"language"`
	Hidden   *bool  `json:"hidden"`
}

// TranslateEntry creates a copy of an entry in another language, with the
// title, summary, location and body translated. The copy is hidden unless
// the request says otherwise.
func (s *Studio) TranslateEntry(w http.ResponseWriter, r *http.Request) {
	if s.translator == nil {
		writeError(w, http.StatusServiceUnavailable, "Translation is not configured.")
		return
	}
	source, ok := s.loadEntry(w, r)
	if !ok {
		return
	}

	var in translationInput
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	target := strings.ToLower(strings.TrimSpace(in.Language))
	if !s.langs.Supports(target) {
		writeError(w, http.StatusBadRequest, "Language is not supported.")
		return
	}
	if target == source.Language {
		writeError(w, http.StatusBadRequest, "The entry is already in that language.")
		return
	}

	ctx := r.Context()
	texts := append([]string{source.Title, deref(source.Summary), deref(source.Location)}, source.Body...)
	res, err := s.translator.TranslateBatch(ctx, texts, source.Language, target)
	if err != nil {
		slog.Error("translate entry failed", "id", source.ID, "target", target, "error", err)
		writeError(w, http.StatusBadGateway, "Translation failed.")
		return
	}

	if len(res.Values) != len(texts) {
		slog.Error("translate entry failed", "id", source.ID, "target", target, "values", len(res.Values), "texts", len(texts))
		writeError(w, http.StatusBadGateway, "Translation failed.")
		return
	}

	copied := *source
	copied.ID = uuid.Nil
	copied.Language = target
	copied.Hidden = in.Hidden == nil || *in.Hidden
	copied.Title = res.Values[0]
	copied.Summary = optional(res.Values[1])
	copied.Location = optional(res.Values[2])
	copied.Body = append([]string(nil), res.Values[3:]...)

	copied.Slug, err = s.uniqueSlug(ctx, copied.Kind, target, "", copied.Title, uuid.Nil)
	if err != nil {
		slog.Error("translate entry failed", "id", source.ID, "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to save translation.")
		return
	}

	created, err := s.entries.Create(ctx, &copied)
	if err != nil {
		slog.Error("save translated entry failed", "id", source.ID, "target", target, "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to save translation.")
		return
	}

	s.cache.InvalidateAll(ctx)
	slog.Info("entry translated", "source", source.ID, "id", created.ID, "language", target, "by", subject(r))
	writeJSON(w, http.StatusCreated, toStudioEntry(created))
}

// loadEntry resolves the {id} URL parameter, writing 404 when the entry
// does not exist.
func (s *Studio) loadEntry(w http.ResponseWriter, r *http.Request) (*models.Entry, bool) {
	id, ok := pathUUID(r, "id")
	if !ok {
		writeError(w, http.StatusNotFound, "Entry not found.")
		return nil, false
	}
	entry, err := s.entries.FindByID(r.Context(), id)
	if err != nil {
		slog.Error("find entry failed", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to load entry.")
		return nil, false
	}
	if entry == nil {
		writeError(w, http.StatusNotFound, "Entry not found.")
		return nil, false
	}
	return entry, true
}
