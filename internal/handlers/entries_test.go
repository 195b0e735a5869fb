package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	"contentstudio/internal/cache"
	"contentstudio/internal/models"
	"contentstudio/internal/store"
)

func TestStudioCreateEntry(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantSlug   string
		wantBody   []string
		wantError  string
	}{
		{
			name:       "plaintext content input",
			body:       `{"kind":"trend","title":"Night Markets!","content_input":"First\n\nSecond"}`,
			wantStatus: http.StatusCreated,
			wantSlug:   "night-markets",
			wantBody:   []string{"First", "Second"},
		},
		{
			name:       "html content input",
			body:       `{"kind":"trend","title":"Street food","content_input":"<p>A</p><h2>B</h2>"}`,
			wantStatus: http.StatusCreated,
			wantSlug:   "street-food",
			wantBody:   []string{"<p>A</p>", "<h2>B</h2>"},
		},
		{
			name:       "empty content coerced",
			body:       `{"kind":"phrase","title":"Bună dimineața","content_input":"   "}`,
			wantStatus: http.StatusCreated,
			wantSlug:   "buna-dimineata",
			wantBody:   []string{""},
		},
		{
			name:       "explicit slug taken gets suffix",
			body:       `{"kind":"trend","title":"Other","slug":"Existing","body":["x"]}`,
			wantStatus: http.StatusCreated,
			wantSlug:   "existing-2",
			wantBody:   []string{"x"},
		},
		{name: "missing title", body: `{"kind":"trend","content_input":"x"}`, wantStatus: http.StatusBadRequest, wantError: "Title is required."},
		{name: "bad kind", body: `{"kind":"recipe","title":"x"}`, wantStatus: http.StatusBadRequest, wantError: "Kind must be"},
		{name: "unsupported language", body: `{"kind":"trend","language":"de","title":"x"}`, wantStatus: http.StatusBadRequest, wantError: "Language"},
		{name: "cover url scheme", body: `{"kind":"trend","title":"x","cover_image_url":"javascript:alert(1)"}`, wantStatus: http.StatusBadRequest, wantError: "Cover image URL"},
		{
			name:       "end before start",
			body:       `{"kind":"event","title":"x","starts_at":"2026-05-02T10:00:00Z","ends_at":"2026-05-01T10:00:00Z"}`,
			wantStatus: http.StatusBadRequest,
			wantError:  "End date",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newStudioFixture(&models.Entry{Kind: models.EntryKindTrend, Language: "en", Title: "Existing", Slug: "existing", Body: []string{"e"}})
			f.drafts.Save(t.Context(), testSubject, &models.Draft{EntryID: cache.NewEntryDraftID, Title: "wip"})

			rec := httptest.NewRecorder()
			f.studio.CreateEntry(rec, newRequest(http.MethodPost, "/api/studio/entries", tt.body))

			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d (%s)", rec.Code, tt.wantStatus, rec.Body.String())
			}
			if tt.wantStatus != http.StatusCreated {
				if msg := errorMessage(t, rec); !strings.Contains(msg, tt.wantError) {
					t.Errorf("error = %q, want containing %q", msg, tt.wantError)
				}
				if f.cache.invalidations != 0 {
					t.Error("cache invalidated on a rejected write")
				}
				return
			}

			var got studioEntry
			decodeBody(t, rec, &got)
			if got.Slug != tt.wantSlug {
				t.Errorf("slug = %q, want %q", got.Slug, tt.wantSlug)
			}
			if strings.Join(got.Body, "|") != strings.Join(tt.wantBody, "|") {
				t.Errorf("body = %q, want %q", got.Body, tt.wantBody)
			}
			if got.Language != "en" {
				t.Errorf("language = %q, want default en", got.Language)
			}
			if f.cache.invalidations != 1 {
				t.Errorf("invalidations = %d, want 1", f.cache.invalidations)
			}
			if d, _ := f.drafts.Get(t.Context(), testSubject, cache.NewEntryDraftID); d != nil {
				t.Error("new-entry draft not discarded after save")
			}
		})
	}
}

func TestStudioGetEntryContentInput(t *testing.T) {
	id := uuid.New()
	f := newStudioFixture(&models.Entry{ID: id, Kind: models.EntryKindTrend, Language: "en", Title: "T", Slug: "t", Body: []string{"One", "Two"}})

	rec := httptest.NewRecorder()
	f.studio.GetEntry(rec, newRequest(http.MethodGet, "/", nil, "id", id.String()))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d (%s)", rec.Code, rec.Body.String())
	}
	var got studioEntry
	decodeBody(t, rec, &got)
	if got.ContentInput != "One\n\nTwo" {
		t.Errorf("content_input = %q, want %q", got.ContentInput, "One\n\nTwo")
	}

	for _, raw := range []string{uuid.NewString(), "not-a-uuid"} {
		rec := httptest.NewRecorder()
		f.studio.GetEntry(rec, newRequest(http.MethodGet, "/", nil, "id", raw))
		if rec.Code != http.StatusNotFound {
			t.Errorf("GetEntry(%q) status = %d, want 404", raw, rec.Code)
		}
	}
}

func TestStudioListIncludesHidden(t *testing.T) {
	f := newStudioFixture(
		&models.Entry{Kind: models.EntryKindTrend, Language: "en", Title: "A", Slug: "a", Hidden: true},
		&models.Entry{Kind: models.EntryKindEvent, Language: "en", Title: "B", Slug: "b"},
	)

	rec := httptest.NewRecorder()
	f.studio.ListEntries(rec, newRequest(http.MethodGet, "/api/studio/entries", nil))
	var got struct {
		Entries []models.Entry `json:"entries"`
	}
	decodeBody(t, rec, &got)
	if len(got.Entries) != 2 {
		t.Fatalf("entries = %d, want 2", len(got.Entries))
	}

	rec = httptest.NewRecorder()
	f.studio.ListEntries(rec, newRequest(http.MethodGet, "/api/studio/entries?kind=bogus", nil))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("bad kind status = %d, want 400", rec.Code)
	}
}

func TestStudioUpdateEntry(t *testing.T) {
	id := uuid.New()
	seed := func() *studioFixture {
		return newStudioFixture(
			&models.Entry{ID: id, Kind: models.EntryKindEvent, Language: "en", Title: "Jazz", Slug: "jazz", Body: []string{"Old"}},
			&models.Entry{Kind: models.EntryKindEvent, Language: "en", Title: "Blues", Slug: "blues", Body: []string{"b"}},
		)
	}

	t.Run("keeps body when no content sent", func(t *testing.T) {
		f := seed()
		rec := httptest.NewRecorder()
		f.studio.UpdateEntry(rec, newRequest(http.MethodPut, "/", `{"title":"Jazz night","location":"Old Town"}`, "id", id.String()))
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d (%s)", rec.Code, rec.Body.String())
		}
		got, _ := f.entries.FindByID(t.Context(), id)
		if got.Title != "Jazz night" || got.Slug != "jazz" {
			t.Errorf("title/slug = %q/%q, want Jazz night/jazz", got.Title, got.Slug)
		}
		if strings.Join(got.Body, "|") != "Old" {
			t.Errorf("body = %q, want unchanged", got.Body)
		}
		if got.Location == nil || *got.Location != "Old Town" {
			t.Errorf("location = %v", got.Location)
		}
		if f.cache.invalidations != 1 {
			t.Errorf("invalidations = %d, want 1", f.cache.invalidations)
		}
	})

	t.Run("content input replaces body and draft dropped", func(t *testing.T) {
		f := seed()
		f.drafts.Save(t.Context(), testSubject, &models.Draft{EntryID: id.String()})
		rec := httptest.NewRecorder()
		f.studio.UpdateEntry(rec, newRequest(http.MethodPut, "/", `{"title":"Jazz","content_input":"<p>New</p>"}`, "id", id.String()))
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d (%s)", rec.Code, rec.Body.String())
		}
		got, _ := f.entries.FindByID(t.Context(), id)
		if strings.Join(got.Body, "|") != "<p>New</p>" {
			t.Errorf("body = %q", got.Body)
		}
		if d, _ := f.drafts.Get(t.Context(), testSubject, id.String()); d != nil {
			t.Error("draft not discarded after save")
		}
	})

	t.Run("slug collision suffixed", func(t *testing.T) {
		f := seed()
		rec := httptest.NewRecorder()
		f.studio.UpdateEntry(rec, newRequest(http.MethodPut, "/", `{"title":"Jazz","slug":"blues"}`, "id", id.String()))
		var got studioEntry
		decodeBody(t, rec, &got)
		if got.Slug != "blues-2" {
			t.Errorf("slug = %q, want blues-2", got.Slug)
		}
	})

	t.Run("kind is immutable", func(t *testing.T) {
		f := seed()
		rec := httptest.NewRecorder()
		f.studio.UpdateEntry(rec, newRequest(http.MethodPut, "/", `{"kind":"trend","title":"Jazz"}`, "id", id.String()))
		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rec.Code)
		}
	})

	t.Run("missing entry", func(t *testing.T) {
		f := seed()
		rec := httptest.NewRecorder()
		f.studio.UpdateEntry(rec, newRequest(http.MethodPut, "/", `{"title":"x"}`, "id", uuid.NewString()))
		if rec.Code != http.StatusNotFound {
			t.Errorf("status = %d, want 404", rec.Code)
		}
	})
}

func TestStudioDeleteEntry(t *testing.T) {
	id := uuid.New()
	f := newStudioFixture(&models.Entry{ID: id, Kind: models.EntryKindPopup, Language: "en", Title: "P", Slug: "p"})

	rec := httptest.NewRecorder()
	f.studio.DeleteEntry(rec, newRequest(http.MethodDelete, "/", nil, "id", id.String()))
	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want 204", rec.Code)
	}
	if got, _ := f.entries.FindByID(t.Context(), id); got != nil {
		t.Error("entry still present")
	}
	if f.cache.invalidations != 1 {
		t.Errorf("invalidations = %d, want 1", f.cache.invalidations)
	}

	rec = httptest.NewRecorder()
	f.studio.DeleteEntry(rec, newRequest(http.MethodDelete, "/", nil, "id", id.String()))
	if rec.Code != http.StatusNotFound {
		t.Errorf("second delete status = %d, want 404", rec.Code)
	}
}

func TestStudioStoreFailure(t *testing.T) {
	f := newStudioFixture()
	f.entries.err = errFake

	rec := httptest.NewRecorder()
	f.studio.CreateEntry(rec, newRequest(http.MethodPost, "/", `{"kind":"trend","title":"x"}`))
	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", rec.Code)
	}
	if msg := errorMessage(t, rec); msg != "Failed to create entry." {
		t.Errorf("error = %q", msg)
	}
}

func TestStudioExportMarkdown(t *testing.T) {
	id := uuid.New()
	f := newStudioFixture(&models.Entry{ID: id, Kind: models.EntryKindTrend, Language: "en", Title: "Markets", Slug: "markets", Body: []string{"<p>Open <b>late</b></p>"}})

	rec := httptest.NewRecorder()
	f.studio.ExportMarkdown(rec, newRequest(http.MethodGet, "/", nil, "id", id.String()))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d (%s)", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/markdown") {
		t.Errorf("content type = %q", ct)
	}
	if cd := rec.Header().Get("Content-Disposition"); !strings.Contains(cd, "markets.md") {
		t.Errorf("content disposition = %q", cd)
	}
	body := rec.Body.String()
	if !strings.HasPrefix(body, "# Markets\n\n") || !strings.Contains(body, "**late**") {
		t.Errorf("markdown = %q", body)
	}
}

func TestStudioTranslateEntry(t *testing.T) {
	id := uuid.New()
	source := &models.Entry{
		ID: id, Kind: models.EntryKindEvent, Language: "en", Title: "Jazz", Slug: "jazz",
		Summary: strPtr("Live"), Location: strPtr("Old Town"), Pronunciation: nil,
		Body: []string{"<p>Music</p>", ""},
	}

	t.Run("creates hidden copy", func(t *testing.T) {
		f := newStudioFixture(source)
		rec := httptest.NewRecorder()
		f.studio.TranslateEntry(rec, newRequest(http.MethodPost, "/", `{"language":"fr"}`, "id", id.String()))
		if rec.Code != http.StatusCreated {
			t.Fatalf("status = %d (%s)", rec.Code, rec.Body.String())
		}
		var got studioEntry
		decodeBody(t, rec, &got)
		if got.ID == id || got.Language != "fr" || !got.Hidden {
			t.Errorf("copy id/lang/hidden = %v/%q/%v", got.ID, got.Language, got.Hidden)
		}
		if got.Title != "[fr] Jazz" || *got.Summary != "[fr] Live" || *got.Location != "[fr] Old Town" {
			t.Errorf("fields = %q/%q/%q", got.Title, *got.Summary, *got.Location)
		}
		if strings.Join(got.Body, "|") != "[fr] <p>Music</p>|" {
			t.Errorf("body = %q", got.Body)
		}
		if got.Slug != "fr-jazz" {
			t.Errorf("slug = %q, want fr-jazz", got.Slug)
		}
		if got.Kind != models.EntryKindEvent {
			t.Errorf("kind = %q", got.Kind)
		}
	})

	t.Run("visible when asked", func(t *testing.T) {
		f := newStudioFixture(source)
		rec := httptest.NewRecorder()
		f.studio.TranslateEntry(rec, newRequest(http.MethodPost, "/", `{"language":"ro","hidden":false}`, "id", id.String()))
		var got studioEntry
		decodeBody(t, rec, &got)
		if got.Hidden {
			t.Error("copy hidden despite hidden=false")
		}
	})

	tests := []struct {
		name       string
		body       string
		err        error
		wantStatus int
	}{
		{name: "same language", body: `{"language":"en"}`, wantStatus: http.StatusBadRequest},
		{name: "unsupported", body: `{"language":"de"}`, wantStatus: http.StatusBadRequest},
		{name: "provider failure", body: `{"language":"fr"}`, err: errFake, wantStatus: http.StatusBadGateway},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newStudioFixture(source)
			f.translator.err = tt.err
			rec := httptest.NewRecorder()
			f.studio.TranslateEntry(rec, newRequest(http.MethodPost, "/", tt.body, "id", id.String()))
			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if entries, _ := f.entries.List(t.Context(), store.EntryFilter{IncludeHidden: true}); len(entries) != 1 {
				t.Errorf("entries = %d, want only the source", len(entries))
			}
		})
	}
}
