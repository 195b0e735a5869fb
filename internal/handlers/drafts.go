package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"contentstudio/internal/cache"
	"contentstudio/internal/models"
)

// draftID validates the {id} parameter: an entry UUID or "new".
func draftID(r *http.Request) (string, bool) {
	id := chi.URLParam(r, "id")
	if id == cache.NewEntryDraftID {
		return id, true
	}
	_, err := parseUUID(id)
	return id, err == nil
}

// GetDraft returns the temporary save for an entry, 404 when none exists.
func (s *Studio) GetDraft(w http.ResponseWriter, r *http.Request) {
	id, ok := draftID(r)
	if !ok {
		writeError(w, http.StatusNotFound, "Draft not found.")
		return
	}
	d, err := s.drafts.Get(r.Context(), subject(r), id)
	if err != nil {
		slog.Error("load draft failed", "entry", id, "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to load draft.")
		return
	}
	if d == nil {
		writeError(w, http.StatusNotFound, "Draft not found.")
		return
	}
	writeJSON(w, http.StatusOK, d)
}

type draftInput struct {
	Title        string `json:"title"`
	Summary      string `json:"summary"`
	ContentInput string `json:"content_input"`
}

// SaveDraft stores the current form values as a temporary save.
func (s *Studio) SaveDraft(w http.ResponseWriter, r *http.Request) {
	id, ok := draftID(r)
	if !ok {
		writeError(w, http.StatusNotFound, "Draft not found.")
		return
	}
	var in draftInput
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if len(in.ContentInput) > maxBodyLen*4 {
		writeError(w, http.StatusBadRequest, "Content is too long.")
		return
	}

	d := &models.Draft{
		EntryID:      id,
		Title:        in.Title,
		Summary:      in.Summary,
		ContentInput: in.ContentInput,
		SavedAt:      time.Now().UTC(),
	}
	if err := s.drafts.Save(r.Context(), subject(r), d); err != nil {
		slog.Error("save draft failed", "entry", id, "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to save draft.")
		return
	}
	writeJSON(w, http.StatusOK, d)
}

// DeleteDraft discards the temporary save.
func (s *Studio) DeleteDraft(w http.ResponseWriter, r *http.Request) {
	id, ok := draftID(r)
	if !ok {
		writeError(w, http.StatusNotFound, "Draft not found.")
		return
	}
	if err := s.drafts.Delete(r.Context(), subject(r), id); err != nil {
		slog.Error("delete draft failed", "entry", id, "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to delete draft.")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
