// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"contentstudio/internal/content"
	"contentstudio/internal/translate"
)

// maxTranslateTexts caps the number of texts in one translate request.
const maxTranslateTexts = 200

type convertInput struct {
	ContentInput *string  `json:"content_input"`
	Body         []string `json:"body"`
}

// Convert runs the draft converter in either direction: content_input is
// split into body paragraphs, body is flattened into content_input.
func (s *Studio) Convert(w http.ResponseWriter, r *http.Request) {
	var in convertInput
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	switch {
	case in.ContentInput != nil && in.Body != nil:
		writeError(w, http.StatusBadRequest, "Send either content_input or body, not both.")
	case in.ContentInput != nil:
		body := content.FromDraftString(*in.ContentInput)
		writeJSON(w, http.StatusOK, map[string]any{
			"body":    body,
			"is_html": content.AnyHTML(body),
		})
	case in.Body != nil:
		writeJSON(w, http.StatusOK, map[string]any{
			"content_input": content.ToDraftString(in.Body),
			"is_html":       content.AnyHTML(in.Body),
		})
	default:
		writeError(w, http.StatusBadRequest, "Send content_input or body.")
	}
}

type renderInput struct {
	Content string   `json:"content"`
	Body    []string `json:"body"`
}

// Render previews content as the public site would show it.
func (s *Studio) Render(w http.ResponseWriter, r *http.Request) {
	var in renderInput
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	var html string
	if in.Body != nil {
		html = s.renderer.RenderEntry(in.Body)
	} else {
		html = s.renderer.Render(in.Content)
	}
	writeJSON(w, http.StatusOK, map[string]string{"html": html})
}

type translateInput struct {
	Texts  []string `json:"texts"`
	Source string   `json:"source"`
	Target string   `json:"target"`
}

// Translate translates a batch of texts. Values keep the input order.
func (s *Studio) Translate(w http.ResponseWriter, r *http.Request) {
	if s.translator == nil {
		writeError(w, http.StatusServiceUnavailable, "Translation is not configured.")
		return
	}
	var in translateInput
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	in.Source = strings.ToLower(strings.TrimSpace(in.Source))
	in.Target = strings.ToLower(strings.TrimSpace(in.Target))
	if in.Source == "" || in.Target == "" {
		writeError(w, http.StatusBadRequest, "Source and target languages are required.")
		return
	}
	if len(in.Texts) > maxTranslateTexts {
		writeError(w, http.StatusBadRequest, "Too many texts in one request (max 200).")
		return
	}

	res, err := s.translator.TranslateBatch(r.Context(), in.Texts, in.Source, in.Target)
	if err != nil {
		slog.Error("translate batch failed", "source", in.Source, "target", in.Target, "texts", len(in.Texts), "error", err)
		msg := "Translation failed."
		if errors.Is(err, translate.ErrLengthMismatch) || errors.Is(err, translate.ErrMalformedResponse) {
			msg = "The translation provider returned an unusable answer."
		}
		writeError(w, http.StatusBadGateway, msg)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// ClearTranslations empties the translation cache so the next batch asks
// the provider again.
func (s *Studio) ClearTranslations(w http.ResponseWriter, r *http.Request) {
	if s.translations == nil {
		writeError(w, http.StatusServiceUnavailable, "Translation is not configured.")
		return
	}
	n, err := s.translations.Clear(r.Context())
	if err != nil {
		slog.Error("clear translation cache failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to clear the translation cache.")
		return
	}
	slog.Info("translation cache cleared", "deleted", n, "by", subject(r))
	writeJSON(w, http.StatusOK, map[string]int{"deleted": n})
}
