// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"contentstudio/internal/auth"
	"contentstudio/internal/content"
	"contentstudio/internal/middleware"
)

// StudioDeps are the collaborators of the studio handlers. Translator,
// TranslationCache, Uploader and Providers may be nil when the feature is
// not configured.
type StudioDeps struct {
	Entries          EntryStore
	Drafts           DraftStore
	Cache            ResponseCache
	Renderer         *content.Renderer
	Translator       Translator
	TranslationCache TranslationCache
	Uploader         Uploader
	Stats            ViewStats
	Auth             Authenticator
	Providers        ProviderSwitch
	Languages        Languages
	MaxUploadBytes   int64
}

// Studio groups the authenticated admin API handlers.
type Studio struct {
	entries        EntryStore
	drafts         DraftStore
	cache          ResponseCache
	renderer       *content.Renderer
	translator     Translator
	translations   TranslationCache
	uploader       Uploader
	stats          ViewStats
	auth           Authenticator
	providers      ProviderSwitch
	langs          Languages
	maxUploadBytes int64
}

// NewStudio creates a new Studio handler group.
func NewStudio(deps StudioDeps) *Studio {
	return &Studio{
		entries:        deps.Entries,
		drafts:         deps.Drafts,
		cache:          deps.Cache,
		renderer:       deps.Renderer,
		translator:     deps.Translator,
		translations:   deps.TranslationCache,
		uploader:       deps.Uploader,
		stats:          deps.Stats,
		auth:           deps.Auth,
		providers:      deps.Providers,
		langs:          deps.Languages,
		maxUploadBytes: deps.MaxUploadBytes,
	}
}

// subject returns the studio user the request was authenticated as.
func subject(r *http.Request) string {
	if claims := middleware.StudioFromCtx(r.Context()); claims != nil {
		return claims.Subject
	}
	return ""
}

type loginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login exchanges studio credentials for a bearer token.
func (s *Studio) Login(w http.ResponseWriter, r *http.Request) {
	var in loginInput
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	email := strings.TrimSpace(in.Email)
	if email == "" || in.Password == "" {
		writeError(w, http.StatusBadRequest, "Email and password are required.")
		return
	}

	token, expires, err := s.auth.Login(email, in.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			slog.Warn("studio login failed", "email", email, "ip", r.RemoteAddr)
			writeError(w, http.StatusUnauthorized, "Invalid email or password.")
			return
		}
		slog.Error("studio login error", "error", err)
		writeError(w, http.StatusInternalServerError, "Login failed.")
		return
	}

	slog.Info("studio login", "email", email)
	writeJSON(w, http.StatusOK, map[string]any{
		"token":      token,
		"expires_at": expires.UTC(),
	})
}

const (
	defaultStatsDays  = 30
	maxStatsDays      = 365
	defaultStatsLimit = 10
	maxStatsLimit     = 100
)

// TopEntries reports the most viewed entries over the last ?days= days.
func (s *Studio) TopEntries(w http.ResponseWriter, r *http.Request) {
	days, ok := queryInt(r, "days", defaultStatsDays, maxStatsDays)
	if !ok {
		writeError(w, http.StatusBadRequest, "Days must be a positive number.")
		return
	}
	limit, ok := queryInt(r, "limit", defaultStatsLimit, maxStatsLimit)
	if !ok {
		writeError(w, http.StatusBadRequest, "Limit must be a positive number.")
		return
	}

	since := time.Now().UTC().AddDate(0, 0, -days)
	top, err := s.stats.TopEntries(r.Context(), since, limit)
	if err != nil {
		slog.Error("load top entries failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to load analytics.")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"since":   since,
		"entries": top,
	})
}

// Provider returns the active AI provider and the configured ones.
func (s *Studio) Provider(w http.ResponseWriter, r *http.Request) {
	if s.providers == nil {
		writeError(w, http.StatusServiceUnavailable, "No AI provider is configured.")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"active":    s.providers.ActiveName(),
		"available": s.providers.Available(),
	})
}

type providerInput struct {
	Provider string `json:"provider"`
}

// SetProvider switches the AI provider used for translation.
func (s *Studio) SetProvider(w http.ResponseWriter, r *http.Request) {
	if s.providers == nil {
		writeError(w, http.StatusServiceUnavailable, "No AI provider is configured.")
		return
	}
	var in providerInput
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := s.providers.SetActive(in.Provider); err != nil {
		writeError(w, http.StatusBadRequest, "Unknown or unconfigured provider.")
		return
	}
	slog.Info("ai provider switched", "provider", in.Provider, "by", subject(r))
	writeJSON(w, http.StatusOK, map[string]any{
		"active":    s.providers.ActiveName(),
		"available": s.providers.Available(),
	})
}

// queryInt reads a positive integer query parameter capped at ceiling.
func queryInt(r *http.Request, name string, fallback, ceiling int) (int, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 0, false
	}
	return min(n, ceiling), true
}
