// Package router sets up all HTTP routes and middleware chains for the
// contentstudio API. It organizes routes into public and studio groups with
// appropriate middleware stacks.
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"contentstudio/internal/handlers"
	"contentstudio/internal/metrics"
	"contentstudio/internal/middleware"
)

// New creates and returns the configured Chi router with all middleware
// and route groups wired up. limiter guards the anonymous write endpoints
// (page views and login) and may be nil.
func New(public *handlers.Public, studio *handlers.Studio, verifier middleware.TokenVerifier, limiter *middleware.RateLimiter) chi.Router {
	r := chi.NewRouter()

	// Global middleware, applied to every request.
	r.Use(chimw.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(middleware.SecureHeaders)

	r.Get("/health", healthHandler)
	r.Handle("/metrics", metrics.Handler())

	limited := func(r chi.Router) chi.Router {
		if limiter == nil {
			return r
		}
		return r.With(limiter.Middleware)
	}

	r.Route("/api", func(r chi.Router) {
		// Public site.
		r.Get("/entries", public.ListEntries)
		r.Get("/entries/{kind}/{slug}", public.GetEntry)
		limited(r).Post("/events", public.TrackView)

		r.Route("/studio", func(r chi.Router) {
			r.Use(middleware.NoStore)

			limited(r).Post("/login", studio.Login)

			// Everything else requires a bearer token.
			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireStudio(verifier))

				r.Route("/entries", func(r chi.Router) {
					r.Get("/", studio.ListEntries)
					r.Post("/", studio.CreateEntry)
					r.Get("/{id}", studio.GetEntry)
					r.Put("/{id}", studio.UpdateEntry)
					r.Delete("/{id}", studio.DeleteEntry)
					r.Get("/{id}/markdown", studio.ExportMarkdown)
					r.Post("/{id}/translations", studio.TranslateEntry)
				})

				r.Route("/drafts", func(r chi.Router) {
					r.Get("/{id}", studio.GetDraft)
					r.Put("/{id}", studio.SaveDraft)
					r.Delete("/{id}", studio.DeleteDraft)
				})

				r.Post("/convert", studio.Convert)
				r.Post("/render", studio.Render)
				r.Post("/translate", studio.Translate)
				r.Delete("/translations/cache", studio.ClearTranslations)
				r.Post("/uploads", studio.Upload)
				r.Delete("/uploads", studio.DeleteUpload)
				r.Post("/editor", studio.Edit)
				r.Post("/editor/image", studio.EditorImage)

				r.Get("/analytics/top", studio.TopEntries)
				r.Get("/ai/provider", studio.Provider)
				r.Put("/ai/provider", studio.SetProvider)
			})
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"error":"not found"}`))
	})

	return r
}

// healthHandler returns a simple JSON health check response.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}
