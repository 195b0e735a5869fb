// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package middleware

import (
	"context"
	"net/http"
	"strings"

	"contentstudio/internal/auth"
)

// contextKey is an unexported type for context keys to prevent collisions.
type contextKey string

// StudioKey is the context key for the verified studio claims.
const StudioKey contextKey = "studio"

// TokenVerifier validates bearer tokens. *auth.Manager satisfies it.
type TokenVerifier interface {
	Verify(token string) (*auth.Claims, error)
}

// RequireStudio rejects requests without a valid "Authorization: Bearer"
// token and stores the verified claims in the request context.
func RequireStudio(verifier TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r)
			if !ok {
				w.Header().Set("WWW-Authenticate", `Bearer realm="studio"`)
				writeError(w, http.StatusUnauthorized, "missing bearer token")
				return
			}

			claims, err := verifier.Verify(token)
			if err != nil {
				w.Header().Set("WWW-Authenticate", `Bearer realm="studio", error="invalid_token"`)
				writeError(w, http.StatusUnauthorized, "invalid or expired token")
				return
			}

			ctx := context.WithValue(r.Context(), StudioKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// StudioFromCtx returns the studio claims, or nil outside RequireStudio.
func StudioFromCtx(ctx context.Context) *auth.Claims {
	claims, _ := ctx.Value(StudioKey).(*auth.Claims)
	return claims
}

func bearerToken(r *http.Request) (string, bool) {
	h := r.Header.Get("Authorization")
	scheme, token, ok := strings.Cut(h, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
