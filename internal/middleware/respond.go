package middleware

import (
	"encoding/json"
	"net/http"
)

// writeError sends {"error": msg}. Handlers have their own richer helper;
// middleware only ever needs this shape.
func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
