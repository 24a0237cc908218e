package handlers

import (
	"crypto/subtle"
	"net/http"
	"os"
	"strings"
)

// Default token if env not set
func adminToken() string {
	if t := os.Getenv("ADMIN_TOKEN"); t != "" {
		return t
	}
	return "admin123" // change in production: export ADMIN_TOKEN=...
}

// RequireAdmin is middleware: blocks access unless the bearer token matches.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tok := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
		if subtle.ConstantTimeCompare([]byte(tok), []byte(adminToken())) != 1 {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}
