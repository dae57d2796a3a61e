package server

import (
	"crypto/subtle"
	"net/http"
	"strings"
)

// requireToken wraps an HTTP handler with bearer token authentication.
// Unauthorized requests receive a JSON-RPC error response.
func requireToken(secret string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !validToken(secret, r.Header.Get("Authorization")) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"jsonrpc":"2.0","error":{"code":-32600,"message":"Unauthorized"},"id":null}`))
			return
		}
		next.ServeHTTP(w, r)
	})
}

// validToken checks an Authorization header value against the secret.
// An empty secret rejects everything so the endpoint can never run
// open by accident.
func validToken(secret, auth string) bool {
	if secret == "" {
		return false
	}
	if !strings.HasPrefix(auth, "Bearer ") {
		return false
	}
	token := strings.TrimPrefix(auth, "Bearer ")
	return subtle.ConstantTimeCompare([]byte(token), []byte(secret)) == 1
}
