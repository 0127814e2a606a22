package handlers

import (
	"crypto/hmac"
	"crypto/sha256"
	"net/http"
)

const adminKeyHeader = "X-Admin-Key"

// equalKeys compares a caller-supplied key against the configured one in
// constant time. Hashing first also hides the key length.
func equalKeys(supplied string, configured string) bool {
	suppliedSum := sha256.Sum256([]byte(supplied))
	configuredSum := sha256.Sum256([]byte(configured))
	return hmac.Equal(suppliedSum[:], configuredSum[:])
}

func adminOnly(adminKey string) func(http.Handler) http.Handler {
	return func(h http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			if !equalKeys(req.Header.Get(adminKeyHeader), adminKey) {
				writeError(w, http.StatusUnauthorized, "unauthorized")
				return
			}
			h.ServeHTTP(w, req)
		})
	}
}
