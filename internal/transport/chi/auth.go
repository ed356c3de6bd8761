package chi

import (
	"crypto/subtle"
	"net/http"
	"strings"
)

// apiKeyHeader is accepted as an alternative to "Authorization: Bearer <key>".
const apiKeyHeader = "X-API-Key"

// publicPaths are reachable without a key.
var publicPaths = map[string]struct{}{
	"/health":  {},
	"/metrics": {},
	"/error":   {},
}

// APIKeyAuth returns a middleware that requires one of apiKeys on every
// non-public route. Blank keys are ignored; with no keys left it is a pass-through.
func APIKeyAuth(apiKeys []string) func(http.Handler) http.Handler {
	keys := make([][]byte, 0, len(apiKeys))
	for _, k := range apiKeys {
		if k != "" {
			keys = append(keys, []byte(k))
		}
	}

	return func(next http.Handler) http.Handler {
		if len(keys) == 0 {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := publicPaths[r.URL.Path]; ok || r.Method == http.MethodOptions {
				next.ServeHTTP(w, r)
				return
			}

			presented, msg := presentedKey(r)
			if msg != "" {
				writeError(w, http.StatusUnauthorized, msg)
				return
			}
			if !knownKey(keys, presented) {
				writeError(w, http.StatusUnauthorized, "invalid api key")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// presentedKey extracts the caller's key. A non-empty msg describes why none was found.
func presentedKey(r *http.Request) (key []byte, msg string) {
	if v := r.Header.Get(apiKeyHeader); v != "" {
		return []byte(v), ""
	}

	auth := r.Header.Get("Authorization")
	if auth == "" {
		return nil, "missing authorization header"
	}
	const bearerPrefix = "Bearer "
	if len(auth) < len(bearerPrefix) || !strings.EqualFold(auth[:len(bearerPrefix)], bearerPrefix) {
		return nil, "authorization header must use Bearer scheme"
	}
	return []byte(strings.TrimSpace(auth[len(bearerPrefix):])), ""
}

func knownKey(keys [][]byte, presented []byte) bool {
	found := 0
	for _, k := range keys {
		found |= subtle.ConstantTimeCompare(k, presented)
	}
	return found == 1
}
