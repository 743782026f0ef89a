package chi

import (
	"crypto/subtle"
	"net/http"
	"strings"
)

// exemptPaths bypass authentication so probes and scrapers need no key.
var exemptPaths = map[string]struct{}{
	"/search/health": {},
	"/health":        {},
	"/metrics":       {},
}

const bearerPrefix = "Bearer "

// BearerAuthMiddleware returns a middleware that validates Bearer tokens.
// If apiKeys has no non-empty entry, authentication is disabled.
func BearerAuthMiddleware(apiKeys []string) func(http.Handler) http.Handler {
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
			if _, ok := exemptPaths[r.URL.Path]; ok {
				next.ServeHTTP(w, r)
				return
			}

			auth := r.Header.Get("Authorization")
			switch {
			case auth == "":
				writeError(w, http.StatusUnauthorized, "missing authorization header", "")
				return
			case !strings.HasPrefix(auth, bearerPrefix):
				writeError(w, http.StatusUnauthorized, "authorization header must use Bearer scheme", "")
				return
			case !validToken(keys, []byte(auth[len(bearerPrefix):])):
				writeError(w, http.StatusUnauthorized, "invalid api key", "")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func validToken(keys [][]byte, token []byte) bool {
	for _, k := range keys {
		if subtle.ConstantTimeCompare(k, token) == 1 {
			return true
		}
	}
	return false
}
