package rest

import (
	"net/http"
	"strings"
)

const (
	corsAllowedMethods = "GET, OPTIONS"
	corsAllowedHeaders = "Accept, Content-Type, Authorization, X-Request-ID"
	corsExposedHeaders = "X-Request-ID, X-RateLimit-Limit, X-RateLimit-Remaining, X-RateLimit-Reset"
	corsMaxAge         = "43200"
)

// corsMiddleware allows the dashboard frontend to call the API from a
// different origin. Origins may use a single wildcard, e.g.
// "https://*.meridiangrc.com". An empty allow list disables CORS.
func corsMiddleware(allowedOrigins []string) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")

			if origin != "" && originAllowed(origin, allowedOrigins) {
				headers := w.Header()
				headers.Set("Access-Control-Allow-Origin", origin)
				headers.Add("Vary", "Origin")
				headers.Set("Access-Control-Expose-Headers", corsExposedHeaders)

				if r.Method == http.MethodOptions {
					headers.Set("Access-Control-Allow-Methods", corsAllowedMethods)
					headers.Set("Access-Control-Allow-Headers", corsAllowedHeaders)
					headers.Set("Access-Control-Max-Age", corsMaxAge)
					w.WriteHeader(http.StatusNoContent)
					return
				}
			}

			next.ServeHTTP(w, r)
		})
	}
}

func originAllowed(origin string, allowed []string) bool {
	origin = strings.ToLower(origin)
	for _, pattern := range allowed {
		pattern = strings.ToLower(pattern)
		if pattern == "*" || pattern == origin {
			return true
		}
		if prefix, suffix, ok := strings.Cut(pattern, "*"); ok {
			if strings.HasPrefix(origin, prefix) && strings.HasSuffix(origin, suffix) {
				return true
			}
		}
	}
	return false
}
