package middleware

import "net/http"

// APIVersion stamps X-API-Version on every /api response. An empty version disables it.
func APIVersion(version string) func(next http.Handler) http.Handler {
	if version == "" {
		return noopMiddleware
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-API-Version", version)
			next.ServeHTTP(w, r)
		})
	}
}
