package middleware

import (
	"net/http"
	"strings"
)

// Origens locais do front-end, sempre liberadas
var defaultAllowedOrigins = []string{
	"http://localhost:3000",
	"http://localhost:5173",
}

var (
	allowedMethods = strings.Join([]string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodOptions}, ", ")
	allowedHeaders = strings.Join([]string{"Accept", "Authorization", "Content-Type", "X-Requested-With", CorrelationHeader}, ", ")
)

// Cors libera as origens conhecidas do front-end; extraOrigins vem da configuração (CORS_ALLOWED_ORIGINS)
func Cors(extraOrigins ...string) func(http.Handler) http.Handler {
	allowed := make(map[string]struct{}, len(defaultAllowedOrigins)+len(extraOrigins))
	for _, origin := range append(append([]string{}, defaultAllowedOrigins...), extraOrigins...) {
		if origin = strings.TrimRight(strings.TrimSpace(origin), "/"); origin != "" {
			allowed[origin] = struct{}{}
		}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			w.Header().Add("Vary", "Origin")

			if _, ok := allowed[origin]; ok {
				w.Header().Set("Access-Control-Allow-Origin", origin)
				w.Header().Set("Access-Control-Allow-Methods", allowedMethods)
				w.Header().Set("Access-Control-Allow-Headers", allowedHeaders)
				w.Header().Set("Access-Control-Expose-Headers", CorrelationHeader)
				w.Header().Set("Access-Control-Allow-Credentials", "true")
				w.Header().Set("Access-Control-Max-Age", "86400") // Cache do preflight por 24 horas
			}

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
