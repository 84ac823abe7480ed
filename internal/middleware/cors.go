package middleware

import (
	"net/http"
	"strings"
)

// CorsMiddleware Middleware для поддержки CORS. Origin из списка allowed отражается
// в Access-Control-Allow-Origin, "*" разрешает любой origin.
// Пустой список - заголовки CORS не выставляются.
func CorsMiddleware(allowed []string) func(http.Handler) http.Handler {
	allowAll := false
	origins := make(map[string]struct{}, len(allowed))

	for _, o := range allowed {
		o = strings.TrimSpace(o)
		if o == "*" {
			allowAll = true
			continue
		}
		if o != "" {
			origins[strings.TrimSuffix(o, "/")] = struct{}{}
		}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")

			if origin == "" {
				next.ServeHTTP(w, r)
				return
			}

			_, isAllowed := origins[origin]

			switch {
			case allowAll:
				w.Header().Set("Access-Control-Allow-Origin", "*")
			case isAllowed:
				w.Header().Set("Access-Control-Allow-Origin", origin)
				w.Header().Add("Vary", "Origin")
			default:
				next.ServeHTTP(w, r)
				return
			}

			w.Header().Set("Access-Control-Allow-Methods", "GET, HEAD, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Accept, Range, If-Modified-Since, If-None-Match")
			w.Header().Set("Access-Control-Expose-Headers", "Content-Length, Content-Range, X-Request-ID")

			// Время кэширования preflight запросов
			w.Header().Set("Access-Control-Max-Age", "86400")

			// preflight отвечаем сами, до проверки метода в обработчике
			if r.Method == http.MethodOptions && r.Header.Get("Access-Control-Request-Method") != "" {
				w.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
