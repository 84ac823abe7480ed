package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/trsv-dev/imageproxy/internal/contextkeys"
)

// RequestIDHeader Заголовок с идентификатором запроса.
const RequestIDHeader = "X-Request-ID"

// maxRequestIDLen Входящий идентификатор длиннее этого значения заменяется новым.
const maxRequestIDLen = 128

// RequestIDMiddleware Кладет идентификатор запроса в контекст и в заголовок ответа.
// Идентификатор берется из входящего X-Request-ID или генерируется (uuid v4).
func RequestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get(RequestIDHeader)
		if requestID == "" || len(requestID) > maxRequestIDLen {
			requestID = uuid.NewString()
		}

		w.Header().Set(RequestIDHeader, requestID)

		ctx := context.WithValue(r.Context(), contextkeys.RequestID, requestID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
