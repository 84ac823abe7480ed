package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trsv-dev/imageproxy/internal/contextkeys"
)

// TestRequestIDMiddleware Проверяет генерацию и проброс идентификатора запроса.
func TestRequestIDMiddleware(t *testing.T) {
	tests := []struct {
		name     string
		incoming string
		wantSame bool
	}{
		{"без заголовка", "", false},
		{"входящий идентификатор", "abc-123", true},
		{"слишком длинный идентификатор", strings.Repeat("x", 200), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var fromCtx string
			nextHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				fromCtx, _ = r.Context().Value(contextkeys.RequestID).(string)
			})

			r := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.incoming != "" {
				r.Header.Set(RequestIDHeader, tt.incoming)
			}
			w := httptest.NewRecorder()

			RequestIDMiddleware(nextHandler).ServeHTTP(w, r)

			header := w.Header().Get(RequestIDHeader)
			require.NotEmpty(t, header)
			assert.Equal(t, header, fromCtx)

			if tt.wantSame {
				assert.Equal(t, tt.incoming, header)
				return
			}

			_, err := uuid.Parse(header)
			assert.NoError(t, err)
		})
	}
}

// TestRequestIDMiddlewareUnique Проверяет что идентификаторы разных запросов различаются.
func TestRequestIDMiddlewareUnique(t *testing.T) {
	handler := RequestIDMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	seen := make(map[string]struct{})
	for i := 0; i < 100; i++ {
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

		id := w.Header().Get(RequestIDHeader)
		_, dup := seen[id]
		assert.False(t, dup)
		seen[id] = struct{}{}
	}
}
