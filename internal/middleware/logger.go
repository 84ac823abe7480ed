package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/trsv-dev/imageproxy/internal/contextkeys"
	"github.com/trsv-dev/imageproxy/internal/logger"
)

// Структура для хранения данных ответа.
type responseData struct {
	status int
	size   int
}

// LoggingResponseWriter Структура, которой можно подменить оригинальный http.ResponseWriter
// для получения ответа и записи ответа в лог.
type LoggingResponseWriter struct {
	http.ResponseWriter
	responseData *responseData
}

func (l *LoggingResponseWriter) Write(b []byte) (int, error) {
	// без явного WriteHeader статус - 200
	if l.responseData.status == 0 {
		l.responseData.status = http.StatusOK
	}

	size, err := l.ResponseWriter.Write(b)
	l.responseData.size += size

	return size, err
}

func (l *LoggingResponseWriter) WriteHeader(statusCode int) {
	l.ResponseWriter.WriteHeader(statusCode)
	l.responseData.status = statusCode
}

// Flush Пробрасывает Flush, если оригинальный writer его поддерживает.
func (l *LoggingResponseWriter) Flush() {
	if f, ok := l.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

// LogMiddleware Middleware для логирования всех запросов.
func LogMiddleware(h http.Handler) http.Handler {
	f := func(w http.ResponseWriter, r *http.Request) {
		data := responseData{
			status: 0,
			size:   0,
		}

		lw := LoggingResponseWriter{
			ResponseWriter: w,
			responseData:   &data,
		}

		start := time.Now()
		h.ServeHTTP(&lw, r)
		duration := time.Since(start)

		requestID, _ := r.Context().Value(contextkeys.RequestID).(string)

		logger.Log.Debug("Got incoming HTTP request",
			logger.String("uri", r.RequestURI),
			logger.String("method", r.Method),
			logger.String("host", r.Host),
			logger.String("status", strconv.Itoa(data.status)),
			logger.String("duration", duration.String()),
			logger.String("size", strconv.Itoa(data.size)),
			logger.String("request_id", requestID),
		)
	}

	return http.HandlerFunc(f)
}
