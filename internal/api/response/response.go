package response

import (
	"bytes"
	"net/http"
	"strconv"
)

// TextContentType Тип ответа для текстовых сообщений об ошибках.
const TextContentType = "text/plain; charset=utf-8"

// Error Пишет в ответ текстовое сообщение об ошибке с указанным статусом.
func Error(w http.ResponseWriter, status int, message string) {
	h := w.Header()

	// убираем заголовки, которые могли остаться от несостоявшейся отдачи файла
	h.Del("Content-Length")
	h.Del("Content-Encoding")
	h.Del("Last-Modified")

	h.Set("Content-Type", TextContentType)
	h.Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(message))
}

// Blob Пишет в ответ готовое тело с типом и длиной.
func Blob(w http.ResponseWriter, r *http.Request, status int, contentType string, body *bytes.Buffer) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Length", strconv.Itoa(body.Len()))
	w.WriteHeader(status)

	if r.Method == http.MethodHead {
		return
	}

	_, _ = body.WriteTo(w)
}
