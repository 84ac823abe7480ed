package errs

import (
	"fmt"
	"net/http"
	"strings"
)

// StatusError Ошибка, которая знает, каким HTTP-ответом ее отдать клиенту.
type StatusError interface {
	error
	Status() int
	PublicMessage() string
	Headers() http.Header
}

// HTTPError Ошибка обработки запроса, которую нужно отдать клиенту с указанным HTTP-кодом.
type HTTPError struct {
	Code    int
	Message string
	Err     error
}

func (he *HTTPError) Error() string {
	if he.Err != nil {
		return fmt.Sprintf("%d %s: %v", he.Code, he.Message, he.Err)
	}

	return fmt.Sprintf("%d %s", he.Code, he.Message)
}

func (he *HTTPError) Unwrap() error {
	return he.Err
}

// Status HTTP-код ответа.
func (he *HTTPError) Status() int {
	return he.Code
}

// PublicMessage Текст, который можно показать клиенту (без внутренних подробностей).
func (he *HTTPError) PublicMessage() string {
	return he.Message
}

// Headers Дополнительные заголовки ответа.
func (he *HTTPError) Headers() http.Header {
	return http.Header{}
}

// NewHTTPError Конструктор HTTPError. Пустое сообщение заменяется стандартным текстом статуса.
func NewHTTPError(code int, message string, err error) *HTTPError {
	if message == "" {
		message = http.StatusText(code)
	}

	return &HTTPError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// ErrMethodNotAllowed Метод запроса не поддерживается. Ответ содержит заголовок Allow.
type ErrMethodNotAllowed struct {
	*HTTPError
	Allowed []string
}

// Headers Заголовок Allow со списком разрешенных методов.
func (mn *ErrMethodNotAllowed) Headers() http.Header {
	h := http.Header{}
	h.Set("Allow", strings.Join(mn.Allowed, ", "))

	return h
}

func NewErrMethodNotAllowed(method string, allowed ...string) *ErrMethodNotAllowed {
	return &ErrMethodNotAllowed{
		HTTPError: NewHTTPError(http.StatusMethodNotAllowed, "", fmt.Errorf("метод %s не поддерживается", method)),
		Allowed:   allowed,
	}
}

// Ошибки пайплайна обработки запроса.
func NewErrHostNotAllowed(host string) *HTTPError {
	return NewHTTPError(http.StatusForbidden, "Host not allowed", fmt.Errorf("хост %q не найден в таблице сайтов", host))
}

func NewErrBadPrefix(path, prefix string) *HTTPError {
	return NewHTTPError(http.StatusForbidden, "Bad prefix", fmt.Errorf("путь %q вне префикса %q", path, prefix))
}

func NewErrBadPath(path string, err error) *HTTPError {
	if err == nil {
		err = fmt.Errorf("путь %q выходит за пределы корня сайта", path)
	}

	return NewHTTPError(http.StatusBadRequest, "Bad path", err)
}

func NewErrNotFound(path string, err error) *HTTPError {
	if err == nil {
		err = fmt.Errorf("файл %q не найден", path)
	}

	return NewHTTPError(http.StatusNotFound, "", err)
}

func NewErrResizeNotAllowed(mimetype string) *HTTPError {
	return NewHTTPError(http.StatusBadRequest, "Resizing not allowed!", fmt.Errorf("тип %s не поддерживает ресайз", mimetype))
}

func NewErrBadDimension(name, value string, err error) *HTTPError {
	return NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Bad %s parameter", name), fmt.Errorf("значение %q: %w", value, err))
}

// NewErrServerBusy Очередь ресайза переполнена.
func NewErrServerBusy(err error) *HTTPError {
	return NewHTTPError(http.StatusServiceUnavailable, "Server busy", err)
}
