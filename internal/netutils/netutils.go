package netutils

import (
	"strings"
)

// DefaultHTTPPort Порт по умолчанию, если в заголовке Host он не указан.
const DefaultHTTPPort = "80"

// SplitHost Разбирает значение заголовка Host на имя хоста и порт.
// Поддерживает IPv6 в квадратных скобках ("[::1]:8080").
// Если порт не указан - возвращается defaultPort.
func SplitHost(host string, defaultPort string) (string, string) {
	if strings.HasPrefix(host, "[") {
		// IPv6
		end := strings.Index(host, "]")
		if end < 0 {
			return host[1:], defaultPort
		}

		name, rest := host[1:end], host[end+1:]
		if port := strings.TrimPrefix(rest, ":"); port != "" {
			return name, port
		}

		return name, defaultPort
	}

	// IPv4 или имя хоста
	if name, port, ok := strings.Cut(host, ":"); ok {
		return name, port
	}

	return host, defaultPort
}

// NormalizeHost Приводит имя хоста к виду для сравнения: нижний регистр, без завершающей точки.
func NormalizeHost(name string) string {
	return strings.TrimSuffix(strings.ToLower(name), ".")
}
