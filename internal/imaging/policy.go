package imaging

import (
	"mime"
	"path/filepath"
	"strings"
	"sync"
)

// DefaultMimetype Тип по умолчанию, если по расширению определить не удалось.
const DefaultMimetype = "application/octet-stream"

// Поддерживаемые ресайзером форматы.
const (
	MimeJPEG = "image/jpeg"
	MimePNG  = "image/png"
	MimeGIF  = "image/gif"
)

// DefaultTypes Настройки типов по умолчанию: все поддерживаемые форматы можно ресайзить.
func DefaultTypes() map[string]bool {
	return map[string]bool{
		MimeJPEG: true,
		MimePNG:  true,
		MimeGIF:  true,
	}
}

// Policy Решает, можно ли ресайзить файл данного типа.
type Policy struct {
	mu    sync.RWMutex
	types map[string]bool
}

// NewPolicy Конструктор Policy. Ключи - mimetype без параметров.
func NewPolicy(types map[string]bool) *Policy {
	return &Policy{types: normalizeTypes(types)}
}

// Replace Атомарно заменяет настройки типов (перечитывание конфигурации).
func (p *Policy) Replace(types map[string]bool) {
	m := normalizeTypes(types)

	p.mu.Lock()
	p.types = m
	p.mu.Unlock()
}

func normalizeTypes(types map[string]bool) map[string]bool {
	m := make(map[string]bool, len(types))
	for k, v := range types {
		m[BaseType(k)] = v
	}

	return m
}

// IsResizable Можно ли ресайзить mimetype: тип должен быть включен в конфигурации
// и поддерживаться ресайзером.
func (p *Policy) IsResizable(mimetype string) bool {
	base := BaseType(mimetype)

	p.mu.RLock()
	enabled := p.types[base]
	p.mu.RUnlock()

	return enabled && IsSupported(base)
}

// IsSupported Умеет ли ресайзер кодировать этот формат.
func IsSupported(mimetype string) bool {
	switch BaseType(mimetype) {
	case MimeJPEG, MimePNG, MimeGIF:
		return true
	default:
		return false
	}
}

// GuessMimetype Определяет mimetype по расширению файла.
func GuessMimetype(path string) string {
	if t := mime.TypeByExtension(filepath.Ext(path)); t != "" {
		return t
	}

	return DefaultMimetype
}

// BaseType Отбрасывает параметры mimetype ("text/plain; charset=utf-8" -> "text/plain").
func BaseType(mimetype string) string {
	base, _, _ := strings.Cut(mimetype, ";")

	return strings.ToLower(strings.TrimSpace(base))
}
