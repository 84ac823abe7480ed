package errs

import "fmt"

// ErrConfig Кастомная ошибка чтения или валидации файла конфигурации.
type ErrConfig struct {
	Source string
	Err    error
}

func (ce *ErrConfig) Error() string {
	return fmt.Sprintf("Ошибка конфигурации %s: %v", ce.Source, ce.Err)
}

func (ce *ErrConfig) Unwrap() error {
	return ce.Err
}

func NewErrConfig(source string, err error) *ErrConfig {
	return &ErrConfig{
		Source: source,
		Err:    err,
	}
}

// ErrUnsupportedFormat Формат изображения не поддерживается ресайзером.
type ErrUnsupportedFormat struct {
	Mimetype string
}

func (uf *ErrUnsupportedFormat) Error() string {
	return fmt.Sprintf("Формат %s не поддерживается", uf.Mimetype)
}

func NewErrUnsupportedFormat(mimetype string) *ErrUnsupportedFormat {
	return &ErrUnsupportedFormat{Mimetype: mimetype}
}
