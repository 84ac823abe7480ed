package imaging

import (
	"context"
	"io"
)

//go:generate mockgen -destination=mocks/resizer_mock.go -package=mocks . Resizer

// Resizer Интерфейс ресайза изображения: читает исходник из src, пишет результат в dst
// в том же формате, вписывая изображение в box.
type Resizer interface {
	Resize(ctx context.Context, src io.Reader, dst io.Writer, mimetype string, box Box) error
}
