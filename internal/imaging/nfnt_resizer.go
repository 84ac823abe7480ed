package imaging

import (
	"context"
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"

	"github.com/nfnt/resize"
	"github.com/trsv-dev/imageproxy/internal/errs"
)

// JPEGQuality Качество при кодировании JPEG.
const JPEGQuality = 90

// NfntResizer Реализация Resizer на основе nfnt/resize.
type NfntResizer struct {
	interpolation resize.InterpolationFunction
}

// NewNfntResizer Конструктор. Используется интерполяция Lanczos3.
func NewNfntResizer() *NfntResizer {
	return &NfntResizer{
		interpolation: resize.Lanczos3,
	}
}

// Resize Декодирует изображение, уменьшает его до box и кодирует в исходный формат.
func (nr *NfntResizer) Resize(ctx context.Context, src io.Reader, dst io.Writer, mimetype string, box Box) error {
	base := BaseType(mimetype)
	if !IsSupported(base) {
		return errs.NewErrUnsupportedFormat(mimetype)
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	img, _, err := image.Decode(src)
	if err != nil {
		return fmt.Errorf("ошибка декодирования изображения: %w", err)
	}

	bounds := img.Bounds()
	width, height := TargetSize(bounds.Dx(), bounds.Dy(), box)

	// уменьшаем только если изображение реально меньше исходного
	if width < bounds.Dx() || height < bounds.Dy() {
		img = resize.Resize(uint(width), uint(height), img, nr.interpolation)
	}

	if err = ctx.Err(); err != nil {
		return err
	}

	return encode(dst, img, base)
}

// encode Кодирует изображение в формат mimetype.
func encode(dst io.Writer, img image.Image, mimetype string) error {
	var err error

	switch mimetype {
	case MimeJPEG:
		err = jpeg.Encode(dst, img, &jpeg.Options{Quality: JPEGQuality})
	case MimePNG:
		err = png.Encode(dst, img)
	case MimeGIF:
		err = gif.Encode(dst, img, nil)
	default:
		return errs.NewErrUnsupportedFormat(mimetype)
	}

	if err != nil {
		return fmt.Errorf("ошибка кодирования %s: %w", mimetype, err)
	}

	return nil
}
