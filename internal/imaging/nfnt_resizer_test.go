package imaging

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/gif"
	"image/jpeg"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trsv-dev/imageproxy/internal/errs"
)

// createTestImage Создает изображение заданного размера в нужном формате.
func createTestImage(t *testing.T, format string, width, height int) []byte {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for x := 0; x < width; x++ {
		for y := 0; y < height; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 128, A: 255})
		}
	}

	buf := &bytes.Buffer{}

	var err error
	switch format {
	case "jpeg":
		err = jpeg.Encode(buf, img, nil)
	case "png":
		err = png.Encode(buf, img)
	case "gif":
		err = gif.Encode(buf, img, nil)
	}
	require.NoError(t, err)

	return buf.Bytes()
}

// TestNfntResizerFormats Проверяет ресайз с сохранением формата.
func TestNfntResizerFormats(t *testing.T) {
	tests := []struct {
		name       string
		format     string
		mimetype   string
		box        Box
		wantWidth  int
		wantHeight int
	}{
		{"jpeg по ширине", "jpeg", MimeJPEG, Box{Width: 50}, 50, 25},
		{"png по высоте", "png", MimePNG, Box{Height: 25}, 50, 25},
		{"gif в прямоугольник", "gif", MimeGIF, Box{Width: 40, Height: 40}, 40, 20},
		{"jpeg без увеличения", "jpeg", MimeJPEG, Box{Width: 1000}, 200, 100},
	}

	resizer := NewNfntResizer()

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := createTestImage(t, tt.format, 200, 100)
			dst := &bytes.Buffer{}

			err := resizer.Resize(context.Background(), bytes.NewReader(src), dst, tt.mimetype, tt.box)
			require.NoError(t, err)

			cfg, format, err := image.DecodeConfig(bytes.NewReader(dst.Bytes()))
			require.NoError(t, err)

			assert.Equal(t, tt.format, format)
			assert.Equal(t, tt.wantWidth, cfg.Width)
			assert.Equal(t, tt.wantHeight, cfg.Height)
		})
	}
}

// TestNfntResizerUnsupported Проверяет отказ для неподдерживаемого формата.
func TestNfntResizerUnsupported(t *testing.T) {
	resizer := NewNfntResizer()

	err := resizer.Resize(context.Background(), bytes.NewReader(nil), &bytes.Buffer{}, "image/webp", Box{Width: 10})

	var uf *errs.ErrUnsupportedFormat
	require.True(t, errors.As(err, &uf))
	assert.Equal(t, "image/webp", uf.Mimetype)
}

// TestNfntResizerCorruptedImage Проверяет ошибку декодирования.
func TestNfntResizerCorruptedImage(t *testing.T) {
	resizer := NewNfntResizer()

	err := resizer.Resize(context.Background(), bytes.NewReader([]byte("not an image")), &bytes.Buffer{}, MimeJPEG, Box{Width: 10})

	assert.Error(t, err)
}

// TestNfntResizerCanceledContext Проверяет отмену по контексту.
func TestNfntResizerCanceledContext(t *testing.T) {
	resizer := NewNfntResizer()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	src := createTestImage(t, "png", 20, 20)
	err := resizer.Resize(ctx, bytes.NewReader(src), &bytes.Buffer{}, MimePNG, Box{Width: 10})

	assert.ErrorIs(t, err, context.Canceled)
}
