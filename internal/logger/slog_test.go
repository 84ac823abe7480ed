package logger

import (
	"bytes"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// resetLogger Сбрасывает синглтон между тестами.
func resetLogger() {
	Log = nil
	once = sync.Once{}
}

// TestSlogAdapterLevels Проверяет логирование на всех уровнях.
func TestSlogAdapterLevels(t *testing.T) {
	buf := &bytes.Buffer{}
	slogger := slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))

	adapter := &SlogAdapter{slog: slogger}

	adapter.Debug("debug message", String("key", "value"))
	adapter.Info("info message", Int("status", 200))
	adapter.Warn("warn message", Int64("size", 1024))
	adapter.Error("error message", Err(errors.New("something failed")))

	output := buf.String()
	assert.Contains(t, output, "debug message")
	assert.Contains(t, output, "key=value")
	assert.Contains(t, output, "status=200")
	assert.Contains(t, output, "size=1024")
	assert.Contains(t, output, `err="something failed"`)
}

// TestSlogAdapterFiltersByLevel Проверяет фильтрацию по уровню логирования.
func TestSlogAdapterFiltersByLevel(t *testing.T) {
	buf := &bytes.Buffer{}
	slogger := slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{
		Level: slog.LevelWarn,
	}))

	adapter := &SlogAdapter{slog: slogger}

	adapter.Debug("debug message")
	adapter.Info("info message")
	adapter.Warn("warn message")

	assert.NotContains(t, buf.String(), "debug message")
	assert.NotContains(t, buf.String(), "info message")
	assert.Contains(t, buf.String(), "warn message")
}

// TestParseLevel Проверяет разбор уровня логирования (без учета регистра).
func TestParseLevel(t *testing.T) {
	tests := []struct {
		name  string
		level string
		want  slog.Level
	}{
		{"debug", "debug", slog.LevelDebug},
		{"INFO", "INFO", slog.LevelInfo},
		{"Warn", "Warn", slog.LevelWarn},
		{"warning", "warning", slog.LevelWarn},
		{"error", "error", slog.LevelError},
		{"неизвестный уровень", "verbose", slog.LevelDebug},
		{"пустая строка", "", slog.LevelDebug},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, parseLevel(tt.level))
		})
	}
}

// TestInitLoggerStdout Проверяет инициализацию логгера с выводом в stdout.
func TestInitLoggerStdout(t *testing.T) {
	resetLogger()

	InitLogger("info", "stdout")

	require.NotNil(t, Log)
	assert.NoError(t, Log.(*SlogAdapter).Close())
}

// TestInitLoggerFile Проверяет запись логов в файл через lumberjack.
func TestInitLoggerFile(t *testing.T) {
	resetLogger()

	path := filepath.Join(t.TempDir(), "imageproxy.log")
	InitLogger("debug", path)

	require.NotNil(t, Log)
	Log.Info("file message", String("host", "example.com"))
	require.NoError(t, Log.(*SlogAdapter).Close())

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(content), "file message")
	assert.Contains(t, string(content), "host=example.com")
}

// TestInitLoggerSingleton Проверяет что InitLogger работает как синглтон.
func TestInitLoggerSingleton(t *testing.T) {
	resetLogger()

	InitLogger("debug", "stdout")
	firstLog := Log

	InitLogger("error", "stderr")
	secondLog := Log

	assert.Same(t, firstLog, secondLog)
}

// TestSlogAdapterCloseNil Проверяет закрытие адаптера без output.
func TestSlogAdapterCloseNil(t *testing.T) {
	adapter := &SlogAdapter{slog: slog.New(slog.NewTextHandler(io.Discard, nil))}

	assert.NoError(t, adapter.Close())
}

// TestErrField Проверяет поле ошибки.
func TestErrField(t *testing.T) {
	field := Err(errors.New("boom"))
	assert.Equal(t, "err", field.Key)
	assert.Equal(t, "boom", field.Value)

	assert.Equal(t, "", Err(nil).Value)
}

// TestLoggerConcurrency Проверяет конкурентное логирование.
func TestLoggerConcurrency(t *testing.T) {
	buf := &bytes.Buffer{}
	var mu sync.Mutex
	slogger := slog.New(slog.NewTextHandler(&lockedWriter{w: buf, mu: &mu}, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	adapter := &SlogAdapter{slog: slogger}

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			adapter.Info("concurrent log", Int("id", id))
		}(i)
	}

	wg.Wait()

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 10, strings.Count(buf.String(), "concurrent log"))
}

type lockedWriter struct {
	w  io.Writer
	mu *sync.Mutex
}

func (l *lockedWriter) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.w.Write(p)
}
