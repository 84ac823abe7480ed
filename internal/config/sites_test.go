package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trsv-dev/imageproxy/internal/errs"
)

// writeFile Пишет файл конфигурации во временный каталог.
func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	return path
}

// TestLoadSettingsTOML Проверяет чтение TOML.
func TestLoadSettingsTOML(t *testing.T) {
	dir := t.TempDir()
	root := t.TempDir()

	path := writeFile(t, dir, "sites.toml", fmt.Sprintf(`
[site."example.com"]
prefix = "/images/"
root = %q
cache = true

[site."static.example.com"]
root = %q
listing = false

[type."image/gif"]
resize = false

[type."image/webp"]
resize = true
`, root+"/", root))

	settings, err := LoadSettings(path)
	require.NoError(t, err)
	require.Len(t, settings.Sites, 2)

	// сайты отсортированы по имени
	site := settings.Sites[0]
	assert.Equal(t, "example.com", site.Name)
	assert.Equal(t, "/images", site.Prefix)
	assert.Equal(t, root, site.Root)
	assert.True(t, site.Cache)
	assert.True(t, site.Listing)

	static := settings.Sites[1]
	assert.Equal(t, "static.example.com", static.Name)
	assert.Equal(t, "", static.Prefix)
	assert.False(t, static.Listing)

	assert.True(t, settings.Types["image/jpeg"], "значение по умолчанию")
	assert.True(t, settings.Types["image/png"], "значение по умолчанию")
	assert.False(t, settings.Types["image/gif"])
	assert.True(t, settings.Types["image/webp"])
}

// TestLoadSettingsYAML Проверяет чтение YAML.
func TestLoadSettingsYAML(t *testing.T) {
	dir := t.TempDir()
	root := t.TempDir()

	path := writeFile(t, dir, "sites.yaml", fmt.Sprintf(`
site:
  localhost:
    prefix: /pics
    root: %s
type:
  image/jpeg:
    resize: false
`, root))

	settings, err := LoadSettings(path)
	require.NoError(t, err)
	require.Len(t, settings.Sites, 1)

	assert.Equal(t, "localhost", settings.Sites[0].Name)
	assert.Equal(t, "/pics", settings.Sites[0].Prefix)
	assert.False(t, settings.Types["image/jpeg"])
}

// TestLoadSettingsOverride Проверяет, что поздний файл перекрывает ранний.
func TestLoadSettingsOverride(t *testing.T) {
	dir := t.TempDir()
	rootA := t.TempDir()
	rootB := t.TempDir()

	base := writeFile(t, dir, "base.toml", fmt.Sprintf(`
[site."example.com"]
root = %q
`, rootA))
	local := writeFile(t, dir, "local.yml", fmt.Sprintf(`
site:
  example.com:
    root: %s
`, rootB))

	settings, err := LoadSettings(base, local)
	require.NoError(t, err)
	require.Len(t, settings.Sites, 1)

	assert.Equal(t, rootB, settings.Sites[0].Root)
}

// TestLoadSettingsNoFiles Проверяет настройки без файлов.
func TestLoadSettingsNoFiles(t *testing.T) {
	settings, err := LoadSettings()
	require.NoError(t, err)

	assert.Empty(t, settings.Sites)
	assert.True(t, settings.Types["image/jpeg"])
}

// TestLoadSettingsErrors Проверяет ошибки конфигурации.
func TestLoadSettingsErrors(t *testing.T) {
	dir := t.TempDir()
	file := writeFile(t, dir, "file.txt", "x")

	tests := []struct {
		name    string
		file    string
		content string
	}{
		{"неизвестное расширение", "sites.ini", "[site:example.com]"},
		{"битый TOML", "broken.toml", "[site."},
		{"нет root", "noroot.toml", "[site.\"example.com\"]\nprefix = \"/a\""},
		{"prefix без /", "prefix.toml", fmt.Sprintf("[site.\"example.com\"]\nprefix = \"a\"\nroot = %q", dir)},
		{"root не существует", "missing.toml", fmt.Sprintf("[site.\"example.com\"]\nroot = %q", filepath.Join(dir, "missing"))},
		{"root - файл", "file.toml", fmt.Sprintf("[site.\"example.com\"]\nroot = %q", file)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, dir, tt.file, tt.content)

			_, err := LoadSettings(path)

			var ce *errs.ErrConfig
			assert.True(t, errors.As(err, &ce))
		})
	}
}

// TestReadFileMissing Проверяет ошибку для отсутствующего файла.
func TestReadFileMissing(t *testing.T) {
	_, err := ReadFile(filepath.Join(t.TempDir(), "missing.toml"))

	var ce *errs.ErrConfig
	require.True(t, errors.As(err, &ce))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
