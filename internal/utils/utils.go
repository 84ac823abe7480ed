package utils

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// IsSubpath Проверяет что path совпадает с base или лежит внутри него,
// то есть следующий после base символ - разделитель sep.
// "/images" является подпутем "/images", "/images/a.jpg", но не "/imagesX".
func IsSubpath(base, path string, sep byte) bool {
	if !strings.HasPrefix(path, base) {
		return false
	}

	trailing := path[len(base):]

	return trailing == "" || trailing[0] == sep || strings.HasSuffix(base, string(sep))
}

// RealJoin Склеивает фрагменты пути, нормализует результат и раскрывает символические ссылки.
// Если конечный файл не существует, раскрываются ссылки в существующей части пути,
// а несуществующий хвост добавляется как есть (os.IsNotExist можно проверить позже).
func RealJoin(elem ...string) (string, error) {
	joined, err := filepath.Abs(filepath.Join(elem...))
	if err != nil {
		return "", err
	}

	resolved, err := filepath.EvalSymlinks(joined)
	if err == nil {
		return resolved, nil
	}

	if !errors.Is(err, fs.ErrNotExist) {
		return "", err
	}

	// ищем ближайшего существующего предка
	dir, rest := joined, ""
	for {
		parent := filepath.Dir(dir)
		rest = filepath.Join(filepath.Base(dir), rest)
		dir = parent

		resolvedDir, dirErr := filepath.EvalSymlinks(dir)
		if dirErr == nil {
			return filepath.Join(resolvedDir, rest), nil
		}

		if !errors.Is(dirErr, fs.ErrNotExist) || parent == filepath.Dir(parent) {
			return joined, nil
		}
	}
}

// Exists Проверяет существование файла или каталога.
func Exists(path string) bool {
	_, err := os.Stat(path)

	return err == nil
}
