package listing

import (
	"io"
	"net/url"
	"os"
	"sort"
	"strings"

	"github.com/dustin/go-humanize"
)

// ContentType Тип ответа для HTML-страниц листинга.
const ContentType = "text/html; charset=utf-8"

// Entry Элемент листинга каталога.
type Entry struct {
	Name  string
	Href  string
	Size  string
	IsDir bool
}

type page struct {
	Path    string
	Version string
	Entries []Entry
}

// ReadEntries Читает каталог и возвращает элементы, отсортированные без учета регистра.
// К именам каталогов добавляется "/".
func ReadEntries(dir string) ([]Entry, error) {
	dirEntries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	entries := make([]Entry, 0, len(dirEntries))

	for _, de := range dirEntries {
		name := de.Name()

		// ReadDir не ходит по символическим ссылкам, поэтому смотрим Stat
		info, statErr := os.Stat(dir + string(os.PathSeparator) + name)
		isDir := de.IsDir() || (statErr == nil && info.IsDir())

		entry := Entry{Name: name, IsDir: isDir}
		if isDir {
			entry.Name += "/"
		} else if statErr == nil {
			entry.Size = humanize.Bytes(uint64(info.Size()))
		}

		entry.Href = (&url.URL{Path: entry.Name}).String()
		entries = append(entries, entry)
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return strings.ToLower(entries[i].Name) < strings.ToLower(entries[j].Name)
	})

	return entries, nil
}

// Render Пишет HTML-страницу листинга каталога dir, доступного по URL urlPath.
func Render(w io.Writer, urlPath, dir, version string) error {
	entries, err := ReadEntries(dir)
	if err != nil {
		return err
	}

	return listingTemplate.Execute(w, page{
		Path:    urlPath,
		Version: version,
		Entries: entries,
	})
}

// RenderForbidden Пишет HTML-страницу о запрете листинга каталога.
func RenderForbidden(w io.Writer, urlPath, version string) error {
	return forbiddenTemplate.Execute(w, page{
		Path:    urlPath,
		Version: version,
	})
}
