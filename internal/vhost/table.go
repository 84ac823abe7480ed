package vhost

import (
	"strings"
	"sync"

	"github.com/trsv-dev/imageproxy/internal/netutils"
)

// Table Таблица виртуальных хостов: суффикс имени хоста -> Site.
type Table struct {
	mu    sync.RWMutex
	sites map[string]Site
}

// NewTable Конструктор Table.
func NewTable(sites []Site) *Table {
	t := &Table{}
	t.Replace(sites)

	return t
}

// Replace Атомарно заменяет содержимое таблицы (используется при перечитывании конфигурации).
func (t *Table) Replace(sites []Site) {
	m := make(map[string]Site, len(sites))
	for _, s := range sites {
		m[netutils.NormalizeHost(s.Name)] = s
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	t.sites = m
}

// Lookup Ищет сайт для имени хоста. Совпадение засчитывается только по границе метки:
// сайт "example.com" подходит для "example.com" и "img.example.com", но не для "badexample.com".
// Если подходит несколько сайтов - выбирается самый длинный суффикс.
func (t *Table) Lookup(host string) (Site, bool) {
	host = netutils.NormalizeHost(host)

	t.mu.RLock()
	defer t.mu.RUnlock()

	var (
		best  Site
		found bool
		size  = -1
	)

	for suffix, site := range t.sites {
		if !MatchesLabel(host, suffix) {
			continue
		}

		if len(suffix) > size {
			best, found, size = site, true, len(suffix)
		}
	}

	return best, found
}

// Len Количество сайтов в таблице.
func (t *Table) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()

	return len(t.sites)
}

// MatchesLabel Проверяет, что host оканчивается на suffix по границе метки DNS.
// Пустой suffix подходит для любого хоста.
func MatchesLabel(host, suffix string) bool {
	if !strings.HasSuffix(host, suffix) {
		return false
	}

	leading := host[:len(host)-len(suffix)]

	return leading == "" || suffix == "" || strings.HasSuffix(leading, ".")
}
