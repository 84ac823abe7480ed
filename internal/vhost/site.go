package vhost

import "strings"

// Site Настройки одного виртуального хоста.
type Site struct {
	// Name Суффикс имени хоста, под которым сайт объявлен в конфигурации.
	Name string
	// Prefix Префикс URL, под которым раздается Root (без завершающего "/").
	Prefix string
	// Root Корневой каталог сайта на диске (без завершающего "/").
	Root string
	// Cache Читается из конфигурации, но пока ни на что не влияет.
	Cache bool
	// Listing Разрешен ли листинг каталогов.
	Listing bool
}

// NewSite Конструктор Site. Срезает завершающие "/" у префикса и корня.
func NewSite(name, prefix, root string, cache, listing bool) Site {
	trimmedRoot := strings.TrimRight(root, "/")
	if trimmedRoot == "" && root != "" {
		trimmedRoot = "/"
	}

	return Site{
		Name:    name,
		Prefix:  strings.TrimRight(prefix, "/"),
		Root:    trimmedRoot,
		Cache:   cache,
		Listing: listing,
	}
}
