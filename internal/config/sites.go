package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/trsv-dev/imageproxy/internal/errs"
	"github.com/trsv-dev/imageproxy/internal/imaging"
	"github.com/trsv-dev/imageproxy/internal/vhost"
	"gopkg.in/yaml.v3"
)

// SiteSection Секция сайта в файле конфигурации.
type SiteSection struct {
	Prefix  string `toml:"prefix" yaml:"prefix"`
	Root    string `toml:"root" yaml:"root"`
	Cache   bool   `toml:"cache" yaml:"cache"`
	Listing *bool  `toml:"listing" yaml:"listing"`
}

// TypeSection Секция mimetype в файле конфигурации.
type TypeSection struct {
	Resize bool `toml:"resize" yaml:"resize"`
}

// File Содержимое файла конфигурации сайтов.
type File struct {
	Sites map[string]SiteSection `toml:"site" yaml:"site"`
	Types map[string]TypeSection `toml:"type" yaml:"type"`
}

// Settings Итоговые настройки сайтов и типов после слияния всех источников.
type Settings struct {
	Sites []vhost.Site
	Types map[string]bool
}

// LoadSettings Читает файлы по очереди; секции из более поздних файлов перекрывают ранние.
// Типы начинаются с imaging.DefaultTypes().
func LoadSettings(files ...string) (*Settings, error) {
	sites := make(map[string]SiteSection)
	types := imaging.DefaultTypes()

	for _, name := range files {
		f, err := ReadFile(name)
		if err != nil {
			return nil, err
		}

		for host, s := range f.Sites {
			sites[host] = s
		}

		for mimetype, t := range f.Types {
			types[imaging.BaseType(mimetype)] = t.Resize
		}
	}

	settings := &Settings{Types: types}

	hosts := make([]string, 0, len(sites))
	for host := range sites {
		hosts = append(hosts, host)
	}
	sort.Strings(hosts)

	for _, host := range hosts {
		s := sites[host]
		if err := validateSite(host, s); err != nil {
			return nil, errs.NewErrConfig(strings.Join(files, ", "), err)
		}

		listing := true
		if s.Listing != nil {
			listing = *s.Listing
		}

		settings.Sites = append(settings.Sites, vhost.NewSite(host, s.Prefix, s.Root, s.Cache, listing))
	}

	return settings, nil
}

// ReadFile Декодирует один файл. Формат выбирается по расширению.
func ReadFile(name string) (*File, error) {
	data, err := os.ReadFile(name)
	if err != nil {
		return nil, errs.NewErrConfig(name, err)
	}

	f := &File{}

	switch strings.ToLower(filepath.Ext(name)) {
	case ".toml":
		_, err = toml.Decode(string(data), f)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, f)
	default:
		err = fmt.Errorf("неизвестный формат файла %q", filepath.Ext(name))
	}

	if err != nil {
		return nil, errs.NewErrConfig(name, err)
	}

	return f, nil
}

func validateSite(host string, s SiteSection) error {
	if s.Root == "" {
		return fmt.Errorf("у сайта %q не задан root", host)
	}

	if s.Prefix != "" && !strings.HasPrefix(s.Prefix, "/") {
		return fmt.Errorf("prefix сайта %q должен начинаться с /", host)
	}

	info, err := os.Stat(s.Root)
	if err != nil {
		return fmt.Errorf("root сайта %q недоступен: %w", host, err)
	}

	if !info.IsDir() {
		return errors.New("root сайта " + host + " не является каталогом")
	}

	return nil
}
