package proxy_handler

import (
	"bytes"
	"errors"
	"io/fs"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/trsv-dev/imageproxy/internal/api/response"
	"github.com/trsv-dev/imageproxy/internal/contextkeys"
	"github.com/trsv-dev/imageproxy/internal/errs"
	"github.com/trsv-dev/imageproxy/internal/imaging"
	"github.com/trsv-dev/imageproxy/internal/listing"
	"github.com/trsv-dev/imageproxy/internal/logger"
	"github.com/trsv-dev/imageproxy/internal/netutils"
	"github.com/trsv-dev/imageproxy/internal/utils"
	"github.com/trsv-dev/imageproxy/internal/vhost"
)

var allowedMethods = []string{http.MethodGet, http.MethodHead}

// ProxyHandler Раздает файлы сайтов и ресайзит изображения по параметрам w и h.
type ProxyHandler struct {
	sites   vhost.Resolver
	policy  *imaging.Policy
	resizer imaging.Resizer
	version string
}

// NewProxyHandler Конструктор ProxyHandler.
func NewProxyHandler(sites vhost.Resolver, policy *imaging.Policy, resizer imaging.Resizer, version string) *ProxyHandler {
	return &ProxyHandler{
		sites:   sites,
		policy:  policy,
		resizer: resizer,
		version: version,
	}
}

// target Файл или каталог, в который отображается запрос.
type target struct {
	site    vhost.Site
	urlPath string
	path    string
	info    os.FileInfo
}

// ServeHTTP Обработка запроса за один проход:
// метод -> хост -> путь -> mimetype -> ресайз или отдача как есть.
func (h *ProxyHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if err := h.handle(w, r); err != nil {
		h.writeError(w, r, err)
	}
}

func (h *ProxyHandler) handle(w http.ResponseWriter, r *http.Request) error {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		return errs.NewErrMethodNotAllowed(r.Method, allowedMethods...)
	}

	hostname, _ := netutils.SplitHost(r.Host, netutils.DefaultHTTPPort)

	site, ok := h.sites.Lookup(hostname)
	if !ok {
		return errs.NewErrHostNotAllowed(hostname)
	}

	t, err := resolve(site, r.URL.Path)
	if err != nil {
		return err
	}

	if t.info.IsDir() {
		return h.serveDir(w, r, t)
	}

	mimetype := imaging.GuessMimetype(t.path)
	query := r.URL.Query()

	// тип проверяется раньше чисел: "notes.txt?w=abc" -> "Resizing not allowed!"
	requested := dimensionValue(query, "w") != "" || dimensionValue(query, "h") != ""

	if !requested {
		return serveFile(w, r, t, mimetype)
	}

	if !h.policy.IsResizable(mimetype) {
		return errs.NewErrResizeNotAllowed(mimetype)
	}

	box, err := parseBox(query)
	if err != nil {
		return err
	}

	return h.serveResized(w, r, t, mimetype, box)
}

// resolve Отображает путь запроса на файл внутри корня сайта.
func resolve(site vhost.Site, urlPath string) (*target, error) {
	if !utils.IsSubpath(site.Prefix, urlPath, '/') {
		return nil, errs.NewErrBadPrefix(urlPath, site.Prefix)
	}

	root, err := utils.RealJoin(site.Root)
	if err != nil {
		return nil, errs.NewHTTPError(http.StatusInternalServerError, "", err)
	}

	rel := strings.TrimPrefix(urlPath[len(site.Prefix):], "/")

	path, err := utils.RealJoin(root, filepath.FromSlash(rel))
	if err != nil {
		return nil, errs.NewErrBadPath(urlPath, err)
	}

	if !utils.IsSubpath(root, path, filepath.Separator) {
		return nil, errs.NewErrBadPath(path, nil)
	}

	info, err := os.Stat(path)
	if err != nil {
		switch {
		case errors.Is(err, fs.ErrNotExist):
			return nil, errs.NewErrNotFound(path, err)
		case errors.Is(err, fs.ErrPermission):
			return nil, errs.NewHTTPError(http.StatusForbidden, "", err)
		default:
			return nil, errs.NewHTTPError(http.StatusInternalServerError, "", err)
		}
	}

	return &target{
		site:    site,
		urlPath: urlPath,
		path:    path,
		info:    info,
	}, nil
}

// serveDir Листинг каталога. Без завершающего "/" - редирект, чтобы относительные ссылки листинга работали.
func (h *ProxyHandler) serveDir(w http.ResponseWriter, r *http.Request, t *target) error {
	if !strings.HasSuffix(t.urlPath, "/") {
		location := (&url.URL{Path: t.urlPath + "/", RawQuery: r.URL.RawQuery}).String()
		http.Redirect(w, r, location, http.StatusMovedPermanently)
		return nil
	}

	body := &bytes.Buffer{}

	if !t.site.Listing {
		if err := listing.RenderForbidden(body, t.urlPath, h.version); err != nil {
			return errs.NewHTTPError(http.StatusInternalServerError, "", err)
		}

		response.Blob(w, r, http.StatusForbidden, listing.ContentType, body)
		return nil
	}

	if err := listing.Render(body, t.urlPath, t.path, h.version); err != nil {
		return errs.NewHTTPError(http.StatusInternalServerError, "", err)
	}

	response.Blob(w, r, http.StatusOK, listing.ContentType, body)
	return nil
}

// serveFile Отдает файл как есть. ServeContent выставляет Content-Length и обрабатывает HEAD,
// условные запросы и Range.
func serveFile(w http.ResponseWriter, r *http.Request, t *target, mimetype string) error {
	f, err := os.Open(t.path)
	if err != nil {
		return errs.NewHTTPError(http.StatusInternalServerError, "", err)
	}
	defer f.Close()

	w.Header().Set("Content-Type", mimetype)
	http.ServeContent(w, r, t.info.Name(), t.info.ModTime(), f)

	return nil
}

// serveResized Ресайзит изображение в память и отдает результат.
func (h *ProxyHandler) serveResized(w http.ResponseWriter, r *http.Request, t *target, mimetype string, box imaging.Box) error {
	f, err := os.Open(t.path)
	if err != nil {
		return errs.NewHTTPError(http.StatusInternalServerError, "", err)
	}
	defer f.Close()

	buf := &bytes.Buffer{}

	if err = h.resizer.Resize(r.Context(), f, buf, mimetype, box); err != nil {
		var se errs.StatusError
		if errors.As(err, &se) {
			return err
		}

		return errs.NewHTTPError(http.StatusInternalServerError, "Resizing failed", err)
	}

	logger.Log.Debug("Изображение уменьшено",
		logger.String("path", t.path),
		logger.Int("w", box.Width),
		logger.Int("h", box.Height),
		logger.Int("size", buf.Len()),
	)

	w.Header().Set("Content-Type", mimetype)
	http.ServeContent(w, r, t.info.Name(), t.info.ModTime(), bytes.NewReader(buf.Bytes()))

	return nil
}

// writeError Отдает клиенту ошибку пайплайна. Неизвестные ошибки превращаются в 500.
func (h *ProxyHandler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var se errs.StatusError
	if !errors.As(err, &se) {
		se = errs.NewHTTPError(http.StatusInternalServerError, "", err)
	}

	fields := []logger.Field{
		logger.String("host", r.Host),
		logger.String("path", r.URL.Path),
		logger.Int("status", se.Status()),
		logger.Err(err),
	}

	if requestID, ok := r.Context().Value(contextkeys.RequestID).(string); ok {
		fields = append(fields, logger.String("request_id", requestID))
	}

	if se.Status() >= http.StatusInternalServerError {
		logger.Log.Error("Ошибка обработки запроса", fields...)
	} else {
		logger.Log.Debug("Запрос отклонен", fields...)
	}

	for key, values := range se.Headers() {
		w.Header()[key] = values
	}

	response.Error(w, se.Status(), se.PublicMessage())
}

// parseBox Разбирает параметры w и h. Отсутствующий или пустой параметр - ноль,
// нечисловое или неположительное значение - ошибка 400.
func parseBox(query url.Values) (imaging.Box, error) {
	width, err := parseDimension(query, "w")
	if err != nil {
		return imaging.Box{}, err
	}

	height, err := parseDimension(query, "h")
	if err != nil {
		return imaging.Box{}, err
	}

	return imaging.Box{Width: width, Height: height}, nil
}

func parseDimension(query url.Values, key string) (int, error) {
	value := dimensionValue(query, key)
	if value == "" {
		return 0, nil
	}

	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, errs.NewErrBadDimension(key, value, err)
	}

	if n <= 0 {
		return 0, errs.NewErrBadDimension(key, value, errors.New("значение должно быть положительным"))
	}

	return n, nil
}

// dimensionValue Первое непустое значение параметра. Пустые значения ("?w=") считаются отсутствующими.
func dimensionValue(query url.Values, key string) string {
	for _, v := range query[key] {
		if v != "" {
			return v
		}
	}

	return ""
}
