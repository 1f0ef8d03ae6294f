package fileserver

import (
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/avto-dev/go-coi-fileserver/cache"
)

const (
	defaultFallbackErrorContent = "<!DOCTYPE html><html><head><meta charset=\"utf-8\"><title>Error response</title>" +
		"</head><body><h1>Error {{ code }}</h1><p>{{ message }}</p></body></html>"
	defaultCacheTTL         = time.Second * 5
	defaultCacheMaxFileSize = 1024 * 64 // 64 KiB
	defaultCacheMaxItems    = 64
)

// directoryIndexPages are looked up (in this order) when a directory is requested.
var directoryIndexPages = []string{"index.html", "index.htm"} //nolint:gochecknoglobals

// FileServer is a main file server structure (implements `http.Handler` interface).
type FileServer struct {
	// Server settings.
	Settings Settings

	// Cacher instance.
	Cache cache.Cacher // nil, if caching disabled

	// If all error handlers fails - this content will be used as fallback for error page generating.
	FallbackErrorContent string

	// Error handlers stack.
	ErrorHandlers []ErrorHandlerFunc

	// Allowed HTTP methods map (is used in performance reasons).
	allowedHTTPMethodsMap map[string]struct{}

	metrics *Metrics // nil, if metrics disabled
}

// Settings describes file server options.
type Settings struct {
	// Directory path, where files for serving is located.
	FilesRoot string

	// Allowed HTTP methods (`GET` and `HEAD` by default). Other methods are answered with "501 Not Implemented".
	AllowedHTTPMethods []string

	// Enables caching engine.
	CacheEnabled bool

	// Maximal data caching lifetime.
	CacheTTL time.Duration

	// Maximum file size (in bytes), that can be placed into the cache.
	CacheMaxFileSize int64

	// Maximum files count, that can be placed into the cache. The limit is soft: concurrent requests may overshoot
	// it by a few items.
	CacheMaxItems uint32

	// Metrics will be registered here, if set.
	MetricsRegisterer prometheus.Registerer
}

// NewFileServer creates new file server with default settings. Feel free to change default behavior.
func NewFileServer(s Settings) (*FileServer, error) {
	info, err := os.Stat(s.FilesRoot)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf(`directory "%s" does not exists`, s.FilesRoot)
		}

		return nil, fmt.Errorf(`directory "%s" is not accessible: %w`, s.FilesRoot, err)
	}

	if !info.IsDir() {
		return nil, fmt.Errorf(`"%s" is not directory`, s.FilesRoot)
	}

	if s.CacheTTL == 0 {
		s.CacheTTL = defaultCacheTTL
	}

	if s.CacheMaxFileSize == 0 {
		s.CacheMaxFileSize = defaultCacheMaxFileSize
	}

	if s.CacheMaxItems == 0 {
		s.CacheMaxItems = defaultCacheMaxItems
	}

	if len(s.AllowedHTTPMethods) == 0 {
		s.AllowedHTTPMethods = []string{http.MethodGet, http.MethodHead}
	}

	fs := &FileServer{
		Settings:              s,
		FallbackErrorContent:  defaultFallbackErrorContent,
		allowedHTTPMethodsMap: make(map[string]struct{}, len(s.AllowedHTTPMethods)),
	}

	for _, v := range s.AllowedHTTPMethods {
		fs.allowedHTTPMethodsMap[v] = struct{}{}
	}

	if s.CacheEnabled {
		fs.Cache = cache.NewInMemoryCache(s.CacheTTL / 2) //nolint:gomnd
	}

	if s.MetricsRegisterer != nil {
		if fs.metrics, err = NewMetrics(s.MetricsRegisterer); err != nil {
			return nil, err
		}
	}

	return fs, nil
}

// CacheAvailable checks cache availability.
func (fs *FileServer) CacheAvailable() bool {
	return fs.Settings.CacheEnabled && fs.Cache != nil
}

func (fs *FileServer) methodIsAllowed(method string) bool {
	_, found := fs.allowedHTTPMethodsMap[method]

	return found
}

// ServeHTTP responds to an HTTP request.
func (fs *FileServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if fs.metrics != nil {
		sw := &statusWriter{ResponseWriter: w, code: http.StatusOK}
		defer func() { fs.metrics.observe(r.Method, sw.code) }()

		w = sw
	}

	if !fs.methodIsAllowed(r.Method) {
		// unsupported methods are reported as "not implemented", not as 405
		fs.handleError(w, r, http.StatusNotImplemented)

		return
	}

	urlPath := r.URL.Path

	// add leading `/` (if required)
	if len(urlPath) == 0 || !strings.HasPrefix(urlPath, "/") {
		urlPath = "/" + urlPath
	}

	// prepare target file path
	filePath := filepath.Join(fs.Settings.FilesRoot, filepath.FromSlash(path.Clean(urlPath)))

	stat, err := os.Stat(filePath)
	if err != nil {
		fs.handleError(w, r, http.StatusNotFound)

		return
	}

	if stat.IsDir() {
		fs.serveDirectory(w, r, urlPath, filePath)

		return
	}

	// "/file.txt/" is not a file
	if strings.HasSuffix(urlPath, "/") || !stat.Mode().IsRegular() {
		fs.handleError(w, r, http.StatusNotFound)

		return
	}

	fs.serveFile(w, r, filePath, stat)
}

func (fs *FileServer) serveDirectory(w http.ResponseWriter, r *http.Request, urlPath, dirPath string) {
	// redirect `/dir` to `/dir/`, so relative links inside the directory work
	if !strings.HasSuffix(urlPath, "/") {
		// cleaned and re-escaped, so "//host" or names with "?" and "#" stay a local path
		target := (&url.URL{Path: path.Clean(urlPath) + "/"}).EscapedPath()
		if r.URL.RawQuery != "" {
			target += "?" + r.URL.RawQuery
		}

		http.Redirect(w, r, target, http.StatusMovedPermanently)

		return
	}

	for _, name := range directoryIndexPages {
		indexPath := filepath.Join(dirPath, name)

		if stat, err := os.Stat(indexPath); err == nil && stat.Mode().IsRegular() {
			fs.serveFile(w, r, indexPath, stat)

			return
		}
	}

	entries, err := os.ReadDir(dirPath)
	if err != nil {
		fs.handleError(w, r, http.StatusNotFound)

		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	if err = writeDirectoryListing(w, urlPath, entries); err != nil {
		fs.handleError(w, r, http.StatusInternalServerError)
	}
}

func (fs *FileServer) serveFile(w http.ResponseWriter, r *http.Request, filePath string, stat os.FileInfo) {
	// look for response in cache
	if fs.CacheAvailable() {
		if cached, cacheHit := fs.Cache.Get(filePath); cacheHit && cached.Fresh(stat.ModTime(), stat.Size()) {
			if fs.metrics != nil {
				fs.metrics.CacheHits.Inc()
			}

			http.ServeContent(w, r, filepath.Base(filePath), cached.ModifiedTime, cached.Reader())

			return
		}
	}

	file, err := os.Open(filePath)
	if err != nil {
		fs.handleError(w, r, http.StatusInternalServerError)

		return
	}

	defer file.Close()

	var fileContent io.ReadSeeker = file

	// put file content into cache, if it is possible
	if fs.CacheAvailable() &&
		fs.Cache.Count() < fs.Settings.CacheMaxItems &&
		stat.Size() <= fs.Settings.CacheMaxFileSize {
		if data, err := io.ReadAll(file); err == nil {
			item := &cache.Item{
				ModifiedTime: stat.ModTime(),
				Size:         int64(len(data)),
				Content:      data,
			}

			fs.Cache.Set(filePath, fs.Settings.CacheTTL, item)

			fileContent = item.Reader()
		} else if _, err = file.Seek(0, io.SeekStart); err != nil {
			fs.handleError(w, r, http.StatusInternalServerError)

			return
		}
	}

	http.ServeContent(w, r, filepath.Base(filePath), stat.ModTime(), fileContent)
}
