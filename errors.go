package fileserver

import (
	"net/http"
	"strconv"
	"strings"
)

const (
	errorPageCodePlaceholder    = "{{ code }}"
	errorPageMessagePlaceholder = "{{ message }}"
)

// ErrorHandlerFunc is used as handler for errors processing. If func return `true` - next handler will be NOT executed.
type ErrorHandlerFunc func(w http.ResponseWriter, r *http.Request, fs *FileServer, errorCode int) (doNotContinue bool)

// ErrorPageTemplate is an error page content with `{{ code }}` and `{{ message }}` placeholders.
type ErrorPageTemplate string

// Build replaces placeholders with the passed HTTP status code and its text.
func (t ErrorPageTemplate) Build(errorCode int) string {
	return strings.NewReplacer(
		errorPageCodePlaceholder, strconv.Itoa(errorCode),
		errorPageMessagePlaceholder, http.StatusText(errorCode),
	).Replace(string(t))
}

func (fs *FileServer) handleError(w http.ResponseWriter, r *http.Request, errorCode int) {
	for _, handler := range fs.ErrorHandlers {
		if handler(w, r, fs, errorCode) {
			return
		}
	}

	// fallback
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(errorCode)

	_, _ = w.Write([]byte(ErrorPageTemplate(fs.FallbackErrorContent).Build(errorCode)))
}
