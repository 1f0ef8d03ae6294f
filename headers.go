package fileserver

import (
	"net/http"
)

// Header is a single response header (name and value).
type Header struct {
	Name  string
	Value string
}

// IsolationHeaders returns headers, that are required for the cross-origin isolation of served pages (shared memory
// and high resolution timers in the browser), plus content type and caching overrides.
//
// Content type is forced to `text/html` for every response, including scripts, styles and images.
func IsolationHeaders() []Header {
	return []Header{
		{Name: "Cross-Origin-Opener-Policy", Value: "same-origin"},
		{Name: "Cross-Origin-Embedder-Policy", Value: "require-corp"},
		{Name: "Content-type", Value: "text/html"},
		{Name: "Cache-Control", Value: "no-cache, no-store, must-revalidate"},
	}
}

// WithHeaders wraps the handler and sets passed headers on every response. Headers are applied right before the
// status line is written, so they replace same-named headers set by the wrapped handler.
func WithHeaders(next http.Handler, headers ...Header) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hw := &headersWriter{ResponseWriter: w, headers: headers}

		next.ServeHTTP(hw, r)

		// handler wrote nothing - commit implicit "200 OK" with our headers
		if !hw.wroteHeader {
			hw.WriteHeader(http.StatusOK)
		}
	})
}

type headersWriter struct {
	http.ResponseWriter

	headers     []Header
	wroteHeader bool
}

// WriteHeader sets configured headers and sends an HTTP response header with the provided status code.
func (hw *headersWriter) WriteHeader(code int) {
	if hw.wroteHeader {
		hw.ResponseWriter.WriteHeader(code)

		return
	}

	// informational responses are followed by the final one
	if code >= 100 && code <= 199 && code != http.StatusSwitchingProtocols {
		hw.ResponseWriter.WriteHeader(code)

		return
	}

	hw.wroteHeader = true

	h := hw.ResponseWriter.Header()
	for _, header := range hw.headers {
		h.Set(header.Name, header.Value)
	}

	hw.ResponseWriter.WriteHeader(code)
}

func (hw *headersWriter) Write(b []byte) (int, error) {
	if !hw.wroteHeader {
		hw.WriteHeader(http.StatusOK)
	}

	return hw.ResponseWriter.Write(b)
}

func (hw *headersWriter) Flush() {
	if !hw.wroteHeader {
		hw.WriteHeader(http.StatusOK)
	}

	if f, ok := hw.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

// Unwrap is used by http.ResponseController.
func (hw *headersWriter) Unwrap() http.ResponseWriter {
	return hw.ResponseWriter
}
