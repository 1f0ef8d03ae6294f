package fileserver

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds file server collectors.
type Metrics struct {
	Responses *prometheus.CounterVec
	CacheHits prometheus.Counter
}

// NewMetrics creates file server collectors and registers them in the passed registerer.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		Responses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "fileserver_responses_total",
			Help: "How many responses were sent, partitioned by request method and status code",
		}, []string{"method", "code"}),
		CacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "fileserver_cache_hits_total",
			Help: "How many files were served from the cache",
		}),
	}

	for _, c := range []prometheus.Collector{m.Responses, m.CacheHits} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}

	return m, nil
}

func (m *Metrics) observe(method string, code int) {
	m.Responses.WithLabelValues(method, strconv.Itoa(code)).Inc()
}

type statusWriter struct {
	http.ResponseWriter

	code        int
	wroteHeader bool
}

func (sw *statusWriter) WriteHeader(code int) {
	if !sw.wroteHeader && (code < 100 || code > 199) {
		sw.code = code
		sw.wroteHeader = true
	}

	sw.ResponseWriter.WriteHeader(code)
}

func (sw *statusWriter) Write(b []byte) (int, error) {
	sw.wroteHeader = true

	return sw.ResponseWriter.Write(b)
}

// Unwrap is used by http.ResponseController.
func (sw *statusWriter) Unwrap() http.ResponseWriter {
	return sw.ResponseWriter
}
