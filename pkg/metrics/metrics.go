// Package metrics holds the Prometheus instruments shared by the unpacker,
// the exporter and the HTTP browser.
package metrics

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ssargent/etlcdb/pkg/bitfield"
	"github.com/ssargent/etlcdb/pkg/charcode"
	"github.com/ssargent/etlcdb/pkg/pixel"
)

// Error kinds used for the kind label of etl_decode_errors_total.
const (
	KindTruncated   = "truncated"
	KindImageSize   = "image_size"
	KindInvalidCode = "invalid_code"
	KindUnknownCode = "unknown_code"
	KindOther       = "other"
)

// Metrics holds all Prometheus metrics. Every instance owns its registry, so
// several can coexist in one process (tests, multiple servers).
type Metrics struct {
	registry *prometheus.Registry

	// Decode pipeline metrics
	recordsDecodedTotal  *prometheus.CounterVec
	recordsExportedTotal *prometheus.CounterVec
	decodeErrorsTotal    *prometheus.CounterVec
	fileDecodeDuration   *prometheus.HistogramVec

	// HTTP request metrics
	httpRequestsTotal    *prometheus.CounterVec
	httpRequestDuration  *prometheus.HistogramVec
	httpRequestsInFlight *prometheus.GaugeVec
}

// New creates and registers all metrics on a fresh registry
func New() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,

		recordsDecodedTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "etl_records_decoded_total",
				Help: "Total number of records decoded",
			},
			[]string{"format"},
		),

		recordsExportedTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "etl_records_exported_total",
				Help: "Total number of records written to an export sink",
			},
			[]string{"format"},
		),

		decodeErrorsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "etl_decode_errors_total",
				Help: "Total number of record decode failures",
			},
			[]string{"format", "kind"},
		),

		fileDecodeDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "etl_file_decode_duration_seconds",
				Help:    "Time spent decoding a whole file in seconds",
				Buckets: prometheus.ExponentialBuckets(0.01, 2, 12),
			},
			[]string{"format"},
		),

		httpRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "etl_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "endpoint", "status_code"},
		),

		httpRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "etl_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "endpoint"},
		),

		httpRequestsInFlight: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "etl_http_requests_in_flight",
				Help: "Number of HTTP requests currently being processed",
			},
			[]string{"method", "endpoint"},
		),
	}
}

// Registry returns the registry the metrics are registered on
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler returns a scrape handler for this instance's registry
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// RecordDecoded counts n successfully decoded records
func (m *Metrics) RecordDecoded(format string, n int) {
	m.recordsDecodedTotal.WithLabelValues(format).Add(float64(n))
}

// RecordExported counts n rows written to a sink
func (m *Metrics) RecordExported(format string, n int) {
	m.recordsExportedTotal.WithLabelValues(format).Add(float64(n))
}

// RecordDecodeError counts one decode failure, classified by ErrorKind
func (m *Metrics) RecordDecodeError(format string, err error) {
	m.decodeErrorsTotal.WithLabelValues(format, ErrorKind(err)).Inc()
}

// ObserveFile records the time spent decoding one file
func (m *Metrics) ObserveFile(format string, duration time.Duration) {
	m.fileDecodeDuration.WithLabelValues(format).Observe(duration.Seconds())
}

// RecordHTTPRequest records an HTTP request
func (m *Metrics) RecordHTTPRequest(method, endpoint string, statusCode int, duration time.Duration) {
	statusCodeStr := strconv.Itoa(statusCode)

	m.httpRequestsTotal.WithLabelValues(method, endpoint, statusCodeStr).Inc()
	m.httpRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// InstrumentHandler instruments an HTTP handler with metrics
func (m *Metrics) InstrumentHandler(method, endpoint string, handler http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		gauge := m.httpRequestsInFlight.WithLabelValues(method, endpoint)
		gauge.Inc()
		defer gauge.Dec()

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		handler(rw, r)

		m.RecordHTTPRequest(method, endpoint, rw.statusCode, time.Since(start))
	}
}

// WriteTextfile writes the current values in the node_exporter textfile
// format, for batch runs that exit before anything could scrape them.
func (m *Metrics) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, m.registry)
}

// ErrorKind maps a decode error to a low-cardinality label value
func ErrorKind(err error) string {
	switch {
	case errors.Is(err, bitfield.ErrTruncatedRecord):
		return KindTruncated
	case errors.Is(err, pixel.ErrImageSizeMismatch):
		return KindImageSize
	case errors.Is(err, charcode.ErrUnknownCharacterCode):
		return KindUnknownCode
	case errors.Is(err, charcode.ErrInvalidCharacterCode):
		return KindInvalidCode
	default:
		return KindOther
	}
}

// responseWriter wraps http.ResponseWriter to capture status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}
