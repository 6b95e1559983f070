package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "customercare_http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "customercare_http_request_duration_seconds",
		Help:    "Duration of HTTP requests",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	employeeSaves = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "customercare_employee_saves_total",
		Help: "Employee aggregate save attempts by outcome",
	}, []string{"result"})

	storedFiles = promauto.NewCounter(prometheus.CounterOpts{
		Name: "customercare_stored_files_total",
		Help: "Files persisted through the storage layer",
	})
)

func ObserveHTTPRequest(method, path, status string, duration time.Duration) {
	httpRequestsTotal.WithLabelValues(method, path, status).Inc()
	httpRequestDuration.WithLabelValues(method, path, status).Observe(duration.Seconds())
}

func ObserveEmployeeSave(result string) {
	employeeSaves.WithLabelValues(result).Inc()
}

func ObserveStoredFile() {
	storedFiles.Inc()
}
