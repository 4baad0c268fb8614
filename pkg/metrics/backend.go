package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// BackendMetrics observes calls made to the platform REST API.
type BackendMetrics struct {
	duration *prometheus.HistogramVec
}

func NewBackendMetrics(reg prometheus.Registerer) *BackendMetrics {
	if reg == nil {
		return &BackendMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "efadmin_backend_request_duration_seconds",
		Help:    "Latency of platform backend calls by method and status class.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "status"})
	reg.MustRegister(duration)
	return &BackendMetrics{duration: duration}
}

// Observe records one backend call. A zero status means the transport failed.
func (b *BackendMetrics) Observe(method string, status int, elapsed time.Duration) {
	if b == nil || b.duration == nil {
		return
	}
	b.duration.WithLabelValues(normalizeLabel(method), StatusClass(status)).Observe(elapsed.Seconds())
}

// StatusClass buckets an HTTP status into 2xx/4xx/5xx style labels.
func StatusClass(status int) string {
	if status <= 0 {
		return "error"
	}
	return strconv.Itoa(status/100) + "xx"
}
