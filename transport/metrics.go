package transport

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the transporter collectors. A nil *Metrics records nothing.
type Metrics struct {
	requests      *prometheus.CounterVec
	duration      *prometheus.HistogramVec
	uploadedBytes prometheus.Counter
}

// NewMetrics creates the collectors and registers them with reg when it is
// not nil.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "gemini",
			Subsystem: "transport",
			Name:      "requests_total",
			Help:      "Requests sent, by kind and HTTP status code (\"error\" when no response was received).",
		}, []string{"kind", "code"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "gemini",
			Subsystem: "transport",
			Name:      "request_duration_seconds",
			Help:      "Round-trip duration of requests, by kind.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"kind"}),
		uploadedBytes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "gemini",
			Subsystem: "transport",
			Name:      "uploaded_bytes_total",
			Help:      "File bytes sent by successful upload transfers.",
		}),
	}

	if reg != nil {
		reg.MustRegister(m.requests, m.duration, m.uploadedBytes)
	}
	return m
}

func (m *Metrics) observe(kind Kind, status int, d time.Duration) {
	if m == nil {
		return
	}
	code := "error"
	if status > 0 {
		code = strconv.Itoa(status)
	}
	m.requests.WithLabelValues(kind.String(), code).Inc()
	m.duration.WithLabelValues(kind.String()).Observe(d.Seconds())
}

func (m *Metrics) addUploaded(n int64) {
	if m == nil || n <= 0 {
		return
	}
	m.uploadedBytes.Add(float64(n))
}
