package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Registry holds the application-specific Prometheus collectors.
	Registry = prometheus.NewRegistry()

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "sigmat",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests handled.",
		},
		[]string{"method", "path", "status"},
	)

	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "sigmat",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10),
		},
		[]string{"method", "path"},
	)

	messagesSent = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "sigmat",
			Subsystem: "chat",
			Name:      "messages_sent_total",
			Help:      "Messages accepted for delivery, by message type.",
		},
		[]string{"type"},
	)

	pointsMoved = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "sigmat",
			Subsystem: "points",
			Name:      "moved_total",
			Help:      "Points debited for messages or credited by confirmed payments.",
		},
		[]string{"direction"},
	)

	friendRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "sigmat",
			Subsystem: "friends",
			Name:      "requests_total",
			Help:      "Friend request transitions, by outcome.",
		},
		[]string{"outcome"},
	)
)

func init() {
	Registry.MustRegister(
		httpRequests,
		httpDuration,
		messagesSent,
		pointsMoved,
		friendRequests,
		collectors.NewGoCollector(),
	)
}

// Handler returns an HTTP handler exposing the registered Prometheus metrics.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}

// ObserveRequest records one finished HTTP request. path is the route template, not the raw URL.
func ObserveRequest(method, path string, status int, duration time.Duration) {
	if path == "" {
		path = "unmatched"
	}
	httpRequests.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	httpDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

func MessageSent(messageType string) {
	messagesSent.WithLabelValues(messageType).Inc()
}

func PointsDebited(n int) {
	pointsMoved.WithLabelValues("debit").Add(float64(n))
}

func PointsCredited(n int) {
	pointsMoved.WithLabelValues("credit").Add(float64(n))
}

// FriendRequest counts a request outcome: sent, auto_accepted, accepted, rejected or cancelled.
func FriendRequest(outcome string) {
	friendRequests.WithLabelValues(outcome).Inc()
}
