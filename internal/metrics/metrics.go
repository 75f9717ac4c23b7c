// Package metrics registers the Prometheus collectors exposed on /metrics.
package metrics

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpRequestTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status_code"},
	)
	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of http request",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status_code"},
	)

	SessionTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mentorconnect_session_transitions_total",
			Help: "Session status changes by target status",
		},
		[]string{"status"},
	)
	ReviewsSubmitted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "mentorconnect_reviews_submitted_total",
		Help: "Reviews accepted for completed sessions",
	})
	MessagesSent = promauto.NewCounter(prometheus.CounterOpts{
		Name: "mentorconnect_messages_sent_total",
		Help: "Messages appended to the message log",
	})
	RatingRecomputeErrors = promauto.NewCounter(prometheus.CounterOpts{
		Name: "mentorconnect_rating_recompute_errors_total",
		Help: "Failed mentor rating recomputations",
	})
)

// Middleware records request counts and latency keyed by route pattern.
func Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			} else {
				status = fiber.StatusInternalServerError
			}
		}
		path := c.Route().Path
		code := strconv.Itoa(status)
		httpRequestTotal.WithLabelValues(c.Method(), path, code).Inc()
		httpRequestDuration.WithLabelValues(c.Method(), path, code).Observe(time.Since(start).Seconds())
		return err
	}
}

// Handler serves the default registry in the Prometheus text format.
func Handler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.Handler())
}
