// Package metrics exposes Prometheus collectors for the HTTP layer and the
// booking lifecycle.
package metrics

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Metrics struct {
	HTTPRequests       *prometheus.CounterVec
	HTTPDuration       *prometheus.HistogramVec
	BookingsCreated    prometheus.Counter
	BookingsCancelled  *prometheus.CounterVec
	BookingsExpired    prometheus.Counter
	RefundedPaise      prometheus.Counter
	SideEffectFailures *prometheus.CounterVec

	gatherer prometheus.Gatherer
}

// New registers every collector on reg. Tests pass a fresh
// prometheus.NewRegistry so registrations never collide.
func New(reg *prometheus.Registry) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		HTTPRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "picnify_http_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"method", "route", "status"}),

		HTTPDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "picnify_http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),

		BookingsCreated: factory.NewCounter(prometheus.CounterOpts{
			Name: "picnify_bookings_created_total",
			Help: "Total number of bookings created",
		}),

		BookingsCancelled: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "picnify_bookings_cancelled_total",
			Help: "Total number of cancellations by fee percentage",
		}, []string{"fee_percentage"}),

		BookingsExpired: factory.NewCounter(prometheus.CounterOpts{
			Name: "picnify_bookings_expired_total",
			Help: "Total number of pending bookings expired by the scheduler",
		}),

		RefundedPaise: factory.NewCounter(prometheus.CounterOpts{
			Name: "picnify_refunded_paise_total",
			Help: "Sum of refund amounts granted on cancellation, in paise",
		}),

		SideEffectFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "picnify_side_effect_failures_total",
			Help: "Post-commit side effects that failed, by kind",
		}, []string{"effect"}),

		gatherer: reg,
	}
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}

// The recording helpers below accept a nil receiver so callers can run
// without metrics.

func (m *Metrics) BookingCreated() {
	if m == nil {
		return
	}
	m.BookingsCreated.Inc()
}

func (m *Metrics) BookingCancelled(feePercentage int, refund int64) {
	if m == nil {
		return
	}
	m.BookingsCancelled.WithLabelValues(strconv.Itoa(feePercentage)).Inc()
	m.RefundedPaise.Add(float64(refund))
}

func (m *Metrics) BookingsExpiredBy(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.BookingsExpired.Add(float64(n))
}

func (m *Metrics) SideEffectFailed(effect string) {
	if m == nil {
		return
	}
	m.SideEffectFailures.WithLabelValues(effect).Inc()
}
