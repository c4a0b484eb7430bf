// Package metrics collects and exposes Prometheus metrics.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Outcome labels for signup and login attempts.
const (
	OutcomeSuccess  = "success"
	OutcomeInvalid  = "invalid"
	OutcomeConflict = "conflict"
	OutcomeError    = "error"
)

// Recorder is the metrics surface used by handlers and middleware.
type Recorder interface {
	RecordSignup(outcome string)
	RecordLogin(outcome string)
	RecordGuardRedirect(target string)
	RecordRateLimited()
	RecordHTTPStatus(statusCode int)
	RecordRequestDuration(method string, d time.Duration)
}

// Collector is the Prometheus-backed Recorder.
type Collector struct {
	signups         *prometheus.CounterVec
	logins          *prometheus.CounterVec
	guardRedirects  *prometheus.CounterVec
	rateLimited     prometheus.Counter
	httpStatus      *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
}

// NewCollector creates a Collector and registers its metrics with reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		signups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "greenverse_signups_total",
			Help: "Signup attempts by outcome.",
		}, []string{"outcome"}),
		logins: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "greenverse_logins_total",
			Help: "Login attempts by outcome.",
		}, []string{"outcome"}),
		guardRedirects: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "greenverse_guard_redirects_total",
			Help: "Route guard redirects by target path.",
		}, []string{"target"}),
		rateLimited: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "greenverse_rate_limited_total",
			Help: "Requests rejected by the auth rate limiter.",
		}),
		httpStatus: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "greenverse_http_status_total",
			Help: "HTTP responses by status code.",
		}, []string{"status_code"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "greenverse_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method"}),
	}

	reg.MustRegister(
		c.signups,
		c.logins,
		c.guardRedirects,
		c.rateLimited,
		c.httpStatus,
		c.requestDuration,
	)

	return c
}

func (c *Collector) RecordSignup(outcome string) {
	c.signups.WithLabelValues(outcome).Inc()
}

func (c *Collector) RecordLogin(outcome string) {
	c.logins.WithLabelValues(outcome).Inc()
}

func (c *Collector) RecordGuardRedirect(target string) {
	c.guardRedirects.WithLabelValues(target).Inc()
}

func (c *Collector) RecordRateLimited() {
	c.rateLimited.Inc()
}

func (c *Collector) RecordHTTPStatus(statusCode int) {
	c.httpStatus.WithLabelValues(strconv.Itoa(statusCode)).Inc()
}

func (c *Collector) RecordRequestDuration(method string, d time.Duration) {
	c.requestDuration.WithLabelValues(method).Observe(d.Seconds())
}

// Nop discards everything.
type Nop struct{}

func (Nop) RecordSignup(string)                         {}
func (Nop) RecordLogin(string)                          {}
func (Nop) RecordGuardRedirect(string)                  {}
func (Nop) RecordRateLimited()                          {}
func (Nop) RecordHTTPStatus(int)                        {}
func (Nop) RecordRequestDuration(string, time.Duration) {}

// Handler returns the scrape handler for gatherer.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
