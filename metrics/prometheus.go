// Package metrics exposes the proxy's operational counters: admission
// outcomes, upstream latency, and a Prometheus /metrics endpoint, in the
// spirit of the teacher's metrics.Prometheus but scoped to this proxy's
// own admission pipeline rather than a named route/filter model.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Prometheus collects and exposes the proxy's counters and histograms.
type Prometheus struct {
	registry *prometheus.Registry

	admitted      *prometheus.CounterVec
	denied        *prometheus.CounterVec
	upstreamError *prometheus.CounterVec
	upstreamTime  prometheus.Histogram
	upstreamEWMA  *LatencySample
}

// denial reasons recorded by IncDenied.
const (
	ReasonRateLimit = "rate_limit"
	ReasonNoPattern = "no_pattern"
	ReasonNoRoute   = "no_route"
	ReasonCIDR      = "cidr"
	ReasonTarget    = "target"
	ReasonUpstream  = "upstream"
)

// NewPrometheus registers a fresh set of collectors on their own
// registry, so multiple instances (e.g. in tests) never collide on the
// global default registry.
func NewPrometheus() *Prometheus {
	reg := prometheus.NewRegistry()

	p := &Prometheus{
		registry: reg,
		admitted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "edgerouter",
			Name:      "admitted_requests_total",
			Help:      "Total number of requests that passed the admission pipeline.",
		}, []string{"status"}),
		denied: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "edgerouter",
			Name:      "denied_requests_total",
			Help:      "Total number of requests rejected by the admission pipeline, by reason.",
		}, []string{"reason"}),
		upstreamError: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "edgerouter",
			Name:      "upstream_errors_total",
			Help:      "Total number of upstream proxy failures, by route pattern.",
		}, []string{"pattern"}),
		upstreamTime: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "edgerouter",
			Name:      "upstream_request_duration_seconds",
			Help:      "Upstream round-trip latency.",
			Buckets:   prometheus.DefBuckets,
		}),
		upstreamEWMA: NewLatencySample(),
	}

	reg.MustRegister(p.admitted, p.denied, p.upstreamError, p.upstreamTime)
	return p
}

// IncAdmitted records one admitted request by its final status code.
func (p *Prometheus) IncAdmitted(status int) {
	p.admitted.WithLabelValues(statusBucket(status)).Inc()
}

// IncDenied records one rejected request with the admission stage that
// rejected it.
func (p *Prometheus) IncDenied(reason string) {
	p.denied.WithLabelValues(reason).Inc()
}

// IncUpstreamError records one failed upstream round-trip for pattern.
func (p *Prometheus) IncUpstreamError(pattern string) {
	p.upstreamError.WithLabelValues(pattern).Inc()
}

// MeasureUpstream records how long an upstream round-trip took, given
// its start time.
func (p *Prometheus) MeasureUpstream(start time.Time) {
	d := time.Since(start)
	p.upstreamTime.Observe(d.Seconds())
	p.upstreamEWMA.Update(d)
}

// UpstreamLatencyRate1 returns the one-minute moving rate of upstream
// round trips, in calls per second.
func (p *Prometheus) UpstreamLatencyRate1() float64 {
	return p.upstreamEWMA.Rate1()
}

// UpstreamLatencyMeanMillis returns the mean recorded upstream
// round-trip duration, in milliseconds.
func (p *Prometheus) UpstreamLatencyMeanMillis() float64 {
	return p.upstreamEWMA.Mean() / float64(time.Millisecond)
}

// Handler returns the http.Handler serving this Prometheus instance's
// collected metrics in the text exposition format.
func (p *Prometheus) Handler() http.Handler {
	return promhttp.HandlerFor(p.registry, promhttp.HandlerOpts{})
}

func statusBucket(status int) string {
	switch {
	case status >= 200 && status < 300:
		return "2xx"
	case status >= 300 && status < 400:
		return "3xx"
	case status >= 400 && status < 500:
		return "4xx"
	case status >= 500:
		return "5xx"
	default:
		return "other"
	}
}
