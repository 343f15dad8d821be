package metrics

import (
	"time"

	gometrics "github.com/rcrowley/go-metrics"
)

// LatencySample is an EWMA-backed upstream latency sample, in the
// spirit of the teacher's CodaHale registry but reduced to the single
// timer the access log needs: a one-minute moving rate of upstream
// round-trip time, independent of the Prometheus histograms above.
type LatencySample struct {
	timer gometrics.Timer
}

// NewLatencySample creates a fresh, unregistered timer.
func NewLatencySample() *LatencySample {
	return &LatencySample{timer: gometrics.NewTimer()}
}

// Update records one upstream round-trip duration.
func (s *LatencySample) Update(d time.Duration) {
	s.timer.Update(d)
}

// Rate1 returns the one-minute moving average of recorded rates, in
// calls per second.
func (s *LatencySample) Rate1() float64 {
	return s.timer.Rate1()
}

// Mean returns the mean recorded duration, in nanoseconds.
func (s *LatencySample) Mean() float64 {
	return s.timer.Mean()
}
