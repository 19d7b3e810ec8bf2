// Package metrics exposes spin counters to Prometheus.
//
// Wheels can be created by any client, so no series is labelled by wheel.
// Winner labels come from the configured option table and stay bounded.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const labelWinner = "winner"

// Spins records spin lifecycle metrics. It satisfies wheel.Observer.
type Spins struct {
	started  prometheus.Counter
	rejected prometheus.Counter
	winners  *prometheus.CounterVec
	active   prometheus.Gauge
	duration prometheus.Histogram
}

// NewSpins creates the collectors and registers them with reg.
func NewSpins(reg prometheus.Registerer) *Spins {
	s := &Spins{
		started: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "wheel_spins_started_total",
			Help: "Spins accepted.",
		}),
		rejected: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "wheel_spins_rejected_total",
			Help: "Spin requests rejected because a spin was already running.",
		}),
		winners: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "wheel_winners_total",
			Help: "Finished spins per winning option.",
		}, []string{labelWinner}),
		active: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "wheel_spins_active",
			Help: "Spins currently animating across all wheels.",
		}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "wheel_spin_duration_seconds",
			Help:    "Wall time from spin start to winner announcement.",
			Buckets: []float64{4, 4.5, 4.75, 5, 5.5, 6, 8},
		}),
	}
	reg.MustRegister(s.started, s.rejected, s.winners, s.active, s.duration)
	return s
}

func (s *Spins) SpinStarted(string) {
	s.started.Inc()
	s.active.Inc()
}

func (s *Spins) SpinRejected(string) {
	s.rejected.Inc()
}

func (s *Spins) SpinFinished(_ string, winner string, elapsed time.Duration) {
	s.winners.WithLabelValues(winner).Inc()
	s.active.Dec()
	s.duration.Observe(elapsed.Seconds())
}
