package fallback

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "gophprofile"

// Outcome labels a single strategy attempt.
type Outcome string

const (
	OutcomeAccepted Outcome = "accepted"
	OutcomeRejected Outcome = "rejected"
	OutcomeError    Outcome = "error"
)

// Metrics holds the counters shared by every chain of the client.
type Metrics struct {
	// Attempts counts strategy calls.
	// Labels:
	//   - chain: "login", "profile", "image_upload", ...
	//   - strategy: tier name within the chain
	//   - outcome: "accepted", "rejected" or "error"
	Attempts *prometheus.CounterVec
}

// NewMetrics registers the counters with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	return &Metrics{
		Attempts: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "fallback_attempts_total",
				Help:      "Remote strategy attempts, by chain, strategy and outcome.",
			},
			[]string{"chain", "strategy", "outcome"},
		),
	}
}

func (m *Metrics) observe(chain, strategy string, outcome Outcome) {
	m.Attempts.WithLabelValues(chain, strategy, string(outcome)).Inc()
}
