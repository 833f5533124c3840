package keeper

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus metrics for the policy module.
type Metrics struct {
	PoliciesCreated   *prometheus.CounterVec
	PoliciesExercised *prometheus.CounterVec
	PoliciesExpired   prometheus.Counter
	SettlementPayouts prometheus.Counter
	ActivePolicies    prometheus.Gauge
}

var (
	metricsOnce sync.Once
	metrics     *Metrics
)

// NewMetrics creates and registers policy metrics (singleton).
func NewMetrics() *Metrics {
	metricsOnce.Do(func() {
		metrics = &Metrics{
			PoliciesCreated: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: "bitshield",
					Subsystem: "policy",
					Name:      "created_total",
					Help:      "Policies created by type",
				},
				[]string{"type"},
			),
			PoliciesExercised: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: "bitshield",
					Subsystem: "policy",
					Name:      "exercised_total",
					Help:      "Policies exercised by type",
				},
				[]string{"type"},
			),
			PoliciesExpired: promauto.NewCounter(
				prometheus.CounterOpts{
					Namespace: "bitshield",
					Subsystem: "policy",
					Name:      "expired_total",
					Help:      "Policies expired without exercise",
				},
			),
			SettlementPayouts: promauto.NewCounter(
				prometheus.CounterOpts{
					Namespace: "bitshield",
					Subsystem: "policy",
					Name:      "settlement_payouts_total",
					Help:      "Non-zero settlement payouts",
				},
			),
			ActivePolicies: promauto.NewGauge(
				prometheus.GaugeOpts{
					Namespace: "bitshield",
					Subsystem: "policy",
					Name:      "active",
					Help:      "Policies currently active",
				},
			),
		}
	})
	return metrics
}
