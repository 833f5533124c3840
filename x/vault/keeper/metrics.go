package keeper

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus metrics for the vault module.
type Metrics struct {
	Deposits      *prometheus.CounterVec
	Withdrawals   *prometheus.CounterVec
	Settlements   *prometheus.CounterVec
	TotalBalance  *prometheus.GaugeVec
	LockedBalance *prometheus.GaugeVec
}

var (
	metricsOnce sync.Once
	metrics     *Metrics
)

// NewMetrics creates and registers vault metrics (singleton).
func NewMetrics() *Metrics {
	metricsOnce.Do(func() {
		metrics = &Metrics{
			Deposits: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: "bitshield",
					Subsystem: "vault",
					Name:      "deposits_total",
					Help:      "Total deposits into the collateral pool",
				},
				[]string{"denom"},
			),
			Withdrawals: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: "bitshield",
					Subsystem: "vault",
					Name:      "withdrawals_total",
					Help:      "Total withdrawals from the collateral pool",
				},
				[]string{"denom"},
			),
			Settlements: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: "bitshield",
					Subsystem: "vault",
					Name:      "settlements_total",
					Help:      "Total settlement payouts",
				},
				[]string{"denom"},
			),
			TotalBalance: promauto.NewGaugeVec(
				prometheus.GaugeOpts{
					Namespace: "bitshield",
					Subsystem: "vault",
					Name:      "total_balance",
					Help:      "Pool total balance per denom",
				},
				[]string{"denom"},
			),
			LockedBalance: promauto.NewGaugeVec(
				prometheus.GaugeOpts{
					Namespace: "bitshield",
					Subsystem: "vault",
					Name:      "locked_balance",
					Help:      "Pool locked balance per denom",
				},
				[]string{"denom"},
			),
		}
	})
	return metrics
}
