package keeper

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus metrics for the oracle module.
type Metrics struct {
	PriceSubmissions  *prometheus.CounterVec
	PriceAggregations *prometheus.CounterVec
	PriceRejections   *prometheus.CounterVec
	OutliersDetected  *prometheus.CounterVec
	AggregatedPrice   *prometheus.GaugeVec
}

var (
	metricsOnce sync.Once
	metrics     *Metrics
)

// NewMetrics creates and registers oracle metrics (singleton: keepers created
// for tests share one registration).
func NewMetrics() *Metrics {
	metricsOnce.Do(func() {
		metrics = &Metrics{
			PriceSubmissions: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: "bitshield",
					Subsystem: "oracle",
					Name:      "price_submissions_total",
					Help:      "Total price submissions by provider",
				},
				[]string{"asset", "provider"},
			),
			PriceAggregations: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: "bitshield",
					Subsystem: "oracle",
					Name:      "price_aggregations_total",
					Help:      "Successful price aggregations",
				},
				[]string{"asset"},
			),
			PriceRejections: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: "bitshield",
					Subsystem: "oracle",
					Name:      "price_rejections_total",
					Help:      "Price updates rejected by validation",
				},
				[]string{"asset", "reason"},
			),
			OutliersDetected: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: "bitshield",
					Subsystem: "oracle",
					Name:      "outliers_detected_total",
					Help:      "Submissions discarded as statistical outliers",
				},
				[]string{"asset"},
			),
			AggregatedPrice: promauto.NewGaugeVec(
				prometheus.GaugeOpts{
					Namespace: "bitshield",
					Subsystem: "oracle",
					Name:      "aggregated_price",
					Help:      "Current aggregated price for asset",
				},
				[]string{"asset"},
			),
		}
	})
	return metrics
}
