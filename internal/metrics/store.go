package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Store operation metrics, recorded by the instrumented db.Store decorator.
var (
	StoreOperationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "store_operations_total",
			Help:      "Total number of store operations",
		},
		[]string{"driver", "op", "status"},
	)

	StoreOperationDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: Namespace,
			Name:      "store_operation_duration_seconds",
			Help:      "Store operation duration in seconds",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
		[]string{"driver", "op"},
	)
)

var registerStoreOnce sync.Once

// RegisterStoreMetrics registers the store collectors with the default registry.
// Safe to call more than once.
func RegisterStoreMetrics() {
	registerStoreOnce.Do(func() {
		prometheus.MustRegister(StoreOperationsTotal, StoreOperationDuration)
	})
}
