package observability

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// EngineMetrics is the lazily-initialised Prometheus registry for the
// settlement engine's own operations: a struct of CounterVec/HistogramVec
// fields under one namespace, built once behind a sync.Once so repeated
// calls across engine instances in the same process don't attempt a double
// registration.
type EngineMetrics struct {
	Operations       *prometheus.CounterVec
	OperationLatency *prometheus.HistogramVec
	TradesTotal      *prometheus.CounterVec
	BondsDistributed *prometheus.CounterVec
	Withdrawals      *prometheus.CounterVec
	PoolBalance      *prometheus.GaugeVec
}

var (
	engineMetricsOnce sync.Once
	engineRegistry    *EngineMetrics
)

// Metrics returns the process-wide engine metrics registry, registering it
// with the default Prometheus registerer on first use.
func Metrics() *EngineMetrics {
	engineMetricsOnce.Do(func() {
		engineRegistry = &EngineMetrics{
			Operations: prometheus.NewCounterVec(prometheus.CounterOpts{
				Namespace: "streetmkt",
				Subsystem: "engine",
				Name:      "operations_total",
				Help:      "Total engine operations segmented by kind and outcome.",
			}, []string{"operation", "outcome"}),
			OperationLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
				Namespace: "streetmkt",
				Subsystem: "engine",
				Name:      "operation_duration_seconds",
				Help:      "Latency distribution for engine operations.",
				Buckets:   prometheus.DefBuckets,
			}, []string{"operation"}),
			TradesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
				Namespace: "streetmkt",
				Subsystem: "trading",
				Name:      "trades_total",
				Help:      "Total buy/sell trades segmented by side and direction.",
			}, []string{"side", "direction"}),
			BondsDistributed: prometheus.NewCounterVec(prometheus.CounterOpts{
				Namespace: "streetmkt",
				Subsystem: "bonds",
				Name:      "distributed_total",
				Help:      "Total bond-distribution events segmented by branch (resolved, unresolved).",
			}, []string{"branch"}),
			Withdrawals: prometheus.NewCounterVec(prometheus.CounterOpts{
				Namespace: "streetmkt",
				Subsystem: "ledger",
				Name:      "withdrawals_total",
				Help:      "Total pull-ledger withdrawals segmented by ledger (bond, creator_fee).",
			}, []string{"ledger"}),
			PoolBalance: prometheus.NewGaugeVec(prometheus.GaugeOpts{
				Namespace: "streetmkt",
				Subsystem: "market",
				Name:      "pool_balance",
				Help:      "Current collateral pool balance per market.",
			}, []string{"market_id"}),
		}
		prometheus.MustRegister(
			engineRegistry.Operations,
			engineRegistry.OperationLatency,
			engineRegistry.TradesTotal,
			engineRegistry.BondsDistributed,
			engineRegistry.Withdrawals,
			engineRegistry.PoolBalance,
		)
	})
	return engineRegistry
}
