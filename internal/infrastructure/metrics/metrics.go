package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics.
type Metrics struct {
	// Transaction metrics
	TransactionsTotal   *prometheus.CounterVec
	TransactionDuration *prometheus.HistogramVec
	TransactionAmount   *prometheus.HistogramVec

	// Lock coordination metrics
	LockWaitDuration prometheus.Histogram
	LockTimeouts     prometheus.Counter

	// Account metrics
	AccountsRegistered prometheus.Counter

	// Auth metrics
	AuthAttempts *prometheus.CounterVec
}

// New creates all metrics and registers them with the default registry.
func New() *Metrics {
	return NewWith(prometheus.DefaultRegisterer)
}

// NewWith creates all metrics against the given registerer. Tests pass a
// fresh registry so repeated construction does not collide.
func NewWith(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		TransactionsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bancore_transactions_total",
				Help: "Total number of transaction operations by kind and outcome",
			},
			[]string{"kind", "status"},
		),
		TransactionDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "bancore_transaction_duration_seconds",
				Help:    "Duration of transaction operations",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"kind"},
		),
		TransactionAmount: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "bancore_transaction_amount",
				Help:    "Transaction amounts",
				Buckets: []float64{1, 10, 100, 1000, 10000, 100000, 1000000},
			},
			[]string{"kind"},
		),
		LockWaitDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "bancore_lock_wait_duration_seconds",
			Help:    "Time spent waiting to acquire account locks",
			Buckets: []float64{.001, .005, .01, .05, .1, .5, 1, 3, 5},
		}),
		LockTimeouts: factory.NewCounter(prometheus.CounterOpts{
			Name: "bancore_lock_timeouts_total",
			Help: "Total number of lock acquisitions that timed out",
		}),
		AccountsRegistered: factory.NewCounter(prometheus.CounterOpts{
			Name: "bancore_accounts_registered_total",
			Help: "Total number of accounts registered",
		}),
		AuthAttempts: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bancore_auth_attempts_total",
				Help: "Total authentication attempts by outcome",
			},
			[]string{"status"},
		),
	}
}
