package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// Group metrics
	GroupsCreated prometheus.Counter
	GroupsDeleted prometheus.Counter
	GroupMembers  prometheus.Histogram

	// Expense metrics
	ExpensesCreated prometheus.Counter
	ExpensesDeleted prometheus.Counter
	ExpenseAmount   prometheus.Histogram
	ExpenseErrors   *prometheus.CounterVec

	// Settlement metrics
	SettlementsRecorded prometheus.Counter
	SettlementsDeleted  prometheus.Counter
	SettlementAmount    prometheus.Histogram

	// Balance computation metrics
	BalanceComputations       *prometheus.CounterVec
	BalanceComputeDuration    prometheus.Histogram
	BalanceCacheHits          prometheus.Counter
	BalanceCacheMisses        prometheus.Counter
	ConservationViolations    prometheus.Counter
	ReconciliationRuns        prometheus.Counter
	ReconciliationGroupsTotal prometheus.Counter

	// Outbox metrics
	OutboxEventsCreated   *prometheus.CounterVec
	OutboxEventsPublished prometheus.Counter
	OutboxPublishErrors   prometheus.Counter
	OutboxLag             prometheus.Gauge

	// Database metrics
	DBQueries     *prometheus.CounterVec
	DBDuration    *prometheus.HistogramVec
	DBConnections prometheus.Gauge
	DBErrors      *prometheus.CounterVec

	// Redis metrics
	RedisOperations *prometheus.CounterVec
	RedisErrors     *prometheus.CounterVec

	// Rate limiting metrics
	RateLimitHits *prometheus.CounterVec

	// Audit metrics
	AuditLogsCreated *prometheus.CounterVec
}

// New creates and registers all Prometheus metrics
func New() *Metrics {
	return &Metrics{
		// Group metrics
		GroupsCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "evenly_groups_created_total",
			Help: "Total number of groups created",
		}),
		GroupsDeleted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "evenly_groups_deleted_total",
			Help: "Total number of groups deleted",
		}),
		GroupMembers: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "evenly_group_members",
			Help:    "Member count of created groups",
			Buckets: []float64{2, 3, 5, 10, 20, 50},
		}),

		// Expense metrics
		ExpensesCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "evenly_expenses_created_total",
			Help: "Total number of expenses recorded",
		}),
		ExpensesDeleted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "evenly_expenses_deleted_total",
			Help: "Total number of expenses deleted",
		}),
		ExpenseAmount: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "evenly_expense_amount",
			Help:    "Expense amounts",
			Buckets: []float64{1, 10, 50, 100, 500, 1000, 10000},
		}),
		ExpenseErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "evenly_expense_errors_total",
				Help: "Total number of expense errors by type",
			},
			[]string{"error_type"},
		),

		// Settlement metrics
		SettlementsRecorded: promauto.NewCounter(prometheus.CounterOpts{
			Name: "evenly_settlements_recorded_total",
			Help: "Total number of settlements recorded",
		}),
		SettlementsDeleted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "evenly_settlements_deleted_total",
			Help: "Total number of settlements deleted",
		}),
		SettlementAmount: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "evenly_settlement_amount",
			Help:    "Settlement amounts",
			Buckets: []float64{1, 10, 50, 100, 500, 1000, 10000},
		}),

		// Balance computation metrics
		BalanceComputations: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "evenly_balance_computations_total",
				Help: "Total balance computations by view",
			},
			[]string{"view"},
		),
		BalanceComputeDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "evenly_balance_compute_duration_seconds",
			Help:    "Duration of balance computations",
			Buckets: prometheus.DefBuckets,
		}),
		BalanceCacheHits: promauto.NewCounter(prometheus.CounterOpts{
			Name: "evenly_balance_cache_hits_total",
			Help: "Balance cache hits",
		}),
		BalanceCacheMisses: promauto.NewCounter(prometheus.CounterOpts{
			Name: "evenly_balance_cache_misses_total",
			Help: "Balance cache misses",
		}),
		ConservationViolations: promauto.NewCounter(prometheus.CounterOpts{
			Name: "evenly_conservation_violations_total",
			Help: "Groups whose ledger failed the conservation check",
		}),
		ReconciliationRuns: promauto.NewCounter(prometheus.CounterOpts{
			Name: "evenly_reconciliation_runs_total",
			Help: "Total reconciliation runs",
		}),
		ReconciliationGroupsTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "evenly_reconciliation_groups_total",
			Help: "Total groups checked during reconciliation",
		}),

		// Outbox metrics
		OutboxEventsCreated: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "evenly_outbox_events_created_total",
				Help: "Outbox events created by type",
			},
			[]string{"event_type"},
		),
		OutboxEventsPublished: promauto.NewCounter(prometheus.CounterOpts{
			Name: "evenly_outbox_events_published_total",
			Help: "Outbox events published",
		}),
		OutboxPublishErrors: promauto.NewCounter(prometheus.CounterOpts{
			Name: "evenly_outbox_publish_errors_total",
			Help: "Outbox publish failures",
		}),
		OutboxLag: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "evenly_outbox_lag",
			Help: "Unpublished events at the last publisher tick",
		}),

		// Database metrics
		DBQueries: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "evenly_db_queries_total",
				Help: "Total database queries",
			},
			[]string{"operation", "table"},
		),
		DBDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "evenly_db_query_duration_seconds",
				Help:    "Database query duration",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation", "table"},
		),
		DBConnections: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "evenly_db_connections",
			Help: "Current number of database connections",
		}),
		DBErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "evenly_db_errors_total",
				Help: "Total database errors",
			},
			[]string{"operation"},
		),

		// Redis metrics
		RedisOperations: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "evenly_redis_operations_total",
				Help: "Total Redis operations",
			},
			[]string{"operation"},
		),
		RedisErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "evenly_redis_errors_total",
				Help: "Total Redis errors",
			},
			[]string{"operation"},
		),

		// Rate limiting metrics
		RateLimitHits: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "evenly_rate_limit_hits_total",
				Help: "Total rate limit hits",
			},
			[]string{"ip"},
		),

		// Audit metrics
		AuditLogsCreated: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "evenly_audit_logs_total",
				Help: "Total audit logs created",
			},
			[]string{"action", "status"},
		),
	}
}
