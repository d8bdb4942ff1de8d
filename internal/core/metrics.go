// AngelaMos | 2026
// metrics.go

package core

import (
	"database/sql"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/redis/go-redis/v9"
)

var (
	stageTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "salescrm_deal_stage_transitions_total",
		Help: "Deal stage changes made through the kanban API",
	}, []string{"stage"})

	automatedTasks = promauto.NewCounter(prometheus.CounterOpts{
		Name: "salescrm_automated_tasks_total",
		Help: "Follow-up tasks created by stage rules",
	})

	importedOrganizations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "salescrm_import_rows_total",
		Help: "CSV import rows by outcome",
	}, []string{"outcome"})

	outboundEmails = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "salescrm_outbound_emails_total",
		Help: "Outbound emails by result",
	}, []string{"result"})

	drafts = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "salescrm_email_drafts_total",
		Help: "Email draft generations by result",
	}, []string{"result"})
)

func RecordStageTransition(stage string) {
	stageTransitions.WithLabelValues(stage).Inc()
}

func RecordAutomatedTask() {
	automatedTasks.Inc()
}

func RecordImport(imported, skipped int) {
	importedOrganizations.WithLabelValues("imported").Add(float64(imported))
	importedOrganizations.WithLabelValues("skipped").Add(float64(skipped))
}

func RecordEmail(result string) {
	outboundEmails.WithLabelValues(result).Inc()
}

func RecordDraft(result string) {
	drafts.WithLabelValues(result).Inc()
}

// RegisterPoolMetrics exposes connection pool state for the database and
// Redis clients as gauges read at scrape time.
func RegisterPoolMetrics(
	reg prometheus.Registerer,
	dbStats func() sql.DBStats,
	redisStats func() *redis.PoolStats,
) {
	gauge := func(name, help string, read func() float64) prometheus.Collector {
		return prometheus.NewGaugeFunc(prometheus.GaugeOpts{Name: name, Help: help}, read)
	}

	reg.MustRegister(
		gauge("salescrm_db_open_connections", "Open database connections",
			func() float64 { return float64(dbStats().OpenConnections) }),
		gauge("salescrm_db_in_use_connections", "Database connections in use",
			func() float64 { return float64(dbStats().InUse) }),
		gauge("salescrm_db_idle_connections", "Idle database connections",
			func() float64 { return float64(dbStats().Idle) }),
		gauge("salescrm_db_wait_count", "Connections waited for since start",
			func() float64 { return float64(dbStats().WaitCount) }),
		gauge("salescrm_redis_total_connections", "Redis pool connections",
			func() float64 { return float64(redisStats().TotalConns) }),
		gauge("salescrm_redis_idle_connections", "Idle Redis pool connections",
			func() float64 { return float64(redisStats().IdleConns) }),
		gauge("salescrm_redis_pool_timeouts", "Redis pool wait timeouts since start",
			func() float64 { return float64(redisStats().Timeouts) }),
	)
}
