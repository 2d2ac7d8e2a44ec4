package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	GamesCreated = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "bosshub_ingest_games_created_total", Help: "Games created by ingestion"},
	)
	BossesCreated = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "bosshub_ingest_bosses_created_total", Help: "Bosses created by ingestion"},
	)
	StrategiesCreated = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "bosshub_ingest_strategies_created_total", Help: "Strategies created by ingestion"},
	)
	DedupHits = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "bosshub_ingest_dedup_hits_total", Help: "Resolve-or-create lookups that matched an existing record"},
		[]string{"entity"},
	)
	QueueSubmitted = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "bosshub_queue_submitted_total", Help: "Queue items inserted"},
	)
	QueueDedupHits = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "bosshub_queue_dedup_hits_total", Help: "Submissions matched to an existing queue item"},
	)
	QueueApproved = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "bosshub_queue_approved_total", Help: "Queue items approved"},
	)
	QueueRejected = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "bosshub_queue_rejected_total", Help: "Queue items rejected"},
	)
)

func Register() {
	prometheus.MustRegister(
		GamesCreated, BossesCreated, StrategiesCreated, DedupHits,
		QueueSubmitted, QueueDedupHits, QueueApproved, QueueRejected,
	)
}
