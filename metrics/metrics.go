// Package metrics registers the Prometheus instrumentation for the
// capture pipeline.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// SessionsStarted counts recording sessions that reached the
	// Recording state.
	SessionsStarted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "stampcam_sessions_started_total",
		Help: "Number of recording sessions started",
	})

	// SessionsFailed counts sessions that ended in the Failed state.
	SessionsFailed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "stampcam_sessions_failed_total",
		Help: "Number of recording sessions that failed",
	})

	// AssetsPersisted counts persisted recordings by save method
	// ("gallery" or "alternative").
	AssetsPersisted = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "stampcam_assets_persisted_total",
		Help: "Number of recordings persisted to durable storage",
	}, []string{"method"})

	// RetentionDeleted counts assets removed by retention sweeps.
	RetentionDeleted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "stampcam_retention_deleted_total",
		Help: "Number of assets deleted by retention sweeps",
	})
)
