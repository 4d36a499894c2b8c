package sessions

import (
	"biosignal-pipeline/internal/shared/metrics"
)

var (
	metricSessionCreatedTotal = metrics.NewCounterVec(
		metrics.CounterOpts{
			Namespace: metrics.Namespace,
			Subsystem: metrics.SubSession,
			Name:      "session_created_total",
		},
		[]string{metrics.FieldDeviceType},
	)

	metricSessionDeletedTotal = metrics.NewCounterVec(
		metrics.CounterOpts{
			Namespace: metrics.Namespace,
			Subsystem: metrics.SubSession,
			Name:      "session_deleted_total",
		},
		[]string{metrics.FieldErrorCode},
	)
)
