package finalizers

import (
	"biosignal-pipeline/internal/shared/metrics"
)

var (
	metricSessionFinalizedTotal = metrics.NewCounterVec(
		metrics.CounterOpts{
			Namespace: metrics.Namespace,
			Subsystem: metrics.SubFinalization,
			Name:      "session_finalized_total",
		},
		[]string{metrics.FieldErrorCode},
	)

	metricChunksConsolidatedTotal = metrics.NewCounterVec(
		metrics.CounterOpts{
			Namespace: metrics.Namespace,
			Subsystem: metrics.SubFinalization,
			Name:      "chunks_consolidated_total",
		},
		[]string{},
	)
)
