package queries

import (
	"biosignal-pipeline/internal/shared/metrics"
)

var (
	metricQueryExecutedTotal = metrics.NewCounterVec(
		metrics.CounterOpts{
			Namespace: metrics.Namespace,
			Subsystem: metrics.SubQuery,
			Name:      "query_executed_total",
		},
		[]string{metrics.FieldErrorCode},
	)

	metricPointsReturnedTotal = metrics.NewCounterVec(
		metrics.CounterOpts{
			Namespace: metrics.Namespace,
			Subsystem: metrics.SubQuery,
			Name:      "points_returned_total",
		},
		[]string{},
	)
)
