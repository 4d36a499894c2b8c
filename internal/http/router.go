package http

import (
	"net/http"

	"biosignal-pipeline/internal/finalizers"
	"biosignal-pipeline/internal/ingestors"
	"biosignal-pipeline/internal/queries"
	"biosignal-pipeline/internal/sessions"
	"biosignal-pipeline/internal/shared/loggers"
	"biosignal-pipeline/internal/shared/metrics"

	"github.com/go-chi/chi/v5"
)

type AppHttpHandler interface {
	Handle(w http.ResponseWriter, r *http.Request) error
}

// NewRouter creates and configures the HTTP router.
func NewRouter(
	sessionService sessions.SessionService,
	ingestionService ingestors.IngestionService,
	finalizationService finalizers.FinalizationService,
	queryService queries.QueryService,
	httpLogger loggers.Logger,
) http.Handler {
	router := chi.NewRouter()
	setupMiddleware(router, httpLogger)

	// Initialize handlers
	createSessionHandler := NewCreateSessionHandler(sessionService)
	getSessionHandler := NewGetSessionHandler(sessionService)
	deleteSessionHandler := NewDeleteSessionHandler(sessionService)
	ingestBatchHandler := NewIngestBatchHandler(ingestionService)
	finalizeSessionHandler := NewFinalizeSessionHandler(finalizationService)
	queryDataHandler := NewQueryDataHandler(queryService)

	// Routes
	router.Post("/sessions", errorHandlingAdapter(createSessionHandler))
	router.Get("/sessions/{sessionID}", errorHandlingAdapter(getSessionHandler))
	router.Delete("/sessions/{sessionID}", errorHandlingAdapter(deleteSessionHandler))
	router.Post("/sessions/{sessionID}/batches", errorHandlingAdapter(ingestBatchHandler))
	router.Post("/sessions/{sessionID}/finalize", errorHandlingAdapter(finalizeSessionHandler))
	router.Get("/sessions/{sessionID}/data", errorHandlingAdapter(queryDataHandler))
	router.Get("/metrics", metrics.PromHTTP.Handler().ServeHTTP)

	return router
}
