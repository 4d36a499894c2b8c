package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"biosignal-pipeline/internal/finalizers"
	internalhttp "biosignal-pipeline/internal/http"
	"biosignal-pipeline/internal/ingestors"
	"biosignal-pipeline/internal/queries"
	"biosignal-pipeline/internal/sessions"
	"biosignal-pipeline/internal/shared/configs"
	"biosignal-pipeline/internal/shared/filestorages"
	"biosignal-pipeline/internal/shared/loggers"
	"biosignal-pipeline/internal/stores"
)

// App holds all application dependencies and manages lifecycle.
type App struct {
	config    *configs.Config
	appLogger loggers.Logger
	server    *http.Server
}

// New creates and initializes a new App instance.
func New(config *configs.Config) (*App, error) {
	appLogger, err := loggers.New(config.Log.Level)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	appLogger = appLogger.With().
		Str(loggers.FieldApp, "biosignal-pipeline").
		Logger()

	// Initialize blob store
	fileStorage, err := filestorages.NewFileStorage(config.FileStorage.RootDir)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	// Initialize stores
	sessionStore := stores.NewSessionStore(fileStorage)
	chunkStore := stores.NewChunkStore(fileStorage)

	// Initialize services
	sessionService := sessions.NewSessionService(config.Ingestion, sessionStore, chunkStore)
	ingestionService := ingestors.NewIngestionService(config.Ingestion, sessionStore, chunkStore)
	finalizationService := finalizers.NewFinalizationService(sessionStore, chunkStore)
	queryService := queries.NewQueryService(config.Query, config.Filter, sessionStore, chunkStore)

	// Initialize http router
	httpLogger := appLogger.With().Str(loggers.FieldComponent, "http").Logger()
	router := internalhttp.NewRouter(sessionService, ingestionService, finalizationService, queryService, httpLogger)

	// Create HTTP server
	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", config.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: time.Duration(config.Server.ReadHeaderTimeout) * time.Second,
		ReadTimeout:       time.Duration(config.Server.ReadTimeout) * time.Second,
		WriteTimeout:      time.Duration(config.Server.WriteTimeout) * time.Second,
		IdleTimeout:       time.Duration(config.Server.IdleTimeout) * time.Second,
	}

	return &App{
		config:    config,
		appLogger: appLogger,
		server:    server,
	}, nil
}

// Start starts the HTTP server in a blocking manner.
func (app *App) Start() error {
	app.appLogger.Info().
		Msgf("Starting biosignal-pipeline service on port %d (log_level=%s, file_storage_root_dir=%s)",
			app.config.Server.Port,
			app.config.Log.Level,
			app.config.FileStorage.RootDir)

	return app.server.ListenAndServe()
}

// Shutdown gracefully shuts down the application.
func (app *App) Shutdown(ctx context.Context) error {
	app.appLogger.Info().Msg("Shutting down server...")
	if err := app.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	app.appLogger.Info().Msg("Server stopped")

	return nil
}
