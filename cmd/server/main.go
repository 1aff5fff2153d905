package main

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	h "github.com/gorilla/handlers"
	"github.com/rs/zerolog"
	"github.com/stanstork/batchboard-api/internal/aggregate"
	"github.com/stanstork/batchboard-api/internal/banner"
	"github.com/stanstork/batchboard-api/internal/config"
	"github.com/stanstork/batchboard-api/internal/dashboard"
	"github.com/stanstork/batchboard-api/internal/generator"
	"github.com/stanstork/batchboard-api/internal/handlers"
	"github.com/stanstork/batchboard-api/internal/middleware"
	"github.com/stanstork/batchboard-api/internal/provider"
	"github.com/stanstork/batchboard-api/internal/repository"
	"github.com/stanstork/batchboard-api/internal/routes"

	_ "github.com/lib/pq" // PostgreSQL driver
)

type application struct {
	config     *config.Config
	db         *sql.DB
	httpClient *http.Client
	logger     zerolog.Logger
	location   *time.Location
	preset     generator.Preset
	started    time.Time
	banners    banner.Service
	slaData    *provider.Factory
	dashboard  *dashboard.Service
}

func main() {
	// Set up structured, level-based logging.
	consoleWriter := zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.Kitchen}
	logger := zerolog.New(consoleWriter).With().Timestamp().Logger()

	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	log.SetFlags(0)
	log.SetOutput(logger)

	// Load configuration.
	cfg, v := config.Load()
	if level, err := zerolog.ParseLevel(cfg.LogLevel); err != nil {
		logger.Warn().Str("log_level", cfg.LogLevel).Msg("Unknown log level, keeping info")
	} else {
		zerolog.SetGlobalLevel(level)
	}
	config.Watch(v, cfg, logger)

	loc, err := cfg.Location()
	if err != nil {
		logger.Fatal().Err(err).Msg("Invalid timezone")
	}
	preset, err := generator.LookupPreset(cfg.SLA.Preset)
	if err != nil {
		logger.Fatal().Err(err).Msg("Invalid generator preset")
	}

	// The client is shared by the live SLA and overall status sources; each
	// request carries its own timeout.
	app := &application{
		config:     cfg,
		httpClient: &http.Client{},
		logger:     logger,
		location:   loc,
		preset:     preset,
		started:    time.Now(),
	}
	defer app.close()

	app.slaData = app.initSLAData()
	app.dashboard = app.initDashboard()
	app.banners = banner.NewService(repository.NewMemoryBannerRepository(), logger, banner.NewLogNotifier(logger))

	// Initialize the HTTP router and middleware.
	router := app.initRouter()
	loggedRouter := middleware.LoggingMiddleware(app.logger)(router)
	corsHandler := h.CORS(
		h.AllowedOrigins(cfg.AllowedOrigins),
		h.AllowedMethods([]string{"GET", "POST", "PUT", "OPTIONS"}),
		h.AllowedHeaders([]string{"Content-Type"}),
		h.ExposedHeaders([]string{"Content-Disposition"}),
	)(loggedRouter)

	// Start the HTTP server and handle graceful shutdown.
	app.startServer(corsHandler)

	logger.Info().Msg("Application terminated.")
}

// initSLAData builds the mock and live SLA providers behind the runtime flag.
func (app *application) initSLAData() *provider.Factory {
	cfg := app.config.SLA
	gen := generator.New(generator.Options{
		Seed:         cfg.Seed,
		Environments: cfg.Environments,
		Phases:       cfg.Phases,
		Preset:       app.preset,
		Location:     app.location,
	})
	mock := provider.NewMockProvider(gen, provider.Latency{Min: cfg.MockLatencyMin, Max: cfg.MockLatencyMax})

	var live provider.DataProvider
	switch cfg.LiveKind {
	case config.LiveKindPostgres:
		if runs := app.openRunHistory(); runs != nil {
			live = provider.NewStoreProvider(runs, nil, app.location)
		}
	default:
		if baseURL, err := app.config.BaseURL(); err != nil {
			app.logger.Warn().Err(err).Msg("Live SLA source disabled")
		} else {
			live = provider.NewHTTPProvider(baseURL,
				provider.WithHTTPClient(app.httpClient),
				provider.WithPath(cfg.LivePath),
				provider.WithTimeout(cfg.RequestTimeout),
				provider.WithLocation(app.location),
			)
		}
	}

	app.logger.Info().
		Str("preset", app.preset.Name).
		Str("live_kind", cfg.LiveKind).
		Bool("use_mock", app.config.Flags().SLAMock()).
		Msg("SLA data source configured")
	return provider.NewFactory(app.config.Flags().SLAMock, mock, live, app.logger)
}

// openRunHistory connects to the run history database. A database that is
// down at startup leaves the pool open so it can recover.
func (app *application) openRunHistory() repository.RunRepository {
	db, err := sql.Open("postgres", app.config.SLA.DatabaseURL)
	if err != nil {
		app.logger.Error().Err(err).Msg("Failed to open run history database")
		return nil
	}
	app.db = db
	runs := repository.NewRunRepository(db, app.location)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := runs.Ping(ctx); err != nil {
		app.logger.Warn().Err(err).Msg("Failed to ping run history database")
	}
	return runs
}

func (app *application) initDashboard() *dashboard.Service {
	cfg := app.config.Dashboard
	mock := dashboard.NewMockSource(dashboard.MockOptions{
		Seed:         cfg.Seed,
		Environments: app.config.SLA.Environments,
		Phases:       app.config.SLA.Phases,
		Delay:        cfg.MockDelay,
		Location:     app.location,
	})

	var live dashboard.Source
	if baseURL, err := app.config.BaseURL(); err == nil {
		live = dashboard.NewHTTPSource(baseURL, app.httpClient, cfg.RequestTimeout)
	}
	return dashboard.NewService(app.config.Flags().DashboardMock, mock, live, app.logger)
}

// initRouter sets up all HTTP handlers and returns the router.
func (app *application) initRouter() http.Handler {
	healthHandler := handlers.NewHealthHandler(app.started)
	slaHandler := handlers.NewSLAHandler(app.slaData, handlers.SLAOptions{
		DefaultDays:  app.config.SLA.DefaultDays,
		Environments: app.config.SLA.Environments,
		Weight:       weightFor(app.preset),
		Location:     app.location,
	}, app.logger)
	overallHandler := handlers.NewOverallStatusHandler(app.dashboard, app.logger)
	bannerHandler := handlers.NewBannerHandler(app.banners, app.logger)

	return routes.NewRouter(healthHandler, slaHandler, overallHandler, bannerHandler)
}

func weightFor(p generator.Preset) aggregate.WeightFunc {
	if p.Weight != nil {
		return p.Weight
	}
	return aggregate.StatusWeights
}

func (app *application) close() {
	if app.db != nil {
		app.db.Close()
	}
}

// startServer launches the HTTP server and handles graceful shutdown.
func (app *application) startServer(handler http.Handler) {
	logger := app.logger
	server := &http.Server{
		Addr:              ":" + app.config.ServerPort,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Channel to listen for server errors
	serverErrCh := make(chan error, 1)
	go func() {
		logger.Info().Msgf("Server listening on %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErrCh <- err
		}
	}()

	// Wait for an interrupt signal or a server error.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-quit:
		logger.Info().Msgf("Received signal: %s. Shutting down...", sig)
	case err := <-serverErrCh:
		logger.Error().Err(err).Msg("Server error occurred")
	}

	// Gracefully shut down the HTTP server.
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Error().Err(err).Msg("HTTP server shutdown error")
	} else {
		logger.Info().Msg("HTTP server shutdown complete.")
	}
}
