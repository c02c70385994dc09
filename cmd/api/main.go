package main

import (
	"context"
	"database/sql"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"clickstream-insights/internal/common"
	"clickstream-insights/internal/config"
	eventsHttp "clickstream-insights/internal/events/adapters/http/fiber"
	eventsRepoPg "clickstream-insights/internal/events/adapters/postgres"
	eventsUsecase "clickstream-insights/internal/events/core/usecase"

	statsHttp "clickstream-insights/internal/eventstats/adapters/http/fiber"
	statsRepoPg "clickstream-insights/internal/eventstats/adapters/postgres"
	statsUsecase "clickstream-insights/internal/eventstats/core/usecase"

	insightsCh "clickstream-insights/internal/insights/adapters/clickhouse"
	insightsHttp "clickstream-insights/internal/insights/adapters/http/fiber"
	insightsPg "clickstream-insights/internal/insights/adapters/postgres"
	"clickstream-insights/internal/insights/core/analysis"
	"clickstream-insights/internal/insights/core/ports"
	"clickstream-insights/internal/insights/core/sessions"
	insightsUsecase "clickstream-insights/internal/insights/core/usecase"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/viper"
	fiberSwagger "github.com/swaggo/fiber-swagger"

	_ "clickstream-insights/docs"
)

func main() {
	// Config
	if err := config.LoadDotEnv(); err != nil {
		fatal("failed to load .env", err)
	}
	v := viper.New()
	config.SetDefaults(v)
	if err := config.ReadFile(v, os.Getenv("INSIGHTS_CONFIG")); err != nil {
		fatal("failed to read config", err)
	}
	cfg, err := config.Load(v)
	if err != nil {
		fatal("invalid config", err)
	}
	if err := common.SetupLogger(cfg.Logging.Level, cfg.Logging.Format); err != nil {
		fatal("failed to set up logger", err)
	}
	if err := cfg.RequirePostgres(); err != nil {
		fatal("postgres is required", err)
	}
	loc, err := cfg.Location()
	if err != nil {
		fatal("invalid timezone", err)
	}

	// DB connection
	db, err := sql.Open("postgres", cfg.Postgres.DSN)
	if err != nil {
		fatal("failed to open postgres", err)
	}
	defer db.Close()

	db.SetMaxOpenConns(cfg.Postgres.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Postgres.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.Postgres.ConnMaxLifetime)

	if err := db.Ping(); err != nil {
		fatal("failed to ping postgres", err)
	}

	// Adapter-level DB wrappers
	eventsDB := eventsRepoPg.NewSQLDB(db)
	statsDB := statsRepoPg.NewSQLDB(db)
	insightsDB := insightsPg.NewSQLDB(db)

	// Repositories and sources
	eventRepository := eventsRepoPg.NewEventRepository(eventsDB)
	statsRepository := statsRepoPg.NewStatsRepository(statsDB)

	var source ports.EventSourcePort = insightsPg.NewEventSource(insightsDB)
	if cfg.ClickHouse.Addr != "" {
		chSource, closeCh, err := openClickHouse(cfg)
		if err != nil {
			fatal("failed to open clickhouse", err)
		}
		defer closeCh()
		source = chSource
		slog.Info("reading events from clickhouse", "addr", cfg.ClickHouse.Addr, "table", cfg.ClickHouse.Table)
	}

	// Usecases
	storeEventUC := eventsUsecase.NewStoreEventUseCase(eventRepository)
	getStatsUC := statsUsecase.NewGetStatsUseCase(statsRepository)

	builder := sessions.NewBuilder(sessions.Options{Location: loc})
	aggregator := analysis.NewAggregator(analysis.Config{
		Limit:            cfg.Analysis.TopK,
		SearchK:          cfg.Analysis.SearchK,
		MaxLen:           cfg.Analysis.MaxPatternLength,
		FilterBeforeTopK: cfg.Analysis.FilterBeforeTopK,
		Workers:          cfg.Analysis.Workers,
	})
	analyzeUC := insightsUsecase.NewAnalyzeUseCase(source, builder, aggregator,
		insightsUsecase.WithSummaryTopN(cfg.Analysis.SummaryTopN),
	)
	overviewUC := insightsUsecase.NewOverviewUseCase(source, builder)

	// HTTP (Fiber) app + handlers
	app := fiber.New()

	// events endpoints
	eventsHandler := eventsHttp.NewEventHandler(storeEventUC)
	app.Post("/events", eventsHandler.CreateEvent)
	app.Post("/events/bulk", eventsHandler.BulkCreateEvents)

	statsHandler := statsHttp.NewStatsHandler(getStatsUC)
	app.Get("/events/stats", statsHandler.GetStats)

	// insights endpoints
	insightsHandler := insightsHttp.NewInsightsHandler(analyzeUC, overviewUC)
	insightsHandler.Register(app.Group("/insights"))

	// Prometheus
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	// Swagger
	app.Get("/docs/*", fiberSwagger.WrapHandler)

	// Graceful shutdown
	go func() {
		if err := app.Listen(cfg.Server.Addr); err != nil {
			slog.Error("fiber stopped", "error", err)
		}
	}()

	slog.Info("server started", "addr", cfg.Server.Addr)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	<-quit

	slog.Info("shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		slog.Error("fiber shutdown error", "error", err)
	}

	slog.Info("server exiting")
}

func openClickHouse(cfg *config.Config) (*insightsCh.EventSource, func(), error) {
	conn, err := insightsCh.Open(context.Background(), insightsCh.Options{
		Addr:     cfg.ClickHouse.Addr,
		Database: cfg.ClickHouse.Database,
		Username: cfg.ClickHouse.Username,
		Password: cfg.ClickHouse.Password,
	})
	if err != nil {
		return nil, nil, err
	}
	src, err := insightsCh.NewEventSource(insightsCh.NewQuerier(conn), cfg.ClickHouse.Table)
	if err != nil {
		_ = conn.Close()
		return nil, nil, err
	}
	return src, func() { _ = conn.Close() }, nil
}

func fatal(msg string, err error) {
	slog.Error(msg, "error", err)
	os.Exit(1)
}
