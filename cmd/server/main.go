package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/exaring/otelpgx"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/afero"

	post_service "pinstack-blog-service/internal/application/service/post"
	post_events "pinstack-blog-service/internal/domain/ports/output/events"
	post_repository "pinstack-blog-service/internal/domain/ports/output/post"
	"pinstack-blog-service/internal/infrastructure/config"
	http_server "pinstack-blog-service/internal/infrastructure/inbound/http"
	post_http "pinstack-blog-service/internal/infrastructure/inbound/http/post"
	metrics_server "pinstack-blog-service/internal/infrastructure/inbound/metrics"
	"pinstack-blog-service/internal/infrastructure/logger"
	avatar_http "pinstack-blog-service/internal/infrastructure/outbound/avatar/http"
	events_nats "pinstack-blog-service/internal/infrastructure/outbound/events/nats"
	"pinstack-blog-service/internal/infrastructure/outbound/imaging"
	prometheus_metrics "pinstack-blog-service/internal/infrastructure/outbound/metrics/prometheus"
	post_memory "pinstack-blog-service/internal/infrastructure/outbound/repository/post/memory"
	post_postgres "pinstack-blog-service/internal/infrastructure/outbound/repository/post/postgres"
	"pinstack-blog-service/internal/infrastructure/outbound/repository/postgres"
	"pinstack-blog-service/internal/infrastructure/outbound/storage/filesystem"
	"pinstack-blog-service/internal/infrastructure/outbound/tracing"
)

func main() {
	cfg := config.MustLoad()
	ctx := context.Background()
	log := logger.New(cfg.Env)

	shutdownTracing, err := tracing.Init(ctx, cfg.Tracing.Endpoint, cfg.Env)
	if err != nil {
		log.Error("Failed to init tracing", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer func() {
		if err := shutdownTracing(context.Background()); err != nil {
			log.Error("Failed to flush traces", slog.String("error", err.Error()))
		}
	}()

	metrics := prometheus_metrics.NewPrometheusMetricsProvider()

	var (
		postRepo   post_repository.Repository
		unitOfWork postgres.UnitOfWork
	)
	switch cfg.Database.Driver {
	case "memory":
		log.Warn("Using in-memory post storage; posts are lost on restart")
		memRepo := post_memory.NewPostRepository(log)
		postRepo = memRepo
		unitOfWork = post_memory.NewUnitOfWork(memRepo, log)
	default:
		dsn := cfg.Database.DSN()
		if err := postgres.RunMigrations(dsn, cfg.Database.MigrationsPath, log); err != nil {
			log.Error("Failed to run migrations", slog.String("error", err.Error()))
			os.Exit(1)
		}

		poolConfig, err := pgxpool.ParseConfig(dsn)
		if err != nil {
			log.Error("Failed to parse postgres poolConfig", slog.String("error", err.Error()))
			os.Exit(1)
		}
		poolConfig.MaxConns = cfg.Database.MaxConns
		poolConfig.ConnConfig.Tracer = otelpgx.NewTracer()

		pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
		if err != nil {
			log.Error("Failed to create postgres pool", slog.String("error", err.Error()))
			os.Exit(1)
		}
		defer pool.Close()

		postRepo = post_postgres.NewPostRepository(pool, log, metrics)
		unitOfWork = postgres.NewPostgresUOW(pool, log, metrics)
	}

	uploadsFs := afero.NewOsFs()
	assetStore, err := filesystem.NewAssetStore(uploadsFs, cfg.Upload.Path, log, metrics)
	if err != nil {
		log.Error("Failed to prepare upload directory", slog.String("error", err.Error()))
		os.Exit(1)
	}

	codec := imaging.NewPNGCodec(cfg.Upload.MaxImagePixels, log)
	avatarFetcher := avatar_http.NewFetcher(
		avatar_http.NewHTTPClient(cfg.Avatar.FetchTimeout),
		codec,
		cfg.Upload.MaxFileSize,
		log,
		metrics,
	)

	var publisher post_events.Publisher = events_nats.NopPublisher{}
	if cfg.Events.NatsURL != "" {
		nc, err := events_nats.Connect(cfg.Events.NatsURL, log)
		if err != nil {
			log.Error("Failed to connect to NATS", slog.String("error", err.Error()))
			os.Exit(1)
		}
		defer func() {
			if err := nc.Drain(); err != nil {
				log.Error("Failed to drain NATS connection", slog.String("error", err.Error()))
			}
		}()
		publisher = events_nats.NewPublisher(nc, log)
	}

	postService := post_service.NewPostService(postRepo, unitOfWork, assetStore, codec, avatarFetcher, publisher, log, metrics)

	router := http_server.NewRouter(http_server.RouterDeps{
		CreatePost:     post_http.NewCreatePostHandler(postService, post_http.NewFieldExtractor(cfg.Upload.MaxFileSize, log), log),
		ListPosts:      post_http.NewListPostsHandler(postService, log),
		UploadsFs:      uploadsFs,
		UploadsRoot:    assetStore.Root(),
		AllowedOrigins: cfg.HTTPServer.AllowedOrigins,
		Log:            log,
		Metrics:        metrics,
	})
	httpServer := http_server.NewServer(cfg.HTTPServer, router, log)
	metricsServer := metrics_server.NewMetricsServer(cfg.Prometheus.Address, cfg.Prometheus.Port, log)

	metrics.SetServiceHealth(true)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	done := make(chan bool, 1)
	metricsDone := make(chan bool, 1)

	go func() {
		if err := httpServer.Run(); err != nil {
			log.Error("HTTP server error", slog.String("error", err.Error()))
			select {
			case quit <- syscall.SIGTERM:
			default:
			}
		}
		done <- true
	}()

	go func() {
		if err := metricsServer.Run(); err != nil {
			log.Error("Metrics server error", slog.String("error", err.Error()))
		}
		metricsDone <- true
	}()

	<-quit
	log.Info("Shutting down servers...")

	metrics.SetServiceHealth(false)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.HTTPServer.ShutdownTimeout)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error", slog.String("error", err.Error()))
	}

	if err := metricsServer.Shutdown(shutdownCtx); err != nil {
		log.Error("Metrics server shutdown error", slog.String("error", err.Error()))
	}

	<-done
	<-metricsDone

	log.Info("Server exited")
}
