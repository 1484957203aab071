package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jonboulle/clockwork"

	"sentimental/internal/adapters/config"
	"sentimental/internal/adapters/errors/noop"
	"sentimental/internal/adapters/errors/sentry"
	"sentimental/internal/adapters/kafka"
	"sentimental/internal/adapters/ratelimit"
	"sentimental/internal/adapters/redis"
	"sentimental/internal/adapters/sources"
	"sentimental/internal/api"
	"sentimental/internal/api/health"
	"sentimental/internal/services/aggregator"
	"sentimental/internal/services/analysis"
	"sentimental/internal/services/classifier"
	"sentimental/internal/services/mockdata"
	"sentimental/internal/workers"
	"sentimental/internal/workers/watch"
	"sentimental/pkg/errors"
	"sentimental/pkg/logger"
)

var version = "dev"

func main() {
	cfg, err := loadConfig()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	if err := initLogger(cfg); err != nil {
		panic("failed to init logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	log := logger.Get()
	log.Infof("Starting %s %s in %s mode", cfg.App.Name, version, cfg.App.Env)

	errorTracker := initErrorTracker(cfg, log)
	logger.SetErrorTracker(errorTracker)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	catalog, err := config.LoadCatalog(cfg.Sources.CatalogPath)
	if err != nil {
		log.Fatalf("Failed to load source catalog: %v", err)
	}

	clock := clockwork.NewRealClock()
	guarded := sources.Build(cfg.Sources, catalog, ratelimit.NewRegistry(), errorTracker, clock)
	log.Infow("Sources configured", "count", len(guarded))

	service, redisClient := initService(ctx, cfg, guarded, clock, log)
	if redisClient != nil {
		defer redisClient.Close()
	}

	producer := initProducer(cfg, log)
	scheduler := initWorkers(ctx, cfg, service, producer, log)

	checks := map[string]health.Checker{}
	if redisClient != nil {
		checks["redis"] = redisClient
	}
	server := api.NewServer(
		api.ServerConfig{
			Port:         cfg.HTTP.Port,
			ServiceName:  cfg.App.Name,
			Version:      version,
			ReadTimeout:  cfg.HTTP.ReadTimeout,
			WriteTimeout: cfg.HTTP.WriteTimeout,
		},
		health.New(log, cfg.App.Name, version, checks),
		api.NewAnalysisHandler(service, guarded, log),
		log,
	)

	go func() {
		if err := server.Start(); err != nil {
			log.Errorw("HTTP server error", "error", err)
			cancel()
		}
	}()

	log.Info("System initialized successfully")

	waitForShutdown(ctx, cancel, cfg, server, scheduler, producer, errorTracker, log)
}

func loadConfig() (*config.Config, error) {
	return config.Load()
}

func initLogger(cfg *config.Config) error {
	return logger.Init(cfg.App.LogLevel, cfg.App.Env)
}

// initErrorTracker initializes error tracking (Sentry or no-op)
func initErrorTracker(cfg *config.Config, log *logger.Logger) errors.Tracker {
	if !cfg.ErrorTracking.Enabled || cfg.ErrorTracking.SentryDSN == "" {
		log.Info("Error tracking disabled")
		return noop.New()
	}

	tracker, err := sentry.New(cfg.ErrorTracking.SentryDSN, cfg.ErrorTracking.Environment, version)
	if err != nil {
		log.Warnf("Failed to initialize Sentry: %v", err)
		return noop.New()
	}

	log.Info("Error tracking initialized (Sentry)")
	return tracker
}

// initService assembles the pipeline. Redis is optional; when it is
// unreachable the service runs uncached.
func initService(ctx context.Context, cfg *config.Config, guarded []*sources.Guarded, clock clockwork.Clock, log *logger.Logger) (*analysis.Service, *redis.Client) {
	srcs := make([]aggregator.Source, len(guarded))
	for i, g := range guarded {
		srcs[i] = g
	}

	defaults := analysis.Defaults{
		PerSourceLimit: cfg.Pipeline.PerSourceLimit,
		MaxItems:       cfg.Pipeline.MaxItems,
		MinItems:       cfg.Pipeline.MinItems,
		MaxBuckets:     cfg.Pipeline.MaxBuckets,
		SampleSize:     cfg.Pipeline.SampleSize,
		FetchDeadline:  cfg.Pipeline.FetchDeadline,
		UseRealData:    cfg.Pipeline.UseRealData,
	}

	opts := []analysis.Option{analysis.WithClock(clock)}

	var redisClient *redis.Client
	if cfg.Redis.Enabled() {
		client, err := redis.NewClient(ctx, cfg.Redis)
		if err != nil {
			log.Warnw("Redis unavailable, report cache disabled", "addr", cfg.Redis.Addr(), "error", err)
		} else {
			redisClient = client
			opts = append(opts, analysis.WithCache(analysis.NewRedisCache(client, cfg.Redis.ReportTTL)))
			log.Infow("Report cache enabled", "addr", cfg.Redis.Addr(), "ttl", cfg.Redis.ReportTTL)
		}
	}

	service := analysis.NewService(
		aggregator.NewFetcher(srcs, cfg.Pipeline.MinTextLength),
		classifier.New(cfg.Pipeline.ClassifierWorkers),
		mockdata.NewGenerator(time.Now().UnixNano(), clock),
		defaults,
		log,
		opts...,
	)

	return service, redisClient
}

func initProducer(cfg *config.Config, log *logger.Logger) *kafka.Producer {
	if !cfg.Kafka.Enabled() {
		log.Info("Kafka not configured, reports will not be published")
		return nil
	}
	log.Infow("Kafka producer configured", "brokers", cfg.Kafka.Brokers, "topic", cfg.Kafka.Topic)
	return kafka.NewProducer(kafka.ProducerConfig{Brokers: cfg.Kafka.Brokers})
}

func initWorkers(ctx context.Context, cfg *config.Config, service *analysis.Service, producer *kafka.Producer, log *logger.Logger) *workers.Scheduler {
	if !cfg.Workers.WatchEnabled {
		return nil
	}

	var publisher watch.Publisher
	if producer != nil {
		publisher = producer
	}

	scheduler := workers.NewScheduler()
	scheduler.SetStopTimeout(cfg.Pipeline.FetchDeadline + 10*time.Second)
	scheduler.RegisterWorker(watch.New(
		service,
		publisher,
		cfg.Kafka.Topic,
		cfg.Workers.WatchQueries,
		cfg.Workers.WatchInterval,
		true,
	))

	if err := scheduler.Start(ctx); err != nil {
		log.Errorw("Failed to start workers", "error", err)
		return nil
	}
	return scheduler
}

// waitForShutdown blocks until a signal or a fatal server error, then stops
// components in reverse start order
func waitForShutdown(
	ctx context.Context,
	cancel context.CancelFunc,
	cfg *config.Config,
	server *api.Server,
	scheduler *workers.Scheduler,
	producer *kafka.Producer,
	errorTracker errors.Tracker,
	log *logger.Logger,
) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		log.Infow("Shutting down...", "signal", sig.String())
	case <-ctx.Done():
		log.Info("Shutting down after server failure...")
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Warnw("HTTP shutdown incomplete", "error", err)
	}

	cancel()

	if scheduler != nil {
		if err := scheduler.Stop(); err != nil {
			log.Warnw("Worker shutdown incomplete", "error", err)
		}
	}

	if producer != nil {
		if err := producer.Close(); err != nil {
			log.Warnw("Failed to close Kafka producer", "error", err)
		}
	}

	if err := errorTracker.Flush(shutdownCtx); err != nil {
		log.Warnf("Failed to flush error tracker: %v", err)
	}

	log.Info("Shutdown complete")
}
