package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"golang.org/x/sync/errgroup"

	"edition_collector/internal/cache"
	"edition_collector/internal/config"
	"edition_collector/internal/domain"
	"edition_collector/internal/httpapi"
	"edition_collector/internal/publisher"
	"edition_collector/internal/scheduler"
	"edition_collector/internal/service"
	"edition_collector/internal/storage/postgres"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	once := flag.Bool("once", false, "run a single collection, print the summary and exit")
	flag.Parse()

	logger := setupLogger("info")

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger = setupLogger(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, *once, logger); err != nil {
		logger.Error("collector exited with error", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, once bool, logger *slog.Logger) error {
	loc, err := cfg.Collector.Location()
	if err != nil {
		return err
	}

	db, err := sqlx.Connect("postgres", cfg.Database.DSN())
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer db.Close()
	logger.Info("connected to database")

	store, closeCache := setupCache(ctx, cfg.Redis, logger)
	defer closeCache()

	editions := postgres.NewEditionStore(db)
	articles := postgres.NewArticleStore(db)
	health := postgres.NewSourceHealthStore(db)

	var pub service.Publisher
	if cfg.RabbitMQ.URL != "" {
		rabbitMQ, err := publisher.NewRabbitMQ(publisher.Config{
			URL:        cfg.RabbitMQ.URL,
			Exchange:   cfg.RabbitMQ.Exchange,
			RoutingKey: cfg.RabbitMQ.RoutingKey,
			QueueName:  cfg.RabbitMQ.QueueName,
		}, logger)
		if err != nil {
			return fmt.Errorf("connect publisher: %w", err)
		}
		defer rabbitMQ.Close()
		pub = rabbitMQ
	}

	collector := service.NewCollector(service.Deps{
		Editions:  editions,
		Articles:  articles,
		TxManager: postgres.NewTransactionManager(db),
		Sources:   buildSources(cfg, store, logger),
		Widgets:   buildWidgets(cfg, loc, logger),
		Cache:     store,
		Publisher: pub,
		Health:    health,
	}, service.Options{
		Location:     loc,
		CutoverHour:  cfg.Collector.CutoverHour,
		FetchTimeout: cfg.Collector.FetchTimeout,
		WidgetTTL:    cfg.Collector.WidgetTTL,
		EmptyPolicy:  cfg.Collector.EmptyEditionPolicy,
	}, logger)

	warnStuckDrafts(ctx, editions, cfg.Collector.StuckDraftAge, logger)

	if once {
		return runOnce(ctx, collector, cfg.Collector.RunTimeout)
	}

	server := httpapi.NewServer(httpapi.Config{
		Addr:         cfg.HTTP.Addr,
		CronSecret:   cfg.HTTP.CronSecret,
		RunTimeout:   cfg.Collector.RunTimeout,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
	}, httpapi.Deps{
		Collector: collector,
		Editions:  editions,
		Articles:  articles,
		Health:    health,
		Cache:     store,
	}, logger)

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(server.Start)

	g.Go(func() error {
		<-gCtx.Done()
		logger.Info("shutting down http server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if cfg.Schedule.Enabled {
		sched, err := scheduler.NewScheduler(collector, cfg.Schedule.Times, loc, cfg.Collector.RunTimeout, logger)
		if err != nil {
			return err
		}
		g.Go(func() error {
			if err := sched.Start(gCtx); err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}
	logger.Info("collector stopped")
	return nil
}

// runOnce runs a single collection and prints its summary to stdout. A
// failed run is reported as an error so the process exits non-zero.
func runOnce(ctx context.Context, collector *service.Collector, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	result, err := collector.Collect(ctx, time.Now())

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if encErr := enc.Encode(result); encErr != nil {
		return encErr
	}

	if result.Status == domain.RunFailure {
		if err == nil {
			err = errors.New(result.Error)
		}
		return err
	}
	return nil
}

// setupCache connects to Redis when configured and falls back to an
// in-process store otherwise. An unreachable Redis is tolerated: every read
// then misses and every write is dropped.
func setupCache(ctx context.Context, cfg config.RedisConfig, logger *slog.Logger) (cache.Store, func()) {
	if cfg.URL == "" {
		logger.Info("redis not configured, using in-memory cache")
		return cache.NewMemoryStore(cfg.StaleRetention), func() {}
	}

	store, err := cache.NewRedisStore(cache.RedisConfig{
		URL:            cfg.URL,
		Prefix:         cfg.Prefix,
		StaleRetention: cfg.StaleRetention,
	}, logger)
	if err != nil {
		logger.Warn("invalid redis configuration, caching disabled", "error", err)
		return cache.NopStore{}, func() {}
	}

	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := store.Ping(pingCtx); err != nil {
		logger.Warn("redis unreachable, continuing without cache hits", "error", err)
	} else {
		logger.Info("connected to redis")
	}

	return store, func() { _ = store.Close() }
}

type draftLister interface {
	ListDrafts(ctx context.Context, createdBefore time.Time) ([]domain.Edition, error)
}

// warnStuckDrafts reports drafts left behind by failed runs. Their slot stays
// blocked until the draft is removed.
func warnStuckDrafts(ctx context.Context, editions draftLister, age time.Duration, logger *slog.Logger) {
	drafts, err := editions.ListDrafts(ctx, time.Now().Add(-age))
	if err != nil {
		logger.Warn("failed to list drafts", "error", err)
		return
	}
	for _, d := range drafts {
		logger.Warn("stuck draft edition",
			"edition_id", d.ID,
			"edition", d.Slot().String(),
			"created_at", d.CreatedAt,
		)
	}
}

func setupLogger(level string) *slog.Logger {
	var logLevel slog.Level
	switch level {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: logLevel}
	handler := slog.NewJSONHandler(os.Stdout, opts)
	return slog.New(handler)
}
