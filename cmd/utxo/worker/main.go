// Package main runs the task worker: scan units, notifications, cache
// invalidation and ledger retention.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/goodnatureofminers/blockinsight7000-watch/internal/metrics"
	"github.com/goodnatureofminers/blockinsight7000-watch/internal/utxo/repository/clickhouse"
	"github.com/goodnatureofminers/blockinsight7000-watch/internal/utxo/repository/postgres"
	"github.com/goodnatureofminers/blockinsight7000-watch/internal/utxo/service/cache"
	"github.com/goodnatureofminers/blockinsight7000-watch/internal/utxo/service/ledger"
	"github.com/goodnatureofminers/blockinsight7000-watch/internal/utxo/service/notify"
	"github.com/goodnatureofminers/blockinsight7000-watch/internal/utxo/service/scanner"
	"github.com/goodnatureofminers/blockinsight7000-watch/internal/utxo/service/subscription"
	"github.com/goodnatureofminers/blockinsight7000-watch/internal/utxo/sharedstate"
	"github.com/goodnatureofminers/blockinsight7000-watch/internal/utxo/tasks"
	"github.com/goodnatureofminers/blockinsight7000-watch/pkg/batcher"
	"github.com/hibiken/asynq"
	"github.com/jessevdk/go-flags"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type config struct {
	PostgresDSN      string        `long:"postgres-dsn" env:"UTXO_WORKER_POSTGRES_DSN" description:"Postgres DSN" required:"true"`
	PostgresMaxConns int           `long:"postgres-max-conns" env:"UTXO_WORKER_POSTGRES_MAX_CONNS" description:"maximum open Postgres connections" default:"20"`
	ClickhouseDSN    string        `long:"clickhouse-dsn" env:"UTXO_WORKER_CLICKHOUSE_DSN" description:"ClickHouse DSN" required:"true"`
	RedisAddr        string        `long:"redis-addr" env:"UTXO_WORKER_REDIS_ADDR" description:"Redis address" default:"127.0.0.1:6379"`
	RedisPassword    string        `long:"redis-password" env:"UTXO_WORKER_REDIS_PASSWORD" description:"Redis password"`
	RedisDB          int           `long:"redis-db" env:"UTXO_WORKER_REDIS_DB" description:"Redis database"`
	Concurrency      int           `long:"concurrency" env:"UTXO_WORKER_CONCURRENCY" description:"concurrent tasks" default:"20"`
	ShutdownTimeout  time.Duration `long:"shutdown-timeout" env:"UTXO_WORKER_SHUTDOWN_TIMEOUT" description:"time to finish running tasks on shutdown" default:"30s"`
	TelegramToken    string        `long:"telegram-token" env:"UTXO_WORKER_TELEGRAM_TOKEN" description:"Telegram bot token" required:"true"`
	ChatRPS          int           `long:"chat-rps" env:"UTXO_WORKER_CHAT_RPS" description:"chat messages per second" default:"25"`
	ChatBuffer       int           `long:"chat-buffer" env:"UTXO_WORKER_CHAT_BUFFER" description:"queued chat messages" default:"1000"`
	ChatTimeout      time.Duration `long:"chat-timeout" env:"UTXO_WORKER_CHAT_TIMEOUT" description:"chat API request timeout" default:"10s"`
	WebhookTimeout   time.Duration `long:"webhook-timeout" env:"UTXO_WORKER_WEBHOOK_TIMEOUT" description:"webhook request timeout" default:"10s"`
	WebhookAttempts  int           `long:"webhook-attempts" env:"UTXO_WORKER_WEBHOOK_ATTEMPTS" description:"webhook attempts per delivery" default:"3"`
	WebhookDelay     time.Duration `long:"webhook-delay" env:"UTXO_WORKER_WEBHOOK_DELAY" description:"delay between webhook attempts" default:"2s"`
	JournalFlushSize int           `long:"journal-flush-size" env:"UTXO_WORKER_JOURNAL_FLUSH_SIZE" description:"journal events per insert" default:"1000"`
	JournalInterval  time.Duration `long:"journal-interval" env:"UTXO_WORKER_JOURNAL_INTERVAL" description:"journal flush interval" default:"2s"`
	JournalRPS       int           `long:"journal-rps" env:"UTXO_WORKER_JOURNAL_RPS" description:"journal inserts per second" default:"10"`
	JournalRetries   uint64        `long:"journal-retries" env:"UTXO_WORKER_JOURNAL_RETRIES" description:"extra attempts for a failed journal insert" default:"3"`
	CacheTTL         time.Duration `long:"cache-ttl" env:"UTXO_WORKER_CACHE_TTL" description:"balance cache ttl" default:"10m"`
	SweepInterval    time.Duration `long:"sweep-interval" env:"UTXO_WORKER_SWEEP_INTERVAL" description:"listening set sweep interval" default:"30s"`
	RetentionCron    string        `long:"retention-cron" env:"UTXO_WORKER_RETENTION_CRON" description:"retention schedule" default:"@hourly"`
	RetentionKeep    time.Duration `long:"retention-keep" env:"UTXO_WORKER_RETENTION_KEEP" description:"how long spent entries are kept" default:"720h"`
	MetricsAddr      string        `long:"metrics-addr" env:"UTXO_WORKER_METRICS_ADDR" description:"address for metrics server" default:":2113"`
	LogJSON          bool          `long:"log-json" env:"UTXO_WORKER_LOG_JSON" description:"log in JSON"`
}

func main() {
	cfg := config{}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if _, err := flags.ParseArgs(&cfg, os.Args); err != nil {
		var ferr *flags.Error
		if errors.As(err, &ferr) && ferr.Type == flags.ErrHelp {
			return
		}
		os.Exit(2)
	}

	logger, err := newLogger(cfg.LogJSON)
	if err != nil {
		panic("can't initialize zap logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync()
	}()

	if err := run(ctx, cfg, logger); err != nil && !errors.Is(err, context.Canceled) {
		logger.Fatal("utxo worker failed", zap.Error(err))
	}
}

func run(ctx context.Context, cfg config, logger *zap.Logger) error {
	startMetricsServer(ctx, cfg.MetricsAddr, logger)

	repo, err := postgres.NewRepository(postgres.Config{
		DSN:          cfg.PostgresDSN,
		MaxOpenConns: cfg.PostgresMaxConns,
		MaxIdleConns: cfg.PostgresMaxConns / 2,
	}, metrics.NewPostgresRepository())
	if err != nil {
		return fmt.Errorf("init postgres repository: %w", err)
	}
	defer repo.Close()

	history, err := clickhouse.Open(ctx, cfg.ClickhouseDSN, metrics.NewClickhouseRepository())
	if err != nil {
		return fmt.Errorf("init clickhouse repository: %w", err)
	}
	defer history.Close()

	redisClient := redis.NewUniversalClient(&redis.UniversalOptions{
		Addrs:    []string{cfg.RedisAddr},
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	defer redisClient.Close()

	redisOpt := asynq.RedisClientOpt{Addr: cfg.RedisAddr, Password: cfg.RedisPassword, DB: cfg.RedisDB}
	taskClient := asynq.NewClient(redisOpt)
	defer taskClient.Close()
	taskInspector := asynq.NewInspector(redisOpt)
	defer taskInspector.Close()

	bot, err := notify.NewTelegramBot(cfg.TelegramToken, cfg.ChatTimeout)
	if err != nil {
		return err
	}

	journal := ledger.NewJournalWriter(history, batcher.Config{
		Size:     cfg.JournalFlushSize,
		Interval: cfg.JournalInterval,
		RPS:      cfg.JournalRPS,
		Retries:  cfg.JournalRetries,
	}, logger)
	journal.Start(context.WithoutCancel(ctx))
	defer journal.Stop()

	taskMetrics := metrics.NewTasks()
	cacheMetrics := metrics.NewCache()
	dispatchMetrics := metrics.NewDispatcher()

	enqueuer := tasks.NewEnqueuer(taskClient, taskInspector, journal, taskMetrics, logger)
	invalidator := cache.NewInvalidator(redisClient, cacheMetrics, logger)
	balances := cache.NewBalanceCache(redisClient, repo, history, cacheMetrics, logger, cfg.CacheTTL)

	ledgerSvc, err := ledger.NewService(repo, enqueuer, invalidator, logger)
	if err != nil {
		return err
	}
	registry := subscription.NewRegistry(
		sharedstate.NewStore(redisClient),
		sharedstate.NewListeningSet(redisClient),
		repo,
		metrics.NewPresence(),
		logger,
	)
	chat := notify.NewRateLimitedChat(notify.NewTelegramSender(bot), cfg.ChatRPS, cfg.ChatBuffer, dispatchMetrics, logger)
	dispatcher := notify.NewDispatcher(
		registry,
		ledgerSvc,
		notify.NewWebhookClient(cfg.WebhookTimeout, cfg.WebhookAttempts, cfg.WebhookDelay),
		chat,
		notify.NewRedisRooms(redisClient),
		dispatchMetrics,
		logger,
	)
	units := scanner.NewUnitProcessor(ledgerSvc, sharedstate.NewBlockQueue(redisClient), logger)

	mux := asynq.NewServeMux()
	tasks.NewHandlers(units, dispatcher, invalidator, balances, ledgerSvc, taskMetrics, logger).Register(mux)

	srv := tasks.NewServer(redisOpt, tasks.ServerConfig{
		Concurrency:     cfg.Concurrency,
		ShutdownTimeout: cfg.ShutdownTimeout,
	}, logger)
	scheduler, err := tasks.NewScheduler(redisOpt, cfg.RetentionCron, cfg.RetentionKeep, logger)
	if err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := srv.Start(mux); err != nil {
			return fmt.Errorf("start task server: %w", err)
		}
		<-gctx.Done()
		srv.Shutdown()
		return gctx.Err()
	})
	g.Go(func() error {
		if err := scheduler.Start(); err != nil {
			return fmt.Errorf("start scheduler: %w", err)
		}
		<-gctx.Done()
		scheduler.Shutdown()
		return gctx.Err()
	})
	g.Go(func() error { return chat.Run(gctx) })
	g.Go(func() error { return registry.RunSweeper(gctx, cfg.SweepInterval) })
	return g.Wait()
}

func newLogger(json bool) (*zap.Logger, error) {
	if json {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}

func startMetricsServer(ctx context.Context, addr string, logger *zap.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logger.Info("starting metrics server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server failed", zap.Error(err))
		}
	}()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("failed to shutdown metrics server", zap.Error(err))
		}
	}()
}
