// Package main applies live mempool transactions from the node's rawtx feed to the ledger.
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
	"github.com/goodnatureofminers/blockinsight7000-watch/internal/utxo/bitcoin"
	"github.com/goodnatureofminers/blockinsight7000-watch/internal/utxo/bitcoin/zmqnotify"
	"github.com/goodnatureofminers/blockinsight7000-watch/internal/utxo/model"
	"github.com/goodnatureofminers/blockinsight7000-watch/internal/utxo/repository/clickhouse"
	"github.com/goodnatureofminers/blockinsight7000-watch/internal/utxo/repository/postgres"
	"github.com/goodnatureofminers/blockinsight7000-watch/internal/utxo/service/cache"
	"github.com/goodnatureofminers/blockinsight7000-watch/internal/utxo/service/ledger"
	"github.com/goodnatureofminers/blockinsight7000-watch/internal/utxo/service/mempool"
	"github.com/goodnatureofminers/blockinsight7000-watch/internal/utxo/tasks"
	"github.com/goodnatureofminers/blockinsight7000-watch/pkg/batcher"
	"github.com/hibiken/asynq"
	"github.com/jessevdk/go-flags"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type config struct {
	PostgresDSN      string        `long:"postgres-dsn" env:"UTXO_MEMPOOL_POSTGRES_DSN" description:"Postgres DSN" required:"true"`
	ClickhouseDSN    string        `long:"clickhouse-dsn" env:"UTXO_MEMPOOL_CLICKHOUSE_DSN" description:"ClickHouse DSN" required:"true"`
	RedisAddr        string        `long:"redis-addr" env:"UTXO_MEMPOOL_REDIS_ADDR" description:"Redis address" default:"127.0.0.1:6379"`
	RedisPassword    string        `long:"redis-password" env:"UTXO_MEMPOOL_REDIS_PASSWORD" description:"Redis password"`
	RedisDB          int           `long:"redis-db" env:"UTXO_MEMPOOL_REDIS_DB" description:"Redis database"`
	Network          model.Network `long:"network" env:"UTXO_MEMPOOL_NETWORK" description:"network name" required:"true"`
	ZMQAddr          string        `long:"zmq-addr" env:"UTXO_MEMPOOL_ZMQ_ADDR" description:"node rawtx ZMQ endpoint" required:"true"`
	FeedBuffer       int           `long:"feed-buffer" env:"UTXO_MEMPOOL_FEED_BUFFER" description:"raw transactions buffered ahead of processing" default:"1024"`
	JournalFlushSize int           `long:"journal-flush-size" env:"UTXO_MEMPOOL_JOURNAL_FLUSH_SIZE" description:"journal events per insert" default:"1000"`
	JournalInterval  time.Duration `long:"journal-interval" env:"UTXO_MEMPOOL_JOURNAL_INTERVAL" description:"journal flush interval" default:"2s"`
	JournalRPS       int           `long:"journal-rps" env:"UTXO_MEMPOOL_JOURNAL_RPS" description:"journal inserts per second" default:"10"`
	JournalRetries   uint64        `long:"journal-retries" env:"UTXO_MEMPOOL_JOURNAL_RETRIES" description:"extra attempts for a failed journal insert" default:"3"`
	MetricsAddr      string        `long:"metrics-addr" env:"UTXO_MEMPOOL_METRICS_ADDR" description:"address for metrics server" default:":2114"`
	LogJSON          bool          `long:"log-json" env:"UTXO_MEMPOOL_LOG_JSON" description:"log in JSON"`
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
		logger.Fatal("utxo mempool listener failed", zap.Error(err))
	}
}

func run(ctx context.Context, cfg config, logger *zap.Logger) error {
	startMetricsServer(ctx, cfg.MetricsAddr, logger)

	repo, err := postgres.NewRepository(postgres.Config{DSN: cfg.PostgresDSN}, metrics.NewPostgresRepository())
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

	scripts, err := bitcoin.NewScriptDecoder(cfg.Network)
	if err != nil {
		return err
	}
	messages, stopFeed, err := zmqnotify.Subscribe(ctx, zmqnotify.Options{Addr: cfg.ZMQAddr, Topic: "rawtx", Buffer: cfg.FeedBuffer}, logger)
	if err != nil {
		return fmt.Errorf("subscribe rawtx: %w", err)
	}
	feed := bitcoin.NewRawTxFeed(messages, bitcoin.NewRawTxDecoder(scripts, bitcoin.NewCashTokenDecoder()), stopFeed)

	journal := ledger.NewJournalWriter(history, batcher.Config{
		Size:     cfg.JournalFlushSize,
		Interval: cfg.JournalInterval,
		RPS:      cfg.JournalRPS,
		Retries:  cfg.JournalRetries,
	}, logger)
	journal.Start(context.WithoutCancel(ctx))
	defer journal.Stop()

	invalidator := cache.NewInvalidator(redisClient, metrics.NewCache(), logger)
	enqueuer := tasks.NewEnqueuer(taskClient, taskInspector, journal, metrics.NewTasks(), logger)
	ledgerSvc, err := ledger.NewService(repo, enqueuer, invalidator, logger)
	if err != nil {
		return err
	}

	processor := mempool.NewProcessor(feed, ledgerSvc, invalidator, journal, metrics.NewMempool(), logger)
	return processor.Run(ctx)
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
