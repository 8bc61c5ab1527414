// Package main runs the block follower, the scan coordinator and the lease sweeper.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/btcsuite/btcd/rpcclient"
	"github.com/goodnatureofminers/blockinsight7000-watch/internal/metrics"
	"github.com/goodnatureofminers/blockinsight7000-watch/internal/utxo/bitcoin"
	"github.com/goodnatureofminers/blockinsight7000-watch/internal/utxo/bitcoin/zmqnotify"
	"github.com/goodnatureofminers/blockinsight7000-watch/internal/utxo/model"
	"github.com/goodnatureofminers/blockinsight7000-watch/internal/utxo/repository/postgres"
	"github.com/goodnatureofminers/blockinsight7000-watch/internal/utxo/service/scanner"
	"github.com/goodnatureofminers/blockinsight7000-watch/internal/utxo/sharedstate"
	"github.com/goodnatureofminers/blockinsight7000-watch/internal/utxo/tasks"
	"github.com/hibiken/asynq"
	"github.com/jessevdk/go-flags"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type config struct {
	PostgresDSN   string        `long:"postgres-dsn" env:"UTXO_SCANNER_POSTGRES_DSN" description:"Postgres DSN" required:"true"`
	RedisAddr     string        `long:"redis-addr" env:"UTXO_SCANNER_REDIS_ADDR" description:"Redis address" default:"127.0.0.1:6379"`
	RedisPassword string        `long:"redis-password" env:"UTXO_SCANNER_REDIS_PASSWORD" description:"Redis password"`
	RedisDB       int           `long:"redis-db" env:"UTXO_SCANNER_REDIS_DB" description:"Redis database"`
	Coin          model.Coin    `long:"coin" env:"UTXO_SCANNER_COIN" description:"coin name" required:"true"`
	Network       model.Network `long:"network" env:"UTXO_SCANNER_NETWORK" description:"network name" required:"true"`
	RPCURL        string        `long:"rpc-url" env:"UTXO_SCANNER_RPC_URL" description:"node RPC URL" default:"http://127.0.0.1:8332"`
	RPCUser       string        `long:"rpc-user" env:"UTXO_SCANNER_RPC_USER" description:"node RPC username"`
	RPCPassword   string        `long:"rpc-password" env:"UTXO_SCANNER_RPC_PASSWORD" description:"node RPC password"`
	ZMQAddr       string        `long:"zmq-addr" env:"UTXO_SCANNER_ZMQ_ADDR" description:"node hashblock ZMQ endpoint"`
	StartHeight   uint64        `long:"start-height" env:"UTXO_SCANNER_START_HEIGHT" description:"first height to follow when no cursor is stored"`
	PageSize      int           `long:"page-size" env:"UTXO_SCANNER_PAGE_SIZE" description:"transactions per page" default:"100"`
	PageWorkers   int           `long:"page-workers" env:"UTXO_SCANNER_PAGE_WORKERS" description:"concurrent pages per block" default:"4"`
	Lease         time.Duration `long:"lease" env:"UTXO_SCANNER_LEASE" description:"active block lease" default:"2m"`
	ScanTimeout   time.Duration `long:"scan-timeout" env:"UTXO_SCANNER_SCAN_TIMEOUT" description:"maximum time to complete one block" default:"30m"`
	SweepInterval time.Duration `long:"sweep-interval" env:"UTXO_SCANNER_SWEEP_INTERVAL" description:"expired lease sweep interval" default:"30s"`
	BlockCacheTTL time.Duration `long:"block-cache-ttl" env:"UTXO_SCANNER_BLOCK_CACHE_TTL" description:"verbose block cache ttl" default:"5m"`
	Rescan        []uint64      `long:"rescan" description:"heights to queue for rescan at startup"`
	FullScan      bool          `long:"full-scan" description:"rescan heights store every output"`
	MetricsAddr   string        `long:"metrics-addr" env:"UTXO_SCANNER_METRICS_ADDR" description:"address for metrics server" default:":2112"`
	LogJSON       bool          `long:"log-json" env:"UTXO_SCANNER_LOG_JSON" description:"log in JSON"`
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
		logger.Fatal("utxo scanner failed", zap.Error(err))
	}
}

func run(ctx context.Context, cfg config, logger *zap.Logger) error {
	startMetricsServer(ctx, cfg.MetricsAddr, logger)

	repo, err := postgres.NewRepository(postgres.Config{DSN: cfg.PostgresDSN}, metrics.NewPostgresRepository())
	if err != nil {
		return fmt.Errorf("init postgres repository: %w", err)
	}
	defer repo.Close()

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

	rpcClient, err := newRPCClient(cfg.RPCURL, cfg.RPCUser, cfg.RPCPassword)
	if err != nil {
		return fmt.Errorf("init rpc client: %w", err)
	}
	defer func() {
		rpcClient.Shutdown()
		rpcClient.WaitForShutdown()
	}()

	scripts, err := bitcoin.NewScriptDecoder(cfg.Network)
	if err != nil {
		return err
	}
	source := bitcoin.NewScanSource(
		bitcoin.NewRPCClient(rpcClient, metrics.NewRPCClient(model.Chain{Coin: cfg.Coin, Network: cfg.Network})),
		bitcoin.NewTxConverter(scripts, bitcoin.NewCashTokenDecoder()),
		cfg.BlockCacheTTL,
	)

	blockSignal, err := subscribeBlocks(ctx, cfg.ZMQAddr, logger)
	if err != nil {
		return fmt.Errorf("start block signal: %w", err)
	}

	queue := sharedstate.NewBlockQueue(redisClient)
	enqueuer := tasks.NewEnqueuer(taskClient, taskInspector, nil, metrics.NewTasks(), logger)
	coordinatorMetrics := metrics.NewScanCoordinator()

	coordinator, err := scanner.NewCoordinator(source, queue, repo, enqueuer, coordinatorMetrics, logger, scanner.Config{
		PageSize:    cfg.PageSize,
		PageWorkers: cfg.PageWorkers,
		Lease:       cfg.Lease,
		ScanTimeout: cfg.ScanTimeout,
	})
	if err != nil {
		return err
	}
	follower, err := scanner.NewFollower(source, queue, repo, metrics.NewBlockFollower(), logger, scanner.FollowerConfig{
		StartHeight: cfg.StartHeight,
	}, blockSignal)
	if err != nil {
		return err
	}
	sweeper := scanner.NewLeaseSweeper(queue, repo, coordinatorMetrics, logger)

	for _, height := range cfg.Rescan {
		if err = coordinator.RequestRescan(ctx, height, cfg.FullScan); err != nil {
			return err
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return follower.Run(gctx) })
	g.Go(func() error { return coordinator.Run(gctx) })
	g.Go(func() error { return sweeper.Run(gctx, cfg.SweepInterval) })
	return g.Wait()
}

// subscribeBlocks turns hashblock notifications into follower wake-ups. The
// follower keeps polling on its own when no endpoint is usable.
func subscribeBlocks(ctx context.Context, addr string, logger *zap.Logger) (<-chan struct{}, error) {
	if addr == "" {
		return nil, nil
	}
	hashes, _, err := zmqnotify.Subscribe(ctx, zmqnotify.Options{Addr: addr, Topic: "hashblock", Buffer: 1}, logger)
	if errors.Is(err, zmqnotify.ErrUnsupported) {
		logger.Warn("ignoring block signal endpoint", zap.String("addr", addr), zap.Error(err))
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	wake := make(chan struct{}, 1)
	go func() {
		for range hashes {
			select {
			case wake <- struct{}{}:
			default:
			}
		}
	}()
	return wake, nil
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

func newRPCClient(rawURL, user, password string) (*rpcclient.Client, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parse rpc url: %w", err)
	}
	if parsed.Scheme != "http" {
		return nil, fmt.Errorf("rpc url scheme %q not supported, use http", parsed.Scheme)
	}
	if parsed.Host == "" {
		return nil, errors.New("rpc url missing host")
	}

	return rpcclient.New(&rpcclient.ConnConfig{
		Host:         parsed.Host,
		User:         user,
		Pass:         password,
		HTTPPostMode: true,
		DisableTLS:   true,
	}, nil)
}
