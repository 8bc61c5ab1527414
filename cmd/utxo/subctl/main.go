// Package main manages address subscriptions and wallet bindings.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/goodnatureofminers/blockinsight7000-watch/internal/metrics"
	"github.com/goodnatureofminers/blockinsight7000-watch/internal/utxo/model"
	"github.com/goodnatureofminers/blockinsight7000-watch/internal/utxo/repository/postgres"
	"github.com/goodnatureofminers/blockinsight7000-watch/internal/utxo/service/subscription"
	"github.com/goodnatureofminers/blockinsight7000-watch/internal/utxo/sharedstate"
	"github.com/jessevdk/go-flags"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type options struct {
	PostgresDSN   string `long:"postgres-dsn" env:"UTXO_SUBCTL_POSTGRES_DSN" description:"Postgres DSN" required:"true"`
	RedisAddr     string `long:"redis-addr" env:"UTXO_SUBCTL_REDIS_ADDR" description:"Redis address" default:"127.0.0.1:6379"`
	RedisPassword string `long:"redis-password" env:"UTXO_SUBCTL_REDIS_PASSWORD" description:"Redis password"`
	RedisDB       int    `long:"redis-db" env:"UTXO_SUBCTL_REDIS_DB" description:"Redis database"`
}

// app is shared by every command.
type app struct {
	ctx    context.Context
	opts   options
	logger *zap.Logger
}

type deps struct {
	repo     *postgres.Repository
	registry *subscription.Registry
	close    func()
}

func (a *app) open() (*deps, error) {
	repo, err := postgres.NewRepository(postgres.Config{DSN: a.opts.PostgresDSN}, metrics.NewPostgresRepository())
	if err != nil {
		return nil, fmt.Errorf("init postgres repository: %w", err)
	}
	redisClient := redis.NewUniversalClient(&redis.UniversalOptions{
		Addrs:    []string{a.opts.RedisAddr},
		Password: a.opts.RedisPassword,
		DB:       a.opts.RedisDB,
	})
	registry := subscription.NewRegistry(
		sharedstate.NewStore(redisClient),
		sharedstate.NewListeningSet(redisClient),
		repo,
		metrics.NewPresence(),
		a.logger,
	)
	return &deps{
		repo:     repo,
		registry: registry,
		close: func() {
			_ = redisClient.Close()
			_ = repo.Close()
		},
	}, nil
}

type subscribeCmd struct {
	app        *app
	Address    string `long:"address" description:"address to watch" required:"true"`
	WalletID   int64  `long:"wallet" description:"wallet owning the address"`
	WebhookURL string `long:"webhook" description:"webhook endpoint"`
	ChatID     int64  `long:"chat" description:"chat id"`
	Recipient  int64  `long:"recipient" description:"existing recipient id"`
}

func (c *subscribeCmd) Execute([]string) error {
	if c.Recipient == 0 && c.WebhookURL == "" && c.ChatID == 0 {
		return errors.New("one of --recipient, --webhook or --chat is required")
	}
	d, err := c.app.open()
	if err != nil {
		return err
	}
	defer d.close()

	var wallet *int64
	if c.WalletID != 0 {
		wallet = &c.WalletID
		if err = d.repo.BindWalletAddress(c.app.ctx, c.WalletID, model.NormalizeAddress(c.Address)); err != nil {
			return err
		}
	}
	sub, err := d.registry.Subscribe(c.app.ctx, c.Address, wallet, model.Recipient{
		ID:         c.Recipient,
		WebhookURL: c.WebhookURL,
		ChatID:     c.ChatID,
	})
	if err != nil {
		return err
	}
	c.app.logger.Info("subscribed",
		zap.Int64("subscription_id", sub.ID),
		zap.Int64("recipient_id", sub.Recipient.ID),
		zap.String("address", sub.Address),
		zap.Bool("live_socket", sub.LiveSocketEnabled),
	)
	return nil
}

type unsubscribeCmd struct {
	app       *app
	Address   string `long:"address" description:"watched address" required:"true"`
	Recipient int64  `long:"recipient" description:"recipient id" required:"true"`
}

func (c *unsubscribeCmd) Execute([]string) error {
	d, err := c.app.open()
	if err != nil {
		return err
	}
	defer d.close()
	return d.registry.Unsubscribe(c.app.ctx, c.Address, c.Recipient)
}

type invalidateCmd struct {
	app       *app
	Recipient int64 `long:"recipient" description:"recipient id" required:"true"`
}

func (c *invalidateCmd) Execute([]string) error {
	d, err := c.app.open()
	if err != nil {
		return err
	}
	defer d.close()
	return d.registry.InvalidateRecipient(c.app.ctx, c.Recipient)
}

type presenceCmd struct {
	app     *app
	Address string `long:"address" description:"address a live socket joined or left" required:"true"`
	Leave   bool   `long:"leave" description:"record a disconnect instead of a connect"`
}

func (c *presenceCmd) Execute([]string) error {
	d, err := c.app.open()
	if err != nil {
		return err
	}
	defer d.close()

	update := d.registry.Increment
	if c.Leave {
		update = d.registry.Decrement
	}
	n, err := update(c.app.ctx, c.Address)
	if err != nil {
		return err
	}
	c.app.logger.Info("presence updated", zap.String("address", c.Address), zap.Int64("listeners", n))
	return nil
}

type sweepCmd struct {
	app *app
}

func (c *sweepCmd) Execute([]string) error {
	d, err := c.app.open()
	if err != nil {
		return err
	}
	defer d.close()
	removed, err := d.registry.Sweep(c.app.ctx)
	if err != nil {
		return err
	}
	c.app.logger.Info("listening set swept", zap.Int("removed", removed))
	return nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger, err := zap.NewDevelopment()
	if err != nil {
		panic("can't initialize zap logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync()
	}()

	a := &app{ctx: ctx, logger: logger}
	parser := flags.NewParser(&a.opts, flags.Default)
	commands := []struct {
		name, short string
		data        any
	}{
		{"subscribe", "watch an address for a recipient", &subscribeCmd{app: a}},
		{"unsubscribe", "stop watching an address for a recipient", &unsubscribeCmd{app: a}},
		{"invalidate", "disable a recipient", &invalidateCmd{app: a}},
		{"presence", "record a live socket joining or leaving an address", &presenceCmd{app: a}},
		{"sweep", "drop idle addresses from the listening set", &sweepCmd{app: a}},
	}
	for _, c := range commands {
		if _, err = parser.AddCommand(c.name, c.short, "", c.data); err != nil {
			logger.Fatal("register command", zap.String("command", c.name), zap.Error(err))
		}
	}

	if _, err = parser.Parse(); err != nil {
		var ferr *flags.Error
		if errors.As(err, &ferr) && ferr.Type == flags.ErrHelp {
			return
		}
		os.Exit(1)
	}
}
