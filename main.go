package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"personnel-audit-bot/internal/bot"
	"personnel-audit-bot/internal/config"
	"personnel-audit-bot/internal/health"
	"personnel-audit-bot/internal/logger"
	"personnel-audit-bot/internal/metrics"
	"personnel-audit-bot/internal/notify"
	"personnel-audit-bot/internal/store"
	"personnel-audit-bot/internal/version"
)

func main() {
	// Load .env file
	envErr := godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logger.Log().WithError(err).Fatal("Failed to load configuration")
	}
	logger.Init(cfg.LogDebug, logger.Output(cfg.LogFile))
	if envErr != nil {
		logger.Log().Info("No .env file found, using environment")
	}

	// Credentials are checked before anything touches the network.
	if err := cfg.Validate(); err != nil {
		logger.Log().WithError(err).Error("Configuration error")
		logger.Log().Error(config.Remediation(err))
		os.Exit(1)
	}

	if err := run(cfg); err != nil {
		logger.Log().WithError(err).Error("Bot stopped")
		if remediation := bot.LoginRemediation(err); remediation != "" {
			logger.Log().Error(remediation)
		}
		os.Exit(1)
	}
}

func run(cfg config.Config) error {
	logger.Log().WithField("version", version.Full()).Infof("Starting %s", version.Name)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics.Register(registry)

	session, err := bot.NewSession(cfg.Token)
	if err != nil {
		return err
	}
	gateway := bot.Gateway{Session: session}
	restrictions := config.DefaultRestrictions()

	audit := bot.NewAuditHandler(restrictions, gateway)
	audit.Poster = gateway

	dispatcher := bot.NewDispatcher()
	dispatcher.Register(bot.CommandAudit, audit)

	// Redis (optional, enables the blacklist)
	if cfg.BlacklistEnabled() {
		redisStore := store.NewRedisStore(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		defer redisStore.Close()
		if err := redisStore.Ping(ctx); err != nil {
			return fmt.Errorf("connect to redis: %w", err)
		}

		audit.Blacklist = redisStore
		blacklist := bot.NewBlacklistHandler(restrictions, redisStore)
		dispatcher.Register(bot.CommandBlacklist, blacklist)
		dispatcher.Register(bot.CommandUnblacklist, blacklist)
		logger.Log().Info("Blacklist enabled")
	}

	// PostgreSQL (optional, enables the audit journal)
	if cfg.JournalEnabled() {
		pgStore, err := store.NewPostgresStore(cfg.DatabaseURL)
		if err != nil {
			return fmt.Errorf("connect to postgres: %w", err)
		}
		defer pgStore.Close()
		if err := pgStore.RunMigrations(ctx); err != nil {
			return fmt.Errorf("run migrations: %w", err)
		}
		audit.Journal = pgStore
		logger.Log().Info("Audit journal enabled")
	}

	if notifier := notify.NewNotifier(cfg.NotifyURL); notifier.Enabled() {
		audit.Notifier = notifier
	}

	discord := bot.New(session, cfg.ClientID, cfg.GuildID, bot.Commands(cfg.BlacklistEnabled()), dispatcher)
	healthServer := health.NewServer(cfg.Port, health.NewRouter(registry))

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Log().WithField("addr", healthServer.Addr()).Info("HTTP server started")
		return healthServer.Run(gctx)
	})
	g.Go(func() error {
		if err := discord.Start(gctx); err != nil {
			return err
		}
		<-gctx.Done()
		logger.Log().Info("Shutting down")
		return discord.Close()
	})

	return g.Wait()
}
