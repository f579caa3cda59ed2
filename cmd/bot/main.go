package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"eventbot/internal/adapters/discord"
	"eventbot/internal/application"
	"eventbot/internal/config"
	"eventbot/internal/infrastructure/database"
	"eventbot/internal/infrastructure/i18n"
	"eventbot/internal/infrastructure/logging"
	"eventbot/internal/infrastructure/metrics"
	"eventbot/internal/infrastructure/scheduler"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger, err := logging.New(cfg.Environment, cfg.LogLevel)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	if err := run(cfg, logger); err != nil {
		logger.Error("bot stopped", zap.Error(err))
		_ = logger.Sync()
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := database.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath, logger); err != nil {
		return err
	}
	pool, err := database.NewPool(ctx, cfg.DatabaseURL, logger)
	if err != nil {
		return err
	}
	defer pool.Close()

	eventRepo := database.NewEventRepository(pool)
	participantRepo := database.NewParticipantRepository(pool)
	reminderRepo := database.NewReminderRepository(pool)

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	promMetrics := metrics.NewPrometheus(registry)

	translator := i18n.NewTranslator(cfg.Locale, logger)
	jobs := scheduler.New()
	defer jobs.Stop()

	session, err := discord.NewSession(cfg.Token)
	if err != nil {
		return err
	}
	platform := discord.NewPlatform(session, cfg.GuildID)

	settings := application.Settings{
		EventsChannelID:   cfg.EventChannelID,
		EventsCategoryID:  cfg.EventCategoryID,
		ArchiveCategoryID: cfg.ArchiveCategoryID,
		SeparatorRoleID:   cfg.EventSeparatorRoleID,
		ArchiveSyncDelay:  cfg.ArchiveSyncDelay,
		Location:          cfg.Location,
		Locale:            cfg.Locale,
	}

	participants := application.NewParticipantService(participantRepo, platform, promMetrics, logger.Named("participants"))
	reminders := application.NewReminderService(eventRepo, reminderRepo, platform, jobs, translator, promMetrics, logger.Named("reminders"), settings)
	defer reminders.Stop()
	roles := application.NewRoleService(platform, eventRepo, cfg.EventSeparatorRoleID, logger.Named("roles"))
	events := application.NewEventService(
		eventRepo, participantRepo, reminderRepo, platform,
		participants, reminders, roles,
		translator, promMetrics, logger.Named("events"), settings,
	)

	handler := discord.NewHandler(events, reminders, translator, logger.Named("discord"),
		cfg.GuildID, cfg.EventChannelID, cfg.Location, cfg.Locale)
	bot := discord.NewBot(session, handler, cfg.GuildID, logger)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := bot.Run(gctx); err != nil {
			return fmt.Errorf("discord: %w", err)
		}
		return nil
	})
	if cfg.MetricsAddr != "" {
		g.Go(func() error {
			if err := metrics.Serve(gctx, cfg.MetricsAddr, registry, logger); err != nil {
				return fmt.Errorf("metrics: %w", err)
			}
			return nil
		})
	}
	return g.Wait()
}
