package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/amishk599/jobcast/internal/poller"
	"github.com/amishk599/jobcast/internal/scheduler"
	"github.com/amishk599/jobcast/internal/store"
)

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the posting daemon",
	Long:  "Start the cron scheduler; blocks until SIGINT/SIGTERM.",
	RunE:  runStart,
}

func init() {
	rootCmd.AddCommand(startCmd)
}

func runStart(cmd *cobra.Command, args []string) error {
	logger := setupLogger(debug)

	cfg, err := loadConfig(cfgPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger.Info("config loaded",
		"keyword", cfg.Search.Keyword,
		"locations", len(cfg.Search.Locations),
		"window", cfg.Search.Window.String(),
		"engine", cfg.Scraper.Engine,
		"delivery", cfg.Delivery.Type,
	)

	sqlStore, err := store.NewSQLiteStore(cfg.Store.Path)
	if err != nil {
		logger.Error("failed to open store", "error", err)
		os.Exit(1)
	}
	defer sqlStore.Close()

	engine, err := setupEngine(cfg, false, logger)
	if err != nil {
		logger.Error("failed to set up delivery", "error", err)
		os.Exit(1)
	}
	scr, err := buildScraper(cfg, setupTagger(cfg, logger), logger)
	if err != nil {
		logger.Error("failed to set up scraper", "error", err)
		os.Exit(1)
	}

	p := poller.NewSearchPoller(cfg.Search.Keyword, cfg.Search.Locations, cfg.Delivery.Destination, scr, sqlStore, engine, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	sched := scheduler.NewScheduler([]scheduler.Poller{p}, sqlStore, scheduler.Config{
		PostSpec:    cfg.Schedule.PostCron,
		CleanupSpec: cfg.Schedule.CleanupCron,
		Retention:   cfg.Schedule.Retention,
		RunOnStart:  cfg.Schedule.RunOnStart,
	}, logger)
	if err := sched.Run(ctx); err != nil {
		logger.Error("scheduler error", "error", err)
		os.Exit(1)
	}

	logger.Info("goodbye")
	return nil
}
