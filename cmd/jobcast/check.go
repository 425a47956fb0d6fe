package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/amishk599/jobcast/internal/config"
	"github.com/amishk599/jobcast/internal/poller"
	"github.com/amishk599/jobcast/internal/scraper"
	"github.com/amishk599/jobcast/internal/store"
)

var (
	checkKeyword   string
	checkLocations []string
	checkQuery     string
	checkDryRun    bool
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Scrape once, deliver matches, exit",
	Long:  "One-shot run: scrapes the search once and delivers every match. Does not write to the store.",
	RunE:  runCheck,
}

func init() {
	checkCmd.Flags().StringVarP(&checkKeyword, "keyword", "k", "", "search keyword (default: search.keyword)")
	checkCmd.Flags().StringSliceVarP(&checkLocations, "location", "l", nil, "search location, repeatable (default: search.locations)")
	checkCmd.Flags().StringVarP(&checkQuery, "query", "q", "", `search as "Title, Location"; overrides --keyword and --location`)
	checkCmd.Flags().BoolVar(&checkDryRun, "dry-run", false, "log messages instead of sending them")
	rootCmd.AddCommand(checkCmd)
}

// searchOverrides applies the one-shot search flags to cfg.
func searchOverrides(cfg *config.Config, keyword string, locations []string, query string) error {
	if query != "" {
		kw, loc, err := scraper.ParseQuery(query)
		if err != nil {
			return err
		}
		keyword, locations = kw, []string{loc}
	}
	if keyword != "" {
		cfg.Search.Keyword = keyword
	}
	if len(locations) > 0 {
		cfg.Search.Locations = locations
	}
	return nil
}

func runCheck(cmd *cobra.Command, args []string) error {
	logger := setupLogger(debug)

	cfg, err := loadConfig(cfgPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	if err := searchOverrides(cfg, checkKeyword, checkLocations, checkQuery); err != nil {
		logger.Error("invalid search", "error", err)
		os.Exit(1)
	}

	logger.Info("check mode: no postings will be marked as seen",
		"keyword", cfg.Search.Keyword,
		"locations", cfg.Search.Locations,
	)

	engine, err := setupEngine(cfg, checkDryRun, logger)
	if err != nil {
		logger.Error("failed to set up delivery", "error", err)
		os.Exit(1)
	}
	scr, err := buildScraper(cfg, setupTagger(cfg, logger), logger)
	if err != nil {
		logger.Error("failed to set up scraper", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	p := poller.NewSearchPoller(cfg.Search.Keyword, cfg.Search.Locations, cfg.Delivery.Destination, scr, store.NewNopStore(), engine, logger)
	if err := p.Poll(ctx); err != nil {
		logger.Error("check failed", "error", err)
		os.Exit(1)
	}

	logger.Info("check complete", "delivery_state", engine.State().String())
	return nil
}
