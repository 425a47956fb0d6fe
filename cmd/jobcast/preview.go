package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/amishk599/jobcast/internal/mdsplit"
	"github.com/amishk599/jobcast/internal/preview"
	"github.com/amishk599/jobcast/internal/scraper"
)

var (
	previewKeyword   string
	previewLocations []string
	previewQuery     string
	previewMaxLen    int
	previewWidth     int
	previewNoPager   bool
)

var previewCmd = &cobra.Command{
	Use:   "preview",
	Short: "Scrape once and render the messages in the terminal",
	Long:  "Scrapes the search once and shows every chunk that would be delivered in a scrollable viewer, or prints them when stdout is not a terminal. Nothing is sent or stored.",
	RunE:  runPreview,
}

func init() {
	previewCmd.Flags().StringVarP(&previewKeyword, "keyword", "k", "", "search keyword (default: search.keyword)")
	previewCmd.Flags().StringSliceVarP(&previewLocations, "location", "l", nil, "search location, repeatable (default: search.locations)")
	previewCmd.Flags().StringVarP(&previewQuery, "query", "q", "", `search as "Title, Location"; overrides --keyword and --location`)
	previewCmd.Flags().IntVar(&previewMaxLen, "max-len", mdsplit.MaxMessageLength, "maximum chunk length in characters")
	previewCmd.Flags().IntVar(&previewWidth, "width", preview.DefaultWidth, "width of the rendered message boxes")
	previewCmd.Flags().BoolVar(&previewNoPager, "no-pager", false, "print the preview instead of opening the interactive viewer")
	rootCmd.AddCommand(previewCmd)
}

func runPreview(cmd *cobra.Command, args []string) error {
	// Logs go to stderr so the rendered preview can be piped.
	logger := newLogger(os.Stderr, debug)

	cfg, err := loadConfig(cfgPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	if err := searchOverrides(cfg, previewKeyword, previewLocations, previewQuery); err != nil {
		logger.Error("invalid search", "error", err)
		os.Exit(1)
	}

	scr, err := buildScraper(cfg, setupTagger(cfg, logger), logger)
	if err != nil {
		logger.Error("failed to set up scraper", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	jobs, err := scraper.Run(ctx, scr, cfg.Search.Keyword, cfg.Search.Locations, logger)
	if err != nil {
		logger.Error("scrape failed", "error", err)
		os.Exit(1)
	}

	// The viewer needs a terminal; piped output gets the static rendering.
	if previewNoPager || !isatty.IsTerminal(os.Stdout.Fd()) {
		fmt.Print(preview.Render(jobs, previewMaxLen, previewWidth))
		return nil
	}
	return preview.Page(jobs, previewMaxLen, previewWidth)
}
