package main

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/amishk599/jobcast/internal/ai"
	"github.com/amishk599/jobcast/internal/config"
	"github.com/amishk599/jobcast/internal/delivery"
	"github.com/amishk599/jobcast/internal/model"
	"github.com/amishk599/jobcast/internal/ratelimit"
	"github.com/amishk599/jobcast/internal/retry"
	"github.com/amishk599/jobcast/internal/scraper"
)

var (
	cfgPath string
	debug   bool
)

var rootCmd = &cobra.Command{
	Use:   "jobcast",
	Short: "LinkedIn job postings, delivered to your chat",
	Long:  "jobcast scrapes LinkedIn's public job search, tags postings with an LLM and posts them to Telegram or Slack.",
	// Default to `start` so that `jobcast` with no args runs the daemon.
	RunE:          runStart,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "path to config file (default: JOBCAST_CONFIG env var or ./config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
}

// loadConfig resolves the config path and parses it.
func loadConfig(path string) (*config.Config, error) {
	return config.Load(config.ResolvePath(path))
}

func setupLogger(dbg bool) *slog.Logger {
	return newLogger(os.Stdout, dbg)
}

func newLogger(w io.Writer, dbg bool) *slog.Logger {
	logLevel := slog.LevelInfo
	if dbg {
		logLevel = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: logLevel}))
}

// setupTransport picks the delivery transport. dryRun forces the log transport.
func setupTransport(cfg *config.Config, dryRun bool, logger *slog.Logger) (delivery.Transport, error) {
	if dryRun {
		logger.Info("dry-run: messages will be logged, not sent")
		return delivery.NewLogTransport(logger), nil
	}
	switch cfg.Delivery.Type {
	case "telegram":
		logger.Info("using telegram transport", "dest", cfg.Delivery.Destination)
		return delivery.NewTelegramTransport(cfg.Delivery.BotToken, logger)
	case "slack":
		logger.Info("using slack transport")
		return delivery.NewSlackTransport(cfg.Delivery.WebhookURL, &http.Client{Timeout: 30 * time.Second}, logger), nil
	default:
		return delivery.NewLogTransport(logger), nil
	}
}

func setupEngine(cfg *config.Config, dryRun bool, logger *slog.Logger) (*delivery.Engine, error) {
	transport, err := setupTransport(cfg, dryRun, logger)
	if err != nil {
		return nil, err
	}
	return delivery.NewEngine(transport, cfg.Delivery.MessageDelay, logger), nil
}

func setupTagger(cfg *config.Config, logger *slog.Logger) model.Tagger {
	if !cfg.AI.Enabled {
		return ai.NewNopTagger()
	}
	provider := ai.NewOpenAIProvider(cfg.AI.BaseURL, cfg.AI.Model, &http.Client{Timeout: cfg.AI.Timeout})
	logger.Info("ai tagging enabled", "model", cfg.AI.Model, "keys", len(cfg.AI.APIKeys))
	return ai.NewLLMTagger(provider, ai.NewKeyRing(cfg.AI.APIKeys), ai.TaggingTemplate, cfg.AI.AllowedTags, cfg.AI.Cooldown, logger)
}

// buildScraper wires the page fetcher decorators and the listing source the
// config asks for. Retries wrap pacing so every attempt waits its turn.
func buildScraper(cfg *config.Config, tagger model.Tagger, logger *slog.Logger) (*scraper.LinkedIn, error) {
	httpClient := &http.Client{Timeout: cfg.Scraper.Timeout}
	limiter := ratelimit.NewHostLimiter(cfg.Scraper.RequestsPerSecond, cfg.Scraper.Burst)

	var pages model.PageFetcher = scraper.NewHTTPFetcher(httpClient, cfg.Scraper.UserAgent)
	pages = ratelimit.NewRateLimitedFetcher(pages, limiter)
	pages = retry.NewRetryFetcher(pages, cfg.Scraper.MaxRetries, cfg.Scraper.RetryBaseDelay, logger)

	var listings scraper.ListingSource
	switch cfg.Scraper.Engine {
	case "http":
		listings = scraper.NewHTMLListingSource(pages)
	case "colly":
		listings = scraper.NewCollyListingSource(httpClient, cfg.Scraper.UserAgent, limiter)
	default:
		return nil, fmt.Errorf("unsupported scraper engine %q", cfg.Scraper.Engine)
	}

	return scraper.NewLinkedIn(listings, pages, tagger, scraper.Options{
		Window:        cfg.Search.Window,
		CanonicalHost: cfg.Scraper.CanonicalHost,
		Concurrency:   cfg.Scraper.Concurrency,
	}, logger), nil
}
