package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"gopkg.in/yaml.v3"
)

// Config is the root configuration for jobcast.
type Config struct {
	Search   SearchConfig
	Scraper  ScraperConfig
	AI       AIConfig
	Delivery DeliveryConfig
	Schedule ScheduleConfig
	Store    StoreConfig
}

// SearchConfig describes the saved search the daemon runs.
type SearchConfig struct {
	Keyword   string
	Locations []string
	Window    time.Duration // only postings newer than this are requested
}

// ScraperConfig controls how search and detail pages are fetched.
type ScraperConfig struct {
	Engine            string // "http" or "colly"
	UserAgent         string
	RequestsPerSecond float64
	Burst             int
	MaxRetries        int
	RetryBaseDelay    time.Duration
	Concurrency       int
	CanonicalHost     string
	Timeout           time.Duration
}

// AIConfig controls the optional hashtag tagger.
type AIConfig struct {
	Enabled     bool
	BaseURL     string // OpenAI-compatible endpoint
	Model       string
	APIKeys     []string // expanded from env vars by Load
	AllowedTags []string
	Timeout     time.Duration // per-request timeout
	Cooldown    time.Duration // wait after a plain rate limit
}

// DeliveryConfig controls which transport is used and its settings.
type DeliveryConfig struct {
	Type         string // "telegram", "slack" or "log"
	BotToken     string // required if type is "telegram"
	Destination  string // chat ID or @channel; Slack channel override
	WebhookURL   string // required if type is "slack"
	MessageDelay time.Duration
}

// ScheduleConfig holds the daemon's cron specs.
type ScheduleConfig struct {
	PostCron    string
	CleanupCron string
	Retention   time.Duration
	RunOnStart  bool
}

// StoreConfig locates the seen-postings database.
type StoreConfig struct {
	Path string
}

const (
	defaultSearchWindow   = 24 * time.Hour
	defaultEngine         = "http"
	defaultRequestsPerSec = 0.5
	defaultBurst          = 1
	defaultMaxRetries     = 3
	defaultRetryBaseDelay = 2 * time.Second
	defaultConcurrency    = 4
	defaultCanonicalHost  = "www.linkedin.com"
	defaultScrapeTimeout  = 30 * time.Second
	defaultAIBaseURL      = "https://generativelanguage.googleapis.com/v1beta/openai"
	defaultAIModel        = "gemini-2.0-flash"
	defaultAITimeout      = 30 * time.Second
	defaultAICooldown     = 60 * time.Second
	defaultDeliveryType   = "log"
	defaultMessageDelay   = time.Second
	defaultPostCron       = "0 18 * * *"
	defaultCleanupCron    = "0 * * * *"
	defaultRetention      = 7 * 24 * time.Hour
	defaultStorePath      = "jobcast.db"
)

// DefaultAllowedTags is used when ai.allowed_tags is not set.
var DefaultAllowedTags = []string{
	"golang", "python", "java", "javascript", "typescript", "rust", "csharp", "php", "ruby",
	"react", "angular", "vue", "node", "django", "spring",
	"backend", "frontend", "fullstack", "mobile", "devops", "sre", "data", "ml", "security",
	"aws", "gcp", "azure", "kubernetes", "docker", "sql",
	"remote", "hybrid", "onsite",
	"relocation", "visa",
	"usa", "canada", "uk", "europe", "germany", "netherlands", "india", "asia", "latam", "worldwide",
	"intern", "junior", "mid", "senior", "lead",
}

// rawConfig is used for YAML unmarshaling (snake_case fields and duration as string).
type rawConfig struct {
	Search   rawSearchConfig   `yaml:"search"`
	Scraper  rawScraperConfig  `yaml:"scraper"`
	AI       rawAIConfig       `yaml:"ai"`
	Delivery rawDeliveryConfig `yaml:"delivery"`
	Schedule rawScheduleConfig `yaml:"schedule"`
	Store    StoreConfig       `yaml:"store"`
}

type rawSearchConfig struct {
	Keyword   string   `yaml:"keyword"`
	Locations []string `yaml:"locations"`
	Window    string   `yaml:"window"`
}

type rawScraperConfig struct {
	Engine            string  `yaml:"engine"`
	UserAgent         string  `yaml:"user_agent"`
	RequestsPerSecond float64 `yaml:"requests_per_second"`
	Burst             int     `yaml:"burst"`
	MaxRetries        *int    `yaml:"max_retries"`
	RetryBaseDelay    string  `yaml:"retry_base_delay"`
	Concurrency       int     `yaml:"concurrency"`
	CanonicalHost     *string `yaml:"canonical_host"`
	Timeout           string  `yaml:"timeout"`
}

type rawAIConfig struct {
	Enabled     bool     `yaml:"enabled"`
	BaseURL     string   `yaml:"base_url"`
	Model       string   `yaml:"model"`
	APIKeys     []string `yaml:"api_keys"`
	AllowedTags []string `yaml:"allowed_tags"`
	Timeout     string   `yaml:"timeout"`
	Cooldown    string   `yaml:"cooldown"`
}

type rawDeliveryConfig struct {
	Type         string `yaml:"type"`
	BotToken     string `yaml:"bot_token"`
	Destination  string `yaml:"destination"`
	WebhookURL   string `yaml:"webhook_url"`
	MessageDelay string `yaml:"message_delay"`
}

type rawScheduleConfig struct {
	PostCron    string  `yaml:"post_cron"`
	CleanupCron *string `yaml:"cleanup_cron"`
	Retention   string  `yaml:"retention"`
	RunOnStart  bool    `yaml:"run_on_start"`
}

// Load reads and parses the YAML config file at path, validates it, and returns Config.
// A .env file next to the config, if present, is loaded into the environment
// first so ${VAR} placeholders can refer to it. Variables already set win.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	envPath := filepath.Join(filepath.Dir(path), ".env")
	if err := godotenv.Load(envPath); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load %s: %w", envPath, err)
	}

	// Expand environment variables
	expanded := os.ExpandEnv(string(data))

	var raw rawConfig
	if err := yaml.Unmarshal([]byte(expanded), &raw); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	p := durationParser{}
	cfg := &Config{
		Search: SearchConfig{
			Keyword:   strings.TrimSpace(raw.Search.Keyword),
			Locations: nonEmpty(raw.Search.Locations),
			Window:    p.parse("search.window", raw.Search.Window, defaultSearchWindow),
		},
		Scraper: ScraperConfig{
			Engine:            orDefault(strings.ToLower(raw.Scraper.Engine), defaultEngine),
			UserAgent:         raw.Scraper.UserAgent,
			RequestsPerSecond: raw.Scraper.RequestsPerSecond,
			Burst:             raw.Scraper.Burst,
			MaxRetries:        defaultMaxRetries,
			RetryBaseDelay:    p.parse("scraper.retry_base_delay", raw.Scraper.RetryBaseDelay, defaultRetryBaseDelay),
			Concurrency:       raw.Scraper.Concurrency,
			CanonicalHost:     defaultCanonicalHost,
			Timeout:           p.parse("scraper.timeout", raw.Scraper.Timeout, defaultScrapeTimeout),
		},
		AI: AIConfig{
			Enabled:     raw.AI.Enabled,
			BaseURL:     orDefault(raw.AI.BaseURL, defaultAIBaseURL),
			Model:       orDefault(raw.AI.Model, defaultAIModel),
			APIKeys:     nonEmpty(raw.AI.APIKeys),
			AllowedTags: raw.AI.AllowedTags,
			Timeout:     p.parse("ai.timeout", raw.AI.Timeout, defaultAITimeout),
			Cooldown:    p.parse("ai.cooldown", raw.AI.Cooldown, defaultAICooldown),
		},
		Delivery: DeliveryConfig{
			Type:         orDefault(strings.ToLower(raw.Delivery.Type), defaultDeliveryType),
			BotToken:     raw.Delivery.BotToken,
			Destination:  raw.Delivery.Destination,
			WebhookURL:   raw.Delivery.WebhookURL,
			MessageDelay: p.parse("delivery.message_delay", raw.Delivery.MessageDelay, defaultMessageDelay),
		},
		Schedule: ScheduleConfig{
			PostCron:    orDefault(raw.Schedule.PostCron, defaultPostCron),
			CleanupCron: defaultCleanupCron,
			Retention:   p.parse("schedule.retention", raw.Schedule.Retention, defaultRetention),
			RunOnStart:  raw.Schedule.RunOnStart,
		},
		Store: StoreConfig{
			Path: orDefault(raw.Store.Path, defaultStorePath),
		},
	}
	if p.err != nil {
		return nil, p.err
	}

	if cfg.Scraper.RequestsPerSecond == 0 {
		cfg.Scraper.RequestsPerSecond = defaultRequestsPerSec
	}
	if cfg.Scraper.Burst == 0 {
		cfg.Scraper.Burst = defaultBurst
	}
	if cfg.Scraper.Concurrency == 0 {
		cfg.Scraper.Concurrency = defaultConcurrency
	}
	if raw.Scraper.MaxRetries != nil {
		cfg.Scraper.MaxRetries = *raw.Scraper.MaxRetries
	}
	if raw.Scraper.CanonicalHost != nil {
		cfg.Scraper.CanonicalHost = *raw.Scraper.CanonicalHost
	}
	if raw.Schedule.CleanupCron != nil {
		cfg.Schedule.CleanupCron = *raw.Schedule.CleanupCron
	}
	if len(cfg.AI.AllowedTags) == 0 {
		cfg.AI.AllowedTags = DefaultAllowedTags
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

func validate(cfg *Config) error {
	if cfg.Search.Keyword == "" {
		return fmt.Errorf("search.keyword is required")
	}
	if len(cfg.Search.Locations) == 0 {
		return fmt.Errorf("search.locations must list at least one location")
	}
	if cfg.Search.Window <= 0 {
		return fmt.Errorf("search.window must be positive, got %v", cfg.Search.Window)
	}

	switch cfg.Scraper.Engine {
	case "http", "colly":
	default:
		return fmt.Errorf("scraper.engine must be \"http\" or \"colly\", got %q", cfg.Scraper.Engine)
	}
	if cfg.Scraper.RequestsPerSecond < 0 {
		return fmt.Errorf("scraper.requests_per_second must be positive, got %v", cfg.Scraper.RequestsPerSecond)
	}
	if cfg.Scraper.Burst < 1 {
		return fmt.Errorf("scraper.burst must be at least 1, got %d", cfg.Scraper.Burst)
	}
	if cfg.Scraper.MaxRetries < 0 {
		return fmt.Errorf("scraper.max_retries must not be negative, got %d", cfg.Scraper.MaxRetries)
	}
	if cfg.Scraper.Concurrency < 1 {
		return fmt.Errorf("scraper.concurrency must be at least 1, got %d", cfg.Scraper.Concurrency)
	}

	switch cfg.Delivery.Type {
	case "log":
	case "telegram":
		if cfg.Delivery.BotToken == "" {
			return fmt.Errorf("delivery.bot_token is required when type is \"telegram\"")
		}
		if cfg.Delivery.Destination == "" {
			return fmt.Errorf("delivery.destination is required when type is \"telegram\"")
		}
	case "slack":
		if cfg.Delivery.WebhookURL == "" {
			return fmt.Errorf("delivery.webhook_url is required when type is \"slack\"")
		}
		if !strings.HasPrefix(cfg.Delivery.WebhookURL, "https://hooks.slack.com/") {
			return fmt.Errorf("delivery.webhook_url must start with https://hooks.slack.com/")
		}
	default:
		return fmt.Errorf("delivery.type must be \"telegram\", \"slack\" or \"log\", got %q", cfg.Delivery.Type)
	}
	if cfg.Delivery.MessageDelay < 0 {
		return fmt.Errorf("delivery.message_delay must not be negative, got %v", cfg.Delivery.MessageDelay)
	}

	if cfg.AI.Enabled {
		if len(cfg.AI.APIKeys) == 0 {
			return fmt.Errorf("ai.api_keys must list at least one key when ai.enabled is true")
		}
		if cfg.AI.Model == "" {
			return fmt.Errorf("ai.model is required when ai.enabled is true")
		}
	}

	if _, err := cron.ParseStandard(cfg.Schedule.PostCron); err != nil {
		return fmt.Errorf("schedule.post_cron %q: %w", cfg.Schedule.PostCron, err)
	}
	if cfg.Schedule.CleanupCron != "" {
		if _, err := cron.ParseStandard(cfg.Schedule.CleanupCron); err != nil {
			return fmt.Errorf("schedule.cleanup_cron %q: %w", cfg.Schedule.CleanupCron, err)
		}
	}
	if cfg.Schedule.Retention <= 0 {
		return fmt.Errorf("schedule.retention must be positive, got %v", cfg.Schedule.Retention)
	}

	return nil
}

// durationParser parses optional duration fields, keeping the first error.
type durationParser struct {
	err error
}

func (p *durationParser) parse(field, value string, def time.Duration) time.Duration {
	if value == "" || p.err != nil {
		return def
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		p.err = fmt.Errorf("parse %s %q: %w", field, value, err)
		return def
	}
	return d
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

// nonEmpty trims each entry and drops the empty ones. Unset ${VAR} keys
// expand to empty strings and are dropped here.
func nonEmpty(in []string) []string {
	var out []string
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// ResolvePath picks the config file: the flag value, then $JOBCAST_CONFIG,
// then ./config.yaml.
func ResolvePath(flag string) string {
	if flag != "" {
		return flag
	}
	if env := os.Getenv("JOBCAST_CONFIG"); env != "" {
		return env
	}
	return "config.yaml"
}
