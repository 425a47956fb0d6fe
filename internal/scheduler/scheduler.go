package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/amishk599/jobcast/internal/model"
)

// Poller runs one scrape-and-deliver cycle.
type Poller interface {
	Poll(ctx context.Context) error
}

// Config holds the cron specs that drive the scheduler.
type Config struct {
	PostSpec    string        // when to run the pollers, e.g. "0 9 * * *"
	CleanupSpec string        // when to prune the seen store; empty disables pruning
	Retention   time.Duration // how long delivered links are remembered
	RunOnStart  bool          // run one poll cycle before the first cron tick
}

// Scheduler owns the main loop: a cron runner that triggers the pollers and
// the store cleanup.
type Scheduler struct {
	pollers []Poller
	store   model.JobStore
	cfg     Config
	logger  *slog.Logger
}

// NewScheduler creates a scheduler for the given pollers.
func NewScheduler(pollers []Poller, store model.JobStore, cfg Config, logger *slog.Logger) *Scheduler {
	return &Scheduler{
		pollers: pollers,
		store:   store,
		cfg:     cfg,
		logger:  logger,
	}
}

// Run registers the cron entries and blocks until ctx is cancelled. It returns
// nil on graceful shutdown, once any running cycle has finished.
func (s *Scheduler) Run(ctx context.Context) error {
	logger := cronLogger{s.logger}
	c := cron.New(cron.WithLogger(logger), cron.WithChain(cron.Recover(logger), cron.SkipIfStillRunning(logger)))

	if _, err := c.AddFunc(s.cfg.PostSpec, func() { s.RunOnce(ctx) }); err != nil {
		return fmt.Errorf("scheduling pollers %q: %w", s.cfg.PostSpec, err)
	}
	if s.cfg.CleanupSpec != "" {
		if _, err := c.AddFunc(s.cfg.CleanupSpec, s.cleanup); err != nil {
			return fmt.Errorf("scheduling cleanup %q: %w", s.cfg.CleanupSpec, err)
		}
	}

	s.logger.Info("starting scheduler",
		"post_cron", s.cfg.PostSpec,
		"cleanup_cron", s.cfg.CleanupSpec,
		"searches", len(s.pollers),
	)

	if s.cfg.RunOnStart {
		s.RunOnce(ctx)
	}

	c.Start()
	<-ctx.Done()
	s.logger.Info("shutting down scheduler")
	<-c.Stop().Done()
	return nil
}

// RunOnce runs every poller sequentially. A failing poller is logged and the
// rest still run.
func (s *Scheduler) RunOnce(ctx context.Context) {
	for _, p := range s.pollers {
		if ctx.Err() != nil {
			return
		}
		if err := p.Poll(ctx); err != nil {
			s.logger.Error("poll failed", "error", err)
		}
	}
}

func (s *Scheduler) cleanup() {
	if err := s.store.Cleanup(s.cfg.Retention); err != nil {
		s.logger.Error("store cleanup failed", "error", err)
		return
	}
	s.logger.Info("store cleanup complete", "retention", s.cfg.Retention.String())
}

// cronLogger adapts slog to cron's logger interface.
type cronLogger struct {
	l *slog.Logger
}

func (c cronLogger) Info(msg string, keysAndValues ...interface{}) {
	c.l.Debug("cron: "+msg, keysAndValues...)
}

func (c cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	c.l.Error("cron: "+msg, append(keysAndValues, "error", err)...)
}
