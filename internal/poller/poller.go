package poller

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/amishk599/jobcast/internal/model"
	"github.com/amishk599/jobcast/internal/scraper"
)

// SearchPoller owns the full pipeline for one saved search:
// scrape → dedup → deliver → mark seen.
type SearchPoller struct {
	Keyword   string
	locations []string
	dest      string
	scraper   model.Scraper
	store     model.JobStore
	deliverer model.Deliverer
	logger    *slog.Logger
}

// NewSearchPoller creates a poller wired with all its dependencies.
func NewSearchPoller(
	keyword string,
	locations []string,
	dest string,
	s model.Scraper,
	store model.JobStore,
	deliverer model.Deliverer,
	logger *slog.Logger,
) *SearchPoller {
	return &SearchPoller{
		Keyword:   keyword,
		locations: locations,
		dest:      dest,
		scraper:   s,
		store:     store,
		deliverer: deliverer,
		logger:    logger,
	}
}

// Poll runs one cycle: scrape, drop postings already delivered, deliver the
// rest oldest first, and record them as seen. Postings are only marked seen
// after the whole batch was delivered.
func (p *SearchPoller) Poll(ctx context.Context) error {
	jobs, err := scraper.Run(ctx, p.scraper, p.Keyword, p.locations, p.logger)
	if err != nil {
		return fmt.Errorf("polling %q: %w", p.Keyword, err)
	}

	var newJobs []model.Job
	for _, job := range jobs {
		seen, err := p.store.HasSeen(job.ApplyLink)
		if err != nil {
			return fmt.Errorf("polling %q: checking seen status: %w", p.Keyword, err)
		}
		if !seen {
			newJobs = append(newJobs, job)
		}
	}

	if len(newJobs) > 0 {
		if err := p.deliverer.Deliver(ctx, p.dest, newJobs); err != nil {
			return fmt.Errorf("polling %q: delivering: %w", p.Keyword, err)
		}
	}

	for _, job := range newJobs {
		if err := p.store.MarkSeen(job.ApplyLink); err != nil {
			return fmt.Errorf("polling %q: marking seen: %w", p.Keyword, err)
		}
	}

	p.logger.Info("polled search",
		"keyword", p.Keyword,
		"locations", len(p.locations),
		"scraped", len(jobs),
		"new", len(newJobs),
	)

	return nil
}
