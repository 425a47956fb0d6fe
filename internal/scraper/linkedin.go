package scraper

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"golang.org/x/sync/errgroup"

	"github.com/amishk599/jobcast/internal/filter"
	"github.com/amishk599/jobcast/internal/model"
)

// DefaultConcurrency bounds how many detail pages are processed at once.
const DefaultConcurrency = 4

// Options configures a LinkedIn scraper.
type Options struct {
	SearchURL     string        // defaults to DefaultSearchURL
	Window        time.Duration // recency window passed as f_TPR
	CanonicalHost string        // e.g. "www.linkedin.com"; empty keeps the stripped host
	Concurrency   int           // defaults to DefaultConcurrency
}

// Ensure LinkedIn implements model.Scraper.
var _ model.Scraper = (*LinkedIn)(nil)

// LinkedIn scrapes the public LinkedIn job search.
type LinkedIn struct {
	listings ListingSource
	pages    model.PageFetcher
	tagger   model.Tagger
	conv     *md.Converter
	opts     Options
	now      func() time.Time
	logger   *slog.Logger
}

// NewLinkedIn creates a scraper that reads search results from listings and
// detail pages from pages. tagger may be nil to skip tagging.
func NewLinkedIn(listings ListingSource, pages model.PageFetcher, tagger model.Tagger, opts Options, logger *slog.Logger) *LinkedIn {
	if opts.SearchURL == "" {
		opts.SearchURL = DefaultSearchURL
	}
	if opts.Concurrency < 1 {
		opts.Concurrency = DefaultConcurrency
	}
	return &LinkedIn{
		listings: listings,
		pages:    pages,
		tagger:   tagger,
		conv:     newConverter(),
		opts:     opts,
		now:      time.Now,
		logger:   logger,
	}
}

// Collect runs one search per location and concatenates the cards. A failing
// location is logged and skipped; the call fails only when all of them do.
func (s *LinkedIn) Collect(ctx context.Context, keyword string, locations []string) ([]model.Candidate, error) {
	var (
		all  []model.Candidate
		errs []error
	)
	for _, loc := range locations {
		u := SearchURL(s.opts.SearchURL, keyword, loc, s.opts.Window)
		cands, err := s.listings.Listings(ctx, u)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			s.logger.Warn("search failed, skipping location", "location", loc, "error", err)
			errs = append(errs, fmt.Errorf("location %q: %w", loc, err))
			continue
		}
		s.logger.Debug("search collected", "location", loc, "candidates", len(cands))
		all = append(all, cands...)
	}
	if len(locations) > 0 && len(errs) == len(locations) {
		return nil, fmt.Errorf("%w: %w", model.ErrCollect, errors.Join(errs...))
	}
	return all, nil
}

// Parse fetches each candidate's detail page, keeps the ones mentioning
// keyword and tags them. Candidates that resolve to the same canonical link
// are processed once. Output order follows input order.
func (s *LinkedIn) Parse(ctx context.Context, keyword string, candidates []model.Candidate) ([]model.Job, error) {
	match := filter.NewKeywordFilter(keyword)
	results := make([]*model.Job, len(candidates))
	seen := make(map[string]bool, len(candidates))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.opts.Concurrency)
	for i, c := range candidates {
		link := CanonicalLink(c.DetailLink, s.opts.CanonicalHost)
		if seen[link] {
			continue
		}
		seen[link] = true

		g.Go(func() error {
			job, ok, err := s.extract(gctx, c, link)
			if err != nil || !ok {
				return err
			}
			if !match.Match(job) {
				s.logger.Debug("job filtered out", "job_title", job.Title, "keyword", keyword)
				return nil
			}
			if s.tagger != nil {
				job.Tags = s.tagger.Tag(gctx, job)
			}
			results[i] = &job
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	jobs := make([]model.Job, 0, len(candidates))
	for _, j := range results {
		if j != nil {
			jobs = append(jobs, *j)
		}
	}
	return jobs, nil
}

// extract fetches and parses one detail page. ok is false when the candidate
// should be skipped without failing the run.
func (s *LinkedIn) extract(ctx context.Context, c model.Candidate, link string) (model.Job, bool, error) {
	body, err := s.pages.Fetch(ctx, link)
	if err != nil {
		var httpErr *model.HTTPError
		if errors.As(err, &httpErr) {
			s.logger.Warn("detail page unavailable, skipping", "job_title", c.Title, "url", link, "status", httpErr.StatusCode)
			return model.Job{}, false, nil
		}
		return model.Job{}, false, fmt.Errorf("%w: %s: %w", model.ErrFetch, link, err)
	}

	d, err := parseDetail(body, s.now(), s.conv)
	if err != nil {
		s.logger.Warn("detail page unparseable, skipping", "job_title", c.Title, "url", link, "error", err)
		return model.Job{}, false, nil
	}

	return model.Job{
		Title:         c.Title,
		Company:       c.Company,
		Location:      c.Location,
		Description:   d.description,
		ApplyLink:     link,
		PostedAt:      d.postedAt,
		RelativeLabel: d.label,
	}, true, nil
}

// Format orders jobs oldest first and tidies descriptions. The sort is stable
// so jobs with equal timestamps keep their extraction order.
func (s *LinkedIn) Format(jobs []model.Job) []model.Job {
	out := make([]model.Job, len(jobs))
	copy(out, jobs)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].PostedAt.Before(out[j].PostedAt)
	})
	for i := range out {
		out[i].Description = strings.TrimSpace(LimitNewlines(out[i].Description))
	}
	return out
}

// Run executes the collect, parse and format stages in order.
func Run(ctx context.Context, s model.Scraper, keyword string, locations []string, logger *slog.Logger) ([]model.Job, error) {
	cands, err := s.Collect(ctx, keyword, locations)
	if err != nil {
		return nil, err
	}
	jobs, err := s.Parse(ctx, keyword, cands)
	if err != nil {
		return nil, err
	}
	jobs = s.Format(jobs)
	logger.Info("scrape complete", "keyword", keyword, "candidates", len(cands), "jobs", len(jobs))
	return jobs, nil
}
