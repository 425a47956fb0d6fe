package scraper

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gocolly/colly/v2"

	"github.com/amishk599/jobcast/internal/model"
	"github.com/amishk599/jobcast/internal/ratelimit"
)

// Ensure CollyListingSource implements ListingSource.
var _ ListingSource = (*CollyListingSource)(nil)

// CollyListingSource collects search result cards with a colly collector
// instead of fetching and parsing the page by hand.
type CollyListingSource struct {
	client    *http.Client
	userAgent string
	limiter   *ratelimit.HostLimiter
}

// NewCollyListingSource creates a colly-backed listing source. client may be
// nil to use colly's default transport, and limiter nil to visit unpaced.
func NewCollyListingSource(client *http.Client, userAgent string, limiter *ratelimit.HostLimiter) *CollyListingSource {
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}
	return &CollyListingSource{client: client, userAgent: userAgent, limiter: limiter}
}

// Listings visits searchURL and returns every card that has a detail link.
// A fresh collector is used per call so repeat visits are never deduplicated.
func (s *CollyListingSource) Listings(ctx context.Context, searchURL string) ([]model.Candidate, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s.limiter != nil {
		if err := s.limiter.Wait(ctx, searchURL); err != nil {
			return nil, err
		}
	}

	c := colly.NewCollector(
		colly.UserAgent(s.userAgent),
		colly.StdlibContext(ctx),
	)
	if s.client != nil {
		c.SetClient(s.client)
	}

	var (
		out      []model.Candidate
		fetchErr error
	)
	c.OnHTML(cardSelector, func(e *colly.HTMLElement) {
		link := e.ChildAttr(linkSelector, "href")
		if link == "" {
			return
		}
		out = append(out, model.Candidate{
			Title:      cleanText(e.ChildText(titleSelector)),
			Company:    cleanText(e.ChildText(companySelector)),
			Location:   cleanText(e.ChildText(locationSelector)),
			DetailLink: link,
		})
	})
	c.OnError(func(r *colly.Response, err error) {
		if r != nil && r.StatusCode != 0 {
			retryAfter := ""
			if r.Headers != nil {
				retryAfter = r.Headers.Get("Retry-After")
			}
			fetchErr = &model.HTTPError{
				StatusCode: r.StatusCode,
				RetryAfter: parseRetryAfter(retryAfter),
				Err:        fmt.Errorf("collect %s: %w", searchURL, err),
			}
			return
		}
		fetchErr = fmt.Errorf("collect %s: %w", searchURL, err)
	})

	err := c.Visit(searchURL)
	c.Wait()
	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, ctxErr
	}
	if fetchErr != nil {
		return nil, fetchErr
	}
	if err != nil {
		return nil, fmt.Errorf("collect %s: %w", searchURL, err)
	}
	return out, nil
}
