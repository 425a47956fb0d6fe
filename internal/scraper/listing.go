package scraper

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/amishk599/jobcast/internal/model"
)

// DefaultSearchURL is LinkedIn's public (guest) job search page.
const DefaultSearchURL = "https://www.linkedin.com/jobs/search"

// Selectors for a search result card.
const (
	cardSelector     = "div.base-search-card.job-search-card"
	titleSelector    = "h3.base-search-card__title"
	companySelector  = "h4.base-search-card__subtitle"
	locationSelector = "span.job-search-card__location"
	linkSelector     = "a.base-card__full-link"
)

// ListingSource extracts candidate postings from one search results page.
type ListingSource interface {
	Listings(ctx context.Context, searchURL string) ([]model.Candidate, error)
}

// SearchURL builds the search page URL for keyword in location, restricted to
// postings newer than window.
func SearchURL(base, keyword, location string, window time.Duration) string {
	q := url.Values{}
	q.Set("keywords", keyword)
	q.Set("location", location)
	if window > 0 {
		q.Set("f_TPR", fmt.Sprintf("r%d", int64(window/time.Second)))
	}
	return base + "?" + q.Encode()
}

// Ensure HTMLListingSource implements ListingSource.
var _ ListingSource = (*HTMLListingSource)(nil)

// HTMLListingSource fetches a search page and parses its cards with goquery.
type HTMLListingSource struct {
	pages model.PageFetcher
}

// NewHTMLListingSource creates a listing source on top of a page fetcher.
func NewHTMLListingSource(pages model.PageFetcher) *HTMLListingSource {
	return &HTMLListingSource{pages: pages}
}

// Listings fetches searchURL and returns every card that has a detail link.
func (s *HTMLListingSource) Listings(ctx context.Context, searchURL string) ([]model.Candidate, error) {
	body, err := s.pages.Fetch(ctx, searchURL)
	if err != nil {
		return nil, err
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse search page: %w", err)
	}
	return parseCards(doc.Selection), nil
}

func parseCards(root *goquery.Selection) []model.Candidate {
	var out []model.Candidate
	root.Find(cardSelector).Each(func(_ int, card *goquery.Selection) {
		link, _ := card.Find(linkSelector).First().Attr("href")
		link = strings.TrimSpace(link)
		if link == "" {
			return
		}
		out = append(out, model.Candidate{
			Title:      cleanText(card.Find(titleSelector).First().Text()),
			Company:    cleanText(card.Find(companySelector).First().Text()),
			Location:   cleanText(card.Find(locationSelector).First().Text()),
			DetailLink: link,
		})
	})
	return out
}

// cleanText trims and collapses internal whitespace runs.
func cleanText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
