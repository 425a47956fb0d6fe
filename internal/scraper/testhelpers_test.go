package scraper

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type card struct {
	title, company, location, link string
}

func searchPage(cards ...card) string {
	var b strings.Builder
	b.WriteString(`<html><body><ul class="jobs-search__results-list">`)
	for _, c := range cards {
		fmt.Fprintf(&b, `<li><div class="base-card base-search-card job-search-card">`)
		if c.link != "" {
			fmt.Fprintf(&b, `<a class="base-card__full-link" href="%s"><span class="sr-only">%s</span></a>`, c.link, c.title)
		}
		fmt.Fprintf(&b, `<div class="base-search-card__info">
  <h3 class="base-search-card__title">
    %s
  </h3>
  <h4 class="base-search-card__subtitle"><a>%s</a></h4>
  <div class="base-search-card__metadata"><span class="job-search-card__location">%s</span></div>
</div></div></li>`, c.title, c.company, c.location)
	}
	b.WriteString(`</ul></body></html>`)
	return b.String()
}

func detailPage(label, descriptionHTML string) string {
	var b strings.Builder
	b.WriteString(`<html><body><section class="top-card-layout">`)
	if label != "" {
		fmt.Fprintf(&b, `<span class="posted-time-ago__text topcard__flavor--metadata">  %s  </span>`, label)
	}
	b.WriteString(`</section>`)
	fmt.Fprintf(&b, `<div class="show-more-less-html__markup description__text description__text--rich">%s
<button class="show-more-less-html__button">
  Show more
</button>
<button class="show-more-less-html__button">Show less</button>
</div></body></html>`, descriptionHTML)
	return b.String()
}

// fakePages serves canned bodies or errors by URL.
type fakePages struct {
	mu     sync.Mutex
	bodies map[string]string
	errs   map[string]error
	calls  []string
}

func (f *fakePages) Fetch(_ context.Context, url string) ([]byte, error) {
	f.mu.Lock()
	f.calls = append(f.calls, url)
	f.mu.Unlock()
	if err, ok := f.errs[url]; ok {
		return nil, err
	}
	body, ok := f.bodies[url]
	if !ok {
		return nil, fmt.Errorf("no fixture for %s", url)
	}
	return []byte(body), nil
}
