package scraper

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/amishk599/jobcast/internal/model"
	"github.com/amishk599/jobcast/internal/ratelimit"
)

func TestSearchURL(t *testing.T) {
	got := SearchURL(DefaultSearchURL, "Go Developer", "Berlin, Germany", 24*time.Hour)
	u, err := url.Parse(got)
	if err != nil {
		t.Fatalf("unparseable url %q: %v", got, err)
	}
	if u.Host != "www.linkedin.com" || u.Path != "/jobs/search" {
		t.Errorf("unexpected base: %s", got)
	}
	q := u.Query()
	if q.Get("keywords") != "Go Developer" {
		t.Errorf("keywords = %q", q.Get("keywords"))
	}
	if q.Get("location") != "Berlin, Germany" {
		t.Errorf("location = %q", q.Get("location"))
	}
	if q.Get("f_TPR") != "r86400" {
		t.Errorf("f_TPR = %q, want r86400", q.Get("f_TPR"))
	}
}

func TestSearchURL_NoWindow(t *testing.T) {
	got := SearchURL("https://example.com/search", "go", "remote", 0)
	u, _ := url.Parse(got)
	if u.Query().Has("f_TPR") {
		t.Errorf("f_TPR should be omitted without a window: %s", got)
	}
}

func wantCandidates(t *testing.T, got []model.Candidate) {
	t.Helper()
	if len(got) != 2 {
		t.Fatalf("expected 2 candidates, got %d: %+v", len(got), got)
	}
	want := model.Candidate{
		Title:      "Senior Go Engineer",
		Company:    "Acme",
		Location:   "Berlin, Germany",
		DetailLink: "https://de.linkedin.com/jobs/view/senior-go-engineer-1?trk=public",
	}
	if got[0] != want {
		t.Errorf("first candidate = %+v, want %+v", got[0], want)
	}
	if got[1].Title != "Platform Engineer" || got[1].Company != "Globex" {
		t.Errorf("second candidate = %+v", got[1])
	}
}

var fixtureCards = []card{
	{title: "Senior Go Engineer", company: "Acme", location: "Berlin, Germany", link: "https://de.linkedin.com/jobs/view/senior-go-engineer-1?trk=public"},
	{title: "No Link Card", company: "Initech", location: "Remote"},
	{title: "Platform Engineer", company: "Globex", location: "Munich", link: "https://www.linkedin.com/jobs/view/platform-engineer-2"},
}

func TestHTMLListingSource_ParsesCards(t *testing.T) {
	const searchURL = "https://www.linkedin.com/jobs/search?keywords=go"
	pages := &fakePages{bodies: map[string]string{searchURL: searchPage(fixtureCards...)}}

	got, err := NewHTMLListingSource(pages).Listings(context.Background(), searchURL)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	wantCandidates(t, got)
}

func TestHTMLListingSource_EmptyPage(t *testing.T) {
	pages := &fakePages{bodies: map[string]string{"u": "<html><body>No results</body></html>"}}
	got, err := NewHTMLListingSource(pages).Listings(context.Background(), "u")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("expected no candidates, got %d", len(got))
	}
}

func TestHTMLListingSource_FetchError(t *testing.T) {
	pages := &fakePages{errs: map[string]error{"u": &model.HTTPError{StatusCode: 500}}}
	_, err := NewHTMLListingSource(pages).Listings(context.Background(), "u")
	var httpErr *model.HTTPError
	if !errors.As(err, &httpErr) {
		t.Fatalf("expected HTTPError, got %v", err)
	}
}

func TestCollyListingSource_ParsesCards(t *testing.T) {
	var gotUA string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write([]byte(searchPage(fixtureCards...)))
	}))
	defer srv.Close()

	src := NewCollyListingSource(srv.Client(), "jobcast-test", ratelimit.NewHostLimiter(100, 2))
	got, err := src.Listings(context.Background(), srv.URL+"/jobs/search?keywords=go")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	wantCandidates(t, got)
	if gotUA != "jobcast-test" {
		t.Errorf("User-Agent = %q", gotUA)
	}

	// A second visit to the same URL must not be deduplicated away.
	again, err := src.Listings(context.Background(), srv.URL+"/jobs/search?keywords=go")
	if err != nil {
		t.Fatalf("second visit: %v", err)
	}
	if len(again) != 2 {
		t.Errorf("second visit returned %d candidates, want 2", len(again))
	}
}

func TestCollyListingSource_StatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Retry-After", "3")
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	_, err := NewCollyListingSource(srv.Client(), "", nil).Listings(context.Background(), srv.URL)
	var httpErr *model.HTTPError
	if !errors.As(err, &httpErr) {
		t.Fatalf("expected HTTPError, got %v", err)
	}
	if httpErr.StatusCode != http.StatusServiceUnavailable {
		t.Errorf("StatusCode = %d, want 503", httpErr.StatusCode)
	}
	if httpErr.RetryAfter != 3*time.Second {
		t.Errorf("RetryAfter = %v, want 3s", httpErr.RetryAfter)
	}
}

func TestCollyListingSource_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewCollyListingSource(nil, "", nil).Listings(ctx, "http://127.0.0.1:1/")
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestCollyListingSource_CancelAbortsInFlightVisit(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-release:
		}
	}))
	defer srv.Close()
	defer close(release)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	// The client has no timeout of its own; only ctx can end the visit.
	start := time.Now()
	_, err := NewCollyListingSource(&http.Client{}, "", nil).Listings(ctx, srv.URL)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected context.DeadlineExceeded, got %v", err)
	}
	if elapsed := time.Since(start); elapsed > 5*time.Second {
		t.Errorf("visit returned after %v, want prompt return on cancel", elapsed)
	}
}
