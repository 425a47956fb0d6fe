package model

import (
	"context"
	"strings"
	"time"
)

// Candidate is a listing card scraped from a search results page, before its
// detail page has been fetched.
type Candidate struct {
	Title      string
	Company    string
	Location   string
	DetailLink string // raw link from the card, may carry a locale subdomain
}

// Job is a normalized posting ready for formatting and delivery.
type Job struct {
	Title         string
	Company       string
	Location      string
	Description   string    // constrained markdown: *bold*, _italic_, `code`
	ApplyLink     string    // canonical URL (locale prefix and tracking stripped)
	PostedAt      time.Time // derived from the relative label at extraction time
	RelativeLabel string    // e.g. "24 hours ago", "Unknown"
	Tags          string    // space-joined hashtags, possibly empty
}

// Message renders the job as the markdown document that gets chunked and sent.
func (j Job) Message() string {
	var b strings.Builder
	b.WriteString("*" + EscapeMarkdown(j.Title) + "*\n\n")
	b.WriteString("🏢 " + EscapeMarkdown(j.Company) + "\n")
	b.WriteString("📍 " + EscapeMarkdown(j.Location) + "\n")
	b.WriteString("🕒 " + EscapeMarkdown(j.RelativeLabel) + "\n")
	if j.Tags != "" {
		b.WriteString("\n" + EscapeMarkdown(j.Tags) + "\n")
	}
	if j.Description != "" {
		b.WriteString("\n" + j.Description)
	}
	return b.String()
}

var markdownEscaper = strings.NewReplacer(
	`\`, `\\`,
	"*", `\*`,
	"_", `\_`,
	"`", "\\`",
	"[", `\[`,
)

// EscapeMarkdown backslash-escapes the characters Telegram's legacy markdown
// treats as entity delimiters.
func EscapeMarkdown(s string) string {
	return markdownEscaper.Replace(s)
}

// Scraper turns a keyword and a set of locations into an ordered list of jobs.
// Implementations split the work into collect, parse and format stages.
type Scraper interface {
	Collect(ctx context.Context, keyword string, locations []string) ([]Candidate, error)
	Parse(ctx context.Context, keyword string, candidates []Candidate) ([]Job, error)
	Format(jobs []Job) []Job
}

// JobStore tracks which apply links have already been delivered.
type JobStore interface {
	HasSeen(link string) (bool, error)
	MarkSeen(link string) error
	Cleanup(olderThan time.Duration) error
}

// Deliverer sends a batch of formatted jobs to a chat destination.
type Deliverer interface {
	Deliver(ctx context.Context, dest string, jobs []Job) error
}

// Tagger classifies a job into hashtags. It never fails: an empty string means
// no tags could be produced.
type Tagger interface {
	Tag(ctx context.Context, job Job) string
}

// PageFetcher retrieves the raw body of a web page.
type PageFetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}
