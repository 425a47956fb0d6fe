package scraper

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/PuerkitoBio/goquery"
)

const (
	postedSelector      = "span.posted-time-ago__text"
	descriptionSelector = "div.description__text.description__text--rich"
)

// detail is what a posting's detail page contributes to a job.
type detail struct {
	label       string
	postedAt    time.Time
	description string
}

// parseDetail extracts the posted time and the markdown description from a
// detail page body.
func parseDetail(body []byte, now time.Time, conv *md.Converter) (detail, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return detail{}, fmt.Errorf("parse detail page: %w", err)
	}

	d := detail{label: UnknownLabel, postedAt: now}
	if label := cleanText(doc.Find(postedSelector).First().Text()); label != "" {
		d.postedAt = postedAt(label, now)
		d.label = displayLabel(label)
	}

	doc.Find("button").Each(func(_ int, b *goquery.Selection) {
		switch strings.TrimSpace(b.Text()) {
		case "Show more", "Show less":
			b.Remove()
		}
	})

	desc := doc.Find(descriptionSelector).First()
	if desc.Length() == 0 {
		return d, nil
	}
	html, err := goquery.OuterHtml(desc)
	if err != nil {
		return detail{}, fmt.Errorf("render description: %w", err)
	}
	markdown, err := conv.ConvertString(html)
	if err != nil {
		return detail{}, fmt.Errorf("convert description: %w", err)
	}
	d.description = cleanMarkdown(markdown)
	return d, nil
}
