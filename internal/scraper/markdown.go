package scraper

import (
	"regexp"
	"strings"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/PuerkitoBio/goquery"
)

var (
	loneStars       = regexp.MustCompile(`(?m)^(?:\s*\*\s*\*\s*)+$`)
	loneUnderscores = regexp.MustCompile(`(?m)^(?:\s*_\s*_\s*)+$`)
	blankRuns       = regexp.MustCompile(`(\s*\n\s*){5,}`)
)

// newConverter returns an html-to-markdown converter that emits the single
// asterisk bold Telegram expects.
func newConverter() *md.Converter {
	conv := md.NewConverter("", true, nil)
	conv.AddRules(md.Rule{
		Filter: []string{"strong", "b"},
		Replacement: func(content string, _ *goquery.Selection, _ *md.Options) *string {
			trimmed := strings.TrimSpace(content)
			if trimmed == "" {
				return md.String("")
			}
			lead := content[:len(content)-len(strings.TrimLeft(content, " \t\n"))]
			trail := content[len(strings.TrimRight(content, " \t\n")):]
			return md.String(lead + "*" + trimmed + "*" + trail)
		},
	})
	return conv
}

// cleanMarkdown removes the empty emphasis lines conversion leaves behind and
// collapses long runs of blank lines.
func cleanMarkdown(s string) string {
	s = loneStars.ReplaceAllString(s, " ")
	s = loneUnderscores.ReplaceAllString(s, " ")
	return LimitNewlines(s)
}

// LimitNewlines collapses more than four consecutive blank or whitespace-only
// lines into exactly four newlines.
func LimitNewlines(s string) string {
	return blankRuns.ReplaceAllString(s, "\n\n\n\n")
}
