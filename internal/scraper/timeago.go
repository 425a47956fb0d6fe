package scraper

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// UnknownLabel is shown when a detail page has no posted-time text.
const UnknownLabel = "Unknown"

var firstNumber = regexp.MustCompile(`\d+`)

// postedAt converts a relative label such as "3 hours ago" into an absolute
// timestamp measured back from now. Labels without a number count as zero.
// Units other than minutes, hours and days leave the timestamp at now.
func postedAt(label string, now time.Time) time.Time {
	n := 0
	if m := firstNumber.FindString(label); m != "" {
		n, _ = strconv.Atoi(m)
	}

	lower := strings.ToLower(label)
	var unit time.Duration
	switch {
	case strings.Contains(lower, "minute"):
		unit = time.Minute
	case strings.Contains(lower, "hour"):
		unit = time.Hour
	case strings.Contains(lower, "day"):
		unit = 24 * time.Hour
	}
	return now.Add(-time.Duration(n) * unit)
}

// displayLabel rewrites labels for display. "1 day ago" reads as "24 hours ago".
func displayLabel(label string) string {
	if strings.EqualFold(strings.TrimSpace(label), "1 day ago") {
		return "24 hours ago"
	}
	return label
}
