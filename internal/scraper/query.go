package scraper

import (
	"errors"
	"strings"
	"unicode"
)

// ErrInvalidQuery is returned when a search query is not "Title, Location".
var ErrInvalidQuery = errors.New(`query must look like "Title, Location"`)

// ParseQuery splits a "Title, Location" search query. Neither part may be
// empty or contain digits.
func ParseQuery(q string) (keyword, location string, err error) {
	title, loc, ok := strings.Cut(q, ",")
	if !ok {
		return "", "", ErrInvalidQuery
	}
	title = strings.TrimSpace(title)
	loc = strings.TrimSpace(loc)
	if title == "" || loc == "" || hasDigit(title) || hasDigit(loc) {
		return "", "", ErrInvalidQuery
	}
	return title, loc, nil
}

func hasDigit(s string) bool {
	return strings.IndexFunc(s, unicode.IsDigit) >= 0
}
