package filter

import (
	"strings"

	"github.com/amishk599/jobcast/internal/model"
)

// KeywordFilter matches jobs whose title or description contains the search
// keyword. Matching is case-insensitive. An empty keyword matches everything.
type KeywordFilter struct {
	keyword string
}

// NewKeywordFilter returns a filter for keyword (case-insensitive substring).
func NewKeywordFilter(keyword string) *KeywordFilter {
	return &KeywordFilter{keyword: strings.ToLower(strings.TrimSpace(keyword))}
}

// Match reports whether the job's title or description mentions the keyword.
func (f *KeywordFilter) Match(job model.Job) bool {
	if f.keyword == "" {
		return true
	}
	return strings.Contains(strings.ToLower(job.Title), f.keyword) ||
		strings.Contains(strings.ToLower(job.Description), f.keyword)
}
