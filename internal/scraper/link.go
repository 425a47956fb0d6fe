package scraper

import (
	"net/url"
	"regexp"
	"strings"
)

var localeLabel = regexp.MustCompile(`^[a-z]{2}\.`)

// CanonicalLink normalizes a posting link so the same posting always maps to
// the same URL. A leading two-letter locale label is removed from the host and
// the query and fragment are dropped. When the resulting host is the bare form
// of canonicalHost, canonicalHost is used instead.
func CanonicalLink(raw, canonicalHost string) string {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || u.Host == "" {
		return raw
	}

	host := strings.ToLower(u.Host)
	if loc := localeLabel.FindString(host); loc != "" && strings.Contains(host[len(loc):], ".") {
		host = host[len(loc):]
	}
	if canonicalHost != "" && bareHost(host) == bareHost(canonicalHost) {
		host = strings.ToLower(canonicalHost)
	}

	u.Host = host
	u.RawQuery = ""
	u.ForceQuery = false
	u.Fragment = ""
	u.RawFragment = ""
	return u.String()
}

func bareHost(host string) string {
	return strings.TrimPrefix(strings.ToLower(host), "www.")
}
