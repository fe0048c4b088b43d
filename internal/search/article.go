package search

import (
	"net/url"
	"regexp"
	"strings"
)

const removedTitle = "[Removed]"

// truncationMarker matches the "[+1234 chars]" tail NewsAPI appends to content
var truncationMarker = regexp.MustCompile(`\s*…?\s*\[\+\d+ chars\]\s*$`)

// Valid reports whether the article can be displayed and summarized
func (a Article) Valid() bool {
	title := strings.TrimSpace(a.Title)
	if title == "" || title == removedTitle {
		return false
	}
	if !WellFormedURL(a.URL) {
		return false
	}
	return strings.TrimSpace(a.Description) != "" || strings.TrimSpace(a.Content) != ""
}

// Truncated reports whether the API cut the article content short
func (a Article) Truncated() bool {
	return truncationMarker.MatchString(a.Content)
}

// Text returns the best text the API gave us for the article: the content
// without its truncation tail, or the description when there is no content
func (a Article) Text() string {
	content := strings.TrimSpace(truncationMarker.ReplaceAllString(a.Content, ""))
	if content != "" {
		return content
	}
	return strings.TrimSpace(a.Description)
}

// WellFormedURL reports whether raw is an absolute http(s) URL with a host
func WellFormedURL(raw string) bool {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
